package service

import apperrors "github.com/spps-sekolah/spps-api/internal/errors"

// User-facing messages. Handlers and the CLI show these verbatim.
const (
	msgBadCredentials  = "Username atau password salah."
	msgLoginFailed     = "Terjadi kesalahan saat login: %s"
	msgLogoutFailed    = "Terjadi kesalahan saat logout: %s"
	msgProfileMissing  = "Data pengguna tidak ditemukan."
	msgSessionInvalid  = "Sesi tidak valid atau telah berakhir."
	msgSessionCheck    = "Terjadi kesalahan saat memeriksa sesi: %s"
	msgStudentExists   = "Siswa dengan nama \"%s\" di kelas \"%s\" sudah ada."
	msgStudentNotFound = "Siswa tidak ditemukan."
	msgTypeExists      = "Jenis pelanggaran sudah ada."
	msgTypeNotFound    = "Jenis pelanggaran tidak ditemukan."
	msgViolationGone   = "Data pelanggaran tidak ditemukan."
	msgIdentifierInUse = "Username (email) ini sudah digunakan."
	msgBadIdentifier   = "Format username (email) tidak valid."
	msgWeakPassword    = "Password terlalu lemah (minimal 6 karakter)."
	msgAddUserFailed   = "Gagal menambahkan pengguna: %s"
	msgUserNotFound    = "Pengguna tidak ditemukan."
	msgDeleteUserFail  = "Gagal menghapus pengguna: %s"
	msgUnsupported     = "Penyedia autentikasi tidak mendukung pembuatan akun."
)

// invalid wraps a request validation failure. The validator's text is already user-facing.
func invalid(err error) error {
	return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
}

// storeErr keeps AppErrors produced by the data layer and classifies anything else as internal.
func storeErr(err error, op string) error {
	if apperrors.GetCode(err) != "" {
		return err
	}
	return apperrors.Wrapf(err, apperrors.ErrCodeInternal, "Gagal %s.", op)
}
