package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
)

func TestParseMigrateFlags(t *testing.T) {
	opts, err := parseMigrateFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultMigrationTimeout, opts.Timeout)

	opts, err = parseMigrateFlags([]string{"-timeout", "30s"})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, opts.Timeout)

	_, err = parseMigrateFlags([]string{"-timeout", "0s"})
	require.Error(t, err)
}

func TestCredentialFlags_PasswordFromEnv(t *testing.T) {
	t.Setenv(passwordEnv, "rahasia")

	creds := credentialFlags{User: " kepsek "}
	require.NoError(t, creds.validate())
	assert.Equal(t, "kepsek", creds.User)
	assert.Equal(t, "rahasia", creds.Password)
}

func TestCredentialFlags_Missing(t *testing.T) {
	t.Setenv(passwordEnv, "")

	creds := credentialFlags{User: "kepsek"}
	require.Error(t, creds.validate())
}

func TestParseImportFlags(t *testing.T) {
	t.Setenv(passwordEnv, "")

	_, err := parseImportFlags([]string{"-u", "admin", "-p", "x"})
	require.ErrorContains(t, err, "-file")

	opts, err := parseImportFlags([]string{"-file", "siswa.xlsx", "-u", "admin", "-p", "adminpassword"})
	require.NoError(t, err)
	assert.Equal(t, "siswa.xlsx", opts.File)
	assert.Equal(t, "admin", opts.Creds.User)
}

func TestParseExportFlags(t *testing.T) {
	opts, err := parseExportFlags([]string{
		"-out", "laporan.xlsx", "-from", "2024-01-01", "-to", "2024-01-31",
		"-student", "s1", "-u", "guru", "-p", "gurupassword",
	})
	require.NoError(t, err)
	assert.Equal(t, "laporan.xlsx", opts.Out)
	assert.Zero(t, opts.List.Limit)
	require.NotNil(t, opts.List.From)
	require.NotNil(t, opts.List.To)
	assert.Equal(t, "2024-02-01", opts.List.To.Format(time.DateOnly))
	require.NotNil(t, opts.List.StudentID)
	assert.Equal(t, "s1", *opts.List.StudentID)
	assert.Nil(t, opts.List.ViolationTypeID)
}

func TestParseExportFlags_Invalid(t *testing.T) {
	cases := map[string][]string{
		"missing out":  {"-u", "guru", "-p", "x"},
		"bad from":     {"-out", "a.xlsx", "-from", "01/02/2024", "-u", "guru", "-p", "x"},
		"inverted":     {"-out", "a.xlsx", "-from", "2024-02-01", "-to", "2024-01-01", "-u", "guru", "-p", "x"},
		"unknown flag": {"-out", "a.xlsx", "-bogus"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseExportFlags(args)
			require.Error(t, err)
		})
	}
}

func TestReadStudentFile_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siswa.json")
	body := `[{"name":"Budi","class_name":"7A"},{"name":"Sari","class_name":"8B","nis":"1002"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	reqs, err := readStudentFile(path)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "Budi", reqs[0].Name)
	assert.Equal(t, "8B", reqs[1].ClassName)
}

func TestReadStudentFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siswa.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,class\n"), 0o600))

	_, err := readStudentFile(path)
	require.ErrorContains(t, err, "unsupported file type")
}

func TestPrintUsage_ListsCommandsSorted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printUsage(&buf))

	out := buf.String()
	for name := range commands() {
		assert.Contains(t, out, name)
	}
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("export-violations")), bytes.Index(buf.Bytes(), []byte("whoami")))
}

func TestRequireRole(t *testing.T) {
	guru := &domainauth.User{ID: "2", Username: "guru", Role: domainauth.RoleDutyTeacher}

	require.NoError(t, requireRole(guru, domainauth.RoleAdmin, domainauth.RoleDutyTeacher))
	require.ErrorIs(t, requireRole(guru, domainauth.RoleAdmin), errForbidden)
	require.ErrorIs(t, requireRole(nil, domainauth.RoleAdmin), errForbidden)
}

func TestPrintUser(t *testing.T) {
	var buf bytes.Buffer
	cmdCtx := &commandContext{Stdout: &buf}
	require.NoError(t, printUser(cmdCtx, &domainauth.User{ID: "u1", Username: "admin", Role: domainauth.RoleAdmin}))
	assert.Contains(t, buf.String(), "role:     ADMIN")
}
