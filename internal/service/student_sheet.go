package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

// Header aliases accepted in roster spreadsheets, matched case-insensitively.
var studentSheetHeaders = map[string][]string{
	"name":           {"nama", "nama siswa", "name"},
	"class_name":     {"kelas", "class", "class_name"},
	"nis":            {"nis", "nisn"},
	"gender":         {"jenis kelamin", "jk", "l/p", "gender"},
	"parent_contact": {"kontak orang tua", "no. hp orang tua", "kontak", "parent_contact"},
}

// ParseStudentSheet reads roster rows from the first sheet of an XLSX workbook.
// The first row is the header; columns may appear in any order. Blank rows are skipped.
func ParseStudentSheet(r io.Reader) ([]model.CreateStudentRequest, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Berkas Excel tidak dapat dibaca.")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "Lembar kerja tidak dapat dibaca.")
	}
	if len(rows) == 0 {
		return nil, apperrors.Validation("Berkas Excel kosong.")
	}

	cols := sheetColumns(rows[0])
	if cols["name"] < 0 || cols["class_name"] < 0 {
		return nil, apperrors.Validation("Kolom \"Nama\" dan \"Kelas\" wajib ada pada baris pertama.")
	}

	out := make([]model.CreateStudentRequest, 0, len(rows)-1)
	for _, row := range rows[1:] {
		req := model.CreateStudentRequest{
			Name:      cellAt(row, cols["name"]),
			ClassName: cellAt(row, cols["class_name"]),
		}
		if req.Name == "" && req.ClassName == "" {
			continue
		}
		if v := cellAt(row, cols["nis"]); v != "" {
			req.NIS = &v
		}
		if v := cellAt(row, cols["parent_contact"]); v != "" {
			req.ParentContact = &v
		}
		if g, ok := parseGender(cellAt(row, cols["gender"])); ok {
			req.Gender = &g
		}
		out = append(out, req)
	}
	return out, nil
}

func sheetColumns(header []string) map[string]int {
	cols := make(map[string]int, len(studentSheetHeaders))
	for field := range studentSheetHeaders {
		cols[field] = -1
	}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for field, aliases := range studentSheetHeaders {
			if cols[field] >= 0 {
				continue
			}
			for _, a := range aliases {
				if h == a {
					cols[field] = i
				}
			}
		}
	}
	return cols
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseGender(v string) (model.Gender, bool) {
	switch strings.ToLower(v) {
	case "l", "laki-laki", "laki laki", "pria":
		return model.GenderMale, true
	case "p", "perempuan", "wanita":
		return model.GenderFemale, true
	default:
		return "", false
	}
}

// WriteStudentSheet writes students in the layout ParseStudentSheet reads.
func WriteStudentSheet(w io.Writer, students []*model.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := []any{"Nama", "Kelas", "NIS", "Jenis Kelamin", "Kontak Orang Tua"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, st := range students {
		row := []any{st.Name, st.ClassName, deref(st.NIS), "", deref(st.ParentContact)}
		if st.Gender != nil {
			row[3] = string(*st.Gender)
		}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
