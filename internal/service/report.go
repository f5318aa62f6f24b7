package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/domain/model"
	apperrors "github.com/spps-sekolah/spps-api/internal/errors"
)

const (
	reportSheet      = "Pelanggaran"
	reportHeaderRow  = 4
	reportDateLayout = "02-01-2006"
	missingRef       = "-"

	// reportPageSize stays within the ledger repository's per-query cap.
	reportPageSize = 1000
	// DefaultReportMaxRows bounds a single workbook.
	DefaultReportMaxRows = 10000
)

var reportColumns = []struct {
	title string
	width float64
}{
	{"Tanggal", 12},
	{"Nama Siswa", 28},
	{"Kelas", 8},
	{"Jenis Pelanggaran", 30},
	{"Poin", 6},
	{"Catatan", 40},
}

// ReportServiceOptions groups dependencies for ReportService.
type ReportServiceOptions struct {
	Violations  core.ViolationRepository
	Students    core.StudentRepository
	Types       core.ViolationTypeRepository
	Preferences *PreferenceService
	// Location renders dates. Defaults to time.Local.
	Location *time.Location
	// MaxRows caps the entries in one workbook. Defaults to DefaultReportMaxRows.
	MaxRows int
	Logger  *slog.Logger
}

// ReportStats describes a rendered workbook.
type ReportStats struct {
	Rows int
	// Truncated is set when the filtered range held more than MaxRows entries.
	Truncated bool
}

// ReportService renders the violation ledger as a spreadsheet.
type ReportService struct {
	violations core.ViolationRepository
	students   core.StudentRepository
	types      core.ViolationTypeRepository
	prefs      *PreferenceService
	loc        *time.Location
	maxRows    int
	logger     *slog.Logger
}

// NewReportService constructs a new ReportService.
func NewReportService(opts ReportServiceOptions) *ReportService {
	if opts.Violations == nil || opts.Students == nil || opts.Types == nil {
		panic("violation, student and type repositories are required")
	}
	if opts.Preferences == nil {
		panic("PreferenceService is required")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultReportMaxRows
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		violations: opts.Violations,
		students:   opts.Students,
		types:      opts.Types,
		prefs:      opts.Preferences,
		loc:        loc,
		maxRows:    maxRows,
		logger:     logger.With("component", "report"),
	}
}

// WriteViolationsXLSX writes every entry matching the filters in opts as an XLSX workbook to w.
// opts.Limit and opts.Offset are ignored; the ledger is read page by page up to MaxRows entries.
func (s *ReportService) WriteViolationsXLSX(
	ctx context.Context,
	opts model.ViolationListOptions,
	w io.Writer,
) (ReportStats, error) {
	list, truncated, err := s.collect(ctx, opts)
	if err != nil {
		return ReportStats{}, err
	}
	students, err := s.students.List(ctx)
	if err != nil {
		return ReportStats{}, storeErr(err, "memuat daftar siswa")
	}
	types, err := s.types.List(ctx)
	if err != nil {
		return ReportStats{}, storeErr(err, "memuat jenis pelanggaran")
	}
	names, err := s.prefs.GetSignatureNames(ctx)
	if err != nil {
		return ReportStats{}, err
	}

	f, err := s.render(opts, list, truncated, indexStudents(students), indexTypes(types), names)
	if err != nil {
		return ReportStats{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Gagal membuat laporan.")
	}
	defer func() {
		if cErr := f.Close(); cErr != nil {
			s.logger.WarnContext(ctx, "close workbook", "error", cErr)
		}
	}()

	if err = f.Write(w); err != nil {
		return ReportStats{}, fmt.Errorf("write workbook: %w", err)
	}
	if truncated {
		s.logger.WarnContext(ctx, "violation report truncated", "max_rows", s.maxRows)
	}
	return ReportStats{Rows: len(list), Truncated: truncated}, nil
}

// collect pages through the filtered ledger. It fetches one entry past maxRows to detect truncation.
func (s *ReportService) collect(ctx context.Context, opts model.ViolationListOptions) ([]*model.Violation, bool, error) {
	var all []*model.Violation
	for len(all) <= s.maxRows {
		page := opts
		page.Offset = len(all)
		page.Limit = min(reportPageSize, s.maxRows+1-len(all))
		got, err := s.violations.List(ctx, page)
		if err != nil {
			return nil, false, storeErr(err, "memuat data pelanggaran")
		}
		all = append(all, got...)
		if len(got) < page.Limit {
			break
		}
	}
	if len(all) > s.maxRows {
		return all[:s.maxRows], true, nil
	}
	return all, false, nil
}

func (s *ReportService) render(
	opts model.ViolationListOptions,
	list []*model.Violation,
	truncated bool,
	students map[string]*model.Student,
	types map[string]string,
	names model.SignatureNames,
) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(reportSheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err = f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	last := colName(len(reportColumns))
	_ = f.SetCellValue(reportSheet, "A1", "Laporan Pelanggaran Siswa")
	_ = f.MergeCell(reportSheet, "A1", last+"1")
	_ = f.SetCellStyle(reportSheet, "A1", "A1", bold)
	_ = f.SetCellValue(reportSheet, "A2", s.periodLabel(opts))
	if truncated {
		_ = f.SetCellValue(reportSheet, "A3", fmt.Sprintf(
			"Catatan: hanya %d entri terbaru yang ditampilkan. Persempit periode untuk laporan lengkap.", len(list)))
	}

	for i, c := range reportColumns {
		col := colName(i + 1)
		_ = f.SetColWidth(reportSheet, col, col, c.width)
		_ = f.SetCellValue(reportSheet, cellName(col, reportHeaderRow), c.title)
	}
	_ = f.SetCellStyle(reportSheet, cellName("A", reportHeaderRow), cellName(last, reportHeaderRow), header)

	row := reportHeaderRow
	total := 0
	for _, v := range list {
		row++
		studentName, className := missingRef, missingRef
		if st, ok := students[v.StudentID]; ok {
			studentName, className = st.Name, st.ClassName
		}
		typeName, ok := types[v.ViolationTypeID]
		if !ok {
			typeName = missingRef
		}
		notes := ""
		if v.Notes != nil {
			notes = *v.Notes
		}
		values := []any{v.Date.In(s.loc).Format(reportDateLayout), studentName, className, typeName, v.Points, notes}
		if err = f.SetSheetRow(reportSheet, cellName("A", row), &values); err != nil {
			_ = f.Close()
			return nil, err
		}
		total += v.Points
	}

	row++
	_ = f.SetCellValue(reportSheet, cellName("D", row), "Total Poin")
	_ = f.SetCellValue(reportSheet, cellName("E", row), total)
	_ = f.SetCellStyle(reportSheet, cellName("D", row), cellName("E", row), bold)

	writeSignatures(f, row+3, names)
	return f, nil
}

// writeSignatures lays out the role captions on one row and the names four rows below.
func writeSignatures(f *excelize.File, row int, names model.SignatureNames) {
	blocks := []struct{ col, caption, name string }{
		{"A", "Kepala Sekolah", names.Principal},
		{"C", "Guru BK", names.Counselor},
		{"F", "Guru Piket", names.DutyTeacher},
	}
	for _, b := range blocks {
		_ = f.SetCellValue(reportSheet, cellName(b.col, row), b.caption)
		_ = f.SetCellValue(reportSheet, cellName(b.col, row+4), b.name)
	}
}

func (s *ReportService) periodLabel(opts model.ViolationListOptions) string {
	switch {
	case opts.From != nil && opts.To != nil:
		// To is exclusive.
		return fmt.Sprintf("Periode: %s s.d. %s",
			opts.From.In(s.loc).Format(reportDateLayout), opts.To.Add(-time.Nanosecond).In(s.loc).Format(reportDateLayout))
	case opts.From != nil:
		return "Sejak: " + opts.From.In(s.loc).Format(reportDateLayout)
	case opts.To != nil:
		return "Sampai: " + opts.To.Add(-time.Nanosecond).In(s.loc).Format(reportDateLayout)
	default:
		return "Periode: semua"
	}
}

func indexStudents(list []*model.Student) map[string]*model.Student {
	m := make(map[string]*model.Student, len(list))
	for _, st := range list {
		m[st.ID] = st
	}
	return m
}

func indexTypes(list []*model.ViolationType) map[string]string {
	m := make(map[string]string, len(list))
	for _, vt := range list {
		m[vt.ID] = vt.Name
	}
	return m
}

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cellName(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
