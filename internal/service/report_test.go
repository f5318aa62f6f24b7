package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/mocks"
	"github.com/spps-sekolah/spps-api/internal/testutil"
)

func TestReportService_WriteViolationsXLSX(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	violations := mocks.NewMockViolationRepository(ctrl)
	students := mocks.NewMockStudentRepository(ctrl)
	types := mocks.NewMockViolationTypeRepository(ctrl)
	store := mocks.NewMockPreferenceRepository(ctrl)

	day := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	opts := model.ViolationListOptions{Limit: 50, Offset: 100}
	violations.EXPECT().List(ctx, model.ViolationListOptions{Limit: reportPageSize}).Return([]*model.Violation{
		{ID: "v1", StudentID: "s1", ViolationTypeID: "t1", Date: day, Points: 5, Notes: testutil.StringPtr("Datang 07:40")},
		{ID: "v2", StudentID: "gone", ViolationTypeID: "t1", Date: day.Add(-24 * time.Hour), Points: 10},
	}, nil)
	students.EXPECT().List(ctx).Return([]*model.Student{{ID: "s1", Name: "Ani", ClassName: "8B"}}, nil)
	types.EXPECT().List(ctx).Return([]*model.ViolationType{{ID: "t1", Name: "Terlambat"}}, nil)
	store.EXPECT().Get(ctx, model.SignatureNamesKey).Return([]byte(`{"principal":"Dra. Sri"}`), nil)

	svc := NewReportService(ReportServiceOptions{
		Violations:  violations,
		Students:    students,
		Types:       types,
		Preferences: NewPreferenceService(PreferenceServiceOptions{Store: store}),
		Location:    time.UTC,
	})

	var buf bytes.Buffer
	stats, err := svc.WriteViolationsXLSX(ctx, opts, &buf)
	require.NoError(t, err)
	assert.Equal(t, ReportStats{Rows: 2}, stats)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tanggal", "Nama Siswa", "Kelas", "Jenis Pelanggaran", "Poin", "Catatan"}, rows[reportHeaderRow-1])
	assert.Equal(t, []string{"05-03-2024", "Ani", "8B", "Terlambat", "5", "Datang 07:40"}, rows[reportHeaderRow])
	require.GreaterOrEqual(t, len(rows[reportHeaderRow+1]), 5)
	assert.Equal(t, []string{"04-03-2024", "-", "-", "Terlambat", "10"}, rows[reportHeaderRow+1][:5])

	total, err := f.GetCellValue(reportSheet, "E7")
	require.NoError(t, err)
	assert.Equal(t, "15", total)

	principal, err := f.GetCellValue(reportSheet, "A14")
	require.NoError(t, err)
	assert.Equal(t, "Dra. Sri", principal)
}

func newReportFixture(t *testing.T, maxRows int) (*ReportService, *mocks.MockViolationRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	violations := mocks.NewMockViolationRepository(ctrl)
	students := mocks.NewMockStudentRepository(ctrl)
	types := mocks.NewMockViolationTypeRepository(ctrl)
	store := mocks.NewMockPreferenceRepository(ctrl)
	students.EXPECT().List(gomock.Any()).Return(nil, nil)
	types.EXPECT().List(gomock.Any()).Return(nil, nil)
	store.EXPECT().Get(gomock.Any(), model.SignatureNamesKey).Return(nil, nil)

	svc := NewReportService(ReportServiceOptions{
		Violations:  violations,
		Students:    students,
		Types:       types,
		Preferences: NewPreferenceService(PreferenceServiceOptions{Store: store}),
		Location:    time.UTC,
		MaxRows:     maxRows,
	})
	return svc, violations
}

func ledgerEntries(n int) []*model.Violation {
	out := make([]*model.Violation, n)
	for i := range out {
		out[i] = &model.Violation{ID: fmt.Sprintf("v%d", i), Points: 1, Date: testutil.TestTime()}
	}
	return out
}

func TestReportService_PagesThroughRange(t *testing.T) {
	svc, violations := newReportFixture(t, 1200)
	ctx := context.Background()
	from := testutil.TestTime()
	filter := model.ViolationListOptions{From: &from}

	first := filter
	first.Limit = reportPageSize
	second := filter
	second.Offset, second.Limit = reportPageSize, 201
	gomock.InOrder(
		violations.EXPECT().List(ctx, first).Return(ledgerEntries(reportPageSize), nil),
		violations.EXPECT().List(ctx, second).Return(ledgerEntries(150), nil),
	)

	var buf bytes.Buffer
	stats, err := svc.WriteViolationsXLSX(ctx, filter, &buf)
	require.NoError(t, err)
	assert.Equal(t, ReportStats{Rows: 1150}, stats)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	total, err := f.GetCellValue(reportSheet, fmt.Sprintf("E%d", reportHeaderRow+1150+1))
	require.NoError(t, err)
	assert.Equal(t, "1150", total)
	note, err := f.GetCellValue(reportSheet, "A3")
	require.NoError(t, err)
	assert.Empty(t, note)
}

func TestReportService_TruncatesAtMaxRows(t *testing.T) {
	svc, violations := newReportFixture(t, 3)
	ctx := context.Background()
	violations.EXPECT().List(ctx, model.ViolationListOptions{Limit: 4}).Return(ledgerEntries(4), nil)

	var buf bytes.Buffer
	stats, err := svc.WriteViolationsXLSX(ctx, model.ViolationListOptions{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, ReportStats{Rows: 3, Truncated: true}, stats)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	note, err := f.GetCellValue(reportSheet, "A3")
	require.NoError(t, err)
	assert.Contains(t, note, "hanya 3 entri")
	total, err := f.GetCellValue(reportSheet, "E8")
	require.NoError(t, err)
	assert.Equal(t, "3", total)
}

func TestStudentSheet_RoundTrip(t *testing.T) {
	male := model.GenderMale
	var buf bytes.Buffer
	require.NoError(t, WriteStudentSheet(&buf, []*model.Student{
		{Name: "Ani", ClassName: "8B", NIS: testutil.StringPtr("1001")},
		{Name: "Budi", ClassName: "8B", Gender: &male},
	}))

	got, err := ParseStudentSheet(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ani", got[0].Name)
	require.NotNil(t, got[0].NIS)
	assert.Equal(t, "1001", *got[0].NIS)
	assert.Nil(t, got[0].Gender)
	require.NotNil(t, got[1].Gender)
	assert.Equal(t, model.GenderMale, *got[1].Gender)
}

func TestParseStudentSheet_HeaderAliases(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetSheetRow("Sheet1", "A1", &[]any{"KELAS", "No", "Nama Siswa", "JK"})
	_ = f.SetSheetRow("Sheet1", "A2", &[]any{"7A", 1, " Citra ", "Perempuan"})
	_ = f.SetSheetRow("Sheet1", "A4", &[]any{"7A", 2, "Dodi", "x"})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ParseStudentSheet(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Citra", got[0].Name)
	assert.Equal(t, "7A", got[0].ClassName)
	require.NotNil(t, got[0].Gender)
	assert.Equal(t, model.GenderFemale, *got[0].Gender)
	assert.Nil(t, got[1].Gender)
}

func TestParseStudentSheet_MissingColumns(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	_ = f.SetSheetRow("Sheet1", "A1", &[]any{"Nama"})
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := ParseStudentSheet(&buf)
	assert.Error(t, err)
}
