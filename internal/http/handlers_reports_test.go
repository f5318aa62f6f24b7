package httpx

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/mocks"
	"github.com/spps-sekolah/spps-api/internal/service"
	"github.com/spps-sekolah/spps-api/internal/testutil"
)

func TestReportHandlers_ViolationsXLSX(t *testing.T) {
	f := newAPIFixture(t)
	f.violations.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*model.Violation{
		{ID: "v1", StudentID: routeStudentID, ViolationTypeID: routeTypeID, Points: 10, Date: testutil.TestTime()},
	}, nil)
	f.students.EXPECT().List(gomock.Any()).Return([]*model.Student{{ID: routeStudentID, Name: "Budi", ClassName: "7A"}}, nil)
	f.types.EXPECT().List(gomock.Any()).Return([]*model.ViolationType{{ID: routeTypeID, Name: "Terlambat"}}, nil)
	f.prefs.EXPECT().Get(gomock.Any(), model.SignatureNamesKey).Return(nil, nil)

	rec := f.do(t, http.MethodGet, "/api/reports/violations.xlsx?from=2024-01-01", f.guruToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "laporan-pelanggaran-")
	assert.Equal(t, "1", rec.Header().Get("X-Report-Rows"))

	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()
	name, err := wb.GetCellValue("Pelanggaran", "B5")
	require.NoError(t, err)
	assert.Equal(t, "Budi", name)
}

func TestReportHandlers_RangedReportIgnoresPaging(t *testing.T) {
	f := newAPIFixture(t)
	var got model.ViolationListOptions
	f.violations.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, opts model.ViolationListOptions) ([]*model.Violation, error) {
			got = opts
			return nil, nil
		})
	f.students.EXPECT().List(gomock.Any()).Return(nil, nil)
	f.types.EXPECT().List(gomock.Any()).Return(nil, nil)
	f.prefs.EXPECT().Get(gomock.Any(), model.SignatureNamesKey).Return(nil, nil)

	rec := f.do(t, http.MethodGet,
		"/api/reports/violations.xlsx?from=2024-01-01&to=2024-12-31&limit=5&offset=40", f.guruToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.GreaterOrEqual(t, got.Limit, maxViolationLimit)
	assert.Zero(t, got.Offset)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, "2025-01-01", got.To.Format(time.DateOnly))
	assert.Empty(t, rec.Header().Get("X-Report-Truncated"))
}

func TestReportHandlers_TruncatedHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	violations := mocks.NewMockViolationRepository(ctrl)
	students := mocks.NewMockStudentRepository(ctrl)
	types := mocks.NewMockViolationTypeRepository(ctrl)
	store := mocks.NewMockPreferenceRepository(ctrl)
	violations.EXPECT().List(gomock.Any(), gomock.Any()).Return([]*model.Violation{
		{ID: "v1", Points: 5, Date: testutil.TestTime()},
		{ID: "v2", Points: 5, Date: testutil.TestTime()},
	}, nil)
	students.EXPECT().List(gomock.Any()).Return(nil, nil)
	types.EXPECT().List(gomock.Any()).Return(nil, nil)
	store.EXPECT().Get(gomock.Any(), model.SignatureNamesKey).Return(nil, nil)

	h := &ReportHandlers{Svc: service.NewReportService(service.ReportServiceOptions{
		Violations:  violations,
		Students:    students,
		Types:       types,
		Preferences: service.NewPreferenceService(service.PreferenceServiceOptions{Store: store}),
		MaxRows:     1,
	})}
	rec := httptest.NewRecorder()
	h.ViolationsXLSX(rec, httptest.NewRequest(http.MethodGet, "/api/reports/violations.xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "1", rec.Header().Get("X-Report-Rows"))
	assert.Equal(t, "true", rec.Header().Get("X-Report-Truncated"))
}

func TestPreferenceHandlers_SignatureNames(t *testing.T) {
	f := newAPIFixture(t)
	f.prefs.EXPECT().Set(gomock.Any(), model.SignatureNamesKey, gomock.Any()).Return(nil)

	rec := f.do(t, http.MethodPut, "/api/preferences/signature-names", f.guruToken, map[string]string{
		"principal": "  Drs. Hartono ", "counselor": "Sri", "duty_teacher": "Agus",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Drs. Hartono", decodeBody[model.SignatureNames](t, rec).Principal)
}
