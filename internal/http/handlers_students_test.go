package httpx

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/spps-sekolah/spps-api/internal/domain/model"
	"github.com/spps-sekolah/spps-api/internal/service"
)

func echoCreateMany(_ any, reqs []*model.CreateStudentRequest) ([]*model.Student, error) {
	out := make([]*model.Student, 0, len(reqs))
	for i, r := range reqs {
		out = append(out, &model.Student{ID: string(rune('a' + i)), Name: r.Name, ClassName: r.ClassName})
	}
	return out, nil
}

func TestStudentImport_JSON(t *testing.T) {
	f := newAPIFixture(t)
	f.students.EXPECT().List(gomock.Any()).Return([]*model.Student{{ID: "old", Name: "Ani", ClassName: "8B"}}, nil)
	f.students.EXPECT().CreateMany(gomock.Any(), gomock.Len(1)).DoAndReturn(echoCreateMany)

	rec := f.do(t, http.MethodPost, "/api/students/import", f.adminToken, []map[string]string{
		{"name": "Budi", "class_name": "7A"},
		{"name": "ani", "class_name": "8b"},
		{"name": "", "class_name": "9C"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 1, body["imported"])
	assert.EqualValues(t, 2, body["skipped"])
}

func TestStudentImport_XLSX(t *testing.T) {
	f := newAPIFixture(t)
	f.students.EXPECT().List(gomock.Any()).Return(nil, nil)
	f.students.EXPECT().CreateMany(gomock.Any(), gomock.Len(2)).DoAndReturn(echoCreateMany)

	var sheet bytes.Buffer
	require.NoError(t, service.WriteStudentSheet(&sheet, []*model.Student{
		{Name: "Citra", ClassName: "7A"},
		{Name: "Dodi", ClassName: "7B"},
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/students/import", &sheet)
	req.Header.Set("Content-Type", contentTypeXLSX)
	req.Header.Set("Authorization", bearerPrefix+f.adminToken)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 2, decodeBody[map[string]any](t, rec)["imported"])
}

func TestStudentImport_BadPayload(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/students/import", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Authorization", bearerPrefix+f.adminToken)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeBody[errorBody](t, rec).Code)
}
