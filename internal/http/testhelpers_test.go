package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/mocks"
	mockauth "github.com/spps-sekolah/spps-api/internal/mocks/auth"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// apiFixture wires real services over mocked repositories and an in-memory provider.
type apiFixture struct {
	handler    http.Handler
	provider   *mockauth.MockAuthProvider
	users      *mocks.MockUserRepository
	students   *mocks.MockStudentRepository
	types      *mocks.MockViolationTypeRepository
	violations *mocks.MockViolationRepository
	prefs      *mocks.MockPreferenceRepository
	metrics    *Metrics

	adminToken string
	guruToken  string
	admin      *domainauth.User
	guru       *domainauth.User
}

func newAPIFixture(t *testing.T, tweaks ...func(*RouterServices)) *apiFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &apiFixture{
		provider:   mockauth.NewMockAuthProvider(),
		users:      mocks.NewMockUserRepository(ctrl),
		students:   mocks.NewMockStudentRepository(ctrl),
		types:      mocks.NewMockViolationTypeRepository(ctrl),
		violations: mocks.NewMockViolationRepository(ctrl),
		prefs:      mocks.NewMockPreferenceRepository(ctrl),
		metrics:    NewMetrics(),
	}

	ctx := context.Background()
	adminUID := f.provider.AddAccount("kepsek", "rahasia")
	guruUID := f.provider.AddAccount("piket", "rahasia")
	f.admin = &domainauth.User{ID: adminUID, Username: "kepsek", Role: domainauth.RoleAdmin}
	f.guru = &domainauth.User{ID: guruUID, Username: "piket", Role: domainauth.RoleDutyTeacher}
	f.users.EXPECT().GetByID(gomock.Any(), adminUID).Return(f.admin, nil).AnyTimes()
	f.users.EXPECT().GetByID(gomock.Any(), guruUID).Return(f.guru, nil).AnyTimes()

	adminSess, err := f.provider.SignIn(ctx, "kepsek", "rahasia")
	require.NoError(t, err)
	guruSess, err := f.provider.SignIn(ctx, "piket", "rahasia")
	require.NoError(t, err)
	f.adminToken, f.guruToken = adminSess.Token, guruSess.Token

	auth := service.NewAuthService(service.AuthServiceOptions{Provider: f.provider, Users: f.users})
	prefs := service.NewPreferenceService(service.PreferenceServiceOptions{Store: f.prefs})
	services := RouterServices{
		Auth:           auth,
		Users:          service.NewUserService(service.UserServiceOptions{Provider: f.provider, Users: f.users}),
		Students:       service.NewStudentService(service.StudentServiceOptions{Students: f.students}),
		ViolationTypes: service.NewViolationTypeService(service.ViolationTypeServiceOptions{Types: f.types}),
		Violations:     service.NewViolationService(service.ViolationServiceOptions{Violations: f.violations}),
		Preferences:    prefs,
		Reports: service.NewReportService(service.ReportServiceOptions{
			Violations: f.violations, Students: f.students, Types: f.types, Preferences: prefs,
		}),
		Metrics: f.metrics,
	}
	for _, tweak := range tweaks {
		tweak(&services)
	}
	f.handler = NewRouter(services)
	return f
}

// do sends a request with an optional bearer token and JSON body.
func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", bearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
