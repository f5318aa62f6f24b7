// Package httpx provides the JSON HTTP API of the disciplinary records service.
package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth           AuthServiceInterface
	Users          *service.UserService
	Students       *service.StudentService
	ViolationTypes *service.ViolationTypeService
	Violations     *service.ViolationService
	Preferences    *service.PreferenceService
	Reports        *service.ReportService

	// Optional: login throttling. Nil disables it.
	LoginLimiter *IPRateLimiter
	// Optional: request metrics and /metrics. Nil disables both.
	Metrics *Metrics
	Health  []HealthCheck

	SecureCookie bool
	Logger       *slog.Logger
}

// NewRouter creates the API handler with recovery, access logging and metrics applied.
func NewRouter(services RouterServices) http.Handler {
	if services.Auth == nil {
		panic("NewRouter: Auth is required") //nolint:forbidigo // Fail fast during server setup.
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	authed := RequireAuth(services.Auth)
	adminOnly := RequireRole(services.Auth, domainauth.RoleAdmin)

	registerAuthRoutes(mux, &AuthHandlers{
		Svc: services.Auth, SecureCookie: services.SecureCookie, Logger: logger,
	}, authed, services.LoginLimiter)

	if services.Users != nil {
		h := &UserHandlers{Svc: services.Users, Logger: logger}
		registerCRUD(mux, crudRoutes{
			Base: "/api/users", Create: h.Create, List: h.List, GetByID: h.GetByID, Update: h.Update, Delete: h.Delete,
			Read: adminOnly, Write: adminOnly,
		})
	}
	if services.Students != nil {
		h := &StudentHandlers{Svc: services.Students, Logger: logger}
		registerCRUD(mux, crudRoutes{
			Base: "/api/students", Create: h.Create, List: h.List, GetByID: h.GetByID, Update: h.Update, Delete: h.Delete,
			Read: authed, Write: adminOnly,
		})
		mux.Handle("POST /api/students/import", adminOnly(http.HandlerFunc(h.Import)))
	}
	if services.ViolationTypes != nil {
		h := &ViolationTypeHandlers{Svc: services.ViolationTypes, Logger: logger}
		registerCRUD(mux, crudRoutes{
			Base: "/api/violation-types", Create: h.Create, List: h.List, GetByID: h.GetByID, Update: h.Update, Delete: h.Delete,
			Read: authed, Write: adminOnly,
		})
	}
	if services.Violations != nil {
		h := &ViolationHandlers{Svc: services.Violations, Logger: logger}
		registerCRUD(mux, crudRoutes{
			Base: "/api/violations", Create: h.Create, List: h.List, GetByID: h.GetByID, Update: h.Update, Delete: h.Delete,
			Read: authed, Write: authed, Remove: adminOnly,
		})
	}
	if services.Preferences != nil {
		h := &PreferenceHandlers{Svc: services.Preferences, Logger: logger}
		mux.Handle("GET /api/preferences/signature-names", authed(http.HandlerFunc(h.GetSignatureNames)))
		mux.Handle("PUT /api/preferences/signature-names", authed(http.HandlerFunc(h.PutSignatureNames)))
	}
	if services.Reports != nil {
		h := &ReportHandlers{Svc: services.Reports, Logger: logger}
		mux.Handle("GET /api/reports/violations.xlsx", authed(http.HandlerFunc(h.ViolationsXLSX)))
	}

	health := healthHandler(services.Health)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	var handler http.Handler = mux
	if services.Metrics != nil {
		mux.Handle("GET /metrics", services.Metrics.Handler())
		handler = services.Metrics.Instrument(mux)
	}
	return Recover(logger)(Logging(logger)(handler))
}

func registerAuthRoutes(
	mux *http.ServeMux,
	h *AuthHandlers,
	authed func(http.Handler) http.Handler,
	limiter *IPRateLimiter,
) {
	var login http.Handler = http.HandlerFunc(h.Login)
	if limiter != nil {
		login = limiter.Middleware(login)
	}
	mux.Handle("POST /api/auth/login", login)
	mux.Handle("POST /api/auth/logout", authed(http.HandlerFunc(h.Logout)))
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(h.Me)))
}

type crudRoutes struct {
	Base    string
	Create  http.HandlerFunc
	List    http.HandlerFunc
	GetByID http.HandlerFunc
	Update  http.HandlerFunc
	Delete  http.HandlerFunc
	// Read guards GETs, Write guards POST and PUT, Remove guards DELETE (defaults to Write).
	Read, Write, Remove func(http.Handler) http.Handler
}

func registerCRUD(mux *http.ServeMux, cfg crudRoutes) {
	if cfg.Base == "" {
		panic("registerCRUD: Base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Create == nil ||
		cfg.List == nil ||
		cfg.GetByID == nil ||
		cfg.Update == nil ||
		cfg.Delete == nil {
		panic("registerCRUD: nil handler for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Read == nil || cfg.Write == nil {
		panic("registerCRUD: missing guard for base " + cfg.Base) //nolint:forbidigo // Fail fast during server setup.
	}
	if cfg.Remove == nil {
		cfg.Remove = cfg.Write
	}

	mux.Handle("POST "+cfg.Base, cfg.Write(cfg.Create))
	mux.Handle("GET "+cfg.Base, cfg.Read(cfg.List))
	mux.Handle("GET "+cfg.Base+"/{id}", cfg.Read(cfg.GetByID))
	mux.Handle("PUT "+cfg.Base+"/{id}", cfg.Write(cfg.Update))
	mux.Handle("DELETE "+cfg.Base+"/{id}", cfg.Remove(cfg.Delete))
}
