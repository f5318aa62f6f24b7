package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spps-sekolah/spps-api/internal/core"
	"github.com/spps-sekolah/spps-api/internal/data"
	domainauth "github.com/spps-sekolah/spps-api/internal/domain/auth"
	httpx "github.com/spps-sekolah/spps-api/internal/http"
	"github.com/spps-sekolah/spps-api/internal/ports"
	"github.com/spps-sekolah/spps-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth           *service.AuthService
	Users          *service.UserService
	Students       *service.StudentService
	ViolationTypes *service.ViolationTypeService
	Violations     *service.ViolationService
	Preferences    *service.PreferenceService
	Reports        *service.ReportService
	// UserRepo backs SessionState in the admin CLI.
	UserRepo core.UserRepository
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Provider    ports.AuthProvider
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Bootstrap   []domainauth.BootstrapAccount
	// Location renders report dates. Defaults to time.Local.
	Location *time.Location
	Logger   *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	Users          core.UserRepository
	Students       core.StudentRepository
	ViolationTypes core.ViolationTypeRepository
	Violations     core.ViolationRepository
	Preferences    core.PreferenceRepository
}

func newRepositories(deps ServiceDeps) serviceRepositories {
	return serviceRepositories{
		Users:          data.NewUserRepo(deps.DB),
		Students:       data.NewStudentRepo(deps.DB),
		ViolationTypes: data.NewViolationTypeRepo(deps.DB),
		Violations:     data.NewViolationRepo(deps.DB),
		Preferences:    data.NewRedisPreferenceRepo(deps.RedisClient),
	}
}

// BuildServices creates every service over the PostgreSQL and Redis repositories.
func BuildServices(deps ServiceDeps) (ServiceContainer, error) {
	if deps.Provider == nil {
		return ServiceContainer{}, errors.New("auth provider is required")
	}
	if deps.DB == nil || deps.RedisClient == nil {
		return ServiceContainer{}, errors.New("database and redis are required")
	}
	return buildServices(deps, newRepositories(deps)), nil
}

func buildServices(deps ServiceDeps, repos serviceRepositories) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prefs := service.NewPreferenceService(service.PreferenceServiceOptions{Store: repos.Preferences})
	return ServiceContainer{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider:  deps.Provider,
			Users:     repos.Users,
			Bootstrap: deps.Bootstrap,
			Logger:    logger,
		}),
		Users: service.NewUserService(service.UserServiceOptions{
			Provider: deps.Provider, Users: repos.Users, Logger: logger,
		}),
		Students:       service.NewStudentService(service.StudentServiceOptions{Students: repos.Students, Logger: logger}),
		ViolationTypes: service.NewViolationTypeService(service.ViolationTypeServiceOptions{Types: repos.ViolationTypes}),
		Violations:     service.NewViolationService(service.ViolationServiceOptions{Violations: repos.Violations}),
		Preferences:    prefs,
		Reports: service.NewReportService(service.ReportServiceOptions{
			Violations:  repos.Violations,
			Students:    repos.Students,
			Types:       repos.ViolationTypes,
			Preferences: prefs,
			Location:    deps.Location,
			Logger:      logger,
		}),
		UserRepo: repos.Users,
	}
}

// HealthChecks probes the database and Redis.
func HealthChecks(db *sql.DB, client redis.UniversalClient) []httpx.HealthCheck {
	var checks []httpx.HealthCheck
	if db != nil {
		checks = append(checks, httpx.HealthCheck{Name: "postgres", Check: db.PingContext})
	}
	if client != nil {
		checks = append(checks, httpx.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}})
	}
	return checks
}
