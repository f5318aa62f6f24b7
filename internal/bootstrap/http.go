package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spps-sekolah/spps-api/config"
	httpx "github.com/spps-sekolah/spps-api/internal/http"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Health   []httpx.HealthCheck
	Logger   *slog.Logger
}

// NewHTTPServer builds the API server. It does not start listening.
func NewHTTPServer(cfg HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	services := httpx.RouterServices{
		Auth:           cfg.Services.Auth,
		Users:          cfg.Services.Users,
		Students:       cfg.Services.Students,
		ViolationTypes: cfg.Services.ViolationTypes,
		Violations:     cfg.Services.Violations,
		Preferences:    cfg.Services.Preferences,
		Reports:        cfg.Services.Reports,
		LoginLimiter: httpx.NewIPRateLimiter(httpx.RateLimitConfig{
			PerMinute:         appCfg.HTTP.LoginPerMinute,
			Burst:             appCfg.HTTP.LoginBurst,
			TrustForwardedFor: appCfg.HTTP.TrustForwardedFor,
		}),
		Health:       cfg.Health,
		SecureCookie: appCfg.HTTP.SecureCookie && !appCfg.IsDev,
		Logger:       logger,
	}
	if appCfg.Observability.MetricsEnabled {
		services.Metrics = httpx.NewMetrics()
	}

	return &http.Server{
		Addr:         appCfg.HTTP.Addr,
		Handler:      httpx.NewRouter(services),
		ReadTimeout:  appCfg.HTTP.ReadTimeout,
		WriteTimeout: appCfg.HTTP.WriteTimeout,
		IdleTimeout:  appCfg.HTTP.IdleTimeout,
	}
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server *http.Server
	Config config.HTTPConfig
	Logger *slog.Logger
}

// RunHTTPServer serves until ctx is done, then shuts the server down gracefully.
func RunHTTPServer(ctx context.Context, cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return errors.New("http server is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", cfg.Server.Addr)
		if err := cfg.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return <-errCh
}
