package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"ADDR" envDefault:":8080"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT"     envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// SecureCookie sets the Secure attribute on the session cookie. Forced off in dev mode.
	SecureCookie bool `env:"SECURE_COOKIE" envDefault:"true"`

	// LoginPerMinute and LoginBurst bound login attempts per client IP.
	LoginPerMinute int `env:"LOGIN_PER_MINUTE" envDefault:"10"`
	LoginBurst     int `env:"LOGIN_BURST"      envDefault:"5"`
	// TrustForwardedFor keys the login limiter by X-Forwarded-For. Enable only behind a proxy.
	TrustForwardedFor bool `env:"TRUST_FORWARDED_FOR" envDefault:"false"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.ReadTimeout <= 0 {
		h.ReadTimeout = 15 * time.Second
	}
	if h.WriteTimeout <= 0 {
		h.WriteTimeout = 30 * time.Second
	}
	if h.IdleTimeout <= 0 {
		h.IdleTimeout = 60 * time.Second
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
	if h.LoginPerMinute < 1 {
		h.LoginPerMinute = 1
	}
	if h.LoginBurst < 1 {
		h.LoginBurst = 1
	}
}
