package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/spps-sekolah/spps-api/config"
	"github.com/spps-sekolah/spps-api/internal/bootstrap"
)

// infra holds the connections a command opened.
type infra struct {
	DB    *sql.DB
	Redis redis.UniversalClient
}

// connectInfra opens PostgreSQL and Redis. A Redis failure closes the database again.
func connectInfra(logger *slog.Logger, cfg *config.AppConfig) (*infra, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{RedisConfig: cfg.Redis, Logger: logger})
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close db: %w", closeErr))
		}
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &infra{DB: db, Redis: client}, nil
}

// Close closes every open connection and joins the failures.
func (i *infra) Close() error {
	if i == nil {
		return nil
	}
	var closeErr error
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}
