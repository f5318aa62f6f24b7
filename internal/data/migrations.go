package data

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/spps-sekolah/spps-api/internal/migrate"
)

// RunMigrations executes database migrations to set up the required schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}

// validID reports whether id can address a UUID primary key.
// Malformed ids are treated as missing rows instead of reaching the database as cast errors.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
