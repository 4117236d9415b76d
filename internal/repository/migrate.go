package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"log/slog"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
