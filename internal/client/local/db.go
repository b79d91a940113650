// Package local implements the identity and document store interfaces on a
// SQLite database, for running the client without a remote backend. Profile
// and history live under fixed document paths and are reloaded verbatim at
// startup.
package local

import (
	"context"
	"database/sql"

	"medai/internal/client/migrations"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// InitDatabase opens (creating if needed) the local SQLite database and
// applies pending migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, err
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, err
	}

	return db, nil
}
