package db

import (
	"context"
	"database/sql"

	"medai/internal/server/documents"
	"medai/internal/server/refreshtokens"
	"medai/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Documents() documents.Repository
}
