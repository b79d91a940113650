package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"medai/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, name string) ([]byte, error) {
	query :=
		`SELECT body FROM documents
		 WHERE user_id = $1 AND name = $2
		 `

	var body []byte
	err := r.db.QueryRowContext(ctx, query, userID, name).Scan(&body)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return body, nil
}

func (r *PostgresRepository) Set(ctx context.Context, userID, name string, body []byte) error {
	query :=
		`INSERT INTO documents (user_id, name, body, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, name) DO UPDATE SET body = excluded.body, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, name, body); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}
