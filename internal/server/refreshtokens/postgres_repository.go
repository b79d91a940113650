package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medai/internal/common"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	query :=
		`INSERT INTO refresh_tokens (user_id, token, expires_at)
		 VALUES ($1, $2, $3)
		 `

	expiresAt := time.Now().Add(validity)
	if _, err := r.db.ExecContext(ctx, query, userID, token, expiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetUserID(ctx context.Context, token string) (string, error) {
	query :=
		`SELECT user_id, expires_at FROM refresh_tokens
		 WHERE token = $1
		 `

	var userID string
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, query, token).Scan(&userID, &expiresAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error performing sql request: %w", err)
	}

	if time.Now().After(expiresAt) {
		return "", common.ErrRefreshTokenExpired
	}

	return userID, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}
