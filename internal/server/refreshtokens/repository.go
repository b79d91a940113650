// Package refreshtokens persists server-side refresh tokens with expiry.
package refreshtokens

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, userID, token string, validity time.Duration) error
	// GetUserID resolves a token to its user, enforcing expiry.
	GetUserID(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
