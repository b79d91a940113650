// Package documents stores the per-user JSON documents (profile and history)
// and implements the merge-write semantics the client relies on.
package documents

import "context"

// Repository persists raw document bodies keyed by (user, name).
type Repository interface {
	Get(ctx context.Context, userID, name string) ([]byte, error)
	Set(ctx context.Context, userID, name string, body []byte) error
}
