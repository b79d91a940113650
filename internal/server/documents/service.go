package documents

import (
	"context"
	"encoding/json"
	"fmt"

	"medai/internal/common"
)

// Document names the API accepts.
const (
	NameProfile = "profile"
	NameHistory = "history"
)

func ValidName(name string) bool {
	return name == NameProfile || name == NameHistory
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, userID, name string) ([]byte, error) {
	return s.repo.Get(ctx, userID, name)
}

// Replace overwrites the document in full. Used for the history log, which
// the client always rewrites wholesale.
func (s *Service) Replace(ctx context.Context, userID, name string, body []byte) error {
	if !json.Valid(body) {
		return fmt.Errorf("document %s: invalid JSON: %w", name, common.ErrorValidation)
	}
	return s.repo.Set(ctx, userID, name, body)
}

// Merge overlays the incoming object onto the stored one, key by key, and
// writes the result back. A missing stored document behaves like an empty
// object. Both bodies must be JSON objects.
func (s *Service) Merge(ctx context.Context, userID, name string, body []byte) error {
	var incoming map[string]json.RawMessage
	if err := json.Unmarshal(body, &incoming); err != nil {
		return fmt.Errorf("document %s: not a JSON object: %w", name, common.ErrorValidation)
	}

	merged := map[string]json.RawMessage{}
	if stored, err := s.repo.Get(ctx, userID, name); err == nil {
		if err := json.Unmarshal(stored, &merged); err != nil {
			return fmt.Errorf("stored document %s: %w", name, err)
		}
	}

	for k, v := range incoming {
		merged[k] = v
	}

	result, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, userID, name, result)
}
