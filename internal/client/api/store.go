package api

import (
	"context"
	"net/http"

	"medai/internal/session"
)

// historyDoc is the wire shape of the per-user history document.
type historyDoc struct {
	Records []session.HistoryEntry `json:"records"`
}

func (b *Backend) LoadProfile(ctx context.Context) (*session.Profile, error) {
	var p session.Profile
	if err := b.doJSON(ctx, http.MethodGet, "/api/me/docs/profile", nil, &p, true); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile merge-writes the profile document: fields absent from p keep
// their stored values.
func (b *Backend) SaveProfile(ctx context.Context, p *session.Profile) error {
	return b.doJSON(ctx, http.MethodPut, "/api/me/docs/profile", p, nil, true)
}

func (b *Backend) LoadHistory(ctx context.Context) ([]session.HistoryEntry, error) {
	var doc historyDoc
	if err := b.doJSON(ctx, http.MethodGet, "/api/me/docs/history", nil, &doc, true); err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// SaveHistory replaces the stored history log in full. Last writer wins;
// concurrent sessions for the same user are not reconciled.
func (b *Backend) SaveHistory(ctx context.Context, entries []session.HistoryEntry) error {
	if entries == nil {
		entries = []session.HistoryEntry{}
	}
	return b.doJSON(ctx, http.MethodPut, "/api/me/docs/history", historyDoc{Records: entries}, nil, true)
}
