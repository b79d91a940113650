package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"medai/internal/common"
	"medai/internal/dbx"
	"medai/internal/session"
)

// Fixed document paths, mirroring the layout of the remote store.
const (
	profilePath = "profile/main"
	historyPath = "data/history"
)

// Store implements session.Store on the local documents table. It accepts
// dbx.DBTX so the same code runs against the pool or inside a transaction.
type Store struct {
	db dbx.DBTX
}

func NewStore(db dbx.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) getDoc(ctx context.Context, path string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE path = ?`, path).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (s *Store) setDoc(ctx context.Context, path string, body []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (path, body) VALUES (?, ?)
		 ON CONFLICT(path) DO UPDATE SET body = excluded.body`,
		path, body)
	return err
}

func (s *Store) LoadProfile(ctx context.Context) (*session.Profile, error) {
	body, err := s.getDoc(ctx, profilePath)
	if err != nil {
		return nil, err
	}
	var p session.Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p *session.Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.setDoc(ctx, profilePath, body)
}

func (s *Store) LoadHistory(ctx context.Context) ([]session.HistoryEntry, error) {
	body, err := s.getDoc(ctx, historyPath)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Records []session.HistoryEntry `json:"records"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return doc.Records, nil
}

func (s *Store) SaveHistory(ctx context.Context, entries []session.HistoryEntry) error {
	if entries == nil {
		entries = []session.HistoryEntry{}
	}
	body, err := json.Marshal(map[string]any{"records": entries})
	if err != nil {
		return err
	}
	return s.setDoc(ctx, historyPath, body)
}
