package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"medai/internal/common"
	"medai/internal/logging"
	"medai/internal/server/config"
	"medai/internal/server/documents"
	"medai/internal/server/refreshtokens"
	"medai/internal/server/users"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUserRepo struct {
	byID    map[string]*users.User
	byEmail map[string]*users.User
	nextID  int
}

func (r *memUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	r.nextID++
	u := *user
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Now()
	r.byID[u.ID] = &u
	r.byEmail[u.Email] = &u
	return &u, nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *memUserRepo) UpdateEmail(ctx context.Context, id, email string) error {
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byEmail, u.Email)
	u.Email = email
	r.byEmail[email] = u
	return nil
}

func (r *memUserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memRefreshRepo struct {
	tokens map[string]string
}

func (r *memRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	r.tokens[token] = userID
	return nil
}

func (r *memRefreshRepo) GetUserID(ctx context.Context, token string) (string, error) {
	userID, ok := r.tokens[token]
	if !ok {
		return "", common.ErrorNotFound
	}
	return userID, nil
}

func (r *memRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type memDocRepo struct {
	docs map[string][]byte
}

func (r *memDocRepo) Get(ctx context.Context, userID, name string) ([]byte, error) {
	body, ok := r.docs[userID+"/"+name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return body, nil
}

func (r *memDocRepo) Set(ctx context.Context, userID, name string, body []byte) error {
	r.docs[userID+"/"+name] = body
	return nil
}

var _ refreshtokens.Repository = (*memRefreshRepo)(nil)
var _ users.Repository = (*memUserRepo)(nil)
var _ documents.Repository = (*memDocRepo)(nil)

func newTestServer() *Server {
	userRepo := &memUserRepo{byID: map[string]*users.User{}, byEmail: map[string]*users.User{}}
	refreshRepo := &memRefreshRepo{tokens: map[string]string{}}
	docRepo := &memDocRepo{docs: map[string][]byte{}}

	cfg := &config.Config{}
	cfg.LoadDefaults()

	ds := documents.NewService(docRepo)
	us := users.NewService(userRepo, refreshRepo, ds, cfg)

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	return NewServer(":0", logger, us, ds)
}

func doReq(t *testing.T, s *Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, data
}

func registerAndLogin(t *testing.T, s *Server) (string, string) {
	t.Helper()

	resp, _ := doReq(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "ann@example.com",
		"password": "password1",
		"profile":  map[string]any{"name": "Ann", "email": "ann@example.com"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doReq(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ann@example.com",
		"password": "password1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(body, &tokens))
	require.NotEmpty(t, tokens.AccessToken)

	return tokens.AccessToken, tokens.RefreshToken
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad email", map[string]any{"email": "not-an-email", "password": "password1"}},
		{"short password", map[string]any{"email": "ann@example.com", "password": "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doReq(t, s, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newTestServer()
	registerAndLogin(t, s)

	resp, _ := doReq(t, s, http.MethodPost, "/api/auth/register", "", map[string]any{
		"email":    "ann@example.com",
		"password": "password2",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer()
	registerAndLogin(t, s)

	resp, _ := doReq(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ann@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDocumentsRequireAuth(t *testing.T) {
	s := newTestServer()

	resp, _ := doReq(t, s, http.MethodGet, "/api/me/docs/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doReq(t, s, http.MethodGet, "/api/me/docs/profile", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterCreatesInitialDocuments(t *testing.T) {
	s := newTestServer()
	access, _ := registerAndLogin(t, s)

	resp, body := doReq(t, s, http.MethodGet, "/api/me/docs/profile", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Ann")

	resp, body = doReq(t, s, http.MethodGet, "/api/me/docs/history", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"records":[]}`, string(body))
}

func TestProfileMergeWrite(t *testing.T) {
	s := newTestServer()
	access, _ := registerAndLogin(t, s)

	resp, _ := doReq(t, s, http.MethodPut, "/api/me/docs/profile", access, map[string]any{
		"age": 30,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doReq(t, s, http.MethodGet, "/api/me/docs/profile", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile map[string]any
	require.NoError(t, json.Unmarshal(body, &profile))
	assert.Equal(t, "Ann", profile["name"])
	assert.Equal(t, float64(30), profile["age"])
}

func TestHistoryReplaceWrite(t *testing.T) {
	s := newTestServer()
	access, _ := registerAndLogin(t, s)

	doc := map[string]any{"records": []map[string]any{{"id": "e1", "topMatch": "Fungal infection"}}}
	resp, _ := doReq(t, s, http.MethodPut, "/api/me/docs/history", access, doc)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doReq(t, s, http.MethodPut, "/api/me/docs/history", access, map[string]any{"records": []any{}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doReq(t, s, http.MethodGet, "/api/me/docs/history", access, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"records":[]}`, string(body))
}

func TestUnknownDocumentName(t *testing.T) {
	s := newTestServer()
	access, _ := registerAndLogin(t, s)

	resp, _ := doReq(t, s, http.MethodGet, "/api/me/docs/settings", access, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRefreshAndLogout(t *testing.T) {
	s := newTestServer()
	_, refresh := registerAndLogin(t, s)

	resp, body := doReq(t, s, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(body, &tokens))
	assert.NotEqual(t, refresh, tokens.RefreshToken)

	// The consumed token no longer refreshes.
	resp, _ = doReq(t, s, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doReq(t, s, http.MethodPost, "/api/auth/logout", tokens.AccessToken, map[string]string{
		"refresh_token": tokens.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer()
	access, _ := registerAndLogin(t, s)

	resp, _ := doReq(t, s, http.MethodPost, "/api/auth/password", access, map[string]string{
		"current_password": "wrong",
		"new_password":     "password2",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doReq(t, s, http.MethodPost, "/api/auth/password", access, map[string]string{
		"current_password": "password1",
		"new_password":     "password2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doReq(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ann@example.com",
		"password": "password2",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateEmail(t *testing.T) {
	s := newTestServer()
	access, _ := registerAndLogin(t, s)

	resp, _ := doReq(t, s, http.MethodPost, "/api/auth/email", access, map[string]string{
		"email": "new@example.com",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doReq(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "new@example.com",
		"password": "password1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
