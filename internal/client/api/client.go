// Package api contains the HTTP clients the session controller is wired
// with: the identity/document backend client and the prediction service
// client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"medai/internal/common"
)

// Backend talks to the MedAI identity/document service. It implements both
// session.Identity and session.Store: one authenticated session at a time,
// token state held on the client.
type Backend struct {
	baseURL string
	hc      *http.Client

	accessToken  string
	refreshToken string
}

func NewBackend(baseURL string) *Backend {
	return &Backend{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

// doJSON performs a JSON request against the backend. A nil out skips
// response decoding. Authenticated requests carry the bearer token.
func (b *Backend) doJSON(ctx context.Context, method, path string, in, out any, authed bool) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+b.accessToken)
	}

	resp, err := b.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode >= 400:
		return fmt.Errorf("server error: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
