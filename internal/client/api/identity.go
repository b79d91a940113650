package api

import (
	"context"
	"net/http"

	"medai/internal/session"
)

type registerRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Profile  session.Profile `json:"profile"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// SignUp creates the identity record plus its initial profile and history
// documents in one call. The server returns no tokens: the user logs in
// explicitly afterwards.
func (b *Backend) SignUp(ctx context.Context, email, password string, profile session.Profile) error {
	req := registerRequest{Email: email, Password: password, Profile: profile}
	return b.doJSON(ctx, http.MethodPost, "/api/auth/register", req, nil, false)
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*session.Account, error) {
	var resp loginResponse
	if err := b.doJSON(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp, false); err != nil {
		return nil, err
	}
	b.accessToken = resp.AccessToken
	b.refreshToken = resp.RefreshToken
	return &session.Account{UID: resp.UID, Email: resp.Email}, nil
}

// SignOut revokes the refresh token server-side and discards both tokens.
func (b *Backend) SignOut(ctx context.Context) error {
	if b.refreshToken != "" {
		req := map[string]string{"refresh_token": b.refreshToken}
		_ = b.doJSON(ctx, http.MethodPost, "/api/auth/logout", req, nil, true)
	}
	b.accessToken = ""
	b.refreshToken = ""
	return nil
}

func (b *Backend) ChangePassword(ctx context.Context, current, next string) error {
	req := map[string]string{"current_password": current, "new_password": next}
	return b.doJSON(ctx, http.MethodPost, "/api/auth/password", req, nil, true)
}

func (b *Backend) UpdateEmail(ctx context.Context, email string) error {
	req := map[string]string{"email": email}
	return b.doJSON(ctx, http.MethodPost, "/api/auth/email", req, nil, true)
}

// Refresh exchanges the refresh token for a fresh token pair.
func (b *Backend) Refresh(ctx context.Context) error {
	req := map[string]string{"refresh_token": b.refreshToken}
	var resp loginResponse
	if err := b.doJSON(ctx, http.MethodPost, "/api/auth/refresh", req, &resp, false); err != nil {
		return err
	}
	b.accessToken = resp.AccessToken
	b.refreshToken = resp.RefreshToken
	return nil
}
