package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medai/internal/common"
	"medai/internal/server/auth"
	"medai/internal/server/config"
	"medai/internal/server/documents"
	"medai/internal/server/refreshtokens"

	"golang.org/x/crypto/bcrypt"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo                         Repository
	refreshTokenRepo             refreshtokens.Repository
	docs                         *documents.Service
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

func NewService(repo Repository, refreshTokenRepo refreshtokens.Repository, docs *documents.Service, cfg *config.Config) *Service {
	return &Service{
		repo:                         repo,
		refreshTokenRepo:             refreshTokenRepo,
		docs:                         docs,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates the identity record together with its initial profile
// document and an empty history document. No session is established.
func (s *Service) Register(ctx context.Context, email, password string, initialProfile []byte) (*User, error) {

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repo.Create(ctx, &User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	if len(initialProfile) == 0 {
		initialProfile = []byte(fmt.Sprintf(`{"email":%q}`, email))
	}
	if err := s.docs.Replace(ctx, user.ID, documents.NameProfile, initialProfile); err != nil {
		return nil, fmt.Errorf("error creating profile document: %w", err)
	}
	if err := s.docs.Replace(ctx, user.ID, documents.NameHistory, []byte(`{"records":[]}`)); err != nil {
		return nil, fmt.Errorf("error creating history document: %w", err)
	}

	return user, nil
}

func (s *Service) checkPassword(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}

	if !s.checkPassword(user.PasswordHash, password) {
		return nil, nil, common.ErrorUnauthorized
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

func (s *Service) issueTokens(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(user.ID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh rotates the token pair: the presented refresh token is consumed
// and a new pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	userID, err := s.refreshTokenRepo.GetUserID(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) || errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.refreshTokenRepo.Delete(ctx, refreshToken); err != nil {
		return nil, common.ErrorInternal
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.Delete(ctx, refreshToken)
}

// ChangePassword re-authenticates with the current password before applying
// the new one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return common.ErrorInternal
	}

	if !s.checkPassword(user.PasswordHash, current) {
		return common.ErrorUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	return s.repo.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *Service) UpdateEmail(ctx context.Context, userID, email string) error {
	return s.repo.UpdateEmail(ctx, userID, email)
}

// ValidateAccessToken resolves an access token to the user ID it carries.
func (s *Service) ValidateAccessToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}
