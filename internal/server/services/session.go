// Package services contains the server-side business logic. This file
// implements SessionService: credential verification, login, request
// authentication, refresh-token rotation, and logout.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mediatube/accounts/internal/common"
	"github.com/mediatube/accounts/internal/logging"
	"github.com/mediatube/accounts/internal/server/auth"
	"github.com/mediatube/accounts/internal/server/models"
	"github.com/mediatube/accounts/internal/server/repositories/users"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// LoginResult is what a successful login returns: both tokens plus the
// sanitized account record.
type LoginResult struct {
	User *models.PublicUser
	TokenPair
}

// SessionService owns the session-token lifecycle. An account has at most
// one valid refresh token at any instant: every login and every successful
// rotation supersedes the previous value, and logout clears it.
type SessionService struct {
	repo   users.Repository
	codec  *auth.Codec
	logger logging.Logger
}

func NewSessionService(repo users.Repository, codec *auth.Codec, logger logging.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		codec:  codec,
		logger: logger.With("module", "sessions"),
	}
}

// VerifyCredentials looks up an account by username or email and checks the
// password against the stored hash. Returns common.ErrorNotFound when no
// account matches and common.ErrorInvalidCredentials on a hash mismatch;
// the two stay distinguishable for the transport layer.
func (s *SessionService) VerifyCredentials(ctx context.Context, username, email, password string) (*models.User, error) {

	var user *models.User
	var err error

	// usernames are lower-cased at creation, match accordingly
	if username != "" {
		user, err = s.repo.GetByUsername(ctx, strings.ToLower(username))
	} else {
		user, err = s.repo.GetByEmail(ctx, email)
	}

	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrorInvalidCredentials
	}

	return user, nil
}

// Login verifies the credentials, mints a token pair, and persists the new
// refresh token. The store write must succeed before any token is handed to
// the caller; on a failed write no tokens are returned.
func (s *SessionService) Login(ctx context.Context, username, email, password string) (*LoginResult, error) {

	user, err := s.VerifyCredentials(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	pair, err := s.mintPair(user.ID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repo.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		s.logger.Error(ctx, "persisting refresh token failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	return &LoginResult{User: user.Public(), TokenPair: *pair}, nil
}

// Authenticate resolves an access token to the full account record. Any
// verification failure collapses into common.ErrorUnauthorized; the
// distinction is kept in the logs only.
func (s *SessionService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {

	if accessToken == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, err := s.codec.Verify(accessToken, auth.PurposeAccess)
	if err != nil {
		s.logger.Debug(ctx, "access token rejected", "error", err)
		return nil, common.ErrorUnauthorized
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// account deleted after the token was issued
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Refresh exchanges a valid refresh token for a fresh pair, rotating the
// stored value. The compare-and-rotate is a single conditional update, so
// of two concurrent renewals for the same account exactly one wins; the
// loser observes a mismatch and fails with common.ErrRefreshTokenExpired.
func (s *SessionService) Refresh(ctx context.Context, presented string) (*TokenPair, error) {

	if presented == "" {
		return nil, common.ErrorUnauthorized
	}

	userID, err := s.codec.Verify(presented, auth.PurposeRefresh)
	if err != nil {
		s.logger.Debug(ctx, "refresh token rejected", "error", err)
		return nil, common.ErrorUnauthorized
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	pair, err := s.mintPair(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	swapped, err := s.repo.SwapRefreshToken(ctx, userID, presented, pair.RefreshToken)
	if err != nil {
		s.logger.Error(ctx, "rotating refresh token failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}
	if !swapped {
		// already rotated away or cleared by logout: replay
		return nil, common.ErrRefreshTokenExpired
	}

	return pair, nil
}

// Logout invalidates the account's refresh token. Any outstanding refresh
// token fails rotation afterwards, even one presented by an in-flight
// renewal that started before the logout.
func (s *SessionService) Logout(ctx context.Context, userID string) error {
	if err := s.repo.ClearRefreshToken(ctx, userID); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return common.ErrorInternal
	}
	return nil
}

func (s *SessionService) mintPair(userID string) (*TokenPair, error) {
	access, err := s.codec.MintAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.MintRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
