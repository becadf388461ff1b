package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mediatube/accounts/internal/common"
	"github.com/mediatube/accounts/internal/logging"
	"github.com/mediatube/accounts/internal/server/models"
	"github.com/mediatube/accounts/internal/server/repositories/users"
)

// AccountService handles registration and profile maintenance.
type AccountService struct {
	repo   users.Repository
	logger logging.Logger
}

func NewAccountService(repo users.Repository, logger logging.Logger) *AccountService {
	return &AccountService{
		repo:   repo,
		logger: logger.With("module", "accounts"),
	}
}

// Register creates a new account. All fields are required; the username is
// lower-cased before storage. Returns common.ErrorAlreadyExists when the
// username or email is taken.
func (s *AccountService) Register(ctx context.Context, fullName, username, email, password string) (*models.PublicUser, error) {

	if fullName == "" || username == "" || email == "" || password == "" {
		return nil, common.ErrorValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Username:     strings.ToLower(username),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "creating user failed", "error", err)
		return nil, common.ErrorInternal
	}

	return user.Public(), nil
}

// ChangePassword replaces the account's password after verifying the old
// one against the stored hash.
func (s *AccountService) ChangePassword(ctx context.Context, user *models.User, oldPassword, newPassword string) error {

	if oldPassword == "" || newPassword == "" {
		return common.ErrorValidation
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return common.ErrorInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		s.logger.Error(ctx, "updating password failed", "user_id", user.ID, "error", err)
		return common.ErrorInternal
	}

	return nil
}

// UpdateAccount updates the mutable profile fields and returns the
// refreshed sanitized view.
func (s *AccountService) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.PublicUser, error) {

	if fullName == "" || email == "" {
		return nil, common.ErrorValidation
	}

	user, err := s.repo.UpdateProfile(ctx, userID, fullName, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		s.logger.Error(ctx, "updating profile failed", "user_id", userID, "error", err)
		return nil, common.ErrorInternal
	}

	return user.Public(), nil
}
