// Package users declares the repository contract for account records,
// including the server-side refresh-token state.
package users

import (
	"context"

	"github.com/mediatube/accounts/internal/server/models"
)

// Repository defines persistence operations on accounts.
//
// The refresh-token methods implement the single-valid-token model: an
// account has at most one valid refresh token at any instant. SetRefreshToken
// and ClearRefreshToken overwrite unconditionally; SwapRefreshToken replaces
// the stored value only if it still equals the presented one, in a single
// atomic statement, so concurrent rotations for the same account cannot both
// succeed.
type Repository interface {
	// Create inserts a new account. Returns common.ErrorAlreadyExists when
	// the username or email is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateProfile(ctx context.Context, id, fullName, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, url string) error
	UpdateCoverImage(ctx context.Context, id, url string) error

	SetRefreshToken(ctx context.Context, id, token string) error

	// SwapRefreshToken atomically replaces the stored refresh token with
	// newToken if and only if the stored value equals oldToken. Returns
	// false when the stored value no longer matches (rotated away, cleared
	// by logout, or never set).
	SwapRefreshToken(ctx context.Context, id, oldToken, newToken string) (bool, error)

	ClearRefreshToken(ctx context.Context, id string) error
}
