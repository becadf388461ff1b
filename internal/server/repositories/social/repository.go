// Package social declares the read-side repository for the social graph:
// channel profiles and watch history.
package social

import (
	"context"

	"github.com/mediatube/accounts/internal/server/models"
)

type Repository interface {
	// ChannelProfile returns the channel view of the account with the given
	// username, with subscription aggregates computed relative to viewerID.
	ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error)

	// WatchHistory lists the videos the account has watched, most recent
	// first.
	WatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryItem, error)
}
