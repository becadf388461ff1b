package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mediatube/accounts/internal/common"
	"github.com/mediatube/accounts/internal/server/models"
	"github.com/mediatube/accounts/internal/server/repositories/social"
)

// SocialService serves the social-graph read models.
type SocialService struct {
	repo social.Repository
}

func NewSocialService(repo social.Repository) *SocialService {
	return &SocialService{repo: repo}
}

// ChannelProfile returns the channel view of the named account as seen by
// viewerID.
func (s *SocialService) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {

	if username == "" {
		return nil, common.ErrorValidation
	}

	profile, err := s.repo.ChannelProfile(ctx, strings.ToLower(username), viewerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return profile, nil
}

// WatchHistory lists the caller's watched videos, most recent first.
func (s *SocialService) WatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryItem, error) {

	items, err := s.repo.WatchHistory(ctx, userID)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return items, nil
}
