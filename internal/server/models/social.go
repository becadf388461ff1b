package models

import "time"

// ChannelProfile is the public channel view of an account together with its
// subscription aggregates, computed relative to the viewing account.
type ChannelProfile struct {
	PublicUser
	SubscriberCount   int64 `json:"subscriberCount"`
	SubscribedToCount int64 `json:"channelsSubscribedToCount"`
	IsSubscribed      bool  `json:"isSubscribed"`
}

// WatchHistoryItem is one watched video with its owner, newest first in
// listings.
type WatchHistoryItem struct {
	VideoID       string    `json:"videoId"`
	Title         string    `json:"title"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	OwnerFullName string    `json:"ownerFullName"`
	WatchedAt     time.Time `json:"watchedAt"`
}
