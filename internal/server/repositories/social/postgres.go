package social

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mediatube/accounts/internal/common"
	"github.com/mediatube/accounts/internal/dbx"
	"github.com/mediatube/accounts/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {

	query :=
		`SELECT u.id, u.username, u.email, u.full_name, u.avatar_url, u.cover_image_url, u.created_at,
                (SELECT count(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscriber_count,
                (SELECT count(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to_count,
                EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = u.id AND s.subscriber_id = $2) AS is_subscribed
         FROM users u
         WHERE u.username = $1
         `

	profile := &models.ChannelProfile{}

	err := r.db.QueryRowContext(ctx, query, username, viewerID).Scan(
		&profile.ID, &profile.Username, &profile.Email, &profile.FullName,
		&profile.Avatar, &profile.CoverImage, &profile.CreatedAt,
		&profile.SubscriberCount, &profile.SubscribedToCount, &profile.IsSubscribed)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return profile, nil
}

func (r *PostgresRepository) WatchHistory(ctx context.Context, userID string) ([]*models.WatchHistoryItem, error) {

	query :=
		`SELECT v.id, v.title, o.id, o.username, o.full_name, w.watched_at
         FROM watch_history w
         JOIN videos v ON v.id = w.video_id
         JOIN users o ON o.id = v.owner_id
         WHERE w.user_id = $1
         ORDER BY w.watched_at DESC
         `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	items := []*models.WatchHistoryItem{}
	for rows.Next() {
		item := &models.WatchHistoryItem{}
		err := rows.Scan(&item.VideoID, &item.Title, &item.OwnerID,
			&item.OwnerUsername, &item.OwnerFullName, &item.WatchedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return items, nil
}
