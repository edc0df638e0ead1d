package repository

import (
	"context"

	"topicfeed/internal/domain/entity"
)

// SubscriptionRepository persists which users follow which groups.
type SubscriptionRepository interface {
	// Subscribe is idempotent: created is false when the pair already existed.
	Subscribe(ctx context.Context, userID string, groupID int64) (created bool, err error)
	// Unsubscribe reports whether a row was removed.
	Unsubscribe(ctx context.Context, userID string, groupID int64) (removed bool, err error)
	IsSubscribed(ctx context.Context, userID string, groupID int64) (bool, error)
	// SubscribedGroupIDs returns the subset of groupIDs the user follows.
	SubscribedGroupIDs(ctx context.Context, userID string, groupIDs []int64) (map[int64]bool, error)
	// ListGroupsPaginated returns the groups the user follows, most recent first.
	ListGroupsPaginated(ctx context.Context, userID string, offset, limit int) ([]*entity.Group, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
