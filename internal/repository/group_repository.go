package repository

import (
	"context"

	"topicfeed/internal/domain/entity"
)

// GroupWithStats is a group together with its news and follower counters.
type GroupWithStats struct {
	Group entity.Group
	Stats entity.GroupStats
}

// GroupRepository persists topic groups. Name is unique.
type GroupRepository interface {
	// FindOrCreate returns the group named name, creating it with description
	// when absent. An existing group's description is never overwritten.
	// created reports whether this call inserted the row.
	FindOrCreate(ctx context.Context, name, description string) (group entity.Group, created bool, err error)
	// Get returns (nil, nil) if the group does not exist.
	Get(ctx context.Context, id int64) (*entity.Group, error)
	GetWithStats(ctx context.Context, id int64) (*GroupWithStats, error)
	ListWithStatsPaginated(ctx context.Context, offset, limit int) ([]GroupWithStats, error)
	Count(ctx context.Context) (int64, error)
	// ListByNewsIDs returns the groups linked to each news id, in link order.
	// News without links are absent from the map.
	ListByNewsIDs(ctx context.Context, newsIDs []int64) (map[int64][]entity.Group, error)
}
