package repository

import (
	"context"

	"topicfeed/internal/domain/entity"
)

// NewsRepository persists News rows. URL is the natural key.
type NewsRepository interface {
	// Upsert inserts the news item or, when a row with the same URL exists,
	// refreshes its mutable fields. It must be a single atomic statement.
	// The returned result carries the stored row and whether it was newly inserted.
	Upsert(ctx context.Context, news *entity.News) (entity.UpsertResult, error)
	// Get returns (nil, nil) if the news item does not exist.
	Get(ctx context.Context, id int64) (*entity.News, error)
	// ListPaginated returns news ordered by published_at DESC, id DESC.
	ListPaginated(ctx context.Context, offset, limit int) ([]*entity.News, error)
	Count(ctx context.Context) (int64, error)
	// ListByGroupPaginated returns the news linked to groupID, newest first.
	ListByGroupPaginated(ctx context.Context, groupID int64, offset, limit int) ([]*entity.News, error)
	CountByGroup(ctx context.Context, groupID int64) (int64, error)
}
