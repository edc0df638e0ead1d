package repository

import "context"

// LinkRepository persists News-Group associations. (group_id, news_id) is unique.
type LinkRepository interface {
	Exists(ctx context.Context, groupID, newsID int64) (bool, error)
	// Insert creates the link. A duplicate pair is not an error: created is false.
	Insert(ctx context.Context, groupID, newsID int64) (created bool, err error)
	// FirstGroupID returns the earliest linked group of newsID, or 0 when the
	// news item belongs to no group.
	FirstGroupID(ctx context.Context, newsID int64) (int64, error)
}
