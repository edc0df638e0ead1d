// Package entity defines the core domain entities and validation logic for the application.
// It contains the news items, topic groups and the relations between them, along with
// their validation rules and domain-specific errors.
package entity

import "time"

// SourceUnknown is stored when the feed does not identify the publisher.
const SourceUnknown = "unknown"

// News is a single article persisted from the feed.
// URL is the natural key: at most one News row exists per URL.
type News struct {
	ID          int64
	Title       string
	Description string
	Content     string
	Author      string
	SourceID    string
	SourceName  string
	URL         string
	URLToImage  string
	PublishedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpsertResult reports the row resolved by an upsert keyed by URL.
// Inserted is true only when the row did not exist before the write.
type UpsertResult struct {
	News     News
	Inserted bool
}
