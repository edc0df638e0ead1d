// Package ingest turns raw feed articles into stored, classified and grouped
// news. Articles are processed sequentially; one article's failure never
// aborts the batch, and committed rows are never rolled back.
package ingest

import "errors"

var (
	// ErrFeedUnavailable wraps a feed failure. It is fatal for the run:
	// nothing is ingested.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrRunInProgress is returned when another ingestion run holds the lock.
	ErrRunInProgress = errors.New("ingestion run already in progress")

	// ErrNoFeedSource is returned by Run when no feed source is configured.
	ErrNoFeedSource = errors.New("no feed source configured")
)
