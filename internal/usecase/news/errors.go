// Package news assembles the read-side news views: paginated lists,
// per-group lists and timelines, each annotated with the groups an item
// belongs to and whether the viewer follows them.
package news

import (
	"errors"

	"topicfeed/internal/usecase/group"
)

// Sentinel errors for news use case operations.
var (
	// ErrNewsNotFound indicates that the requested news item does not exist.
	ErrNewsNotFound = errors.New("news not found")

	// ErrInvalidNewsID indicates a non-positive news id.
	ErrInvalidNewsID = errors.New("invalid news ID")

	// ErrNotInAnyGroup is returned by Timeline for an ungrouped news item.
	ErrNotInAnyGroup = errors.New("news not found in any group")

	// ErrQuestionRequired is returned by Ask for a blank question.
	ErrQuestionRequired = errors.New("question is required")

	// Shared with the group package so one error mapping covers both.
	ErrGroupNotFound  = group.ErrGroupNotFound
	ErrInvalidGroupID = group.ErrInvalidGroupID
)
