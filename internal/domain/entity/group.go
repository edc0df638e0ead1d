package entity

import (
	"fmt"
	"strings"
	"time"
)

// maxGroupNameLength bounds classifier-suggested and user-created group names.
const maxGroupNameLength = 255

// Group is a topical cluster of news. Name is unique.
type Group struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// GroupStats carries the aggregate counters shown next to a group.
type GroupStats struct {
	NewsCount      int64
	FollowersCount int64
}

// NewsGroupLink ties one News item to one Group. (GroupID, NewsID) is unique.
type NewsGroupLink struct {
	GroupID   int64
	NewsID    int64
	CreatedAt time.Time
}

// Subscription records that a user follows a group. (UserID, GroupID) is unique.
type Subscription struct {
	UserID    string
	GroupID   int64
	CreatedAt time.Time
}

// NormalizeGroupName trims the name and validates it.
func NormalizeGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > maxGroupNameLength {
		return "", &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must not exceed %d characters", maxGroupNameLength),
		}
	}
	return name, nil
}
