// Package group provides the topic group use cases: listing with counters,
// detail with recent news, creation, and following.
package group

import "errors"

// Sentinel errors for group use case operations.
var (
	// ErrGroupNotFound indicates that the requested group does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrInvalidGroupID indicates a non-positive group id.
	ErrInvalidGroupID = errors.New("invalid group ID")

	// ErrGroupExists is returned by Create when the name is taken.
	ErrGroupExists = errors.New("group with this name already exists")

	// ErrAlreadyFollowing is returned by Follow for an existing subscription.
	ErrAlreadyFollowing = errors.New("already following this group")

	// ErrNotFollowing is returned by Unfollow when there is nothing to remove.
	ErrNotFollowing = errors.New("not following this group")

	// ErrViewerRequired is returned when an operation needs an authenticated user.
	ErrViewerRequired = errors.New("authenticated user required")
)
