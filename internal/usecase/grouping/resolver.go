// Package grouping resolves classifier suggestions into persisted groups and
// links news items to them. Both operations are idempotent and safe to run
// concurrently: uniqueness is enforced by storage, never by in-process locks.
package grouping

import (
	"context"
	"fmt"
	"strings"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/repository"
)

// Resolver maps a group name to exactly one stored Group.
type Resolver struct {
	Repo repository.GroupRepository
}

// NewResolver returns a Resolver backed by repo.
func NewResolver(repo repository.GroupRepository) *Resolver {
	return &Resolver{Repo: repo}
}

// ResolveGroup returns the group named name, creating it with description if
// absent. Concurrent callers with the same name observe the same id. The
// description of an existing group is left untouched.
func (r *Resolver) ResolveGroup(ctx context.Context, name, description string) (entity.Group, error) {
	normalized, err := entity.NormalizeGroupName(name)
	if err != nil {
		return entity.Group{}, err
	}

	group, _, err := r.Repo.FindOrCreate(ctx, normalized, strings.TrimSpace(description))
	if err != nil {
		return entity.Group{}, fmt.Errorf("resolve group %q: %w", normalized, err)
	}
	return group, nil
}
