package grouping

import (
	"context"
	"fmt"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/repository"
)

// Linker records News-Group associations.
type Linker struct {
	Repo repository.LinkRepository
}

// NewLinker returns a Linker backed by repo.
func NewLinker(repo repository.LinkRepository) *Linker {
	return &Linker{Repo: repo}
}

// LinkIfAbsent ensures a link between newsID and groupID exists. An existing
// link is success with created=false. The existence check only saves a write;
// the insert itself tolerates a concurrent duplicate.
func (l *Linker) LinkIfAbsent(ctx context.Context, newsID, groupID int64) (created bool, err error) {
	if newsID <= 0 {
		return false, &entity.ValidationError{Field: "newsId", Message: "must be positive"}
	}
	if groupID <= 0 {
		return false, &entity.ValidationError{Field: "groupId", Message: "must be positive"}
	}

	exists, err := l.Repo.Exists(ctx, groupID, newsID)
	if err != nil {
		return false, fmt.Errorf("check link news=%d group=%d: %w", newsID, groupID, err)
	}
	if exists {
		return false, nil
	}

	created, err = l.Repo.Insert(ctx, groupID, newsID)
	if err != nil {
		return false, fmt.Errorf("insert link news=%d group=%d: %w", newsID, groupID, err)
	}
	return created, nil
}
