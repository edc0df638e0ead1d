package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"topicfeed/internal/repository"
)

type LinkRepo struct {
	db *sql.DB
}

func NewLinkRepo(db *sql.DB) repository.LinkRepository {
	return &LinkRepo{db: db}
}

func (repo *LinkRepo) Exists(ctx context.Context, groupID, newsID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM group_news WHERE group_id = $1 AND news_id = $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, groupID, newsID).Scan(&exists); err != nil {
		return false, fmt.Errorf("Exists: %w", err)
	}
	return exists, nil
}

// Insert leans on UNIQUE(group_id, news_id); a concurrent duplicate is a no-op.
func (repo *LinkRepo) Insert(ctx context.Context, groupID, newsID int64) (bool, error) {
	const query = `
INSERT INTO group_news (group_id, news_id)
VALUES ($1, $2)
ON CONFLICT (group_id, news_id) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, groupID, newsID)
	if err != nil {
		return false, fmt.Errorf("Insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Insert: RowsAffected: %w", err)
	}
	return n > 0, nil
}

func (repo *LinkRepo) FirstGroupID(ctx context.Context, newsID int64) (int64, error) {
	const query = `
SELECT group_id
FROM group_news
WHERE news_id = $1
ORDER BY id
LIMIT 1`
	var groupID int64
	err := repo.db.QueryRowContext(ctx, query, newsID).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("FirstGroupID: %w", err)
	}
	return groupID, nil
}
