package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/repository"

	"github.com/lib/pq"
)

type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) repository.SubscriptionRepository {
	return &SubscriptionRepo{db: db}
}

func (repo *SubscriptionRepo) Subscribe(ctx context.Context, userID string, groupID int64) (bool, error) {
	const query = `
INSERT INTO user_groups (user_id, group_id)
VALUES ($1, $2)
ON CONFLICT (user_id, group_id) DO NOTHING`
	res, err := repo.db.ExecContext(ctx, query, userID, groupID)
	if err != nil {
		return false, fmt.Errorf("Subscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Subscribe: RowsAffected: %w", err)
	}
	return n > 0, nil
}

func (repo *SubscriptionRepo) Unsubscribe(ctx context.Context, userID string, groupID int64) (bool, error) {
	const query = `DELETE FROM user_groups WHERE user_id = $1 AND group_id = $2`
	res, err := repo.db.ExecContext(ctx, query, userID, groupID)
	if err != nil {
		return false, fmt.Errorf("Unsubscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Unsubscribe: RowsAffected: %w", err)
	}
	return n > 0, nil
}

func (repo *SubscriptionRepo) IsSubscribed(ctx context.Context, userID string, groupID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM user_groups WHERE user_id = $1 AND group_id = $2)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, userID, groupID).Scan(&exists); err != nil {
		return false, fmt.Errorf("IsSubscribed: %w", err)
	}
	return exists, nil
}

func (repo *SubscriptionRepo) SubscribedGroupIDs(ctx context.Context, userID string, groupIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(groupIDs))
	if userID == "" || len(groupIDs) == 0 {
		return result, nil
	}

	const query = `
SELECT group_id
FROM user_groups
WHERE user_id = $1
  AND group_id = ANY($2)`
	rows, err := repo.db.QueryContext(ctx, query, userID, pq.Array(groupIDs))
	if err != nil {
		return nil, fmt.Errorf("SubscribedGroupIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("SubscribedGroupIDs: Scan: %w", err)
		}
		result[id] = true
	}
	return result, rows.Err()
}

func (repo *SubscriptionRepo) ListGroupsPaginated(ctx context.Context, userID string, offset, limit int) ([]*entity.Group, error) {
	const query = `
SELECT g.id, g.name, g.description, g.created_at
FROM user_groups ug
INNER JOIN groups g ON g.id = ug.group_id
WHERE ug.user_id = $1
ORDER BY ug.created_at DESC, g.id DESC
LIMIT $2 OFFSET $3`
	rows, err := repo.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListGroupsPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	groups := make([]*entity.Group, 0, limit)
	for rows.Next() {
		var g entity.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListGroupsPaginated: Scan: %w", err)
		}
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

func (repo *SubscriptionRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM user_groups WHERE user_id = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByUser: %w", err)
	}
	return count, nil
}
