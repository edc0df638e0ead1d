package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/repository"

	"github.com/lib/pq"
)

type GroupRepo struct {
	db *sql.DB
}

func NewGroupRepo(db *sql.DB) repository.GroupRepository {
	return &GroupRepo{db: db}
}

// FindOrCreate relies on the UNIQUE(name) constraint: the insert is a no-op
// on conflict, and the existing row is then read in a fresh statement so a
// row committed by a concurrent insert is visible.
func (repo *GroupRepo) FindOrCreate(ctx context.Context, name, description string) (entity.Group, bool, error) {
	const insert = `
INSERT INTO groups (name, description)
VALUES ($1, $2)
ON CONFLICT (name) DO NOTHING
RETURNING id, name, description, created_at`

	var g entity.Group
	err := repo.db.QueryRowContext(ctx, insert, name, description).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt)
	if err == nil {
		return g, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return entity.Group{}, false, fmt.Errorf("FindOrCreate: insert: %w", err)
	}

	const lookup = `
SELECT id, name, description, created_at
FROM groups
WHERE name = $1`
	err = repo.db.QueryRowContext(ctx, lookup, name).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt)
	if err != nil {
		return entity.Group{}, false, fmt.Errorf("FindOrCreate: lookup: %w", err)
	}
	return g, false, nil
}

func (repo *GroupRepo) Get(ctx context.Context, id int64) (*entity.Group, error) {
	const query = `
SELECT id, name, description, created_at
FROM groups
WHERE id = $1`
	var g entity.Group
	err := repo.db.QueryRowContext(ctx, query, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &g, nil
}

const groupWithStatsSelect = `
SELECT g.id, g.name, g.description, g.created_at,
       (SELECT COUNT(*) FROM group_news gn WHERE gn.group_id = g.id)  AS news_count,
       (SELECT COUNT(*) FROM user_groups ug WHERE ug.group_id = g.id) AS followers_count
FROM groups g`

func scanGroupWithStats(s rowScanner) (repository.GroupWithStats, error) {
	var gs repository.GroupWithStats
	err := s.Scan(&gs.Group.ID, &gs.Group.Name, &gs.Group.Description, &gs.Group.CreatedAt,
		&gs.Stats.NewsCount, &gs.Stats.FollowersCount)
	return gs, err
}

func (repo *GroupRepo) GetWithStats(ctx context.Context, id int64) (*repository.GroupWithStats, error) {
	const query = groupWithStatsSelect + `
WHERE g.id = $1`
	gs, err := scanGroupWithStats(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetWithStats: %w", err)
	}
	return &gs, nil
}

func (repo *GroupRepo) ListWithStatsPaginated(ctx context.Context, offset, limit int) ([]repository.GroupWithStats, error) {
	const query = groupWithStatsSelect + `
ORDER BY g.id ASC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListWithStatsPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.GroupWithStats, 0, limit)
	for rows.Next() {
		gs, err := scanGroupWithStats(rows)
		if err != nil {
			return nil, fmt.Errorf("ListWithStatsPaginated: Scan: %w", err)
		}
		result = append(result, gs)
	}
	return result, rows.Err()
}

func (repo *GroupRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM groups`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

// ListByNewsIDs loads the groups of a whole page of news in one round trip.
func (repo *GroupRepo) ListByNewsIDs(ctx context.Context, newsIDs []int64) (map[int64][]entity.Group, error) {
	result := make(map[int64][]entity.Group)
	if len(newsIDs) == 0 {
		return result, nil
	}

	const query = `
SELECT gn.news_id, g.id, g.name, g.description, g.created_at
FROM group_news gn
INNER JOIN groups g ON g.id = gn.group_id
WHERE gn.news_id = ANY($1)
ORDER BY gn.news_id, gn.id`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(newsIDs))
	if err != nil {
		return nil, fmt.Errorf("ListByNewsIDs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var newsID int64
		var g entity.Group
		if err := rows.Scan(&newsID, &g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListByNewsIDs: Scan: %w", err)
		}
		result[newsID] = append(result[newsID], g)
	}
	return result, rows.Err()
}
