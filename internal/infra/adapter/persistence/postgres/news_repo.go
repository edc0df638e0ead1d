package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/repository"
)

const newsColumns = `id, title, description, content, author, source_id, source_name,
       url, url_to_image, published_at, created_at, updated_at`

type NewsRepo struct {
	db           *sql.DB
	queryBuilder *NewsQueryBuilder
}

func NewNewsRepo(db *sql.DB) repository.NewsRepository {
	return &NewsRepo{
		db:           db,
		queryBuilder: NewNewsQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNews(s rowScanner) (*entity.News, error) {
	var n entity.News
	if err := s.Scan(&n.ID, &n.Title, &n.Description, &n.Content, &n.Author,
		&n.SourceID, &n.SourceName, &n.URL, &n.URLToImage,
		&n.PublishedAt, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// Upsert is a single INSERT ... ON CONFLICT statement so that concurrent
// ingestions of the same URL can never produce two rows.
// (xmax = 0) is true only for a freshly inserted tuple.
func (repo *NewsRepo) Upsert(ctx context.Context, news *entity.News) (entity.UpsertResult, error) {
	const query = `
INSERT INTO news
       (title, description, content, author, source_id, source_name, url, url_to_image, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (url) DO UPDATE SET
       title        = EXCLUDED.title,
       description  = EXCLUDED.description,
       content      = EXCLUDED.content,
       author       = EXCLUDED.author,
       source_id    = EXCLUDED.source_id,
       source_name  = EXCLUDED.source_name,
       url_to_image = EXCLUDED.url_to_image,
       published_at = EXCLUDED.published_at,
       updated_at   = NOW()
RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

	stored := *news
	var inserted bool
	err := repo.db.QueryRowContext(ctx, query,
		news.Title, news.Description, news.Content, news.Author,
		news.SourceID, news.SourceName, news.URL, news.URLToImage, news.PublishedAt,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt, &inserted)
	if err != nil {
		return entity.UpsertResult{}, fmt.Errorf("Upsert: %w", err)
	}
	return entity.UpsertResult{News: stored, Inserted: inserted}, nil
}

func (repo *NewsRepo) Get(ctx context.Context, id int64) (*entity.News, error) {
	const query = `SELECT ` + newsColumns + `
FROM news
WHERE id = $1
LIMIT 1`
	n, err := scanNews(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return n, nil
}

// ListPaginated retrieves news ordered by published_at DESC, id DESC.
func (repo *NewsRepo) ListPaginated(ctx context.Context, offset, limit int) ([]*entity.News, error) {
	query, args := repo.queryBuilder.BuildList(0, offset, limit)
	list, err := repo.queryNews(ctx, limit, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	return list, nil
}

func (repo *NewsRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM news`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *NewsRepo) ListByGroupPaginated(ctx context.Context, groupID int64, offset, limit int) ([]*entity.News, error) {
	query, args := repo.queryBuilder.BuildList(groupID, offset, limit)
	list, err := repo.queryNews(ctx, limit, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListByGroupPaginated: %w", err)
	}
	return list, nil
}

func (repo *NewsRepo) CountByGroup(ctx context.Context, groupID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM group_news WHERE group_id = $1`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, groupID).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountByGroup: %w", err)
	}
	return count, nil
}

func (repo *NewsRepo) queryNews(ctx context.Context, capacity int, query string, args ...any) ([]*entity.News, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	list := make([]*entity.News, 0, capacity)
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}
