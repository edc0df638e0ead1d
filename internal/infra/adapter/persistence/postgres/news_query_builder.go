// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// NewsQueryBuilder builds the paginated news listing queries, optionally
// scoped to one group through the group_news association table.
type NewsQueryBuilder struct{}

// NewNewsQueryBuilder creates a new query builder instance.
func NewNewsQueryBuilder() *NewsQueryBuilder {
	return &NewsQueryBuilder{}
}

var newsSelectColumns = []string{
	"n.id", "n.title", "n.description", "n.content", "n.author",
	"n.source_id", "n.source_name", "n.url", "n.url_to_image",
	"n.published_at", "n.created_at", "n.updated_at",
}

// BuildList returns a SELECT over news ordered newest first.
// groupID 0 means no group filter.
func (qb *NewsQueryBuilder) BuildList(groupID int64, offset, limit int) (string, []interface{}) {
	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(newsSelectColumns...).From("news n")

	if groupID != 0 {
		sb.JoinWithOption(sqlbuilder.InnerJoin, "group_news gn", "gn.news_id = n.id")
		sb.Where(sb.Equal("gn.group_id", groupID))
	}

	sb.OrderBy("n.published_at DESC", "n.id DESC")
	sb.Limit(limit)
	sb.Offset(offset)

	return sb.Build()
}
