package news

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"topicfeed/internal/common/pagination"
	"topicfeed/internal/domain/entity"
	"topicfeed/internal/observability/tracing"
	"topicfeed/internal/repository"
)

// Answerer answers a free-form question about a news item.
type Answerer interface {
	Answer(ctx context.Context, question string, n entity.News) (string, error)
}

// Service assembles news views. viewerID is the authenticated user id; the
// empty string is an anonymous viewer, who never sees a subscription.
// Answerer is optional.
type Service struct {
	NewsRepo  repository.NewsRepository
	GroupRepo repository.GroupRepository
	LinkRepo  repository.LinkRepository
	SubRepo   repository.SubscriptionRepository
	Answerer  Answerer
}

// ListNews returns one page of news, newest first.
func (s *Service) ListNews(ctx context.Context, params pagination.Params, viewerID string) (_ pagination.Response[NewsView], err error) {
	ctx, span := tracing.StartSpan(ctx, "news.ListNews",
		attribute.Int("page", params.Page), attribute.Int("limit", params.Limit))
	defer func() { tracing.EndSpan(span, err) }()

	return s.page(ctx, params, viewerID,
		s.NewsRepo.Count,
		func(ctx context.Context) ([]*entity.News, error) {
			return s.NewsRepo.ListPaginated(ctx, params.Offset(), params.Limit)
		})
}

// GetNews returns one news item.
func (s *Service) GetNews(ctx context.Context, id int64, viewerID string) (*NewsView, error) {
	if id <= 0 {
		return nil, ErrInvalidNewsID
	}
	n, err := s.NewsRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	if n == nil {
		return nil, ErrNewsNotFound
	}
	views, err := s.assemble(ctx, []*entity.News{n}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListGroupNews returns one page of the news linked to groupID.
func (s *Service) ListGroupNews(ctx context.Context, groupID int64, params pagination.Params, viewerID string) (_ pagination.Response[NewsView], err error) {
	ctx, span := tracing.StartSpan(ctx, "news.ListGroupNews",
		attribute.Int64("group_id", groupID), attribute.Int("page", params.Page))
	defer func() { tracing.EndSpan(span, err) }()

	if groupID <= 0 {
		return pagination.Response[NewsView]{}, ErrInvalidGroupID
	}
	g, err := s.GroupRepo.Get(ctx, groupID)
	if err != nil {
		return pagination.Response[NewsView]{}, fmt.Errorf("get group: %w", err)
	}
	if g == nil {
		return pagination.Response[NewsView]{}, ErrGroupNotFound
	}
	return s.groupPage(ctx, groupID, params, viewerID)
}

// Timeline returns the news of the first group newsID belongs to.
func (s *Service) Timeline(ctx context.Context, newsID int64, params pagination.Params, viewerID string) (pagination.Response[NewsView], error) {
	if newsID <= 0 {
		return pagination.Response[NewsView]{}, ErrInvalidNewsID
	}
	groupID, err := s.LinkRepo.FirstGroupID(ctx, newsID)
	if err != nil {
		return pagination.Response[NewsView]{}, fmt.Errorf("find timeline group: %w", err)
	}
	if groupID == 0 {
		return pagination.Response[NewsView]{}, ErrNotInAnyGroup
	}
	return s.groupPage(ctx, groupID, params, viewerID)
}

// AllSides returns the left/right/center comparison for newsID. No bias
// source is wired, so every side is null.
func (s *Service) AllSides(_ context.Context, newsID int64) (AllSides, error) {
	if newsID <= 0 {
		return AllSides{}, ErrInvalidNewsID
	}
	return AllSides{}, nil
}

// Ask answers question about newsID with the configured Answerer, or with
// a fixed placeholder when none is configured.
func (s *Service) Ask(ctx context.Context, question string, newsID int64) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrQuestionRequired
	}
	if newsID <= 0 {
		return nil, ErrInvalidNewsID
	}
	n, err := s.NewsRepo.Get(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("get news: %w", err)
	}
	if n == nil {
		return nil, ErrNewsNotFound
	}

	if s.Answerer == nil {
		return &Answer{Answer: placeholderAnswer(question, n.Title)}, nil
	}
	text, err := s.Answerer.Answer(ctx, question, *n)
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}
	return &Answer{Answer: text}, nil
}

func placeholderAnswer(question, title string) string {
	return fmt.Sprintf("AI answer for %q based on news: %s", question, title)
}

func (s *Service) groupPage(ctx context.Context, groupID int64, params pagination.Params, viewerID string) (pagination.Response[NewsView], error) {
	return s.page(ctx, params, viewerID,
		func(ctx context.Context) (int64, error) {
			return s.NewsRepo.CountByGroup(ctx, groupID)
		},
		func(ctx context.Context) ([]*entity.News, error) {
			return s.NewsRepo.ListByGroupPaginated(ctx, groupID, params.Offset(), params.Limit)
		})
}

// page runs the count and item queries concurrently and assembles the views.
func (s *Service) page(
	ctx context.Context,
	params pagination.Params,
	viewerID string,
	count func(context.Context) (int64, error),
	list func(context.Context) ([]*entity.News, error),
) (pagination.Response[NewsView], error) {
	var (
		total int64
		items []*entity.News
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n, err := count(egCtx)
		if err != nil {
			return fmt.Errorf("count news: %w", err)
		}
		total = n
		return nil
	})
	eg.Go(func() error {
		got, err := list(egCtx)
		if err != nil {
			return fmt.Errorf("list news: %w", err)
		}
		items = got
		return nil
	})
	if err := eg.Wait(); err != nil {
		return pagination.Response[NewsView]{}, err
	}

	views, err := s.assemble(ctx, items, viewerID)
	if err != nil {
		return pagination.Response[NewsView]{}, err
	}
	return pagination.NewResponse(views, params, total), nil
}

// assemble loads the groups of every item in one query and, for a known
// viewer, the subscription state of those groups in one more.
func (s *Service) assemble(ctx context.Context, items []*entity.News, viewerID string) ([]NewsView, error) {
	if len(items) == 0 {
		return []NewsView{}, nil
	}

	ids := lo.Map(items, func(n *entity.News, _ int) int64 { return n.ID })
	groupsByNews, err := s.GroupRepo.ListByNewsIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load news groups: %w", err)
	}

	subscribed := map[int64]bool{}
	if viewerID != "" {
		groupIDs := lo.Uniq(lo.FlatMap(lo.Values(groupsByNews), func(gs []entity.Group, _ int) []int64 {
			return lo.Map(gs, func(g entity.Group, _ int) int64 { return g.ID })
		}))
		if len(groupIDs) > 0 {
			subscribed, err = s.SubRepo.SubscribedGroupIDs(ctx, viewerID, groupIDs)
			if err != nil {
				return nil, fmt.Errorf("load subscriptions: %w", err)
			}
		}
	}

	return lo.Map(items, func(n *entity.News, _ int) NewsView {
		return newView(n, groupsByNews[n.ID], subscribed)
	}), nil
}
