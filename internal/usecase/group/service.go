package group

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

// Service provides group use cases. viewerID is the authenticated user id;
// the empty string is an anonymous viewer.
type Service struct {
	GroupRepo repository.GroupRepository
	NewsRepo  repository.NewsRepository
	SubRepo   repository.SubscriptionRepository
}

// ListGroups returns one page of groups ordered by id with their counters.
func (s *Service) ListGroups(ctx context.Context, params pagination.Params, viewerID string) (_ pagination.Response[GroupView], err error) {
	ctx, span := tracing.StartSpan(ctx, "group.ListGroups",
		attribute.Int("page", params.Page), attribute.Int("limit", params.Limit))
	defer func() { tracing.EndSpan(span, err) }()

	var (
		total  int64
		groups []repository.GroupWithStats
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n, err := s.GroupRepo.Count(egCtx)
		if err != nil {
			return fmt.Errorf("count groups: %w", err)
		}
		total = n
		return nil
	})
	eg.Go(func() error {
		list, err := s.GroupRepo.ListWithStatsPaginated(egCtx, params.Offset(), params.Limit)
		if err != nil {
			return fmt.Errorf("list groups: %w", err)
		}
		groups = list
		return nil
	})
	if err := eg.Wait(); err != nil {
		return pagination.Response[GroupView]{}, err
	}

	subscribed, err := s.subscribed(ctx, viewerID, lo.Map(groups, func(g repository.GroupWithStats, _ int) int64 {
		return g.Group.ID
	}))
	if err != nil {
		return pagination.Response[GroupView]{}, err
	}

	views := lo.Map(groups, func(g repository.GroupWithStats, _ int) GroupView {
		return newGroupView(g, subscribed[g.Group.ID])
	})
	return pagination.NewResponse(views, params, total), nil
}

// GetGroup returns the group with counters, the viewer's follow state and
// its RecentNewsLimit most recent news.
func (s *Service) GetGroup(ctx context.Context, id int64, viewerID string) (_ *GroupDetail, err error) {
	ctx, span := tracing.StartSpan(ctx, "group.GetGroup", attribute.Int64("group_id", id))
	defer func() { tracing.EndSpan(span, err) }()

	if id <= 0 {
		return nil, ErrInvalidGroupID
	}

	g, err := s.GroupRepo.GetWithStats(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}

	var (
		following bool
		recent    []*entity.News
	)
	eg, egCtx := errgroup.WithContext(ctx)
	if viewerID != "" {
		eg.Go(func() error {
			ok, err := s.SubRepo.IsSubscribed(egCtx, viewerID, id)
			if err != nil {
				return fmt.Errorf("check subscription: %w", err)
			}
			following = ok
			return nil
		})
	}
	eg.Go(func() error {
		list, err := s.NewsRepo.ListByGroupPaginated(egCtx, id, 0, RecentNewsLimit)
		if err != nil {
			return fmt.Errorf("list recent news: %w", err)
		}
		recent = list
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &GroupDetail{
		GroupView:       newGroupView(*g, following),
		IsUserFollowing: following,
		RecentNews: lo.Map(recent, func(n *entity.News, _ int) RecentNews {
			return RecentNews{ID: n.ID, Title: n.Title, PublishedAt: n.PublishedAt}
		}),
	}, nil
}

// Create adds a group. The name is required and must be unused.
func (s *Service) Create(ctx context.Context, name, description string) (*entity.Group, error) {
	name, err := entity.NormalizeGroupName(name)
	if err != nil {
		return nil, err
	}
	g, created, err := s.GroupRepo.FindOrCreate(ctx, name, strings.TrimSpace(description))
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	if !created {
		return nil, ErrGroupExists
	}
	return &g, nil
}

// Follow subscribes userID to the group.
func (s *Service) Follow(ctx context.Context, userID string, groupID int64) error {
	if err := s.checkTarget(ctx, userID, groupID); err != nil {
		return err
	}
	created, err := s.SubRepo.Subscribe(ctx, userID, groupID)
	if err != nil {
		return fmt.Errorf("follow group: %w", err)
	}
	if !created {
		return ErrAlreadyFollowing
	}
	return nil
}

// Unfollow removes the subscription of userID to the group.
func (s *Service) Unfollow(ctx context.Context, userID string, groupID int64) error {
	if err := s.checkTarget(ctx, userID, groupID); err != nil {
		return err
	}
	removed, err := s.SubRepo.Unsubscribe(ctx, userID, groupID)
	if err != nil {
		return fmt.Errorf("unfollow group: %w", err)
	}
	if !removed {
		return ErrNotFollowing
	}
	return nil
}

// ListFollowed returns one page of the groups userID follows.
func (s *Service) ListFollowed(ctx context.Context, userID string, params pagination.Params) (pagination.Response[GroupSummary], error) {
	if userID == "" {
		return pagination.Response[GroupSummary]{}, ErrViewerRequired
	}

	var (
		total  int64
		groups []*entity.Group
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		n, err := s.SubRepo.CountByUser(egCtx, userID)
		if err != nil {
			return fmt.Errorf("count followed groups: %w", err)
		}
		total = n
		return nil
	})
	eg.Go(func() error {
		list, err := s.SubRepo.ListGroupsPaginated(egCtx, userID, params.Offset(), params.Limit)
		if err != nil {
			return fmt.Errorf("list followed groups: %w", err)
		}
		groups = list
		return nil
	})
	if err := eg.Wait(); err != nil {
		return pagination.Response[GroupSummary]{}, err
	}

	return pagination.NewResponse(lo.Map(groups, func(g *entity.Group, _ int) GroupSummary {
		return newSummary(g)
	}), params, total), nil
}

func (s *Service) checkTarget(ctx context.Context, userID string, groupID int64) error {
	if userID == "" {
		return ErrViewerRequired
	}
	if groupID <= 0 {
		return ErrInvalidGroupID
	}
	g, err := s.GroupRepo.Get(ctx, groupID)
	if err != nil {
		return fmt.Errorf("get group: %w", err)
	}
	if g == nil {
		return ErrGroupNotFound
	}
	return nil
}

// subscribed loads the viewer's follow state for ids in one query.
func (s *Service) subscribed(ctx context.Context, viewerID string, ids []int64) (map[int64]bool, error) {
	if viewerID == "" || len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	subs, err := s.SubRepo.SubscribedGroupIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	return subs, nil
}
