// Package memory provides in-memory implementations of the repository
// interfaces. Uniqueness rules match the PostgreSQL schema, so the store can
// stand in for the database in tests and local dry runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/repository"
)

// Store holds all tables behind one mutex.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	news       map[int64]*entity.News
	newsByURL  map[string]int64
	groups     map[int64]*entity.Group
	groupByKey map[string]int64
	links      []entity.NewsGroupLink
	subs       map[subKey]time.Time

	nextNewsID  int64
	nextGroupID int64

	News          *NewsRepo
	Groups        *GroupRepo
	Links         *LinkRepo
	Subscriptions *SubscriptionRepo
}

type subKey struct {
	userID  string
	groupID int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{
		now:        time.Now,
		news:       map[int64]*entity.News{},
		newsByURL:  map[string]int64{},
		groups:     map[int64]*entity.Group{},
		groupByKey: map[string]int64{},
		subs:       map[subKey]time.Time{},
	}
	s.News = &NewsRepo{s: s}
	s.Groups = &GroupRepo{s: s}
	s.Links = &LinkRepo{s: s}
	s.Subscriptions = &SubscriptionRepo{s: s}
	return s
}

// NewsCount returns the number of stored news rows.
func (s *Store) NewsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.news)
}

// GroupCount returns the number of stored groups.
func (s *Store) GroupCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.groups)
}

// LinkCount returns the number of stored links.
func (s *Store) LinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// GroupNamesOf returns the names of the groups linked to newsID in link order.
func (s *Store) GroupNamesOf(newsID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for _, l := range s.links {
		if l.NewsID == newsID {
			names = append(names, s.groups[l.GroupID].Name)
		}
	}
	return names
}

func window[T any](items []T, offset, limit int) []T {
	if offset < 0 || limit < 1 || offset >= len(items) {
		return []T{}
	}
	end := offset + min(limit, len(items)-offset)
	return items[offset:end]
}

/* ───────── News ───────── */

type NewsRepo struct{ s *Store }

var _ repository.NewsRepository = (*NewsRepo)(nil)

func (r *NewsRepo) Upsert(_ context.Context, n *entity.News) (entity.UpsertResult, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if id, ok := s.newsByURL[n.URL]; ok {
		cur := s.news[id]
		created := cur.CreatedAt
		*cur = *n
		cur.ID = id
		cur.CreatedAt = created
		cur.UpdatedAt = now
		return entity.UpsertResult{News: *cur, Inserted: false}, nil
	}

	s.nextNewsID++
	stored := *n
	stored.ID = s.nextNewsID
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.news[stored.ID] = &stored
	s.newsByURL[stored.URL] = stored.ID
	return entity.UpsertResult{News: stored, Inserted: true}, nil
}

func (r *NewsRepo) Get(_ context.Context, id int64) (*entity.News, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.news[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r *NewsRepo) sorted(filter func(int64) bool) []*entity.News {
	out := make([]*entity.News, 0, len(r.s.news))
	for id, n := range r.s.news {
		if filter != nil && !filter(id) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *NewsRepo) ListPaginated(_ context.Context, offset, limit int) ([]*entity.News, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return window(r.sorted(nil), offset, limit), nil
}

func (r *NewsRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.news)), nil
}

func (r *NewsRepo) inGroup(groupID int64) func(int64) bool {
	ids := map[int64]bool{}
	for _, l := range r.s.links {
		if l.GroupID == groupID {
			ids[l.NewsID] = true
		}
	}
	return func(id int64) bool { return ids[id] }
}

func (r *NewsRepo) ListByGroupPaginated(_ context.Context, groupID int64, offset, limit int) ([]*entity.News, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return window(r.sorted(r.inGroup(groupID)), offset, limit), nil
}

func (r *NewsRepo) CountByGroup(_ context.Context, groupID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.sorted(r.inGroup(groupID)))), nil
}

/* ───────── Groups ───────── */

type GroupRepo struct{ s *Store }

var _ repository.GroupRepository = (*GroupRepo)(nil)

func (r *GroupRepo) FindOrCreate(_ context.Context, name, description string) (entity.Group, bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.groupByKey[name]; ok {
		return *s.groups[id], false, nil
	}
	s.nextGroupID++
	g := &entity.Group{ID: s.nextGroupID, Name: name, Description: description, CreatedAt: s.now()}
	s.groups[g.ID] = g
	s.groupByKey[name] = g.ID
	return *g, true, nil
}

func (r *GroupRepo) Get(_ context.Context, id int64) (*entity.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (r *GroupRepo) stats(id int64) entity.GroupStats {
	var st entity.GroupStats
	for _, l := range r.s.links {
		if l.GroupID == id {
			st.NewsCount++
		}
	}
	for k := range r.s.subs {
		if k.groupID == id {
			st.FollowersCount++
		}
	}
	return st
}

func (r *GroupRepo) GetWithStats(_ context.Context, id int64) (*repository.GroupWithStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, nil
	}
	return &repository.GroupWithStats{Group: *g, Stats: r.stats(id)}, nil
}

func (r *GroupRepo) ListWithStatsPaginated(_ context.Context, offset, limit int) ([]repository.GroupWithStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]int64, 0, len(r.s.groups))
	for id := range r.s.groups {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]repository.GroupWithStats, 0, len(ids))
	for _, id := range window(ids, offset, limit) {
		out = append(out, repository.GroupWithStats{Group: *r.s.groups[id], Stats: r.stats(id)})
	}
	return out, nil
}

func (r *GroupRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.groups)), nil
}

func (r *GroupRepo) ListByNewsIDs(_ context.Context, newsIDs []int64) (map[int64][]entity.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range newsIDs {
		want[id] = true
	}
	out := map[int64][]entity.Group{}
	for _, l := range r.s.links {
		if want[l.NewsID] {
			out[l.NewsID] = append(out[l.NewsID], *r.s.groups[l.GroupID])
		}
	}
	return out, nil
}

/* ───────── Links ───────── */

type LinkRepo struct{ s *Store }

var _ repository.LinkRepository = (*LinkRepo)(nil)

func (r *LinkRepo) exists(groupID, newsID int64) bool {
	for _, l := range r.s.links {
		if l.GroupID == groupID && l.NewsID == newsID {
			return true
		}
	}
	return false
}

func (r *LinkRepo) Exists(_ context.Context, groupID, newsID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.exists(groupID, newsID), nil
}

func (r *LinkRepo) Insert(_ context.Context, groupID, newsID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.exists(groupID, newsID) {
		return false, nil
	}
	r.s.links = append(r.s.links, entity.NewsGroupLink{GroupID: groupID, NewsID: newsID, CreatedAt: r.s.now()})
	return true, nil
}

func (r *LinkRepo) FirstGroupID(_ context.Context, newsID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, l := range r.s.links {
		if l.NewsID == newsID {
			return l.GroupID, nil
		}
	}
	return 0, nil
}

/* ───────── Subscriptions ───────── */

type SubscriptionRepo struct{ s *Store }

var _ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)

func (r *SubscriptionRepo) Subscribe(_ context.Context, userID string, groupID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := subKey{userID, groupID}
	if _, ok := r.s.subs[k]; ok {
		return false, nil
	}
	r.s.subs[k] = r.s.now()
	return true, nil
}

func (r *SubscriptionRepo) Unsubscribe(_ context.Context, userID string, groupID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := subKey{userID, groupID}
	if _, ok := r.s.subs[k]; !ok {
		return false, nil
	}
	delete(r.s.subs, k)
	return true, nil
}

func (r *SubscriptionRepo) IsSubscribed(_ context.Context, userID string, groupID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.subs[subKey{userID, groupID}]
	return ok, nil
}

func (r *SubscriptionRepo) SubscribedGroupIDs(_ context.Context, userID string, groupIDs []int64) (map[int64]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[int64]bool{}
	if userID == "" {
		return out, nil
	}
	for _, id := range groupIDs {
		if _, ok := r.s.subs[subKey{userID, id}]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r *SubscriptionRepo) ListGroupsPaginated(_ context.Context, userID string, offset, limit int) ([]*entity.Group, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	type followed struct {
		g  *entity.Group
		at time.Time
	}
	var all []followed
	for k, at := range r.s.subs {
		if k.userID == userID {
			all = append(all, followed{r.s.groups[k.groupID], at})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].at.Equal(all[j].at) {
			return all[i].at.After(all[j].at)
		}
		return all[i].g.ID > all[j].g.ID
	})
	out := make([]*entity.Group, 0, len(all))
	for _, f := range window(all, offset, limit) {
		cp := *f.g
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SubscriptionRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for k := range r.s.subs {
		if k.userID == userID {
			n++
		}
	}
	return n, nil
}
