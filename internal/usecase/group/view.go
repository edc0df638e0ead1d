package group

import (
	"time"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/repository"
)

// RecentNewsLimit is how many news items a group detail shows.
const RecentNewsLimit = 5

// GroupView is a group as listed to one viewer.
type GroupView struct {
	ID                      int64     `json:"id"`
	Name                    string    `json:"name"`
	Description             string    `json:"description"`
	NewsCount               int64     `json:"newsCount"`
	FollowersCount          int64     `json:"followersCount"`
	IsUserSubscribedToGroup bool      `json:"isUserSubscribedToGroup"`
	CreatedAt               time.Time `json:"createdAt"`
}

// RecentNews is the short news form embedded in a group detail.
type RecentNews struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"publishedAt"`
}

// GroupDetail is GroupView plus the most recent news of the group.
// IsUserFollowing mirrors IsUserSubscribedToGroup for older clients.
type GroupDetail struct {
	GroupView
	IsUserFollowing bool         `json:"isUserFollowing"`
	RecentNews      []RecentNews `json:"recentNews"`
}

// GroupSummary is a followed group in the follow-up list.
type GroupSummary struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func newGroupView(g repository.GroupWithStats, subscribed bool) GroupView {
	return GroupView{
		ID:                      g.Group.ID,
		Name:                    g.Group.Name,
		Description:             g.Group.Description,
		NewsCount:               g.Stats.NewsCount,
		FollowersCount:          g.Stats.FollowersCount,
		IsUserSubscribedToGroup: subscribed,
		CreatedAt:               g.Group.CreatedAt,
	}
}

func newSummary(g *entity.Group) GroupSummary {
	return GroupSummary{ID: g.ID, Name: g.Name, Description: g.Description, CreatedAt: g.CreatedAt}
}
