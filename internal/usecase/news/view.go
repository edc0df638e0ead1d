package news

import (
	"time"

	"topicfeed/internal/domain/entity"
)

// GroupRef is a group as embedded in a news view.
type GroupRef struct {
	ID                      int64  `json:"id"`
	Name                    string `json:"name"`
	Description             string `json:"description"`
	IsUserSubscribedToGroup bool   `json:"isUserSubscribedToGroup"`
}

// NewsView is a news item as shown to one viewer. GroupID and GroupName
// describe the first linked group and are null for ungrouped news.
// IsUserSubscribedToGroup is true when the viewer follows any linked group.
type NewsView struct {
	ID                      int64      `json:"id"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Content                 string     `json:"content"`
	Author                  string     `json:"author"`
	SourceID                string     `json:"sourceId"`
	SourceName              string     `json:"sourceName"`
	URL                     string     `json:"url"`
	URLToImage              string     `json:"urlToImage"`
	PublishedAt             time.Time  `json:"publishedAt"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
	Groups                  []GroupRef `json:"groups"`
	GroupID                 *int64     `json:"groupId"`
	GroupName               *string    `json:"groupName"`
	IsUserSubscribedToGroup bool       `json:"isUserSubscribedToGroup"`
}

// AllSides is the left/right/center comparison. Every side is currently null.
type AllSides struct {
	Left   *NewsView `json:"left"`
	Right  *NewsView `json:"right"`
	Center *NewsView `json:"center"`
}

// Answer is the response to a question about a news item.
type Answer struct {
	Answer string `json:"answer"`
}

func newView(n *entity.News, groups []entity.Group, subscribed map[int64]bool) NewsView {
	v := NewsView{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		Content:     n.Content,
		Author:      n.Author,
		SourceID:    n.SourceID,
		SourceName:  n.SourceName,
		URL:         n.URL,
		URLToImage:  n.URLToImage,
		PublishedAt: n.PublishedAt,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
		Groups:      make([]GroupRef, 0, len(groups)),
	}
	for i, g := range groups {
		sub := subscribed[g.ID]
		v.Groups = append(v.Groups, GroupRef{
			ID:                      g.ID,
			Name:                    g.Name,
			Description:             g.Description,
			IsUserSubscribedToGroup: sub,
		})
		if i == 0 {
			v.GroupID = &groups[i].ID
			v.GroupName = &groups[i].Name
		}
		v.IsUserSubscribedToGroup = v.IsUserSubscribedToGroup || sub
	}
	return v
}
