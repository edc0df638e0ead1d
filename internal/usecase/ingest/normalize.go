package ingest

import (
	"strings"
	"time"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/utils/text"
)

// RawArticle is one item as delivered by a feed. PublishedAt is kept as the
// feed's ISO 8601 string and parsed during normalisation.
type RawArticle struct {
	Title       string
	Description string
	Content     string
	Author      string
	SourceID    string
	SourceName  string
	URL         string
	URLToImage  string
	PublishedAt string
}

var publishedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// Normalize projects raw into a News value with defaults applied. It fails
// only when the URL is missing or invalid. ingestedAt replaces a missing or
// unparsable publish time.
func Normalize(raw RawArticle, ingestedAt time.Time) (entity.News, error) {
	url := strings.TrimSpace(raw.URL)
	if err := entity.ValidateURL(url); err != nil {
		return entity.News{}, err
	}

	return entity.News{
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Content:     strings.TrimSpace(raw.Content),
		Author:      strings.TrimSpace(raw.Author),
		SourceID:    orUnknown(raw.SourceID),
		SourceName:  orUnknown(raw.SourceName),
		URL:         url,
		URLToImage:  strings.TrimSpace(raw.URLToImage),
		PublishedAt: parsePublishedAt(raw.PublishedAt, ingestedAt),
	}, nil
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return entity.SourceUnknown
	}
	return s
}

func parsePublishedAt(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback.UTC()
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback.UTC()
}

// ClassifierInput strips markup and the feed's truncation marker from the
// stored text.
func ClassifierInput(n entity.News) ClassifyInput {
	return ClassifyInput{
		Title:       text.CollapseWhitespace(n.Title),
		Description: text.StripHTML(text.StripTruncationMarker(n.Description)),
		Content:     text.StripHTML(text.StripTruncationMarker(n.Content)),
	}
}
