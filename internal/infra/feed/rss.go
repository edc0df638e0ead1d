package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"topicfeed/internal/resilience/circuitbreaker"
	"topicfeed/internal/resilience/retry"
	"topicfeed/internal/usecase/ingest"
)

const userAgent = "TopicFeedBot/1.0"

// RSS fetches one RSS or Atom feed with gofeed.
type RSS struct {
	name           string
	url            string
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSS returns a source named name reading feedURL.
func NewRSS(client *http.Client, name, feedURL string) *RSS {
	cbCfg := circuitbreaker.FeedFetchConfig()
	cbCfg.Name = "feed-fetch:" + name
	return &RSS{
		name:           name,
		url:            feedURL,
		client:         client,
		circuitBreaker: circuitbreaker.New(cbCfg),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

var _ ingest.FeedSource = (*RSS)(nil)

func (f *RSS) Name() string { return f.name }

// Fetch downloads and parses the feed.
func (f *RSS) Fetch(ctx context.Context) ([]ingest.RawArticle, error) {
	var items []ingest.RawArticle

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "feed fetch circuit breaker open, request rejected",
					slog.String("source", f.name),
					slog.String("url", f.url),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		items = cbResult.([]ingest.RawArticle)
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", f.name, retryErr)
	}
	return items, nil
}

func (f *RSS) doFetch(ctx context.Context) ([]ingest.RawArticle, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = f.client

	parsed, err := fp.ParseURLWithContext(f.url, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, &retry.HTTPError{StatusCode: httpErr.StatusCode, Message: httpErr.Status}
		}
		return nil, err
	}

	items := make([]ingest.RawArticle, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		items = append(items, ingest.RawArticle{
			Title:       it.Title,
			Description: it.Description,
			Content:     it.Content,
			Author:      itemAuthor(it),
			SourceID:    f.name,
			SourceName:  strings.TrimSpace(parsed.Title),
			URL:         it.Link,
			URLToImage:  itemImage(it),
			PublishedAt: itemPublished(it),
		})
	}
	return items, nil
}

func itemAuthor(it *gofeed.Item) string {
	if it.Author != nil && it.Author.Name != "" {
		return it.Author.Name
	}
	if len(it.Authors) > 0 && it.Authors[0] != nil {
		return it.Authors[0].Name
	}
	return ""
}

func itemImage(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

// itemPublished renders the parsed date as RFC 3339; an empty string lets
// the normalizer fall back to the ingestion time.
func itemPublished(it *gofeed.Item) string {
	switch {
	case it.PublishedParsed != nil:
		return it.PublishedParsed.UTC().Format(time.RFC3339)
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		return ""
	}
}
