// Package feed implements the ingestion feed sources: the NewsAPI JSON
// endpoint, RSS/Atom feeds, and a combinator fetching several at once.
// Every upstream call goes through a circuit breaker and retry with backoff.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"topicfeed/internal/resilience/circuitbreaker"
	"topicfeed/internal/resilience/retry"
	"topicfeed/internal/usecase/ingest"
)

// maxNewsAPIBody bounds the decoded response size.
const maxNewsAPIBody = 10 << 20

// NewsAPIConfig configures a NewsAPI source.
type NewsAPIConfig struct {
	Name     string // source label used in logs and metrics; defaults to "newsapi"
	URL      string // e.g. https://newsapi.org/v2/everything
	APIKey   string
	Query    string // "q" parameter
	PageSize int    // 0 leaves the upstream default
}

// NewsAPI fetches articles from a NewsAPI compatible endpoint.
type NewsAPI struct {
	cfg            NewsAPIConfig
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewNewsAPI returns a NewsAPI source using client for requests.
func NewNewsAPI(client *http.Client, cfg NewsAPIConfig) *NewsAPI {
	if cfg.Name == "" {
		cfg.Name = "newsapi"
	}
	return &NewsAPI{
		cfg:            cfg,
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NewsAPIConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
}

var _ ingest.FeedSource = (*NewsAPI)(nil)

func (n *NewsAPI) Name() string { return n.cfg.Name }

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
}

type newsAPIArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// Fetch returns the current result page of the configured query.
func (n *NewsAPI) Fetch(ctx context.Context) ([]ingest.RawArticle, error) {
	var articles []ingest.RawArticle

	retryErr := retry.WithBackoff(ctx, n.retryConfig, func() error {
		cbResult, err := n.circuitBreaker.Execute(func() (interface{}, error) {
			return n.doFetch(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "newsapi circuit breaker open, request rejected",
					slog.String("source", n.cfg.Name),
					slog.String("state", n.circuitBreaker.State().String()))
			}
			return err
		}
		articles = cbResult.([]ingest.RawArticle)
		return nil
	})
	if retryErr != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", retryErr)
	}
	return articles, nil
}

func (n *NewsAPI) requestURL() (string, error) {
	u, err := url.Parse(n.cfg.URL)
	if err != nil {
		return "", fmt.Errorf("parse NEWS_API_URL: %w", err)
	}
	q := u.Query()
	if n.cfg.Query != "" {
		q.Set("q", n.cfg.Query)
	}
	if n.cfg.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(n.cfg.PageSize))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (n *NewsAPI) doFetch(ctx context.Context) ([]ingest.RawArticle, error) {
	endpoint, err := n.requestURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", n.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var body newsAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxNewsAPIBody)).Decode(&body); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return nil, fmt.Errorf("decode newsapi response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		msg := body.Message
		if body.Code != "" {
			msg = body.Code + ": " + msg
		}
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: msg}
	}

	out := make([]ingest.RawArticle, 0, len(body.Articles))
	for _, a := range body.Articles {
		out = append(out, ingest.RawArticle{
			Title:       a.Title,
			Description: deref(a.Description),
			Content:     deref(a.Content),
			Author:      deref(a.Author),
			SourceID:    deref(a.Source.ID),
			SourceName:  deref(a.Source.Name),
			URL:         a.URL,
			URLToImage:  deref(a.URLToImage),
			PublishedAt: a.PublishedAt,
		})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
