// Package fetcher downloads article pages and extracts their readable text
// with go-readability. It implements ingest.ContentFetcher.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/sony/gobreaker"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/resilience/circuitbreaker"
	"topicfeed/internal/resilience/retry"
	"topicfeed/internal/usecase/ingest"
	"topicfeed/internal/utils/text"
)

var (
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBodyTooLarge     = errors.New("response body too large")
	ErrNoContent        = errors.New("no readable content found")
	ErrTimeout          = errors.New("content fetch timed out")
)

const userAgent = "TopicFeedBot/1.0"

// ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         ContentFetchConfig
}

var _ ingest.ContentFetcher = (*ReadabilityFetcher)(nil)

// NewReadabilityFetcher builds a fetcher with its own HTTP client. Redirect
// targets go through the same URL validation as the first request.
func NewReadabilityFetcher(cfg ContentFetchConfig) *ReadabilityFetcher {
	f := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentFetchConfig()),
		retryConfig:    retry.ContentFetchConfig(),
		config:         cfg,
	}
	f.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig:     &tls.Config{MinVersion: tls.VersionTLS12},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := f.validate(req.URL.String()); err != nil {
				return fmt.Errorf("redirect target: %w", err)
			}
			return nil
		},
	}
	return f
}

func (f *ReadabilityFetcher) validate(rawURL string) error {
	if f.config.DenyPrivateIPs {
		return entity.ValidateOutboundURL(rawURL)
	}
	return entity.ValidateURL(rawURL)
}

// FetchContent returns the readable text of the page at rawURL.
func (f *ReadabilityFetcher) FetchContent(ctx context.Context, rawURL string) (string, error) {
	if err := f.validate(rawURL); err != nil {
		return "", err
	}

	var content string
	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, rawURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.WarnContext(ctx, "content fetch circuit breaker open",
					slog.String("url", rawURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		content = result.(string)
		return nil
	})
	if retryErr != nil {
		return "", retryErr
	}
	return content, nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, rawURL string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: request exceeded %v", ErrTimeout, f.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.config.MaxBodySize {
		return "", fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}

	pageURL := resp.Request.URL // final URL after redirects
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoContent, err)
	}

	content := text.CollapseWhitespace(article.TextContent)
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}
