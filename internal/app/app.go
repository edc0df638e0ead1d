// Package app wires repositories, upstream clients and use cases from the
// environment. The api, worker and CLI binaries share it.
package app

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	pgRepo "topicfeed/internal/infra/adapter/persistence/postgres"
	"topicfeed/internal/infra/classifier"
	"topicfeed/internal/infra/feed"
	"topicfeed/internal/infra/fetcher"
	"topicfeed/internal/infra/lock"
	"topicfeed/internal/pkg/config"
	"topicfeed/internal/repository"
	groupUC "topicfeed/internal/usecase/group"
	"topicfeed/internal/usecase/ingest"
	newsUC "topicfeed/internal/usecase/news"
)

// DefaultNewsAPIURL is used when NEWS_API_KEY is set without NEWS_API_URL.
const DefaultNewsAPIURL = "https://newsapi.org/v2/everything"

// Repositories are the PostgreSQL-backed stores.
type Repositories struct {
	News          repository.NewsRepository
	Groups        repository.GroupRepository
	Links         repository.LinkRepository
	Subscriptions repository.SubscriptionRepository
}

// NewRepositories returns the PostgreSQL repositories on db.
func NewRepositories(db *sql.DB) Repositories {
	return Repositories{
		News:          pgRepo.NewNewsRepo(db),
		Groups:        pgRepo.NewGroupRepo(db),
		Links:         pgRepo.NewLinkRepo(db),
		Subscriptions: pgRepo.NewSubscriptionRepo(db),
	}
}

// Services are the read-side use cases served over HTTP.
type Services struct {
	News   *newsUC.Service
	Groups *groupUC.Service
}

// NewServices wires the read-side use cases. answerer may be nil.
func NewServices(repos Repositories, answerer newsUC.Answerer) Services {
	return Services{
		News: &newsUC.Service{
			NewsRepo:  repos.News,
			GroupRepo: repos.Groups,
			LinkRepo:  repos.Links,
			SubRepo:   repos.Subscriptions,
			Answerer:  answerer,
		},
		Groups: &groupUC.Service{
			GroupRepo: repos.Groups,
			NewsRepo:  repos.News,
			SubRepo:   repos.Subscriptions,
		},
	}
}

// Ingestion is a configured ingestion pipeline plus what it needs at shutdown.
type Ingestion struct {
	Service *ingest.Service
	// Answerer is the LLM client when one is configured, nil otherwise.
	Answerer newsUC.Answerer
	// Checks are optional health probes (the Redis lock, when enabled).
	Checks map[string]func(context.Context) error

	redis *redis.Client
}

// Close releases the Redis connection, if any.
func (in *Ingestion) Close() error {
	if in.redis == nil {
		return nil
	}
	return in.redis.Close()
}

// NewHTTPClient is the client used for feeds: bounded, pooled, TLS 1.2+.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
	}
}

// LoadFeedSpecs returns the FEEDS_CONFIG entries, or a single NewsAPI entry
// when only NEWS_API_KEY is set. No configured feed yields nil.
func LoadFeedSpecs(l *config.Loader) ([]feed.SourceSpec, error) {
	if path := l.String("FEEDS_CONFIG", ""); path != "" {
		fc, err := feed.LoadFile(path)
		if err != nil {
			return nil, err
		}
		return fc.Feeds, nil
	}
	if l.String("NEWS_API_KEY", "") == "" {
		return nil, nil
	}
	return []feed.SourceSpec{{
		Name:  "newsapi",
		Type:  feed.TypeNewsAPI,
		URL:   l.Validated("NEWS_API_URL", DefaultNewsAPIURL, config.ValidateHTTPURL),
		Query: l.String("NEWS_API_QUERY", ""),
	}}, nil
}

// NewClassifier builds the classifier selected by CLASSIFIER_TYPE. The
// Answerer is nil for the noop provider.
func NewClassifier(l *config.Loader) (ingest.Classifier, newsUC.Answerer, classifier.Config, error) {
	cfg := classifier.LoadConfig(l)
	cls, client, err := classifier.New(cfg, classifier.Keys{
		Anthropic:     l.String("ANTHROPIC_API_KEY", ""),
		OpenAI:        l.String("OPENAI_API_KEY", ""),
		OpenAIBaseURL: l.String("OPENAI_BASE_URL", ""),
	})
	if err != nil {
		return nil, nil, cfg, err
	}
	if client == nil {
		return cls, nil, cfg, nil
	}
	return cls, client, cfg, nil
}

// NewIngestion wires the ingestion pipeline. A missing feed configuration is
// not an error: Run then reports ingest.ErrNoFeedSource. An unreachable
// Redis disables the run lock with a warning.
func NewIngestion(ctx context.Context, l *config.Loader, repos Repositories, logger *slog.Logger) (*Ingestion, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cls, answerer, clsCfg, err := NewClassifier(l)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}

	specs, err := LoadFeedSpecs(l)
	if err != nil {
		return nil, err
	}
	var source ingest.FeedSource
	if len(specs) > 0 {
		source, err = feed.Build(NewHTTPClient(), specs, l.String("NEWS_API_KEY", ""))
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("no feed configured, set FEEDS_CONFIG or NEWS_API_KEY")
	}

	fetchCfg := fetcher.LoadConfig(l)
	svc := ingest.NewService(repos.News, repos.Groups, repos.Links, cls, source, ingest.Options{
		ClassifierTimeout:     l.Duration("CLASSIFIER_TIMEOUT", ingest.DefaultClassifierTimeout, config.DurationRange(time.Second, 5*time.Minute)),
		MaxGroups:             clsCfg.MaxGroups,
		ReclassifyKnown:       l.Bool("INGEST_RECLASSIFY_KNOWN", false),
		ContentFetchThreshold: fetchCfg.Threshold,
	}, logger)
	if fetchCfg.Enabled {
		svc.ContentFetcher = fetcher.NewReadabilityFetcher(fetchCfg)
		logger.Info("content fetching enabled",
			slog.Int("threshold", fetchCfg.Threshold),
			slog.Duration("timeout", fetchCfg.Timeout))
	}

	in := &Ingestion{Service: svc, Answerer: answerer, Checks: map[string]func(context.Context) error{}}

	if redisURL := l.String("REDIS_URL", ""); redisURL != "" {
		client, err := lock.NewClient(ctx, redisURL)
		if err != nil {
			logger.Warn("redis unavailable, ingestion runs without a lock", slog.Any("error", err))
		} else {
			ttl := l.Duration("INGEST_LOCK_TTL", 15*time.Minute, config.DurationRange(time.Minute, 24*time.Hour))
			svc.Lock = lock.NewRedisLock(client, lock.DefaultKey, ttl)
			in.redis = client
			in.Checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}
	return in, nil
}
