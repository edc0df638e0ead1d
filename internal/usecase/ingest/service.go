package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"topicfeed/internal/domain/entity"
	"topicfeed/internal/observability/metrics"
	"topicfeed/internal/observability/tracing"
	"topicfeed/internal/repository"
	"topicfeed/internal/usecase/grouping"
	"topicfeed/internal/utils/text"
)

// DefaultClassifierTimeout bounds one classifier call.
const DefaultClassifierTimeout = 30 * time.Second

// Options tune one Service.
type Options struct {
	// ClassifierTimeout bounds each classifier call. Zero means DefaultClassifierTimeout.
	ClassifierTimeout time.Duration

	// MaxGroups caps the suggestions linked per article. Zero means DefaultMaxGroups.
	MaxGroups int

	// ReclassifyKnown also classifies articles whose URL was already stored.
	// Off by default so classification is paid once per article.
	ReclassifyKnown bool

	// ContentFetchThreshold is the content length, in characters, under which
	// the article page is downloaded to enrich the classifier input.
	ContentFetchThreshold int
}

// Stats summarises one ingestion call.
type Stats struct {
	Received       int
	Inserted       int
	Updated        int
	Skipped        int
	ClassifyErrors int
	LinkErrors     int
	GroupsLinked   int
	Duration       time.Duration
}

// Result is the stored news of a run, in input order, plus its stats.
type Result struct {
	News  []entity.News
	Stats Stats
}

// Service orchestrates normalize, upsert, classify and link.
type Service struct {
	NewsRepo   repository.NewsRepository
	Resolver   *grouping.Resolver
	Linker     *grouping.Linker
	Classifier Classifier
	Feed       FeedSource

	// Lock, when set, keeps two runs from overlapping. Optional.
	Lock RunLock
	// ContentFetcher, when set, enriches short articles. Optional.
	ContentFetcher ContentFetcher

	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires a Service. feed may be nil when only Ingest is used.
func NewService(
	newsRepo repository.NewsRepository,
	groupRepo repository.GroupRepository,
	linkRepo repository.LinkRepository,
	classifier Classifier,
	feed FeedSource,
	opts Options,
	logger *slog.Logger,
) *Service {
	if opts.ClassifierTimeout <= 0 {
		opts.ClassifierTimeout = DefaultClassifierTimeout
	}
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = DefaultMaxGroups
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		NewsRepo:   newsRepo,
		Resolver:   grouping.NewResolver(groupRepo),
		Linker:     grouping.NewLinker(linkRepo),
		Classifier: classifier,
		Feed:       feed,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}
}

// Run fetches the configured feed and ingests the batch. A feed failure
// aborts the run before anything is written.
func (s *Service) Run(ctx context.Context) (res Result, err error) {
	ctx, span := tracing.StartSpan(ctx, "ingest.Run")
	defer func() { tracing.EndSpan(span, err) }()

	if s.Feed == nil {
		return Result{}, ErrNoFeedSource
	}

	if s.Lock != nil {
		unlock, acquired, lockErr := s.Lock.TryLock(ctx)
		switch {
		case lockErr != nil:
			// Uniqueness lives in storage; a lock outage only costs duplicate work.
			s.logger.WarnContext(ctx, "run lock unavailable, continuing without it",
				slog.Any("error", lockErr))
		case !acquired:
			return Result{}, ErrRunInProgress
		default:
			defer func() {
				if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
					s.logger.WarnContext(ctx, "failed to release run lock", slog.Any("error", uerr))
				}
			}()
		}
	}

	articles, err := s.Feed.Fetch(ctx)
	if err != nil {
		metrics.RecordFeedFetchError(s.Feed.Name())
		return Result{}, fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, s.Feed.Name(), err)
	}
	span.SetAttributes(
		attribute.String("feed.source", s.Feed.Name()),
		attribute.Int("feed.articles", len(articles)),
	)

	return s.Ingest(ctx, articles)
}

// Ingest stores each article, classifying and linking the newly inserted
// ones. Cancellation is observed between articles: the partial result is
// returned with ctx.Err() and committed rows stay committed.
func (s *Service) Ingest(ctx context.Context, articles []RawArticle) (Result, error) {
	start := s.now()
	res := Result{
		News:  make([]entity.News, 0, len(articles)),
		Stats: Stats{Received: len(articles)},
	}
	finish := func() {
		res.Stats.Duration = s.now().Sub(start)
		metrics.RecordIngestRun(res.Stats.Inserted, res.Stats.Updated, res.Stats.Skipped, res.Stats.Duration)
	}

	for i, raw := range articles {
		if err := ctx.Err(); err != nil {
			finish()
			s.logger.WarnContext(ctx, "ingestion cancelled",
				slog.Int("processed", i),
				slog.Int("received", len(articles)))
			return res, err
		}
		s.ingestOne(ctx, raw, &res)
	}

	finish()
	s.logger.InfoContext(ctx, "ingestion completed",
		slog.Int("received", res.Stats.Received),
		slog.Int("inserted", res.Stats.Inserted),
		slog.Int("updated", res.Stats.Updated),
		slog.Int("skipped", res.Stats.Skipped),
		slog.Int("classify_errors", res.Stats.ClassifyErrors),
		slog.Int("link_errors", res.Stats.LinkErrors),
		slog.Int("groups_linked", res.Stats.GroupsLinked),
		slog.Duration("duration", res.Stats.Duration))
	return res, nil
}

func (s *Service) ingestOne(ctx context.Context, raw RawArticle, res *Result) {
	news, err := Normalize(raw, s.now())
	if err != nil {
		res.Stats.Skipped++
		s.logger.WarnContext(ctx, "skipping invalid article",
			slog.String("url", raw.URL),
			slog.String("title", raw.Title),
			slog.Any("error", err))
		return
	}

	up, err := s.NewsRepo.Upsert(ctx, &news)
	if err != nil {
		res.Stats.Skipped++
		s.logger.ErrorContext(ctx, "failed to store article",
			slog.String("url", news.URL),
			slog.Any("error", err))
		return
	}

	if up.Inserted {
		res.Stats.Inserted++
	} else {
		res.Stats.Updated++
	}
	res.News = append(res.News, up.News)

	if up.Inserted || s.opts.ReclassifyKnown {
		s.classifyAndLink(ctx, up.News, &res.Stats)
	}
}

func (s *Service) classifyAndLink(ctx context.Context, news entity.News, stats *Stats) {
	if s.Classifier == nil {
		return
	}

	input := s.enrich(ctx, news, ClassifierInput(news))
	suggestions, err := s.classify(ctx, input)
	if err != nil {
		stats.ClassifyErrors++
		s.logger.WarnContext(ctx, "classification failed, article kept without groups",
			slog.Int64("news_id", news.ID),
			slog.String("url", news.URL),
			slog.Any("error", err))
		return
	}

	for _, sg := range SanitizeSuggestions(suggestions, s.opts.MaxGroups) {
		group, err := s.Resolver.ResolveGroup(ctx, sg.Name, sg.Description)
		if err != nil {
			stats.LinkErrors++
			metrics.RecordGroupLink(false, err)
			s.logger.WarnContext(ctx, "failed to resolve group",
				slog.Int64("news_id", news.ID),
				slog.String("group", sg.Name),
				slog.Any("error", err))
			continue
		}

		created, err := s.Linker.LinkIfAbsent(ctx, news.ID, group.ID)
		metrics.RecordGroupLink(created, err)
		if err != nil {
			stats.LinkErrors++
			s.logger.WarnContext(ctx, "failed to link article to group",
				slog.Int64("news_id", news.ID),
				slog.Int64("group_id", group.ID),
				slog.Any("error", err))
			continue
		}
		if created {
			stats.GroupsLinked++
		}
	}
}

// classify calls the classifier under the configured timeout. A panic in the
// classifier is reported as an error.
func (s *Service) classify(ctx context.Context, input ClassifyInput) (suggestions []Suggestion, err error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ClassifierTimeout)
	defer cancel()

	start := s.now()
	defer func() {
		if r := recover(); r != nil {
			suggestions, err = nil, fmt.Errorf("classifier panic: %v", r)
		}
		metrics.RecordClassification(err, len(suggestions), s.now().Sub(start))
	}()

	suggestions, err = s.Classifier.Classify(ctx, input)
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

// enrich replaces short content with the readable page text when a
// ContentFetcher is configured. Failures keep the feed content.
func (s *Service) enrich(ctx context.Context, news entity.News, input ClassifyInput) ClassifyInput {
	if s.ContentFetcher == nil {
		return input
	}
	if text.CountRunes(input.Content) >= s.opts.ContentFetchThreshold {
		metrics.RecordContentFetchSkipped()
		return input
	}

	start := s.now()
	content, err := s.ContentFetcher.FetchContent(ctx, news.URL)
	if err != nil {
		metrics.RecordContentFetchFailed(s.now().Sub(start))
		if !errors.Is(err, context.Canceled) {
			s.logger.DebugContext(ctx, "content fetch failed, using feed content",
				slog.String("url", news.URL),
				slog.Any("error", err))
		}
		return input
	}
	metrics.RecordContentFetchSuccess(s.now().Sub(start))

	content = text.CollapseWhitespace(content)
	if text.CountRunes(content) > text.CountRunes(input.Content) {
		input.Content = content
	}
	return input
}
