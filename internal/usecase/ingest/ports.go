package ingest

import "context"

// FeedSource fetches the current batch of raw articles from one upstream.
type FeedSource interface {
	Name() string
	Fetch(ctx context.Context) ([]RawArticle, error)
}

// ClassifyInput is the article text shown to the classifier.
type ClassifyInput struct {
	Title       string
	Description string
	Content     string
}

// Suggestion is one group proposed by the classifier.
type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Classifier maps article text to suggested groups. Implementations may
// return any error; the orchestrator treats every failure as "no groups".
type Classifier interface {
	Classify(ctx context.Context, in ClassifyInput) ([]Suggestion, error)
}

// ContentFetcher downloads the readable text of an article page.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// RunLock serialises ingestion runs across processes. TryLock never blocks:
// acquired is false when another holder owns the lock.
type RunLock interface {
	TryLock(ctx context.Context) (unlock func(context.Context) error, acquired bool, err error)
}
