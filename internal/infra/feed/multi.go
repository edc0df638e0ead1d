package feed

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"topicfeed/internal/usecase/ingest"
)

// Multi fetches several sources concurrently and concatenates their
// articles in source order. Any failing source fails the whole fetch.
type Multi struct {
	sources []ingest.FeedSource
}

// NewMulti combines sources. A single source is returned unwrapped.
func NewMulti(sources ...ingest.FeedSource) ingest.FeedSource {
	if len(sources) == 1 {
		return sources[0]
	}
	return &Multi{sources: sources}
}

func (m *Multi) Name() string {
	names := make([]string, len(m.sources))
	for i, s := range m.sources {
		names[i] = s.Name()
	}
	return strings.Join(names, ",")
}

func (m *Multi) Fetch(ctx context.Context) ([]ingest.RawArticle, error) {
	results := make([][]ingest.RawArticle, len(m.sources))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, src := range m.sources {
		eg.Go(func() error {
			articles, err := src.Fetch(egCtx)
			if err != nil {
				return err
			}
			results[i] = articles
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var out []ingest.RawArticle
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
