package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"topicfeed/internal/app"
	"topicfeed/internal/infra/feed"
	"topicfeed/internal/pkg/config"
	"topicfeed/internal/usecase/ingest"
)

// Feed check outcomes.
const (
	feedOK    = "OK"
	feedEmpty = "EMPTY"
	feedError = "ERROR"
)

// feedDiagnostic is the check result of one configured feed.
type feedDiagnostic struct {
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	URL            string     `json:"url"`
	Status         string     `json:"status"`
	Items          int        `json:"items"`
	LatestArticle  *time.Time `json:"latestArticle,omitempty"`
	ResponseTimeMs int64      `json:"responseTimeMs"`
	Error          string     `json:"error,omitempty"`
}

func feedsCmd() *cli.Command {
	return &cli.Command{
		Name:  "feeds",
		Usage: "Inspect the configured feeds",
		Subcommands: []*cli.Command{
			{
				Name:  "check",
				Usage: "Fetch every configured feed once and report what it returns",
				Flags: []cli.Flag{
					&cli.DurationFlag{Name: "timeout", Usage: "Upper bound per feed", Value: 30 * time.Second},
					&cli.IntFlag{Name: "parallel", Usage: "Feeds fetched at once", Value: 4},
				},
				Action: func(c *cli.Context) error {
					l := config.NewLoader(slog.Default(), nil)
					specs, err := app.LoadFeedSpecs(l)
					if err != nil {
						return err
					}
					results := checkFeeds(c.Context, specs, l.String("NEWS_API_KEY", ""), c.Duration("timeout"), c.Int("parallel"))
					return writeJSON(c.App.Writer, results)
				},
			},
		},
	}
}

// checkFeeds fetches each spec independently; one failing feed does not
// hide the others.
func checkFeeds(ctx context.Context, specs []feed.SourceSpec, newsAPIKey string, timeout time.Duration, parallel int) []feedDiagnostic {
	results := make([]feedDiagnostic, len(specs))
	client := app.NewHTTPClient()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, spec := range specs {
		g.Go(func() error {
			results[i] = checkFeed(gctx, client, spec, newsAPIKey, timeout)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func checkFeed(ctx context.Context, client *http.Client, spec feed.SourceSpec, newsAPIKey string, timeout time.Duration) feedDiagnostic {
	diag := feedDiagnostic{Name: spec.Name, Type: spec.Type, URL: spec.URL}

	source, err := feed.Build(client, []feed.SourceSpec{spec}, newsAPIKey)
	if err != nil {
		diag.Status, diag.Error = feedError, err.Error()
		return diag
	}

	ctx, cancel := contextWithTimeout(ctx, timeout)
	defer cancel()
	start := time.Now()
	articles, err := source.Fetch(ctx)
	diag.ResponseTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		diag.Status, diag.Error = feedError, err.Error()
		return diag
	}

	diag.Items = len(articles)
	if len(articles) == 0 {
		diag.Status = feedEmpty
		return diag
	}
	diag.Status = feedOK
	for _, raw := range articles {
		n, err := ingest.Normalize(raw, time.Time{})
		if err != nil || n.PublishedAt.IsZero() {
			continue
		}
		if diag.LatestArticle == nil || n.PublishedAt.After(*diag.LatestArticle) {
			t := n.PublishedAt
			diag.LatestArticle = &t
		}
	}
	return diag
}
