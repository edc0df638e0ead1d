package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"topicfeed/internal/app"
	"topicfeed/internal/pkg/config"
	"topicfeed/internal/usecase/ingest"
)

const ingestTimeoutDefault = 10 * time.Minute

func classifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "classify",
		Usage: "Show the groups the classifier suggests for an article, without storing anything",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Article title", Required: true},
			&cli.StringFlag{Name: "description", Usage: "Article description"},
			&cli.StringFlag{Name: "content", Usage: "Article content"},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Upper bound for the classifier call",
				EnvVars: []string{"CLASSIFIER_TIMEOUT"},
				Value:   ingest.DefaultClassifierTimeout,
			},
		},
		Action: func(c *cli.Context) error {
			cls, _, cfg, err := app.NewClassifier(config.NewLoader(nil, nil))
			if err != nil {
				return err
			}
			ctx, cancel := contextWithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()

			suggestions, err := cls.Classify(ctx, ingest.ClassifyInput{
				Title:       c.String("title"),
				Description: c.String("description"),
				Content:     c.String("content"),
			})
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, struct {
				Provider string              `json:"provider"`
				Groups   []ingest.Suggestion `json:"groups"`
			}{
				Provider: cfg.Provider,
				Groups:   ingest.SanitizeSuggestions(suggestions, cfg.MaxGroups),
			})
		},
	}
}

func contextWithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

func writeJSON(w io.Writer, v any) error {
	if w == nil {
		return errors.New("no output writer")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
