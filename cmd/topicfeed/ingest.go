package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"topicfeed/internal/app"
	"topicfeed/internal/infra/db"
	"topicfeed/internal/pkg/config"
	"topicfeed/internal/usecase/ingest"
)

func ingestCmd() *cli.Command {
	return &cli.Command{
		Name:  "ingest",
		Usage: "Run one ingestion",
		Description: `Fetches the configured feeds, stores the articles and classifies new ones.
		With --file, ingests a JSON array of articles instead of fetching.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "JSON file holding an array of articles",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Upper bound for the whole run",
				EnvVars: []string{"INGEST_TIMEOUT"},
				Value:   ingestTimeoutDefault,
			},
		},
		Action: func(c *cli.Context) error {
			logger := slog.Default()
			ctx, cancel := contextWithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()

			database, err := db.Open(ctx, logger)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			loader := config.NewLoader(logger, nil)
			in, err := app.NewIngestion(ctx, loader, app.NewRepositories(database), logger)
			if err != nil {
				return err
			}
			defer func() { _ = in.Close() }()

			var res ingest.Result
			if path := c.String("file"); path != "" {
				articles, err := readArticles(path)
				if err != nil {
					return err
				}
				res, err = in.Service.Ingest(ctx, articles)
				if err != nil {
					return err
				}
			} else {
				res, err = in.Service.Run(ctx)
				if err != nil {
					return err
				}
			}
			return writeJSON(c.App.Writer, res.Stats)
		},
	}
}

func readArticles(path string) ([]ingest.RawArticle, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}
	var articles []ingest.RawArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return articles, nil
}
