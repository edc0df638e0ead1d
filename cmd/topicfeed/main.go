// Command topicfeed is the operator CLI: one-shot ingestion, schema
// migrations and a classifier dry run.
package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"topicfeed/internal/observability/logging"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := rootApp().Run(os.Args); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "topicfeed",
		Usage: "Operate the topicfeed news pipeline",
		Description: `Runs the same ingestion pipeline as the worker, once, and manages
		the database schema. Configuration comes from the environment variables
		shared with the api and worker binaries (DATABASE_URL, FEEDS_CONFIG,
		NEWS_API_KEY, CLASSIFIER_TYPE, ...).`,
		Commands: []*cli.Command{
			ingestCmd(),
			migrateCmd(),
			classifyCmd(),
			feedsCmd(),
		},
		Action: func(ctx *cli.Context) error {
			return cli.ShowAppHelp(ctx)
		},
	}
}
