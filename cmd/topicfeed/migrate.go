package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"topicfeed/internal/infra/db"
)

func migrateCmd() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply pending migrations",
				Action: func(c *cli.Context) error {
					database, err := db.Open(c.Context, slog.Default())
					if err != nil {
						return err
					}
					defer func() { _ = database.Close() }()
					if err := db.MigrateUp(c.Context, database); err != nil {
						return err
					}
					return printVersion(c, database)
				},
			},
			{
				Name:  "down",
				Usage: "Roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Usage: "How many migrations to roll back", Value: 1},
				},
				Action: func(c *cli.Context) error {
					database, err := db.Open(c.Context, slog.Default())
					if err != nil {
						return err
					}
					defer func() { _ = database.Close() }()
					if err := db.MigrateDown(c.Context, database, c.Int("steps")); err != nil {
						return err
					}
					return printVersion(c, database)
				},
			},
			{
				Name:  "version",
				Usage: "Print the applied schema version",
				Action: func(c *cli.Context) error {
					database, err := db.Open(c.Context, slog.Default())
					if err != nil {
						return err
					}
					defer func() { _ = database.Close() }()
					return printVersion(c, database)
				},
			},
		},
	}
}

func printVersion(c *cli.Context, database *sql.DB) error {
	version, dirty, err := db.MigrationVersion(c.Context, database)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "schema version %d (dirty=%t)\n", version, dirty)
	return err
}
