package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/mangashelf/pricescout/internal/price"
	"github.com/mangashelf/pricescout/internal/runs"
	"github.com/mangashelf/pricescout/internal/scrape"
	"github.com/mangashelf/pricescout/pkg/db"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:  "db",
		Value: db.DefaultDBName,
		Usage: "path to the SQLite database",
	}

	app := &cli.App{
		Name:  "pricescout",
		Usage: "track sold manga listings and estimate per-volume prices",
		Commands: []*cli.Command{
			{
				Name:   "scrape",
				Usage:  "scrape sold listings for a series and store them",
				Action: scrape.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "series",
						Usage: "series name to search for",
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Value: 5,
						Usage: "maximum number of result pages to walk",
					},
					&cli.StringFlag{
						Name:  "min-price",
						Value: "5.00",
						Usage: "drop listings cheaper than this",
					},
					&cli.BoolFlag{
						Name:  "fetch-descriptions",
						Usage: "resolve ambiguous titles through the listing description",
					},
					&cli.StringFlag{
						Name:  "config",
						Usage: "optional YAML config file",
					},
					&cli.StringFlag{
						Name:  "csv-dir",
						Usage: "export the series' stored listings as CSV into this directory",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "only log errors",
					},
					dbFlag,
				},
			},
			{
				Name:   "price",
				Usage:  "show the average per-volume price for a series",
				Action: price.Action,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "series",
						Usage:    "series name to price",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "volumes",
						Usage: "estimate a price for this many volumes, or a range like 1-10",
					},
					dbFlag,
				},
			},
			{
				Name:   "runs",
				Usage:  "list recent scrape runs",
				Action: runs.Action,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "how many runs to show",
					},
					dbFlag,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
