package scrape

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"

	"github.com/mangashelf/pricescout/models"
	"github.com/mangashelf/pricescout/pkg/classify"
	"github.com/mangashelf/pricescout/pkg/db"
	"github.com/mangashelf/pricescout/pkg/describe"
	"github.com/mangashelf/pricescout/pkg/fetcher"
	"github.com/mangashelf/pricescout/pkg/pipeline"
	"github.com/mangashelf/pricescout/pkg/report"
)

// Action runs one ingestion pass for a series and records it as a
// scrape run. With --csv-dir it also exports everything stored for the
// series afterwards.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	series := c.String("series")
	if series == "" {
		fmt.Fprintln(os.Stderr, "Error: --series is required")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, `  pricescout scrape --series "Naruto" --max-pages 5`)
		os.Exit(1)
	}

	minPrice, err := decimal.NewFromString(c.String("min-price"))
	if err != nil {
		logger.Error("invalid min-price", "value", c.String("min-price"), "error", err)
		os.Exit(2)
	}

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	database, err := db.Open(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	client := fetcher.New(cfg.RequestTimeout(), cfg.UserAgent)
	heuristics := classify.DefaultHeuristics()
	classifier := classify.New(heuristics, classify.DefaultCorpus().With(cfg.ExtraKnownSeries...))

	var disambiguator pipeline.Disambiguator
	if c.Bool("fetch-descriptions") {
		disambiguator = describe.New(client, heuristics, describe.Options{
			MarketplaceOrigin: cfg.MarketplaceOrigin,
			DelayMinSeconds:   cfg.DescriptionDelayMinSeconds,
			DelayMaxSeconds:   cfg.DescriptionDelayMaxSeconds,
		}, logger)
	}

	pipe := pipeline.New(client, classifier, disambiguator, database, pipeline.Options{
		MarketplaceOrigin:   cfg.MarketplaceOrigin,
		MaxPages:            c.Int("max-pages"),
		MinPrice:            minPrice,
		FetchDescriptions:   c.Bool("fetch-descriptions"),
		PageDelayMinSeconds: cfg.PageDelayMinSeconds,
		PageDelayMaxSeconds: cfg.PageDelayMaxSeconds,
	}, logger)

	runID, err := database.StartRun(series, c.Int("max-pages"), minPrice)
	if err != nil {
		logger.Error("failed to record run", "error", err)
		os.Exit(2)
	}
	logger.Info("starting scrape", "run_id", runID, "series", series, "max_pages", c.Int("max-pages"))

	summary := pipe.Run(c.Context, series)

	if err := database.FinishRun(runID, summary.PagesProcessed, summary.Accepted, summary.Success); err != nil {
		logger.Warn("failed to record run outcome", "run_id", runID, "error", err)
	}

	status := "completed"
	if !summary.Success {
		status = "completed with errors"
	}
	fmt.Printf("Run %s %s: %d listings accepted over %d pages\n",
		runID, status, summary.Accepted, summary.PagesProcessed)

	if dir := c.String("csv-dir"); dir != "" {
		listings, err := database.ListingsForTitle(series)
		if err != nil {
			logger.Error("failed to load listings for export", "error", err)
			os.Exit(2)
		}
		paths, err := report.Export(dir, series, listings)
		if err != nil {
			logger.Error("failed to export CSV", "error", err)
			os.Exit(2)
		}
		fmt.Printf("Exported:\n  %s\n  %s\n", paths.SinglesLots, paths.Omnibus)
	}

	if !summary.Success {
		os.Exit(1)
	}
	return nil
}
