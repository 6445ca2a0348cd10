package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"zillow-wholesale/scraper/zillow"
	"zillow-wholesale/services"
	"zillow-wholesale/storage"
)

type searchOptions struct {
	strategy    strategyFlags
	csvPath     string
	postgres    bool
	metricsFile string
}

func newSearchCommand(a *app) *cobra.Command {
	o := &searchOptions{}

	c := &cobra.Command{
		Use:   "search",
		Short: "Search Zillow, score the listings and write a call sheet",
		Long: `search resolves the strategy into search parameters, loads one Zillow results
page in headless Chrome, scores every listing and exports the call sheet.

Pass --avg-rent to narrow the search to the price range that meets the target ROI.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, a, o)
		},
	}

	fs := c.Flags()
	o.strategy.register(fs)
	fs.Float64("avg-rent", 0, "average monthly rent used to derive the price range")
	fs.StringVar(&o.csvPath, "csv", "", "call sheet CSV path (default $CSV_OUTPUT_PATH)")
	fs.BoolVar(&o.postgres, "postgres", false, "also store the session in PostgreSQL")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")
	return c
}

func runSearch(cmd *cobra.Command, a *app, o *searchOptions) error {
	fs := cmd.Flags()
	cfg := o.strategy.apply(fs, a.search)

	avgRent, err := optionalFloat(fs, "avg-rent")
	if err != nil {
		return err
	}

	// Reject a bad strategy before the call sheet is truncated.
	if avgRent != nil {
		if _, err := services.CalculatePriceRange(cfg, *avgRent); err != nil {
			return err
		}
	}

	csvPath := o.csvPath
	if csvPath == "" {
		csvPath = a.env.CSVOutputPath
	}
	csvWriter, err := storage.NewCSVWriter(csvPath)
	if err != nil {
		return err
	}
	defer csvWriter.Close()

	sinks := []storage.ListingWriter{csvWriter}
	if o.postgres {
		pgWriter, err := storage.NewPostgresWriter(a.env.DSN())
		if err != nil {
			a.logger.Error("[cli] Make sure PostgreSQL is running: docker compose up -d")
			return err
		}
		defer pgWriter.Close()
		sinks = append(sinks, pgWriter)
	}

	pipeline := services.NewPipeline(a.logger, a.metrics, a.env.MaxConcurrency)
	scraper := zillow.New(a.env, a.logger)

	result, err := pipeline.RunSession(cmd.Context(), cfg, avgRent, scraper, sinks...)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		a.logger.Error("[cli] %v", err)
	}

	insights := services.NewInsightService(a.logger)
	insights.Print(cmd.OutOrStdout(), insights.Generate(result.Listings))
	fmt.Fprintf(cmd.OutOrStdout(), "  Session %s done in %s. Call sheet → %s\n\n",
		result.SessionID, result.Duration.Round(time.Millisecond), csvPath)

	if o.metricsFile != "" {
		if werr := a.metrics.WriteFile(o.metricsFile); werr != nil {
			a.logger.Warn("[cli] %v", werr)
		}
	}
	return err
}
