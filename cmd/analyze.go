package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"zillow-wholesale/models"
	"zillow-wholesale/services"
	"zillow-wholesale/storage"
)

type analyzeOptions struct {
	input       string
	csvPath     string
	metricsFile string
}

func newAnalyzeCommand(a *app) *cobra.Command {
	o := &analyzeOptions{}

	c := &cobra.Command{
		Use:   "analyze",
		Short: "Score previously scraped listings from a JSON file",
		Long: `analyze reads a JSON array of raw listing objects (address, price, bedrooms,
bathrooms, square_feet, days_on_market, url, scraped_date), scores them offline
and writes the call sheet.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, a, o)
		},
	}

	fs := c.Flags()
	fs.StringVarP(&o.input, "input", "i", "", "JSON file of raw listings")
	fs.StringVar(&o.csvPath, "csv", "", "call sheet CSV path (default $CSV_OUTPUT_PATH)")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write Prometheus metrics to this file when done")
	_ = c.MarkFlagRequired("input")
	return c
}

func runAnalyze(cmd *cobra.Command, a *app, o *analyzeOptions) error {
	raw, err := readRawListings(o.input)
	if err != nil {
		return err
	}
	a.logger.Info("[cli] Loaded %d raw listings from %s", len(raw), o.input)

	pipeline := services.NewPipeline(a.logger, a.metrics, a.env.MaxConcurrency)
	listings := pipeline.Analyze(raw)

	sessionID := uuid.New().String()
	for _, l := range listings {
		l.SessionID = sessionID
	}

	csvPath := o.csvPath
	if csvPath == "" {
		csvPath = a.env.CSVOutputPath
	}
	csvWriter, err := storage.NewCSVWriter(csvPath)
	if err != nil {
		return err
	}
	if err := csvWriter.Write(listings); err != nil {
		csvWriter.Close()
		return err
	}
	if err := csvWriter.Close(); err != nil {
		return err
	}

	insights := services.NewInsightService(a.logger)
	insights.Print(cmd.OutOrStdout(), insights.Generate(listings))
	fmt.Fprintf(cmd.OutOrStdout(), "  Call sheet → %s\n\n", csvPath)

	if o.metricsFile != "" {
		return a.metrics.WriteFile(o.metricsFile)
	}
	return nil
}

// readRawListings decodes a JSON array of objects. Non-string scalars are
// kept in their textual form and nulls are treated as missing.
func readRawListings(path string) ([]models.RawListing, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("analyze: read %q: %w", path, err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("analyze: decode %q: %w", path, err)
	}

	raw := make([]models.RawListing, 0, len(records))
	for _, rec := range records {
		r := make(models.RawListing, len(rec))
		for k, v := range rec {
			switch val := v.(type) {
			case nil:
			case string:
				r[k] = val
			case float64:
				r[k] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				r[k] = fmt.Sprint(val)
			}
		}
		raw = append(raw, r)
	}
	return raw, nil
}
