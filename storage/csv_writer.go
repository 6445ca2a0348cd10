package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"zillow-wholesale/models"
)

// CallSheetHeader is the column order of the exported call sheet.
var CallSheetHeader = []string{
	"address", "price", "bedrooms", "bathrooms", "square_feet", "days_on_market", "url", "scraped_date",
	"opportunity_score", "recommended_action", "analysis_notes",
}

// CSVWriter writes analysed listings to a call-sheet CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(CallSheetHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Write appends one row per listing, in order.
func (c *CSVWriter) Write(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		if err := c.writer.Write(callSheetRow(l)); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writer.Flush()
	return c.file.Close()
}

func callSheetRow(l *models.Listing) []string {
	return []string{
		l.Address,
		l.Price,
		l.Bedrooms,
		l.Bathrooms,
		l.SquareFeet,
		l.DaysOnMarket,
		l.URL,
		l.ScrapedDate.Format(time.RFC3339),
		strconv.Itoa(l.OpportunityScore),
		string(l.RecommendedAction),
		l.AnalysisNotes,
	}
}
