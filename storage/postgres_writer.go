package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"zillow-wholesale/models"
)

const opportunityColumns = 14

// PostgresWriter persists analysed listings to PostgreSQL, keyed by session.
type PostgresWriter struct {
	db *sqlx.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return NewPostgresWriterFromDB(db)
}

// NewPostgresWriterFromDB wraps an open connection and runs migrations.
func NewPostgresWriterFromDB(db *sqlx.DB) (*PostgresWriter, error) {
	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS opportunities (
			id                 SERIAL PRIMARY KEY,
			session_id         UUID          NOT NULL,
			position           INTEGER       NOT NULL,
			address            TEXT          NOT NULL,
			price              TEXT          NOT NULL DEFAULT 'N/A',
			price_value        NUMERIC(14,2) NOT NULL DEFAULT 0,
			bedrooms           TEXT          NOT NULL DEFAULT 'N/A',
			bathrooms          TEXT          NOT NULL DEFAULT 'N/A',
			square_feet        TEXT          NOT NULL DEFAULT 'N/A',
			days_on_market     TEXT          NOT NULL DEFAULT 'Unknown',
			url                TEXT          NOT NULL DEFAULT 'N/A',
			scraped_date       TIMESTAMPTZ   NOT NULL,
			opportunity_score  INTEGER       NOT NULL DEFAULT 0,
			recommended_action TEXT          NOT NULL,
			analysis_notes     TEXT          NOT NULL DEFAULT '',
			created_at         TIMESTAMPTZ   NOT NULL DEFAULT NOW(),
			UNIQUE (session_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_opportunities_score  ON opportunities(opportunity_score);
		CREATE INDEX IF NOT EXISTS idx_opportunities_action ON opportunities(recommended_action);
		CREATE INDEX IF NOT EXISTS idx_opportunities_url    ON opportunities(url);
	`)
	return err
}

// Write batch-inserts the listings of one session inside a transaction.
func (pw *PostgresWriter) Write(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	for _, l := range listings {
		if l.SessionID == "" {
			return fmt.Errorf("postgres: listing at position %d has no session id", l.Position)
		}
	}

	tx, err := pw.db.Beginx()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := insertBatch(tx, listings[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatch(tx *sqlx.Tx, batch []*models.Listing) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*opportunityColumns)

	for idx, l := range batch {
		base := idx * opportunityColumns
		placeholders := make([]string, opportunityColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.SessionID, l.Position, l.Address, l.Price, l.PriceValue,
			l.Bedrooms, l.Bathrooms, l.SquareFeet, l.DaysOnMarket, l.URL,
			l.ScrapedDate, l.OpportunityScore, string(l.RecommendedAction), l.AnalysisNotes)
	}

	query := fmt.Sprintf(`
		INSERT INTO opportunities (session_id, position, address, price, price_value,
			bedrooms, bathrooms, square_feet, days_on_market, url,
			scraped_date, opportunity_score, recommended_action, analysis_notes)
		VALUES %s
		ON CONFLICT (session_id, position) DO NOTHING
	`, strings.Join(valueStrings, ","))

	_, err := tx.Exec(query, valueArgs...)
	return err
}

const selectOpportunities = `
	SELECT session_id, position, address, price, price_value, bedrooms, bathrooms,
		square_feet, days_on_market, url, scraped_date, opportunity_score,
		recommended_action, analysis_notes
	FROM opportunities`

// FetchSession returns the listings of one session in their original order.
func (pw *PostgresWriter) FetchSession(sessionID string) ([]*models.Listing, error) {
	var listings []*models.Listing
	err := pw.db.Select(&listings, selectOpportunities+` WHERE session_id = $1 ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch session %s: %w", sessionID, err)
	}
	return listings, nil
}

// FetchAll retrieves every stored listing in insertion order.
func (pw *PostgresWriter) FetchAll() ([]*models.Listing, error) {
	var listings []*models.Listing
	if err := pw.db.Select(&listings, selectOpportunities+` ORDER BY id`); err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	return listings, nil
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
