package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/ItsCxdy/google-maps-scraper/models"
)

const pingAttempts = 3

// PostgresWriter appends places to PostgreSQL, tagged with the search that
// produced them and the time of the run.
type PostgresWriter struct {
	db    *sql.DB
	query string
	runAt time.Time
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn, query string, runAt time.Time) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < pingAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil || ctx.Err() != nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}

	pw := &PostgresWriter{db: db, query: query, runAt: runAt}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS places (
			id           SERIAL PRIMARY KEY,
			query        TEXT         NOT NULL,
			run_at       TIMESTAMPTZ  NOT NULL,
			name         TEXT         NOT NULL,
			address      TEXT         NOT NULL DEFAULT '',
			phone        TEXT         NOT NULL DEFAULT '',
			website      TEXT         NOT NULL DEFAULT '',
			category     TEXT         NOT NULL DEFAULT '',
			rating       NUMERIC(3,1),
			reviews      INTEGER      NOT NULL DEFAULT 0,
			extracted_at TEXT         NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_places_query    ON places(query);
		CREATE INDEX IF NOT EXISTS idx_places_category ON places(category);
		CREATE INDEX IF NOT EXISTS idx_places_rating   ON places(rating);
	`)
	return err
}

// Write batch-inserts every place of the run. Earlier runs are kept.
func (pw *PostgresWriter) Write(places []*models.Place) error {
	places = dropArtifacts(places)
	if len(places) == 0 {
		return nil
	}

	const batchSize = 50
	for i := 0; i < len(places); i += batchSize {
		end := min(i+batchSize, len(places))
		if err := pw.insertBatch(places[i:end]); err != nil {
			return fmt.Errorf("postgres: insert: %w", err)
		}
	}
	return nil
}

const placeColumns = 10

func (pw *PostgresWriter) insertBatch(batch []*models.Place) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*placeColumns)

	for idx, p := range batch {
		base := idx * placeColumns
		holders := make([]string, placeColumns)
		for i := range holders {
			holders[i] = fmt.Sprintf("$%d", base+i+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(holders, ",")+")")
		valueArgs = append(valueArgs,
			pw.query, pw.runAt, p.Name, p.Address, p.Phone, p.Website, p.Category,
			nullableRating(p.Rating), reviewCount(p.Reviews), p.ExtractedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO places (query, run_at, name, address, phone, website, category, rating, reviews, extracted_at)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := pw.db.Exec(query, valueArgs...)
	return err
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// nullableRating maps "N/A" and other unparseable ratings to NULL.
func nullableRating(s string) sql.NullFloat64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func reviewCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
