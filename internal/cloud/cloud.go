// Package cloud mirrors submitted entries to a hosted Postgres database and
// reads aggregate statistics from the research dataset kept there. The
// whole package is optional: when no database URL is configured the rest of
// the assistant runs purely on the local store.
package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Store wraps the connection pool for the hosted database
type Store struct {
	pool         *pgxpool.Pool
	datasetTable string
	logger       *zap.Logger
}

// Connect opens a pool against the configured database and ensures the
// entries table exists
func Connect(ctx context.Context, databaseURL, datasetTable string, logger *zap.Logger) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS health_entries (
		id         UUID PRIMARY KEY,
		payload    JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure entries table: %w", err)
	}

	logger.Info("connected to cloud database", zap.String("dataset_table", datasetTable))
	return &Store{pool: pool, datasetTable: datasetTable, logger: logger}, nil
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}

// InsertEntry mirrors a submitted entry. Callers treat failures as
// non-fatal; the local store remains the source of truth.
func (s *Store) InsertEntry(ctx context.Context, entry model.HealthEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO health_entries (id, payload) VALUES ($1, $2)`,
		uuid.New(), entry)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// LatestEntry returns the most recently mirrored entry
func (s *Store) LatestEntry(ctx context.Context) (model.HealthEntry, bool, error) {
	var entry model.HealthEntry
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM health_entries ORDER BY created_at DESC LIMIT 1`,
	).Scan(&entry)
	if err == pgx.ErrNoRows {
		return model.HealthEntry{}, false, nil
	}
	if err != nil {
		return model.HealthEntry{}, false, fmt.Errorf("query latest entry: %w", err)
	}
	return entry, true, nil
}

// DatasetStats aggregates the research dataset. Missing or empty tables
// fall back to population defaults so percentile math always has a basis.
func (s *Store) DatasetStats(ctx context.Context) (model.DatasetStats, error) {
	stats := model.DefaultDatasetStats()

	query := fmt.Sprintf(
		`SELECT COALESCE(AVG(cycle_length), 0),
		        COALESCE(AVG(period_length), 0),
		        COUNT(*)
		 FROM %s
		 WHERE cycle_length BETWEEN 15 AND 120`, pgx.Identifier{s.datasetTable}.Sanitize())

	var avgCycle, avgPeriod float64
	var count int
	if err := s.pool.QueryRow(ctx, query).Scan(&avgCycle, &avgPeriod, &count); err != nil {
		s.logger.Warn("dataset stats unavailable, using defaults", zap.Error(err))
		return stats, nil
	}

	return statsFrom(avgCycle, avgPeriod, count), nil
}

// statsFrom keeps the defaults whenever the dataset is empty or the
// aggregates come back degenerate
func statsFrom(avgCycle, avgPeriod float64, count int) model.DatasetStats {
	stats := model.DefaultDatasetStats()
	if count == 0 {
		return stats
	}
	if avgCycle > 0 {
		stats.AvgCycleLength = avgCycle
	}
	if avgPeriod > 0 {
		stats.AvgPeriodLength = avgPeriod
	}
	stats.SampleSize = count
	return stats
}
