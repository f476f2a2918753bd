// Package store persists assistant state in a local sqlite database. All
// values are stored as JSON under well-known keys, so the schema is a
// single key/value table and adding a new persisted concern never needs a
// migration.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Persisted keys
const (
	KeyDraft        = "draft"
	KeyEntries      = "entries"
	KeyLastEntry    = "last_entry"
	KeyLastAnalysis = "last_analysis"
	KeyTheme        = "theme"
	KeyInsightLang  = "insight_lang"
)

// maxEntries bounds the submission history kept locally
const maxEntries = 100

// Store is the persistence surface the services depend on
type Store interface {
	SaveDraft(ctx context.Context, draft model.DraftState) error
	LoadDraft(ctx context.Context) (model.DraftState, bool, error)
	ClearDraft(ctx context.Context) error

	AppendEntry(ctx context.Context, entry model.HealthEntry) error
	Entries(ctx context.Context) ([]model.HealthEntry, error)
	LastEntry(ctx context.Context) (model.HealthEntry, bool, error)

	SaveLastAnalysis(ctx context.Context, report model.AnalysisReport) error
	LastAnalysis(ctx context.Context) (model.AnalysisReport, bool, error)

	SetPreference(ctx context.Context, key, value string) error
	Preference(ctx context.Context, key string) (string, bool, error)

	Close() error
}

// SQLStore implements Store on top of a sqlite file
type SQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ Store = (*SQLStore)(nil)

// Open opens (and initializes if needed) the sqlite database at path
func Open(path string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// sqlite handles one writer at a time; keep the pool at a single
	// connection so writes never contend
	db.SetMaxOpenConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLStore{db: db, logger: logger}, nil
}

// Close releases the underlying database handle
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, string(raw))
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// get unmarshals the value at key into dest. A missing row or a value that
// no longer parses both report absent; corrupt rows are logged and skipped
// rather than surfaced as errors, so one bad write never bricks the flow.
func (s *SQLStore) get(ctx context.Context, key string, dest any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.logger.Warn("discarding corrupt stored value",
			zap.String("key", key),
			zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *SQLStore) delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SaveDraft stores the in-progress wizard state
func (s *SQLStore) SaveDraft(ctx context.Context, draft model.DraftState) error {
	return s.set(ctx, KeyDraft, draft)
}

// LoadDraft returns the saved draft if one exists
func (s *SQLStore) LoadDraft(ctx context.Context) (model.DraftState, bool, error) {
	var draft model.DraftState
	ok, err := s.get(ctx, KeyDraft, &draft)
	return draft, ok, err
}

// ClearDraft removes the saved draft
func (s *SQLStore) ClearDraft(ctx context.Context) error {
	return s.delete(ctx, KeyDraft)
}

// AppendEntry adds a submitted entry to the history and records it as the
// most recent submission. History is capped at the newest entries.
func (s *SQLStore) AppendEntry(ctx context.Context, entry model.HealthEntry) error {
	entries, err := s.Entries(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	if err := s.set(ctx, KeyEntries, entries); err != nil {
		return err
	}
	return s.set(ctx, KeyLastEntry, entry)
}

// Entries returns the submission history, oldest first
func (s *SQLStore) Entries(ctx context.Context) ([]model.HealthEntry, error) {
	var entries []model.HealthEntry
	if _, err := s.get(ctx, KeyEntries, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LastEntry returns the most recently submitted entry
func (s *SQLStore) LastEntry(ctx context.Context) (model.HealthEntry, bool, error) {
	var entry model.HealthEntry
	ok, err := s.get(ctx, KeyLastEntry, &entry)
	return entry, ok, err
}

// SaveLastAnalysis stores the report produced by the latest submission
func (s *SQLStore) SaveLastAnalysis(ctx context.Context, report model.AnalysisReport) error {
	return s.set(ctx, KeyLastAnalysis, report)
}

// LastAnalysis returns the most recent analysis report
func (s *SQLStore) LastAnalysis(ctx context.Context) (model.AnalysisReport, bool, error) {
	var report model.AnalysisReport
	ok, err := s.get(ctx, KeyLastAnalysis, &report)
	return report, ok, err
}

// SetPreference stores a small display preference such as theme or
// insight language
func (s *SQLStore) SetPreference(ctx context.Context, key, value string) error {
	return s.set(ctx, key, value)
}

// Preference returns a stored display preference
func (s *SQLStore) Preference(ctx context.Context, key string) (string, bool, error) {
	var value string
	ok, err := s.get(ctx, key, &value)
	return value, ok, err
}
