package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// memStore is an in-memory Store used by the service tests. A non-zero
// saveDelay makes SaveDraft slow, to exercise in-flight autosaves.
type memStore struct {
	mu             sync.Mutex
	draft          *model.DraftState
	entries        []model.HealthEntry
	lastEntry      *model.HealthEntry
	lastAnalysis   *model.AnalysisReport
	prefs          map[string]string
	saveDraftCalls int
	saveDelay      time.Duration
}

func newMemStore() *memStore {
	return &memStore{prefs: make(map[string]string)}
}

func (m *memStore) SaveDraft(ctx context.Context, draft model.DraftState) error {
	if m.saveDelay > 0 {
		time.Sleep(m.saveDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = &draft
	m.saveDraftCalls++
	return nil
}

func (m *memStore) LoadDraft(ctx context.Context) (model.DraftState, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.draft == nil {
		return model.DraftState{}, false, nil
	}
	return *m.draft, true, nil
}

func (m *memStore) ClearDraft(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = nil
	return nil
}

func (m *memStore) AppendEntry(ctx context.Context, entry model.HealthEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	m.lastEntry = &entry
	return nil
}

func (m *memStore) Entries(ctx context.Context) ([]model.HealthEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.HealthEntry(nil), m.entries...), nil
}

func (m *memStore) LastEntry(ctx context.Context) (model.HealthEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastEntry == nil {
		return model.HealthEntry{}, false, nil
	}
	return *m.lastEntry, true, nil
}

func (m *memStore) SaveLastAnalysis(ctx context.Context, report model.AnalysisReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastAnalysis = &report
	return nil
}

func (m *memStore) LastAnalysis(ctx context.Context) (model.AnalysisReport, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastAnalysis == nil {
		return model.AnalysisReport{}, false, nil
	}
	return *m.lastAnalysis, true, nil
}

func (m *memStore) SetPreference(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[key] = value
	return nil
}

func (m *memStore) Preference(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.prefs[key]
	return v, ok, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *memStore) draftSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveDraftCalls
}

// MockAnalyzer is a testify mock for the remote analyzer
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *MockAnalyzer) Analyze(ctx context.Context, entry model.HealthEntry) (model.AnalysisReport, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(model.AnalysisReport), args.Error(1)
}

// MockCloud is a testify mock for the cloud store
type MockCloud struct {
	mock.Mock
}

func (m *MockCloud) InsertEntry(ctx context.Context, entry model.HealthEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockCloud) LatestEntry(ctx context.Context) (model.HealthEntry, bool, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.HealthEntry), args.Bool(1), args.Error(2)
}

func (m *MockCloud) DatasetStats(ctx context.Context) (model.DatasetStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.DatasetStats), args.Error(1)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
