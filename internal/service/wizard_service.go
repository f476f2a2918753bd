// Package service coordinates the wizard state machine, persistence and the
// submission pipeline behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/internal/insight"
	"github.com/ovacare/pcos-assistant/internal/store"
	"github.com/ovacare/pcos-assistant/internal/wizard"
	"github.com/ovacare/pcos-assistant/pkg/model"
)

// ErrSessionNotFound is returned for unknown or expired session IDs
var ErrSessionNotFound = errors.New("service: session not found")

// submitCooldown is the window during which a repeated submit returns the
// already-generated report instead of running the pipeline again
const submitCooldown = 5 * time.Second

// session is one live wizard with its autosave timer. The mutex serializes
// every transition; the wizard itself is not safe for concurrent use.
// dirty tracks edits not yet written by the autosave; Submit clears it so a
// timer that fires during submission cannot write the draft back after
// ClearDraft.
type session struct {
	mu         sync.Mutex
	wizard     *wizard.Wizard
	autosave   *wizard.Debouncer
	dirty      bool
	lastSubmit time.Time
	lastReport *model.AnalysisReport
}

// StepState is the wizard snapshot returned after every transition
type StepState struct {
	SessionID   string                  `json:"session_id"`
	Step        int                     `json:"step"`
	TotalSteps  int                     `json:"total_steps"`
	Entry       model.HealthEntry       `json:"entry"`
	Insight     model.InsightResult     `json:"insight"`
	Suggestions []string                `json:"suggestions"`
	Validation  wizard.ValidationResult `json:"validation"`
	Resumed     bool                    `json:"resumed,omitempty"`
}

// WizardService owns the live wizard sessions and their draft persistence
type WizardService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	store         store.Store
	pipeline      *SubmissionPipeline
	autosaveDelay time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// NewWizardService creates the session registry
func NewWizardService(st store.Store, pipeline *SubmissionPipeline, autosaveDelay time.Duration, logger *zap.Logger) *WizardService {
	return &WizardService{
		sessions:      make(map[string]*session),
		store:         st,
		pipeline:      pipeline,
		autosaveDelay: autosaveDelay,
		logger:        logger,
		now:           time.Now,
	}
}

// Start opens a new session, resuming from the persisted draft when one
// exists
func (s *WizardService) Start(ctx context.Context) (StepState, error) {
	var w *wizard.Wizard
	resumed := false

	draft, ok, err := s.store.LoadDraft(ctx)
	if err != nil {
		s.logger.Warn("failed to load draft, starting fresh", zap.Error(err))
	}
	if ok {
		w = wizard.Restore(draft)
		resumed = true
	} else {
		w = wizard.New()
	}

	sess := &session{wizard: w}
	sess.autosave = wizard.NewDebouncer(s.autosaveDelay, func() {
		s.persistDraft(sess)
	})

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	s.logger.Info("wizard session started",
		zap.String("session_id", id),
		zap.Bool("resumed", resumed),
		zap.Int("step", w.Step()),
	)

	state := s.snapshot(id, sess, wizard.ValidationResult{Valid: true})
	state.Resumed = resumed
	return state, nil
}

// UpdateFields merges field edits into the draft and schedules an autosave.
// Values are not validated here; nothing typed is lost between visits.
func (s *WizardService) UpdateFields(ctx context.Context, sessionID string, fields wizard.StepFields) (StepState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return StepState{}, err
	}

	sess.mu.Lock()
	sess.wizard.Update(fields)
	sess.dirty = true
	sess.mu.Unlock()

	sess.autosave.Trigger()
	return s.snapshot(sessionID, sess, wizard.ValidationResult{Valid: true}), nil
}

// Next validates the current step and advances on success
func (s *WizardService) Next(ctx context.Context, sessionID string, fields wizard.StepFields) (StepState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return StepState{}, err
	}

	sess.mu.Lock()
	result, err := sess.wizard.Next(fields, s.now())
	if result.Valid {
		sess.dirty = true
	}
	sess.mu.Unlock()
	if err != nil {
		return StepState{}, err
	}

	if result.Valid {
		sess.autosave.Trigger()
	}
	return s.snapshot(sessionID, sess, result), nil
}

// Prev moves back one step, never below the first, without validation
func (s *WizardService) Prev(ctx context.Context, sessionID string) (StepState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return StepState{}, err
	}

	sess.mu.Lock()
	sess.wizard.Prev()
	sess.dirty = true
	sess.mu.Unlock()

	sess.autosave.Trigger()
	return s.snapshot(sessionID, sess, wizard.ValidationResult{Valid: true}), nil
}

// Status returns the current snapshot without changing anything
func (s *WizardService) Status(ctx context.Context, sessionID string) (StepState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return StepState{}, err
	}
	return s.snapshot(sessionID, sess, wizard.ValidationResult{Valid: true}), nil
}

// Submit finalizes the entry and runs the submission pipeline. A repeated
// submit inside the cooldown window returns the report already generated,
// so double clicks never produce two reports.
func (s *WizardService) Submit(ctx context.Context, sessionID string) (model.AnalysisReport, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return model.AnalysisReport{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	now := s.now()
	if sess.lastReport != nil && now.Sub(sess.lastSubmit) < submitCooldown {
		s.logger.Info("submit within cooldown, returning previous report",
			zap.String("session_id", sessionID))
		return *sess.lastReport, nil
	}

	entry, err := sess.wizard.Submit(now)
	if err != nil {
		return model.AnalysisReport{}, err
	}

	// The final keystrokes may still be sitting in the debouncer. Stop
	// cancels a timer that has not fired; clearing dirty makes a timer
	// that already fired skip its write instead of resurrecting the draft.
	sess.autosave.Stop()
	sess.dirty = false

	report := s.pipeline.Run(ctx, entry)

	if err := s.store.ClearDraft(ctx); err != nil {
		s.logger.Warn("failed to clear draft after submit", zap.Error(err))
	}
	sess.wizard.Reset()
	sess.lastSubmit = now
	sess.lastReport = &report

	s.logger.Info("entry submitted",
		zap.String("session_id", sessionID),
		zap.String("risk_level", string(report.RiskLevel)),
		zap.String("source", string(report.Source)),
	)
	return report, nil
}

// Close stops every pending autosave timer
func (s *WizardService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.sessions {
		sess.autosave.Stop()
	}
}

func (s *WizardService) session(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// persistDraft runs on the debouncer goroutine. The session lock is held
// across the store write so a concurrent Submit cannot clear the draft
// between the snapshot and the write; once Submit has run, dirty is false
// and the write is skipped.
func (s *WizardService) persistDraft(sess *session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.dirty {
		return
	}
	draft := sess.wizard.Draft(s.now())

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.store.SaveDraft(ctx, draft); err != nil {
		s.logger.Warn("draft autosave failed", zap.Error(err))
		return
	}
	sess.dirty = false
	s.logger.Debug("draft autosaved", zap.Int("step", draft.Step))
}

func (s *WizardService) snapshot(id string, sess *session, result wizard.ValidationResult) StepState {
	sess.mu.Lock()
	entry := sess.wizard.Entry()
	step := sess.wizard.Step()
	sess.mu.Unlock()

	return StepState{
		SessionID:   id,
		Step:        step,
		TotalSteps:  model.TotalSteps,
		Entry:       entry,
		Insight:     insight.Compute(entry),
		Suggestions: insight.CareSuggestions(entry),
		Validation:  result,
	}
}
