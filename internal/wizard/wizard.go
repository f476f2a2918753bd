// Package wizard implements the six-step intake flow: per-step field
// validation, the forward/backward state machine, and the debounce timer
// used for draft autosave.
package wizard

import (
	"errors"
	"time"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

var (
	// ErrAtReview is returned when Next is called on the review step
	ErrAtReview = errors.New("wizard: already at review step")

	// ErrNotAtReview is returned when Submit is called before the review step
	ErrNotAtReview = errors.New("wizard: submit is only available from the review step")
)

// Wizard is the intake state machine. It accumulates a single health entry
// across steps and only advances when the current step's fields validate.
// Wizard is not safe for concurrent use; callers serialize access.
type Wizard struct {
	entry model.HealthEntry
	step  int
}

// New returns a wizard positioned at the first step with an empty entry
func New() *Wizard {
	return &Wizard{step: model.StepPersonal}
}

// Restore rebuilds a wizard from a saved draft. An out-of-range step is
// clamped into the valid window rather than rejected, so a stale or
// hand-edited draft still restores.
func Restore(draft model.DraftState) *Wizard {
	step := draft.Step
	if step < model.StepPersonal {
		step = model.StepPersonal
	}
	if step > model.StepReview {
		step = model.StepReview
	}
	return &Wizard{entry: draft.Entry, step: step}
}

// Step returns the current step number (1-based)
func (w *Wizard) Step() int {
	return w.step
}

// Entry returns a copy of the accumulated entry
func (w *Wizard) Entry() model.HealthEntry {
	return w.entry
}

// Draft captures the current state for persistence
func (w *Wizard) Draft(now time.Time) model.DraftState {
	return model.DraftState{
		Entry:   w.entry,
		Step:    w.step,
		SavedAt: now.UTC(),
	}
}

// Update merges field edits into the draft without validating them. Invalid
// values still belong in the draft so nothing typed is lost between visits;
// validation gates advancement, not persistence.
func (w *Wizard) Update(fields StepFields) {
	if w.step == model.StepSymptoms {
		fields.Symptoms = normalizeSymptoms(fields.Symptoms)
	}
	applyStep(&w.entry, w.step, fields)
}

// Next validates the current step's fields and, on success, merges them and
// advances one step. On failure the wizard stays put and the per-field
// errors are returned.
func (w *Wizard) Next(fields StepFields, now time.Time) (ValidationResult, error) {
	if w.step >= model.StepReview {
		return ValidationResult{}, ErrAtReview
	}

	normalized, result := ValidateStep(w.step, fields, now)
	if !result.Valid {
		return result, nil
	}

	applyStep(&w.entry, w.step, normalized)
	w.step++
	return result, nil
}

// Prev moves back one step without validation. The first step is the floor.
func (w *Wizard) Prev() {
	if w.step > model.StepPersonal {
		w.step--
	}
}

// Submit finalizes the entry. It is only available from the review step;
// the returned entry carries the submission timestamp.
func (w *Wizard) Submit(now time.Time) (model.HealthEntry, error) {
	if w.step != model.StepReview {
		return model.HealthEntry{}, ErrNotAtReview
	}

	entry := w.entry
	entry.Timestamp = now.UTC()
	return entry, nil
}

// Reset clears the accumulated entry and returns to the first step
func (w *Wizard) Reset() {
	w.entry = model.HealthEntry{}
	w.step = model.StepPersonal
}
