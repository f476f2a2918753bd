package wizard

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Field bounds enforced by the step validation rules
const (
	minAge = 10
	maxAge = 80

	minCycleDays = 15
	maxCycleDays = 120

	minPeriodDays = 1
	maxPeriodDays = 30

	minWeightKg = 30
	maxWeightKg = 300

	minHeightCm = 100
	maxHeightCm = 250

	maxSleepHours = 24

	maxCityLen        = 100
	maxMedicationsLen = 200
)

// StepFields carries the raw input submitted for one wizard step. Pointer
// fields distinguish "not provided" from zero values.
type StepFields struct {
	Age          *int     `json:"age,omitempty"`
	WeightKg     *float64 `json:"weight,omitempty"`
	HeightCm     *float64 `json:"height,omitempty"`
	CycleLength  *int     `json:"cycle_length,omitempty"`
	PeriodLength *int     `json:"period_length,omitempty"`
	LastPeriod   string   `json:"last_period,omitempty"`
	Symptoms     []string `json:"symptoms,omitempty"`
	Activity     string   `json:"activity,omitempty"`
	SleepHours   *float64 `json:"sleep,omitempty"`
	Stress       string   `json:"stress,omitempty"`
	Diet         string   `json:"diet,omitempty"`
	City         string   `json:"city,omitempty"`
	PCOS         string   `json:"pcos,omitempty"`
	Medications  string   `json:"medications,omitempty"`
}

// ValidationResult is the outcome of validating one step's fields
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ValidateStep checks the fields belonging to a step and returns a
// normalized copy plus the per-field error messages. Validation is
// synchronous and side-effect free; steps outside the known range and the
// review step have no fields and always pass.
func ValidateStep(step int, fields StepFields, now time.Time) (StepFields, ValidationResult) {
	errors := make(map[string]string)
	normalized := fields

	switch step {
	case model.StepPersonal:
		if fields.Age == nil || *fields.Age < minAge || *fields.Age > maxAge {
			errors["age"] = "Enter an age between 10 and 80 years."
		}
		validateBodyMeasures(fields, errors)

	case model.StepCycle:
		if fields.CycleLength == nil || *fields.CycleLength < minCycleDays || *fields.CycleLength > maxCycleDays {
			errors["cycle_length"] = "Enter your average cycle length (15-120 days)."
		}
		if fields.PeriodLength == nil || *fields.PeriodLength < minPeriodDays || *fields.PeriodLength > maxPeriodDays {
			errors["period_length"] = "Enter period length between 1 and 30 days."
		}
		normalized.LastPeriod = strings.TrimSpace(fields.LastPeriod)
		if normalized.LastPeriod == "" {
			errors["last_period"] = "Select the start date of your last period."
		} else if parsed, err := time.Parse("2006-01-02", normalized.LastPeriod); err != nil {
			errors["last_period"] = "Enter a valid date."
		} else if parsed.After(now) {
			errors["last_period"] = "Date cannot be in the future."
		}

	case model.StepSymptoms:
		// Any subset of the known tags is valid; unknown tags are dropped
		normalized.Symptoms = normalizeSymptoms(fields.Symptoms)

	case model.StepLifestyle:
		validateBodyMeasures(fields, errors)
		if fields.SleepHours != nil && (*fields.SleepHours < 0 || *fields.SleepHours > maxSleepHours) {
			errors["sleep"] = "Enter valid sleep hours (0-24)"
		}
		normalized.Activity = normalizeEnum(fields.Activity,
			string(model.ActivitySedentary), string(model.ActivityLight),
			string(model.ActivityModerate), string(model.ActivityActive))
		normalized.Stress = normalizeEnum(fields.Stress,
			string(model.StressLow), string(model.StressModerate), string(model.StressHigh))
		normalized.Diet = strings.TrimSpace(fields.Diet)

	case model.StepClinical:
		// Limits count characters, not bytes; city names in Telugu or
		// Hindi take several bytes per rune
		if utf8.RuneCountInString(fields.City) > maxCityLen {
			errors["city"] = "City name must be under 100 characters."
		}
		if utf8.RuneCountInString(fields.Medications) > maxMedicationsLen {
			errors["medications"] = "Medications must be under 200 characters."
		}
		normalized.City = strings.TrimSpace(fields.City)
		normalized.Medications = strings.TrimSpace(fields.Medications)
		normalized.PCOS = normalizeEnum(fields.PCOS,
			string(model.PCOSDiagnosed), string(model.PCOSSuspected),
			string(model.PCOSFamilyHistory), string(model.PCOSNotDiagnosed))

	case model.StepReview:
		// Review has no fields
	}

	return normalized, ValidationResult{Valid: len(errors) == 0, Errors: errors}
}

func validateBodyMeasures(fields StepFields, errors map[string]string) {
	if fields.WeightKg != nil && (*fields.WeightKg < minWeightKg || *fields.WeightKg > maxWeightKg) {
		errors["weight"] = "Enter valid weight (30-300 kg)"
	}
	if fields.HeightCm != nil && (*fields.HeightCm < minHeightCm || *fields.HeightCm > maxHeightCm) {
		errors["height"] = "Enter valid height (100-250 cm)"
	}
}

// normalizeSymptoms filters unknown tags and removes duplicates, keeping
// first-seen order
func normalizeSymptoms(symptoms []string) []string {
	known := make(map[string]struct{}, len(model.KnownSymptoms))
	for _, s := range model.KnownSymptoms {
		known[s] = struct{}{}
	}

	var out []string
	seen := make(map[string]struct{}, len(symptoms))
	for _, s := range symptoms {
		s = strings.TrimSpace(s)
		if _, ok := known[s]; !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// normalizeEnum returns the value if it is one of the allowed constants,
// otherwise the empty string
func normalizeEnum(value string, allowed ...string) string {
	value = strings.TrimSpace(value)
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return ""
}

// applyStep merges a step's normalized fields into the accumulating entry.
// Only the fields that belong to the step are copied.
func applyStep(entry *model.HealthEntry, step int, fields StepFields) {
	switch step {
	case model.StepPersonal:
		entry.Age = fields.Age
		if fields.WeightKg != nil {
			entry.WeightKg = fields.WeightKg
		}
		if fields.HeightCm != nil {
			entry.HeightCm = fields.HeightCm
		}

	case model.StepCycle:
		entry.CycleLengthDays = fields.CycleLength
		entry.PeriodLengthDays = fields.PeriodLength
		entry.LastPeriodDate = fields.LastPeriod

	case model.StepSymptoms:
		entry.Symptoms = fields.Symptoms

	case model.StepLifestyle:
		if fields.WeightKg != nil {
			entry.WeightKg = fields.WeightKg
		}
		if fields.HeightCm != nil {
			entry.HeightCm = fields.HeightCm
		}
		if fields.SleepHours != nil {
			entry.SleepHours = fields.SleepHours
		}
		entry.ActivityLevel = model.ActivityLevel(fields.Activity)
		entry.StressLevel = model.StressLevel(fields.Stress)
		entry.DietNotes = fields.Diet

	case model.StepClinical:
		entry.City = fields.City
		entry.PCOSStatus = model.PCOSStatus(fields.PCOS)
		entry.Medications = fields.Medications
	}
}
