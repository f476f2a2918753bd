package model

import "time"

// Step numbers used by the form wizard.
const (
	StepPersonal  = 1
	StepCycle     = 2
	StepSymptoms  = 3
	StepLifestyle = 4
	StepClinical  = 5
	StepReview    = 6

	TotalSteps = 6
)

// ActivityLevel represents self-reported physical activity
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

// StressLevel represents self-reported stress
type StressLevel string

const (
	StressLow      StressLevel = "low"
	StressModerate StressLevel = "moderate"
	StressHigh     StressLevel = "high"
)

// PCOSStatus represents the user's diagnosis status
type PCOSStatus string

const (
	PCOSDiagnosed     PCOSStatus = "diagnosed"
	PCOSSuspected     PCOSStatus = "suspected"
	PCOSFamilyHistory PCOSStatus = "family_history"
	PCOSNotDiagnosed  PCOSStatus = "not_diagnosed"
)

// Symptom tags selectable on the symptoms step
const (
	SymptomIrregularCycles = "irregular_cycles"
	SymptomAcne            = "acne"
	SymptomHirsutism       = "hirsutism"
	SymptomHairLoss        = "hair_loss"
	SymptomWeightGain      = "weight_gain"
	SymptomInfertility     = "infertility"
	SymptomPelvicPain      = "pelvic_pain"
	SymptomMoodChanges     = "mood_changes"
	SymptomFatigue         = "fatigue"
	SymptomDarkPatches     = "dark_patches"
)

// KnownSymptoms is the fixed set of accepted symptom tags, in declaration order
var KnownSymptoms = []string{
	SymptomIrregularCycles,
	SymptomAcne,
	SymptomHirsutism,
	SymptomHairLoss,
	SymptomWeightGain,
	SymptomInfertility,
	SymptomPelvicPain,
	SymptomMoodChanges,
	SymptomFatigue,
	SymptomDarkPatches,
}

// HealthEntry is the survey record built incrementally across the wizard steps.
// Optional fields are pointers; nil means the user has not provided a value.
type HealthEntry struct {
	Age              *int          `json:"age,omitempty"`
	WeightKg         *float64      `json:"weight,omitempty"`
	HeightCm         *float64      `json:"height,omitempty"`
	CycleLengthDays  *int          `json:"cycle_length,omitempty"`
	PeriodLengthDays *int          `json:"period_length,omitempty"`
	LastPeriodDate   string        `json:"last_period,omitempty"` // YYYY-MM-DD
	Symptoms         []string      `json:"symptoms,omitempty"`
	ActivityLevel    ActivityLevel `json:"activity,omitempty"`
	SleepHours       *float64      `json:"sleep,omitempty"`
	StressLevel      StressLevel   `json:"stress,omitempty"`
	DietNotes        string        `json:"diet,omitempty"`
	City             string        `json:"city,omitempty"`
	PCOSStatus       PCOSStatus    `json:"pcos,omitempty"`
	Medications      string        `json:"medications,omitempty"`
	Timestamp        time.Time     `json:"timestamp"` // assigned at submission
}

// HasSymptom reports whether the entry lists the given symptom tag
func (e *HealthEntry) HasSymptom(tag string) bool {
	for _, s := range e.Symptoms {
		if s == tag {
			return true
		}
	}
	return false
}

// DraftState is an in-progress HealthEntry plus the wizard's current step
type DraftState struct {
	Entry   HealthEntry `json:"entry"`
	Step    int         `json:"step"`
	SavedAt time.Time   `json:"saved_at"`
}

// IndicatorLevel is the qualitative output of the insight engine
type IndicatorLevel string

const (
	LevelInsufficient IndicatorLevel = "insufficient"
	LevelLow          IndicatorLevel = "low"
	LevelModerate     IndicatorLevel = "moderate"
	LevelHigh         IndicatorLevel = "high"
)

// Reason keys emitted by the insight engine
const (
	ReasonCycleOutside     = "cycle_outside"
	ReasonCycleWithin      = "cycle_within"
	ReasonPeriodOutside    = "period_outside"
	ReasonSymptomsSelected = "symptoms_selected"
)

// InsightReason is one tagged contributor to an insight result. Symptoms is
// populated only for the symptoms_selected reason.
type InsightReason struct {
	Key      string   `json:"key"`
	Symptoms []string `json:"symptoms,omitempty"`
}

// InsightResult is the deterministic read-out computed from a HealthEntry.
// The numeric score is internal; only the level is exposed.
type InsightResult struct {
	Level   IndicatorLevel  `json:"level"`
	Reasons []InsightReason `json:"reasons"`
	Score   int             `json:"-"`
}

// ReportSource indicates whether an analysis came from the remote analyzer
// or was synthesized locally
type ReportSource string

const (
	SourceRemote        ReportSource = "remote"
	SourceLocalFallback ReportSource = "local_fallback"
)

// Specialist is one entry of the city-keyed care directory
type Specialist struct {
	Name      string  `json:"name"`
	Specialty string  `json:"specialty"`
	Hospital  string  `json:"hospital"`
	Phone     string  `json:"phone"`
	City      string  `json:"city"`
	Rating    float64 `json:"rating"`
}

// AnalysisReport is the finalized submission result
type AnalysisReport struct {
	RiskScore       int            `json:"risk_score"`
	RiskLevel       IndicatorLevel `json:"risk_level"`
	Summary         string         `json:"summary"`
	KeyFindings     []string       `json:"key_findings"`
	Recommendations []string       `json:"recommendations"`
	CycleStatus     string         `json:"cycle_status,omitempty"`
	PeriodStatus    string         `json:"period_status,omitempty"`
	Percentile      int            `json:"percentile,omitempty"`
	Specialists     []Specialist   `json:"specialists,omitempty"`
	Source          ReportSource   `json:"source"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// DatasetStats holds reference statistics from the comparison dataset
type DatasetStats struct {
	SampleSize      int     `json:"sample_size"`
	AvgCycleLength  float64 `json:"avg_cycle_length"`
	AvgPeriodLength float64 `json:"avg_period_length"`
}

// DefaultDatasetStats are used when the reference dataset is unavailable
func DefaultDatasetStats() DatasetStats {
	return DatasetStats{AvgCycleLength: 28, AvgPeriodLength: 5}
}
