// Package analysis produces the comprehensive health report for a submitted
// entry: a 0-100 risk score against the reference dataset, cycle and period
// status lines, personalized recommendations and a readable summary. It also
// provides the incremental per-step feedback shown while the form is filled.
package analysis

import (
	"fmt"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Score weights and thresholds
const (
	maxRiskScore = 100

	shortCyclePoints    = 25
	longCyclePoints     = 30
	borderCyclePoints   = 15
	shortPeriodPoints   = 10
	longPeriodPoints    = 15
	symptomPointsEach   = 4
	symptomPointsCap    = 25
	highRiskPointsEach  = 5
	highRiskPointsCap   = 15
	peakAgePoints       = 10
	highStressPoints    = 3
	shortSleepPoints    = 2

	moderateThreshold = 30
	highThreshold     = 60

	maxRecommendations = 8
)

// highRiskSymptoms carry extra weight in the risk score
var highRiskSymptoms = map[string]struct{}{
	model.SymptomIrregularCycles: {},
	model.SymptomHirsutism:       {},
	model.SymptomAcne:            {},
	model.SymptomWeightGain:      {},
	model.SymptomHairLoss:        {},
	model.SymptomInfertility:     {},
}

// Defaults assumed when a field was left blank, chosen to be neutral
const (
	defaultCycleDays  = 28
	defaultPeriodDays = 5
	defaultAge        = 25
	defaultSleepHours = 7.0
)

// Analyze builds the full report for an entry. The caller supplies dataset
// statistics (or the defaults) and is responsible for stamping source,
// specialists and the generation time.
func Analyze(entry model.HealthEntry, stats model.DatasetStats) model.AnalysisReport {
	score := RiskScore(entry)
	level := RiskLevel(score)

	cycle := intOr(entry.CycleLengthDays, defaultCycleDays)
	period := intOr(entry.PeriodLengthDays, defaultPeriodDays)

	return model.AnalysisReport{
		RiskScore:       score,
		RiskLevel:       level,
		Summary:         summarize(entry, level),
		KeyFindings:     keyFindings(entry, cycle, period),
		Recommendations: Recommendations(entry, level),
		CycleStatus:     CycleStatus(cycle),
		PeriodStatus:    PeriodStatus(period),
		Percentile:      Percentile(cycle, stats),
	}
}

// RiskScore computes the 0-100 score from cycle, period, symptoms, age and
// lifestyle contributions
func RiskScore(entry model.HealthEntry) int {
	score := 0

	cycle := intOr(entry.CycleLengthDays, defaultCycleDays)
	switch {
	case cycle < 21:
		score += shortCyclePoints
	case cycle > 35:
		score += longCyclePoints
	case cycle > 32:
		score += borderCyclePoints
	}

	period := intOr(entry.PeriodLengthDays, defaultPeriodDays)
	switch {
	case period < 3:
		score += shortPeriodPoints
	case period > 7:
		score += longPeriodPoints
	}

	highRisk := 0
	for _, s := range entry.Symptoms {
		if _, ok := highRiskSymptoms[s]; ok {
			highRisk++
		}
	}
	score += minInt(symptomPointsCap, len(entry.Symptoms)*symptomPointsEach)
	score += minInt(highRiskPointsCap, highRisk*highRiskPointsEach)

	age := intOr(entry.Age, defaultAge)
	if age >= 15 && age <= 35 {
		score += peakAgePoints
	}

	if entry.StressLevel == model.StressHigh {
		score += highStressPoints
	}
	if floatOr(entry.SleepHours, defaultSleepHours) < 6 {
		score += shortSleepPoints
	}

	return minInt(maxRiskScore, score)
}

// RiskLevel maps a score onto the qualitative scale
func RiskLevel(score int) model.IndicatorLevel {
	switch {
	case score < moderateThreshold:
		return model.LevelLow
	case score < highThreshold:
		return model.LevelModerate
	default:
		return model.LevelHigh
	}
}

// CycleStatus describes the cycle length relative to the typical range
func CycleStatus(cycle int) string {
	switch {
	case cycle >= 21 && cycle <= 35:
		return "within normal range"
	case cycle < 21:
		return "shorter than typical (may indicate hormonal imbalance)"
	default:
		return "longer than typical (common in PCOS)"
	}
}

// PeriodStatus describes the period length relative to the typical range
func PeriodStatus(period int) string {
	switch {
	case period >= 3 && period <= 7:
		return "within normal range"
	case period < 3:
		return "shorter than typical"
	default:
		return "longer than typical (may need evaluation)"
	}
}

// Recommendations builds the prioritized advice list, capped at eight items
func Recommendations(entry model.HealthEntry, level model.IndicatorLevel) []string {
	var recs []string

	switch level {
	case model.LevelHigh:
		recs = append(recs,
			"Consult a gynecologist or endocrinologist soon",
			"Schedule hormone panel tests (LH, FSH, testosterone, insulin)",
			"Consider pelvic ultrasound to check for ovarian cysts")
	case model.LevelModerate:
		recs = append(recs,
			"Schedule a checkup with a gynecologist within 1-2 months",
			"Start tracking your cycles and symptoms consistently")
	default:
		recs = append(recs, "Continue monitoring your cycles regularly")
	}

	if entry.HasSymptom(model.SymptomWeightGain) {
		recs = append(recs,
			"Consider consulting a nutritionist for diet management",
			"Regular exercise can help with insulin sensitivity")
	}
	if entry.HasSymptom(model.SymptomAcne) || entry.HasSymptom(model.SymptomHirsutism) {
		recs = append(recs, "Dermatologist consultation may help with skin/hair concerns")
	}
	if entry.HasSymptom(model.SymptomIrregularCycles) {
		recs = append(recs, "Track ovulation with BBT or ovulation kits")
	}
	if entry.HasSymptom(model.SymptomInfertility) {
		recs = append(recs, "Fertility specialist consultation recommended")
	}
	if entry.HasSymptom(model.SymptomMoodChanges) || entry.StressLevel == model.StressHigh {
		recs = append(recs, "Consider mental health support or stress management therapy")
	}

	if floatOr(entry.SleepHours, defaultSleepHours) < 6 {
		recs = append(recs, "Improve sleep hygiene - aim for 7-8 hours nightly")
	}
	if entry.ActivityLevel == model.ActivitySedentary || entry.ActivityLevel == model.ActivityLight {
		recs = append(recs, "Increase physical activity - aim for 150 min/week moderate exercise")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// Percentile estimates where the cycle length sits within the reference
// dataset
func Percentile(cycle int, stats model.DatasetStats) int {
	avg := stats.AvgCycleLength
	if avg <= 0 {
		avg = defaultCycleDays
	}

	diff := float64(cycle) - avg
	switch {
	case diff < 0:
		return 35
	case diff == 0:
		return 50
	default:
		return minInt(90, 50+int(diff*5))
	}
}

func summarize(entry model.HealthEntry, level model.IndicatorLevel) string {
	age := intOr(entry.Age, defaultAge)
	head := fmt.Sprintf("Based on your health data (age %d, %d symptoms reported), ",
		age, len(entry.Symptoms))

	switch level {
	case model.LevelHigh:
		return head + "you show several indicators commonly associated with PCOS. " +
			"We strongly recommend consulting a healthcare provider for proper diagnosis and treatment."
	case model.LevelModerate:
		return head + "you show some indicators that may warrant further evaluation. " +
			"Consider scheduling a checkup with a gynecologist to discuss your symptoms."
	default:
		return head + "your symptoms appear mild. " +
			"Continue monitoring your health and maintain a healthy lifestyle."
	}
}

func keyFindings(entry model.HealthEntry, cycle, period int) []string {
	findings := []string{
		fmt.Sprintf("Cycle length %d days: %s", cycle, CycleStatus(cycle)),
		fmt.Sprintf("Period length %d days: %s", period, PeriodStatus(period)),
	}
	if n := len(entry.Symptoms); n > 0 {
		findings = append(findings, fmt.Sprintf("%d symptom(s) reported", n))
	}
	if entry.WeightKg != nil && entry.HeightCm != nil && *entry.HeightCm > 0 {
		bmi := *entry.WeightKg / ((*entry.HeightCm / 100) * (*entry.HeightCm / 100))
		findings = append(findings, fmt.Sprintf("BMI %.1f (%s)", bmi, bmiCategory(bmi)))
	}
	return findings
}

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
