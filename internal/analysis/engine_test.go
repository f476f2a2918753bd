package analysis

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestRiskScore_NeutralEntry(t *testing.T) {
	// Defaults (cycle 28, period 5, no symptoms, age 25) only score the
	// peak-age contribution
	assert.Equal(t, 10, RiskScore(model.HealthEntry{}))
}

func TestRiskScore_CycleContribution(t *testing.T) {
	cases := []struct {
		cycle int
		want  int
	}{
		{20, 25},
		{21, 0},
		{32, 0},
		{33, 15},
		{35, 15},
		{36, 30},
	}

	for _, tc := range cases {
		entry := model.HealthEntry{
			Age:             intPtr(40), // outside the peak-age band
			CycleLengthDays: intPtr(tc.cycle),
		}
		assert.Equal(t, tc.want, RiskScore(entry), "cycle=%d", tc.cycle)
	}
}

func TestRiskScore_PeriodContribution(t *testing.T) {
	base := model.HealthEntry{Age: intPtr(40)}

	short := base
	short.PeriodLengthDays = intPtr(2)
	assert.Equal(t, 10, RiskScore(short))

	long := base
	long.PeriodLengthDays = intPtr(8)
	assert.Equal(t, 15, RiskScore(long))
}

func TestRiskScore_SymptomContributionsAreCapped(t *testing.T) {
	entry := model.HealthEntry{
		Age:      intPtr(40),
		Symptoms: model.KnownSymptoms, // all ten tags, six of them high risk
	}

	// min(25, 10*4) + min(15, 6*5)
	assert.Equal(t, 40, RiskScore(entry))
}

func TestRiskScore_LifestyleContribution(t *testing.T) {
	entry := model.HealthEntry{
		Age:         intPtr(40),
		StressLevel: model.StressHigh,
		SleepHours:  floatPtr(5),
	}

	assert.Equal(t, 5, RiskScore(entry))
}

func TestRiskScore_CappedAtHundred(t *testing.T) {
	entry := model.HealthEntry{
		Age:              intPtr(25),
		CycleLengthDays:  intPtr(60),
		PeriodLengthDays: intPtr(12),
		Symptoms:         model.KnownSymptoms,
		StressLevel:      model.StressHigh,
		SleepHours:       floatPtr(4),
	}

	assert.Equal(t, 100, RiskScore(entry))
}

func TestRiskLevel_Thresholds(t *testing.T) {
	assert.Equal(t, model.LevelLow, RiskLevel(0))
	assert.Equal(t, model.LevelLow, RiskLevel(29))
	assert.Equal(t, model.LevelModerate, RiskLevel(30))
	assert.Equal(t, model.LevelModerate, RiskLevel(59))
	assert.Equal(t, model.LevelHigh, RiskLevel(60))
	assert.Equal(t, model.LevelHigh, RiskLevel(100))
}

func TestCycleAndPeriodStatus(t *testing.T) {
	assert.Equal(t, "within normal range", CycleStatus(28))
	assert.Contains(t, CycleStatus(18), "shorter than typical")
	assert.Contains(t, CycleStatus(40), "longer than typical")

	assert.Equal(t, "within normal range", PeriodStatus(5))
	assert.Contains(t, PeriodStatus(2), "shorter than typical")
	assert.Contains(t, PeriodStatus(9), "longer than typical")
}

func TestRecommendations_CappedAtEight(t *testing.T) {
	entry := model.HealthEntry{
		Symptoms:      model.KnownSymptoms,
		StressLevel:   model.StressHigh,
		SleepHours:    floatPtr(4),
		ActivityLevel: model.ActivitySedentary,
	}

	recs := Recommendations(entry, model.LevelHigh)

	assert.Len(t, recs, 8)
	assert.Contains(t, recs[0], "gynecologist or endocrinologist")
}

func TestRecommendations_LowLevelBaseline(t *testing.T) {
	recs := Recommendations(model.HealthEntry{}, model.LevelLow)

	require.Len(t, recs, 1)
	assert.Equal(t, "Continue monitoring your cycles regularly", recs[0])
}

func TestPercentile(t *testing.T) {
	stats := model.DatasetStats{AvgCycleLength: 28}

	assert.Equal(t, 35, Percentile(25, stats))
	assert.Equal(t, 50, Percentile(28, stats))
	assert.Equal(t, 60, Percentile(30, stats))
	assert.Equal(t, 90, Percentile(60, stats))
}

func TestAnalyze_BuildsFullReport(t *testing.T) {
	entry := model.HealthEntry{
		Age:              intPtr(24),
		CycleLengthDays:  intPtr(45),
		PeriodLengthDays: intPtr(9),
		Symptoms:         []string{model.SymptomAcne, model.SymptomIrregularCycles},
	}

	report := Analyze(entry, model.DefaultDatasetStats())

	// 30 (cycle) + 15 (period) + 8 (symptoms) + 10 (high risk) + 10 (age)
	assert.Equal(t, 73, report.RiskScore)
	assert.Equal(t, model.LevelHigh, report.RiskLevel)
	assert.Contains(t, report.Summary, "age 24")
	assert.Contains(t, report.Summary, "2 symptoms")
	assert.NotEmpty(t, report.KeyFindings)
	assert.NotEmpty(t, report.Recommendations)
	assert.Contains(t, report.CycleStatus, "longer than typical")
	assert.Equal(t, 90, report.Percentile)
}

func TestProperty_RiskScoreAlwaysInRange(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("score stays within 0-100 for any entry", prop.ForAll(
		func(age, cycle, period int, symptoms []string, sleep float64, stressed bool) bool {
			entry := model.HealthEntry{
				Age:              &age,
				CycleLengthDays:  &cycle,
				PeriodLengthDays: &period,
				Symptoms:         symptoms,
				SleepHours:       &sleep,
			}
			if stressed {
				entry.StressLevel = model.StressHigh
			}

			score := RiskScore(entry)
			return score >= 0 && score <= 100
		},
		gen.IntRange(10, 80),
		gen.IntRange(15, 120),
		gen.IntRange(1, 30),
		gen.SliceOf(gen.OneConstOf(
			model.SymptomIrregularCycles,
			model.SymptomAcne,
			model.SymptomHirsutism,
			model.SymptomWeightGain,
			model.SymptomPelvicPain,
			model.SymptomFatigue,
		)),
		gen.Float64Range(0, 24),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestProperty_LevelMonotoneInScore(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	order := map[model.IndicatorLevel]int{
		model.LevelLow:      0,
		model.LevelModerate: 1,
		model.LevelHigh:     2,
	}

	properties.Property("a higher score never maps to a lower level", prop.ForAll(
		func(a, b int) bool {
			if a > b {
				a, b = b, a
			}
			return order[RiskLevel(a)] <= order[RiskLevel(b)]
		},
		gen.IntRange(0, 100),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
