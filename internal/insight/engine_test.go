package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCompute_TypicalEntryIsLow(t *testing.T) {
	entry := model.HealthEntry{
		Age:              intPtr(27),
		CycleLengthDays:  intPtr(28),
		PeriodLengthDays: intPtr(5),
	}

	result := Compute(entry)

	assert.Equal(t, model.LevelLow, result.Level)
	assert.Equal(t, 0, result.Score)
	require.Len(t, result.Reasons, 1)
	assert.Equal(t, model.ReasonCycleWithin, result.Reasons[0].Key)
}

func TestCompute_MultipleSignalsIsHigh(t *testing.T) {
	entry := model.HealthEntry{
		CycleLengthDays:  intPtr(45),
		PeriodLengthDays: intPtr(10),
		Symptoms: []string{
			model.SymptomAcne,
			model.SymptomHirsutism,
			model.SymptomWeightGain,
		},
	}

	result := Compute(entry)

	// 2 (cycle outside) + 1 (period outside) + 3 (capped symptoms)
	assert.Equal(t, 6, result.Score)
	assert.Equal(t, model.LevelHigh, result.Level)
}

func TestCompute_EmptyEntryIsInsufficient(t *testing.T) {
	result := Compute(model.HealthEntry{})

	assert.Equal(t, model.LevelInsufficient, result.Level)
	assert.Empty(t, result.Reasons)
	assert.Equal(t, 0, result.Score)
}

func TestCompute_CycleBoundsAreInclusive(t *testing.T) {
	cases := []struct {
		cycle int
		want  string
	}{
		{21, model.ReasonCycleWithin},
		{35, model.ReasonCycleWithin},
		{20, model.ReasonCycleOutside},
		{36, model.ReasonCycleOutside},
	}

	for _, tc := range cases {
		result := Compute(model.HealthEntry{CycleLengthDays: intPtr(tc.cycle)})
		require.NotEmpty(t, result.Reasons, "cycle=%d", tc.cycle)
		assert.Equal(t, tc.want, result.Reasons[0].Key, "cycle=%d", tc.cycle)
	}
}

func TestCompute_PeriodBoundsAreInclusive(t *testing.T) {
	for _, period := range []int{2, 7} {
		result := Compute(model.HealthEntry{PeriodLengthDays: intPtr(period)})
		for _, r := range result.Reasons {
			assert.NotEqual(t, model.ReasonPeriodOutside, r.Key, "period=%d", period)
		}
	}

	for _, period := range []int{1, 8} {
		result := Compute(model.HealthEntry{PeriodLengthDays: intPtr(period)})
		require.Len(t, result.Reasons, 1, "period=%d", period)
		assert.Equal(t, model.ReasonPeriodOutside, result.Reasons[0].Key)
	}
}

func TestCompute_SymptomContributionIsCapped(t *testing.T) {
	entry := model.HealthEntry{
		Symptoms: []string{
			model.SymptomAcne,
			model.SymptomHirsutism,
			model.SymptomHairLoss,
			model.SymptomWeightGain,
			model.SymptomInfertility,
			model.SymptomIrregularCycles,
		},
	}

	result := Compute(entry)

	assert.Equal(t, 3, result.Score)
	assert.Equal(t, model.LevelModerate, result.Level)
}

func TestCompute_MatchedSymptomsKeepDeclarationOrder(t *testing.T) {
	// Selection order in the entry must not affect the reported order
	entry := model.HealthEntry{
		Symptoms: []string{
			model.SymptomIrregularCycles,
			model.SymptomAcne,
		},
	}

	result := Compute(entry)

	require.Len(t, result.Reasons, 1)
	assert.Equal(t, []string{"acne", "irregular cycles"}, result.Reasons[0].Symptoms)
}

func TestCompute_UnknownSymptomsDoNotScore(t *testing.T) {
	entry := model.HealthEntry{
		Symptoms: []string{model.SymptomMoodChanges, model.SymptomFatigue},
	}

	result := Compute(entry)

	assert.Equal(t, model.LevelInsufficient, result.Level)
	assert.Equal(t, 0, result.Score)
}

func TestCompute_PeriodOnlyStillComputesLevel(t *testing.T) {
	result := Compute(model.HealthEntry{PeriodLengthDays: intPtr(10)})

	assert.Equal(t, model.LevelLow, result.Level)
	assert.Equal(t, 1, result.Score)
}

func TestFormatReasons(t *testing.T) {
	entry := model.HealthEntry{
		CycleLengthDays: intPtr(40),
		Symptoms:        []string{model.SymptomAcne},
	}
	result := Compute(entry)

	text := FormatReasons(result, "en")
	assert.Contains(t, text, "cycle length outside 21-35 days")
	assert.Contains(t, text, "acne")

	// Unknown language falls back to English
	assert.Equal(t, text, FormatReasons(result, "fr"))

	assert.Equal(t, "Fill in cycle length and symptoms to see insights.",
		FormatReasons(Compute(model.HealthEntry{}), "en"))
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "Higher indicators", LevelLabel(model.LevelHigh, "en"))
	assert.NotEmpty(t, LevelLabel(model.LevelHigh, "te"))
	assert.NotEmpty(t, LevelLabel(model.LevelHigh, "hi"))
	assert.Equal(t, "Not enough data", LevelLabel(model.IndicatorLevel("bogus"), "en"))
}
