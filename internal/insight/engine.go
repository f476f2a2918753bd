// Package insight implements the deterministic rule-based indicator engine.
//
// The engine maps a HealthEntry to a qualitative indicator level plus the
// reasons that contributed to it. It is a pure function of the entry data:
// identical input always yields identical output, and every entry (including
// an empty one) maps to exactly one result.
package insight

import "github.com/ovacare/pcos-assistant/pkg/model"

// Common ranges used by the scoring rules. Bounds are inclusive: a cycle of
// exactly 21 or 35 days counts as within range, as does a period of 2 or 7.
const (
	cycleLowDays  = 21
	cycleHighDays = 35

	periodLowDays  = 2
	periodHighDays = 7
)

// signalSymptom pairs a symptom tag with its display label. Order matters:
// matched labels are reported in this declaration order.
type signalSymptom struct {
	key   string
	label string
}

var signalSymptoms = []signalSymptom{
	{model.SymptomAcne, "acne"},
	{model.SymptomHirsutism, "excess hair growth"},
	{model.SymptomHairLoss, "hair loss"},
	{model.SymptomWeightGain, "weight gain"},
	{model.SymptomInfertility, "fertility concerns"},
	{model.SymptomIrregularCycles, "irregular cycles"},
}

// Compute derives the indicator level for an entry.
//
// Scoring: +2 if the cycle length falls outside 21-35 days, +1 if the period
// length falls outside 2-7 days, plus one point per matched high-signal
// symptom capped at 3. With no cycle data, no period data and no matched
// symptoms the level is "insufficient"; otherwise score<=1 is low, score<=3
// is moderate and anything above is high.
func Compute(entry model.HealthEntry) model.InsightResult {
	var (
		score   int
		reasons []model.InsightReason
	)

	if entry.CycleLengthDays != nil {
		cycle := *entry.CycleLengthDays
		if cycle < cycleLowDays || cycle > cycleHighDays {
			score += 2
			reasons = append(reasons, model.InsightReason{Key: model.ReasonCycleOutside})
		} else {
			reasons = append(reasons, model.InsightReason{Key: model.ReasonCycleWithin})
		}
	}

	if entry.PeriodLengthDays != nil {
		period := *entry.PeriodLengthDays
		if period < periodLowDays || period > periodHighDays {
			score++
			reasons = append(reasons, model.InsightReason{Key: model.ReasonPeriodOutside})
		}
	}

	var matched []string
	for _, s := range signalSymptoms {
		if entry.HasSymptom(s.key) {
			matched = append(matched, s.label)
		}
	}
	if len(matched) > 0 {
		score += min(3, len(matched))
		reasons = append(reasons, model.InsightReason{
			Key:      model.ReasonSymptomsSelected,
			Symptoms: matched,
		})
	}

	level := model.LevelInsufficient
	if entry.CycleLengthDays != nil || entry.PeriodLengthDays != nil || len(matched) > 0 {
		switch {
		case score <= 1:
			level = model.LevelLow
		case score <= 3:
			level = model.LevelModerate
		default:
			level = model.LevelHigh
		}
	}

	if reasons == nil {
		reasons = []model.InsightReason{}
	}

	return model.InsightResult{
		Level:   level,
		Reasons: reasons,
		Score:   score,
	}
}

// CycleWithinRange reports whether a cycle length falls in the common
// 21-35 day range (inclusive)
func CycleWithinRange(days int) bool {
	return days >= cycleLowDays && days <= cycleHighDays
}

// PeriodWithinRange reports whether a period length falls in the common
// 2-7 day range (inclusive)
func PeriodWithinRange(days int) bool {
	return days >= periodLowDays && days <= periodHighDays
}
