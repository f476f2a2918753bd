package insight

import (
	"fmt"
	"strings"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

const maxSuggestions = 6

// Baseline suggestions included in every result
const (
	suggestSaveClinic = "Save your primary clinic or OB-GYN phone number in your contacts for quick access."
	suggestUrgentCare = "If you ever feel severe pain, heavy bleeding, or faintness, seek urgent care using your local emergency number."
)

// CareSuggestions builds the ordered care-suggestion list for an entry.
//
// Two baseline suggestions always lead; conditional ones follow in fixed
// priority order. The result is deduplicated and capped at six items.
func CareSuggestions(entry model.HealthEntry) []string {
	suggestions := []string{suggestSaveClinic, suggestUrgentCare}

	if city := strings.TrimSpace(entry.City); city != "" {
		suggestions = append(suggestions,
			fmt.Sprintf("Check for women's health or endocrinology clinics in %s if you need a specialist.", city))
	}

	if entry.PCOSStatus == model.PCOSNotDiagnosed && len(entry.Symptoms) > 0 {
		suggestions = append(suggestions,
			"If symptoms persist, consider a clinical checkup for PCOS screening.")
	}

	if entry.PCOSStatus == model.PCOSDiagnosed {
		suggestions = append(suggestions,
			"Bring your recent cycle and symptom notes to your next appointment.")
	}

	if entry.CycleLengthDays != nil && !CycleWithinRange(*entry.CycleLengthDays) {
		suggestions = append(suggestions,
			"Long or short cycles are worth monitoring; schedule a check-in if this pattern continues.")
	}

	if entry.PeriodLengthDays != nil && !PeriodWithinRange(*entry.PeriodLengthDays) {
		suggestions = append(suggestions,
			"Unusually short or long periods can be discussed with a clinician.")
	}

	shortSleep := entry.SleepHours != nil && *entry.SleepHours > 0 && *entry.SleepHours < 6
	if entry.StressLevel == model.StressHigh || shortSleep {
		suggestions = append(suggestions,
			"If stress or sleep issues are ongoing, ask about supportive care options.")
	}

	if entry.HasSymptom(model.SymptomPelvicPain) {
		suggestions = append(suggestions,
			"Pelvic pain that is new or severe should be evaluated.")
	}

	// Unreachable given the two baseline entries, but keeps the function total
	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"Keep tracking consistently so your care team can spot trends.")
	}

	deduped := make([]string, 0, len(suggestions))
	seen := make(map[string]struct{}, len(suggestions))
	for _, s := range suggestions {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		deduped = append(deduped, s)
	}

	if len(deduped) > maxSuggestions {
		deduped = deduped[:maxSuggestions]
	}

	return deduped
}
