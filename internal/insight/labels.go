package insight

import (
	"strings"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Labels holds the display strings for one language. Only presentation uses
// these; the scoring logic is language-independent.
type Labels struct {
	Levels        map[model.IndicatorLevel]string
	Reasons       map[string]string
	BasedOn       string // template, {reasons} placeholder
	DefaultReason string
}

var labelTables = map[string]Labels{
	"en": {
		Levels: map[model.IndicatorLevel]string{
			model.LevelInsufficient: "Not enough data",
			model.LevelLow:          "Lower indicators",
			model.LevelModerate:     "Moderate indicators",
			model.LevelHigh:         "Higher indicators",
		},
		Reasons: map[string]string{
			model.ReasonCycleOutside:     "cycle length outside 21-35 days",
			model.ReasonCycleWithin:      "cycle length within a common range",
			model.ReasonPeriodOutside:    "period length outside 2-7 days",
			model.ReasonSymptomsSelected: "selected symptoms: {list}",
		},
		BasedOn:       "Based on {reasons}.",
		DefaultReason: "Fill in cycle length and symptoms to see insights.",
	},
	"te": {
		Levels: map[model.IndicatorLevel]string{
			model.LevelInsufficient: "డేటా సరిపోదు",
			model.LevelLow:          "తక్కువ సూచికలు",
			model.LevelModerate:     "మధ్యస్థ సూచికలు",
			model.LevelHigh:         "అధిక సూచికలు",
		},
		Reasons: map[string]string{
			model.ReasonCycleOutside:     "21-35 రోజుల పరిధి వెలుపల సైకిల్ పొడవు",
			model.ReasonCycleWithin:      "సాధారణ పరిధిలో సైకిల్ పొడవు",
			model.ReasonPeriodOutside:    "2-7 రోజుల పరిధి వెలుపల పీరియడ్ పొడవు",
			model.ReasonSymptomsSelected: "ఎంచుకున్న లక్షణాలు: {list}",
		},
		BasedOn:       "{reasons} ఆధారంగా.",
		DefaultReason: "సైకిల్ పొడవు మరియు లక్షణాలను నమోదు చేయండి.",
	},
	"hi": {
		Levels: map[model.IndicatorLevel]string{
			model.LevelInsufficient: "पर्याप्त डेटा नहीं",
			model.LevelLow:          "कम संकेतक",
			model.LevelModerate:     "मध्यम संकेतक",
			model.LevelHigh:         "उच्च संकेतक",
		},
		Reasons: map[string]string{
			model.ReasonCycleOutside:     "21-35 दिनों की सीमा से बाहर साइकिल लंबाई",
			model.ReasonCycleWithin:      "सामान्य सीमा में साइकिल लंबाई",
			model.ReasonPeriodOutside:    "2-7 दिनों की सीमा से बाहर पीरियड लंबाई",
			model.ReasonSymptomsSelected: "चुने गए लक्षण: {list}",
		},
		BasedOn:       "{reasons} के आधार पर.",
		DefaultReason: "साइकिल लंबाई और लक्षण भरें.",
	},
}

// LabelsFor returns the label table for a language, defaulting to English
func LabelsFor(lang string) Labels {
	if t, ok := labelTables[lang]; ok {
		return t
	}
	return labelTables["en"]
}

// FormatReasons renders a result's reasons as a display sentence in the
// given language
func FormatReasons(result model.InsightResult, lang string) string {
	t := LabelsFor(lang)

	if len(result.Reasons) == 0 {
		return t.DefaultReason
	}

	parts := make([]string, 0, len(result.Reasons))
	for _, r := range result.Reasons {
		text, ok := t.Reasons[r.Key]
		if !ok {
			text = r.Key
		}
		if r.Key == model.ReasonSymptomsSelected {
			text = strings.ReplaceAll(text, "{list}", strings.Join(r.Symptoms, ", "))
		}
		parts = append(parts, text)
	}

	return strings.ReplaceAll(t.BasedOn, "{reasons}", strings.Join(parts, "; "))
}

// LevelLabel renders an indicator level in the given language
func LevelLabel(level model.IndicatorLevel, lang string) string {
	t := LabelsFor(lang)
	if s, ok := t.Levels[level]; ok {
		return s
	}
	return t.Levels[model.LevelInsufficient]
}
