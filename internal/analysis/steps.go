package analysis

import (
	"fmt"

	"github.com/ovacare/pcos-assistant/internal/wizard"
	"github.com/ovacare/pcos-assistant/pkg/model"
)

// StepInsight is the incremental feedback returned after each form step
type StepInsight struct {
	Step              int      `json:"step"`
	StepName          string   `json:"step_name"`
	Findings          []string `json:"findings"`
	Tips              []string `json:"tips"`
	NextStepPreview   string   `json:"next_step_preview,omitempty"`
	HasSufficientData bool     `json:"has_sufficient_data"`
}

var stepNames = map[int]string{
	model.StepPersonal:  "Personal Information",
	model.StepCycle:     "Menstrual Cycle",
	model.StepSymptoms:  "Symptoms",
	model.StepLifestyle: "Lifestyle & Habits",
	model.StepClinical:  "Clinical Information",
	model.StepReview:    "Review",
}

var stepPreviews = map[int]string{
	model.StepCycle:     "Next: We'll ask about your menstrual cycle details",
	model.StepSymptoms:  "Next: Select any symptoms you're currently experiencing",
	model.StepLifestyle: "Next: Tell us about your daily lifestyle and habits",
	model.StepClinical:  "Next: Share any clinical information and your location",
	model.StepReview:    "Next: Review all your information before submission",
}

// AnalyzeStep produces immediate feedback for the fields entered on one step
func AnalyzeStep(step int, fields wizard.StepFields) StepInsight {
	insight := StepInsight{
		Step:     step,
		StepName: stepName(step),
		Findings: []string{},
		Tips:     []string{},
	}
	if step < model.StepReview {
		insight.NextStepPreview = stepPreviews[step+1]
	}

	switch step {
	case model.StepPersonal:
		analyzePersonal(fields, &insight)
	case model.StepCycle:
		analyzeCycle(fields, &insight)
	case model.StepSymptoms:
		analyzeSymptoms(fields, &insight)
	case model.StepLifestyle:
		analyzeLifestyle(fields, &insight)
	case model.StepClinical:
		analyzeClinical(fields, &insight)
	case model.StepReview:
		insight.HasSufficientData = true
		insight.Findings = append(insight.Findings,
			"All information collected. Ready for comprehensive analysis.")
		insight.Tips = append(insight.Tips,
			"Click 'Save My Data' to get your complete health report with doctor recommendations.")
	}

	return insight
}

func stepName(step int) string {
	if name, ok := stepNames[step]; ok {
		return name
	}
	return "Unknown"
}

func analyzePersonal(fields wizard.StepFields, insight *StepInsight) {
	if fields.Age != nil {
		age := *fields.Age
		if age >= 10 && age <= 80 {
			insight.Findings = append(insight.Findings, fmt.Sprintf("Age %d recorded", age))
			switch {
			case age >= 15 && age <= 25:
				insight.Tips = append(insight.Tips, "PCOS is commonly diagnosed in women aged 15-35.")
			case age >= 26 && age <= 35:
				insight.Tips = append(insight.Tips, "This is a common age range for PCOS diagnosis.")
			}
		}
	}

	if fields.WeightKg != nil && fields.HeightCm != nil && *fields.HeightCm > 0 {
		bmi := *fields.WeightKg / ((*fields.HeightCm / 100) * (*fields.HeightCm / 100))
		insight.Findings = append(insight.Findings,
			fmt.Sprintf("BMI: %.1f (%s)", bmi, bmiCategory(bmi)))
		if bmi > 25 {
			insight.Tips = append(insight.Tips, "Weight management can help improve PCOS symptoms.")
		}
	}
}

func analyzeCycle(fields wizard.StepFields, insight *StepInsight) {
	if fields.CycleLength != nil {
		cycle := *fields.CycleLength
		switch {
		case cycle >= 21 && cycle <= 35:
			insight.Findings = append(insight.Findings,
				fmt.Sprintf("Cycle length: %d days (normal range)", cycle))
		case cycle < 21:
			insight.Findings = append(insight.Findings,
				fmt.Sprintf("Cycle length: %d days (shorter than typical)", cycle))
			insight.Tips = append(insight.Tips, "Short cycles may indicate hormonal imbalances.")
		default:
			insight.Findings = append(insight.Findings,
				fmt.Sprintf("Cycle length: %d days (longer than typical)", cycle))
			insight.Tips = append(insight.Tips, "Longer cycles are common with PCOS.")
		}
	}

	if fields.PeriodLength != nil {
		period := *fields.PeriodLength
		switch {
		case period >= 2 && period <= 7:
			insight.Findings = append(insight.Findings,
				fmt.Sprintf("Period length: %d days (normal range)", period))
		case period < 2:
			insight.Findings = append(insight.Findings,
				fmt.Sprintf("Period length: %d days (shorter than typical)", period))
		default:
			insight.Findings = append(insight.Findings,
				fmt.Sprintf("Period length: %d days (longer than typical)", period))
		}
	}
}

func analyzeSymptoms(fields wizard.StepFields, insight *StepInsight) {
	count := len(fields.Symptoms)
	if count == 0 {
		insight.Findings = append(insight.Findings, "No symptoms selected")
		insight.Tips = append(insight.Tips, "Adding symptoms helps us understand your health better.")
		return
	}

	insight.Findings = append(insight.Findings, fmt.Sprintf("%d symptom(s) reported", count))

	has := func(tag string) bool {
		for _, s := range fields.Symptoms {
			if s == tag {
				return true
			}
		}
		return false
	}
	if has(model.SymptomIrregularCycles) {
		insight.Tips = append(insight.Tips, "Irregular cycles are a key PCOS indicator.")
	}
	if has(model.SymptomWeightGain) {
		insight.Tips = append(insight.Tips, "Weight changes may relate to insulin resistance.")
	}
	if has(model.SymptomHirsutism) || has(model.SymptomAcne) {
		insight.Tips = append(insight.Tips, "These symptoms often improve with hormonal treatments.")
	}
	if count >= 5 {
		insight.Tips = append(insight.Tips, "Multiple symptoms reported. A comprehensive checkup is recommended.")
	}
}

func analyzeLifestyle(fields wizard.StepFields, insight *StepInsight) {
	activityLabels := map[string]string{
		string(model.ActivitySedentary): "Sedentary",
		string(model.ActivityLight):     "Lightly active",
		string(model.ActivityModerate):  "Moderately active",
		string(model.ActivityActive):    "Very active",
	}
	if fields.Activity != "" {
		label := fields.Activity
		if l, ok := activityLabels[fields.Activity]; ok {
			label = l
		}
		insight.Findings = append(insight.Findings, "Activity level: "+label)
		if fields.Activity == string(model.ActivitySedentary) {
			insight.Tips = append(insight.Tips, "Regular exercise improves insulin sensitivity.")
		}
	}

	if fields.SleepHours != nil {
		insight.Findings = append(insight.Findings,
			fmt.Sprintf("Sleep: %g hours/night", *fields.SleepHours))
		if *fields.SleepHours < 6 {
			insight.Tips = append(insight.Tips, "Poor sleep can worsen PCOS symptoms. Aim for 7-8 hours.")
		}
	}

	stressLabels := map[string]string{
		string(model.StressLow):      "Low",
		string(model.StressModerate): "Moderate",
		string(model.StressHigh):     "High",
	}
	if fields.Stress != "" {
		label := fields.Stress
		if l, ok := stressLabels[fields.Stress]; ok {
			label = l
		}
		insight.Findings = append(insight.Findings, "Stress level: "+label)
		if fields.Stress == string(model.StressHigh) {
			insight.Tips = append(insight.Tips, "High stress affects hormones. Try yoga or meditation.")
		}
	}
}

func analyzeClinical(fields wizard.StepFields, insight *StepInsight) {
	if fields.City != "" {
		insight.Findings = append(insight.Findings, "Location: "+fields.City)
		insight.Tips = append(insight.Tips,
			"Based on your location, we'll recommend nearby specialists if needed.")
	}

	pcosLabels := map[string]string{
		string(model.PCOSDiagnosed):     "Already diagnosed with PCOS",
		string(model.PCOSSuspected):     "Suspected PCOS",
		string(model.PCOSFamilyHistory): "Family history of PCOS",
		string(model.PCOSNotDiagnosed):  "Not diagnosed",
	}
	if fields.PCOS != "" {
		label := fields.PCOS
		if l, ok := pcosLabels[fields.PCOS]; ok {
			label = l
		}
		insight.Findings = append(insight.Findings, "PCOS status: "+label)
		switch fields.PCOS {
		case string(model.PCOSDiagnosed):
			insight.Tips = append(insight.Tips,
				"Regular follow-ups with your doctor help manage PCOS effectively.")
		case string(model.PCOSSuspected):
			insight.Tips = append(insight.Tips, "Getting proper tests can confirm diagnosis.")
		}
	}

	insight.Tips = append(insight.Tips, "Great! Almost done. The next step will show a summary.")
}
