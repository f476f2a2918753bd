// Package pdf renders an analysis report as a downloadable document
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/ovacare/pcos-assistant/pkg/model"
)

// Generator renders health reports as PDF documents
type Generator struct {
	logger *zap.Logger
}

// NewGenerator creates a new Generator
func NewGenerator(logger *zap.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate renders the entry and its analysis report into a PDF
func (g *Generator) Generate(entry model.HealthEntry, report model.AnalysisReport) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("risk_level", string(report.RiskLevel)),
		zap.Int("risk_score", report.RiskScore),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	g.addTitle(pdf, report)
	g.addAssessment(pdf, report)
	g.addEntrySummary(pdf, entry)
	g.addFindings(pdf, report)
	g.addRecommendations(pdf, report)
	g.addSpecialists(pdf, report)
	g.addDisclaimer(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)
	return buf.Bytes(), nil
}

func (g *Generator) addTitle(pdf *gofpdf.Fpdf, report model.AnalysisReport) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "PCOS Health Assessment Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	generated := report.GeneratedAt.Format("2006-01-02 15:04")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", generated), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Analysis source: %s", report.Source), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

func (g *Generator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

func (g *Generator) addAssessment(pdf *gofpdf.Fpdf, report model.AnalysisReport) {
	g.addSectionHeader(pdf, "Assessment")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Risk level: %s (score %d/100)",
		strings.ToUpper(string(report.RiskLevel)), report.RiskScore), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	if report.CycleStatus != "" {
		pdf.CellFormat(0, 5, "Cycle: "+report.CycleStatus, "", 1, "L", false, 0, "")
	}
	if report.PeriodStatus != "" {
		pdf.CellFormat(0, 5, "Period: "+report.PeriodStatus, "", 1, "L", false, 0, "")
	}
	if report.Percentile > 0 {
		pdf.CellFormat(0, 5, fmt.Sprintf("Dataset percentile: %d", report.Percentile), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.MultiCell(0, 5, report.Summary, "", "L", false)
	pdf.Ln(5)
}

func (g *Generator) addEntrySummary(pdf *gofpdf.Fpdf, entry model.HealthEntry) {
	g.addSectionHeader(pdf, "Reported Data")

	line := func(label, value string) {
		if value != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", label, value), "", 1, "L", false, 0, "")
		}
	}

	if entry.Age != nil {
		line("Age", fmt.Sprintf("%d years", *entry.Age))
	}
	if entry.CycleLengthDays != nil {
		line("Average cycle length", fmt.Sprintf("%d days", *entry.CycleLengthDays))
	}
	if entry.PeriodLengthDays != nil {
		line("Period length", fmt.Sprintf("%d days", *entry.PeriodLengthDays))
	}
	line("Last period", entry.LastPeriodDate)
	if len(entry.Symptoms) > 0 {
		line("Symptoms", strings.Join(entry.Symptoms, ", "))
	}
	line("Activity level", string(entry.ActivityLevel))
	if entry.SleepHours != nil {
		line("Sleep", fmt.Sprintf("%g hours/night", *entry.SleepHours))
	}
	line("Stress level", string(entry.StressLevel))
	line("City", entry.City)
	line("PCOS status", string(entry.PCOSStatus))
	line("Medications", entry.Medications)
	pdf.Ln(5)
}

func (g *Generator) addFindings(pdf *gofpdf.Fpdf, report model.AnalysisReport) {
	g.addSectionHeader(pdf, "Key Findings")

	if len(report.KeyFindings) == 0 {
		pdf.CellFormat(0, 8, "No findings recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}
	for _, finding := range report.KeyFindings {
		pdf.CellFormat(0, 5, "  - "+finding, "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)
}

func (g *Generator) addRecommendations(pdf *gofpdf.Fpdf, report model.AnalysisReport) {
	g.addSectionHeader(pdf, "Recommendations")

	if len(report.Recommendations) == 0 {
		pdf.CellFormat(0, 8, "No recommendations available.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}
	for i, rec := range report.Recommendations {
		pdf.MultiCell(0, 5, fmt.Sprintf("%d. %s", i+1, rec), "", "L", false)
	}
	pdf.Ln(5)
}

func (g *Generator) addSpecialists(pdf *gofpdf.Fpdf, report model.AnalysisReport) {
	if len(report.Specialists) == 0 {
		return
	}

	g.addSectionHeader(pdf, "Recommended Specialists")
	for _, doc := range report.Specialists {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, doc.Name, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s, %s (%s)", doc.Specialty, doc.Hospital, doc.City), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, "  "+doc.Phone, "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	pdf.Ln(3)
}

func (g *Generator) addDisclaimer(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(0, 5,
		"This report is generated from self-reported data and is not a medical diagnosis. "+
			"Please consult a qualified healthcare provider for evaluation and treatment.",
		"", "L", false)
}
