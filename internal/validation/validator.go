// Package validation evaluates report form data against the BS 7671 minimum
// recording requirements and scores certificate quality.
package validation

import (
	"fmt"

	"github.com/voltcraft/certify/internal/models"
	"github.com/voltcraft/certify/pkg/utils"
)

// totalRequiredFields is the BS 7671 minimum field count used as the
// completion-score denominator.
const totalRequiredFields = 15

// Penalty weights per finding severity. A critical issue costs a full field,
// a missing field most of one, a warning a fraction. The score can go
// negative before clamping.
const (
	missingFieldPenalty = 0.7
	warningPenalty      = 0.3
)

// completionRateThreshold is the inspection completion rate (percent) below
// which a warning is raised.
const completionRateThreshold = 80.0

// validThreshold is the minimum completion score for a valid report.
const validThreshold = 70

// ValidateEICR checks the form, schedule of inspections, and schedule of
// test results, and returns a structured finding list with a completion
// score. Findings are independent; only the list ordering reflects
// evaluation order.
func ValidateEICR(form *models.ReportForm, items []models.InspectionItem, results []models.TestResult) *models.ValidationResult {
	v := &models.ValidationResult{
		MissingFields:   []string{},
		Warnings:        []string{},
		CriticalIssues:  []string{},
		Recommendations: []string{},
	}

	if !models.HasField(form.ClientName) {
		v.CriticalIssues = append(v.CriticalIssues, "Client name is required")
	}
	if !models.HasField(form.InstallationAddress) {
		v.CriticalIssues = append(v.CriticalIssues, "Installation address is required")
	}
	if !models.HasField(form.InspectionDate) {
		v.CriticalIssues = append(v.CriticalIssues, "Inspection date is required")
	}
	if !models.HasField(form.InspectorName) {
		v.CriticalIssues = append(v.CriticalIssues, "Inspector name is required")
	}
	if !models.HasField(form.EarthingArrangement) {
		v.CriticalIssues = append(v.CriticalIssues, "Earthing arrangement must be specified")
	}
	if !models.HasField(form.OverallAssessment) {
		v.CriticalIssues = append(v.CriticalIssues, "Overall assessment is required")
	}

	if !models.HasField(form.InspectorQualifications) {
		v.Warnings = append(v.Warnings, "Inspector qualifications not specified")
	}
	if !models.HasField(form.PropertyDescription) {
		v.MissingFields = append(v.MissingFields, "Property description")
	}
	if !models.HasField(form.EstimatedAge) {
		v.Warnings = append(v.Warnings, "Estimated age of installation not provided")
	}
	if !models.HasField(form.SupplyVoltageValue()) {
		v.MissingFields = append(v.MissingFields, "Supply voltage")
	}

	checkInspectionItems(v, items)
	checkTestResults(v, results)

	if !models.HasField(form.Signature) {
		v.Recommendations = append(v.Recommendations, "Add inspector signature for completeness")
	}
	if !models.HasField(form.CompanyName) {
		v.Recommendations = append(v.Recommendations, "Include company name for professional presentation")
	}
	if !models.HasField(form.CertificateReference) {
		v.Recommendations = append(v.Recommendations, "Add a certificate reference number")
	}

	v.CompletionScore = CompletionScore(v)
	v.Valid = len(v.CriticalIssues) == 0 && v.CompletionScore >= validThreshold
	return v
}

func checkInspectionItems(v *models.ValidationResult, items []models.InspectionItem) {
	if len(items) == 0 {
		v.CriticalIssues = append(v.CriticalIssues, "No inspection items recorded")
		return
	}
	completed := 0
	defects := 0
	for i := range items {
		if items[i].Completed() {
			completed++
		}
		if items[i].Outcome == models.OutcomeC1 || items[i].Outcome == models.OutcomeC2 {
			defects++
		}
	}
	rate := utils.Percent(completed, len(items))
	if rate < completionRateThreshold {
		v.Warnings = append(v.Warnings, fmt.Sprintf("Only %.1f%% of inspection items completed", rate))
	}
	if defects > 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("%d item(s) classified C1 or C2 require attention", defects))
	}
}

func checkTestResults(v *models.ValidationResult, results []models.TestResult) {
	if len(results) == 0 {
		v.Warnings = append(v.Warnings, "No test results recorded")
		return
	}
	missing := 0
	failed := 0
	for i := range results {
		if results[i].MissingMeasurements() {
			missing++
		}
		if results[i].Unsatisfactory() {
			failed++
		}
	}
	if missing > 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("%d test result(s) missing Zs or R1+R2 measurements", missing))
	}
	if failed > 0 {
		v.Warnings = append(v.Warnings, fmt.Sprintf("%d test result(s) marked unsatisfactory", failed))
	}
}

// CompletionScore applies the severity-weighted penalty scheme over the
// fixed field denominator and clamps to [0, 100].
func CompletionScore(v *models.ValidationResult) int {
	completed := float64(totalRequiredFields) -
		float64(len(v.CriticalIssues)) -
		missingFieldPenalty*float64(len(v.MissingFields)) -
		warningPenalty*float64(len(v.Warnings))
	score := completed / totalRequiredFields * 100
	return utils.RoundScore(utils.Clamp(score, 0, 100))
}
