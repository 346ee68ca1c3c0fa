package validation

import (
	"github.com/voltcraft/certify/internal/models"
	"github.com/voltcraft/certify/pkg/utils"
)

// Component weights for the overall quality score.
const (
	completenessWeight = 0.40
	complianceWeight   = 0.35
	presentationWeight = 0.25
)

// minScheduleItems is the inspection schedule length below which the
// compliance score is penalised (a full EICR schedule has well over 50 items).
const minScheduleItems = 50

// QualityMetrics derives the three quality components independently of
// ValidateEICR and combines them into a weighted overall score.
func QualityMetrics(form *models.ReportForm, items []models.InspectionItem, results []models.TestResult) *models.QualityMetrics {
	m := &models.QualityMetrics{
		DataCompleteness:         dataCompleteness(form),
		RegulatoryCompliance:     regulatoryCompliance(form, items, results),
		ProfessionalPresentation: professionalPresentation(form),
	}
	weighted := completenessWeight*m.DataCompleteness +
		complianceWeight*m.RegulatoryCompliance +
		presentationWeight*m.ProfessionalPresentation
	m.OverallScore = float64(utils.RoundScore(weighted))
	return m
}

// dataCompleteness is the filled fraction of the eight core form fields.
func dataCompleteness(form *models.ReportForm) float64 {
	fields := []string{
		form.ClientName,
		form.InstallationAddress,
		form.InspectionDate,
		form.InspectorName,
		form.InspectorQualifications,
		form.EarthingArrangement,
		form.OverallAssessment,
		form.SupplyVoltageValue(),
	}
	filled := 0
	for _, f := range fields {
		if models.HasField(f) {
			filled++
		}
	}
	return utils.Percent(filled, len(fields))
}

// regulatoryCompliance starts at 100 and deducts for recording gaps.
// It only decreases, so no ceiling is needed; floored at 0.
func regulatoryCompliance(form *models.ReportForm, items []models.InspectionItem, results []models.TestResult) float64 {
	score := 100.0
	if len(items) < minScheduleItems {
		score -= 30
	}
	if len(results) == 0 {
		score -= 20
	}
	if !models.HasField(form.InspectorQualifications) {
		score -= 15
	}
	if !models.HasField(form.NextInspectionDate) {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// professionalPresentation starts at a 60 baseline and adds for branding
// elements, capped at 100.
func professionalPresentation(form *models.ReportForm) float64 {
	score := 60.0
	if models.HasField(form.Signature) {
		score += 15
	}
	if models.HasField(form.CompanyLogo) {
		score += 10
	}
	if models.HasField(form.CompanyName) {
		score += 10
	}
	if models.HasField(form.CertificateReference) {
		score += 10
	}
	// The certificate reference is counted a second time here. This matches
	// the published scoring behaviour; changing it would shift scores for
	// existing certificates, so it stays until product signs off a fix.
	if models.HasField(form.CertificateReference) {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	return score
}
