package validation

import (
	"math"
	"testing"

	"github.com/voltcraft/certify/internal/models"
)

func TestQualityMetrics_CompleteForm(t *testing.T) {
	results := []models.TestResult{{Zs: "0.3", R1R2: "0.1"}}
	m := QualityMetrics(completeForm(), fullSchedule(60), results)

	if m.DataCompleteness != 100 {
		t.Errorf("DataCompleteness = %v, want 100", m.DataCompleteness)
	}
	if m.RegulatoryCompliance != 100 {
		t.Errorf("RegulatoryCompliance = %v, want 100", m.RegulatoryCompliance)
	}
	// 60 + 15 signature + 10 company name + 10 cert ref + 5 cert ref = 100.
	if m.ProfessionalPresentation != 100 {
		t.Errorf("ProfessionalPresentation = %v, want 100", m.ProfessionalPresentation)
	}
	if m.OverallScore != 100 {
		t.Errorf("OverallScore = %v, want 100", m.OverallScore)
	}
}

func TestQualityMetrics_EmptyForm(t *testing.T) {
	m := QualityMetrics(&models.ReportForm{}, nil, nil)

	if m.DataCompleteness != 0 {
		t.Errorf("DataCompleteness = %v, want 0", m.DataCompleteness)
	}
	// 100 - 30 (short schedule) - 20 (no tests) - 15 (no quals) - 10 (no next date) = 25.
	if m.RegulatoryCompliance != 25 {
		t.Errorf("RegulatoryCompliance = %v, want 25", m.RegulatoryCompliance)
	}
	if m.ProfessionalPresentation != 60 {
		t.Errorf("ProfessionalPresentation = %v, want 60", m.ProfessionalPresentation)
	}
	// 0.4*0 + 0.35*25 + 0.25*60 = 23.75 -> 24.
	if m.OverallScore != 24 {
		t.Errorf("OverallScore = %v, want 24", m.OverallScore)
	}
}

func TestQualityMetrics_ComplianceFloor(t *testing.T) {
	m := QualityMetrics(&models.ReportForm{}, nil, nil)
	if m.RegulatoryCompliance < 0 {
		t.Errorf("RegulatoryCompliance below floor: %v", m.RegulatoryCompliance)
	}
}

func TestQualityMetrics_CertificateReferenceDoubleCount(t *testing.T) {
	withRef := QualityMetrics(&models.ReportForm{CertificateReference: "EICR-1"}, nil, nil)
	without := QualityMetrics(&models.ReportForm{}, nil, nil)
	// The reference adds 10 and then 5 more.
	if diff := withRef.ProfessionalPresentation - without.ProfessionalPresentation; diff != 15 {
		t.Errorf("Certificate reference added %v, want 15", diff)
	}
}

// The overall score must always be the rounded weighted sum of the three
// components returned alongside it.
func TestQualityMetrics_OverallRoundTrip(t *testing.T) {
	forms := []*models.ReportForm{
		{},
		completeForm(),
		{Signature: "x", CompanyLogo: "logo.png"},
		{ClientName: "a", InspectorQualifications: "b", NextInspectionDate: "2029-01-01"},
	}
	schedules := [][]models.InspectionItem{nil, fullSchedule(49), fullSchedule(50)}
	results := [][]models.TestResult{nil, {{Zs: "0.3", R1R2: "0.1"}}}
	for _, f := range forms {
		for _, s := range schedules {
			for _, r := range results {
				m := QualityMetrics(f, s, r)
				want := math.Round(0.40*m.DataCompleteness + 0.35*m.RegulatoryCompliance + 0.25*m.ProfessionalPresentation)
				if m.OverallScore != want {
					t.Errorf("OverallScore = %v, want %v (dc=%v rc=%v pp=%v)",
						m.OverallScore, want, m.DataCompleteness, m.RegulatoryCompliance, m.ProfessionalPresentation)
				}
			}
		}
	}
}

func TestQualityMetrics_ScheduleLengthThreshold(t *testing.T) {
	short := QualityMetrics(completeForm(), fullSchedule(49), []models.TestResult{{Zs: "0.3", R1R2: "0.1"}})
	full := QualityMetrics(completeForm(), fullSchedule(50), []models.TestResult{{Zs: "0.3", R1R2: "0.1"}})
	if full.RegulatoryCompliance-short.RegulatoryCompliance != 30 {
		t.Errorf("Expected 30-point schedule penalty, got %v vs %v",
			short.RegulatoryCompliance, full.RegulatoryCompliance)
	}
}
