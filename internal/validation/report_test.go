package validation

import (
	"strings"
	"testing"

	"github.com/voltcraft/certify/internal/models"
)

func TestQualityLabel(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "Excellent"},
		{90, "Excellent"},
		{89, "Good"},
		{80, "Good"},
		{79, "Acceptable"},
		{70, "Acceptable"},
		{69, "Needs Improvement"},
		{0, "Needs Improvement"},
	}
	for _, tt := range tests {
		if got := QualityLabel(tt.score); got != tt.want {
			t.Errorf("QualityLabel(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestCompletionReport_OmitsEmptySections(t *testing.T) {
	v := &models.ValidationResult{CompletionScore: 100}
	m := &models.QualityMetrics{DataCompleteness: 100, RegulatoryCompliance: 100, ProfessionalPresentation: 100, OverallScore: 100}
	report := CompletionReport(v, m)

	for _, header := range []string{"Critical Issues:", "Warnings:", "Recommendations:"} {
		if strings.Contains(report, header) {
			t.Errorf("Expected %q to be omitted, report:\n%s", header, report)
		}
	}
	if !strings.Contains(report, "Overall Quality: Excellent (100%)") {
		t.Errorf("Missing quality line, report:\n%s", report)
	}
}

func TestCompletionReport_NumbersEntries(t *testing.T) {
	v := &models.ValidationResult{
		CompletionScore: 38,
		CriticalIssues:  []string{"Client name is required", "No inspection items recorded"},
		Warnings:        []string{"No test results recorded"},
		Recommendations: []string{"Add inspector signature for completeness"},
	}
	m := &models.QualityMetrics{OverallScore: 24}
	report := CompletionReport(v, m)

	if !strings.Contains(report, "Critical Issues:\n  1. Client name is required\n  2. No inspection items recorded") {
		t.Errorf("Critical issues not numbered, report:\n%s", report)
	}
	if !strings.Contains(report, "Warnings:\n  1. No test results recorded") {
		t.Errorf("Warnings not numbered, report:\n%s", report)
	}
	if !strings.Contains(report, "Needs Improvement") {
		t.Errorf("Missing quality label, report:\n%s", report)
	}
	if got := strings.Count(report, "  1. "); got != 3 {
		t.Errorf("Expected 3 sections starting at 1, got %d", got)
	}
}
