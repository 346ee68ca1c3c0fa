package validation

import (
	"fmt"
	"strings"

	"github.com/voltcraft/certify/internal/models"
)

// Quality labels by overall-score band.
const (
	labelExcellent  = "Excellent"
	labelGood       = "Good"
	labelAcceptable = "Acceptable"
	labelPoor       = "Needs Improvement"
)

// QualityLabel returns the qualitative band for an overall score.
func QualityLabel(score float64) string {
	switch {
	case score >= 90:
		return labelExcellent
	case score >= 80:
		return labelGood
	case score >= 70:
		return labelAcceptable
	default:
		return labelPoor
	}
}

// CompletionReport renders a plain-text summary of a validation run.
// Finding sections are omitted entirely when empty; entries are numbered
// from 1.
func CompletionReport(v *models.ValidationResult, m *models.QualityMetrics) string {
	var b strings.Builder
	b.WriteString("=== EICR Completion Report ===\n\n")
	fmt.Fprintf(&b, "Overall Quality: %s (%.0f%%)\n\n", QualityLabel(m.OverallScore), m.OverallScore)
	fmt.Fprintf(&b, "Data Completeness:          %.0f%%\n", m.DataCompleteness)
	fmt.Fprintf(&b, "Regulatory Compliance:      %.0f%%\n", m.RegulatoryCompliance)
	fmt.Fprintf(&b, "Professional Presentation:  %.0f%%\n", m.ProfessionalPresentation)
	fmt.Fprintf(&b, "Completion Score:           %d%%\n", v.CompletionScore)

	writeSection(&b, "Critical Issues", v.CriticalIssues)
	writeSection(&b, "Warnings", v.Warnings)
	writeSection(&b, "Recommendations", v.Recommendations)
	return b.String()
}

func writeSection(b *strings.Builder, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, e := range entries {
		fmt.Fprintf(b, "  %d. %s\n", i+1, e)
	}
}
