package models

// ValidationResult is the structured outcome of validating a report form.
// Valid holds iff CriticalIssues is empty and CompletionScore >= 70.
type ValidationResult struct {
	Valid           bool     `json:"isValid"`
	CompletionScore int      `json:"completionScore"`
	MissingFields   []string `json:"missingFields"`
	Warnings        []string `json:"warnings"`
	CriticalIssues  []string `json:"criticalIssues"`
	Recommendations []string `json:"recommendations"`
}

// QualityMetrics breaks down certificate quality into three weighted
// components, each on a 0-100 scale.
type QualityMetrics struct {
	DataCompleteness         float64 `json:"dataCompleteness"`
	RegulatoryCompliance     float64 `json:"regulatoryCompliance"`
	ProfessionalPresentation float64 `json:"professionalPresentation"`
	OverallScore             float64 `json:"overallScore"`
}

// StoredReport is a persisted validation run.
type StoredReport struct {
	ID         string            `json:"id"`
	Form       *ReportForm       `json:"form"`
	Items      []InspectionItem  `json:"items,omitempty"`
	Results    []TestResult      `json:"results,omitempty"`
	Validation *ValidationResult `json:"validation"`
	Metrics    *QualityMetrics   `json:"metrics"`
	CreatedAt  string            `json:"created_at"`
}
