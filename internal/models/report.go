// Package models defines core data structures for report forms, validation
// results, and orchestrator requests and responses.
package models

import "strings"

// Outcome is an EICR inspection-item classification code.
type Outcome string

const (
	// OutcomeC1 indicates danger present, risk of injury.
	OutcomeC1 Outcome = "C1"
	// OutcomeC2 indicates potentially dangerous.
	OutcomeC2 Outcome = "C2"
	// OutcomeC3 indicates improvement recommended.
	OutcomeC3 Outcome = "C3"
	// OutcomeFI indicates further investigation required.
	OutcomeFI Outcome = "FI"
	// OutcomeNA indicates the item was not applicable.
	OutcomeNA Outcome = "N/A"
)

// OverallResultUnsatisfactory is the literal result string produced by the
// test-schedule form for a failed circuit test.
const OverallResultUnsatisfactory = "unsatisfactory"

// ReportForm is the certificate form data. Every field is optional; an empty
// or whitespace-only string is treated the same as an absent field.
type ReportForm struct {
	ClientName              string `json:"clientName,omitempty"`
	InstallationAddress     string `json:"installationAddress,omitempty"`
	InspectionDate          string `json:"inspectionDate,omitempty"`
	InspectorName           string `json:"inspectorName,omitempty"`
	InspectorQualifications string `json:"inspectorQualifications,omitempty"`
	EarthingArrangement     string `json:"earthingArrangement,omitempty"`
	OverallAssessment       string `json:"overallAssessment,omitempty"`
	PropertyDescription     string `json:"propertyDescription,omitempty"`
	EstimatedAge            string `json:"estimatedAge,omitempty"`
	// SupplyVoltage is the current field name; Voltage is the older form
	// field still produced by some callers. Either satisfies the check.
	SupplyVoltage        string `json:"supplyVoltage,omitempty"`
	Voltage              string `json:"voltage,omitempty"`
	NextInspectionDate   string `json:"nextInspectionDate,omitempty"`
	Signature            string `json:"signature,omitempty"`
	CompanyLogo          string `json:"companyLogo,omitempty"`
	CompanyName          string `json:"companyName,omitempty"`
	CertificateReference string `json:"certificateReference,omitempty"`
}

// HasField reports whether a form value is present (non-empty after trimming).
func HasField(v string) bool {
	return strings.TrimSpace(v) != ""
}

// SupplyVoltageValue returns the supply voltage from whichever field carries it.
func (f *ReportForm) SupplyVoltageValue() string {
	if HasField(f.SupplyVoltage) {
		return f.SupplyVoltage
	}
	return f.Voltage
}

// InspectionItem is one row of the schedule of inspections.
type InspectionItem struct {
	ItemNumber  string  `json:"itemNumber,omitempty"`
	Description string  `json:"description,omitempty"`
	Outcome     Outcome `json:"outcome,omitempty"`
	Inspected   bool    `json:"inspected"`
}

// Completed reports whether the item counts toward the completion rate:
// an outcome was recorded and the item was marked inspected.
func (i *InspectionItem) Completed() bool {
	return HasField(string(i.Outcome)) && i.Inspected
}

// TestResult is one row of the schedule of test results.
// Satisfactory is a pointer so that "not set" is distinct from false.
type TestResult struct {
	Circuit       string `json:"circuit,omitempty"`
	Zs            string `json:"zs,omitempty"`
	R1R2          string `json:"r1r2,omitempty"`
	OverallResult string `json:"overallResult,omitempty"`
	Satisfactory  *bool  `json:"satisfactory,omitempty"`
}

// MissingMeasurements reports whether the Zs or R1+R2 reading is absent or
// recorded as the literal "N/A".
func (t *TestResult) MissingMeasurements() bool {
	return !HasField(t.Zs) || t.Zs == "N/A" || !HasField(t.R1R2) || t.R1R2 == "N/A"
}

// Unsatisfactory reports whether the test failed.
func (t *TestResult) Unsatisfactory() bool {
	if t.OverallResult == OverallResultUnsatisfactory {
		return true
	}
	return t.Satisfactory != nil && !*t.Satisfactory
}
