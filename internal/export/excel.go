// Package export writes report data to spreadsheet files for office use.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/voltcraft/certify/internal/models"
)

const sheetName = "Test Results"

// TestSchedule writes the schedule of test results to an xlsx file at path.
// The header row carries the installation identity so the sheet stands on
// its own when printed.
func TestSchedule(path string, form *models.ReportForm, results []models.TestResult) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("remove default sheet: %w", err)
	}

	rows := [][]any{
		{"Installation", form.InstallationAddress},
		{"Client", form.ClientName},
		{"Certificate", form.CertificateReference},
		{},
		{"Circuit", "R1+R2 (ohms)", "Zs (ohms)", "Result"},
	}
	for _, r := range results {
		result := r.OverallResult
		if result == "" && r.Satisfactory != nil {
			if *r.Satisfactory {
				result = "satisfactory"
			} else {
				result = models.OverallResultUnsatisfactory
			}
		}
		rows = append(rows, []any{r.Circuit, r.R1R2, r.Zs, result})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
