// Package export writes stored test results to spreadsheet form for the
// admin export command.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/PandaWhoCodes/discord-personality-check/pkg/models"
)

const sheetName = "Results"

var header = []interface{}{
	"ID", "User ID", "Username", "Type", "Test", "Scores", "Completed At",
}

// Results writes an xlsx workbook with one row per result, newest first
// when the input is ordered that way.
func Results(w io.Writer, results []models.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, result := range results {
		row := []interface{}{
			result.ID,
			result.UserID,
			result.Username,
			result.TypeCode,
			string(result.TestType),
			result.Scores.String(),
			result.CompletedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
