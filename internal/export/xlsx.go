package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"signquote/internal/domain"
	"signquote/internal/validator"
)

const (
	sheetEstimate = "Estimate"
	sheetIssues   = "Issues"
)

// issueColumns defines the header row of the Issues sheet.
var issueColumns = []string{"Row ID", "Field", "Rule", "Message", "Expected Format", "Value"}

// WriteXLSX renders the grid and its validation results as a two-sheet
// workbook: the Estimate sheet mirrors the CSV layout, the Issues sheet lists
// one validation entry per row.
func WriteXLSX(w io.Writer, rows []domain.Row, rs *validator.ResultSet) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetEstimate)
	if err := writeSheetRow(f, sheetEstimate, 1, columns); err != nil {
		return err
	}
	for i := range rows {
		record := rowToRecord(&rows[i], rs)
		if err := writeSheetRow(f, sheetEstimate, i+2, record); err != nil {
			return err
		}
	}

	if rs != nil && len(rs.Entries) > 0 {
		if _, err := f.NewSheet(sheetIssues); err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
		if err := writeSheetRow(f, sheetIssues, 1, issueColumns); err != nil {
			return err
		}
		for i, e := range rs.Entries {
			record := []string{e.RowID, e.Key, e.Rule, e.Message, e.ExpectedFormat, e.Value}
			if err := writeSheetRow(f, sheetIssues, i+2, record); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}

func writeSheetRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("export.writeSheetRow: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("export.writeSheetRow: %w", err)
	}
	return nil
}
