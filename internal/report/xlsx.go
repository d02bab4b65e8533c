package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"supplytrack/internal/models"
	"supplytrack/internal/store"
)

var xlsxHeaders = []string{
	"ID", "Name", "Quantity", "Unit", "Min Threshold", "Location",
	"Status", "Classification", "Last Updated", "Checksum",
}

const xlsxSheet = "Inventory"

func xlsxRow(item *models.Equipment) []any {
	return []any{
		item.ID, item.Name, item.Quantity, item.Unit, item.MinThreshold, item.Location,
		store.StatusOf(item).String(), item.Classification.String(),
		item.LastUpdated.Format("2006-01-02 15:04"), item.Checksum,
	}
}

// ExportXLSX writes the inventory rows as a spreadsheet with a bold header
// row, one row per item.
func ExportXLSX(path string, items []*models.Equipment) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", xlsxSheet)
	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(xlsxSheet, "A1", "J1", style)
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		row := xlsxRow(item)
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	_ = f.SetColWidth(xlsxSheet, "B", "B", 30)
	_ = f.SetColWidth(xlsxSheet, "F", "H", 18)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}
