package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/seating-chart/internal/importer"
	"github.com/iliyamo/seating-chart/internal/model"
)

const guestSheet = "Guest List"

// WriteXLSX writes the guest list as a workbook with a single sheet.  The
// columns match WriteCSV so the file can be imported again.
func WriteXLSX(w io.Writer, c *model.SeatingChart) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(guestSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EDE9FE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	header := make([]any, len(importer.Header))
	for i, h := range importer.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(guestSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(guestSheet, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range guestRows(c) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := make([]any, len(row))
		for j, v := range row {
			vals[j] = v
		}
		if err := f.SetSheetRow(guestSheet, cell, &vals); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(guestSheet, "A", "D", 24); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}
