package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lumenforge/bic-simulator/core"
	"github.com/lumenforge/bic-simulator/model"
)

// WriteWorkbook saves the scan outcome as an XLSX workbook with a Summary
// sheet and a Resonances sheet listing every accepted record. When the scan
// found nothing the summary carries the theoretical reference instead and
// the Resonances sheet holds only its header row.
func WriteWorkbook(path string, p model.ParameterSet, records []model.ResonanceRecord, ref model.ReferenceSolution) error {
	f := excelize.NewFile()

	summary := "Summary"
	f.SetSheetName("Sheet1", summary)

	f.SetCellValue(summary, "A1", "Field")
	f.SetCellValue(summary, "B1", "Value")
	f.SetCellValue(summary, "A2", "Unit cells")
	f.SetCellValue(summary, "B2", p.Cells)
	f.SetCellValue(summary, "A3", "Accepted resonances")
	f.SetCellValue(summary, "B3", len(records))

	best, ok := core.BestRecord(records)
	if ok {
		f.SetCellValue(summary, "A4", "Result source")
		f.SetCellValue(summary, "B4", "numerical")
		f.SetCellValue(summary, "A5", "Best frequency (THz)")
		f.SetCellValue(summary, "B5", best.FrequencyTHz)
		f.SetCellValue(summary, "A6", "Best Q")
		f.SetCellValue(summary, "B6", best.Q)
		f.SetCellValue(summary, "A7", "Linewidth (MHz)")
		f.SetCellValue(summary, "B7", best.LinewidthMHz())
	} else {
		f.SetCellValue(summary, "A4", "Result source")
		f.SetCellValue(summary, "B4", "reference")
		f.SetCellValue(summary, "A5", "Reference frequency (THz)")
		f.SetCellValue(summary, "B5", ref.FrequencyTHz)
		f.SetCellValue(summary, "A6", "Reference Q")
		f.SetCellValue(summary, "B6", ref.Q)
		f.SetCellValue(summary, "A7", "Linewidth (MHz)")
		f.SetCellValue(summary, "B7", ref.LinewidthMHz)
	}

	sheet := "Resonances"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	headers := []string{"No", "Frequency (THz)", "Q", "Linewidth (MHz)"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
	}
	for i, r := range records {
		row := i + 2
		values := []any{i + 1, r.FrequencyTHz, r.Q, r.LinewidthMHz()}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
