/*
report.go - Excel export of one shift's production board

PURPOSE:
  Renders the board as an .xlsx workbook for the daily production review:
  one row per hour slot with targets, actuals, deviations, and the cause
  breakdown, followed by the correction audit log.

LAYOUT:
  Sheet "Production":
    Row 1:  Header (frozen)
    Row 2+: One row per hour, overtime hours last
  Sheet "Adjustments":
    Row 1:  Header
    Row 2+: One row per audit-log record

SEE ALSO:
  - handlers.go: Route registration and shared helpers
*/
package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/linetrack/production-board/board"
)

var boardHeaders = []string{
	"Hour", "Head count", "Additional HC", "Programmed stop", "Available min",
	"Work order", "Part number", "Hourly target", "Production", "Delta",
	"Downtime min", "Causes", "Overtime",
}

var adjustmentHeaders = []string{
	"Applied at", "Factor type", "Description", "Percentage", "Scope", "Hour", "Applied by",
}

// DownloadReport streams the shift board as an Excel workbook.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	date, shift, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	state, err := h.loadShiftState(r, key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load board", err)
		return
	}
	l := h.ledgerFor(shift, state.entries)

	buf, err := buildWorkbook(l, state.adjustments)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	filename := fmt.Sprintf("board-%s-%s.xlsx", date, shift.ID)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(buf)
}

func buildWorkbook(l *board.Ledger, adjustments []board.TargetAdjustment) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Production"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	for i, name := range boardHeaders {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(boardHeaders), 1), headerStyle)

	for rowIdx := range l.Entries {
		e := &l.Entries[rowIdx]
		row := rowIdx + 2

		f.SetCellValue(sheet, cellName(1, row), e.Hour)
		setOptionalInt(f, sheet, cellName(2, row), e.RealHeadCount)
		setOptionalInt(f, sheet, cellName(3, row), e.AdditionalHC)
		if e.ProgrammedStop != board.NoStop {
			f.SetCellValue(sheet, cellName(4, row), e.ProgrammedStop)
		}
		f.SetCellValue(sheet, cellName(5, row), e.AvailableTime)
		f.SetCellValue(sheet, cellName(6, row), e.WorkOrder)
		f.SetCellValue(sheet, cellName(7, row), e.PartNumber)
		f.SetCellValue(sheet, cellName(8, row), e.HourlyTarget)
		setOptionalInt(f, sheet, cellName(9, row), e.DailyProduction)
		setOptionalInt(f, sheet, cellName(10, row), e.Delta)
		f.SetCellValue(sheet, cellName(11, row), e.Downtime)
		f.SetCellValue(sheet, cellName(12, row), causeSummary(e.Causes))
		if e.IsOvertime {
			f.SetCellValue(sheet, cellName(13, row), "yes")
		}
	}

	f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(sheet, "A", "A", 26)
	f.SetColWidth(sheet, "B", "K", 14)
	f.SetColWidth(sheet, "L", "L", 50)

	if err := writeAdjustmentSheet(f, headerStyle, adjustments); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeAdjustmentSheet(f *excelize.File, headerStyle int, adjustments []board.TargetAdjustment) error {
	sheet := "Adjustments"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	for i, name := range adjustmentHeaders {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(adjustmentHeaders), 1), headerStyle)

	for rowIdx, adj := range adjustments {
		row := rowIdx + 2
		f.SetCellValue(sheet, cellName(1, row), adj.AppliedAt.Format(time.RFC3339))
		f.SetCellValue(sheet, cellName(2, row), adj.FactorType)
		f.SetCellValue(sheet, cellName(3, row), adj.Description)
		f.SetCellValue(sheet, cellName(4, row), adj.Percentage.String()+"%")
		f.SetCellValue(sheet, cellName(5, row), string(adj.Scope))
		f.SetCellValue(sheet, cellName(6, row), adj.Hour)
		f.SetCellValue(sheet, cellName(7, row), adj.AppliedBy)
	}

	f.SetColWidth(sheet, "A", "G", 22)
	return nil
}

func causeSummary(causes []board.CauseEntry) string {
	if len(causes) == 0 {
		return ""
	}
	parts := make([]string, len(causes))
	for i, c := range causes {
		units := 0
		if c.Units != nil {
			units = *c.Units
		}
		label := c.GeneralCause
		if c.SpecificCause != "" {
			label += " (" + c.SpecificCause + ")"
		}
		parts[i] = fmt.Sprintf("%s / %s: %d", c.TypeCause, label, units)
	}
	return strings.Join(parts, "; ")
}

func setOptionalInt(f *excelize.File, sheet, cell string, v *int) {
	if v != nil {
		f.SetCellValue(sheet, cell, *v)
	}
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
