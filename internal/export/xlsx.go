package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/gdw/internal/engine"
	"github.com/piwi3910/gdw/internal/model"
)

// Sheet names used by the spreadsheet exports.
const (
	SheetSummary  = "Summary"
	SheetVariants = "Variants"
	SheetDies     = "Dies"
	SheetBatch    = "Batch"
)

// NewRunID returns a short identifier stamped on every report of one run.
func NewRunID() string {
	return uuid.New().String()[:8]
}

// BatchEntry is one row of a batch export. Err is set when the job failed.
type BatchEntry struct {
	Name   string
	Result engine.SearchResult
	Err    error
}

// ExportXLSX writes a search result to an Excel workbook with a summary
// sheet, the per-alignment probe counts and the full die list.
func ExportXLSX(path string, result engine.SearchResult, runID string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	p := result.Params
	summary := [][]interface{}{
		{"Field", "Value"},
		{"Run ID", runID},
		{"Die X (mm)", p.DieX},
		{"Die Y (mm)", p.DieY},
		{"Wafer diameter (mm)", p.Diameter},
		{"Edge exclusion (mm)", p.EdgeExclusion},
		{"Flat exclusion (mm)", p.FlatExclusion},
		{"North limit (mm)", northLimitValue(p.NorthLimit)},
		{"Best alignment X", p.Offset.X.String()},
		{"Best alignment Y", p.Offset.Y.String()},
		{"Grid center", result.GridCenter.String()},
		{"Maximum GDW", result.ProbeCount},
		{"Die lost to edge exclusion", result.LostEdge},
		{"Die lost to wafer flat", result.LostFlat},
		{"Die lost to flat exclusion", result.LostFlatExclusion},
	}
	if err := writeRows(f, SheetSummary, summary, header); err != nil {
		return err
	}
	f.SetColWidth(SheetSummary, "A", "A", 28)
	f.SetColWidth(SheetSummary, "B", "B", 18)

	if _, err := f.NewSheet(SheetVariants); err != nil {
		return fmt.Errorf("failed to create variants sheet: %w", err)
	}
	variants := [][]interface{}{{"Alignment X", "Alignment Y", "Grid center X", "Grid center Y", "Probe die"}}
	for _, v := range result.Variants {
		variants = append(variants, []interface{}{
			v.Offset.X.String(), v.Offset.Y.String(), v.GridCenter.X, v.GridCenter.Y, v.ProbeCount,
		})
	}
	if err := writeRows(f, SheetVariants, variants, header); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetDies); err != nil {
		return fmt.Errorf("failed to create dies sheet: %w", err)
	}
	if err := writeDies(f, result.Dies, header); err != nil {
		return err
	}

	return saveWorkbook(f, path)
}

// ExportBatchXLSX writes one row per batch job.
func ExportBatchXLSX(path string, entries []BatchEntry, runID string) error {
	if len(entries) == 0 {
		return fmt.Errorf("no batch results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetBatch); err != nil {
		return fmt.Errorf("failed to create batch sheet: %w", err)
	}
	header, err := headerStyle(f)
	if err != nil {
		return err
	}

	rows := [][]interface{}{{
		"Job", "Die X (mm)", "Die Y (mm)", "Diameter (mm)", "Edge excl (mm)", "Flat excl (mm)",
		"North limit (mm)", "Alignment", "Maximum GDW", "Lost edge", "Lost flat", "Lost flat excl", "Error",
	}}
	for _, e := range entries {
		p := e.Result.Params
		if e.Err != nil {
			rows = append(rows, []interface{}{e.Name, p.DieX, p.DieY, p.Diameter, p.EdgeExclusion, p.FlatExclusion,
				northLimitValue(p.NorthLimit), "", "", "", "", "", e.Err.Error()})
			continue
		}
		rows = append(rows, []interface{}{
			e.Name, p.DieX, p.DieY, p.Diameter, p.EdgeExclusion, p.FlatExclusion,
			northLimitValue(p.NorthLimit), p.Offset.String(), e.Result.ProbeCount,
			e.Result.LostEdge, e.Result.LostFlat, e.Result.LostFlatExclusion, "",
		})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Run ID", runID})

	if err := writeRows(f, SheetBatch, rows, header); err != nil {
		return err
	}
	f.SetColWidth(SheetBatch, "A", "A", 24)

	return saveWorkbook(f, path)
}

func writeDies(f *excelize.File, dies []model.Die, header int) error {
	rows := make([][]interface{}, 0, len(dies)+1)
	rows = append(rows, []interface{}{"X Grid", "Y Grid", "X (mm)", "Y (mm)", "State"})
	for _, d := range dies {
		rows = append(rows, []interface{}{d.XGrid, d.YGrid, d.X, d.Y, string(d.State)})
	}
	return writeRows(f, SheetDies, rows, header)
}

// writeRows writes rows starting at A1 and styles the first row.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}, header int) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
			return fmt.Errorf("failed to style %s header: %w", sheet, err)
		}
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

func saveWorkbook(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func northLimitValue(limit *float64) interface{} {
	if limit == nil {
		return "none"
	}
	return *limit
}
