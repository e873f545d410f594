package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/gdw/internal/engine"
	"github.com/piwi3910/gdw/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	qrSize       = 40.0
	rowHeight    = 6.0
)

// ReportOptions controls the PDF run report.
type ReportOptions struct {
	RunID string
	Title string // Defaults to "Gross Die per Wafer Report"
}

// Traveler is the payload encoded in the report's QR code so a lot
// traveler can be matched back to the run that produced it.
type Traveler struct {
	RunID      string  `json:"run_id"`
	DieX       float64 `json:"die_x"`
	DieY       float64 `json:"die_y"`
	Diameter   float64 `json:"diameter"`
	Offset     string  `json:"offset"`
	ProbeCount int     `json:"gdw"`
}

// NewTraveler extracts the traveler payload from a search result.
func NewTraveler(runID string, result engine.SearchResult) Traveler {
	return Traveler{
		RunID:      runID,
		DieX:       result.Params.DieX,
		DieY:       result.Params.DieY,
		Diameter:   result.Params.Diameter,
		Offset:     result.Params.Offset.String(),
		ProbeCount: result.ProbeCount,
	}
}

// ExportPDF generates a single-page PDF report of a search result: the wafer
// parameters, the probe count of every alignment, the per-state breakdown of
// the winning alignment and a QR traveler code.
func ExportPDF(path string, result engine.SearchResult, opts ReportOptions) error {
	if len(result.Variants) == 0 {
		return fmt.Errorf("no search result to export")
	}
	if opts.Title == "" {
		opts.Title = "Gross Die per Wafer Report"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	if err := renderReport(pdf, result, opts); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	return pdf.OutputFileAndClose(path)
}

func renderReport(pdf *fpdf.Fpdf, result engine.SearchResult, opts ReportOptions) error {
	contentW := pageWidth - marginLeft - marginRight

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(contentW-qrSize, 10, opts.Title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+10)
	pdf.CellFormat(contentW-qrSize, 5, "Run "+opts.RunID, "", 0, "L", false, 0, "")

	if err := drawTraveler(pdf, NewTraveler(opts.RunID, result), pageWidth-marginRight-qrSize, marginTop); err != nil {
		return err
	}

	// Separator line
	y := marginTop + qrSize + 4
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y, pageWidth-marginRight, y)
	y += 6

	p := result.Params
	y = renderItems(pdf, y, "Wafer Parameters", []reportItem{
		{"Die size", fmt.Sprintf("%g x %g mm", p.DieX, p.DieY)},
		{"Wafer diameter", fmt.Sprintf("%g mm", p.Diameter)},
		{"Edge exclusion", fmt.Sprintf("%g mm", p.EdgeExclusion)},
		{"Flat exclusion", fmt.Sprintf("%g mm", p.FlatExclusion)},
		{"North limit", northLimitText(p.NorthLimit)},
	})

	y = renderItems(pdf, y+4, "Result", []reportItem{
		{"Maximum GDW", fmt.Sprintf("%d", result.ProbeCount)},
		{"Best alignment", p.Offset.String()},
		{"Grid center", result.GridCenter.String()},
		{"Die lost to edge exclusion", fmt.Sprintf("%d", result.LostEdge)},
		{"Die lost to wafer flat", fmt.Sprintf("%d", result.LostFlat)},
		{"Die lost to flat exclusion", fmt.Sprintf("%d", result.LostFlatExclusion)},
	})

	// Alignment table
	rows := make([][]string, 0, len(result.Variants))
	for _, v := range result.Variants {
		rows = append(rows, []string{v.Offset.X.String(), v.Offset.Y.String(), v.GridCenter.String(), fmt.Sprintf("%d", v.ProbeCount)})
	}
	y = renderTable(pdf, y+4, "Alignments",
		[]string{"X", "Y", "Grid center", "Probe die"}, []float64{30, 30, 50, 40}, rows)

	// State breakdown of the winning alignment
	counts := model.StateCounts(result.Dies)
	rows = rows[:0]
	for _, s := range model.DieStates {
		if s == model.DieStateWafer {
			continue
		}
		rows = append(rows, []string{s.Description(), string(s), fmt.Sprintf("%d", counts[s])})
	}
	renderTable(pdf, y+4, "Die States",
		[]string{"State", "Key", "Count"}, []float64{60, 40, 40}, rows)

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(contentW, 4, "Generated by gdw - Gross Die per Wafer calculator", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return nil
}

type reportItem struct {
	label string
	value string
}

// renderItems draws a heading followed by label/value pairs and returns the next y.
func renderItems(pdf *fpdf.Fpdf, y float64, heading string, items []reportItem) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, heading, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, rowHeight, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, rowHeight, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += rowHeight + 1
	}
	return y
}

// renderTable draws a bordered table with a shaded header and alternating
// row backgrounds, returning the next y.
func renderTable(pdf *fpdf.Fpdf, y float64, heading string, headers []string, colWidths []float64, rows [][]string) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, heading, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += rowHeight

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}
	return y
}

// drawTraveler places the QR traveler code with its run ID caption.
func drawTraveler(pdf *fpdf.Fpdf, t Traveler, x, y float64) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to marshal traveler: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	name := "traveler_" + t.RunID
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

func northLimitText(limit *float64) string {
	if limit == nil {
		return "none"
	}
	return fmt.Sprintf("%g mm", *limit)
}
