// Package export writes GDW results to the file formats used downstream:
// prober mask files, spreadsheets, CAD drawings and PDF reports.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/gdw/internal/engine"
	"github.com/piwi3910/gdw/internal/model"
)

// Mask file static values.
const (
	maskFlat    = 0
	maskDevices = `PCM = "0.2,0,0,,T"`
)

var (
	// ErrNoEdgeDie is returned when the origin must be derived from the
	// edge-exclusion die but the list contains none.
	ErrNoEdgeDie = errors.New("no edge exclusion die to derive the grid origin from")

	// ErrNoProbeDie is returned when there is no probe die to land on.
	ErrNoProbeDie = errors.New("no probe die in die list")
)

// RowCol is a prober grid position. Mask files are row-major, so rows come
// first, the reverse of the (column, row) order used by the engine.
type RowCol struct {
	Row int
	Col int
}

func (rc RowCol) String() string {
	return fmt.Sprintf("%d,%d", rc.Row, rc.Col)
}

// MaskOptions controls mask file generation.
type MaskOptions struct {
	Name string
	// FixedStartCoord keeps the engine grid coordinates as-is instead of
	// moving the origin to two steps before the first edge-exclusion die.
	FixedStartCoord bool
}

// MaskLayout is the prober view of a die list.
type MaskLayout struct {
	EdgeRow    int // Rows subtracted from the engine grid (0 with fixed start)
	EdgeCol    int // Columns subtracted from the engine grid (0 with fixed start)
	Rows       int
	Cols       int
	Home       RowCol
	Start      RowCol
	Every      []RowCol // Positions that are neither probed nor in an exclusion zone
	TestAll    []RowCol // Positions that are not probed
	EdgeInking []RowCol // Positions outside the exclusion zones
}

// BuildMaskLayout converts a classified die list into prober coordinates.
// Only probe, edge-exclusion and flat-exclusion die affect the position
// lists; every die counts toward the row and column extents.
func BuildMaskLayout(dies []model.Die, fixedStart bool) (MaskLayout, error) {
	if len(dies) == 0 {
		return MaskLayout{}, fmt.Errorf("no dies to export")
	}

	layout := MaskLayout{Home: RowCol{Row: 1, Col: 1}}

	if !fixedStart {
		minRow, minCol := 0, 0
		found := false
		for _, d := range dies {
			if d.State != model.DieStateExclusion {
				continue
			}
			if !found || d.YGrid < minRow {
				minRow = d.YGrid
			}
			if !found || d.XGrid < minCol {
				minCol = d.XGrid
			}
			found = true
		}
		if !found {
			return MaskLayout{}, ErrNoEdgeDie
		}
		layout.EdgeRow = minRow - 2
		layout.EdgeCol = minCol - 2
	}

	probe := make(map[RowCol]bool)
	edge := make(map[RowCol]bool)
	for _, d := range dies {
		rc := RowCol{Row: d.YGrid - layout.EdgeRow, Col: d.XGrid - layout.EdgeCol}
		if rc.Row+1 > layout.Rows {
			layout.Rows = rc.Row + 1
		}
		if rc.Col+1 > layout.Cols {
			layout.Cols = rc.Col + 1
		}
		switch d.State {
		case model.DieStateProbe:
			probe[rc] = true
		case model.DieStateExclusion, model.DieStateFlatExclusion:
			edge[rc] = true
		}
	}

	if len(probe) == 0 {
		return MaskLayout{}, ErrNoProbeDie
	}

	for row := 1; row <= layout.Rows; row++ {
		for col := 1; col <= layout.Cols; col++ {
			rc := RowCol{Row: row, Col: col}
			if !probe[rc] {
				layout.TestAll = append(layout.TestAll, rc)
			}
			if !probe[rc] && !edge[rc] {
				layout.Every = append(layout.Every, rc)
			}
			if !edge[rc] {
				layout.EdgeInking = append(layout.EdgeInking, rc)
			}
		}
	}

	// Landing die: lowest row holding a probe die, then lowest column in it.
	first := true
	for rc := range probe {
		if first || rc.Row < layout.Start.Row || (rc.Row == layout.Start.Row && rc.Col < layout.Start.Col) {
			layout.Start = rc
			first = false
		}
	}

	return layout, nil
}

// WriteMaskFile writes the prober mask definition for the die list.
func WriteMaskFile(w io.Writer, dies []model.Die, params model.WaferParams, opts MaskOptions) (MaskLayout, error) {
	layout, err := BuildMaskLayout(dies, opts.FixedStartCoord)
	if err != nil {
		return MaskLayout{}, err
	}

	var b strings.Builder
	b.WriteString("[Mask]\n")
	fmt.Fprintf(&b, "Mask = \"%s\"\n", opts.Name)
	fmt.Fprintf(&b, "Die X = %f\n", params.DieX)
	fmt.Fprintf(&b, "Die Y = %f\n", params.DieY)
	fmt.Fprintf(&b, "Flat = %d\n", maskFlat)
	b.WriteString("\n")
	fmt.Fprintf(&b, "[%dmm]\n", int(params.Diameter))
	fmt.Fprintf(&b, "Rows = %d\n", layout.Rows)
	fmt.Fprintf(&b, "Cols = %d\n", layout.Cols)
	fmt.Fprintf(&b, "Home Row = %d\n", layout.Home.Row)
	fmt.Fprintf(&b, "Home Col = %d\n", layout.Home.Col)
	fmt.Fprintf(&b, "Start Row = %d\n", layout.Start.Row)
	fmt.Fprintf(&b, "Start Col = %d\n", layout.Start.Col)
	fmt.Fprintf(&b, "Every = \"%s\"\n", joinRowCols(layout.Every))
	fmt.Fprintf(&b, "TestAll = \"%s\"\n", joinRowCols(layout.TestAll))
	fmt.Fprintf(&b, "Edge Inking = \"%s\"\n", joinRowCols(layout.EdgeInking))
	b.WriteString("\n[Devices]\n")
	b.WriteString(maskDevices + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return MaskLayout{}, fmt.Errorf("failed to write mask file: %w", err)
	}
	return layout, nil
}

// ExportMaskFile writes the mask file for a search result to path.
func ExportMaskFile(path string, result engine.SearchResult, opts MaskOptions) (MaskLayout, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return MaskLayout{}, fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return MaskLayout{}, fmt.Errorf("failed to create mask file: %w", err)
	}

	layout, err := WriteMaskFile(f, result.Dies, result.Params, opts)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close mask file: %w", cerr)
	}
	if err != nil {
		return MaskLayout{}, err
	}
	return layout, nil
}

func joinRowCols(rcs []RowCol) string {
	parts := make([]string, len(rcs))
	for i, rc := range rcs {
		parts[i] = rc.String()
	}
	return strings.Join(parts, "; ")
}
