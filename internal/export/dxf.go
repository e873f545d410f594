package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/gdw/internal/engine"
	"github.com/piwi3910/gdw/internal/model"
)

// LayerWafer holds the wafer outline, flat, exclusion ring and scribe line.
const LayerWafer = "WAFER"

// stateColors assigns each drawn die state an ACI color. Off-wafer die are
// never drawn.
var stateColors = map[model.DieState]color.ColorNumber{
	model.DieStateProbe:         color.Green,
	model.DieStateExclusion:     color.Yellow,
	model.DieStateFlatExclusion: color.Cyan,
	model.DieStateFlat:          color.Red,
	model.DieStateScribe:        color.Magenta,
}

// DieLayer returns the DXF layer name for a die state.
func DieLayer(s model.DieState) string {
	return "DIE_" + string(s)
}

// ExportDXF writes the die placement of a search result as a DXF drawing in
// mm with the wafer center at the origin. Each die state gets its own layer.
func ExportDXF(path string, result engine.SearchResult) error {
	if len(result.Dies) == 0 {
		return fmt.Errorf("no dies to export")
	}

	d := dxf.NewDrawing()
	if err := drawWafer(d, result.Params); err != nil {
		return err
	}

	for _, state := range model.DieStates {
		cl, ok := stateColors[state]
		if !ok {
			continue
		}
		if _, err := d.AddLayer(DieLayer(state), cl, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %s: %w", DieLayer(state), err)
		}
		for _, die := range result.Dies {
			if die.State != state {
				continue
			}
			if err := drawRect(d, die.X, die.Y, result.Params.DieX, result.Params.DieY); err != nil {
				return fmt.Errorf("failed to draw die %d,%d: %w", die.XGrid, die.YGrid, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

func drawWafer(d *drawing.Drawing, p model.WaferParams) error {
	if _, err := d.AddLayer(LayerWafer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add wafer layer: %w", err)
	}

	r := p.Diameter / 2
	if _, err := d.Circle(0, 0, 0, r); err != nil {
		return err
	}
	if p.EdgeExclusion > 0 && p.EdgeExclusion < r {
		if _, err := d.Circle(0, 0, 0, r-p.EdgeExclusion); err != nil {
			return err
		}
	}

	if _, ok := model.FlatLengths[p.Diameter]; ok {
		flatY := engine.FlatLocation(p.Diameter)
		if err := drawChord(d, r, flatY); err != nil {
			return err
		}
		if p.FlatExclusion > 0 {
			if err := drawChord(d, r, flatY+p.FlatExclusion); err != nil {
				return err
			}
		}
	}

	if p.NorthLimit != nil && math.Abs(*p.NorthLimit) < r {
		if err := drawChord(d, r, *p.NorthLimit); err != nil {
			return err
		}
	}
	return nil
}

// drawChord draws the horizontal chord of the wafer circle at height y.
func drawChord(d *drawing.Drawing, r, y float64) error {
	if math.Abs(y) >= r {
		return nil
	}
	half := math.Sqrt(r*r - y*y)
	_, err := d.Line(-half, y, 0, half, y, 0)
	return err
}

func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
