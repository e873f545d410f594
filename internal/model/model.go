package model

import (
	"fmt"
	"math"
	"strings"
)

// DieState classifies a single die position on the wafer grid.
type DieState string

const (
	DieStateWafer         DieState = "wafer"    // Die pokes off the wafer edge
	DieStateFlat          DieState = "flat"     // Die crosses below the wafer flat
	DieStateExclusion     DieState = "excl"     // Die lies in the edge exclusion annulus
	DieStateFlatExclusion DieState = "flatExcl" // Die lies in the flat exclusion band
	DieStateScribe        DieState = "scribe"   // Die crosses the north/scribe keep-out line
	DieStateProbe         DieState = "probe"    // Usable die
)

// DieStates lists every state in classification order.
var DieStates = []DieState{
	DieStateWafer,
	DieStateFlat,
	DieStateExclusion,
	DieStateFlatExclusion,
	DieStateScribe,
	DieStateProbe,
}

func (s DieState) String() string {
	return string(s)
}

// Description returns a human-readable name for reports.
func (s DieState) Description() string {
	switch s {
	case DieStateWafer:
		return "Off wafer"
	case DieStateFlat:
		return "Wafer flat"
	case DieStateExclusion:
		return "Edge exclusion"
	case DieStateFlatExclusion:
		return "Flat exclusion"
	case DieStateScribe:
		return "Scribe keep-out"
	case DieStateProbe:
		return "Probe"
	default:
		return "Unknown"
	}
}

// ParseDieState converts a state name (as written by String) back into a DieState.
func ParseDieState(s string) (DieState, error) {
	for _, st := range DieStates {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown die state %q", s)
}

// Die is one classified grid cell. Grid coordinates are 1-indexed and the
// X/Y coordinates are the die's lower-left corner in mm relative to the
// wafer center. A Die is only meaningful together with the grid alignment
// that produced it.
type Die struct {
	XGrid int      `json:"x_grid"` // Grid column
	YGrid int      `json:"y_grid"` // Grid row
	X     float64  `json:"x"`      // Lower-left x (mm)
	Y     float64  `json:"y"`      // Lower-left y (mm)
	State DieState `json:"state"`
}

// GridCenter is the wafer center expressed in (fractional) grid coordinates.
type GridCenter struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (c GridCenter) String() string {
	return fmt.Sprintf("(%g, %g)", c.X, c.Y)
}

// CountByState returns the number of dies in the list with the given state.
func CountByState(dies []Die, state DieState) int {
	count := 0
	for _, d := range dies {
		if d.State == state {
			count++
		}
	}
	return count
}

// StateCounts tallies every state in a die list.
func StateCounts(dies []Die) map[DieState]int {
	counts := make(map[DieState]int, len(DieStates))
	for _, d := range dies {
		counts[d.State]++
	}
	return counts
}

// WaferParams holds the immutable inputs of a GDW run.
type WaferParams struct {
	DieX          float64    `json:"die_x" toml:"die_x"`                   // Die width (mm)
	DieY          float64    `json:"die_y" toml:"die_y"`                   // Die height (mm)
	Diameter      float64    `json:"diameter" toml:"diameter"`             // Wafer diameter (mm)
	EdgeExclusion float64    `json:"edge_exclusion" toml:"edge_exclusion"` // Edge exclusion distance (mm)
	FlatExclusion float64    `json:"flat_exclusion" toml:"flat_exclusion"` // Flat exclusion distance (mm)
	Offset        OffsetPair `json:"offset" toml:"-"`                      // Grid alignment
	NorthLimit    *float64   `json:"north_limit,omitempty" toml:"north_limit,omitempty"`
}

// NewWaferParams returns params with the given die size and diameter,
// default exclusions and an (odd, odd) alignment.
func NewWaferParams(dieX, dieY, diameter float64) WaferParams {
	return WaferParams{
		DieX:          dieX,
		DieY:          dieY,
		Diameter:      diameter,
		EdgeExclusion: DefaultEdgeExclusion,
		FlatExclusion: DefaultFlatExclusion,
		Offset:        OffsetPair{X: ParityOffset(ParityOdd), Y: ParityOffset(ParityOdd)},
	}
}

// Default exclusion distances in mm.
const (
	DefaultEdgeExclusion = 5.0
	DefaultFlatExclusion = 5.0
)

// Validate checks that the parameters describe a physical wafer and die.
func (p WaferParams) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"die x", p.DieX},
		{"die y", p.DieY},
		{"wafer diameter", p.Diameter},
		{"edge exclusion", p.EdgeExclusion},
		{"flat exclusion", p.FlatExclusion},
	} {
		if !isFinite(f.v) {
			return fmt.Errorf("%w: %s must be a finite number, got %g", ErrInvalidParams, f.name, f.v)
		}
	}
	if p.NorthLimit != nil && math.IsNaN(*p.NorthLimit) {
		return fmt.Errorf("%w: north limit must be a number", ErrInvalidParams)
	}
	if mm, ok := p.Offset.X.MM(); ok && !isFinite(mm) {
		return fmt.Errorf("%w: x offset %g", ErrInvalidOffset, mm)
	}
	if mm, ok := p.Offset.Y.MM(); ok && !isFinite(mm) {
		return fmt.Errorf("%w: y offset %g", ErrInvalidOffset, mm)
	}
	if p.DieX <= 0 || p.DieY <= 0 {
		return fmt.Errorf("%w: die size must be positive, got %gx%g", ErrInvalidParams, p.DieX, p.DieY)
	}
	if p.Diameter <= 0 {
		return fmt.Errorf("%w: wafer diameter must be positive, got %g", ErrInvalidParams, p.Diameter)
	}
	if p.EdgeExclusion < 0 {
		return fmt.Errorf("%w: edge exclusion must not be negative, got %g", ErrInvalidParams, p.EdgeExclusion)
	}
	if p.FlatExclusion < 0 {
		return fmt.Errorf("%w: flat exclusion must not be negative, got %g", ErrInvalidParams, p.FlatExclusion)
	}
	return nil
}

// EffectiveNorthLimit returns the north limit, defaulting to the wafer
// diameter which leaves the scribe rule inert.
func (p WaferParams) EffectiveNorthLimit() float64 {
	if p.NorthLimit != nil {
		return *p.NorthLimit
	}
	return p.Diameter
}

// WithOffset returns a copy of the params using the given alignment.
func (p WaferParams) WithOffset(o OffsetPair) WaferParams {
	p.Offset = o
	return p
}

// Float returns a pointer to v, for optional fields such as NorthLimit.
func Float(v float64) *float64 {
	return &v
}

// Settings controls how the engine evaluates a run.
type Settings struct {
	// Workers bounds the goroutines used for grid enumeration and the
	// alignment search. Values below 2 run sequentially.
	Workers int `json:"workers" toml:"workers"`
}

func DefaultSettings() Settings {
	return Settings{Workers: 1}
}
