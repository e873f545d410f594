package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/gdw/internal/model"
)

// singleCellWafer is a 150 mm wafer with 5x5 mm die, a zero offset and
// 4.5 mm exclusions. Grid coordinates are unadjusted for the landing die.
func singleCellWafer() *Geometry {
	p := model.NewWaferParams(5, 5, 150)
	p.Offset = model.OffsetPair{X: model.NumericOffset(0), Y: model.NumericOffset(0)}
	p.EdgeExclusion = 4.5
	p.FlatExclusion = 4.5
	return NewGeometry(p)
}

func TestClassify_KnownCells(t *testing.T) {
	g := singleCellWafer()

	tests := []struct {
		x, y int
		want model.DieState
	}{
		{21, 17, model.DieStateWafer},
		{30, 30, model.DieStateProbe},
		{28, 43, model.DieStateFlatExclusion},
		{31, 44, model.DieStateFlat},
		{40, 21, model.DieStateExclusion},
	}

	for _, tt := range tests {
		got := Classify(g, tt.x, tt.y, nil)
		assert.Equal(t, tt.want, got.State, "cell (%d, %d)", tt.x, tt.y)
		assert.Equal(t, tt.x, got.XGrid)
		assert.Equal(t, tt.y, got.YGrid)
	}
}

func TestClassify_LowerLeftCoordinates(t *testing.T) {
	g := singleCellWafer()

	// Center of cell (30, 30) is the wafer center.
	die := Classify(g, 30, 30, nil)
	assert.Equal(t, -2.5, die.X)
	assert.Equal(t, -2.5, die.Y)

	// Lower-left uses the unsigned half size in every quadrant.
	die = Classify(g, 28, 33, nil)
	assert.Equal(t, -12.5, die.X)
	assert.Equal(t, -17.5, die.Y)
}

func TestClassify_BoundaryIsNotOffWafer(t *testing.T) {
	// 10 mm wafer, 1 mm die, (even, even): cell (13, 7) has its far corner
	// at (3, 4), exactly on the wafer edge.
	p := model.NewWaferParams(1, 1, 10)
	p.EdgeExclusion = 0
	p.FlatExclusion = 0
	p.Offset = model.NewOffsetPair(model.ParityEven, model.ParityEven)
	g := NewGeometry(p)

	die := Classify(g, 13, 7, nil)
	assert.Equal(t, g.RadiusSqrd(), MaxDistSqrd(die.X+0.5, die.Y+0.5, 1, 1))
	assert.Equal(t, model.DieStateProbe, die.State, "boundary-exact die must fall through")

	die = Classify(g, 14, 7, nil)
	assert.Equal(t, model.DieStateWafer, die.State)
}

func TestClassify_EdgeExclusionBoundary(t *testing.T) {
	// Same corner (3, 4) on a 12 mm wafer with 1 mm exclusion: the
	// exclusion circle has radius 5, so the die is not excluded.
	p := model.NewWaferParams(1, 1, 12)
	p.EdgeExclusion = 1
	p.FlatExclusion = 0
	p.Offset = model.NewOffsetPair(model.ParityEven, model.ParityEven)
	g := NewGeometry(p)
	assert.Equal(t, 25.0, g.ExclusionRadiusSqrd())

	// grid center is 12.5, so cell (15, 9) has center (2.5, 3.5)
	die := Classify(g, 15, 9, nil)
	assert.Equal(t, model.DieStateProbe, die.State)

	die = Classify(g, 16, 9, nil)
	assert.Equal(t, model.DieStateExclusion, die.State)
}

func TestClassify_NorthLimit(t *testing.T) {
	g := singleCellWafer()

	// Cell (30, 17): center y = 65, top edge at 67.5, well inside the
	// 70.5 mm exclusion circle.
	limit := 60.0
	die := Classify(g, 30, 17, &limit)
	assert.Equal(t, model.DieStateScribe, die.State)

	die = Classify(g, 30, 17, nil)
	assert.Equal(t, model.DieStateProbe, die.State)

	// Exactly touching the limit is allowed.
	limit = 67.5
	die = Classify(g, 30, 17, &limit)
	assert.Equal(t, model.DieStateProbe, die.State)
}

func TestClassify_FlatRulesBeforeEdgeExclusion(t *testing.T) {
	g := singleCellWafer()

	// (31, 44) is both below the flat and within the edge annulus; the
	// flat rule is evaluated first.
	die := Classify(g, 31, 44, nil)
	assert.Equal(t, model.DieStateFlat, die.State)
	assert.Greater(t, MaxDistSqrd(die.X+2.5, die.Y+2.5, 5, 5), g.ExclusionRadiusSqrd())
}
