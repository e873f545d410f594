package engine

import "github.com/piwi3910/gdw/internal/model"

// Classify computes the state of the die at the given 1-indexed grid cell.
// Rules are evaluated in order and the first match wins; every comparison is
// strict, so a die exactly on a boundary falls through to the next rule.
// A nil northLimit disables the scribe rule.
func Classify(g *Geometry, xGrid, yGrid int, northLimit *float64) model.Die {
	// Grid rows grow downward while mm y grows upward.
	centerX := g.dieX * (float64(xGrid) - g.gridCenterX)
	centerY := g.dieY * (g.gridCenterY - float64(yGrid))

	maxSqrd := MaxDistSqrd(centerX, centerY, g.dieX, g.dieY)

	lowerLeftX := centerX - g.dieX/2
	lowerLeftY := centerY - g.dieY/2

	var state model.DieState
	switch {
	case maxSqrd > g.radiusSqrd:
		state = model.DieStateWafer
	case lowerLeftY < g.flatY:
		state = model.DieStateFlat
	case maxSqrd > g.exclRadSqrd:
		state = model.DieStateExclusion
	case lowerLeftY < g.flatY+g.flatExcl:
		state = model.DieStateFlatExclusion
	case northLimit != nil && lowerLeftY+g.dieY > *northLimit:
		state = model.DieStateScribe
	default:
		state = model.DieStateProbe
	}

	return model.Die{
		XGrid: xGrid,
		YGrid: yGrid,
		X:     lowerLeftX,
		Y:     lowerLeftY,
		State: state,
	}
}
