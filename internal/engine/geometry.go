package engine

import (
	"math"

	"github.com/piwi3910/gdw/internal/model"
)

// Geometry holds the constants derived from a wafer/die combination for one
// grid alignment. It is computed once by NewGeometry and never modified.
type Geometry struct {
	dieX, dieY  float64
	diameter    float64
	edgeExcl    float64
	flatExcl    float64
	xOffset     float64 // die units
	yOffset     float64 // die units
	flatY       float64
	gridMaxX    int
	gridMaxY    int
	radiusSqrd  float64
	exclRadSqrd float64
	gridCenterX float64
	gridCenterY float64
}

// NewGeometry derives the wafer geometry for the alignment in p.Offset.
// Symbolic offsets resolve to 0 (odd) or half a die (even); numeric offsets
// in mm are converted to die units along their own axis.
func NewGeometry(p model.WaferParams) *Geometry {
	g := &Geometry{
		dieX:     p.DieX,
		dieY:     p.DieY,
		diameter: p.Diameter,
		edgeExcl: p.EdgeExclusion,
		flatExcl: p.FlatExclusion,
		xOffset:  p.Offset.X.DieUnits(p.DieX),
		yOffset:  p.Offset.Y.DieUnits(p.DieY),
		flatY:    FlatLocation(p.Diameter),
	}

	rad := g.diameter / 2
	g.radiusSqrd = rad * rad
	// Expanded (radius - excl)^2 with diameter = 2*radius.
	g.exclRadSqrd = rad*rad + g.edgeExcl*g.edgeExcl - g.diameter*g.edgeExcl

	// Twice the die count across the diameter so the grid covers the
	// wafer whichever way the offset shifts it.
	g.gridMaxX = 2 * int(math.Ceil(g.diameter/g.dieX))
	g.gridMaxY = 2 * int(math.Ceil(g.diameter/g.dieY))

	g.gridCenterX = float64(g.gridMaxX)/2 + g.xOffset
	g.gridCenterY = float64(g.gridMaxY)/2 + g.yOffset
	return g
}

// Accessors for the inputs and grid extent the geometry was built from.
// Lengths are in mm, grid extents in die steps.
func (g *Geometry) DieX() float64          { return g.dieX }
func (g *Geometry) DieY() float64          { return g.dieY }
func (g *Geometry) Diameter() float64      { return g.diameter }
func (g *Geometry) Radius() float64        { return g.diameter / 2 }
func (g *Geometry) EdgeExclusion() float64 { return g.edgeExcl }
func (g *Geometry) FlatExclusion() float64 { return g.flatExcl }
func (g *Geometry) FlatY() float64         { return g.flatY }
func (g *Geometry) GridMaxX() int          { return g.gridMaxX }
func (g *Geometry) GridMaxY() int          { return g.gridMaxY }

// RadiusSqrd is the squared wafer radius.
func (g *Geometry) RadiusSqrd() float64 { return g.radiusSqrd }

// ExclusionRadiusSqrd is the squared radius of the circle inside the edge
// exclusion annulus.
func (g *Geometry) ExclusionRadiusSqrd() float64 { return g.exclRadSqrd }

// GridCenter is the wafer center in grid coordinates.
func (g *Geometry) GridCenter() model.GridCenter {
	return model.GridCenter{X: g.gridCenterX, Y: g.gridCenterY}
}

// FlatLocation returns the y position (mm, relative to the wafer center) of
// the wafer flat. Diameters with a SEMI M1 flat get the exact chord
// position; any other diameter puts the flat at the bottom edge.
func FlatLocation(dia float64) float64 {
	flatY := -dia / 2
	if length, ok := model.FlatLengths[dia]; ok {
		half := dia / 2
		chord := length * 0.5
		flatY = -math.Sqrt(half*half - chord*chord)
	}
	return flatY
}

// MaxDistSqrd returns the squared distance from the origin to the corner
// of a rectangle farthest from the origin. The rectangle is given by its
// center and its (width, height). Each half dimension is extended away
// from the origin, so the result is exact in every quadrant.
func MaxDistSqrd(centerX, centerY, width, height float64) float64 {
	halfX := width / 2.0
	halfY := height / 2.0
	if centerX < 0 {
		halfX = -halfX
	}
	if centerY < 0 {
		halfY = -halfY
	}
	dx := centerX + halfX
	dy := centerY + halfY
	return dx*dx + dy*dy
}
