package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/gdw/internal/model"
)

// Enumerate classifies every cell of the candidate grid, column by column
// and row by row within each column, and drops the cells that are off the
// wafer. The returned order is the enumeration order and is reproducible.
func Enumerate(g *Geometry, northLimit *float64) ([]model.Die, model.GridCenter) {
	var dies []model.Die
	for x := 1; x < g.gridMaxX; x++ {
		dies = appendColumn(dies, g, x, northLimit)
	}
	return dies, g.GridCenter()
}

// EnumerateParallel is Enumerate with columns classified concurrently by
// up to workers goroutines. Columns are reassembled in order, so the result
// is identical to Enumerate.
func EnumerateParallel(g *Geometry, northLimit *float64, workers int) ([]model.Die, model.GridCenter) {
	if workers < 2 {
		return Enumerate(g, northLimit)
	}

	columns := make([][]model.Die, g.gridMaxX)
	var eg errgroup.Group
	eg.SetLimit(workers)
	for x := 1; x < g.gridMaxX; x++ {
		eg.Go(func() error {
			columns[x] = appendColumn(nil, g, x, northLimit)
			return nil
		})
	}
	_ = eg.Wait() // column workers never fail

	total := 0
	for _, col := range columns {
		total += len(col)
	}
	dies := make([]model.Die, 0, total)
	for _, col := range columns {
		dies = append(dies, col...)
	}
	return dies, g.GridCenter()
}

// appendColumn classifies rows 1..gridMaxY-1 of column x.
func appendColumn(dst []model.Die, g *Geometry, x int, northLimit *float64) []model.Die {
	for y := 1; y < g.gridMaxY; y++ {
		die := Classify(g, x, y, northLimit)
		if die.State == model.DieStateWafer {
			continue
		}
		dst = append(dst, die)
	}
	return dst
}

// GDW classifies the wafer grid for the alignment in p.Offset. When no
// north limit is set it defaults to the wafer diameter.
func (c *Calculator) GDW(p model.WaferParams) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	return c.gdw(p), nil
}

func (c *Calculator) gdw(p model.WaferParams) Result {
	northLimit := p.EffectiveNorthLimit()
	g := NewGeometry(p)

	var dies []model.Die
	var center model.GridCenter
	if c.parallel() {
		dies, center = EnumerateParallel(g, &northLimit, c.Settings.Workers)
	} else {
		dies, center = Enumerate(g, &northLimit)
	}
	return Result{Params: p, Dies: dies, GridCenter: center}
}
