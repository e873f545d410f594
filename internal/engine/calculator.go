package engine

import "github.com/piwi3910/gdw/internal/model"

// Calculator computes gross die per wafer.
type Calculator struct {
	Settings model.Settings
}

func New(settings model.Settings) *Calculator {
	return &Calculator{Settings: settings}
}

// Result is the classified grid for a single alignment.
type Result struct {
	Params     model.WaferParams `json:"params"`
	Dies       []model.Die       `json:"dies"`
	GridCenter model.GridCenter  `json:"grid_center"`
}

// ProbeCount returns the number of usable dies.
func (r Result) ProbeCount() int {
	return model.CountByState(r.Dies, model.DieStateProbe)
}

// Counts tallies the dies by state.
func (r Result) Counts() map[model.DieState]int {
	return model.StateCounts(r.Dies)
}

func (c *Calculator) parallel() bool {
	return c.Settings.Workers > 1
}
