package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/gdw/internal/model"
)

// VariantResult records the outcome of one alignment during the search.
type VariantResult struct {
	Offset     model.OffsetPair `json:"offset"`
	GridCenter model.GridCenter `json:"grid_center"`
	ProbeCount int              `json:"probe_count"`
}

// SearchResult holds the best alignment found by MaxGDW.
type SearchResult struct {
	Params     model.WaferParams `json:"params"` // Offset holds the winning alignment
	Dies       []model.Die       `json:"dies"`
	GridCenter model.GridCenter  `json:"grid_center"`
	ProbeCount int               `json:"probe_count"`

	// Loss counts are taken from the last alignment evaluated, which is not
	// necessarily the winning one.
	LostEdge          int `json:"lost_edge"`
	LostFlat          int `json:"lost_flat"`
	LostFlatExclusion int `json:"lost_flat_exclusion"`

	Variants []VariantResult `json:"variants"`
}

// Offset returns the winning alignment.
func (r SearchResult) Offset() model.OffsetPair {
	return r.Params.Offset
}

// MaxGDW evaluates the four canonical alignments in order and keeps the one
// with the strictly greatest probe count; on a tie the earlier alignment
// wins. The offset in p is ignored. If no alignment yields a usable die the
// result has no dies and reports the first alignment's grid center.
func (c *Calculator) MaxGDW(p model.WaferParams) (SearchResult, error) {
	if err := p.Validate(); err != nil {
		return SearchResult{}, err
	}

	results := c.evaluateVariants(p)

	best := SearchResult{
		Params:     p.WithOffset(results[0].Params.Offset),
		GridCenter: results[0].GridCenter,
		Variants:   make([]VariantResult, 0, len(results)),
	}
	maxProbe := 0
	for _, r := range results {
		probeCount := r.ProbeCount()
		best.Variants = append(best.Variants, VariantResult{
			Offset:     r.Params.Offset,
			GridCenter: r.GridCenter,
			ProbeCount: probeCount,
		})
		if probeCount > maxProbe {
			maxProbe = probeCount
			best.Params = r.Params
			best.Dies = r.Dies
			best.GridCenter = r.GridCenter
			best.ProbeCount = probeCount
		}
	}

	last := results[len(results)-1].Dies
	best.LostEdge = model.CountByState(last, model.DieStateExclusion)
	best.LostFlat = model.CountByState(last, model.DieStateFlat)
	best.LostFlatExclusion = model.CountByState(last, model.DieStateFlatExclusion)

	return best, nil
}

// evaluateVariants runs GDW for every alignment variant, returning results
// in variant order.
func (c *Calculator) evaluateVariants(p model.WaferParams) []Result {
	results := make([]Result, len(model.AlignmentVariants))
	seq := &Calculator{Settings: model.Settings{Workers: 1}}

	if !c.parallel() {
		for i, v := range model.AlignmentVariants {
			results[i] = seq.gdw(p.WithOffset(v))
		}
		return results
	}

	var eg errgroup.Group
	eg.SetLimit(c.Settings.Workers)
	for i, v := range model.AlignmentVariants {
		eg.Go(func() error {
			results[i] = seq.gdw(p.WithOffset(v))
			return nil
		})
	}
	_ = eg.Wait()
	return results
}
