package engine

import (
	"fmt"

	"github.com/piwi3910/gdw/internal/model"
)

// ComparisonScenario defines a named set of wafer parameters to compare.
type ComparisonScenario struct {
	Name   string
	Params model.WaferParams
}

// ComparisonResult holds the search result and derived statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     SearchResult
	ProbeCount int
	Delta      int     // Probe count relative to the first scenario
	Yield      float64 // Probe dies as a percentage of dies on the wafer
}

// CompareScenarios runs the alignment search for each scenario and returns
// the results in scenario order. This enables side-by-side comparison of
// exclusion settings, die orientation, and similar what-if questions.
func (c *Calculator) CompareScenarios(scenarios []ComparisonScenario) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := c.MaxGDW(scenario.Params)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		var yield float64
		if len(result.Dies) > 0 {
			yield = float64(result.ProbeCount) / float64(len(result.Dies)) * 100.0
		}

		delta := 0
		if len(results) > 0 {
			delta = result.ProbeCount - results[0].ProbeCount
		}

		results = append(results, ComparisonResult{
			Scenario:   scenario,
			Result:     result,
			ProbeCount: result.ProbeCount,
			Delta:      delta,
			Yield:      yield,
		})
	}

	return results, nil
}

// BuildDefaultScenarios generates comparison scenarios from the current
// parameters, varying exclusions and die orientation.
func BuildDefaultScenarios(base model.WaferParams) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current Settings",
			Params: base,
		},
	}

	// Scenario: die rotated 90 degrees
	if base.DieX != base.DieY {
		rotated := base
		rotated.DieX, rotated.DieY = base.DieY, base.DieX
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Rotated Die %gx%g mm", rotated.DieX, rotated.DieY),
			Params: rotated,
		})
	}

	// Scenario: halve the edge exclusion
	if base.EdgeExclusion > 0 {
		half := base
		half.EdgeExclusion = base.EdgeExclusion * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Edge Exclusion %.2fmm (half)", half.EdgeExclusion),
			Params: half,
		})

		noEdge := base
		noEdge.EdgeExclusion = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Edge Exclusion",
			Params: noEdge,
		})
	}

	// Scenario: no flat exclusion
	if base.FlatExclusion > 0 {
		noFlat := base
		noFlat.FlatExclusion = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No Flat Exclusion",
			Params: noFlat,
		})
	}

	// Scenario: no scribe keep-out
	if base.NorthLimit != nil {
		noNorth := base
		noNorth.NorthLimit = nil
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No North Limit",
			Params: noNorth,
		})
	}

	return scenarios
}
