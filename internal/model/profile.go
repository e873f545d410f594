package model

import (
	"sort"
	"strings"
)

// FlatLengths maps standard wafer diameters (mm) to their primary flat
// chord length (mm), per SEMI M1-0302.
var FlatLengths = map[float64]float64{
	50:  15.88,
	75:  22.22,
	100: 32.5,
	125: 42.5,
	150: 57.5,
}

// StandardDiameters returns the diameters with a standard flat, ascending.
func StandardDiameters() []float64 {
	dias := make([]float64, 0, len(FlatLengths))
	for d := range FlatLengths {
		dias = append(dias, d)
	}
	sort.Float64s(dias)
	return dias
}

// WaferProfile is a named wafer preset: diameter plus the exclusions a fab
// normally applies to it.
type WaferProfile struct {
	Name          string   `json:"name" toml:"name"`
	Description   string   `json:"description" toml:"description"`
	IsBuiltIn     bool     `json:"is_built_in" toml:"-"`
	Diameter      float64  `json:"diameter" toml:"diameter"`             // mm
	EdgeExclusion float64  `json:"edge_exclusion" toml:"edge_exclusion"` // mm
	FlatExclusion float64  `json:"flat_exclusion" toml:"flat_exclusion"` // mm
	NorthLimit    *float64 `json:"north_limit,omitempty" toml:"north_limit,omitempty"`
}

// Apply copies the profile's wafer values into params, leaving die size
// and offset untouched.
func (p WaferProfile) Apply(params *WaferParams) {
	params.Diameter = p.Diameter
	params.EdgeExclusion = p.EdgeExclusion
	params.FlatExclusion = p.FlatExclusion
	params.NorthLimit = p.NorthLimit
}

// Built-in wafer profiles
var WaferProfiles = []WaferProfile{
	{
		Name:          "50mm",
		Description:   "2 inch wafer, SEMI M1 primary flat 15.88 mm",
		IsBuiltIn:     true,
		Diameter:      50,
		EdgeExclusion: 3,
		FlatExclusion: 3,
	},
	{
		Name:          "75mm",
		Description:   "3 inch wafer, SEMI M1 primary flat 22.22 mm",
		IsBuiltIn:     true,
		Diameter:      75,
		EdgeExclusion: 3,
		FlatExclusion: 3,
	},
	{
		Name:          "100mm",
		Description:   "4 inch wafer, SEMI M1 primary flat 32.5 mm",
		IsBuiltIn:     true,
		Diameter:      100,
		EdgeExclusion: 5,
		FlatExclusion: 5,
	},
	{
		Name:          "125mm",
		Description:   "5 inch wafer, SEMI M1 primary flat 42.5 mm",
		IsBuiltIn:     true,
		Diameter:      125,
		EdgeExclusion: 5,
		FlatExclusion: 5,
	},
	{
		Name:          "150mm",
		Description:   "6 inch wafer, SEMI M1 primary flat 57.5 mm",
		IsBuiltIn:     true,
		Diameter:      150,
		EdgeExclusion: 5,
		FlatExclusion: 5,
	},
	{
		Name:          "200mm",
		Description:   "8 inch notched wafer (no flat)",
		IsBuiltIn:     true,
		Diameter:      200,
		EdgeExclusion: 3,
		FlatExclusion: 0,
	},
	{
		Name:          "300mm",
		Description:   "12 inch notched wafer (no flat)",
		IsBuiltIn:     true,
		Diameter:      300,
		EdgeExclusion: 3,
		FlatExclusion: 0,
	},
}

// GetWaferProfile looks up a profile by case-insensitive name, searching the
// extra profiles first so custom entries can shadow built-ins.
func GetWaferProfile(name string, extra ...WaferProfile) (WaferProfile, bool) {
	for _, p := range extra {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	for _, p := range WaferProfiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return WaferProfile{}, false
}

// GetWaferProfileNames returns a list of all built-in profile names.
func GetWaferProfileNames() []string {
	var names []string
	for _, p := range WaferProfiles {
		names = append(names, p.Name)
	}
	return names
}
