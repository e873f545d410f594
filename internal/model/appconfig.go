package model

import "fmt"

// AppConfig holds application-wide defaults applied to every run unless a
// command-line flag overrides them.
type AppConfig struct {
	// Default wafer settings
	Profile       string   `toml:"profile"`               // Wafer profile name; "" uses the values below
	Diameter      float64  `toml:"diameter"`              // mm
	EdgeExclusion float64  `toml:"edge_exclusion"`        // mm
	FlatExclusion float64  `toml:"flat_exclusion"`        // mm
	NorthLimit    *float64 `toml:"north_limit,omitempty"` // mm, unset disables the scribe rule
	Offset        []any    `toml:"offset"`                // ["odd"|"even"|number, "odd"|"even"|number]

	// Mask file defaults
	MaskName        string `toml:"mask_name"`
	FixedStartCoord bool   `toml:"fixed_start_coord"`

	// Engine
	Workers int `toml:"workers"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults
// for a 150 mm wafer.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Profile:       "",
		Diameter:      150,
		EdgeExclusion: DefaultEdgeExclusion,
		FlatExclusion: DefaultFlatExclusion,
		Offset:        []any{string(ParityOdd), string(ParityOdd)},
		MaskName:      "MASK",
		Workers:       DefaultSettings().Workers,
	}
}

// OffsetPair validates and returns the configured alignment. An empty
// offset falls back to (odd, odd).
func (c AppConfig) OffsetPair() (OffsetPair, error) {
	if len(c.Offset) == 0 {
		return NewOffsetPair(ParityOdd, ParityOdd), nil
	}
	pair, err := OffsetPairFromValues(c.Offset)
	if err != nil {
		return OffsetPair{}, fmt.Errorf("config offset: %w", err)
	}
	return pair, nil
}

// ApplyToParams copies the configured wafer defaults into params. When a
// profile is named it is resolved against the built-in and extra profiles.
func (c AppConfig) ApplyToParams(p *WaferParams, extra ...WaferProfile) error {
	if c.Profile != "" {
		profile, ok := GetWaferProfile(c.Profile, extra...)
		if !ok {
			return fmt.Errorf("%w: unknown wafer profile %q", ErrInvalidParams, c.Profile)
		}
		profile.Apply(p)
	} else {
		p.Diameter = c.Diameter
		p.EdgeExclusion = c.EdgeExclusion
		p.FlatExclusion = c.FlatExclusion
		p.NorthLimit = c.NorthLimit
	}
	offset, err := c.OffsetPair()
	if err != nil {
		return err
	}
	p.Offset = offset
	return nil
}

// ApplyToSettings copies the engine defaults into s.
func (c AppConfig) ApplyToSettings(s *Settings) {
	s.Workers = c.Workers
}
