package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdw/internal/model"
)

// waferOptions are the flags that describe a wafer and die. Unset flags
// fall back to the config file.
type waferOptions struct {
	die        string
	diameter   float64
	edgeExcl   float64
	flatExcl   float64
	northLimit float64
	offset     string
	profile    string
	workers    int
}

// runConfig is the resolved input of a command.
type runConfig struct {
	params   model.WaferParams
	settings model.Settings
	app      model.AppConfig
	profiles []model.WaferProfile
}

func (o *waferOptions) addFlags(cmd *cobra.Command, withOffset bool) {
	f := cmd.Flags()
	f.StringVar(&o.die, "die", "", `die size in mm as "WxH" (or "S" for a square die)`)
	f.Float64Var(&o.diameter, "dia", 0, "wafer diameter in mm (default from config)")
	f.Float64Var(&o.edgeExcl, "excl", 0, "edge exclusion in mm (default from config)")
	f.Float64Var(&o.flatExcl, "flat-excl", 0, "flat exclusion in mm (default from config)")
	f.Float64Var(&o.northLimit, "north-limit", 0, "scribe keep-out line in mm above the wafer center")
	f.StringVar(&o.profile, "profile", "", "wafer profile name (see 'gdw profiles list')")
	f.IntVar(&o.workers, "workers", 0, "goroutines used for the search (default from config)")
	if withOffset {
		f.StringVar(&o.offset, "offset", "", `grid alignment "x,y", each odd, even or a shift in mm`)
	}
}

// resolve layers config, profile and flags, in that order, into the run input.
func (o *waferOptions) resolve(cmd *cobra.Command, g *globalOptions) (runConfig, error) {
	cfg, profiles, err := g.load()
	if err != nil {
		return runConfig{}, err
	}

	rc := runConfig{app: cfg, profiles: profiles, settings: model.DefaultSettings()}
	if err := cfg.ApplyToParams(&rc.params, profiles...); err != nil {
		return runConfig{}, err
	}
	cfg.ApplyToSettings(&rc.settings)

	flags := cmd.Flags()
	if flags.Changed("profile") {
		profile, ok := model.GetWaferProfile(o.profile, profiles...)
		if !ok {
			return runConfig{}, fmt.Errorf("%w: unknown wafer profile %q", model.ErrInvalidParams, o.profile)
		}
		profile.Apply(&rc.params)
	}
	if flags.Changed("dia") {
		rc.params.Diameter = o.diameter
	}
	if flags.Changed("excl") {
		rc.params.EdgeExclusion = o.edgeExcl
	}
	if flags.Changed("flat-excl") {
		rc.params.FlatExclusion = o.flatExcl
	}
	if flags.Changed("north-limit") {
		rc.params.NorthLimit = model.Float(o.northLimit)
	}
	if flags.Lookup("offset") != nil && flags.Changed("offset") {
		pair, err := model.ParseOffsetPair(o.offset)
		if err != nil {
			return runConfig{}, err
		}
		rc.params.Offset = pair
	}
	if flags.Changed("workers") {
		rc.settings.Workers = o.workers
	}
	if o.die != "" {
		x, y, err := parseDieSize(o.die)
		if err != nil {
			return runConfig{}, err
		}
		rc.params.DieX, rc.params.DieY = x, y
	}

	return rc, nil
}

// parseDieSize parses "5x4", "5X4", "5*4" or "5" (square).
func parseDieSize(s string) (float64, float64, error) {
	v := strings.TrimSpace(s)
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == 'x' || r == 'X' || r == '*' })
	if len(parts) == 1 && !strings.ContainsAny(v, "xX*") {
		size, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: invalid die size %q", model.ErrInvalidParams, s)
		}
		return size, size, nil
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: invalid die size %q, want WxH", model.ErrInvalidParams, s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid die width %q", model.ErrInvalidParams, parts[0])
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid die height %q", model.ErrInvalidParams, parts[1])
	}
	return x, y, nil
}
