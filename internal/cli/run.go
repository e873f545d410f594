package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdw/internal/engine"
)

type runOptions struct {
	wafer    waferOptions
	listDies bool
	asJSON   bool
}

// newRunCmd creates the "run" command: GDW for a single alignment.
func newRunCmd(g *globalOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the die grid for a single alignment",
		Example: `  gdw run --die 5x5 --dia 150 --offset even,even
  gdw run --die 5x4 --offset 1.25,odd --north-limit 50 --list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			rc, err := opts.wafer.resolve(cmd, g)
			if err != nil {
				return err
			}
			logger.Debug("Resolved parameters", "die_x", rc.params.DieX, "die_y", rc.params.DieY,
				"diameter", rc.params.Diameter, "offset", rc.params.Offset, "workers", rc.settings.Workers)

			finish := startTimer(logger)
			res, err := engine.New(rc.settings).GDW(rc.params)
			if err != nil {
				return err
			}
			finish("Classified grid", "die", len(res.Dies))

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			if err := engine.WriteBreakdown(out, res); err != nil {
				return err
			}
			if opts.listDies {
				fmt.Fprintf(out, "\n%6s %6s %10s %10s  %s\n", "x_grid", "y_grid", "x", "y", "state")
				for _, d := range res.Dies {
					fmt.Fprintf(out, "%6d %6d %10.3f %10.3f  %s\n", d.XGrid, d.YGrid, d.X, d.Y, d.State)
				}
			}
			return nil
		},
	}

	opts.wafer.addFlags(cmd, true)
	cmd.Flags().BoolVar(&opts.listDies, "list", false, "print every classified die")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("die")

	return cmd
}
