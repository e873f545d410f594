package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdw/internal/engine"
)

// newCompareCmd creates the "compare" command: the search under what-if
// variations of the current parameters.
func newCompareCmd(g *globalOptions) *cobra.Command {
	opts := &waferOptions{}

	cmd := &cobra.Command{
		Use:     "compare",
		Short:   "Compare the maximum GDW under what-if scenarios",
		Example: `  gdw compare --die 5x4 --dia 150 --north-limit 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			rc, err := opts.resolve(cmd, g)
			if err != nil {
				return err
			}

			scenarios := engine.BuildDefaultScenarios(rc.params)
			finish := startTimer(logger)
			results, err := engine.New(rc.settings).CompareScenarios(scenarios)
			if err != nil {
				return err
			}
			finish("Compared scenarios", "count", len(results))

			return writeComparison(cmd.OutOrStdout(), results)
		},
	}

	opts.addFlags(cmd, false)
	_ = cmd.MarkFlagRequired("die")

	return cmd
}

func writeComparison(w io.Writer, results []engine.ComparisonResult) error {
	if _, err := fmt.Fprintf(w, "%-32s %8s %8s %8s  %s\n", "Scenario", "GDW", "Delta", "Yield", "Alignment"); err != nil {
		return err
	}
	for _, r := range results {
		_, err := fmt.Fprintf(w, "%-32s %8d %+8d %7.1f%%  %s\n",
			r.Scenario.Name, r.ProbeCount, r.Delta, r.Yield, r.Result.Offset())
		if err != nil {
			return err
		}
	}
	return nil
}
