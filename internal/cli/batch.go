package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/gdw/internal/engine"
	"github.com/piwi3910/gdw/internal/export"
	"github.com/piwi3910/gdw/internal/importer"
)

type batchOptions struct {
	wafer waferOptions
	xlsx  string
}

// newBatchCmd creates the "batch" command: the search for every job in a
// CSV or XLSX file.
func newBatchCmd(g *globalOptions) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Run the maximum GDW search for every job in a CSV or XLSX file",
		Long: `batch reads one job per row with the columns name, die x, die y, diameter,
edge exclusion, flat exclusion and north limit. Only the die size is required;
empty cells take their value from the flags and the config file.`,
		Example: `  gdw batch jobs.csv
  gdw batch jobs.xlsx --dia 200 --xlsx results.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			rc, err := opts.wafer.resolve(cmd, g)
			if err != nil {
				return err
			}

			imported := importer.ImportFile(args[0], rc.params)
			for _, w := range imported.Warnings {
				logger.Warn(w)
			}
			for _, e := range imported.Errors {
				logger.Error(e)
			}
			if len(imported.Jobs) == 0 {
				return fmt.Errorf("no valid jobs in %s", args[0])
			}
			logger.Info("Imported jobs", "file", args[0], "jobs", len(imported.Jobs), "rejected", len(imported.Errors))

			finish := startTimer(logger)
			entries, err := runBatch(ctx, engine.New(rc.settings), imported.Jobs, rc.settings.Workers)
			if err != nil {
				return err
			}
			finish("Ran batch", "jobs", len(entries))

			if opts.xlsx != "" {
				runID := export.NewRunID()
				if err := export.ExportBatchXLSX(opts.xlsx, entries, runID); err != nil {
					return fmt.Errorf("export xlsx: %w", err)
				}
				logger.Info("Wrote workbook", "path", opts.xlsx, "run", runID)
			}

			return writeBatch(cmd.OutOrStdout(), entries)
		},
	}

	opts.wafer.addFlags(cmd, false)
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "write the results to an Excel workbook")

	return cmd
}

// runBatch searches every job, at most workers at a time. Results keep the
// job order. A job that fails carries its error; cancellation aborts the batch.
func runBatch(ctx context.Context, calc *engine.Calculator, jobs []importer.Job, workers int) ([]export.BatchEntry, error) {
	entries := make([]export.BatchEntry, len(jobs))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(workers, 1))
	for i, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := calc.MaxGDW(job.Params)
			if err != nil {
				res.Params = job.Params
			}
			entries[i] = export.BatchEntry{Name: job.Name, Result: res, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func writeBatch(w io.Writer, entries []export.BatchEntry) error {
	if _, err := fmt.Fprintf(w, "%-24s %12s %8s %8s  %s\n", "Job", "Die (mm)", "Dia", "GDW", "Alignment"); err != nil {
		return err
	}
	for _, e := range entries {
		p := e.Result.Params
		die := fmt.Sprintf("%gx%g", p.DieX, p.DieY)
		var err error
		if e.Err != nil {
			_, err = fmt.Fprintf(w, "%-24s %12s %8g %8s  error: %v\n", e.Name, die, p.Diameter, "-", e.Err)
		} else {
			_, err = fmt.Fprintf(w, "%-24s %12s %8g %8d  %s\n", e.Name, die, p.Diameter, e.Result.ProbeCount, p.Offset)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
