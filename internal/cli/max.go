package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/gdw/internal/engine"
	"github.com/piwi3910/gdw/internal/export"
)

type maxOptions struct {
	wafer      waferOptions
	mask       string
	xlsx       string
	dxf        string
	pdf        string
	maskName   string
	fixedStart bool
	asJSON     bool
}

// newMaxCmd creates the "max" command: the alignment search.
func newMaxCmd(g *globalOptions) *cobra.Command {
	opts := &maxOptions{}

	cmd := &cobra.Command{
		Use:   "max",
		Short: "Find the alignment with the maximum gross die per wafer",
		Long: `max evaluates the four canonical grid alignments (odd/even on each axis),
reports the one with the most probe die and the die lost to each exclusion.`,
		Example: `  gdw max --die 5x4 --dia 150 --excl 3.5
  gdw max --die 5x4 --profile 150mm --mask owt.txt --pdf report.pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			rc, err := opts.wafer.resolve(cmd, g)
			if err != nil {
				return err
			}

			finish := startTimer(logger)
			res, err := engine.New(rc.settings).MaxGDW(rc.params)
			if err != nil {
				return err
			}
			for _, v := range res.Variants {
				logger.Info("Alignment", "offset", v.Offset, "grid_center", v.GridCenter, "probe", v.ProbeCount)
			}
			finish("Evaluated alignments", "count", len(res.Variants))

			if !cmd.Flags().Changed("mask-name") {
				opts.maskName = rc.app.MaskName
			}
			if !cmd.Flags().Changed("fixed-start") {
				opts.fixedStart = rc.app.FixedStartCoord
			}
			if err := opts.export(cmd.Context(), res); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			return engine.WriteSummary(out, res)
		},
	}

	opts.wafer.addFlags(cmd, false)
	f := cmd.Flags()
	f.StringVar(&opts.mask, "mask", "", "write a prober mask file")
	f.StringVar(&opts.xlsx, "xlsx", "", "write an Excel workbook with the die list")
	f.StringVar(&opts.dxf, "dxf", "", "write a DXF drawing of the die placement")
	f.StringVar(&opts.pdf, "pdf", "", "write a PDF run report")
	f.StringVar(&opts.maskName, "mask-name", "", "mask name written to the mask file (default from config)")
	f.BoolVar(&opts.fixedStart, "fixed-start", false, "keep grid coordinates in the mask file instead of re-origining at the edge")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("die")

	return cmd
}

// export writes every requested file. All files of one run share a run ID.
func (o *maxOptions) export(ctx context.Context, res engine.SearchResult) error {
	logger := loggerFromContext(ctx)
	runID := export.NewRunID()

	if o.mask != "" {
		layout, err := export.ExportMaskFile(o.mask, res, export.MaskOptions{Name: o.maskName, FixedStartCoord: o.fixedStart})
		if err != nil {
			return fmt.Errorf("export mask file: %w", err)
		}
		logger.Debug("Mask layout", "edge_row", layout.EdgeRow, "edge_col", layout.EdgeCol,
			"rows", layout.Rows, "cols", layout.Cols)
		logger.Info("Wrote mask file", "path", o.mask, "start", layout.Start)
	}
	if o.xlsx != "" {
		if err := export.ExportXLSX(o.xlsx, res, runID); err != nil {
			return fmt.Errorf("export xlsx: %w", err)
		}
		logger.Info("Wrote workbook", "path", o.xlsx, "run", runID)
	}
	if o.dxf != "" {
		if err := export.ExportDXF(o.dxf, res); err != nil {
			return fmt.Errorf("export dxf: %w", err)
		}
		logger.Info("Wrote drawing", "path", o.dxf)
	}
	if o.pdf != "" {
		if err := export.ExportPDF(o.pdf, res, export.ReportOptions{RunID: runID}); err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
		logger.Info("Wrote report", "path", o.pdf, "run", runID)
	}
	return nil
}
