package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/gdw/internal/model"
)

const summaryRule = "----------------------------------"

// WriteSummary prints the human-readable outcome of an alignment search.
func WriteSummary(w io.Writer, r SearchResult) error {
	offset := r.Offset()
	var b strings.Builder
	b.WriteString(summaryRule + "\n")
	fmt.Fprintf(&b, "Maximum GDW: %d (X: %s, Y: %s)\n", r.ProbeCount, offset.X, offset.Y)
	fmt.Fprintf(&b, "Grid center: %s\n", r.GridCenter)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Die lost to Edge Exclusion: %d\n", r.LostEdge)
	fmt.Fprintf(&b, "Die lost to Wafer Flat: %d\n", r.LostFlat)
	fmt.Fprintf(&b, "Die lost to Flat Exclusion: %d\n", r.LostFlatExclusion)
	b.WriteString(summaryRule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteBreakdown prints the per-state die counts of a single alignment.
func WriteBreakdown(w io.Writer, r Result) error {
	counts := r.Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "Alignment: %s  Grid center: %s\n", r.Params.Offset, r.GridCenter)
	for _, st := range model.DieStates {
		if st == model.DieStateWafer {
			continue
		}
		fmt.Fprintf(&b, "  %-16s %6d\n", st.Description()+":", counts[st])
	}
	fmt.Fprintf(&b, "  %-16s %6d\n", "Total on wafer:", len(r.Dies))

	_, err := io.WriteString(w, b.String())
	return err
}
