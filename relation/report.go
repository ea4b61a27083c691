package relation

import (
	"fmt"
	"io"

	"github.com/montanaflynn/stats"
)

// WriteSummary formats r as a human-readable validation report.
func (r *Result) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Validating %s\n", r.Path)
	fmt.Fprintf(w, "  detected: %s\n", r.Kind.Describe())

	if r.Valid {
		fmt.Fprintf(w, "✓ VALID: file passes all format checks\n")
	} else {
		fmt.Fprintf(w, "✗ INVALID: file has %d format error(s)\n", len(r.Errors))
	}
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  ✗ %s\n", e)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warning)
		}
	}
	if r.Valid {
		fmt.Fprintf(w, "  redshift intervals: %d\n", r.NumIntervals)
		fmt.Fprintf(w, "  data points:        %d\n", r.TotalPoints)
		fmt.Fprintf(w, "  redshift range:     %.3f - %.3f\n", r.RedshiftMin, r.RedshiftMax)
	}
}

// Describe writes a human-readable summary of a loaded dataset.
func Describe(w io.Writer, ds *Dataset) {
	fmt.Fprintf(w, "%s\n", ds.Kind.Describe())
	fmt.Fprintf(w, "  label:                %s\n", ds.Label)
	fmt.Fprintf(w, "  reference:            %s\n", ds.Reference)
	fmt.Fprintf(w, "  halo mass definition: %s\n", ds.HaloMassDefinition)
	fmt.Fprintf(w, "  cosmology:            OmegaMatter=%g OmegaDarkEnergy=%g OmegaBaryon=%g H0=%g\n",
		ds.Cosmology.OmegaMatter, ds.Cosmology.OmegaDarkEnergy,
		ds.Cosmology.OmegaBaryon, ds.Cosmology.HubbleConstant)
	zmin, zmax := ds.RedshiftRange()
	fmt.Fprintf(w, "  redshift range:       %.3f - %.3f over %d interval(s), %d points\n",
		zmin, zmax, len(ds.Intervals), ds.TotalPoints())
	for i := range ds.Intervals {
		iv := &ds.Intervals[i]
		lo, _ := stats.Min(iv.MassHalo)
		hi, _ := stats.Max(iv.MassHalo)
		fmt.Fprintf(w, "  interval %d: z = %.3f - %.3f, %d points, halo mass %.3g - %.3g Msun\n",
			i, iv.RedshiftMinimum, iv.RedshiftMaximum, iv.NPoints(), lo, hi)
	}
}
