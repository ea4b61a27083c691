package parametric

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/Andrew-Robertson/make-SHMR-datasets/relation"
)

// Method selects the interpolation scheme used by Resample for the median
// mass column. Uncertainty and scatter columns are always interpolated
// linearly.
type Method string

const (
	// Linear interpolates the median mass linearly in mass.
	Linear Method = "linear"
	// LogLinear interpolates the median mass linearly in log10 of both
	// axes.
	LogLinear Method = "log-linear"
	// Akima fits an Akima spline through the median mass.
	Akima Method = "akima"
)

// Resample re-grids every interval of ds onto newHaloMasses. Points
// outside an interval's original mass range take the nearest boundary
// value. The returned dataset's label and reference note the resampling.
func Resample(ds *relation.Dataset, newHaloMasses []float64, method Method) (*relation.Dataset, error) {
	switch method {
	case Linear, LogLinear, Akima:
	default:
		return nil, fmt.Errorf("unknown interpolation method %q", method)
	}

	out := &relation.Dataset{
		Kind:               ds.Kind,
		Cosmology:          ds.Cosmology,
		HaloMassDefinition: ds.HaloMassDefinition,
		Label:              ds.Label + "_interpolated",
		Reference:          fmt.Sprintf("%s (interpolated using %s method)", ds.Reference, method),
	}
	for i := range ds.Intervals {
		iv := &ds.Intervals[i]
		mass, err := interpolateMass(iv.MassHalo, iv.Mass, newHaloMasses, method)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		massError, err := interpolateLinear(iv.MassHalo, iv.MassError, newHaloMasses)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		scatter, err := interpolateLinear(iv.MassHalo, iv.Scatter, newHaloMasses)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		scatterError, err := interpolateLinear(iv.MassHalo, iv.ScatterError, newHaloMasses)
		if err != nil {
			return nil, fmt.Errorf("interval %d: %w", i, err)
		}
		out.Intervals = append(out.Intervals, relation.Interval{
			MassHalo:        append([]float64(nil), newHaloMasses...),
			Mass:            mass,
			MassError:       massError,
			Scatter:         scatter,
			ScatterError:    scatterError,
			RedshiftMinimum: iv.RedshiftMinimum,
			RedshiftMaximum: iv.RedshiftMaximum,
		})
	}
	return out, nil
}

func interpolateMass(haloMass, mass, newHaloMasses []float64, method Method) ([]float64, error) {
	switch method {
	case LogLinear:
		logHalo := logFloats(haloMass)
		logMass := logFloats(mass)
		var pl interp.PiecewiseLinear
		if err := pl.Fit(logHalo, logMass); err != nil {
			return nil, fmt.Errorf("fitting log-linear interpolant: %w", err)
		}
		out := make([]float64, len(newHaloMasses))
		for i, m := range newHaloMasses {
			x := clamp(math.Log10(m), logHalo[0], logHalo[len(logHalo)-1])
			out[i] = math.Pow(10, pl.Predict(x))
		}
		return out, nil
	case Akima:
		var spline interp.AkimaSpline
		if err := spline.Fit(haloMass, mass); err != nil {
			return nil, fmt.Errorf("fitting Akima spline: %w", err)
		}
		out := make([]float64, len(newHaloMasses))
		for i, m := range newHaloMasses {
			out[i] = spline.Predict(clamp(m, haloMass[0], haloMass[len(haloMass)-1]))
		}
		return out, nil
	default:
		return interpolateLinear(haloMass, mass, newHaloMasses)
	}
}

func interpolateLinear(xs, ys, newXs []float64) ([]float64, error) {
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting linear interpolant: %w", err)
	}
	out := make([]float64, len(newXs))
	for i, x := range newXs {
		out[i] = pl.Predict(clamp(x, xs[0], xs[len(xs)-1]))
	}
	return out, nil
}

func logFloats(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Log10(v)
	}
	return out
}
