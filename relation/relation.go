// Package relation defines the HDF5 file layout Galacticus reads for
// stellar mass - halo mass and black hole mass - halo mass relations, and
// provides load, save and validation operations over it.
//
// A relation file carries a haloMassDefinition, label and reference on the
// root group, a cosmology group with the cosmological parameters, and one
// redshiftInterval<N> group per redshift range holding five equal-length
// float64 datasets: the halo mass grid, the median secondary mass, its
// uncertainty, the log-normal scatter and the scatter's uncertainty.
package relation

import (
	"errors"
	"fmt"
	"math"
)

// Cosmology holds the cosmological parameters shared by every redshift
// interval in a dataset. Densities are in units of the critical density;
// HubbleConstant is in km/s/Mpc.
type Cosmology struct {
	OmegaMatter     float64
	OmegaDarkEnergy float64
	OmegaBaryon     float64
	HubbleConstant  float64
}

// PlanckCosmology returns the Planck 2018 best-fit parameters.
func PlanckCosmology() Cosmology {
	return Cosmology{
		OmegaMatter:     0.3111,
		OmegaDarkEnergy: 0.6889,
		OmegaBaryon:     0.04897,
		HubbleConstant:  67.66,
	}
}

// Interval holds one fitted relation over a contiguous redshift range.
// Mass, MassError, Scatter and ScatterError describe the secondary
// quantity, stellar or black hole mass depending on the dataset's Kind.
// Masses are in solar masses; Scatter and ScatterError are in dex.
type Interval struct {
	MassHalo     []float64
	Mass         []float64
	MassError    []float64
	Scatter      []float64
	ScatterError []float64

	RedshiftMinimum float64
	RedshiftMaximum float64
}

// NPoints returns the number of halo mass grid points.
func (iv *Interval) NPoints() int {
	return len(iv.MassHalo)
}

// Check verifies the interval's structural invariants: a non-empty grid,
// five arrays of equal length, finite positive masses, non-negative
// uncertainties, and a well-ordered non-negative redshift range.
func (iv *Interval) Check() error {
	n := len(iv.MassHalo)
	if n == 0 {
		return errors.New("interval has no data points")
	}
	columns := []struct {
		name string
		data []float64
	}{
		{"mass", iv.Mass},
		{"mass error", iv.MassError},
		{"scatter", iv.Scatter},
		{"scatter error", iv.ScatterError},
	}
	for _, c := range columns {
		if len(c.data) != n {
			return fmt.Errorf("%s has %d points, halo mass has %d", c.name, len(c.data), n)
		}
	}
	for i := 0; i < n; i++ {
		if !(iv.MassHalo[i] > 0) || math.IsInf(iv.MassHalo[i], 0) {
			return fmt.Errorf("halo mass at index %d is not a positive finite value", i)
		}
		if !(iv.Mass[i] > 0) || math.IsInf(iv.Mass[i], 0) {
			return fmt.Errorf("mass at index %d is not a positive finite value", i)
		}
		if iv.MassError[i] < 0 || iv.Scatter[i] < 0 || iv.ScatterError[i] < 0 {
			return fmt.Errorf("negative uncertainty at index %d", i)
		}
	}
	if iv.RedshiftMinimum < 0 {
		return fmt.Errorf("redshift minimum %g is negative", iv.RedshiftMinimum)
	}
	if iv.RedshiftMinimum >= iv.RedshiftMaximum {
		return fmt.Errorf("redshift minimum %g is not below redshift maximum %g",
			iv.RedshiftMinimum, iv.RedshiftMaximum)
	}
	return nil
}

// Dataset is the in-memory form of one relation file.
type Dataset struct {
	Kind               Kind
	Cosmology          Cosmology
	Intervals          []Interval
	HaloMassDefinition string
	Label              string
	Reference          string
}

// TotalPoints returns the number of data points summed over all intervals.
func (d *Dataset) TotalPoints() int {
	total := 0
	for i := range d.Intervals {
		total += d.Intervals[i].NPoints()
	}
	return total
}

// RedshiftRange returns the lowest and highest redshift covered by any
// interval. Both are zero when the dataset has no intervals.
func (d *Dataset) RedshiftRange() (min, max float64) {
	if len(d.Intervals) == 0 {
		return 0, 0
	}
	min = d.Intervals[0].RedshiftMinimum
	max = d.Intervals[0].RedshiftMaximum
	for i := range d.Intervals[1:] {
		iv := &d.Intervals[i+1]
		if iv.RedshiftMinimum < min {
			min = iv.RedshiftMinimum
		}
		if iv.RedshiftMaximum > max {
			max = iv.RedshiftMaximum
		}
	}
	return min, max
}

// Check verifies the dataset's structural invariants ahead of a save.
func (d *Dataset) Check() error {
	if len(d.Intervals) == 0 {
		return ErrNoIntervals
	}
	for i := range d.Intervals {
		if err := d.Intervals[i].Check(); err != nil {
			return fmt.Errorf("interval %d: %w", i, err)
		}
	}
	return nil
}
