package parametric

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/Andrew-Robertson/make-SHMR-datasets/relation"
)

type generateOptions struct {
	redshift           float64
	redshiftWidth      float64
	cosmology          relation.Cosmology
	label              string
	reference          string
	haloMassDefinition string
	scatter            float64
	massError          float64
	scatterError       float64
}

func defaultGenerateOptions() generateOptions {
	return generateOptions{
		redshift:           0,
		redshiftWidth:      0.1,
		cosmology:          relation.PlanckCosmology(),
		label:              "SHMR",
		reference:          "Generated SHMR",
		haloMassDefinition: "virial",
		scatter:            0.16,
		massError:          0.1,
		scatterError:       0.04,
	}
}

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

// WithRedshift sets the central redshift and the width of the redshift
// interval the relation covers.
func WithRedshift(z, width float64) GenerateOption {
	return func(o *generateOptions) {
		o.redshift = z
		o.redshiftWidth = width
	}
}

// WithCosmology sets the cosmological parameters recorded in the dataset.
func WithCosmology(c relation.Cosmology) GenerateOption {
	return func(o *generateOptions) { o.cosmology = c }
}

// WithLabel sets the dataset label.
func WithLabel(label string) GenerateOption {
	return func(o *generateOptions) { o.label = label }
}

// WithReference sets the dataset reference.
func WithReference(reference string) GenerateOption {
	return func(o *generateOptions) { o.reference = reference }
}

// WithHaloMassDefinition sets the halo mass definition recorded in the
// dataset.
func WithHaloMassDefinition(definition string) GenerateOption {
	return func(o *generateOptions) { o.haloMassDefinition = definition }
}

// WithScatter sets the constant log-normal scatter in dex.
func WithScatter(dex float64) GenerateOption {
	return func(o *generateOptions) { o.scatter = dex }
}

// WithMassError sets the constant fractional uncertainty on the median
// stellar mass.
func WithMassError(fraction float64) GenerateOption {
	return func(o *generateOptions) { o.massError = fraction }
}

// WithScatterError sets the constant uncertainty on the scatter in dex.
func WithScatterError(dex float64) GenerateOption {
	return func(o *generateOptions) { o.scatterError = dex }
}

// Generate evaluates model on haloMasses and assembles a single-interval
// stellar relation dataset over [z-width/2, z+width/2].
func Generate(haloMasses []float64, model StellarModel, opts ...GenerateOption) (*relation.Dataset, error) {
	o := defaultGenerateOptions()
	for _, opt := range opts {
		opt(&o)
	}

	stellar, err := model.StellarMasses(haloMasses)
	if err != nil {
		return nil, err
	}

	n := len(haloMasses)
	iv := relation.Interval{
		MassHalo:        append([]float64(nil), haloMasses...),
		Mass:            stellar,
		MassError:       constant(n, o.massError),
		Scatter:         constant(n, o.scatter),
		ScatterError:    constant(n, o.scatterError),
		RedshiftMinimum: o.redshift - o.redshiftWidth/2,
		RedshiftMaximum: o.redshift + o.redshiftWidth/2,
	}
	ds := &relation.Dataset{
		Kind:               relation.KindStellar,
		Cosmology:          o.cosmology,
		Intervals:          []relation.Interval{iv},
		HaloMassDefinition: o.haloMassDefinition,
		Label:              o.label,
		Reference:          o.reference,
	}
	if err := ds.Check(); err != nil {
		return nil, err
	}
	return ds, nil
}

// LogSpacedMasses returns n masses logarithmically spaced between
// 10^logMin and 10^logMax solar masses.
func LogSpacedMasses(logMin, logMax float64, n int) []float64 {
	logs := make([]float64, n)
	floats.Span(logs, logMin, logMax)
	masses := make([]float64, n)
	for i, l := range logs {
		masses[i] = math.Pow(10, l)
	}
	return masses
}

// PerturbMasses applies log-normal scatter of sigma dex to masses, drawing
// from rng. The input slice is not modified.
func PerturbMasses(masses []float64, sigma float64, rng *rand.Rand) []float64 {
	out := make([]float64, len(masses))
	for i, m := range masses {
		out[i] = math.Pow(10, math.Log10(m)+rng.NormFloat64()*sigma)
	}
	return out
}

func constant(n int, value float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}
