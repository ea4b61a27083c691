package relation

import (
	"fmt"
	"strings"

	"github.com/Andrew-Robertson/make-SHMR-datasets/hdf5"
)

// Result aggregates the findings of one validation run. Errors make the
// file invalid; warnings never do.
type Result struct {
	Path     string
	Kind     Kind
	Valid    bool
	Errors   []string
	Warnings []string

	// Content summary, populated only when the file is valid.
	NumIntervals int
	TotalPoints  int
	RedshiftMin  float64
	RedshiftMax  float64
}

func (r *Result) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the file at path against the Galacticus relation format.
// Content problems are accumulated into the Result rather than aborting
// the run; an error is returned only when the file cannot be opened as
// HDF5 at all.
func Validate(path string) (*Result, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ValidateFile(f), nil
}

// ValidateFile runs every check against an already-open file.
func ValidateFile(f *hdf5.File) *Result {
	r := &Result{Path: f.Path(), Kind: Detect(f)}
	root := f.Root()

	if r.Kind == KindUnknown {
		r.errorf("%v", ErrUnknownKind)
	}

	for _, name := range []string{"haloMassDefinition", "label", "reference"} {
		if !root.HasAttr(name) {
			r.errorf("missing required attribute: %s", name)
		}
	}
	if attr := root.Attr("label"); attr != nil {
		if label, err := attr.ReadScalarString(); err != nil {
			r.errorf("unreadable label attribute: %v", err)
		} else if strings.ContainsAny(label, " \t") {
			r.warnf("label %q contains whitespace", label)
		}
	}
	if attr := root.Attr("haloMassDefinition"); attr != nil {
		if definition, err := attr.ReadScalarString(); err != nil {
			r.errorf("unreadable haloMassDefinition attribute: %v", err)
		} else if !ValidHaloMassDefinition(definition) {
			r.errorf("invalid halo mass definition: %q", definition)
		}
	}

	checkCosmology(root, r)

	groups, err := intervalGroups(root)
	if err != nil {
		r.errorf("listing root groups: %v", err)
	} else if len(groups) == 0 {
		r.errorf("%v", ErrNoIntervals)
	}

	type span struct {
		name     string
		min, max float64
		bounded  bool
	}
	spans := make([]span, 0, len(groups))
	totalPoints := 0
	for _, ig := range groups {
		g, err := root.OpenGroup(ig.name)
		if err != nil {
			r.errorf("cannot open group %s: %v", ig.name, err)
			continue
		}
		s := span{name: ig.name}
		s.min, s.max, s.bounded = checkRedshiftRange(g, ig.name, r)
		totalPoints += checkIntervalDatasets(g, ig.name, r.Kind, r)
		spans = append(spans, s)
	}

	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			if !spans[i].bounded || !spans[j].bounded {
				continue
			}
			if spans[i].max > spans[j].min && spans[j].max > spans[i].min {
				r.warnf("redshift ranges of %s and %s overlap", spans[i].name, spans[j].name)
			}
		}
	}

	r.Valid = len(r.Errors) == 0
	if r.Valid {
		r.NumIntervals = len(spans)
		r.TotalPoints = totalPoints
		for i, s := range spans {
			if i == 0 || s.min < r.RedshiftMin {
				r.RedshiftMin = s.min
			}
			if i == 0 || s.max > r.RedshiftMax {
				r.RedshiftMax = s.max
			}
		}
	}
	return r
}

func checkCosmology(root *hdf5.Group, r *Result) {
	cg, err := root.OpenGroup(cosmologyGroupName)
	if err != nil {
		r.errorf("missing required group: %s", cosmologyGroupName)
		return
	}
	params := []struct {
		name     string
		min, max float64
	}{
		{"OmegaMatter", 0, 1},
		{"OmegaDarkEnergy", 0, 1},
		{"OmegaBaryon", 0, 1},
		{"HubbleConstant", 50, 100},
	}
	for _, p := range params {
		attr := cg.Attr(p.name)
		if attr == nil {
			r.errorf("missing cosmology attribute: %s", p.name)
			continue
		}
		value, err := attr.ReadScalarFloat64()
		if err != nil {
			r.errorf("unreadable cosmology attribute %s: %v", p.name, err)
			continue
		}
		if value < p.min || value > p.max {
			r.warnf("cosmology attribute %s = %g is outside the expected range [%g, %g]",
				p.name, value, p.min, p.max)
		}
	}
}

func checkRedshiftRange(g *hdf5.Group, name string, r *Result) (min, max float64, ok bool) {
	haveMin, haveMax := true, true
	if attr := g.Attr("redshiftMinimum"); attr == nil {
		r.errorf("missing attribute redshiftMinimum in %s", name)
		haveMin = false
	} else if v, err := attr.ReadScalarFloat64(); err != nil {
		r.errorf("unreadable redshiftMinimum in %s: %v", name, err)
		haveMin = false
	} else {
		min = v
	}
	if attr := g.Attr("redshiftMaximum"); attr == nil {
		r.errorf("missing attribute redshiftMaximum in %s", name)
		haveMax = false
	} else if v, err := attr.ReadScalarFloat64(); err != nil {
		r.errorf("unreadable redshiftMaximum in %s: %v", name, err)
		haveMax = false
	} else {
		max = v
	}
	if haveMin && haveMax && min >= max {
		r.errorf("%s: redshiftMinimum (%g) must be below redshiftMaximum (%g)", name, min, max)
		return min, max, false
	}
	return min, max, haveMin && haveMax
}

// checkIntervalDatasets verifies one interval group's datasets and returns
// the number of data points on its halo mass grid.
func checkIntervalDatasets(g *hdf5.Group, name string, kind Kind, r *Result) int {
	names := kind.Datasets()
	columns := make(map[string][]float64, len(names))
	for _, dsName := range names {
		d, err := g.OpenDataset(dsName)
		if err != nil {
			r.errorf("missing dataset %s in %s", dsName, name)
			continue
		}
		values, err := d.ReadFloat64()
		if err != nil {
			r.errorf("unreadable dataset %s in %s: %v", dsName, name, err)
			continue
		}
		columns[dsName] = values
		if !d.HasAttr("description") {
			r.warnf("dataset %s in %s has no description attribute", dsName, name)
		}
		if !d.HasAttr("unitsInSI") {
			r.warnf("dataset %s in %s has no unitsInSI attribute", dsName, name)
		}
	}

	haloMass, haveHalo := columns["massHalo"]
	for _, dsName := range names[1:] {
		values, ok := columns[dsName]
		if !ok {
			continue
		}
		if haveHalo && len(values) != len(haloMass) {
			r.errorf("dataset %s has %d points but massHalo has %d in %s",
				dsName, len(values), len(haloMass), name)
		}
	}

	secondary := kind.Secondary()
	for _, dsName := range []string{"massHalo", secondary} {
		if dsName == "" {
			continue
		}
		if hasNonPositive(columns[dsName]) {
			r.errorf("dataset %s in %s contains non-positive values", dsName, name)
		}
	}
	if secondary != "" {
		for _, suffix := range []string{"Error", "Scatter", "ScatterError"} {
			dsName := secondary + suffix
			if hasNegative(columns[dsName]) {
				r.errorf("dataset %s in %s contains negative values", dsName, name)
			}
		}
		for _, v := range columns[secondary+"Scatter"] {
			if v < 0 || v > 2 {
				r.warnf("dataset %s in %s has scatter outside the typical range [0, 2] dex",
					secondary+"Scatter", name)
				break
			}
		}
	}
	return len(haloMass)
}

func hasNonPositive(values []float64) bool {
	for _, v := range values {
		if v <= 0 {
			return true
		}
	}
	return false
}

func hasNegative(values []float64) bool {
	for _, v := range values {
		if v < 0 {
			return true
		}
	}
	return false
}
