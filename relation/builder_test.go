package relation

import (
	"sort"
	"testing"

	"github.com/Andrew-Robertson/make-SHMR-datasets/hdf5"
)

// builderInterval describes one interval group written by buildFile. Tests
// mutate it to produce files the codec itself refuses to write.
type builderInterval struct {
	groupName      string
	attrs          map[string]interface{}
	datasets       map[string][]float64
	noDatasetAttrs bool
}

// fileBuilder assembles arbitrary, possibly malformed, relation files
// directly through the hdf5 layer. Attribute values set to nil are
// omitted.
type fileBuilder struct {
	rootAttrs      map[string]interface{}
	cosmology      bool
	cosmologyAttrs map[string]float64
	intervals      []builderInterval
}

func defaultBuilder() *fileBuilder {
	makeInterval := func(name string, zmin, zmax float64) builderInterval {
		return builderInterval{
			groupName: name,
			attrs: map[string]interface{}{
				"redshiftMinimum": zmin,
				"redshiftMaximum": zmax,
			},
			datasets: map[string][]float64{
				"massHalo":                {1e11, 1e12, 1e13},
				"massStellar":             {1e9, 3e10, 1e11},
				"massStellarError":        {0.1, 0.1, 0.1},
				"massStellarScatter":      {0.16, 0.16, 0.16},
				"massStellarScatterError": {0.04, 0.04, 0.04},
			},
		}
	}
	return &fileBuilder{
		rootAttrs: map[string]interface{}{
			"haloMassDefinition": "virial",
			"label":              "test_relation",
			"reference":          "Test reference (2024)",
		},
		cosmology: true,
		cosmologyAttrs: map[string]float64{
			"OmegaMatter":     0.3111,
			"OmegaDarkEnergy": 0.6889,
			"OmegaBaryon":     0.04897,
			"HubbleConstant":  67.66,
		},
		intervals: []builderInterval{
			makeInterval("redshiftInterval0", 0.0, 0.2),
			makeInterval("redshiftInterval1", 0.2, 0.5),
		},
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildFile writes a relation file at path, applying mutate to the default
// valid layout first.
func buildFile(t *testing.T, path string, mutate func(*fileBuilder)) {
	t.Helper()
	b := defaultBuilder()
	if mutate != nil {
		mutate(b)
	}

	f, err := hdf5.Create(path)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer f.Close()
	root := f.Root()

	for _, name := range sortedKeys(b.rootAttrs) {
		value := b.rootAttrs[name]
		if value == nil {
			continue
		}
		if err := root.SetAttr(name, value); err != nil {
			t.Fatalf("SetAttr %s failed: %v", name, err)
		}
	}

	if b.cosmology {
		cg, err := root.CreateGroup("cosmology")
		if err != nil {
			t.Fatalf("CreateGroup cosmology failed: %v", err)
		}
		for _, name := range sortedKeys(b.cosmologyAttrs) {
			if err := cg.SetAttr(name, b.cosmologyAttrs[name]); err != nil {
				t.Fatalf("SetAttr %s failed: %v", name, err)
			}
		}
	}

	for i := range b.intervals {
		iv := &b.intervals[i]
		g, err := root.CreateGroup(iv.groupName)
		if err != nil {
			t.Fatalf("CreateGroup %s failed: %v", iv.groupName, err)
		}
		for _, name := range sortedKeys(iv.attrs) {
			value := iv.attrs[name]
			if value == nil {
				continue
			}
			if err := g.SetAttr(name, value); err != nil {
				t.Fatalf("SetAttr %s failed: %v", name, err)
			}
		}
		for _, name := range sortedKeys(iv.datasets) {
			opts := []hdf5.DatasetOption{
				hdf5.WithAttribute("description", DatasetDescription(name)),
				hdf5.WithAttribute("unitsInSI", UnitsInSI(name)),
			}
			if iv.noDatasetAttrs {
				opts = nil
			}
			if _, err := g.CreateDataset(name, iv.datasets[name], opts...); err != nil {
				t.Fatalf("CreateDataset %s failed: %v", name, err)
			}
		}
	}
}
