package relation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Andrew-Robertson/make-SHMR-datasets/hdf5"
)

// Load reads the relation file at path into memory. Interval groups are
// returned sorted by ascending redshift minimum regardless of their
// on-disk numbering.
func Load(path string) (*Dataset, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	root := f.Root()
	ds := &Dataset{Kind: KindUnknown}
	if ds.HaloMassDefinition, err = readStringAttr(root, path, "", "haloMassDefinition"); err != nil {
		return nil, err
	}
	if ds.Label, err = readStringAttr(root, path, "", "label"); err != nil {
		return nil, err
	}
	if ds.Reference, err = readStringAttr(root, path, "", "reference"); err != nil {
		return nil, err
	}

	cg, err := root.OpenGroup(cosmologyGroupName)
	if err != nil {
		return nil, &FormatError{Path: path, Element: cosmologyGroupName, Err: err}
	}
	fields := []struct {
		name string
		dest *float64
	}{
		{"OmegaMatter", &ds.Cosmology.OmegaMatter},
		{"OmegaDarkEnergy", &ds.Cosmology.OmegaDarkEnergy},
		{"OmegaBaryon", &ds.Cosmology.OmegaBaryon},
		{"HubbleConstant", &ds.Cosmology.HubbleConstant},
	}
	for _, fd := range fields {
		if *fd.dest, err = readFloatAttr(cg, path, cosmologyGroupName, fd.name); err != nil {
			return nil, err
		}
	}

	groups, err := intervalGroups(root)
	if err != nil {
		return nil, fmt.Errorf("listing groups in %s: %w", path, err)
	}
	if len(groups) == 0 {
		return nil, &FormatError{Path: path, Err: ErrNoIntervals}
	}
	for _, ig := range groups {
		g, err := root.OpenGroup(ig.name)
		if err != nil {
			return nil, &FormatError{Path: path, Element: ig.name, Err: err}
		}
		kind := detectGroup(g)
		if kind == KindUnknown {
			return nil, &FormatError{Path: path, Element: ig.name, Err: ErrUnknownKind}
		}
		if ds.Kind == KindUnknown {
			ds.Kind = kind
		} else if kind != ds.Kind {
			return nil, &FormatError{Path: path, Element: ig.name, Err: ErrMixedKinds}
		}
		iv, err := loadInterval(g, path, ig.name, kind)
		if err != nil {
			return nil, err
		}
		ds.Intervals = append(ds.Intervals, iv)
	}
	sort.SliceStable(ds.Intervals, func(i, j int) bool {
		return ds.Intervals[i].RedshiftMinimum < ds.Intervals[j].RedshiftMinimum
	})
	return ds, nil
}

func loadInterval(g *hdf5.Group, path, name string, kind Kind) (Interval, error) {
	var iv Interval
	var err error
	if iv.RedshiftMinimum, err = readFloatAttr(g, path, name, "redshiftMinimum"); err != nil {
		return iv, err
	}
	if iv.RedshiftMaximum, err = readFloatAttr(g, path, name, "redshiftMaximum"); err != nil {
		return iv, err
	}

	names := kind.Datasets()
	columns := make([][]float64, len(names))
	for i, dsName := range names {
		d, err := g.OpenDataset(dsName)
		if err != nil {
			return iv, &FormatError{Path: path, Element: name + "/" + dsName, Err: err}
		}
		values, err := d.ReadFloat64()
		if err != nil {
			return iv, &FormatError{Path: path, Element: name + "/" + dsName, Err: err}
		}
		columns[i] = values
	}
	for i := 1; i < len(columns); i++ {
		if len(columns[i]) != len(columns[0]) {
			return iv, &FormatError{
				Path:    path,
				Element: name + "/" + names[i],
				Err:     fmt.Errorf("has %d points, massHalo has %d", len(columns[i]), len(columns[0])),
			}
		}
	}
	iv.MassHalo = columns[0]
	iv.Mass = columns[1]
	iv.MassError = columns[2]
	iv.Scatter = columns[3]
	iv.ScatterError = columns[4]
	return iv, nil
}

func readStringAttr(g *hdf5.Group, path, object, name string) (string, error) {
	attr := g.Attr(name)
	if attr == nil {
		return "", &FormatError{Path: path, Element: attrElement(object, name), Err: errors.New("missing required attribute")}
	}
	value, err := attr.ReadScalarString()
	if err != nil {
		return "", &FormatError{Path: path, Element: attrElement(object, name), Err: err}
	}
	return value, nil
}

func readFloatAttr(g *hdf5.Group, path, object, name string) (float64, error) {
	attr := g.Attr(name)
	if attr == nil {
		return 0, &FormatError{Path: path, Element: attrElement(object, name), Err: errors.New("missing required attribute")}
	}
	value, err := attr.ReadScalarFloat64()
	if err != nil {
		return 0, &FormatError{Path: path, Element: attrElement(object, name), Err: err}
	}
	return value, nil
}

func attrElement(object, name string) string {
	if object == "" {
		return name
	}
	return object + "@" + name
}

// Save writes ds to path in the Galacticus HDF5 layout. The destination
// must carry a .hdf5 extension. The file appears atomically: data is
// written to a temporary file in the same directory and renamed over the
// destination only on success, so a failed save never leaves a partial
// file behind.
func Save(ds *Dataset, path string) error {
	if filepath.Ext(path) != ".hdf5" {
		return &ConfigurationError{Field: "output path", Value: path, Reason: "must end in .hdf5"}
	}
	if ds.Kind != KindStellar && ds.Kind != KindBlackHole {
		return &ConfigurationError{Field: "kind", Value: string(ds.Kind), Reason: "must be stellar or blackHole"}
	}
	if !ValidHaloMassDefinition(ds.HaloMassDefinition) {
		return &ConfigurationError{
			Field:  "haloMassDefinition",
			Value:  ds.HaloMassDefinition,
			Reason: "not an accepted Galacticus halo mass definition",
		}
	}
	if err := ds.Check(); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := writeFile(ds, tmp); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func writeFile(ds *Dataset, path string) error {
	f, err := hdf5.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := populate(f, ds); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func populate(f *hdf5.File, ds *Dataset) error {
	root := f.Root()
	rootAttrs := []struct {
		name  string
		value string
	}{
		{"haloMassDefinition", ds.HaloMassDefinition},
		{"label", ds.Label},
		{"reference", ds.Reference},
	}
	for _, a := range rootAttrs {
		if err := root.SetAttr(a.name, a.value); err != nil {
			return fmt.Errorf("writing attribute %s: %w", a.name, err)
		}
	}

	cg, err := root.CreateGroup(cosmologyGroupName)
	if err != nil {
		return fmt.Errorf("creating cosmology group: %w", err)
	}
	cosmoAttrs := []struct {
		name  string
		value float64
	}{
		{"OmegaMatter", ds.Cosmology.OmegaMatter},
		{"OmegaDarkEnergy", ds.Cosmology.OmegaDarkEnergy},
		{"OmegaBaryon", ds.Cosmology.OmegaBaryon},
		{"HubbleConstant", ds.Cosmology.HubbleConstant},
	}
	for _, a := range cosmoAttrs {
		if err := cg.SetAttr(a.name, a.value); err != nil {
			return fmt.Errorf("writing cosmology attribute %s: %w", a.name, err)
		}
	}

	names := ds.Kind.Datasets()
	for i := range ds.Intervals {
		iv := &ds.Intervals[i]
		groupName := fmt.Sprintf("redshiftInterval%d", i)
		g, err := root.CreateGroup(groupName)
		if err != nil {
			return fmt.Errorf("creating group %s: %w", groupName, err)
		}
		if err := g.SetAttr("redshiftMinimum", iv.RedshiftMinimum); err != nil {
			return fmt.Errorf("writing %s redshiftMinimum: %w", groupName, err)
		}
		if err := g.SetAttr("redshiftMaximum", iv.RedshiftMaximum); err != nil {
			return fmt.Errorf("writing %s redshiftMaximum: %w", groupName, err)
		}
		columns := [][]float64{iv.MassHalo, iv.Mass, iv.MassError, iv.Scatter, iv.ScatterError}
		for j, dsName := range names {
			_, err := g.CreateDataset(dsName, columns[j],
				hdf5.WithAttribute("description", DatasetDescription(dsName)),
				hdf5.WithAttribute("unitsInSI", UnitsInSI(dsName)))
			if err != nil {
				return fmt.Errorf("writing %s/%s: %w", groupName, dsName, err)
			}
		}
	}
	return nil
}
