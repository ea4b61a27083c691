package relation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/Andrew-Robertson/make-SHMR-datasets/hdf5"
)

const cosmologyGroupName = "cosmology"

var intervalNamePattern = regexp.MustCompile(`^redshiftInterval([0-9]+)$`)

// intervalGroup pairs an on-disk interval group name with its numeric
// suffix.
type intervalGroup struct {
	name  string
	index int
}

// intervalGroups lists the redshiftInterval<N> groups in the file root,
// sorted by numeric suffix. Numbering may start at 0 or 1 and may contain
// gaps.
func intervalGroups(root *hdf5.Group) ([]intervalGroup, error) {
	members, err := root.Members()
	if err != nil {
		return nil, err
	}
	var groups []intervalGroup
	for _, name := range members {
		m := intervalNamePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		groups = append(groups, intervalGroup{name: name, index: index})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].index < groups[j].index
	})
	return groups, nil
}

// detectGroup probes one interval group for its secondary mass dataset.
func detectGroup(g *hdf5.Group) Kind {
	if _, err := g.OpenDataset(KindStellar.Secondary()); err == nil {
		return KindStellar
	}
	if _, err := g.OpenDataset(KindBlackHole.Secondary()); err == nil {
		return KindBlackHole
	}
	return KindUnknown
}

// Detect inspects the lowest-numbered interval group and reports which mass
// relation the file encodes. Files without interval groups, or whose first
// interval carries no recognizable secondary mass dataset, detect as
// KindUnknown.
func Detect(f *hdf5.File) Kind {
	groups, err := intervalGroups(f.Root())
	if err != nil || len(groups) == 0 {
		return KindUnknown
	}
	g, err := f.Root().OpenGroup(groups[0].name)
	if err != nil {
		return KindUnknown
	}
	return detectGroup(g)
}

// DetectFile opens the file at path and reports its relation kind.
func DetectFile(path string) (Kind, error) {
	f, err := hdf5.Open(path)
	if err != nil {
		return KindUnknown, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return Detect(f), nil
}
