package relation

import (
	"regexp"
	"strings"
)

// Kind identifies which mass relation a dataset encodes.
type Kind string

const (
	// KindStellar marks a stellar mass - halo mass relation.
	KindStellar Kind = "stellar"
	// KindBlackHole marks a black hole mass - halo mass relation.
	KindBlackHole Kind = "blackHole"
	// KindUnknown is reported when no recognizable secondary mass dataset
	// is present.
	KindUnknown Kind = "unknown"
)

// SolarMassKg is the unitsInSI value carried by mass-valued datasets.
const SolarMassKg = 1.98847e30

// Secondary returns the name of the secondary mass dataset for this kind,
// or "" for KindUnknown.
func (k Kind) Secondary() string {
	switch k {
	case KindStellar:
		return "massStellar"
	case KindBlackHole:
		return "massBlackHole"
	}
	return ""
}

// Datasets returns the five dataset names an interval group of this kind
// must contain, massHalo first. For KindUnknown only massHalo is returned.
func (k Kind) Datasets() []string {
	sec := k.Secondary()
	if sec == "" {
		return []string{"massHalo"}
	}
	return []string{
		"massHalo",
		sec,
		sec + "Error",
		sec + "Scatter",
		sec + "ScatterError",
	}
}

// Describe returns the human-readable name of the relation.
func (k Kind) Describe() string {
	switch k {
	case KindStellar:
		return "stellar mass - halo mass relation"
	case KindBlackHole:
		return "black hole mass - halo mass relation"
	}
	return "unknown relation"
}

var datasetDescriptions = map[string]string{
	"massHalo":                  "Halo mass",
	"massStellar":               "Median stellar mass at fixed halo mass",
	"massStellarError":          "Uncertainty on the median stellar mass",
	"massStellarScatter":        "Scatter in log10 stellar mass at fixed halo mass",
	"massStellarScatterError":   "Uncertainty on the scatter in log10 stellar mass",
	"massBlackHole":             "Median black hole mass at fixed halo mass",
	"massBlackHoleError":        "Uncertainty on the median black hole mass",
	"massBlackHoleScatter":      "Scatter in log10 black hole mass at fixed halo mass",
	"massBlackHoleScatterError": "Uncertainty on the scatter in log10 black hole mass",
}

// DatasetDescription returns the description attribute written for the
// named dataset.
func DatasetDescription(name string) string {
	return datasetDescriptions[name]
}

// UnitsInSI returns the unitsInSI attribute written for the named dataset.
// Mass-valued datasets are in solar masses; scatter quantities are in dex
// and carry a unit of 1.
func UnitsInSI(name string) float64 {
	if strings.Contains(name, "Scatter") {
		return 1.0
	}
	return SolarMassKg
}

var haloMassDefinitions = map[string]bool{
	"virial":                true,
	"spherical collapse":    true,
	"Bryan & Norman (1998)": true,
}

var overdensityDefinition = regexp.MustCompile(`^[0-9]+ \* (mean|critical) density$`)

// ValidHaloMassDefinition reports whether definition is one Galacticus
// accepts: a named definition or an overdensity of the form
// "<N> * mean density" or "<N> * critical density".
func ValidHaloMassDefinition(definition string) bool {
	return haloMassDefinitions[definition] || overdensityDefinition.MatchString(definition)
}
