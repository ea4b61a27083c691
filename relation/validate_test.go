package relation

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validateBuilt(t *testing.T, mutate func(*fileBuilder)) *Result {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relation.hdf5")
	buildFile(t, path, mutate)
	result, err := Validate(path)
	require.NoError(t, err)
	return result
}

func errorsMentioning(result *Result, substrings ...string) []string {
	var matched []string
	for _, e := range result.Errors {
		all := true
		for _, s := range substrings {
			if !strings.Contains(e, s) {
				all = false
				break
			}
		}
		if all {
			matched = append(matched, e)
		}
	}
	return matched
}

func TestValidateWellFormedFile(t *testing.T) {
	result := validateBuilt(t, nil)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, KindStellar, result.Kind)
	assert.Equal(t, 2, result.NumIntervals)
	assert.Equal(t, 6, result.TotalPoints)
	assert.Equal(t, 0.0, result.RedshiftMin)
	assert.Equal(t, 0.5, result.RedshiftMax)
}

func TestValidateSavedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relation.hdf5")
	require.NoError(t, Save(testDataset(KindBlackHole), path))

	result, err := Validate(path)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, KindBlackHole, result.Kind)
}

func TestValidateNonPositiveHaloMass(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals[0].datasets["massHalo"][1] = -1
	})
	assert.False(t, result.Valid)
	matched := errorsMentioning(result, "massHalo", "redshiftInterval0")
	assert.Len(t, matched, 1)
	assert.Len(t, result.Errors, 1)
}

func TestValidateMissingCosmology(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.cosmology = false
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "cosmology"))
}

func TestValidateMissingCosmologyAttribute(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		delete(b.cosmologyAttrs, "OmegaBaryon")
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "OmegaBaryon"))
}

func TestValidateBadHaloMassDefinition(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.rootAttrs["haloMassDefinition"] = "banana"
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "banana"))
}

func TestValidateOverlappingIntervalsWarns(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals[1].attrs["redshiftMinimum"] = 0.1
	})
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "overlap")
	assert.Contains(t, result.Warnings[0], "redshiftInterval0")
	assert.Contains(t, result.Warnings[0], "redshiftInterval1")
}

func TestValidateMissingTopLevelAttributes(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.rootAttrs["label"] = nil
		b.rootAttrs["reference"] = nil
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "label"))
	assert.NotEmpty(t, errorsMentioning(result, "reference"))
}

func TestValidateLabelWhitespaceWarns(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.rootAttrs["label"] = "has spaces"
	})
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "whitespace")
}

func TestValidateHubbleOutOfRangeWarns(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.cosmologyAttrs["HubbleConstant"] = 30
	})
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "HubbleConstant")
}

func TestValidateMissingDataset(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		delete(b.intervals[1].datasets, "massStellarError")
	})
	assert.False(t, result.Valid)
	matched := errorsMentioning(result, "massStellarError", "redshiftInterval1")
	assert.Len(t, matched, 1)
}

func TestValidateLengthMismatch(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals[0].datasets["massStellarScatter"] = []float64{0.16, 0.16}
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "massStellarScatter", "redshiftInterval0"))
}

func TestValidateNegativeUncertainty(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals[0].datasets["massStellarScatterError"][2] = -0.04
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "massStellarScatterError", "negative"))
}

func TestValidateLargeScatterWarns(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals[0].datasets["massStellarScatter"][0] = 3.5
	})
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "massStellarScatter")
}

func TestValidateMissingRedshiftAttributes(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals[0].attrs["redshiftMaximum"] = nil
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "redshiftMaximum", "redshiftInterval0"))
}

func TestValidateInvertedRedshiftRange(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals[0].attrs["redshiftMinimum"] = 0.4
		b.intervals[0].attrs["redshiftMaximum"] = 0.1
	})
	assert.False(t, result.Valid)
	assert.NotEmpty(t, errorsMentioning(result, "redshiftInterval0", "redshiftMinimum"))
}

func TestValidateNoIntervals(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals = nil
	})
	assert.False(t, result.Valid)
	assert.Equal(t, KindUnknown, result.Kind)
	assert.NotEmpty(t, errorsMentioning(result, "interval"))
}

func TestValidateUnrecognizedRelation(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		for i := range b.intervals {
			b.intervals[i].datasets = map[string][]float64{
				"massHalo": {1e11, 1e12, 1e13},
			}
		}
	})
	assert.False(t, result.Valid)
	assert.Equal(t, KindUnknown, result.Kind)
}

func TestValidateMissingDatasetAttributesWarns(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.intervals = b.intervals[:1]
		b.intervals[0].noDatasetAttrs = true
	})
	assert.True(t, result.Valid)
	// One description and one unitsInSI warning per dataset.
	assert.Len(t, result.Warnings, 10)
}

func TestValidateAccumulatesFindings(t *testing.T) {
	result := validateBuilt(t, func(b *fileBuilder) {
		b.rootAttrs["haloMassDefinition"] = "banana"
		b.cosmology = false
		delete(b.intervals[0].datasets, "massStellar")
		b.intervals[1].datasets["massHalo"][0] = 0
	})
	assert.False(t, result.Valid)
	// All independent problems are reported in a single run.
	assert.GreaterOrEqual(t, len(result.Errors), 4)
}

func TestValidateIsDeterministic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relation.hdf5")
	buildFile(t, path, func(b *fileBuilder) {
		b.rootAttrs["haloMassDefinition"] = "banana"
		b.intervals[1].attrs["redshiftMinimum"] = 0.1
	})

	first, err := Validate(path)
	require.NoError(t, err)
	second, err := Validate(path)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated validation differed:\n%s", diff)
	}
}

func TestValidateUnopenableFile(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "absent.hdf5"))
	require.Error(t, err)
}

func TestDetectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "relation.hdf5")
	require.NoError(t, Save(testDataset(KindBlackHole), path))

	kind, err := DetectFile(path)
	require.NoError(t, err)
	assert.Equal(t, KindBlackHole, kind)
}
