package priors

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ResolvesEveryDeclaredLeaf(t *testing.T) {
	raw := sampleTree()
	store, err := Load(raw)
	require.NoError(t, err)
	assert.Equal(t, 12, store.Len())

	visited := 0
	err = store.Walk(func(cat, cls, param string, def Definition) error {
		visited++
		leaf := raw[cat].(map[string]any)[cls].(map[string]any)[param].(map[string]any)
		want, issues := RawDefinition{Location: cat, Fields: leaf}.Validate()
		require.Empty(t, issues)

		got, err := store.Resolve(Path{Category: cat, Classes: []string{cls}, Parameter: param})
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s/%s/%s mismatch (-want +got):\n%s", cat, cls, param, diff)
		}
		if diff := cmp.Diff(def, got); diff != "" {
			t.Errorf("walk and resolve disagree (-walk +resolve):\n%s", diff)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, store.Len(), visited)
}

func TestResolve_FallbackPicksFirstDeclaringClass(t *testing.T) {
	store, err := Load(sampleTree())
	require.NoError(t, err)

	path := MustPath("mass_profiles.dark_mass_profiles", "centre_0", "SphericalNFWMCRLudlow", "SphericalNFW")
	res, err := store.ResolveWithSource(path)
	require.NoError(t, err)

	assert.Equal(t, "SphericalNFW", res.Class)
	assert.True(t, res.Fallback())
	assert.Equal(t, StateResolved, res.State())
	assert.Equal(t, -0.5, res.Definition.LowerLimit)
	assert.Equal(t, 0.1, res.Definition.Width.Value)

	wildcard, _ := store.Lookup("mass_profiles.dark_mass_profiles", Wildcard, "centre_0")
	assert.NotEqual(t, wildcard, res.Definition)
}

func TestResolve_WildcardIsLastResort(t *testing.T) {
	store, err := Load(sampleTree())
	require.NoError(t, err)

	res, err := store.ResolveWithSource(MustPath("mass_profiles.dark_mass_profiles", "centre_1", "SphericalNFWMCRLudlow", "SphericalNFW"))
	require.NoError(t, err)
	assert.Equal(t, Wildcard, res.Class)

	res, err = store.ResolveWithSource(MustPath("mass_profiles.dark_mass_profiles", "mass_at_200", "SphericalNFWMCRLudlow", "SphericalNFW"))
	require.NoError(t, err)
	assert.Equal(t, "SphericalNFWMCRLudlow", res.Class)
	assert.False(t, res.Fallback())
}

func TestResolve_LiteralChainSkipsWildcard(t *testing.T) {
	store, err := Load(sampleTree())
	require.NoError(t, err)

	literal := Path{
		Category:  "mass_profiles.dark_mass_profiles",
		Classes:   []string{"SphericalNFWMCRLudlow", "SphericalNFW"},
		Parameter: "centre_1",
	}
	_, err = store.Resolve(literal)
	assert.ErrorIs(t, err, ErrUnknownParameter)

	res, err := store.ResolveWithSource(MustPath(literal.Category, literal.Parameter, literal.Classes...))
	require.NoError(t, err)
	assert.Equal(t, Wildcard, res.Class)
}

func TestResolve_Errors(t *testing.T) {
	store, err := Load(sampleTree())
	require.NoError(t, err)

	_, err = store.Resolve(MustPath("galaxies", "redshift", "Galaxy"))
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = store.Resolve(MustPath("mass_profiles.point_masses", "slope", "PointMass"))
	assert.ErrorIs(t, err, ErrUnknownParameter)
	var rerr *ResolveError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "slope", rerr.Path.Parameter)

	_, err = store.Resolve(Path{Category: "light_profiles", Classes: []string{"EllipticalLightProfile"}})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestResolve_DeterministicAndReadOnly(t *testing.T) {
	store, err := Load(sampleTree())
	require.NoError(t, err)

	path := MustPath("light_profiles", "intensity", "EllipticalSersic", "EllipticalLightProfile")
	first, err := store.Resolve(path)
	require.NoError(t, err)
	second, err := store.Resolve(path)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolve is not deterministic:\n%s", diff)
	}
	assert.True(t, math.IsInf(first.GaussianLimits.Upper, 1))

	first.LowerLimit = 42
	third, err := store.Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestLoad_RejectsInvertedGaussianLimits(t *testing.T) {
	raw := sampleTree()
	raw["light_profiles"].(map[string]any)["EllipticalLightProfile"].(map[string]any)["centre_0"] =
		uniformLeaf(0, 1, "Absolute", 0.2, 1, 0)

	store, err := Load(raw)
	assert.Nil(t, store)
	require.ErrorIs(t, err, ErrMalformedConfig)

	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))
	require.Len(t, lerr.Issues, 1)
	assert.Equal(t, "light_profiles/EllipticalLightProfile/centre_0", lerr.Issues[0].Location)
	assert.Contains(t, lerr.Issues[0].Message, "gaussian_limits")
}

func TestLoad_ReportsEveryIssue(t *testing.T) {
	raw := RawTree{
		"light_profiles": map[string]any{
			"EllipticalLightProfile": map[string]any{
				"centre_0": uniformLeaf(1, 0, "Absolute", 0.2, 0, 1),
				"centre_1": map[string]any{"type": "Uniform", "lower_limit": 0.0, "upper_limit": 1.0},
				"intensity": map[string]any{
					"type":            "Exponential",
					"width_modifier":  map[string]any{"type": "Absolute", "value": 0.1},
					"gaussian_limits": map[string]any{"lower": 0.0, "upper": 1.0},
				},
				"sersic_index": uniformLeaf(0.8, 8, "Absolute", 1.5, 0.8, 8),
			},
		},
	}

	_, err := Load(raw)
	var lerr *LoadError
	require.True(t, errors.As(err, &lerr))

	locations := map[string]bool{}
	for _, issue := range lerr.Issues {
		locations[issue.Location] = true
	}
	assert.True(t, locations["light_profiles/EllipticalLightProfile/centre_0"])
	assert.True(t, locations["light_profiles/EllipticalLightProfile/centre_1"])
	assert.True(t, locations["light_profiles/EllipticalLightProfile/intensity"])
	assert.False(t, locations["light_profiles/EllipticalLightProfile/sersic_index"])
	assert.ErrorIs(t, err, ErrUnsupportedDistribution)
}

func TestLoad_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(leaf map[string]any)
		want   string
	}{
		{"type", func(l map[string]any) { delete(l, "type") }, "missing required field type"},
		{"lower limit", func(l map[string]any) { delete(l, "lower_limit") }, "missing required field lower_limit"},
		{"width type", func(l map[string]any) { delete(l["width_modifier"].(map[string]any), "type") }, "width_modifier.type"},
		{"width value", func(l map[string]any) { delete(l["width_modifier"].(map[string]any), "value") }, "width_modifier.value"},
		{"gaussian upper", func(l map[string]any) { delete(l["gaussian_limits"].(map[string]any), "upper") }, "gaussian_limits.upper"},
		{"width not mapping", func(l map[string]any) { l["width_modifier"] = 0.2 }, "must be a mapping"},
		{"limit not number", func(l map[string]any) { l["upper_limit"] = true }, "not a number"},
		{"negative width", func(l map[string]any) { l["width_modifier"].(map[string]any)["value"] = -0.1 }, "must be positive"},
		{"bad width kind", func(l map[string]any) { l["width_modifier"].(map[string]any)["type"] = "Scaled" }, "unknown width modifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaf := uniformLeaf(0, 1, "Absolute", 0.2, 0, 1)
			tt.mutate(leaf)
			_, err := Load(RawTree{"c": map[string]any{"K": map[string]any{"p": leaf}}})
			require.ErrorIs(t, err, ErrMalformedConfig)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_AcceptsDecoderShapes(t *testing.T) {
	raw := RawTree{
		"c": map[any]any{
			"K": map[any]any{
				"p": map[any]any{
					"type":            "UniformPrior",
					"lower_limit":     0,
					"upper_limit":     "2.5",
					"width_modifier":  map[any]any{"type": "Relative", "value": 0.25},
					"gaussian_limits": map[any]any{"lower": "-inf", "upper": ".inf"},
				},
			},
		},
	}
	store, err := Load(raw)
	require.NoError(t, err)

	def, ok := store.Lookup("c", "K", "p")
	require.True(t, ok)
	assert.Equal(t, KindUniform, def.Kind)
	assert.Equal(t, 2.5, def.UpperLimit)
	assert.Equal(t, Unbounded(), def.GaussianLimits)
	assert.Equal(t, StateValidated, def.State())
}

func TestStore_Introspection(t *testing.T) {
	store, err := Load(sampleTree())
	require.NoError(t, err)

	assert.Equal(t, []string{"light_profiles", "mass_profiles.dark_mass_profiles", "mass_profiles.point_masses"}, store.Categories())
	assert.Equal(t, []string{"*", "SphericalNFW", "SphericalNFWMCRLudlow"}, store.Classes("mass_profiles.dark_mass_profiles"))
	assert.Equal(t, []string{"centre_0", "centre_1", "einstein_radius"}, store.Parameters("mass_profiles.point_masses", "PointMass"))
	assert.Nil(t, store.Classes("nope"))
	assert.Nil(t, store.Parameters("light_profiles", "nope"))

	cats := store.Categories()
	cats[0] = "mutated"
	assert.Equal(t, "light_profiles", store.Categories()[0])
}

func TestNewPath(t *testing.T) {
	p, err := NewPath("light_profiles", "centre_0", "EllipticalSersic", " ", "EllipticalLightProfile")
	require.NoError(t, err)
	assert.Equal(t, []string{"EllipticalSersic", "EllipticalLightProfile", Wildcard}, p.Classes)
	assert.Equal(t, "light_profiles/EllipticalSersic/centre_0", p.Key())

	p, err = NewPath("light_profiles", "centre_0", Wildcard)
	require.NoError(t, err)
	assert.Equal(t, []string{Wildcard}, p.Classes)

	_, err = NewPath("light_profiles", "")
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = NewPath("", "centre_0")
	assert.ErrorIs(t, err, ErrInvalidPath)

	assert.Panics(t, func() { MustPath("", "") })
}
