package priors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_Build(t *testing.T) {
	f := NewFactory(nil)

	def, err := NewUniform(0, 1, WidthModifier{Kind: WidthAbsolute, Value: 0.2}, Limits{0, 1})
	require.NoError(t, err)
	prior, err := f.Build(def)
	require.NoError(t, err)
	assert.Equal(t, Prior{Kind: KindUniform, Low: 0, High: 1}, prior)
	assert.True(t, prior.Contains(0.5))
	assert.False(t, prior.Contains(1.5))
	assert.False(t, prior.Contains(math.NaN()))

	def, err = NewGaussian(0.1, 0.3, WidthModifier{Kind: WidthRelative, Value: 0.5}, Unbounded())
	require.NoError(t, err)
	prior, err = f.Build(def)
	require.NoError(t, err)
	assert.Equal(t, KindGaussian, prior.Kind)
	assert.Equal(t, 0.1, prior.Mean)
	assert.Equal(t, 0.3, prior.Sigma)
	assert.True(t, math.IsInf(prior.Bounds().Lower, -1))
	assert.Contains(t, prior.String(), "Gaussian(mean=0.1")
}

func TestFactory_UnsupportedDistribution(t *testing.T) {
	_, err := NewFactory(nil).Build(Definition{Width: WidthModifier{Kind: WidthAbsolute, Value: 1}})
	assert.ErrorIs(t, err, ErrUnsupportedDistribution)

	_, err = NewFactory(nil).Build(Definition{Kind: Kind(99)})
	assert.ErrorIs(t, err, ErrUnsupportedDistribution)
}

func TestFactory_RejectsInvalidDefinition(t *testing.T) {
	_, err := NewFactory(nil).Build(Definition{
		Kind:       KindUniform,
		LowerLimit: 1,
		UpperLimit: 0,
		Width:      WidthModifier{Kind: WidthAbsolute, Value: 0.2},
	})
	assert.ErrorIs(t, err, ErrMalformedConfig)
}

func TestFactory_BuildAll(t *testing.T) {
	store, err := Load(sampleTree())
	require.NoError(t, err)
	f := NewFactory(store)

	paths := []Path{
		MustPath("light_profiles", "centre_0", "EllipticalSersic", "EllipticalLightProfile"),
		MustPath("light_profiles", "intensity", "EllipticalSersic", "EllipticalLightProfile"),
		MustPath("light_profiles", "effective_radius", "EllipticalSersic", "EllipticalLightProfile"),
	}
	priors, err := f.BuildAll(paths)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownParameter)
	assert.Contains(t, err.Error(), "effective_radius")

	require.Len(t, priors, 2)
	assert.Equal(t, KindLogUniform, priors[paths[1].Key()].Kind)
	assert.Equal(t, 1e-6, priors[paths[1].Key()].Low)

	_, err = NewFactory(nil).BuildPath(paths[0])
	assert.Error(t, err)
}
