package glnames

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryComplete(t *testing.T) {
	seen := make(map[string]Key)
	for k := Key(1); k < numKeys; k++ {
		e, err := Describe(k)
		require.NoError(t, err, "key %d", k)
		assert.Equal(t, k, e.Key)
		assert.NotEmpty(t, e.Type, e.Name)
		assert.NoError(t, ValidateIdentifier(e.Name))
		if prev, dup := seen[e.Name]; dup {
			// The shadow map sampler is registered for both 2D and array textures.
			assert.Equal(t, ShadowMap, e.Name, "name %s registered by keys %d and %d", e.Name, prev, k)
		}
		seen[e.Name] = k
	}
	assert.Len(t, Entries(), int(numKeys)-1)
}

func TestLookupErrors(t *testing.T) {
	_, err := Lookup(0)
	assert.ErrorIs(t, err, ErrNameNotFound)
	_, err = Lookup(numKeys + 3)
	assert.ErrorIs(t, err, ErrNameNotFound)
	assert.Panics(t, func() { MustLookup(numKeys) })
	assert.Equal(t, "uModelViewProjection", MustLookup(KeyModelViewProjection))
}

func TestAttribLocations(t *testing.T) {
	locs := make(map[int]bool)
	for _, k := range []Key{KeyVertex, KeyNormal, KeyColor, KeyColor1, KeyColor2, KeyUV, KeyTangent, KeyBitangent, KeyBoneIndex, KeyBoneWeight} {
		loc, err := AttribLocation(k)
		require.NoError(t, err)
		assert.False(t, locs[loc], "location %d repeated", loc)
		locs[loc] = true
	}
	_, err := AttribLocation(KeyAlbedo)
	assert.ErrorIs(t, err, ErrNameNotFound)
}

func TestRenderTargetLocations(t *testing.T) {
	targets := RenderTargets()
	require.Len(t, targets, int(numRenderTargets))
	want := 0
	for i, rt := range targets {
		assert.Equal(t, RenderTargetType(i), rt.Type)
		if rt.Type == TargetSsao {
			assert.False(t, rt.GeometryPass())
			assert.Empty(t, rt.Output)
			continue
		}
		assert.Equal(t, want, rt.Location, rt.Type.String())
		idx, ok := AttachmentIndex(rt.Type)
		assert.True(t, ok)
		assert.Equal(t, want, idx)
		want++
	}
	_, ok := AttachmentIndex(TargetSsao)
	assert.False(t, ok)
	assert.Equal(t, []RenderTargetType{TargetPosition, TargetAlbedo, TargetNormal, TargetDepth, TargetSpecular, TargetEmission, TargetSubsurface}, GeometryPassTargets())

	rt, err := RenderTargetOf(TargetSpecular)
	require.NoError(t, err)
	assert.Equal(t, "gSpecular", rt.Sampler)
	assert.Equal(t, "oSpecular", rt.Output)
	assert.Equal(t, 4, rt.Location)

	// Mutating the returned copy must not alter the table.
	targets[0].Location = 99
	rt, _ = RenderTargetOf(TargetPosition)
	assert.Equal(t, 0, rt.Location)
}

func TestParseRenderTargetType(t *testing.T) {
	for tp := RenderTargetType(0); tp < numRenderTargets; tp++ {
		got, err := ParseRenderTargetType(tp.String())
		require.NoError(t, err)
		assert.Equal(t, tp, got)
	}
	got, err := ParseRenderTargetType("ssao")
	require.NoError(t, err)
	assert.Equal(t, TargetSsao, got)
	_, err = ParseRenderTargetType("Velocity")
	assert.ErrorIs(t, err, ErrNameNotFound)
}

func TestLightNames(t *testing.T) {
	assert.Equal(t, "allLights[0].position", LightArrayField(0, LightPosition))
	assert.Equal(t, "allLights[7].isActive", LightArrayField(NumberOfLightsForward-1, LightIsActive))
	assert.Panics(t, func() { LightArrayField(NumberOfLightsForward, LightBias) })
	assert.Equal(t, "light.isCastingShadows", LightField(LightIsCastingShadows))
	assert.Equal(t, "ClipPlanes[2]", ClipPlanesAt(2))
	assert.Equal(t, "LightSpaceMatrices[0]", LightSpaceMatricesAt(0))
}

func TestValidateEntries(t *testing.T) {
	require.NoError(t, validateEntries(registry[:]))
	entries := []Entry{
		{Key: KeyAlbedo, Name: Albedo, Type: "vec4", Kind: KindUniform, Location: -1},
		{},
		{Key: KeyRoughness, Name: "sample", Type: "float", Kind: KindUniform, Location: -1},
	}
	err := validateEntries(entries)
	assert.ErrorIs(t, err, ErrReservedIdentifier)
	assert.ErrorContains(t, err, "sample")
	assert.NoError(t, validateEntries(entries[:2]))
}

func TestValidateIdentifier(t *testing.T) {
	for _, name := range []string{"surfOut", "uAlbedo", "_tmp", "N2"} {
		assert.NoError(t, ValidateIdentifier(name))
	}
	for _, name := range []string{"", "distance", "sample", "input", "gl_Position", "2x", "a-b", "a__b", "texture"} {
		assert.ErrorIs(t, ValidateIdentifier(name), ErrReservedIdentifier, name)
	}
}
