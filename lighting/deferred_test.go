package lighting

import (
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gshade/glbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validDeferredConfigs = []DeferredConfig{
	{LightType: Point},
	{LightType: Point, CastShadows: true},
	{LightType: Parallel},
	{LightType: Parallel, CastShadows: true},
	{LightType: Parallel, CastShadows: true, NumberOfCascades: 4},
	{LightType: Parallel, CastShadows: true, NumberOfCascades: 3, DebugCascades: true, Ssao: true},
	{LightType: Spot, CastShadows: true, Ssao: true},
	{LightType: Legacy},
}

func TestDeferredLightingMain(t *testing.T) {
	for _, cfg := range validDeferredConfigs {
		src, err := DeferredLightingMain(cfg)
		require.NoError(t, err, "%+v", cfg)
		for _, want := range []string{
			"void main()",
			"if (normal == vec3(0.0))",
			"oFragmentColor = uBackgroundColor;",
			"int tag = int(round(positionVars.a * 255.0)) & 0xF;",
			"if (tag == 4)",
			"oFragmentColor = vec4(EncodeSRGB(albedo.rgb), albedo.a);",
			"if (tag == 6)",
			"int edlNeighbourPx = int(round(specularVars.y * 255.0));",
			"if (tag == 1)",
			"else if (tag == 2)",
			"else if (tag == 3)",
			"else if (tag == 5)",
			"vec3 lit = emissive + ambient + (1.0 - shadow) * radiance * att * light.strength * light.intensities.rgb;",
			"oFragmentColor = vec4(EncodeSRGB(lit), 1.0);",
		} {
			assert.Contains(t, src, want, "%+v", cfg)
		}
		// The background sentinel is checked before any other texture is sampled.
		assert.Less(t, strings.Index(src, "vec3(0.0))"), strings.Index(src, "texture(gPosition"))
		assert.Equal(t, cfg.CastShadows, strings.Contains(src, "light.isCastingShadows == 1"), "%+v", cfg)
		assert.Equal(t, cfg.NumberOfCascades > 0, strings.Contains(src, "GetShadow(fragPos, N, L)"), "%+v", cfg)
		assert.Equal(t, cfg.DebugCascades, strings.Contains(src, "lit *= ColorDebugCascades(fragPos);"), "%+v", cfg)
		assert.Equal(t, cfg.Ssao, strings.Contains(src, "texture(gSsao, texCoords).r"), "%+v", cfg)

		again, err := DeferredLightingMain(cfg)
		require.NoError(t, err)
		assert.Equal(t, src, again)

		objs, err := DeferredLightingShaders(cfg)
		require.NoError(t, err)
		_, err = glbuild.FormatFunctions(objs...)
		assert.NoError(t, err, "%+v", cfg)

		uniforms, err := DeferredUniforms(cfg)
		require.NoError(t, err)
		names := map[string]bool{}
		for _, u := range uniforms {
			assert.False(t, names[u.Name], "uniform %s declared twice", u.Name)
			names[u.Name] = true
			if u.Length != 0 {
				assert.Equal(t, cfg.NumberOfCascades, u.Length, u.Name)
			}
		}
	}
}

func TestDeferredShadowDispatch(t *testing.T) {
	src, err := DeferredLightingMain(DeferredConfig{LightType: Point, CastShadows: true})
	require.NoError(t, err)
	assert.Contains(t, src, "ShadowCalculationCubeMap(ShadowCubeMap, fragPos, light.position, uLightFarPlane, N, L, light.bias, PcfKernelHalfSize)")
	assert.Contains(t, src, "float att = AttenuationPointComponent(fragPos, light.position, light.maxDistance);")

	src, err = DeferredLightingMain(DeferredConfig{LightType: Spot, CastShadows: true})
	require.NoError(t, err)
	assert.Contains(t, src, "ShadowCalculation(ShadowMap, LightSpaceMatrix * vec4(fragPos, 1.0), N, L, light.bias, PcfKernelHalfSize)")
	assert.Contains(t, src, "AttenuationConeComponent(L, light.direction")

	src, err = DeferredLightingMain(DeferredConfig{LightType: Legacy})
	require.NoError(t, err)
	assert.Contains(t, src, "vec3 L = V;")
	assert.NotContains(t, src, "isCastingShadows")
}

func TestDeferredConfigValidate(t *testing.T) {
	for _, cfg := range []DeferredConfig{
		{LightType: -1},
		{LightType: numLightTypes},
		{LightType: Legacy, CastShadows: true},
		{LightType: Parallel, NumberOfCascades: 2},
		{LightType: Point, CastShadows: true, NumberOfCascades: 2},
		{LightType: Parallel, CastShadows: true, NumberOfCascades: MaxCascades + 1},
		{LightType: Parallel, CastShadows: true, NumberOfCascades: -1},
		{LightType: Parallel, CastShadows: true, DebugCascades: true},
	} {
		src, err := DeferredLightingMain(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "%+v", cfg)
		assert.Empty(t, src)
		_, err = DeferredUniforms(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
		_, err = DeferredLightingShaders(cfg)
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	}
}

func TestCascadeBlendThreshold(t *testing.T) {
	assert.Equal(t, float32(85), CascadeBlendThreshold(1))
	assert.Equal(t, float32(80), CascadeBlendThreshold(2))
	assert.Equal(t, float32(50), CascadeBlendThreshold(8))
	assert.Equal(t, float32(50), CascadeBlendThreshold(100))

	// Blending begins exactly at the threshold, not before.
	assert.Equal(t, float32(0), CascadeBlendFactor(80, 2))
	assert.Equal(t, float32(0), CascadeBlendFactor(79.9, 2))
	assert.InDelta(t, 0.5, CascadeBlendFactor(90, 2), 1e-6)
	assert.InDelta(t, 1, CascadeBlendFactor(100, 2), 1e-6)

	src := string(CascadeSelection().Source())
	assert.Contains(t, src, "float blendStart=85.0;")
	assert.Contains(t, src, "float blendStep=5.0;")
	assert.Contains(t, src, "float blendFloor=50.0;")
	assert.Contains(t, src, "float threshold = max(blendStart - blendStep * float(idx - 1), blendFloor);")
	assert.Contains(t, src, "percentNormalized = (percent - threshold) / (100.0 - threshold);")
	assert.Contains(t, src, "for (int i = 0; i < NUMBER_OF_CASCADES; i++)")
}

func TestSelectCascade(t *testing.T) {
	planes := []ms2.Vec{{X: 0.1, Y: 10}, {X: 8, Y: 30}, {X: 25, Y: 100}}
	for _, test := range []struct {
		depth         float32
		first, second int
		blending      bool
	}{
		{depth: 5, first: 0, second: -1},
		{depth: 8.2, first: 0, second: 1},
		{depth: 9.5, first: 0, second: 1, blending: true},
		{depth: 20, first: 1, second: -1},
		{depth: 29, first: 1, second: 2, blending: true},
		{depth: 60, first: 2, second: -1},
		{depth: 500, first: 2, second: -1},
	} {
		first, second, blend := SelectCascade(test.depth, planes)
		assert.Equal(t, test.first, first, "depth %g", test.depth)
		assert.Equal(t, test.second, second, "depth %g", test.depth)
		assert.Equal(t, test.blending, blend > 0, "depth %g blend %g", test.depth, blend)
		assert.LessOrEqual(t, blend, float32(1))
	}
}

func TestCascadeClipPlanes(t *testing.T) {
	const near, far = 0.1, 100
	planes, err := CascadeClipPlanes(near, far, 4, 0.75, 0.1)
	require.NoError(t, err)
	require.Len(t, planes, 4)
	assert.Equal(t, float32(near), planes[0].X)
	assert.Equal(t, float32(far), planes[3].Y)
	for i := 1; i < len(planes); i++ {
		assert.Greater(t, planes[i].Y, planes[i-1].Y)
		assert.Less(t, planes[i].X, planes[i-1].Y, "cascades must overlap")
		assert.Greater(t, planes[i].X, planes[i-1].X)
	}
	uniform, err := CascadeClipPlanes(near, far, 2, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 50.05, uniform[0].Y, 1e-3)
	assert.Equal(t, uniform[0].Y, uniform[1].X)

	for _, args := range [][5]float32{
		{0, 10, 2, 0.5, 0},
		{10, 5, 2, 0.5, 0},
		{0.1, 10, 0, 0.5, 0},
		{0.1, 10, MaxCascades + 1, 0.5, 0},
		{0.1, 10, 2, 1.5, 0},
		{0.1, 10, 2, 0.5, 1},
	} {
		_, err := CascadeClipPlanes(args[0], args[1], int(args[2]), args[3], args[4])
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "%v", args)
	}
}
