package assemble

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func canonicalEffect(sm lighting.ShadingModel) Effect {
	e := Effect{ShadingModel: sm}
	model, _ := sm.Model()
	if model.Lit() {
		e.Mesh |= Normals
	}
	return e
}

// effectMatrix returns valid effects covering every shading model with and without textures.
func effectMatrix() []Effect {
	var effects []Effect
	for _, sm := range lighting.ShadingModels() {
		e := canonicalEffect(sm)
		effects = append(effects, e)
		e.Mesh |= UVs | Colors
		e.Textures = lighting.AlbedoTex | lighting.EmissiveTex
		effects = append(effects, e)
		if e.Mesh&Normals != 0 {
			e.Mesh |= TangentsBitangents
			e.Textures |= lighting.NormalMap
			if sm == lighting.BRDF {
				e.Textures |= lighting.ThicknessMap
			}
			effects = append(effects, e)
		}
	}
	return effects
}

func checkWellFormed(t *testing.T, src string) {
	t.Helper()
	assert.Equal(t, strings.Count(src, "{"), strings.Count(src, "}"), "unbalanced braces")
	assert.Equal(t, strings.Count(src, "("), strings.Count(src, ")"), "unbalanced parentheses")
	assert.NotContains(t, src, ";;")
	assert.True(t, strings.HasPrefix(src, "#version"))
}

func mainBody(t *testing.T, src string) string {
	t.Helper()
	idx := strings.Index(src, "void main()")
	require.GreaterOrEqual(t, idx, 0, src)
	return src[idx:]
}

func TestAssemblyDeterministic(t *testing.T) {
	for _, e := range effectMatrix() {
		fwd, err := Forward(e)
		require.NoError(t, err, "%+v", e)
		checkWellFormed(t, fwd)
		again, err := Forward(e)
		require.NoError(t, err)
		assert.Equal(t, fwd, again)

		gbuf, err := DeferredGBuffer(e, nil)
		require.NoError(t, err, "%+v", e)
		checkWellFormed(t, gbuf)
		again, err = DeferredGBuffer(e, nil)
		require.NoError(t, err)
		assert.Equal(t, gbuf, again)

		for _, p := range []Pipeline{PipelineForward, PipelineDeferred} {
			vert, err := Vertex(e, p)
			require.NoError(t, err)
			checkWellFormed(t, vert)
		}
	}
}

func TestDeclarationOrder(t *testing.T) {
	e := Effect{ShadingModel: lighting.BRDF, Textures: lighting.AlbedoTex, Mesh: Normals | UVs}
	src, err := Forward(e)
	require.NoError(t, err)
	order := []string{
		"uniform sampler2D uAlbedoTexture;",
		"struct SurfOut",
		"struct Light",
		"uniform Light allLights[8];",
		"out vec4 oFragmentColor;",
		"vec3 DecodeSRGB(",
		"SurfOut ChangeSurfFrag()",
		"vec3 ApplyLight(Light light, SurfOut surfOut, float ambientCo)",
		"void main()",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(src, s)
		require.Greater(t, idx, last, "%q out of order in\n%s", s, src)
		last = idx
	}
}

func TestForwardLightLoop(t *testing.T) {
	src, err := Forward(canonicalEffect(lighting.DiffuseSpecular))
	require.NoError(t, err)
	body := mainBody(t, src)
	for _, want := range []string{
		"SurfOut surfOut = ChangeSurfFrag();",
		"int numLights=8;",
		"float ambientCo = uAmbientStrength;",
		"vec3 res = surfOut.emission;",
		"for (int i = 0; i < numLights; i++)",
		"if (allLights[i].isActive == 0)",
		"continue;",
		"res += ApplyLight(allLights[i], surfOut, ambientCo);",
		"ambientCo = 0.0;",
		"oFragmentColor = vec4(EncodeSRGB(res), surfOut.albedo.a);",
	} {
		assert.Contains(t, body, want)
	}
	// Ambient is applied through ApplyLight once, never next to the loop.
	assert.NotContains(t, body, "surfOut.albedo.rgb * uAmbientStrength")
	assert.Less(t, strings.Index(body, "res += ApplyLight("), strings.Index(body, "ambientCo = 0.0;"))
}

func TestUnlitForward(t *testing.T) {
	src, err := Forward(Effect{ShadingModel: lighting.Unlit, Lighting: lighting.SetupUnlit})
	require.NoError(t, err)
	body := mainBody(t, src)
	assert.NotContains(t, body, "ApplyLight")
	assert.NotContains(t, body, "for (")
	assert.Contains(t, body, "oFragmentColor = vec4(EncodeSRGB(surfOut.albedo.rgb), surfOut.albedo.a);")
	assert.NotContains(t, src, "ApplyLight")
}

func TestEdlForward(t *testing.T) {
	src, err := Forward(canonicalEffect(lighting.Edl))
	require.NoError(t, err)
	body := mainBody(t, src)
	assert.Contains(t, body, "vec3 res = ApplyLight(allLights[0], surfOut, uAmbientStrength);")
	assert.NotContains(t, body, "for (")
	for _, u := range []string{"uniform float uEdlStrength;", "uniform int uEdlNeighbourPx;", "uniform sampler2D uDepthTexture;", "uniform vec2 uScreenParams;"} {
		assert.Contains(t, src, u)
	}
}

var layoutRe = regexp.MustCompile(`layout \(location = (\d+)\) out vec4 (\w+);`)

func TestGBufferLocations(t *testing.T) {
	src, err := DeferredGBuffer(canonicalEffect(lighting.BRDF), nil)
	require.NoError(t, err)
	matches := layoutRe.FindAllStringSubmatch(src, -1)
	var wantNames []string
	for _, rt := range glnames.RenderTargets() {
		if rt.Type != glnames.TargetSsao {
			wantNames = append(wantNames, "o"+rt.Type.String())
		}
	}
	require.Len(t, matches, len(wantNames))
	for i, m := range matches {
		assert.Equal(t, strconv.Itoa(i), m[1])
		assert.Equal(t, wantNames[i], m[2])
	}
	assert.NotContains(t, src, "oSsao")

	// Requested order does not matter, locations stay at their attachment index.
	src, err = DeferredGBuffer(canonicalEffect(lighting.BRDF), []glnames.RenderTargetType{
		glnames.TargetSubsurface, glnames.TargetSsao, glnames.TargetNormal, glnames.TargetPosition,
	})
	require.NoError(t, err)
	matches = layoutRe.FindAllStringSubmatch(src, -1)
	require.Len(t, matches, 3)
	for i, want := range [][2]string{{"0", "oPosition"}, {"2", "oNormal"}, {"6", "oSubsurface"}} {
		assert.Equal(t, want[0], matches[i][1])
		assert.Equal(t, want[1], matches[i][2])
	}
	assert.NotContains(t, src, "oAlbedo")
}

var tagRe = regexp.MustCompile(`oPosition = vec4\(surfOut\.position\.xyz, float\((\d+)\) / 255\.0\);`)

func TestGBufferTagRoundTrip(t *testing.T) {
	for _, sm := range lighting.ShadingModels() {
		src, err := DeferredGBuffer(canonicalEffect(sm), nil)
		require.NoError(t, err)
		m := tagRe.FindStringSubmatch(src)
		require.NotNil(t, m, src)
		tag, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.Equal(t, sm.Tag(), tag)
		// Decode as the lighting pass does.
		got, err := lighting.DecodeTag(float32(tag) / 255)
		require.NoError(t, err)
		assert.Equal(t, sm, got)

		model, _ := sm.Model()
		if model.Lit() {
			assert.Contains(t, src, "oNormal = vec4(normalize(surfOut.normal), 1.0);")
		} else {
			assert.Contains(t, src, "oNormal = vec4(1.0);")
		}
	}
	light, err := DeferredLighting(lighting.DeferredConfig{LightType: lighting.Point})
	require.NoError(t, err)
	assert.Contains(t, light, "int tag = int(round(positionVars.a * 255.0)) & 0xF;")
}

func TestGBufferSpecularPacking(t *testing.T) {
	for _, test := range []struct {
		sm   lighting.ShadingModel
		want string
	}{
		{lighting.BRDF, "oSpecular = vec4(surfOut.roughness, surfOut.metallic, surfOut.specular, surfOut.ior);"},
		{lighting.DiffuseSpecular, "oSpecular = vec4(surfOut.specularStrength, surfOut.shininess, surfOut.roughness, 0.0);"},
		{lighting.Glossy, "oSpecular = vec4(0.0, 0.0, surfOut.roughness, 0.0);"},
		{lighting.DiffuseOnly, "oSpecular = vec4(0.0, 0.0, surfOut.roughness, 0.0);"},
		{lighting.Unlit, "oSpecular = vec4(0.0);"},
		{lighting.Edl, "oSpecular = vec4(surfOut.edlStrength, float(surfOut.edlNeighbourPx) / 255.0, 0.0, 0.0);"},
	} {
		src, err := DeferredGBuffer(canonicalEffect(test.sm), []glnames.RenderTargetType{glnames.TargetSpecular})
		require.NoError(t, err)
		assert.Contains(t, src, test.want, test.sm.String())
		assert.Contains(t, src, "layout (location = 4) out vec4 oSpecular;")
	}
}

func TestInvalidEffects(t *testing.T) {
	for _, sm := range []lighting.ShadingModel{0, 7, 99} {
		src, err := Forward(Effect{ShadingModel: sm, Mesh: Normals})
		assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration)
		assert.Empty(t, src)
		src, err = DeferredGBuffer(Effect{ShadingModel: sm, Mesh: Normals}, nil)
		assert.ErrorIs(t, err, ErrInvalidShadingModel)
		assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration)
		assert.Empty(t, src)
	}
	for _, e := range []Effect{
		{ShadingModel: lighting.BRDF},
		{ShadingModel: lighting.BRDF, Mesh: Normals, Lighting: lighting.SetupGlossy},
		{ShadingModel: lighting.BRDF, Mesh: Normals, Lighting: 1 << 7},
		{ShadingModel: lighting.Glossy, Mesh: Normals | UVs, Textures: lighting.ThicknessMap},
		{ShadingModel: lighting.BRDF, Mesh: Normals, Textures: lighting.AlbedoTex},
		{ShadingModel: lighting.BRDF, Mesh: Normals | UVs, Textures: lighting.NormalMap},
		{ShadingModel: lighting.Unlit, Mesh: 1 << 7},
		{ShadingModel: lighting.Unlit, Version: "330 core"},
	} {
		_, err := Forward(e)
		assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration, "%+v", e)
		_, err = Vertex(e, PipelineForward)
		assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration, "%+v", e)
	}
	e := canonicalEffect(lighting.BRDF)
	for _, targets := range [][]glnames.RenderTargetType{
		{},
		{glnames.TargetSsao},
		{glnames.TargetAlbedo, glnames.TargetAlbedo},
		{glnames.TargetSsao + 1},
	} {
		_, err := DeferredGBuffer(e, targets)
		assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration, "%v", targets)
	}
	_, err := Vertex(e, Pipeline(5))
	assert.Error(t, err)
}

func TestSurfaceFunction(t *testing.T) {
	e := Effect{
		ShadingModel: lighting.BRDF,
		Textures:     lighting.AlbedoTex | lighting.NormalMap | lighting.ThicknessMap | lighting.EmissiveTex,
		Mesh:         Normals | UVs | TangentsBitangents | Colors,
	}
	src, err := Forward(e)
	require.NoError(t, err)
	for _, want := range []string{
		"in vec3 vTangent;",
		"in vec4 vColor;",
		"uniform vec2 uTextureTiles;",
		"uniform sampler2D uThicknessTexture;",
		"vec2 uv = vUV * uTextureTiles;",
		"surfOut.albedo *= vColor;",
		"DecodeSRGB(texColor.rgb), uAlbedoMix)",
		"mat3 TBN = mat3(normalize(vTangent), normalize(vBitangent), surfOut.normal);",
		"surfOut.thickness = texture(uThicknessTexture, uv).r;",
		"DecodeSRGB(texture(uEmissiveTexture, uv).rgb), uEmissiveMix)",
	} {
		assert.Contains(t, src, want)
	}
	assert.Equal(t, 1, strings.Count(src, "vec3 DecodeSRGB("))
}

func TestVertex(t *testing.T) {
	e := Effect{ShadingModel: lighting.DiffuseOnly, Mesh: Normals | UVs | TangentsBitangents | Bones}
	fwd, err := Vertex(e, PipelineForward)
	require.NoError(t, err)
	for _, want := range []string{
		"layout (location = 0) in vec3 aPosition;",
		"layout (location = 1) in vec3 aNormal;",
		"layout (location = 5) in vec2 aUV;",
		"layout (location = 6) in vec4 aTangent;",
		"layout (location = 8) in vec4 aBoneIndex;",
		"uniform mat4 uModelView;",
		"vPosition = (uModelView * vec4(aPosition, 1.0)).xyz;",
		"vNormal = normalize(mat3(uITModelView) * aNormal);",
		"vTangent = normalize(mat3(uITModelView) * aTangent.xyz);",
		"vUV = aUV;",
		"gl_Position = uModelViewProjection * vec4(aPosition, 1.0);",
	} {
		assert.Contains(t, fwd, want)
	}
	def, err := Vertex(e, PipelineDeferred)
	require.NoError(t, err)
	assert.Contains(t, def, "vPosition = (uModel * vec4(aPosition, 1.0)).xyz;")
	assert.NotContains(t, def, "uModelView ")

	quad := FullscreenQuadVertex()
	checkWellFormed(t, quad)
	assert.Contains(t, quad, "layout (location = 0) in vec3 aPosition;")
	assert.Contains(t, quad, "vTexCoords = aPosition.xy * 0.5 + 0.5;")
}

func TestDeferredLighting(t *testing.T) {
	src, err := DeferredLighting(lighting.DeferredConfig{
		LightType: lighting.Parallel, CastShadows: true, NumberOfCascades: 4, DebugCascades: true, Ssao: true,
	})
	require.NoError(t, err)
	checkWellFormed(t, src)
	order := []string{
		"#define NUMBER_OF_CASCADES 4",
		"in vec2 vTexCoords;",
		"struct Light",
		"uniform sampler2D gPosition;",
		"uniform sampler2D gSsao;",
		"uniform Light light;",
		"uniform sampler2DArray ShadowMap;",
		"uniform mat4 LightSpaceMatrices[4];",
		"uniform vec2 ClipPlanes[4];",
		"vec3 CascadeSelection(float viewDepth)",
		"float GetShadow(vec3 fragPos, vec3 normal, vec3 lightDir)",
		"void main()",
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(src, s)
		require.Greater(t, idx, last, "%q out of order in\n%s", s, src)
		last = idx
	}
	_, err = DeferredLighting(lighting.DeferredConfig{LightType: lighting.Legacy, CastShadows: true})
	assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration)
}

func TestPrograms(t *testing.T) {
	e := canonicalEffect(lighting.Glossy)
	e.Version = "#version 460 core"
	prog, err := ForwardProgram(e)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prog.Vertex, "#version 460 core\n"))
	assert.True(t, strings.HasPrefix(prog.Fragment, "#version 460 core\n"))

	prog, err = DeferredGBufferProgram(e, nil)
	require.NoError(t, err)
	assert.Contains(t, prog.Vertex, "uniform mat4 uModel;")
	assert.Contains(t, prog.Fragment, "oPosition")

	prog, err = DeferredLightingProgram(lighting.DeferredConfig{LightType: lighting.Spot})
	require.NoError(t, err)
	assert.Equal(t, FullscreenQuadVertex(), prog.Vertex)

	_, err = ForwardProgram(Effect{ShadingModel: lighting.BRDF})
	assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration)
}

func TestParseEnums(t *testing.T) {
	mesh, err := ParseMeshAttributes("normals", "UVs")
	require.NoError(t, err)
	assert.Equal(t, Normals|UVs, mesh)
	assert.Equal(t, "Normals|UVs", mesh.String())
	_, err = ParseMeshAttributes("Weights")
	assert.ErrorIs(t, err, lighting.ErrInvalidConfiguration)
	p, err := ParsePipeline("Deferred")
	require.NoError(t, err)
	assert.Equal(t, PipelineDeferred, p)
	_, err = ParsePipeline("raytraced")
	assert.Error(t, err)
}
