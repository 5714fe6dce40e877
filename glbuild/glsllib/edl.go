package glsllib

import (
	_ "embed"
	"sync"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/gshade/glbuild"
)

const (
	nameLinearizeDepth = "LinearizeDepth"
	nameEDLResponse    = "EDLResponse"
)

// EDLNeighbours are the pixel offsets sampled around a fragment by [EDLResponse].
var EDLNeighbours = [8]ms2.Vec{
	{X: -1, Y: -1}, {X: -1, Y: 0}, {X: -1, Y: 1},
	{X: 0, Y: -1}, {X: 0, Y: 1},
	{X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
}

//go:embed linearizedepth.glsl
var linearizeDepthSrc []byte

// LinearizeDepth converts a depth buffer value to view distance. clippingPlanes holds (near, far).
//
//	float LinearizeDepth(float depth, vec2 clippingPlanes)
func LinearizeDepth() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(linearizeDepthSrc)
}

var edlResponse = sync.OnceValue(func() glbuild.ShaderObject {
	offsets := glbuild.AppendVec2SliceDecl(nil, "neighbours", EDLNeighbours[:])
	src, err := glbuild.AppendFunctionDecl(nil, "float", nameEDLResponse,
		[]string{"float pixelSize", "float linearDepth", "vec2 fragCoord", "vec2 screenParams", "sampler2D depthTex", "vec2 clippingPlanes"},
		[]string{
			string(offsets),
			"float logDepth = log2(linearDepth)",
			"float response = 0.0",
			"for (int i = 0; i < 8; i++)",
			"{",
			"vec2 uv = (fragCoord + neighbours[i] * pixelSize) / screenParams",
			"float neighbourDepth = " + nameLinearizeDepth + "(texture(depthTex, uv).r, clippingPlanes)",
			"response += max(0.0, logDepth - log2(neighbourDepth))",
			"}",
			"return response / 8.0",
		})
	if err != nil {
		panic(err)
	}
	return glbuild.MustShaderFunction(src, nameLinearizeDepth)
})

// EDLResponse is the mean positive log2 depth difference between a fragment and its
// eight neighbours at pixelSize pixels distance:
//
//	float EDLResponse(float pixelSize, float linearDepth, vec2 fragCoord, vec2 screenParams, sampler2D depthTex, vec2 clippingPlanes)
func EDLResponse() glbuild.ShaderObject { return edlResponse() }

//go:embed edlshading.glsl
var edlShadingSrc []byte

// EDLShadingFactor is the eye-dome lighting factor exp(-response*300*strength):
//
//	float EDLShadingFactor(float edlStrength, int pixelSize, float linearDepth, vec2 fragCoord, vec2 screenParams, sampler2D depthTex, vec2 clippingPlanes)
func EDLShadingFactor() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(edlShadingSrc, nameEDLResponse)
}
