package glsllib

import (
	_ "embed"
	"sync"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshade/glbuild"
)

// CubeShadowOffsets are the sample directions of the cube map PCF kernel.
// They are scaled by the kernel half size in [ShadowCalculationCubeMap].
var CubeShadowOffsets = [20]ms3.Vec{
	{X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1}, {X: -1, Y: 1, Z: -1},
	{X: 1, Y: 1, Z: 0}, {X: 1, Y: -1, Z: 0}, {X: -1, Y: -1, Z: 0}, {X: -1, Y: 1, Z: 0},
	{X: 1, Y: 0, Z: 1}, {X: -1, Y: 0, Z: 1}, {X: 1, Y: 0, Z: -1}, {X: -1, Y: 0, Z: -1},
	{X: 0, Y: 1, Z: 1}, {X: 0, Y: -1, Z: 1}, {X: 0, Y: -1, Z: -1}, {X: 0, Y: 1, Z: -1},
}

//go:embed shadow2d.glsl
var shadow2DSrc []byte

// ShadowCalculation samples a 2D shadow map with a square PCF kernel. Returns 1 for fully shadowed fragments.
//
//	float ShadowCalculation(sampler2D shadowMap, vec4 fragPosLightSpace, vec3 normal, vec3 lightDir, float bias, float pcfKernelHalfSize)
func ShadowCalculation() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(shadow2DSrc)
}

//go:embed shadowcascaded.glsl
var shadowCascadedSrc []byte

// ShadowCalculationCascaded samples one layer of a cascaded shadow map array with a square PCF kernel.
//
//	float ShadowCalculationCascaded(sampler2DArray shadowMap, vec4 fragPosLightSpace, int layer, vec3 normal, vec3 lightDir, float bias, float pcfKernelHalfSize)
func ShadowCalculationCascaded() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(shadowCascadedSrc)
}

var shadowCubeMap = sync.OnceValue(func() glbuild.ShaderObject {
	offsets := glbuild.AppendVec3SliceDecl(nil, "sampleOffsetDirections", CubeShadowOffsets[:])
	src, err := glbuild.AppendFunctionDecl(nil, "float", "ShadowCalculationCubeMap",
		[]string{"samplerCube shadowMap", "vec3 fragPos", "vec3 lightPos", "float farPlane", "vec3 normal", "vec3 lightDir", "float bias", "float pcfKernelHalfSize"},
		[]string{
			string(offsets),
			"vec3 fragToLight = fragPos - lightPos",
			"float currentDepth = length(fragToLight)",
			"float thisBias = max(bias * (1.0 - dot(normal, lightDir)), bias / 100.0)",
			"float diskRadius = pcfKernelHalfSize * (1.0 + currentDepth / farPlane) / 25.0",
			"float shadow = 0.0",
			"for (int i = 0; i < 20; i++)",
			"{",
			"float closestDepth = texture(shadowMap, fragToLight + sampleOffsetDirections[i] * diskRadius).r * farPlane",
			"if (currentDepth - thisBias > closestDepth)",
			"{",
			"shadow += 1.0",
			"}",
			"}",
			"return shadow / 20.0",
		})
	if err != nil {
		panic(err)
	}
	return glbuild.MustShaderFunction(src)
})

// ShadowCalculationCubeMap samples an omnidirectional shadow cube map storing
// distance/farPlane using the 20 [CubeShadowOffsets]:
//
//	float ShadowCalculationCubeMap(samplerCube shadowMap, vec3 fragPos, vec3 lightPos, float farPlane, vec3 normal, vec3 lightDir, float bias, float pcfKernelHalfSize)
func ShadowCalculationCubeMap() glbuild.ShaderObject { return shadowCubeMap() }
