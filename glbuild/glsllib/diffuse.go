package glsllib

import (
	_ "embed"

	"github.com/soypat/gshade/glbuild"
)

//go:embed lambert.glsl
var lambertSrc []byte

// LambertDiffuse returns the clamped cosine between the normal and light direction:
//
//	float LambertDiffuse(vec3 N, vec3 L)
func LambertDiffuse() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(lambertSrc)
}

//go:embed orennayar.glsl
var orenNayarSrc []byte

// OrenNayarDiffuse is the rough surface diffuse model with the A and B terms:
//
//	float OrenNayarDiffuse(vec3 L, vec3 N, vec3 V, float roughness)
func OrenNayarDiffuse() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(orenNayarSrc)
}

//go:embed disney.glsl
var disneySrc []byte

// DisneyDiffuse is the Burley 2012 diffuse term blended with the
// Hanrahan-Krueger flattened term by the subsurface amount:
//
//	float DisneyDiffuse(float NdotL, float NdotV, float LdotH, float roughness, float subsurface)
func DisneyDiffuse() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(disneySrc, nameSchlickFresnel)
}
