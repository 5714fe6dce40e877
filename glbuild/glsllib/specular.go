package glsllib

import (
	_ "embed"

	"github.com/soypat/gshade/glbuild"
)

const (
	nameSchlickFresnel = "SchlickFresnel"
	nameGetF0          = "GetF0"
)

//go:embed schlick.glsl
var schlickSrc []byte

// SchlickFresnel returns the Schlick weight (1-u)^5:
//
//	float SchlickFresnel(float u)
func SchlickFresnel() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(schlickSrc)
}

//go:embed getf0.glsl
var getF0Src []byte

// GetF0 returns the base reflectance of a surface from its index of refraction,
// blending towards the albedo as the surface becomes metallic:
//
//	vec3 GetF0(vec3 albedo, float ior, float metallic)
func GetF0() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(getF0Src)
}

//go:embed fresnel.glsl
var fresnelSrc []byte

// FresnelSchlick returns the Schlick approximation of the Fresnel reflectance for base reflectance F0:
//
//	vec3 FresnelSchlick(vec3 F0, float cosTheta)
func FresnelSchlick() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(fresnelSrc, nameSchlickFresnel)
}

//go:embed brdfspecular.glsl
var brdfSpecularSrc []byte

// BRDFSpecular is the Cook-Torrance specular term with GGX distribution and
// Schlick-Smith geometry. The Fresnel term F is computed by the caller with
// [SchlickFresnel] and [GetF0], which are required so that they are always
// emitted alongside it:
//
//	vec3 BRDFSpecular(vec3 N, vec3 V, vec3 L, vec3 F, float roughness)
func BRDFSpecular() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(brdfSpecularSrc, nameSchlickFresnel, nameGetF0)
}

//go:embed blinnphong.glsl
var blinnPhongSrc []byte

// SpecularBlinnPhong returns the Blinn-Phong specular highlight of the half vector between L and V:
//
//	float SpecularBlinnPhong(vec3 N, vec3 L, vec3 V, float shininess)
func SpecularBlinnPhong() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(blinnPhongSrc)
}
