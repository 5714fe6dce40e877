package glsllib

import (
	_ "embed"

	"github.com/soypat/gshade/glbuild"
)

//go:embed attenuation_point.glsl
var attenuationPointSrc []byte

// AttenuationPoint is the distance falloff of point and spot lights. The normalized
// distance is squared and then squared again, giving a quartic falloff:
//
//	float AttenuationPointComponent(vec3 fragPos, vec3 lightPos, float maxDistance)
func AttenuationPoint() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(attenuationPointSrc)
}

//go:embed attenuation_cone.glsl
var attenuationConeSrc []byte

// AttenuationCone is the linear spot light falloff between the cosines of the outer and inner cone angles.
// lightDir points from the surface to the light.
//
//	float AttenuationConeComponent(vec3 lightDir, vec3 coneDirection, float outerConeAngle, float innerConeAngle)
func AttenuationCone() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(attenuationConeSrc)
}
