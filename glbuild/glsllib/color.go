package glsllib

import (
	_ "embed"

	"github.com/soypat/gshade/glbuild"
)

//go:embed srgb_encode.glsl
var encodeSRGBSrc []byte

// EncodeSRGB converts linear color to sRGB. Values under 0.0031308 are scaled linearly.
//
//	vec3 EncodeSRGB(vec3 linearRGB)
func EncodeSRGB() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(encodeSRGBSrc)
}

//go:embed srgb_decode.glsl
var decodeSRGBSrc []byte

// DecodeSRGB converts sRGB color to linear. Values under 0.04045 are scaled linearly.
//
//	vec3 DecodeSRGB(vec3 screenRGB)
func DecodeSRGB() glbuild.ShaderObject {
	return glbuild.MustShaderFunction(decodeSRGBSrc)
}
