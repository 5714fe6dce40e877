// Package glsllib is a catalog of self-contained GLSL lighting functions.
// Every function returns a shard whose name is unique within the catalog and
// whose dependencies are declared so that a [glbuild.Programmer] writes them in order.
package glsllib

import "github.com/soypat/gshade/glbuild"

// All returns every shard in the catalog.
func All() []glbuild.ShaderObject {
	return []glbuild.ShaderObject{
		AttenuationPoint(),
		AttenuationCone(),
		LambertDiffuse(),
		OrenNayarDiffuse(),
		DisneyDiffuse(),
		SchlickFresnel(),
		GetF0(),
		FresnelSchlick(),
		BRDFSpecular(),
		SpecularBlinnPhong(),
		EncodeSRGB(),
		DecodeSRGB(),
		LinearizeDepth(),
		EDLResponse(),
		EDLShadingFactor(),
		ShadowCalculation(),
		ShadowCalculationCascaded(),
		ShadowCalculationCubeMap(),
	}
}
