package lighting

import (
	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glbuild/glsllib"
	"github.com/soypat/gshade/glnames"
)

// UVLocal is the tiled texture coordinate declared by the surface function
// whenever a texture is sampled.
const UVLocal = "uv"

// SurfaceFields are the SurfOut members common to every shading model.
var SurfaceFields = []glbuild.StructField{
	{Type: "vec4", Name: "position"},
	{Type: "vec4", Name: "albedo"},
	{Type: "vec3", Name: "normal"},
	{Type: "vec3", Name: "emission"},
}

// Model is the lighting contract of a shading model. The set of implementations is
// closed: each [ShadingModel] maps to exactly one Model through [ShadingModel.Model].
//
// Radiance lines run in a scope where vec3 N, V and L, vec4 albedo and vec3 radiance
// are declared, after the model's locals. They must assign radiance.
type Model interface {
	ShadingModel() ShadingModel
	// SurfaceFields lists the SurfOut members added by the model.
	SurfaceFields() []glbuild.StructField
	// SurfaceLines fill the model members of surfOut inside the surface function.
	SurfaceLines(tex TextureSetup) []string
	// Uniforms read by SurfaceLines.
	Uniforms(tex TextureSetup) []glnames.Key
	// SpecularOutput is the vec4 written to the specular G-Buffer target.
	SpecularOutput() string
	// SubsurfaceOutput is the vec4 written to the subsurface G-Buffer target.
	SubsurfaceOutput() string
	// Lit reports whether the model is shaded by scene lights. Unlit models
	// write a sentinel normal to the G-Buffer and are composited without lighting.
	Lit() bool

	shaders() []glbuild.ShaderObject
	forwardLocals() []string
	deferredLocals() []string
	radianceLines() []string
}

const zeroVec4 = "vec4(0.0)"

func diffuseLines() []string {
	return []string{"float diffuse = roughness > 0.0 ? OrenNayarDiffuse(L, N, V, roughness) : LambertDiffuse(N, L)"}
}

type diffuseSpecularModel struct{}

func (diffuseSpecularModel) ShadingModel() ShadingModel { return DiffuseSpecular }
func (diffuseSpecularModel) Lit() bool                  { return true }

func (diffuseSpecularModel) SurfaceFields() []glbuild.StructField {
	return []glbuild.StructField{
		{Type: "float", Name: "specularStrength"},
		{Type: "float", Name: "shininess"},
		{Type: "float", Name: "roughness"},
	}
}

func (diffuseSpecularModel) SurfaceLines(TextureSetup) []string {
	return []string{
		"surfOut.specularStrength = " + glnames.SpecularStrength,
		"surfOut.shininess = " + glnames.Shininess,
		"surfOut.roughness = " + glnames.Roughness,
	}
}

func (diffuseSpecularModel) Uniforms(TextureSetup) []glnames.Key {
	return []glnames.Key{glnames.KeySpecularStrength, glnames.KeyShininess, glnames.KeyRoughness}
}

func (diffuseSpecularModel) SpecularOutput() string {
	return "vec4(surfOut.specularStrength, surfOut.shininess, surfOut.roughness, 0.0)"
}
func (diffuseSpecularModel) SubsurfaceOutput() string { return zeroVec4 }

func (diffuseSpecularModel) shaders() []glbuild.ShaderObject {
	return []glbuild.ShaderObject{glsllib.LambertDiffuse(), glsllib.OrenNayarDiffuse(), glsllib.SpecularBlinnPhong()}
}

func (diffuseSpecularModel) forwardLocals() []string {
	return []string{
		"float specularStrength = surfOut.specularStrength",
		"float shininess = surfOut.shininess",
		"float roughness = surfOut.roughness",
	}
}

func (diffuseSpecularModel) deferredLocals() []string {
	return []string{
		"float specularStrength = specularVars.x",
		"float shininess = specularVars.y",
		"float roughness = specularVars.z",
	}
}

func (diffuseSpecularModel) radianceLines() []string {
	return append(diffuseLines(),
		"float spec = SpecularBlinnPhong(N, L, V, shininess) * specularStrength",
		"radiance = albedo.rgb * diffuse + vec3(spec)",
	)
}

type diffuseOnlyModel struct{}

func (diffuseOnlyModel) ShadingModel() ShadingModel { return DiffuseOnly }
func (diffuseOnlyModel) Lit() bool                  { return true }

func (diffuseOnlyModel) SurfaceFields() []glbuild.StructField {
	return []glbuild.StructField{{Type: "float", Name: "roughness"}}
}

func (diffuseOnlyModel) SurfaceLines(TextureSetup) []string {
	return []string{"surfOut.roughness = " + glnames.Roughness}
}

func (diffuseOnlyModel) Uniforms(TextureSetup) []glnames.Key {
	return []glnames.Key{glnames.KeyRoughness}
}

func (diffuseOnlyModel) SpecularOutput() string   { return "vec4(0.0, 0.0, surfOut.roughness, 0.0)" }
func (diffuseOnlyModel) SubsurfaceOutput() string { return zeroVec4 }

func (diffuseOnlyModel) shaders() []glbuild.ShaderObject {
	return []glbuild.ShaderObject{glsllib.LambertDiffuse(), glsllib.OrenNayarDiffuse()}
}

func (diffuseOnlyModel) forwardLocals() []string {
	return []string{"float roughness = surfOut.roughness"}
}

func (diffuseOnlyModel) deferredLocals() []string {
	return []string{"float roughness = specularVars.z"}
}

func (diffuseOnlyModel) radianceLines() []string {
	return append(diffuseLines(), "radiance = albedo.rgb * diffuse")
}

// glossyModel is a fully metallic dielectric with a fixed index of refraction.
type glossyModel struct{}

func (glossyModel) ShadingModel() ShadingModel { return Glossy }
func (glossyModel) Lit() bool                  { return true }

func (glossyModel) SurfaceFields() []glbuild.StructField {
	return []glbuild.StructField{{Type: "float", Name: "roughness"}}
}

func (glossyModel) SurfaceLines(TextureSetup) []string {
	return []string{"surfOut.roughness = " + glnames.Roughness}
}

func (glossyModel) Uniforms(TextureSetup) []glnames.Key {
	return []glnames.Key{glnames.KeyRoughness}
}

func (glossyModel) SpecularOutput() string   { return "vec4(0.0, 0.0, surfOut.roughness, 0.0)" }
func (glossyModel) SubsurfaceOutput() string { return zeroVec4 }

func (glossyModel) shaders() []glbuild.ShaderObject {
	return []glbuild.ShaderObject{glsllib.SchlickFresnel(), glsllib.GetF0(), glsllib.FresnelSchlick(), glsllib.BRDFSpecular()}
}

func (glossyModel) forwardLocals() []string {
	return []string{"float roughness = surfOut.roughness"}
}

func (glossyModel) deferredLocals() []string {
	return []string{"float roughness = specularVars.z"}
}

func (glossyModel) radianceLines() []string {
	return []string{
		"float ior = 1.45",
		"float metallic = 1.0",
		"vec3 H = normalize(V + L)",
		"vec3 F0 = GetF0(albedo.rgb, ior, metallic)",
		"vec3 F = FresnelSchlick(F0, max(dot(H, V), 0.0))",
		"vec3 spec = BRDFSpecular(N, V, L, F, roughness)",
		"radiance = spec * max(dot(N, L), 0.0)",
	}
}

type brdfModel struct{}

func (brdfModel) ShadingModel() ShadingModel { return BRDF }
func (brdfModel) Lit() bool                  { return true }

func (brdfModel) SurfaceFields() []glbuild.StructField {
	return []glbuild.StructField{
		{Type: "float", Name: "roughness"},
		{Type: "float", Name: "metallic"},
		{Type: "float", Name: "specular"},
		{Type: "float", Name: "ior"},
		{Type: "float", Name: "subsurface"},
		{Type: "vec3", Name: "subsurfaceColor"},
		{Type: "float", Name: "thickness"},
	}
}

func (brdfModel) SurfaceLines(tex TextureSetup) []string {
	thickness := "1.0"
	if tex&ThicknessMap != 0 {
		thickness = "texture(" + glnames.ThicknessTexture + ", " + UVLocal + ").r"
	}
	return []string{
		"surfOut.roughness = " + glnames.Roughness,
		"surfOut.metallic = " + glnames.Metallic,
		"surfOut.specular = " + glnames.Specular,
		"surfOut.ior = " + glnames.IOR,
		"surfOut.subsurface = " + glnames.Subsurface,
		"surfOut.subsurfaceColor = " + glnames.SubsurfaceColor + ".rgb",
		"surfOut.thickness = " + thickness,
	}
}

func (brdfModel) Uniforms(tex TextureSetup) []glnames.Key {
	keys := []glnames.Key{
		glnames.KeyRoughness, glnames.KeyMetallic, glnames.KeySpecular, glnames.KeyIOR,
		glnames.KeySubsurface, glnames.KeySubsurfaceColor,
	}
	if tex&ThicknessMap != 0 {
		keys = append(keys, glnames.KeyThicknessTexture)
	}
	return keys
}

func (brdfModel) SpecularOutput() string {
	return "vec4(surfOut.roughness, surfOut.metallic, surfOut.specular, surfOut.ior)"
}

func (brdfModel) SubsurfaceOutput() string {
	return "vec4(surfOut.subsurfaceColor, surfOut.subsurface * surfOut.thickness)"
}

func (brdfModel) shaders() []glbuild.ShaderObject {
	return []glbuild.ShaderObject{
		glsllib.SchlickFresnel(), glsllib.GetF0(), glsllib.FresnelSchlick(),
		glsllib.BRDFSpecular(), glsllib.DisneyDiffuse(),
	}
}

func (brdfModel) forwardLocals() []string {
	return []string{
		"float roughness = surfOut.roughness",
		"float metallic = surfOut.metallic",
		"float specular = surfOut.specular",
		"float ior = surfOut.ior",
		"float subsurface = surfOut.subsurface * surfOut.thickness",
		"vec3 subsurfaceColor = surfOut.subsurfaceColor",
	}
}

func (brdfModel) deferredLocals() []string {
	return []string{
		"float roughness = specularVars.x",
		"float metallic = specularVars.y",
		"float specular = specularVars.z",
		"float ior = specularVars.w",
		"float subsurface = subsurfaceVars.a",
		"vec3 subsurfaceColor = subsurfaceVars.rgb",
	}
}

func (brdfModel) radianceLines() []string {
	return []string{
		"vec3 H = normalize(V + L)",
		"float NdotL = max(dot(N, L), 0.0)",
		"float NdotV = max(dot(N, V), 0.0)",
		"float LdotH = max(dot(L, H), 0.0)",
		"vec3 F0 = GetF0(albedo.rgb, ior, metallic)",
		"vec3 F = FresnelSchlick(F0, max(dot(H, V), 0.0))",
		"vec3 spec = BRDFSpecular(N, V, L, F, roughness) * specular",
		"vec3 kD = (vec3(1.0) - F) * (1.0 - metallic)",
		"float diffuse = DisneyDiffuse(NdotL, NdotV, LdotH, roughness, subsurface)",
		"vec3 diffuseColor = mix(albedo.rgb, subsurfaceColor, subsurface * 0.5)",
		"radiance = (kD * diffuseColor * diffuse + spec) * NdotL",
	}
}

type unlitModel struct{}

func (unlitModel) ShadingModel() ShadingModel           { return Unlit }
func (unlitModel) Lit() bool                            { return false }
func (unlitModel) SurfaceFields() []glbuild.StructField { return nil }
func (unlitModel) SurfaceLines(TextureSetup) []string   { return nil }
func (unlitModel) Uniforms(TextureSetup) []glnames.Key  { return nil }
func (unlitModel) SpecularOutput() string               { return zeroVec4 }
func (unlitModel) SubsurfaceOutput() string             { return zeroVec4 }
func (unlitModel) shaders() []glbuild.ShaderObject      { return nil }
func (unlitModel) forwardLocals() []string              { return nil }
func (unlitModel) deferredLocals() []string             { return nil }
func (unlitModel) radianceLines() []string              { return []string{"radiance = albedo.rgb"} }

// edlModel shades point clouds by eye-dome lighting. It ignores scene lights.
type edlModel struct{}

func (edlModel) ShadingModel() ShadingModel { return Edl }
func (edlModel) Lit() bool                  { return false }

func (edlModel) SurfaceFields() []glbuild.StructField {
	return []glbuild.StructField{
		{Type: "float", Name: "edlStrength"},
		{Type: "int", Name: "edlNeighbourPx"},
	}
}

func (edlModel) SurfaceLines(TextureSetup) []string {
	return []string{
		"surfOut.edlStrength = " + glnames.EdlStrength,
		"surfOut.edlNeighbourPx = " + glnames.EdlNeighbourPx,
	}
}

func (edlModel) Uniforms(TextureSetup) []glnames.Key {
	return []glnames.Key{
		glnames.KeyEdlStrength, glnames.KeyEdlNeighbourPx,
		glnames.KeyScreenParams, glnames.KeyClippingPlanes, glnames.KeyDepthTexture,
	}
}

func (edlModel) SpecularOutput() string {
	return "vec4(surfOut.edlStrength, " + EncodeByteExpr("surfOut.edlNeighbourPx") + ", 0.0, 0.0)"
}
func (edlModel) SubsurfaceOutput() string { return zeroVec4 }

func (edlModel) shaders() []glbuild.ShaderObject {
	return []glbuild.ShaderObject{glsllib.LinearizeDepth(), glsllib.EDLResponse(), glsllib.EDLShadingFactor()}
}

// EDL never runs the shared radiance path, see edlApplyLight and deferredEdlBranch.
func (edlModel) forwardLocals() []string  { return nil }
func (edlModel) deferredLocals() []string { return nil }
func (edlModel) radianceLines() []string  { return nil }
