package assemble

import (
	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glbuild/glsllib"
	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
)

const surfaceFuncName = "ChangeSurfFrag"

// varying is a value passed from the vertex to the fragment stage.
type varying struct {
	flag      MeshAttributes // Zero for varyings always present.
	typename  string
	name      string
	attribute glnames.Key
}

// varyings in declaration order. vPosition is in view space for forward programs and
// world space for deferred programs.
var varyings = []varying{
	{typename: "vec3", name: glnames.PositionVarying, attribute: glnames.KeyVertex},
	{flag: Normals, typename: "vec3", name: glnames.NormalVarying, attribute: glnames.KeyNormal},
	{flag: Colors, typename: "vec4", name: glnames.ColorVarying, attribute: glnames.KeyColor},
	{flag: Colors1, typename: "vec4", name: glnames.Color1Varying, attribute: glnames.KeyColor1},
	{flag: Colors2, typename: "vec4", name: glnames.Color2Varying, attribute: glnames.KeyColor2},
	{flag: UVs, typename: "vec2", name: glnames.UVVarying, attribute: glnames.KeyUV},
	{flag: TangentsBitangents, typename: "vec3", name: glnames.TangentVarying, attribute: glnames.KeyTangent},
	{flag: TangentsBitangents, typename: "vec3", name: glnames.BitangentVarying, attribute: glnames.KeyBitangent},
}

func activeVaryings(mesh MeshAttributes) []varying {
	var active []varying
	for _, v := range varyings {
		if v.flag == 0 || mesh&v.flag != 0 {
			active = append(active, v)
		}
	}
	return active
}

// materialUniforms returns the uniforms read by the surface function of e.
func materialUniforms(e Effect) []glnames.Key {
	keys := []glnames.Key{glnames.KeyAlbedo, glnames.KeyEmission}
	if e.Textures&lighting.AlbedoTex != 0 {
		keys = append(keys, glnames.KeyAlbedoTexture, glnames.KeyAlbedoMix)
	}
	if e.Textures&lighting.NormalMap != 0 {
		keys = append(keys, glnames.KeyNormalTexture, glnames.KeyNormalMapStrength)
	}
	if e.Textures&lighting.EmissiveTex != 0 {
		keys = append(keys, glnames.KeyEmissiveTexture, glnames.KeyEmissiveMix)
	}
	if e.Textures != 0 {
		keys = append(keys, glnames.KeyTextureTiles)
	}
	model, _ := e.ShadingModel.Model()
	return append(keys, model.Uniforms(e.Textures)...)
}

// writeSurfaceDecls declares the fragment stage inputs, material uniforms and SurfOut struct.
func writeSurfaceDecls(src *glbuild.Source, e Effect) {
	for _, v := range activeVaryings(e.Mesh) {
		src.In(v.typename, v.name)
	}
	src.Newline()
	writeUniforms(src, materialUniforms(e)...)
	src.Newline()
	model, _ := e.ShadingModel.Model()
	fields := append(append([]glbuild.StructField{}, lighting.SurfaceFields...), model.SurfaceFields()...)
	src.Struct(glnames.SurfaceStruct, fields)
	src.Newline()
}

func writeUniforms(src *glbuild.Source, keys ...glnames.Key) {
	for _, k := range keys {
		entry := glnames.MustDescribe(k)
		src.Uniform(entry.Type, entry.Name)
	}
}

// surfaceShaders returns the surface function of e and the shards it calls:
//
//	SurfOut ChangeSurfFrag()
func surfaceShaders(e Effect) ([]glbuild.ShaderObject, error) {
	model, err := e.ShadingModel.Model()
	if err != nil {
		return nil, err
	}
	var (
		tex  = e.Textures
		uv   = lighting.UVLocal
		body []string
		objs = []glbuild.ShaderObject{{}}
		reqs []string
	)
	body = append(body,
		glnames.SurfaceStruct+" surfOut",
		"surfOut.position = vec4("+glnames.PositionVarying+", 1.0)",
		"surfOut.albedo = "+glnames.Albedo,
	)
	if e.Mesh&Colors != 0 {
		body = append(body, "surfOut.albedo *= "+glnames.ColorVarying)
	}
	if tex != 0 {
		body = append(body, "vec2 "+uv+" = "+glnames.UVVarying+" * "+glnames.TextureTiles)
	}
	if tex&(lighting.AlbedoTex|lighting.EmissiveTex) != 0 {
		decode := glsllib.DecodeSRGB()
		objs = append(objs, decode)
		reqs = append(reqs, decode.Name())
	}
	if tex&lighting.AlbedoTex != 0 {
		body = append(body,
			"vec4 texColor = texture("+glnames.AlbedoTexture+", "+uv+")",
			"surfOut.albedo = vec4(mix(surfOut.albedo.rgb, DecodeSRGB(texColor.rgb), "+glnames.AlbedoMix+"), surfOut.albedo.a * texColor.a)",
		)
	}
	if e.Mesh&Normals != 0 {
		body = append(body, "surfOut.normal = normalize("+glnames.NormalVarying+")")
	} else {
		body = append(body, "surfOut.normal = vec3(0.0, 0.0, 1.0)")
	}
	if tex&lighting.NormalMap != 0 {
		body = append(body,
			"vec3 tangentNormal = texture("+glnames.NormalTexture+", "+uv+").rgb * 2.0 - 1.0",
			"tangentNormal.xy *= "+glnames.NormalMapStrength,
			"mat3 TBN = mat3(normalize("+glnames.TangentVarying+"), normalize("+glnames.BitangentVarying+"), surfOut.normal)",
			"surfOut.normal = normalize(TBN * tangentNormal)",
		)
	}
	body = append(body, "surfOut.emission = "+glnames.Emission+".rgb")
	if tex&lighting.EmissiveTex != 0 {
		body = append(body, "surfOut.emission = mix(surfOut.emission, DecodeSRGB(texture("+glnames.EmissiveTexture+", "+uv+").rgb), "+glnames.EmissiveMix+")")
	}
	body = append(body, model.SurfaceLines(tex)...)
	body = append(body, "return surfOut")

	src, err := glbuild.AppendFunctionDecl(nil, glnames.SurfaceStruct, surfaceFuncName, nil, body)
	if err != nil {
		return nil, err
	}
	objs[0], err = glbuild.MakeShaderFunction(src, reqs...)
	if err != nil {
		return nil, err
	}
	return objs, nil
}

func writePreamble(src *glbuild.Source, version string) {
	src.Raw(version)
	src.Line("precision highp float;")
	src.Newline()
}
