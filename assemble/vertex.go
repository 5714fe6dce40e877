package assemble

import (
	"fmt"

	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glnames"
)

// Vertex assembles the vertex stage feeding the fragment stage of e for pipeline p.
// Forward programs pass view space positions and normals, deferred programs world space.
func Vertex(e Effect, p Pipeline) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	var position, normalMatrix string
	switch p {
	case PipelineForward:
		position, normalMatrix = glnames.ModelView, glnames.ITModelView
	case PipelineDeferred:
		position, normalMatrix = glnames.Model, glnames.ITModel
	default:
		return "", fmt.Errorf("vertex stage: unknown %s", p)
	}

	var src glbuild.Source
	writePreamble(&src, e.version())
	attribs := []glnames.Key{glnames.KeyVertex}
	for _, v := range activeVaryings(e.Mesh)[1:] {
		attribs = append(attribs, v.attribute)
	}
	if e.Mesh&Bones != 0 {
		attribs = append(attribs, glnames.KeyBoneIndex, glnames.KeyBoneWeight)
	}
	for _, k := range attribs {
		entry := glnames.MustDescribe(k)
		src.LayoutIn(entry.Location, entry.Type, entry.Name)
	}
	src.Newline()
	writeUniforms(&src, glnames.KeyModelViewProjection)
	src.Uniform("mat4", position)
	src.Uniform("mat4", normalMatrix)
	src.Newline()
	for _, v := range activeVaryings(e.Mesh) {
		src.Out(v.typename, v.name)
	}
	src.Newline()

	normalMat := "mat3(" + normalMatrix + ")"
	body := []string{
		glnames.PositionVarying + " = (" + position + " * vec4(" + glnames.VertexAttrib + ", 1.0)).xyz",
	}
	for _, v := range activeVaryings(e.Mesh)[1:] {
		attrib := glnames.MustLookup(v.attribute)
		switch v.flag {
		case Normals, TangentsBitangents:
			if v.attribute == glnames.KeyTangent {
				attrib += ".xyz"
			}
			body = append(body, v.name+" = normalize("+normalMat+" * "+attrib+")")
		default:
			body = append(body, v.name+" = "+attrib)
		}
	}
	body = append(body, "gl_Position = "+glnames.ModelViewProjection+" * vec4("+glnames.VertexAttrib+", 1.0)")
	src.Main(body)
	if err := src.Err(); err != nil {
		return "", fmt.Errorf("vertex %s: %w", p, err)
	}
	return src.String(), nil
}

// FullscreenQuadVertex returns the vertex stage of the deferred lighting pass. It
// expects a quad spanning normalized device coordinates.
func FullscreenQuadVertex() string {
	var src glbuild.Source
	writePreamble(&src, glbuild.VersionStr)
	vertex := glnames.MustDescribe(glnames.KeyVertex)
	src.LayoutIn(vertex.Location, vertex.Type, vertex.Name)
	src.Out("vec2", glnames.TexCoordsVarying)
	src.Newline()
	src.Main([]string{
		glnames.TexCoordsVarying + " = " + vertex.Name + ".xy * 0.5 + 0.5",
		"gl_Position = vec4(" + vertex.Name + ", 1.0)",
	})
	return src.String()
}
