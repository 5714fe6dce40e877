// Package assemble builds complete GLSL programs from an effect description:
// the forward fragment stage, the deferred geometry (G-Buffer) and lighting passes,
// and the vertex stages feeding them.
package assemble

import (
	"fmt"
	"strings"

	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
)

// ErrInvalidShadingModel is returned when a G-Buffer program is requested for
// an unknown shading model.
var ErrInvalidShadingModel = fmt.Errorf("%w: invalid shading model", lighting.ErrInvalidConfiguration)

// MeshAttributes selects the vertex attributes available to a program.
type MeshAttributes uint8

const (
	Colors MeshAttributes = 1 << iota
	Normals
	TangentsBitangents
	UVs
	Colors1
	Colors2
	Bones

	meshAll = Colors | Normals | TangentsBitangents | UVs | Colors1 | Colors2 | Bones
)

var meshNames = [...]struct {
	flag MeshAttributes
	name string
}{
	{Colors, "Colors"},
	{Normals, "Normals"},
	{TangentsBitangents, "TangentsBitangents"},
	{UVs, "UVs"},
	{Colors1, "Colors1"},
	{Colors2, "Colors2"},
	{Bones, "Bones"},
}

// ParseMeshAttributes parses mesh attribute names, case insensitive.
func ParseMeshAttributes(names ...string) (MeshAttributes, error) {
	var mesh MeshAttributes
outer:
	for _, name := range names {
		for _, mn := range meshNames {
			if strings.EqualFold(name, mn.name) {
				mesh |= mn.flag
				continue outer
			}
		}
		return 0, fmt.Errorf("%w: unknown mesh attribute %q", lighting.ErrInvalidConfiguration, name)
	}
	return mesh, nil
}

func (mesh MeshAttributes) String() string {
	var names []string
	for _, mn := range meshNames {
		if mesh&mn.flag != 0 {
			names = append(names, mn.name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// Pipeline is the render pipeline a program is built for.
type Pipeline uint8

const (
	PipelineForward Pipeline = iota
	PipelineDeferred
)

func (p Pipeline) String() string {
	switch p {
	case PipelineForward:
		return "forward"
	case PipelineDeferred:
		return "deferred"
	}
	return fmt.Sprintf("Pipeline(%d)", uint8(p))
}

// ParsePipeline parses "forward" or "deferred", case insensitive.
func ParsePipeline(s string) (Pipeline, error) {
	for _, p := range []Pipeline{PipelineForward, PipelineDeferred} {
		if strings.EqualFold(s, p.String()) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown pipeline %q", lighting.ErrInvalidConfiguration, s)
}

// Effect describes the surface a program renders.
type Effect struct {
	ShadingModel lighting.ShadingModel
	Textures     lighting.TextureSetup
	// Lighting selects the lighting math. Zero selects the shading model's own flag.
	// Flags resolving to a model other than ShadingModel are rejected.
	Lighting lighting.LightingSetupFlags
	Mesh     MeshAttributes
	// Version is the preamble written first in every stage. Empty uses [glbuild.VersionStr].
	Version string
}

// Validate checks the effect describes a buildable program.
func (e Effect) Validate() error {
	model, err := e.ShadingModel.Model()
	if err != nil {
		return err
	}
	if e.Lighting != 0 {
		sm, err := e.Lighting.ShadingModel()
		if err != nil {
			return err
		} else if sm != e.ShadingModel {
			return fmt.Errorf("%w: lighting setup %s resolves to %s, want %s", lighting.ErrInvalidConfiguration, e.Lighting, sm, e.ShadingModel)
		}
	}
	if err := lighting.ValidateTextures(e.ShadingModel, e.Textures); err != nil {
		return err
	}
	switch {
	case e.Mesh&^meshAll != 0:
		return fmt.Errorf("%w: mesh attributes %#x", lighting.ErrInvalidConfiguration, uint8(e.Mesh))
	case model.Lit() && e.Mesh&Normals == 0:
		return fmt.Errorf("%w: %s shading requires mesh normals", lighting.ErrInvalidConfiguration, e.ShadingModel)
	case e.Textures&lighting.NormalMap != 0 && e.Mesh&(TangentsBitangents|Normals) != TangentsBitangents|Normals:
		return fmt.Errorf("%w: normal mapping requires mesh normals, tangents and bitangents", lighting.ErrInvalidConfiguration)
	case e.Textures != 0 && e.Mesh&UVs == 0:
		return fmt.Errorf("%w: textures %s require mesh UVs", lighting.ErrInvalidConfiguration, e.Textures)
	case e.Version != "" && !strings.HasPrefix(e.Version, "#version"):
		return fmt.Errorf("%w: version preamble %q", lighting.ErrInvalidConfiguration, e.Version)
	}
	return nil
}

func (e Effect) lightingFlags() lighting.LightingSetupFlags {
	if e.Lighting != 0 {
		return e.Lighting
	}
	flags, _ := lighting.FlagsFor(e.ShadingModel)
	return flags
}

func (e Effect) version() string {
	if e.Version == "" {
		return glbuild.VersionStr
	}
	if !strings.HasSuffix(e.Version, "\n") {
		return e.Version + "\n"
	}
	return e.Version
}

// Program holds the sources of the stages of a GPU program.
type Program struct {
	Vertex   string
	Fragment string
}

// ForwardProgram assembles the vertex and fragment stages of a forward program.
func ForwardProgram(e Effect) (Program, error) {
	return buildProgram(e, PipelineForward, Forward)
}

// DeferredGBufferProgram assembles the geometry pass of a deferred program writing targets.
func DeferredGBufferProgram(e Effect, targets []glnames.RenderTargetType) (Program, error) {
	return buildProgram(e, PipelineDeferred, func(e Effect) (string, error) {
		return DeferredGBuffer(e, targets)
	})
}

// DeferredLightingProgram assembles the lighting pass of a deferred program.
func DeferredLightingProgram(cfg lighting.DeferredConfig) (Program, error) {
	frag, err := DeferredLighting(cfg)
	if err != nil {
		return Program{}, err
	}
	return Program{Vertex: FullscreenQuadVertex(), Fragment: frag}, nil
}

func buildProgram(e Effect, p Pipeline, fragment func(Effect) (string, error)) (Program, error) {
	frag, err := fragment(e)
	if err != nil {
		return Program{}, err
	}
	vert, err := Vertex(e, p)
	if err != nil {
		return Program{}, err
	}
	return Program{Vertex: vert, Fragment: frag}, nil
}
