package gshade

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/gshade/assemble"
	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
)

// material is the TOML form of a [Description].
type material struct {
	ShadingModel  string   `toml:"shading_model"`
	Lighting      []string `toml:"lighting"`
	Textures      []string `toml:"textures"`
	Mesh          []string `toml:"mesh"`
	Pipeline      string   `toml:"pipeline"`
	RenderTargets []string `toml:"render_targets"`
	Version       string   `toml:"version"`
	Passes        []pass   `toml:"passes"`
}

// pass is the TOML form of a deferred lighting pass the material is lit by.
type pass struct {
	Light         string `toml:"light"`
	Shadows       bool   `toml:"shadows"`
	Cascades      int    `toml:"cascades"`
	DebugCascades bool   `toml:"debug_cascades"`
	Ssao          bool   `toml:"ssao"`
}

// Description is a material effect and the pipeline it is rendered with.
type Description struct {
	Effect   assemble.Effect
	Pipeline assemble.Pipeline
	// Targets are the G-Buffer targets written by deferred programs. Nil writes all of them.
	Targets []glnames.RenderTargetType
	// Passes are the lighting passes of deferred programs.
	Passes []lighting.DeferredConfig
}

// LoadEffect reads the material description file at path. See [DecodeEffect].
func LoadEffect(path string) (Description, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Description{}, err
	}
	defer fp.Close()
	d, err := DecodeEffect(fp)
	if err != nil {
		return Description{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// DecodeEffect decodes a TOML material description:
//
//	shading_model = "BRDF"
//	lighting = ["BRDF"]
//	textures = ["AlbedoTex", "NormalMap"]
//	mesh = ["Normals", "UVs", "TangentsBitangents"]
//	pipeline = "deferred"
//	render_targets = ["Position", "Albedo", "Normal"]
//	version = "#version 430"
//
//	[[passes]]
//	light = "Parallel"
//	shadows = true
//	cascades = 4
//	ssao = true
//
// Only shading_model is required. Unknown keys are rejected.
func DecodeEffect(r io.Reader) (Description, error) {
	var m material
	err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&m)
	if err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Description{}, fmt.Errorf("%w: %s", lighting.ErrInvalidConfiguration, strict.String())
		}
		return Description{}, err
	}
	return m.description()
}

func (m *material) description() (d Description, err error) {
	if m.ShadingModel == "" {
		return d, fmt.Errorf("%w: missing shading_model", lighting.ErrInvalidConfiguration)
	}
	e := &d.Effect
	e.ShadingModel, err = lighting.ParseShadingModel(m.ShadingModel)
	if err != nil {
		return d, err
	}
	if len(m.Lighting) > 0 {
		e.Lighting, err = lighting.ParseLightingSetup(m.Lighting...)
		if err != nil {
			return d, err
		}
	}
	e.Textures, err = lighting.ParseTextureSetup(m.Textures...)
	if err != nil {
		return d, err
	}
	e.Mesh, err = assemble.ParseMeshAttributes(m.Mesh...)
	if err != nil {
		return d, err
	}
	e.Version = m.Version
	if m.Pipeline != "" {
		d.Pipeline, err = assemble.ParsePipeline(m.Pipeline)
		if err != nil {
			return d, err
		}
	}
	for _, name := range m.RenderTargets {
		t, err := glnames.ParseRenderTargetType(name)
		if err != nil {
			return d, fmt.Errorf("%w: %w", lighting.ErrInvalidConfiguration, err)
		}
		d.Targets = append(d.Targets, t)
	}
	if len(d.Targets) > 0 && d.Pipeline != assemble.PipelineDeferred {
		return d, fmt.Errorf("%w: render_targets require the deferred pipeline", lighting.ErrInvalidConfiguration)
	} else if len(m.Passes) > 0 && d.Pipeline != assemble.PipelineDeferred {
		return d, fmt.Errorf("%w: passes require the deferred pipeline", lighting.ErrInvalidConfiguration)
	}
	for i, p := range m.Passes {
		if p.Light == "" {
			return d, fmt.Errorf("%w: pass %d missing light", lighting.ErrInvalidConfiguration, i)
		}
		lt, err := lighting.ParseLightType(p.Light)
		if err != nil {
			return d, fmt.Errorf("pass %d: %w", i, err)
		}
		cfg := lighting.DeferredConfig{
			LightType:        lt,
			CastShadows:      p.Shadows,
			NumberOfCascades: p.Cascades,
			DebugCascades:    p.DebugCascades,
			Ssao:             p.Ssao,
		}
		if err := cfg.Validate(); err != nil {
			return d, fmt.Errorf("pass %d: %w", i, err)
		}
		d.Passes = append(d.Passes, cfg)
	}
	return d, d.Effect.Validate()
}

// Build assembles the program of d.
func (d Description) Build() (assemble.Program, error) {
	switch d.Pipeline {
	case assemble.PipelineForward:
		return assemble.ForwardProgram(d.Effect)
	case assemble.PipelineDeferred:
		return assemble.DeferredGBufferProgram(d.Effect, d.Targets)
	}
	return assemble.Program{}, fmt.Errorf("%w: unknown %s", lighting.ErrInvalidConfiguration, d.Pipeline)
}

// BuildPasses assembles the lighting pass programs of d in the order of d.Passes.
func (d Description) BuildPasses() ([]assemble.Program, error) {
	progs := make([]assemble.Program, len(d.Passes))
	for i, cfg := range d.Passes {
		prog, err := assemble.DeferredLightingProgram(cfg)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", i, err)
		}
		progs[i] = prog
	}
	return progs, nil
}
