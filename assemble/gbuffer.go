package assemble

import (
	"fmt"

	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
)

// DeferredGBuffer assembles the fragment stage of the deferred geometry pass. One
// vec4 output is declared per requested target at its attachment index. A nil
// targets writes every target of the geometry pass. Ssao is produced by a separate
// pass and is ignored.
func DeferredGBuffer(e Effect, targets []glnames.RenderTargetType) (string, error) {
	if _, err := e.ShadingModel.Model(); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidShadingModel, e.ShadingModel)
	}
	if err := e.Validate(); err != nil {
		return "", err
	}
	if targets == nil {
		targets = glnames.GeometryPassTargets()
	}
	rts, err := geometryTargets(targets)
	if err != nil {
		return "", err
	}
	objs, err := surfaceShaders(e)
	if err != nil {
		return "", err
	}

	var src glbuild.Source
	writePreamble(&src, e.version())
	writeSurfaceDecls(&src, e)
	body := []string{glnames.SurfaceStruct + " surfOut = " + surfaceFuncName + "()"}
	for _, rt := range rts {
		src.LayoutOut(rt.Location, "vec4", rt.Output)
		expr, err := gbufferOutput(e.ShadingModel, rt.Type)
		if err != nil {
			return "", err
		}
		body = append(body, rt.Output+" = "+expr)
	}
	src.Newline()
	src.Functions(glbuild.NewDefaultProgrammer(), objs...)
	src.Newline()
	src.Main(body)
	if err := src.Err(); err != nil {
		return "", fmt.Errorf("G-Buffer %s: %w", e.ShadingModel, err)
	}
	return src.String(), nil
}

// geometryTargets returns the table rows of targets in attachment order.
func geometryTargets(targets []glnames.RenderTargetType) ([]glnames.RenderTarget, error) {
	requested := make(map[glnames.RenderTargetType]bool, len(targets))
	for _, t := range targets {
		rt, err := glnames.RenderTargetOf(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", lighting.ErrInvalidConfiguration, err)
		} else if requested[rt.Type] {
			return nil, fmt.Errorf("%w: render target %s requested twice", lighting.ErrInvalidConfiguration, t)
		}
		requested[rt.Type] = true
	}
	var rts []glnames.RenderTarget
	for _, rt := range glnames.RenderTargets() {
		if requested[rt.Type] && rt.GeometryPass() {
			rts = append(rts, rt)
		}
	}
	if len(rts) == 0 {
		return nil, fmt.Errorf("%w: no geometry pass render targets", lighting.ErrInvalidConfiguration)
	}
	return rts, nil
}

func gbufferOutput(sm lighting.ShadingModel, t glnames.RenderTargetType) (string, error) {
	model, err := sm.Model()
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidShadingModel, sm)
	}
	switch t {
	case glnames.TargetPosition:
		return "vec4(surfOut.position.xyz, " + lighting.EncodeTagExpr(sm) + ")", nil
	case glnames.TargetAlbedo:
		return "surfOut.albedo", nil
	case glnames.TargetNormal:
		if !model.Lit() {
			return "vec4(1.0)", nil
		}
		return "vec4(normalize(surfOut.normal), 1.0)", nil
	case glnames.TargetDepth:
		return "vec4(vec3(gl_FragCoord.z), 1.0)", nil
	case glnames.TargetSpecular:
		return model.SpecularOutput(), nil
	case glnames.TargetEmission:
		return "vec4(surfOut.emission, 1.0)", nil
	case glnames.TargetSubsurface:
		return model.SubsurfaceOutput(), nil
	}
	return "", fmt.Errorf("%w: render target %s is not written by the geometry pass", lighting.ErrInvalidConfiguration, t)
}
