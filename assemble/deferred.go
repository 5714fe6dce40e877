package assemble

import (
	"fmt"
	"strconv"

	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
)

// DeferredLighting assembles the fragment stage of the deferred lighting pass drawn
// once per light over a fullscreen quad. See [lighting.DeferredLightingMain].
func DeferredLighting(cfg lighting.DeferredConfig) (string, error) {
	uniforms, err := lighting.DeferredUniforms(cfg)
	if err != nil {
		return "", err
	}
	objs, err := lighting.DeferredLightingShaders(cfg)
	if err != nil {
		return "", err
	}
	mainFn, err := lighting.DeferredLightingMain(cfg)
	if err != nil {
		return "", err
	}

	var src glbuild.Source
	writePreamble(&src, glbuild.VersionStr)
	if cfg.NumberOfCascades > 0 {
		src.Define(lighting.CascadeCountDefine, strconv.Itoa(cfg.NumberOfCascades))
		src.Newline()
	}
	src.In("vec2", glnames.TexCoordsVarying)
	src.Newline()
	src.Raw(lighting.LightStructDecl())
	for _, u := range uniforms {
		if u.Length > 0 {
			src.UniformArray(u.Type, u.Name, u.Length)
		} else {
			src.Uniform(u.Type, u.Name)
		}
	}
	src.Newline()
	src.Out("vec4", glnames.FragmentColor)
	src.Newline()
	src.Functions(glbuild.NewDefaultProgrammer(), objs...)
	src.Newline()
	src.Raw(mainFn)
	if err := src.Err(); err != nil {
		return "", fmt.Errorf("deferred lighting %+v: %w", cfg, err)
	}
	return src.String(), nil
}
