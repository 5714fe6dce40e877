package assemble

import (
	"fmt"

	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glbuild/glsllib"
	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
)

// Forward assembles the fragment stage of a single pass forward program. Every active
// light of the allLights array is applied in turn. Unlit surfaces skip lighting
// altogether and output their albedo.
func Forward(e Effect) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	objs, err := surfaceShaders(e)
	if err != nil {
		return "", err
	}
	objs = append(objs, glsllib.EncodeSRGB())
	unlit := e.ShadingModel == lighting.Unlit
	if !unlit {
		lightObjs, err := lighting.ApplyLightShaders(e.lightingFlags())
		if err != nil {
			return "", err
		}
		objs = append(objs, lightObjs...)
	}

	var src glbuild.Source
	writePreamble(&src, e.version())
	writeSurfaceDecls(&src, e)
	writeUniforms(&src, glnames.KeyAmbientStrength)
	src.Raw(lighting.LightStructDecl())
	src.UniformArray(glnames.LightStruct, glnames.AllLights, glnames.NumberOfLightsForward)
	src.Newline()
	src.Out("vec4", glnames.FragmentColor)
	src.Newline()
	src.Functions(glbuild.NewDefaultProgrammer(), objs...)
	src.Newline()
	src.Main(forwardMain(e.ShadingModel))
	if err := src.Err(); err != nil {
		return "", fmt.Errorf("forward %s: %w", e.ShadingModel, err)
	}
	return src.String(), nil
}

const numLightsVar = "numLights"

func forwardMain(sm lighting.ShadingModel) []string {
	var (
		out     = glnames.FragmentColor
		ambient = glnames.AmbientStrength
		body    = []string{glnames.SurfaceStruct + " surfOut = " + surfaceFuncName + "()"}
	)
	switch sm {
	case lighting.Unlit:
		return append(body, out+" = vec4(EncodeSRGB(surfOut.albedo.rgb), surfOut.albedo.a)")
	case lighting.Edl:
		// EDL ignores lights, a single evaluation shades the fragment.
		body = append(body, "vec3 res = ApplyLight("+glnames.AllLights+"[0], surfOut, "+ambient+")")
	default:
		// Ambient is added once, by the first active light.
		body = append(body,
			string(glbuild.AppendIntDecl(nil, numLightsVar, glnames.NumberOfLightsForward)),
			"float ambientCo = "+ambient,
			"vec3 res = surfOut.emission",
			"for (int i = 0; i < "+numLightsVar+"; i++)",
			"{",
			"if ("+glnames.AllLights+"[i]."+glnames.LightIsActive+" == 0)",
			"{",
			"continue",
			"}",
			"res += ApplyLight("+glnames.AllLights+"[i], surfOut, ambientCo)",
			"ambientCo = 0.0",
			"}",
		)
	}
	return append(body, out+" = vec4(EncodeSRGB(res), surfOut.albedo.a)")
}
