package lighting

import (
	"fmt"
	"strconv"

	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glbuild/glsllib"
	"github.com/soypat/gshade/glnames"
)

const applyLightName = "ApplyLight"

var applyLightParams = []string{
	glnames.LightStruct + " light",
	glnames.SurfaceStruct + " surfOut",
	"float ambientCo",
}

// ApplyLightShaders returns the shards of the forward ApplyLight function for the
// shading model resolved from flags:
//
//	vec3 ApplyLight(Light light, SurfOut surfOut, float ambientCo)
//
// ambientCo scales the albedo added on top of the light's radiance. EDL shading
// ignores both light and ambientCo.
// The first shard is ApplyLight itself, the rest are the shards it requires.
// The Light and SurfOut structs must be declared before the shards.
func ApplyLightShaders(flags LightingSetupFlags) ([]glbuild.ShaderObject, error) {
	sm, err := flags.ShadingModel()
	if err != nil {
		return nil, err
	}
	model, err := sm.Model()
	if err != nil {
		return nil, err
	}
	var body []string
	objs := []glbuild.ShaderObject{{}} // Placeholder for ApplyLight.
	if sm == Edl {
		body = edlApplyLight()
	} else {
		body = litApplyLight(model)
		objs = append(objs, glsllib.AttenuationPoint(), glsllib.AttenuationCone())
	}
	objs = append(objs, model.shaders()...)
	requires := make([]string, 0, len(objs)-1)
	for _, obj := range objs[1:] {
		requires = append(requires, obj.Name())
	}
	src, err := glbuild.AppendFunctionDecl(nil, "vec3", applyLightName, applyLightParams, body)
	if err != nil {
		return nil, err
	}
	objs[0], err = glbuild.MakeShaderFunction(src, requires...)
	if err != nil {
		return nil, err
	}
	return objs, nil
}

// ApplyLight returns the forward ApplyLight function preceded by the functions it
// calls, in dependency order. See [ApplyLightShaders].
func ApplyLight(flags LightingSetupFlags) (string, error) {
	objs, err := ApplyLightShaders(flags)
	if err != nil {
		return "", err
	}
	src, err := glbuild.FormatFunctions(objs...)
	if err != nil {
		return "", fmt.Errorf("ApplyLight %s: %w", flags, err)
	}
	return src, nil
}

func edlApplyLight() []string {
	return []string{
		"float linearDepth = LinearizeDepth(gl_FragCoord.z, " + glnames.ClippingPlanes + ")",
		"float edl = EDLShadingFactor(surfOut.edlStrength, surfOut.edlNeighbourPx, linearDepth, gl_FragCoord.xy, " +
			glnames.ScreenParams + ", " + glnames.DepthTexture + ", " + glnames.ClippingPlanes + ")",
		"return surfOut.albedo.rgb * edl",
	}
}

func litApplyLight(model Model) []string {
	body := []string{
		"vec3 fragPos = surfOut.position.xyz",
		"vec3 N = normalize(surfOut.normal)",
		"vec3 V = normalize(-fragPos)",
		"vec3 L = V",
		"float att = 1.0",
	}
	// Light type is only known at runtime in forward programs.
	for i, lt := range []LightType{Point, Parallel, Spot} {
		cond := "if (" + glnames.LightField(glnames.LightType) + " == " + strconv.Itoa(int(lt)) + ")"
		if i > 0 {
			cond = "else " + cond
		}
		body = append(body, cond, "{")
		body = append(body, lightVectorLines(lt, false)...)
		body = append(body, "}")
	}
	body = append(body,
		"vec4 albedo = surfOut.albedo",
		"vec3 radiance = vec3(0.0)",
	)
	body = append(body, model.forwardLocals()...)
	body = append(body, model.radianceLines()...)
	return append(body, "return radiance * att * "+lightColorExpr+" + albedo.rgb * ambientCo")
}

var lightColorExpr = glnames.LightField(glnames.LightStrength) + " * " + glnames.LightField(glnames.LightIntensities) + ".rgb"

// lightVectorLines assigns the light direction L and attenuation att for lights of
// type lt. The fragment position fragPos and view direction V must be in scope.
func lightVectorLines(lt LightType, declare bool) []string {
	var (
		pos     = glnames.LightField(glnames.LightPosition)
		dir     = glnames.LightField(glnames.LightDirection)
		toLight = "normalize(" + pos + " - fragPos)"
		point   = "AttenuationPointComponent(fragPos, " + pos + ", " + glnames.LightField(glnames.LightMaxDistance) + ")"
		L, att  string
	)
	switch lt {
	case Point:
		L, att = toLight, point
	case Parallel:
		L, att = "-normalize("+dir+")", "1.0"
	case Spot:
		L = toLight
		att = point + " * AttenuationConeComponent(L, " + dir + ", " +
			glnames.LightField(glnames.LightOuterConeAngle) + ", " + glnames.LightField(glnames.LightInnerConeAngle) + ")"
	default:
		L, att = "V", "1.0"
	}
	if declare {
		return []string{"vec3 L = " + L, "float att = " + att}
	}
	return []string{"L = " + L, "att = " + att}
}
