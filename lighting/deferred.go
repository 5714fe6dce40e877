package lighting

import (
	"fmt"
	"strconv"

	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glbuild/glsllib"
	"github.com/soypat/gshade/glnames"
)

// DeferredConfig selects the variant of the deferred lighting pass. One lighting
// program is built per light type and shadow configuration.
type DeferredConfig struct {
	LightType LightType
	// CastShadows emits the shadow lookup for lights with isCastingShadows set.
	CastShadows bool
	// NumberOfCascades enables cascaded shadow maps for parallel lights when positive.
	NumberOfCascades int
	// DebugCascades tints the output by the sampled cascade.
	DebugCascades bool
	// Ssao multiplies ambient light by the SSAO texture when uSsaoOn is 1.
	Ssao bool
}

func (cfg DeferredConfig) Validate() error {
	switch {
	case cfg.LightType < 0 || cfg.LightType >= numLightTypes:
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, cfg.LightType)
	case cfg.LightType == Legacy && cfg.CastShadows:
		return fmt.Errorf("%w: legacy lights cannot cast shadows", ErrInvalidConfiguration)
	case cfg.NumberOfCascades < 0 || cfg.NumberOfCascades > MaxCascades:
		return fmt.Errorf("%w: %d cascades, want 0..%d", ErrInvalidConfiguration, cfg.NumberOfCascades, MaxCascades)
	case cfg.NumberOfCascades > 0 && (cfg.LightType != Parallel || !cfg.CastShadows):
		return fmt.Errorf("%w: cascades require a shadow casting parallel light", ErrInvalidConfiguration)
	case cfg.DebugCascades && cfg.NumberOfCascades == 0:
		return fmt.Errorf("%w: cascade debugging without cascades", ErrInvalidConfiguration)
	}
	return nil
}

func (cfg DeferredConfig) cascaded() bool { return cfg.NumberOfCascades > 0 }

// Uniform is a uniform declaration of a generated program. Length is positive for arrays.
type Uniform struct {
	Type   string
	Name   string
	Length int
}

func uniformOf(k glnames.Key) Uniform {
	e := glnames.MustDescribe(k)
	return Uniform{Type: e.Type, Name: e.Name}
}

// DeferredUniforms returns the uniforms read by the deferred lighting pass of cfg,
// G-Buffer samplers first in render target order.
func DeferredUniforms(cfg DeferredConfig) ([]Uniform, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var uniforms []Uniform
	for _, rt := range glnames.RenderTargets() {
		if rt.Type == glnames.TargetSsao && !cfg.Ssao {
			continue
		}
		uniforms = append(uniforms, Uniform{Type: "sampler2D", Name: rt.Sampler})
	}
	keys := []glnames.Key{
		glnames.KeyLight, glnames.KeyPassNo, glnames.KeyBackgroundColor, glnames.KeyAmbientStrength,
		glnames.KeyInvView, glnames.KeyScreenParams, glnames.KeyClippingPlanes,
	}
	if cfg.Ssao {
		keys = append(keys, glnames.KeySsaoOn)
	}
	if cfg.CastShadows {
		keys = append(keys, glnames.KeyPcfKernelHalfSize)
		switch {
		case cfg.LightType == Point:
			keys = append(keys, glnames.KeyShadowCubeMap, glnames.KeyLightFarPlane)
		case cfg.cascaded():
			keys = append(keys, glnames.KeyShadowMapArray, glnames.KeyView)
		default:
			keys = append(keys, glnames.KeyShadowMap, glnames.KeyLightSpaceMatrix)
		}
	}
	for _, k := range keys {
		uniforms = append(uniforms, uniformOf(k))
	}
	if cfg.CastShadows && cfg.cascaded() {
		for _, k := range []glnames.Key{glnames.KeyLightSpaceMatrices, glnames.KeyClipPlanes} {
			u := uniformOf(k)
			u.Length = cfg.NumberOfCascades
			uniforms = append(uniforms, u)
		}
	}
	return uniforms, nil
}

// DeferredLightingShaders returns the shards called by the deferred lighting main method of cfg.
func DeferredLightingShaders(cfg DeferredConfig) ([]glbuild.ShaderObject, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	objs := []glbuild.ShaderObject{glsllib.EncodeSRGB()}
	switch cfg.LightType {
	case Point:
		objs = append(objs, glsllib.AttenuationPoint())
	case Spot:
		objs = append(objs, glsllib.AttenuationPoint(), glsllib.AttenuationCone())
	}
	for _, sm := range ShadingModels() {
		model, _ := sm.Model()
		objs = append(objs, model.shaders()...)
	}
	if cfg.CastShadows {
		switch {
		case cfg.LightType == Point:
			objs = append(objs, glsllib.ShadowCalculationCubeMap())
		case cfg.cascaded():
			objs = append(objs, glsllib.ShadowCalculationCascaded(), CascadeSelection(), GetShadow())
		default:
			objs = append(objs, glsllib.ShadowCalculation())
		}
	}
	if cfg.DebugCascades {
		objs = append(objs, ColorDebugCascades())
	}
	return objs, nil
}

// DeferredLightingMain returns the main method of the deferred lighting pass.
// The pass reads the G-Buffer through the samplers listed by [DeferredUniforms],
// decodes the shading model tag from the position alpha channel and lights the
// fragment with the model's math. Ambient light and emission are added on pass 0
// only so that additive light passes do not accumulate them.
func DeferredLightingMain(cfg DeferredConfig) (string, error) {
	body, err := deferredLightingBody(cfg)
	if err != nil {
		return "", err
	}
	return glbuild.DeclareMainMethod(body)
}

func deferredLightingBody(cfg DeferredConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sampler := func(t glnames.RenderTargetType) string {
		rt, _ := glnames.RenderTargetOf(t)
		return rt.Sampler
	}
	sample := func(t glnames.RenderTargetType) string {
		return "texture(" + sampler(t) + ", texCoords)"
	}
	var (
		out       = glnames.FragmentColor
		passNo    = glnames.PassNo
		unlitTag  = strconv.Itoa(Unlit.Tag())
		edlTag    = strconv.Itoa(Edl.Tag())
		laterPass = "if (" + passNo + " != 0)"
	)
	body := []string{
		"vec2 texCoords = " + glnames.TexCoordsVarying,
		"vec3 normal = " + sample(glnames.TargetNormal) + ".rgb",
		"if (normal == vec3(0.0))",
		"{",
		out + " = " + glnames.BackgroundColor,
		"return",
		"}",
		"vec4 positionVars = " + sample(glnames.TargetPosition),
		"vec3 fragPos = positionVars.xyz",
		"int tag = " + DecodeTagExpr("positionVars.a"),
		"vec4 albedo = " + sample(glnames.TargetAlbedo),
		"vec4 specularVars = " + sample(glnames.TargetSpecular),
		"vec4 subsurfaceVars = " + sample(glnames.TargetSubsurface),
		"vec3 emission = " + sample(glnames.TargetEmission) + ".rgb",

		"if (tag == " + unlitTag + ")",
		"{",
		laterPass, "{", "discard", "}",
		out + " = vec4(EncodeSRGB(albedo.rgb), albedo.a)",
		"return",
		"}",

		"if (tag == " + edlTag + ")",
		"{",
		laterPass, "{", "discard", "}",
		"float linearDepth = LinearizeDepth(" + sample(glnames.TargetDepth) + ".r, " + glnames.ClippingPlanes + ")",
		"int edlNeighbourPx = " + DecodeByteExpr("specularVars.y"),
		"float edl = EDLShadingFactor(specularVars.x, edlNeighbourPx, linearDepth, gl_FragCoord.xy, " +
			glnames.ScreenParams + ", " + sampler(glnames.TargetDepth) + ", " + glnames.ClippingPlanes + ")",
		out + " = vec4(EncodeSRGB(albedo.rgb * edl), 1.0)",
		"return",
		"}",

		"vec3 ambient = vec3(0.0)",
		"vec3 emissive = vec3(0.0)",
		"if (" + passNo + " == 0)",
		"{",
		"ambient = albedo.rgb * " + glnames.AmbientStrength,
	}
	if cfg.Ssao {
		body = append(body,
			"if ("+glnames.SsaoOn+" == 1)",
			"{",
			"ambient *= "+sample(glnames.TargetSsao)+".r",
			"}",
		)
	}
	body = append(body,
		"emissive = emission",
		"}",
		"vec3 N = normalize(normal)",
		"vec3 V = normalize("+glnames.InvView+"[3].xyz - fragPos)",
	)
	body = append(body, lightVectorLines(cfg.LightType, true)...)
	body = append(body, "float shadow = 0.0")
	if cfg.CastShadows {
		body = append(body,
			"if ("+glnames.LightField(glnames.LightIsCastingShadows)+" == 1)",
			"{",
			"shadow = "+shadowExpr(cfg),
			"}",
		)
	}
	body = append(body, "vec3 radiance = vec3(0.0)")
	first := true
	for _, sm := range ShadingModels() {
		model, _ := sm.Model()
		if !model.Lit() {
			continue
		}
		cond := "if (tag == " + strconv.Itoa(sm.Tag()) + ")"
		if !first {
			cond = "else " + cond
		}
		first = false
		body = append(body, cond, "{")
		body = append(body, model.deferredLocals()...)
		body = append(body, model.radianceLines()...)
		body = append(body, "}")
	}
	body = append(body, "vec3 lit = emissive + ambient + (1.0 - shadow) * radiance * att * "+lightColorExpr)
	if cfg.DebugCascades {
		body = append(body, "lit *= "+nameColorDebugCascades+"(fragPos)")
	}
	return append(body, out+" = vec4(EncodeSRGB(lit), 1.0)"), nil
}

func shadowExpr(cfg DeferredConfig) string {
	bias := glnames.LightField(glnames.LightBias)
	pcf := glnames.PcfKernelHalfSize
	switch {
	case cfg.LightType == Point:
		return "ShadowCalculationCubeMap(" + glnames.ShadowCubeMap + ", fragPos, " + glnames.LightField(glnames.LightPosition) +
			", " + glnames.LightFarPlane + ", N, L, " + bias + ", " + pcf + ")"
	case cfg.cascaded():
		return nameGetShadow + "(fragPos, N, L)"
	}
	return "ShadowCalculation(" + glnames.ShadowMap + ", " + glnames.LightSpaceMatrix + " * vec4(fragPos, 1.0), N, L, " + bias + ", " + pcf + ")"
}
