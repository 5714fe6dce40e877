// Package lighting generates the GLSL that lights a surface: the forward ApplyLight
// function, the deferred lighting pass main method and cascaded shadow selection.
// Host side mirrors of the emitted arithmetic are provided for testing and for
// filling uniforms.
package lighting

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidConfiguration = errors.New("lighting: invalid configuration")

// ShadingModel selects the lighting math applied to a surface. The numeric value of
// each model is the tag packed into the position G-Buffer alpha channel.
type ShadingModel uint8

const (
	BRDF            ShadingModel = 1
	DiffuseSpecular ShadingModel = 2
	DiffuseOnly     ShadingModel = 3
	Unlit           ShadingModel = 4
	Glossy          ShadingModel = 5
	Edl             ShadingModel = 6
)

// ShadingModels returns every shading model in tag order.
func ShadingModels() []ShadingModel {
	return []ShadingModel{BRDF, DiffuseSpecular, DiffuseOnly, Unlit, Glossy, Edl}
}

func (sm ShadingModel) String() string {
	switch sm {
	case BRDF:
		return "BRDF"
	case DiffuseSpecular:
		return "DiffuseSpecular"
	case DiffuseOnly:
		return "DiffuseOnly"
	case Unlit:
		return "Unlit"
	case Glossy:
		return "Glossy"
	case Edl:
		return "Edl"
	}
	return "ShadingModel(" + strconv.Itoa(int(sm)) + ")"
}

// ParseShadingModel parses a shading model by name, case insensitive.
func ParseShadingModel(s string) (ShadingModel, error) {
	for _, sm := range ShadingModels() {
		if strings.EqualFold(s, sm.String()) {
			return sm, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown shading model %q", ErrInvalidConfiguration, s)
}

// Tag returns the integer packed into the G-Buffer for the model.
func (sm ShadingModel) Tag() int { return int(sm) }

// Model returns the variant implementing sm.
func (sm ShadingModel) Model() (Model, error) {
	switch sm {
	case BRDF:
		return brdfModel{}, nil
	case DiffuseSpecular:
		return diffuseSpecularModel{}, nil
	case DiffuseOnly:
		return diffuseOnlyModel{}, nil
	case Unlit:
		return unlitModel{}, nil
	case Glossy:
		return glossyModel{}, nil
	case Edl:
		return edlModel{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidConfiguration, sm)
}

// Validate returns ErrInvalidConfiguration if sm is not one of the six models.
func (sm ShadingModel) Validate() error {
	_, err := sm.Model()
	return err
}

// LightingSetupFlags selects the lighting math concatenated into a program.
type LightingSetupFlags uint8

const (
	SetupDiffuseSpecular LightingSetupFlags = 1 << iota
	SetupBRDF
	SetupDiffuseOnly
	SetupGlossy
	SetupEdl
	SetupUnlit

	setupAll = SetupDiffuseSpecular | SetupBRDF | SetupDiffuseOnly | SetupGlossy | SetupEdl | SetupUnlit
)

// setupOrder is the resolution order of [LightingSetupFlags.ShadingModel].
var setupOrder = [...]struct {
	flag  LightingSetupFlags
	model ShadingModel
}{
	{SetupEdl, Edl},
	{SetupBRDF, BRDF},
	{SetupGlossy, Glossy},
	{SetupDiffuseSpecular, DiffuseSpecular},
	{SetupDiffuseOnly, DiffuseOnly},
	{SetupUnlit, Unlit},
}

// ShadingModel resolves the flags to a single model. When several flags are set
// the first match in the order Edl, BRDF, Glossy, DiffuseSpecular, DiffuseOnly, Unlit wins.
func (f LightingSetupFlags) ShadingModel() (ShadingModel, error) {
	if f == 0 || f&^setupAll != 0 {
		return 0, fmt.Errorf("%w: lighting setup flags %#x", ErrInvalidConfiguration, uint8(f))
	}
	for _, o := range setupOrder {
		if f&o.flag != 0 {
			return o.model, nil
		}
	}
	panic("unreachable")
}

// FlagsFor returns the canonical lighting setup flag of sm.
func FlagsFor(sm ShadingModel) (LightingSetupFlags, error) {
	for _, o := range setupOrder {
		if o.model == sm {
			return o.flag, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidConfiguration, sm)
}

// ParseLightingSetup parses flag names as listed by [LightingSetupFlags.String].
func ParseLightingSetup(names ...string) (LightingSetupFlags, error) {
	var f LightingSetupFlags
	for _, name := range names {
		sm, err := ParseShadingModel(name)
		if err != nil {
			return 0, err
		}
		flag, _ := FlagsFor(sm)
		f |= flag
	}
	return f, nil
}

func (f LightingSetupFlags) String() string {
	var names []string
	for _, o := range setupOrder {
		if f&o.flag != 0 {
			names = append(names, o.model.String())
		}
	}
	if rest := f &^ setupAll; rest != 0 {
		names = append(names, "0x"+strconv.FormatUint(uint64(rest), 16))
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// TextureSetup selects the texture sampling statements of the surface function.
type TextureSetup uint8

const (
	AlbedoTex TextureSetup = 1 << iota
	NormalMap
	ThicknessMap
	EmissiveTex

	texturesAll = AlbedoTex | NormalMap | ThicknessMap | EmissiveTex
)

var textureNames = [...]struct {
	flag TextureSetup
	name string
}{
	{AlbedoTex, "AlbedoTex"},
	{NormalMap, "NormalMap"},
	{ThicknessMap, "ThicknessMap"},
	{EmissiveTex, "EmissiveTex"},
}

// ParseTextureSetup parses texture flag names, case insensitive.
func ParseTextureSetup(names ...string) (TextureSetup, error) {
	var tex TextureSetup
outer:
	for _, name := range names {
		for _, tn := range textureNames {
			if strings.EqualFold(name, tn.name) {
				tex |= tn.flag
				continue outer
			}
		}
		return 0, fmt.Errorf("%w: unknown texture %q", ErrInvalidConfiguration, name)
	}
	return tex, nil
}

func (tex TextureSetup) String() string {
	var names []string
	for _, tn := range textureNames {
		if tex&tn.flag != 0 {
			names = append(names, tn.name)
		}
	}
	if len(names) == 0 {
		return "0"
	}
	return strings.Join(names, "|")
}

// ValidateTextures checks tex is usable with sm.
func ValidateTextures(sm ShadingModel, tex TextureSetup) error {
	if tex&^texturesAll != 0 {
		return fmt.Errorf("%w: texture setup %#x", ErrInvalidConfiguration, uint8(tex))
	} else if tex&ThicknessMap != 0 && sm != BRDF {
		return fmt.Errorf("%w: ThicknessMap requires BRDF shading, got %s", ErrInvalidConfiguration, sm)
	}
	return nil
}
