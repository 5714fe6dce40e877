package lighting

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glnames"
)

// LightType is the lightType member of the Light struct.
type LightType int32

const (
	Point LightType = iota
	Parallel
	Spot
	// Legacy lights shine from the eye and have no attenuation.
	Legacy
	numLightTypes
)

func (lt LightType) String() string {
	switch lt {
	case Point:
		return "Point"
	case Parallel:
		return "Parallel"
	case Spot:
		return "Spot"
	case Legacy:
		return "Legacy"
	}
	return "LightType(" + strconv.Itoa(int(lt)) + ")"
}

// ParseLightType parses a light type by name, case insensitive.
func ParseLightType(s string) (LightType, error) {
	for lt := Point; lt < numLightTypes; lt++ {
		if strings.EqualFold(s, lt.String()) {
			return lt, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown light type %q", ErrInvalidConfiguration, s)
}

// Light is the host side layout of the GLSL Light struct. The GLSL declaration
// is generated from this type. Positions and directions are in view space
// for forward programs and world space for deferred programs.
type Light struct {
	Position         ms3.Vec    `glsl:"position"`
	Intensities      [4]float32 `glsl:"intensities"`
	Direction        ms3.Vec    `glsl:"direction"`
	MaxDistance      float32    `glsl:"maxDistance"`
	Strength         float32    `glsl:"strength"`
	OuterConeAngle   float32    `glsl:"outerConeAngle"`
	InnerConeAngle   float32    `glsl:"innerConeAngle"`
	Type             LightType  `glsl:"lightType"`
	IsActive         int32      `glsl:"isActive"`
	IsCastingShadows int32      `glsl:"isCastingShadows"`
	Bias             float32    `glsl:"bias"`
}

// UniformValue returns the value of the light member named field as uploaded to
// the GPU, one of ms3.Vec, [4]float32, float32 or int32.
func (l *Light) UniformValue(field string) (any, error) {
	switch field {
	case glnames.LightPosition:
		return l.Position, nil
	case glnames.LightIntensities:
		return l.Intensities, nil
	case glnames.LightDirection:
		return l.Direction, nil
	case glnames.LightMaxDistance:
		return l.MaxDistance, nil
	case glnames.LightStrength:
		return l.Strength, nil
	case glnames.LightOuterConeAngle:
		return l.OuterConeAngle, nil
	case glnames.LightInnerConeAngle:
		return l.InnerConeAngle, nil
	case glnames.LightType:
		return int32(l.Type), nil
	case glnames.LightIsActive:
		return l.IsActive, nil
	case glnames.LightIsCastingShadows:
		return l.IsCastingShadows, nil
	case glnames.LightBias:
		return l.Bias, nil
	}
	return nil, fmt.Errorf("%w: light member %q", glnames.ErrNameNotFound, field)
}

var lightStructDecl = sync.OnceValue(func() string {
	b, err := glbuild.AppendStructDeclOf(nil, glnames.LightStruct, reflect.TypeOf(Light{}))
	if err != nil {
		panic(err)
	}
	return string(b)
})

// LightStructDecl returns the GLSL declaration of the Light struct.
func LightStructDecl() string { return lightStructDecl() }
