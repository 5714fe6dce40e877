package glnames

import (
	"strconv"
	"sync"
)

// NumberOfLightsForward is the length of the light array uniform of forward programs.
const NumberOfLightsForward = 8

// Members of the Light struct.
const (
	LightPosition         = "position"
	LightIntensities      = "intensities"
	LightDirection        = "direction"
	LightMaxDistance      = "maxDistance"
	LightStrength         = "strength"
	LightOuterConeAngle   = "outerConeAngle"
	LightInnerConeAngle   = "innerConeAngle"
	LightType             = "lightType"
	LightIsActive         = "isActive"
	LightIsCastingShadows = "isCastingShadows"
	LightBias             = "bias"
)

// LightFields lists the Light struct members in declaration order.
var LightFields = [...]string{
	LightPosition, LightIntensities, LightDirection, LightMaxDistance, LightStrength,
	LightOuterConeAngle, LightInnerConeAngle, LightType, LightIsActive, LightIsCastingShadows, LightBias,
}

var lightPrefixes = sync.OnceValue(func() (prefixes [NumberOfLightsForward]string) {
	for i := range prefixes {
		prefixes[i] = AllLights + "[" + strconv.Itoa(i) + "]."
	}
	return prefixes
})

// LightArrayField returns the uniform name of a member of the forward light
// array element i, i.e: "allLights[3].position". Panics if i is out of range.
func LightArrayField(i int, field string) string {
	return lightPrefixes()[i] + field
}

// LightField returns the uniform name of a member of the deferred light uniform, i.e: "light.position".
func LightField(field string) string {
	return LightUniform + "." + field
}

// ClipPlanesAt returns the uniform name of the clip planes of cascade i.
func ClipPlanesAt(i int) string {
	return ClipPlanes + "[" + strconv.Itoa(i) + "]"
}

// LightSpaceMatricesAt returns the uniform name of the light space matrix of cascade i.
func LightSpaceMatricesAt(i int) string {
	return LightSpaceMatrices + "[" + strconv.Itoa(i) + "]"
}
