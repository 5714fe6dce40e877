package lighting

import (
	math "github.com/chewxy/math32"
)

// Host mirrors of library shaders. They follow the GLSL arithmetic step by step.

// EncodeSRGB converts a linear color channel to sRGB.
func EncodeSRGB(linear float32) float32 {
	if linear < 0.0031308 {
		return 12.92 * linear
	}
	return 1.055*math.Pow(linear, 1.0/2.4) - 0.055
}

// DecodeSRGB converts an sRGB color channel to linear.
func DecodeSRGB(screen float32) float32 {
	if screen < 0.04045 {
		return screen / 12.92
	}
	return math.Pow((screen+0.055)/1.055, 2.4)
}

// AttenuationPoint returns the point light attenuation at distanceToLight. The
// normalized distance is squared twice so falloff is quartic.
func AttenuationPoint(distanceToLight, maxDistance float32) float32 {
	dist := math.Pow(distanceToLight/maxDistance, 2)
	dist2 := math.Pow(dist, 2)
	return clamp(1-dist2, 0, 1) / (dist2 + 1)
}

// AttenuationCone returns the spot light cone falloff for the angle cosine theta
// between the light to fragment direction and the cone direction.
func AttenuationCone(theta, outerConeAngle, innerConeAngle float32) float32 {
	cosOuter := math.Cos(outerConeAngle)
	cosInner := math.Cos(innerConeAngle)
	epsilon := math.Max(cosInner-cosOuter, 0.0001)
	return clamp((theta-cosOuter)/epsilon, 0, 1)
}

// LinearizeDepth converts a [0,1] depth buffer value to view distance.
func LinearizeDepth(depth, near, far float32) float32 {
	z := depth*2 - 1
	return (2 * near * far) / (far + near - z*(far-near))
}

func clamp(v, lo, hi float32) float32 {
	return math.Min(math.Max(v, lo), hi)
}
