package lighting

import (
	"fmt"
	"strconv"
	"sync"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/gshade/glbuild"
	"github.com/soypat/gshade/glbuild/glsllib"
	"github.com/soypat/gshade/glnames"
)

const (
	// CascadeCountDefine is the preprocessor macro holding the number of shadow cascades.
	CascadeCountDefine = "NUMBER_OF_CASCADES"
	// MaxCascades is the largest supported number of shadow cascades.
	MaxCascades = 8

	nameCascadeSelection   = "CascadeSelection"
	nameGetShadow          = "GetShadow"
	nameColorDebugCascades = "ColorDebugCascades"
)

// Blending into the next cascade starts at blendStart percent of the depth range of
// the first cascade and starts blendStep percent earlier for every further cascade,
// never before blendFloor percent.
const (
	blendStart = 85
	blendStep  = 5
	blendFloor = 50
)

// CascadeDebugColors tint fragments by the cascade they sample in debug output.
var CascadeDebugColors = [4]ms3.Vec{
	{X: 1, Y: 0.25, Z: 0.25},
	{X: 0.25, Y: 1, Z: 0.25},
	{X: 0.25, Y: 0.25, Z: 1},
	{X: 1, Y: 1, Z: 0.25},
}

var cascadeSelection = sync.OnceValue(func() glbuild.ShaderObject {
	clip := glnames.ClipPlanes
	src, err := glbuild.AppendFunctionDecl(nil, "vec3", nameCascadeSelection, []string{"float viewDepth"}, []string{
		string(glbuild.AppendFloatDecl(nil, "blendStart", blendStart)),
		string(glbuild.AppendFloatDecl(nil, "blendStep", blendStep)),
		string(glbuild.AppendFloatDecl(nil, "blendFloor", blendFloor)),
		"int first = " + CascadeCountDefine + " - 1",
		"for (int i = 0; i < " + CascadeCountDefine + "; i++)",
		"{",
		"if (viewDepth < " + clip + "[i].y)",
		"{",
		"first = i",
		"break",
		"}",
		"}",
		"int second = -1",
		"float percentNormalized = 0.0",
		"if (first + 1 < " + CascadeCountDefine + " && viewDepth >= " + clip + "[first + 1].x)",
		"{",
		"second = first + 1",
		"int idx = first + 1",
		"vec2 planes = " + clip + "[first]",
		"float percent = 100.0 * (viewDepth - planes.x) / (planes.y - planes.x)",
		"float threshold = max(blendStart - blendStep * float(idx - 1), blendFloor)",
		"if (percent >= threshold)",
		"{",
		"percentNormalized = (percent - threshold) / (100.0 - threshold)",
		"}",
		"}",
		"return vec3(float(first), float(second), percentNormalized)",
	})
	if err != nil {
		panic(err)
	}
	return glbuild.MustShaderFunction(src)
})

// CascadeSelection selects the shadow cascades of a fragment at view depth viewDepth.
// It returns the first cascade index, the cascade to blend into or -1, and the blend factor:
//
//	vec3 CascadeSelection(float viewDepth)
//
// Requires the ClipPlanes uniform array and the NUMBER_OF_CASCADES macro.
func CascadeSelection() glbuild.ShaderObject { return cascadeSelection() }

func viewDepthLine() string {
	return "float viewDepth = abs((" + glnames.View + " * vec4(fragPos, 1.0)).z)"
}

var getShadow = sync.OnceValue(func() glbuild.ShaderObject {
	sample := func(layer string) string {
		return "ShadowCalculationCascaded(" + glnames.ShadowMap + ", " + glnames.LightSpaceMatrices + "[" + layer + "] * vec4(fragPos, 1.0), " +
			layer + ", normal, lightDir, " + glnames.LightField(glnames.LightBias) + ", " + glnames.PcfKernelHalfSize + ")"
	}
	src, err := glbuild.AppendFunctionDecl(nil, "float", nameGetShadow, []string{"vec3 fragPos", "vec3 normal", "vec3 lightDir"}, []string{
		viewDepthLine(),
		"vec3 selection = " + nameCascadeSelection + "(viewDepth)",
		"int first = int(selection.x)",
		"int second = int(selection.y)",
		"float shadow = " + sample("first"),
		"if (second >= 0 && selection.z > 0.0)",
		"{",
		"float nextShadow = " + sample("second"),
		"shadow = mix(shadow, nextShadow, selection.z)",
		"}",
		"return shadow",
	})
	if err != nil {
		panic(err)
	}
	return glbuild.MustShaderFunction(src, nameCascadeSelection, glsllib.ShadowCalculationCascaded().Name())
})

// GetShadow samples the cascaded shadow map, blending between adjacent cascades:
//
//	float GetShadow(vec3 fragPos, vec3 normal, vec3 lightDir)
//
// fragPos is in world space. Reads the light, uView, ShadowMap, LightSpaceMatrices
// and PcfKernelHalfSize uniforms.
func GetShadow() glbuild.ShaderObject { return getShadow() }

var colorDebugCascades = sync.OnceValue(func() glbuild.ShaderObject {
	n := strconv.Itoa(len(CascadeDebugColors))
	colors := glbuild.AppendVec3SliceDecl(nil, "cascadeColors", CascadeDebugColors[:])
	src, err := glbuild.AppendFunctionDecl(nil, "vec3", nameColorDebugCascades, []string{"vec3 fragPos"}, []string{
		string(colors),
		viewDepthLine(),
		"vec3 selection = " + nameCascadeSelection + "(viewDepth)",
		"vec3 color = cascadeColors[int(selection.x) % " + n + "]",
		"if (selection.y >= 0.0)",
		"{",
		"color = mix(color, cascadeColors[int(selection.y) % " + n + "], selection.z)",
		"}",
		"return color",
	})
	if err != nil {
		panic(err)
	}
	return glbuild.MustShaderFunction(src, nameCascadeSelection)
})

// ColorDebugCascades returns a tint identifying the cascade sampled at fragPos:
//
//	vec3 ColorDebugCascades(vec3 fragPos)
func ColorDebugCascades() glbuild.ShaderObject { return colorDebugCascades() }

// CascadeBlendThreshold returns the depth range percentage of the 1-based
// cascade idx at which blending into the next cascade starts.
func CascadeBlendThreshold(idx int) float32 {
	return math.Max(blendStart-blendStep*float32(idx-1), blendFloor)
}

// CascadeBlendFactor returns the normalized blend factor into the next cascade of a
// fragment at percent of the depth range of the 1-based cascade idx. It is zero up
// to and including the threshold.
func CascadeBlendFactor(percent float32, idx int) float32 {
	threshold := CascadeBlendThreshold(idx)
	if percent < threshold {
		return 0
	}
	return (percent - threshold) / (100 - threshold)
}

// SelectCascade mirrors the CascadeSelection shader on the host. clipPlanes holds
// the (near, far) view depth range of each cascade.
func SelectCascade(viewDepth float32, clipPlanes []ms2.Vec) (first, second int, blend float32) {
	n := len(clipPlanes)
	first = n - 1
	for i, planes := range clipPlanes {
		if viewDepth < planes.Y {
			first = i
			break
		}
	}
	second = -1
	if first+1 < n && viewDepth >= clipPlanes[first+1].X {
		second = first + 1
		planes := clipPlanes[first]
		percent := 100 * (viewDepth - planes.X) / (planes.Y - planes.X)
		blend = CascadeBlendFactor(percent, first+1)
	}
	return first, second, blend
}

// CascadeClipPlanes splits the view depth range [near, far] into n cascades with the
// practical split scheme, interpolating between logarithmic (lambda=1) and uniform
// (lambda=0) splits. Each cascade after the first starts overlap times the previous
// cascade's length before the previous cascade ends so that their shadows can be blended.
func CascadeClipPlanes(near, far float32, n int, lambda, overlap float32) ([]ms2.Vec, error) {
	switch {
	case near <= 0 || far <= near:
		return nil, fmt.Errorf("%w: cascade depth range [%g, %g]", ErrInvalidConfiguration, near, far)
	case n < 1 || n > MaxCascades:
		return nil, fmt.Errorf("%w: %d cascades, want 1..%d", ErrInvalidConfiguration, n, MaxCascades)
	case lambda < 0 || lambda > 1:
		return nil, fmt.Errorf("%w: split lambda %g outside [0, 1]", ErrInvalidConfiguration, lambda)
	case overlap < 0 || overlap >= 1:
		return nil, fmt.Errorf("%w: cascade overlap %g outside [0, 1)", ErrInvalidConfiguration, overlap)
	}
	split := func(i int) float32 {
		if i == 0 {
			return near
		} else if i == n {
			return far
		}
		frac := float32(i) / float32(n)
		logSplit := near * math.Pow(far/near, frac)
		uniformSplit := near + (far-near)*frac
		return lambda*logSplit + (1-lambda)*uniformSplit
	}
	planes := make([]ms2.Vec, n)
	for i := range planes {
		planes[i] = ms2.Vec{X: split(i), Y: split(i + 1)}
		if i > 0 {
			prev := planes[i-1]
			planes[i].X -= overlap * (prev.Y - prev.X)
		}
	}
	return planes, nil
}
