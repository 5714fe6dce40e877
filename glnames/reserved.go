package glnames

import (
	"errors"
	"fmt"
	"strings"
)

var ErrReservedIdentifier = errors.New("glnames: reserved identifier")

// reserved holds GLSL 4.30 keywords, words reserved for future use and the
// built-in functions most likely to be shadowed by a local variable name.
var reserved = func() map[string]struct{} {
	words := [...]string{
		// Types.
		"void bool int uint float double",
		"vec2 vec3 vec4 ivec2 ivec3 ivec4 uvec2 uvec3 uvec4 bvec2 bvec3 bvec4 dvec2 dvec3 dvec4",
		"mat2 mat3 mat4 mat2x2 mat2x3 mat2x4 mat3x2 mat3x3 mat3x4 mat4x2 mat4x3 mat4x4 dmat2 dmat3 dmat4",
		"sampler1D sampler2D sampler3D samplerCube sampler2DArray samplerCubeArray sampler2DShadow sampler2DArrayShadow samplerCubeShadow",
		"isampler2D usampler2D image2D atomic_uint",
		// Keywords.
		"attribute const uniform varying buffer shared coherent volatile restrict readonly writeonly",
		"layout centroid flat smooth noperspective patch sample subroutine invariant precise",
		"break continue do for while switch case default if else discard return struct",
		"in out inout true false lowp mediump highp precision",
		// Reserved for future use.
		"common partition active asm class union enum typedef template this resource goto",
		"inline noinline public static extern external interface long short half fixed unsigned superp",
		"input output hvec2 hvec3 hvec4 fvec2 fvec3 fvec4 sampler3DRect filter sizeof cast namespace using",
		// Built-in functions.
		"main radians degrees sin cos tan asin acos atan pow exp log exp2 log2 sqrt inversesqrt",
		"abs sign floor trunc round ceil fract mod min max clamp mix step smoothstep",
		"length distance dot cross normalize reflect refract transpose inverse determinant",
		"any all not texture textureLod texelFetch textureSize dFdx dFdy fwidth",
	}
	m := make(map[string]struct{})
	for _, line := range words {
		for _, w := range strings.Fields(line) {
			m[w] = struct{}{}
		}
	}
	return m
}()

// IsReserved reports whether name is a GLSL keyword, reserved word or built-in name.
func IsReserved(name string) bool {
	_, ok := reserved[name]
	return ok || strings.HasPrefix(name, "gl_")
}

// ValidateIdentifier checks name is usable as a user declared GLSL identifier.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty identifier", ErrReservedIdentifier)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		letter := c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
		digit := '0' <= c && c <= '9'
		if !letter && (!digit || i == 0) {
			return fmt.Errorf("%w: %q has invalid character %q at %d", ErrReservedIdentifier, name, c, i)
		}
	}
	if strings.Contains(name, "__") {
		return fmt.Errorf("%w: %q contains a double underscore", ErrReservedIdentifier, name)
	} else if IsReserved(name) {
		return fmt.Errorf("%w: %q", ErrReservedIdentifier, name)
	}
	return nil
}
