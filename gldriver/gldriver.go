// Package gldriver compiles assembled programs on the GPU to check the generated
// GLSL is accepted by the driver. It requires cgo.
package gldriver

import (
	"errors"

	"github.com/soypat/gshade/glnames"
)

var ErrNoCGO = errors.New("gldriver: GPU compilation requires cgo and is not supported on TinyGo")

// Report describes a linked program.
type Report struct {
	// Uniforms maps the registry uniform names active in the program to their location.
	Uniforms map[string]int32
	// Attribs maps the registry attribute names active in the program to their location.
	Attribs map[string]uint32
}

// nullTerminated returns s terminated by a NUL byte as required by the GL API.
func nullTerminated(s string) string {
	if len(s) > 0 && s[len(s)-1] == 0 {
		return s
	}
	return s + "\x00"
}

// queryNames returns the registry names of kind that can be queried by name.
// Struct typed uniforms are bound per member and are skipped.
func queryNames(kind glnames.Kind) []string {
	var names []string
	for _, e := range glnames.Entries() {
		if e.Kind != kind || e.Type == glnames.LightStruct {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}
