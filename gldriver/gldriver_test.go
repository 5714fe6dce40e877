package gldriver

import (
	"testing"

	"github.com/soypat/gshade/glnames"
)

func TestQueryNames(t *testing.T) {
	uniforms := queryNames(glnames.KindUniform)
	attribs := queryNames(glnames.KindAttribute)
	if len(uniforms) == 0 || len(attribs) == 0 {
		t.Fatal("registry has no queryable names")
	}
	for _, name := range uniforms {
		if name == glnames.AllLights || name == glnames.LightUniform {
			t.Errorf("struct uniform %q is not queryable by name", name)
		}
	}
	if got := nullTerminated("uPassNo"); got != "uPassNo\x00" {
		t.Errorf("got %q", got)
	}
	if got := nullTerminated("a\x00"); got != "a\x00" {
		t.Errorf("got %q", got)
	}
}
