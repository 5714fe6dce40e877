//go:build !tinygo && cgo

package gldriver

import (
	"fmt"
	"os"
	"runtime"
	"testing"

	"github.com/soypat/gshade/assemble"
	"github.com/soypat/gshade/glnames"
	"github.com/soypat/gshade/lighting"
)

// GL calls must run on the main thread so programs are compiled in TestMain
// and the results reported by the tests.
var (
	gpuSkip    string
	gpuResults []compileResult
)

type compileResult struct {
	name   string
	report Report
	err    error
}

func TestMain(m *testing.M) {
	runtime.LockOSThread()
	ctx, err := Init()
	if err != nil {
		gpuSkip = err.Error()
	} else {
		gpuResults = compileAll(ctx)
		ctx.Close()
	}
	runtime.UnlockOSThread()
	os.Exit(m.Run())
}

func compileAll(ctx *Context) (results []compileResult) {
	add := func(name string, prog assemble.Program, err error) {
		var report Report
		if err == nil {
			report, err = ctx.Compile(prog)
		}
		results = append(results, compileResult{name: name, report: report, err: err})
	}
	for _, sm := range lighting.ShadingModels() {
		e := assemble.Effect{ShadingModel: sm, Mesh: assemble.Normals | assemble.UVs, Textures: lighting.AlbedoTex}
		prog, err := assemble.ForwardProgram(e)
		add("forward "+sm.String(), prog, err)
		prog, err = assemble.DeferredGBufferProgram(e, nil)
		add("gbuffer "+sm.String(), prog, err)
	}
	for _, cfg := range []lighting.DeferredConfig{
		{LightType: lighting.Point, CastShadows: true, Ssao: true},
		{LightType: lighting.Spot, CastShadows: true},
		{LightType: lighting.Parallel, CastShadows: true, NumberOfCascades: 4, DebugCascades: true},
		{LightType: lighting.Legacy},
	} {
		prog, err := assemble.DeferredLightingProgram(cfg)
		add(fmt.Sprintf("lighting %+v", cfg), prog, err)
	}
	return results
}

func TestCompileAssembled(t *testing.T) {
	if gpuSkip != "" {
		t.Skip("no GPU context:", gpuSkip)
	}
	for _, res := range gpuResults {
		if res.err != nil {
			t.Errorf("%s: %v", res.name, res.err)
			continue
		}
		if _, ok := res.report.Attribs[glnames.VertexAttrib]; !ok {
			t.Errorf("%s: %s attribute not active", res.name, glnames.VertexAttrib)
		}
	}
}
