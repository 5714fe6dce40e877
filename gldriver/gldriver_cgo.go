//go:build !tinygo && cgo

package gldriver

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/gshade/assemble"
	"github.com/soypat/gshade/glnames"
)

// Context is a hidden 1x1 window with a current OpenGL 4.6 core context. GL calls
// must be made from the goroutine that created the context, locked to its thread.
type Context struct {
	window *glfw.Window
}

// Init creates the context. Call [Context.Close] when done.
func Init() (*Context, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)
	window, err := glfw.CreateWindow(1, 1, "gshade", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return &Context{window: window}, nil
}

// GLVersion returns the OpenGL version string of the driver.
func (ctx *Context) GLVersion() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Compile compiles and links prog and reports the locations of registry names
// active in it. The program is deleted before returning.
func (ctx *Context) Compile(prog assemble.Program) (Report, error) {
	glprog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   nullTerminated(prog.Vertex),
		Fragment: nullTerminated(prog.Fragment),
	})
	if err != nil {
		return Report{}, err
	}
	defer glprog.Delete()
	report := Report{
		Uniforms: make(map[string]int32),
		Attribs:  make(map[string]uint32),
	}
	for _, name := range queryNames(glnames.KindUniform) {
		loc, err := glprog.UniformLocation(nullTerminated(name))
		if err == nil && loc >= 0 {
			report.Uniforms[name] = loc
		}
	}
	for _, name := range queryNames(glnames.KindAttribute) {
		loc, err := glprog.AttribLocation(nullTerminated(name))
		if err == nil {
			report.Attribs[name] = loc
		}
	}
	return report, glgl.Err()
}

// Close destroys the window and terminates GLFW.
func (ctx *Context) Close() {
	ctx.window.Destroy()
	glfw.Terminate()
}
