//go:build tinygo || !cgo

package gldriver

import "github.com/soypat/gshade/assemble"

type Context struct{}

func Init() (*Context, error) { return nil, ErrNoCGO }

func (ctx *Context) GLVersion() string { return "" }

func (ctx *Context) Compile(prog assemble.Program) (Report, error) {
	return Report{}, ErrNoCGO
}

func (ctx *Context) Close() {}
