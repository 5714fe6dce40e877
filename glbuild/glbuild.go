package glbuild

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/soypat/geometry/md2"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

const VersionStr = "#version 430\n"

// ShaderObject is a handle to a self-contained GLSL function definition (a shard)
// and the names of the shards it calls. A ShaderObject is immutable once created.
type ShaderObject struct {
	// NamePtr is the name of the GLSL function defined by the shard.
	NamePtr []byte
	// Requires lists names of functions that must be emitted before this one.
	Requires []string
	// for function shaders.
	funcSource []byte
}

// MakeShaderFunction parses the function name of a GLSL function definition and
// returns a shard for it. requires names the functions called by shaderDef.
func MakeShaderFunction(shaderDef []byte, requires ...string) (sf ShaderObject, err error) {
	shaderDef = bytes.TrimSpace(shaderDef)
	fnNameEnd := bytes.IndexByte(shaderDef, '(')
	fnNameStart := bytes.IndexByte(shaderDef, ' ')
	if fnNameEnd < 0 || fnNameStart < 0 || fnNameStart > fnNameEnd {
		return ShaderObject{}, errors.New("unable to parse function name")
	}
	name := shaderDef[fnNameStart:fnNameEnd]
	name = bytes.TrimSpace(name)
	if len(name) == 0 {
		return ShaderObject{}, errors.New("empty function name")
	}
	for _, req := range requires {
		if req == "" {
			return ShaderObject{}, fmt.Errorf("shader %q: empty dependency name", name)
		} else if req == string(name) {
			return ShaderObject{}, fmt.Errorf("shader %q depends on itself", name)
		}
	}
	sf = ShaderObject{
		NamePtr:    name,
		Requires:   requires,
		funcSource: shaderDef,
	}
	return sf, nil
}

// MustShaderFunction is like [MakeShaderFunction] but panics on error.
// Meant for shards embedded in the binary which are known to be well formed.
func MustShaderFunction(shaderDef []byte, requires ...string) ShaderObject {
	sf, err := MakeShaderFunction(shaderDef, requires...)
	if err != nil {
		panic(err)
	}
	return sf
}

// Name returns the GLSL function name of the shard.
func (obj ShaderObject) Name() string { return string(obj.NamePtr) }

// Source returns the GLSL function definition of the shard.
func (obj ShaderObject) Source() []byte { return obj.funcSource }

func (obj ShaderObject) IsFunction() bool { return len(obj.funcSource) > 0 }

func (obj ShaderObject) Validate() error {
	if len(obj.NamePtr) == 0 {
		return errors.New("shader object zero-length name")
	} else if len(obj.funcSource) == 0 {
		return fmt.Errorf("shader object %q has no function source", obj.NamePtr)
	}
	return nil
}

// Programmer writes shards in dependency order and detects duplicate and conflicting definitions.
type Programmer struct {
	scratch []byte
	// names maps shader names to body hashes for checking duplicates.
	names map[uint64]uint64
	// byName indexes shards by name during a single write.
	byName map[string]int
	state  []visitState
	order  []int
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	visited
)

// NewDefaultProgrammer returns a Programmer ready to write shards.
func NewDefaultProgrammer() *Programmer {
	return &Programmer{
		scratch: make([]byte, 0, 1024),
		names:   make(map[uint64]uint64),
		byName:  make(map[string]int),
	}
}

// WriteFunctions writes the function definitions of objs to w so that every shard
// is written after the shards it requires. Shards with identical name and body are
// written once. Two shards with the same name and different bodies, a missing
// dependency or a dependency cycle all return an error before anything is written.
func (p *Programmer) WriteFunctions(w io.Writer, objs ...ShaderObject) (n int, err error) {
	p.scratch, err = p.AppendFunctions(p.scratch[:0], objs...)
	if err != nil {
		return 0, err
	}
	return w.Write(p.scratch)
}

// AppendFunctions appends the function definitions of objs to dst in dependency order.
// See [Programmer.WriteFunctions].
func (p *Programmer) AppendFunctions(dst []byte, objs ...ShaderObject) ([]byte, error) {
	clear(p.names)
	clear(p.byName)
	unique := objs[:0:0]
	for i := range objs {
		obj := &objs[i]
		if err := obj.Validate(); err != nil {
			return dst, err
		}
		nameHash := hash(obj.NamePtr, 0)
		bodyHash := hash(obj.funcSource, nameHash) // Body hash mixes name as well.
		gotBodyHash, nameConflict := p.names[nameHash]
		if nameConflict {
			if gotBodyHash == bodyHash {
				continue // Shader already added and is identical, skip.
			}
			conflict := unique[p.byName[string(obj.NamePtr)]]
			return dst, fmt.Errorf("duplicate shader name %q w/ body:\n%s\n\nconflict with distinct shader with same name:\n%s", obj.NamePtr, obj.funcSource, conflict.funcSource)
		}
		p.names[nameHash] = bodyHash
		p.byName[string(obj.NamePtr)] = len(unique)
		unique = append(unique, *obj)
	}

	p.state = append(p.state[:0], make([]visitState, len(unique))...)
	p.order = p.order[:0]
	for i := range unique {
		if err := p.visit(unique, i); err != nil {
			return dst, err
		}
	}
	for k, idx := range p.order {
		if k > 0 {
			dst = append(dst, '\n')
		}
		dst = append(dst, unique[idx].funcSource...)
		dst = append(dst, '\n')
	}
	return dst, nil
}

func (p *Programmer) visit(objs []ShaderObject, idx int) error {
	switch p.state[idx] {
	case visited:
		return nil
	case visiting:
		return fmt.Errorf("shader dependency cycle through %q", objs[idx].NamePtr)
	}
	p.state[idx] = visiting
	for _, req := range objs[idx].Requires {
		depIdx, ok := p.byName[req]
		if !ok {
			return fmt.Errorf("shader %q requires %q which was not provided", objs[idx].NamePtr, req)
		}
		if err := p.visit(objs, depIdx); err != nil {
			return err
		}
	}
	p.state[idx] = visited
	p.order = append(p.order, idx)
	return nil
}

// GLSLTypeOf returns the GLSL type name equivalent to the Go type tp.
// Named types whose underlying kind is a 32 bit scalar map to the scalar GLSL type.
func GLSLTypeOf(tp reflect.Type) (typename string, err error) {
	switch tp {
	case reflect.TypeOf(md2.Vec{}):
		typename = "dvec2"
	case reflect.TypeOf(md3.Vec{}):
		typename = "dvec3"
	case reflect.TypeOf(float64(0)):
		typename = "double"
	case reflect.TypeOf(float32(0)):
		typename = "float"
	case reflect.TypeOf(ms2.Vec{}):
		typename = "vec2"
	case reflect.TypeOf(ms3.Vec{}):
		typename = "vec3"
	case reflect.TypeOf([2]ms2.Vec{}), reflect.TypeOf(ms3.Quat{}), reflect.TypeOf([4]float32{}):
		typename = "vec4"
	case reflect.TypeOf(ms2.Mat2{}):
		typename = "mat2"
	case reflect.TypeOf(ms3.Mat3{}):
		typename = "mat3"
	case reflect.TypeOf(ms3.Mat4{}):
		typename = "mat4"
	case reflect.TypeOf(uint32(0)):
		typename = "uint"
	case reflect.TypeOf(int32(0)):
		typename = "int"
	case reflect.TypeOf([2]uint32{}):
		typename = "uvec2"
	case reflect.TypeOf([2]int32{}):
		typename = "ivec2"
	case reflect.TypeOf([3]uint32{}):
		typename = "uvec3"
	case reflect.TypeOf([3]int32{}):
		typename = "ivec3"
	case nil:
		err = errors.New("nil element type")
	default:
		switch tp.Kind() {
		case reflect.Int32:
			typename = "int"
		case reflect.Uint32:
			typename = "uint"
		case reflect.Float32:
			typename = "float"
		default:
			err = fmt.Errorf("equivalent type not implemented for %s", tp.String())
		}
	}
	return typename, err
}

// AppendStructDeclOf appends a GLSL struct declaration named structName with one
// member per exported field of the Go struct type tp. Member names are taken from
// the `glsl` struct tag, or the field name when the tag is absent. Fields tagged
// `glsl:"-"` are skipped.
func AppendStructDeclOf(b []byte, structName string, tp reflect.Type) ([]byte, error) {
	if tp == nil || tp.Kind() != reflect.Struct {
		return b, fmt.Errorf("%w: struct declaration requires struct type, got %v", ErrInvalidArgument, tp)
	}
	fields := make([]StructField, 0, tp.NumField())
	for i := 0; i < tp.NumField(); i++ {
		f := tp.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("glsl")
		if name == "-" {
			continue
		} else if name == "" {
			name = f.Name
		}
		typename, err := GLSLTypeOf(f.Type)
		if err != nil {
			return b, fmt.Errorf("field %s.%s: %w", tp.Name(), f.Name, err)
		}
		fields = append(fields, StructField{Type: typename, Name: name})
	}
	return AppendStructDecl(b, structName, fields)
}

// FormatFunctions is a convenience wrapper over a new [Programmer] that returns the
// written functions as a string.
func FormatFunctions(objs ...ShaderObject) (string, error) {
	var sb strings.Builder
	_, err := NewDefaultProgrammer().WriteFunctions(&sb, objs...)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func hash(b []byte, in uint64) uint64 {
	x := in
	for len(b) >= 8 {
		x ^= binary.LittleEndian.Uint64(b)
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
		b = b[8:]
	}
	if len(b) > 0 {
		var buf [8]byte
		copy(buf[:], b)
		x ^= binary.LittleEndian.Uint64(buf[:])
		x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
		x = (x ^ (x >> 27)) * 0x94d049bb133111eb
		x ^= x >> 31
	}
	return x
}
