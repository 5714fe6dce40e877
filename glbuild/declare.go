package glbuild

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidArgument is returned by declaration helpers when a required type name,
// identifier or value is empty.
var ErrInvalidArgument = errors.New("glbuild: invalid argument")

// StructField is a single member of a GLSL struct declaration.
type StructField struct {
	Type string
	Name string
}

func checkDecl(typename, name string) error {
	if typename == "" {
		return fmt.Errorf("%w: empty type for %q", ErrInvalidArgument, name)
	} else if name == "" {
		return fmt.Errorf("%w: empty identifier of type %q", ErrInvalidArgument, typename)
	}
	return nil
}

// DeclareVar returns "<typename> <name>".
func DeclareVar(typename, name string) (string, error) {
	b, err := AppendVarDecl(nil, typename, name)
	return string(b), err
}

// AppendVarDecl appends "<typename> <name>" to b.
func AppendVarDecl(b []byte, typename, name string) ([]byte, error) {
	if err := checkDecl(typename, name); err != nil {
		return b, err
	}
	b = append(b, typename...)
	b = append(b, ' ')
	b = append(b, name...)
	return b, nil
}

// DeclareIn returns "in <typename> <name>;".
func DeclareIn(typename, name string) (string, error) {
	b, err := AppendQualifiedDecl(nil, "in", typename, name)
	return string(b), err
}

// DeclareOut returns "out <typename> <name>;".
func DeclareOut(typename, name string) (string, error) {
	b, err := AppendQualifiedDecl(nil, "out", typename, name)
	return string(b), err
}

// DeclareUniform returns "uniform <typename> <name>;".
func DeclareUniform(typename, name string) (string, error) {
	b, err := AppendQualifiedDecl(nil, "uniform", typename, name)
	return string(b), err
}

// AppendQualifiedDecl appends "<qualifier> <typename> <name>;" followed by a newline.
func AppendQualifiedDecl(b []byte, qualifier, typename, name string) ([]byte, error) {
	if qualifier == "" {
		return b, fmt.Errorf("%w: empty storage qualifier for %q", ErrInvalidArgument, name)
	}
	if err := checkDecl(typename, name); err != nil {
		return b, err
	}
	b = append(b, qualifier...)
	b = append(b, ' ')
	b, _ = AppendVarDecl(b, typename, name)
	b = append(b, ";\n"...)
	return b, nil
}

// AppendLayoutOutDecl appends "layout (location = <loc>) out <typename> <name>;".
func AppendLayoutOutDecl(b []byte, location int, typename, name string) ([]byte, error) {
	return appendLayoutDecl(b, location, "out", typename, name)
}

// AppendLayoutInDecl appends "layout (location = <loc>) in <typename> <name>;".
func AppendLayoutInDecl(b []byte, location int, typename, name string) ([]byte, error) {
	return appendLayoutDecl(b, location, "in", typename, name)
}

func appendLayoutDecl(b []byte, location int, qualifier, typename, name string) ([]byte, error) {
	if location < 0 {
		return b, fmt.Errorf("%w: negative location %d for %q", ErrInvalidArgument, location, name)
	}
	if err := checkDecl(typename, name); err != nil {
		return b, err
	}
	b = append(b, "layout (location = "...)
	b = strconv.AppendInt(b, int64(location), 10)
	b = append(b, ") "...)
	return AppendQualifiedDecl(b, qualifier, typename, name)
}

// DeclareFunction returns a GLSL function definition:
//
//	<returnType> <name>(<params...>)
//	{
//		<body...>
//	}
//
// Body lines are terminated with a semicolon unless they already end a statement or
// open/close a block. The generated text is not validated as GLSL.
func DeclareFunction(returnType, name string, params, body []string) (string, error) {
	b, err := AppendFunctionDecl(nil, returnType, name, params, body)
	return string(b), err
}

// AppendFunctionDecl appends a function definition to b. See [DeclareFunction].
func AppendFunctionDecl(b []byte, returnType, name string, params, body []string) ([]byte, error) {
	if err := checkDecl(returnType, name); err != nil {
		return b, err
	}
	for i, param := range params {
		if strings.TrimSpace(param) == "" {
			return b, fmt.Errorf("%w: empty parameter %d of %s", ErrInvalidArgument, i, name)
		}
	}
	b = append(b, returnType...)
	b = append(b, ' ')
	b = append(b, name...)
	b = append(b, '(')
	b = append(b, strings.Join(params, ", ")...)
	b = append(b, ")\n"...)
	return AppendBlock(b, body), nil
}

// DeclareMainMethod returns "void main()" with the body lines.
func DeclareMainMethod(body []string) (string, error) {
	return DeclareFunction("void", "main", nil, body)
}

// AppendBlock appends body lines inside braces, indenting nested blocks with tabs.
func AppendBlock(b []byte, body []string) []byte {
	b = append(b, "{\n"...)
	depth := 1
	for _, line := range body {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] == '}' && depth > 1 {
			depth--
		}
		for i := 0; i < depth; i++ {
			b = append(b, '\t')
		}
		b = append(b, line...)
		if needsSemicolon(line) {
			b = append(b, ';')
		}
		b = append(b, '\n')
		if line[len(line)-1] == '{' {
			depth++
		}
	}
	b = append(b, "}\n"...)
	return b
}

func needsSemicolon(line string) bool {
	switch line[len(line)-1] {
	case ';', '{', '}', ':':
		return false
	}
	if line[0] == '#' || strings.HasPrefix(line, "//") {
		return false
	}
	keyword, _, _ := strings.Cut(line, " ")
	keyword, _, _ = strings.Cut(keyword, "(")
	switch keyword {
	case "if", "else", "for", "while", "switch", "do":
		return false
	}
	return true
}

// DeclareStruct returns a GLSL struct declaration.
func DeclareStruct(name string, fields []StructField) (string, error) {
	b, err := AppendStructDecl(nil, name, fields)
	return string(b), err
}

// AppendStructDecl appends a GLSL struct declaration to b.
func AppendStructDecl(b []byte, name string, fields []StructField) ([]byte, error) {
	if name == "" {
		return b, fmt.Errorf("%w: empty struct name", ErrInvalidArgument)
	} else if len(fields) == 0 {
		return b, fmt.Errorf("%w: struct %s has no fields", ErrInvalidArgument, name)
	}
	b = append(b, "struct "...)
	b = append(b, name...)
	b = append(b, "\n{\n"...)
	for _, f := range fields {
		if err := checkDecl(f.Type, f.Name); err != nil {
			return b, fmt.Errorf("struct %s: %w", name, err)
		}
		b = append(b, '\t')
		b, _ = AppendVarDecl(b, f.Type, f.Name)
		b = append(b, ";\n"...)
	}
	b = append(b, "};\n"...)
	return b, nil
}

// Source accumulates GLSL program text. Declaration errors are collected and
// reported together by [Source.Err] so that assembly code reads top to bottom.
type Source struct {
	buf       []byte
	accumErrs []error
}

func (s *Source) Err() error {
	if len(s.accumErrs) == 0 {
		return nil
	}
	return errors.Join(s.accumErrs...)
}

func (s *Source) errorf(msg string, args ...any) {
	s.accumErrs = append(s.accumErrs, fmt.Errorf(msg, args...))
}

func (s *Source) track(b []byte, err error) {
	if err != nil {
		s.accumErrs = append(s.accumErrs, err)
		return
	}
	s.buf = b
}

// String returns the accumulated text.
func (s *Source) String() string { return string(s.buf) }

// Bytes returns the accumulated text. The result aliases the internal buffer.
func (s *Source) Bytes() []byte { return s.buf }

// Raw appends text verbatim.
func (s *Source) Raw(text string) { s.buf = append(s.buf, text...) }

// Line appends text followed by a newline.
func (s *Source) Line(text string) {
	s.buf = append(s.buf, text...)
	s.buf = append(s.buf, '\n')
}

// Newline appends an empty line.
func (s *Source) Newline() { s.buf = append(s.buf, '\n') }

func (s *Source) Define(alias, replace string) {
	if alias == "" {
		s.errorf("%w: empty #define alias", ErrInvalidArgument)
		return
	}
	s.buf = AppendDefineDecl(s.buf, alias, replace)
}

func (s *Source) In(typename, name string) {
	s.track(AppendQualifiedDecl(s.buf, "in", typename, name))
}

func (s *Source) Out(typename, name string) {
	s.track(AppendQualifiedDecl(s.buf, "out", typename, name))
}

func (s *Source) Uniform(typename, name string) {
	s.track(AppendQualifiedDecl(s.buf, "uniform", typename, name))
}

// UniformArray declares "uniform <typename> <name>[<length>];".
func (s *Source) UniformArray(typename, name string, length int) {
	if length <= 0 {
		s.errorf("%w: uniform array %q with length %d", ErrInvalidArgument, name, length)
		return
	}
	s.track(AppendQualifiedDecl(s.buf, "uniform", typename, name+"["+strconv.Itoa(length)+"]"))
}

func (s *Source) LayoutOut(location int, typename, name string) {
	s.track(AppendLayoutOutDecl(s.buf, location, typename, name))
}

func (s *Source) LayoutIn(location int, typename, name string) {
	s.track(AppendLayoutInDecl(s.buf, location, typename, name))
}

func (s *Source) Struct(name string, fields []StructField) {
	s.track(AppendStructDecl(s.buf, name, fields))
}

func (s *Source) Function(returnType, name string, params, body []string) {
	s.track(AppendFunctionDecl(s.buf, returnType, name, params, body))
}

func (s *Source) Main(body []string) {
	s.Function("void", "main", nil, body)
}

// Functions writes shards through p in dependency order.
func (s *Source) Functions(p *Programmer, objs ...ShaderObject) {
	s.track(p.AppendFunctions(s.buf, objs...))
}

// DeclareOutLocation returns "layout (location = <loc>) out <typename> <name>;".
func DeclareOutLocation(location int, typename, name string) (string, error) {
	b, err := AppendLayoutOutDecl(nil, location, typename, name)
	return string(b), err
}

// DeclareConst returns "const <typename> <name> = <value>;".
func DeclareConst(typename, name, value string) (string, error) {
	if err := checkDecl(typename, name); err != nil {
		return "", err
	} else if value == "" {
		return "", fmt.Errorf("%w: empty value for constant %q", ErrInvalidArgument, name)
	}
	b, err := AppendQualifiedDecl(nil, "const", typename, name+" = "+value)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DeclareDefine returns "#define <alias> <replace>".
func DeclareDefine(alias, replace string) (string, error) {
	if alias == "" {
		return "", fmt.Errorf("%w: empty #define alias", ErrInvalidArgument)
	}
	return string(AppendDefineDecl(nil, alias, replace)), nil
}
