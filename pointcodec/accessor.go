package pointcodec

import (
	"fmt"
	"slices"
	"sync"
)

// Fields declares the attributes of point type P. Zero fields are absent.
type Fields[P any] struct {
	Position  Field[P]
	Intensity Field[P]
	Normal    Field[P]
	Color     Field[P]
	Label     Field[P]
	Curvature Field[P]
	HitCount  Field[P]
	GPSTime   Field[P]
}

func (f *Fields[P]) array() [NumCategories]Field[P] {
	return [NumCategories]Field[P]{
		CatPosition:  f.Position,
		CatIntensity: f.Intensity,
		CatNormal:    f.Normal,
		CatColor:     f.Color,
		CatLabel:     f.Label,
		CatCurvature: f.Curvature,
		CatHitCount:  f.HitCount,
		CatGPSTime:   f.GPSTime,
	}
}

// Accessor encodes and decodes points of type P with a fixed layout. An Accessor
// is safe for concurrent use.
type Accessor[P any] struct {
	fields [NumCategories]Field[P]
	layout Layout

	offsetsOnce sync.Once
	offsets     [NumCategories]int
	size        int

	typeOnce  sync.Once
	pointType PointType
	typeErr   error
}

// NewAccessor validates the representation of every field and returns an accessor
// for points with that layout.
func NewAccessor[P any](fields Fields[P]) (*Accessor[P], error) {
	a := &Accessor[P]{fields: fields.array()}
	for c, f := range a.fields {
		a.layout[c] = f.repr
		if f.repr != ReprNone && (f.put == nil || f.get == nil) {
			return nil, fmt.Errorf("%w: %s field not built by a field constructor", ErrInvalidArgument, Category(c))
		}
	}
	if err := a.layout.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Accessor[P]) init() {
	a.offsetsOnce.Do(func() {
		a.offsets = a.layout.Offsets()
		a.size = a.layout.Size()
	})
}

// Layout returns the representation of every category.
func (a *Accessor[P]) Layout() Layout { return a.layout }

// Has reports whether points carry category c.
func (a *Accessor[P]) Has(c Category) bool { return a.layout.Has(c) }

// Size returns the number of bytes of an encoded point.
func (a *Accessor[P]) Size() int {
	a.init()
	return a.size
}

// Offsets returns the byte offset of every category in an encoded point.
func (a *Accessor[P]) Offsets() [NumCategories]int {
	a.init()
	return a.offsets
}

// PointType returns the cataloged point type of the accessor layout or
// [ErrUndefinedPointType] if the layout is not cataloged.
func (a *Accessor[P]) PointType() (PointType, error) {
	a.typeOnce.Do(func() {
		a.pointType, a.typeErr = PointTypeOf(a.layout)
	})
	return a.pointType, a.typeErr
}

// AppendEncode appends the encoded point p to dst.
func (a *Accessor[P]) AppendEncode(dst []byte, p *P) ([]byte, error) {
	if p == nil {
		return dst, fmt.Errorf("%w: nil point", ErrInvalidArgument)
	}
	a.init()
	start := len(dst)
	dst = slices.Grow(dst, a.size)[:start+a.size]
	for c := range a.fields {
		f := &a.fields[c]
		if f.repr == ReprNone {
			continue
		}
		off := start + a.offsets[c]
		f.put(dst[off:off+f.repr.Size()], p)
	}
	return dst, nil
}

// Encode returns the encoded point p.
func (a *Accessor[P]) Encode(p *P) ([]byte, error) {
	return a.AppendEncode(nil, p)
}

// Decode sets the attributes of p from the encoded point at the start of src.
func (a *Accessor[P]) Decode(src []byte, p *P) error {
	if len(src) == 0 {
		return fmt.Errorf("%w: empty source", ErrInvalidArgument)
	} else if p == nil {
		return fmt.Errorf("%w: nil point", ErrInvalidArgument)
	}
	a.init()
	if len(src) < a.size {
		return fmt.Errorf("%w: need %d bytes, got %d", ErrShortBuffer, a.size, len(src))
	}
	for c := range a.fields {
		f := &a.fields[c]
		if f.repr == ReprNone {
			continue
		}
		off := a.offsets[c]
		f.get(src[off:off+f.repr.Size()], p)
	}
	return nil
}

// Get returns the value of category c of p. It fails with [ErrUnsupported] if the
// accessor has no field for c or the field does not hold a T.
func Get[T, P any](a *Accessor[P], c Category, p *P) (T, error) {
	var zero T
	ref, err := fieldRef[T](a, c)
	if err != nil {
		return zero, err
	} else if p == nil {
		return zero, fmt.Errorf("%w: nil point", ErrInvalidArgument)
	}
	return *ref(p), nil
}

// Set sets the value of category c of p. See [Get].
func Set[T, P any](a *Accessor[P], c Category, p *P, v T) error {
	ref, err := fieldRef[T](a, c)
	if err != nil {
		return err
	} else if p == nil {
		return fmt.Errorf("%w: nil point", ErrInvalidArgument)
	}
	*ref(p) = v
	return nil
}

func fieldRef[T, P any](a *Accessor[P], c Category) (func(*P) *T, error) {
	if int(c) >= NumCategories {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, c)
	}
	f := a.fields[c]
	if f.repr == ReprNone {
		return nil, fmt.Errorf("%w: point has no %s", ErrUnsupported, c)
	}
	ref, ok := f.ref.(func(*P) *T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("%w: %s is %s, not %T", ErrUnsupported, c, f.repr, zero)
	}
	return ref, nil
}
