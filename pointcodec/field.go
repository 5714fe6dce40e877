package pointcodec

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms3"
	"golang.org/x/exp/constraints"
)

// Field binds one attribute category of point type P to a value inside P. The zero
// Field is an absent attribute.
type Field[P any] struct {
	repr Repr
	// ref is the func(*P) *T the field was built from. Used by [Get] and [Set].
	ref any
	put func(dst []byte, p *P)
	get func(src []byte, p *P)
}

// Repr returns the representation of the field.
func (f Field[P]) Repr() Repr { return f.repr }

func Int8[P any](ref func(*P) *int8) Field[P]       { return integer(ReprInt8, ref) }
func Int16[P any](ref func(*P) *int16) Field[P]     { return integer(ReprInt16, ref) }
func Int32[P any](ref func(*P) *int32) Field[P]     { return integer(ReprInt32, ref) }
func Int64[P any](ref func(*P) *int64) Field[P]     { return integer(ReprInt64, ref) }
func Uint8[P any](ref func(*P) *uint8) Field[P]     { return integer(ReprUint8, ref) }
func Uint16[P any](ref func(*P) *uint16) Field[P]   { return integer(ReprUint16, ref) }
func Uint32[P any](ref func(*P) *uint32) Field[P]   { return integer(ReprUint32, ref) }
func Uint64[P any](ref func(*P) *uint64) Field[P]   { return integer(ReprUint64, ref) }
func Float32[P any](ref func(*P) *float32) Field[P] { return floating(ReprFloat32, ref) }
func Float64[P any](ref func(*P) *float64) Field[P] { return floating(ReprFloat64, ref) }

// Float32x3 binds a single precision vector stored as X, Y, Z.
func Float32x3[P any](ref func(*P) *ms3.Vec) Field[P] {
	return Field[P]{
		repr: ReprFloat3,
		ref:  ref,
		put: func(dst []byte, p *P) {
			v := ref(p)
			putFloat32(dst[0:4], v.X)
			putFloat32(dst[4:8], v.Y)
			putFloat32(dst[8:12], v.Z)
		},
		get: func(src []byte, p *P) {
			*ref(p) = ms3.Vec{X: getFloat32(src[0:4]), Y: getFloat32(src[4:8]), Z: getFloat32(src[8:12])}
		},
	}
}

// Float64x3 binds a double precision vector stored as X, Y, Z.
func Float64x3[P any](ref func(*P) *md3.Vec) Field[P] {
	return Field[P]{
		repr: ReprDouble3,
		ref:  ref,
		put: func(dst []byte, p *P) {
			v := ref(p)
			putFloat64(dst[0:8], v.X)
			putFloat64(dst[8:16], v.Y)
			putFloat64(dst[16:24], v.Z)
		},
		get: func(src []byte, p *P) {
			*ref(p) = md3.Vec{X: getFloat64(src[0:8]), Y: getFloat64(src[8:16]), Z: getFloat64(src[16:24])}
		},
	}
}

func integer[P any, T constraints.Integer](repr Repr, ref func(*P) *T) Field[P] {
	size := repr.Size()
	return Field[P]{
		repr: repr,
		ref:  ref,
		put:  func(dst []byte, p *P) { putUint(dst[:size], uint64(*ref(p))) },
		get:  func(src []byte, p *P) { *ref(p) = T(getUint(src[:size])) },
	}
}

func floating[P any, T constraints.Float](repr Repr, ref func(*P) *T) Field[P] {
	return Field[P]{
		repr: repr,
		ref:  ref,
		put: func(dst []byte, p *P) {
			if repr == ReprFloat32 {
				putFloat32(dst, float32(*ref(p)))
			} else {
				putFloat64(dst, float64(*ref(p)))
			}
		},
		get: func(src []byte, p *P) {
			if repr == ReprFloat32 {
				*ref(p) = T(getFloat32(src))
			} else {
				*ref(p) = T(getFloat64(src))
			}
		},
	}
}

// putUint stores the low len(dst) bytes of v. Single byte values are stored at dst[0].
func putUint(dst []byte, v uint64) {
	switch len(dst) {
	case 1:
		dst[0] = byte(v)
	case 2:
		binary.NativeEndian.PutUint16(dst, uint16(v))
	case 4:
		binary.NativeEndian.PutUint32(dst, uint32(v))
	case 8:
		binary.NativeEndian.PutUint64(dst, v)
	default:
		panic("pointcodec: bad integer width")
	}
}

func getUint(src []byte) uint64 {
	switch len(src) {
	case 1:
		return uint64(src[0])
	case 2:
		return uint64(binary.NativeEndian.Uint16(src))
	case 4:
		return uint64(binary.NativeEndian.Uint32(src))
	case 8:
		return binary.NativeEndian.Uint64(src)
	}
	panic("pointcodec: bad integer width")
}

func putFloat32(dst []byte, v float32) { binary.NativeEndian.PutUint32(dst, math32.Float32bits(v)) }
func getFloat32(src []byte) float32    { return math32.Float32frombits(binary.NativeEndian.Uint32(src)) }
func putFloat64(dst []byte, v float64) { binary.NativeEndian.PutUint64(dst, math.Float64bits(v)) }
func getFloat64(src []byte) float64    { return math.Float64frombits(binary.NativeEndian.Uint64(src)) }
