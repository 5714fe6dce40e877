// Package pointcodec packs per-point attributes into a flat byte layout and back.
//
// A point layout is the concatenation, in [Category] order, of the bytes of every
// attribute present in the point. Absent attributes contribute no bytes. Values
// are stored native endian, floats as IEEE-754.
package pointcodec

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupported        = errors.New("pointcodec: unsupported for this point type")
	ErrUndefinedPointType = errors.New("pointcodec: undefined point type")
	ErrInvalidArgument    = errors.New("pointcodec: invalid argument")
	ErrShortBuffer        = errors.New("pointcodec: short buffer")
)

// Category is an attribute slot of a point. Categories are laid out in increasing order.
type Category uint8

const (
	CatPosition Category = iota
	CatIntensity
	CatNormal
	CatColor
	CatLabel
	CatCurvature
	CatHitCount
	CatGPSTime
)

// NumCategories is the number of attribute categories of a point.
const NumCategories = 8

var categoryNames = [NumCategories]string{
	CatPosition:  "Position",
	CatIntensity: "Intensity",
	CatNormal:    "Normal",
	CatColor:     "Color",
	CatLabel:     "Label",
	CatCurvature: "Curvature",
	CatHitCount:  "HitCount",
	CatGPSTime:   "GPSTime",
}

func (c Category) String() string {
	if int(c) >= NumCategories {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// Repr is the numeric representation of an attribute.
type Repr uint8

const (
	ReprNone Repr = iota
	ReprInt8
	ReprInt16
	ReprInt32
	ReprInt64
	ReprUint8
	ReprUint16
	ReprUint32
	ReprUint64
	ReprFloat32
	ReprFloat64
	// ReprFloat3 is three float32 values stored as X, Y, Z.
	ReprFloat3
	// ReprDouble3 is three float64 values stored as X, Y, Z.
	ReprDouble3
	numReprs
)

var reprInfo = [numReprs]struct {
	name string
	size int
}{
	ReprNone:    {"None", 0},
	ReprInt8:    {"Int8", 1},
	ReprInt16:   {"Int16", 2},
	ReprInt32:   {"Int32", 4},
	ReprInt64:   {"Int64", 8},
	ReprUint8:   {"Uint8", 1},
	ReprUint16:  {"Uint16", 2},
	ReprUint32:  {"Uint32", 4},
	ReprUint64:  {"Uint64", 8},
	ReprFloat32: {"Float32", 4},
	ReprFloat64: {"Float64", 8},
	ReprFloat3:  {"Float3", 12},
	ReprDouble3: {"Double3", 24},
}

// Size returns the number of bytes a value of representation r takes in a point layout.
func (r Repr) Size() int {
	if r >= numReprs {
		return 0
	}
	return reprInfo[r].size
}

func (r Repr) String() string {
	if r >= numReprs {
		return fmt.Sprintf("Repr(%d)", uint8(r))
	}
	return reprInfo[r].name
}

func (r Repr) scalar() bool { return r >= ReprInt8 && r <= ReprFloat64 }

func (r Repr) vector() bool { return r == ReprFloat3 || r == ReprDouble3 }

// Allowed reports whether category c accepts representation r. Position must be
// a vector, normals are vectors or absent, color accepts any representation and the
// rest of categories are scalars or absent.
func (c Category) Allowed(r Repr) bool {
	switch c {
	case CatPosition:
		return r.vector()
	case CatNormal:
		return r == ReprNone || r.vector()
	case CatColor:
		return r < numReprs
	case CatIntensity, CatLabel, CatCurvature, CatHitCount, CatGPSTime:
		return r == ReprNone || r.scalar()
	}
	return false
}

// Layout is the representation of every category of a point.
type Layout [NumCategories]Repr

// Validate checks every category of l holds an allowed representation.
func (l Layout) Validate() error {
	for c, r := range l {
		if !Category(c).Allowed(r) {
			return fmt.Errorf("%w: %s as %s", ErrUnsupported, Category(c), r)
		}
	}
	return nil
}

// Has reports whether category c is present in l.
func (l Layout) Has(c Category) bool {
	return int(c) < NumCategories && l[c] != ReprNone
}

// Size returns the number of bytes of an encoded point.
func (l Layout) Size() (size int) {
	for _, r := range l {
		size += r.Size()
	}
	return size
}

// Offsets returns the byte offset of every category in an encoded point. Absent
// categories have the offset the next present category starts at.
func (l Layout) Offsets() (offsets [NumCategories]int) {
	off := 0
	for c, r := range l {
		offsets[c] = off
		off += r.Size()
	}
	return offsets
}

func (l Layout) String() string {
	b := []byte{'{'}
	for c, r := range l {
		if r == ReprNone {
			continue
		}
		if len(b) > 1 {
			b = append(b, ' ')
		}
		b = append(b, categoryNames[c]...)
		b = append(b, ':')
		b = append(b, r.String()...)
	}
	return string(append(b, '}'))
}
