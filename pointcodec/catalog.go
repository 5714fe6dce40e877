package pointcodec

import (
	"fmt"
	"strings"
)

// PointType names a cataloged point layout. Names list the attributes with a
// representation suffix: D3 Double3, F3 Float3, F Float32, D Float64, Us Uint16,
// Ui Uint32, B Uint8.
type PointType uint8

const (
	_ PointType = iota
	PosF3
	PosD3
	PosF3InF
	PosD3InUs
	PosF3ColF3
	PosD3ColF3
	PosF3ColF3InF
	PosD3ColF3InUs
	PosF3NorF3
	PosF3NorF3InF
	PosF3NorF3ColF3
	PosD3NorF3ColF3InUs
	PosD3ColF3InUsLbB
	PosD3ColF3InUsGpsD
	PosD3ColF3InUsLbBCurFHcUiGpsD
	PosD3NorF3ColF3InUsLbBCurFHcUiGpsD
	numPointTypes
)

func layout(pairs ...any) (l Layout) {
	for i := 0; i < len(pairs); i += 2 {
		l[pairs[i].(Category)] = pairs[i+1].(Repr)
	}
	return l
}

var catalog = [numPointTypes]struct {
	name   string
	layout Layout
}{
	PosF3:           {"PosF3", layout(CatPosition, ReprFloat3)},
	PosD3:           {"PosD3", layout(CatPosition, ReprDouble3)},
	PosF3InF:        {"PosF3InF", layout(CatPosition, ReprFloat3, CatIntensity, ReprFloat32)},
	PosD3InUs:       {"PosD3InUs", layout(CatPosition, ReprDouble3, CatIntensity, ReprUint16)},
	PosF3ColF3:      {"PosF3ColF3", layout(CatPosition, ReprFloat3, CatColor, ReprFloat3)},
	PosD3ColF3:      {"PosD3ColF3", layout(CatPosition, ReprDouble3, CatColor, ReprFloat3)},
	PosF3ColF3InF:   {"PosF3ColF3InF", layout(CatPosition, ReprFloat3, CatColor, ReprFloat3, CatIntensity, ReprFloat32)},
	PosD3ColF3InUs:  {"PosD3ColF3InUs", layout(CatPosition, ReprDouble3, CatColor, ReprFloat3, CatIntensity, ReprUint16)},
	PosF3NorF3:      {"PosF3NorF3", layout(CatPosition, ReprFloat3, CatNormal, ReprFloat3)},
	PosF3NorF3InF:   {"PosF3NorF3InF", layout(CatPosition, ReprFloat3, CatNormal, ReprFloat3, CatIntensity, ReprFloat32)},
	PosF3NorF3ColF3: {"PosF3NorF3ColF3", layout(CatPosition, ReprFloat3, CatNormal, ReprFloat3, CatColor, ReprFloat3)},
	PosD3NorF3ColF3InUs: {"PosD3NorF3ColF3InUs", layout(
		CatPosition, ReprDouble3, CatNormal, ReprFloat3, CatColor, ReprFloat3, CatIntensity, ReprUint16,
	)},
	PosD3ColF3InUsLbB: {"PosD3ColF3InUsLbB", layout(
		CatPosition, ReprDouble3, CatColor, ReprFloat3, CatIntensity, ReprUint16, CatLabel, ReprUint8,
	)},
	PosD3ColF3InUsGpsD: {"PosD3ColF3InUsGpsD", layout(
		CatPosition, ReprDouble3, CatColor, ReprFloat3, CatIntensity, ReprUint16, CatGPSTime, ReprFloat64,
	)},
	PosD3ColF3InUsLbBCurFHcUiGpsD: {"PosD3ColF3InUsLbBCurFHcUiGpsD", layout(
		CatPosition, ReprDouble3, CatColor, ReprFloat3, CatIntensity, ReprUint16, CatLabel, ReprUint8,
		CatCurvature, ReprFloat32, CatHitCount, ReprUint32, CatGPSTime, ReprFloat64,
	)},
	PosD3NorF3ColF3InUsLbBCurFHcUiGpsD: {"PosD3NorF3ColF3InUsLbBCurFHcUiGpsD", layout(
		CatPosition, ReprDouble3, CatNormal, ReprFloat3, CatColor, ReprFloat3, CatIntensity, ReprUint16,
		CatLabel, ReprUint8, CatCurvature, ReprFloat32, CatHitCount, ReprUint32, CatGPSTime, ReprFloat64,
	)},
}

// PointTypes returns every cataloged point type.
func PointTypes() []PointType {
	pts := make([]PointType, 0, numPointTypes-1)
	for pt := PosF3; pt < numPointTypes; pt++ {
		pts = append(pts, pt)
	}
	return pts
}

func (pt PointType) String() string {
	if pt == 0 || pt >= numPointTypes {
		return fmt.Sprintf("PointType(%d)", uint8(pt))
	}
	return catalog[pt].name
}

// Layout returns the layout named by pt.
func (pt PointType) Layout() (Layout, error) {
	if pt == 0 || pt >= numPointTypes {
		return Layout{}, fmt.Errorf("%w: %d", ErrUndefinedPointType, uint8(pt))
	}
	return catalog[pt].layout, nil
}

// PointTypeOf returns the cataloged point type with layout l.
func PointTypeOf(l Layout) (PointType, error) {
	for pt := PosF3; pt < numPointTypes; pt++ {
		if catalog[pt].layout == l {
			return pt, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUndefinedPointType, l)
}

// ParsePointType parses a point type name, case insensitive.
func ParsePointType(s string) (PointType, error) {
	for pt := PosF3; pt < numPointTypes; pt++ {
		if strings.EqualFold(s, catalog[pt].name) {
			return pt, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUndefinedPointType, s)
}
