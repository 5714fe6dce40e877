package pointcodec

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/rand/v2"
	"testing"

	"github.com/soypat/geometry/md3"
	"github.com/soypat/geometry/ms3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value holds one slot per representation so any layout can be bound to a testPoint.
type value struct {
	i8  int8
	i16 int16
	i32 int32
	i64 int64
	u8  uint8
	u16 uint16
	u32 uint32
	u64 uint64
	f32 float32
	f64 float64
	f3  ms3.Vec
	d3  md3.Vec
}

type testPoint struct {
	v [NumCategories]value
}

func fieldFor(c Category, r Repr) Field[testPoint] {
	switch r {
	case ReprInt8:
		return Int8(func(p *testPoint) *int8 { return &p.v[c].i8 })
	case ReprInt16:
		return Int16(func(p *testPoint) *int16 { return &p.v[c].i16 })
	case ReprInt32:
		return Int32(func(p *testPoint) *int32 { return &p.v[c].i32 })
	case ReprInt64:
		return Int64(func(p *testPoint) *int64 { return &p.v[c].i64 })
	case ReprUint8:
		return Uint8(func(p *testPoint) *uint8 { return &p.v[c].u8 })
	case ReprUint16:
		return Uint16(func(p *testPoint) *uint16 { return &p.v[c].u16 })
	case ReprUint32:
		return Uint32(func(p *testPoint) *uint32 { return &p.v[c].u32 })
	case ReprUint64:
		return Uint64(func(p *testPoint) *uint64 { return &p.v[c].u64 })
	case ReprFloat32:
		return Float32(func(p *testPoint) *float32 { return &p.v[c].f32 })
	case ReprFloat64:
		return Float64(func(p *testPoint) *float64 { return &p.v[c].f64 })
	case ReprFloat3:
		return Float32x3(func(p *testPoint) *ms3.Vec { return &p.v[c].f3 })
	case ReprDouble3:
		return Float64x3(func(p *testPoint) *md3.Vec { return &p.v[c].d3 })
	}
	return Field[testPoint]{}
}

func fieldsFor(l Layout) Fields[testPoint] {
	return Fields[testPoint]{
		Position:  fieldFor(CatPosition, l[CatPosition]),
		Intensity: fieldFor(CatIntensity, l[CatIntensity]),
		Normal:    fieldFor(CatNormal, l[CatNormal]),
		Color:     fieldFor(CatColor, l[CatColor]),
		Label:     fieldFor(CatLabel, l[CatLabel]),
		Curvature: fieldFor(CatCurvature, l[CatCurvature]),
		HitCount:  fieldFor(CatHitCount, l[CatHitCount]),
		GPSTime:   fieldFor(CatGPSTime, l[CatGPSTime]),
	}
}

func randomize(rng *rand.Rand, l Layout, p *testPoint) {
	f32 := func() float32 { return (rng.Float32() - 0.5) * 1e6 }
	f64 := func() float64 { return (rng.Float64() - 0.5) * 1e12 }
	for c, r := range l {
		v := &p.v[c]
		bits := rng.Uint64()
		switch r {
		case ReprInt8:
			v.i8 = int8(bits)
		case ReprInt16:
			v.i16 = int16(bits)
		case ReprInt32:
			v.i32 = int32(bits)
		case ReprInt64:
			v.i64 = int64(bits)
		case ReprUint8:
			v.u8 = uint8(bits)
		case ReprUint16:
			v.u16 = uint16(bits)
		case ReprUint32:
			v.u32 = uint32(bits)
		case ReprUint64:
			v.u64 = bits
		case ReprFloat32:
			v.f32 = f32()
		case ReprFloat64:
			v.f64 = f64()
		case ReprFloat3:
			v.f3 = ms3.Vec{X: f32(), Y: f32(), Z: f32()}
		case ReprDouble3:
			v.d3 = md3.Vec{X: f64(), Y: f64(), Z: f64()}
		}
	}
}

func mustAccessor(t testing.TB, l Layout) *Accessor[testPoint] {
	t.Helper()
	a, err := NewAccessor(fieldsFor(l))
	require.NoError(t, err, l.String())
	return a
}

func TestRoundTripCatalog(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for _, pt := range PointTypes() {
		l, err := pt.Layout()
		require.NoError(t, err)
		a := mustAccessor(t, l)
		got, err := a.PointType()
		require.NoError(t, err)
		assert.Equal(t, pt, got)
		for i := 0; i < 64; i++ {
			var want, decoded testPoint
			randomize(rng, l, &want)
			b, err := a.Encode(&want)
			require.NoError(t, err)
			require.Len(t, b, a.Size())
			require.NoError(t, a.Decode(b, &decoded))
			require.Equal(t, want, decoded, pt.String())
		}
	}
}

func TestRoundTripEveryRepr(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for c := Category(0); c < NumCategories; c++ {
		for r := ReprNone; r < numReprs; r++ {
			if c == CatPosition || !c.Allowed(r) {
				continue
			}
			l := Layout{CatPosition: ReprFloat3}
			l[c] = r
			a := mustAccessor(t, l)
			var want, decoded testPoint
			randomize(rng, l, &want)
			b, err := a.Encode(&want)
			require.NoError(t, err)
			require.NoError(t, a.Decode(b, &decoded))
			assert.Equal(t, want, decoded, "%s %s", c, r)
		}
	}
}

func TestOffsetsMonotonic(t *testing.T) {
	for _, pt := range PointTypes() {
		l, _ := pt.Layout()
		a := mustAccessor(t, l)
		offsets := a.Offsets()
		assert.Equal(t, 0, offsets[0])
		for c := 1; c < NumCategories; c++ {
			assert.Equal(t, l[c-1].Size(), offsets[c]-offsets[c-1], "%s %s", pt, Category(c))
		}
		assert.Equal(t, a.Size(), offsets[NumCategories-1]+l[NumCategories-1].Size())
	}
}

func TestLayoutOrder(t *testing.T) {
	l, err := PosD3ColF3InUs.Layout()
	require.NoError(t, err)
	a := mustAccessor(t, l)
	// Intensity precedes color on the wire even though the name lists color first.
	assert.Equal(t, [NumCategories]int{0, 24, 26, 26, 38, 38, 38, 38}, a.Offsets())
	assert.Equal(t, 38, a.Size())

	var p testPoint
	p.v[CatPosition].d3 = md3.Vec{X: 1, Y: 2, Z: 3}
	p.v[CatIntensity].u16 = 0xBEEF
	p.v[CatColor].f3 = ms3.Vec{X: 0.25, Y: 0.5, Z: 1}
	b, err := a.Encode(&p)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), binary.NativeEndian.Uint16(b[24:]))
	assert.Equal(t, float32(0.5), getFloat32(b[30:]))
	assert.Equal(t, float64(3), getFloat64(b[16:]))
}

// Single byte attributes read and write the byte at their own offset.
func TestSingleByteOffset(t *testing.T) {
	l := Layout{CatPosition: ReprFloat3, CatColor: ReprUint8, CatLabel: ReprInt8, CatHitCount: ReprUint8}
	a := mustAccessor(t, l)
	require.Equal(t, 15, a.Size())

	var p testPoint
	p.v[CatColor].u8 = 0xAB
	p.v[CatLabel].i8 = -2
	p.v[CatHitCount].u8 = 7
	b, err := a.Encode(&p)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB, 0xFE, 7}, b[12:15])

	src := make([]byte, 16)
	src[12], src[13], src[14], src[15] = 0x11, 0x22, 0x33, 0x44
	var decoded testPoint
	require.NoError(t, a.Decode(src, &decoded))
	assert.Equal(t, uint8(0x11), decoded.v[CatColor].u8)
	assert.Equal(t, int8(0x22), decoded.v[CatLabel].i8)
	assert.Equal(t, uint8(0x33), decoded.v[CatHitCount].u8)
}

func TestGetSet(t *testing.T) {
	l, _ := PosD3ColF3InUsLbB.Layout()
	a := mustAccessor(t, l)
	var p testPoint
	require.NoError(t, Set(a, CatIntensity, &p, uint16(300)))
	require.NoError(t, Set(a, CatPosition, &p, md3.Vec{X: -1}))
	got, err := Get[uint16](a, CatIntensity, &p)
	require.NoError(t, err)
	assert.Equal(t, uint16(300), got)
	pos, err := Get[md3.Vec](a, CatPosition, &p)
	require.NoError(t, err)
	assert.Equal(t, md3.Vec{X: -1}, pos)

	_, err = Get[float32](a, CatIntensity, &p)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = Get[float32](a, CatCurvature, &p)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.ErrorIs(t, Set(a, CatNormal, &p, ms3.Vec{}), ErrUnsupported)
	_, err = Get[uint16](a, Category(NumCategories), &p)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = Get[uint16](a, CatIntensity, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.True(t, a.Has(CatLabel))
	assert.False(t, a.Has(CatNormal))
	assert.Equal(t, l, a.Layout())
}

func TestAccessorErrors(t *testing.T) {
	_, err := NewAccessor(Fields[testPoint]{})
	assert.ErrorIs(t, err, ErrUnsupported, "position is required")
	_, err = NewAccessor(fieldsFor(Layout{CatPosition: ReprFloat3, CatNormal: ReprFloat32}))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = NewAccessor(fieldsFor(Layout{CatPosition: ReprFloat3, CatIntensity: ReprDouble3}))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = NewAccessor(Fields[testPoint]{Position: Field[testPoint]{repr: ReprFloat3}})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	a := mustAccessor(t, Layout{CatPosition: ReprFloat3, CatLabel: ReprUint32})
	var p testPoint
	assert.ErrorIs(t, a.Decode(nil, &p), ErrInvalidArgument)
	assert.ErrorIs(t, a.Decode(make([]byte, 16), nil), ErrInvalidArgument)
	assert.ErrorIs(t, a.Decode(make([]byte, 15), &p), ErrShortBuffer)
	_, err = a.Encode(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = a.PointType()
	assert.ErrorIs(t, err, ErrUndefinedPointType)
	_, err = PointType(0).Layout()
	assert.ErrorIs(t, err, ErrUndefinedPointType)
}

func TestPointTypeNames(t *testing.T) {
	seen := make(map[Layout]PointType)
	for _, pt := range PointTypes() {
		l, err := pt.Layout()
		require.NoError(t, err)
		require.NoError(t, l.Validate(), pt.String())
		if prev, ok := seen[l]; ok {
			t.Errorf("%s and %s share layout %s", prev, pt, l)
		}
		seen[l] = pt
		parsed, err := ParsePointType(pt.String())
		require.NoError(t, err)
		assert.Equal(t, pt, parsed)
	}
	pt, err := ParsePointType("posd3colf3inus")
	require.NoError(t, err)
	assert.Equal(t, PosD3ColF3InUs, pt)
	_, err = ParsePointType("PosF2")
	assert.ErrorIs(t, err, ErrUndefinedPointType)
	assert.Equal(t, "{Position:Double3 Intensity:Uint16 Color:Float3}", Layout{
		CatPosition: ReprDouble3, CatColor: ReprFloat3, CatIntensity: ReprUint16,
	}.String())
}

func TestStream(t *testing.T) {
	l, _ := PosD3NorF3ColF3InUsLbBCurFHcUiGpsD.Layout()
	a := mustAccessor(t, l)
	rng := rand.New(rand.NewPCG(5, 6))
	want := make([]testPoint, 100)
	for i := range want {
		randomize(rng, l, &want[i])
	}
	var buf bytes.Buffer
	enc := NewEncoder(&buf, a)
	require.NoError(t, enc.Encode(want[:40]...))
	require.NoError(t, enc.Encode(want[40:]...))
	require.Equal(t, len(want)*a.Size(), buf.Len())

	got, err := NewDecoder(bytes.NewReader(buf.Bytes()), a).DecodeAll(nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	truncated := buf.Bytes()[:buf.Len()-1]
	got, err = NewDecoder(bytes.NewReader(truncated), a).DecodeAll(nil)
	assert.ErrorIs(t, err, ErrShortBuffer)
	assert.Len(t, got, len(want)-1)

	var p testPoint
	err = NewDecoder(bytes.NewReader(nil), a).Decode(&p)
	assert.ErrorIs(t, err, io.EOF)
}

func TestEncodeNoAllocs(t *testing.T) {
	l, _ := PosD3ColF3InUsGpsD.Layout()
	a := mustAccessor(t, l)
	p := new(testPoint)
	randomize(rand.New(rand.NewPCG(7, 8)), l, p)
	dst := make([]byte, 0, a.Size())
	allocs := testing.AllocsPerRun(100, func() {
		dst, _ = a.AppendEncode(dst[:0], p)
		_ = a.Decode(dst, p)
	})
	assert.Zero(t, allocs)
}

func BenchmarkEncode(b *testing.B) {
	l, _ := PosD3NorF3ColF3InUsLbBCurFHcUiGpsD.Layout()
	a := mustAccessor(b, l)
	p := new(testPoint)
	randomize(rand.New(rand.NewPCG(9, 10)), l, p)
	dst := make([]byte, 0, a.Size())
	b.SetBytes(int64(a.Size()))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		dst, _ = a.AppendEncode(dst[:0], p)
	}
}
