// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xfloat

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shogo82148/int128"
)

var rnd = rand.New(rand.NewSource(0xdecafbad))

// randQuad returns a random normal Quad with an exponent in [-e, e].
func randQuad(e int) Quad {
	hi := rnd.Uint64()
	lo := rnd.Uint64()
	be := uint64(16383 + rnd.Intn(2*e+1) - e)
	hi = hi&(1<<63|(1<<48-1)) | be<<48
	return QuadFromBits(hi, lo)
}

func randExt(e int) Ext {
	be := uint16(16383+rnd.Intn(2*e+1)-e) | uint16(rnd.Intn(2))<<15
	return ExtFromBits(be, rnd.Uint64()|1<<63)
}

type binop struct {
	name string
	q    func(x, y Quad) Quad
	x    func(x, y Ext) Ext
	b    func(z, x, y *big.Float) *big.Float
}

var binops = []binop{
	{"Add", Quad.Add, Ext.Add, (*big.Float).Add},
	{"Sub", Quad.Sub, Ext.Sub, (*big.Float).Sub},
	{"Mul", Quad.Mul, Ext.Mul, (*big.Float).Mul},
	{"Quo", Quad.Quo, Ext.Quo, (*big.Float).Quo},
}

func TestQuad_arith(t *testing.T) {
	for _, op := range binops {
		for i := 0; i < 2000; i++ {
			x, y := randQuad(200), randQuad(200)
			if i%7 == 0 {
				// exercise cancellation
				y = x.Add(randQuad(0).Ldexp(-rnd.Intn(120)))
			}
			z := op.q(x, y)
			want := op.b(new(big.Float).SetPrec(113), x.Big(nil), y.Big(nil))
			if got := z.Big(nil); got.Cmp(want) != 0 {
				t.Fatalf("#%d %s(%v, %v) = %v, want %v", i, op.name, x, y, got, want.Text('g', 36))
			}
		}
	}
}

func TestExt_arith(t *testing.T) {
	for _, op := range binops {
		for i := 0; i < 2000; i++ {
			x, y := randExt(200), randExt(200)
			z := op.x(x, y)
			want := op.b(new(big.Float).SetPrec(64), x.Big(nil), y.Big(nil))
			if got := z.Big(nil); got.Cmp(want) != 0 {
				t.Fatalf("#%d %s(%v, %v) = %v, want %v", i, op.name, x, y, got, want.Text('g', 21))
			}
		}
	}
}

func TestQuad_FMA(t *testing.T) {
	for i := 0; i < 2000; i++ {
		x, y, z := randQuad(100), randQuad(100), randQuad(200)
		if i%3 == 0 {
			// nearly cancel the product
			z = x.Mul(y).Neg()
		}
		p := new(big.Float).SetPrec(256).Mul(x.Big(nil), y.Big(nil))
		want := new(big.Float).SetPrec(113).Add(p, z.Big(nil))
		got := x.FMA(y, z)
		if want.Sign() == 0 {
			if !got.IsZero() {
				t.Fatalf("#%d FMA(%v, %v, %v) = %v, want 0", i, x, y, z, got)
			}
			continue
		}
		if got.Big(nil).Cmp(want) != 0 {
			t.Fatalf("#%d FMA(%v, %v, %v) = %v, want %v", i, x, y, z, got, want.Text('g', 36))
		}
	}
}

func TestQuad_Bits(t *testing.T) {
	for i, test := range []struct {
		x      Quad
		hi, lo uint64
	}{
		{QuadFromFloat64(1), 0x3fff000000000000, 0},
		{QuadFromFloat64(-2), 0xc000000000000000, 0},
		{QuadFromFloat64(0.1), 0x3ffb999999999999, 0xa000000000000000},
		{QuadFromFloat64(math.Inf(-1)), 0xffff000000000000, 0},
		{QuadFromFloat64(math.Copysign(0, -1)), 1 << 63, 0},
		{MaxQuad(), 0x7ffeffffffffffff, 0xffffffffffffffff},
		{QuadFromBits(0, 1), 0, 1},
		{QuadFromBits(0x0000ffffffffffff, 0xffffffffffffffff), 0x0000ffffffffffff, 0xffffffffffffffff},
		{QuadFromBits(0x0001000000000000, 0), 0x0001000000000000, 0},
		{QuadFromUint64(1 << 63), 0x403e000000000000, 0},
	} {
		hi, lo := test.x.Bits()
		if hi != test.hi || lo != test.lo {
			t.Errorf("#%d got %#016x:%016x, want %#016x:%016x", i, hi, lo, test.hi, test.lo)
		}
	}
	if hi, _ := NaNQuad().Bits(); hi != 0x7fff800000000000 {
		t.Errorf("NaN got %#016x", hi)
	}
}

func TestExt_Bits(t *testing.T) {
	type bits struct {
		SE uint16
		M  uint64
	}
	for i, test := range []struct {
		x    Ext
		want bits
	}{
		{ExtFromFloat64(1), bits{0x3fff, 1 << 63}},
		{ExtFromFloat64(-3), bits{0xc000, 3 << 62}},
		{ExtFromFloat64(math.Inf(1)), bits{0x7fff, 1 << 63}},
		{MaxExt(), bits{0x7ffe, ^uint64(0)}},
		{ExtFromBits(0, 1), bits{0, 1}},
		{ExtFromBits(0, 1<<63-1), bits{0, 1<<63 - 1}},
		{ExtFromUint128(int128.Uint128{H: 1, L: 1 << 63}), bits{0x403f, 3 << 62}},
		{ExtFromUint128(int128.Uint128{H: 1, L: 1}), bits{0x403f, 1 << 63}},
		{ExtFromUint128(int128.Uint128{H: 1, L: 3}), bits{0x403f, 1<<63 | 2}},
	} {
		var got bits
		got.SE, got.M = test.x.Bits()
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("#%d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestMakeQuad_subnormal(t *testing.T) {
	for i, test := range []struct {
		m      uint64
		exp    int
		sticky bool
		lo     uint64
	}{
		{3, -16496, false, 1}, // 0.75 ulp
		{1, -16495, false, 0}, // 0.5 ulp, ties to even
		{1, -16495, true, 1},
		{3, -16495, false, 2}, // 1.5 ulp
		{5, -16495, false, 2}, // 2.5 ulp
		{1, -16600, true, 0},
		{1, -16494, false, 1},
	} {
		q := MakeQuad(false, int128.Uint128{L: test.m}, test.exp, test.sticky)
		hi, lo := q.Bits()
		if hi != 0 || lo != test.lo {
			t.Errorf("#%d got %#x:%#x, want 0:%#x", i, hi, lo, test.lo)
		}
	}
}

func TestMakeFloat64(t *testing.T) {
	for i, test := range []struct {
		neg    bool
		m      uint64
		exp    int
		sticky bool
		want   float64
	}{
		{false, 1<<53 + 1, 0, false, 1 << 53},
		{false, 1<<53 + 1, 0, true, 1<<53 + 2},
		{false, 1<<53 + 3, 0, false, 1<<53 + 4},
		{true, 3, -1, false, -1.5},
		{false, 3, -1076, false, math.SmallestNonzeroFloat64},
		{false, 1, -1075, false, 0},
		{false, 1, -1075, true, math.SmallestNonzeroFloat64},
		{true, 1, 1024, false, math.Inf(-1)},
	} {
		got := MakeFloat64(test.neg, int128.Uint128{L: test.m}, test.exp, test.sticky)
		if got != test.want || math.Signbit(got) != test.neg {
			t.Errorf("#%d got %g, want %g", i, got, test.want)
		}
	}
	if got := MakeFloat32(false, int128.Uint128{L: 1<<24 + 1}, 0, false); got != 1<<24 {
		t.Errorf("MakeFloat32 got %g, want %g", got, float32(1<<24))
	}
}

func TestQuad_Float64(t *testing.T) {
	for i := 0; i < 5000; i++ {
		v := math.Float64frombits(rnd.Uint64())
		if math.IsNaN(v) {
			continue
		}
		q := QuadFromFloat64(v)
		if got := q.Float64(); math.Float64bits(got) != math.Float64bits(v) {
			t.Fatalf("#%d %g: got %g", i, v, got)
		}
		if got := ExtFromFloat64(v).Quad().Float64(); math.Float64bits(got) != math.Float64bits(v) {
			t.Fatalf("#%d %g: got %g through Ext", i, v, got)
		}
		if got, want := q.Float32(), float32(v); math.Float32bits(got) != math.Float32bits(want) {
			t.Fatalf("#%d %g: Float32 got %g, want %g", i, v, got, want)
		}
	}
	one := QuadFromFloat64(1)
	half := one.Ldexp(-53)
	for i, test := range []struct {
		x    Quad
		want float64
	}{
		{one.Add(half), 1},
		{one.Add(half).Add(half.Ldexp(-40)), 1 + 0x1p-52},
		{one.Add(half.Ldexp(1)).Add(half), 1 + 0x1p-51},
		{MaxQuad(), math.Inf(1)},
		{one.Ldexp(-1075), 0},
		{one.Ldexp(-1075).Add(one.Ldexp(-1100)), 0x1p-1074},
		{one.Ldexp(-1075).Add(one.Ldexp(-1076)), 0x1p-1074},
		{one.Ldexp(-1076).Add(one.Ldexp(-1100)), 0},
		{one.Ldexp(-1074).Add(one.Ldexp(-1075)), 0x1p-1073},
		{one.Ldexp(-1073).Add(one.Ldexp(-1075)), 0x1p-1073},
		{one.Ldexp(-1075).Add(one.Ldexp(-1100)).Neg(), -0x1p-1074},
	} {
		if got := test.x.Float64(); got != test.want {
			t.Errorf("#%d got %g, want %g", i, got, test.want)
		}
	}
}

func TestQuad_Rint(t *testing.T) {
	for i, test := range []struct {
		x, rint, trunc float64
	}{
		{2.5, 2, 2},
		{3.5, 4, 3},
		{-2.5, -2, -2},
		{0.5, 0, 0},
		{0.75, 1, 0},
		{-2.7, -3, -2},
		{0.2, 0, 0},
		{1e30, 1e30, 1e30},
	} {
		q := QuadFromFloat64(test.x)
		if got := q.Rint().Float64(); got != test.rint {
			t.Errorf("#%d Rint(%g) = %g, want %g", i, test.x, got, test.rint)
		}
		if got := q.Trunc().Float64(); got != test.trunc {
			t.Errorf("#%d Trunc(%g) = %g, want %g", i, test.x, got, test.trunc)
		}
	}
}

func TestQuad_Frexp(t *testing.T) {
	for i := 0; i < 1000; i++ {
		x := randQuad(16000)
		f, e := x.Frexp()
		if a := f.Abs(); a.Cmp(QuadFromFloat64(0.5)) < 0 || a.Cmp(QuadFromFloat64(1)) >= 0 {
			t.Fatalf("#%d frac %v out of range", i, f)
		}
		if y := f.Ldexp(e); y.Cmp(x) != 0 {
			t.Fatalf("#%d Ldexp(Frexp(%v)) = %v", i, x, y)
		}
	}
}

func TestQuad_Uint128(t *testing.T) {
	max := int128.Uint128{H: ^uint64(0), L: ^uint64(0)}
	for i, test := range []struct {
		x    Quad
		want int128.Uint128
	}{
		{QuadFromUint64(12345), int128.Uint128{L: 12345}},
		{QuadFromFloat64(1e20), int128.Uint128{H: 5, L: 7766279631452241920}},
		{QuadFromFloat64(-7.9), int128.Uint128{L: 7}},
		{QuadFromUint128(max), max},
		{QuadFromUint128(int128.Uint128{H: 1 << 40, L: 3}), int128.Uint128{H: 1 << 40, L: 3}},
		{InfQuad(1), max},
		{QuadFromFloat64(0.99), int128.Uint128{}},
	} {
		if got := test.x.Uint128(); got != test.want {
			t.Errorf("#%d got %v, want %v", i, got, test.want)
		}
	}
	if got := QuadFromFloat64(-1e30).Int64(); got != math.MinInt64 {
		t.Errorf("Int64 got %d", got)
	}
}

func TestQuad_special(t *testing.T) {
	zero := Quad{}
	one := QuadFromUint64(1)
	inf := InfQuad(1)
	for i, test := range []struct {
		got  Quad
		want string
	}{
		{inf.Sub(inf), "NaN"},
		{inf.Add(inf), "+Inf"},
		{zero.Quo(zero), "NaN"},
		{one.Quo(zero), "+Inf"},
		{one.Neg().Quo(zero), "-Inf"},
		{inf.Mul(zero), "NaN"},
		{one.Quo(inf.Neg()), "-0"},
		{zero.Neg().Add(zero.Neg()), "-0"},
		{zero.Add(zero.Neg()), "0"},
		{one.Sub(one), "0"},
		{MaxQuad().Add(MaxQuad()), "+Inf"},
		{one.FMA(inf, inf.Neg()), "NaN"},
		{zero.FMA(one, zero.Neg()), "0"},
	} {
		if s := test.got.String(); s != test.want {
			t.Errorf("#%d got %s, want %s", i, s, test.want)
		}
	}
}

func BenchmarkQuad_Mul(b *testing.B) {
	x, y := randQuad(10), randQuad(10)
	for i := 0; i < b.N; i++ {
		x.Mul(y)
	}
}

func BenchmarkQuad_Quo(b *testing.B) {
	x, y := randQuad(10), randQuad(10)
	for i := 0; i < b.N; i++ {
		x.Quo(y)
	}
}
