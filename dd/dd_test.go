// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dd

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/db47h/cfmt/xfloat"
	"github.com/google/go-cmp/cmp"
	"github.com/shogo82148/int128"
)

var rnd = rand.New(rand.NewSource(1))

func randF64() F64 {
	return F64(math.Ldexp(rnd.Float64()+0.5, rnd.Intn(200)-100) * float64(1-2*rnd.Intn(2)))
}

func bigPair(x Pair[F64]) *big.Float {
	z := new(big.Float).SetPrec(2200).SetFloat64(float64(x.Hi))
	return z.Add(z, new(big.Float).SetFloat64(float64(x.Lo)))
}

// relErr returns |x-want|/|want| as a float64.
func relErr(x, want *big.Float) float64 {
	d := new(big.Float).SetPrec(want.Prec()).Sub(x, want)
	d.Quo(d, want)
	f, _ := d.Float64()
	return math.Abs(f)
}

func TestTwoSum(t *testing.T) {
	for i := 0; i < 10000; i++ {
		a, b := randF64(), randF64()
		if i&1 != 0 {
			b = b * 0x1p-60
		}
		want := new(big.Float).SetPrec(2200).SetFloat64(float64(a))
		want.Add(want, big.NewFloat(float64(b)))
		if got := bigPair(TwoSum(a, b)); got.Cmp(want) != 0 {
			t.Fatalf("#%d TwoSum(%g, %g) is not exact", i, a, b)
		}
		if math.Abs(float64(a)) < math.Abs(float64(b)) {
			a, b = b, a
		}
		if got := bigPair(FastTwoSum(a, b)); got.Cmp(want) != 0 {
			t.Fatalf("#%d FastTwoSum(%g, %g) is not exact", i, a, b)
		}
	}
}

func TestTwoMult(t *testing.T) {
	for i := 0; i < 10000; i++ {
		a, b := randF64(), randF64()
		want := new(big.Float).SetPrec(2200).SetFloat64(float64(a))
		want.Mul(want, big.NewFloat(float64(b)))
		if got := bigPair(TwoMult(a, b)); got.Cmp(want) != 0 {
			t.Fatalf("#%d TwoMult(%g, %g) is not exact", i, a, b)
		}
	}
}

func TestPair_arith(t *testing.T) {
	const maxErr = 0x1p-100
	for i := 0; i < 5000; i++ {
		x := TwoSum(randF64(), randF64()*0x1p-53)
		y := TwoSum(randF64(), randF64()*0x1p-53)
		bx, by := bigPair(x), bigPair(y)
		for _, test := range []struct {
			name string
			got  Pair[F64]
			want *big.Float
		}{
			{"Add", x.Add(y), new(big.Float).SetPrec(2200).Add(bx, by)},
			{"Mul", x.Mul(y), new(big.Float).SetPrec(2200).Mul(bx, by)},
			{"Quo", x.Quo(y), new(big.Float).SetPrec(2200).Quo(bx, by)},
			{"MulFloat", x.MulFloat(y.Hi), new(big.Float).SetPrec(2200).Mul(bx, big.NewFloat(float64(y.Hi)))},
		} {
			if test.want.Sign() == 0 {
				continue
			}
			if e := relErr(bigPair(test.got), test.want); e > maxErr {
				t.Fatalf("#%d %s(%v, %v): relative error %g", i, test.name, x, y, e)
			}
		}
	}
}

func TestPower(t *testing.T) {
	ten := new(big.Float).SetPrec(2200).SetInt64(10)
	want := new(big.Float).SetPrec(2200).SetInt64(1)
	for n := uint(0); n <= 308; n++ {
		p := Power(F64(10), n)
		if n <= 22 && p.Lo != 0 {
			t.Errorf("10**%d: inexact %v", n, p)
		}
		if e := relErr(bigPair(p), want); e > 0x1p-100 {
			t.Errorf("10**%d: relative error %g", n, e)
		}
		want.Mul(want, ten)
	}
}

func TestPower_quad(t *testing.T) {
	ten := xfloat.QuadFromUint64(10)
	for _, n := range []uint{1, 27, 48, 100, 1000, 4000} {
		p := Power(ten, n)
		got := p.Hi.Big(nil)
		got.SetPrec(300).Add(got, p.Lo.Big(nil))
		want := new(big.Float).SetPrec(14000).SetInt64(10)
		want.SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil))
		if e := relErr(got, want); e > 0x1p-200 {
			t.Errorf("10**%d: relative error %g", n, e)
		}
	}
}

func TestFromUint(t *testing.T) {
	for i := 0; i < 1000; i++ {
		u := rnd.Uint64() >> 1
		p := FromUint64[F64](u)
		if got, _ := ToUint64(p); got != u {
			t.Fatalf("ToUint64(FromUint64(%d)) = %d", u, got)
		}
		v := int128.Uint128{H: rnd.Uint64(), L: rnd.Uint64()}
		q := FromUint128[xfloat.Quad](v)
		sum := q.Hi.Big(nil)
		sum.SetPrec(256).Add(sum, q.Lo.Big(nil))
		want := new(big.Float).SetPrec(256).SetUint64(v.H)
		want.SetMantExp(want, 64).Add(want, new(big.Float).SetUint64(v.L))
		if sum.Cmp(want) != 0 {
			t.Fatalf("FromUint128(%v) = %v + %v", v, q.Hi, q.Lo)
		}
	}
}

func TestToUint64(t *testing.T) {
	for i, test := range []struct {
		x    Pair[F64]
		want uint64
		rem  float64
	}{
		{Pair[F64]{-0.3, 0}, 0, -0.3},
		{Pair[F64]{-0.7, 0}, 0, 0},
		{Pair[F64]{2.5, 0}, 2, 0.5},
		{Pair[F64]{3.5, 0}, 4, -0.5},
		{Pair[F64]{1e17, 0.5}, 1e17, 0.5},
		{Pair[F64]{1e17, 1.5}, 1e17 + 2, -0.5},
		{Pair[F64]{1e17, -1}, 1e17 - 1, 0},
		{Pair[F64]{1e17, 0x1p-40}, 1e17, 0x1p-40},
		{Pair[F64]{1e19, -1024}, 1e19 - 1024, 0},
	} {
		got, rem := ToUint64(test.x)
		if got != test.want || rem != test.rem {
			t.Errorf("#%d ToUint64(%v) = %d, %g, want %d, %g", i, test.x, got, rem, test.want, test.rem)
		}
	}
}

func TestInf(t *testing.T) {
	inf := F64(math.Inf(1))
	for i, test := range []struct {
		got, want Pair[F64]
	}{
		{TwoSum(inf, -inf), Pair[F64]{inf, 0}},
		{TwoSum(-inf, 1), Pair[F64]{-inf, 0}},
		{TwoSum[F64](math.MaxFloat64, math.MaxFloat64), Pair[F64]{inf, 0}},
		{FastTwoSum[F64](math.MaxFloat64, math.MaxFloat64), Pair[F64]{inf, 0}},
		// the leading product rounds to +Inf but the exact product of the
		// pairs is below the overflow threshold.
		{
			Pair[F64]{0x1.0000000000001p512, -0x1p459}.Mul(Pair[F64]{0x1.fffffffffffffp511, -0x1p458}),
			Pair[F64]{math.MaxFloat64, 0},
		},
		{
			Pair[F64]{-0x1.0000000000001p512, 0x1p459}.Mul(Pair[F64]{0x1.fffffffffffffp511, -0x1p458}),
			Pair[F64]{-math.MaxFloat64, 0},
		},
		{Pair[F64]{0x1p600, 0}.Mul(Pair[F64]{0x1p600, 0}), Pair[F64]{inf, 0}},
	} {
		if diff := cmp.Diff(test.want, test.got); diff != "" {
			t.Errorf("#%d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestQuo_overflow(t *testing.T) {
	// Max/3 rounded up times 3 is exactly halfway to 2**1024.
	x := Pair[F64]{math.MaxFloat64, 0}
	q := x.Quo(Pair[F64]{3, 0})
	want := new(big.Float).SetPrec(2200).Quo(bigPair(x), big.NewFloat(3))
	if q.Hi.IsInf() || math.IsNaN(float64(q.Lo)) {
		t.Fatalf("MaxFloat64/3 = %v", q)
	}
	if e := relErr(bigPair(q), want); e > 0x1p-100 {
		t.Errorf("MaxFloat64/3: relative error %g", e)
	}

	mq := xfloat.MaxQuad()
	p := Power(xfloat.QuadFromUint64(10), 4000)
	r := Pair[xfloat.Quad]{Hi: mq}.Quo(p)
	if r.Hi.IsInf() || r.Hi.IsNaN() || r.Lo.IsNaN() {
		t.Fatalf("MaxQuad/10**4000 = %v + %v", r.Hi, r.Lo)
	}
	got := r.Hi.Big(nil)
	got.SetPrec(300).Add(got, r.Lo.Big(nil))
	den := p.Hi.Big(nil)
	den.SetPrec(300).Add(den, p.Lo.Big(nil))
	want = new(big.Float).SetPrec(300).Quo(mq.Big(nil), den)
	if e := relErr(got, want); e > 0x1p-200 {
		t.Errorf("MaxQuad/10**4000: relative error %g", e)
	}
}

func BenchmarkPair_Mul(b *testing.B) {
	x := TwoSum(randF64(), randF64()*0x1p-53)
	y := TwoSum(randF64(), randF64()*0x1p-53)
	for i := 0; i < b.N; i++ {
		x.Mul(y)
	}
}

func BenchmarkPower(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Power(F64(10), 300)
	}
}
