// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the conversion of decimal and hexadecimal strings to
// binary floating-point values.

package cfmt

import (
	"math"

	"github.com/db47h/cfmt/dd"
	"github.com/db47h/cfmt/xfloat"
	"github.com/shogo82148/int128"
)

// binaryFloat is the set of operations needed to round a double-double to
// its base type.
type binaryFloat[T any] interface {
	dd.Float[T]
	Frexp() (T, int)
	Ldexp(n int) T
	Trunc() T
	Rint() T
	Cmp(y T) int
	Sign() int
}

// A target describes a binary format for decimal conversion. Exponents are
// frexp exponents: normal values are in [0.5, 1) * 2**[minExp, maxExp].
type target struct {
	digits    int // significant decimal digits accumulated
	minExp    int
	maxExp    int
	subExp    int // exponent of the smallest subnormal
	infOrder  int // values >= 10**(infOrder-1) overflow
	zeroOrder int // values < 10**zeroOrder round to zero
	chunk     int // largest power of ten applied at once
}

var (
	f32Target  = target{digits: 19, minExp: -125, maxExp: 128, subExp: -149, infOrder: 41, zeroOrder: -47, chunk: maxPow10}
	f64Target  = target{digits: 19, minExp: -1021, maxExp: 1024, subExp: -1074, infOrder: 311, zeroOrder: -325, chunk: maxPow10}
	extTarget  = target{digits: 38, minExp: -16381, maxExp: 16384, subExp: -16445, infOrder: 4935, zeroOrder: -4952, chunk: wideChunk}
	quadTarget = target{digits: 38, minExp: -16381, maxExp: 16384, subExp: -16494, infOrder: 4935, zeroOrder: -4967, chunk: wideChunk}
)

// Result of scaleDecimal.
type scaled int

const (
	scaledFinite scaled = iota
	scaledZero
	scaledInf
)

// scaleDecimal returns m * 10**e10 as (x.Hi+x.Lo) * 2**e2 with x.Hi in
// [0.5, 1). When sticky is set, m is followed by nonzero digits and is
// replaced with m+1/2.
func scaleDecimal[T binaryFloat[T]](t *target, m int128.Uint128, sticky bool, e10 int) (x dd.Pair[T], e2 int, r scaled) {
	if m.H == 0 && m.L == 0 {
		return x, 0, scaledZero
	}
	order := e10 + int(decDigits128(m))
	switch {
	case order >= t.infOrder:
		return x, 0, scaledInf
	case order <= t.zeroOrder:
		return x, 0, scaledZero
	}

	var z T
	one := z.FromUint64(1)
	if m.H == 0 && t.digits <= 19 {
		x = dd.FromUint64[T](m.L)
		if sticky {
			x = dd.FastTwoSum(x.Hi, x.Lo.Add(one.Quo(z.FromUint64(2))))
		}
	} else {
		if sticky {
			m = m.Add(m).Add(int128.Uint128{L: 1})
			e2 = -1
		}
		x = dd.FromUint128[T](m)
	}
	x, e := normalize(x)
	e2 += e

	ten := z.FromUint64(10)
	for e10 != 0 {
		k := min(max(e10, -t.chunk), t.chunk)
		e10 -= k
		if k > 0 {
			x = x.Mul(powTen(ten, k))
		} else {
			x = x.Quo(powTen(ten, -k))
		}
		x, e = normalize(x)
		e2 += e
	}
	return x, e2, scaledFinite
}

// normalize returns x / 2**e and e, with the high part of the result in
// [0.5, 1).
func normalize[T binaryFloat[T]](x dd.Pair[T]) (dd.Pair[T], int) {
	f, e := x.Hi.Frexp()
	return dd.Pair[T]{Hi: f, Lo: x.Lo.Ldexp(-e)}, e
}

// roundPair rounds (x.Hi+x.Lo) * 2**e2 to T, ties to even. x.Hi must be in
// [0.5, 1) and the nearest value of T to x.Hi+x.Lo.
func roundPair[T binaryFloat[T]](t *target, x dd.Pair[T], e2 int) T {
	var z T
	switch {
	case e2 > t.maxExp:
		return z.MaxFinite().Add(z.MaxFinite())
	case e2 >= t.minExp:
		return x.Hi.Ldexp(e2)
	case e2 < t.subExp:
		// below half the smallest subnormal
		return z
	}

	// Subnormal: scale to units of the smallest subnormal and round to an
	// integer.
	one := z.FromUint64(1)
	half := one.Quo(z.FromUint64(2))
	s := e2 - t.subExp
	yh, yl := x.Hi.Ldexp(s), x.Lo.Ldexp(s)
	tr := yh.Trunc()
	f := dd.TwoSum(yh.Sub(tr), yl)
	q := f.Hi.Rint()
	d := f.Hi.Sub(q)
	r := tr.Add(q)
	switch {
	case d.Cmp(half) == 0:
		if f.Lo.Sign() > 0 || f.Lo.Sign() == 0 && isOdd(r) {
			r = r.Add(one)
		}
	case d.Cmp(half.Neg()) == 0:
		if f.Lo.Sign() < 0 || f.Lo.Sign() == 0 && isOdd(r) {
			r = r.Sub(one)
		}
	}
	return r.Ldexp(t.subExp)
}

func isOdd[T binaryFloat[T]](r T) bool {
	h := r.Ldexp(-1)
	return h.Trunc().Cmp(h) != 0
}

// parseDecimal returns the value of a decimal literal rounded to T.
func parseDecimal[T binaryFloat[T]](t *target, lit *literal) T {
	var z T
	x, e2, r := scaleDecimal[T](t, lit.m, lit.sticky, lit.exp)
	switch r {
	case scaledInf:
		z = z.MaxFinite().Add(z.MaxFinite())
	case scaledFinite:
		z = roundPair(t, x, e2)
	}
	if lit.neg {
		z = z.Neg()
	}
	return z
}

// f32Overflow is halfway between math.MaxFloat32 and 2**128.
const f32Overflow = 0x1.ffffffp127

// roundFloat32 returns hi+lo rounded to float32. hi must be the float64
// nearest to hi+lo and not negative.
func roundFloat32(hi, lo float64) float32 {
	if hi >= f32Overflow {
		if hi == f32Overflow && lo < 0 {
			return math.MaxFloat32
		}
		return float32(math.Inf(1))
	}
	r := float32(hi)
	if float64(r) == hi || lo == 0 {
		return r
	}
	dir := float32(math.Inf(1))
	if hi < float64(r) {
		dir = -dir
	}
	n := math.Nextafter32(r, dir)
	if float64(r)+float64(n) == 2*hi && (lo > 0) == (n > r) {
		// hi is halfway between r and n; lo decides
		return n
	}
	return r
}

// Strtod parses a floating-point number at the start of s, after optional
// white space, and returns its value rounded to the nearest float64 with
// the number of bytes consumed. If s does not start with a number, Strtod
// returns 0, 0.
//
// Decimal numbers, C99 hexadecimal numbers such as 0x1.8p3, "inf",
// "infinity", "nan" and "nan(chars)" are recognized, regardless of case.
// Hexadecimal numbers are rounded correctly. Decimal numbers with more than
// 19 significant digits are rounded from their first 19 digits and a
// sticky bit.
func Strtod(s string) (float64, int) {
	lit := scanLiteral(s, f64Target.digits)
	var v float64
	switch lit.form {
	case litNone:
		return 0, 0
	case litInf:
		v = math.Inf(1)
	case litNaN:
		v = math.NaN()
		if !signedNaNs {
			return v, lit.n
		}
	case litHex:
		return xfloat.MakeFloat64(lit.neg, lit.m, lit.exp, lit.sticky), lit.n
	default:
		return float64(parseDecimal[dd.F64](&f64Target, &lit)), lit.n
	}
	if lit.neg {
		v = math.Copysign(v, -1)
	}
	return v, lit.n
}

// ParseFloat parses a floating-point number at the start of s like Strtod.
// Trailing characters are ignored. It reports false if s does not start
// with a number.
func ParseFloat(s string) (float64, bool) {
	v, n := Strtod(s)
	return v, n > 0
}

// ParseFloatOrNaN returns the value of the floating-point number in s, or
// NaN if s is not a valid number. Leading and trailing white space is
// allowed.
func ParseFloatOrNaN(s string) float64 {
	v, n := Strtod(s)
	if n == 0 || !allSpace(s[n:]) {
		return math.NaN()
	}
	return v
}

// Strtof is like Strtod for float32 values. Decimal numbers are converted
// with a double-double and rounded once.
func Strtof(s string) (float32, int) {
	lit := scanLiteral(s, f32Target.digits)
	var v float32
	switch lit.form {
	case litNone:
		return 0, 0
	case litInf:
		v = float32(math.Inf(1))
	case litNaN:
		v = float32(math.NaN())
		if !signedNaNs {
			return v, lit.n
		}
	case litHex:
		return xfloat.MakeFloat32(lit.neg, lit.m, lit.exp, lit.sticky), lit.n
	default:
		x, e2, r := scaleDecimal[dd.F64](&f32Target, lit.m, lit.sticky, lit.exp)
		switch r {
		case scaledInf:
			v = float32(math.Inf(1))
		case scaledFinite:
			v = roundFloat32(math.Ldexp(float64(x.Hi), e2), math.Ldexp(float64(x.Lo), e2))
		}
	}
	if lit.neg {
		v = float32(math.Copysign(float64(v), -1))
	}
	return v, lit.n
}

// ParseFloat32 is like ParseFloat for float32 values.
func ParseFloat32(s string) (float32, bool) {
	v, n := Strtof(s)
	return v, n > 0
}

// Strtold is like Strtod for Float80 values. Up to 38 significant decimal
// digits are used.
func Strtold(s string) (xfloat.Ext, int) {
	lit := scanLiteral(s, extTarget.digits)
	var v xfloat.Ext
	switch lit.form {
	case litNone:
		return v, 0
	case litInf:
		v = xfloat.InfExt(1)
	case litNaN:
		v = xfloat.NaNExt()
		if !signedNaNs {
			return v, lit.n
		}
	case litHex:
		return xfloat.MakeExt(lit.neg, lit.m, lit.exp, lit.sticky), lit.n
	default:
		return parseDecimal[xfloat.Ext](&extTarget, &lit), lit.n
	}
	if lit.neg {
		v = v.Neg()
	}
	return v, lit.n
}

// ParseFloat80 is like ParseFloat for Float80 values.
func ParseFloat80(s string) (xfloat.Ext, bool) {
	v, n := Strtold(s)
	return v, n > 0
}

// StrtoQ is like Strtod for Float128 values. Up to 38 significant decimal
// digits are used.
func StrtoQ(s string) (xfloat.Quad, int) {
	lit := scanLiteral(s, quadTarget.digits)
	var v xfloat.Quad
	switch lit.form {
	case litNone:
		return v, 0
	case litInf:
		v = xfloat.InfQuad(1)
	case litNaN:
		v = xfloat.NaNQuad()
		if !signedNaNs {
			return v, lit.n
		}
	case litHex:
		return xfloat.MakeQuad(lit.neg, lit.m, lit.exp, lit.sticky), lit.n
	default:
		return parseDecimal[xfloat.Quad](&quadTarget, &lit), lit.n
	}
	if lit.neg {
		v = v.Neg()
	}
	return v, lit.n
}

// ParseFloat128 is like ParseFloat for Float128 values.
func ParseFloat128(s string) (xfloat.Quad, bool) {
	v, n := StrtoQ(s)
	return v, n > 0
}
