// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xfloat

import (
	"math/big"

	"github.com/shogo82148/int128"
)

// A Quad is an IEEE 754 binary128 (quadruple precision) floating-point
// number: 113 bits of mantissa and a 15 bit exponent.
//
// The zero value for a Quad is +0.
type Quad struct {
	f float
}

// QuadFromBits returns the Quad with the IEEE 754 binary128 representation
// hi:lo.
func QuadFromBits(hi, lo uint64) Quad {
	return Quad{fromQuadBits(hi, lo)}
}

// Bits returns the IEEE 754 binary128 representation of x. NaNs are
// returned as quiet NaNs with an empty payload.
func (x Quad) Bits() (hi, lo uint64) {
	return x.f.quadBits()
}

// QuadFromFloat64 returns v as a Quad. The conversion is exact.
func QuadFromFloat64(v float64) Quad {
	return Quad{fromFloat64(v)}
}

// QuadFromUint64 returns u as a Quad. The conversion is exact.
func QuadFromUint64(u uint64) Quad {
	return Quad{quadfmt.fromUint64(u)}
}

// QuadFromUint128 returns u rounded to the nearest Quad.
func QuadFromUint128(u int128.Uint128) Quad {
	return Quad{quadfmt.fromUint128(u)}
}

// QuadFromBig returns b rounded to the nearest Quad.
func QuadFromBig(b *big.Float) Quad {
	return Quad{quadfmt.fromBig(b)}
}

// MakeQuad returns the Quad nearest to (-1)**neg * m * 2**exp. If sticky is
// set, the value is taken to have nonzero bits below m; this only matters
// to break rounding ties.
func MakeQuad(neg bool, m int128.Uint128, exp int, sticky bool) Quad {
	return Quad{quadfmt.make(neg, m, exp, sticky)}
}

// InfQuad returns +Inf if sign >= 0, -Inf if sign < 0.
func InfQuad(sign int) Quad {
	return Quad{float{form: inf, neg: sign < 0}}
}

// NaNQuad returns a quiet NaN.
func NaNQuad() Quad {
	return Quad{qnan}
}

// MaxQuad returns the largest finite Quad.
func MaxQuad() Quad {
	return Quad{quadfmt.max()}
}

// Float64 returns x rounded to the nearest float64.
func (x Quad) Float64() float64 { return x.f.float64() }

// Float32 returns x rounded to the nearest float32.
func (x Quad) Float32() float32 { return x.f.float32() }

// Ext returns x rounded to the nearest Ext.
func (x Quad) Ext() Ext { return Ext{extfmt.set(x.f)} }

// Big sets z to the exact value of x and returns z. If z is nil, a new
// big.Float is allocated. Big panics with big.ErrNaN if x is a NaN.
func (x Quad) Big(z *big.Float) *big.Float { return x.f.big(z) }

// Uint128 returns the integer part of |x|, saturated to the uint128 range.
func (x Quad) Uint128() int128.Uint128 { return x.f.uint128() }

// Int64 returns the integer part of x, saturated to the int64 range. NaNs
// return 0.
func (x Quad) Int64() int64 { return x.f.int64() }

// Add returns the rounded sum x+y.
func (x Quad) Add(y Quad) Quad { return Quad{quadfmt.add(x.f, y.f)} }

// Sub returns the rounded difference x-y.
func (x Quad) Sub(y Quad) Quad { return Quad{quadfmt.add(x.f, y.f.negate())} }

// Mul returns the rounded product x*y.
func (x Quad) Mul(y Quad) Quad { return Quad{quadfmt.mul(x.f, y.f)} }

// Quo returns the rounded quotient x/y.
func (x Quad) Quo(y Quad) Quad { return Quad{quadfmt.quo(x.f, y.f)} }

// FMA returns x*y+z, computed with only one rounding.
func (x Quad) FMA(y, z Quad) Quad { return Quad{quadfmt.fma(x.f, y.f, z.f)} }

// Neg returns -x.
func (x Quad) Neg() Quad { return Quad{x.f.negate()} }

// Abs returns |x|.
func (x Quad) Abs() Quad {
	x.f.neg = false
	return x
}

// Cmp compares x and y and returns -1, 0 or +1 for x < y, x == y and x > y.
// NaNs compare equal to anything.
func (x Quad) Cmp(y Quad) int { return x.f.cmp(y.f) }

// Sign returns -1, 0 or +1 for x < 0, x == ±0 or NaN, and x > 0.
func (x Quad) Sign() int { return x.f.sign() }

// Signbit reports whether x is negative or negative zero.
func (x Quad) Signbit() bool { return x.f.neg }

// IsInf reports whether x is an infinity.
func (x Quad) IsInf() bool { return x.f.form == inf }

// IsNaN reports whether x is a NaN.
func (x Quad) IsNaN() bool { return x.f.form == nan }

// IsZero reports whether x is ±0.
func (x Quad) IsZero() bool { return x.f.form == zero }

// Frexp breaks x into a normalized fraction and an integral power of two.
// It returns frac and exp satisfying x == frac × 2**exp, with the absolute
// value of frac in the interval [½, 1). Zeros, infinities and NaNs are
// returned unchanged with exp 0.
func (x Quad) Frexp() (Quad, int) {
	f, e := frexp(x.f)
	return Quad{f}, e
}

// Ldexp returns x × 2**n, rounded.
func (x Quad) Ldexp(n int) Quad { return Quad{quadfmt.ldexp(x.f, n)} }

// Trunc returns the integer value of x, rounded toward zero.
func (x Quad) Trunc() Quad { return Quad{trunc(x.f)} }

// Rint returns the integer value nearest to x, rounding ties to even.
func (x Quad) Rint() Quad { return Quad{rint(x.f)} }

// FromUint64 returns u as a Quad; the receiver is ignored.
func (Quad) FromUint64(u uint64) Quad { return QuadFromUint64(u) }

// MaxFinite returns the largest finite Quad; the receiver is ignored.
func (Quad) MaxFinite() Quad { return MaxQuad() }

// String formats x with 36 significant digits, enough to identify any
// Quad.
func (x Quad) String() string { return x.f.String() }
