// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xfloat

import (
	"math/big"

	"github.com/shogo82148/int128"
)

// An Ext is an x87 extended precision floating-point number: 64 bits of
// mantissa with an explicit integer bit and a 15 bit exponent.
//
// The zero value for an Ext is +0.
type Ext struct {
	f float
}

// ExtFromBits returns the Ext with sign and exponent se and significand m.
// Unnormals are read as their numeric value and pseudo-NaNs as NaNs.
func ExtFromBits(se uint16, m uint64) Ext {
	return Ext{fromExtBits(se, m)}
}

// Bits returns the sign and exponent word and the significand of x.
func (x Ext) Bits() (se uint16, m uint64) {
	return x.f.extBits()
}

// ExtFromFloat64 returns v as an Ext. The conversion is exact.
func ExtFromFloat64(v float64) Ext {
	return Ext{fromFloat64(v)}
}

// ExtFromUint64 returns u as an Ext. The conversion is exact.
func ExtFromUint64(u uint64) Ext {
	return Ext{extfmt.fromUint64(u)}
}

// ExtFromUint128 returns u rounded to the nearest Ext.
func ExtFromUint128(u int128.Uint128) Ext {
	return Ext{extfmt.fromUint128(u)}
}

// ExtFromBig returns b rounded to the nearest Ext.
func ExtFromBig(b *big.Float) Ext {
	return Ext{extfmt.fromBig(b)}
}

// MakeExt returns the Ext nearest to (-1)**neg * m * 2**exp. See MakeQuad.
func MakeExt(neg bool, m int128.Uint128, exp int, sticky bool) Ext {
	return Ext{extfmt.make(neg, m, exp, sticky)}
}

// InfExt returns +Inf if sign >= 0, -Inf if sign < 0.
func InfExt(sign int) Ext {
	return Ext{float{form: inf, neg: sign < 0}}
}

// NaNExt returns a quiet NaN.
func NaNExt() Ext {
	return Ext{qnan}
}

// MaxExt returns the largest finite Ext.
func MaxExt() Ext {
	return Ext{extfmt.max()}
}

func (x Ext) Float64() float64            { return x.f.float64() }
func (x Ext) Float32() float32            { return x.f.float32() }
func (x Ext) Quad() Quad                  { return Quad{x.f} }
func (x Ext) Big(z *big.Float) *big.Float { return x.f.big(z) }
func (x Ext) Uint128() int128.Uint128     { return x.f.uint128() }
func (x Ext) Int64() int64                { return x.f.int64() }
func (x Ext) Add(y Ext) Ext               { return Ext{extfmt.add(x.f, y.f)} }
func (x Ext) Sub(y Ext) Ext               { return Ext{extfmt.add(x.f, y.f.negate())} }
func (x Ext) Mul(y Ext) Ext               { return Ext{extfmt.mul(x.f, y.f)} }
func (x Ext) Quo(y Ext) Ext               { return Ext{extfmt.quo(x.f, y.f)} }
func (x Ext) FMA(y, z Ext) Ext            { return Ext{extfmt.fma(x.f, y.f, z.f)} }
func (x Ext) Neg() Ext                    { return Ext{x.f.negate()} }
func (x Ext) Abs() Ext {
	x.f.neg = false
	return x
}
func (x Ext) Cmp(y Ext) int         { return x.f.cmp(y.f) }
func (x Ext) Sign() int             { return x.f.sign() }
func (x Ext) Signbit() bool         { return x.f.neg }
func (x Ext) IsInf() bool           { return x.f.form == inf }
func (x Ext) IsNaN() bool           { return x.f.form == nan }
func (x Ext) IsZero() bool          { return x.f.form == zero }
func (x Ext) Ldexp(n int) Ext       { return Ext{extfmt.ldexp(x.f, n)} }
func (x Ext) Trunc() Ext            { return Ext{trunc(x.f)} }
func (x Ext) Rint() Ext             { return Ext{rint(x.f)} }
func (Ext) FromUint64(u uint64) Ext { return ExtFromUint64(u) }
func (Ext) MaxFinite() Ext          { return MaxExt() }
func (x Ext) String() string        { return x.f.String() }

// Frexp is like Quad.Frexp.
func (x Ext) Frexp() (Ext, int) {
	f, e := frexp(x.f)
	return Ext{f}, e
}
