// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xfloat

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/shogo82148/int128"
)

// unpack returns ±m * 2**s as a float; m must fit in f without rounding.
func unpack(neg bool, mh, ml uint64, s int) float {
	w := wide{mh, ml, 0, 0}
	if w.isZero() {
		return float{neg: neg}
	}
	lz := w.nlz()
	w.shl(uint(lz))
	return fromWide(neg, 128-lz+s, w)
}

func fromFloat64(v float64) float {
	b := math.Float64bits(v)
	neg := b>>63 != 0
	e := int(b>>52) & 0x7ff
	m := b & (1<<52 - 1)
	switch e {
	case 0x7ff:
		if m != 0 {
			return float{form: nan, neg: neg}
		}
		return float{form: inf, neg: neg}
	case 0:
		return unpack(neg, 0, m, -1074)
	}
	return unpack(neg, 0, m|1<<52, e-1075)
}

// packBits returns the significand of finite x, right aligned on n bits,
// and its biased exponent, for a format with the given emin. x must be
// rounded to that format.
func packBits(x float, n uint, emin int32) (m int128.Uint128, e int) {
	s := 128 - n
	if x.exp < emin {
		s += uint(emin - x.exp)
	} else {
		e = int(x.exp - emin + 1)
	}
	w := x.wide()
	w.shr(s + 128)
	return int128.Uint128{H: w[2], L: w[3]}, e
}

func (x float) float64() float64 {
	x = f64fmt.set(x)
	var b uint64
	if x.neg {
		b = 1 << 63
	}
	switch x.form {
	case inf:
		b |= 0x7ff << 52
	case nan:
		b |= 0x7ff<<52 | 1<<51
	case finite:
		m, e := packBits(x, 53, f64fmt.emin)
		b |= uint64(e)<<52 | m.L&(1<<52-1)
	}
	return math.Float64frombits(b)
}

func (x float) float32() float32 {
	x = f32fmt.set(x)
	var b uint32
	if x.neg {
		b = 1 << 31
	}
	switch x.form {
	case inf:
		b |= 0xff << 23
	case nan:
		b |= 0xff<<23 | 1<<22
	case finite:
		m, e := packBits(x, 24, f32fmt.emin)
		b |= uint32(e)<<23 | uint32(m.L)&(1<<23-1)
	}
	return math.Float32frombits(b)
}

func fromQuadBits(hi, lo uint64) float {
	neg := hi>>63 != 0
	e := int(hi>>48) & 0x7fff
	mh := hi & (1<<48 - 1)
	switch e {
	case 0x7fff:
		if mh|lo != 0 {
			return float{form: nan, neg: neg}
		}
		return float{form: inf, neg: neg}
	case 0:
		return unpack(neg, mh, lo, -16494)
	}
	return unpack(neg, mh|1<<48, lo, e-16383-112)
}

func (x float) quadBits() (hi, lo uint64) {
	if x.neg {
		hi = 1 << 63
	}
	switch x.form {
	case inf:
		hi |= 0x7fff << 48
	case nan:
		hi |= 0x7fff<<48 | 1<<47
	case finite:
		m, e := packBits(x, 113, quadfmt.emin)
		hi |= uint64(e)<<48 | m.H&(1<<48-1)
		lo = m.L
	}
	return hi, lo
}

func fromExtBits(se uint16, m uint64) float {
	neg := se>>15 != 0
	e := int(se & 0x7fff)
	switch e {
	case 0x7fff:
		if m<<1 != 0 {
			return float{form: nan, neg: neg}
		}
		return float{form: inf, neg: neg}
	case 0:
		return unpack(neg, 0, m, -16445)
	}
	return unpack(neg, 0, m, e-16383-63)
}

func (x float) extBits() (se uint16, m uint64) {
	if x.neg {
		se = 1 << 15
	}
	switch x.form {
	case inf:
		se |= 0x7fff
		m = 1 << 63
	case nan:
		se |= 0x7fff
		m = 3 << 62
	case finite:
		mm, e := packBits(x, 64, extfmt.emin)
		se |= uint16(e)
		m = mm.L
	}
	return se, m
}

// big returns x as a *big.Float. If z is nil, a new one is allocated with
// enough precision to hold x exactly. NaNs panic with big.ErrNaN.
func (x float) big(z *big.Float) *big.Float {
	if z == nil {
		z = new(big.Float).SetPrec(128)
	}
	switch x.form {
	case zero:
		z.SetInt64(0)
		if x.neg {
			z.Neg(z)
		}
		return z
	case inf:
		return z.SetInf(x.neg)
	case nan:
		panic(big.ErrNaN{})
	}
	var m big.Int
	m.SetUint64(x.mant.H).Lsh(&m, 64)
	m.Or(&m, new(big.Int).SetUint64(x.mant.L))
	z.SetInt(&m)
	z.SetMantExp(z, int(x.exp)-128)
	if x.neg {
		z.Neg(z)
	}
	return z
}

// fromBig returns the value of f nearest to b.
func (f format) fromBig(b *big.Float) float {
	switch {
	case b.IsInf():
		return float{form: inf, neg: b.Signbit()}
	case b.Sign() == 0:
		return float{neg: b.Signbit()}
	}
	var m big.Float
	e := b.MantExp(&m)
	m.Abs(&m).SetMantExp(&m, 128)
	i, acc := m.Int(nil)
	words := i.Bits()
	var u int128.Uint128
	switch bits.UintSize {
	case 64:
		if len(words) > 0 {
			u.L = uint64(words[0])
		}
		if len(words) > 1 {
			u.H = uint64(words[1])
		}
	default:
		for k := len(words) - 1; k >= 0; k-- {
			u.H = u.H<<32 | u.L>>32
			u.L = u.L<<32 | uint64(words[k])
		}
	}
	return f.make(b.Signbit(), u, e-128, acc != big.Exact)
}

func (x float) negate() float {
	x.neg = !x.neg
	return x
}

func (x float) String() string {
	switch x.form {
	case nan:
		return "NaN"
	case inf:
		if x.neg {
			return "-Inf"
		}
		return "+Inf"
	}
	return x.big(nil).Text('g', 36)
}

// MakeFloat64 returns the float64 nearest to (-1)**neg * m * 2**exp. See
// MakeQuad for the meaning of sticky.
func MakeFloat64(neg bool, m int128.Uint128, exp int, sticky bool) float64 {
	return f64fmt.make(neg, m, exp, sticky).float64()
}

// MakeFloat32 is like MakeFloat64 for float32.
func MakeFloat32(neg bool, m int128.Uint128, exp int, sticky bool) float32 {
	return f32fmt.make(neg, m, exp, sticky).float32()
}
