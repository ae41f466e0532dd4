// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xfloat

import "math/bits"

var qnan = float{form: nan}

func (f format) add(x, y float) float {
	switch {
	case x.form == nan || y.form == nan:
		return qnan
	case x.form == inf:
		if y.form == inf && x.neg != y.neg {
			return qnan
		}
		return x
	case y.form == inf:
		return y
	case x.form == zero:
		if y.form == zero {
			return float{neg: x.neg && y.neg}
		}
		return y
	case y.form == zero:
		return x
	}
	return f.sum(x.neg, int(x.exp), x.wide(), y.neg, int(y.exp), y.wide())
}

// sum returns the rounded sum of ±0.a * 2**ea and ±0.b * 2**eb. Both a
// and b must be normalized.
func (f format) sum(aneg bool, ea int, a wide, bneg bool, eb int, b wide) float {
	if ea < eb {
		aneg, ea, a, bneg, eb, b = bneg, eb, b, aneg, ea, a
	}
	b.jam(uint(ea - eb))
	if aneg == bneg {
		s, c := addw(a, b)
		if c != 0 {
			s.jam(1)
			s[0] |= 1 << 63
			ea++
		}
		return f.round(aneg, ea, s, false)
	}
	neg := aneg
	switch cmpw(a, b) {
	case 0:
		return float{}
	case -1:
		a, b = b, a
		neg = bneg
	}
	d := subw(a, b)
	lz := d.nlz()
	d.shl(uint(lz))
	return f.round(neg, ea-lz, d, false)
}

func (f format) mul(x, y float) float {
	neg := x.neg != y.neg
	switch {
	case x.form == nan || y.form == nan:
		return qnan
	case x.form == inf || y.form == inf:
		if x.form == zero || y.form == zero {
			return qnan
		}
		return float{form: inf, neg: neg}
	case x.form == zero || y.form == zero:
		return float{neg: neg}
	}
	w, e := product(x, y)
	return f.round(neg, e, w, false)
}

// product returns the exact normalized product of finite x and y.
func product(x, y float) (wide, int) {
	w := mul128(x.mant, y.mant)
	e := int(x.exp) + int(y.exp)
	if w[0]>>63 == 0 {
		w.shl(1)
		e--
	}
	return w, e
}

func (f format) quo(x, y float) float {
	neg := x.neg != y.neg
	switch {
	case x.form == nan || y.form == nan:
		return qnan
	case x.form == inf:
		if y.form == inf {
			return qnan
		}
		return float{form: inf, neg: neg}
	case y.form == inf:
		return float{neg: neg}
	case y.form == zero:
		if x.form == zero {
			return qnan
		}
		return float{form: inf, neg: neg}
	case x.form == zero:
		return float{neg: neg}
	}

	// restoring division, one quotient bit at a time; the remainder
	// needs 129 bits: rc:rh:rl.
	rh, rl := x.mant.H, x.mant.L
	dh, dl := y.mant.H, y.mant.L
	var rc uint64
	e := int(x.exp) - int(y.exp)
	if rh < dh || rh == dh && rl < dl {
		rc, rh, rl = rh>>63, rh<<1|rl>>63, rl<<1
	} else {
		e++
	}
	var q wide
	for i := 0; i < int(f.prec)+2; i++ {
		if rc != 0 || rh > dh || rh == dh && rl >= dl {
			var b uint64
			rl, b = bits.Sub64(rl, dl, 0)
			rh, _ = bits.Sub64(rh, dh, b)
			q.setBit(i)
		}
		rc, rh, rl = rh>>63, rh<<1|rl>>63, rl<<1
	}
	return f.round(neg, e, q, rc|rh|rl != 0)
}

// fma returns x*y+z computed with a single rounding.
func (f format) fma(x, y, z float) float {
	neg := x.neg != y.neg
	switch {
	case x.form == nan || y.form == nan || z.form == nan:
		return qnan
	case x.form == inf || y.form == inf:
		if x.form == zero || y.form == zero {
			return qnan
		}
		if z.form == inf && z.neg != neg {
			return qnan
		}
		return float{form: inf, neg: neg}
	case z.form == inf:
		return z
	case x.form == zero || y.form == zero:
		if z.form == zero {
			return float{neg: neg && z.neg}
		}
		return z
	case z.form == zero:
		return f.mul(x, y)
	}
	w, e := product(x, y)
	return f.sum(neg, e, w, z.neg, int(z.exp), z.wide())
}
