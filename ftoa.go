// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the conversion of binary floating-point values to
// decimal digit strings.

package cfmt

import (
	"bytes"
	"math"
	"math/big"

	"github.com/db47h/cfmt/dd"
	"github.com/db47h/cfmt/xfloat"
	"github.com/shogo82148/int128"
)

// specialExp is the decimal point position of NaNs and infinities.
const specialExp = 0x7000

// A decimal is the result of a float to decimal conversion. For finite
// values, the magnitude is 0.d[0]d[1]...d[n-1] × 10**dp where d is the
// digit string; an empty digit string stands for 0. NaNs and infinities
// have dp == specialExp and the digits "nan" or "inf".
//
// Window digits are written right-aligned in buf, the digits of exact
// conversions in ext.
type decimal struct {
	dig []byte
	buf [64]byte
	ext []byte
	dp  int
	neg bool
}

func (d *decimal) digits() []byte { return d.dig }
func (d *decimal) special() bool  { return d.dp == specialExp }

func (d *decimal) setSpecial(s string) {
	d.dig = d.buf[len(d.buf)-copy(d.buf[len(d.buf)-len(s):], s):]
	d.dp = specialExp
}

func (d *decimal) setZero() {
	d.buf[len(d.buf)-1] = '0'
	d.dig = d.buf[len(d.buf)-1:]
	d.dp = 1
}

// Digit count requests. With sig set, prec+1 significant digits are kept
// (%e and %g). Otherwise, prec digits after the decimal point are kept (%f).
func keepDigits(tens, prec int, sig bool) int {
	if sig {
		return prec + 1
	}
	return tens + prec
}

// Rounding decisions closer than this to a tie, in units of the last
// window digit, are left to setExact. The float64 window is accurate to
// about 2**-38, the wide window to about 2**-89.
const (
	nearTie64   = 0x1p-30
	nearTieWide = 0x1p-60
)

// setFloat64 sets d to the decimal representation of v, rounded to the
// requested number of digits, round half to even. Up to 19 digits are read
// from a double-double window; longer requests and near ties are
// converted exactly.
func (d *decimal) setFloat64(v float64, prec int, sig bool) {
	d.neg = math.Signbit(v)
	if d.neg {
		v = -v
	}
	switch {
	case math.IsNaN(v):
		d.neg = d.neg && signedNaNs
		d.setSpecial("nan")
		return
	case math.IsInf(v, 0):
		d.setSpecial("inf")
		return
	case v == 0:
		d.setZero()
		return
	}

	_, expo := math.Frexp(v)
	expo--
	// The estimate is either the number of integer digits of v or one
	// less.
	var tens int
	if expo < 0 {
		tens = expo * 617 / 2048
	} else {
		tens = expo*1233/4096 + 1
	}
	// 19 digit window: v*10**k in [1e18, 1e19)
	k := 18 - tens
	bits, rem := dd.ToUint64(mulPow10(v, k))
	if bits < 1e18 {
		k++
		bits, rem = dd.ToUint64(mulPow10(v, k))
	}
	dg := int(decDigits64(bits))
	tens = dg - k

	nd := keepDigits(tens, prec, sig)
	switch {
	case nd > dg:
		d.setExact(new(big.Float).SetFloat64(v), prec, sig)
		return
	case nd == dg:
		if math.Abs(rem) > 0.5-nearTie64 {
			d.setExact(new(big.Float).SetFloat64(v), prec, sig)
			return
		}
	case nd >= 0:
		e := uint(dg - nd)
		q, m := divisorPow10(e).div(bits)
		half := pow10tab[e] / 2
		if m == half && math.Abs(rem) < nearTie64 {
			d.setExact(new(big.Float).SetFloat64(v), prec, sig)
			return
		}
		if m > half || m == half && rem > 0 {
			q++
		}
		if q >= pow10tab[nd] {
			tens++
		}
		bits = q
	}

	// strip runs of trailing zeros
	if bits != 0 {
		for bits%1000 == 0 {
			bits /= 1000
		}
	}

	i := len(d.buf)
	for bits >= 1e8 {
		q := bits / 1e8
		i = putChunk(d.buf[:i], uint32(bits-q*1e8), true)
		bits = q
	}
	if bits != 0 {
		i = putChunk(d.buf[:i], uint32(bits), false)
	}
	d.dig = d.buf[i:]
	d.dp = tens
}

// The wide window holds wideDigits+1 digits.
const wideDigits = 37

// setQuad is like setFloat64 for Quad values, with a 38 digit window
// computed with Quad double-doubles.
func (d *decimal) setQuad(v xfloat.Quad, prec int, sig bool) {
	d.neg = v.Signbit()
	switch {
	case v.IsNaN():
		d.neg = d.neg && signedNaNs
		d.setSpecial("nan")
		return
	case v.IsInf():
		d.setSpecial("inf")
		return
	case v.IsZero():
		d.setZero()
		return
	}
	v = v.Abs()

	_, expo := v.Frexp()
	expo--
	var tens int
	if expo < 0 {
		tens = expo*78914>>18 + 1
	} else {
		tens = expo*78913>>18 + 1
	}
	one := dd.Pair[xfloat.Quad]{Hi: v}
	ten := xfloat.QuadFromUint64(10)
	k := wideDigits - tens
	bits, rem := quadToUint128(scalePow10(one, ten, k, wideChunk))
	if bits.Cmp(pow10tab128[wideDigits]) < 0 {
		k++
		bits, rem = quadToUint128(scalePow10(one, ten, k, wideChunk))
	}
	dg := int(decDigits128(bits))
	tens = dg - k

	nd := keepDigits(tens, prec, sig)
	switch {
	case nd > dg:
		d.setExact(v.Big(nil), prec, sig)
		return
	case nd == dg:
		if math.Abs(rem) > 0.5-nearTieWide {
			d.setExact(v.Big(nil), prec, sig)
			return
		}
	case nd >= 0:
		r := pow10tab128[dg-nd]
		half := r.Rsh(1)
		q, m := bits.DivMod(r)
		c := m.Cmp(half)
		if c == 0 && math.Abs(rem) < nearTieWide {
			d.setExact(v.Big(nil), prec, sig)
			return
		}
		if c > 0 || c == 0 && rem > 0 {
			q = q.Add(int128.Uint128{L: 1})
		}
		if q.Cmp(pow10tab128[nd]) >= 0 {
			tens++
		}
		bits = q
	}

	if bits.H != 0 || bits.L != 0 {
		thousand := int128.Uint128{L: 1000}
		for {
			q, m := bits.DivMod(thousand)
			if m.L != 0 {
				break
			}
			bits = q
		}
	}

	i := len(d.buf)
	for bits.H != 0 || bits.L >= 1e8 {
		var r uint32
		bits, r = div1e8(bits)
		i = putChunk(d.buf[:i], r, true)
	}
	if bits.L != 0 {
		i = putChunk(d.buf[:i], uint32(bits.L), false)
	}
	d.dig = d.buf[i:]
	d.dp = tens
}

// setExact sets d to the digits of x, a finite positive value, rounded to
// prec significant digits after the first (sig) or to prec decimals. The
// conversion is exact, ties to even.
func (d *decimal) setExact(x *big.Float, prec int, sig bool) {
	verb := byte('f')
	if sig {
		verb = 'e'
	}
	s := x.Append(d.ext[:0], verb, prec)
	d.ext = s[:0]

	exp := 0
	if i := bytes.IndexByte(s, 'e'); i >= 0 {
		for _, c := range s[i+2:] {
			exp = exp*10 + int(c-'0')
		}
		if s[i+1] == '-' {
			exp = -exp
		}
		s = s[:i]
	}
	// compact the digits in place, dropping the point and leading zeros
	n, dp, frac := 0, 0, false
	for _, c := range s {
		switch {
		case c == '.':
			frac = true
		case n == 0 && c == '0':
			if frac {
				dp--
			}
		default:
			s[n] = c
			n++
			if !frac {
				dp++
			}
		}
	}
	for n > 0 && s[n-1] == '0' {
		n--
	}
	if n == 0 {
		dp = 0
	}
	d.dig = s[:n]
	d.dp = dp + exp
}

// quadToUint128 is like dd.ToUint64 for Quad double-doubles less than
// 2**128.
func quadToUint128(p dd.Pair[xfloat.Quad]) (int128.Uint128, float64) {
	t := p.Hi.Trunc()
	f := p.Hi.Sub(t).Add(p.Lo)
	u := t.Uint128()
	r := f.Rint()
	d := f.Sub(r).Float64()
	if (d == 0.5 || d == -0.5) && (u.L+uint64(r.Int64()))&1 != 0 {
		r = r.Add(xfloat.QuadFromFloat64(2 * d))
		d = -d
	}
	if n := r.Int64(); n >= 0 {
		u = u.Add(int128.Uint128{L: uint64(n)})
	} else {
		u = u.Sub(int128.Uint128{L: uint64(-n)})
	}
	return u, d
}
