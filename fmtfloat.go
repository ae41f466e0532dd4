// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the floating-point conversions.

package cfmt

import (
	"math"
	"math/bits"

	"github.com/db47h/cfmt/xfloat"
	"github.com/shogo82148/int128"
)

// A floating-point argument: either a float64 or a wide value.
type floatArg struct {
	f    float64
	q    xfloat.Quad
	wide bool
}

func (p *printer) floatArg(d *directive, a *Arg) floatArg {
	switch {
	case d.fl&fLong != 0:
		return floatArg{q: a.ext().Quad(), wide: true}
	case d.fl&fQuad != 0:
		return floatArg{q: a.quad(), wide: true}
	}
	return floatArg{f: a.float64()}
}

func (p *printer) toDecimal(v floatArg, prec int, sig bool) *decimal {
	if v.wide {
		p.dec.setQuad(v.q, prec, sig)
	} else {
		p.dec.setFloat64(v.f, prec, sig)
	}
	return &p.dec
}

func (p *printer) fmtFloat(d *directive, a *Arg) {
	v := p.floatArg(d, a)
	switch d.verb {
	case 'e', 'E':
		pr := d.pr
		if pr == -1 {
			pr = 6
		}
		pr = min(pr, maxFloatPrec)
		dec := p.toDecimal(v, pr, true)
		p.fmtExp(d, dec, dec.digits(), pr)
	case 'f', 'F':
		p.fmtFixedFloat(d, v.f, v.q, v.wide)
	default:
		p.fmtGeneral(d, v)
	}
}

func (p *printer) fmtGeneral(d *directive, v floatArg) {
	pr := d.pr
	switch {
	case pr == -1:
		pr = 6
	case pr == 0:
		pr = 1
	}
	pr = min(pr, maxFloatPrec)
	dec := p.toDecimal(v, pr-1, true)
	dig := dec.digits()
	if dec.special() {
		p.fmtFixed(d, dec, dig, pr)
		return
	}
	if len(dig) == 0 {
		dig = zeroDigit
	}
	if d.fl&fAlt != 0 {
		if dec.dp <= -4 || dec.dp > pr {
			p.fmtExp(d, dec, dig, pr-1)
		} else {
			p.fmtFixed(d, dec, dig, pr-dec.dp)
		}
		return
	}

	// drop trailing zeros
	n := pr
	l := min(len(dig), pr)
	for l > 1 && pr > 0 && dig[l-1] == '0' {
		pr--
		l--
	}
	dig = dig[:l]

	if dec.dp <= -4 || dec.dp > n {
		if pr > l {
			pr = l - 1
		} else if pr > 0 {
			pr--
		}
		p.fmtExp(d, dec, dig, pr)
		return
	}
	if dec.dp > 0 {
		if dec.dp < l {
			pr = l - dec.dp
		} else {
			pr = 0
		}
	} else {
		pr = -dec.dp + min(pr, l)
	}
	p.fmtFixed(d, dec, dig, pr)
}

var zeroDigit = []byte{'0'}

// fmtExp writes dig in scientific notation with pr decimals.
func (p *printer) fmtExp(d *directive, dec *decimal, dig []byte, pr int) {
	if dec.neg {
		d.fl |= fNeg
	}
	if dec.special() {
		p.special(d, string(dig))
		return
	}
	if len(dig) == 0 {
		dig = zeroDigit
	}
	b := p.num[:0]
	b = append(b, dig[0])
	if pr > 0 || d.fl&fAlt != 0 {
		b = append(b, p.ctx.period)
	}
	l := len(dig)
	if l-1 > pr {
		l = pr + 1
	}
	b = append(b, dig[1:l]...)
	tz := pr - (l - 1)

	t := p.tail[:0]
	if isUpper(d.verb) {
		t = append(t, 'E')
	} else {
		t = append(t, 'e')
	}
	t = appendExp(t, dec.dp-1, 2)
	p.emit(d, p.leadSign(d), b, "", t, 0, tz, 1, 3)
}

// appendExp appends the signed exponent e with at least ndigits digits.
func appendExp(t []byte, e, ndigits int) []byte {
	if e < 0 {
		t = append(t, '-')
		e = -e
	} else {
		t = append(t, '+')
	}
	var tmp [8]byte
	i := len(tmp)
	for e > 0 || i > len(tmp)-ndigits {
		i--
		tmp[i] = byte('0' + e%10)
		e /= 10
	}
	return append(t, tmp[i:]...)
}

// fmtFixedFloat implements %f, with the metric suffixes of the $ flag.
func (p *printer) fmtFixedFloat(d *directive, f float64, q xfloat.Quad, wide bool) {
	if d.fl&fMetric != 0 {
		div := 1000.0
		if d.fl&fMetric1024 != 0 {
			div = 1024
		}
		if wide {
			qd := xfloat.QuadFromFloat64(div)
			for d.midx < 8 && !(q.Abs().Cmp(qd) < 0 && !q.IsNaN()) {
				q = q.Quo(qd)
				d.midx++
			}
		} else {
			for d.midx < 8 && !(f < div && f > -div) {
				f /= div
				d.midx++
			}
		}
	}
	pr := d.pr
	if pr == -1 {
		pr = 6
	}
	pr = min(pr, maxFloatPrec)
	dec := p.toDecimal(floatArg{f: f, q: q, wide: wide}, pr, false)
	p.fmtFixed(d, dec, dec.digits(), pr)
}

// fmtFixed writes dig in fixed notation with pr decimals.
func (p *printer) fmtFixed(d *directive, dec *decimal, dig []byte, pr int) {
	if dec.neg {
		d.fl |= fNeg
	}
	if dec.special() {
		p.special(d, string(dig))
		return
	}
	comma := d.fl&fComma != 0
	period := pr > 0 || d.fl&fAlt != 0
	b := p.num[:0]
	dp := dec.dp
	l := len(dig)
	var tz, cs int
	if dp <= 0 {
		// 0.000ddd
		b = append(b, '0')
		if period {
			b = append(b, p.ctx.period)
		}
		n := min(-dp, pr)
		for k := n; k > 0; k -= len(padZero) {
			b = append(b, padZero[:min(k, len(padZero))]...)
		}
		if l+n > pr {
			l = pr - n
		}
		b = append(b, dig[:l]...)
		tz = pr - (n + l)
		cs = 1
	} else {
		c := 0
		if comma {
			c = (3 - dp%3) % 3
		}
		// integer part, zero filled up to the decimal point
		for n := 0; n < dp; n++ {
			if comma {
				if c++; c == 4 {
					c = 1
					b = append(b, p.ctx.comma)
				}
			}
			if n < l {
				b = append(b, dig[n])
			} else {
				b = append(b, '0')
			}
		}
		cs = len(b)
		if period {
			b = append(b, p.ctx.period)
		}
		if dp >= l {
			tz = pr
		} else {
			if l-dp > pr {
				l = pr + dp
			}
			b = append(b, dig[dp:l]...)
			tz = pr - (l - dp)
		}
	}

	var t []byte
	if d.fl&fMetric != 0 {
		t = p.tail[:0]
		if d.fl&fNoSpace == 0 {
			t = append(t, ' ')
		}
		if d.midx > 0 {
			if d.fl&fMetric1024 != 0 {
				t = append(t, "_KMGTPEZY"[d.midx])
				if d.fl&fJEDEC == 0 {
					t = append(t, 'i')
				}
			} else {
				t = append(t, "_kMGTPEZY"[d.midx])
			}
		}
	}
	p.emit(d, p.leadSign(d), b, "", t, 0, tz, cs, 3)
}

// fmtHexFloat implements %a. The significand is held in a 128 bit integer
// with the leading hex digit in the top nibble.
func (p *printer) fmtHexFloat(d *directive, a *Arg) {
	var (
		m      int128.Uint128
		exp    int
		neg    bool
		maxDig int
	)
	glibc := p.ctx.style == GlibcStyle
	switch {
	case d.fl&fLong != 0:
		x := a.ext()
		if x.IsNaN() || x.IsInf() {
			p.hexSpecial(d, x.IsNaN(), x.Signbit())
			return
		}
		se, mant := x.Bits()
		neg = se>>15 != 0
		e := int(se & 0x7fff)
		maxDig = 15
		switch {
		case mant == 0:
		case e == 0 && glibc:
			m.H, exp = mant, -16385
		case e == 0:
			lz := bits.LeadingZeros64(mant)
			m.H, exp = mant<<lz, -16385-lz
		default:
			m.H, exp = mant, e-16383-3
		}
	case d.fl&fQuad != 0:
		x := a.quad()
		if x.IsNaN() || x.IsInf() {
			p.hexSpecial(d, x.IsNaN(), x.Signbit())
			return
		}
		hi, lo := x.Bits()
		neg = hi>>63 != 0
		e := int(hi >> 48 & 0x7fff)
		hi &= 1<<48 - 1
		maxDig = 28
		switch {
		case e == 0 && hi == 0 && lo == 0:
		case e == 0:
			exp = -16382
		default:
			hi |= 1 << 48
			exp = e - 16383
		}
		m = int128.Uint128{H: hi<<12 | lo>>52, L: lo << 12}
	default:
		f := a.float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			p.hexSpecial(d, math.IsNaN(f), math.Signbit(f))
			return
		}
		b := math.Float64bits(f)
		neg = b>>63 != 0
		e := int(b >> 52 & 0x7ff)
		frac := b & (1<<52 - 1)
		maxDig = 13
		switch {
		case e == 0 && frac == 0:
		case e == 0 && glibc:
			m.H, exp = frac<<8, -1022
		case e == 0:
			lz := bits.LeadingZeros64(frac)
			m.H, exp = frac<<lz, -1014-lz
		case glibc:
			m.H, exp = (1<<52|frac)<<8, e-1023
		default:
			m.H, exp = 1<<63|frac<<11, e-1023-3
		}
	}
	if neg {
		d.fl |= fNeg
	}

	pr := d.pr
	if pr < 0 {
		pr = maxDig
	}
	if pr < maxDig {
		m, exp = roundHex(m, exp, pr)
	}

	h := hexLower
	if d.verb == 'A' {
		h = hexUpper
	}
	lead := append(p.leadSign(d), '0', h[16])
	b := p.num[:0]
	b = append(b, h[m.H>>60])
	m = shl128(m, 4)
	if d.pr > 0 || d.pr < 0 && (m.H != 0 || m.L != 0) || d.fl&fAlt != 0 {
		b = append(b, p.ctx.period)
	}
	n := min(pr, maxDig)
	tz := pr - n
	for ; n > 0 && (d.pr >= 0 || m.H != 0 || m.L != 0); n-- {
		b = append(b, h[m.H>>60])
		m = shl128(m, 4)
	}
	t := append(p.tail[:0], h[17])
	t = appendExp(t, exp, 1)
	p.emit(d, lead, b, "", t, 0, tz, 1, 3)
}

func (p *printer) hexSpecial(d *directive, nan, neg bool) {
	if neg && (!nan || signedNaNs) {
		d.fl |= fNeg
	}
	if nan {
		p.special(d, "nan")
	} else {
		p.special(d, "inf")
	}
}

// roundHex rounds the hex significand m to pr fraction digits, half to
// even. A carry out of the leading digit renormalizes to 0x8p(exp+1).
func roundHex(m int128.Uint128, exp, pr int) (int128.Uint128, int) {
	cut := uint(124 - 4*pr) // bits below cut are dropped
	one := shl128(int128.Uint128{L: 1}, cut)
	half := shl128(int128.Uint128{L: 1}, cut-1)
	lowMask := one.Sub(int128.Uint128{L: 1})
	low := int128.Uint128{H: m.H & lowMask.H, L: m.L & lowMask.L}
	m = int128.Uint128{H: m.H &^ lowMask.H, L: m.L &^ lowMask.L}
	c := low.Cmp(half)
	odd := m.H&one.H != 0 || m.L&one.L != 0
	if c > 0 || c == 0 && odd {
		var carry uint64
		m.L, carry = bits.Add64(m.L, one.L, 0)
		m.H, carry = bits.Add64(m.H, one.H, carry)
		if carry != 0 {
			m = int128.Uint128{H: 1 << 63}
			exp++
		}
	}
	return m, exp
}

func shl128(u int128.Uint128, s uint) int128.Uint128 {
	switch {
	case s == 0:
		return u
	case s >= 128:
		return int128.Uint128{}
	case s >= 64:
		return int128.Uint128{H: u.L << (s - 64)}
	}
	return int128.Uint128{H: u.H<<s | u.L>>(64-s), L: u.L << s}
}
