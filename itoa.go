// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the integer and pointer conversions.

package cfmt

import (
	"github.com/db47h/cfmt/xfloat"
	"github.com/shogo82148/int128"
)

func (p *printer) fmtPointer(d *directive, a *Arg) {
	d.fl |= fIntmax
	if p.ctx.style == WindowsStyle {
		if d.fw == 0 {
			d.pr = 16
		}
		d.fl &^= fZero
	} else {
		if a.uint64() == 0 {
			d.fl &^= fZero
			d.pr = -1
			p.emit(d, nil, nil, "(nil)", nil, 0, 0, 0, 0)
			return
		}
		d.fl |= fAlt
	}
	p.fmtRadix(d, a)
}

// integer reads an integer argument according to the length modifiers of
// d. Signed values are returned as their magnitude with fNeg set in d.
func (p *printer) integer(d *directive, a *Arg, signed bool) int128.Uint128 {
	switch {
	case d.fl&fQuad != 0:
		u := a.uint128()
		if signed && int64(u.H) < 0 {
			d.fl |= fNeg
			u = int128.Uint128{}.Sub(u)
		}
		return u
	case d.fl&fIntmax != 0:
		u := a.uint64()
		if signed && int64(u) < 0 {
			d.fl |= fNeg
			u = -u
		}
		return int128.Uint128{L: u}
	}
	v := uint32(a.uint64())
	var i int64
	switch {
	case d.fl&fQuarter != 0:
		if !signed {
			return int128.Uint128{L: uint64(uint8(v))}
		}
		i = int64(int8(v))
	case d.fl&fHalf != 0:
		if !signed {
			return int128.Uint128{L: uint64(uint16(v))}
		}
		i = int64(int16(v))
	default:
		if !signed {
			return int128.Uint128{L: uint64(v)}
		}
		i = int64(int32(v))
	}
	if i < 0 {
		d.fl |= fNeg
		i = -i
	}
	return int128.Uint128{L: uint64(i)}
}

func (p *printer) fmtInteger(d *directive, a *Arg) {
	unsigned := d.verb == 'u'
	if unsigned && p.ctx.style == GlibcStyle {
		d.fl &^= fPlus | fSpace
	}
	u := p.integer(d, a, !unsigned)

	if d.fl&fMetric != 0 {
		if u.H == 0 && u.L < 1024 {
			d.pr = 0
		} else if d.pr == -1 {
			d.pr = 1
		}
		if d.fl&fQuad != 0 {
			p.fmtFixedFloat(d, 0, xfloat.QuadFromUint128(u), true)
		} else {
			p.fmtFixedFloat(d, float64(u.L), xfloat.Quad{}, false)
		}
		return
	}

	var comma byte
	if d.fl&fComma != 0 {
		comma = p.ctx.comma
	}
	body := p.num[:0]
	if u.H != 0 || u.L != 0 || d.pr != 0 {
		i := putDecimal(p.num[:], u, comma)
		body = p.num[i:]
	}
	p.emit(d, p.leadSign(d), body, "", nil, max(d.pr, 0), 0, len(body), 3)
}

// putDecimal writes u in decimal at the end of buf, with a separator every
// three digits when comma is not 0, and returns the index of the first
// byte.
func putDecimal(buf []byte, u int128.Uint128, comma byte) int {
	i := len(buf)
	if comma == 0 {
		for u.H != 0 || u.L >= 1e8 {
			var r uint32
			u, r = div1e8(u)
			i = putChunk(buf[:i], r, true)
		}
		return putChunk(buf[:i], uint32(u.L), false)
	}
	k := 0
	for {
		var r uint32
		u, r = div1e8(u)
		last := u.H == 0 && u.L == 0
		for j := 0; j < 8 && (!last || r != 0 || j == 0); j++ {
			if k == 3 {
				i--
				buf[i] = comma
				k = 0
			}
			i--
			buf[i] = byte('0' + r%10)
			r /= 10
			k++
		}
		if last {
			return i
		}
	}
}

func (p *printer) fmtRadix(d *directive, a *Arg) {
	h := hexLower
	if isUpper(d.verb) {
		h = hexUpper
	}
	lead := p.lead[:0]
	var shift, group uint
	switch d.verb {
	case 'b', 'B':
		shift, group = 1, 8
		if d.fl&fAlt != 0 {
			lead = append(lead, '0', h[0xb])
		}
	case 'o':
		shift, group = 3, 3
		if d.fl&fAlt != 0 {
			lead = append(lead, '0')
		}
	default:
		shift, group = 4, 4
		if d.fl&fAlt != 0 {
			lead = append(lead, '0', h[16])
		}
	}
	u := p.integer(d, a, false)

	if u.H == 0 && u.L == 0 {
		lead = lead[:0]
		if d.pr == 0 {
			p.emit(d, lead, nil, "", nil, 0, 0, 0, int(group))
			return
		}
	}
	mask := uint64(1)<<shift - 1
	pad := min(d.pr, maxRadixPad)
	i := len(p.num)
	k := uint(0)
	for {
		i--
		p.num[i] = h[u.L&mask]
		u.L = u.L>>shift | u.H<<(64-shift)
		u.H >>= shift
		if u.H == 0 && u.L == 0 && len(p.num)-i >= pad {
			break
		}
		if d.fl&fComma != 0 {
			if k++; k == group {
				k = 0
				i--
				p.num[i] = p.ctx.comma
			}
		}
	}
	body := p.num[i:]
	if d.verb == 'o' && len(lead) > 0 && (body[0] == '0' || d.pr > len(body)) {
		// the precision already provides the leading 0
		lead = lead[:0]
	}
	p.emit(d, lead, body, "", nil, max(d.pr, 0), 0, len(body), int(group))
}
