// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file implements the format string interpreter.

package cfmt

import (
	"io"
	"sync"
)

const debugFormat = false // enable for debugging

// MinBuffer is the size of the chunks passed to a Callback.
const MinBuffer = 512

// A Callback receives the formatted output in chunks of at most MinBuffer
// bytes. It returns false to stop formatting. The chunk is only valid for
// the duration of the call.
type Callback func(b []byte) bool

// Directive flags.
type flags uint32

const (
	fLeft       flags = 1 << iota // -
	fPlus                         // +
	fSpace                        // ' '
	fAlt                          // #
	fZero                         // 0
	fComma                        // '
	fMetric                       // $
	fMetric1024                   // $$
	fJEDEC                        // $$$
	fNoSpace                      // _
	fIntmax                       // l, ll, j, z, t, I64
	fHalf                         // h
	fQuarter                      // hh
	fLong                         // L
	fQuad                         // Q, I128
	fNeg                          // negative value
)

const (
	// maxFloatPrec is the largest precision of %e, %f and %g.
	maxFloatPrec = 350
	// maxRadixPad is the largest number of digits produced by precision
	// padding with thousands separators in %b, %o and %x. Larger paddings
	// have no separators.
	maxRadixPad = 512
	// numSize fits the integer part of the largest Float128 with
	// separators and maxFloatPrec decimals.
	numSize = 8192
)

const (
	hexLower = "0123456789abcdefxp"
	hexUpper = "0123456789ABCDEFXP"
	padSpace = "                                                                "
	padZero  = "0000000000000000000000000000000000000000000000000000000000000000"
)

type directive struct {
	fl   flags
	fw   int // field width
	pr   int // precision, -1 if none
	verb byte
	midx int // metric suffix index
}

// A printer formats into an append buffer or, when cb or w is set,
// through a MinBuffer chunk.
type printer struct {
	ctx *Context

	buf   []byte
	limit int // maximum len(buf); < 0 for none
	n     int // bytes produced

	cb   Callback
	w    io.Writer
	werr error
	sent int // bytes accepted by cb or w
	stop bool
	cn   int

	args []Arg
	argi int

	lead  [8]byte
	tail  [16]byte
	dec   decimal
	chunk [MinBuffer]byte
	num   [numSize]byte
}

var printerPool sync.Pool

func getPrinter(ctx *Context) *printer {
	var p *printer
	if v := printerPool.Get(); v != nil {
		p = v.(*printer)
	}
	if p == nil {
		p = new(printer)
	}
	p.ctx = ctx
	p.limit = -1
	return p
}

func putPrinter(p *printer) {
	p.ctx = nil
	p.buf = nil
	p.n = 0
	p.cb = nil
	p.w = nil
	p.werr = nil
	p.sent = 0
	p.stop = false
	p.cn = 0
	p.args = nil
	p.argi = 0
	printerPool.Put(p)
}

func (p *printer) flush() {
	if p.cn == 0 || p.stop {
		return
	}
	if p.w != nil {
		n, err := p.w.Write(p.chunk[:p.cn])
		p.sent += n
		if err == nil && n < p.cn {
			err = io.ErrShortWrite
		}
		if err != nil {
			p.werr = err
			p.stop = true
		}
	} else {
		p.sent += p.cn
		if !p.cb(p.chunk[:p.cn]) {
			p.stop = true
		}
	}
	p.cn = 0
}

func (p *printer) write(b []byte) {
	p.n += len(b)
	if p.cb == nil && p.w == nil {
		if p.limit >= 0 {
			b = b[:min(len(b), max(p.limit-len(p.buf), 0))]
		}
		p.buf = append(p.buf, b...)
		return
	}
	for len(b) > 0 && !p.stop {
		k := copy(p.chunk[p.cn:], b)
		p.cn += k
		b = b[k:]
		if p.cn == len(p.chunk) {
			p.flush()
		}
	}
}

func (p *printer) writeString(s string) {
	p.n += len(s)
	if p.cb == nil && p.w == nil {
		if p.limit >= 0 {
			s = s[:min(len(s), max(p.limit-len(p.buf), 0))]
		}
		p.buf = append(p.buf, s...)
		return
	}
	for len(s) > 0 && !p.stop {
		k := copy(p.chunk[p.cn:], s)
		p.cn += k
		s = s[k:]
		if p.cn == len(p.chunk) {
			p.flush()
		}
	}
}

func (p *printer) writeByte(c byte) {
	p.write([]byte{c})
}

// pad writes n bytes of s[0].
func (p *printer) pad(s string, n int) {
	for n > 0 {
		k := min(n, len(s))
		p.writeString(s[:k])
		n -= k
	}
}

// arg returns the next argument.
func (p *printer) arg() *Arg {
	if p.argi >= len(p.args) {
		p.argi++
		return &Arg{}
	}
	a := &p.args[p.argi]
	p.argi++
	return a
}

// atoi parses a decimal number at format[i:] and returns it with the index
// of the next byte. Values saturate at 1e9.
func atoi(format string, i int) (n, j int) {
	for j = i; j < len(format) && '0' <= format[j] && format[j] <= '9'; j++ {
		if n < 1e9 {
			n = n*10 + int(format[j]-'0')
		}
	}
	return n, j
}

func (p *printer) doPrintf(format string, args []Arg) {
	p.args = args
	p.argi = 0
	end := len(format)
	for i := 0; i < end && !p.stop; {
		j := i
		for j < end && format[j] != '%' {
			j++
		}
		if j > i {
			p.writeString(format[i:j])
		}
		if j >= end {
			break
		}
		i = j + 1

		d := directive{pr: -1}
	flags:
		for ; i < end; i++ {
			var f flags
			switch format[i] {
			case '-':
				f = fLeft
			case '+':
				f = fPlus
			case ' ':
				f = fSpace
			case '#':
				f = fAlt
			case '\'':
				f = fComma
			case '_':
				f = fNoSpace
			case '0':
				f = fZero
			case '$':
				switch {
				case d.fl&fMetric == 0:
					f = fMetric
				case d.fl&fMetric1024 == 0:
					f = fMetric1024
				default:
					f = fJEDEC
				}
			default:
				break flags
			}
			if d.fl&f != 0 {
				// a repeated flag ends the flags
				break
			}
			d.fl |= f
		}
		if d.fl&fLeft != 0 {
			d.fl &^= fZero
		}

		// width
		if i < end && format[i] == '*' {
			w := int(int32(p.arg().uint64()))
			if w < 0 {
				d.fl |= fLeft
				d.fl &^= fZero
				w = -w
			}
			d.fw = w
			i++
		} else {
			d.fw, i = atoi(format, i)
		}

		// precision
		if i < end && format[i] == '.' {
			i++
			if i < end && format[i] == '*' {
				d.pr = int(int32(p.arg().uint64()))
				if d.pr < 0 {
					d.pr = -1
				}
				i++
			} else {
				d.pr, i = atoi(format, i)
			}
		}

		// length modifiers
		if i < end {
			switch format[i] {
			case 'h':
				i++
				if i < end && format[i] == 'h' {
					d.fl |= fQuarter
					i++
				} else {
					d.fl |= fHalf
				}
			case 'l':
				i++
				if i < end && format[i] == 'l' {
					d.fl |= fIntmax
					i++
				} else if p.ctx.style != WindowsStyle {
					// long is 32 bits wide on Windows
					d.fl |= fIntmax
				}
			case 'j', 'z', 't':
				d.fl |= fIntmax
				i++
			case 'I':
				switch {
				case hasPrefix(format[i:], "I64"):
					d.fl |= fIntmax
					i += 3
				case hasPrefix(format[i:], "I32"):
					i += 3
				case hasPrefix(format[i:], "I128"):
					d.fl |= fQuad
					i += 4
				default:
					d.fl |= fIntmax
					i++
				}
			case 'L':
				d.fl |= fLong
				i++
			case 'Q':
				d.fl |= fQuad
				i++
			}
		}

		if i >= end {
			// incomplete directive
			break
		}
		d.verb = format[i]
		i++

		switch d.verb {
		case 'd', 'i', 'u', 'b', 'B', 'o', 'x', 'X', 'p':
			if d.pr >= 0 {
				d.fl &^= fZero
			}
		case 's', 'c':
			d.fl &^= fZero
		}

		switch d.verb {
		case 's':
			p.fmtString(&d, p.arg())
		case 'c':
			p.num[0] = byte(p.arg().uint64())
			d.pr = -1
			p.emit(&d, nil, p.num[:1], "", nil, 0, 0, 0, 0)
		case 'n':
			if a := p.arg(); a.kind == Slot {
				a.store(p.n)
			}
		case 'a', 'A':
			p.fmtHexFloat(&d, p.arg())
		case 'e', 'E', 'f', 'F', 'g', 'G':
			p.fmtFloat(&d, p.arg())
		case 'd', 'i', 'u':
			p.fmtInteger(&d, p.arg())
		case 'b', 'B', 'o', 'x', 'X':
			p.fmtRadix(&d, p.arg())
		case 'p':
			p.fmtPointer(&d, p.arg())
		default:
			// unknown conversions print literally
			p.writeByte(d.verb)
		}
	}
	if p.cb != nil || p.w != nil {
		p.flush()
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// emit writes a converted value: lead (sign and radix prefix), body, tz
// trailing zeros and tail (exponent or metric suffix), padded to the field
// width. pr is the minimum number of digits of body. When both the 0 and '
// flags are set, the zero padding gets separators every group digits; cs is
// the number of bytes of body the separator phase is computed from.
func (p *printer) emit(d *directive, lead, body []byte, sbody string, tail []byte, pr, tz, cs, group int) {
	l := len(body) + len(sbody)
	if pr < l {
		pr = l
	}
	n := pr + len(lead) + len(tail) + tz
	fw := max(d.fw, n) - n
	pr -= l

	comma := d.fl&fComma != 0
	if d.fl&fLeft == 0 {
		if d.fl&fZero != 0 {
			pr = max(fw, pr)
			fw = 0
		} else {
			comma = false
		}
	}

	if fw+pr != 0 {
		if d.fl&fLeft == 0 {
			p.pad(padSpace, fw)
		}
		p.write(lead)
		lead = nil
		if comma && group > 0 {
			c := group - (pr+cs)%(group+1)
			for ; pr > 0; pr-- {
				if c == group {
					c = 0
					p.writeByte(p.ctx.comma)
				} else {
					c++
					p.writeByte('0')
				}
			}
		} else {
			p.pad(padZero, pr)
		}
	}
	p.write(lead)
	p.write(body)
	p.writeString(sbody)
	p.pad(padZero, tz)
	p.write(tail)
	if d.fl&fLeft != 0 {
		p.pad(padSpace, fw)
	}
}

// leadSign returns the sign prefix of a value.
func (p *printer) leadSign(d *directive) []byte {
	b := p.lead[:0]
	switch {
	case d.fl&fNeg != 0:
		b = append(b, '-')
	case d.fl&fPlus != 0:
		b = append(b, '+')
	case d.fl&fSpace != 0:
		b = append(b, ' ')
	}
	return b
}

func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }

// special writes "inf" or "nan".
func (p *printer) special(d *directive, s string) {
	d.fl &^= fZero
	if isUpper(d.verb) {
		if s == "nan" {
			s = "NAN"
		} else {
			s = "INF"
		}
	}
	p.emit(d, p.leadSign(d), nil, s, nil, 0, 0, 0, 0)
}

func (p *printer) fmtString(d *directive, a *Arg) {
	s, b, null := a.str()
	if null {
		if p.ctx.style == GlibcStyle && d.pr >= 0 && d.pr < len("(null)") {
			s = ""
		} else {
			s = "(null)"
		}
		b = nil
	}
	if d.pr >= 0 {
		if len(s) > d.pr {
			s = s[:d.pr]
		}
		if len(b) > d.pr {
			b = b[:d.pr]
		}
	}
	d.pr = -1
	p.emit(d, nil, b, s, nil, 0, 0, 0, 0)
}
