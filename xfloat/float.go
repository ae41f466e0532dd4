// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xfloat

import (
	"math/bits"

	"github.com/shogo82148/int128"
)

const debugFloat = false // enable for debugging

// Internal representation: the mantissa bits x.mant of a nonzero finite
// value x are stored left-aligned in a 128 bit integer, with the msb set
// (0.5 <= mantissa < 1.0), so that x = ±0.mant * 2**exp.
//
// A zero or non-finite value ignores x.mant and x.exp.
//
// x                 form      neg      mant         exp
// ----------------------------------------------------------
// ±0                zero      sign     -            -
// 0 < |x| < +Inf    finite    sign     mantissa     exponent
// ±Inf              inf       sign     -            -
// NaN               nan       sign     -            -

// A form value describes the internal representation.
type form byte

// The form value order is relevant - do not change!
const (
	zero form = iota
	finite
	inf
	nan
)

type float struct {
	mant int128.Uint128
	exp  int32
	form form
	neg  bool
}

// format describes an IEEE 754 binary interchange format in terms of the
// internal representation: prec is the number of mantissa bits including
// the leading bit, and emin/emax bound the exponent of normal numbers.
type format struct {
	prec int32
	emin int32
	emax int32
}

var (
	f32fmt  = format{prec: 24, emin: -125, emax: 128}
	f64fmt  = format{prec: 53, emin: -1021, emax: 1024}
	extfmt  = format{prec: 64, emin: -16381, emax: 16384}
	quadfmt = format{prec: 113, emin: -16381, emax: 16384}
)

func (x *float) validate() {
	if !debugFloat {
		// avoid performance bugs
		panic("validate called but debugFloat is not set")
	}
	if x.form != finite {
		return
	}
	if x.mant.H&(1<<63) == 0 {
		panic("mantissa msb not set")
	}
}

func (x float) wide() wide {
	return wide{x.mant.H, x.mant.L, 0, 0}
}

// fromWide returns ±0.w * 2**e; w must not be zero.
func fromWide(neg bool, e int, w wide) float {
	return float{mant: int128.Uint128{H: w[0], L: w[1]}, exp: int32(e), form: finite, neg: neg}
}

// round rounds ±0.w * 2**e to f, ties to even. The value must be nonzero
// and w normalized; sticky reports nonzero bits below w. Values below the
// normal range lose precision as IEEE subnormals do.
func (f format) round(neg bool, e int, w wide, sticky bool) float {
	if debugFloat && w[0]>>63 == 0 {
		panic("round: w not normalized")
	}
	p := int(f.prec)
	if e < int(f.emin) {
		p -= int(f.emin) - e
	}
	z := roundBits(neg, e, w, sticky, p)
	if z.form == finite && z.exp > f.emax {
		return float{form: inf, neg: neg}
	}
	return z
}

// roundBits rounds ±0.w * 2**e to p significant bits, ties to even.
// It does not check the exponent range.
func roundBits(neg bool, e int, w wide, sticky bool, p int) float {
	if p < 0 {
		return float{neg: neg}
	}
	if p < 256 {
		guard := w.bit(p)
		rest := sticky || w.anyBelow(p)
		odd := p > 0 && w.bit(p-1)
		w.clearFrom(p)
		if guard && (rest || odd) {
			if p == 0 {
				w = wide{1 << 63}
				e++
			} else {
				var ulp wide
				ulp.setBit(p - 1)
				var c uint64
				if w, c = addw(w, ulp); c != 0 {
					w = wide{1 << 63}
					e++
				}
			}
		}
	}
	if w.isZero() {
		return float{neg: neg}
	}
	return fromWide(neg, e, w)
}

// make returns the value of f nearest to ±m * 2**exp.
func (f format) make(neg bool, m int128.Uint128, exp int, sticky bool) float {
	w := wide{m.H, m.L, 0, 0}
	if w.isZero() {
		return float{neg: neg}
	}
	lz := w.nlz()
	w.shl(uint(lz))
	return f.round(neg, 128-lz+exp, w, sticky)
}

func (f format) fromUint64(u uint64) float {
	return f.make(false, int128.Uint128{L: u}, 0, false)
}

func (f format) fromUint128(u int128.Uint128) float {
	return f.make(false, u, 0, false)
}

func (f format) set(x float) float {
	if x.form != finite {
		return x
	}
	return f.round(x.neg, int(x.exp), x.wide(), false)
}

func (f format) ldexp(x float, n int) float {
	if x.form != finite {
		return x
	}
	return f.round(x.neg, int(x.exp)+n, x.wide(), false)
}

func (f format) max() float {
	var w wide
	for i := 0; i < int(f.prec); i++ {
		w.setBit(i)
	}
	return fromWide(false, int(f.emax), w)
}

func frexp(x float) (float, int) {
	if x.form != finite {
		return x, 0
	}
	e := int(x.exp)
	x.exp = 0
	return x, e
}

func trunc(x float) float {
	if x.form != finite || x.exp >= 128 {
		return x
	}
	if x.exp <= 0 {
		return float{neg: x.neg}
	}
	w := x.wide()
	w.clearFrom(int(x.exp))
	return fromWide(x.neg, int(x.exp), w)
}

// rint rounds x to an integer, ties to even.
func rint(x float) float {
	if x.form != finite || x.exp >= 128 {
		return x
	}
	return roundBits(x.neg, int(x.exp), x.wide(), false, int(x.exp))
}

// uint128 returns the integer part of |x|, saturated to 2**128-1.
func (x float) uint128() int128.Uint128 {
	switch {
	case x.form == zero || x.form == nan:
		return int128.Uint128{}
	case x.form == inf || x.exp > 128:
		return int128.Uint128{H: ^uint64(0), L: ^uint64(0)}
	case x.exp <= 0:
		return int128.Uint128{}
	}
	w := x.wide()
	w.shr(uint(256 - int(x.exp)))
	return int128.Uint128{H: w[2], L: w[3]}
}

// int64 returns the integer part of x, saturated to the int64 range.
func (x float) int64() int64 {
	u := x.uint128()
	if u.H != 0 || u.L > 1<<63-1 {
		if x.neg {
			return -1 << 63
		}
		return 1<<63 - 1
	}
	if x.neg {
		return -int64(u.L)
	}
	return int64(u.L)
}

// ucmp compares |x| and |y| for finite x and y.
func ucmp(x, y float) int {
	switch {
	case x.form < y.form:
		return -1
	case x.form > y.form:
		return 1
	case x.form != finite:
		return 0
	case x.exp < y.exp:
		return -1
	case x.exp > y.exp:
		return 1
	}
	return x.mant.Cmp(y.mant)
}

func (x float) cmp(y float) int {
	if x.form == nan || y.form == nan {
		return 0
	}
	xs, ys := x.sign(), y.sign()
	switch {
	case xs < ys:
		return -1
	case xs > ys:
		return 1
	case xs == 0:
		return 0
	}
	r := ucmp(x, y)
	if xs < 0 {
		r = -r
	}
	return r
}

func (x float) sign() int {
	if x.form == zero || x.form == nan {
		return 0
	}
	if x.neg {
		return -1
	}
	return 1
}

// wide is a 256 bit unsigned integer, most significant word first.
type wide [4]uint64

func (w *wide) isZero() bool {
	return w[0]|w[1]|w[2]|w[3] == 0
}

// nlz returns the number of leading zero bits of w.
func (w *wide) nlz() int {
	for i, v := range w {
		if v != 0 {
			return i*64 + bits.LeadingZeros64(v)
		}
	}
	return 256
}

// bit reports whether bit i of w is set, counting from the msb.
func (w *wide) bit(i int) bool {
	return w[i/64]>>(63-uint(i%64))&1 != 0
}

func (w *wide) setBit(i int) {
	w[i/64] |= 1 << (63 - uint(i%64))
}

// anyBelow reports whether any bit after bit i is set.
func (w *wide) anyBelow(i int) bool {
	k := i / 64
	if w[k]&(1<<(63-uint(i%64))-1) != 0 {
		return true
	}
	for k++; k < len(w); k++ {
		if w[k] != 0 {
			return true
		}
	}
	return false
}

// clearFrom clears bit i and all the bits after it.
func (w *wide) clearFrom(i int) {
	k := i / 64
	if r := uint(i % 64); r == 0 {
		w[k] = 0
	} else {
		w[k] &= ^uint64(0) << (64 - r)
	}
	for k++; k < len(w); k++ {
		w[k] = 0
	}
}

func (w *wide) shl(s uint) {
	if s >= 256 {
		*w = wide{}
		return
	}
	q, r := int(s/64), s%64
	var z wide
	for i := 0; i+q < len(w); i++ {
		z[i] = w[i+q] << r
		if r != 0 && i+q+1 < len(w) {
			z[i] |= w[i+q+1] >> (64 - r)
		}
	}
	*w = z
}

// shr shifts w right by s bits and reports whether nonzero bits were
// shifted out.
func (w *wide) shr(s uint) (sticky bool) {
	if s == 0 {
		return false
	}
	if s >= 256 {
		sticky = !w.isZero()
		*w = wide{}
		return sticky
	}
	q, r := int(s/64), s%64
	for i := len(w) - q; i < len(w); i++ {
		sticky = sticky || w[i] != 0
	}
	if r != 0 && w[len(w)-1-q]<<(64-r) != 0 {
		sticky = true
	}
	var z wide
	for i := len(w) - 1; i-q >= 0; i-- {
		z[i] = w[i-q] >> r
		if r != 0 && i-q-1 >= 0 {
			z[i] |= w[i-q-1] << (64 - r)
		}
	}
	*w = z
	return sticky
}

// jam shifts w right by s bits, or-ing any lost bit into the lsb.
func (w *wide) jam(s uint) {
	if w.shr(s) {
		w[3] |= 1
	}
}

func addw(x, y wide) (z wide, c uint64) {
	z[3], c = bits.Add64(x[3], y[3], 0)
	z[2], c = bits.Add64(x[2], y[2], c)
	z[1], c = bits.Add64(x[1], y[1], c)
	z[0], c = bits.Add64(x[0], y[0], c)
	return
}

// subw returns x-y, x must be >= y.
func subw(x, y wide) (z wide) {
	var b uint64
	z[3], b = bits.Sub64(x[3], y[3], 0)
	z[2], b = bits.Sub64(x[2], y[2], b)
	z[1], b = bits.Sub64(x[1], y[1], b)
	z[0], _ = bits.Sub64(x[0], y[0], b)
	return
}

func cmpw(x, y wide) int {
	for i := range x {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// mul128 returns the full 256 bit product x*y.
func mul128(x, y int128.Uint128) (w wide) {
	h1, l1 := bits.Mul64(x.L, y.L)
	h2, l2 := bits.Mul64(x.H, y.L)
	h3, l3 := bits.Mul64(x.L, y.H)
	h4, l4 := bits.Mul64(x.H, y.H)
	var c, t uint64
	w[3] = l1
	w[2], c = bits.Add64(h1, l2, 0)
	w[1], t = bits.Add64(h2, h3, c)
	w[0] = h4 + t
	w[2], c = bits.Add64(w[2], l3, 0)
	w[1], t = bits.Add64(w[1], l4, c)
	w[0] += t
	return w
}
