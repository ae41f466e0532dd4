// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dd

import "math"

// F64 adapts float64 to the Float interface.
//
// Every method converts its result explicitly to float64 so that the
// compiler never fuses a multiplication and an addition.
type F64 float64

func (x F64) Add(y F64) F64 { return F64(float64(x) + float64(y)) }
func (x F64) Sub(y F64) F64 { return F64(float64(x) - float64(y)) }
func (x F64) Mul(y F64) F64 { return F64(float64(x) * float64(y)) }
func (x F64) Quo(y F64) F64 { return F64(float64(x) / float64(y)) }
func (x F64) Neg() F64      { return -x }

func (x F64) FMA(y, z F64) F64 {
	return F64(math.FMA(float64(x), float64(y), float64(z)))
}

func (x F64) IsInf() bool           { return math.IsInf(float64(x), 0) }
func (x F64) Signbit() bool         { return math.Signbit(float64(x)) }
func (F64) FromUint64(u uint64) F64 { return F64(u) }
func (F64) MaxFinite() F64          { return math.MaxFloat64 }

func (x F64) Frexp() (F64, int) {
	f, e := math.Frexp(float64(x))
	return F64(f), e
}

func (x F64) Ldexp(n int) F64 { return F64(math.Ldexp(float64(x), n)) }

// Cmp compares x and y and returns -1, 0 or +1. NaNs compare equal to
// anything.
func (x F64) Cmp(y F64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func (x F64) Sign() int  { return x.Cmp(0) }
func (x F64) Trunc() F64 { return F64(math.Trunc(float64(x))) }
func (x F64) Rint() F64  { return F64(math.RoundToEven(float64(x))) }

// ToUint64 returns x rounded to the nearest integer, ties to even, and the
// rounding error x-u. Negative values that do not round to a nonnegative
// integer return 0. x must be less than 2**64.
func ToUint64(x Pair[F64]) (u uint64, rem float64) {
	h, l := float64(x.Hi), float64(x.Lo)
	if h < 0 {
		t := math.RoundToEven(h + l)
		if t < 0 {
			return 0, 0
		}
		return uint64(t), (h - t) + l
	}
	ob := uint64(h)
	t := (h - float64(ob)) + l
	r := math.RoundToEven(t)
	if d := t - r; (d == 0.5 || d == -0.5) && (ob+uint64(int64(r)))&1 != 0 {
		r += 2 * d
	}
	return ob + uint64(int64(r)), t - r
}
