// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dd implements double-double arithmetic: a value is represented as
// the unevaluated sum of two floating-point numbers Hi+Lo, with
// |Lo| <= ulp(Hi)/2, giving roughly twice the precision of the base type.
//
// The algorithms are generic over the base type. Instantiating them with
// F64 gives about 106 bits (32 decimal digits) of precision; with
// xfloat.Ext, 128 bits; with xfloat.Quad, 226 bits.
//
// All operations are error free transformations or compensated algorithms
// built from correctly rounded base operations. They differ from textbook
// double-double arithmetic in three ways:
//
//   - TwoSum and FastTwoSum return (±Inf, 0) when an operand or the sum is
//     infinite, instead of letting the error term become NaN.
//   - Mul clamps to the largest finite value when the leading product
//     overflows but the exact product, computed with a fused multiply-add,
//     does not.
//   - Quo halves the dividend when the back-multiplied quotient
//     overflows, so that quotients of values near the largest finite value
//     stay finite.
package dd

import (
	"math/bits"

	"github.com/shogo82148/int128"
)

// Float is the set of operations double-double arithmetic is built from.
// Add, Sub, Mul, Quo and FMA must be correctly rounded to nearest even.
//
// FromUint64 and MaxFinite ignore their receiver: they let generic code
// build constants of type T.
type Float[T any] interface {
	Add(y T) T
	Sub(y T) T
	Mul(y T) T
	Quo(y T) T
	FMA(y, z T) T // x*y+z with a single rounding
	Neg() T
	IsInf() bool
	Signbit() bool
	FromUint64(u uint64) T
	MaxFinite() T
}

// A Pair is a double-double number Hi+Lo.
//
// The zero value for a Pair is 0 if the zero value of T is.
type Pair[T Float[T]] struct {
	Hi, Lo T
}

// TwoSum returns a+b as an exact double-double.
func TwoSum[T Float[T]](a, b T) Pair[T] {
	switch {
	case a.IsInf():
		return Pair[T]{Hi: a}
	case b.IsInf():
		return Pair[T]{Hi: b}
	}
	x := a.Add(b)
	if x.IsInf() {
		return Pair[T]{Hi: x}
	}
	z := x.Sub(a)
	y := a.Sub(x.Sub(z)).Add(b.Sub(z))
	return Pair[T]{x, y}
}

// FastTwoSum returns a+b as an exact double-double. It requires |a| >= |b|.
func FastTwoSum[T Float[T]](a, b T) Pair[T] {
	x := a.Add(b)
	if x.IsInf() {
		return Pair[T]{Hi: x}
	}
	return Pair[T]{x, b.Sub(x.Sub(a))}
}

// TwoMult returns a*b as an exact double-double.
func TwoMult[T Float[T]](a, b T) Pair[T] {
	x := a.Mul(b)
	return Pair[T]{x, a.FMA(b, x.Neg())}
}

// Add returns x+y.
func (x Pair[T]) Add(y Pair[T]) Pair[T] {
	s := TwoSum(x.Hi, y.Hi)
	t := TwoSum(x.Lo, y.Lo)
	v := FastTwoSum(s.Hi, s.Lo.Add(t.Hi))
	return FastTwoSum(v.Hi, t.Lo.Add(v.Lo))
}

// Sub returns x-y.
func (x Pair[T]) Sub(y Pair[T]) Pair[T] {
	return x.Add(y.Neg())
}

// Neg returns -x.
func (x Pair[T]) Neg() Pair[T] {
	return Pair[T]{x.Hi.Neg(), x.Lo.Neg()}
}

// Mul returns x*y.
func (x Pair[T]) Mul(y Pair[T]) Pair[T] {
	t := TwoMult(x.Hi, y.Hi)
	c := x.Hi.Mul(y.Lo).Add(x.Lo.Mul(y.Hi))
	t3 := c.Add(t.Lo)
	if t.Hi.IsInf() && t3.IsInf() && !x.Hi.FMA(y.Hi, c).IsInf() {
		// the product only overflowed because of the rounding of t.Hi
		m := t.Hi.MaxFinite()
		if t.Hi.Signbit() {
			m = m.Neg()
		}
		return Pair[T]{Hi: m}
	}
	return TwoSum(t.Hi, t3)
}

// MulFloat returns x*a.
func (x Pair[T]) MulFloat(a T) Pair[T] {
	t := TwoMult(a, x.Hi)
	return TwoSum(t.Hi, a.Mul(x.Lo).Add(t.Lo))
}

// Quo returns x/y.
func (x Pair[T]) Quo(y Pair[T]) Pair[T] {
	ch := x.Hi.Quo(y.Hi)
	uh := ch.Mul(y.Hi)
	if uh.IsInf() && !ch.IsInf() && !x.Hi.IsInf() {
		two := ch.FromUint64(2)
		h := Pair[T]{x.Hi.Quo(two), x.Lo.Quo(two)}.Quo(y)
		return TwoSum(h.Hi.Mul(two), h.Lo.Mul(two))
	}
	ul := ch.FMA(y.Hi, uh.Neg())
	cl := x.Hi.Sub(uh).Sub(ul).Add(x.Lo).Sub(ch.Mul(y.Lo)).Quo(y.Hi)
	hi := ch.Add(cl)
	return Pair[T]{hi, cl.Add(ch.Sub(hi))}
}

// Power returns x**n, computed by binary exponentiation from the most
// significant bit of n down, with a double-double accumulator.
func Power[T Float[T]](x T, n uint) Pair[T] {
	r := Pair[T]{Hi: x.FromUint64(1)}
	if n == 0 {
		return r
	}
	for t := uint(1) << (bits.Len(n) - 1); t > 0; t >>= 1 {
		r = r.Mul(r)
		if n&t != 0 {
			r = r.MulFloat(x)
		}
	}
	return r
}

// FromUint64 returns u as an exact double-double. T must have at least 32
// bits of precision.
func FromUint64[T Float[T]](u uint64) Pair[T] {
	var z T
	lo := u & (1<<32 - 1)
	hi := u ^ lo
	if hi == 0 {
		return Pair[T]{Hi: z.FromUint64(u)}
	}
	return TwoSum(z.FromUint64(hi), z.FromUint64(lo))
}

// FromUint128 returns u as a double-double. The result is exact if T has at
// least 64 bits of precision.
func FromUint128[T Float[T]](u int128.Uint128) Pair[T] {
	if u.H == 0 {
		return FromUint64[T](u.L)
	}
	var z T
	two32 := z.FromUint64(1 << 32)
	h := z.FromUint64(u.H).Mul(two32).Mul(two32)
	return TwoSum(h, z.FromUint64(u.L))
}
