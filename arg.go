// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfmt

import (
	"math"
	"unsafe"

	"github.com/db47h/cfmt/xfloat"
	"github.com/shogo82148/int128"
	"golang.org/x/exp/constraints"
)

// A Kind identifies the C type carried by an Arg.
type Kind uint8

// Argument kinds.
const (
	Invalid  Kind = iota // zero Arg: reads as 0 or a null string
	Int32                // int and smaller signed types
	Int64                // long long, intmax_t, ptrdiff_t
	Uint64               // unsigned types
	Int128               // __int128
	Uint128              // unsigned __int128
	Float64              // double
	Float80              // long double (x87 extended precision)
	Float128             // __float128
	String               // char *
	Pointer              // void *
	Slot                 // %n output
)

var kindNames = [...]string{
	"Invalid", "Int32", "Int64", "Uint64", "Int128", "Uint128",
	"Float64", "Float80", "Float128", "String", "Pointer", "Slot",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// An Arg is a formatting argument. Format directives consume Args in
// order, exactly like va_arg would: a '*' width or precision consumes one
// Arg, then the converted value consumes another. Missing arguments read
// as the zero Arg.
//
// When the directive expects a different kind, the value is converted like
// a C cast: integers are truncated or sign extended to the width selected
// by the length modifier, floats are truncated toward zero to integers,
// and integers are converted to the nearest float.
//
// The zero value for an Arg is valid and reads as 0 or a null string.
type Arg struct {
	kind Kind
	null bool   // null string
	h    uint64 // high bits of 128 bit values, exponent of Float80
	u    uint64 // integer bits, float64 bits, significand
	s    string
	b    []byte
	ref  any // %n target
}

// Kind returns the kind of a.
func (a Arg) Kind() Kind { return a.kind }

// Int returns a signed integer argument.
func Int[T constraints.Signed](v T) Arg {
	if unsafe.Sizeof(v) <= 4 {
		return Arg{kind: Int32, u: uint64(int64(v))}
	}
	return Arg{kind: Int64, u: uint64(int64(v))}
}

// Uint returns an unsigned integer argument.
func Uint[T constraints.Unsigned](v T) Arg {
	return Arg{kind: Uint64, u: uint64(v)}
}

// Char returns c as an int argument, for %c.
func Char(c byte) Arg { return Arg{kind: Int32, u: uint64(c)} }

// I128 returns a 128 bit signed integer argument.
func I128(v int128.Int128) Arg {
	return Arg{kind: Int128, h: uint64(v.H), u: v.L}
}

// U128 returns a 128 bit unsigned integer argument.
func U128(v int128.Uint128) Arg {
	return Arg{kind: Uint128, h: v.H, u: v.L}
}

// Float returns a double argument.
func Float[T constraints.Float](v T) Arg {
	return Arg{kind: Float64, u: math.Float64bits(float64(v))}
}

// F80 returns a long double argument.
func F80(v xfloat.Ext) Arg {
	se, m := v.Bits()
	return Arg{kind: Float80, h: uint64(se), u: m}
}

// F128 returns a __float128 argument.
func F128(v xfloat.Quad) Arg {
	hi, lo := v.Bits()
	return Arg{kind: Float128, h: hi, u: lo}
}

// Str returns a string argument.
func Str(s string) Arg { return Arg{kind: String, s: s} }

// Bytes returns a string argument. A nil slice is a null string.
func Bytes(b []byte) Arg { return Arg{kind: String, b: b, null: b == nil} }

// Ptr returns a pointer argument.
func Ptr(p unsafe.Pointer) Arg { return Arg{kind: Pointer, u: uint64(uintptr(p))} }

// Count returns an output slot for %n. The number of bytes produced so far
// is stored in *p, truncated to the width of T.
func Count[T int8 | int16 | int32 | int64 | int](p *T) Arg {
	return Arg{kind: Slot, ref: p}
}

// Count128 is like Count for 128 bit integers.
func Count128(p *int128.Int128) Arg { return Arg{kind: Slot, ref: p} }

func (a *Arg) isFloat() bool {
	return a.kind == Float64 || a.kind == Float80 || a.kind == Float128
}

func (a *Arg) signed() bool {
	return a.kind == Int32 || a.kind == Int64 || a.kind == Int128
}

// uint64 returns the low 64 bits of a as an integer.
func (a *Arg) uint64() uint64 {
	if a.isFloat() {
		if a.kind == Float64 {
			f := math.Float64frombits(a.u)
			if f < 0 {
				return uint64(int64(f))
			}
			return uint64(f)
		}
		return a.uint128().L
	}
	return a.u
}

// uint128 returns a as a 128 bit integer, sign extended.
func (a *Arg) uint128() int128.Uint128 {
	switch a.kind {
	case Int32, Int64:
		return int128.Uint128{H: uint64(int64(a.u) >> 63), L: a.u}
	case Int128, Uint128:
		return int128.Uint128{H: a.h, L: a.u}
	case Float64, Float80, Float128:
		q := a.quad()
		u := q.Uint128()
		if q.Signbit() {
			u = int128.Uint128{}.Sub(u)
		}
		return u
	}
	return int128.Uint128{L: a.u}
}

// float64 returns a rounded to a float64.
func (a *Arg) float64() float64 {
	switch a.kind {
	case Float64:
		return math.Float64frombits(a.u)
	case Int32, Int64:
		return float64(int64(a.u))
	case Uint64, Pointer:
		return float64(a.u)
	}
	return a.quad().Float64()
}

// quad returns a rounded to a Quad.
func (a *Arg) quad() xfloat.Quad {
	switch a.kind {
	case Float64:
		return xfloat.QuadFromFloat64(math.Float64frombits(a.u))
	case Float80:
		return xfloat.ExtFromBits(uint16(a.h), a.u).Quad()
	case Float128:
		return xfloat.QuadFromBits(a.h, a.u)
	case Int32, Int64:
		i := int64(a.u)
		if i < 0 {
			return xfloat.QuadFromUint64(uint64(-i)).Neg()
		}
		return xfloat.QuadFromUint64(uint64(i))
	case Int128:
		u := int128.Uint128{H: a.h, L: a.u}
		if int64(a.h) < 0 {
			return xfloat.QuadFromUint128(int128.Uint128{}.Sub(u)).Neg()
		}
		return xfloat.QuadFromUint128(u)
	case Uint128:
		return xfloat.QuadFromUint128(int128.Uint128{H: a.h, L: a.u})
	}
	return xfloat.QuadFromUint64(a.u)
}

// ext returns a rounded to an Ext.
func (a *Arg) ext() xfloat.Ext {
	switch a.kind {
	case Float80:
		return xfloat.ExtFromBits(uint16(a.h), a.u)
	case Float64:
		return xfloat.ExtFromFloat64(math.Float64frombits(a.u))
	}
	return a.quad().Ext()
}

// str returns the string value of a and whether it is a null string.
func (a *Arg) str() (s string, b []byte, null bool) {
	switch a.kind {
	case String:
		return a.s, a.b, a.null
	case Invalid:
		return "", nil, true
	}
	return "", nil, a.u == 0
}

// store writes n to the %n slot a.
func (a *Arg) store(n int) {
	switch p := a.ref.(type) {
	case *int8:
		*p = int8(n)
	case *int16:
		*p = int16(n)
	case *int32:
		*p = int32(n)
	case *int64:
		*p = int64(n)
	case *int:
		*p = n
	case *int128.Int128:
		*p = int128.Int128{L: uint64(n)}
	}
}
