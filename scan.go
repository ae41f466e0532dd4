// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfmt

import (
	"math/bits"

	"github.com/shogo82148/int128"
)

// A litForm describes a scanned floating-point literal.
type litForm byte

const (
	litNone litForm = iota // no number
	litDecimal
	litHex
	litInf
	litNaN
)

// A literal is the result of scanning a floating-point number:
// ±m * 10**exp for litDecimal, ±m * 2**exp for litHex. When sticky is set,
// nonzero digits following the digits of m have been dropped.
type literal struct {
	form   litForm
	n      int // bytes consumed, 0 for litNone
	neg    bool
	m      int128.Uint128
	exp    int
	sticky bool
}

// Largest absolute value of a scanned exponent.
const maxScanExp = 1 << 24

func isSpace(c byte) bool { return c == ' ' || '\t' <= c && c <= '\r' }

func isAlnum(c byte) bool {
	c |= 0x20
	return 'a' <= c && c <= 'z' || '0' <= c && c <= '9'
}

// hasPrefixFold reports whether s begins with the lower case prefix,
// ignoring case.
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if s[i]|0x20 != prefix[i] {
			return false
		}
	}
	return true
}

func hexVal(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c|0x20 && c|0x20 <= 'f':
		return int(c|0x20-'a') + 10
	}
	return -1
}

func scanSign(s string, i int) (neg bool, j int) {
	if i < len(s) {
		switch s[i] {
		case '-':
			return true, i + 1
		case '+':
			return false, i + 1
		}
	}
	return false, i
}

// scanExponent scans an exponent introduced by the lower case marker. The
// exponent is not consumed unless it has at least one digit.
func scanExponent(s string, i int, marker byte) (exp, j int) {
	if i >= len(s) || s[i]|0x20 != marker {
		return 0, i
	}
	neg, j := scanSign(s, i+1)
	if j >= len(s) || s[j] < '0' || s[j] > '9' {
		return 0, i
	}
	for ; j < len(s) && '0' <= s[j] && s[j] <= '9'; j++ {
		if exp < maxScanExp {
			exp = exp*10 + int(s[j]-'0')
		}
	}
	if neg {
		exp = -exp
	}
	return exp, j
}

// mul10 returns m*10 + d.
func mul10(m int128.Uint128, d uint64) int128.Uint128 {
	h, l := bits.Mul64(m.L, 10)
	l, c := bits.Add64(l, d, 0)
	return int128.Uint128{H: m.H*10 + h + c, L: l}
}

// scanLiteral scans a floating-point literal at the start of s: optional
// white space, an optional sign, then a decimal number with an optional
// exponent, a C99 hexadecimal number, "inf", "infinity" or "nan" with an
// optional (n-char-sequence). At most maxDigits significant decimal digits
// are accumulated in m.
func scanLiteral(s string, maxDigits int) (lit literal) {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	lit.neg, i = scanSign(s, i)

	switch {
	case hasPrefixFold(s[i:], "inf"):
		i += 3
		if hasPrefixFold(s[i:], "inity") {
			i += 5
		}
		lit.form, lit.n = litInf, i
		return lit
	case hasPrefixFold(s[i:], "nan"):
		i += 3
		if i < len(s) && s[i] == '(' {
			j := i + 1
			for j < len(s) && (isAlnum(s[j]) || s[j] == '_') {
				j++
			}
			if j < len(s) && s[j] == ')' {
				i = j + 1
			}
		}
		lit.form, lit.n = litNaN, i
		return lit
	case i+1 < len(s) && s[i] == '0' && s[i+1]|0x20 == 'x':
		if scanHex(s, i+2, &lit) {
			return lit
		}
		// "0x" without digits reads as 0
	}

	var (
		nd     int // digits in m
		digits int // digits seen
		point  bool
	)
	for ; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if point {
				break
			}
			point = true
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		digits++
		switch {
		case nd == 0 && c == '0':
			if point {
				lit.exp--
			}
		case nd < maxDigits:
			lit.m = mul10(lit.m, uint64(c-'0'))
			nd++
			if point {
				lit.exp--
			}
		default:
			lit.sticky = lit.sticky || c != '0'
			if !point {
				lit.exp++
			}
		}
	}
	if digits == 0 {
		return literal{}
	}
	e, i := scanExponent(s, i, 'e')
	lit.exp += e
	lit.form, lit.n = litDecimal, i
	return lit
}

// scanHex scans the digits and binary exponent of a hexadecimal literal at
// s[i:]. It reports false if there are no digits.
func scanHex(s string, i int, lit *literal) bool {
	var (
		m      int128.Uint128
		exp    int
		sticky bool
		digits int
		point  bool
	)
	for ; i < len(s); i++ {
		c := s[i]
		if c == '.' {
			if point {
				break
			}
			point = true
			continue
		}
		d := hexVal(c)
		if d < 0 {
			break
		}
		digits++
		switch {
		case m.H == 0 && m.L == 0 && d == 0:
			if point {
				exp -= 4
			}
		case m.H>>60 == 0:
			m = int128.Uint128{H: m.H<<4 | m.L>>60, L: m.L<<4 | uint64(d)}
			if point {
				exp -= 4
			}
		default:
			sticky = sticky || d != 0
			if !point {
				exp += 4
			}
		}
	}
	if digits == 0 {
		return false
	}
	e, i := scanExponent(s, i, 'p')
	lit.form, lit.n = litHex, i
	lit.m, lit.exp, lit.sticky = m, exp+e, sticky
	return true
}

// allSpace reports whether s is empty or only contains white space.
func allSpace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}
