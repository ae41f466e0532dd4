// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfmt

import (
	"math/bits"

	"github.com/shogo82148/int128"
)

var pow10tab = [...]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000,
	10000000000, 100000000000, 1000000000000, 10000000000000, 100000000000000, 1000000000000000,
	10000000000000000, 100000000000000000, 1000000000000000000, 10000000000000000000,
}

var pow2digitsTab = [...]uint{
	1, 1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 4, 4, 4, 5, 5,
	5, 6, 6, 6, 7, 7, 7, 7, 8, 8, 8, 9, 9, 9, 10, 10,
	10, 10, 11, 11, 11, 12, 12, 12, 13, 13, 13, 13, 14, 14, 14, 15,
	15, 15, 16, 16, 16, 16, 17, 17, 17, 18, 18, 18, 19, 19, 19, 20, 20,
}

// decDigits64 returns n such that 10**(n-1) <= x < 10**n. Returns 1 for
// x == 0.
func decDigits64(x uint64) (n uint) {
	n = pow2digitsTab[bits.Len64(x)]
	if x < pow10tab[n-1] {
		n--
	}
	if n == 0 {
		n = 1
	}
	return n
}

// pow10tab128[n] is 10**n, 0 <= n <= 38.
var pow10tab128 [39]int128.Uint128

func init() {
	p := int128.Uint128{L: 1}
	ten := int128.Uint128{L: 10}
	for i := range pow10tab128 {
		pow10tab128[i] = p
		p = p.Mul(ten)
	}
}

// decDigits128 is like decDigits64 for 128 bit integers.
func decDigits128(x int128.Uint128) uint {
	if x.H == 0 {
		return decDigits64(x.L)
	}
	// 2**64 has 20 digits
	n := uint(20)
	for n < 39 && x.Cmp(pow10tab128[n]) >= 0 {
		n++
	}
	return n
}

// pow10DivTab64 contains the "magic" numbers for fast division by 10**n
// where 1 <= n <= 19, x / 10**n = ((x >> pre) * m) >> (64 + post).
// See https://gmplib.org/~tege/divcnst-pldi94.pdf
// generated using Go's src/cmd/compile/internal/ssa/magic.go and rewritegeneric.go rules
var pow10DivTab64 = [...]magic{
	{10, 0xcccccccccccccccd, 0, 3},
	{100, 0xa3d70a3d70a3d70b, 1, 5},
	{1000, 0x83126e978d4fdf3c, 1, 8},
	{10000, 0xd1b71758e219652c, 0, 13},
	{100000, 0xa7c5ac471b478424, 1, 15},
	{1000000, 0x8637bd05af6c69b6, 0, 19},
	{10000000, 0xd6bf94d5e57a42bd, 1, 22},
	{100000000, 0xabcc77118461cefd, 0, 26},
	{1000000000, 0x89705f4136b4a598, 1, 28},
	{10000000000, 0xdbe6fecebdedd5bf, 0, 33},
	{100000000000, 0xafebff0bcb24aaff, 0, 36},
	{1000000000000, 0x8cbccc096f5088cc, 0, 39},
	{10000000000000, 0xe12e13424bb40e14, 1, 42},
	{100000000000000, 0xb424dc35095cd810, 1, 45},
	{1000000000000000, 0x901d7cf73ab0acda, 1, 48},
	{10000000000000000, 0xe69594bec44de15c, 1, 52},
	{100000000000000000, 0xb877aa3236a4b44a, 1, 55},
	{1000000000000000000, 0x9392ee8e921d5d08, 1, 58},
	{10000000000000000000, 0xec1e4a7db69561a6, 1, 62},
}

type magic struct {
	d    uint64 // divisor
	m    uint64 // multiplier
	pre  byte   // pre-shift
	post byte   // post-shift
}

func divisorPow10(n uint) magic {
	if debugFormat && (n == 0 || n > 19) {
		panic("divisorPow10: invalid power")
	}
	return pow10DivTab64[n-1]
}

func (m magic) div(n uint64) (q, r uint64) {
	h, _ := bits.Mul64(n>>m.pre, m.m)
	q = h >> m.post
	return q, n - q*m.d
}

// div1e8 returns u / 1e8 and u % 1e8.
func div1e8(u int128.Uint128) (q int128.Uint128, r uint32) {
	const d = 100000000
	var rh uint64
	q.H, rh = bits.Div64(0, u.H, d)
	var rl uint64
	q.L, rl = bits.Div64(rh, u.L, d)
	return q, uint32(rl)
}

const digitPairs = "00010203040506070809" +
	"10111213141516171819" +
	"20212223242526272829" +
	"30313233343536373839" +
	"40414243444546474849" +
	"50515253545556575859" +
	"60616263646566676869" +
	"70717273747576777879" +
	"80818283848586878889" +
	"90919293949596979899"

// putChunk writes the decimal digits of n in buf, right aligned, and
// returns the index of the first digit. If pad is set, the result is left
// padded with zeros to 8 digits. n must be less than 1e8.
func putChunk(buf []byte, n uint32, pad bool) int {
	i := len(buf)
	for n >= 10 {
		i -= 2
		j := (n % 100) * 2
		buf[i], buf[i+1] = digitPairs[j], digitPairs[j+1]
		n /= 100
	}
	if n > 0 || i == len(buf) {
		i--
		buf[i] = byte('0' + n)
	}
	if pad {
		for i > len(buf)-8 {
			i--
			buf[i] = '0'
		}
	}
	return i
}
