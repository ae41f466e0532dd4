// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfmt

import (
	"math/big"

	"github.com/db47h/cfmt/dd"
)

type f64pair = dd.Pair[dd.F64]

const (
	maxPow10 = 300 // largest entry in pow10pos
	maxNeg10 = 290 // largest entry in pow10neg with a normal Lo
)

// pow10pos[n] and pow10neg[n] are 10**n and 10**-n as double-doubles: Hi
// is the float64 nearest to the exact value and Lo the float64 nearest to
// the difference.
var (
	pow10pos [maxPow10 + 1]f64pair
	pow10neg [maxNeg10 + 1]f64pair
)

func init() {
	const prec = 1200
	ten := new(big.Int).SetInt64(10)
	p := new(big.Int).SetInt64(1)
	x := new(big.Float).SetPrec(prec)
	r := new(big.Float).SetPrec(prec)
	for n := 0; n <= maxPow10 || n <= maxNeg10; n++ {
		if n <= maxPow10 {
			x.SetInt(p)
			pow10pos[n] = splitBig(x, r)
		}
		if n <= maxNeg10 {
			x.SetInt(p)
			x.Quo(new(big.Float).SetPrec(prec).SetInt64(1), x)
			pow10neg[n] = splitBig(x, r)
		}
		p.Mul(p, ten)
	}
}

// splitBig returns x as a double-double; r is scratch space.
func splitBig(x, r *big.Float) f64pair {
	hi, _ := x.Float64()
	r.Sub(x, r.SetFloat64(hi))
	lo, _ := r.Float64()
	return f64pair{Hi: dd.F64(hi), Lo: dd.F64(lo)}
}

// mulPow10 returns d * 10**n for -2*maxNeg10 <= n <= 2*maxPow10.
func mulPow10(d float64, n int) f64pair {
	switch {
	case n < -maxNeg10:
		p := pow10neg[maxNeg10].MulFloat(dd.F64(d))
		return p.Mul(pow10neg[-n-maxNeg10])
	case n < 0:
		return pow10neg[-n].MulFloat(dd.F64(d))
	case n > maxPow10:
		p := pow10pos[maxPow10].MulFloat(dd.F64(d))
		return p.Mul(pow10pos[n-maxPow10])
	}
	return pow10pos[n].MulFloat(dd.F64(d))
}

// wideChunk is the largest power of ten applied in one multiplication to
// Float80 and Float128 values. 10**4000 and 10**-4000 are normal in both
// formats.
const wideChunk = 4000

// scalePow10 returns x * 10**n for any n, applying the power in chunks of
// at most chunk decades. Negative powers are applied by division.
func scalePow10[T dd.Float[T]](x dd.Pair[T], ten T, n, chunk int) dd.Pair[T] {
	for n != 0 {
		k := n
		if k > chunk {
			k = chunk
		} else if k < -chunk {
			k = -chunk
		}
		n -= k
		if k > 0 {
			x = x.Mul(powTen(ten, k))
		} else {
			x = x.Quo(powTen(ten, -k))
		}
	}
	return x
}

// powTen returns 10**n. The table is used for float64 when it covers n.
func powTen[T dd.Float[T]](ten T, n int) dd.Pair[T] {
	if p, ok := any(pow10pos[:]).([]dd.Pair[T]); ok && n <= maxPow10 {
		return p[n]
	}
	return dd.Power(ten, uint(n))
}
