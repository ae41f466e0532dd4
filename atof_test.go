// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfmt

import (
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/db47h/cfmt/xfloat"
)

var rnd = rand.New(rand.NewSource(0xdecafbad))

func TestStrtod(t *testing.T) {
	for _, s := range []string{
		"0", "1", "-1.5", "3.14159", "0.1", "1e23", "-0.000123",
		"123456789", "1234567890123456789", "9007199254740993",
		"8.98846567431158e307", "1.7976931348623157e308",
		"2.2250738585072014e-308", "2.2250738585072011e-308",
		"4.9e-324", "2.4703282292062328e-324", "2.4703282292062327e-324",
		"5e-324", "1e-320", "123456789012345678901234567890",
		"0.000000000000000000000000000000000000001",
		"1.7976931348623159e308", "1e400", "1e-400", "-1e-400",
	} {
		want, _ := strconv.ParseFloat(s, 64)
		got, n := Strtod(s)
		if math.Float64bits(got) != math.Float64bits(want) || n != len(s) {
			t.Errorf("Strtod(%q) = %g, %d, want %g, %d", s, got, n, want, len(s))
		}
	}
}

func TestStrtod_random(t *testing.T) {
	for i := 0; i < 20000; i++ {
		v := math.Float64frombits(rnd.Uint64())
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		for _, s := range []string{
			strconv.FormatFloat(v, 'g', -1, 64),
			strconv.FormatFloat(v, 'e', 16, 64),
		} {
			if got, _ := Strtod(s); math.Float64bits(got) != math.Float64bits(v) {
				t.Fatalf("#%d Strtod(%q) = %g, want %g", i, s, got, v)
			}
		}
	}
}

func TestStrtod_literals(t *testing.T) {
	inf := math.Inf(1)
	for _, test := range []struct {
		s    string
		want float64
		n    int
	}{
		{"  12.5abc", 12.5, 6},
		{"\t\n+7", 7, 4},
		{".5", 0.5, 2},
		{"5.", 5, 2},
		{"1e", 1, 1},
		{"1e+", 1, 1},
		{"1e5x", 1e5, 3},
		{"1E-2", 0.01, 4},
		{"1.2.3", 1.2, 3},
		{"00000000000000000000000000001", 1, 29},
		{"1e-99999999999999", 0, 17},
		{"0x1.8p3", 12, 7},
		{"0X1P-2", 0.25, 6},
		{"0x.8", 0.5, 4},
		{"-0x10", -16, 5},
		{"0x1p", 1, 3},
		{"0x", 0, 1},
		{"0xg", 0, 1},
		{"0x1.fffffffffffff8p0", 2, 20},
		{"0x1.00000000000008p0", 1, 20},
		{"0x1.00000000000008000000000000000001p0", 1 + 0x1p-52, 38},
		{"0x1p-1075", 0, 9},
		{"0x1.0000001p-1075", 0x1p-1074, 17},
		{"0x1p1024", inf, 8},
		{"inf", inf, 3},
		{"-Infinity", -inf, 9},
		{"INFINITE", inf, 3},
		{"infinit", inf, 3},
		{"", 0, 0},
		{"-", 0, 0},
		{".", 0, 0},
		{"+.e1", 0, 0},
		{"hello", 0, 0},
		{"i", 0, 0},
	} {
		got, n := Strtod(test.s)
		if math.Float64bits(got) != math.Float64bits(test.want) || n != test.n {
			t.Errorf("Strtod(%q) = %g, %d, want %g, %d", test.s, got, n, test.want, test.n)
		}
	}
	if v, _ := Strtod("-0"); !math.Signbit(v) || v != 0 {
		t.Errorf("Strtod(-0) = %g", v)
	}
	if v, _ := Strtod("-1e-400"); !math.Signbit(v) {
		t.Errorf("Strtod(-1e-400) = %g", v)
	}
}

func TestStrtod_nan(t *testing.T) {
	for _, test := range []struct {
		s string
		n int
	}{
		{"nan", 3},
		{"NaN", 3},
		{" -nan", 5},
		{"nan(0x1_a)", 10},
		{"nan()", 5},
		{"nan(", 3},
		{"nan(1 2)", 3},
		{"nanx", 3},
	} {
		v, n := Strtod(test.s)
		if !math.IsNaN(v) || n != test.n {
			t.Errorf("Strtod(%q) = %g, %d, want NaN, %d", test.s, v, n, test.n)
		}
	}
}

func TestParseFloat(t *testing.T) {
	if v, ok := ParseFloat("1.5x"); !ok || v != 1.5 {
		t.Errorf("ParseFloat(1.5x) = %g, %v", v, ok)
	}
	if v, ok := ParseFloat("x"); ok || v != 0 {
		t.Errorf("ParseFloat(x) = %g, %v", v, ok)
	}
	for _, test := range []struct {
		s    string
		want float64
	}{
		{" 1.5 ", 1.5},
		{"-2e3\n", -2000},
		{"inf\t", math.Inf(1)},
		{"0x1p-1", 0.5},
	} {
		if got := ParseFloatOrNaN(test.s); got != test.want {
			t.Errorf("ParseFloatOrNaN(%q) = %g, want %g", test.s, got, test.want)
		}
	}
	for _, s := range []string{"", " ", "1.5x", "x", "1 2", "nan"} {
		if got := ParseFloatOrNaN(s); !math.IsNaN(got) {
			t.Errorf("ParseFloatOrNaN(%q) = %g, want NaN", s, got)
		}
	}
}

func TestStrtof(t *testing.T) {
	for _, s := range []string{
		"0", "1.1", "-3.14159", "1e10", "1.00000006", "16777217",
		"3.4028235e38", "3.4028236e38", "1e39", "1.1754944e-38",
		"1e-45", "7e-46", "1e-50", "0.000000000000000000000000001",
	} {
		want, _ := strconv.ParseFloat(s, 32)
		got, n := Strtof(s)
		if math.Float32bits(got) != math.Float32bits(float32(want)) || n != len(s) {
			t.Errorf("Strtof(%q) = %g, %d, want %g, %d", s, got, n, want, len(s))
		}
	}
	for i := 0; i < 20000; i++ {
		v := math.Float32frombits(rnd.Uint32())
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			continue
		}
		s := strconv.FormatFloat(float64(v), 'g', -1, 32)
		if got, ok := ParseFloat32(s); !ok || math.Float32bits(got) != math.Float32bits(v) {
			t.Fatalf("#%d ParseFloat32(%q) = %g, want %g", i, s, got, v)
		}
	}
	if v, n := Strtof("0x1.000001p0"); v != 1 || n != 12 {
		t.Errorf("Strtof(0x1.000001p0) = %g, %d", v, n)
	}
	if v, n := Strtof("-inf"); !math.IsInf(float64(v), -1) || n != 4 {
		t.Errorf("Strtof(-inf) = %g, %d", v, n)
	}
}

func TestStrtold(t *testing.T) {
	if v, n := Strtold("1.5"); v.Cmp(xfloat.ExtFromFloat64(1.5)) != 0 || n != 3 {
		t.Errorf("Strtold(1.5) = %v, %d", v, n)
	}
	if v, _ := Strtold("0.1"); v.Float64() != 0.1 {
		t.Errorf("Strtold(0.1) = %v", v)
	}
	if v, _ := ParseFloat80("1e5000"); !v.IsInf() || v.Signbit() {
		t.Errorf("ParseFloat80(1e5000) = %v", v)
	}
	if v, _ := ParseFloat80("-1e-5000"); !v.IsZero() || !v.Signbit() {
		t.Errorf("ParseFloat80(-1e-5000) = %v", v)
	}
	if v, n := Strtold("0x1p-16445"); v.Cmp(xfloat.ExtFromBits(0, 1)) != 0 || n != 10 {
		t.Errorf("Strtold(0x1p-16445) = %v, %d", v, n)
	}
	if v, _ := Strtold("-nan"); !v.IsNaN() {
		t.Errorf("Strtold(-nan) = %v", v)
	}

	for i := 0; i < 2000; i++ {
		x := xfloat.ExtFromFloat64(rnd.NormFloat64()).Mul(xfloat.ExtFromFloat64(math.Ldexp(1+rnd.Float64(), rnd.Intn(400)-200)))
		s := x.Big(nil).Text('e', 20)
		if got, ok := ParseFloat80(s); !ok || got.Cmp(x) != 0 {
			t.Fatalf("#%d ParseFloat80(%q) = %v, want %v", i, s, got, x)
		}
	}
}

func TestStrtoQ(t *testing.T) {
	if v, n := StrtoQ("  -2.5e-3"); v.Cmp(xfloat.QuadFromFloat64(-2.5).Quo(xfloat.QuadFromUint64(1000))) != 0 || n != 9 {
		t.Errorf("StrtoQ(-2.5e-3) = %v, %d", v, n)
	}
	if v, _ := StrtoQ("1.2e4932"); !v.IsInf() {
		t.Errorf("StrtoQ(overflow) = %v", v)
	}
	if v, _ := ParseFloat128("0x1p-16494"); v.Cmp(xfloat.QuadFromBits(0, 1)) != 0 {
		t.Errorf("ParseFloat128(0x1p-16494) = %v", v)
	}
	if v, _ := ParseFloat128("INFINITY"); !v.IsInf() {
		t.Errorf("ParseFloat128(INFINITY) = %v", v)
	}

	for i := 0; i < 2000; i++ {
		x := xfloat.QuadFromFloat64(rnd.NormFloat64()).Mul(xfloat.QuadFromFloat64(math.Ldexp(1+rnd.Float64(), rnd.Intn(400)-200)))
		x = x.Mul(xfloat.QuadFromFloat64(1 + rnd.Float64()))
		s := x.Big(nil).Text('e', 35)
		if got, ok := ParseFloat128(s); !ok || got.Cmp(x) != 0 {
			t.Fatalf("#%d ParseFloat128(%q) = %v, want %v", i, s, got, x)
		}
	}
}
