// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cfmt implements C printf style formatting and strtod style parsing
with the exact output of the C library, for float64, 80 bit extended and
128 bit quadruple precision floating-point values as well as 128 bit
integers.

Binary to decimal conversion does not use arbitrary-precision arithmetic:
values are scaled by powers of ten with double-double arithmetic (see
package dd) and the digits are read from a 64 or 128 bit integer window.
Up to 19 significant digits of a float64 are correctly rounded, half to
even, so that printing with %.17g and parsing the result back yields the
original value. The 80 and 128 bit formats are provided by package xfloat.

Arguments are passed as a slice of Arg, the typed equivalent of a C va_list:

	cfmt.Sprintf("%'d items at %.2f", cfmt.Int(1234567), cfmt.Float(3.14159))
	// "1,234,567 items at 3.14"

Format directives have the C syntax:

	%[flags][width][.precision][length]conversion

Flags are '-', '+', ' ', '#', '0', the thousands separator flag '\'' and
the metric suffix flags '$' (1000 based: k, M, G...), '$$' (1024 based: Ki,
Mi, Gi...), '$$$' (1024 based, JEDEC: K, M, G...) and '_' (no space before
the suffix):

	cfmt.Sprintf("%$.3d", cfmt.Int(2536000))     // "2.536 M"
	cfmt.Sprintf("%$$.3d", cfmt.Int(2536000))    // "2.419 Mi"
	cfmt.Sprintf("%_$$$.1f", cfmt.Float(3072.0)) // "3.0K"

A flag may only be given once: a repeated flag ends the flags. Width and
precision are decimal numbers or '*', which consumes an argument.

Length modifiers are hh, h, l, ll, j, z, t, L (Float80), Q (128 bit integer
or Float128), I, I32, I64 and I128. Conversions are d, i, u, o, x, X, b, B
(binary), f, F, e, E, g, G, a, A, c, s, p, n and %. Unknown conversions
print the conversion character.

Output differs between C libraries in a few places; a Context selects the
GlibcStyle (the default) or WindowsStyle behavior, along with the thousands
separator and decimal point. Package level functions use a default Context
with ',' and '.'.

Signed NaNs ("-nan") are printed and parsed when the package is built with
the cfmt_signednans tag.
*/
package cfmt
