// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfmt

// Style selects the platform whose printf output is reproduced where C
// libraries disagree.
type Style uint8

// Output styles.
const (
	// GlibcStyle matches gcc and glibc on Linux: %a prints double values
	// as 0x1.xxxp±n, %p prints a 0x prefix and (nil) for null pointers,
	// %u ignores the + and space flags, and %s prints nothing for a null
	// string when the precision is less than 6.
	GlibcStyle Style = iota
	// WindowsStyle matches the MinGW ANSI stdio: %a prints double values
	// as 0x8.xxxp±n, %p prints 16 hex digits without prefix, %u honours
	// the + and space flags and null strings always print as (null).
	WindowsStyle
)

func (s Style) String() string {
	switch s {
	case GlibcStyle:
		return "GlibcStyle"
	case WindowsStyle:
		return "WindowsStyle"
	}
	return "Style(?)"
}

// A Context holds formatting options: the thousands separator printed by
// the ' flag, the decimal point, and the output Style. It also records the
// first write error of Fprintf until Err is called.
//
// A Context may be used concurrently by several goroutines as long as it
// is not modified and its Fprintf method is not used.
type Context struct {
	comma  byte
	period byte
	style  Style
	err    error
}

// std is the context of package level functions. It is never modified.
var std = Context{comma: ',', period: '.'}

// New returns a new context with the given thousands separator and decimal
// point and glibc style.
func New(comma, period byte) *Context {
	return &Context{comma: comma, period: period}
}

// Comma returns the thousands separator of c.
func (c *Context) Comma() byte { return c.comma }

// Period returns the decimal point of c.
func (c *Context) Period() byte { return c.period }

// Style returns the output style of c.
func (c *Context) Style() Style { return c.style }

// SetSeparators sets the thousands separator and decimal point of c and
// returns c.
func (c *Context) SetSeparators(comma, period byte) *Context {
	c.comma = comma
	c.period = period
	return c
}

// SetStyle sets the output style of c and returns c.
func (c *Context) SetStyle(s Style) *Context {
	c.style = s
	return c
}

// Err returns the first error encountered since the last call to Err and
// clears the error state.
func (c *Context) Err() (err error) {
	err = c.err
	c.err = nil
	return
}

func (c *Context) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}
