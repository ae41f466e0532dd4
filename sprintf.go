// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cfmt

import (
	"io"
	"os"
)

// Append formats according to format, appends the result to dst and
// returns the extended buffer. dst is only reallocated when its capacity is
// exceeded.
func (c *Context) Append(dst []byte, format string, args ...Arg) []byte {
	p := getPrinter(c)
	p.buf = dst
	p.doPrintf(format, args)
	dst = p.buf
	putPrinter(p)
	return dst
}

// Sprintf formats according to format and returns the resulting string.
func (c *Context) Sprintf(format string, args ...Arg) string {
	p := getPrinter(c)
	p.doPrintf(format, args)
	s := string(p.buf)
	putPrinter(p)
	return s
}

// Snprintf formats into buf, writing at most len(buf)-1 bytes followed by a
// NUL byte. Nothing is written if buf is empty. It returns the length of
// the complete output, excluding the NUL, which is larger than len(buf)-1
// when the output has been truncated.
func (c *Context) Snprintf(buf []byte, format string, args ...Arg) int {
	p := getPrinter(c)
	if len(buf) > 0 {
		p.buf = buf[:0]
		p.limit = len(buf) - 1
	} else {
		p.limit = 0
	}
	p.doPrintf(format, args)
	if len(buf) > 0 {
		buf[len(p.buf)] = 0
	}
	n := p.n
	putPrinter(p)
	return n
}

// Fprintf formats according to format and writes to w in chunks of
// MinBuffer bytes. It returns the number of bytes written and the first
// write error, after which formatting stops. The error is also recorded in
// c until the next call to Err.
func (c *Context) Fprintf(w io.Writer, format string, args ...Arg) (n int, err error) {
	n, err = fprintf(c, w, format, args)
	if err != nil {
		c.setErr(err)
	}
	return n, err
}

// Printf is like Fprintf to os.Stdout.
func (c *Context) Printf(format string, args ...Arg) (n int, err error) {
	return c.Fprintf(os.Stdout, format, args...)
}

// Callbackf formats according to format and passes the output to cb in
// chunks of at most MinBuffer bytes. It returns the number of bytes passed
// to cb. Formatting stops as soon as cb returns false.
func (c *Context) Callbackf(cb Callback, format string, args ...Arg) int {
	p := getPrinter(c)
	p.cb = cb
	p.doPrintf(format, args)
	n := p.sent
	putPrinter(p)
	return n
}

func fprintf(c *Context, w io.Writer, format string, args []Arg) (n int, err error) {
	p := getPrinter(c)
	p.w = w
	p.doPrintf(format, args)
	n, err = p.sent, p.werr
	putPrinter(p)
	return n, err
}

// Append formats according to format, appends the result to dst and
// returns the extended buffer.
func Append(dst []byte, format string, args ...Arg) []byte {
	return std.Append(dst, format, args...)
}

// Sprintf formats according to format and returns the resulting string.
func Sprintf(format string, args ...Arg) string {
	return std.Sprintf(format, args...)
}

// Snprintf formats into buf like C snprintf. See Context.Snprintf.
func Snprintf(buf []byte, format string, args ...Arg) int {
	return std.Snprintf(buf, format, args...)
}

// Fprintf formats according to format and writes to w. It returns the
// number of bytes written and the first write error.
func Fprintf(w io.Writer, format string, args ...Arg) (int, error) {
	return fprintf(&std, w, format, args)
}

// Printf formats according to format and writes to os.Stdout.
func Printf(format string, args ...Arg) (int, error) {
	return fprintf(&std, os.Stdout, format, args)
}

// Callbackf formats according to format and passes the output to cb. See
// Context.Callbackf.
func Callbackf(cb Callback, format string, args ...Arg) int {
	return std.Callbackf(cb, format, args...)
}
