// Copyright 2020 Denis Bernard <db047h@gmail.com>. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !cfmt_signednans

package cfmt

// signedNaNs selects whether NaNs are printed with their sign. glibc never
// does.
const signedNaNs = false
