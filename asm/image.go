// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "io"

// An Image is the assembled binary: the origin address the bytes load
// at, and the bytes themselves in program order. The code slice grows
// append-only during generation and is never reordered.
type Image struct {
	Origin uint16
	Code   []byte
}

// WriteTo writes the raw image bytes to w. It does not emit an origin
// header; load-format framing (such as a .prg header) is the caller's
// concern.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(img.Code)
	return int64(n), err
}
