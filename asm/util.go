// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

const hexDigits = "0123456789ABCDEF"

// toBytes returns the little-endian representation of a value using
// the requested number of bytes (1 or 2).
func toBytes(n int, value uint16) []byte {
	if n == 1 {
		return []byte{byte(value)}
	}
	return []byte{byte(value), byte(value >> 8)}
}

// byteString formats a byte slice as space-separated hex pairs.
func byteString(b []byte) string {
	if len(b) < 1 {
		return ""
	}
	s := make([]byte, len(b)*3-1)
	i, j := 0, 0
	for n := len(b) - 1; i < n; i, j = i+1, j+3 {
		s[j+0] = hexDigits[b[i]>>4]
		s[j+1] = hexDigits[b[i]&0x0f]
		s[j+2] = ' '
	}
	s[j+0] = hexDigits[b[i]>>4]
	s[j+1] = hexDigits[b[i]&0x0f]
	return string(s)
}
