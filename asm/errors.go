// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"fmt"
)

// Error kinds reported by the assembler. Callers match them with
// errors.Is.
var (
	ErrDuplicateSymbol     = errors.New("duplicate symbol")
	ErrUndefinedLabel      = errors.New("undefined label")
	ErrUnresolvedSymbol    = errors.New("unresolved symbol")
	ErrUnknownMnemonic     = errors.New("unknown mnemonic")
	ErrInvalidAddressing   = errors.New("invalid addressing mode")
	ErrBranchOutOfRange    = errors.New("branch out of range")
	ErrMalformedExpression = errors.New("malformed expression")
	ErrInvalidDirective    = errors.New("invalid directive")
	ErrImageTooLarge       = errors.New("image exceeds 64K")
)

// An Error is an assembly failure tagged with its kind and the source
// row it was detected on.
type Error struct {
	Kind error // one of the Err* sentinels
	Row  int   // 1-based source row, 0 when not tied to a line
	Msg  string
}

func (e *Error) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("line %d: %s", e.Row, e.Msg)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errorf(kind error, row int, format string, args ...any) *Error {
	return &Error{Kind: kind, Row: row, Msg: fmt.Sprintf(format, args...)}
}
