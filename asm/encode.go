// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"github.com/jkorinth/rusm64/ast"
	"github.com/jkorinth/rusm64/inst"
)

// selectMode maps a mnemonic and a syntactic operand shape to the
// final addressing mode. For the plain and indexed shapes the
// zero-page encoding is chosen only when the operand value is already
// known to fit in one byte and the mnemonic has a zero-page variant;
// every other case — including every forward reference — gets the
// wider absolute encoding. Branch mnemonics reclassify a plain
// operand as relative.
func selectMode(name string, op ast.Operand, val uint16, known bool, row int) (inst.Mode, error) {
	var mode inst.Mode
	switch op.(type) {
	case *ast.Implied:
		mode = inst.IMP
		if _, ok := inst.Lookup(name, inst.IMP); !ok {
			mode = inst.ACC
		}

	case *ast.Immediate:
		mode = inst.IMM

	case *ast.ZeroPage:
		mode = inst.ZPG
	case *ast.ZeroPageX:
		mode = inst.ZPX
	case *ast.ZeroPageY:
		mode = inst.ZPY

	case *ast.Absolute:
		switch {
		case inst.IsBranch(name):
			mode = inst.REL
		case narrows(name, inst.ZPG, val, known):
			mode = inst.ZPG
		default:
			mode = inst.ABS
		}

	case *ast.AbsoluteX:
		if narrows(name, inst.ZPX, val, known) {
			mode = inst.ZPX
		} else {
			mode = inst.ABX
		}

	case *ast.AbsoluteY:
		if narrows(name, inst.ZPY, val, known) {
			mode = inst.ZPY
		} else {
			mode = inst.ABY
		}

	case *ast.Indirect:
		mode = inst.IND
	case *ast.IndirectX:
		mode = inst.IDX
	case *ast.IndirectY:
		mode = inst.IDY

	default:
		return 0, errorf(ErrMalformedExpression, row, "malformed operand")
	}

	if _, ok := inst.Lookup(name, mode); !ok {
		return 0, errorf(ErrInvalidAddressing, row, "%s does not support %s addressing", name, mode)
	}
	return mode, nil
}

func narrows(name string, zp inst.Mode, val uint16, known bool) bool {
	if !known || val > 0xff {
		return false
	}
	_, ok := inst.Lookup(name, zp)
	return ok
}

// encode emits the opcode byte followed by the operand bytes for a
// resolved instruction. Operand bytes are little-endian for the
// two-byte modes; immediate and zero-page operands keep only their low
// byte.
func encode(name string, mode inst.Mode, val uint16, row int) ([]byte, error) {
	in, ok := inst.Lookup(name, mode)
	if !ok {
		return nil, errorf(ErrInvalidAddressing, row, "%s does not support %s addressing", name, mode)
	}
	switch in.Length {
	case 1:
		return []byte{in.Opcode}, nil
	case 2:
		return []byte{in.Opcode, byte(val)}, nil
	default:
		return []byte{in.Opcode, byte(val), byte(val >> 8)}, nil
	}
}

// relOffset computes the displacement from the byte following a
// branch instruction to its target as a two's-complement byte. ok is
// false when the displacement does not fit.
func relOffset(target, next int) (offset byte, ok bool) {
	diff := target - next
	switch {
	case diff < -128 || diff > 127:
		return 0, false
	case diff >= 0:
		return byte(diff), true
	default:
		return byte(256 + diff), true
	}
}
