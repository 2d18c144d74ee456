// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm translates a parsed 6502 assembly program into a flat
// binary image anchored at an origin address.
//
// Assembly runs as a fixed sequence of single-threaded phases. Pass 1
// scans the program once, assigning an address to every label and
// fixing the encoded width of every instruction and directive. Pass 2
// rescans with the complete symbol table, substituting final operand
// values and checking branch displacements; the widths chosen in
// pass 1 are never revised, so a forward reference that turns out to
// live in the zero page still assembles to the wider absolute form.
// Code generation then emits the bytes in program order. The first
// error encountered halts assembly; no partial image is ever
// returned.
package asm

import (
	"fmt"
	"io"
	"strings"

	"github.com/jkorinth/rusm64/ast"
	"github.com/jkorinth/rusm64/inst"
)

// Option type used by the Assemble function.
type Option uint

// Options for the Assemble function.
const (
	Verbose Option = 1 << iota // listing output during assembly
)

// resolution holds the per-line results of the two resolver passes.
// Once pass 2 fills in value/data the entry is immutable.
type resolution struct {
	addr int               // program-counter address of the line
	in   *inst.Instruction // selected (mnemonic, mode) table entry
	mode inst.Mode
	val  uint16 // final operand value, set in pass 2
	data []byte // directive payload, set in pass 2
}

// A pending constant definition whose expression referenced a symbol
// that was still undefined during pass 1.
type pendingConst struct {
	def *ast.ConstantDef
}

// The assembler is the state object threaded through the assembly
// phases. The symbol table has exactly one writer (the resolver
// phases) and is frozen before code generation.
type assembler struct {
	prog     *ast.Program
	syms     *symtab
	origin   uint16
	orgSeen  bool
	sized    bool // pass 1 contributed bytes or labels; .org no longer allowed
	pc       int
	resolved []resolution
	pending  []pendingConst
	pendingN map[string]bool
	img      *Image
	out      io.Writer
	verbose  bool
}

// Assemble translates a program into a binary image. The out writer
// receives listing output when the Verbose option is set; it may be
// nil. On error the returned image is nil.
func Assemble(prog *ast.Program, out io.Writer, options Option) (*Image, error) {
	if out == nil {
		out = io.Discard
	}

	a := &assembler{
		prog:     prog,
		syms:     newSymtab(),
		resolved: make([]resolution, len(prog.Lines)),
		pendingN: make(map[string]bool),
		img:      &Image{},
		out:      out,
		verbose:  options&Verbose != 0,
	}

	// Assembly consists of the following steps.
	steps := []func(a *assembler) error{
		(*assembler).sizePass,     // pass 1: label addresses and widths
		(*assembler).finalizePass, // pass 2: final operand values
		(*assembler).generate,     // emit the machine code
	}
	for _, step := range steps {
		if err := step(a); err != nil {
			return nil, err
		}
	}
	return a.img, nil
}

// operandExpr returns the expression carried by an operand shape, or
// nil for an implied operand.
func operandExpr(op ast.Operand) ast.Expr {
	switch o := op.(type) {
	case *ast.Immediate:
		return o.Expr
	case *ast.ZeroPage:
		return o.Expr
	case *ast.ZeroPageX:
		return o.Expr
	case *ast.ZeroPageY:
		return o.Expr
	case *ast.Absolute:
		return o.Expr
	case *ast.AbsoluteX:
		return o.Expr
	case *ast.AbsoluteY:
		return o.Expr
	case *ast.Indirect:
		return o.Expr
	case *ast.IndirectX:
		return o.Expr
	case *ast.IndirectY:
		return o.Expr
	default:
		return nil
	}
}

// defined reports whether a name is taken, either by a resolved symbol
// or by a constant still awaiting resolution.
func (a *assembler) defined(name string) bool {
	if _, ok := a.syms.lookup(name); ok {
		return true
	}
	return a.pendingN[name]
}

// sizePass is pass 1. It walks the program once with a running
// program counter, defining label addresses, evaluating constants in
// program order, and fixing every line's byte width. Ambiguous
// zero-page/absolute operands are narrowed to zero page only when
// their value is already known to fit in one byte; forward references
// are conservatively sized as absolute.
func (a *assembler) sizePass() error {
	a.logSection("Pass 1: addresses and widths")

	for i, line := range a.prog.Lines {
		switch ln := line.(type) {
		case *ast.Empty:
			continue

		case *ast.LabelDef:
			if a.pendingN[ln.Name] {
				return errorf(ErrDuplicateSymbol, ln.Row, "label '%s' already defined as a constant", ln.Name)
			}
			if err := a.syms.define(ln.Name, LabelSymbol, uint16(a.pc), ln.Row); err != nil {
				return err
			}
			a.sized = true
			a.log("%04X  %s:", a.pc, ln.Name)

		case *ast.ConstantDef:
			if a.defined(ln.Name) {
				return errorf(ErrDuplicateSymbol, ln.Row, "constant '%s' already defined", ln.Name)
			}
			v, missing, err := eval(ln.Expr, a.syms, ln.Row)
			if err != nil {
				return err
			}
			if missing != "" {
				// Retried in pass 2 once labels are known.
				a.pending = append(a.pending, pendingConst{def: ln})
				a.pendingN[ln.Name] = true
				a.log("      %s = (deferred on '%s')", ln.Name, missing)
				continue
			}
			if err := a.syms.define(ln.Name, ConstantSymbol, v, ln.Row); err != nil {
				return err
			}
			a.log("      %s = $%04X", ln.Name, v)

		case *ast.Instruction:
			if inst.Variants(ln.Mnemonic) == nil {
				return errorf(ErrUnknownMnemonic, ln.Row, "unknown mnemonic '%s'", ln.Mnemonic)
			}

			val, known := uint16(0), true
			if e := operandExpr(ln.Operand); e != nil {
				v, missing, err := eval(e, a.syms, ln.Row)
				if err != nil {
					return err
				}
				val, known = v, missing == ""
			}

			mode, err := selectMode(ln.Mnemonic, ln.Operand, val, known, ln.Row)
			if err != nil {
				return err
			}
			in, _ := inst.Lookup(ln.Mnemonic, mode)

			a.resolved[i] = resolution{addr: a.pc, in: in, mode: mode}
			a.log("%04X  %s Len:%d Mode:%s Opcode:%02X", a.pc, ln.Mnemonic, in.Length, mode, in.Opcode)

			a.sized = true
			a.pc += int(in.Length)

		case *ast.Directive:
			n, err := a.sizeDirective(i, ln)
			if err != nil {
				return err
			}
			if n > 0 {
				a.sized = true
			}
			a.pc += n
		}

		if a.pc > 0x10000 {
			return errorf(ErrImageTooLarge, line.Pos(), "program exceeds 64K")
		}
	}
	return nil
}

// sizeDirective applies .org and returns the byte count contributed
// by a data directive.
func (a *assembler) sizeDirective(i int, d *ast.Directive) (int, error) {
	switch d.Kind {
	case ast.Org:
		if a.sized {
			return 0, errorf(ErrInvalidDirective, d.Row, ".org must precede all labels and emitted bytes")
		}
		if a.orgSeen {
			return 0, errorf(ErrInvalidDirective, d.Row, "origin is already set")
		}
		v, err := evalFinal(d.Args[0], a.syms, d.Row, ErrUnresolvedSymbol)
		if err != nil {
			return 0, err
		}
		a.origin, a.orgSeen = v, true
		a.pc = int(v)
		a.log("      .org $%04X", v)
		return 0, nil

	case ast.Byte:
		a.resolved[i] = resolution{addr: a.pc}
		return len(d.Args), nil

	case ast.Word:
		a.resolved[i] = resolution{addr: a.pc}
		return 2 * len(d.Args), nil

	case ast.Text:
		a.resolved[i] = resolution{addr: a.pc}
		return len(d.Str), nil

	default:
		return 0, errorf(ErrInvalidDirective, d.Row, "unknown directive")
	}
}

// finalizePass is pass 2. It first settles the constants deferred in
// pass 1, then freezes the symbol table and substitutes final values
// into every sized line. Widths fixed by pass 1 are never revisited.
func (a *assembler) finalizePass() error {
	a.logSection("Pass 2: final values")

	if err := a.resolvePending(); err != nil {
		return err
	}
	a.syms.freeze()

	for i, line := range a.prog.Lines {
		switch ln := line.(type) {
		case *ast.Instruction:
			rs := &a.resolved[i]
			e := operandExpr(ln.Operand)
			if e == nil {
				continue
			}
			v, err := evalFinal(e, a.syms, ln.Row, ErrUndefinedLabel)
			if err != nil {
				return err
			}
			if rs.mode == inst.REL {
				next := rs.addr + int(rs.in.Length)
				offset, ok := relOffset(int(v), next)
				if !ok {
					return errorf(ErrBranchOutOfRange, ln.Row,
						"branch from $%04X to $%04X out of range (displacement %d)",
						rs.addr, v, int(v)-next)
				}
				v = uint16(offset)
			}
			rs.val = v
			a.log("%04X  %s val=$%04X", rs.addr, ln.Mnemonic, v)

		case *ast.Directive:
			if err := a.finalizeDirective(i, ln); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolvePending re-evaluates deferred constants until no further
// progress is possible. Constants may depend on labels and on each
// other in any order, so the loop runs to a fixed point.
func (a *assembler) resolvePending() error {
	for len(a.pending) > 0 {
		var remaining []pendingConst
		for _, p := range a.pending {
			v, missing, err := eval(p.def.Expr, a.syms, p.def.Row)
			if err != nil {
				return err
			}
			if missing != "" {
				remaining = append(remaining, p)
				continue
			}
			delete(a.pendingN, p.def.Name)
			if err := a.syms.define(p.def.Name, ConstantSymbol, v, p.def.Row); err != nil {
				return err
			}
			a.log("      %s = $%04X", p.def.Name, v)
		}
		if len(remaining) == len(a.pending) {
			p := remaining[0]
			_, missing, _ := eval(p.def.Expr, a.syms, p.def.Row)
			return errorf(ErrUnresolvedSymbol, p.def.Row,
				"constant '%s' depends on undefined symbol '%s'", p.def.Name, missing)
		}
		a.pending = remaining
	}
	return nil
}

// finalizeDirective evaluates data-directive arguments into their
// payload bytes.
func (a *assembler) finalizeDirective(i int, d *ast.Directive) error {
	rs := &a.resolved[i]
	switch d.Kind {
	case ast.Byte, ast.Word:
		unit := 1
		if d.Kind == ast.Word {
			unit = 2
		}
		rs.data = make([]byte, 0, unit*len(d.Args))
		for _, arg := range d.Args {
			v, err := evalFinal(arg, a.syms, d.Row, ErrUndefinedLabel)
			if err != nil {
				return err
			}
			if unit == 1 && v > 0xff {
				return errorf(ErrInvalidDirective, d.Row, "byte value $%X out of range", v)
			}
			rs.data = append(rs.data, toBytes(unit, v)...)
		}

	case ast.Text:
		rs.data = []byte(d.Str)
	}
	return nil
}

// generate emits the machine code in program order.
func (a *assembler) generate() error {
	a.logSection("Generating code")
	a.img.Origin = a.origin

	for i, line := range a.prog.Lines {
		switch ln := line.(type) {
		case *ast.Instruction:
			rs := &a.resolved[i]
			b, err := encode(ln.Mnemonic, rs.mode, rs.val, ln.Row)
			if err != nil {
				return err
			}
			a.img.Code = append(a.img.Code, b...)
			a.log("%04X-   %-8s    %s %s", rs.addr, byteString(b), ln.Mnemonic, ln.Operand)

		case *ast.Directive:
			rs := &a.resolved[i]
			a.img.Code = append(a.img.Code, rs.data...)
			a.logBytes(rs.addr, rs.data)
		}
	}
	return nil
}

// In verbose mode, log a string to the output writer.
func (a *assembler) log(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(a.out, format, args...)
		fmt.Fprintln(a.out)
	}
}

// In verbose mode, log a series of bytes with their starting address.
func (a *assembler) logBytes(addr int, b []byte) {
	if a.verbose {
		for i, n := 0, len(b); i < n; i += 3 {
			j := i + 3
			if j > n {
				j = n
			}
			a.log("%04X-*  %s", addr+i, byteString(b[i:j]))
		}
	}
}

// In verbose mode, log a section header to the output writer.
func (a *assembler) logSection(name string) {
	if a.verbose {
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(a.out, "-- %s --\n", name)
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
	}
}
