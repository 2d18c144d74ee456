// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the syntax tree consumed by the assembler core.
// A Program is an ordered sequence of lines; order is significant
// because it defines program-counter progression. The tree is built
// once by a front end and is read-only thereafter.
package ast

import (
	"fmt"
	"strings"
)

// A Program holds the parsed lines of an assembly source file in
// source order.
type Program struct {
	Lines []Line
}

// A Line is a single parsed construct. The concrete types are
// *LabelDef, *Instruction, *Directive, *ConstantDef and *Empty.
type Line interface {
	// Pos returns the 1-based source row the line came from.
	Pos() int
}

// A LabelDef associates a name with the current program counter.
type LabelDef struct {
	Row  int
	Name string
}

func (l *LabelDef) Pos() int { return l.Row }

// An Instruction is a CPU mnemonic plus its operand. Instructions
// without an operand carry *Implied.
type Instruction struct {
	Row      int
	Mnemonic string
	Operand  Operand
}

func (i *Instruction) Pos() int { return i.Row }

// A ConstantDef binds a name to the value of an expression.
type ConstantDef struct {
	Row  int
	Name string
	Expr Expr
}

func (c *ConstantDef) Pos() int { return c.Row }

// DirectiveKind identifies an assembler directive.
type DirectiveKind byte

const (
	Org  DirectiveKind = iota // set the image origin
	Byte                      // emit one byte per argument
	Word                      // emit one little-endian word per argument
	Text                      // emit the raw bytes of a string
)

func (k DirectiveKind) String() string {
	switch k {
	case Org:
		return ".org"
	case Byte:
		return ".byte"
	case Word:
		return ".word"
	case Text:
		return ".text"
	default:
		return ".???"
	}
}

// A Directive is a pseudo-operation that contributes data or settings
// rather than an instruction. Byte and Word carry Args; Text carries
// Str; Org carries a single Args entry.
type Directive struct {
	Row  int
	Kind DirectiveKind
	Args []Expr
	Str  string
}

func (d *Directive) Pos() int { return d.Row }

// An Empty line contributes nothing to the image.
type Empty struct {
	Row int
}

func (e *Empty) Pos() int { return e.Row }

// An Operand is the addressing-mode shape of an instruction's
// parameter as written in the source. Parenthesization and index
// suffixes are fixed at parse time; the zero-page vs. absolute
// decision for the plain and indexed shapes is made later by the
// resolver, because it depends on the resolved numeric value.
//
// The concrete types are *Immediate, *ZeroPage, *ZeroPageX,
// *ZeroPageY, *Absolute, *AbsoluteX, *AbsoluteY, *Indirect,
// *IndirectX, *IndirectY and *Implied.
type Operand interface {
	fmt.Stringer
}

// Immediate is "#expr".
type Immediate struct{ Expr Expr }

// ZeroPage is a plain address expression known by the front end to
// live in the zero page.
type ZeroPage struct{ Expr Expr }

// ZeroPageX is a zero-page expression with an ",X" suffix.
type ZeroPageX struct{ Expr Expr }

// ZeroPageY is a zero-page expression with an ",Y" suffix.
type ZeroPageY struct{ Expr Expr }

// Absolute is a plain address expression: "expr". The resolver may
// narrow it to a zero-page encoding, or to a relative branch target
// when the mnemonic is a branch.
type Absolute struct{ Expr Expr }

// AbsoluteX is "expr,X".
type AbsoluteX struct{ Expr Expr }

// AbsoluteY is "expr,Y".
type AbsoluteY struct{ Expr Expr }

// Indirect is "(expr)".
type Indirect struct{ Expr Expr }

// IndirectX is "(expr,X)".
type IndirectX struct{ Expr Expr }

// IndirectY is "(expr),Y".
type IndirectY struct{ Expr Expr }

// Implied is the absence of an operand.
type Implied struct{}

func (o *Immediate) String() string { return "#" + o.Expr.String() }
func (o *ZeroPage) String() string  { return o.Expr.String() }
func (o *ZeroPageX) String() string { return o.Expr.String() + ",X" }
func (o *ZeroPageY) String() string { return o.Expr.String() + ",Y" }
func (o *Absolute) String() string  { return o.Expr.String() }
func (o *AbsoluteX) String() string { return o.Expr.String() + ",X" }
func (o *AbsoluteY) String() string { return o.Expr.String() + ",Y" }
func (o *Indirect) String() string  { return "(" + o.Expr.String() + ")" }
func (o *IndirectX) String() string { return "(" + o.Expr.String() + ",X)" }
func (o *IndirectY) String() string { return "(" + o.Expr.String() + "),Y" }
func (o *Implied) String() string   { return "" }

// BinOp is a binary arithmetic operator.
type BinOp byte

const (
	Add BinOp = iota
	Sub
	Mul
	Div
)

func (op BinOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// An Expr is a numeric expression tree. The concrete types are
// *Number, *Ident, *HighByte, *LowByte, *Binary and *Paren.
// Evaluation is pure and total given a fully populated symbol table.
type Expr interface {
	fmt.Stringer
}

// Number is a literal 16-bit value.
type Number struct{ Value uint16 }

// Ident references a label or constant by name.
type Ident struct{ Name string }

// HighByte extracts bits 8-15 of its operand (">expr").
type HighByte struct{ Expr Expr }

// LowByte extracts bits 0-7 of its operand ("<expr").
type LowByte struct{ Expr Expr }

// Binary applies Op to L and R with 16-bit wraparound.
type Binary struct {
	Op   BinOp
	L, R Expr
}

// Paren is an explicitly parenthesized group.
type Paren struct{ Expr Expr }

func (e *Number) String() string {
	if e.Value > 9 {
		return fmt.Sprintf("$%X", e.Value)
	}
	return fmt.Sprintf("%d", e.Value)
}

func (e *Ident) String() string    { return e.Name }
func (e *HighByte) String() string { return ">" + e.Expr.String() }
func (e *LowByte) String() string  { return "<" + e.Expr.String() }
func (e *Paren) String() string    { return "(" + e.Expr.String() + ")" }

func (e *Binary) String() string {
	return e.L.String() + e.Op.String() + e.R.String()
}

// Dump formats a program one line per entry, for debugging front ends.
func (p *Program) Dump() string {
	var sb strings.Builder
	for _, line := range p.Lines {
		switch ln := line.(type) {
		case *LabelDef:
			fmt.Fprintf(&sb, "%4d  label    %s\n", ln.Row, ln.Name)
		case *Instruction:
			fmt.Fprintf(&sb, "%4d  inst     %s %s\n", ln.Row, ln.Mnemonic, ln.Operand)
		case *ConstantDef:
			fmt.Fprintf(&sb, "%4d  const    %s = %s\n", ln.Row, ln.Name, ln.Expr)
		case *Directive:
			args := make([]string, 0, len(ln.Args))
			for _, a := range ln.Args {
				args = append(args, a.String())
			}
			if ln.Kind == Text {
				fmt.Fprintf(&sb, "%4d  directive %s %q\n", ln.Row, ln.Kind, ln.Str)
			} else {
				fmt.Fprintf(&sb, "%4d  directive %s %s\n", ln.Row, ln.Kind, strings.Join(args, ", "))
			}
		case *Empty:
			fmt.Fprintf(&sb, "%4d  empty\n", ln.Row)
		}
	}
	return sb.String()
}
