// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parser turns 6502 assembly source text into the ast types
// consumed by the assembler core. It recognizes the classic C64
// surface syntax: labels in the first column (trailing colon
// optional), '#' immediates, '(...)' indirection, ',X' and ',Y' index
// suffixes, '$' hex and '%' binary literals, "name = expr" constant
// definitions, and '.'-prefixed directives.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/prefixtree/v2"

	"github.com/jkorinth/rusm64/ast"
	"github.com/jkorinth/rusm64/inst"
)

var errParse = errors.New("parse error")

// Error describes a syntax error and its source position.
type Error struct {
	Row    int // 1-based source row
	Column int // 1-based source column
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("syntax error: line %d, col %d: %s", e.Row, e.Column, e.Msg)
}

func errorFor(l fstring, format string, args ...any) error {
	return &Error{Row: l.row, Column: l.column + 1, Msg: fmt.Sprintf(format, args...)}
}

// Directive names resolve through a prefix tree, so any unambiguous
// abbreviation is accepted (".by" for ".byte", ".w" for ".word").
var directives = prefixtree.New[ast.DirectiveKind]()

func init() {
	for name, kind := range map[string]ast.DirectiveKind{
		"org":   ast.Org,
		"byte":  ast.Byte,
		"db":    ast.Byte,
		"word":  ast.Word,
		"dw":    ast.Word,
		"text":  ast.Text,
		"ascii": ast.Text,
	} {
		directives.Add(name, kind)
	}
}

// Parse reads assembly source and produces its syntax tree. The first
// malformed line aborts the parse.
func Parse(r io.Reader) (*ast.Program, error) {
	prog := &ast.Program{}
	scanner := bufio.NewScanner(r)
	row := 1
	for scanner.Scan() {
		line := newFstring(row, scanner.Text())
		if err := parseLine(prog, line.stripTrailingComment()); err != nil {
			return nil, err
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return prog, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(src string) (*ast.Program, error) {
	return Parse(strings.NewReader(src))
}

func parseLine(prog *ast.Program, line fstring) error {
	if line.isEmpty() {
		prog.Lines = append(prog.Lines, &ast.Empty{Row: line.row})
		return nil
	}
	if line.startsWith(whitespace) {
		return parseConstruct(prog, line.consumeWhitespace())
	}
	return parseLabeledLine(prog, line)
}

// parseLabeledLine handles a line starting in column 0: either a
// constant definition "name = expr" or a label, optionally followed by
// another construct.
func parseLabeledLine(prog *ast.Program, line fstring) error {
	if !line.startsWith(labelStartChar) {
		s, _ := line.consumeUntil(whitespace)
		return errorFor(line, "invalid label '%s'", s.str)
	}

	name, remain := line.consumeWhile(labelChar)

	rest := remain.consumeWhitespace()
	if rest.startsWithChar('=') {
		return parseConstant(prog, name, rest.consume(1).consumeWhitespace())
	}

	if remain.startsWithChar(':') {
		remain = remain.consume(1)
	}
	if !remain.isEmpty() && !remain.startsWith(whitespace) {
		s, _ := remain.consumeUntil(whitespace)
		return errorFor(remain, "invalid label '%s%s'", name.str, s.str)
	}

	prog.Lines = append(prog.Lines, &ast.LabelDef{Row: name.row, Name: name.str})

	remain = remain.consumeWhitespace()
	if remain.isEmpty() {
		return nil
	}
	return parseConstruct(prog, remain)
}

func parseConstant(prog *ast.Program, name fstring, line fstring) error {
	e, remain, err := parseExpr(line, allowParens)
	if err != nil {
		return err
	}
	if !remain.consumeWhitespace().isEmpty() {
		return errorFor(remain, "unexpected text after constant definition")
	}
	prog.Lines = append(prog.Lines, &ast.ConstantDef{Row: name.row, Name: name.str, Expr: e})
	return nil
}

// parseConstruct handles the directive or instruction portion of a
// line.
func parseConstruct(prog *ast.Program, line fstring) error {
	word, remain := line.consumeWhile(wordChar)
	if word.startsWithChar('.') {
		return parseDirective(prog, word, remain.consumeWhitespace())
	}
	return parseInstruction(prog, word, remain.consumeWhitespace())
}

func parseDirective(prog *ast.Program, word, line fstring) error {
	kind, err := directives.FindValue(strings.ToLower(word.str[1:]))
	if err != nil {
		return errorFor(word, "unknown directive '%s'", word.str)
	}

	d := &ast.Directive{Row: word.row, Kind: kind}
	switch kind {
	case ast.Org:
		e, remain, err := parseExpr(line, allowParens)
		if err != nil {
			return err
		}
		if !remain.consumeWhitespace().isEmpty() {
			return errorFor(remain, "unexpected text after %s", kind)
		}
		d.Args = []ast.Expr{e}

	case ast.Byte, ast.Word:
		if line.isEmpty() {
			return errorFor(line, "%s requires at least one argument", kind)
		}
		remain := line
		for !remain.isEmpty() {
			var arg fstring
			arg, remain = remain.consumeUntilUnquotedChar(',')
			if !remain.isEmpty() {
				remain = remain.consume(1).consumeWhitespace()
				if remain.isEmpty() {
					return errorFor(remain, "trailing comma in %s", kind)
				}
			}
			// A quoted string in .byte contributes one argument per
			// character. Single quotes stay with the expression parser
			// so char arithmetic like 'A'+1 keeps working.
			if kind == ast.Byte && arg.startsWithChar('"') {
				s, err := parseString(arg)
				if err != nil {
					return err
				}
				for i := 0; i < len(s); i++ {
					d.Args = append(d.Args, &ast.Number{Value: uint16(s[i])})
				}
				continue
			}
			e, rest, err := parseExpr(arg, allowParens)
			if err != nil {
				return err
			}
			if !rest.consumeWhitespace().isEmpty() {
				return errorFor(rest, "malformed %s argument", kind)
			}
			d.Args = append(d.Args, e)
		}

	case ast.Text:
		s, err := parseString(line)
		if err != nil {
			return err
		}
		d.Str = s
	}

	prog.Lines = append(prog.Lines, d)
	return nil
}

func parseString(line fstring) (string, error) {
	if !line.startsWith(stringQuote) {
		return "", errorFor(line, "expected quoted string")
	}
	quote := line.str[0]
	line = line.consume(1)
	s, remain := line.consumeUntilChar(quote)
	if remain.isEmpty() {
		return "", errorFor(line, "unterminated string")
	}
	remain = remain.consume(1).consumeWhitespace()
	if !remain.isEmpty() {
		return "", errorFor(remain, "unexpected text after string")
	}
	return s.str, nil
}

func parseInstruction(prog *ast.Program, word, line fstring) error {
	if word.isEmpty() {
		return errorFor(line, "expected instruction")
	}
	variants := inst.Variants(word.str)
	if variants == nil {
		return errorFor(word, "invalid mnemonic '%s'", word.str)
	}

	operand, err := parseOperand(word.str, line)
	if err != nil {
		return err
	}

	prog.Lines = append(prog.Lines, &ast.Instruction{
		Row:      word.row,
		Mnemonic: strings.ToUpper(word.str),
		Operand:  operand,
	})
	return nil
}

// parseOperand classifies the syntactic addressing-mode shape of an
// operand. Zero-page vs. absolute is left to the resolver.
func parseOperand(mnemonic string, line fstring) (ast.Operand, error) {
	switch {
	case line.isEmpty():
		return &ast.Implied{}, nil

	case line.startsWithChar('#'):
		e, remain, err := parseExpr(line.consume(1), allowParens)
		if err != nil {
			return nil, err
		}
		if !remain.consumeWhitespace().isEmpty() {
			return nil, errorFor(remain, "unexpected text after operand")
		}
		return &ast.Immediate{Expr: e}, nil

	case line.startsWithChar('('):
		return parseIndirect(line.consume(1))

	default:
		// "ASL A" style accumulator operands.
		if len(line.str) == 1 && (line.str[0] == 'A' || line.str[0] == 'a') {
			if _, acc := inst.Lookup(mnemonic, inst.ACC); acc {
				return &ast.Implied{}, nil
			}
		}
		return parseAbsolute(line)
	}
}

// parseIndirect consumes an operand that started with '(' and selects
// among the three indirect shapes.
func parseIndirect(line fstring) (ast.Operand, error) {
	expr, remain := line.consumeUntil(func(c byte) bool { return c == ',' || c == ')' })

	e, rest, err := parseExpr(expr, 0)
	if err != nil {
		return nil, err
	}
	if !rest.consumeWhitespace().isEmpty() {
		return nil, errorFor(rest, "unexpected text in operand")
	}

	var o ast.Operand
	switch {
	case remain.startsWithString(",X)") || remain.startsWithString(",x)"):
		o, remain = &ast.IndirectX{Expr: e}, remain.consume(3)
	case remain.startsWithString("),Y") || remain.startsWithString("),y"):
		o, remain = &ast.IndirectY{Expr: e}, remain.consume(3)
	case remain.startsWithChar(')'):
		o, remain = &ast.Indirect{Expr: e}, remain.consume(1)
	default:
		return nil, errorFor(remain, "unknown addressing mode format")
	}

	if !remain.consumeWhitespace().isEmpty() {
		return nil, errorFor(remain, "unexpected text after operand")
	}
	return o, nil
}

// parseAbsolute consumes a plain or indexed operand expression.
func parseAbsolute(line fstring) (ast.Operand, error) {
	expr, remain := line.consumeUntilChar(',')

	e, rest, err := parseExpr(expr, 0)
	if err != nil {
		return nil, err
	}
	if !rest.consumeWhitespace().isEmpty() {
		return nil, errorFor(rest, "unexpected text in operand")
	}

	var o ast.Operand
	switch {
	case remain.startsWithString(",X") || remain.startsWithString(",x"):
		o, remain = &ast.AbsoluteX{Expr: e}, remain.consume(2)
	case remain.startsWithString(",Y") || remain.startsWithString(",y"):
		o, remain = &ast.AbsoluteY{Expr: e}, remain.consume(2)
	default:
		o = &ast.Absolute{Expr: e}
	}

	if !remain.consumeWhitespace().isEmpty() {
		return nil, errorFor(remain, "unexpected text after operand")
	}
	return o, nil
}
