// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"strconv"

	"github.com/jkorinth/rusm64/ast"
)

// Operator tokens recognized inside expressions. The pseudo-operator
// opLeftParen exists only on the parsing stack.
type exprOp byte

const (
	opMultiply exprOp = iota
	opDivide
	opAdd
	opSubtract
	opLeftParen
)

type opdata struct {
	precedence byte
	symbol     string
	binop      ast.BinOp
}

var ops = []opdata{
	{2, "*", ast.Mul},
	{2, "/", ast.Div},
	{1, "+", ast.Add},
	{1, "-", ast.Sub},
	{0, "", 0}, // lparen
}

// collapses reports whether the shunting-yard algorithm should reduce
// the stacked operator 'other' before pushing 'op'. All binary
// operators are left-associative.
func (op exprOp) collapses(other exprOp) bool {
	return ops[op].precedence <= ops[other].precedence
}

type exprFlags uint

const (
	// allowParens permits parenthesized groups. Operand expressions
	// disallow them because parentheses select indirect addressing.
	allowParens exprFlags = 1 << iota
)

type tokentype byte

const (
	tokenNil tokentype = iota
	tokenOp
	tokenValue
	tokenLeftParen
	tokenRightParen
)

type token struct {
	tt   tokentype
	op   exprOp
	expr ast.Expr
}

// An exprParser builds ast.Expr trees with Dijkstra's shunting-yard
// algorithm.
type exprParser struct {
	operands  []ast.Expr
	operators []exprOp
	flags     exprFlags
	parens    int
	prevToken token
}

// parseExpr consumes an expression from the start of the line and
// returns its tree along with the unconsumed remainder.
func parseExpr(line fstring, flags exprFlags) (ast.Expr, fstring, error) {
	line = line.consumeWhitespace()

	// The low/high-byte extraction operators bind loosest: they apply
	// to the entire remaining expression.
	switch {
	case line.startsWithChar('<'):
		e, remain, err := parseExpr(line.consume(1), flags)
		if err != nil {
			return nil, remain, err
		}
		return &ast.LowByte{Expr: e}, remain, nil
	case line.startsWithChar('>'):
		e, remain, err := parseExpr(line.consume(1), flags)
		if err != nil {
			return nil, remain, err
		}
		return &ast.HighByte{Expr: e}, remain, nil
	}

	p := exprParser{flags: flags}
	return p.parse(line)
}

func (p *exprParser) parse(line fstring) (ast.Expr, fstring, error) {
	var err error
	out := line
	for {
		var t token
		t, out, err = p.parseToken(out)
		if err != nil {
			return nil, out, err
		}
		if t.tt == tokenNil {
			break
		}

		switch t.tt {
		case tokenValue:
			p.operands = append(p.operands, t.expr)

		case tokenOp:
			for len(p.operators) > 0 && t.op.collapses(p.peekOp()) {
				if err = p.collapse(p.popOp()); err != nil {
					return nil, out, errorFor(line, "expression syntax error")
				}
			}
			p.operators = append(p.operators, t.op)

		case tokenLeftParen:
			p.operators = append(p.operators, opLeftParen)

		case tokenRightParen:
			for {
				if len(p.operators) == 0 {
					return nil, out, errorFor(line, "mismatched parentheses")
				}
				op := p.popOp()
				if op == opLeftParen {
					break
				}
				if err = p.collapse(op); err != nil {
					return nil, out, errorFor(line, "expression syntax error")
				}
			}
			if len(p.operands) == 0 {
				return nil, out, errorFor(line, "expression syntax error")
			}
			top := p.operands[len(p.operands)-1]
			p.operands[len(p.operands)-1] = &ast.Paren{Expr: top}
		}
	}

	for len(p.operators) > 0 {
		op := p.popOp()
		if op == opLeftParen {
			return nil, out, errorFor(line, "mismatched parentheses")
		}
		if err = p.collapse(op); err != nil {
			return nil, out, errorFor(line, "expression syntax error")
		}
	}

	if len(p.operands) != 1 {
		return nil, out, errorFor(line, "expression syntax error")
	}
	return p.operands[0], out, nil
}

func (p *exprParser) peekOp() exprOp {
	return p.operators[len(p.operators)-1]
}

func (p *exprParser) popOp() exprOp {
	op := p.operators[len(p.operators)-1]
	p.operators = p.operators[:len(p.operators)-1]
	return op
}

// collapse reduces the top two operand trees into one binary node.
func (p *exprParser) collapse(op exprOp) error {
	if op == opLeftParen || len(p.operands) < 2 {
		return errParse
	}
	r := p.operands[len(p.operands)-1]
	l := p.operands[len(p.operands)-2]
	p.operands = p.operands[:len(p.operands)-1]
	p.operands[len(p.operands)-1] = &ast.Binary{Op: ops[op].binop, L: l, R: r}
	return nil
}

func (p *exprParser) parseToken(line fstring) (t token, out fstring, err error) {
	if line.isEmpty() {
		t.tt, out = tokenNil, line
		return
	}

	switch {
	case line.startsWith(decimal) || line.startsWithChar('$') ||
		line.startsWithChar('%') || line.startsWithChar('\''):
		if p.prevToken.tt == tokenValue || p.prevToken.tt == tokenRightParen {
			return t, line, errorFor(line, "expression syntax error")
		}
		var v uint16
		v, out, err = parseNumber(line)
		if err != nil {
			return t, out, err
		}
		t.tt, t.expr = tokenValue, &ast.Number{Value: v}

	case line.startsWith(labelStartChar):
		if p.prevToken.tt == tokenValue || p.prevToken.tt == tokenRightParen {
			return t, line, errorFor(line, "expression syntax error")
		}
		var name fstring
		name, out = line.consumeWhile(labelChar)
		t.tt, t.expr = tokenValue, &ast.Ident{Name: name.str}

	case p.flags&allowParens != 0 && line.startsWithChar('('):
		p.parens++
		t.tt, out = tokenLeftParen, line.consume(1)

	case p.flags&allowParens != 0 && line.startsWithChar(')'):
		if p.parens == 0 {
			return t, line, errorFor(line, "mismatched parentheses")
		}
		p.parens--
		t.tt, out = tokenRightParen, line.consume(1)

	default:
		for i := opMultiply; i < opLeftParen; i++ {
			if line.startsWithString(ops[i].symbol) {
				t.tt, t.op = tokenOp, i
				out = line.consume(len(ops[i].symbol))
				break
			}
		}
		if t.tt != tokenOp {
			// Unrecognized character: end of expression.
			t.tt, out = tokenNil, line
			return
		}
	}

	p.prevToken = t
	out = out.consumeWhitespace()
	return
}

// parseNumber parses a numeric literal. Accepted formats:
//
//	[0-9]+        decimal
//	$[0-9a-fA-F]+ hexadecimal
//	%[01]+        binary
//	'c'           character
//
// Values must fit in 16 bits.
func parseNumber(line fstring) (value uint16, remain fstring, err error) {
	if line.startsWithChar('\'') {
		if len(line.str) < 3 || line.str[2] != '\'' {
			return 0, line, errorFor(line, "malformed character literal")
		}
		return uint16(line.str[1]), line.consume(3), nil
	}

	base, fn := 10, decimal
	switch {
	case line.startsWithChar('$'):
		line = line.consume(1)
		base, fn = 16, hexadecimal
	case line.startsWithChar('%'):
		line = line.consume(1)
		base, fn = 2, binarynum
	}

	numstr, remain := line.consumeWhile(fn)
	if numstr.isEmpty() {
		return 0, remain, errorFor(numstr, "malformed numeric literal")
	}

	v, converr := strconv.ParseUint(numstr.str, base, 16)
	if converr != nil {
		return 0, remain, errorFor(numstr, "numeric literal out of range")
	}
	return uint16(v), remain, nil
}
