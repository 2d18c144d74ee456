// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"errors"
	"testing"

	"github.com/jkorinth/rusm64/ast"
)

func num(v uint16) ast.Expr {
	return &ast.Number{Value: v}
}

func bin(op ast.BinOp, l, r ast.Expr) ast.Expr {
	return &ast.Binary{Op: op, L: l, R: r}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		expr ast.Expr
		want uint16
	}{
		{num(0x1234), 0x1234},
		{bin(ast.Add, num(2), num(3)), 5},
		{bin(ast.Sub, num(0), num(1)), 0xffff},
		{bin(ast.Mul, num(300), num(300)), 24464},
		{bin(ast.Div, num(10), num(3)), 3},
		{bin(ast.Add, num(2), bin(ast.Mul, num(3), num(4))), 14},
		{&ast.LowByte{Expr: num(0x1234)}, 0x34},
		{&ast.HighByte{Expr: num(0x1234)}, 0x12},
		{&ast.HighByte{Expr: num(0x00ff)}, 0},
		{&ast.LowByte{Expr: bin(ast.Add, num(0x12ff), num(1))}, 0},
		{&ast.Paren{Expr: bin(ast.Add, num(1), num(1))}, 2},
	}

	syms := newSymtab()
	for _, tt := range tests {
		v, missing, err := eval(tt.expr, syms, 1)
		if err != nil {
			t.Errorf("%s: %v", tt.expr, err)
			continue
		}
		if missing != "" {
			t.Errorf("%s: unexpected missing symbol '%s'", tt.expr, missing)
			continue
		}
		if v != tt.want {
			t.Errorf("%s: got %d, exp %d", tt.expr, v, tt.want)
		}
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	syms := newSymtab()
	_, _, err := eval(bin(ast.Div, num(1), num(0)), syms, 4)
	if !errors.Is(err, ErrMalformedExpression) {
		t.Errorf("got %v, exp %v", err, ErrMalformedExpression)
	}
	var ae *Error
	if errors.As(err, &ae) && ae.Row != 4 {
		t.Errorf("row: got %d, exp 4", ae.Row)
	}
}

func TestEvalMissingSymbol(t *testing.T) {
	syms := newSymtab()
	e := bin(ast.Add, &ast.Ident{Name: "base"}, num(1))

	_, missing, err := eval(e, syms, 1)
	if err != nil {
		t.Fatal(err)
	}
	if missing != "base" {
		t.Errorf("missing: got '%s', exp 'base'", missing)
	}

	if err := syms.define("base", ConstantSymbol, 0x0400, 1); err != nil {
		t.Fatal(err)
	}
	v, missing, err := eval(e, syms, 1)
	if err != nil || missing != "" {
		t.Fatalf("missing '%s', err %v", missing, err)
	}
	if v != 0x0401 {
		t.Errorf("got $%04X, exp $0401", v)
	}
}

func TestEvalFinalUndefined(t *testing.T) {
	syms := newSymtab()
	_, err := evalFinal(&ast.Ident{Name: "gone"}, syms, 7, ErrUndefinedLabel)
	if !errors.Is(err, ErrUndefinedLabel) {
		t.Errorf("got %v, exp %v", err, ErrUndefinedLabel)
	}
}

func TestSymtabDuplicate(t *testing.T) {
	syms := newSymtab()
	if err := syms.define("x", LabelSymbol, 1, 1); err != nil {
		t.Fatal(err)
	}
	err := syms.define("x", ConstantSymbol, 2, 5)
	if !errors.Is(err, ErrDuplicateSymbol) {
		t.Errorf("got %v, exp %v", err, ErrDuplicateSymbol)
	}
}

func TestRelOffset(t *testing.T) {
	tests := []struct {
		target, next int
		offset       byte
		ok           bool
	}{
		{0x1002, 0x1002, 0x00, true},
		{0x1003, 0x1002, 0x01, true},
		{0x1081, 0x1002, 0x7f, true},
		{0x1082, 0x1002, 0x00, false},
		{0x1000, 0x1002, 0xfe, true},
		{0x0f82, 0x1002, 0x80, true},
		{0x0f81, 0x1002, 0x00, false},
	}
	for _, tt := range tests {
		offset, ok := relOffset(tt.target, tt.next)
		if ok != tt.ok || offset != tt.offset {
			t.Errorf("relOffset($%04X, $%04X): got ($%02X, %v), exp ($%02X, %v)",
				tt.target, tt.next, offset, ok, tt.offset, tt.ok)
		}
	}
}
