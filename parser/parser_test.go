// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"testing"

	"github.com/jkorinth/rusm64/ast"
)

func parseLines(t *testing.T, src string) []ast.Line {
	t.Helper()
	prog, err := ParseString(src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return prog.Lines
}

func constant(t *testing.T, src string) *ast.ConstantDef {
	t.Helper()
	lines := parseLines(t, src)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, exp 1", len(lines))
	}
	c, ok := lines[0].(*ast.ConstantDef)
	if !ok {
		t.Fatalf("got %T, exp *ast.ConstantDef", lines[0])
	}
	return c
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want uint16
	}{
		{"v = 49152", 49152},
		{"v = $c000", 0xc000},
		{"v = $C000", 0xc000},
		{"v = %00000001", 1},
		{"v = %1111111111111111", 0xffff},
		{"v = 'A'", 65},
		{"v = 0", 0},
		{"v = $ffff", 0xffff},
	}
	for _, tt := range tests {
		c := constant(t, tt.src)
		n, ok := c.Expr.(*ast.Number)
		if !ok {
			t.Errorf("%s: got %T, exp *ast.Number", tt.src, c.Expr)
			continue
		}
		if n.Value != tt.want {
			t.Errorf("%s: got %d, exp %d", tt.src, n.Value, tt.want)
		}
	}
}

func TestNumberOutOfRange(t *testing.T) {
	if _, err := ParseString("v = 65536"); err == nil {
		t.Error("expected error on 65536, didn't get one")
	}
	if _, err := ParseString("v = $10000"); err == nil {
		t.Error("expected error on $10000, didn't get one")
	}
}

func TestOperandShapes(t *testing.T) {
	tests := []struct {
		src   string
		shape ast.Operand
	}{
		{" lda #$10", &ast.Immediate{}},
		{" lda $10", &ast.Absolute{}},
		{" lda $1000", &ast.Absolute{}},
		{" lda $1000,X", &ast.AbsoluteX{}},
		{" lda $1000,y", &ast.AbsoluteY{}},
		{" jmp ($1234)", &ast.Indirect{}},
		{" lda ($20,X)", &ast.IndirectX{}},
		{" lda ($20),Y", &ast.IndirectY{}},
		{" rts", &ast.Implied{}},
		{" asl a", &ast.Implied{}},
		{" asl", &ast.Implied{}},
		{" bne target", &ast.Absolute{}},
	}
	for _, tt := range tests {
		lines := parseLines(t, tt.src)
		in, ok := lines[0].(*ast.Instruction)
		if !ok {
			t.Errorf("%s: got %T, exp *ast.Instruction", tt.src, lines[0])
			continue
		}
		if got, exp := fmt.Sprintf("%T", in.Operand), fmt.Sprintf("%T", tt.shape); got != exp {
			t.Errorf("%s: got %s, exp %s", tt.src, got, exp)
		}
	}
}

func TestMnemonicCase(t *testing.T) {
	for _, src := range []string{" lda #1", " LDA #1", " Lda #1"} {
		lines := parseLines(t, src)
		in := lines[0].(*ast.Instruction)
		if in.Mnemonic != "LDA" {
			t.Errorf("%s: got mnemonic '%s', exp 'LDA'", src, in.Mnemonic)
		}
	}
}

func TestLabels(t *testing.T) {
	lines := parseLines(t, "start:\nloop lda #1\n_done2:")

	l0, ok := lines[0].(*ast.LabelDef)
	if !ok || l0.Name != "start" || l0.Row != 1 {
		t.Errorf("line 1: got %#v", lines[0])
	}

	l1, ok := lines[1].(*ast.LabelDef)
	if !ok || l1.Name != "loop" {
		t.Errorf("line 2: got %#v", lines[1])
	}
	in, ok := lines[2].(*ast.Instruction)
	if !ok || in.Mnemonic != "LDA" || in.Row != 2 {
		t.Errorf("line 2 instruction: got %#v", lines[2])
	}

	l2, ok := lines[3].(*ast.LabelDef)
	if !ok || l2.Name != "_done2" {
		t.Errorf("line 3: got %#v", lines[3])
	}
}

func TestComments(t *testing.T) {
	lines := parseLines(t, "; full line comment\n lda #1 ; trailing\n")
	if _, ok := lines[0].(*ast.Empty); !ok {
		t.Errorf("line 1: got %T, exp *ast.Empty", lines[0])
	}
	if _, ok := lines[1].(*ast.Instruction); !ok {
		t.Errorf("line 2: got %T, exp *ast.Instruction", lines[1])
	}
}

func TestQuotedSemicolon(t *testing.T) {
	lines := parseLines(t, ` .text "a;b"`)
	d := lines[0].(*ast.Directive)
	if d.Str != "a;b" {
		t.Errorf("got %q, exp \"a;b\"", d.Str)
	}
}

func TestPrecedence(t *testing.T) {
	c := constant(t, "v = 2+3*4")
	b, ok := c.Expr.(*ast.Binary)
	if !ok || b.Op != ast.Add {
		t.Fatalf("got %s, exp addition at root", c.Expr)
	}
	r, ok := b.R.(*ast.Binary)
	if !ok || r.Op != ast.Mul {
		t.Fatalf("got %s, exp multiplication on the right", c.Expr)
	}
	if c.Expr.String() != "2+3*4" {
		t.Errorf("got '%s', exp '2+3*4'", c.Expr)
	}
}

func TestLeftAssociativity(t *testing.T) {
	c := constant(t, "v = 8-4-2")
	b := c.Expr.(*ast.Binary)
	if _, ok := b.L.(*ast.Binary); !ok {
		t.Errorf("got %s, exp left-nested subtraction", c.Expr)
	}
}

func TestParenGrouping(t *testing.T) {
	c := constant(t, "v = (2+3)*4")
	b, ok := c.Expr.(*ast.Binary)
	if !ok || b.Op != ast.Mul {
		t.Fatalf("got %s, exp multiplication at root", c.Expr)
	}
	if _, ok := b.L.(*ast.Paren); !ok {
		t.Errorf("got %s, exp parenthesized left operand", c.Expr)
	}
}

func TestLowHighBindLoosest(t *testing.T) {
	c := constant(t, "v = <$1234+1")
	lo, ok := c.Expr.(*ast.LowByte)
	if !ok {
		t.Fatalf("got %T, exp *ast.LowByte", c.Expr)
	}
	if _, ok := lo.Expr.(*ast.Binary); !ok {
		t.Errorf("got %s, exp low byte of the whole sum", c.Expr)
	}

	c = constant(t, "v = >label+1")
	if _, ok := c.Expr.(*ast.HighByte); !ok {
		t.Fatalf("got %T, exp *ast.HighByte", c.Expr)
	}
}

func TestDirectives(t *testing.T) {
	lines := parseLines(t, `
 .org $c000
 .byte 1, 2, $ff
 .word $1234
 .text "HELLO"`)

	d1 := lines[1].(*ast.Directive)
	if d1.Kind != ast.Org || len(d1.Args) != 1 {
		t.Errorf(".org: got %#v", d1)
	}
	d2 := lines[2].(*ast.Directive)
	if d2.Kind != ast.Byte || len(d2.Args) != 3 {
		t.Errorf(".byte: got %#v", d2)
	}
	d3 := lines[3].(*ast.Directive)
	if d3.Kind != ast.Word || len(d3.Args) != 1 {
		t.Errorf(".word: got %#v", d3)
	}
	d4 := lines[4].(*ast.Directive)
	if d4.Kind != ast.Text || d4.Str != "HELLO" {
		t.Errorf(".text: got %#v", d4)
	}
}

func TestDirectiveAbbreviations(t *testing.T) {
	tests := []struct {
		src  string
		kind ast.DirectiveKind
	}{
		{" .by 1", ast.Byte},
		{" .db 1", ast.Byte},
		{" .w 1", ast.Word},
		{" .dw 1", ast.Word},
		{" .o $c000", ast.Org},
		{" .ascii \"x\"", ast.Text},
		{" .BYTE 1", ast.Byte},
	}
	for _, tt := range tests {
		lines := parseLines(t, tt.src)
		d, ok := lines[0].(*ast.Directive)
		if !ok {
			t.Errorf("%s: got %T, exp *ast.Directive", tt.src, lines[0])
			continue
		}
		if d.Kind != tt.kind {
			t.Errorf("%s: got %s, exp %s", tt.src, d.Kind, tt.kind)
		}
	}
}

func TestByteStringExpansion(t *testing.T) {
	lines := parseLines(t, ` .byte "Hi", 0`)
	d := lines[0].(*ast.Directive)
	if len(d.Args) != 3 {
		t.Fatalf("got %d args, exp 3", len(d.Args))
	}
	for i, want := range []uint16{'H', 'i', 0} {
		n, ok := d.Args[i].(*ast.Number)
		if !ok || n.Value != want {
			t.Errorf("arg %d: got %s, exp %d", i, d.Args[i], want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src string
		row int
	}{
		{" xyz #1", 1},
		{" lda #$12 garbage", 1},
		{" lda ($20,Y)", 1},
		{" .byte", 1},
		{" .byte 1,", 1},
		{" .foo 1", 1},
		{" lda %", 1},
		{" lda 'A", 1},
		{"1abc = 5", 1},
		{" .text \"abc", 1},
		{" .text nope", 1},
		{"v = 1+", 1},
		{"v = (1+2", 1},
		{" nop\n jmp ($1234", 2},
	}
	for _, tt := range tests {
		_, err := ParseString(tt.src)
		if err == nil {
			t.Errorf("%q: expected error, didn't get one", tt.src)
			continue
		}
		pe, ok := err.(*Error)
		if !ok {
			t.Errorf("%q: got %T, exp *Error", tt.src, err)
			continue
		}
		if pe.Row != tt.row {
			t.Errorf("%q: got row %d, exp %d", tt.src, pe.Row, tt.row)
		}
	}
}

func TestConstantRejectsTrailer(t *testing.T) {
	if _, err := ParseString("v = 1 2"); err == nil {
		t.Error("expected error, didn't get one")
	}
}

func TestEmptyLines(t *testing.T) {
	lines := parseLines(t, "\n\n nop\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, exp 3", len(lines))
	}
	for i := 0; i < 2; i++ {
		if _, ok := lines[i].(*ast.Empty); !ok {
			t.Errorf("line %d: got %T, exp *ast.Empty", i+1, lines[i])
		}
	}
}
