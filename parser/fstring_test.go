// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parser

import "testing"

func TestFstringChainedPredicates(t *testing.T) {
	l := newFstring(1, "  lda #1")

	// Predicates must be callable on intermediate values returned by
	// the consume helpers.
	if l.consumeWhitespace().isEmpty() {
		t.Error("consumeWhitespace().isEmpty(): got true")
	}
	if !l.consume(2).startsWithString("lda") {
		t.Error("consume(2).startsWithString(lda): got false")
	}
	if !newFstring(1, "   ").consumeWhitespace().isEmpty() {
		t.Error("all-whitespace line not empty after consumeWhitespace")
	}
	if !l.consumeWhitespace().startsWith(labelStartChar) {
		t.Error("startsWith(labelStartChar): got false")
	}
	if l.consumeWhitespace().startsWithChar('#') {
		t.Error("startsWithChar('#'): got true")
	}
}

func TestFstringColumns(t *testing.T) {
	l := newFstring(3, "\tlda #1")
	rest := l.consumeWhitespace()
	if rest.row != 3 {
		t.Errorf("row: got %d, exp 3", rest.row)
	}
	if rest.column != 8 {
		t.Errorf("column after tab: got %d, exp 8", rest.column)
	}
}
