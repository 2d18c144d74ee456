// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// SymbolKind distinguishes resolver-assigned label addresses from
// user-defined constants. Both share one namespace.
type SymbolKind byte

const (
	LabelSymbol SymbolKind = iota
	ConstantSymbol
)

func (k SymbolKind) String() string {
	if k == LabelSymbol {
		return "label"
	}
	return "constant"
}

type symbol struct {
	kind  SymbolKind
	value uint16
}

// A symtab is the single authoritative name → value table. It has one
// writer (the resolver) and is frozen once pass 2 completes; every
// later reader sees an immutable table.
type symtab struct {
	entries map[string]symbol
	frozen  bool
}

func newSymtab() *symtab {
	return &symtab{entries: make(map[string]symbol)}
}

// define inserts a symbol, rejecting any redefinition regardless of
// value.
func (t *symtab) define(name string, kind SymbolKind, value uint16, row int) error {
	if t.frozen {
		panic("symbol table written after freeze")
	}
	if prev, ok := t.entries[name]; ok {
		return errorf(ErrDuplicateSymbol, row, "%s '%s' already defined as a %s", kind, name, prev.kind)
	}
	t.entries[name] = symbol{kind: kind, value: value}
	return nil
}

func (t *symtab) lookup(name string) (uint16, bool) {
	s, ok := t.entries[name]
	return s.value, ok
}

// freeze ends the write phase.
func (t *symtab) freeze() {
	t.frozen = true
}
