// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inst holds the documented NMOS 6502 instruction table: every
// valid (mnemonic, addressing mode) pair and its opcode byte. The
// encoder treats the table as the single source of truth; a pair
// absent from it is not a 6502 instruction.
package inst

import "strings"

// Mode describes a memory addressing mode.
type Mode byte

// All 6502 addressing modes.
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (no operand)
	REL             // Relative
	ZPG             // Zero Page
	ZPX             // Zero Page,X
	ZPY             // Zero Page,Y
	ABS             // Absolute
	ABX             // Absolute,X
	ABY             // Absolute,Y
	IND             // (Indirect)
	IDX             // (Indirect,X)
	IDY             // (Indirect),Y
	ACC             // Accumulator (no operand)
)

var modeNames = []string{
	"immediate",
	"implied",
	"relative",
	"zero-page",
	"zero-page,X",
	"zero-page,Y",
	"absolute",
	"absolute,X",
	"absolute,Y",
	"(indirect)",
	"(indirect,X)",
	"(indirect),Y",
	"accumulator",
}

func (m Mode) String() string {
	return modeNames[m]
}

// An Instruction describes one opcode: its mnemonic, addressing mode,
// opcode byte, and total encoded length (opcode plus operand).
type Instruction struct {
	Name   string
	Mode   Mode
	Opcode byte
	Length byte
}

// operandLength gives the operand byte count for each mode.
var operandLength = [...]byte{
	IMM: 1,
	IMP: 0,
	REL: 1,
	ZPG: 1,
	ZPX: 1,
	ZPY: 1,
	ABS: 2,
	ABX: 2,
	ABY: 2,
	IND: 2,
	IDX: 1,
	IDY: 1,
	ACC: 0,
}

type row struct {
	name   string
	mode   Mode
	opcode byte
}

// The documented NMOS 6502 opcode table.
var table = []row{
	{"LDA", IMM, 0xa9},
	{"LDA", ZPG, 0xa5},
	{"LDA", ZPX, 0xb5},
	{"LDA", ABS, 0xad},
	{"LDA", ABX, 0xbd},
	{"LDA", ABY, 0xb9},
	{"LDA", IDX, 0xa1},
	{"LDA", IDY, 0xb1},

	{"LDX", IMM, 0xa2},
	{"LDX", ZPG, 0xa6},
	{"LDX", ZPY, 0xb6},
	{"LDX", ABS, 0xae},
	{"LDX", ABY, 0xbe},

	{"LDY", IMM, 0xa0},
	{"LDY", ZPG, 0xa4},
	{"LDY", ZPX, 0xb4},
	{"LDY", ABS, 0xac},
	{"LDY", ABX, 0xbc},

	{"STA", ZPG, 0x85},
	{"STA", ZPX, 0x95},
	{"STA", ABS, 0x8d},
	{"STA", ABX, 0x9d},
	{"STA", ABY, 0x99},
	{"STA", IDX, 0x81},
	{"STA", IDY, 0x91},

	{"STX", ZPG, 0x86},
	{"STX", ZPY, 0x96},
	{"STX", ABS, 0x8e},

	{"STY", ZPG, 0x84},
	{"STY", ZPX, 0x94},
	{"STY", ABS, 0x8c},

	{"ADC", IMM, 0x69},
	{"ADC", ZPG, 0x65},
	{"ADC", ZPX, 0x75},
	{"ADC", ABS, 0x6d},
	{"ADC", ABX, 0x7d},
	{"ADC", ABY, 0x79},
	{"ADC", IDX, 0x61},
	{"ADC", IDY, 0x71},

	{"SBC", IMM, 0xe9},
	{"SBC", ZPG, 0xe5},
	{"SBC", ZPX, 0xf5},
	{"SBC", ABS, 0xed},
	{"SBC", ABX, 0xfd},
	{"SBC", ABY, 0xf9},
	{"SBC", IDX, 0xe1},
	{"SBC", IDY, 0xf1},

	{"CMP", IMM, 0xc9},
	{"CMP", ZPG, 0xc5},
	{"CMP", ZPX, 0xd5},
	{"CMP", ABS, 0xcd},
	{"CMP", ABX, 0xdd},
	{"CMP", ABY, 0xd9},
	{"CMP", IDX, 0xc1},
	{"CMP", IDY, 0xd1},

	{"CPX", IMM, 0xe0},
	{"CPX", ZPG, 0xe4},
	{"CPX", ABS, 0xec},

	{"CPY", IMM, 0xc0},
	{"CPY", ZPG, 0xc4},
	{"CPY", ABS, 0xcc},

	{"BIT", ZPG, 0x24},
	{"BIT", ABS, 0x2c},

	{"AND", IMM, 0x29},
	{"AND", ZPG, 0x25},
	{"AND", ZPX, 0x35},
	{"AND", ABS, 0x2d},
	{"AND", ABX, 0x3d},
	{"AND", ABY, 0x39},
	{"AND", IDX, 0x21},
	{"AND", IDY, 0x31},

	{"ORA", IMM, 0x09},
	{"ORA", ZPG, 0x05},
	{"ORA", ZPX, 0x15},
	{"ORA", ABS, 0x0d},
	{"ORA", ABX, 0x1d},
	{"ORA", ABY, 0x19},
	{"ORA", IDX, 0x01},
	{"ORA", IDY, 0x11},

	{"EOR", IMM, 0x49},
	{"EOR", ZPG, 0x45},
	{"EOR", ZPX, 0x55},
	{"EOR", ABS, 0x4d},
	{"EOR", ABX, 0x5d},
	{"EOR", ABY, 0x59},
	{"EOR", IDX, 0x41},
	{"EOR", IDY, 0x51},

	{"INC", ZPG, 0xe6},
	{"INC", ZPX, 0xf6},
	{"INC", ABS, 0xee},
	{"INC", ABX, 0xfe},

	{"DEC", ZPG, 0xc6},
	{"DEC", ZPX, 0xd6},
	{"DEC", ABS, 0xce},
	{"DEC", ABX, 0xde},

	{"INX", IMP, 0xe8},
	{"INY", IMP, 0xc8},
	{"DEX", IMP, 0xca},
	{"DEY", IMP, 0x88},

	{"ASL", ACC, 0x0a},
	{"ASL", ZPG, 0x06},
	{"ASL", ZPX, 0x16},
	{"ASL", ABS, 0x0e},
	{"ASL", ABX, 0x1e},

	{"LSR", ACC, 0x4a},
	{"LSR", ZPG, 0x46},
	{"LSR", ZPX, 0x56},
	{"LSR", ABS, 0x4e},
	{"LSR", ABX, 0x5e},

	{"ROL", ACC, 0x2a},
	{"ROL", ZPG, 0x26},
	{"ROL", ZPX, 0x36},
	{"ROL", ABS, 0x2e},
	{"ROL", ABX, 0x3e},

	{"ROR", ACC, 0x6a},
	{"ROR", ZPG, 0x66},
	{"ROR", ZPX, 0x76},
	{"ROR", ABS, 0x6e},
	{"ROR", ABX, 0x7e},

	{"JMP", ABS, 0x4c},
	{"JMP", IND, 0x6c},
	{"JSR", ABS, 0x20},
	{"RTS", IMP, 0x60},
	{"RTI", IMP, 0x40},
	{"BRK", IMP, 0x00},

	{"BCC", REL, 0x90},
	{"BCS", REL, 0xb0},
	{"BEQ", REL, 0xf0},
	{"BNE", REL, 0xd0},
	{"BMI", REL, 0x30},
	{"BPL", REL, 0x10},
	{"BVC", REL, 0x50},
	{"BVS", REL, 0x70},

	{"CLC", IMP, 0x18},
	{"SEC", IMP, 0x38},
	{"CLI", IMP, 0x58},
	{"SEI", IMP, 0x78},
	{"CLD", IMP, 0xd8},
	{"SED", IMP, 0xf8},
	{"CLV", IMP, 0xb8},

	{"TAX", IMP, 0xaa},
	{"TXA", IMP, 0x8a},
	{"TAY", IMP, 0xa8},
	{"TYA", IMP, 0x98},
	{"TXS", IMP, 0x9a},
	{"TSX", IMP, 0xba},

	{"PHA", IMP, 0x48},
	{"PLA", IMP, 0x68},
	{"PHP", IMP, 0x08},
	{"PLP", IMP, 0x28},

	{"NOP", IMP, 0xea},
}

type key struct {
	name string
	mode Mode
}

var (
	byKey    map[key]*Instruction
	variants map[string][]*Instruction
)

var branches = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BNE": true,
	"BMI": true, "BPL": true, "BVC": true, "BVS": true,
}

func init() {
	byKey = make(map[key]*Instruction, len(table))
	variants = make(map[string][]*Instruction)
	for _, r := range table {
		in := &Instruction{
			Name:   r.name,
			Mode:   r.mode,
			Opcode: r.opcode,
			Length: 1 + operandLength[r.mode],
		}
		k := key{r.name, r.mode}
		if _, dup := byKey[k]; dup {
			panic("duplicate instruction table entry: " + r.name)
		}
		byKey[k] = in
		variants[r.name] = append(variants[r.name], in)
	}
}

// Lookup returns the instruction for a (mnemonic, mode) pair, or false
// if the pair is not part of the documented 6502 set. The mnemonic
// matches case-insensitively.
func Lookup(name string, mode Mode) (*Instruction, bool) {
	in, ok := byKey[key{strings.ToUpper(name), mode}]
	return in, ok
}

// Variants returns every valid addressing-mode variant of a mnemonic,
// or nil for an unknown mnemonic.
func Variants(name string) []*Instruction {
	return variants[strings.ToUpper(name)]
}

// IsBranch reports whether the mnemonic is one of the eight
// relative-branch instructions.
func IsBranch(name string) bool {
	return branches[strings.ToUpper(name)]
}
