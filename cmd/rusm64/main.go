// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Rusm64 is a cross assembler for the Commodore 64. It reads 6502
// assembly source and produces a .prg file: the image's load address
// in little-endian order followed by the machine code.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jkorinth/rusm64/asm"
	"github.com/jkorinth/rusm64/ast"
	"github.com/jkorinth/rusm64/parser"
)

var rootCmd = &cobra.Command{
	Use:           "rusm64",
	Short:         "A 6502 cross assembler for the Commodore 64",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	outFile string
	verbose bool
)

var assembleCmd = &cobra.Command{
	Use:   "assemble sourceFile",
	Short: "Assemble a source file into a .prg program file",
	Long: `Assemble reads a 6502 assembly source file and writes a Commodore
.prg program file. The output begins with the two-byte load address
set by the .org directive (or $0000 when absent), followed by the
assembled machine code.

When no output file is given, the output name is the source name with
its extension replaced by .prg.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return assemble(args[0])
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse sourceFile",
	Short: "Parse a source file and dump its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prog, err := parseFile(args[0])
		if err != nil {
			return err
		}
		fmt.Print(prog.Dump())
		return nil
	},
}

func init() {
	assembleCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file name")
	assembleCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose assembly listing")
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(parseCmd)
}

func parseFile(name string) (*ast.Program, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.Parse(f)
}

func assemble(name string) error {
	prog, err := parseFile(name)
	if err != nil {
		return err
	}

	var options asm.Option
	if verbose {
		options |= asm.Verbose
	}
	img, err := asm.Assemble(prog, os.Stdout, options)
	if err != nil {
		return err
	}

	out := outFile
	if out == "" {
		out = strings.TrimSuffix(name, filepath.Ext(name)) + ".prg"
	}

	var buf bytes.Buffer
	buf.WriteByte(byte(img.Origin))
	buf.WriteByte(byte(img.Origin >> 8))
	if _, err := img.WriteTo(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}

	if verbose {
		dump(img)
	}
	fmt.Printf("Wrote %s: %d bytes at $%04X.\n", out, len(img.Code), img.Origin)
	return nil
}

// dump prints the assembled image 16 bytes per row, each row prefixed
// with its load address.
func dump(img *asm.Image) {
	for i, n := 0, len(img.Code); i < n; i += 16 {
		j := i + 16
		if j > n {
			j = n
		}
		fmt.Printf("%04X:", int(img.Origin)+i)
		for _, b := range img.Code[i:j] {
			fmt.Printf(" %02X", b)
		}
		fmt.Println()
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
