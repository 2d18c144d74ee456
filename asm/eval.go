// Copyright 2025 Jens Korinth. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"github.com/jkorinth/rusm64/ast"
)

// eval evaluates an expression tree against the symbol table using
// 16-bit wraparound arithmetic. When an identifier is not yet defined,
// eval reports its name in missing and returns a zero value; the
// caller decides whether that defers the expression (pass 1) or is
// fatal (pass 2). Structural faults — division by zero, an unknown
// node type — are returned as errors.
func eval(e ast.Expr, syms *symtab, row int) (v uint16, missing string, err error) {
	switch x := e.(type) {
	case *ast.Number:
		return x.Value, "", nil

	case *ast.Ident:
		v, ok := syms.lookup(x.Name)
		if !ok {
			return 0, x.Name, nil
		}
		return v, "", nil

	case *ast.LowByte:
		v, missing, err = eval(x.Expr, syms, row)
		return v & 0xff, missing, err

	case *ast.HighByte:
		v, missing, err = eval(x.Expr, syms, row)
		return v >> 8, missing, err

	case *ast.Paren:
		return eval(x.Expr, syms, row)

	case *ast.Binary:
		lv, lmiss, err := eval(x.L, syms, row)
		if err != nil {
			return 0, "", err
		}
		rv, rmiss, err := eval(x.R, syms, row)
		if err != nil {
			return 0, "", err
		}
		if lmiss != "" {
			return 0, lmiss, nil
		}
		if rmiss != "" {
			return 0, rmiss, nil
		}
		switch x.Op {
		case ast.Add:
			return lv + rv, "", nil
		case ast.Sub:
			return lv - rv, "", nil
		case ast.Mul:
			return lv * rv, "", nil
		case ast.Div:
			if rv == 0 {
				return 0, "", errorf(ErrMalformedExpression, row, "division by zero in expression")
			}
			return lv / rv, "", nil
		default:
			return 0, "", errorf(ErrMalformedExpression, row, "unknown operator in expression")
		}

	default:
		return 0, "", errorf(ErrMalformedExpression, row, "malformed expression node")
	}
}

// evalFinal evaluates an expression that must resolve completely. Any
// remaining undefined identifier is reported with the given error
// kind.
func evalFinal(e ast.Expr, syms *symtab, row int, kind error) (uint16, error) {
	v, missing, err := eval(e, syms, row)
	if err != nil {
		return 0, err
	}
	if missing != "" {
		return 0, errorf(kind, row, "symbol '%s' is not defined", missing)
	}
	return v, nil
}
