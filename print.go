// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

import (
	"io"
	"strconv"
	"strings"
)

// Print returns the fully parenthesized form of e.
// Every binary operation wraps its operands in parentheses; the output
// parses back to a tree equal to e.
//
//	Print(Let("x", Num(5), Add(Var("x"), Num(1)))) == "(_let x=5 _in (x+1))"
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

// Fprint writes [Print] of e to w.
func Fprint(w io.Writer, e Expr) error {
	_, err := io.WriteString(w, Print(e))
	return err
}

func printExpr(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case *NumExpr:
		b.WriteString(strconv.FormatInt(x.N, 10))
	case *BoolExpr:
		b.WriteString(BoolVal(x.B).String())
	case *VarExpr:
		b.WriteString(x.Name)
	case *AddExpr:
		printBinary(b, x.LHS, "+", x.RHS)
	case *MultExpr:
		printBinary(b, x.LHS, "*", x.RHS)
	case *EqExpr:
		printBinary(b, x.LHS, "==", x.RHS)
	case *LetExpr:
		b.WriteString("(_let ")
		b.WriteString(x.Name)
		b.WriteString("=")
		printExpr(b, x.Bound)
		b.WriteString(" _in ")
		printExpr(b, x.Body)
		b.WriteString(")")
	case *IfExpr:
		b.WriteString("(_if ")
		printExpr(b, x.Test)
		b.WriteString(" _then ")
		printExpr(b, x.Then)
		b.WriteString(" _else ")
		printExpr(b, x.Else)
		b.WriteString(")")
	case *FunExpr:
		b.WriteString("(_fun (")
		b.WriteString(x.Param)
		b.WriteString(") ")
		printExpr(b, x.Body)
		b.WriteString(")")
	case *CallExpr:
		printExpr(b, x.Callee)
		b.WriteString("(")
		printExpr(b, x.Arg)
		b.WriteString(")")
	default:
		panic("msd: unknown expression type")
	}
}

func printBinary(b *strings.Builder, lhs Expr, op string, rhs Expr) {
	b.WriteString("(")
	printExpr(b, lhs)
	b.WriteString(op)
	printExpr(b, rhs)
	b.WriteString(")")
}

// Operator binding strength for pretty printing.
// Parenthesized positions demand a minimum strength from their operand.
const (
	precEq = 1 + iota
	precAdd
	precMult
	precAtom
)

// PrettyPrint returns e with minimal parentheses.
// Parentheses appear only where leaving them out would change the parsed
// tree. _let and _if print as blocks whose continuation lines (_in, _then,
// _else) align with the column where the keyword started:
//
//	5 * _let x = 5
//	    _in  x + 1
func PrettyPrint(e Expr) string {
	var p prettyPrinter
	p.print(e, precEq, false)
	return p.b.String()
}

// FprettyPrint writes [PrettyPrint] of e to w.
func FprettyPrint(w io.Writer, e Expr) error {
	_, err := io.WriteString(w, PrettyPrint(e))
	return err
}

// prettyPrinter tracks the start of the current output line so blocks can
// align their continuation lines with their opening keyword.
type prettyPrinter struct {
	b         strings.Builder
	lineStart int
}

func (p *prettyPrinter) column() int { return p.b.Len() - p.lineStart }

func (p *prettyPrinter) newline(indent int) {
	p.b.WriteByte('\n')
	p.lineStart = p.b.Len()
	p.b.WriteString(strings.Repeat(" ", indent))
}

// print writes e in a position that needs at least strength need.
// open reports whether more operator text follows e at the same level, in
// which case an open-ended form (_let, _if, _fun) must be parenthesized or
// it would swallow what follows.
func (p *prettyPrinter) print(e Expr, need int, open bool) {
	switch x := e.(type) {
	case *NumExpr:
		p.b.WriteString(strconv.FormatInt(x.N, 10))
	case *BoolExpr:
		p.b.WriteString(BoolVal(x.B).String())
	case *VarExpr:
		p.b.WriteString(x.Name)
	case *EqExpr:
		p.binary(x.LHS, " == ", x.RHS, precEq, need, open)
	case *AddExpr:
		p.binary(x.LHS, " + ", x.RHS, precAdd, need, open)
	case *MultExpr:
		p.binary(x.LHS, " * ", x.RHS, precMult, need, open)
	case *CallExpr:
		p.print(x.Callee, precAtom, true)
		p.b.WriteString("(")
		p.print(x.Arg, precEq, false)
		p.b.WriteString(")")
	case *LetExpr:
		p.block(open, func(col int) {
			p.b.WriteString("_let ")
			p.b.WriteString(x.Name)
			p.b.WriteString(" = ")
			p.print(x.Bound, precEq, false)
			p.newline(col)
			p.b.WriteString("_in  ")
			p.print(x.Body, precEq, false)
		})
	case *IfExpr:
		p.block(open, func(col int) {
			p.b.WriteString("_if ")
			p.print(x.Test, precEq, false)
			p.newline(col)
			p.b.WriteString("_then ")
			p.print(x.Then, precEq, false)
			p.newline(col)
			p.b.WriteString("_else ")
			p.print(x.Else, precEq, false)
		})
	case *FunExpr:
		p.block(open, func(int) {
			p.b.WriteString("_fun (")
			p.b.WriteString(x.Param)
			p.b.WriteString(") ")
			p.print(x.Body, precEq, false)
		})
	default:
		panic("msd: unknown expression type")
	}
}

// binary writes lhs op rhs for an operator of strength prec.
// Operators associate to the right, so the left operand needs one level
// more than the operator itself.
func (p *prettyPrinter) binary(lhs Expr, op string, rhs Expr, prec, need int, open bool) {
	paren := prec < need
	if paren {
		p.b.WriteString("(")
		open = false
	}
	p.print(lhs, prec+1, true)
	p.b.WriteString(op)
	p.print(rhs, prec, open)
	if paren {
		p.b.WriteString(")")
	}
}

// block writes an open-ended form, parenthesized when text follows it.
// body receives the column its keyword starts at.
func (p *prettyPrinter) block(open bool, body func(col int)) {
	if open {
		p.b.WriteString("(")
	}
	body(p.column())
	if open {
		p.b.WriteString(")")
	}
}
