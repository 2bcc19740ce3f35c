// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

// Expr is the interface for abstract syntax tree nodes.
// The variant set is closed: dispatch uses type switches over the concrete
// node types, and Expr is a pure marker interface.
//
// Nodes are immutable after construction. Evaluation never mutates a node,
// so trees may be shared freely, including across goroutines.
type Expr interface {
	expr() // unexported marker method
}

// NumExpr is an integer literal.
type NumExpr struct {
	N int64
}

func (*NumExpr) expr() {}

// AddExpr is integer addition: LHS + RHS.
type AddExpr struct {
	LHS Expr
	RHS Expr
}

func (*AddExpr) expr() {}

// MultExpr is integer multiplication: LHS * RHS.
type MultExpr struct {
	LHS Expr
	RHS Expr
}

func (*MultExpr) expr() {}

// VarExpr is a variable reference resolved against the environment.
type VarExpr struct {
	Name string
}

func (*VarExpr) expr() {}

// LetExpr is a non-recursive binding: Name scopes only over Body.
type LetExpr struct {
	// Name is the variable bound in Body.
	Name string

	// Bound is evaluated in the enclosing environment.
	Bound Expr

	// Body is evaluated with Name bound to the value of Bound.
	Body Expr
}

func (*LetExpr) expr() {}

// BoolExpr is a boolean literal.
type BoolExpr struct {
	B bool
}

func (*BoolExpr) expr() {}

// EqExpr compares two values structurally. Values of different
// variants are unequal; comparison never fails.
type EqExpr struct {
	LHS Expr
	RHS Expr
}

func (*EqExpr) expr() {}

// IfExpr evaluates exactly one of Then or Else depending on Test.
type IfExpr struct {
	Test Expr
	Then Expr
	Else Expr
}

func (*IfExpr) expr() {}

// FunExpr is a single-argument function literal.
// Evaluating it captures the current environment.
type FunExpr struct {
	Param string
	Body  Expr
}

func (*FunExpr) expr() {}

// CallExpr applies Callee to Arg.
type CallExpr struct {
	Callee Expr
	Arg    Expr
}

func (*CallExpr) expr() {}

// Num creates an integer literal.
func Num(n int64) Expr { return &NumExpr{N: n} }

// Add creates lhs + rhs.
func Add(lhs, rhs Expr) Expr { return &AddExpr{LHS: lhs, RHS: rhs} }

// Mult creates lhs * rhs.
func Mult(lhs, rhs Expr) Expr { return &MultExpr{LHS: lhs, RHS: rhs} }

// Var creates a variable reference.
func Var(name string) Expr { return &VarExpr{Name: name} }

// Let creates _let name = bound _in body.
func Let(name string, bound, body Expr) Expr {
	return &LetExpr{Name: name, Bound: bound, Body: body}
}

// Bool creates a boolean literal.
func Bool(b bool) Expr { return &BoolExpr{B: b} }

// Equals creates lhs == rhs.
func Equals(lhs, rhs Expr) Expr { return &EqExpr{LHS: lhs, RHS: rhs} }

// If creates _if test _then then _else els.
func If(test, then, els Expr) Expr {
	return &IfExpr{Test: test, Then: then, Else: els}
}

// Fun creates _fun (param) body.
func Fun(param string, body Expr) Expr { return &FunExpr{Param: param, Body: body} }

// Call creates callee(arg).
func Call(callee, arg Expr) Expr { return &CallExpr{Callee: callee, Arg: arg} }

// ExprEqual reports whether a and b are structurally equal.
// Nodes of different variants are never equal. A nil Expr equals only nil.
//
// The comparison walks both trees with an explicit work list, so arbitrarily
// deep trees do not grow the goroutine stack.
func ExprEqual(a, b Expr) bool {
	type pair struct{ a, b Expr }
	work := []pair{{a, b}}
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		if p.a == nil || p.b == nil {
			if p.a != p.b {
				return false
			}
			continue
		}
		switch x := p.a.(type) {
		case *NumExpr:
			y, ok := p.b.(*NumExpr)
			if !ok || x.N != y.N {
				return false
			}
		case *BoolExpr:
			y, ok := p.b.(*BoolExpr)
			if !ok || x.B != y.B {
				return false
			}
		case *VarExpr:
			y, ok := p.b.(*VarExpr)
			if !ok || x.Name != y.Name {
				return false
			}
		case *AddExpr:
			y, ok := p.b.(*AddExpr)
			if !ok {
				return false
			}
			work = append(work, pair{x.LHS, y.LHS}, pair{x.RHS, y.RHS})
		case *MultExpr:
			y, ok := p.b.(*MultExpr)
			if !ok {
				return false
			}
			work = append(work, pair{x.LHS, y.LHS}, pair{x.RHS, y.RHS})
		case *EqExpr:
			y, ok := p.b.(*EqExpr)
			if !ok {
				return false
			}
			work = append(work, pair{x.LHS, y.LHS}, pair{x.RHS, y.RHS})
		case *LetExpr:
			y, ok := p.b.(*LetExpr)
			if !ok || x.Name != y.Name {
				return false
			}
			work = append(work, pair{x.Bound, y.Bound}, pair{x.Body, y.Body})
		case *IfExpr:
			y, ok := p.b.(*IfExpr)
			if !ok {
				return false
			}
			work = append(work, pair{x.Test, y.Test}, pair{x.Then, y.Then}, pair{x.Else, y.Else})
		case *FunExpr:
			y, ok := p.b.(*FunExpr)
			if !ok || x.Param != y.Param {
				return false
			}
			work = append(work, pair{x.Body, y.Body})
		case *CallExpr:
			y, ok := p.b.(*CallExpr)
			if !ok {
				return false
			}
			work = append(work, pair{x.Callee, y.Callee}, pair{x.Arg, y.Arg})
		default:
			panic("msd: unknown expression type")
		}
	}
	return true
}

func (e *NumExpr) String() string  { return Print(e) }
func (e *AddExpr) String() string  { return Print(e) }
func (e *MultExpr) String() string { return Print(e) }
func (e *VarExpr) String() string  { return Print(e) }
func (e *LetExpr) String() string  { return Print(e) }
func (e *BoolExpr) String() string { return Print(e) }
func (e *EqExpr) String() string   { return Print(e) }
func (e *IfExpr) String() string   { return Print(e) }
func (e *FunExpr) String() string  { return Print(e) }
func (e *CallExpr) String() string { return Print(e) }
