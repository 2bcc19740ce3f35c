// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

import "strconv"

// Value is the interface for evaluation results.
// Like [Expr], it is a closed marker interface dispatched by type switch.
type Value interface {
	value() // unexported marker method
	String() string
}

// NumVal is an integer result.
type NumVal int64

func (NumVal) value() {}

func (v NumVal) String() string { return strconv.FormatInt(int64(v), 10) }

// BoolVal is a boolean result.
type BoolVal bool

func (BoolVal) value() {}

func (v BoolVal) String() string {
	if v {
		return "_true"
	}
	return "_false"
}

// FunVal is a closure: a parameter and body paired with the environment
// captured when the function literal was evaluated.
//
// Env is nil for closures produced by the substitution evaluator, whose
// bodies are closed by construction.
type FunVal struct {
	Param string
	Body  Expr
	Env   *Env
}

func (*FunVal) value() {}

func (*FunVal) String() string { return "[function]" }

// ValueEqual reports whether a and b are equal values.
// Numbers and booleans compare by content; closures compare by identity.
// Values of different variants are unequal, never an error.
func ValueEqual(a, b Value) bool {
	switch x := a.(type) {
	case NumVal:
		y, ok := b.(NumVal)
		return ok && x == y
	case BoolVal:
		y, ok := b.(BoolVal)
		return ok && x == y
	case *FunVal:
		y, ok := b.(*FunVal)
		return ok && x == y
	default:
		return false
	}
}

// ValueExpr converts a value back into an expression that evaluates to it.
// A closure becomes its function literal; its captured environment is dropped.
func ValueExpr(v Value) Expr {
	switch x := v.(type) {
	case NumVal:
		return Num(int64(x))
	case BoolVal:
		return Bool(bool(x))
	case *FunVal:
		return Fun(x.Param, x.Body)
	default:
		panic("msd: unknown value type")
	}
}

// addValues implements + on two values.
func addValues(lhs, rhs Value) (Value, error) {
	l, lok := lhs.(NumVal)
	r, rok := rhs.(NumVal)
	if !lok || !rok {
		return nil, errAddNonNumber
	}
	return l + r, nil
}

// multValues implements * on two values.
func multValues(lhs, rhs Value) (Value, error) {
	l, lok := lhs.(NumVal)
	r, rok := rhs.(NumVal)
	if !lok || !rok {
		return nil, errMultNonNumber
	}
	return l * r, nil
}

// isTrue reports the truth of a test value; only booleans are tests.
func isTrue(v Value) (bool, error) {
	b, ok := v.(BoolVal)
	if !ok {
		return false, errNotBoolean
	}
	return bool(b), nil
}
