// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/msd"
)

// evaluators lists every evaluator that must agree on closed programs.
var evaluators = []struct {
	name string
	eval func(msd.Expr) (msd.Value, error)
}{
	{"interp", func(e msd.Expr) (msd.Value, error) { return msd.Interp(e, msd.Empty) }},
	{"run", msd.Run},
	{"subst", msd.InterpSubst},
}

func mustParse(t testing.TB, src string) msd.Expr {
	t.Helper()
	e, err := msd.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return e
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		e    msd.Expr
		want msd.Value
	}{
		{"number", msd.Num(1), msd.NumVal(1)},
		{"add", msd.Add(msd.Num(2), msd.Num(1)), msd.NumVal(3)},
		{"mult", msd.Mult(msd.Num(2), msd.Num(1)), msd.NumVal(2)},
		{"arithmetic with let",
			msd.Add(msd.Mult(msd.Num(5), msd.Let("x", msd.Num(5), msd.Var("x"))), msd.Num(1)),
			msd.NumVal(26)},
		{"let under mult",
			msd.Mult(msd.Num(5), msd.Add(msd.Let("x", msd.Num(5), msd.Var("x")), msd.Num(1))),
			msd.NumVal(30)},
		{"shadowing",
			msd.Let("x", msd.Num(1), msd.Let("x", msd.Num(2), msd.Var("x"))),
			msd.NumVal(2)},
		{"bound expression sees outer scope",
			msd.Let("x", msd.Num(1), msd.Let("x", msd.Add(msd.Var("x"), msd.Num(1)), msd.Var("x"))),
			msd.NumVal(2)},
		{"let of sum", msd.Let("x", msd.Add(msd.Num(5), msd.Num(2)), msd.Add(msd.Var("x"), msd.Num(1))), msd.NumVal(8)},
		{"boolean", msd.Bool(true), msd.BoolVal(true)},
		{"equals", msd.Equals(msd.Num(5), msd.Num(5)), msd.BoolVal(true)},
		{"not equals", msd.Equals(msd.Num(0), msd.Num(5)), msd.BoolVal(false)},
		{"equals cross type", msd.Equals(msd.Num(5), msd.Bool(true)), msd.BoolVal(false)},
		{"if true", msd.If(msd.Bool(true), msd.Num(1), msd.Num(2)), msd.NumVal(1)},
		{"if false", msd.If(msd.Bool(false), msd.Num(1), msd.Num(2)), msd.NumVal(2)},
		{"untaken branch", msd.If(msd.Bool(true), msd.Num(1), msd.Var("x")), msd.NumVal(1)},
		{"call", msd.Call(msd.Fun("x", msd.Add(msd.Var("x"), msd.Num(1))), msd.Num(5)), msd.NumVal(6)},
		{"wraparound", msd.Add(msd.Num(1<<62), msd.Mult(msd.Num(1<<62), msd.Num(2))), msd.NumVal(-(1 << 62))},
	}
	for _, ev := range evaluators {
		for _, tt := range tests {
			t.Run(ev.name+"/"+tt.name, func(t *testing.T) {
				got, err := ev.eval(tt.e)
				if err != nil {
					t.Fatalf("%v: %v", tt.e, err)
				}
				if !msd.ValueEqual(got, tt.want) {
					t.Fatalf("%v = %v, want %v", tt.e, got, tt.want)
				}
			})
		}
	}
}

func TestEvaluateSource(t *testing.T) {
	tests := []struct {
		src  string
		want msd.Value
	}{
		{"_let f = _fun (x) x + 1 _in f(10)", msd.NumVal(11)},
		{"_if 1==0 _then 5 _else 3", msd.NumVal(3)},
		{"_if 1==1 _then 2*2 _else 3", msd.NumVal(4)},
		{"_let x = 3 _in x+2", msd.NumVal(5)},
		{"1 == 1 == _true", msd.BoolVal(false)},
		{"_let add = _fun (x) _fun (y) x + y _in add(3)(4)", msd.NumVal(7)},
		{"_let factrl = _fun (factrl) _fun (x) _if x == 1 _then 1 _else x * factrl(factrl)(x + -1) _in factrl(factrl)(10)",
			msd.NumVal(3628800)},
	}
	for _, ev := range evaluators {
		for _, tt := range tests {
			t.Run(ev.name+"/"+tt.src, func(t *testing.T) {
				got, err := ev.eval(mustParse(t, tt.src))
				if err != nil {
					t.Fatal(err)
				}
				if !msd.ValueEqual(got, tt.want) {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			})
		}
	}
}

func TestEvaluateFailures(t *testing.T) {
	tests := []struct {
		src  string
		kind error
		msg  string
	}{
		{"t", msd.ErrFreeVariable, "free variable: t"},
		{"_let x = t _in x + 1", msd.ErrFreeVariable, "free variable: t"},
		{"_if _false _then 5 _else x", msd.ErrFreeVariable, "free variable: x"},
		{"_true + 1", msd.ErrType, msd.ReasonAddNonNumber},
		{"1 + _false", msd.ErrType, msd.ReasonAddNonNumber},
		{"2 * _true", msd.ErrType, msd.ReasonMultNonNumber},
		{"_if 1 _then 2 _else 3", msd.ErrType, msd.ReasonNotBoolean},
		{"5(1)", msd.ErrType, msd.ReasonNotCallable},
		// The argument is evaluated before the callee is checked.
		{"5(y)", msd.ErrFreeVariable, "free variable: y"},
		// The left operand fails first.
		{"a + b", msd.ErrFreeVariable, "free variable: a"},
	}
	for _, ev := range evaluators {
		for _, tt := range tests {
			t.Run(ev.name+"/"+tt.src, func(t *testing.T) {
				v, err := ev.eval(mustParse(t, tt.src))
				if err == nil {
					t.Fatalf("got %v, want error", v)
				}
				if !errors.Is(err, tt.kind) {
					t.Fatalf("err = %v, want kind %v", err, tt.kind)
				}
				if err.Error() != tt.msg {
					t.Fatalf("message %q, want %q", err.Error(), tt.msg)
				}
			})
		}
	}
}

func TestInterpClosureCapturesEnvironment(t *testing.T) {
	// f is defined where y is 1; the call happens where y is 100.
	e := mustParse(t, "_let y = 1 _in _let f = _fun (x) x + y _in _let y = 100 _in f(1)")
	for _, ev := range evaluators {
		v, err := ev.eval(e)
		if err != nil {
			t.Fatalf("%s: %v", ev.name, err)
		}
		if v != msd.NumVal(2) {
			t.Fatalf("%s: got %v, want 2", ev.name, v)
		}
	}
}

func TestInterpUnderEnvironment(t *testing.T) {
	env := msd.Empty.Extend("x", msd.NumVal(20)).Extend("y", msd.NumVal(22))
	e := msd.Add(msd.Var("x"), msd.Var("y"))
	v, err := msd.Interp(e, env)
	if err != nil || v != msd.NumVal(42) {
		t.Fatalf("Interp = %v, %v", v, err)
	}
	v, err = msd.RunEnv(e, env)
	if err != nil || v != msd.NumVal(42) {
		t.Fatalf("RunEnv = %v, %v", v, err)
	}
}

func TestInterpFunctionValue(t *testing.T) {
	env := msd.Empty.Extend("y", msd.NumVal(1))
	v, err := msd.Interp(msd.Fun("x", msd.Var("y")), env)
	if err != nil {
		t.Fatal(err)
	}
	f, ok := v.(*msd.FunVal)
	if !ok {
		t.Fatalf("got %T, want *FunVal", v)
	}
	if f.Param != "x" || f.Env != env {
		t.Fatalf("closure %+v does not capture the current environment", f)
	}
}

func TestClosureEqualityIsIdentity(t *testing.T) {
	tests := []struct {
		src  string
		want msd.Value
	}{
		{"_let f = _fun (x) x _in f == f", msd.BoolVal(true)},
		{"(_fun (x) x) == (_fun (x) x)", msd.BoolVal(false)},
		{"(_fun (x) x) == 1", msd.BoolVal(false)},
	}
	// The substitution evaluator copies function literals, so it is left out.
	for _, ev := range evaluators[:2] {
		for _, tt := range tests {
			v, err := ev.eval(mustParse(t, tt.src))
			if err != nil {
				t.Fatalf("%s %q: %v", ev.name, tt.src, err)
			}
			if v != tt.want {
				t.Fatalf("%s %q = %v, want %v", ev.name, tt.src, v, tt.want)
			}
		}
	}
}
