// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"code.hybscloud.com/msd"
)

func TestRunScenarios(t *testing.T) {
	tests := []struct {
		src  string
		want msd.Value
	}{
		{"1", msd.NumVal(1)},
		{"2+2", msd.NumVal(4)},
		{"_true", msd.BoolVal(true)},
		{"_let x = 3 _in x+2", msd.NumVal(5)},
		{"_if 1==1 _then 5 _else 3", msd.NumVal(5)},
		{"_if 1==0 _then 5 _else 3", msd.NumVal(3)},
		{"_if 1==1 _then 2*2 _else 3", msd.NumVal(4)},
		{"_let f = _fun (x) x + 1 _in  f(10)", msd.NumVal(11)},
		{"(_fun (x) x + 1)(5)", msd.NumVal(6)},
	}
	for _, tt := range tests {
		v, err := msd.Run(mustParse(t, tt.src))
		if err != nil {
			t.Fatalf("Run(%q): %v", tt.src, err)
		}
		if v != tt.want {
			t.Fatalf("Run(%q) = %v, want %v", tt.src, v, tt.want)
		}
	}
}

func TestMachineTransitions(t *testing.T) {
	m := msd.NewMachine(msd.Add(msd.Num(2), msd.Num(2)), msd.Empty)
	if m.Mode() != msd.ModeInterp || m.Depth() != 0 || msd.Depth(m.Cont()) != 0 {
		t.Fatalf("initial state: mode %v depth %d", m.Mode(), m.Depth())
	}
	want := []struct {
		mode  msd.Mode
		depth int
		cont  string
	}{
		{msd.ModeInterp, 1, "*msd.EvalAddRHS"},
		{msd.ModeContinue, 1, "*msd.EvalAddRHS"},
		{msd.ModeInterp, 1, "*msd.AddResult"},
		{msd.ModeContinue, 1, "*msd.AddResult"},
		{msd.ModeContinue, 0, "msd.DoneCont"},
	}
	for i, w := range want {
		done, err := m.Step()
		if err != nil || done {
			t.Fatalf("step %d: done %v err %v", i+1, done, err)
		}
		if m.Mode() != w.mode || m.Depth() != w.depth {
			t.Fatalf("step %d: mode %v depth %d, want %v %d", i+1, m.Mode(), m.Depth(), w.mode, w.depth)
		}
		if got := fmt.Sprintf("%T", m.Cont()); got != w.cont {
			t.Fatalf("step %d: cont %s, want %s", i+1, got, w.cont)
		}
		if msd.Depth(m.Cont()) != m.Depth() {
			t.Fatalf("step %d: Depth(cont) = %d, machine depth %d", i+1, msd.Depth(m.Cont()), m.Depth())
		}
	}
	for range 2 {
		done, err := m.Step()
		if !done || err != nil {
			t.Fatalf("halted machine: done %v err %v", done, err)
		}
	}
	if m.Value() != msd.NumVal(4) {
		t.Fatalf("Value() = %v, want 4", m.Value())
	}
	if m.Steps() != len(want) {
		t.Fatalf("Steps() = %d, want %d", m.Steps(), len(want))
	}
	if m.MaxDepth() != 1 {
		t.Fatalf("MaxDepth() = %d, want 1", m.MaxDepth())
	}
}

func TestMachineExprAndValue(t *testing.T) {
	rhs := msd.Num(3)
	m := msd.NewMachine(msd.Mult(msd.Num(2), rhs), msd.Empty)
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if !msd.ExprEqual(m.Expr(), msd.Num(2)) {
		t.Fatalf("Expr() = %v, want 2", m.Expr())
	}
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Expr() != nil {
		t.Fatalf("Expr() in continue mode = %v, want nil", m.Expr())
	}
	if m.Value() != msd.NumVal(2) {
		t.Fatalf("Value() = %v, want 2", m.Value())
	}
	if _, err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Expr() != rhs {
		t.Fatalf("Expr() = %v, want the right operand", m.Expr())
	}
}

func TestMachineFailure(t *testing.T) {
	m := msd.NewMachine(mustParse(t, "1 + (_true + 1)"), msd.Empty)
	var err error
	for {
		var done bool
		done, err = m.Step()
		if done {
			t.Fatal("machine halted, want failure")
		}
		if err != nil {
			break
		}
	}
	if !errors.Is(err, msd.ErrType) || err.Error() != msd.ReasonAddNonNumber {
		t.Fatalf("err = %v", err)
	}
	if m.Err() != err {
		t.Fatalf("Err() = %v, want %v", m.Err(), err)
	}
	if _, ok := m.Cont().(msd.DoneCont); !ok || m.Depth() != 0 {
		t.Fatalf("failed machine keeps cont %T depth %d", m.Cont(), m.Depth())
	}

	defer func() {
		if recover() == nil {
			t.Fatal("Step after failure did not panic")
		}
	}()
	m.Step()
}

func TestRunDeepRecursion(t *testing.T) {
	// Not a tail call: every level leaves an AddResult frame behind.
	const n = 10000
	src := fmt.Sprintf(`_let sum = _fun (self) _fun (n)
		_if n == 0 _then 0 _else n + self(self)(n + -1)
	_in sum(sum)(%d)`, n)
	e := mustParse(t, src)
	m := msd.NewMachine(e, msd.Empty)
	for {
		done, err := m.Step()
		if err != nil {
			t.Fatal(err)
		}
		if done {
			break
		}
	}
	if m.Value() != msd.NumVal(n*(n+1)/2) {
		t.Fatalf("sum = %v, want %d", m.Value(), n*(n+1)/2)
	}
	if m.MaxDepth() < n {
		t.Fatalf("MaxDepth() = %d, want at least %d", m.MaxDepth(), n)
	}
	if m.Depth() != 0 {
		t.Fatalf("Depth() after halt = %d", m.Depth())
	}
}

func TestRunDeepFactorial(t *testing.T) {
	// 20! is the largest factorial that fits in int64; beyond it the
	// product wraps, identically in both evaluators.
	src := `_let factrl = _fun (factrl) _fun (x)
		_if x == 1 _then 1 _else x * factrl(factrl)(x + -1)
	_in factrl(factrl)(%d)`
	v, err := msd.Run(mustParse(t, fmt.Sprintf(src, 20)))
	if err != nil {
		t.Fatal(err)
	}
	if v != msd.NumVal(2432902008176640000) {
		t.Fatalf("20! = %v", v)
	}
	deep := mustParse(t, fmt.Sprintf(src, 20000))
	rv, err := msd.Run(deep)
	if err != nil {
		t.Fatal(err)
	}
	iv, err := msd.Interp(deep, msd.Empty)
	if err != nil {
		t.Fatal(err)
	}
	if rv != iv {
		t.Fatalf("Run = %v, Interp = %v", rv, iv)
	}
}

func TestRunTailCallDepth(t *testing.T) {
	// The recursive call is in tail position, so ApplyCall hands the body
	// the caller's continuation and the stack stays flat.
	e := mustParse(t, `_let loop = _fun (self) _fun (n)
		_if n == 0 _then 42 _else self(self)(n + -1)
	_in loop(loop)(100000)`)
	m := msd.NewMachine(e, msd.Empty)
	for {
		done, err := m.Step()
		if err != nil {
			t.Fatal(err)
		}
		if done {
			break
		}
	}
	if m.Value() != msd.NumVal(42) {
		t.Fatalf("loop = %v, want 42", m.Value())
	}
	if m.MaxDepth() > 8 {
		t.Fatalf("MaxDepth() = %d, want a bounded stack", m.MaxDepth())
	}
}

func TestTrace(t *testing.T) {
	var modes []msd.Mode
	v, err := msd.Trace(msd.Add(msd.Num(2), msd.Num(2)), msd.Empty, func(m *msd.Machine) {
		if m.Steps() != len(modes) {
			t.Fatalf("observer saw step %d, want %d", m.Steps(), len(modes))
		}
		modes = append(modes, m.Mode())
	})
	if err != nil || v != msd.NumVal(4) {
		t.Fatalf("Trace = %v, %v", v, err)
	}
	want := []msd.Mode{
		msd.ModeInterp, msd.ModeInterp, msd.ModeContinue,
		msd.ModeInterp, msd.ModeContinue, msd.ModeContinue,
	}
	if len(modes) != len(want) {
		t.Fatalf("observed %d states, want %d", len(modes), len(want))
	}
	for i := range want {
		if modes[i] != want[i] {
			t.Fatalf("state %d mode %v, want %v", i, modes[i], want[i])
		}
	}
}

func TestModeString(t *testing.T) {
	if msd.ModeInterp.String() != "interp" || msd.ModeContinue.String() != "continue" {
		t.Fatalf("mode strings %q %q", msd.ModeInterp, msd.ModeContinue)
	}
	if msd.Mode(9).String() != "unknown" {
		t.Fatalf("Mode(9) = %q", msd.Mode(9))
	}
}

func TestRunConcurrent(t *testing.T) {
	// Runs share the expression tree and environment but nothing else.
	e := mustParse(t, "_let f = _fun (x) x * x + y _in f(6) + f(1)")
	env := msd.Empty.Extend("y", msd.NumVal(2))
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				v, err := msd.RunEnv(e, env)
				if err != nil {
					errs <- err
					return
				}
				if v != msd.NumVal(41) {
					errs <- fmt.Errorf("got %v, want 41", v)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
