// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

// Continuation frames.
// Each frame carries exactly what it needs to resume, plus Rest: the
// continuation to hand the result to afterwards.
//
// Frames created by the [Machine] come from pools (see pool.go) and are
// zeroed once consumed; a frame observed through [Machine.Cont] is only
// valid until the next call to [Machine.Step].

// EvalAddRHS waits for the left operand of an addition;
// it then evaluates RHS under Env.
type EvalAddRHS struct {
	RHS  Expr
	Env  *Env
	Rest Cont
}

func (*EvalAddRHS) cont() {}

// AddResult waits for the right operand of an addition
// and adds it to LHS.
type AddResult struct {
	LHS  Value
	Rest Cont
}

func (*AddResult) cont() {}

// EvalMultRHS waits for the left operand of a multiplication;
// it then evaluates RHS under Env.
type EvalMultRHS struct {
	RHS  Expr
	Env  *Env
	Rest Cont
}

func (*EvalMultRHS) cont() {}

// MultResult waits for the right operand of a multiplication
// and multiplies LHS by it.
type MultResult struct {
	LHS  Value
	Rest Cont
}

func (*MultResult) cont() {}

// EvalEqRHS waits for the left operand of a comparison;
// it then evaluates RHS under Env.
type EvalEqRHS struct {
	RHS  Expr
	Env  *Env
	Rest Cont
}

func (*EvalEqRHS) cont() {}

// EqResult waits for the right operand of a comparison
// and produces whether it equals LHS.
type EqResult struct {
	LHS  Value
	Rest Cont
}

func (*EqResult) cont() {}

// ChooseBranch waits for the test of a conditional
// and evaluates Then or Else under Env.
type ChooseBranch struct {
	Then Expr
	Else Expr
	Env  *Env
	Rest Cont
}

func (*ChooseBranch) cont() {}

// BindLetBody waits for the bound value of a let
// and evaluates Body under Env extended with Name.
type BindLetBody struct {
	Name string
	Body Expr
	Env  *Env
	Rest Cont
}

func (*BindLetBody) cont() {}

// EvalCallArg waits for the callee of a call;
// it then evaluates Arg under Env.
type EvalCallArg struct {
	Arg  Expr
	Env  *Env
	Rest Cont
}

func (*EvalCallArg) cont() {}

// ApplyCall waits for the argument of a call and applies Callee to it.
// The closure body continues directly into Rest, so calls in tail
// position do not grow the continuation stack.
type ApplyCall struct {
	Callee Value
	Rest   Cont
}

func (*ApplyCall) cont() {}
