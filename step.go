// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

// Mode selects which half of the machine loop runs next.
type Mode uint8

const (
	// ModeInterp evaluates the pending expression under the pending environment.
	ModeInterp Mode = iota
	// ModeContinue hands the latest value to the current continuation.
	ModeContinue
)

func (m Mode) String() string {
	switch m {
	case ModeInterp:
		return "interp"
	case ModeContinue:
		return "continue"
	default:
		return "unknown"
	}
}

// Machine is the trampolined evaluator.
// Its state record replaces the host call stack: every transition is a
// flat reassignment of mode, expr, env, value and cont, so evaluation depth
// is bounded by the heap rather than by the goroutine stack.
//
// A Machine belongs to one evaluation and must not be shared between
// goroutines. Expressions and environments it reads may be shared.
type Machine struct {
	mode  Mode
	expr  Expr  // valid in ModeInterp
	env   *Env  // valid in ModeInterp
	value Value // valid in ModeContinue
	cont  Cont

	err      error
	steps    int
	depth    int
	maxDepth int
}

// NewMachine creates a machine that will evaluate e under env.
func NewMachine(e Expr, env *Env) *Machine {
	m := &Machine{}
	m.reset(e, env)
	return m
}

func (m *Machine) reset(e Expr, env *Env) {
	*m = Machine{mode: ModeInterp, expr: e, env: env, cont: Done}
}

// Mode returns the half of the loop the next Step will run.
func (m *Machine) Mode() Mode { return m.mode }

// Expr returns the expression pending evaluation; nil in ModeContinue.
func (m *Machine) Expr() Expr {
	if m.mode != ModeInterp {
		return nil
	}
	return m.expr
}

// Value returns the most recently produced value; nil before the first one.
func (m *Machine) Value() Value { return m.value }

// Cont returns the current continuation.
// Frames are pooled: the result is valid only until the next Step.
func (m *Machine) Cont() Cont { return m.cont }

// Steps returns the number of transitions performed so far.
func (m *Machine) Steps() int { return m.steps }

// Depth returns the number of frames on the continuation stack.
func (m *Machine) Depth() int { return m.depth }

// MaxDepth returns the deepest the continuation stack has been.
func (m *Machine) MaxDepth() int { return m.maxDepth }

// Err returns the failure that stopped the machine, if any.
func (m *Machine) Err() error { return m.err }

// Step performs exactly one transition.
// Returns (true, nil) once the machine has halted with a value, which
// [Machine.Value] then reports; further calls keep returning (true, nil).
// Returns (false, err) when the transition fails. A failed machine is
// terminal: stepping it again panics.
func (m *Machine) Step() (bool, error) {
	if m.err != nil {
		panic("msd: step after failure")
	}
	var err error
	switch m.mode {
	case ModeInterp:
		err = m.stepInterp()
	case ModeContinue:
		if _, ok := m.cont.(DoneCont); ok {
			return true, nil
		}
		err = m.stepContinue()
	}
	m.steps++
	if err != nil {
		m.fail(err)
		return false, err
	}
	if m.depth > m.maxDepth {
		m.maxDepth = m.depth
	}
	return false, nil
}

func (m *Machine) fail(err error) {
	m.err = err
	releaseChain(m.cont)
	m.cont = Done
	m.expr, m.env, m.value = nil, nil, nil
	m.depth = 0
}

// yield switches to ModeContinue with v.
func (m *Machine) yield(v Value) {
	m.mode = ModeContinue
	m.value = v
	m.expr, m.env = nil, nil
}

// descend switches to ModeInterp on e under env with continuation k.
func (m *Machine) descend(e Expr, env *Env, k Cont) {
	m.mode = ModeInterp
	m.expr, m.env, m.cont = e, env, k
	m.value = nil
}

// stepInterp dispatches on the pending expression. It either yields a value
// or pushes one frame and narrows to a subexpression.
func (m *Machine) stepInterp() error {
	switch x := m.expr.(type) {
	case *NumExpr:
		m.yield(NumVal(x.N))
	case *BoolExpr:
		m.yield(BoolVal(x.B))
	case *VarExpr:
		v, err := m.env.Lookup(x.Name)
		if err != nil {
			return err
		}
		m.yield(v)
	case *FunExpr:
		m.yield(&FunVal{Param: x.Param, Body: x.Body, Env: m.env})
	case *AddExpr:
		f := evalAddRHSPool.acquire()
		f.RHS, f.Env, f.Rest = x.RHS, m.env, m.cont
		m.push(x.LHS, f)
	case *MultExpr:
		f := evalMultRHSPool.acquire()
		f.RHS, f.Env, f.Rest = x.RHS, m.env, m.cont
		m.push(x.LHS, f)
	case *EqExpr:
		f := evalEqRHSPool.acquire()
		f.RHS, f.Env, f.Rest = x.RHS, m.env, m.cont
		m.push(x.LHS, f)
	case *IfExpr:
		f := chooseBranchPool.acquire()
		f.Then, f.Else, f.Env, f.Rest = x.Then, x.Else, m.env, m.cont
		m.push(x.Test, f)
	case *LetExpr:
		f := bindLetBodyPool.acquire()
		f.Name, f.Body, f.Env, f.Rest = x.Name, x.Body, m.env, m.cont
		m.push(x.Bound, f)
	case *CallExpr:
		f := evalCallArgPool.acquire()
		f.Arg, f.Env, f.Rest = x.Arg, m.env, m.cont
		m.push(x.Callee, f)
	default:
		panic("msd: unknown expression type")
	}
	return nil
}

// push stacks k and evaluates e under the unchanged environment.
func (m *Machine) push(e Expr, k Cont) {
	m.expr, m.cont = e, k
	m.depth++
}

// stepContinue pops the current frame and runs its resume logic with the
// latest value. Each frame is released as soon as its fields are read, and
// m.cont moves past it before anything can fail, so a failed machine never
// holds a released frame.
func (m *Machine) stepContinue() error {
	v := m.value
	switch f := m.cont.(type) {
	case *EvalAddRHS:
		rhs, env, rest := f.RHS, f.Env, f.Rest
		evalAddRHSPool.release(f)
		k := addResultPool.acquire()
		k.LHS, k.Rest = v, rest
		m.descend(rhs, env, k)
	case *AddResult:
		lhs, rest := f.LHS, f.Rest
		addResultPool.release(f)
		m.cont = rest
		r, err := addValues(lhs, v)
		if err != nil {
			return err
		}
		m.pop(r, rest)
	case *EvalMultRHS:
		rhs, env, rest := f.RHS, f.Env, f.Rest
		evalMultRHSPool.release(f)
		k := multResultPool.acquire()
		k.LHS, k.Rest = v, rest
		m.descend(rhs, env, k)
	case *MultResult:
		lhs, rest := f.LHS, f.Rest
		multResultPool.release(f)
		m.cont = rest
		r, err := multValues(lhs, v)
		if err != nil {
			return err
		}
		m.pop(r, rest)
	case *EvalEqRHS:
		rhs, env, rest := f.RHS, f.Env, f.Rest
		evalEqRHSPool.release(f)
		k := eqResultPool.acquire()
		k.LHS, k.Rest = v, rest
		m.descend(rhs, env, k)
	case *EqResult:
		lhs, rest := f.LHS, f.Rest
		eqResultPool.release(f)
		m.pop(BoolVal(ValueEqual(lhs, v)), rest)
	case *ChooseBranch:
		then, els, env, rest := f.Then, f.Else, f.Env, f.Rest
		chooseBranchPool.release(f)
		m.cont = rest
		ok, err := isTrue(v)
		if err != nil {
			return err
		}
		m.depth--
		if ok {
			m.descend(then, env, rest)
		} else {
			m.descend(els, env, rest)
		}
	case *BindLetBody:
		name, body, env, rest := f.Name, f.Body, f.Env, f.Rest
		bindLetBodyPool.release(f)
		m.depth--
		m.descend(body, env.Extend(name, v), rest)
	case *EvalCallArg:
		arg, env, rest := f.Arg, f.Env, f.Rest
		evalCallArgPool.release(f)
		k := applyCallPool.acquire()
		k.Callee, k.Rest = v, rest
		m.descend(arg, env, k)
	case *ApplyCall:
		callee, rest := f.Callee, f.Rest
		applyCallPool.release(f)
		m.cont = rest
		fn, ok := callee.(*FunVal)
		if !ok {
			return errNotCallable
		}
		m.depth--
		m.descend(fn.Body, fn.Env.Extend(fn.Param, v), rest)
	case DoneCont:
		panic("msd: cannot continue done")
	default:
		panic("msd: unknown continuation type")
	}
	return nil
}

// pop delivers v to rest after one frame has been consumed.
func (m *Machine) pop(v Value, rest Cont) {
	m.cont = rest
	m.depth--
	m.yield(v)
}

// Run evaluates e under the empty environment on a fresh [Machine].
// It is equivalent to [Interp] but never recurses on the host stack.
//
// Example:
//
//	e, _ := msd.Parse("_let f = _fun (x) x + 1 _in f(10)")
//	v, err := msd.Run(e)
//	// v == msd.NumVal(11), err == nil
func Run(e Expr) (Value, error) {
	return RunEnv(e, Empty)
}

// RunEnv evaluates e under env on a fresh [Machine].
func RunEnv(e Expr, env *Env) (Value, error) {
	var m Machine
	m.reset(e, env)
	return m.run(nil)
}

// Trace evaluates e under env like [RunEnv], calling observe with the
// machine before every transition.
func Trace(e Expr, env *Env, observe func(*Machine)) (Value, error) {
	m := NewMachine(e, env)
	return m.run(observe)
}

// run drives the machine until it halts or fails.
func (m *Machine) run(observe func(*Machine)) (Value, error) {
	for {
		if observe != nil {
			observe(m)
		}
		done, err := m.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return m.value, nil
		}
	}
}
