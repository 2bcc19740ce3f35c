// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

// Interp evaluates e under env by direct recursion on the host stack.
//
// Interp is the reference semantics for [Run]: both must produce equal
// values, or fail with the same kind of error, for every expression.
// Its depth is bounded by the goroutine stack, so deeply self-recursive
// programs belong on [Run].
func Interp(e Expr, env *Env) (Value, error) {
	switch x := e.(type) {
	case *NumExpr:
		return NumVal(x.N), nil
	case *BoolExpr:
		return BoolVal(x.B), nil
	case *VarExpr:
		return env.Lookup(x.Name)
	case *AddExpr:
		l, r, err := interpPair(x.LHS, x.RHS, env)
		if err != nil {
			return nil, err
		}
		return addValues(l, r)
	case *MultExpr:
		l, r, err := interpPair(x.LHS, x.RHS, env)
		if err != nil {
			return nil, err
		}
		return multValues(l, r)
	case *EqExpr:
		l, r, err := interpPair(x.LHS, x.RHS, env)
		if err != nil {
			return nil, err
		}
		return BoolVal(ValueEqual(l, r)), nil
	case *LetExpr:
		v, err := Interp(x.Bound, env)
		if err != nil {
			return nil, err
		}
		return Interp(x.Body, env.Extend(x.Name, v))
	case *IfExpr:
		test, err := Interp(x.Test, env)
		if err != nil {
			return nil, err
		}
		ok, err := isTrue(test)
		if err != nil {
			return nil, err
		}
		if ok {
			return Interp(x.Then, env)
		}
		return Interp(x.Else, env)
	case *FunExpr:
		return &FunVal{Param: x.Param, Body: x.Body, Env: env}, nil
	case *CallExpr:
		// The argument is evaluated before the callee is checked. Run
		// reaches ApplyCall in this order, and Interp keeps it so both
		// report the same failure for programs like 5(y).
		callee, arg, err := interpPair(x.Callee, x.Arg, env)
		if err != nil {
			return nil, err
		}
		f, ok := callee.(*FunVal)
		if !ok {
			return nil, errNotCallable
		}
		return Interp(f.Body, f.Env.Extend(f.Param, arg))
	default:
		panic("msd: unknown expression type")
	}
}

// interpPair evaluates lhs then rhs, stopping at the first failure.
func interpPair(lhs, rhs Expr, env *Env) (Value, Value, error) {
	l, err := Interp(lhs, env)
	if err != nil {
		return nil, nil, err
	}
	r, err := Interp(rhs, env)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
