// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

// Subst returns e with free occurrences of name replaced by repl.
// Bindings of name (a _let body or a _fun parameter) shadow the
// substitution. repl must be closed; substituting an expression with free
// variables may capture them.
func Subst(e Expr, name string, repl Expr) Expr {
	switch x := e.(type) {
	case *NumExpr, *BoolExpr:
		return e
	case *VarExpr:
		if x.Name == name {
			return repl
		}
		return e
	case *AddExpr:
		return Add(Subst(x.LHS, name, repl), Subst(x.RHS, name, repl))
	case *MultExpr:
		return Mult(Subst(x.LHS, name, repl), Subst(x.RHS, name, repl))
	case *EqExpr:
		return Equals(Subst(x.LHS, name, repl), Subst(x.RHS, name, repl))
	case *LetExpr:
		body := x.Body
		if x.Name != name {
			body = Subst(body, name, repl)
		}
		return Let(x.Name, Subst(x.Bound, name, repl), body)
	case *IfExpr:
		return If(Subst(x.Test, name, repl), Subst(x.Then, name, repl), Subst(x.Else, name, repl))
	case *FunExpr:
		if x.Param == name {
			return e
		}
		return Fun(x.Param, Subst(x.Body, name, repl))
	case *CallExpr:
		return Call(Subst(x.Callee, name, repl), Subst(x.Arg, name, repl))
	default:
		panic("msd: unknown expression type")
	}
}

// InterpSubst evaluates e by substitution instead of by environment:
// binding a value replaces the bound variable with [ValueExpr] of the value
// throughout the body, so any variable still present when evaluation
// reaches it is free.
//
// Because every substituted value is closed, this agrees with [Interp]
// except where closures are compared: substitution copies a function
// literal to each use site, so a closure is not equal to itself after
// being bound to a name and used twice.
func InterpSubst(e Expr) (Value, error) {
	switch x := e.(type) {
	case *NumExpr:
		return NumVal(x.N), nil
	case *BoolExpr:
		return BoolVal(x.B), nil
	case *VarExpr:
		return nil, &FreeVariableError{Name: x.Name}
	case *AddExpr:
		l, r, err := substPair(x.LHS, x.RHS)
		if err != nil {
			return nil, err
		}
		return addValues(l, r)
	case *MultExpr:
		l, r, err := substPair(x.LHS, x.RHS)
		if err != nil {
			return nil, err
		}
		return multValues(l, r)
	case *EqExpr:
		l, r, err := substPair(x.LHS, x.RHS)
		if err != nil {
			return nil, err
		}
		return BoolVal(ValueEqual(l, r)), nil
	case *LetExpr:
		v, err := InterpSubst(x.Bound)
		if err != nil {
			return nil, err
		}
		return InterpSubst(Subst(x.Body, x.Name, ValueExpr(v)))
	case *IfExpr:
		test, err := InterpSubst(x.Test)
		if err != nil {
			return nil, err
		}
		ok, err := isTrue(test)
		if err != nil {
			return nil, err
		}
		if ok {
			return InterpSubst(x.Then)
		}
		return InterpSubst(x.Else)
	case *FunExpr:
		return &FunVal{Param: x.Param, Body: x.Body}, nil
	case *CallExpr:
		callee, arg, err := substPair(x.Callee, x.Arg)
		if err != nil {
			return nil, err
		}
		f, ok := callee.(*FunVal)
		if !ok {
			return nil, errNotCallable
		}
		return InterpSubst(Subst(f.Body, f.Param, ValueExpr(arg)))
	default:
		panic("msd: unknown expression type")
	}
}

func substPair(lhs, rhs Expr) (Value, Value, error) {
	l, err := InterpSubst(lhs)
	if err != nil {
		return nil, nil, err
	}
	r, err := InterpSubst(rhs)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
