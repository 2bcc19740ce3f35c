// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package exprgen generates random msdscript programs for property and
// differential testing. Every generator is deterministic for a given
// *rand.Rand and always produces programs that terminate.
package exprgen

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"code.hybscloud.com/msd"
)

// Type is the static type of a generated expression.
type Type uint8

const (
	Int Type = iota
	Boolean
	// Func is int -> int.
	Func
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Boolean:
		return "bool"
	case Func:
		return "int->int"
	default:
		return "unknown"
	}
}

// names is deliberately small so that shadowing happens often.
var names = []string{"x", "y", "z", "f", "g"}

type binding struct {
	name string
	typ  Type
}

type typedGen struct {
	rng   *rand.Rand
	scope []binding
}

// Expr returns a closed, well-typed expression of type [Int] or [Boolean]
// with at most depth levels of nesting. Evaluating it never fails, and its
// result never contains a closure, so every evaluator must produce an equal
// value for it.
func Expr(rng *rand.Rand, depth int) msd.Expr {
	t := Int
	if rng.IntN(3) == 0 {
		t = Boolean
	}
	return Typed(rng, depth, t)
}

// Typed returns a closed, well-typed expression of type t.
func Typed(rng *rand.Rand, depth int, t Type) msd.Expr {
	g := &typedGen{rng: rng}
	return g.gen(depth, t)
}

func (g *typedGen) gen(depth int, t Type) msd.Expr {
	if depth <= 0 || g.rng.IntN(4) == 0 {
		return g.leaf(t)
	}
	d := depth - 1
	switch g.rng.IntN(4) {
	case 0:
		return g.let(d, t)
	case 1:
		return msd.If(g.gen(d, Boolean), g.gen(d, t), g.gen(d, t))
	case 2:
		if t == Int {
			return msd.Call(g.gen(d, Func), g.gen(d, Int))
		}
	}
	switch t {
	case Int:
		if g.rng.IntN(2) == 0 {
			return msd.Add(g.gen(d, Int), g.gen(d, Int))
		}
		return msd.Mult(g.gen(d, Int), g.gen(d, Int))
	case Boolean:
		operand := Int
		if g.rng.IntN(3) == 0 {
			operand = Boolean
		}
		return msd.Equals(g.gen(d, operand), g.gen(d, operand))
	default:
		param := g.name()
		g.scope = append(g.scope, binding{param, Int})
		body := g.gen(d, Int)
		g.scope = g.scope[:len(g.scope)-1]
		return msd.Fun(param, body)
	}
}

// let binds a fresh value of any type around a body of type t.
func (g *typedGen) let(depth int, t Type) msd.Expr {
	name := g.name()
	bt := Type(g.rng.IntN(3))
	bound := g.gen(depth, bt)
	g.scope = append(g.scope, binding{name, bt})
	body := g.gen(depth, t)
	g.scope = g.scope[:len(g.scope)-1]
	return msd.Let(name, bound, body)
}

func (g *typedGen) leaf(t Type) msd.Expr {
	if v, ok := g.lookup(t); ok && g.rng.IntN(2) == 0 {
		return msd.Var(v)
	}
	switch t {
	case Int:
		return msd.Num(int64(g.rng.IntN(41) - 20))
	case Boolean:
		return msd.Bool(g.rng.IntN(2) == 0)
	default:
		param := g.name()
		g.scope = append(g.scope, binding{param, Int})
		body := g.leaf(Int)
		g.scope = g.scope[:len(g.scope)-1]
		return msd.Fun(param, body)
	}
}

// lookup picks a visible variable of type t. A binding is visible only if
// no inner binding shadows its name.
func (g *typedGen) lookup(t Type) (string, bool) {
	var visible []string
	seen := make(map[string]bool, len(g.scope))
	for i := len(g.scope) - 1; i >= 0; i-- {
		b := g.scope[i]
		if seen[b.name] {
			continue
		}
		seen[b.name] = true
		if b.typ == t {
			visible = append(visible, b.name)
		}
	}
	if len(visible) == 0 {
		return "", false
	}
	return visible[g.rng.IntN(len(visible))], true
}

func (g *typedGen) name() string { return names[g.rng.IntN(len(names))] }

// Untyped returns an expression of any shape: variables may be free and
// operands may have the wrong type, so evaluation may fail with any
// failure kind. Function bodies never contain calls, which keeps every
// program terminating.
func Untyped(rng *rand.Rand, depth int) msd.Expr {
	return untyped(rng, depth, false)
}

func untyped(rng *rand.Rand, depth int, inFun bool) msd.Expr {
	if depth <= 0 || rng.IntN(4) == 0 {
		switch rng.IntN(3) {
		case 0:
			return msd.Num(int64(rng.IntN(21) - 10))
		case 1:
			return msd.Bool(rng.IntN(2) == 0)
		default:
			return msd.Var(names[rng.IntN(len(names))])
		}
	}
	d := depth - 1
	sub := func() msd.Expr { return untyped(rng, d, inFun) }
	switch rng.IntN(8) {
	case 0:
		return msd.Add(sub(), sub())
	case 1:
		return msd.Mult(sub(), sub())
	case 2:
		return msd.Equals(sub(), sub())
	case 3:
		return msd.Let(names[rng.IntN(len(names))], sub(), sub())
	case 4:
		return msd.If(sub(), sub(), sub())
	case 5:
		return msd.Fun(names[rng.IntN(len(names))], untyped(rng, d, true))
	default:
		if inFun {
			return msd.Add(sub(), sub())
		}
		return msd.Call(sub(), sub())
	}
}

// Source returns random program text built from numbers, +, *, grouping
// and _let x bindings. Variables may appear outside their binding, so the
// program may fail with a free variable.
func Source(rng *rand.Rand) string {
	var b strings.Builder
	writeSource(&b, rng, 6)
	return b.String()
}

func writeSource(b *strings.Builder, rng *rand.Rand, depth int) {
	n := rng.IntN(10)
	if depth <= 0 {
		n = rng.IntN(5)
	}
	switch {
	case n < 4:
		b.WriteString(strconv.Itoa(rng.IntN(1000)))
	case n == 4:
		b.WriteString("x")
	case n == 5 || n == 7:
		op := "+"
		if n == 7 {
			op = "*"
		}
		b.WriteString("(")
		writeSource(b, rng, depth-1)
		b.WriteString(op)
		writeSource(b, rng, depth-1)
		b.WriteString(")")
	case n == 6 || n == 8:
		op := " + "
		if n == 8 {
			op = " * "
		}
		writeSource(b, rng, depth-1)
		b.WriteString(op)
		writeSource(b, rng, depth-1)
	default:
		b.WriteString("_let x = ")
		writeSource(b, rng, depth-1)
		b.WriteString(" _in ")
		writeSource(b, rng, depth-1)
	}
}
