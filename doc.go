// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package msd implements the msdscript expression language: a parser,
// two printers, and two evaluators that must agree on every program.
//
// A program is an [Expr] tree. [Interp] evaluates it by direct recursion.
// [Run] evaluates it on a [Machine], a trampolined continuation-passing
// evaluator whose continuation stack lives on the heap, so recursion depth
// is bounded by memory rather than by the goroutine stack.
//
// # Language
//
//	5 * (_let x = 5 _in x) + 1
//	_let f = _fun (x) x + 1 _in f(10)
//	_if 1 == 0 _then 5 _else 3
//
// Integers, booleans (_true, _false), +, *, ==, non-recursive _let,
// _if/_then/_else, single-argument _fun literals with lexical scoping, and
// calls f(x). Binary operators associate to the right; * binds tighter
// than +, which binds tighter than ==.
//
// # Syntax Trees
//
//   - [Expr]: Sealed node interface
//   - [Num], [Add], [Mult], [Var], [Let], [Bool], [Equals], [If], [Fun], [Call]: Constructors
//   - [ExprEqual]: Structural equality
//   - [Parse], [ParseReader]: Source text to [Expr]
//   - [Print], [Fprint]: Fully parenthesized form
//   - [PrettyPrint], [FprettyPrint]: Minimal parentheses with aligned blocks
//
// # Values and Environments
//
//   - [Value]: Sealed result interface over [NumVal], [BoolVal], [*FunVal]
//   - [ValueEqual]: Numbers and booleans by content, closures by identity
//   - [Env]: Persistent binding list; the nil *Env is [Empty]
//
// # Evaluators
//
//   - [Interp]: Direct recursive evaluator
//   - [Run], [RunEnv]: Trampolined evaluator on a fresh [Machine]
//   - [Trace]: [RunEnv] with an observer called before every transition
//   - [InterpSubst]: Substitution evaluator kept as a third reference model
//
// # Step Machine
//
// A [Machine] holds the state record {mode, expr, env, value, cont}.
// [Machine.Step] performs one transition: in [ModeInterp] it either yields
// a value or pushes one continuation frame and narrows to a subexpression;
// in [ModeContinue] it pops exactly one frame. The machine halts when it
// continues into [Done].
//
// Continuation frames, one per suspended evaluation context:
//
//   - [EvalAddRHS], [AddResult]
//   - [EvalMultRHS], [MultResult]
//   - [EvalEqRHS], [EqResult]
//   - [ChooseBranch], [BindLetBody]
//   - [EvalCallArg], [ApplyCall]
//
// Every frame is consumed exactly once. The machine draws frames from
// per-type pools and returns each one as soon as it has been read.
// [ApplyCall] continues the closure body directly into its rest
// continuation, so self-application in tail position does not grow the stack.
//
// # Errors
//
// Every failure matches exactly one of [ErrFreeVariable], [ErrType] or
// [ErrSyntax] under errors.Is, and is one of [*FreeVariableError],
// [*TypeError] or [*SyntaxError] under errors.As. Evaluators never recover
// from a failure; the run stops at the first one.
//
// # Self Test
//
// [SelfTest] runs the embedded scenario suite through the parser, both
// printers and both evaluators.
//
// # Example
//
//	e, err := msd.Parse("_let f = _fun (x) x + 1 _in f(10)")
//	if err != nil {
//		return err
//	}
//	v, err := msd.Run(e)
//	// v == msd.NumVal(11)
package msd
