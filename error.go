// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

import (
	"errors"
	"fmt"
	"strings"
)

// Failure kinds.
// Every evaluator or parser error matches exactly one of these with errors.Is.
var (
	ErrFreeVariable = errors.New("free variable")
	ErrType         = errors.New("type error")
	ErrSyntax       = errors.New("syntax error")
)

// FreeVariableError reports a variable lookup that reached the empty environment.
type FreeVariableError struct {
	Name string
}

func (e *FreeVariableError) Error() string { return "free variable: " + e.Name }

// Is reports ErrFreeVariable.
func (e *FreeVariableError) Is(target error) bool { return target == ErrFreeVariable }

// TypeError reports an operand or operator mismatch.
type TypeError struct {
	Reason string
}

func (e *TypeError) Error() string { return e.Reason }

// Is reports ErrType.
func (e *TypeError) Is(target error) bool { return target == ErrType }

// Type error reasons.
const (
	ReasonAddNonNumber  = "add of non-number"
	ReasonMultNonNumber = "mult of non-number"
	ReasonNotBoolean    = "not a boolean"
	ReasonNotCallable   = "not callable"
)

var (
	errAddNonNumber  = &TypeError{Reason: ReasonAddNonNumber}
	errMultNonNumber = &TypeError{Reason: ReasonMultNonNumber}
	errNotBoolean    = &TypeError{Reason: ReasonNotBoolean}
	errNotCallable   = &TypeError{Reason: ReasonNotCallable}
)

// SyntaxError reports malformed source text.
// Line and Col are 1-based; Offset is the 0-based byte offset.
type SyntaxError struct {
	Line   int
	Col    int
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Is reports ErrSyntax.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// WrapSyntaxError renders a [*SyntaxError] with a numbered source snippet and
// a caret under the offending column. The result still wraps err.
// Other errors are returned unchanged.
//
//	syntax error at 1:12: expected _in
//
//	   1 | _let x = 1 _on x
//	     |            ^
func WrapSyntaxError(err error, src string) error {
	var se *SyntaxError
	if !errors.As(err, &se) {
		return err
	}
	return fmt.Errorf("%w\n\n%s", err, snippet(src, se.Line, se.Col))
}

// snippet renders up to one line of context either side of line,
// with the caret clamped into range.
func snippet(src string, line, col int) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}
	width := len(fmt.Sprint(min(line+1, len(lines))))
	var b strings.Builder
	for n := max(1, line-1); n <= min(len(lines), line+1); n++ {
		fmt.Fprintf(&b, "   %*d | %s\n", width, n, lines[n-1])
		if n == line {
			fmt.Fprintf(&b, "   %s | %s^\n", strings.Repeat(" ", width), strings.Repeat(" ", col-1))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
