// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse parses src into an expression.
//
// Grammar (binary operators associate to the right; * binds tighter than +,
// which binds tighter than ==):
//
//	expr      = comparg [ "==" expr ]
//	comparg   = addend [ "+" comparg ]
//	addend    = multicand [ "*" addend ]
//	multicand = inner { "(" expr ")" }
//	inner     = number | "(" expr ")" | variable
//	          | "_let" variable "=" expr "_in" expr
//	          | "_true" | "_false"
//	          | "_if" expr "_then" expr "_else" expr
//	          | "_fun" "(" variable ")" expr
//
// Right association matters only for ==: 1 == 1 == _true parses as
// 1 == (1 == _true) and evaluates to _false.
//
// Numbers are decimal int64 with an optional leading '-'; variables are
// ASCII letters. Input other than whitespace after the expression is an
// error. Failures are returned as [*SyntaxError].
func Parse(src string) (Expr, error) {
	p := &parser{src: src}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.atEnd() {
		return nil, p.errorf(p.pos, "unexpected %s after expression", p.describe())
	}
	return e, nil
}

// ParseReader reads all of r and parses it with [Parse].
func ParseReader(r io.Reader) (Expr, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(src))
}

// parser is a recursive-descent parser reading bytes directly; the grammar
// is small enough that a separate token stream buys nothing.
type parser struct {
	src string
	pos int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.atEnd() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.pos++
		default:
			return
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

// describe names the input at the current position for error messages.
func (p *parser) describe() string {
	if p.atEnd() {
		return "end of input"
	}
	if p.peek() == '_' {
		return strconv.Quote(p.src[p.pos : p.pos+len(p.word(p.pos+1))+1])
	}
	return strconv.Quote(string(p.peek()))
}

// word returns the run of letters starting at i.
func (p *parser) word(i int) string {
	j := i
	for j < len(p.src) && isAlpha(p.src[j]) {
		j++
	}
	return p.src[i:j]
}

// errorf builds a SyntaxError located at byte offset off.
func (p *parser) errorf(off int, format string, args ...any) error {
	before := p.src[:min(off, len(p.src))]
	line := strings.Count(before, "\n") + 1
	col := off - strings.LastIndexByte(before, '\n')
	return &SyntaxError{Line: line, Col: col, Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// consume skips whitespace and requires c next.
func (p *parser) consume(c byte, what string) error {
	p.skipSpace()
	if p.peek() != c {
		return p.errorf(p.pos, "expected %s, found %s", what, p.describe())
	}
	p.pos++
	return nil
}

// keyword skips whitespace and reads an underscore keyword, returning it
// with its leading underscore and its start offset.
func (p *parser) keyword() (string, int) {
	p.skipSpace()
	start := p.pos
	if p.peek() != '_' {
		return "", start
	}
	w := "_" + p.word(p.pos+1)
	p.pos += len(w)
	return w, start
}

func (p *parser) expectKeyword(kw string) error {
	p.skipSpace()
	save := p.pos
	w, start := p.keyword()
	if w != kw {
		p.pos = save
		return p.errorf(start, "expected %s, found %s", kw, p.describe())
	}
	return nil
}

func (p *parser) variable() (string, error) {
	p.skipSpace()
	name := p.word(p.pos)
	if name == "" {
		return "", p.errorf(p.pos, "expected variable name, found %s", p.describe())
	}
	p.pos += len(name)
	return name, nil
}

func (p *parser) expr() (Expr, error) {
	lhs, err := p.comparg()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], "==") {
		return lhs, nil
	}
	p.pos += 2
	rhs, err := p.expr()
	if err != nil {
		return nil, err
	}
	return Equals(lhs, rhs), nil
}

func (p *parser) comparg() (Expr, error) {
	lhs, err := p.addend()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '+' {
		return lhs, nil
	}
	p.pos++
	rhs, err := p.comparg()
	if err != nil {
		return nil, err
	}
	return Add(lhs, rhs), nil
}

func (p *parser) addend() (Expr, error) {
	lhs, err := p.multicand()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != '*' {
		return lhs, nil
	}
	p.pos++
	rhs, err := p.addend()
	if err != nil {
		return nil, err
	}
	return Mult(lhs, rhs), nil
}

func (p *parser) multicand() (Expr, error) {
	e, err := p.inner()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if p.peek() != '(' {
			return e, nil
		}
		p.pos++
		arg, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.consume(')', "')'"); err != nil {
			return nil, err
		}
		e = Call(e, arg)
	}
}

func (p *parser) inner() (Expr, error) {
	p.skipSpace()
	if p.atEnd() {
		return nil, p.errorf(p.pos, "unexpected end of input")
	}
	c := p.peek()
	switch {
	case c == '-' || isDigit(c):
		return p.number()
	case c == '(':
		p.pos++
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.consume(')', "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case isAlpha(c):
		name, _ := p.variable()
		return Var(name), nil
	case c == '_':
		return p.keywordExpr()
	default:
		return nil, p.errorf(p.pos, "unexpected %s", p.describe())
	}
}

func (p *parser) number() (Expr, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	digits := p.pos
	for !p.atEnd() && isDigit(p.peek()) {
		p.pos++
	}
	if p.pos == digits {
		return nil, p.errorf(p.pos, "expected digit after '-', found %s", p.describe())
	}
	n, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
	if err != nil {
		return nil, p.errorf(start, "number %s out of range", p.src[start:p.pos])
	}
	return Num(n), nil
}

func (p *parser) keywordExpr() (Expr, error) {
	kw, start := p.keyword()
	switch kw {
	case "_true":
		return Bool(true), nil
	case "_false":
		return Bool(false), nil
	case "_let":
		name, err := p.variable()
		if err != nil {
			return nil, err
		}
		if err := p.consume('=', "'='"); err != nil {
			return nil, err
		}
		bound, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("_in"); err != nil {
			return nil, err
		}
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		return Let(name, bound, body), nil
	case "_if":
		test, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("_then"); err != nil {
			return nil, err
		}
		then, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("_else"); err != nil {
			return nil, err
		}
		els, err := p.expr()
		if err != nil {
			return nil, err
		}
		return If(test, then, els), nil
	case "_fun":
		if err := p.consume('(', "'('"); err != nil {
			return nil, err
		}
		param, err := p.variable()
		if err != nil {
			return nil, err
		}
		if err := p.consume(')', "')'"); err != nil {
			return nil, err
		}
		body, err := p.expr()
		if err != nil {
			return nil, err
		}
		return Fun(param, body), nil
	case "_in", "_then", "_else":
		return nil, p.errorf(start, "unexpected keyword %s", kw)
	default:
		return nil, p.errorf(start, "unknown keyword %q", kw)
	}
}
