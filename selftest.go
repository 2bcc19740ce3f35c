// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed selftest.yaml
var selfTestYAML []byte

// Case is one scenario of the built-in suite.
// Input is parsed; every other non-empty field is an expectation.
type Case struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input"`

	// Value is the printed result both evaluators must produce.
	Value string `yaml:"value,omitempty"`

	// Error is the failure kind both evaluators (or the parser, for
	// "syntax") must report: "free variable", "type" or "syntax".
	Error string `yaml:"error,omitempty"`

	// Message, when set, is the exact error text.
	Message string `yaml:"message,omitempty"`

	Print  string `yaml:"print,omitempty"`
	Pretty string `yaml:"pretty,omitempty"`
}

// Report summarizes a suite run.
type Report struct {
	Passed   int
	Failed   int
	Failures []string
}

// OK reports whether every case passed.
func (r Report) OK() bool { return r.Failed == 0 }

// Cases decodes the built-in suite.
func Cases() ([]Case, error) {
	var cases []Case
	if err := yaml.Unmarshal(selfTestYAML, &cases); err != nil {
		return nil, fmt.Errorf("msd: decode self-test suite: %w", err)
	}
	return cases, nil
}

// SelfTest runs the built-in suite, writing one line per failing case to w.
// Each case is parsed, printed both ways, round-tripped through the parser,
// and evaluated by both [Interp] and [Run].
func SelfTest(w io.Writer) (Report, error) {
	cases, err := Cases()
	if err != nil {
		return Report{}, err
	}
	var r Report
	for _, c := range cases {
		if msg := c.Check(); msg != "" {
			r.Failed++
			r.Failures = append(r.Failures, c.Name+": "+msg)
			if w != nil {
				fmt.Fprintf(w, "FAIL %s: %s\n", c.Name, msg)
			}
			continue
		}
		r.Passed++
	}
	return r, nil
}

var errorKinds = map[string]error{
	"free variable": ErrFreeVariable,
	"type":          ErrType,
	"syntax":        ErrSyntax,
}

// Check runs c and returns a description of the first mismatch,
// or "" when every expectation holds.
func (c Case) Check() string {
	e, err := Parse(c.Input)
	if c.Error == "syntax" {
		return c.checkError("parse", err)
	}
	if err != nil {
		return fmt.Sprintf("parse: %v", err)
	}
	if c.Print != "" && Print(e) != c.Print {
		return fmt.Sprintf("print = %q, want %q", Print(e), c.Print)
	}
	if c.Pretty != "" && PrettyPrint(e) != c.Pretty {
		return fmt.Sprintf("pretty print = %q, want %q", PrettyPrint(e), c.Pretty)
	}
	for _, text := range []string{Print(e), PrettyPrint(e)} {
		back, err := Parse(text)
		if err != nil {
			return fmt.Sprintf("reparse %q: %v", text, err)
		}
		if !ExprEqual(back, e) {
			return fmt.Sprintf("reparse %q: tree differs", text)
		}
	}
	if c.Value == "" && c.Error == "" {
		return ""
	}
	iv, ierr := Interp(e, Empty)
	rv, rerr := Run(e)
	if c.Error != "" {
		if msg := c.checkError("interp", ierr); msg != "" {
			return msg
		}
		return c.checkError("run", rerr)
	}
	if ierr != nil {
		return fmt.Sprintf("interp: %v", ierr)
	}
	if rerr != nil {
		return fmt.Sprintf("run: %v", rerr)
	}
	if iv.String() != c.Value {
		return fmt.Sprintf("interp = %s, want %s", iv, c.Value)
	}
	if rv.String() != c.Value {
		return fmt.Sprintf("run = %s, want %s", rv, c.Value)
	}
	return ""
}

func (c Case) checkError(stage string, err error) string {
	kind, ok := errorKinds[c.Error]
	if !ok {
		return fmt.Sprintf("unknown error kind %q", c.Error)
	}
	if err == nil {
		return fmt.Sprintf("%s: succeeded, want %s error", stage, c.Error)
	}
	if !errors.Is(err, kind) {
		return fmt.Sprintf("%s: %v, want %s error", stage, err, c.Error)
	}
	if c.Message != "" && err.Error() != c.Message {
		return fmt.Sprintf("%s: message %q, want %q", stage, err.Error(), c.Message)
	}
	return ""
}
