// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command msdscript reads an msdscript program from standard input and
// evaluates or prints it. Arguments are actions, run left to right:
//
//	msdscript --interp < prog.msd
//	echo '1 + 2 * 3' | msdscript --print --step
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"code.hybscloud.com/msd"
)

const (
	appName     = "msdscript"
	historyFile = ".msdscript_history"
	promptMain  = "msd> "
	promptCont  = "...  "
)

const usageText = `Usage: %s <action> [<action> ...]

Actions run in order; those that need a program share one read of stdin.

  --interp          Evaluate with the recursive evaluator and print the value.
  --step            Evaluate with the step machine and print the value.
  --trace           Like --step, also printing every transition to stderr.
  --print           Print the program fully parenthesized.
  --pretty-print    Print the program with minimal parentheses.
  --test            Run the built-in test suite (at most once).
  --repl            Start an interactive session.
  --help            Show this help.
`

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// command carries the streams of one invocation and the program text,
// read from stdin at most once.
type command struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	src    string
	parsed msd.Expr
	loaded bool
}

// run executes args in order and returns the process exit code:
// 0 on success, 1 when a program or the test suite fails, 2 on misuse.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintf(stderr, usageText, appName)
		return 2
	}
	c := &command{stdin: stdin, stdout: stdout, stderr: stderr}
	testSeen := false
	for _, arg := range args {
		var code int
		switch arg {
		case "-h", "--help":
			fmt.Fprintf(stdout, usageText, appName)
			return 0
		case "--test":
			if testSeen {
				fmt.Fprintf(stderr, "%s: --test given more than once\n", appName)
				return 2
			}
			testSeen = true
			code = c.test()
		case "--interp":
			code = c.eval(func(e msd.Expr) (msd.Value, error) { return msd.Interp(e, msd.Empty) })
		case "--step":
			code = c.eval(msd.Run)
		case "--trace":
			code = c.eval(func(e msd.Expr) (msd.Value, error) {
				return msd.Trace(e, msd.Empty, func(m *msd.Machine) { traceLine(c.stderr, m) })
			})
		case "--print":
			code = c.print(msd.Fprint)
		case "--pretty-print":
			code = c.print(msd.FprettyPrint)
		case "--repl":
			code = repl()
		default:
			fmt.Fprintf(stderr, "%s: unknown argument %q\n", appName, arg)
			fmt.Fprintf(stderr, usageText, appName)
			return 2
		}
		if code != 0 {
			return code
		}
	}
	return 0
}

// program parses stdin, reading it on first use.
func (c *command) program() (msd.Expr, error) {
	if !c.loaded {
		b, err := io.ReadAll(c.stdin)
		if err != nil {
			return nil, err
		}
		c.src, c.loaded = string(b), true
	}
	if c.parsed != nil {
		return c.parsed, nil
	}
	e, err := msd.Parse(c.src)
	if err != nil {
		return nil, msd.WrapSyntaxError(err, c.src)
	}
	c.parsed = e
	return e, nil
}

func (c *command) eval(evaluate func(msd.Expr) (msd.Value, error)) int {
	e, err := c.program()
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	v, err := evaluate(e)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	fmt.Fprintln(c.stdout, v)
	return 0
}

func (c *command) print(write func(io.Writer, msd.Expr) error) int {
	e, err := c.program()
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	if err := write(c.stdout, e); err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	fmt.Fprintln(c.stdout)
	return 0
}

func (c *command) test() int {
	r, err := msd.SelfTest(c.stderr)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	if !r.OK() {
		fmt.Fprintf(c.stderr, "%d of %d tests failed\n", r.Failed, r.Passed+r.Failed)
		return 1
	}
	fmt.Fprintf(c.stdout, "all %d tests passed\n", r.Passed)
	return 0
}

// traceLine describes the transition m is about to make.
func traceLine(w io.Writer, m *msd.Machine) {
	switch m.Mode() {
	case msd.ModeInterp:
		fmt.Fprintf(w, "%6d  depth %-4d interp    %s\n", m.Steps(), m.Depth(), msd.Print(m.Expr()))
	default:
		fmt.Fprintf(w, "%6d  depth %-4d continue  %s -> %s\n", m.Steps(), m.Depth(), m.Value(), contName(m.Cont()))
	}
}

func contName(k msd.Cont) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", k), "*")
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

const replHelp = `Each input is evaluated with the step machine.
  :interp <expr>   Evaluate with the recursive evaluator
  :print <expr>    Print fully parenthesized
  :pretty <expr>   Print with minimal parentheses
  :help            Show this help
  :quit            Exit
`

func repl() int {
	fmt.Println("msdscript REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.")

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		src, ok := readInput(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		line := strings.TrimSpace(src)
		if line == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if strings.HasPrefix(line, ":") {
			if handleReplCommand(line) {
				return 0
			}
			continue
		}
		evalLine(src, msd.Run)
	}
}

// handleReplCommand runs a :command and reports whether the session should end.
func handleReplCommand(line string) (exit bool) {
	name, rest, _ := strings.Cut(line, " ")
	switch name {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Print(replHelp)
	case ":interp":
		evalLine(rest, func(e msd.Expr) (msd.Value, error) { return msd.Interp(e, msd.Empty) })
	case ":print", ":pretty":
		e, err := msd.Parse(rest)
		if err != nil {
			fmt.Println(red(msd.WrapSyntaxError(err, rest).Error()))
			return false
		}
		if name == ":print" {
			fmt.Println(blue(msd.Print(e)))
		} else {
			fmt.Println(blue(msd.PrettyPrint(e)))
		}
	default:
		fmt.Println("unknown command. Type :help for commands.")
	}
	return false
}

func evalLine(src string, evaluate func(msd.Expr) (msd.Value, error)) {
	e, err := msd.Parse(src)
	if err != nil {
		fmt.Println(red(msd.WrapSyntaxError(err, src).Error()))
		return
	}
	v, err := evaluate(e)
	if err != nil {
		fmt.Println(red(err.Error()))
		return
	}
	fmt.Println(blue(v.String()))
}

// readInput reads lines until they form a complete program, a hard syntax
// error, or an empty continuation line. ok is false at end of input.
func readInput(ln *liner.State) (src string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)
		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if !incomplete(src) {
			return src, true
		}
	}
}

// incomplete reports whether src fails to parse only because it ends too early.
func incomplete(src string) bool {
	if strings.TrimSpace(src) == "" {
		return false
	}
	_, err := msd.Parse(src)
	var se *msd.SyntaxError
	return errors.As(err, &se) && se.Offset >= len(src)
}
