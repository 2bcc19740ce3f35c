// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command msdtest fuzzes msdscript binaries with random programs.
//
//	msdtest [flags] <bin>          self-consistency of one binary
//	msdtest [flags] <bin> <bin2>   agreement between two binaries
//
// With one binary, each program must evaluate to the same output as its
// --print and --pretty-print renderings, and --step must agree with
// --interp. With two binaries, --interp, --print and --pretty-print must
// produce identical output from both.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/exec"
	"time"

	"code.hybscloud.com/msd"
	"code.hybscloud.com/msd/internal/exprgen"
)

const appName = "msdtest"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	n := fs.Int("n", 100, "number of random programs")
	seed := fs.Uint64("seed", 0, "random seed; 0 picks one from the clock")
	verbose := fs.Bool("v", false, "print every program tried")
	timeout := fs.Duration("timeout", 10*time.Second, "limit for a single binary invocation")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [-n N] [-seed S] [-v] [-timeout D] <bin> [<bin2>]\n", appName)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	bins := fs.Args()
	if len(bins) < 1 || len(bins) > 2 {
		fs.Usage()
		return 2
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	fmt.Fprintf(stdout, "seed %d\n", *seed)

	f := &fuzzer{bins: bins, timeout: *timeout}
	rng := rand.New(rand.NewPCG(*seed, 0))
	failed := 0
	for i := range *n {
		in := program(rng, i)
		if *verbose {
			fmt.Fprintf(stdout, "Trying %s\n", in)
		}
		var err error
		if len(bins) == 1 {
			err = f.checkOne(in)
		} else {
			err = f.checkTwo(in)
		}
		if err != nil {
			failed++
			fmt.Fprintf(stderr, "FAIL %q: %v\n", in, err)
		}
	}
	fmt.Fprintf(stdout, "%d programs, %d failures\n", *n, failed)
	if failed > 0 {
		return 1
	}
	return 0
}

// program rotates between the generator styles.
func program(rng *rand.Rand, i int) string {
	switch i % 3 {
	case 0:
		return exprgen.Source(rng)
	case 1:
		return msd.PrettyPrint(exprgen.Expr(rng, 4))
	default:
		return msd.Print(exprgen.Untyped(rng, 4))
	}
}

type result struct {
	out  string
	code int
}

type fuzzer struct {
	bins    []string
	timeout time.Duration
}

// exec runs bin with one action, feeding in on stdin.
func (f *fuzzer) exec(bin, action, in string) (result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin, action)
	cmd.Stdin = bytes.NewBufferString(in)
	var out bytes.Buffer
	cmd.Stdout = &out
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result{out: out.String()}, nil
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		return result{out: out.String(), code: exitErr.ExitCode()}, nil
	default:
		return result{}, fmt.Errorf("%s %s: %w", bin, action, err)
	}
}

func (f *fuzzer) checkOne(in string) error {
	bin := f.bins[0]
	interp, err := f.exec(bin, "--interp", in)
	if err != nil {
		return err
	}
	step, err := f.exec(bin, "--step", in)
	if err != nil {
		return err
	}
	if step != interp {
		return fmt.Errorf("--step %+v, --interp %+v", step, interp)
	}
	for _, action := range []string{"--print", "--pretty-print"} {
		printed, err := f.exec(bin, action, in)
		if err != nil {
			return err
		}
		if printed.code != 0 {
			return fmt.Errorf("%s exited %d", action, printed.code)
		}
		again, err := f.exec(bin, "--interp", printed.out)
		if err != nil {
			return err
		}
		if again != interp {
			return fmt.Errorf("--interp of %s output %+v, want %+v", action, again, interp)
		}
	}
	return nil
}

func (f *fuzzer) checkTwo(in string) error {
	for _, action := range []string{"--interp", "--print", "--pretty-print"} {
		a, err := f.exec(f.bins[0], action, in)
		if err != nil {
			return err
		}
		b, err := f.exec(f.bins[1], action, in)
		if err != nil {
			return err
		}
		if a != b {
			return fmt.Errorf("%s: %s gave %+v, %s gave %+v", action, f.bins[0], a, f.bins[1], b)
		}
	}
	return nil
}
