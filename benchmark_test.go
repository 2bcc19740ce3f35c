// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd_test

import (
	"testing"

	"code.hybscloud.com/msd"
)

const factorialSrc = `_let factrl = _fun (factrl) _fun (x)
	_if x == 1 _then 1 _else x * factrl(factrl)(x + -1)
_in factrl(factrl)(20)`

// BenchmarkInterpFactorial measures the recursive evaluator.
func BenchmarkInterpFactorial(b *testing.B) {
	e := mustParse(b, factorialSrc)
	for b.Loop() {
		_, _ = msd.Interp(e, msd.Empty)
	}
}

// BenchmarkRunFactorial measures the step machine on the same program.
func BenchmarkRunFactorial(b *testing.B) {
	e := mustParse(b, factorialSrc)
	for b.Loop() {
		_, _ = msd.Run(e)
	}
}

// BenchmarkInterpSubstFactorial measures the substitution evaluator.
func BenchmarkInterpSubstFactorial(b *testing.B) {
	e := mustParse(b, factorialSrc)
	for b.Loop() {
		_, _ = msd.InterpSubst(e)
	}
}

// BenchmarkRunArithmetic measures frame churn without closures.
func BenchmarkRunArithmetic(b *testing.B) {
	e := mustParse(b, "(1 + 2) * (3 + 4) + 5 * 6 == 51")
	for b.Loop() {
		_, _ = msd.Run(e)
	}
}

// BenchmarkParse measures parsing the factorial program.
func BenchmarkParse(b *testing.B) {
	for b.Loop() {
		_, _ = msd.Parse(factorialSrc)
	}
}

// BenchmarkPrettyPrint measures layout of the factorial program.
func BenchmarkPrettyPrint(b *testing.B) {
	e := mustParse(b, factorialSrc)
	for b.Loop() {
		_ = msd.PrettyPrint(e)
	}
}
