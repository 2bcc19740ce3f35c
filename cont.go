// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

// Cont is a reified continuation: "what to do with the value produced so far".
// Continuations form a linked stack through their Rest fields, ending at [Done].
// That stack replaces the host call stack in the [Machine].
//
// Cont is a pure marker interface; the machine dispatches with a type switch
// over the frame types in frame.go.
type Cont interface {
	cont() // unexported marker method
}

// DoneCont is the terminal continuation: nothing is left to do.
// Continuing with a value under DoneCont ends evaluation with that value.
type DoneCont struct{}

func (DoneCont) cont() {}

// Done is the shared terminal continuation.
var Done Cont = DoneCont{}

// Depth returns the number of frames in c before reaching [Done].
func Depth(c Cont) int {
	n := 0
	for {
		switch f := c.(type) {
		case DoneCont:
			return n
		case *EvalAddRHS:
			c = f.Rest
		case *AddResult:
			c = f.Rest
		case *EvalMultRHS:
			c = f.Rest
		case *MultResult:
			c = f.Rest
		case *EvalEqRHS:
			c = f.Rest
		case *EqResult:
			c = f.Rest
		case *ChooseBranch:
			c = f.Rest
		case *BindLetBody:
			c = f.Rest
		case *EvalCallArg:
			c = f.Rest
		case *ApplyCall:
			c = f.Rest
		default:
			panic("msd: unknown continuation type")
		}
		n++
	}
}
