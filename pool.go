// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

import "sync"

// Frame pools for the continuation frames the Machine allocates.
// A frame is released right after its resume logic has read it, zeroing all
// fields. This requires affine (at-most-once) consumption, which the
// machine guarantees: a frame is referenced only by the machine state or by
// the single frame stacked above it, and nothing in the language captures
// a continuation.

type framePool[F any] struct {
	p sync.Pool
}

func (fp *framePool[F]) acquire() *F {
	if f, ok := fp.p.Get().(*F); ok {
		return f
	}
	return new(F)
}

func (fp *framePool[F]) release(f *F) {
	var zero F
	*f = zero
	fp.p.Put(f)
}

var (
	evalAddRHSPool   framePool[EvalAddRHS]
	addResultPool    framePool[AddResult]
	evalMultRHSPool  framePool[EvalMultRHS]
	multResultPool   framePool[MultResult]
	evalEqRHSPool    framePool[EvalEqRHS]
	eqResultPool     framePool[EqResult]
	chooseBranchPool framePool[ChooseBranch]
	bindLetBodyPool  framePool[BindLetBody]
	evalCallArgPool  framePool[EvalCallArg]
	applyCallPool    framePool[ApplyCall]
)

// releaseChain returns every frame of c to its pool.
// Used when a run stops early and its pending frames will never resume.
func releaseChain(c Cont) {
	for {
		switch f := c.(type) {
		case *EvalAddRHS:
			c = f.Rest
			evalAddRHSPool.release(f)
		case *AddResult:
			c = f.Rest
			addResultPool.release(f)
		case *EvalMultRHS:
			c = f.Rest
			evalMultRHSPool.release(f)
		case *MultResult:
			c = f.Rest
			multResultPool.release(f)
		case *EvalEqRHS:
			c = f.Rest
			evalEqRHSPool.release(f)
		case *EqResult:
			c = f.Rest
			eqResultPool.release(f)
		case *ChooseBranch:
			c = f.Rest
			chooseBranchPool.release(f)
		case *BindLetBody:
			c = f.Rest
			bindLetBodyPool.release(f)
		case *EvalCallArg:
			c = f.Rest
			evalCallArgPool.release(f)
		case *ApplyCall:
			c = f.Rest
			applyCallPool.release(f)
		default:
			return
		}
	}
}
