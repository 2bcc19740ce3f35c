// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package msd

// Env is a persistent chain of name-to-value bindings.
// The nil *Env is the empty environment.
//
// Frames are never mutated after creation: Extend always allocates a new
// frame in front of the receiver, so an Env may be shared by any number of
// closures and evaluations.
type Env struct {
	name   string
	value  Value
	parent *Env
}

// Empty is the environment with no bindings.
var Empty *Env

// Extend returns a new environment binding name to v in front of e.
// A binding in the new frame shadows any outer binding of the same name.
func (e *Env) Extend(name string, v Value) *Env {
	return &Env{name: name, value: v, parent: e}
}

// Lookup returns the innermost value bound to name.
// Returns a [*FreeVariableError] when no frame binds name.
func (e *Env) Lookup(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if f.name == name {
			return f.value, nil
		}
	}
	return nil, &FreeVariableError{Name: name}
}

// Len returns the number of frames in e, counting shadowed bindings.
func (e *Env) Len() int {
	n := 0
	for f := e; f != nil; f = f.parent {
		n++
	}
	return n
}
