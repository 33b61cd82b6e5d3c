// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/saubhagya-gatech/ats/inp"
)

// Evaluator is a node of the dependency graph that provides one or more fields
type Evaluator interface {
	Keys() []string                                         // keys of fields provided by this evaluator
	Dependencies() []string                                 // keys this evaluator depends on
	HasFieldChanged(S *State, request string) (bool, error) // updates if needed and tells whether request has not yet seen the current value
	EnsureCompatibility(S *State) error                     // requires own fields and negotiates their structure
	Clone() Evaluator                                       // copy for another State, with fresh bookkeeping
}

// Differentiable is implemented by evaluators able to compute partial derivatives
// of their fields with respect to one of their dependencies
type Differentiable interface {
	Derivative(S *State, key, wrt string) (*CompositeVector, error)
}

// Changeable is implemented by evaluators whose value is changed by a process kernel
type Changeable interface {
	SetFieldChanged()
}

// EvaluatorMaker allocates an evaluator of key from its parameters
type EvaluatorMaker func(key string, plist inp.ParameterList) (Evaluator, error)

// evaluatorallocators holds all available evaluators; type name => maker
var evaluatorallocators = make(map[string]EvaluatorMaker)

// RegisterEvaluator makes an evaluator type available through the "field evaluator type" parameter
func RegisterEvaluator(typ string, maker EvaluatorMaker) {
	if _, ok := evaluatorallocators[typ]; ok {
		chk.Panic("evaluator type %q is already registered", typ)
	}
	evaluatorallocators[typ] = maker
}

// newEvaluatorFrom allocates the evaluator of key from its block in fe
func newEvaluatorFrom(fe inp.ParameterList, key string) (Evaluator, error) {
	plist, err := fe.Sublist(key)
	if err != nil {
		return nil, err
	}
	return NewEvaluator(key, plist)
}

// NewEvaluator allocates a new evaluator of key according to "field evaluator type"
func NewEvaluator(key string, plist inp.ParameterList) (Evaluator, error) {
	typ, err := plist.GetString("field evaluator type", "")
	if err != nil {
		return nil, err
	}
	maker, ok := evaluatorallocators[typ]
	if !ok {
		return nil, ConfigErr("cannot find evaluator type %q for field %q. available types: %v", typ, key, EvaluatorTypes())
	}
	return maker(key, plist)
}

// EvaluatorTypes returns the sorted names of registered evaluator types
func EvaluatorTypes() (types []string) {
	for typ := range evaluatorallocators {
		types = append(types, typ)
	}
	sort.Strings(types)
	return
}

// set factories
func init() {
	RegisterEvaluator("primary variable", func(key string, plist inp.ParameterList) (Evaluator, error) {
		return NewPrimary(key), nil
	})
	RegisterEvaluator("independent variable", func(key string, plist inp.ParameterList) (Evaluator, error) {
		return NewIndependent(key, plist), nil
	})
	RegisterEvaluator("signal", func(key string, plist inp.ParameterList) (Evaluator, error) {
		return NewSignal(key), nil
	})
}
