// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import "github.com/saubhagya-gatech/ats/inp"

// Primary is the evaluator of a field advanced by a process kernel
//  Note: the kernel calls SetFieldChanged after writing into the field
type Primary struct {
	Key string // key of field
	tracker
}

// NewPrimary returns a new primary evaluator
func NewPrimary(key string) *Primary {
	return &Primary{Key: key, tracker: tracker{generation: 1}}
}

// Keys returns the key of the field
func (o *Primary) Keys() []string { return []string{o.Key} }

// Dependencies returns nil
func (o *Primary) Dependencies() []string { return nil }

// HasFieldChanged tells whether request has not yet seen the current value
func (o *Primary) HasFieldChanged(S *State, request string) (bool, error) {
	return o.saw(request), nil
}

// SetFieldChanged marks the value as new for all requesters
func (o *Primary) SetFieldChanged() { o.generation++ }

// EnsureCompatibility requires the field (the owner is set by the process kernel)
func (o *Primary) EnsureCompatibility(S *State) (err error) {
	_, err = S.RequireField(o.Key, "")
	return
}

// Derivative returns ones for wrt == key
func (o *Primary) Derivative(S *State, key, wrt string) (*CompositeVector, error) {
	if key != o.Key || wrt != o.Key {
		return nil, ConfigErr("primary variable %q does not depend on %q", o.Key, wrt)
	}
	res := S.fields[o.Key].data.Clone()
	res.PutScalar(1)
	return res, nil
}

// Clone returns a copy with fresh bookkeeping
func (o *Primary) Clone() Evaluator { return NewPrimary(o.Key) }

// Signal is a graph node without a field; e.g. "deformation" telling that the mesh moved
type Signal struct {
	Key string // name of signal
	tracker
}

// NewSignal returns a new signal
func NewSignal(key string) *Signal {
	return &Signal{Key: key, tracker: tracker{generation: 1}}
}

// Keys returns the name of the signal
func (o *Signal) Keys() []string { return []string{o.Key} }

// Dependencies returns nil
func (o *Signal) Dependencies() []string { return nil }

// HasFieldChanged tells whether request has not yet seen the latest signal
func (o *Signal) HasFieldChanged(S *State, request string) (bool, error) {
	return o.saw(request), nil
}

// SetFieldChanged raises the signal
func (o *Signal) SetFieldChanged() { o.generation++ }

// EnsureCompatibility does nothing: a signal has no field
func (o *Signal) EnsureCompatibility(S *State) error { return nil }

// Clone returns a copy with fresh bookkeeping
func (o *Signal) Clone() Evaluator { return NewSignal(o.Key) }

// independent computes a field once from constant or per-region values
type independent struct {
	NoDerivative
	key   string
	plist inp.ParameterList
}

// NewIndependent returns an evaluator that sets key from plist on first request
//  Note: see Field.Initialize for the recognised parameters
func NewIndependent(key string, plist inp.ParameterList) *Secondary {
	return NewSecondary([]string{key}, nil, &independent{key: key, plist: plist}, plist)
}

// EvaluateField sets the values
func (o *independent) EvaluateField(S *State, results []*CompositeVector) (err error) {
	f := S.fields[o.key]
	f.Initialized = false
	if err = f.Initialize(o.plist); err != nil {
		return
	}
	if !f.Initialized {
		return ConfigErr("independent variable %q: neither \"value\", \"constant <name>\" nor \"regions\" was given", o.key)
	}
	return
}
