// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package relations implements evaluators of secondary variables computed from
// mesh geometry and closure laws
//  Each evaluator registers itself with state.RegisterEvaluator; keys default to
//  the variable names below prefixed by the domain of the key being built
package relations

import (
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/state"
)

// default atmospheric pressure [Pa]
const patmDefault = 101325.0

// reader reads the parameters of an evaluator and keeps the first error
type reader struct {
	plist  inp.ParameterList // parameters of evaluator
	domain string            // domain of the key being built
	err    error             // first error
}

// newReader returns a reader of parameters with keys defaulting to the domain of key
func newReader(plist inp.ParameterList, key string) *reader {
	return &reader{plist: plist, domain: state.GetDomain(key)}
}

// key returns the key given by param; default is variable in the domain
func (o *reader) key(param, variable string) string {
	return o.str(param, state.GetKey(o.domain, variable))
}

// str returns a string parameter
func (o *reader) str(param, dflt string) (s string) {
	if o.err == nil {
		s, o.err = o.plist.GetString(param, dflt)
	}
	return
}

// flag returns a boolean parameter
func (o *reader) flag(param string, dflt bool) (b bool) {
	if o.err == nil {
		b, o.err = o.plist.GetBool(param, dflt)
	}
	return
}

// sublist returns a sublist; empty if absent
func (o *reader) sublist(param string) (l inp.ParameterList) {
	if o.err == nil {
		l, o.err = o.plist.Sublist(param)
	}
	if l == nil {
		l = inp.ParameterList{}
	}
	return
}

// cellValues returns the current cell values of key
func cellValues(S *state.State, key string) ([]float64, error) {
	cv, err := S.GetFieldData(key)
	if err != nil {
		return nil, err
	}
	if !cv.HasComponent("cell") {
		return nil, state.ConfigErr("field %q has no cell component", key)
	}
	return cv.Values("cell"), nil
}

// atmosphericPressure returns the "atmospheric_pressure" scalar of S or the default value
func atmosphericPressure(S *state.State) float64 {
	if p, err := S.GetScalar("atmospheric_pressure"); err == nil {
		return p
	}
	return patmDefault
}

// dependsOn returns a ConfigError if wrt is not in deps
func dependsOn(name, wrt string, deps ...string) error {
	for _, d := range deps {
		if d == wrt {
			return nil
		}
	}
	return state.ConfigErr("%s: derivative with respect to %q is not available", name, wrt)
}
