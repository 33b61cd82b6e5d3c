// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pk

import (
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/state"
)

// Physical implements the parts of ProcessKernel common to kernels advancing one primary field
//  Parameters:
//   "domain name"       = "domain"
//   "primary variable"  = <domain>-<default given by the kernel>
//   "initial time step" = 1
//   "initial condition" -- see state.Field.Initialize
type Physical struct {

	// input
	PKName     string            // name of kernel; owner of the primary field
	DomainName string            // name of domain
	Key        string            // key of the primary field
	Plist      inp.ParameterList // parameters
	Log        zerolog.Logger    // logger

	// time levels
	Sold *state.State // old time level (read only)
	Snew *state.State // new time level

	// auxiliary
	Dt float64 // current estimate of time step
}

// NewPhysical returns a new Physical with key defaulting to variable in the domain of the kernel
func NewPhysical(name string, plist inp.ParameterList, log zerolog.Logger, variable string) (o Physical, err error) {
	o = Physical{PKName: name, Plist: plist, Log: log}
	if o.DomainName, err = plist.GetString("domain name", state.DefaultDomain); err != nil {
		return
	}
	if o.Key, err = plist.GetString("primary variable", state.GetKey(o.DomainName, variable)); err != nil {
		return
	}
	if o.Dt, err = plist.GetFloat("initial time step", 1); err != nil {
		return
	}
	if o.Dt <= 0 {
		return o, state.ConfigErr("%s: initial time step must be positive; %g is invalid", name, o.Dt)
	}
	return
}

// Name returns the name of kernel
func (o *Physical) Name() string { return o.PKName }

// Domain returns the name of domain
func (o *Physical) Domain() string { return o.DomainName }

// SetStates sets the time levels
func (o *Physical) SetStates(Sold, Snew *state.State) {
	o.Sold, o.Snew = Sold, Snew
}

// GetTimeStep returns the current estimate of time step
func (o *Physical) GetTimeStep() float64 { return o.Dt }

// Setup claims the primary field (cell component) and sets its evaluator
//  Note: primary fields are always visualized and checkpointed
func (o *Physical) Setup(S *state.State) (err error) {
	if _, err = S.RequireField(o.Key, o.PKName, state.Component{Name: "cell", Kind: mesh.CELL, Ndofs: 1}); err != nil {
		return
	}
	f, err := S.Field(o.Key)
	if err != nil {
		return
	}
	f.Vis, f.Checkpoint = true, true
	if !S.HasEvaluator(o.Key) {
		err = S.SetEvaluator(state.NewPrimary(o.Key))
	}
	return
}

// Initialize sets the primary field from "initial condition" unless it is already initialized
func (o *Physical) Initialize(S *state.State) (err error) {
	f, err := S.Field(o.Key)
	if err != nil {
		return
	}
	if !f.Initialized && o.Plist.IsSublist("initial condition") {
		var ic inp.ParameterList
		if ic, err = o.Plist.Sublist("initial condition"); err != nil {
			return
		}
		if err = f.Initialize(ic); err != nil {
			return
		}
	}
	if !f.Initialized {
		return state.ConfigErr("%s: primary variable %q has no initial condition", o.PKName, o.Key)
	}
	return S.SetFieldChanged(o.Key)
}

// CommitState does nothing
func (o *Physical) CommitState(dt float64, S *state.State) error { return nil }

// CalculateDiagnostics does nothing
func (o *Physical) CalculateDiagnostics(S *state.State) error { return nil }

// SolutionLayout registers the owned cells of the primary field
func (o *Physical) SolutionLayout(l *Layout) (err error) {
	cv, err := o.primary(o.Snew)
	if err != nil {
		return
	}
	_, err = l.Register(o.PKName, cv.SizeOwned("cell"))
	return
}

// StateToSolution copies the primary field into u
func (o *Physical) StateToSolution(S *state.State, u *TreeVector) (err error) {
	cv, err := S.GetFieldData(o.Key)
	if err != nil {
		return
	}
	copy(u.Sub(o.PKName), cv.Values("cell"))
	return
}

// SolutionToState copies u into the primary field and marks it as changed
func (o *Physical) SolutionToState(u *TreeVector, S *state.State) (err error) {
	cv, err := S.GetFieldDataW(o.Key, o.PKName)
	if err != nil {
		return
	}
	copy(cv.Values("cell"), u.Sub(o.PKName))
	return S.SetFieldChanged(o.Key)
}

// TotalDerivative computes d key / d primary variable in cells with the chain rule over the
// dependency graph
//  Output:
//   res     -- derivative; nil if key does not depend on the primary variable
//   depends -- key depends on the primary variable
func (o *Physical) TotalDerivative(S *state.State, key string) (res []float64, depends bool, err error) {

	// primary variable itself
	if key == o.Key {
		var cv *state.CompositeVector
		if cv, err = S.GetFieldData(key); err != nil {
			return
		}
		res = make([]float64, len(cv.Values("cell")))
		for c := range res {
			res[c] = 1
		}
		return res, true, nil
	}

	// sum over dependencies
	ev, err := S.GetEvaluator(key)
	if err != nil {
		return
	}
	for _, dep := range ev.Dependencies() {
		var ddep []float64
		var ok bool
		if ddep, ok, err = o.TotalDerivative(S, dep); err != nil {
			return
		}
		if !ok {
			continue
		}
		var partial *state.CompositeVector
		if partial, err = S.EvaluateDerivative(key, dep); err != nil {
			return
		}
		vals := partial.Values("cell")
		if res == nil {
			res = make([]float64, len(vals))
		}
		for c := range res {
			res[c] += vals[c] * ddep[c]
		}
		depends = true
	}
	return
}

// primary returns the data of the primary field of S
func (o *Physical) primary(S *state.State) (*state.CompositeVector, error) {
	if S == nil {
		return nil, state.ConfigErr("%s: SetStates must be called first", o.PKName)
	}
	return S.GetFieldData(o.Key)
}
