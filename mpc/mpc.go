// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mpc implements couplers of process kernels
package mpc

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
)

// MPC implements the parts of couplers common to all strategies
//  Parameters:
//   "PKs order"   -- names of children; each one has a sublist with its own parameters
//   "domain name" = "domain"
//  Note: children are advanced, set up and committed in the order of "PKs order"
type MPC struct {
	PKName     string             // name of coupler
	DomainName string             // name of domain
	Plist      inp.ParameterList  // parameters
	Log        zerolog.Logger     // logger
	Children   []pk.ProcessKernel // sub kernels
	Sold       *state.State       // old time level
	Snew       *state.State       // new time level
}

// NewMPC allocates the children listed in "PKs order"
func NewMPC(name string, plist inp.ParameterList, log zerolog.Logger) (o *MPC, err error) {
	o = &MPC{PKName: name, Plist: plist, Log: log}
	if o.DomainName, err = plist.GetString("domain name", state.DefaultDomain); err != nil {
		return nil, err
	}
	names, err := plist.GetStrings("PKs order", nil)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, state.ConfigErr("%s: \"PKs order\" must list at least one kernel", name)
	}
	for _, child := range names {
		if !plist.IsSublist(child) {
			return nil, state.ConfigErr("%s: kernel %q listed in \"PKs order\" has no parameters", name, child)
		}
		var sub inp.ParameterList
		if sub, err = plist.Sublist(child); err != nil {
			return nil, err
		}
		var k pk.ProcessKernel
		if k, err = pk.New(child, sub, log); err != nil {
			return nil, err
		}
		o.Children = append(o.Children, k)
	}
	return
}

// Name returns the name of coupler
func (o *MPC) Name() string { return o.PKName }

// Domain returns the name of domain
func (o *MPC) Domain() string { return o.DomainName }

// Setup sets up all children
func (o *MPC) Setup(S *state.State) (err error) {
	for _, k := range o.Children {
		if err = k.Setup(S); err != nil {
			return
		}
	}
	return
}

// Initialize initializes all children
func (o *MPC) Initialize(S *state.State) (err error) {
	for _, k := range o.Children {
		if err = k.Initialize(S); err != nil {
			return
		}
	}
	return
}

// SetStates sets the time levels of o and all children
func (o *MPC) SetStates(Sold, Snew *state.State) {
	o.Sold, o.Snew = Sold, Snew
	for _, k := range o.Children {
		k.SetStates(Sold, Snew)
	}
}

// GetTimeStep returns the minimum time step of children
func (o *MPC) GetTimeStep() float64 {
	dt := math.Inf(1)
	for _, k := range o.Children {
		dt = math.Min(dt, k.GetTimeStep())
	}
	return dt
}

// CommitState commits all children
func (o *MPC) CommitState(dt float64, S *state.State) (err error) {
	for _, k := range o.Children {
		if err = k.CommitState(dt, S); err != nil {
			return
		}
	}
	return
}

// CalculateDiagnostics computes the diagnostics of all children
func (o *MPC) CalculateDiagnostics(S *state.State) (err error) {
	for _, k := range o.Children {
		if err = k.CalculateDiagnostics(S); err != nil {
			return
		}
	}
	return
}

// SolutionLayout registers the children one after another and the group of o around them
func (o *MPC) SolutionLayout(l *pk.Layout) (err error) {
	start := l.Size()
	for _, k := range o.Children {
		if err = k.SolutionLayout(l); err != nil {
			return
		}
	}
	return l.RegisterGroup(o.PKName, start)
}

// StateToSolution copies the fields of all children into u
func (o *MPC) StateToSolution(S *state.State, u *pk.TreeVector) (err error) {
	for _, k := range o.Children {
		if err = k.StateToSolution(S, u); err != nil {
			return
		}
	}
	return
}

// SolutionToState copies u into the fields of all children
func (o *MPC) SolutionToState(u *pk.TreeVector, S *state.State) (err error) {
	for _, k := range o.Children {
		if err = k.SolutionToState(u, S); err != nil {
			return
		}
	}
	return
}

// Child returns the child named name; nil if not found
func (o *MPC) Child(name string) pk.ProcessKernel {
	for _, k := range o.Children {
		if k.Name() == name {
			return k
		}
	}
	return nil
}

// SubPKs returns the children in the order of "PKs order"
func (o *MPC) SubPKs() []pk.ProcessKernel { return o.Children }
