// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package pk defines process kernels and the contract of implicit residual functions
package pk

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/state"
)

// ProcessKernel defines a physics solver advancing its own fields
//  Life cycle: Setup -> Initialize -> { SetStates -> GetTimeStep -> AdvanceStep -> CommitState -> CalculateDiagnostics }
//  Note: AdvanceStep returns ok == false for a recoverable physics failure, leaving its
//        fields as they were before the call; err != nil is fatal
type ProcessKernel interface {
	Name() string                                        // unique name of kernel
	Domain() string                                      // name of domain (mesh) the kernel lives on
	Setup(S *state.State) error                          // requires fields and evaluators
	Initialize(S *state.State) error                     // sets initial values of owned fields
	SetStates(Sold, Snew *state.State)                   // sets the time levels used by AdvanceStep
	GetTimeStep() float64                                // largest step currently tolerated
	AdvanceStep(tOld, tNew float64) (ok bool, err error) // advances Snew from tOld to tNew
	CommitState(dt float64, S *state.State) error        // bookkeeping after a successful step
	CalculateDiagnostics(S *state.State) error           // diagnostics after a successful step
	SolutionLayout(l *Layout) error                      // registers the slices of the solution vector
	StateToSolution(S *state.State, u *TreeVector) error // copies owned fields into u
	SolutionToState(u *TreeVector, S *state.State) error // copies u into owned fields
}

// ResidualFunction defines the contract of kernels taking part in an implicit solve
type ResidualFunction interface {
	Residual(tOld, tNew float64, uOld, uNew, f *TreeVector) error // f := residual of uNew
	ApplyPreconditioner(u, Pu *TreeVector) error                    // Pu := P⁻¹ u
	UpdatePreconditioner(t float64, u *TreeVector, h float64) error // refreshes P at u with step h
	ErrorNorm(u, du *TreeVector) float64                            // weighted norm of du; converged if < 1
}

// Implicit is implemented by kernels that can be advanced by an implicit solver
type Implicit interface {
	ProcessKernel
	ResidualFunction
}

// Maker allocates a process kernel
type Maker func(name string, plist inp.ParameterList, log zerolog.Logger) (ProcessKernel, error)

// allocators holds all available kernels; type => maker
var allocators = make(map[string]Maker)

// Register makes a kernel type available through the "PK type" parameter
func Register(typ string, maker Maker) {
	if _, ok := allocators[typ]; ok {
		chk.Panic("PK type %q is already registered", typ)
	}
	allocators[typ] = maker
}

// New allocates the kernel named name according to "PK type"
func New(name string, plist inp.ParameterList, log zerolog.Logger) (ProcessKernel, error) {
	typ, err := plist.GetString("PK type", "")
	if err != nil {
		return nil, err
	}
	maker, ok := allocators[typ]
	if !ok {
		return nil, state.ConfigErr("cannot find PK type %q for %q. available types: %v", typ, name, Types())
	}
	return maker(name, plist, log.With().Str("pk", name).Logger())
}

// Types returns the sorted names of registered kernel types
func Types() (types []string) {
	for typ := range allocators {
		types = append(types, typ)
	}
	sort.Strings(types)
	return
}
