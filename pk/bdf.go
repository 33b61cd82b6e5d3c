// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pk

import (
	"github.com/saubhagya-gatech/ats/state"
)

// Integrator advances the solution of a residual function by one step
//  Note: ok == false means the step failed (e.g. nonconvergence); uNew is then undefined
type Integrator interface {
	Step(tOld, tNew float64, uOld, uNew *TreeVector) (ok bool, err error) // solves for uNew
	Iterations() int                                                      // number of iterations of the last step
}

// StepController computes the next time step from the performance of the last one
type StepController interface {
	Next(dt float64, nits int) float64 // after success with nits iterations
	Failed(dt float64) float64         // after failure
}

// BDF advances implicit kernels with an Integrator
//  Note: the layout is built on the first call to Advance and reused afterwards
type BDF struct {
	Integrator Integrator     // nonlinear solver
	Control    StepController // time step control
	layout     *Layout        // layout of the kernel's own solution
}

// Advance advances k from tOld to tNew
//  Output:
//   ok     -- step succeeded; otherwise the primary fields of Snew are restored
//   dtNext -- suggested next time step
//  Note: non-fatal errors raised while solving count as failures
func (o *BDF) Advance(k Implicit, Sold, Snew *state.State, tOld, tNew float64) (ok bool, dtNext float64, err error) {

	// check
	dt := tNew - tOld
	if dt <= 0 {
		return false, 0, state.ConfigErr("%s: time step must be positive: t_old=%g, t_new=%g", k.Name(), tOld, tNew)
	}

	// layout
	if o.layout == nil {
		o.layout = NewLayout()
		if err = k.SolutionLayout(o.layout); err != nil {
			return
		}
	}

	// initial values
	uOld := NewTreeVector(o.layout)
	uNew := NewTreeVector(o.layout)
	if err = k.StateToSolution(Sold, uOld); err != nil {
		return
	}
	if err = k.StateToSolution(Snew, uNew); err != nil {
		return
	}
	u0 := uNew.Clone()

	// solve
	ok, err = o.Integrator.Step(tOld, tNew, uOld, uNew)
	if err != nil {
		if state.IsFatal(err) {
			return false, 0, err
		}
		ok, err = false, nil
	}

	// failure: restore
	if !ok {
		if err = k.SolutionToState(u0, Snew); err != nil {
			return
		}
		return false, o.Control.Failed(dt), nil
	}

	// success
	if err = k.SolutionToState(uNew, Snew); err != nil {
		return
	}
	return true, o.Control.Next(dt, o.Integrator.Iterations()), nil
}

// Iterations returns the number of iterations of the last step; zero before the first one
func (o *BDF) Iterations() int {
	if o.Integrator == nil {
		return 0
	}
	return o.Integrator.Iterations()
}
