// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package timeint implements the backward Euler (BDF1) nonlinear solver and time step control
package timeint

import (
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
)

// BDF1 solves the backward Euler step of a residual function with preconditioned Newton iterations
//  Parameters ("solver" sublist):
//   "nonlinear tolerance"  = 1    -- converged when the error norm of the correction is below this
//   "limit iterations"     = 20   -- max number of iterations
//   "divergence control"   = true -- stop if the error norm grows after the second iteration
type BDF1 struct {

	// input
	Fn      pk.ResidualFunction // residual function
	Tol     float64             // tolerance on ErrorNorm
	NmaxIt  int                 // max number of iterations
	DvgCtrl bool                // use divergence control
	Log     zerolog.Logger      // logger

	// auxiliary
	nits int            // number of iterations of the last step
	f    *pk.TreeVector // residual
	du   *pk.TreeVector // correction
}

// NewBDF1 returns a new solver
func NewBDF1(fn pk.ResidualFunction, plist inp.ParameterList, log zerolog.Logger) (o *BDF1, err error) {
	o = &BDF1{Fn: fn, Log: log}
	if o.Tol, err = plist.GetFloat("nonlinear tolerance", 1); err != nil {
		return nil, err
	}
	if o.NmaxIt, err = plist.GetInt("limit iterations", 20); err != nil {
		return nil, err
	}
	if o.DvgCtrl, err = plist.GetBool("divergence control", true); err != nil {
		return nil, err
	}
	if o.Tol <= 0 {
		return nil, state.ConfigErr("BDF1: nonlinear tolerance must be positive; %g is invalid", o.Tol)
	}
	if o.NmaxIt < 1 {
		return nil, state.ConfigErr("BDF1: limit iterations must be at least 1; %d is invalid", o.NmaxIt)
	}
	return
}

// Iterations returns the number of iterations of the last step
func (o *BDF1) Iterations() int { return o.nits }

// Step solves for uNew; uNew holds the initial guess on input
func (o *BDF1) Step(tOld, tNew float64, uOld, uNew *pk.TreeVector) (ok bool, err error) {

	// check
	h := tNew - tOld
	if h <= 0 {
		return false, state.ConfigErr("BDF1: time step must be positive: t_old=%g, t_new=%g", tOld, tNew)
	}

	// workspace
	if o.f == nil || o.f.Layout != uNew.Layout {
		o.f = pk.NewTreeVector(uNew.Layout)
		o.du = pk.NewTreeVector(uNew.Layout)
	}

	// iterations
	var norm, prev float64
	for o.nits = 0; o.nits < o.NmaxIt; {

		// residual
		if err = o.Fn.Residual(tOld, tNew, uOld, uNew, o.f); err != nil {
			return
		}

		// correction du := P⁻¹ f
		if err = o.Fn.UpdatePreconditioner(tNew, uNew, h); err != nil {
			return
		}
		if err = o.Fn.ApplyPreconditioner(o.f, o.du); err != nil {
			return
		}

		// update u := u - du
		uNew.Update(-1, o.du, 1)
		o.nits++

		// convergence
		norm = o.Fn.ErrorNorm(uNew, o.du)
		o.Log.Debug().Float64("t", tNew).Int("it", o.nits).Float64("norm", norm).Msg("newton")
		if norm < o.Tol {
			return true, nil
		}

		// divergence
		if o.DvgCtrl && o.nits > 2 && norm > prev {
			o.Log.Debug().Float64("t", tNew).Int("it", o.nits).Msg("iterations diverging")
			return false, nil
		}
		prev = norm
	}
	o.Log.Debug().Float64("t", tNew).Int("it", o.nits).Float64("norm", norm).Msg("max number of iterations reached")
	return false, nil
}

// NewBDF returns the implicit stepper of a kernel from its "solver" and "time step controller" sublists
func NewBDF(fn pk.ResidualFunction, plist inp.ParameterList, log zerolog.Logger) (res pk.BDF, err error) {
	slv, err := plist.Sublist("solver")
	if err != nil {
		return
	}
	if res.Integrator, err = NewBDF1(fn, slv, log); err != nil {
		return
	}
	ctrl, err := plist.Sublist("time step controller")
	if err != nil {
		return
	}
	res.Control, err = NewController(ctrl)
	return
}
