// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpc

import (
	"math"

	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/saubhagya-gatech/ats/timeint"
	"gonum.org/v1/gonum/floats"
)

func init() {
	pk.Register("strong MPC", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		return NewStrong(name, plist, log)
	})
}

// Coupling computes y += C x for a block C of the preconditioner
//  x is the slice of the column child and y the slice of the row child
type Coupling func(x, y []float64) error

// block holds an off-diagonal block of the preconditioner
type block struct {
	row, col int      // indices of children
	apply    Coupling // operator
}

// Strong solves all children together as one implicit system
//  The residual is the concatenation of the residuals of children. The preconditioner is
//   "block diagonal": each child applies its own preconditioner
//   "fully coupled":  a lower triangular sweep with the blocks given by AddCoupling
//  Parameters (besides those of MPC):
//   "preconditioner type" = "block diagonal"
//   "initial time step"   -- defaults to the minimum of children
//   "solver", "time step controller" -- see timeint
type Strong struct {
	*MPC
	pk.BDF

	implicit []pk.Implicit // children
	coupled  bool          // fully coupled preconditioner
	blocks   []block       // off-diagonal blocks
	dt       float64       // time step after the last advance; zero before
}

// NewStrong returns a new coupler of implicit kernels
func NewStrong(name string, plist inp.ParameterList, log zerolog.Logger) (o *Strong, err error) {
	base, err := NewMPC(name, plist, log)
	if err != nil {
		return
	}
	o = &Strong{MPC: base}
	if o.dt, err = plist.GetFloat("initial time step", 0); err != nil {
		return nil, err
	}
	for _, k := range o.Children {
		imp, ok := k.(pk.Implicit)
		if !ok {
			return nil, state.ConfigErr("%s: child %q cannot be solved implicitly", name, k.Name())
		}
		o.implicit = append(o.implicit, imp)
	}
	typ, err := plist.GetString("preconditioner type", "block diagonal")
	if err != nil {
		return nil, err
	}
	switch typ {
	case "block diagonal":
	case "fully coupled":
		o.coupled = true
	default:
		return nil, state.ConfigErr("%s: preconditioner type %q is not available", name, typ)
	}
	o.BDF, err = timeint.NewBDF(o, plist, log)
	return
}

// AddCoupling sets the block of the preconditioner coupling child row to child col
//  Note: only blocks below the diagonal are accepted; i.e. col must come before row
func (o *Strong) AddCoupling(row, col string, C Coupling) (err error) {
	i, j := o.index(row), o.index(col)
	if i < 0 || j < 0 {
		return state.ConfigErr("%s: cannot couple %q to %q: unknown child", o.PKName, row, col)
	}
	if j >= i {
		return state.ConfigErr("%s: cannot couple %q to %q: %q must come first in \"PKs order\"", o.PKName, row, col, col)
	}
	o.blocks = append(o.blocks, block{i, j, C})
	return
}

// GetTimeStep returns the step suggested by the controller; before the first step, the minimum of children
func (o *Strong) GetTimeStep() float64 {
	if o.dt > 0 {
		return o.dt
	}
	return o.MPC.GetTimeStep()
}

// AdvanceStep solves all children together
func (o *Strong) AdvanceStep(tOld, tNew float64) (ok bool, err error) {
	var dt float64
	ok, dt, err = o.BDF.Advance(o, o.Sold, o.Snew, tOld, tNew)
	if err != nil {
		return
	}
	o.dt = dt
	o.Log.Debug().Float64("t", tNew).Bool("ok", ok).Int("nits", o.Integrator.Iterations()).Float64("dt next", dt).Msg("advance")
	return
}

// Residual computes the residuals of all children
func (o *Strong) Residual(tOld, tNew float64, uOld, uNew, f *pk.TreeVector) (err error) {
	for _, k := range o.implicit {
		if err = k.Residual(tOld, tNew, uOld, uNew, f); err != nil {
			return
		}
	}
	return
}

// UpdatePreconditioner updates the preconditioners of all children
func (o *Strong) UpdatePreconditioner(t float64, u *pk.TreeVector, h float64) (err error) {
	for _, k := range o.implicit {
		if err = k.UpdatePreconditioner(t, u, h); err != nil {
			return
		}
	}
	return
}

// ApplyPreconditioner computes Pu := P⁻¹ u
func (o *Strong) ApplyPreconditioner(u, Pu *pk.TreeVector) (err error) {

	// block diagonal
	if !o.coupled || len(o.blocks) == 0 {
		for _, k := range o.implicit {
			if err = k.ApplyPreconditioner(u, Pu); err != nil {
				return
			}
		}
		return
	}

	// lower triangular sweep: Pu_i = P_i⁻¹ (u_i - Σ_j C_ij Pu_j)
	r := u.Clone()
	for i, k := range o.implicit {
		ri := r.Sub(k.Name())
		for _, b := range o.blocks {
			if b.row != i {
				continue
			}
			tmp := make([]float64, len(ri))
			if err = b.apply(Pu.Sub(o.implicit[b.col].Name()), tmp); err != nil {
				return
			}
			floats.Sub(ri, tmp)
		}
		if err = k.ApplyPreconditioner(r, Pu); err != nil {
			return
		}
	}
	return
}

// ErrorNorm returns the maximum error norm of children
func (o *Strong) ErrorNorm(u, du *pk.TreeVector) (res float64) {
	for _, k := range o.implicit {
		res = math.Max(res, k.ErrorNorm(u, du))
	}
	return
}

// index returns the position of child name; -1 if not found
func (o *Strong) index(name string) int {
	for i, k := range o.Children {
		if k.Name() == name {
			return i
		}
	}
	return -1
}
