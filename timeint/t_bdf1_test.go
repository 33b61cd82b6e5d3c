// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timeint

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/stretchr/testify/require"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// decay implements the residual of du/dt = -k u^p for a few unknowns
type decay struct {
	k, p  float64   // coefficient and power
	dfdu  []float64 // derivative of residual
	fail  error     // returned by Residual if not nil
	calls int       // number of residual evaluations
}

func (o *decay) Residual(tOld, tNew float64, uOld, uNew, f *pk.TreeVector) error {
	o.calls++
	if o.fail != nil {
		return o.fail
	}
	h := tNew - tOld
	for i, u := range uNew.Data {
		f.Data[i] = (u-uOld.Data[i])/h + o.k*math.Pow(u, o.p)
	}
	return nil
}

func (o *decay) UpdatePreconditioner(t float64, u *pk.TreeVector, h float64) error {
	o.dfdu = make([]float64, len(u.Data))
	for i, v := range u.Data {
		o.dfdu[i] = 1/h + o.k*o.p*math.Pow(v, o.p-1)
	}
	return nil
}

func (o *decay) ApplyPreconditioner(u, Pu *pk.TreeVector) error {
	for i := range u.Data {
		Pu.Data[i] = u.Data[i] / o.dfdu[i]
	}
	return nil
}

func (o *decay) ErrorNorm(u, du *pk.TreeVector) float64 {
	return pk.ErrorNorm(u, du, "u", 1e-10, 1e-10)
}

// vectors returns uOld and uNew with the initial values
func vectors(tst *testing.T, vals ...float64) (uOld, uNew *pk.TreeVector) {
	l := pk.NewLayout()
	_, err := l.Register("u", len(vals))
	require.NoError(tst, err)
	uOld = pk.NewTreeVector(l)
	copy(uOld.Data, vals)
	return uOld, uOld.Clone()
}

func Test_bdf01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bdf01. linear decay")

	fn := &decay{k: 2, p: 1}
	o, err := NewBDF1(fn, nil, zerolog.Nop())
	require.NoError(tst, err)
	uOld, uNew := vectors(tst, 1, 3)
	ok, err := o.Step(0, 0.5, uOld, uNew)
	require.NoError(tst, err)
	require.True(tst, ok)
	chk.Array(tst, "u", 1e-14, uNew.Data, []float64{0.5, 1.5})
	chk.Int(tst, "nits", o.Iterations(), 2)

	// non-positive step
	_, err = o.Step(1, 1, uOld, uNew)
	require.True(tst, state.IsConfig(err))
}

func Test_bdf02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bdf02. nonlinear decay and failures")

	// converged: residual vanishes
	fn := &decay{k: 1, p: 2}
	o, err := NewBDF1(fn, nil, zerolog.Nop())
	require.NoError(tst, err)
	uOld, uNew := vectors(tst, 1)
	ok, err := o.Step(0, 1, uOld, uNew)
	require.NoError(tst, err)
	require.True(tst, ok)
	chk.Float64(tst, "u", 1e-12, uNew.Data[0], (math.Sqrt(5)-1)/2)

	// too few iterations
	o, err = NewBDF1(fn, inp.ParameterList{"limit iterations": 1}, zerolog.Nop())
	require.NoError(tst, err)
	uOld, uNew = vectors(tst, 1)
	ok, err = o.Step(0, 1, uOld, uNew)
	require.NoError(tst, err)
	require.False(tst, ok)

	// errors are passed on
	fn.fail = state.ConsistencyErr("bad mesh")
	_, err = o.Step(0, 1, uOld, uNew)
	require.True(tst, state.IsConsistency(err))

	// bad parameters
	_, err = NewBDF1(fn, inp.ParameterList{"nonlinear tolerance": 0.0}, zerolog.Nop())
	require.Error(tst, err)
}

func Test_control01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("control01")

	o, err := NewController(inp.ParameterList{"min iterations": 3, "max iterations": 6, "max time step": 2.0})
	require.NoError(tst, err)
	chk.Float64(tst, "easy", 1e-15, o.Next(1, 2), 1.25)
	chk.Float64(tst, "normal", 1e-15, o.Next(1, 4), 1)
	chk.Float64(tst, "hard", 1e-15, o.Next(1, 7), 0.5)
	chk.Float64(tst, "max", 1e-15, o.Next(1.9, 1), 2)
	chk.Float64(tst, "failed", 1e-15, o.Failed(1), 0.5)

	o, err = NewController(inp.ParameterList{"type": "fixed"})
	require.NoError(tst, err)
	chk.Float64(tst, "fixed", 1e-15, o.Next(1, 100), 1)

	_, err = NewController(inp.ParameterList{"type": "adaptive"})
	require.True(tst, state.IsConfig(err))
	_, err = NewController(inp.ParameterList{"time step reduction factor": 1.5})
	require.Error(tst, err)
}
