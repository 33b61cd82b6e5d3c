// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package timeint

import (
	"math"

	"github.com/cpmech/gosl/utl"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/state"
)

// Controller adapts the time step to the number of nonlinear iterations
//  Parameters ("time step controller" sublist):
//   "type"                       = "standard" or "fixed"
//   "time step increase factor"  = 1.25
//   "time step reduction factor" = 0.5
//   "min iterations"             = 5    -- increase below this
//   "max iterations"             = 10   -- reduce above this
//   "min time step"              = 0
//   "max time step"              = +Inf
type Controller struct {
	Fixed    bool    // never change the step after success
	Increase float64 // increase factor
	Reduce   float64 // reduction factor
	MinIts   int     // increase if nits < MinIts
	MaxIts   int     // reduce if nits > MaxIts
	DtMin    float64 // smallest step returned
	DtMax    float64 // largest step returned
}

// NewController returns a new controller
func NewController(plist inp.ParameterList) (o *Controller, err error) {
	o = new(Controller)
	typ, err := plist.GetString("type", "standard")
	if err != nil {
		return nil, err
	}
	switch typ {
	case "standard":
	case "fixed":
		o.Fixed = true
	default:
		return nil, state.ConfigErr("time step controller type %q is not available; use \"standard\" or \"fixed\"", typ)
	}
	for _, p := range []struct {
		val  *float64
		key  string
		dflt float64
	}{
		{&o.Increase, "time step increase factor", 1.25},
		{&o.Reduce, "time step reduction factor", 0.5},
		{&o.DtMin, "min time step", 0},
		{&o.DtMax, "max time step", math.Inf(1)},
	} {
		if *p.val, err = plist.GetFloat(p.key, p.dflt); err != nil {
			return nil, err
		}
	}
	if o.MinIts, err = plist.GetInt("min iterations", 5); err != nil {
		return nil, err
	}
	if o.MaxIts, err = plist.GetInt("max iterations", 10); err != nil {
		return nil, err
	}
	if o.Increase < 1 {
		return nil, state.ConfigErr("time step increase factor must be ≥ 1; %g is invalid", o.Increase)
	}
	if o.Reduce <= 0 || o.Reduce >= 1 {
		return nil, state.ConfigErr("time step reduction factor must be in (0,1); %g is invalid", o.Reduce)
	}
	if o.MinIts > o.MaxIts {
		return nil, state.ConfigErr("min iterations (%d) must not exceed max iterations (%d)", o.MinIts, o.MaxIts)
	}
	return
}

// Next returns the step following a success with nits iterations
func (o *Controller) Next(dt float64, nits int) float64 {
	if !o.Fixed {
		if nits > o.MaxIts {
			dt *= o.Reduce
		} else if nits < o.MinIts {
			dt *= o.Increase
		}
	}
	return o.clamp(dt)
}

// Failed returns the step following a failure
func (o *Controller) Failed(dt float64) float64 {
	return utl.Min(dt*o.Reduce, o.DtMax)
}

// clamp bounds dt by DtMin and DtMax
func (o *Controller) clamp(dt float64) float64 {
	return utl.Min(utl.Max(dt, o.DtMin), o.DtMax)
}
