// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreten

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/saubhagya-gatech/ats/inp"
)

// VanGen implements van Genuchten's model with Mualem's relative permeability
//  Parameters:
//   "alpha" [1/Pa], "n" (or "m" with m = 1 - 1/n), "l" = 0.5, "residual saturation" = 0
//   "smoothing interval width" pc0 [Pa]: kr is a cubic in [0, pc0] matching value and slope at pc0
type VanGen struct {

	// parameters
	Alp float64 // α
	N   float64 // n
	M   float64 // m
	L   float64 // l (Mualem)
	Sr  float64 // residual saturation
	Pc0 float64 // regularisation threshold for kr

	// derived
	a, b float64 // coefficients of kr = 1 + a pc² + b pc³ for pc < pc0
}

// add model to factory
func init() {
	allocators["van Genuchten"] = func() Model { return new(VanGen) }
}

// Init initialises model
func (o *VanGen) Init(prms inp.ParameterList) (err error) {
	err = prms.ReadReals(
		inp.Real{Ptr: &o.Alp, Key: "alpha"},
		inp.Real{Ptr: &o.L, Key: "l", Dflt: 0.5},
		inp.Real{Ptr: &o.Sr, Key: "residual saturation"},
		inp.Real{Ptr: &o.Pc0, Key: "smoothing interval width"},
	)
	if err != nil {
		return
	}
	switch {
	case prms.IsParameter("n"):
		if o.N, err = prms.GetFloat("n", 0); err != nil {
			return
		}
		o.M = 1.0 - 1.0/o.N
	case prms.IsParameter("m"):
		if o.M, err = prms.GetFloat("m", 0); err != nil {
			return
		}
		o.N = 1.0 / (1.0 - o.M)
	default:
		return chk.Err("van Genuchten: either \"n\" or \"m\" must be given")
	}
	if o.Alp <= 0 || o.N <= 1 {
		return chk.Err("van Genuchten: invalid parameters: alpha=%g n=%g", o.Alp, o.N)
	}
	if o.Sr < 0 || o.Sr >= 1 {
		return chk.Err("van Genuchten: residual saturation must be in [0,1); %g is invalid", o.Sr)
	}
	if o.Pc0 > 0 {
		k0 := o.krel(o.Pc0)
		dk0 := o.dkrel(o.Pc0)
		o.a = (3.0*(k0-1.0) - dk0*o.Pc0) / (o.Pc0 * o.Pc0)
		o.b = (dk0*o.Pc0 - 2.0*(k0-1.0)) / (o.Pc0 * o.Pc0 * o.Pc0)
	}
	return
}

// ResidualSaturation returns sr
func (o VanGen) ResidualSaturation() float64 { return o.Sr }

// Saturation computes sl(pc)
func (o VanGen) Saturation(pc float64) float64 {
	if pc <= 0 {
		return 1
	}
	return o.Sr + (1.0-o.Sr)*o.se(pc)
}

// DSaturation computes dsl/dpc
func (o VanGen) DSaturation(pc float64) float64 {
	if pc <= 0 {
		return 0
	}
	return (1.0 - o.Sr) * o.dse(pc)
}

// KRelative computes kr(pc)
func (o VanGen) KRelative(pc float64) float64 {
	switch {
	case pc <= 0:
		return 1
	case pc < o.Pc0:
		return 1.0 + o.a*pc*pc + o.b*pc*pc*pc
	}
	return o.krel(pc)
}

// DKRelative computes dkr/dpc
func (o VanGen) DKRelative(pc float64) float64 {
	switch {
	case pc <= 0:
		return 0
	case pc < o.Pc0:
		return 2.0*o.a*pc + 3.0*o.b*pc*pc
	}
	return o.dkrel(pc)
}

// CapillaryPressure computes pc(sl)
func (o VanGen) CapillaryPressure(sl float64) float64 {
	se := (sl - o.Sr) / (1.0 - o.Sr)
	if se >= 1 {
		return 0
	}
	se = math.Max(se, 1e-15)
	return math.Pow(math.Pow(se, -1.0/o.M)-1.0, 1.0/o.N) / o.Alp
}

// se computes the effective saturation
func (o VanGen) se(pc float64) float64 {
	return math.Pow(1.0+math.Pow(o.Alp*pc, o.N), -o.M)
}

// dse computes dse/dpc
func (o VanGen) dse(pc float64) float64 {
	αpc := o.Alp * pc
	return -o.M * o.N * o.Alp * math.Pow(αpc, o.N-1.0) * math.Pow(1.0+math.Pow(αpc, o.N), -o.M-1.0)
}

// krel computes Mualem's kr without regularisation
func (o VanGen) krel(pc float64) float64 {
	se := o.se(pc)
	f := 1.0 - math.Pow(1.0-math.Pow(se, 1.0/o.M), o.M)
	return math.Pow(se, o.L) * f * f
}

// dkrel computes dkr/dpc without regularisation
func (o VanGen) dkrel(pc float64) float64 {
	se := o.se(pc)
	if se <= 0 {
		return 0
	}
	g := 1.0 - math.Pow(se, 1.0/o.M)
	f := 1.0 - math.Pow(g, o.M)
	dfdse := math.Pow(g, o.M-1.0) * math.Pow(se, 1.0/o.M-1.0)
	dkdse := o.L*math.Pow(se, o.L-1.0)*f*f + math.Pow(se, o.L)*2.0*f*dfdse
	return dkdse * o.dse(pc)
}
