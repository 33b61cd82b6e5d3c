// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreten

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/saubhagya-gatech/ats/inp"
)

// BrooksCorey implements Brooks and Corey's model with Burdine's relative permeability
//  Parameters:
//   "lambda", "air entry pressure" pb [Pa], "residual saturation" = 0
type BrooksCorey struct {
	Lam float64 // λ: pore size distribution index
	Pb  float64 // air entry pressure
	Sr  float64 // residual saturation
}

// add model to factory
func init() {
	allocators["Brooks Corey"] = func() Model { return new(BrooksCorey) }
}

// Init initialises model
func (o *BrooksCorey) Init(prms inp.ParameterList) (err error) {
	err = prms.ReadReals(
		inp.Real{Ptr: &o.Lam, Key: "lambda"},
		inp.Real{Ptr: &o.Pb, Key: "air entry pressure"},
		inp.Real{Ptr: &o.Sr, Key: "residual saturation"},
	)
	if err != nil {
		return
	}
	if o.Lam <= 0 || o.Pb <= 0 {
		return chk.Err("Brooks Corey: invalid parameters: lambda=%g air entry pressure=%g", o.Lam, o.Pb)
	}
	if o.Sr < 0 || o.Sr >= 1 {
		return chk.Err("Brooks Corey: residual saturation must be in [0,1); %g is invalid", o.Sr)
	}
	return
}

// ResidualSaturation returns sr
func (o BrooksCorey) ResidualSaturation() float64 { return o.Sr }

// Saturation computes sl(pc)
func (o BrooksCorey) Saturation(pc float64) float64 {
	if pc <= o.Pb {
		return 1
	}
	return o.Sr + (1.0-o.Sr)*math.Pow(pc/o.Pb, -o.Lam)
}

// DSaturation computes dsl/dpc
func (o BrooksCorey) DSaturation(pc float64) float64 {
	if pc <= o.Pb {
		return 0
	}
	return -(1.0 - o.Sr) * o.Lam / o.Pb * math.Pow(pc/o.Pb, -o.Lam-1.0)
}

// KRelative computes kr(pc) = se^((2+3λ)/λ)
func (o BrooksCorey) KRelative(pc float64) float64 {
	if pc <= o.Pb {
		return 1
	}
	return math.Pow(pc/o.Pb, -(2.0 + 3.0*o.Lam))
}

// DKRelative computes dkr/dpc
func (o BrooksCorey) DKRelative(pc float64) float64 {
	if pc <= o.Pb {
		return 0
	}
	η := 2.0 + 3.0*o.Lam
	return -η / o.Pb * math.Pow(pc/o.Pb, -η-1.0)
}

// CapillaryPressure computes pc(sl)
func (o BrooksCorey) CapillaryPressure(sl float64) float64 {
	se := (sl - o.Sr) / (1.0 - o.Sr)
	if se >= 1 {
		return o.Pb
	}
	se = math.Max(se, 1e-15)
	return o.Pb * math.Pow(se, -1.0/o.Lam)
}
