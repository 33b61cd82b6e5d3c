// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mporous

import "github.com/cpmech/gosl/chk"

// Model holds the equations of state of both fluid phases
type Model struct {
	Liq Liquid // liquid
	Gas Vapor  // gas
}

// State holds the fluid properties at one cell
type State struct {
	RhoL  float64 // 1 mass density of liquid
	NL    float64 // 2 molar density of liquid
	MuL   float64 // 3 viscosity of liquid
	Xgas  float64 // 4 molar fraction of vapor in gas
	NG    float64 // 5 molar density of gas
	RhoG  float64 // 6 mass density of gas
	DrhoL float64 // 7 dρl/dp
}

// GetCopy returns a copy of State
func (o State) GetCopy() *State {
	return &State{
		o.RhoL,  // 1
		o.NL,    // 2
		o.MuL,   // 3
		o.Xgas,  // 4
		o.NG,    // 5
		o.RhoG,  // 6
		o.DrhoL, // 7
	}
}

// Update computes all fluid properties at temperature T, liquid pressure p and atmospheric pressure patm
func (o Model) Update(res *State, T, p, patm float64) (err error) {

	// liquid
	res.RhoL = o.Liq.MassDensity(T, p)
	res.NL = res.RhoL / o.Liq.M
	res.DrhoL = o.Liq.DMassDensityDp(T, p)
	res.MuL, err = o.Liq.Viscosity(T)
	if err != nil {
		return
	}

	// gas
	if patm <= 0 {
		return chk.Err("atmospheric pressure must be positive; %g is invalid", patm)
	}
	psat, err := o.Gas.SaturatedVaporPressure(T)
	if err != nil {
		return
	}
	res.Xgas = psat / patm
	res.NG = o.Gas.MolarDensity(T, patm)
	res.RhoG = o.Gas.MolarMass(res.Xgas) * res.NG
	return
}
