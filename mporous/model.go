// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mporous implements equations of state of the pore fluids
package mporous

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/saubhagya-gatech/ats/inp"
)

// constants
const (
	R  = 8.3144621 // universal gas constant [J/(mol K)]
	Mw = 0.0180153 // molar mass of water [kg/mol]
	Ma = 0.0289647 // molar mass of dry air [kg/mol]
)

// Liquid holds the equation of state and viscosity of the liquid phase
//  Parameters:
//   "reference density" ρ0 = 1000 [kg/m³], "compressibility" Cl = 0 [1/Pa],
//   "reference pressure" p0 = 101325 [Pa], "molar mass" = Mw [kg/mol],
//   "viscosity" μ [Pa s]; if absent, μ(T) = A 10^(B/(T-C)) is used
type Liquid struct {
	Rho0  float64 // reference density
	Cl    float64 // compressibility: ρ = ρ0 (1 + Cl (p - p0))
	P0    float64 // reference pressure
	M     float64 // molar mass
	Mu    float64 // constant viscosity; zero means temperature dependent
	ViscA float64 // A of μ(T)
	ViscB float64 // B of μ(T)
	ViscC float64 // C of μ(T)
}

// Init initialises liquid model
func (o *Liquid) Init(prms inp.ParameterList) (err error) {
	err = prms.ReadReals(
		inp.Real{Ptr: &o.Rho0, Key: "reference density", Dflt: 1000},
		inp.Real{Ptr: &o.Cl, Key: "compressibility"},
		inp.Real{Ptr: &o.P0, Key: "reference pressure", Dflt: 101325},
		inp.Real{Ptr: &o.M, Key: "molar mass", Dflt: Mw},
		inp.Real{Ptr: &o.Mu, Key: "viscosity"},
		inp.Real{Ptr: &o.ViscA, Key: "viscosity A", Dflt: 2.414e-5},
		inp.Real{Ptr: &o.ViscB, Key: "viscosity B", Dflt: 247.8},
		inp.Real{Ptr: &o.ViscC, Key: "viscosity C", Dflt: 140},
	)
	if err != nil {
		return
	}
	if o.Rho0 <= 0 || o.M <= 0 || o.Cl < 0 || o.Mu < 0 {
		return chk.Err("liquid: invalid parameters: rho0=%g M=%g Cl=%g mu=%g", o.Rho0, o.M, o.Cl, o.Mu)
	}
	return
}

// MassDensity computes ρ(T, p)
func (o Liquid) MassDensity(T, p float64) float64 {
	return o.Rho0 * (1.0 + o.Cl*(p-o.P0))
}

// DMassDensityDp computes dρ/dp
func (o Liquid) DMassDensityDp(T, p float64) float64 {
	return o.Rho0 * o.Cl
}

// MolarDensity computes n = ρ/M
func (o Liquid) MolarDensity(T, p float64) float64 {
	return o.MassDensity(T, p) / o.M
}

// Viscosity computes μ(T)
func (o Liquid) Viscosity(T float64) (μ float64, err error) {
	if o.Mu > 0 {
		return o.Mu, nil
	}
	if T <= o.ViscC {
		return 0, chk.Err("liquid: temperature %g is out of the range of the viscosity model (T > %g)", T, o.ViscC)
	}
	return o.ViscA * math.Pow(10, o.ViscB/(T-o.ViscC)), nil
}

// Vapor holds the equation of state of the gas phase (air and water vapor)
//  Parameters:
//   "molar mass of air" = Ma [kg/mol]
type Vapor struct {
	Mair float64 // molar mass of dry air
}

// Init initialises vapor model
func (o *Vapor) Init(prms inp.ParameterList) (err error) {
	if o.Mair, err = prms.GetFloat("molar mass of air", Ma); err != nil {
		return
	}
	if o.Mair <= 0 {
		return chk.Err("vapor: molar mass of air must be positive; %g is invalid", o.Mair)
	}
	return
}

// SaturatedVaporPressure computes p_sat(T) [Pa] with Bolton's formula
func (o Vapor) SaturatedVaporPressure(T float64) (psat float64, err error) {
	if T <= 29.65 {
		return 0, chk.Err("vapor: temperature %g is out of range", T)
	}
	return 611.2 * math.Exp(17.67*(T-273.15)/(T-29.65)), nil
}

// DSaturatedVaporPressureDT computes dp_sat/dT [Pa/K]
func (o Vapor) DSaturatedVaporPressureDT(T float64) (dpsat float64, err error) {
	psat, err := o.SaturatedVaporPressure(T)
	if err != nil {
		return
	}
	return psat * 17.67 * 243.5 / ((T - 29.65) * (T - 29.65)), nil
}

// MolarDensity computes the ideal-gas molar density n = p/(R T)
func (o Vapor) MolarDensity(T, p float64) float64 {
	return p / (R * T)
}

// MolarMass computes the molar mass of the mixture with vapor molar fraction x
func (o Vapor) MolarMass(x float64) float64 {
	return x*Mw + (1.0-x)*o.Mair
}
