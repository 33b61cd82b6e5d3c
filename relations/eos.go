// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relations

import (
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mporous"
	"github.com/saubhagya-gatech/ats/state"
)

// set factories
func init() {
	state.RegisterEvaluator("liquid eos", NewLiquidEOS)
	state.RegisterEvaluator("viscosity", NewViscosity)
	state.RegisterEvaluator("vapor eos", NewVaporEOS)
}

// liquidEOS computes mass and molar densities of the liquid
type liquidEOS struct {
	liq        mporous.Liquid
	temp, pres string
}

// NewLiquidEOS returns the evaluator of liquid densities
//  Parameters:
//   "density key"       = <domain>-density_liquid
//   "molar density key" = <domain>-molar_density_liquid
//   "temperature key"   = <domain>-temperature
//   "pressure key"      = <domain>-pressure
//   "EOS parameters"    -- see mporous.Liquid
func NewLiquidEOS(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &liquidEOS{
		temp: r.key("temperature key", "temperature"),
		pres: r.key("pressure key", "pressure"),
	}
	if err := model.liq.Init(r.sublist("EOS parameters")); err != nil {
		return nil, state.ConfigErr("%v", err)
	}
	keys := []string{
		r.key("density key", "density_liquid"),
		r.key("molar density key", "molar_density_liquid"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return state.NewSecondary(keys, []string{model.temp, model.pres}, model, plist), nil
}

// EvaluateField computes ρ(T,p) and n = ρ/M
func (o *liquidEOS) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	T, err := cellValues(S, o.temp)
	if err != nil {
		return
	}
	p, err := cellValues(S, o.pres)
	if err != nil {
		return
	}
	rho := results[0].Values("cell")
	n := results[1].Values("cell")
	for c := range rho {
		rho[c] = o.liq.MassDensity(T[c], p[c])
		n[c] = rho[c] / o.liq.M
	}
	return
}

// EvaluateFieldPartialDerivative computes dρ/dp and dn/dp; derivatives with respect to T are zero
func (o *liquidEOS) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	if err = dependsOn("liquid eos", wrt, o.temp, o.pres); err != nil {
		return
	}
	if wrt == o.temp {
		return
	}
	T, err := cellValues(S, o.temp)
	if err != nil {
		return
	}
	p, err := cellValues(S, o.pres)
	if err != nil {
		return
	}
	drho := results[0].Values("cell")
	dn := results[1].Values("cell")
	for c := range drho {
		drho[c] = o.liq.DMassDensityDp(T[c], p[c])
		dn[c] = drho[c] / o.liq.M
	}
	return
}

// viscosity computes the viscosity of the liquid
type viscosity struct {
	state.NoDerivative
	liq  mporous.Liquid
	temp string
}

// NewViscosity returns the evaluator of liquid viscosity
//  Parameters:
//   "temperature key" = <domain>-temperature
//   "EOS parameters"  -- see mporous.Liquid
func NewViscosity(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &viscosity{temp: r.key("temperature key", "temperature")}
	if err := model.liq.Init(r.sublist("EOS parameters")); err != nil {
		return nil, state.ConfigErr("%v", err)
	}
	if r.err != nil {
		return nil, r.err
	}
	return state.NewSecondary([]string{key}, []string{model.temp}, model, plist), nil
}

// EvaluateField computes μ(T)
//  Note: a temperature out of the range of the model is reported as a plain error
func (o *viscosity) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	T, err := cellValues(S, o.temp)
	if err != nil {
		return
	}
	mu := results[0].Values("cell")
	for c := range mu {
		if mu[c], err = o.liq.Viscosity(T[c]); err != nil {
			return
		}
	}
	return
}

// vaporEOS computes the molar fraction of vapor and the densities of the gas phase
type vaporEOS struct {
	gas  mporous.Vapor
	temp string
}

// NewVaporEOS returns the evaluator of gas properties at atmospheric pressure
//  Parameters:
//   "molar fraction key" = <domain>-mol_frac_gas
//   "molar density key"  = <domain>-molar_density_gas
//   "density key"        = <domain>-density_gas
//   "temperature key"    = <domain>-temperature
//   "EOS parameters"     -- see mporous.Vapor
func NewVaporEOS(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &vaporEOS{temp: r.key("temperature key", "temperature")}
	if err := model.gas.Init(r.sublist("EOS parameters")); err != nil {
		return nil, state.ConfigErr("%v", err)
	}
	keys := []string{
		r.key("molar fraction key", "mol_frac_gas"),
		r.key("molar density key", "molar_density_gas"),
		r.key("density key", "density_gas"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return state.NewSecondary(keys, []string{model.temp}, model, plist), nil
}

// EvaluateField computes χ = psat(T)/patm, n = patm/(R T) and ρ = M(χ) n
func (o *vaporEOS) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	T, err := cellValues(S, o.temp)
	if err != nil {
		return
	}
	patm := atmosphericPressure(S)
	if patm <= 0 {
		return state.ConfigErr("atmospheric pressure must be positive; %g is invalid", patm)
	}
	x := results[0].Values("cell")
	n := results[1].Values("cell")
	rho := results[2].Values("cell")
	var psat float64
	for c := range x {
		if psat, err = o.gas.SaturatedVaporPressure(T[c]); err != nil {
			return
		}
		x[c] = psat / patm
		n[c] = o.gas.MolarDensity(T[c], patm)
		rho[c] = o.gas.MolarMass(x[c]) * n[c]
	}
	return
}

// EvaluateFieldPartialDerivative computes dχ/dT, dn/dT and dρ/dT
func (o *vaporEOS) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	if err = dependsOn("vapor eos", wrt, o.temp); err != nil {
		return
	}
	T, err := cellValues(S, o.temp)
	if err != nil {
		return
	}
	patm := atmosphericPressure(S)
	if patm <= 0 {
		return state.ConfigErr("atmospheric pressure must be positive; %g is invalid", patm)
	}
	dx := results[0].Values("cell")
	dn := results[1].Values("cell")
	drho := results[2].Values("cell")
	var psat, dpsat float64
	for c := range dx {
		if psat, err = o.gas.SaturatedVaporPressure(T[c]); err != nil {
			return
		}
		if dpsat, err = o.gas.DSaturatedVaporPressureDT(T[c]); err != nil {
			return
		}
		n := o.gas.MolarDensity(T[c], patm)
		dx[c] = dpsat / patm
		dn[c] = -n / T[c]
		drho[c] = (mporous.Mw-o.gas.Mair)*dx[c]*n + o.gas.MolarMass(psat/patm)*dn[c]
	}
	return
}
