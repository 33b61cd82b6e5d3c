// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relations

import (
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/state"
)

// set factories
func init() {
	state.RegisterEvaluator("iem liquid", NewIemLiquid)
	state.RegisterEvaluator("iem gas", NewIemGas)
	state.RegisterEvaluator("iem rock", NewIemRock)
	state.RegisterEvaluator("energy content", NewEnergyContent)
	state.RegisterEvaluator("thermal conductivity", NewThermalConductivity)
	state.RegisterEvaluator("enthalpy", NewEnthalpy)
}

// default reference temperature of internal energies [K]
const tRefDefault = 273.15

// iem computes a linear internal energy model
//  u = c (T - T0) + λ χ
//  Parameters in "IEM parameters":
//   "heat capacity"         c  -- [J/(mol K)] for fluids; [J/(kg K)] for the rock
//   "reference temperature" T0 = 273.15 [K]
//   "latent heat"           λ  -- [J/mol]; gas only
type iem struct {
	c, t0, lam float64
	temp, x    string // temperature; molar fraction of vapor (gas only)
}

// NewIemLiquid returns the evaluator of the internal energy of liquid water [J/mol]
//  Parameters: "temperature key" and "IEM parameters" ("heat capacity" = 76)
func NewIemLiquid(key string, plist inp.ParameterList) (state.Evaluator, error) {
	return newIem(key, plist, 76.0, false)
}

// NewIemGas returns the evaluator of the internal energy of the gas phase [J/mol]
//  Parameters: "temperature key", "molar fraction key" and "IEM parameters"
//  ("heat capacity" = 20.8, "latent heat" = 44000)
func NewIemGas(key string, plist inp.ParameterList) (state.Evaluator, error) {
	return newIem(key, plist, 20.8, true)
}

// NewIemRock returns the evaluator of the internal energy of the rock [J/kg]
//  Parameters: "temperature key" and "IEM parameters" ("heat capacity" = 620)
func NewIemRock(key string, plist inp.ParameterList) (state.Evaluator, error) {
	return newIem(key, plist, 620.0, false)
}

// newIem reads the parameters of an internal energy model
func newIem(key string, plist inp.ParameterList, c float64, vapor bool) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &iem{temp: r.key("temperature key", "temperature")}
	deps := []string{model.temp}
	lam := 0.0
	if vapor {
		model.x = r.key("molar fraction key", "mol_frac_gas")
		deps = append(deps, model.x)
		lam = 44000
	}
	prms := r.sublist("IEM parameters")
	if r.err != nil {
		return nil, r.err
	}
	err := prms.ReadReals(
		inp.Real{Ptr: &model.c, Key: "heat capacity", Dflt: c},
		inp.Real{Ptr: &model.t0, Key: "reference temperature", Dflt: tRefDefault},
		inp.Real{Ptr: &model.lam, Key: "latent heat", Dflt: lam},
	)
	if err != nil {
		return nil, err
	}
	if model.c <= 0 {
		return nil, state.ConfigErr("%s: heat capacity must be positive; %g is invalid", key, model.c)
	}
	return state.NewSecondary([]string{key}, deps, model, plist), nil
}

// EvaluateField computes u
func (o *iem) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	T, err := cellValues(S, o.temp)
	if err != nil {
		return
	}
	var x []float64
	if o.x != "" {
		if x, err = cellValues(S, o.x); err != nil {
			return
		}
	}
	u := results[0].Values("cell")
	for c := range u {
		u[c] = o.c * (T[c] - o.t0)
		if x != nil {
			u[c] += o.lam * x[c]
		}
	}
	return
}

// EvaluateFieldPartialDerivative computes ∂u/∂T = c or ∂u/∂χ = λ
func (o *iem) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	deps := []string{o.temp}
	if o.x != "" {
		deps = append(deps, o.x)
	}
	if err = dependsOn("internal energy", wrt, deps...); err != nil {
		return
	}
	val := o.c
	if wrt == o.x {
		val = o.lam
	}
	results[0].PutScalar(val)
	return
}

// energyContent computes the total energy of each cell [J]
//  E = V [ φ Σ_phases n s u + (1 - φ) ρr ur ]
type energyContent struct {
	poro, vol string
	pore      [][]string // factors of each phase: molar density, saturation, internal energy
	rock      []string   // factors of the rock: density, internal energy; empty if excluded
}

// NewEnergyContent returns the evaluator of energy content
//  Parameters:
//   "include gas" = true, "include rock" = true
//   "porosity key", "cell volume key",
//   "molar density liquid key", "saturation liquid key", "internal energy liquid key",
//   "molar density gas key", "saturation gas key", "internal energy gas key",
//   "density rock key", "internal energy rock key"
//   default to the usual variable names in the domain of key
func NewEnergyContent(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &energyContent{
		poro: r.key("porosity key", "porosity"),
		vol:  r.key("cell volume key", "cell_volume"),
	}
	model.pore = append(model.pore, []string{
		r.key("molar density liquid key", "molar_density_liquid"),
		r.key("saturation liquid key", "saturation_liquid"),
		r.key("internal energy liquid key", "internal_energy_liquid"),
	})
	if r.flag("include gas", true) {
		model.pore = append(model.pore, []string{
			r.key("molar density gas key", "molar_density_gas"),
			r.key("saturation gas key", "saturation_gas"),
			r.key("internal energy gas key", "internal_energy_gas"),
		})
	}
	if r.flag("include rock", true) {
		model.rock = []string{
			r.key("density rock key", "density_rock"),
			r.key("internal energy rock key", "internal_energy_rock"),
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return state.NewSecondary([]string{key}, model.deps(), model, plist), nil
}

// deps returns all dependencies
func (o *energyContent) deps() (keys []string) {
	keys = []string{o.poro, o.vol}
	for _, factors := range o.pore {
		keys = append(keys, factors...)
	}
	return append(keys, o.rock...)
}

// EvaluateField computes E
func (o *energyContent) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	return o.compute(S, "", results[0].Values("cell"))
}

// EvaluateFieldPartialDerivative computes ∂E/∂wrt
func (o *energyContent) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	if err = dependsOn("energy content", wrt, o.deps()...); err != nil {
		return
	}
	return o.compute(S, wrt, results[0].Values("cell"))
}

// compute computes E (wrt == "") or ∂E/∂wrt
func (o *energyContent) compute(S *state.State, wrt string, res []float64) (err error) {
	vals := make(map[string][]float64)
	for _, key := range o.deps() {
		if vals[key], err = cellValues(S, key); err != nil {
			return
		}
	}

	// product of factors; the factor being differentiated is replaced by one
	prod := func(factors []string, c int) (v float64, has bool) {
		v = 1
		for _, k := range factors {
			if k == wrt {
				has = true
				continue
			}
			v *= vals[k][c]
		}
		return
	}

	poro, vol := vals[o.poro], vals[o.vol]
	for c := range res {
		var pore, dpore float64
		for _, factors := range o.pore {
			v, has := prod(factors, c)
			pore += v
			if has {
				dpore += v
			}
		}
		var rock, drock float64
		if len(o.rock) > 0 {
			v, has := prod(o.rock, c)
			rock = v
			if has {
				drock = v
			}
		}
		switch wrt {
		case "":
			res[c] = vol[c] * (poro[c]*pore + (1-poro[c])*rock)
		case o.vol:
			res[c] = poro[c]*pore + (1-poro[c])*rock
		case o.poro:
			res[c] = vol[c] * (pore - rock)
		default:
			res[c] = vol[c] * (poro[c]*dpore + (1-poro[c])*drock)
		}
	}
	return
}

// conductivity computes the thermal conductivity of the mixture [W/(m K)]
//  κ = φ (sl κl + (1 - sl) κg) + (1 - φ) κr
type conductivity struct {
	kl, kg, kr float64
	poro, sl   string
}

// NewThermalConductivity returns the evaluator of thermal conductivity
//  Parameters:
//   "porosity key", "saturation liquid key"
//   "thermal conductivity parameters":
//    "thermal conductivity of liquid" = 0.6, "thermal conductivity of gas" = 0.02,
//    "thermal conductivity of rock" = 2 [W/(m K)]
func NewThermalConductivity(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &conductivity{
		poro: r.key("porosity key", "porosity"),
		sl:   r.key("saturation liquid key", "saturation_liquid"),
	}
	prms := r.sublist("thermal conductivity parameters")
	if r.err != nil {
		return nil, r.err
	}
	err := prms.ReadReals(
		inp.Real{Ptr: &model.kl, Key: "thermal conductivity of liquid", Dflt: 0.6},
		inp.Real{Ptr: &model.kg, Key: "thermal conductivity of gas", Dflt: 0.02},
		inp.Real{Ptr: &model.kr, Key: "thermal conductivity of rock", Dflt: 2},
	)
	if err != nil {
		return nil, err
	}
	for _, k := range []float64{model.kl, model.kg, model.kr} {
		if k < 0 {
			return nil, state.ConfigErr("%s: thermal conductivities must not be negative; %g is invalid", key, k)
		}
	}
	return state.NewSecondary([]string{key}, []string{model.poro, model.sl}, model, plist), nil
}

// EvaluateField computes κ
func (o *conductivity) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	poro, err := cellValues(S, o.poro)
	if err != nil {
		return
	}
	sl, err := cellValues(S, o.sl)
	if err != nil {
		return
	}
	k := results[0].Values("cell")
	for c := range k {
		k[c] = poro[c]*(sl[c]*o.kl+(1-sl[c])*o.kg) + (1-poro[c])*o.kr
	}
	return
}

// EvaluateFieldPartialDerivative computes ∂κ/∂φ or ∂κ/∂sl
func (o *conductivity) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	if err = dependsOn("thermal conductivity", wrt, o.poro, o.sl); err != nil {
		return
	}
	poro, err := cellValues(S, o.poro)
	if err != nil {
		return
	}
	sl, err := cellValues(S, o.sl)
	if err != nil {
		return
	}
	dk := results[0].Values("cell")
	for c := range dk {
		if wrt == o.poro {
			dk[c] = sl[c]*o.kl + (1-sl[c])*o.kg - o.kr
			continue
		}
		dk[c] = poro[c] * (o.kl - o.kg)
	}
	return
}

// enthalpy computes the molar enthalpy of the liquid [J/mol]
//  h = u + p/n if the work term is included; h = u otherwise
type enthalpy struct {
	u, p, n string // internal energy; pressure and molar density (work term only)
}

// NewEnthalpy returns the evaluator of liquid enthalpy
//  Parameters:
//   "include work term" = false
//   "internal energy key" = <domain>-internal_energy_liquid
//   "pressure key", "molar density key" -- used by the work term
func NewEnthalpy(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &enthalpy{u: r.key("internal energy key", "internal_energy_liquid")}
	deps := []string{model.u}
	if r.flag("include work term", false) {
		model.p = r.key("pressure key", "pressure")
		model.n = r.key("molar density key", "molar_density_liquid")
		deps = append(deps, model.p, model.n)
	}
	if r.err != nil {
		return nil, r.err
	}
	return state.NewSecondary([]string{key}, deps, model, plist), nil
}

// EvaluateField computes h
func (o *enthalpy) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	u, err := cellValues(S, o.u)
	if err != nil {
		return
	}
	h := results[0].Values("cell")
	copy(h, u)
	if o.p == "" {
		return
	}
	p, err := cellValues(S, o.p)
	if err != nil {
		return
	}
	n, err := cellValues(S, o.n)
	if err != nil {
		return
	}
	for c := range h {
		h[c] += p[c] / n[c]
	}
	return
}

// EvaluateFieldPartialDerivative computes ∂h/∂u = 1, ∂h/∂p = 1/n or ∂h/∂n = -p/n²
func (o *enthalpy) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	deps := []string{o.u}
	if o.p != "" {
		deps = append(deps, o.p, o.n)
	}
	if err = dependsOn("enthalpy", wrt, deps...); err != nil {
		return
	}
	dh := results[0].Values("cell")
	if wrt == o.u {
		for c := range dh {
			dh[c] = 1
		}
		return
	}
	p, err := cellValues(S, o.p)
	if err != nil {
		return
	}
	n, err := cellValues(S, o.n)
	if err != nil {
		return
	}
	for c := range dh {
		if wrt == o.p {
			dh[c] = 1 / n[c]
			continue
		}
		dh[c] = -p[c] / (n[c] * n[c])
	}
	return
}
