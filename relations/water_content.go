// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relations

import (
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/state"
)

// set factory
func init() {
	state.RegisterEvaluator("water content", NewWaterContent)
}

// waterContent computes the total amount of water in each cell [mol]
//  Θ = φ V (nl sl + ng sg χ)
type waterContent struct {
	poro, vol string // porosity and cell volume
	nl, sl    string // liquid
	ng, sg, x string // gas; empty if vapor is not included
}

// NewWaterContent returns the evaluator of water content
//  Parameters:
//   "include vapor" = true
//   "porosity key", "cell volume key", "molar density liquid key", "saturation liquid key",
//   "molar density gas key", "saturation gas key", "molar fraction gas key"
//   default to the usual variable names in the domain of key
func NewWaterContent(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	model := &waterContent{
		poro: r.key("porosity key", "porosity"),
		vol:  r.key("cell volume key", "cell_volume"),
		nl:   r.key("molar density liquid key", "molar_density_liquid"),
		sl:   r.key("saturation liquid key", "saturation_liquid"),
	}
	deps := []string{model.poro, model.vol, model.nl, model.sl}
	if r.flag("include vapor", true) {
		model.ng = r.key("molar density gas key", "molar_density_gas")
		model.sg = r.key("saturation gas key", "saturation_gas")
		model.x = r.key("molar fraction gas key", "mol_frac_gas")
		deps = append(deps, model.ng, model.sg, model.x)
	}
	if r.err != nil {
		return nil, r.err
	}
	return state.NewSecondary([]string{key}, deps, model, plist), nil
}

// EvaluateField computes Θ
func (o *waterContent) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	return o.compute(S, "", results[0].Values("cell"))
}

// EvaluateFieldPartialDerivative computes ∂Θ/∂wrt by differentiating one factor
func (o *waterContent) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	deps := []string{o.poro, o.vol, o.nl, o.sl}
	if o.ng != "" {
		deps = append(deps, o.ng, o.sg, o.x)
	}
	if err = dependsOn("water content", wrt, deps...); err != nil {
		return
	}
	return o.compute(S, wrt, results[0].Values("cell"))
}

// compute computes Θ (wrt == "") or ∂Θ/∂wrt
func (o *waterContent) compute(S *state.State, wrt string, res []float64) (err error) {

	// values; the factor being differentiated is replaced by one
	get := func(key string) ([]float64, error) {
		if key == wrt {
			return nil, nil
		}
		return cellValues(S, key)
	}
	var poro, vol, nl, sl, ng, sg, x []float64
	for _, item := range []struct {
		key string
		val *[]float64
	}{{o.poro, &poro}, {o.vol, &vol}, {o.nl, &nl}, {o.sl, &sl}, {o.ng, &ng}, {o.sg, &sg}, {o.x, &x}} {
		if item.key == "" {
			continue
		}
		if *item.val, err = get(item.key); err != nil {
			return
		}
	}
	at := func(v []float64, c int) float64 {
		if v == nil {
			return 1
		}
		return v[c]
	}

	// liquid and gas terms; a term without the differentiated factor has zero derivative
	inLiq := wrt == "" || wrt == o.nl || wrt == o.sl || wrt == o.poro || wrt == o.vol
	inGas := o.ng != "" && (wrt == "" || wrt == o.ng || wrt == o.sg || wrt == o.x || wrt == o.poro || wrt == o.vol)
	for c := range res {
		var wc float64
		if inLiq {
			wc += at(nl, c) * at(sl, c)
		}
		if inGas {
			wc += at(ng, c) * at(sg, c) * at(x, c)
		}
		res[c] = at(poro, c) * at(vol, c) * wc
	}
	return
}
