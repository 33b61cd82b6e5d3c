// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relations

import (
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/mreten"
	"github.com/saubhagya-gatech/ats/state"
)

// set factories
func init() {
	state.RegisterEvaluator("wrm saturation", NewSaturation)
	state.RegisterEvaluator("relative permeability", NewRelPerm)
}

// wrmModels holds the retention models of each cell
type wrmModels struct {
	table  *mreten.Table
	models []mreten.Model // cell => model; set on first use
}

// newWrmModels reads the "WRM parameters" blocks
func newWrmModels(plist inp.ParameterList) (o *wrmModels, err error) {
	o = new(wrmModels)
	blocks, err := plist.Sublist("WRM parameters")
	if err != nil {
		return nil, err
	}
	o.table, err = mreten.NewTable(blocks)
	if err != nil {
		return nil, state.ConfigErr("%v", err)
	}
	return
}

// cells returns the model of each cell of m
func (o *wrmModels) cells(m mesh.Mesh) (models []mreten.Model, err error) {
	if o.models == nil {
		if o.models, err = o.table.CellModels(m); err != nil {
			return nil, state.ConfigErr("%v", err)
		}
	}
	return o.models, nil
}

// saturation computes liquid and gas saturations from the capillary pressure patm - p
type saturation struct {
	wrm  *wrmModels
	pres string
}

// NewSaturation returns the evaluator of liquid and gas saturations
//  Parameters:
//   "saturation key"     = <domain>-saturation_liquid
//   "saturation gas key" = <domain>-saturation_gas
//   "pressure key"       = <domain>-pressure
//   "WRM parameters"     -- blocks read by mreten.NewTable
func NewSaturation(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	wrm, err := newWrmModels(plist)
	if err != nil {
		return nil, err
	}
	model := &saturation{wrm: wrm, pres: r.key("pressure key", "pressure")}
	keys := []string{
		r.key("saturation key", "saturation_liquid"),
		r.key("saturation gas key", "saturation_gas"),
	}
	if r.err != nil {
		return nil, r.err
	}
	return state.NewSecondary(keys, []string{model.pres}, model, plist), nil
}

// EvaluateField computes sl = S(pc) and sg = 1 - sl
func (o *saturation) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	p, err := cellValues(S, o.pres)
	if err != nil {
		return
	}
	models, err := o.wrm.cells(results[0].Space.Mesh)
	if err != nil {
		return
	}
	patm := atmosphericPressure(S)
	sl := results[0].Values("cell")
	sg := results[1].Values("cell")
	for c := range sl {
		sl[c] = models[c].Saturation(patm - p[c])
		sg[c] = 1.0 - sl[c]
	}
	return
}

// EvaluateFieldPartialDerivative computes dsl/dp = -dS/dpc and dsg/dp = dS/dpc
func (o *saturation) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	if err = dependsOn("wrm saturation", wrt, o.pres); err != nil {
		return
	}
	p, err := cellValues(S, o.pres)
	if err != nil {
		return
	}
	models, err := o.wrm.cells(results[0].Space.Mesh)
	if err != nil {
		return
	}
	patm := atmosphericPressure(S)
	dsl := results[0].Values("cell")
	dsg := results[1].Values("cell")
	for c := range dsl {
		dsl[c] = -models[c].DSaturation(patm - p[c])
		dsg[c] = -dsl[c]
	}
	return
}

// relPerm computes the relative permeability from the capillary pressure patm - p
type relPerm struct {
	wrm  *wrmModels
	pres string
}

// NewRelPerm returns the evaluator of relative permeability
//  Parameters:
//   "pressure key"   = <domain>-pressure
//   "WRM parameters" -- blocks read by mreten.NewTable
//  Note: the boundary_face component, if required, mirrors the adjacent cell
func NewRelPerm(key string, plist inp.ParameterList) (state.Evaluator, error) {
	wrm, err := newWrmModels(plist)
	if err != nil {
		return nil, err
	}
	r := newReader(plist, key)
	model := &relPerm{wrm: wrm, pres: r.key("pressure key", "pressure")}
	if r.err != nil {
		return nil, r.err
	}
	ev := state.NewSecondary([]string{key}, []string{model.pres}, model, plist)
	ev.MirrorBoundary = true
	return ev, nil
}

// EvaluateField computes kr(pc)
func (o *relPerm) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	p, err := cellValues(S, o.pres)
	if err != nil {
		return
	}
	models, err := o.wrm.cells(results[0].Space.Mesh)
	if err != nil {
		return
	}
	patm := atmosphericPressure(S)
	kr := results[0].Values("cell")
	for c := range kr {
		kr[c] = models[c].KRelative(patm - p[c])
	}
	return
}

// EvaluateFieldPartialDerivative computes dkr/dp = -dkr/dpc
func (o *relPerm) EvaluateFieldPartialDerivative(S *state.State, wrt string, results []*state.CompositeVector) (err error) {
	if err = dependsOn("relative permeability", wrt, o.pres); err != nil {
		return
	}
	p, err := cellValues(S, o.pres)
	if err != nil {
		return
	}
	models, err := o.wrm.cells(results[0].Space.Mesh)
	if err != nil {
		return
	}
	patm := atmosphericPressure(S)
	dkr := results[0].Values("cell")
	for c := range dkr {
		dkr[c] = -models[c].DKRelative(patm - p[c])
	}
	return
}
