// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mreten implements models for liquid retention and relative permeability curves
//  Note: all functions take the capillary pressure pc = p_atm - p_liquid
package mreten

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/saubhagya-gatech/ats/inp"
)

// Model implements a water retention model (WRM)
type Model interface {
	Init(prms inp.ParameterList) error   // initialises model
	Saturation(pc float64) float64        // liquid saturation sl(pc)
	DSaturation(pc float64) float64       // dsl/dpc
	KRelative(pc float64) float64         // relative permeability kr(pc)
	DKRelative(pc float64) float64        // dkr/dpc
	CapillaryPressure(sl float64) float64 // pc(sl); inverse of Saturation
	ResidualSaturation() float64          // sr
}

// New returns new retention model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'mreten' database. available: %v", name, Names())
	}
	return allocator(), nil
}

// Names returns the sorted names of available models
func Names() (names []string) {
	for name := range allocators {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// allocators holds all available models
var allocators = map[string]func() Model{}
