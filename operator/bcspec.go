// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"sort"

	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/state"
)

// BCSpec holds one block of boundary conditions as read from the input file
type BCSpec struct {
	Name   string  // name of block
	Region string  // region of faces
	Marker int     // BC_DIRICHLET, BC_NEUMANN or BC_NONE
	Value  float64 // given value or outward flux per unit area
}

// ReadBCSpecs reads the blocks of a "boundary conditions" sublist
//  Each block has:
//   "region" = <name of block>
//   "type"   -- one of the keys of types; e.g. "pressure" => BC_DIRICHLET
//   "value"  = 0
func ReadBCSpecs(plist inp.ParameterList, types map[string]int) (specs []BCSpec, err error) {
	for _, name := range plist.Keys() {
		if !plist.IsSublist(name) {
			return nil, state.ConfigErr("boundary conditions: %q must be a sublist", name)
		}
		sub, err := plist.Sublist(name)
		if err != nil {
			return nil, err
		}
		spec := BCSpec{Name: name}
		if spec.Region, err = sub.GetString("region", name); err != nil {
			return nil, err
		}
		if spec.Value, err = sub.GetFloat("value", 0); err != nil {
			return nil, err
		}
		typ, err := sub.GetString("type", "")
		if err != nil {
			return nil, err
		}
		marker, ok := types[typ]
		if !ok {
			var names []string
			for k := range types {
				names = append(names, k)
			}
			sort.Strings(names)
			return nil, state.ConfigErr("boundary conditions: type %q of %q is not available; use one of %q", typ, name, names)
		}
		spec.Marker = marker
		specs = append(specs, spec)
	}
	return
}

// ApplyBCSpecs sets the markers and values of the faces of each region
//  Note: fluxes per unit area are multiplied by the face areas
func ApplyBCSpecs(m mesh.Mesh, specs []BCSpec) (bcs *BCs, err error) {
	bcs = NewBCs(m.NumEntities(mesh.FACE, mesh.USED))
	for _, spec := range specs {
		var faces []int
		if faces, err = m.RegionEntities(spec.Region, mesh.FACE, mesh.USED); err != nil {
			return nil, state.ConfigErr("boundary condition %q: %v", spec.Name, err)
		}
		for _, f := range faces {
			if len(m.FaceGetCells(f, mesh.USED)) != 1 {
				return nil, state.ConfigErr("boundary condition %q: face %d of region %q is not on the boundary", spec.Name, f, spec.Region)
			}
			value := spec.Value
			if spec.Marker == BC_NEUMANN {
				value *= m.FaceArea(f)
			}
			bcs.Set(f, spec.Marker, value)
		}
	}
	return
}
