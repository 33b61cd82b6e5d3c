// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
)

// Field holds a named, owner-tagged composite vector and its I/O metadata
//  Note: any caller may read the data; only the owner may obtain a writable handle
type Field struct {
	Key         string           // unique key; e.g. "pressure" or "surface-ponded_depth"
	Owner       string           // the only requester allowed to write; empty means unclaimed
	Space       *Space           // structural template
	Subnames    []string         // names of dofs; used by "constant <subname>" initialisation and output
	Initialized bool             // data has been given valid values
	Vis         bool             // include in visualisation output
	Checkpoint  bool             // include in checkpoint output
	data        *CompositeVector // the data; nil before allocation
}

// Data returns read-only access to the data
func (o *Field) Data() *CompositeVector { return o.data }

// DataW returns writable access to the data
func (o *Field) DataW(requester string) (*CompositeVector, error) {
	if err := o.assertOwner(requester); err != nil {
		return nil, err
	}
	return o.data, nil
}

// SetData overwrites the data by handle: o keeps cv itself
//  Note: cv must have the structure of the field and live on the same mesh
func (o *Field) SetData(requester string, cv *CompositeVector) error {
	if err := o.assertOwner(requester); err != nil {
		return err
	}
	if err := o.checkData(cv); err != nil {
		return err
	}
	o.data = cv
	return nil
}

// SetDataCopy overwrites the data by value
func (o *Field) SetDataCopy(requester string, cv *CompositeVector) error {
	if err := o.assertOwner(requester); err != nil {
		return err
	}
	if err := o.checkData(cv); err != nil {
		return err
	}
	if o.data == nil {
		o.data = cv.Clone()
		return nil
	}
	return o.data.CopyFrom(cv)
}

// SubfieldName returns the name of dof j of a component with ndofs dofs
func (o *Field) SubfieldName(j, ndofs int) string {
	if len(o.Subnames) == ndofs {
		return o.Subnames[j]
	}
	if ndofs == 1 {
		return GetVariable(o.Key)
	}
	return io.Sf("%s_%d", GetVariable(o.Key), j)
}

// Initialize sets values from a parameter list
//  Recognised parameters:
//   "value"               -- all dofs of all components
//   "constant <subname>"  -- one dof of all components
//   "regions"             -- sublist of named blocks with "region" and the parameters above
//  Note: the field remains uninitialised if neither constants nor regions are given
func (o *Field) Initialize(plist inp.ParameterList) (err error) {
	if o.data == nil {
		return ConfigErr("field %q cannot be initialized before its data is allocated", o.Key)
	}

	// constant values
	vals, ok, err := o.constants(plist)
	if err != nil {
		return
	}
	if ok {
		for _, name := range o.data.names {
			for j, v := range o.data.comps[name] {
				for i := range v {
					v[i] = vals[name][j]
				}
			}
		}
		o.Initialized = true
	}

	// per-region values
	if !plist.IsSublist("regions") {
		return
	}
	regions, err := plist.Sublist("regions")
	if err != nil {
		return
	}
	var done, notdone []string
	blocks := make(map[string]inp.ParameterList)
	for _, block := range regions.Keys() {
		if blocks[block], err = regions.Sublist(block); err != nil {
			return
		}
		if _, ok, err = o.constants(blocks[block]); err != nil {
			return
		}
		if ok {
			done = append(done, block)
		} else {
			notdone = append(notdone, block)
		}
	}
	if len(done) > 0 && len(notdone) > 0 {
		return ConfigErr("field %q initialized at least one, but not all regions; missing %v", o.Key, notdone)
	}
	for _, block := range done {
		var region string
		if region, err = blocks[block].GetString("region", block); err != nil {
			return
		}
		if vals, _, err = o.constants(blocks[block]); err != nil {
			return
		}
		if err = o.putRegion(region, vals); err != nil {
			return
		}
	}
	if len(done) > 0 {
		o.Initialized = true
	}
	return
}

// Clone returns a deep copy of o; the data is never shared
func (o *Field) Clone() *Field {
	res := *o
	res.Subnames = append([]string{}, o.Subnames...)
	if o.data != nil {
		res.data = o.data.Clone()
	}
	return &res
}

// String returns a short description
func (o *Field) String() string {
	return io.Sf("field %q owner=%q initialized=%v vis=%v checkpoint=%v", o.Key, o.Owner, o.Initialized, o.Vis, o.Checkpoint)
}

// assertOwner checks the write capability
func (o *Field) assertOwner(requester string) error {
	if o.Owner == "" || requester != o.Owner {
		return &OwnershipError{Key: o.Key, Owner: o.Owner, Requester: requester}
	}
	return nil
}

// constants collects one value per dof of each component
func (o *Field) constants(plist inp.ParameterList) (vals map[string][]float64, ok bool, err error) {
	vals = make(map[string][]float64)
	for _, name := range o.data.names {
		nd := len(o.data.comps[name])
		vals[name] = make([]float64, nd)
		for j := 0; j < nd; j++ {
			key := "constant " + o.SubfieldName(j, nd)
			switch {
			case plist.IsParameter(key):
				vals[name][j], err = plist.GetFloat(key, 0)
			case plist.IsParameter("value"):
				vals[name][j], err = plist.GetFloat("value", 0)
			default:
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
		}
	}
	return vals, true, nil
}

// putRegion sets values on the entities of components that region applies to
func (o *Field) putRegion(region string, vals map[string][]float64) (err error) {
	m := o.Space.Mesh
	applied := false
	for _, c := range o.Space.Comps {
		if !m.HasRegion(region, c.Kind) {
			continue
		}
		var ids []int
		ids, err = m.RegionEntities(region, c.Kind, mesh.USED)
		if err != nil {
			return
		}
		for j, v := range o.data.comps[c.Name] {
			for _, i := range ids {
				v[i] = vals[c.Name][j]
			}
		}
		applied = true
	}
	if !applied {
		return ConfigErr("field %q: region %q does not exist on domain %q", o.Key, region, o.Space.Domain)
	}
	return
}

// checkData checks that cv can replace the data of o
func (o *Field) checkData(cv *CompositeVector) error {
	if cv == nil {
		return ConfigErr("field %q cannot be set to nil data", o.Key)
	}
	ref := o.data
	if ref == nil {
		if o.Space == nil || o.Space.Mesh == nil {
			return nil
		}
		ref = o.Space.Create()
	}
	if cv.Space == nil || cv.Space.Mesh != ref.Space.Mesh {
		return ConfigErr("field %q: data must live on the mesh of domain %q", o.Key, ref.Space.Domain)
	}
	if err := ref.compatible(cv); err != nil {
		return ConfigErr("field %q: %v", o.Key, err)
	}
	return nil
}
