// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/mesh"
	"gonum.org/v1/gonum/floats"
)

// Component holds the structure of one component of a composite vector
type Component struct {
	Name  string    // name; e.g. "cell", "face", "boundary_face"
	Kind  mesh.Kind // kind of mesh entity the component is indexed by
	Ndofs int       // number of degrees of freedom per entity
}

// Space is the structural template of a composite vector: a mesh and a set of components
type Space struct {
	Domain string      // name of domain
	Mesh   mesh.Mesh   // the mesh
	Comps  []Component // components
}

// NewSpace returns a new space without components
func NewSpace(domain string, m mesh.Mesh) *Space {
	return &Space{Domain: domain, Mesh: m}
}

// AddComponent adds a component; an existing component must have the same kind and ndofs
func (o *Space) AddComponent(name string, kind mesh.Kind, ndofs int) (err error) {
	if ndofs < 1 {
		return ConfigErr("component %q on domain %q must have at least one dof; %d is invalid", name, o.Domain, ndofs)
	}
	for _, c := range o.Comps {
		if c.Name == name {
			if c.Kind != kind || c.Ndofs != ndofs {
				return ConfigErr("component %q on domain %q was declared as (%v, %d) and cannot be redeclared as (%v, %d)",
					name, o.Domain, c.Kind, c.Ndofs, kind, ndofs)
			}
			return
		}
	}
	o.Comps = append(o.Comps, Component{name, kind, ndofs})
	return
}

// AddComponents adds the components of another space (union)
func (o *Space) AddComponents(other *Space) (err error) {
	if other.Mesh != nil && o.Mesh != nil && other.Mesh != o.Mesh {
		return ConfigErr("spaces on domains %q and %q live on different meshes", o.Domain, other.Domain)
	}
	for _, c := range other.Comps {
		if err = o.AddComponent(c.Name, c.Kind, c.Ndofs); err != nil {
			return
		}
	}
	return
}

// HasComponent checks whether component exists
func (o *Space) HasComponent(name string) bool {
	for _, c := range o.Comps {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Create allocates a new composite vector with zero values
func (o *Space) Create() *CompositeVector {
	cv := &CompositeVector{Space: o, comps: make(map[string][][]float64), nowned: make(map[string]int)}
	for _, c := range o.Comps {
		nused := o.Mesh.NumEntities(c.Kind, mesh.USED)
		data := make([][]float64, c.Ndofs)
		for i := range data {
			data[i] = make([]float64, nused)
		}
		cv.names = append(cv.names, c.Name)
		cv.comps[c.Name] = data
		cv.nowned[c.Name] = o.Mesh.NumEntities(c.Kind, mesh.OWNED)
	}
	return cv
}

// CompositeVector holds mesh-indexed data with one or more components
//  Note: each component is stored as [ndofs][nused]; owned entities come first
type CompositeVector struct {
	Space  *Space                 // structure
	names  []string               // component names, in declaration order
	comps  map[string][][]float64 // component name => [ndofs][nused]
	nowned map[string]int         // component name => number of owned entities
}

// Names returns the names of components
func (o *CompositeVector) Names() []string { return o.names }

// HasComponent checks whether component exists
func (o *CompositeVector) HasComponent(name string) bool {
	_, ok := o.comps[name]
	return ok
}

// ViewComponent returns all dofs of a component [ndofs][nused]; nil if it does not exist
func (o *CompositeVector) ViewComponent(name string) [][]float64 { return o.comps[name] }

// Values returns the first dof of a component; nil if it does not exist
func (o *CompositeVector) Values(name string) []float64 {
	if c, ok := o.comps[name]; ok {
		return c[0]
	}
	return nil
}

// SizeOwned returns the number of owned entities of a component
func (o *CompositeVector) SizeOwned(name string) int { return o.nowned[name] }

// Ndofs returns the number of dofs of a component
func (o *CompositeVector) Ndofs(name string) int { return len(o.comps[name]) }

// PutScalar sets all values of all components
func (o *CompositeVector) PutScalar(val float64) {
	for _, c := range o.comps {
		for _, v := range c {
			for i := range v {
				v[i] = val
			}
		}
	}
}

// PutScalarComponent sets all values of one component (all dofs)
func (o *CompositeVector) PutScalarComponent(name string, val float64) {
	for _, v := range o.comps[name] {
		for i := range v {
			v[i] = val
		}
	}
}

// Update computes o := a * x + b * o
func (o *CompositeVector) Update(a float64, x *CompositeVector, b float64) (err error) {
	if err = o.compatible(x); err != nil {
		return
	}
	for name, c := range o.comps {
		for j, v := range c {
			floats.Scale(b, v)
			floats.AddScaled(v, a, x.comps[name][j])
		}
	}
	return
}

// CopyFrom copies the values of x into o
func (o *CompositeVector) CopyFrom(x *CompositeVector) (err error) {
	if err = o.compatible(x); err != nil {
		return
	}
	for name, c := range o.comps {
		for j, v := range c {
			copy(v, x.comps[name][j])
		}
	}
	return
}

// Clone returns a deep copy of o sharing only the space
func (o *CompositeVector) Clone() *CompositeVector {
	cv := &CompositeVector{Space: o.Space, names: o.names, comps: make(map[string][][]float64), nowned: o.nowned}
	for name, c := range o.comps {
		data := make([][]float64, len(c))
		for j, v := range c {
			data[j] = make([]float64, len(v))
			copy(data[j], v)
		}
		cv.comps[name] = data
	}
	return cv
}

// NormInf returns the max absolute value over owned entries of all components
func (o *CompositeVector) NormInf() (res float64) {
	for name, c := range o.comps {
		n := o.nowned[name]
		for _, v := range c {
			if n > 0 {
				res = math.Max(res, floats.Norm(v[:n], math.Inf(1)))
			}
		}
	}
	return
}

// String returns a short description
func (o *CompositeVector) String() string {
	l := io.Sf("vector on %q:", o.Space.Domain)
	for _, name := range o.names {
		l += io.Sf(" %s[%d][%d]", name, len(o.comps[name]), len(o.comps[name][0]))
	}
	return l
}

// compatible checks that x has the same components and sizes as o
func (o *CompositeVector) compatible(x *CompositeVector) error {
	if len(o.comps) != len(x.comps) {
		return ConsistencyErr("composite vectors have different number of components: %d != %d", len(o.comps), len(x.comps))
	}
	for name, c := range o.comps {
		d, ok := x.comps[name]
		if !ok || len(d) != len(c) || len(d[0]) != len(c[0]) {
			return ConsistencyErr("composite vectors have incompatible component %q", name)
		}
	}
	return nil
}
