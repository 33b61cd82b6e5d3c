// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
)

// SecondaryModel computes the fields of a secondary evaluator
//  Note: results are the writable data of the evaluator's keys, in the same order
type SecondaryModel interface {
	EvaluateField(S *State, results []*CompositeVector) error                               // computes values
	EvaluateFieldPartialDerivative(S *State, wrt string, results []*CompositeVector) error // computes ∂values/∂wrt
}

// NoDerivative can be embedded by models that never take part in an implicit solve
type NoDerivative struct{}

// EvaluateFieldPartialDerivative always fails
func (NoDerivative) EvaluateFieldPartialDerivative(S *State, wrt string, results []*CompositeVector) error {
	return ConfigErr("partial derivative with respect to %q is not supported by this evaluator", wrt)
}

// tracker records, for each requester, the generation of the value it last saw
type tracker struct {
	generation int            // incremented each time the value changes
	seen       map[string]int // requester => last generation seen
}

// saw records that request has seen the current generation and tells whether it is new to request
func (o *tracker) saw(request string) bool {
	if o.seen == nil {
		o.seen = make(map[string]int)
	}
	last, ok := o.seen[request]
	o.seen[request] = o.generation
	return !ok || last != o.generation
}

// Secondary is an evaluator whose fields are computed from other fields
//  Note: it recomputes when any dependency has changed since it last looked,
//        and always on its first request
type Secondary struct {
	MyKeys         []string          // keys of provided fields; each field is owned by its own key
	Deps           []string          // dependencies
	Model          SecondaryModel    // the computation
	Plist          inp.ParameterList // parameters; "visualize [<key>]" and "checkpoint [<key>]" are read here
	Comps          []Component       // components of provided fields; empty means negotiated by others or "cell"
	MirrorBoundary bool              // copy cell values into the boundary_face component, if present
	Nevals         int               // number of evaluations
	tracker
}

// NewSecondary returns a new secondary evaluator
func NewSecondary(keys, deps []string, model SecondaryModel, plist inp.ParameterList) *Secondary {
	if plist == nil {
		plist = inp.ParameterList{}
	}
	return &Secondary{MyKeys: keys, Deps: deps, Model: model, Plist: plist}
}

// Keys returns the keys of provided fields
func (o *Secondary) Keys() []string { return o.MyKeys }

// Dependencies returns the keys o depends on
func (o *Secondary) Dependencies() []string { return o.Deps }

// AddDependency adds a dependency; e.g. a mesh-moved signal
func (o *Secondary) AddDependency(key string) {
	for _, d := range o.Deps {
		if d == key {
			return
		}
	}
	o.Deps = append(o.Deps, key)
}

// HasFieldChanged recomputes if needed and tells whether request has not yet seen the current value
func (o *Secondary) HasFieldChanged(S *State, request string) (changed bool, err error) {

	// all dependencies are asked so that their markers stay in sync
	update := o.generation == 0
	for _, dep := range o.Deps {
		var depchanged bool
		depchanged, err = S.HasFieldChanged(dep, o.MyKeys[0])
		if err != nil {
			return
		}
		update = update || depchanged
	}

	// recompute
	if update {
		if err = o.Update(S); err != nil {
			return
		}
	}
	return o.saw(request), nil
}

// Update unconditionally recomputes the fields
func (o *Secondary) Update(S *State) (err error) {
	results := make([]*CompositeVector, len(o.MyKeys))
	for i, key := range o.MyKeys {
		results[i], err = S.GetFieldDataW(key, key)
		if err != nil {
			return
		}
	}
	if err = o.Model.EvaluateField(S, results); err != nil {
		return
	}
	if o.MirrorBoundary {
		for _, res := range results {
			if err = CopyCellsToBoundaryFaces(res); err != nil {
				return
			}
		}
	}
	for _, key := range o.MyKeys {
		S.fields[key].Initialized = true
	}
	o.generation++
	o.Nevals++
	S.evaluated(o.MyKeys[0])
	return
}

// Derivative computes the partial derivative of key with respect to dependency wrt
func (o *Secondary) Derivative(S *State, key, wrt string) (res *CompositeVector, err error) {

	// check
	idx := -1
	for i, k := range o.MyKeys {
		if k == key {
			idx = i
		}
	}
	if idx < 0 {
		return nil, ConfigErr("evaluator of %v does not provide %q", o.MyKeys, key)
	}
	found := false
	for _, d := range o.Deps {
		found = found || d == wrt
	}
	if !found {
		return nil, ConfigErr("%q does not depend on %q", key, wrt)
	}

	// values must be current
	if _, err = o.HasFieldChanged(S, "derivative:"+wrt); err != nil {
		return
	}

	// compute
	results := make([]*CompositeVector, len(o.MyKeys))
	for i, k := range o.MyKeys {
		results[i] = S.fields[k].data.Clone()
		results[i].PutScalar(0)
	}
	if err = o.Model.EvaluateFieldPartialDerivative(S, wrt, results); err != nil {
		return
	}
	if o.MirrorBoundary {
		if err = CopyCellsToBoundaryFaces(results[idx]); err != nil {
			return
		}
	}
	return results[idx], nil
}

// EnsureCompatibility requires the provided fields and sets their I/O flags
func (o *Secondary) EnsureCompatibility(S *State) (err error) {
	for _, key := range o.MyKeys {
		if _, err = S.RequireField(key, key, o.Comps...); err != nil {
			return
		}
		f := S.fields[key]
		if f.Vis, err = ioFlag(o.Plist, "visualize", key, true); err != nil {
			return
		}
		if f.Checkpoint, err = ioFlag(o.Plist, "checkpoint", key, false); err != nil {
			return
		}
	}
	return
}

// Clone returns a copy with fresh bookkeeping
func (o *Secondary) Clone() Evaluator {
	res := *o
	res.MyKeys = append([]string{}, o.MyKeys...)
	res.Deps = append([]string{}, o.Deps...)
	res.Comps = append([]Component{}, o.Comps...)
	res.Nevals = 0
	res.tracker = tracker{}
	return &res
}

// CopyCellsToBoundaryFaces copies, for each boundary face, the value of its single
// adjacent cell into the boundary_face component
//  Note: a boundary face bordering zero or more than one cell is a ConsistencyError
func CopyCellsToBoundaryFaces(cv *CompositeVector) error {
	if !cv.HasComponent("boundary_face") || !cv.HasComponent("cell") {
		return nil
	}
	m := cv.Space.Mesh
	cells := cv.ViewComponent("cell")
	bfaces := cv.ViewComponent("boundary_face")
	if len(cells) != len(bfaces) {
		return ConsistencyErr("cell and boundary_face components have different number of dofs: %d != %d", len(cells), len(bfaces))
	}
	nbf := m.NumEntities(mesh.BOUNDARY_FACE, mesh.USED)
	for bf := 0; bf < nbf; bf++ {
		f := m.BoundaryFaceToFace(bf)
		fcells := m.FaceGetCells(f, mesh.USED)
		if len(fcells) != 1 {
			return ConsistencyErr("boundary face %d (face %d) must border exactly one cell; it borders %d", bf, f, len(fcells))
		}
		for j := range cells {
			bfaces[j][bf] = cells[j][fcells[0]]
		}
	}
	return nil
}

// ioFlag reads "<flag> <key>", falling back on "<flag>" and then on dflt
func ioFlag(plist inp.ParameterList, flag, key string, dflt bool) (bool, error) {
	all, err := plist.GetBool(flag, dflt)
	if err != nil {
		return false, err
	}
	return plist.GetBool(flag+" "+key, all)
}
