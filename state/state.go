// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package state implements the shared store of fields and the dependency graph of evaluators
package state

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
)

// request used by plain reads of field data
const readRequest = "state:read"

// State holds all fields and evaluators of one time level
//  Parameters (Plist):
//   "field evaluators"   -- key => evaluator parameters (with "field evaluator type")
//   "initial conditions" -- key => parameters for Field.Initialize
type State struct {

	// time level
	Time  float64 // simulation time
	Cycle int     // number of committed steps

	// collaborators
	Plist      inp.ParameterList // parameters
	Log        zerolog.Logger    // logger
	OnEvaluate func(key string)  // called after a secondary evaluator recomputes; may be nil

	// data
	meshes  map[string]mesh.Mesh // domain => mesh
	fields  map[string]*Field    // key => field
	evals   map[string]Evaluator // key => evaluator providing it
	scalars map[string]float64   // e.g. "atmospheric_pressure"
	vectors map[string][]float64 // e.g. "gravity"
	needed  map[string]bool      // keys whose evaluators were required
	ensured map[Evaluator]bool   // evaluators whose compatibility was ensured
	order   []string             // keys of evaluators in dependency order
	ready   bool                 // Setup was called
}

// New returns a new State
func New(plist inp.ParameterList, log zerolog.Logger) (o *State) {
	if plist == nil {
		plist = inp.ParameterList{}
	}
	return &State{
		Plist:   plist,
		Log:     log,
		meshes:  make(map[string]mesh.Mesh),
		fields:  make(map[string]*Field),
		evals:   make(map[string]Evaluator),
		scalars: make(map[string]float64),
		vectors: make(map[string][]float64),
		needed:  make(map[string]bool),
		ensured: make(map[Evaluator]bool),
	}
}

// meshes and constants ///////////////////////////////////////////////////////////////////////////

// RegisterMesh sets the mesh of domain
func (o *State) RegisterMesh(domain string, m mesh.Mesh) { o.meshes[domain] = m }

// Mesh returns the mesh of domain
func (o *State) Mesh(domain string) (mesh.Mesh, error) {
	m, ok := o.meshes[domain]
	if !ok {
		return nil, ConfigErr("domain %q has no mesh", domain)
	}
	return m, nil
}

// HasMesh tells whether domain has a mesh
func (o *State) HasMesh(domain string) bool {
	_, ok := o.meshes[domain]
	return ok
}

// SetScalar sets a named scalar constant
func (o *State) SetScalar(key string, val float64) { o.scalars[key] = val }

// GetScalar returns a named scalar constant
func (o *State) GetScalar(key string) (float64, error) {
	v, ok := o.scalars[key]
	if !ok {
		return 0, ConfigErr("scalar %q does not exist", key)
	}
	return v, nil
}

// SetConstantVector sets a named constant vector
func (o *State) SetConstantVector(key string, val []float64) {
	o.vectors[key] = append([]float64{}, val...)
}

// GetConstantVector returns a named constant vector
func (o *State) GetConstantVector(key string) ([]float64, error) {
	v, ok := o.vectors[key]
	if !ok {
		return nil, ConfigErr("constant vector %q does not exist", key)
	}
	return v, nil
}

// HasConstantVector tells whether a named constant vector exists
func (o *State) HasConstantVector(key string) bool {
	_, ok := o.vectors[key]
	return ok
}

// fields /////////////////////////////////////////////////////////////////////////////////////////

// RequireField creates the field on first call and returns its space on every call
//  Input:
//   owner -- requester becoming the owner; empty means read-only use. An unclaimed field
//            may be claimed once; a second, different owner is a ConfigError
//   comps -- components added to the space; an incompatible redeclaration is a ConfigError
func (o *State) RequireField(key, owner string, comps ...Component) (sp *Space, err error) {
	f, ok := o.fields[key]
	if !ok {
		domain := GetDomain(key)
		m, ok := o.meshes[domain]
		if !ok {
			return nil, ConfigErr("cannot require field %q: domain %q has no mesh", key, domain)
		}
		if o.ready {
			return nil, ConfigErr("cannot require field %q after setup", key)
		}
		f = &Field{Key: key, Space: NewSpace(domain, m)}
		o.fields[key] = f
	}
	if owner != "" {
		if f.Owner != "" && f.Owner != owner {
			return nil, ConfigErr("field %q is owned by %q and cannot be claimed by %q", key, f.Owner, owner)
		}
		f.Owner = owner
	}
	for _, c := range comps {
		if err = f.Space.AddComponent(c.Name, c.Kind, c.Ndofs); err != nil {
			return nil, ConfigErr("field %q: %v", key, err)
		}
	}
	return f.Space, nil
}

// HasField tells whether field exists
func (o *State) HasField(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Field returns a field
func (o *State) Field(key string) (*Field, error) {
	f, ok := o.fields[key]
	if !ok {
		return nil, ConfigErr("field %q does not exist", key)
	}
	return f, nil
}

// FieldKeys returns the sorted keys of all fields
func (o *State) FieldKeys() (keys []string) {
	for k := range o.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// GetFieldData returns read-only data, recomputing it first if its evaluator needs to
func (o *State) GetFieldData(key string) (*CompositeVector, error) {
	f, err := o.allocated(key)
	if err != nil {
		return nil, err
	}
	if ev, ok := o.evals[key]; ok {
		if _, err = ev.HasFieldChanged(o, readRequest); err != nil {
			return nil, err
		}
	}
	return f.data, nil
}

// GetFieldDataW returns writable data; only the owner may call it
//  Note: no evaluation is triggered
func (o *State) GetFieldDataW(key, owner string) (*CompositeVector, error) {
	f, err := o.allocated(key)
	if err != nil {
		return nil, err
	}
	return f.DataW(owner)
}

// SetFieldData overwrites data by handle; only the owner may call it
func (o *State) SetFieldData(key, owner string, cv *CompositeVector) error {
	f, err := o.Field(key)
	if err != nil {
		return err
	}
	return f.SetData(owner, cv)
}

// SetFieldDataCopy overwrites data by value; only the owner may call it
func (o *State) SetFieldDataCopy(key, owner string, cv *CompositeVector) error {
	f, err := o.Field(key)
	if err != nil {
		return err
	}
	return f.SetDataCopy(owner, cv)
}

// evaluators /////////////////////////////////////////////////////////////////////////////////////

// SetEvaluator sets the evaluator of all of its keys
func (o *State) SetEvaluator(ev Evaluator) error {
	for _, key := range ev.Keys() {
		if old, ok := o.evals[key]; ok && old != ev {
			return ConfigErr("field %q already has an evaluator", key)
		}
	}
	for _, key := range ev.Keys() {
		o.evals[key] = ev
	}
	return nil
}

// RequireEvaluator declares that key must have an evaluator after Setup
//  Note: the evaluator is built immediately if "field evaluators" has an entry for key
func (o *State) RequireEvaluator(key string) (err error) {
	if _, ok := o.evals[key]; ok {
		return
	}
	o.needed[key] = true
	fe, err := o.Plist.Sublist("field evaluators")
	if err != nil {
		return
	}
	if fe.IsSublist(key) {
		var ev Evaluator
		if ev, err = newEvaluatorFrom(fe, key); err != nil {
			return
		}
		return o.SetEvaluator(ev)
	}
	return
}

// GetEvaluator returns the evaluator of key
func (o *State) GetEvaluator(key string) (Evaluator, error) {
	ev, ok := o.evals[key]
	if !ok {
		return nil, ConfigErr("field %q has no evaluator", key)
	}
	return ev, nil
}

// HasEvaluator tells whether key has an evaluator
func (o *State) HasEvaluator(key string) bool {
	_, ok := o.evals[key]
	return ok
}

// HasFieldChanged updates key if needed and tells whether request has not yet seen its current value
func (o *State) HasFieldChanged(key, request string) (bool, error) {
	ev, ok := o.evals[key]
	if !ok {
		return false, ConfigErr("field %q has no evaluator", key)
	}
	return ev.HasFieldChanged(o, request)
}

// SetFieldChanged tells the evaluator of a primary field (or signal) that its value changed
func (o *State) SetFieldChanged(key string) error {
	ev, ok := o.evals[key]
	if !ok {
		return ConfigErr("field %q has no evaluator", key)
	}
	c, ok := ev.(Changeable)
	if !ok {
		return ConfigErr("evaluator of %q cannot be marked as changed", key)
	}
	c.SetFieldChanged()
	return nil
}

// EvaluateDerivative returns ∂key/∂wrt
func (o *State) EvaluateDerivative(key, wrt string) (*CompositeVector, error) {
	ev, ok := o.evals[key]
	if !ok {
		return nil, ConfigErr("field %q has no evaluator", key)
	}
	d, ok := ev.(Differentiable)
	if !ok {
		return nil, ConfigErr("evaluator of %q does not compute derivatives", key)
	}
	return d.Derivative(o, key, wrt)
}

// Order returns the keys of evaluators in dependency order (after Setup)
func (o *State) Order() []string { return o.order }

// setup and initialisation ///////////////////////////////////////////////////////////////////////

// Setup builds missing evaluators, checks the dependency graph and allocates data
//  Note: a dependency without evaluator or entry in "field evaluators" becomes a
//        primary variable if its field has an owner; otherwise it is a ConfigError
func (o *State) Setup() (err error) {

	// resolve evaluators until nothing new appears
	fe, err := o.Plist.Sublist("field evaluators")
	if err != nil {
		return
	}
	for {
		progress := false
		for _, key := range o.evaluatorKeys() {
			ev := o.evals[key]
			if o.ensured[ev] {
				continue
			}
			o.ensured[ev] = true
			if err = ev.EnsureCompatibility(o); err != nil {
				return
			}
			progress = true
		}
		for _, key := range o.missing() {
			if _, done := o.evals[key]; !done && fe.IsSublist(key) {
				var ev Evaluator
				if ev, err = newEvaluatorFrom(fe, key); err != nil {
					return
				}
				if err = o.SetEvaluator(ev); err != nil {
					return
				}
				progress = true
			}
		}
		if !progress {
			break
		}
	}

	// primary variables of owned fields; everything else is missing
	for _, key := range o.missing() {
		f, ok := o.fields[key]
		if !ok || f.Owner == "" {
			return ConfigErr("missing dependency: %q has neither an evaluator nor an owner", key)
		}
		o.evals[key] = NewPrimary(key)
		o.ensured[o.evals[key]] = true
	}

	// dependency graph
	if o.order, err = sortEvaluators(o.evals); err != nil {
		return
	}

	// allocate
	for _, key := range o.FieldKeys() {
		f := o.fields[key]
		if len(f.Space.Comps) == 0 {
			f.Space.AddComponent("cell", mesh.CELL, 1)
		}
		if f.data == nil {
			f.data = f.Space.Create()
		}
	}
	o.ready = true
	o.Log.Debug().Int("fields", len(o.fields)).Int("evaluators", len(o.order)).Msg("state setup")
	return
}

// InitializeFields sets fields from "initial conditions"
func (o *State) InitializeFields() (err error) {
	ics, err := o.Plist.Sublist("initial conditions")
	if err != nil {
		return
	}
	for _, key := range ics.Keys() {
		f, ok := o.fields[key]
		if !ok {
			return ConfigErr("initial condition given for %q but this field does not exist", key)
		}
		var ic inp.ParameterList
		if ic, err = ics.Sublist(key); err != nil {
			return
		}
		if err = f.Initialize(ic); err != nil {
			return
		}
		o.Log.Debug().Str("field", key).Bool("initialized", f.Initialized).Msg("initial condition")
	}
	return
}

// CheckAllFieldsInitialized checks that fields advanced by process kernels have values
//  Note: secondary fields are computed on demand and are not checked
func (o *State) CheckAllFieldsInitialized() error {
	var keys []string
	for _, key := range o.FieldKeys() {
		if _, ok := o.evals[key].(Changeable); ok && !o.fields[key].Initialized {
			keys = append(keys, key)
		}
	}
	if len(keys) > 0 {
		return ConfigErr("fields %v were not initialized", keys)
	}
	return nil
}

// time levels ////////////////////////////////////////////////////////////////////////////////////

// Copy returns a deep copy of o; fields and evaluators never share storage with o
func (o *State) Copy() *State {
	res := New(o.Plist, o.Log)
	res.Time, res.Cycle, res.OnEvaluate, res.ready = o.Time, o.Cycle, o.OnEvaluate, o.ready
	res.order = append([]string{}, o.order...)
	for k, m := range o.meshes {
		res.meshes[k] = m
	}
	for k, f := range o.fields {
		res.fields[k] = f.Clone()
	}
	clones := make(map[Evaluator]Evaluator)
	for k, ev := range o.evals {
		c, ok := clones[ev]
		if !ok {
			c = ev.Clone()
			clones[ev] = c
			res.ensured[c] = o.ensured[ev]
		}
		res.evals[k] = c
	}
	for k, v := range o.scalars {
		res.scalars[k] = v
	}
	for k, v := range o.vectors {
		res.vectors[k] = append([]float64{}, v...)
	}
	for k := range o.needed {
		res.needed[k] = true
	}
	return res
}

// AssignFrom copies time and data from other (with the same fields) and marks primary variables as changed
func (o *State) AssignFrom(other *State) (err error) {
	for key, f := range o.fields {
		g, ok := other.fields[key]
		if !ok {
			return ConsistencyErr("cannot assign state: field %q does not exist in the source", key)
		}
		if f.data == nil || g.data == nil {
			return ConfigErr("cannot assign state: field %q is not allocated", key)
		}
		if err = f.data.CopyFrom(g.data); err != nil {
			return
		}
		f.Initialized = g.Initialized
	}
	o.Time, o.Cycle = other.Time, other.Cycle
	for _, ev := range o.evals {
		if c, ok := ev.(Changeable); ok {
			c.SetFieldChanged()
		}
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// allocated returns a field whose data exists
func (o *State) allocated(key string) (*Field, error) {
	f, err := o.Field(key)
	if err != nil {
		return nil, err
	}
	if f.data == nil {
		return nil, ConfigErr("field %q has no data; State.Setup must be called first", key)
	}
	return f, nil
}

// evaluated is called by secondary evaluators after recomputing
func (o *State) evaluated(key string) {
	o.Log.Trace().Str("key", key).Float64("time", o.Time).Msg("evaluated")
	if o.OnEvaluate != nil {
		o.OnEvaluate(key)
	}
}

// evaluatorKeys returns the sorted keys with evaluators
func (o *State) evaluatorKeys() (keys []string) {
	for k := range o.evals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// missing returns the sorted keys that are required or depended upon, or are fields, and have no evaluator
func (o *State) missing() (keys []string) {
	set := make(map[string]bool)
	for k := range o.needed {
		set[k] = true
	}
	for k := range o.fields {
		set[k] = true
	}
	for _, ev := range o.evals {
		for _, d := range ev.Dependencies() {
			set[d] = true
		}
	}
	for k := range set {
		if _, ok := o.evals[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return
}
