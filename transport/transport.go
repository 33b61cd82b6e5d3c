// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package transport implements explicit upwind advection of solutes carried by water
package transport

import (
	"math"

	"github.com/cpmech/gosl/utl"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"gonum.org/v1/gonum/floats"
)

// set factory
func init() {
	pk.Register("transport explicit", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		return New(name, plist, log)
	})
}

// Transport advances total component concentrations C [mol/mol] with first order upwinding
//  Θⁿ⁺¹ Cⁿ⁺¹ = Θⁿ Cⁿ - Δt Σ_f q_f C_up + Δt s C_src
//  Θ is the water content [mol] of cells and q the water flux [mol/s] through faces (outward
//  from cells[0] of each face and outward of the domain on boundary faces).
//  Parameters (besides those of pk.Physical):
//   "component names"         = ["tracer"]
//   "water content key"       = <domain>-water_content
//   "water flux key"          = <domain>-water_flux
//   "water source key"        = "" -- optional cell source of water [mol/s]; positive into cells
//   "source concentration <component>" = 0 -- concentration of entering source water
//   "cfl"                     = 1
//   "boundary conditions"     -- blocks with "region" and "concentration <component>" of inflowing water
type Transport struct {
	pk.Physical

	// keys
	wcKey   string // water content
	fluxKey string // water flux
	srcKey  string // water source; may be empty

	// options
	names []string  // component names
	csrc  []float64 // [ncomp] concentration of source water
	cfl   float64   // Courant number
	bcs   []bcSpec  // inflow concentrations

	// coupling with the surface (volumetric kernel)
	surfDomain string // domain of surface; empty if not coupled
	surfTcc    string // key of surface concentrations

	// coupling with the subsurface (surface kernel)
	subDomain string // domain of subsurface; empty if not coupled
	subFlux   string // key of subsurface water flux
	subTcc    string // key of subsurface concentrations

	// auxiliary; set on first use
	m      mesh.Mesh         // mesh of domain
	inflow map[int][]float64 // boundary face => [ncomp] inflow concentration
	parent map[int]int       // boundary face => surface cell above it
}

// bcSpec holds inflow concentrations on a region
type bcSpec struct {
	region string    // region of boundary faces
	conc   []float64 // [ncomp] concentrations
}

// New returns a new transport kernel
func New(name string, plist inp.ParameterList, log zerolog.Logger) (o *Transport, err error) {
	o = new(Transport)
	if o.Physical, err = pk.NewPhysical(name, plist, log, "total_component_concentration"); err != nil {
		return nil, err
	}
	if !plist.IsParameter("initial time step") {
		o.Dt = math.Inf(1)
	}

	// keys
	d := o.DomainName
	if o.wcKey, err = plist.GetString("water content key", state.GetKey(d, "water_content")); err != nil {
		return nil, err
	}
	if o.fluxKey, err = plist.GetString("water flux key", state.GetKey(d, "water_flux")); err != nil {
		return nil, err
	}
	if o.srcKey, err = plist.GetString("water source key", ""); err != nil {
		return nil, err
	}

	// components
	if o.names, err = plist.GetStrings("component names", []string{"tracer"}); err != nil {
		return nil, err
	}
	if len(o.names) < 1 {
		return nil, state.ConfigErr("%s: at least one component is required", name)
	}
	if o.cfl, err = plist.GetFloat("cfl", 1); err != nil {
		return nil, err
	}
	if o.cfl <= 0 || o.cfl > 1 {
		return nil, state.ConfigErr("%s: cfl must be in (0, 1]; %g is invalid", name, o.cfl)
	}
	if o.csrc, err = o.concentrations(plist, "source concentration"); err != nil {
		return nil, err
	}

	// boundary conditions
	bcs, err := plist.Sublist("boundary conditions")
	if err != nil {
		return nil, err
	}
	for _, block := range bcs.Keys() {
		var sub inp.ParameterList
		if sub, err = bcs.Sublist(block); err != nil {
			return nil, err
		}
		bc := bcSpec{}
		if bc.region, err = sub.GetString("region", block); err != nil {
			return nil, err
		}
		if bc.conc, err = o.concentrations(sub, "concentration"); err != nil {
			return nil, err
		}
		o.bcs = append(o.bcs, bc)
	}
	return
}

// ComponentNames returns the names of transported components
func (o *Transport) ComponentNames() []string { return o.names }

// ConcentrationKey returns the key of the concentrations
func (o *Transport) ConcentrationKey() string { return o.Key }

// WaterFluxKey returns the key of the water flux
func (o *Transport) WaterFluxKey() string { return o.fluxKey }

// CoupleToSurface makes o exchange solutes with the kernel advancing the surface above it
//  Note: must be called before Setup
func (o *Transport) CoupleToSurface(surf *Transport) {
	o.surfDomain, o.surfTcc = surf.DomainName, surf.Key
}

// CoupleToSubsurface makes o exchange solutes with the kernel advancing the subsurface below it
//  Note: must be called before Setup
func (o *Transport) CoupleToSubsurface(sub *Transport) {
	o.subDomain, o.subFlux, o.subTcc = sub.DomainName, sub.fluxKey, sub.Key
}

// Setup claims the concentrations and requires the water fields
func (o *Transport) Setup(S *state.State) (err error) {
	ncomp := len(o.names)
	cell := state.Component{Name: "cell", Kind: mesh.CELL, Ndofs: ncomp}
	if _, err = S.RequireField(o.Key, o.PKName, cell); err != nil {
		return
	}
	f, err := S.Field(o.Key)
	if err != nil {
		return
	}
	f.Subnames = o.names
	f.Vis, f.Checkpoint = true, true
	if !S.HasEvaluator(o.Key) {
		if err = S.SetEvaluator(state.NewPrimary(o.Key)); err != nil {
			return
		}
	}
	if _, err = S.RequireField(o.wcKey, ""); err != nil {
		return
	}
	if err = S.RequireEvaluator(o.wcKey); err != nil {
		return
	}
	face := state.Component{Name: "face", Kind: mesh.FACE, Ndofs: 1}
	if err = o.require(S, o.fluxKey, face); err != nil {
		return
	}
	if o.srcKey != "" {
		if err = o.require(S, o.srcKey); err != nil {
			return
		}
	}
	if o.surfDomain != "" {
		if err = o.require(S, o.surfTcc, cell); err != nil {
			return
		}
	}
	if o.subDomain != "" {
		if err = o.require(S, o.subFlux, face); err != nil {
			return
		}
		err = o.require(S, o.subTcc, cell)
	}
	return
}

// Initialize sets the concentrations from "initial condition"
func (o *Transport) Initialize(S *state.State) (err error) {
	if err = o.Physical.Initialize(S); err != nil {
		return
	}
	o.Log.Debug().Str("key", o.Key).Strs("components", o.names).Msg("initialized")
	return
}

// GetTimeStep returns the largest stable step of the current water fluxes
func (o *Transport) GetTimeStep() float64 {
	if o.Snew == nil {
		return o.Dt
	}
	dt, err := o.StableStep(o.Snew)
	if err != nil {
		o.Log.Warn().Err(err).Msg("cannot compute stable time step")
		return o.Dt
	}
	return utl.Min(dt, o.Dt)
}

// StableStep returns cfl × min Θ_c / Σ outflow_c over cells with outflow
//  Note: infiltration into the subsurface is an outflow of surface cells
func (o *Transport) StableStep(S *state.State) (dt float64, err error) {
	wc, q, err := o.water(S)
	if err != nil {
		return
	}
	out := make([]float64, len(wc))
	for f, qf := range q {
		cells := o.m.FaceGetCells(f, mesh.USED)
		switch {
		case qf > 0:
			out[cells[0]] += qf
		case qf < 0 && len(cells) == 2:
			out[cells[1]] -= qf
		}
	}
	if o.subDomain != "" {
		var qv *state.CompositeVector
		if qv, err = S.GetFieldData(o.subFlux); err != nil {
			return
		}
		qsub := qv.Values("face")
		for c := range out {
			if f := o.m.ParentEntity(c); f >= 0 && qsub[f] < 0 {
				out[c] -= qsub[f]
			}
		}
	}
	dt = math.Inf(1)
	for c, v := range out {
		if v > 0 {
			dt = utl.Min(dt, o.cfl*wc[c]/v)
		}
	}
	return
}

// AdvanceStep moves the concentrations of Snew from tOld to tNew
//  Note: a step larger than the stable step fails without changing Snew
func (o *Transport) AdvanceStep(tOld, tNew float64) (ok bool, err error) {

	// check
	dt := tNew - tOld
	if dt <= 0 {
		return false, state.ConfigErr("%s: time step must be positive: t_old=%g, t_new=%g", o.PKName, tOld, tNew)
	}
	if o.Sold == nil || o.Snew == nil {
		return false, state.ConfigErr("%s: SetStates must be called first", o.PKName)
	}
	dtmax, err := o.StableStep(o.Snew)
	if err != nil {
		return
	}
	if dt > dtmax*(1+1e-12) {
		o.Log.Debug().Float64("dt", dt).Float64("dt stable", dtmax).Msg("step too large")
		return false, nil
	}

	// old solute mass
	wcOld, err := cellValues(o.Sold, o.wcKey)
	if err != nil {
		return
	}
	cOld, err := o.Sold.GetFieldData(o.Key)
	if err != nil {
		return
	}
	C := cOld.ViewComponent("cell")
	ncells := len(wcOld)
	mass := make([][]float64, len(o.names))
	for i := range mass {
		mass[i] = make([]float64, ncells)
		for c := range mass[i] {
			mass[i][c] = wcOld[c] * C[i][c]
		}
	}

	// advection
	wcNew, q, err := o.water(o.Snew)
	if err != nil {
		return
	}
	up, err := o.inflowConcentrations()
	if err != nil {
		return
	}
	for f, qf := range q {
		if qf == 0 {
			continue
		}
		cells := o.m.FaceGetCells(f, mesh.USED)
		a := cells[0]
		if len(cells) == 2 {
			b := cells[1]
			src, dst := a, b
			if qf < 0 {
				src, dst = b, a
			}
			for i := range mass {
				mass[i][src] -= dt * math.Abs(qf) * C[i][src]
				mass[i][dst] += dt * math.Abs(qf) * C[i][src]
			}
			continue
		}
		for i := range mass {
			if qf > 0 {
				mass[i][a] -= dt * qf * C[i][a]
			} else if cin, ok := up[f]; ok {
				mass[i][a] -= dt * qf * cin[i]
			}
		}
	}

	// sources
	if o.srcKey != "" {
		var s []float64
		if s, err = cellValues(o.Snew, o.srcKey); err != nil {
			return
		}
		for c := 0; c < ncells; c++ {
			if s[c] > 0 {
				for i := range mass {
					mass[i][c] += dt * s[c] * o.csrc[i]
				}
			}
		}
	}

	// exchange with subsurface
	if o.subDomain != "" {
		if err = o.exchange(dt, C, mass); err != nil {
			return
		}
	}

	// new concentrations
	cNew, err := o.Snew.GetFieldDataW(o.Key, o.PKName)
	if err != nil {
		return
	}
	Cn := cNew.ViewComponent("cell")
	for i := range mass {
		for c := 0; c < ncells; c++ {
			if wcNew[c] > 0 {
				Cn[i][c] = mass[i][c] / wcNew[c]
			} else {
				Cn[i][c] = 0
			}
		}
	}
	o.Log.Debug().Float64("t", tNew).Float64("dt", dt).Float64("dt stable", dtmax).Msg("advance")
	return true, o.Snew.SetFieldChanged(o.Key)
}

// ComputeSolute returns the amount of component i in owned cells [mol]: Σ C_i Θ
func (o *Transport) ComputeSolute(S *state.State, i int) (total float64, err error) {
	if i < 0 || i >= len(o.names) {
		return 0, state.ConfigErr("%s: component %d does not exist; number of components is %d", o.PKName, i, len(o.names))
	}
	cv, err := S.GetFieldData(o.Key)
	if err != nil {
		return
	}
	wc, err := S.GetFieldData(o.wcKey)
	if err != nil {
		return
	}
	n := cv.SizeOwned("cell")
	return floats.Dot(cv.ViewComponent("cell")[i][:n], wc.Values("cell")[:n]), nil
}

// ComputeMass returns the amount of each component in owned cells [mol]
func (o *Transport) ComputeMass(S *state.State) (mass []float64, err error) {
	mass = make([]float64, len(o.names))
	for i := range o.names {
		if mass[i], err = o.ComputeSolute(S, i); err != nil {
			return nil, err
		}
	}
	return
}

// CalculateDiagnostics logs the amount of each component
func (o *Transport) CalculateDiagnostics(S *state.State) (err error) {
	mass, err := o.ComputeMass(S)
	if err != nil {
		return
	}
	for i, name := range o.names {
		o.Log.Info().Float64("t", S.Time).Str("component", name).Float64("amount", mass[i]).Msg("diagnostics")
	}
	return
}

// SolutionLayout registers all components of the owned cells
func (o *Transport) SolutionLayout(l *pk.Layout) (err error) {
	if o.Snew == nil {
		return state.ConfigErr("%s: SetStates must be called first", o.PKName)
	}
	cv, err := o.Snew.GetFieldData(o.Key)
	if err != nil {
		return
	}
	_, err = l.Register(o.PKName, len(o.names)*cv.SizeOwned("cell"))
	return
}

// StateToSolution copies the concentrations into u; component by component
func (o *Transport) StateToSolution(S *state.State, u *pk.TreeVector) (err error) {
	cv, err := S.GetFieldData(o.Key)
	if err != nil {
		return
	}
	x, n := u.Sub(o.PKName), cv.SizeOwned("cell")
	for i, v := range cv.ViewComponent("cell") {
		copy(x[i*n:(i+1)*n], v[:n])
	}
	return
}

// SolutionToState copies u into the concentrations and marks them as changed
func (o *Transport) SolutionToState(u *pk.TreeVector, S *state.State) (err error) {
	cv, err := S.GetFieldDataW(o.Key, o.PKName)
	if err != nil {
		return
	}
	x, n := u.Sub(o.PKName), cv.SizeOwned("cell")
	for i, v := range cv.ViewComponent("cell") {
		copy(v[:n], x[i*n:(i+1)*n])
	}
	return S.SetFieldChanged(o.Key)
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// require requires a field written by another kernel or computed by an evaluator
func (o *Transport) require(S *state.State, key string, comps ...state.Component) (err error) {
	if _, err = S.RequireField(key, "", comps...); err != nil {
		return
	}
	return S.RequireEvaluator(key)
}

// concentrations reads "<prefix> <component>" for all components
func (o *Transport) concentrations(plist inp.ParameterList, prefix string) (res []float64, err error) {
	res = make([]float64, len(o.names))
	for i, name := range o.names {
		if res[i], err = plist.GetFloat(prefix+" "+name, 0); err != nil {
			return nil, err
		}
	}
	return
}

// water returns the water content in cells and the water flux through faces of S
func (o *Transport) water(S *state.State) (wc, q []float64, err error) {
	if o.m == nil {
		if o.m, err = S.Mesh(o.DomainName); err != nil {
			return
		}
	}
	if wc, err = cellValues(S, o.wcKey); err != nil {
		return
	}
	cv, err := S.GetFieldData(o.fluxKey)
	if err != nil {
		return
	}
	if q = cv.Values("face"); q == nil {
		err = state.ConfigErr("%s: water flux %q has no face component", o.PKName, o.fluxKey)
	}
	return
}

// inflowConcentrations returns the concentrations of water entering through boundary faces
//  Note: faces below surface cells take the old surface concentrations; other boundary faces
//        take the values of "boundary conditions" and clean water elsewhere
func (o *Transport) inflowConcentrations() (res map[int][]float64, err error) {
	if o.inflow == nil {
		o.inflow = make(map[int][]float64)
		for _, bc := range o.bcs {
			var faces []int
			if faces, err = o.m.RegionEntities(bc.region, mesh.FACE, mesh.USED); err != nil {
				return nil, state.ConfigErr("%s: %v", o.PKName, err)
			}
			for _, f := range faces {
				if len(o.m.FaceGetCells(f, mesh.USED)) != 1 {
					return nil, state.ConfigErr("%s: face %d of region %q is not on the boundary", o.PKName, f, bc.region)
				}
				o.inflow[f] = bc.conc
			}
		}
	}
	if o.surfDomain == "" {
		return o.inflow, nil
	}
	if o.parent == nil {
		var surf mesh.Mesh
		if surf, err = o.Sold.Mesh(o.surfDomain); err != nil {
			return
		}
		o.parent = make(map[int]int)
		for c := 0; c < surf.NumEntities(mesh.CELL, mesh.OWNED); c++ {
			if f := surf.ParentEntity(c); f >= 0 {
				o.parent[f] = c
			}
		}
	}
	cv, err := o.Sold.GetFieldData(o.surfTcc)
	if err != nil {
		return
	}
	C := cv.ViewComponent("cell")
	res = make(map[int][]float64, len(o.inflow)+len(o.parent))
	for f, cin := range o.inflow {
		res[f] = cin
	}
	for f, c := range o.parent {
		cin := make([]float64, len(o.names))
		for i := range cin {
			cin[i] = C[i][c]
		}
		res[f] = cin
	}
	return
}

// exchange adds the solutes leaving or entering the surface through the subsurface faces below it
//  Note: the subsurface flux is outward of the subsurface: negative values are infiltration
func (o *Transport) exchange(dt float64, C, mass [][]float64) (err error) {
	sub, err := o.Sold.Mesh(o.subDomain)
	if err != nil {
		return
	}
	qv, err := o.Snew.GetFieldData(o.subFlux)
	if err != nil {
		return
	}
	cv, err := o.Sold.GetFieldData(o.subTcc)
	if err != nil {
		return
	}
	q, Csub := qv.Values("face"), cv.ViewComponent("cell")
	for c := range mass[0] {
		f := o.m.ParentEntity(c)
		if f < 0 {
			continue
		}
		cells := sub.FaceGetCells(f, mesh.USED)
		if len(cells) != 1 {
			return state.ConsistencyErr("%s: parent face %d of surface cell %d is not on the subsurface boundary", o.PKName, f, c)
		}
		for i := range mass {
			if q[f] < 0 {
				mass[i][c] += dt * q[f] * C[i][c]
			} else {
				mass[i][c] += dt * q[f] * Csub[i][cells[0]]
			}
		}
	}
	return
}

// cellValues returns the cell values of a field of S
func cellValues(S *state.State, key string) (vals []float64, err error) {
	cv, err := S.GetFieldData(key)
	if err != nil {
		return
	}
	if vals = cv.Values("cell"); vals == nil {
		err = state.ConfigErr("field %q has no cell component", key)
	}
	return
}
