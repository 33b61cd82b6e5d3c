// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/operator"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
)

// Residual computes f := -∇·(κ∇T) + ∇·(h q) + (E(uNew) - E(uOld)) / (tNew - tOld) for each cell
func (o *Energy) Residual(tOld, tNew float64, uOld, uNew, f *pk.TreeVector) (err error) {

	// check
	h := tNew - tOld
	if h <= 0 {
		return state.ConfigErr("%s: residual requested with a non-positive time step: t_old=%g, t_new=%g", o.PKName, tOld, tNew)
	}
	o.nevals++

	// conduction at uNew
	if err = o.SolutionToState(uNew, o.Snew); err != nil {
		return
	}
	if err = o.updateOperator(o.Snew); err != nil {
		return
	}
	r := f.Sub(o.PKName)
	if err = o.op.ComputeResidual(uNew.Sub(o.PKName), r); err != nil {
		return
	}

	// advection
	if err = o.addAdvection(o.Snew, r); err != nil {
		return
	}

	// accumulation
	eNew, err := cellValues(o.Snew, o.eKey)
	if err != nil {
		return
	}
	eOld, err := cellValues(o.Sold, o.eKey)
	if err != nil {
		return
	}
	for c := range r {
		r[c] += (eNew[c] - eOld[c]) / h
	}
	return
}

// UpdatePreconditioner factorizes the conduction operator at u plus the accumulation term dE/dT / h
//  Note: advection is left out of the preconditioner
func (o *Energy) UpdatePreconditioner(t float64, u *pk.TreeVector, h float64) (err error) {
	if h <= 0 {
		return state.ConfigErr("%s: preconditioner requested with a non-positive time step %g", o.PKName, h)
	}
	o.nprecon++
	if err = o.SolutionToState(u, o.Snew); err != nil {
		return
	}
	if err = o.updateOperator(o.Snew); err != nil {
		return
	}
	de, _, err := o.TotalDerivative(o.Snew, o.eKey)
	if err != nil {
		return
	}
	for c := range o.diag {
		o.diag[c] = 0
		if de != nil {
			o.diag[c] = de[c] / h
		}
	}
	return o.op.Factorize(o.diag)
}

// ApplyPreconditioner solves P Pu = u
func (o *Energy) ApplyPreconditioner(u, Pu *pk.TreeVector) error {
	return o.op.Solve(u.Sub(o.PKName), Pu.Sub(o.PKName))
}

// ErrorNorm returns max |du| / (atol + rtol |u|) over the cells
func (o *Energy) ErrorNorm(u, du *pk.TreeVector) float64 {
	return pk.ErrorNorm(u, du, o.PKName, o.atol, o.rtol)
}

// updateOperator rebuilds the conduction operator with the conductivities of S
//  The face conductivity is the arithmetic mean of the cells sharing the face
func (o *Energy) updateOperator(S *state.State) (err error) {
	if o.op == nil {
		if err = o.discretize(S); err != nil {
			return
		}
	}
	kappa, err := cellValues(S, o.kappaKey)
	if err != nil {
		return
	}
	for f := range o.coef {
		cells := o.m.FaceGetCells(f, mesh.USED)
		if len(cells) == 1 {
			o.coef[f] = kappa[cells[0]]
			continue
		}
		o.coef[f] = 0.5 * (kappa[cells[0]] + kappa[cells[1]])
	}
	if err = o.op.Build(o.coef); err != nil {
		return
	}
	if err = o.op.ApplyBCs(o.bcs); err != nil {
		return
	}
	return o.op.Assemble()
}

// addAdvection adds the enthalpy carried through each face by the water flux to r
//  The enthalpy of the upwind cell is used; flux through the boundary carries the
//  enthalpy of the boundary cell
func (o *Energy) addAdvection(S *state.State, r []float64) (err error) {
	if o.fluxKey == "" {
		return
	}
	qv, err := S.GetFieldData(o.fluxKey)
	if err != nil {
		return
	}
	if !qv.HasComponent("face") {
		return state.ConfigErr("%s: field %q has no face component", o.PKName, o.fluxKey)
	}
	q := qv.Values("face")
	h, err := cellValues(S, o.hKey)
	if err != nil {
		return
	}
	for f := range q {
		cells := o.m.FaceGetCells(f, mesh.USED)
		a := cells[0]
		if len(cells) == 1 {
			r[a] += q[f] * h[a]
			continue
		}
		b := cells[1]
		up := a
		if q[f] < 0 {
			up = b
		}
		adv := q[f] * h[up]
		r[a] += adv
		r[b] -= adv
	}
	return
}

// discretize allocates the operator and boundary conditions
func (o *Energy) discretize(S *state.State) (err error) {
	if o.m, err = S.Mesh(o.DomainName); err != nil {
		return
	}
	nc := o.m.NumEntities(mesh.CELL, mesh.USED)
	ones := make([]float64, nc)
	for c := range ones {
		ones[c] = 1
	}
	K, err := operator.PermTensors(o.m.SpaceDimension(), [][]float64{ones})
	if err != nil {
		return state.ConsistencyErr("%s: %v", o.PKName, err)
	}
	op, err := operator.NewTPFA(o.m, K)
	if err != nil {
		return state.ConsistencyErr("%s: %v", o.PKName, err)
	}
	op.Log = o.Log
	if o.bcs, err = operator.ApplyBCSpecs(o.m, o.bcData); err != nil {
		return
	}
	o.coef = make([]float64, o.m.NumEntities(mesh.FACE, mesh.USED))
	o.diag = make([]float64, nc)
	o.op = op
	return
}

// cellValues returns the current cell values of key
func cellValues(S *state.State, key string) ([]float64, error) {
	cv, err := S.GetFieldData(key)
	if err != nil {
		return nil, err
	}
	if !cv.HasComponent("cell") {
		return nil, state.ConfigErr("field %q has no cell component", key)
	}
	return cv.Values("cell"), nil
}
