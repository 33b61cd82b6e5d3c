// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/operator"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"gonum.org/v1/gonum/floats"
)

// Residual computes f := ∇·q + (Θ(uNew) - Θ(uOld)) / (tNew - tOld) for each cell
func (o *Richards) Residual(tOld, tNew float64, uOld, uNew, f *pk.TreeVector) (err error) {

	// check
	h := tNew - tOld
	if h <= 0 {
		return state.ConfigErr("%s: residual requested with a non-positive time step: t_old=%g, t_new=%g", o.PKName, tOld, tNew)
	}
	o.nevals++

	// operator at uNew
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

	// accumulation
	wcNew, err := cellValues(o.Snew, o.wcKey)
	if err != nil {
		return
	}
	wcOld, err := cellValues(o.Sold, o.wcKey)
	if err != nil {
		return
	}
	for c := range r {
		r[c] += (wcNew[c] - wcOld[c]) / h
	}
	return
}

// UpdatePreconditioner factorizes the operator at u plus the accumulation term dΘ/dp / h
func (o *Richards) UpdatePreconditioner(t float64, u *pk.TreeVector, h float64) (err error) {
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
	dwc, _, err := o.TotalDerivative(o.Snew, o.wcKey)
	if err != nil {
		return
	}
	for c := range o.diag {
		o.diag[c] = 0
		if dwc != nil {
			o.diag[c] = dwc[c] / h
		}
	}
	return o.op.Factorize(o.diag)
}

// ApplyPreconditioner solves P Pu = u
func (o *Richards) ApplyPreconditioner(u, Pu *pk.TreeVector) error {
	return o.op.Solve(u.Sub(o.PKName), Pu.Sub(o.PKName))
}

// ErrorNorm returns max |du| / (atol + rtol |u|) over the cells
func (o *Richards) ErrorNorm(u, du *pk.TreeVector) float64 {
	return pk.ErrorNorm(u, du, o.PKName, o.atol, o.rtol)
}

// updateOperator rebuilds the operator with the mobilities and densities of S
//  The gravity flux of face f from cell a to cell b is coef T ρ g·(x_b - x_a); it is
//  added to the elemental contributions before the boundary conditions are applied
func (o *Richards) updateOperator(S *state.State) (err error) {

	// discretization
	if o.op == nil {
		if err = o.discretize(S); err != nil {
			return
		}
	}

	// secondary variables
	var p, kr, n, mu, rho []float64
	for _, item := range []struct {
		key string
		val *[]float64
	}{{o.Key, &p}, {o.krKey, &kr}, {o.nKey, &n}, {o.muKey, &mu}, {o.rhoKey, &rho}} {
		if *item.val, err = cellValues(S, item.key); err != nil {
			return
		}
	}

	// face mobilities and densities
	nf := len(o.coef)
	gdx := make([]float64, nf)
	for f := 0; f < nf; f++ {
		cells := o.m.FaceGetCells(f, mesh.USED)
		a := cells[0]
		xb := o.m.FaceCentroid(f)
		if len(cells) == 2 {
			xb = o.m.CellCentroid(cells[1])
		}
		gdx[f] = o.gravityDot(o.m.CellCentroid(a), xb)
		ma := n[a] * kr[a] / mu[a]
		if len(cells) == 1 {
			o.coef[f], o.rho[f] = ma, rho[a]
			continue
		}
		b := cells[1]
		mb := n[b] * kr[b] / mu[b]
		o.rho[f] = 0.5 * (rho[a] + rho[b])
		switch {
		case !o.upwind:
			o.coef[f] = 0.5 * (ma + mb)
		case p[a]-p[b]+o.rho[f]*gdx[f] >= 0:
			o.coef[f] = ma
		default:
			o.coef[f] = mb
		}
	}

	// operator
	if err = o.op.Build(o.coef); err != nil {
		return
	}
	for f := 0; f < nf; f++ {
		if err = o.op.AddFaceFlux(f, o.coef[f]*o.op.Transmissibility(f)*o.rho[f]*gdx[f]); err != nil {
			return
		}
	}
	if err = o.op.ApplyBCs(o.bcs); err != nil {
		return
	}
	return o.op.Assemble()
}

// discretize allocates the operator and boundary conditions
func (o *Richards) discretize(S *state.State) (err error) {
	if o.m, err = S.Mesh(o.DomainName); err != nil {
		return
	}
	perm, err := S.GetFieldData(o.permKey)
	if err != nil {
		return
	}
	sdim := o.m.SpaceDimension()
	K, err := operator.PermTensors(sdim, perm.ViewComponent("cell"))
	if err != nil {
		return state.ConfigErr("%s: %v", o.PKName, err)
	}
	op, err := operator.NewTPFA(o.m, K)
	if err != nil {
		return state.ConsistencyErr("%s: %v", o.PKName, err)
	}
	op.Log = o.Log
	if o.bcs, err = operator.ApplyBCSpecs(o.m, o.bcData); err != nil {
		return
	}
	if S.HasConstantVector("gravity") {
		if o.grav, err = S.GetConstantVector("gravity"); err != nil {
			return
		}
	} else {
		o.grav = make([]float64, sdim)
		o.grav[sdim-1] = -gravityDefault
	}
	if len(o.grav) != sdim {
		return state.ConfigErr("%s: gravity must have %d components; %v is invalid", o.PKName, sdim, o.grav)
	}
	nf := o.m.NumEntities(mesh.FACE, mesh.USED)
	o.coef = make([]float64, nf)
	o.rho = make([]float64, nf)
	o.diag = make([]float64, o.m.NumEntities(mesh.CELL, mesh.USED))
	o.op = op
	return
}

// gravityDot computes g·(xb - xa)
func (o *Richards) gravityDot(xa, xb []float64) float64 {
	d := make([]float64, len(xb))
	floats.SubTo(d, xb, xa)
	return floats.Dot(o.grav, d)
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
