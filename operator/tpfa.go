// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/mesh"
	"gonum.org/v1/gonum/mat"
)

// TPFA implements a cell-centred two-point flux diffusion operator
//  The flux through face f from cell a to cell b is
//   q_f = coef_f T_f (u_a - u_b) + g_f
//  where T_f is the geometric transmissibility and g_f collects the contributions
//  added with AddFaceFlux. The residual of cell c is the sum of its outward fluxes.
type TPFA struct {

	// input
	Mesh    mesh.Mesh      // mesh
	Log     zerolog.Logger // logger for ill-conditioned systems
	MaxCond float64        // condition number above which Solve warns; 0 means mat.ConditionTolerance

	// geometry
	ncells int       // number of cells (owned and ghost)
	nfaces int       // number of faces (owned and ghost)
	trans  []float64 // [nfaces] geometric transmissibilities

	// elemental data
	coef []float64 // [nfaces] coefficients of the last Build
	fq   []float64 // [nfaces] fluxes not depending on unknowns
	bc   *BCs      // boundary conditions

	// global system
	A     *mat.Dense // [ncells][ncells] matrix
	b     []float64  // [ncells] right-hand side
	lu    mat.LU     // factorization of A + diag
	phase Phase      // current phase
	fact  bool       // lu is up to date
	cond  float64    // condition number estimate of the last factorization
	warn  bool       // warning already issued for the last factorization
}

// NewTPFA returns a new operator
//  Input:
//   K -- [ncells] permeability tensors; see PermTensors
func NewTPFA(m mesh.Mesh, K []*mat.SymDense) (o *TPFA, err error) {
	o = new(TPFA)
	o.Mesh = m
	o.ncells = m.NumEntities(mesh.CELL, mesh.USED)
	o.nfaces = m.NumEntities(mesh.FACE, mesh.USED)
	if len(K) != o.ncells {
		return nil, chk.Err("TPFA: number of tensors (%d) must be equal to the number of cells (%d)", len(K), o.ncells)
	}
	o.trans = make([]float64, o.nfaces)
	o.coef = make([]float64, o.nfaces)
	o.fq = make([]float64, o.nfaces)
	o.A = mat.NewDense(o.ncells, o.ncells, nil)
	o.b = make([]float64, o.ncells)

	// transmissibilities
	for f := 0; f < o.nfaces; f++ {
		cells := m.FaceGetCells(f, mesh.USED)
		var tt []float64
		for _, c := range cells {
			var t float64
			if t, err = halfTrans(m, K[c], c, f); err != nil {
				return nil, err
			}
			tt = append(tt, t)
		}
		switch len(tt) {
		case 1:
			o.trans[f] = tt[0]
		case 2:
			if tt[0]+tt[1] > 0 {
				o.trans[f] = tt[0] * tt[1] / (tt[0] + tt[1])
			}
		default:
			return nil, chk.Err("TPFA: face %d must have one or two cells; it has %d", f, len(tt))
		}
	}
	return
}

// Transmissibility returns the geometric transmissibility of face f
func (o *TPFA) Transmissibility(f int) float64 { return o.trans[f] }

// Phase returns the current phase
func (o *TPFA) Phase() Phase { return o.phase }

// RHS returns the assembled right-hand side
func (o *TPFA) RHS() []float64 { return o.b }

// Condition returns the condition number estimate of the last factorization
func (o *TPFA) Condition() float64 { return o.cond }

// Build rebuilds elemental matrices with face coefficients
func (o *TPFA) Build(coef []float64) error {
	if len(coef) != o.nfaces {
		return chk.Err("TPFA: number of coefficients (%d) must be equal to the number of faces (%d)", len(coef), o.nfaces)
	}
	copy(o.coef, coef)
	for f := range o.fq {
		o.fq[f] = 0
	}
	o.bc = nil
	o.phase = BUILT
	o.fact = false
	return nil
}

// AddFaceFlux adds a flux through face f not depending on the unknowns; e.g. gravity
func (o *TPFA) AddFaceFlux(f int, q float64) error {
	if err := phaseErr("AddFaceFlux", o.phase, BUILT); err != nil {
		return err
	}
	o.fq[f] += q
	return nil
}

// ApplyBCs applies boundary conditions
//  Note: Dirichlet and Neumann conditions are only allowed on boundary faces
func (o *TPFA) ApplyBCs(bc *BCs) error {
	if err := phaseErr("ApplyBCs", o.phase, BUILT); err != nil {
		return err
	}
	if len(bc.Markers) != o.nfaces || len(bc.Values) != o.nfaces {
		return chk.Err("TPFA: boundary conditions must be given for all %d faces", o.nfaces)
	}
	for f, mk := range bc.Markers {
		if mk != BC_NONE && len(o.Mesh.FaceGetCells(f, mesh.USED)) != 1 {
			return chk.Err("TPFA: boundary condition given on interior face %d", f)
		}
	}
	o.bc = bc
	o.phase = CONSTRAINED
	return nil
}

// Assemble assembles the global system
func (o *TPFA) Assemble() error {
	if err := phaseErr("Assemble", o.phase, CONSTRAINED); err != nil {
		return err
	}
	o.A.Zero()
	for c := range o.b {
		o.b[c] = 0
	}
	for f := 0; f < o.nfaces; f++ {
		tc := o.coef[f] * o.trans[f]
		cells := o.Mesh.FaceGetCells(f, mesh.USED)
		if len(cells) == 2 {
			a, b := cells[0], cells[1]
			o.A.Set(a, a, o.A.At(a, a)+tc)
			o.A.Set(b, b, o.A.At(b, b)+tc)
			o.A.Set(a, b, o.A.At(a, b)-tc)
			o.A.Set(b, a, o.A.At(b, a)-tc)
			o.b[a] -= o.fq[f]
			o.b[b] += o.fq[f]
			continue
		}
		c := cells[0]
		switch o.bc.Markers[f] {
		case BC_DIRICHLET:
			o.A.Set(c, c, o.A.At(c, c)+tc)
			o.b[c] += tc*o.bc.Values[f] - o.fq[f]
		case BC_NEUMANN:
			o.b[c] -= o.bc.Values[f]
		}
	}
	o.phase = ASSEMBLED
	o.fact = false
	return nil
}

// ComputeResidual computes r := A u - b
func (o *TPFA) ComputeResidual(u, r []float64) error {
	if err := phaseErr("ComputeResidual", o.phase, ASSEMBLED); err != nil {
		return err
	}
	if len(u) != o.ncells || len(r) != o.ncells {
		return chk.Err("TPFA: vectors must have length %d", o.ncells)
	}
	res := mat.NewVecDense(o.ncells, r)
	res.MulVec(o.A, mat.NewVecDense(o.ncells, u))
	for c := range r {
		r[c] -= o.b[c]
	}
	return nil
}

// Factorize factorizes A + diag(diag)
func (o *TPFA) Factorize(diag []float64) error {
	if err := phaseErr("Factorize", o.phase, ASSEMBLED); err != nil {
		return err
	}
	P := mat.DenseCopyOf(o.A)
	for c, d := range diag {
		P.Set(c, c, P.At(c, c)+d)
	}
	o.lu.Factorize(P)
	o.cond = o.lu.Cond()
	if math.IsInf(o.cond, 1) {
		return chk.Err("TPFA: matrix is singular")
	}
	o.fact = true
	o.warn = false
	return nil
}

// Solve computes x := (A + diag)⁻¹ b
func (o *TPFA) Solve(b, x []float64) error {
	if !o.fact {
		return chk.Err("TPFA: Factorize must be called after the last Assemble and before Solve")
	}
	if len(b) != o.ncells || len(x) != o.ncells {
		return chk.Err("TPFA: vectors must have length %d", o.ncells)
	}
	err := o.lu.SolveVecTo(mat.NewVecDense(o.ncells, x), false, mat.NewVecDense(o.ncells, b))
	if c, ok := err.(mat.Condition); ok {
		o.warnCond(float64(c))
		return nil
	}
	if err == nil && o.MaxCond > 0 && o.cond > o.MaxCond {
		o.warnCond(o.cond)
	}
	return err
}

// warnCond logs an ill-conditioned system once per factorization
//  Note: the solution is still returned; the nonlinear solver decides whether it is acceptable
func (o *TPFA) warnCond(cond float64) {
	if o.warn {
		return
	}
	o.warn = true
	o.Log.Warn().Float64("cond", cond).Int("ncells", o.ncells).Msg("TPFA: ill-conditioned system")
}

// Flux computes the flux through all faces
func (o *TPFA) Flux(u, q []float64) error {
	if err := phaseErr("Flux", o.phase, ASSEMBLED); err != nil {
		return err
	}
	if len(q) != o.nfaces {
		return chk.Err("TPFA: flux vector must have length %d", o.nfaces)
	}
	for f := 0; f < o.nfaces; f++ {
		tc := o.coef[f] * o.trans[f]
		cells := o.Mesh.FaceGetCells(f, mesh.USED)
		if len(cells) == 2 {
			q[f] = tc*(u[cells[0]]-u[cells[1]]) + o.fq[f]
			continue
		}
		switch o.bc.Markers[f] {
		case BC_DIRICHLET:
			q[f] = tc*(u[cells[0]]-o.bc.Values[f]) + o.fq[f]
		case BC_NEUMANN:
			q[f] = o.bc.Values[f]
		default:
			q[f] = 0
		}
	}
	return nil
}

// halfTrans computes the half transmissibility |n·(K d)|/|d|² of cell c and face f
//  d is the vector from the centroid of c to the centroid of f; n is the area-weighted normal
func halfTrans(m mesh.Mesh, K *mat.SymDense, c, f int) (float64, error) {
	xc := m.CellCentroid(c)
	xf := m.FaceCentroid(f)
	n := m.FaceNormal(f)
	sdim := len(xc)
	d := mat.NewVecDense(sdim, nil)
	for i := 0; i < sdim; i++ {
		d.SetVec(i, xf[i]-xc[i])
	}
	dd := mat.Dot(d, d)
	if dd <= 0 {
		return 0, chk.Err("TPFA: centroids of cell %d and face %d coincide", c, f)
	}
	var Kd mat.VecDense
	Kd.MulVec(K, d)
	return math.Abs(mat.Dot(mat.NewVecDense(sdim, n), &Kd)) / dd, nil
}
