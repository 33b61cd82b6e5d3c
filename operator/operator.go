// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package operator implements the discretization service used by process kernels
//  The life cycle of an operator in each nonlinear iteration is:
//   Build -> AddFaceFlux (elemental contributions) -> ApplyBCs -> Assemble -> ComputeResidual/Factorize/Solve
//  Calling a phase out of order is an error
package operator

import "github.com/cpmech/gosl/chk"

// Operator defines the operator service
type Operator interface {
	Build(coef []float64) error           // rebuilds elemental matrices with face coefficients; discards previous contributions
	AddFaceFlux(f int, q float64) error   // adds a flux q through face f (from its first to its second cell) not depending on unknowns
	ApplyBCs(bc *BCs) error               // applies boundary conditions to elemental contributions
	Assemble() error                      // assembles the global system A u = b
	ComputeResidual(u, r []float64) error // r := A u - b
	Factorize(diag []float64) error       // factorizes A + diag(diag) for Solve
	Solve(b, x []float64) error           // x := (A + diag)⁻¹ b
	Flux(u, q []float64) error            // face fluxes of u (from first to second cell; outwards for boundary faces)
}

// Phase indicates the stage of assembly
type Phase int

// phases
const (
	EMPTY Phase = iota
	BUILT
	CONSTRAINED
	ASSEMBLED
)

// String returns the name of the phase
func (o Phase) String() string {
	switch o {
	case EMPTY:
		return "empty"
	case BUILT:
		return "built"
	case CONSTRAINED:
		return "constrained"
	case ASSEMBLED:
		return "assembled"
	}
	return "unknown"
}

// boundary condition types
const (
	BC_NONE      = iota // zero flux
	BC_DIRICHLET        // given value
	BC_NEUMANN          // given outward flux
)

// BCs holds boundary conditions for all faces
type BCs struct {
	Markers []int     // face => BC_NONE, BC_DIRICHLET or BC_NEUMANN
	Values  []float64 // face => value or outward flux
}

// NewBCs returns zero-flux conditions for nfaces faces
func NewBCs(nfaces int) *BCs {
	return &BCs{make([]int, nfaces), make([]float64, nfaces)}
}

// Set sets the condition of face f
func (o *BCs) Set(f, marker int, value float64) {
	o.Markers[f] = marker
	o.Values[f] = value
}

// Reset sets all conditions to zero flux
func (o *BCs) Reset() {
	for i := range o.Markers {
		o.Markers[i] = BC_NONE
		o.Values[i] = 0
	}
}

// phaseErr returns the error of a call in the wrong phase
func phaseErr(call string, current Phase, allowed ...Phase) error {
	for _, p := range allowed {
		if p == current {
			return nil
		}
	}
	return chk.Err("operator: %s cannot be called in phase %q; allowed phases are %v", call, current, allowed)
}
