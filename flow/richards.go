// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package flow implements the Richards equation for variably saturated flow
package flow

import (
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/operator"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/saubhagya-gatech/ats/timeint"
	"gonum.org/v1/gonum/floats"
)

// default gravitational acceleration [m/s²]
const gravityDefault = 9.80665

// bcTypes maps the types of boundary conditions to operator markers
//  "pressure" values are [Pa]; "mass flux" values are outward fluxes per unit area [mol/(m² s)]
var bcTypes = map[string]int{
	"pressure":  operator.BC_DIRICHLET,
	"mass flux": operator.BC_NEUMANN,
	"zero flux": operator.BC_NONE,
}

// set factory
func init() {
	pk.Register("richards", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		return New(name, plist, log)
	})
}

// Richards solves the conservation of water with Darcy fluxes
//  ∂Θ/∂t + ∇·q = 0,  q = -(n kr K / μ) (∇p - ρ g)
//  Unknown: pressure p [Pa] in cells. Fluxes q are [mol/s] through faces.
//  Parameters (besides those of pk.Physical):
//   "water content key"         = <domain>-water_content
//   "relative permeability key" = <domain>-relative_permeability
//   "mass density key"          = <domain>-density_liquid
//   "molar density key"         = <domain>-molar_density_liquid
//   "viscosity key"             = <domain>-viscosity_liquid
//   "permeability key"          = <domain>-permeability
//   "water flux key"            = <domain>-water_flux
//   "permeability dofs"         = 1 -- 1: isotropic; 2: horizontal and vertical; sdim: diagonal
//   "relative permeability method" = "upwind with gravity" or "arithmetic mean"
//   "absolute error tolerance"  = 1 [Pa]
//   "relative error tolerance"  = 1e-5
//   "boundary conditions"       -- see operator.ReadBCSpecs and bcTypes
//   "solver", "time step controller" -- see timeint
type Richards struct {
	pk.Physical
	pk.BDF

	// keys
	wcKey   string // water content
	krKey   string // relative permeability
	rhoKey  string // mass density
	nKey    string // molar density
	muKey   string // viscosity
	permKey string // permeability
	fluxKey string // water flux

	// options
	permDofs int               // number of dofs of permeability
	upwind   bool              // upwind relative permeability; otherwise arithmetic mean
	atol     float64           // absolute tolerance of ErrorNorm
	rtol     float64           // relative tolerance of ErrorNorm
	bcData   []operator.BCSpec // boundary conditions

	// statistics
	nevals  int // number of residual evaluations
	nprecon int // number of preconditioner updates

	// discretization; set on first use
	m    mesh.Mesh      // mesh of domain
	op   *operator.TPFA // diffusion operator
	bcs  *operator.BCs  // boundary conditions
	grav []float64      // gravity vector
	coef []float64      // [nfaces] face mobilities n kr / μ
	rho  []float64      // [nfaces] face mass densities
	diag []float64      // [ncells] accumulation part of preconditioner
}

// New returns a new Richards kernel
func New(name string, plist inp.ParameterList, log zerolog.Logger) (o *Richards, err error) {
	o = new(Richards)
	if o.Physical, err = pk.NewPhysical(name, plist, log, "pressure"); err != nil {
		return nil, err
	}

	// keys
	d := o.DomainName
	for _, k := range []struct {
		key      *string
		param    string
		variable string
	}{
		{&o.wcKey, "water content key", "water_content"},
		{&o.krKey, "relative permeability key", "relative_permeability"},
		{&o.rhoKey, "mass density key", "density_liquid"},
		{&o.nKey, "molar density key", "molar_density_liquid"},
		{&o.muKey, "viscosity key", "viscosity_liquid"},
		{&o.permKey, "permeability key", "permeability"},
		{&o.fluxKey, "water flux key", "water_flux"},
	} {
		if *k.key, err = plist.GetString(k.param, state.GetKey(d, k.variable)); err != nil {
			return nil, err
		}
	}

	// parameters
	if o.permDofs, err = plist.GetInt("permeability dofs", 1); err != nil {
		return nil, err
	}
	if o.atol, err = plist.GetFloat("absolute error tolerance", 1); err != nil {
		return nil, err
	}
	if o.rtol, err = plist.GetFloat("relative error tolerance", 1e-5); err != nil {
		return nil, err
	}
	if o.atol <= 0 {
		return nil, state.ConfigErr("%s: absolute error tolerance must be positive; %g is invalid", name, o.atol)
	}
	method, err := plist.GetString("relative permeability method", "upwind with gravity")
	if err != nil {
		return nil, err
	}
	switch method {
	case "upwind with gravity":
		o.upwind = true
	case "arithmetic mean":
	default:
		return nil, state.ConfigErr("%s: relative permeability method %q is not available", name, method)
	}

	// boundary conditions
	bcs, err := plist.Sublist("boundary conditions")
	if err != nil {
		return nil, err
	}
	if o.bcData, err = operator.ReadBCSpecs(bcs, bcTypes); err != nil {
		return nil, err
	}
	o.BDF, err = timeint.NewBDF(o, plist, log)
	return
}

// Setup claims the pressure and water flux fields and requires the secondary variables
func (o *Richards) Setup(S *state.State) (err error) {
	if err = o.Physical.Setup(S); err != nil {
		return
	}
	for _, key := range []string{o.wcKey, o.krKey, o.rhoKey, o.nKey, o.muKey} {
		if _, err = S.RequireField(key, ""); err != nil {
			return
		}
		if err = S.RequireEvaluator(key); err != nil {
			return
		}
	}
	if _, err = S.RequireField(o.permKey, "", state.Component{Name: "cell", Kind: mesh.CELL, Ndofs: o.permDofs}); err != nil {
		return
	}
	if err = S.RequireEvaluator(o.permKey); err != nil {
		return
	}
	_, err = S.RequireField(o.fluxKey, o.PKName, state.Component{Name: "face", Kind: mesh.FACE, Ndofs: 1})
	return
}

// Initialize sets the pressure and computes the initial water flux
func (o *Richards) Initialize(S *state.State) (err error) {
	if err = o.Physical.Initialize(S); err != nil {
		return
	}
	if err = o.UpdateFlux(S); err != nil {
		return
	}
	f, err := S.Field(o.fluxKey)
	if err != nil {
		return
	}
	f.Initialized = true
	o.Log.Debug().Str("key", o.Key).Msg("initialized")
	return
}

// AdvanceStep advances the pressure with backward Euler and updates the water flux
func (o *Richards) AdvanceStep(tOld, tNew float64) (ok bool, err error) {
	ok, o.Dt, err = o.BDF.Advance(o, o.Sold, o.Snew, tOld, tNew)
	if err != nil {
		return
	}
	if ok {
		if err = o.UpdateFlux(o.Snew); err != nil {
			return
		}
	}
	o.Log.Debug().Float64("t", tNew).Bool("ok", ok).Int("nits", o.Integrator.Iterations()).Float64("dt next", o.Dt).Msg("advance")
	return
}

// CalculateDiagnostics logs the total water content and the range of pressure
func (o *Richards) CalculateDiagnostics(S *state.State) (err error) {
	total, err := o.TotalWater(S)
	if err != nil {
		return
	}
	p, err := S.GetFieldData(o.Key)
	if err != nil {
		return
	}
	vals := p.Values("cell")[:p.SizeOwned("cell")]
	if len(vals) == 0 {
		return
	}
	o.Log.Info().Float64("t", S.Time).Float64("water", total).Float64("p min", floats.Min(vals)).Float64("p max", floats.Max(vals)).
		Int("residual evaluations", o.nevals).Int("preconditioner updates", o.nprecon).Msg("diagnostics")
	return
}

// TotalWater returns the sum of water content over owned cells [mol]
func (o *Richards) TotalWater(S *state.State) (total float64, err error) {
	wc, err := S.GetFieldData(o.wcKey)
	if err != nil {
		return
	}
	return floats.Sum(wc.Values("cell")[:wc.SizeOwned("cell")]), nil
}

// UpdateFlux computes the water flux through all faces with the pressure of S
func (o *Richards) UpdateFlux(S *state.State) (err error) {
	if err = o.updateOperator(S); err != nil {
		return
	}
	p, err := S.GetFieldData(o.Key)
	if err != nil {
		return
	}
	q, err := S.GetFieldDataW(o.fluxKey, o.PKName)
	if err != nil {
		return
	}
	if err = o.op.Flux(p.Values("cell"), q.Values("face")); err != nil {
		return
	}
	return S.SetFieldChanged(o.fluxKey)
}
