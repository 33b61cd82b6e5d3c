// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package energy implements the conservation of energy in the air-water-rock system
// above freezing
package energy

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

// set factory
func init() {
	pk.Register("energy", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		return New(name, plist, log)
	})
}

// bcTypes maps the types of boundary conditions to operator markers
//  "temperature" values are [K]; "energy flux" values are outward fluxes per unit area [W/m²]
var bcTypes = map[string]int{
	"temperature": operator.BC_DIRICHLET,
	"energy flux": operator.BC_NEUMANN,
	"zero flux":   operator.BC_NONE,
}

// Energy solves the conservation of energy with conduction and advection by the water flux
//  ∂E/∂t + ∇·(h q) - ∇·(κ ∇T) = 0
//  Unknown: temperature T [K] in cells. E is the energy content [J] of gas, liquid and rock,
//  h the molar enthalpy of the liquid [J/mol] and q the water flux [mol/s] through faces.
//  Parameters (besides those of pk.Physical):
//   "energy key"               = <domain>-energy
//   "enthalpy key"             = <domain>-enthalpy_liquid
//   "thermal conductivity key" = <domain>-thermal_conductivity
//   "water flux key"           = <domain>-water_flux
//   "include advection"        = true
//   "absolute error tolerance" = 1e-3 [K]
//   "relative error tolerance" = 1e-6
//   "boundary conditions"      -- see operator.ReadBCSpecs and bcTypes
//   "solver", "time step controller" -- see timeint
type Energy struct {
	pk.Physical
	pk.BDF

	// keys
	eKey     string // energy content
	hKey     string // enthalpy; empty without advection
	kappaKey string // thermal conductivity
	fluxKey  string // water flux; empty without advection

	// options
	atol   float64           // absolute tolerance of ErrorNorm
	rtol   float64           // relative tolerance of ErrorNorm
	bcData []operator.BCSpec // boundary conditions

	// statistics
	nevals  int // number of residual evaluations
	nprecon int // number of preconditioner updates

	// discretization; set on first use
	m    mesh.Mesh      // mesh of domain
	op   *operator.TPFA // conduction operator
	bcs  *operator.BCs  // boundary conditions
	coef []float64      // [nfaces] face conductivities
	diag []float64      // [ncells] accumulation part of preconditioner
}

// New returns a new energy kernel
func New(name string, plist inp.ParameterList, log zerolog.Logger) (o *Energy, err error) {
	o = new(Energy)
	if o.Physical, err = pk.NewPhysical(name, plist, log, "temperature"); err != nil {
		return nil, err
	}

	// keys
	advection, err := plist.GetBool("include advection", true)
	if err != nil {
		return nil, err
	}
	type keyDef struct {
		key      *string
		param    string
		variable string
	}
	keys := []keyDef{
		{&o.eKey, "energy key", "energy"},
		{&o.kappaKey, "thermal conductivity key", "thermal_conductivity"},
	}
	if advection {
		keys = append(keys,
			keyDef{&o.hKey, "enthalpy key", "enthalpy_liquid"},
			keyDef{&o.fluxKey, "water flux key", "water_flux"},
		)
	}
	for _, k := range keys {
		if *k.key, err = plist.GetString(k.param, state.GetKey(o.DomainName, k.variable)); err != nil {
			return nil, err
		}
	}

	// parameters
	err = plist.ReadReals(
		inp.Real{Ptr: &o.atol, Key: "absolute error tolerance", Dflt: 1e-3},
		inp.Real{Ptr: &o.rtol, Key: "relative error tolerance", Dflt: 1e-6},
	)
	if err != nil {
		return nil, err
	}
	if o.atol <= 0 {
		return nil, state.ConfigErr("%s: absolute error tolerance must be positive; %g is invalid", name, o.atol)
	}
	if o.rtol < 0 {
		return nil, state.ConfigErr("%s: relative error tolerance must not be negative; %g is invalid", name, o.rtol)
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

// Setup claims the temperature and requires the energy content, conductivity and advection fields
//  Note: the water flux is read only; it is written by a flow kernel or given by the user
func (o *Energy) Setup(S *state.State) (err error) {
	if err = o.Physical.Setup(S); err != nil {
		return
	}
	for _, key := range []string{o.eKey, o.kappaKey, o.hKey} {
		if key == "" {
			continue
		}
		if _, err = S.RequireField(key, ""); err != nil {
			return
		}
		if err = S.RequireEvaluator(key); err != nil {
			return
		}
	}
	if o.fluxKey != "" {
		_, err = S.RequireField(o.fluxKey, "", state.Component{Name: "face", Kind: mesh.FACE, Ndofs: 1})
	}
	return
}

// Initialize sets the temperature
func (o *Energy) Initialize(S *state.State) (err error) {
	if err = o.Physical.Initialize(S); err != nil {
		return
	}
	o.Log.Debug().Str("key", o.Key).Msg("initialized")
	return
}

// AdvanceStep advances the temperature with backward Euler
func (o *Energy) AdvanceStep(tOld, tNew float64) (ok bool, err error) {
	ok, o.Dt, err = o.BDF.Advance(o, o.Sold, o.Snew, tOld, tNew)
	if err != nil {
		return
	}
	o.Log.Debug().Float64("t", tNew).Bool("ok", ok).Int("nits", o.Integrator.Iterations()).Float64("dt next", o.Dt).Msg("advance")
	return
}

// CalculateDiagnostics logs the total energy and the range of temperature
func (o *Energy) CalculateDiagnostics(S *state.State) (err error) {
	total, err := o.TotalEnergy(S)
	if err != nil {
		return
	}
	T, err := S.GetFieldData(o.Key)
	if err != nil {
		return
	}
	vals := T.Values("cell")[:T.SizeOwned("cell")]
	if len(vals) == 0 {
		return
	}
	o.Log.Info().Float64("t", S.Time).Float64("energy", total).Float64("T min", floats.Min(vals)).Float64("T max", floats.Max(vals)).
		Int("residual evaluations", o.nevals).Int("preconditioner updates", o.nprecon).Msg("diagnostics")
	return
}

// TotalEnergy returns the sum of energy content over owned cells [J]
func (o *Energy) TotalEnergy(S *state.State) (total float64, err error) {
	e, err := S.GetFieldData(o.eKey)
	if err != nil {
		return
	}
	return floats.Sum(e.Values("cell")[:e.SizeOwned("cell")]), nil
}
