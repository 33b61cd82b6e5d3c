// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/pk"
	_ "github.com/saubhagya-gatech/ats/relations"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/stretchr/testify/require"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// ev returns the parameters of an evaluator of type typ
func ev(typ string, prms ...interface{}) map[string]interface{} {
	res := map[string]interface{}{"field evaluator type": typ}
	for i := 0; i+1 < len(prms); i += 2 {
		res[prms[i].(string)] = prms[i+1]
	}
	return res
}

// physics returns the evaluators of a saturated column without gas
//  dE/dT = 0.4 × 55000 × 76 + 0.6 × 2000 × 620 = 2.416e6 J/K per unit cell
func physics() map[string]interface{} {
	return map[string]interface{}{
		"porosity":               ev("independent variable", "value", 0.4),
		"saturation_liquid":      ev("independent variable", "value", 1.0),
		"molar_density_liquid":   ev("independent variable", "value", 55000.0),
		"density_rock":           ev("independent variable", "value", 2000.0),
		"cell_volume":            ev("cell volume"),
		"internal_energy_liquid": ev("iem liquid"),
		"internal_energy_rock":   ev("iem rock"),
		"energy":                 ev("energy content", "include gas", false),
		"thermal_conductivity":   ev("thermal conductivity"),
		"enthalpy_liquid":        ev("enthalpy"),
	}
}

// dEdT is the derivative of the energy content of one cell of physics()
const dEdT = 0.4*55000*76 + 0.6*2000*620

// column returns a kernel on a column of 4 unit cells and the state it was set up with
//  Note: the water flux is owned by "test" and set to zero
func column(tst *testing.T, prms inp.ParameterList) (o *Energy, Snew *state.State) {
	m, err := mesh.NewBox("domain", []int{1, 1, 4}, []float64{0, 0, 0}, []float64{1, 1, 4})
	require.NoError(tst, err)
	Snew = state.New(inp.ParameterList{"field evaluators": physics()}, zerolog.Nop())
	Snew.RegisterMesh("domain", m)
	o, err = New("energy", prms, zerolog.Nop())
	require.NoError(tst, err)
	require.NoError(tst, o.Setup(Snew))
	_, err = Snew.RequireField("water_flux", "test")
	require.NoError(tst, err)
	require.NoError(tst, Snew.Setup())
	setFlux(tst, Snew, -1, 0)
	return o, Snew
}

// setFlux sets the water flux through face f; all faces if f < 0
func setFlux(tst *testing.T, S *state.State, f int, q float64) {
	cv, err := S.GetFieldDataW("water_flux", "test")
	require.NoError(tst, err)
	if f < 0 {
		cv.PutScalar(q)
	} else {
		cv.Values("face")[f] = q
	}
	fld, err := S.Field("water_flux")
	require.NoError(tst, err)
	fld.Initialized = true
	require.NoError(tst, S.SetFieldChanged("water_flux"))
}

// solution returns the solution vector of o on S
func solution(tst *testing.T, o *Energy, S *state.State) *pk.TreeVector {
	l := pk.NewLayout()
	require.NoError(tst, o.SolutionLayout(l))
	u := pk.NewTreeVector(l)
	require.NoError(tst, o.StateToSolution(S, u))
	return u
}

func Test_energy01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy01. accumulation")

	prms := inp.ParameterList{"initial condition": map[string]interface{}{"value": 283.15}}
	o, Snew := column(tst, prms)
	require.NoError(tst, o.Initialize(Snew))
	require.NoError(tst, Snew.CheckAllFieldsInitialized())

	// derivative of energy content
	de, ok, err := o.TotalDerivative(Snew, "energy")
	require.NoError(tst, err)
	require.True(tst, ok)
	chk.Array(tst, "dE/dT", 1e-6, de, []float64{dEdT, dEdT, dEdT, dEdT})

	// one kelvin warmer; uniform temperature does not conduct
	Sold := Snew.Copy()
	o.SetStates(Sold, Snew)
	uOld := solution(tst, o, Snew)
	uNew := uOld.Clone()
	for i := range uNew.Data {
		uNew.Data[i] += 1
	}
	f := pk.NewTreeVector(uNew.Layout)
	require.NoError(tst, o.Residual(0, 1, uOld, uNew, f))
	chk.Array(tst, "f", 1e-6, f.Data, []float64{dEdT, dEdT, dEdT, dEdT})
	require.NoError(tst, o.Residual(0, 2, uOld, uNew, f))
	chk.Array(tst, "f", 1e-6, f.Data, []float64{dEdT / 2, dEdT / 2, dEdT / 2, dEdT / 2})

	// non-positive step
	err = o.Residual(1, 1, uOld, uNew, f)
	require.True(tst, state.IsConfig(err))
	err = o.UpdatePreconditioner(1, uNew, 0)
	require.True(tst, state.IsConfig(err))
}

func Test_energy02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy02. steady conduction")

	// cold bottom and warm top
	prms := inp.ParameterList{
		"initial condition": map[string]interface{}{"value": 275.0},
		"initial time step": 1e12,
		"boundary conditions": map[string]interface{}{
			"bottom": map[string]interface{}{"type": "temperature", "value": 270.0},
			"top":    map[string]interface{}{"type": "temperature", "value": 280.0},
		},
	}
	o, Snew := column(tst, prms)
	require.NoError(tst, o.Initialize(Snew))
	Sold := Snew.Copy()
	o.SetStates(Sold, Snew)

	// a very long step reaches the linear profile
	ok, err := o.AdvanceStep(0, 1e12)
	require.NoError(tst, err)
	require.True(tst, ok)
	T, err := Snew.GetFieldData("temperature")
	require.NoError(tst, err)
	m, _ := Snew.Mesh("domain")
	for c, Tc := range T.Values("cell") {
		z := m.CellCentroid(c)[2]
		chk.Float64(tst, io.Sf("T%d", c), 1e-3, Tc, 270+2.5*z)
	}

	// diagnostics
	require.NoError(tst, o.CommitState(1e12, Snew))
	require.NoError(tst, o.CalculateDiagnostics(Snew))
	total, err := o.TotalEnergy(Snew)
	require.NoError(tst, err)
	e, err := Snew.GetFieldData("energy")
	require.NoError(tst, err)
	sum := 0.0
	for _, v := range e.Values("cell") {
		sum += v
	}
	chk.Float64(tst, "total", 1e-6, total, sum)
}

func Test_energy03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy03. advection is upwinded")

	prms := inp.ParameterList{"initial condition": map[string]interface{}{"value": 293.15}}
	o, Snew := column(tst, prms)
	require.NoError(tst, o.Initialize(Snew))
	Sold := Snew.Copy()
	o.SetStates(Sold, Snew)

	// an interior face between cells a and b
	m, _ := Snew.Mesh("domain")
	f0, a, b := -1, -1, -1
	for f := 0; f < m.NumEntities(mesh.FACE, mesh.USED); f++ {
		if cells := m.FaceGetCells(f, mesh.USED); len(cells) == 2 {
			f0, a, b = f, cells[0], cells[1]
			break
		}
	}
	require.True(tst, f0 >= 0)

	// b is colder: h = 76 (T - 273.15)
	u := solution(tst, o, Snew)
	u.Sub(o.PKName)[b] = 283.15
	ha, hb := 76*20.0, 76*10.0

	// residuals with and without flux differ by the advection only
	residual := func(q float64) []float64 {
		setFlux(tst, Snew, f0, q)
		f := pk.NewTreeVector(u.Layout)
		require.NoError(tst, o.Residual(0, 1, u, u, f))
		return f.Data
	}
	r0 := residual(0)
	diff := func(r []float64) []float64 {
		res := make([]float64, len(r))
		for i := range r {
			res[i] = r[i] - r0[i]
		}
		return res
	}
	exp := make([]float64, len(r0))
	exp[a], exp[b] = 0.5*ha, -0.5*ha
	chk.Array(tst, "a→b", 1e-8, diff(residual(0.5)), exp)
	exp[a], exp[b] = -0.5*hb, 0.5*hb
	chk.Array(tst, "b→a", 1e-8, diff(residual(-0.5)), exp)

	// interior advection moves energy without creating it
	sum := 0.0
	for _, v := range diff(residual(0.5)) {
		sum += v
	}
	chk.Float64(tst, "Σ", 1e-8, sum, 0)
}

func Test_energy04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy04. heating through the top conserves energy")

	flux, dt := 10.0, 1000.0
	prms := inp.ParameterList{
		"initial condition":        map[string]interface{}{"value": 283.15},
		"initial time step":        dt,
		"absolute error tolerance": 1e-8,
		"relative error tolerance": 0.0,
		"boundary conditions":      map[string]interface{}{"sun": map[string]interface{}{"region": "top", "type": "energy flux", "value": -flux}},
	}
	o, Snew := column(tst, prms)
	require.NoError(tst, o.Initialize(Snew))
	Sold := Snew.Copy()
	o.SetStates(Sold, Snew)
	e0, err := o.TotalEnergy(Sold)
	require.NoError(tst, err)

	// advance
	ok, err := o.AdvanceStep(0, dt)
	require.NoError(tst, err)
	require.True(tst, ok)
	e1, err := o.TotalEnergy(Snew)
	require.NoError(tst, err)
	chk.Float64(tst, "ΔE", 1, e1-e0, flux*dt)

	// top cell is the warmest
	T, _ := Snew.GetFieldData("temperature")
	vals := T.Values("cell")
	m, _ := Snew.Mesh("domain")
	top := 0
	for c := range vals {
		if m.CellCentroid(c)[2] > m.CellCentroid(top)[2] {
			top = c
		}
	}
	for c := range vals {
		if c != top {
			require.Greater(tst, vals[top], vals[c])
		}
	}
}

func Test_energy05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy05. configuration errors")

	for _, prms := range []inp.ParameterList{
		{"boundary conditions": map[string]interface{}{"top": map[string]interface{}{"type": "pressure"}}},
		{"absolute error tolerance": 0.0},
		{"absolute error tolerance": "tight"},
		{"relative error tolerance": -1.0},
		{"include advection": "maybe"},
	} {
		_, err := New("energy", prms, zerolog.Nop())
		require.True(tst, state.IsConfig(err), "%v", prms)
	}

	// without advection
	o, err := New("energy", inp.ParameterList{"include advection": false}, zerolog.Nop())
	require.NoError(tst, err)
	require.Empty(tst, o.fluxKey)
	require.Empty(tst, o.hKey)

	// factory
	k, err := pk.New("heat", inp.ParameterList{"PK type": "energy"}, zerolog.Nop())
	require.NoError(tst, err)
	require.IsType(tst, &Energy{}, k)

	// temperature must be initialized
	o, S := column(tst, nil)
	err = o.Initialize(S)
	require.True(tst, state.IsConfig(err))
}
