// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"math"
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

// physics returns the evaluators of a variably saturated column
func physics(vapor bool) map[string]interface{} {
	wrm := map[string]interface{}{
		"default": map[string]interface{}{"model": "van Genuchten", "alpha": 1e-4, "n": 2.0, "residual saturation": 0.1},
	}
	eos := map[string]interface{}{"viscosity": 1e-3}
	return map[string]interface{}{
		"temperature":           ev("independent variable", "value", 293.15),
		"porosity":              ev("independent variable", "value", 0.4),
		"permeability":          ev("independent variable", "value", 1e-12),
		"cell_volume":           ev("cell volume"),
		"saturation_liquid":     ev("wrm saturation", "WRM parameters", wrm),
		"relative_permeability": ev("relative permeability", "WRM parameters", wrm),
		"molar_density_liquid":  ev("liquid eos", "EOS parameters", eos),
		"viscosity_liquid":      ev("viscosity", "EOS parameters", eos),
		"molar_density_gas":     ev("vapor eos"),
		"water_content":         ev("water content", "include vapor", vapor),
	}
}

// column returns a kernel on a column of 4 unit cells and the state it was set up with
//  Note: fields in owned are owned by "test"
func column(tst *testing.T, evaluators map[string]interface{}, prms inp.ParameterList, owned ...string) (o *Richards, Snew *state.State) {
	m, err := mesh.NewBox("domain", []int{1, 1, 4}, []float64{0, 0, 0}, []float64{1, 1, 4})
	require.NoError(tst, err)
	Snew = state.New(inp.ParameterList{"field evaluators": evaluators}, zerolog.Nop())
	Snew.RegisterMesh("domain", m)
	Snew.SetScalar("atmospheric_pressure", 101325)
	o, err = New("flow", prms, zerolog.Nop())
	require.NoError(tst, err)
	require.NoError(tst, o.Setup(Snew))
	for _, key := range owned {
		_, err = Snew.RequireField(key, "test")
		require.NoError(tst, err)
	}
	require.NoError(tst, Snew.Setup())
	return o, Snew
}

// put sets the values of a field owned by "test"
func put(tst *testing.T, S *state.State, key string, val float64) {
	cv, err := S.GetFieldDataW(key, "test")
	require.NoError(tst, err)
	cv.PutScalar(val)
	f, err := S.Field(key)
	require.NoError(tst, err)
	f.Initialized = true
	require.NoError(tst, S.SetFieldChanged(key))
}

// solution returns the solution vector of o on S
func solution(tst *testing.T, o *Richards, S *state.State) *pk.TreeVector {
	l := pk.NewLayout()
	require.NoError(tst, o.SolutionLayout(l))
	u := pk.NewTreeVector(l)
	require.NoError(tst, o.StateToSolution(S, u))
	return u
}

func Test_richards01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("richards01. accumulation")

	// saturation and molar density are given
	evals := map[string]interface{}{
		"porosity":              ev("independent variable", "value", 0.4),
		"permeability":          ev("independent variable", "value", 1e-12),
		"relative_permeability": ev("independent variable", "value", 1.0),
		"density_liquid":        ev("independent variable", "value", 1000.0),
		"viscosity_liquid":      ev("independent variable", "value", 1e-3),
		"cell_volume":           ev("cell volume"),
		"water_content":         ev("water content", "include vapor", false),
	}
	prms := inp.ParameterList{"initial condition": map[string]interface{}{"value": 101325.0}}
	o, Snew := column(tst, evals, prms, "saturation_liquid", "molar_density_liquid")
	Snew.SetConstantVector("gravity", []float64{0, 0, 0})
	put(tst, Snew, "saturation_liquid", 0.3)
	put(tst, Snew, "molar_density_liquid", 1000)
	require.NoError(tst, o.Initialize(Snew))
	require.NoError(tst, Snew.CheckAllFieldsInitialized())

	// uniform pressure without gravity: no flux
	q, err := Snew.GetFieldData("water_flux")
	require.NoError(tst, err)
	chk.Float64(tst, "|q|", 1e-15, q.NormInf(), 0)

	// wetter new state
	Sold := Snew.Copy()
	put(tst, Snew, "saturation_liquid", 0.35)
	o.SetStates(Sold, Snew)
	u := solution(tst, o, Snew)
	f := pk.NewTreeVector(u.Layout)
	require.NoError(tst, o.Residual(0, 1, u, u, f))
	chk.Array(tst, "f", 1e-10, f.Data, []float64{20, 20, 20, 20})
	require.NoError(tst, o.Residual(0, 2, u, u, f))
	chk.Array(tst, "f", 1e-10, f.Data, []float64{10, 10, 10, 10})

	// non-positive step
	err = o.Residual(1, 1, u, u, f)
	require.True(tst, state.IsConfig(err))
	err = o.Residual(2, 1, u, u, f)
	require.True(tst, state.IsConfig(err))
}

func Test_richards02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("richards02. hydrostatic column")

	// saturated column with given pressure on top
	ptop := 101325.0 + 1e4
	prms := inp.ParameterList{
		"initial condition":   map[string]interface{}{"value": ptop},
		"initial time step":   100.0,
		"boundary conditions": map[string]interface{}{"top": map[string]interface{}{"type": "pressure", "value": ptop}},
	}
	o, Snew := column(tst, physics(true), prms)
	require.NoError(tst, o.Initialize(Snew))
	Sold := Snew.Copy()
	o.SetStates(Sold, Snew)

	// advance
	chk.Float64(tst, "dt", 1e-15, o.GetTimeStep(), 100)
	ok, err := o.AdvanceStep(0, 100)
	require.NoError(tst, err)
	require.True(tst, ok)
	chk.Int(tst, "nits", o.Integrator.Iterations(), 2)
	chk.Float64(tst, "dt", 1e-12, o.GetTimeStep(), 125)

	// hydrostatic pressure
	p, err := Snew.GetFieldData("pressure")
	require.NoError(tst, err)
	rho, err := Snew.GetFieldData("density_liquid")
	require.NoError(tst, err)
	m, _ := Snew.Mesh("domain")
	for c, pc := range p.Values("cell") {
		z := m.CellCentroid(c)[2]
		chk.Float64(tst, io.Sf("p%d", c), 1e-6, pc, ptop+rho.Values("cell")[c]*gravityDefault*(4-z))
	}

	// no flux
	require.NoError(tst, o.CommitState(100, Snew))
	require.NoError(tst, o.CalculateDiagnostics(Snew))
	q, err := Snew.GetFieldData("water_flux")
	require.NoError(tst, err)
	chk.Float64(tst, "|q|", 1e-10, q.NormInf(), 0)
}

func Test_richards03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("richards03. infiltration conserves water")

	// unsaturated column with inflow on top
	inflow := 1e-3
	prms := inp.ParameterList{
		"initial condition":        map[string]interface{}{"value": 101325.0 - 5000},
		"absolute error tolerance": 1e-3,
		"relative error tolerance": 0.0,
		"solver":                   map[string]interface{}{"limit iterations": 100, "divergence control": false},
		"boundary conditions":      map[string]interface{}{"rain": map[string]interface{}{"region": "top", "type": "mass flux", "value": -inflow}},
	}
	o, Snew := column(tst, physics(true), prms)
	require.NoError(tst, o.Initialize(Snew))
	Sold := Snew.Copy()
	o.SetStates(Sold, Snew)
	w0, err := o.TotalWater(Sold)
	require.NoError(tst, err)

	// advance
	ok, err := o.AdvanceStep(0, 100)
	require.NoError(tst, err)
	require.True(tst, ok)
	w1, err := o.TotalWater(Snew)
	require.NoError(tst, err)
	chk.Float64(tst, "Δwater", 1e-4, w1-w0, inflow*100)

	// water moved down
	p, _ := Snew.GetFieldData("pressure")
	vals := p.Values("cell")
	m, _ := Snew.Mesh("domain")
	bot, top := 0, 0
	for c := range vals {
		if m.CellCentroid(c)[2] < m.CellCentroid(bot)[2] {
			bot = c
		}
		if m.CellCentroid(c)[2] > m.CellCentroid(top)[2] {
			top = c
		}
	}
	require.Greater(tst, vals[bot], 101325.0-5000)
	require.Less(tst, vals[top], 101325.0-5000)
}

func Test_richards04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("richards04. derivative of water content")

	prms := inp.ParameterList{"initial condition": map[string]interface{}{"value": 101325.0 - 5000}}
	o, S := column(tst, physics(true), prms)
	require.NoError(tst, o.Initialize(S))
	dwc, ok, err := o.TotalDerivative(S, "water_content")
	require.NoError(tst, err)
	require.True(tst, ok)

	// central differences
	wc := func(p float64) float64 {
		cv, err := S.GetFieldDataW("pressure", "flow")
		require.NoError(tst, err)
		cv.PutScalar(p)
		require.NoError(tst, S.SetFieldChanged("pressure"))
		res, err := S.GetFieldData("water_content")
		require.NoError(tst, err)
		return res.Values("cell")[0]
	}
	h := 1.0
	num := (wc(101325-5000+h) - wc(101325-5000-h)) / (2 * h)
	chk.Float64(tst, "dΘ/dp", 1e-6*math.Abs(num), dwc[0], num)

	// viscosity does not depend on pressure
	_, ok, err = o.TotalDerivative(S, "viscosity_liquid")
	require.NoError(tst, err)
	require.False(tst, ok)
}

func Test_richards05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("richards05. configuration errors")

	_, err := New("flow", inp.ParameterList{"boundary conditions": map[string]interface{}{"top": map[string]interface{}{"type": "seepage"}}}, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
	_, err = New("flow", inp.ParameterList{"relative permeability method": "harmonic"}, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
	_, err = New("flow", inp.ParameterList{"absolute error tolerance": 0.0}, zerolog.Nop())
	require.True(tst, state.IsConfig(err))

	// unknown region is found when the operator is built
	prms := inp.ParameterList{
		"initial condition":   map[string]interface{}{"value": 101325.0},
		"boundary conditions": map[string]interface{}{"river": map[string]interface{}{"type": "pressure", "value": 0.0}},
	}
	o, S := column(tst, physics(false), prms)
	err = o.Initialize(S)
	require.True(tst, state.IsConfig(err))

	// pressure must be initialized
	o, S = column(tst, physics(false), nil)
	err = o.Initialize(S)
	require.True(tst, state.IsConfig(err))
}
