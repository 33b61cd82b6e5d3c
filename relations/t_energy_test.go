// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relations

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mporous"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/stretchr/testify/require"
)

// thermalColumn returns a State with the energy evaluators of a partially saturated column
//  temperature is owned by "energy" and pressure by "flow"
func thermalColumn(tst *testing.T, T, p float64) *state.State {
	indep := func(val float64) map[string]interface{} {
		return map[string]interface{}{"field evaluator type": "independent variable", "value": val}
	}
	typ := func(name string, prms ...interface{}) map[string]interface{} {
		res := map[string]interface{}{"field evaluator type": name}
		for i := 0; i+1 < len(prms); i += 2 {
			res[prms[i].(string)] = prms[i+1]
		}
		return res
	}
	S := newColumn(tst, map[string]interface{}{
		"porosity":               indep(0.4),
		"saturation_liquid":      indep(0.75),
		"saturation_gas":         indep(0.25),
		"molar_density_liquid":   indep(55000),
		"density_rock":           indep(2000),
		"cell_volume":            typ("cell volume"),
		"molar_density_gas":      typ("vapor eos"),
		"internal_energy_liquid": typ("iem liquid"),
		"internal_energy_gas":    typ("iem gas"),
		"internal_energy_rock":   typ("iem rock", "IEM parameters", map[string]interface{}{"heat capacity": 800.0}),
		"energy":                 typ("energy content"),
		"thermal_conductivity":   typ("thermal conductivity"),
		"enthalpy_liquid":        typ("enthalpy", "include work term", true),
	})
	for key, owner := range map[string]string{"temperature": "energy", "pressure": "flow"} {
		_, err := S.RequireField(key, owner)
		require.NoError(tst, err)
	}
	for _, key := range []string{"energy", "thermal_conductivity", "enthalpy_liquid"} {
		require.NoError(tst, S.RequireEvaluator(key))
	}
	require.NoError(tst, S.Setup())
	setPrimary(tst, S, "temperature", "energy", T)
	setPrimary(tst, S, "pressure", "flow", p)
	return S
}

// setPrimary sets all values of a primary field
func setPrimary(tst *testing.T, S *state.State, key, owner string, val float64) {
	cv, err := S.GetFieldDataW(key, owner)
	require.NoError(tst, err)
	cv.PutScalar(val)
	require.NoError(tst, S.SetFieldChanged(key))
}

// cellValue returns the value of key in cell c
func cellValue(tst *testing.T, S *state.State, key string, c int) float64 {
	cv, err := S.GetFieldData(key)
	require.NoError(tst, err)
	return cv.Values("cell")[c]
}

func Test_energy01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy01. internal energy, energy content and enthalpy")

	T, p := 293.15, 101325.0+1e4
	S := thermalColumn(tst, T, p)

	// reference
	var gas mporous.Vapor
	require.NoError(tst, gas.Init(nil))
	psat, err := gas.SaturatedVaporPressure(T)
	require.NoError(tst, err)
	x := psat / 101325
	ng := gas.MolarDensity(T, 101325)
	ul := 76 * (T - 273.15)
	ug := 20.8*(T-273.15) + 44000*x
	ur := 800 * (T - 273.15)
	pore := 55000*0.75*ul + ng*0.25*ug
	rock := 2000 * ur

	// values
	for key, val := range map[string]float64{
		"internal_energy_liquid": ul,
		"internal_energy_gas":    ug,
		"internal_energy_rock":   ur,
		"energy":                 0.4*pore + 0.6*rock,
		"enthalpy_liquid":        ul + p/55000,
	} {
		chk.Float64(tst, key, 1e-9*math.Abs(val), cellValue(tst, S, key, 2), val)
	}

	// partial derivatives
	for _, c := range []struct {
		key, wrt string
		val      float64
	}{
		{"internal_energy_liquid", "temperature", 76},
		{"internal_energy_gas", "temperature", 20.8},
		{"internal_energy_gas", "mol_frac_gas", 44000},
		{"internal_energy_rock", "temperature", 800},
		{"energy", "internal_energy_liquid", 0.4 * 55000 * 0.75},
		{"energy", "molar_density_gas", 0.4 * 0.25 * ug},
		{"energy", "internal_energy_rock", 0.6 * 2000},
		{"energy", "porosity", pore - rock},
		{"energy", "cell_volume", 0.4*pore + 0.6*rock},
		{"enthalpy_liquid", "internal_energy_liquid", 1},
		{"enthalpy_liquid", "pressure", 1.0 / 55000},
		{"enthalpy_liquid", "molar_density_liquid", -p / (55000 * 55000)},
	} {
		d, err := S.EvaluateDerivative(c.key, c.wrt)
		require.NoError(tst, err)
		chk.Float64(tst, "∂"+c.key+"/∂"+c.wrt, 1e-9*math.Abs(c.val), d.Values("cell")[1], c.val)
	}

	// not a direct dependency
	_, err = S.EvaluateDerivative("energy", "temperature")
	require.True(tst, state.IsConfig(err))
	_, err = S.EvaluateDerivative("internal_energy_liquid", "pressure")
	require.True(tst, state.IsConfig(err))
}

func Test_energy02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy02. thermal conductivity")

	S := thermalColumn(tst, 293.15, 101325)
	chk.Float64(tst, "κ", 1e-12, cellValue(tst, S, "thermal_conductivity", 0), 0.4*(0.75*0.6+0.25*0.02)+0.6*2)
	d, err := S.EvaluateDerivative("thermal_conductivity", "saturation_liquid")
	require.NoError(tst, err)
	chk.Float64(tst, "∂κ/∂sl", 1e-12, d.Values("cell")[0], 0.4*(0.6-0.02))
	d, err = S.EvaluateDerivative("thermal_conductivity", "porosity")
	require.NoError(tst, err)
	chk.Float64(tst, "∂κ/∂φ", 1e-12, d.Values("cell")[0], 0.75*0.6+0.25*0.02-2)

	// invalid parameters
	for _, prms := range []inp.ParameterList{
		{"thermal conductivity parameters": map[string]interface{}{"thermal conductivity of rock": -1.0}},
		{"thermal conductivity parameters": map[string]interface{}{"thermal conductivity of gas": "low"}},
		{"thermal conductivity parameters": 3.0},
	} {
		_, err = NewThermalConductivity("thermal_conductivity", prms)
		require.True(tst, state.IsConfig(err), "%v", prms)
	}
	_, err = NewIemLiquid("internal_energy_liquid", inp.ParameterList{"IEM parameters": map[string]interface{}{"heat capacity": "warm"}})
	require.True(tst, state.IsConfig(err))
}

func Test_energy03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("energy03. temperature derivatives of the vapor eos")

	T := 293.15
	S := thermalColumn(tst, T, 101325)
	var ana [3]float64
	keys := []string{"mol_frac_gas", "molar_density_gas", "density_gas"}
	for i, key := range keys {
		d, err := S.EvaluateDerivative(key, "temperature")
		require.NoError(tst, err)
		ana[i] = d.Values("cell")[3]
	}

	// central differences
	h := 1e-3
	for i, key := range keys {
		setPrimary(tst, S, "temperature", "energy", T+h)
		fp := cellValue(tst, S, key, 3)
		setPrimary(tst, S, "temperature", "energy", T-h)
		fm := cellValue(tst, S, key, 3)
		num := (fp - fm) / (2 * h)
		chk.Float64(tst, "∂"+key+"/∂T", 1e-6*math.Abs(num), ana[i], num)
	}
}
