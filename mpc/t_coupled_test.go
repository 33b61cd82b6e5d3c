// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpc

import (
	"bytes"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/stretchr/testify/require"
)

// solutes returns the parameters of a coupled transport kernel
func solutes(surfNames, subNames []interface{}) inp.ParameterList {
	return inp.ParameterList{
		"PK type":   "coupled transport",
		"PKs order": []interface{}{"surface transport", "subsurface transport"},
		"surface transport": map[string]interface{}{
			"PK type":           "transport explicit",
			"domain name":       "surface",
			"component names":   surfNames,
			"initial condition": map[string]interface{}{"value": 1.0},
		},
		"subsurface transport": map[string]interface{}{
			"PK type":           "transport explicit",
			"component names":   subNames,
			"initial condition": map[string]interface{}{"value": 0.0},
		},
	}
}

// owned returns the data of a field owned by "test" after marking it as initialized
func owned(tst *testing.T, S *state.State, key, comp string, val float64) []float64 {
	cv, err := S.GetFieldDataW(key, "test")
	require.NoError(tst, err)
	cv.PutScalar(val)
	f, err := S.Field(key)
	require.NoError(tst, err)
	f.Initialized = true
	require.NoError(tst, S.SetFieldChanged(key))
	return cv.Values(comp)
}

func Test_coupled01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coupled01. solutes infiltrating from the surface")

	// meshes: two cells below one surface cell
	vol, err := mesh.NewBox("domain", []int{1, 1, 2}, []float64{0, 0, 0}, []float64{1, 1, 2})
	require.NoError(tst, err)
	surf, err := mesh.ExtractSurface("surface", vol)
	require.NoError(tst, err)
	Snew := state.New(nil, zerolog.Nop())
	Snew.RegisterMesh("domain", vol)
	Snew.RegisterMesh("surface", surf)

	// kernels
	k, err := pk.New("solutes", solutes([]interface{}{"N"}, []interface{}{"N"}), zerolog.Nop())
	require.NoError(tst, err)
	o := k.(*CoupledTransport)
	require.Equal(tst, "surface", o.Surface.Domain())
	require.Equal(tst, "domain", o.Subsurface.Domain())
	require.NoError(tst, o.Setup(Snew))
	for _, key := range []string{"water_content", "water_flux", "surface-water_content", "surface-water_flux"} {
		_, err = Snew.RequireField(key, "test")
		require.NoError(tst, err)
	}
	require.NoError(tst, Snew.Setup())

	// water: infiltration of 0.5 mol/s through the top face and down the column
	owned(tst, Snew, "surface-water_content", "cell", 10)
	owned(tst, Snew, "surface-water_flux", "face", 0)
	owned(tst, Snew, "water_content", "cell", 5)
	q := owned(tst, Snew, "water_flux", "face", 0)
	for f := range q {
		cells := vol.FaceGetCells(f, mesh.USED)
		switch {
		case math.Abs(vol.FaceNormal(f)[2]) < 1e-12:
		case len(cells) == 2 && vol.CellCentroid(cells[0])[2] > vol.CellCentroid(cells[1])[2]:
			q[f] = 0.5
		case len(cells) == 2:
			q[f] = -0.5
		case vol.FaceCentroid(f)[2] > 1.9:
			q[f] = -0.5
		}
	}
	require.NoError(tst, o.Initialize(Snew))
	require.NoError(tst, Snew.CheckAllFieldsInitialized())
	Sold := Snew.Copy()
	o.SetStates(Sold, Snew)

	// initial amount: Σ C Θ
	mass, err := o.ComputeMass(Snew)
	require.NoError(tst, err)
	chk.Float64(tst, "mass", 1e-10*10, mass[0], 10)

	// the subsurface limits the step
	chk.Float64(tst, "dt", 1e-15, o.GetTimeStep(), 10)

	// advance
	ok, err := o.AdvanceStep(0, 2)
	require.NoError(tst, err)
	require.True(tst, ok)
	cs, err := Snew.GetFieldData("surface-total_component_concentration")
	require.NoError(tst, err)
	chk.Float64(tst, "C surface", 1e-15, cs.Values("cell")[0], 0.9)
	cv, err := Snew.GetFieldData("total_component_concentration")
	require.NoError(tst, err)
	for c := 0; c < 2; c++ {
		expected := 0.0
		if vol.CellCentroid(c)[2] > 1 {
			expected = 0.2
		}
		chk.Float64(tst, "C subsurface", 1e-15, cv.Values("cell")[c], expected)
	}

	// amount is conserved; 1 mol moved from the surface to the top subsurface cell
	var buf bytes.Buffer
	o.Log = zerolog.New(&buf)
	require.NoError(tst, o.CommitState(2, Snew))
	require.NoError(tst, o.CalculateDiagnostics(Snew))
	chk.Float64(tst, "mass", 1e-10*10, o.Mass[0], 10)
	chk.Float64(tst, "surface", 1e-10*10, o.SurfMass[0], 9)
	chk.Float64(tst, "subsurface", 1e-10*10, o.SubMass[0], 1)
	require.Contains(tst, buf.String(), `"surface":`)
	require.Contains(tst, buf.String(), `"subsurface":`)

	// too large step: the surface fails first
	ok, err = o.AdvanceStep(2, 40)
	require.NoError(tst, err)
	require.False(tst, ok)
	cs, _ = Snew.GetFieldData("surface-total_component_concentration")
	chk.Float64(tst, "C surface", 1e-15, cs.Values("cell")[0], 0.9)
}

func Test_coupled02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coupled02. configuration errors")

	// components must match
	_, err := NewCoupledTransport("solutes", solutes([]interface{}{"N"}, []interface{}{"P"}), zerolog.Nop())
	require.True(tst, state.IsConfig(err))
	_, err = NewCoupledTransport("solutes", solutes([]interface{}{"N"}, []interface{}{"N", "P"}), zerolog.Nop())
	require.True(tst, state.IsConfig(err))

	// exactly two kernels
	prms := solutes([]interface{}{"N"}, []interface{}{"N"})
	prms["PKs order"] = []interface{}{"surface transport"}
	_, err = NewCoupledTransport("solutes", prms, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
	prms = solutes([]interface{}{"N"}, []interface{}{"N"})
	prms["third"] = map[string]interface{}{"PK type": "transport explicit", "domain name": "canopy"}
	prms["PKs order"] = []interface{}{"surface transport", "subsurface transport", "third"}
	_, err = NewCoupledTransport("solutes", prms, zerolog.Nop())
	require.True(tst, state.IsConfig(err))

	// one kernel must be on the subsurface
	prms = solutes([]interface{}{"N"}, []interface{}{"N"})
	prms["subsurface domain name"] = "bedrock"
	_, err = NewCoupledTransport("solutes", prms, zerolog.Nop())
	require.True(tst, state.IsConfig(err))

	// children must be transport kernels
	prms = mocks("coupled transport", 1, 1)
	_, err = NewCoupledTransport("solutes", prms, zerolog.Nop())
	require.True(tst, state.IsConfig(err))
}
