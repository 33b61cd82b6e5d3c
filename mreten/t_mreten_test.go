// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreten

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/stretchr/testify/require"
)

// checkDerivs compares analytical derivatives with central differences
func checkDerivs(tst *testing.T, mdl Model, pcs []float64, tol float64) {
	h := 1e-3
	for _, pc := range pcs {
		dsnum := (mdl.Saturation(pc+h) - mdl.Saturation(pc-h)) / (2 * h)
		dknum := (mdl.KRelative(pc+h) - mdl.KRelative(pc-h)) / (2 * h)
		chk.Float64(tst, io.Sf("dsl/dpc @ %g", pc), tol, mdl.DSaturation(pc), dsnum)
		chk.Float64(tst, io.Sf("dkr/dpc @ %g", pc), tol, mdl.DKRelative(pc), dknum)
	}
}

func Test_vg01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vg01")

	mdl, err := New("van Genuchten")
	require.NoError(tst, err)
	require.NoError(tst, mdl.Init(inp.ParameterList{"alpha": 1e-4, "n": 2.0, "residual saturation": 0.1}))
	io.Pforan("%s", CurveTable(mdl, 0, 5e4, 6))

	// saturated
	chk.Float64(tst, "sl(0)", 1e-15, mdl.Saturation(0), 1)
	chk.Float64(tst, "sl(-1)", 1e-15, mdl.Saturation(-1), 1)
	chk.Float64(tst, "kr(0)", 1e-15, mdl.KRelative(0), 1)

	// n = 2 => m = 1/2; at α pc = 1: se = 2^(-1/2)
	se := 1.0 / 1.4142135623730951
	chk.Float64(tst, "sl(1/α)", 1e-14, mdl.Saturation(1e4), 0.1+0.9*se)
	chk.Float64(tst, "pc(sl)", 1e-8, mdl.CapillaryPressure(0.1+0.9*se), 1e4)
	chk.Float64(tst, "pc(1)", 1e-15, mdl.CapillaryPressure(1), 0)
	chk.Float64(tst, "sr", 1e-15, mdl.ResidualSaturation(), 0.1)

	checkDerivs(tst, mdl, []float64{500, 5000, 2e4, 8e4}, 1e-8)

	// bad parameters
	require.Error(tst, mdl.Init(inp.ParameterList{"alpha": 1e-4}))
	require.Error(tst, mdl.Init(inp.ParameterList{"alpha": -1.0, "n": 2.0}))
	_, err = New("nothere")
	require.Error(tst, err)
}

func Test_vg02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vg02. regularisation")

	var mdl VanGen
	require.NoError(tst, mdl.Init(inp.ParameterList{"alpha": 1e-4, "m": 0.5, "smoothing interval width": 100.0}))
	chk.Float64(tst, "n", 1e-15, mdl.N, 2)

	// continuous value and slope at pc0
	chk.Float64(tst, "kr(pc0-)", 1e-10, mdl.KRelative(100-1e-9), mdl.krel(100))
	chk.Float64(tst, "dkr(pc0-)", 1e-10, mdl.DKRelative(100-1e-9), mdl.dkrel(100))
	chk.Float64(tst, "kr(0+)", 1e-12, mdl.KRelative(1e-12), 1)
	checkDerivs(tst, &mdl, []float64{10, 50, 150}, 1e-8)
}

func Test_bc01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bc01")

	mdl, err := New("Brooks Corey")
	require.NoError(tst, err)
	require.NoError(tst, mdl.Init(inp.ParameterList{"lambda": 2.0, "air entry pressure": 1000.0}))
	chk.Float64(tst, "sl(pb)", 1e-15, mdl.Saturation(1000), 1)
	chk.Float64(tst, "sl(2pb)", 1e-15, mdl.Saturation(2000), 0.25)
	chk.Float64(tst, "kr(2pb)", 1e-15, mdl.KRelative(2000), 1.0/256)
	chk.Float64(tst, "pc(0.25)", 1e-10, mdl.CapillaryPressure(0.25), 2000)
	checkDerivs(tst, mdl, []float64{1500, 3000}, 1e-9)
}

func Test_table01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("table01")

	m, err := mesh.NewBox("domain", []int{1, 1, 4}, []float64{0, 0, 0}, []float64{1, 1, 4})
	require.NoError(tst, err)
	require.NoError(tst, m.AddBoxRegion(&mesh.RegionData{Name: "top", Lo: []float64{0, 0, 3}, Hi: []float64{1, 1, 4}}))

	plist := inp.ParameterList{
		"default": map[string]interface{}{"model": "van Genuchten", "alpha": 1e-4, "n": 2.0},
		"clay":    map[string]interface{}{"model": "Brooks Corey", "region": "top", "lambda": 2.0, "air entry pressure": 1000.0},
	}
	tab, err := NewTable(plist)
	require.NoError(tst, err)
	models, err := tab.CellModels(m)
	require.NoError(tst, err)
	chk.Int(tst, "ncells", len(models), 4)
	for c := 0; c < 3; c++ {
		_, ok := models[c].(*VanGen)
		require.True(tst, ok, "cell %d must use the default model", c)
	}
	_, ok := models[3].(*BrooksCorey)
	require.True(tst, ok)

	// no default and cells left over
	tab, err = NewTable(inp.ParameterList{"clay": plist["clay"]})
	require.NoError(tst, err)
	_, err = tab.CellModels(m)
	require.Error(tst, err)

	// unknown region
	tab, err = NewTable(inp.ParameterList{"x": map[string]interface{}{"region": "nowhere", "alpha": 1e-4, "n": 2.0}})
	require.NoError(tst, err)
	_, err = tab.CellModels(m)
	require.Error(tst, err)
}
