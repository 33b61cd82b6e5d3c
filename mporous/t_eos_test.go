// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mporous

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/stretchr/testify/require"
)

func Test_eos01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("eos01")

	var mdl Model
	require.NoError(tst, mdl.Liq.Init(inp.ParameterList{"compressibility": 1e-9}))
	require.NoError(tst, mdl.Gas.Init(inp.ParameterList{}))

	var sta State
	require.NoError(tst, mdl.Update(&sta, 293.15, 201325, 101325))
	io.Pforan("sta = %+v\n", sta)

	chk.Float64(tst, "ρl", 1e-10, sta.RhoL, 1000*(1+1e-9*1e5))
	chk.Float64(tst, "nl", 1e-8, sta.NL, sta.RhoL/Mw)
	chk.Float64(tst, "dρl/dp", 1e-15, sta.DrhoL, 1e-6)
	chk.Float64(tst, "μl", 1e-6, sta.MuL, 1.002e-3)

	// vapor: about 2.34 kPa at 20 °C
	chk.Float64(tst, "χg", 1e-3, sta.Xgas, 2339.0/101325)
	chk.Float64(tst, "ng", 1e-10, sta.NG, 101325/(R*293.15))
	chk.Float64(tst, "ρg", 1e-10, sta.RhoG, (sta.Xgas*Mw+(1-sta.Xgas)*Ma)*sta.NG)

	// copies are independent
	cpy := sta.GetCopy()
	cpy.NL = 0
	require.NotEqual(tst, sta.NL, cpy.NL)

	// errors
	require.Error(tst, mdl.Update(&sta, 100, 101325, 101325))
	require.Error(tst, mdl.Update(&sta, 293.15, 101325, 0))
	require.Error(tst, mdl.Liq.Init(inp.ParameterList{"reference density": -1.0}))
}
