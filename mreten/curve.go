// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreten

import (
	"bytes"

	"github.com/cpmech/gosl/io"
)

// Curve samples a model at npts capillary pressures between pc0 and pcf
func Curve(mdl Model, pc0, pcf float64, npts int) (pc, sl, kr []float64) {
	if npts < 2 {
		npts = 2
	}
	pc = make([]float64, npts)
	sl = make([]float64, npts)
	kr = make([]float64, npts)
	for i := 0; i < npts; i++ {
		pc[i] = pc0 + float64(i)*(pcf-pc0)/float64(npts-1)
		sl[i] = mdl.Saturation(pc[i])
		kr[i] = mdl.KRelative(pc[i])
	}
	return
}

// CurveTable returns a formatted table with a sampled curve
func CurveTable(mdl Model, pc0, pcf float64, npts int) string {
	pc, sl, kr := Curve(mdl, pc0, pcf, npts)
	var b bytes.Buffer
	io.Ff(&b, "%14s%14s%14s\n", "pc", "sl", "kr")
	for i := range pc {
		io.Ff(&b, "%14.6e%14.6f%14.6e\n", pc[i], sl[i], kr[i])
	}
	return b.String()
}
