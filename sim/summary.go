// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Summary records summary of outputs
type Summary struct {

	// main data
	OutTimes   []float64              // [nOutTimes] output times
	Steps      []float64              // [nSteps] accepted step sizes
	Iterations []int                  // [nSteps] nonlinear iterations of accepted steps; zero for explicit kernels
	Failures   int                    // number of failed attempts
	Water      map[string][]float64   // kernel => [nOutTimes] total water [mol]
	Solutes    map[string][][]float64 // kernel => [nOutTimes][ncomp] total amount of each component [mol]
	Dirout     string                 // directory where results are stored
	Fnkey      string                 // filename key of simulation
	EncType    string                 // encoder type
}

// NewSummary returns a new Summary
func NewSummary(dirout, fnkey, enctype string) *Summary {
	return &Summary{
		Water:   make(map[string][]float64),
		Solutes: make(map[string][][]float64),
		Dirout:  dirout,
		Fnkey:   fnkey,
		EncType: enctype,
	}
}

// Step records an accepted step
func (o *Summary) Step(dt float64, nits int) {
	o.Steps = append(o.Steps, dt)
	o.Iterations = append(o.Iterations, nits)
}

// StepRange returns the smallest and largest accepted steps
func (o *Summary) StepRange() (dtmin, dtmax float64) {
	if len(o.Steps) == 0 {
		return
	}
	dtmin, dtmax = o.Steps[0], o.Steps[0]
	for _, dt := range o.Steps {
		dtmin = utl.Min(dtmin, dt)
		dtmax = utl.Max(dtmax, dt)
	}
	return
}

// Save saves summary to disc
func (o Summary) Save(verbose bool) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.EncType)

	// encode summary
	if err = enc.Encode(o); err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	return saveFile(outSumPath(o.Dirout, o.Fnkey, o.EncType), &buf, verbose)
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fn := outSumPath(dir, fnkey, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()

	// decode summary
	o = new(Summary)
	dec := GetDecoder(fil, enctype)
	if err = dec.Decode(o); err != nil {
		return nil, chk.Err("cannot decode summary %q:\n%v", fn, err)
	}
	return
}
