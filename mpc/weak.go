// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpc

import (
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
)

func init() {
	pk.Register("weak MPC", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		return NewWeak(name, plist, log)
	})
}

// Weak advances its children one after another over the same step
//  Note: the first failing child stops the advance; the driver restores all children
type Weak struct {
	*MPC
}

// NewWeak returns a new sequential coupler
func NewWeak(name string, plist inp.ParameterList, log zerolog.Logger) (o *Weak, err error) {
	base, err := NewMPC(name, plist, log)
	if err != nil {
		return
	}
	return &Weak{base}, nil
}

// AdvanceStep advances all children until one fails
func (o *Weak) AdvanceStep(tOld, tNew float64) (ok bool, err error) {
	for _, k := range o.Children {
		if ok, err = k.AdvanceStep(tOld, tNew); err != nil || !ok {
			o.Log.Debug().Str("child", k.Name()).Float64("t", tNew).Err(err).Msg("advance failed")
			return false, err
		}
	}
	return true, nil
}
