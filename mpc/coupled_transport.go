// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mpc

import (
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/saubhagya-gatech/ats/transport"
)

func init() {
	pk.Register("coupled transport", func(name string, plist inp.ParameterList, log zerolog.Logger) (pk.ProcessKernel, error) {
		return NewCoupledTransport(name, plist, log)
	})
}

// CoupledTransport advances solutes on the surface and in the subsurface below it
//  Parameters (besides those of MPC):
//   "subsurface domain name" = "domain" -- the child living on this domain is the subsurface one
//  Note: the surface is advanced first; both kernels exchange solutes through the faces
//        the surface cells live on
type CoupledTransport struct {
	*MPC
	Surface    *transport.Transport // manifold kernel
	Subsurface *transport.Transport // volumetric kernel
	Mass       []float64            // [ncomp] total amount of each component after the last diagnostics
	SurfMass   []float64            // [ncomp] amount on the surface after the last diagnostics
	SubMass    []float64            // [ncomp] amount in the subsurface after the last diagnostics
}

// NewCoupledTransport returns a new coupler of two transport kernels
func NewCoupledTransport(name string, plist inp.ParameterList, log zerolog.Logger) (o *CoupledTransport, err error) {
	base, err := NewMPC(name, plist, log)
	if err != nil {
		return
	}
	if len(base.Children) != 2 {
		return nil, state.ConfigErr("%s: exactly two kernels are required; %d were given", name, len(base.Children))
	}
	o = &CoupledTransport{MPC: base}

	// identify domains
	domain, err := plist.GetString("subsurface domain name", state.DefaultDomain)
	if err != nil {
		return nil, err
	}
	for _, k := range o.Children {
		t, ok := k.(*transport.Transport)
		if !ok {
			return nil, state.ConfigErr("%s: child %q is not a transport kernel", name, k.Name())
		}
		if t.Domain() == domain {
			o.Subsurface = t
		} else {
			o.Surface = t
		}
	}
	if o.Subsurface == nil || o.Surface == nil {
		return nil, state.ConfigErr("%s: one kernel must live on domain %q and the other one elsewhere", name, domain)
	}

	// components
	a, b := o.Surface.ComponentNames(), o.Subsurface.ComponentNames()
	if len(a) != len(b) {
		return nil, state.ConfigErr("%s: surface components %v differ from subsurface components %v", name, a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			return nil, state.ConfigErr("%s: surface components %v differ from subsurface components %v", name, a, b)
		}
	}

	// exchange
	o.Subsurface.CoupleToSurface(o.Surface)
	o.Surface.CoupleToSubsurface(o.Subsurface)
	return
}

// AdvanceStep advances the surface and then the subsurface
func (o *CoupledTransport) AdvanceStep(tOld, tNew float64) (ok bool, err error) {
	for _, k := range []pk.ProcessKernel{o.Surface, o.Subsurface} {
		if ok, err = k.AdvanceStep(tOld, tNew); err != nil || !ok {
			o.Log.Debug().Str("child", k.Name()).Float64("t", tNew).Err(err).Msg("advance failed")
			return false, err
		}
	}
	return true, nil
}

// CalculateDiagnostics computes the diagnostics of children and the total amount of each component
func (o *CoupledTransport) CalculateDiagnostics(S *state.State) (err error) {
	if err = o.MPC.CalculateDiagnostics(S); err != nil {
		return
	}
	if o.SurfMass, o.SubMass, err = o.ComputeMasses(S); err != nil {
		return
	}
	o.Mass = make([]float64, len(o.SurfMass))
	for i, name := range o.Surface.ComponentNames() {
		o.Mass[i] = o.SurfMass[i] + o.SubMass[i]
		o.Log.Info().Float64("t", S.Time).Str("component", name).
			Float64("surface", o.SurfMass[i]).
			Float64("subsurface", o.SubMass[i]).
			Float64("amount", o.Mass[i]).Msg("total solute")
	}
	return
}

// ComputeMasses returns the amount of each component on the surface and in the subsurface [mol]
func (o *CoupledTransport) ComputeMasses(S *state.State) (surf, sub []float64, err error) {
	if surf, err = o.Surface.ComputeMass(S); err != nil {
		return
	}
	sub, err = o.Subsurface.ComputeMass(S)
	return
}

// ComputeMass returns the amount of each component on both domains [mol]
func (o *CoupledTransport) ComputeMass(S *state.State) (mass []float64, err error) {
	surf, sub, err := o.ComputeMasses(S)
	if err != nil {
		return
	}
	mass = make([]float64, len(surf))
	for i := range mass {
		mass[i] = surf[i] + sub[i]
	}
	return
}
