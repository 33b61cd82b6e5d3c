// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim implements the driver running simulations read from input files
package sim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/pk"
	"github.com/saubhagya-gatech/ats/state"
	"github.com/saubhagya-gatech/ats/telemetry"

	// kernels and evaluators available through the simulation file
	_ "github.com/saubhagya-gatech/ats/energy"
	_ "github.com/saubhagya-gatech/ats/flow"
	_ "github.com/saubhagya-gatech/ats/mpc"
	_ "github.com/saubhagya-gatech/ats/relations"
	_ "github.com/saubhagya-gatech/ats/transport"
)

// iterator is implemented by kernels advanced by a nonlinear solver
type iterator interface {
	Iterations() int
}

// coupler is implemented by kernels with children
type coupler interface {
	SubPKs() []pk.ProcessKernel
}

// waterReporter is implemented by kernels computing the total amount of water
type waterReporter interface {
	TotalWater(S *state.State) (float64, error)
}

// soluteReporter is implemented by kernels computing the total amount of each solute
type soluteReporter interface {
	ComputeMass(S *state.State) ([]float64, error)
}

// Driver runs one simulation
type Driver struct {

	// input
	Sim     *inp.Simulation    // simulation data
	Log     zerolog.Logger     // logger
	Metrics *telemetry.Metrics // metrics; may be nil
	Verbose bool               // print progress

	// data
	Root    pk.ProcessKernel // root of the kernel tree
	Sold    *state.State     // committed time level
	Snew    *state.State     // time level being advanced
	Summary *Summary         // summary of results

	// auxiliary
	tidx int // time output index
}

// NewDriver builds the meshes, the state and the kernel tree and initializes all fields
func NewDriver(sim *inp.Simulation, log zerolog.Logger, metrics *telemetry.Metrics) (o *Driver, err error) {

	// driver
	o = &Driver{Sim: sim, Log: log, Metrics: metrics}
	o.Summary = NewSummary(sim.DirOut, sim.Key, sim.EncType)

	// state
	S := state.New(sim.State, log.With().Str("component", "state").Logger())
	for _, domain := range sim.Domains() {
		S.RegisterMesh(domain, sim.Meshes[domain])
	}
	S.SetScalar("atmospheric_pressure", sim.Constants.Patm)
	if len(sim.Constants.Gravity) > 0 {
		S.SetConstantVector("gravity", sim.Constants.Gravity)
	}
	if metrics != nil {
		S.OnEvaluate = metrics.Evaluated
	}
	S.Time = sim.Control.Tini

	// kernels
	if o.Root, err = pk.New(sim.RootName, sim.RootParameters(), log); err != nil {
		return nil, err
	}
	if err = o.Root.Setup(S); err != nil {
		return nil, err
	}
	if err = S.Setup(); err != nil {
		return nil, err
	}

	// initial values
	if err = S.InitializeFields(); err != nil {
		return nil, err
	}
	if err = o.Root.Initialize(S); err != nil {
		return nil, err
	}
	if err = S.CheckAllFieldsInitialized(); err != nil {
		return nil, err
	}

	// time levels
	o.Snew = S
	o.Sold = S.Copy()
	o.Root.SetStates(o.Sold, o.Snew)
	log.Info().Str("root", o.Root.Name()).Strs("domains", sim.Domains()).Int("fields", len(S.FieldKeys())).Msg("driver ready")
	return
}

// Run runs the time loop from the current time to the final time
//  Note: a failed step restores the new time level and is retried with the smaller of the step
//        proposed by the root kernel and "reduce" times the failed step. Kernels with a time
//        step controller shrink their own proposal; others are reduced here. Never both.
func (o *Driver) Run() (err error) {

	// auxiliary
	dtcap := math.Inf(1) // largest step after failures
	ndiverg := 0         // number of continued failures

	// time control
	ctrl := o.Sim.Control
	slv := o.Sim.Solver
	t := o.Snew.Time
	tout := t + ctrl.DtOut

	// initial output
	if err = o.Output(); err != nil {
		return
	}

	// time loop
	var dt float64
	var ok, lasttimestep bool
	for t < ctrl.Tf {

		// check for continued failures
		if ndiverg >= slv.NdvgMax {
			return state.ConsistencyErr("continued failure after %d attempts at t=%g", ndiverg, t)
		}

		// time increment
		dt = o.Root.GetTimeStep()
		if slv.DtMax > 0 {
			dt = math.Min(dt, slv.DtMax)
		}
		dt = math.Min(dt, dtcap)
		lasttimestep = false
		if t+dt >= ctrl.Tf {
			dt = ctrl.Tf - t
			lasttimestep = true
		}
		if dt < slv.DtMin {
			if ndiverg > 0 {
				return state.ConsistencyErr("time step is too small: %g < %g at t=%g", dt, slv.DtMin, t)
			}
			break
		}

		// advance
		if o.Verbose {
			io.Pf("%30.15f\r", t+dt)
		}
		o.Metrics.Attempt()
		o.Snew.Time = t + dt
		if ok, err = o.Root.AdvanceStep(t, t+dt); err != nil {
			return
		}

		// restore solution and reduce time step
		if !ok {
			o.Metrics.Failure()
			o.Summary.Failures++
			if o.Verbose {
				io.PfRed(". . . step failed (%2d) . . .\n", ndiverg+1)
			}
			o.Log.Warn().Float64("t", t).Float64("dt", dt).Int("failures", ndiverg+1).Msg("step failed")
			if err = o.Snew.AssignFrom(o.Sold); err != nil {
				return
			}
			dtcap = dt * slv.Reduce
			ndiverg++
			continue
		}
		ndiverg = 0
		dtcap = math.Inf(1)

		// commit
		t += dt
		o.Snew.Cycle++
		if err = o.Root.CommitState(dt, o.Snew); err != nil {
			return
		}
		if err = o.Root.CalculateDiagnostics(o.Snew); err != nil {
			return
		}
		if err = o.Sold.AssignFrom(o.Snew); err != nil {
			return
		}
		nits := 0
		if it, ok := o.Root.(iterator); ok {
			nits = it.Iterations()
		}
		o.Metrics.Success(dt, nits)
		o.Summary.Step(dt, nits)
		o.Log.Debug().Float64("t", t).Float64("dt", dt).Int("nits", nits).Int("cycle", o.Snew.Cycle).Msg("step")

		// perform output
		if t >= tout || lasttimestep {
			if err = o.Output(); err != nil {
				return
			}
			for tout <= t {
				tout += ctrl.DtOut
			}
		}
	}

	// summary
	dtmin, dtmax := o.Summary.StepRange()
	o.Log.Info().Float64("t", t).Int("steps", len(o.Summary.Steps)).Int("failures", o.Summary.Failures).
		Float64("dt min", dtmin).Float64("dt max", dtmax).Msg("run finished")
	return o.Summary.Save(o.Verbose)
}

// Output saves the checkpoint and, if requested, the visualisation files of the current time level
func (o *Driver) Output() (err error) {
	if err = o.diagnostics(o.Root); err != nil {
		return
	}
	if err = SaveCheckpoint(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, o.tidx, o.Snew, o.Verbose); err != nil {
		return
	}
	if o.Sim.Data.Vtu {
		for _, domain := range o.Sim.Domains() {
			if err = WriteVtu(o.Sim.DirOut, o.Sim.Key, o.tidx, domain, o.Snew, o.Verbose); err != nil {
				return
			}
		}
	}
	o.Summary.OutTimes = append(o.Summary.OutTimes, o.Snew.Time)
	o.tidx++
	return
}

// Restart reads the checkpoint with index tidx into both time levels
func (o *Driver) Restart(tidx int) (err error) {
	if tidx < 0 {
		return chk.Err("time output index must not be negative; %d is invalid", tidx)
	}
	if err = ReadCheckpoint(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, tidx, o.Snew); err != nil {
		return
	}
	if err = o.Sold.AssignFrom(o.Snew); err != nil {
		return
	}
	o.tidx = tidx + 1
	o.Log.Info().Int("tidx", tidx).Float64("t", o.Snew.Time).Msg("restart")
	return
}

// diagnostics records the amounts of water and solutes of k and its children
func (o *Driver) diagnostics(k pk.ProcessKernel) (err error) {
	if w, ok := k.(waterReporter); ok {
		var total float64
		if total, err = w.TotalWater(o.Snew); err != nil {
			return
		}
		o.Summary.Water[k.Name()] = append(o.Summary.Water[k.Name()], total)
	}
	if s, ok := k.(soluteReporter); ok {
		var mass []float64
		if mass, err = s.ComputeMass(o.Snew); err != nil {
			return
		}
		o.Summary.Solutes[k.Name()] = append(o.Summary.Solutes[k.Name()], mass)
	}
	if c, ok := k.(coupler); ok {
		for _, child := range c.SubPKs() {
			if err = o.diagnostics(child); err != nil {
				return
			}
		}
	}
	return
}
