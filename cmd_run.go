// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"net/http"

	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/sim"
	"github.com/saubhagya-gatech/ats/telemetry"
	"github.com/spf13/cobra"
)

// newRunCommand returns the command running one simulation
func newRunCommand(g *globalFlags) *cobra.Command {
	var (
		alias       string
		keep        bool
		metricsAddr string
		restart     int
	)
	cmd := &cobra.Command{
		Use:   "run <file.sim>",
		Short: "Run a simulation",
		Long: `Run reads a simulation file, builds the meshes, the state and the tree of
process kernels, and advances the solution up to the final time.`,
		Example: `  # run and erase previous results
  ats run column.sim

  # restart from the second output and expose metrics
  ats run column.sim --restart 1 --metrics-addr :9090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			// logger and metrics
			log, err := g.logger()
			if err != nil {
				return
			}
			metrics := telemetry.NewMetrics("ats")
			if metricsAddr != "" {
				go func() {
					if e := http.ListenAndServe(metricsAddr, metrics.Handler()); e != nil {
						log.Error().Err(e).Str("addr", metricsAddr).Msg("metrics server stopped")
					}
				}()
			}

			// simulation
			erase := !keep && restart < 0
			s, err := inp.ReadSim(args[0], alias, erase)
			if err != nil {
				return
			}
			if g.verbose {
				io.Pf("\n%s\n", s.Data.Desc)
			}

			// driver
			d, err := sim.NewDriver(s, log, metrics)
			if err != nil {
				return
			}
			d.Verbose = g.verbose
			if restart >= 0 {
				if err = d.Restart(restart); err != nil {
					return
				}
			}
			return d.Run()
		},
	}
	cmd.Flags().StringVar(&alias, "alias", "", "word added to the names of result files")
	cmd.Flags().BoolVar(&keep, "keep", false, "do not erase previous results")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address serving prometheus metrics; empty means disabled")
	cmd.Flags().IntVar(&restart, "restart", -1, "index of output to restart from; negative means no restart")
	return cmd
}

// newCheckCommand returns the command checking a simulation without running it
func newCheckCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file.sim>",
		Short: "Check a simulation file",
		Long: `Check reads a simulation file and builds and initializes the state and the
kernels, reporting configuration errors without advancing in time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			log, err := g.logger()
			if err != nil {
				return
			}
			s, err := inp.ReadSim(args[0], "", false)
			if err != nil {
				return
			}
			d, err := sim.NewDriver(s, log, nil)
			if err != nil {
				return
			}
			if err = s.GetInfo(cmd.OutOrStdout()); err != nil {
				return
			}
			var buf bytes.Buffer
			io.Ff(&buf, "fields = %v\n", d.Snew.FieldKeys())
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return
		},
	}
	return cmd
}
