// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mporous"
	"github.com/saubhagya-gatech/ats/mreten"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// parseParams decodes a YAML flow mapping such as "{alpha: 1e-4, n: 2}"
func parseParams(txt string) (prms inp.ParameterList, err error) {
	prms = make(inp.ParameterList)
	if txt == "" {
		return
	}
	if err = yaml.Unmarshal([]byte(txt), &prms); err != nil {
		return nil, chk.Err("cannot decode parameters %q:\n%v", txt, err)
	}
	return
}

// newWrmCommand returns the command printing water retention curves
func newWrmCommand() *cobra.Command {
	var (
		params string
		pcmax  float64
		npts   int
	)
	cmd := &cobra.Command{
		Use:   "wrm <model>",
		Short: "Print a water retention curve",
		Long: `Wrm samples the saturation and the relative permeability of a water
retention model between zero and the largest capillary pressure.`,
		Example: `  ats wrm "van Genuchten" --params "{alpha: 1.0e-4, n: 2, residual saturation: 0.1}"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			prms, err := parseParams(params)
			if err != nil {
				return
			}
			mdl, err := mreten.New(args[0])
			if err != nil {
				return
			}
			if err = mdl.Init(prms); err != nil {
				return
			}
			_, err = cmd.OutOrStdout().Write([]byte(mreten.CurveTable(mdl, 0, pcmax, npts)))
			return
		},
	}
	cmd.Flags().StringVar(&params, "params", "", "model parameters as a YAML mapping")
	cmd.Flags().Float64Var(&pcmax, "pcmax", 1e5, "largest capillary pressure [Pa]")
	cmd.Flags().IntVar(&npts, "npts", 11, "number of points")
	return cmd
}

// newPropsCommand returns the command printing fluid properties
func newPropsCommand() *cobra.Command {
	var (
		liquid string
		vapor  string
		T      float64
		p      float64
		patm   float64
	)
	cmd := &cobra.Command{
		Use:   "props",
		Short: "Print fluid properties",
		Long:  `Props evaluates the equations of state of the liquid and the gas at one temperature and pressure.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {

			// models
			var mdl mporous.Model
			prms, err := parseParams(liquid)
			if err != nil {
				return
			}
			if err = mdl.Liq.Init(prms); err != nil {
				return
			}
			if prms, err = parseParams(vapor); err != nil {
				return
			}
			if err = mdl.Gas.Init(prms); err != nil {
				return
			}

			// properties
			var res mporous.State
			if err = mdl.Update(&res, T, p, patm); err != nil {
				return
			}
			var buf bytes.Buffer
			io.Ff(&buf, "rhoL  = %g\n", res.RhoL)
			io.Ff(&buf, "nL    = %g\n", res.NL)
			io.Ff(&buf, "muL   = %g\n", res.MuL)
			io.Ff(&buf, "xgas  = %g\n", res.Xgas)
			io.Ff(&buf, "nG    = %g\n", res.NG)
			io.Ff(&buf, "rhoG  = %g\n", res.RhoG)
			io.Ff(&buf, "drhoL = %g\n", res.DrhoL)
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return
		},
	}
	cmd.Flags().StringVar(&liquid, "liquid", "", "liquid parameters as a YAML mapping")
	cmd.Flags().StringVar(&vapor, "vapor", "", "vapor parameters as a YAML mapping")
	cmd.Flags().Float64Var(&T, "temperature", 293.15, "temperature [K]")
	cmd.Flags().Float64Var(&p, "pressure", 101325, "liquid pressure [Pa]")
	cmd.Flags().Float64Var(&patm, "patm", 101325, "atmospheric pressure [Pa]")
	return cmd
}
