// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/rs/zerolog"
	"github.com/saubhagya-gatech/ats/telemetry"
	"github.com/spf13/cobra"
)

// global flags
type globalFlags struct {
	verbose   bool   // show messages
	logLevel  string // log level
	logFormat string // console or json
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// run command
	if err := newRootCommand().Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand returns the ats command with all subcommands
func newRootCommand() *cobra.Command {
	g := new(globalFlags)
	cmd := &cobra.Command{
		Use:   "ats",
		Short: "Coupled surface and subsurface flow and transport",
		Long: `ats runs simulations of coupled flow and reactive transport described by
a tree of process kernels sharing one state of fields and evaluators.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "show messages")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, disabled)")
	cmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "console", "log format (console or json)")
	cmd.AddCommand(newRunCommand(g))
	cmd.AddCommand(newCheckCommand(g))
	cmd.AddCommand(newWrmCommand())
	cmd.AddCommand(newPropsCommand())
	return cmd
}

// logger returns the logger selected by the global flags
func (o *globalFlags) logger() (zerolog.Logger, error) {
	return telemetry.NewLogger(os.Stderr, o.logLevel, o.logFormat)
}
