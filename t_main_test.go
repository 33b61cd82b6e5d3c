// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// execute runs the root command with args and returns its output
func execute(args ...string) (string, error) {
	var buf bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func Test_main01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("main01. tools")

	// retention curve
	out, err := execute("wrm", "van Genuchten", "--params", "{alpha: 1.0e-4, n: 2, residual saturation: 0.1}", "--npts", "3")
	require.NoError(tst, err)
	require.Contains(tst, out, "kr")
	require.Equal(tst, 5, len(bytes.Split([]byte(out), []byte("\n"))))

	// wrong model and parameters
	_, err = execute("wrm", "unknown")
	require.Error(tst, err)
	_, err = execute("wrm", "Brooks Corey", "--params", "{lambda: -1}")
	require.Error(tst, err)
	_, err = execute("wrm", "van Genuchten", "--params", "[")
	require.Error(tst, err)

	// fluid properties
	out, err = execute("props", "--liquid", "{viscosity: 1.0e-3}")
	require.NoError(tst, err)
	require.Contains(tst, out, "rhoL  = 1000\n")
	require.Contains(tst, out, "muL   = 0.001\n")
	_, err = execute("props", "--patm", "0")
	require.Error(tst, err)
}

func Test_main02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("main02. check and run")

	out, err := execute("check", "examples/column_drainage/column.sim", "--log-level", "disabled")
	require.NoError(tst, err)
	require.Contains(tst, out, "PK type: richards")
	require.Contains(tst, out, "saturation_liquid")

	// errors
	_, err = execute("check", "examples/missing.sim", "--log-level", "disabled")
	require.Error(tst, err)
	_, err = execute("run", "examples/missing.sim", "--log-level", "disabled")
	require.Error(tst, err)
	_, err = execute("run", "examples/column_drainage/column.sim", "--log-format", "xml")
	require.Error(tst, err)
	_, err = execute("run")
	require.Error(tst, err)
}
