// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package telemetry builds the logger and the metrics of simulations
package telemetry

import (
	"io"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/rs/zerolog"
)

// NewLogger returns a logger writing to w
//  Input:
//   level  -- "trace", "debug", "info", "warn", "error" or "disabled"
//   format -- "console" or "json"
func NewLogger(w io.Writer, level, format string) (log zerolog.Logger, err error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return
	}
	switch format {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case "json":
	default:
		return log, chk.Err("log format must be \"console\" or \"json\"; %q is invalid", format)
	}
	log = zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return
}

// ParseLevel converts the name of a level
func ParseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, chk.Err("unknown log level %q", level)
}
