// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import (
	"errors"

	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/inp"
)

// OwnershipError is returned when a field is written by a requester other than its owner
type OwnershipError struct {
	Key       string // field key
	Owner     string // owner of field
	Requester string // who attempted to write
}

func (o *OwnershipError) Error() string {
	return io.Sf("field %q is owned by %q and cannot be written by %q", o.Key, o.Owner, o.Requester)
}

// ConfigError indicates an inconsistent setup: incompatible structures, missing
// dependencies, cyclic evaluators, wrong number of coupled kernels and the like
type ConfigError struct {
	Msg string
}

func (o *ConfigError) Error() string { return o.Msg }

// ConsistencyError indicates malformed collaborator data; e.g. a boundary face
// that does not border exactly one cell
type ConsistencyError struct {
	Msg string
}

func (o *ConsistencyError) Error() string { return o.Msg }

// ConfigErr returns a new ConfigError
func ConfigErr(msg string, prm ...interface{}) error {
	return &ConfigError{io.Sf(msg, prm...)}
}

// ConsistencyErr returns a new ConsistencyError
func ConsistencyErr(msg string, prm ...interface{}) error {
	return &ConsistencyError{io.Sf(msg, prm...)}
}

// IsOwnership tells whether err is (or wraps) an OwnershipError
func IsOwnership(err error) bool {
	var e *OwnershipError
	return errors.As(err, &e)
}

// IsConfig tells whether err is (or wraps) a ConfigError or a mistyped parameter
func IsConfig(err error) bool {
	var e *ConfigError
	var p *inp.ParameterError
	return errors.As(err, &e) || errors.As(err, &p)
}

// IsConsistency tells whether err is (or wraps) a ConsistencyError
func IsConsistency(err error) bool {
	var e *ConsistencyError
	return errors.As(err, &e)
}

// IsFatal tells whether err must terminate the run; other errors, such as closure laws
// evaluated out of range, are physics failures a driver may recover from with a smaller step
func IsFatal(err error) bool {
	return IsOwnership(err) || IsConfig(err) || IsConsistency(err)
}
