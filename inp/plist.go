// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"sort"
	"strings"

	"github.com/cpmech/gosl/io"
	"github.com/spf13/cast"
)

// ParameterList holds a nested key/value structure as read from the simulation file
//  Note: sublists are ParameterList or map[string]interface{} (as decoded by yaml/json)
type ParameterList map[string]interface{}

// IsParameter checks whether key exists and is not a sublist
func (o ParameterList) IsParameter(key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	_, sub := asList(v)
	return !sub
}

// IsSublist checks whether key exists and is a sublist
func (o ParameterList) IsSublist(key string) bool {
	v, ok := o[key]
	if !ok {
		return false
	}
	_, sub := asList(v)
	return sub
}

// Sublist returns the sublist named key; an empty list is returned if key does not exist
func (o ParameterList) Sublist(key string) (ParameterList, error) {
	v, ok := o[key]
	if !ok {
		return ParameterList{}, nil
	}
	l, sub := asList(v)
	if !sub {
		return nil, paramErr(key, "must be a sublist; %v is invalid", v)
	}
	return l, nil
}

// Set sets parameter or sublist
func (o ParameterList) Set(key string, val interface{}) ParameterList {
	o[key] = val
	return o
}

// Keys returns the sorted keys of o
func (o ParameterList) Keys() (keys []string) {
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// KeysWithPrefix returns the sorted keys starting with prefix, without the prefix
//  Example: "constant pressure" with prefix "constant " => "pressure"
func (o ParameterList) KeysWithPrefix(prefix string) (names []string) {
	for _, k := range o.Keys() {
		if strings.HasPrefix(k, prefix) {
			names = append(names, strings.TrimPrefix(k, prefix))
		}
	}
	return
}

// GetString returns string parameter or default value
func (o ParameterList) GetString(key, dflt string) (string, error) {
	v, ok := o[key]
	if !ok {
		return dflt, nil
	}
	if _, sub := asList(v); sub {
		return "", paramErr(key, "must be a string, not a sublist")
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", paramErr(key, "must be a string; %v", err)
	}
	return s, nil
}

// GetFloat returns real parameter or default value
func (o ParameterList) GetFloat(key string, dflt float64) (float64, error) {
	v, ok := o[key]
	if !ok {
		return dflt, nil
	}
	if _, isbool := v.(bool); isbool {
		return 0, paramErr(key, "must be a number; %v is invalid", v)
	}
	x, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, paramErr(key, "must be a number; %v", err)
	}
	return x, nil
}

// GetInt returns integer parameter or default value
func (o ParameterList) GetInt(key string, dflt int) (int, error) {
	v, ok := o[key]
	if !ok {
		return dflt, nil
	}
	x, err := o.GetFloat(key, 0)
	if err != nil || x != math.Trunc(x) {
		return 0, paramErr(key, "must be an integer; %v is invalid", v)
	}
	return int(x), nil
}

// GetBool returns boolean parameter or default value
func (o ParameterList) GetBool(key string, dflt bool) (bool, error) {
	v, ok := o[key]
	if !ok {
		return dflt, nil
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, paramErr(key, "must be true or false; %v", err)
	}
	return b, nil
}

// GetStrings returns array of strings or default value
func (o ParameterList) GetStrings(key string, dflt []string) ([]string, error) {
	v, ok := o[key]
	if !ok {
		return dflt, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		if s, ok := v.([]string); ok {
			return s, nil
		}
		return nil, paramErr(key, "must be an array of strings; %v is invalid", v)
	}
	res := make([]string, len(items))
	for i, w := range items {
		str, isstr := w.(string)
		if !isstr {
			return nil, paramErr(key, "must be an array of strings; %v is invalid", v)
		}
		res[i] = str
	}
	return res, nil
}

// GetFloats returns array of reals or default value
func (o ParameterList) GetFloats(key string, dflt []float64) ([]float64, error) {
	v, ok := o[key]
	if !ok {
		return dflt, nil
	}
	if s, ok := v.([]float64); ok {
		return s, nil
	}
	items, err := cast.ToSliceE(v)
	if err != nil {
		return nil, paramErr(key, "must be an array of numbers; %v is invalid", v)
	}
	res := make([]float64, len(items))
	for i, w := range items {
		if _, isbool := w.(bool); isbool {
			return nil, paramErr(key, "must be an array of numbers; %v is invalid", v)
		}
		if res[i], err = cast.ToFloat64E(w); err != nil {
			return nil, paramErr(key, "must be an array of numbers; %v is invalid", v)
		}
	}
	return res, nil
}

// Real holds the destination, key and default value of a real parameter
type Real struct {
	Ptr  *float64 // destination
	Key  string   // key of parameter
	Dflt float64  // default value
}

// ReadReals reads several real parameters, stopping at the first error
func (o ParameterList) ReadReals(params ...Real) (err error) {
	for _, p := range params {
		if *p.Ptr, err = o.GetFloat(p.Key, p.Dflt); err != nil {
			return
		}
	}
	return
}

// Clone returns a deep copy of o
func (o ParameterList) Clone() ParameterList {
	res := make(ParameterList, len(o))
	for k, v := range o {
		if l, sub := asList(v); sub {
			res[k] = l.Clone()
			continue
		}
		res[k] = v
	}
	return res
}

// asList converts decoded maps into ParameterList
func asList(v interface{}) (ParameterList, bool) {
	switch l := v.(type) {
	case ParameterList:
		return l, true
	case map[string]interface{}:
		return ParameterList(l), true
	}
	return nil, false
}

// ParameterError is returned when a parameter has the wrong type
type ParameterError struct {
	Key string // parameter key
	Msg string // message
}

func (o *ParameterError) Error() string { return io.Sf("parameter %q %s", o.Key, o.Msg) }

// paramErr returns a new ParameterError
func paramErr(key, msg string, prm ...interface{}) error {
	return &ParameterError{key, io.Sf(msg, prm...)}
}
