// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package state

import "strings"

// DefaultDomain is the name of the volumetric domain; its keys carry no prefix
const DefaultDomain = "domain"

// GetKey returns the key of variable in domain; e.g. ("surface", "pressure") => "surface-pressure"
func GetKey(domain, variable string) string {
	if domain == "" || domain == DefaultDomain {
		return variable
	}
	return domain + "-" + variable
}

// GetDomain returns the domain of key; e.g. "surface-pressure" => "surface"
func GetDomain(key string) string {
	if i := strings.Index(key, "-"); i > 0 {
		return key[:i]
	}
	return DefaultDomain
}

// GetVariable returns key without its domain prefix
func GetVariable(key string) string {
	if i := strings.Index(key, "-"); i > 0 {
		return key[i+1:]
	}
	return key
}
