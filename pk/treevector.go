// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pk

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
)

// Layout maps names of kernels to contiguous ranges of one flat solution vector
//  Leaves register their length; couplers register the range spanned by their children.
//  The layout is built once, during setup.
type Layout struct {
	names  []string          // names in order of registration
	ranges map[string][2]int // name => [offset, offset+length)
	size   int               // total length
}

// NewLayout returns an empty layout
func NewLayout() *Layout {
	return &Layout{ranges: make(map[string][2]int)}
}

// Register appends a slice of length n for name and returns its offset
func (o *Layout) Register(name string, n int) (offset int, err error) {
	if _, ok := o.ranges[name]; ok {
		return 0, chk.Err("layout: %q is already registered", name)
	}
	if n < 0 {
		return 0, chk.Err("layout: length of %q must not be negative", name)
	}
	offset = o.size
	o.ranges[name] = [2]int{offset, offset + n}
	o.names = append(o.names, name)
	o.size += n
	return
}

// RegisterGroup registers name as the range from start to the current end; e.g. all
// slices registered by the children of a coupler
func (o *Layout) RegisterGroup(name string, start int) (err error) {
	if _, ok := o.ranges[name]; ok {
		return chk.Err("layout: %q is already registered", name)
	}
	if start < 0 || start > o.size {
		return chk.Err("layout: start %d of group %q is out of range", start, name)
	}
	o.ranges[name] = [2]int{start, o.size}
	o.names = append(o.names, name)
	return
}

// Size returns the total length
func (o *Layout) Size() int { return o.size }

// Names returns the registered names
func (o *Layout) Names() []string { return o.names }

// Has tells whether name was registered
func (o *Layout) Has(name string) bool {
	_, ok := o.ranges[name]
	return ok
}

// Range returns the offset and length of name
func (o *Layout) Range(name string) (offset, n int, err error) {
	r, ok := o.ranges[name]
	if !ok {
		return 0, 0, chk.Err("layout: %q is not registered", name)
	}
	return r[0], r[1] - r[0], nil
}

// TreeVector is a flat vector whose slices belong to the kernels of a layout
type TreeVector struct {
	Layout *Layout   // layout
	Data   []float64 // [Layout.Size()] values
}

// NewTreeVector returns a zeroed vector
func NewTreeVector(l *Layout) *TreeVector {
	return &TreeVector{l, make([]float64, l.Size())}
}

// Sub returns the slice of name; it shares storage with o
func (o *TreeVector) Sub(name string) []float64 {
	off, n, err := o.Layout.Range(name)
	if err != nil {
		chk.Panic("%v", err)
	}
	return o.Data[off : off+n]
}

// Clone returns a copy of o with the same layout
func (o *TreeVector) Clone() *TreeVector {
	return &TreeVector{o.Layout, append([]float64{}, o.Data...)}
}

// CopyFrom copies the values of x
func (o *TreeVector) CopyFrom(x *TreeVector) {
	copy(o.Data, x.Data)
}

// PutScalar sets all values to v
func (o *TreeVector) PutScalar(v float64) {
	for i := range o.Data {
		o.Data[i] = v
	}
}

// Update computes o := a x + b o
func (o *TreeVector) Update(a float64, x *TreeVector, b float64) {
	floats.Scale(b, o.Data)
	floats.AddScaled(o.Data, a, x.Data)
}

// NormInf returns the max absolute value
func (o *TreeVector) NormInf() float64 {
	if len(o.Data) == 0 {
		return 0
	}
	return floats.Norm(o.Data, math.Inf(1))
}

// String returns a summary of values per name
func (o *TreeVector) String() (l string) {
	for _, name := range o.Layout.Names() {
		l += io.Sf("%s: %v\n", name, o.Sub(name))
	}
	return
}

// ErrorNorm returns max_i |du_i| / (atol + rtol |u_i|) over the slice of name
//  Note: atol must be positive so that the norm is defined where u is zero
func ErrorNorm(u, du *TreeVector, name string, atol, rtol float64) float64 {
	x, dx := u.Sub(name), du.Sub(name)
	var res float64
	for i := range dx {
		res = math.Max(res, math.Abs(dx[i])/(atol+rtol*math.Abs(x[i])))
	}
	return res
}
