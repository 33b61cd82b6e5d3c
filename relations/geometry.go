// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package relations

import (
	"math"

	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/state"
	"gonum.org/v1/gonum/mat"
)

// set factories
func init() {
	state.RegisterEvaluator("cell volume", NewCellVolume)
	state.RegisterEvaluator("elevation", NewElevation)
}

// cellVolume copies the volume of cells from the mesh
type cellVolume struct {
	state.NoDerivative
}

// NewCellVolume returns the evaluator of the cell volume of the domain of key
//  Parameters:
//   "dynamic mesh" = false -- recompute when the "deformation" signal is raised
func NewCellVolume(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	ev := state.NewSecondary([]string{key}, nil, new(cellVolume), plist)
	if r.flag("dynamic mesh", false) {
		ev.AddDependency(r.str("deformation key", "deformation"))
	}
	if r.err != nil {
		return nil, r.err
	}
	return ev, nil
}

// EvaluateField sets the volumes
func (o *cellVolume) EvaluateField(S *state.State, results []*state.CompositeVector) error {
	m := results[0].Space.Mesh
	vol := results[0].Values("cell")
	for c := range vol {
		vol[c] = m.CellVolume(c)
	}
	return nil
}

// elevation computes the elevation of cells and the magnitude of the slope of the
// surface through the neighbouring cells
type elevation struct {
	state.NoDerivative
}

// NewElevation returns the evaluator of elevation and slope magnitude
//  Parameters:
//   "elevation key"       = <domain>-elevation
//   "slope magnitude key" = <domain>-slope_magnitude
//   "dynamic mesh"        = false -- recompute when the "deformation" signal is raised
//  Note: computed on the first request regardless of dependencies; the boundary_face
//        component, if required by a consumer, mirrors the adjacent cell
func NewElevation(key string, plist inp.ParameterList) (state.Evaluator, error) {
	r := newReader(plist, key)
	keys := []string{
		r.key("elevation key", "elevation"),
		r.key("slope magnitude key", "slope_magnitude"),
	}
	ev := state.NewSecondary(keys, nil, new(elevation), plist)
	if r.flag("dynamic mesh", false) {
		ev.AddDependency(r.str("deformation key", "deformation"))
	}
	if r.err != nil {
		return nil, r.err
	}
	ev.MirrorBoundary = true
	return ev, nil
}

// EvaluateField sets elevation and slope magnitude
func (o *elevation) EvaluateField(S *state.State, results []*state.CompositeVector) (err error) {
	m := results[0].Space.Mesh
	elev := results[0].Values("cell")
	slope := results[1].Values("cell")
	k := m.SpaceDimension() - 1
	for c := range elev {
		elev[c] = m.CellCentroid(c)[k]
		slope[c], err = slopeMagnitude(m, c)
		if err != nil {
			return
		}
	}
	return
}

// slopeMagnitude fits the plane z = a + g·x through the centroids of cell c and its
// face neighbours by least squares and returns |g|
//  Note: horizontal directions along which all points coincide have no slope
func slopeMagnitude(m mesh.Mesh, c int) (float64, error) {

	// points
	pts := [][]float64{m.CellCentroid(c)}
	faces, _ := m.CellGetFacesAndDirs(c)
	for _, f := range faces {
		for _, nb := range m.FaceGetCells(f, mesh.USED) {
			if nb != c {
				pts = append(pts, m.CellCentroid(nb))
			}
		}
	}

	// horizontal directions with spread
	k := m.SpaceDimension() - 1
	var dirs []int
	for i := 0; i < k; i++ {
		lo, hi := pts[0][i], pts[0][i]
		for _, x := range pts {
			lo, hi = math.Min(lo, x[i]), math.Max(hi, x[i])
		}
		if hi-lo > 1e-12*(1.0+math.Abs(hi)) {
			dirs = append(dirs, i)
		}
	}
	if len(dirs) == 0 || len(pts) < len(dirs)+1 {
		return 0, nil
	}

	// least squares
	A := mat.NewDense(len(pts), len(dirs)+1, nil)
	z := mat.NewVecDense(len(pts), nil)
	for r, x := range pts {
		A.Set(r, 0, 1)
		for j, i := range dirs {
			A.Set(r, j+1, x[i]-pts[0][i])
		}
		z.SetVec(r, x[k])
	}
	var sol mat.VecDense
	if err := sol.SolveVec(A, z); err != nil {
		return 0, state.ConsistencyErr("cannot compute slope of cell %d: %v", c, err)
	}
	var sum float64
	for j := range dirs {
		sum += sol.AtVec(j+1) * sol.AtVec(j+1)
	}
	return math.Sqrt(sum), nil
}
