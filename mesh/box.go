// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/cpmech/gosl/chk"
)

// grid holds the structured data a box mesh was generated from
type grid struct {
	n  []int     // number of cells along each direction
	lo []float64 // lower corner
	hi []float64 // upper corner
}

// axis names used to label boundary face sets
var axisNames = []string{"x", "y", "z"}

// NewBox generates a structured mesh of a box with n[i] cells along direction i
//  Input:
//   n  -- number of cells along each direction; len(n) == space dimension
//   lo -- lower corner [sdim]
//   hi -- upper corner [sdim]
//  Face sets: "xmin", "xmax", "ymin", ... and "bottom"/"top" for the last direction
//  Note: cells are numbered with the first index running fastest
func NewBox(name string, n []int, lo, hi []float64) (o *Polyhedral, err error) {
	sdim := len(n)
	if sdim < 1 || sdim > 3 || len(lo) != sdim || len(hi) != sdim {
		return nil, chk.Err("NewBox: n, lo and hi must have the same length in [1,3]")
	}
	for i := 0; i < sdim; i++ {
		if n[i] < 1 || hi[i] <= lo[i] {
			return nil, chk.Err("NewBox: invalid direction %d: n=%d lo=%g hi=%g", i, n[i], lo[i], hi[i])
		}
	}
	cells, faces, sets := buildGrid(n, lo, hi)
	o, err = NewPolyhedral(name, sdim, sdim, cells, faces, len(cells), len(faces), nil)
	if err != nil {
		return
	}
	for key, ids := range sets {
		o.AddFaceSet(key, ids)
	}
	o.grid = &grid{n, lo, hi}
	return
}

// ExtractSurface generates the manifold mesh made of the top faces of a box mesh
//  Note: each surface cell records the id of the top face of vol it lives on (ParentEntity)
func ExtractSurface(name string, vol *Polyhedral) (o *Polyhedral, err error) {
	if vol.grid == nil {
		return nil, chk.Err("ExtractSurface: mesh %q was not generated by NewBox", vol.Name)
	}
	if vol.Sdim < 2 {
		return nil, chk.Err("ExtractSurface: mesh %q must have at least two dimensions", vol.Name)
	}
	g := vol.grid
	m := vol.Sdim - 1
	ztop := g.hi[m]

	// grid on the manifold
	cells, faces, sets := buildGrid(g.n[:m], g.lo[:m], g.hi[:m])

	// lift to the embedding space
	for _, c := range cells {
		c.Centroid = append(c.Centroid, ztop)
	}
	for _, f := range faces {
		f.Centroid = append(f.Centroid, ztop)
		f.Normal = append(f.Normal, 0)
	}

	// parents: top faces of vol have the same ordering as the surface cells
	top := vol.FaceSets["top"]
	if len(top) != len(cells) {
		return nil, chk.Err("ExtractSurface: number of top faces (%d) differs from number of surface cells (%d)", len(top), len(cells))
	}
	for i, c := range cells {
		c.Parent = top[i]
	}

	// mesh
	o, err = NewPolyhedral(name, vol.Sdim, m, cells, faces, len(cells), len(faces), nil)
	if err != nil {
		return
	}
	for key, ids := range sets {
		o.AddFaceSet(key, ids)
	}
	o.grid = &grid{g.n[:m], g.lo[:m], g.hi[:m]}
	return
}

// buildGrid builds cells and faces of a structured grid
func buildGrid(n []int, lo, hi []float64) (cells []*Cell, faces []*Face, sets map[string][]int) {

	// auxiliary
	ndim := len(n)
	h := make([]float64, ndim)
	ncells := 1
	for i := 0; i < ndim; i++ {
		h[i] = (hi[i] - lo[i]) / float64(n[i])
		ncells *= n[i]
	}
	volume := 1.0
	for i := 0; i < ndim; i++ {
		volume *= h[i]
	}

	// cells
	cells = make([]*Cell, ncells)
	idx := make([]int, ndim)
	for c := 0; c < ncells; c++ {
		unflatten(c, n, idx)
		x := make([]float64, ndim)
		for i := 0; i < ndim; i++ {
			x[i] = lo[i] + (float64(idx[i])+0.5)*h[i]
		}
		cells[c] = &Cell{Id: c, Centroid: x, Volume: volume, Parent: -1}
	}

	// faces, direction by direction
	sets = make(map[string][]int)
	for d := 0; d < ndim; d++ {

		// grid of faces normal to d has n[d]+1 positions along d
		nf := make([]int, ndim)
		copy(nf, n)
		nf[d]++
		nfaces := 1
		area := 1.0
		for i := 0; i < ndim; i++ {
			nfaces *= nf[i]
			if i != d {
				area *= h[i]
			}
		}

		for k := 0; k < nfaces; k++ {
			unflatten(k, nf, idx)
			p := idx[d]
			fid := len(faces)

			// centroid and normal
			x := make([]float64, ndim)
			for i := 0; i < ndim; i++ {
				if i == d {
					x[i] = lo[i] + float64(p)*h[i]
				} else {
					x[i] = lo[i] + (float64(idx[i])+0.5)*h[i]
				}
			}
			normal := make([]float64, ndim)
			normal[d] = area

			// neighbouring cells
			var fcells []int
			if p > 0 {
				idx[d] = p - 1
				left := flatten(idx, n)
				fcells = append(fcells, left)
				cells[left].Faces = append(cells[left].Faces, fid)
				cells[left].Dirs = append(cells[left].Dirs, 1)
			}
			if p < n[d] {
				idx[d] = p
				right := flatten(idx, n)
				fcells = append(fcells, right)
				cells[right].Faces = append(cells[right].Faces, fid)
				if p == 0 {
					normal[d] = -area // outwards
					cells[right].Dirs = append(cells[right].Dirs, 1)
				} else {
					cells[right].Dirs = append(cells[right].Dirs, -1)
				}
			}
			faces = append(faces, &Face{Id: fid, Centroid: x, Normal: normal, Cells: fcells})

			// boundary sets
			if p == 0 {
				sets[axisNames[d]+"min"] = append(sets[axisNames[d]+"min"], fid)
				if d == ndim-1 {
					sets["bottom"] = append(sets["bottom"], fid)
				}
			}
			if p == n[d] {
				sets[axisNames[d]+"max"] = append(sets[axisNames[d]+"max"], fid)
				if d == ndim-1 {
					sets["top"] = append(sets["top"], fid)
				}
			}
		}
	}
	return
}

// unflatten converts a flat index into grid indices (first index runs fastest)
func unflatten(k int, n []int, idx []int) {
	for i := 0; i < len(n); i++ {
		idx[i] = k % n[i]
		k /= n[i]
	}
}

// flatten converts grid indices into a flat index (first index runs fastest)
func flatten(idx []int, n []int) (k int) {
	stride := 1
	for i := 0; i < len(n); i++ {
		k += idx[i] * stride
		stride *= n[i]
	}
	return
}
