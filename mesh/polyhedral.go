// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Cell holds cell data
type Cell struct {
	Id       int       // id
	Region   string    // name of region this cell was generated in (optional)
	Centroid []float64 // centroid [sdim]
	Volume   float64   // volume (or area for manifold cells)
	Faces    []int     // faces bounding this cell
	Dirs     []int     // +1 if normal of face points outwards of this cell; -1 otherwise
	Parent   int       // parent entity in volumetric mesh (manifold meshes only); -1 otherwise
}

// Face holds face data
type Face struct {
	Id       int       // id
	Centroid []float64 // centroid [sdim]
	Normal   []float64 // area-weighted normal [sdim]
	Cells    []int     // cells sharing this face; normal points from Cells[0] to Cells[1]
}

// Polyhedral implements Mesh with explicitly given cells and faces
type Polyhedral struct {

	// input data
	Name   string  // name of domain; e.g. "domain" or "surface"
	Sdim   int     // space dimension
	Mdim   int     // manifold dimension
	Cells  []*Cell // all cells: owned first, then ghosts
	Faces  []*Face // all faces: owned first, then ghosts
	Ncells int     // number of owned cells
	Nfaces int     // number of owned faces

	// sets
	CellSets map[string][]int // region name => cells (owned and ghost)
	FaceSets map[string][]int // region name => faces (owned and ghost)

	// derived
	Bfaces  []int       // boundary face index => face index
	face2bf map[int]int // face index => boundary face index
	Nbfaces int         // number of owned boundary faces
	Xmin    []float64   // min coordinates of cell centroids
	Xmax    []float64   // max coordinates of cell centroids
	grid    *grid       // structured data if generated by NewBox
}

// NewPolyhedral returns a new mesh after checking ids and computing derived data
//  Input:
//   bfaces -- boundary faces; nil means all faces with exactly one cell
//  Note: faces with a number of cells other than one may be explicitly listed as boundary
//        faces; consumers are responsible for detecting such inconsistencies
func NewPolyhedral(name string, sdim, mdim int, cells []*Cell, faces []*Face, ncells, nfaces int, bfaces []int) (o *Polyhedral, err error) {

	// check
	if sdim < 1 || sdim > 3 || mdim < 1 || mdim > sdim {
		return nil, chk.Err("invalid dimensions: sdim=%d mdim=%d", sdim, mdim)
	}
	if ncells > len(cells) || nfaces > len(faces) {
		return nil, chk.Err("number of owned entities exceeds number of entities: ncells=%d/%d nfaces=%d/%d", ncells, len(cells), nfaces, len(faces))
	}
	if len(cells) < 1 {
		return nil, chk.Err("mesh %q must have at least one cell", name)
	}

	// new mesh
	o = &Polyhedral{
		Name:     name,
		Sdim:     sdim,
		Mdim:     mdim,
		Cells:    cells,
		Faces:    faces,
		Ncells:   ncells,
		Nfaces:   nfaces,
		CellSets: make(map[string][]int),
		FaceSets: make(map[string][]int),
	}

	// cells
	o.Xmin = make([]float64, sdim)
	o.Xmax = make([]float64, sdim)
	for j := 0; j < sdim; j++ {
		o.Xmin[j], o.Xmax[j] = math.MaxFloat64, -math.MaxFloat64
	}
	for i, c := range cells {
		if c.Id != i {
			return nil, chk.Err("cell id %d is incorrect; it must be equal to %d", c.Id, i)
		}
		if len(c.Centroid) != sdim {
			return nil, chk.Err("centroid of cell %d has wrong dimension %d != %d", c.Id, len(c.Centroid), sdim)
		}
		if len(c.Faces) != len(c.Dirs) {
			return nil, chk.Err("cell %d has %d faces but %d dirs", c.Id, len(c.Faces), len(c.Dirs))
		}
		for _, f := range c.Faces {
			if f < 0 || f >= len(faces) {
				return nil, chk.Err("cell %d refers to non-existent face %d", c.Id, f)
			}
		}
		for j := 0; j < sdim; j++ {
			o.Xmin[j] = utl.Min(o.Xmin[j], c.Centroid[j])
			o.Xmax[j] = utl.Max(o.Xmax[j], c.Centroid[j])
		}
		if c.Region != "" {
			o.CellSets[c.Region] = append(o.CellSets[c.Region], c.Id)
		}
	}

	// faces
	for i, f := range faces {
		if f.Id != i {
			return nil, chk.Err("face id %d is incorrect; it must be equal to %d", f.Id, i)
		}
		if len(f.Normal) != sdim || len(f.Centroid) != sdim {
			return nil, chk.Err("normal or centroid of face %d has wrong dimension", f.Id)
		}
		for _, c := range f.Cells {
			if c < 0 || c >= len(cells) {
				return nil, chk.Err("face %d refers to non-existent cell %d", f.Id, c)
			}
		}
	}

	// boundary faces
	if bfaces == nil {
		for _, f := range faces {
			if len(f.Cells) == 1 {
				bfaces = append(bfaces, f.Id)
			}
		}
	}
	o.Bfaces = bfaces
	o.face2bf = make(map[int]int)
	for bf, f := range bfaces {
		if f < 0 || f >= len(faces) {
			return nil, chk.Err("boundary face %d refers to non-existent face %d", bf, f)
		}
		o.face2bf[f] = bf
		if f < nfaces {
			o.Nbfaces++
		}
	}

	// the whole domain
	o.CellSets["all"] = utl.IntRange(len(cells))
	return
}

// SpaceDimension returns the dimension of the embedding space
func (o *Polyhedral) SpaceDimension() int { return o.Sdim }

// ManifoldDimension returns the dimension of cells
func (o *Polyhedral) ManifoldDimension() int { return o.Mdim }

// NumEntities returns the number of entities of given kind
func (o *Polyhedral) NumEntities(kind Kind, ptype Ptype) int {
	switch kind {
	case CELL:
		if ptype == OWNED {
			return o.Ncells
		}
		return len(o.Cells)
	case FACE:
		if ptype == OWNED {
			return o.Nfaces
		}
		return len(o.Faces)
	case BOUNDARY_FACE:
		if ptype == OWNED {
			return o.Nbfaces
		}
		return len(o.Bfaces)
	}
	return 0
}

// CellVolume returns the volume of cell
func (o *Polyhedral) CellVolume(c int) float64 { return o.Cells[c].Volume }

// CellCentroid returns the centroid of cell
func (o *Polyhedral) CellCentroid(c int) []float64 { return o.Cells[c].Centroid }

// FaceArea returns the area of face
func (o *Polyhedral) FaceArea(f int) float64 {
	var sum float64
	for _, v := range o.Faces[f].Normal {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// FaceNormal returns the area-weighted normal of face
func (o *Polyhedral) FaceNormal(f int) []float64 { return o.Faces[f].Normal }

// FaceCentroid returns the centroid of face
func (o *Polyhedral) FaceCentroid(f int) []float64 { return o.Faces[f].Centroid }

// CellGetFacesAndDirs returns the faces of cell and the orientation of their normals
func (o *Polyhedral) CellGetFacesAndDirs(c int) (faces, dirs []int) {
	return o.Cells[c].Faces, o.Cells[c].Dirs
}

// FaceGetCells returns the cells sharing face
func (o *Polyhedral) FaceGetCells(f int, ptype Ptype) (cells []int) {
	if ptype == USED {
		return o.Faces[f].Cells
	}
	for _, c := range o.Faces[f].Cells {
		if c < o.Ncells {
			cells = append(cells, c)
		}
	}
	return
}

// BoundaryFaceToFace maps boundary face index to face index
func (o *Polyhedral) BoundaryFaceToFace(bf int) int { return o.Bfaces[bf] }

// FaceToBoundaryFace maps face index to boundary face index; returns -1 if f is not on the boundary
func (o *Polyhedral) FaceToBoundaryFace(f int) int {
	if bf, ok := o.face2bf[f]; ok {
		return bf
	}
	return -1
}

// ParentEntity returns the face of the volumetric mesh a manifold cell lives on
func (o *Polyhedral) ParentEntity(c int) int { return o.Cells[c].Parent }

// HasRegion checks whether region exists
func (o *Polyhedral) HasRegion(region string, kind Kind) bool {
	switch kind {
	case CELL:
		_, ok := o.CellSets[region]
		return ok
	case FACE, BOUNDARY_FACE:
		_, ok := o.FaceSets[region]
		return ok
	}
	return false
}

// RegionEntities returns the entities in named region
func (o *Polyhedral) RegionEntities(region string, kind Kind, ptype Ptype) (ids []int, err error) {
	var all []int
	var ok bool
	var nowned int
	switch kind {
	case CELL:
		all, ok = o.CellSets[region]
		nowned = o.Ncells
	case FACE:
		all, ok = o.FaceSets[region]
		nowned = o.Nfaces
	case BOUNDARY_FACE:
		var faces []int
		faces, ok = o.FaceSets[region]
		for _, f := range faces {
			if bf := o.FaceToBoundaryFace(f); bf >= 0 {
				all = append(all, bf)
			}
		}
		nowned = o.Nbfaces
	}
	if !ok {
		return nil, chk.Err("mesh %q does not have a %s region named %q", o.Name, kind, region)
	}
	if ptype == USED {
		return all, nil
	}
	for _, id := range all {
		if id < nowned {
			ids = append(ids, id)
		}
	}
	return
}

// AddCellSet adds (or replaces) a named set of cells
func (o *Polyhedral) AddCellSet(region string, cells []int) {
	o.CellSets[region] = unique(cells)
}

// AddFaceSet adds (or replaces) a named set of faces
func (o *Polyhedral) AddFaceSet(region string, faces []int) {
	o.FaceSets[region] = unique(faces)
}

// Deform moves the centroids of cells along the last space direction
//  Note: intended for manifold (surface) meshes whose elevation changes
func (o *Polyhedral) Deform(dz []float64) (err error) {
	if len(dz) != len(o.Cells) {
		return chk.Err("Deform: size of dz (%d) must be equal to the number of cells (%d)", len(dz), len(o.Cells))
	}
	k := o.Sdim - 1
	for i, c := range o.Cells {
		c.Centroid[k] += dz[i]
		o.Xmin[k] = utl.Min(o.Xmin[k], c.Centroid[k])
		o.Xmax[k] = utl.Max(o.Xmax[k], c.Centroid[k])
	}
	return
}

// String returns a summary of the mesh
func (o *Polyhedral) String() string {
	return io.Sf("mesh %q: sdim=%d mdim=%d ncells=%d/%d nfaces=%d/%d nbfaces=%d/%d",
		o.Name, o.Sdim, o.Mdim, o.Ncells, len(o.Cells), o.Nfaces, len(o.Faces), o.Nbfaces, len(o.Bfaces))
}

// unique returns a sorted copy of ids without duplicates
func unique(ids []int) (res []int) {
	res = make([]int, len(ids))
	copy(res, ids)
	sort.Ints(res)
	n := 0
	for i, id := range res {
		if i == 0 || id != res[n-1] {
			res[n] = id
			n++
		}
	}
	return res[:n]
}
