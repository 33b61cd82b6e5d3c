// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mesh implements the mesh service consumed by fields, evaluators and process kernels
package mesh

import "github.com/cpmech/gosl/chk"

// Kind defines the kind of mesh entity a field component is indexed by
type Kind int

// entity kinds
const (
	CELL Kind = iota
	FACE
	BOUNDARY_FACE
)

// Ptype selects locally owned entities or owned plus ghost entities
type Ptype int

// parallel types
const (
	OWNED Ptype = iota
	USED
)

// String returns the name of the entity kind as used in component names
func (o Kind) String() string {
	switch o {
	case CELL:
		return "cell"
	case FACE:
		return "face"
	case BOUNDARY_FACE:
		return "boundary_face"
	}
	return "unknown"
}

// KindFromString returns the entity kind corresponding to a component name
func KindFromString(name string) (kind Kind, err error) {
	switch name {
	case "cell":
		return CELL, nil
	case "face":
		return FACE, nil
	case "boundary_face":
		return BOUNDARY_FACE, nil
	}
	return CELL, chk.Err("unknown mesh entity kind %q", name)
}

// Mesh defines the mesh service
//  Note: normals are area-weighted and oriented from the first cell returned
//        by FaceGetCells towards the second one (outwards for boundary faces)
type Mesh interface {

	// dimensions and counts
	SpaceDimension() int                     // dimension of the embedding space
	ManifoldDimension() int                  // dimension of cells; smaller than SpaceDimension for surface meshes
	NumEntities(kind Kind, ptype Ptype) int  // number of entities of given kind

	// geometry
	CellVolume(c int) float64     // volume (area for manifolds) of cell
	CellCentroid(c int) []float64 // centroid of cell [sdim]
	FaceArea(f int) float64       // area (length for manifolds) of face
	FaceNormal(f int) []float64   // area-weighted normal of face [sdim]
	FaceCentroid(f int) []float64 // centroid of face [sdim]

	// topology
	CellGetFacesAndDirs(c int) (faces, dirs []int) // faces of cell and orientation of normals (+1 outwards)
	FaceGetCells(f int, ptype Ptype) (cells []int)  // cells sharing face
	BoundaryFaceToFace(bf int) int                  // maps boundary face index to face index
	ParentEntity(c int) int                         // face of the volumetric mesh this manifold cell lives on; -1 if none

	// sets
	RegionEntities(region string, kind Kind, ptype Ptype) (ids []int, err error) // entities in named region
	HasRegion(region string, kind Kind) bool                                    // checks whether region exists
}
