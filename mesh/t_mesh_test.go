// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func Test_box01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("box01")

	m, err := NewBox("domain", []int{2, 1, 3}, []float64{0, 0, 0}, []float64{2, 1, 6})
	require.NoError(tst, err)
	io.Pforan("%v\n", m)

	// counts
	chk.Int(tst, "ncells", m.NumEntities(CELL, OWNED), 6)
	chk.Int(tst, "nfaces", m.NumEntities(FACE, USED), 3*1*3+2*2*3+2*1*4)
	chk.Int(tst, "nbfaces", m.NumEntities(BOUNDARY_FACE, OWNED), 2*(1*3)+2*(2*3)+2*(2*1))

	// geometry
	chk.Float64(tst, "vol", 1e-15, m.CellVolume(0), 2.0)
	chk.Array(tst, "x(c=5)", 1e-15, m.CellCentroid(5), []float64{1.5, 0.5, 5})

	// every face of every cell is consistent with the face's cells and normal
	for c := 0; c < m.NumEntities(CELL, USED); c++ {
		faces, dirs := m.CellGetFacesAndDirs(c)
		chk.Int(tst, "nfaces of cell", len(faces), 6)
		for i, f := range faces {
			cells := m.FaceGetCells(f, USED)
			if dirs[i] > 0 {
				chk.Int(tst, "first cell", cells[0], c)
			} else {
				chk.Int(tst, "second cell", cells[1], c)
			}
		}
	}

	// boundary faces point outwards
	for bf := 0; bf < m.NumEntities(BOUNDARY_FACE, USED); bf++ {
		f := m.BoundaryFaceToFace(bf)
		c := m.FaceGetCells(f, USED)[0]
		xc, xf, n := m.CellCentroid(c), m.FaceCentroid(f), m.FaceNormal(f)
		var dot float64
		for i := 0; i < 3; i++ {
			dot += (xf[i] - xc[i]) * n[i]
		}
		if dot <= 0 {
			tst.Errorf("normal of boundary face %d points inwards", f)
		}
	}

	// sets
	top, err := m.RegionEntities("top", FACE, OWNED)
	require.NoError(tst, err)
	chk.Int(tst, "ntop", len(top), 2)
	bot, err := m.RegionEntities("bottom", BOUNDARY_FACE, OWNED)
	require.NoError(tst, err)
	chk.Int(tst, "nbottom", len(bot), 2)
	_, err = m.RegionEntities("nothere", CELL, OWNED)
	require.Error(tst, err)
}

func Test_surface01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("surface01")

	vol, err := NewBox("domain", []int{3, 2, 2}, []float64{0, 0, 0}, []float64{3, 2, 1})
	require.NoError(tst, err)
	surf, err := ExtractSurface("surface", vol)
	require.NoError(tst, err)

	chk.Int(tst, "sdim", surf.SpaceDimension(), 3)
	chk.Int(tst, "mdim", surf.ManifoldDimension(), 2)
	chk.Int(tst, "ncells", surf.NumEntities(CELL, OWNED), 6)

	// each surface cell sits on a top face of the volume with the same area and x-y centroid
	for c := 0; c < 6; c++ {
		f := surf.ParentEntity(c)
		cells := vol.FaceGetCells(f, USED)
		chk.Int(tst, "one interior cell", len(cells), 1)
		chk.Float64(tst, "area", 1e-15, surf.CellVolume(c), vol.FaceArea(f))
		chk.Array(tst, "centroid", 1e-15, surf.CellCentroid(c), vol.FaceCentroid(f))
	}

	// deformation moves the elevation of cells
	err = surf.Deform([]float64{0, 0, 0, 0, 0, 0.5})
	require.NoError(tst, err)
	chk.Float64(tst, "z(5)", 1e-15, surf.CellCentroid(5)[2], 1.5)
	require.Error(tst, surf.Deform([]float64{1}))
}

func Test_read01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("read01")

	dat := FileData{
		Box:     &BoxData{N: []int{1, 1, 4}, Lo: []float64{0, 0, 0}, Hi: []float64{1, 1, 4}},
		Surface: "surface",
		Regions: []*RegionData{{Name: "upper", Lo: []float64{0, 0, 2}, Hi: []float64{1, 1, 4}}},
	}
	meshes, err := dat.Generate()
	require.NoError(tst, err)
	chk.Int(tst, "nmeshes", len(meshes), 2)

	upper, err := meshes["domain"].RegionEntities("upper", CELL, OWNED)
	require.NoError(tst, err)
	chk.Ints(tst, "upper", upper, []int{2, 3})

	// the surface lies at z=4 and is therefore in the upper region too
	require.True(tst, meshes["surface"].HasRegion("upper", CELL))
}
