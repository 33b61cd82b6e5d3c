// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"gopkg.in/yaml.v3"
)

// RegionData holds an axis-aligned region definition
type RegionData struct {
	Name string    `yaml:"name" json:"name"` // name of region
	Kind string    `yaml:"kind" json:"kind"` // "cell" or "face"; default is "cell"
	Lo   []float64 `yaml:"lo" json:"lo"`     // lower corner
	Hi   []float64 `yaml:"hi" json:"hi"`     // upper corner
}

// BoxData holds the definition of a structured box
type BoxData struct {
	N  []int     `yaml:"n" json:"n"`   // number of cells along each direction
	Lo []float64 `yaml:"lo" json:"lo"` // lower corner
	Hi []float64 `yaml:"hi" json:"hi"` // upper corner
}

// FileData holds the contents of a mesh file
type FileData struct {
	Name    string        `yaml:"name" json:"name"`       // name of volumetric domain; default is "domain"
	Box     *BoxData      `yaml:"box" json:"box"`         // box definition
	Regions []*RegionData `yaml:"regions" json:"regions"` // named regions
	Surface string        `yaml:"surface" json:"surface"` // name of surface domain to extract; empty means none
}

// ReadMeshes reads a mesh file (YAML or JSON) and generates the volumetric mesh and,
// if requested, its surface mesh
//  Output:
//   meshes -- domain name => mesh
func ReadMeshes(dir, fn string) (meshes map[string]*Polyhedral, err error) {

	// read file
	fnpath := filepath.Join(dir, fn)
	b, err := os.ReadFile(fnpath)
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", fnpath, err)
	}

	// decode
	var dat FileData
	err = yaml.Unmarshal(b, &dat)
	if err != nil {
		return nil, chk.Err("cannot unmarshal mesh file %q:\n%v", fnpath, err)
	}
	return dat.Generate()
}

// Generate generates the meshes described by file data
func (o *FileData) Generate() (meshes map[string]*Polyhedral, err error) {

	// check
	if o.Box == nil {
		return nil, chk.Err("mesh data must have a box definition")
	}
	name := o.Name
	if name == "" {
		name = "domain"
	}

	// volumetric mesh
	vol, err := NewBox(name, o.Box.N, o.Box.Lo, o.Box.Hi)
	if err != nil {
		return
	}
	meshes = map[string]*Polyhedral{name: vol}

	// surface mesh
	var surf *Polyhedral
	if o.Surface != "" {
		surf, err = ExtractSurface(o.Surface, vol)
		if err != nil {
			return
		}
		meshes[o.Surface] = surf
	}

	// regions
	for _, reg := range o.Regions {
		if reg.Name == "" {
			return nil, chk.Err("regions must have a name")
		}
		for _, m := range meshes {
			if err = m.AddBoxRegion(reg); err != nil {
				return
			}
		}
	}
	return
}

// AddBoxRegion adds the cells (or faces) whose centroids are inside an axis-aligned box
//  Note: the box may have fewer coordinates than the space dimension; missing
//        coordinates are unconstrained
func (o *Polyhedral) AddBoxRegion(reg *RegionData) (err error) {
	if len(reg.Lo) != len(reg.Hi) {
		return chk.Err("region %q: lo and hi must have the same length", reg.Name)
	}
	inside := func(x []float64) bool {
		for i := 0; i < len(reg.Lo) && i < len(x); i++ {
			if x[i] < reg.Lo[i] || x[i] > reg.Hi[i] {
				return false
			}
		}
		return true
	}
	var ids []int
	switch reg.Kind {
	case "", "cell":
		for _, c := range o.Cells {
			if inside(c.Centroid) {
				ids = append(ids, c.Id)
			}
		}
		o.AddCellSet(reg.Name, ids)
	case "face":
		for _, f := range o.Faces {
			if inside(f.Centroid) {
				ids = append(ids, f.Id)
			}
		}
		o.AddFaceSet(reg.Name, ids)
	default:
		return chk.Err("region %q: kind must be \"cell\" or \"face\"; %q is invalid", reg.Name, reg.Kind)
	}
	return
}
