// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a simulation (YAML or JSON) file
package inp

import (
	"bytes"
	goio "io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/mesh"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string         `yaml:"desc" json:"desc"`       // description of simulation
	Mshfile string         `yaml:"mshfile" json:"mshfile"` // mesh file path; relative to the simulation file
	Mesh    *mesh.FileData `yaml:"mesh" json:"mesh"`       // inline mesh; used if Mshfile is empty
	DirOut  string         `yaml:"dirout" json:"dirout"`   // directory for output; e.g. /tmp/ats
	Encoder string         `yaml:"encoder" json:"encoder"` // encoder name; e.g. "gob" "json"
	Vtu     bool           `yaml:"vtu" json:"vtu"`         // write VTU files of fields flagged for visualization
}

// SolverData holds data of the time loop
type SolverData struct {
	NdvgMax int     `yaml:"ndvgmax" json:"ndvgmax"` // max number of continued failures
	DtMin   float64 `yaml:"dtmin" json:"dtmin"`     // minimum time step
	DtMax   float64 `yaml:"dtmax" json:"dtmax"`     // maximum time step; zero means unlimited
	Reduce  float64 `yaml:"reduce" json:"reduce"`   // multiplier of time step after a failure
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tini  float64 `yaml:"tini" json:"tini"`   // initial time
	Tf    float64 `yaml:"tf" json:"tf"`       // final time
	DtOut float64 `yaml:"dtout" json:"dtout"` // time step size for output
}

// Constants holds the constants of the physical setting
type Constants struct {
	Patm    float64   `yaml:"atmospheric pressure" json:"atmospheric pressure"` // [Pa]
	Gravity []float64 `yaml:"gravity" json:"gravity"`                           // [m/s²]; empty means the default of each kernel
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data          `yaml:"data" json:"data"`           // global data
	Solver    SolverData    `yaml:"solver" json:"solver"`       // time loop data
	Control   TimeControl   `yaml:"control" json:"control"`     // time control
	Constants Constants     `yaml:"constants" json:"constants"` // physical constants
	PKTree    ParameterList `yaml:"pk tree" json:"pk tree"`     // name of root kernel => its parameters
	State     ParameterList `yaml:"state" json:"state"`         // "field evaluators" and "initial conditions"

	// derived
	DirOut   string                      `yaml:"-" json:"-"` // directory to save results
	Key      string                      `yaml:"-" json:"-"` // simulation key; e.g. mysim01.yaml => mysim01 or mysim01-alias
	EncType  string                      `yaml:"-" json:"-"` // encoder type
	RootName string                      `yaml:"-" json:"-"` // name of root kernel
	Meshes   map[string]*mesh.Polyhedral `yaml:"-" json:"-"` // domain => mesh
}

// ReadSim reads all simulation data from a YAML (or JSON) file
//  Input:
//   alias      -- word added to the simulation key; may be empty
//   erasefiles -- create the output directory and erase previous results
func ReadSim(simfilepath, alias string, erasefiles bool) (o *Simulation, err error) {

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := strings.TrimSuffix(filepath.Base(simfilepath), filepath.Ext(simfilepath))
	o, err = ParseSim(b, dir, fnkey, alias)
	if err != nil {
		return nil, chk.Err("simulation file %q:\n%v", simfilepath, err)
	}

	// create directory and erase previous simulation results
	if erasefiles {
		if err = os.MkdirAll(o.DirOut, 0777); err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
		old, _ := filepath.Glob(filepath.Join(o.DirOut, o.Key+"_*"))
		for _, fn := range old {
			if err = os.Remove(fn); err != nil {
				return nil, chk.Err("cannot erase previous results: %v", err)
			}
		}
	}
	return
}

// ParseSim decodes simulation data and generates the meshes
//  Input:
//   dir   -- directory of mesh files
//   fnkey -- filename key of the simulation
func ParseSim(b []byte, dir, fnkey, alias string) (o *Simulation, err error) {

	// decode
	o = new(Simulation)
	o.Solver.SetDefault()
	o.Constants.SetDefault()
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot unmarshal simulation data:\n%v", err)
	}

	// key
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = filepath.Join(os.TempDir(), "ats", fnkey)
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// constants
	if err = o.Solver.PostProcess(); err != nil {
		return nil, err
	}
	if err = o.Control.PostProcess(); err != nil {
		return nil, err
	}
	if o.Constants.Patm <= 0 {
		return nil, chk.Err("atmospheric pressure must be positive; %g is invalid", o.Constants.Patm)
	}

	// root kernel
	if len(o.PKTree) != 1 {
		return nil, chk.Err("\"pk tree\" must have exactly one root kernel; %d were given", len(o.PKTree))
	}
	for name := range o.PKTree {
		o.RootName = name
	}
	if !o.PKTree.IsSublist(o.RootName) {
		return nil, chk.Err("root kernel %q must be given as a list of parameters", o.RootName)
	}
	if o.State == nil {
		o.State = ParameterList{}
	}
	o.State = o.State.Clone()

	// meshes
	switch {
	case o.Data.Mshfile != "":
		o.Meshes, err = mesh.ReadMeshes(dir, o.Data.Mshfile)
	case o.Data.Mesh != nil:
		o.Meshes, err = o.Data.Mesh.Generate()
	default:
		err = chk.Err("either \"mshfile\" or \"mesh\" must be given")
	}
	return
}

// RootParameters returns the parameters of the root kernel
//  NOTE: ReadSim has already checked that the root is a sublist
func (o *Simulation) RootParameters() ParameterList {
	l, _ := o.PKTree.Sublist(o.RootName)
	return l
}

// Domains returns the sorted names of domains
func (o *Simulation) Domains() (names []string) {
	for name := range o.Meshes {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// GetInfo writes formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := yaml.Marshal(o)
	if err != nil {
		return
	}
	var buf bytes.Buffer
	io.Ff(&buf, "key = %s\ndirout = %s\ndomains = %v\n", o.Key, o.DirOut, o.Domains())
	buf.Write(b)
	_, err = w.Write(buf.Bytes())
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {
	o.NdvgMax = 20
	o.DtMin = 1e-10
	o.Reduce = 0.5
}

// PostProcess checks values
func (o *SolverData) PostProcess() (err error) {
	if o.NdvgMax < 1 {
		return chk.Err("ndvgmax must be at least 1; %d is invalid", o.NdvgMax)
	}
	if o.DtMin <= 0 {
		return chk.Err("dtmin must be positive; %g is invalid", o.DtMin)
	}
	if o.DtMax < 0 {
		return chk.Err("dtmax must not be negative; %g is invalid", o.DtMax)
	}
	if o.Reduce <= 0 || o.Reduce >= 1 {
		return chk.Err("reduce must be in (0, 1); %g is invalid", o.Reduce)
	}
	return
}

// PostProcess fixes final and output times
func (o *TimeControl) PostProcess() (err error) {
	if o.Tf <= o.Tini {
		o.Tf = o.Tini + 1
	}
	if o.DtOut <= 0 {
		o.DtOut = o.Tf - o.Tini
	}
	return
}

// SetDefault sets defaults values
func (o *Constants) SetDefault() {
	o.Patm = 101325
}
