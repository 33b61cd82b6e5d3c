// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/saubhagya-gatech/ats/mesh"
	"github.com/saubhagya-gatech/ats/state"
)

// request used when secondary fields are brought up to date before output
const outputRequest = "sim:output"

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Checkpoint holds the fields flagged for checkpointing at one time level
type Checkpoint struct {
	Time   float64                           // simulation time
	Cycle  int                               // number of committed steps
	Fields map[string]map[string][][]float64 // key => component => [ndofs][nentities] values
}

// NewCheckpoint collects the fields of S flagged for checkpointing
func NewCheckpoint(S *state.State) (o *Checkpoint, err error) {
	o = &Checkpoint{Time: S.Time, Cycle: S.Cycle, Fields: make(map[string]map[string][][]float64)}
	for _, key := range S.FieldKeys() {
		var f *state.Field
		if f, err = S.Field(key); err != nil {
			return
		}
		if !f.Checkpoint || f.Data() == nil {
			continue
		}
		comps := make(map[string][][]float64)
		for _, name := range f.Data().Names() {
			view := f.Data().ViewComponent(name)
			vals := make([][]float64, len(view))
			for j := range view {
				vals[j] = append([]float64{}, view[j]...)
			}
			comps[name] = vals
		}
		o.Fields[key] = comps
	}
	return
}

// Restore copies the values of o into S and marks primary variables as changed
func (o *Checkpoint) Restore(S *state.State) (err error) {
	for key, comps := range o.Fields {
		f, err := S.Field(key)
		if err != nil {
			return err
		}
		cv := f.Data()
		if f.Owner != "" {
			if cv, err = f.DataW(f.Owner); err != nil {
				return err
			}
		}
		if cv == nil {
			return state.ConfigErr("cannot restore %q: field is not allocated", key)
		}
		for name, vals := range comps {
			view := cv.ViewComponent(name)
			if len(view) != len(vals) {
				return state.ConsistencyErr("cannot restore %q: component %q has %d dofs but %d were saved", key, name, len(view), len(vals))
			}
			for j := range vals {
				if len(view[j]) != len(vals[j]) {
					return state.ConsistencyErr("cannot restore %q: component %q has %d entities but %d were saved", key, name, len(view[j]), len(vals[j]))
				}
				copy(view[j], vals[j])
			}
		}
		f.Initialized = true
		if ev, err := S.GetEvaluator(key); err == nil {
			if c, ok := ev.(state.Changeable); ok {
				c.SetFieldChanged()
			}
		}
	}
	S.Time, S.Cycle = o.Time, o.Cycle
	return
}

// SaveCheckpoint saves the fields of S flagged for checkpointing to a file which name is set with tidx
func SaveCheckpoint(dir, fnkey, enctype string, tidx int, S *state.State, verbose bool) (err error) {

	// data
	c, err := NewCheckpoint(S)
	if err != nil {
		return
	}

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	if err = enc.Encode(c); err != nil {
		return state.ConfigErr("cannot encode checkpoint:\n%v", err)
	}

	// save file
	return saveFile(outChkPath(dir, fnkey, enctype, tidx), &buf, verbose)
}

// ReadCheckpoint reads the file which name is set with tidx and restores its fields into S
func ReadCheckpoint(dir, fnkey, enctype string, tidx int, S *state.State) (err error) {

	// open file
	fn := outChkPath(dir, fnkey, enctype, tidx)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()

	// decode
	var c Checkpoint
	dec := GetDecoder(fil, enctype)
	if err = dec.Decode(&c); err != nil {
		return chk.Err("cannot decode checkpoint %q:\n%v", fn, err)
	}
	return c.Restore(S)
}

// WriteVtu writes the cell components of the fields of domain flagged for visualisation
//  Note: cells are represented by vertices at their centroids
func WriteVtu(dir, fnkey string, tidx int, domain string, S *state.State, verbose bool) (err error) {

	// mesh
	m, err := S.Mesh(domain)
	if err != nil {
		return
	}
	nc := m.NumEntities(mesh.CELL, mesh.OWNED)
	sdim := m.SpaceDimension()

	// points and cells
	var buf bytes.Buffer
	io.Ff(&buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(&buf, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", nc, nc)
	io.Ff(&buf, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for c := 0; c < nc; c++ {
		x := m.CellCentroid(c)
		var y, z float64
		if sdim > 1 {
			y = x[1]
		}
		if sdim > 2 {
			z = x[2]
		}
		io.Ff(&buf, "%23.15e %23.15e %23.15e ", x[0], y, z)
	}
	io.Ff(&buf, "\n</DataArray>\n</Points>\n")
	io.Ff(&buf, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for c := 0; c < nc; c++ {
		io.Ff(&buf, "%d ", c)
	}
	io.Ff(&buf, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	for c := 0; c < nc; c++ {
		io.Ff(&buf, "%d ", c+1)
	}
	io.Ff(&buf, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for c := 0; c < nc; c++ {
		io.Ff(&buf, "1 ")
	}
	io.Ff(&buf, "\n</DataArray>\n</Cells>\n")

	// fields
	io.Ff(&buf, "<PointData Scalars=\"TheScalars\">\n")
	for _, key := range S.FieldKeys() {
		if state.GetDomain(key) != domain {
			continue
		}
		f, err := S.Field(key)
		if err != nil {
			return err
		}
		if !f.Vis || f.Data() == nil || !f.Data().HasComponent("cell") {
			continue
		}
		if S.HasEvaluator(key) {
			if _, err = S.HasFieldChanged(key, outputRequest); err != nil {
				return err
			}
		}
		view := f.Data().ViewComponent("cell")
		for j := range view {
			io.Ff(&buf, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"1\" format=\"ascii\">\n", f.SubfieldName(j, len(view)))
			for c := 0; c < nc; c++ {
				io.Ff(&buf, "%23.15e ", view[j][c])
			}
			io.Ff(&buf, "\n</DataArray>\n")
		}
	}
	io.Ff(&buf, "</PointData>\n</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	return saveFile(outVtuPath(dir, fnkey, domain, tidx), &buf, verbose)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func outChkPath(dir, fnkey, enctype string, tidx int) string {
	return filepath.Join(dir, io.Sf("%s_chk_%010d.%s", fnkey, tidx, enctype))
}

func outVtuPath(dir, fnkey, domain string, tidx int) string {
	return filepath.Join(dir, io.Sf("%s_%s_%010d.vtu", fnkey, domain, tidx))
}

func outSumPath(dir, fnkey, enctype string) string {
	return filepath.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}

func saveFile(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	if err = os.MkdirAll(filepath.Dir(filename), 0777); err != nil {
		return
	}
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pforan("file <%s> written\n", filename)
	}
	return
}
