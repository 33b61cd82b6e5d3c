// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mreten

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"github.com/saubhagya-gatech/ats/inp"
	"github.com/saubhagya-gatech/ats/mesh"
)

// RegionModel associates a retention model with a named mesh region
type RegionModel struct {
	Region string // name of region
	Model  Model  // model
}

// Table holds one retention model per region and a default model for unmatched cells
type Table struct {
	Pairs   []RegionModel // region => model; later pairs take precedence
	Default Model         // model of cells in no region; may be nil
}

// NewTable returns a table from a parameter list of blocks
//  Each block holds "model" (e.g. "van Genuchten"), "region" (default: block name) and the
//  parameters of the model. A block without region named "default" sets the default model.
func NewTable(plist inp.ParameterList) (o *Table, err error) {
	o = new(Table)
	for _, block := range plist.Keys() {
		if !plist.IsSublist(block) {
			continue
		}
		var sub inp.ParameterList
		if sub, err = plist.Sublist(block); err != nil {
			return
		}
		var mdl Model
		var name, region string
		if name, err = sub.GetString("model", "van Genuchten"); err != nil {
			return
		}
		mdl, err = New(name)
		if err != nil {
			return nil, fmt.Errorf("WRM block %q: %w", block, err)
		}
		if err = mdl.Init(sub); err != nil {
			return nil, fmt.Errorf("WRM block %q: %w", block, err)
		}
		if region, err = sub.GetString("region", block); err != nil {
			return
		}
		if region == "default" {
			o.Default = mdl
			continue
		}
		o.Pairs = append(o.Pairs, RegionModel{region, mdl})
	}
	if len(o.Pairs) == 0 && o.Default == nil {
		return nil, chk.Err("at least one WRM block must be given")
	}
	return
}

// CellModels returns the model of each cell (owned and ghost)
func (o *Table) CellModels(m mesh.Mesh) (models []Model, err error) {
	models = make([]Model, m.NumEntities(mesh.CELL, mesh.USED))
	for i := range models {
		models[i] = o.Default
	}
	for _, p := range o.Pairs {
		var cells []int
		cells, err = m.RegionEntities(p.Region, mesh.CELL, mesh.USED)
		if err != nil {
			return
		}
		for _, c := range cells {
			models[c] = p.Model
		}
	}
	for c, mdl := range models {
		if mdl == nil {
			return nil, chk.Err("cell %d is in no WRM region and there is no default WRM", c)
		}
	}
	return
}
