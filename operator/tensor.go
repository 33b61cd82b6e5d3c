// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package operator

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// PermTensors converts permeability values into one tensor per cell
//  Input:
//   sdim -- space dimension
//   vals -- [ndofs][ncells] values:
//            ndofs == 1              => isotropic
//            ndofs == 2 and sdim == 3 => horizontal and vertical
//            ndofs == sdim            => diagonal
func PermTensors(sdim int, vals [][]float64) (K []*mat.SymDense, err error) {
	ndofs := len(vals)
	if ndofs < 1 {
		return nil, chk.Err("permeability must have at least one dof")
	}
	ncells := len(vals[0])
	K = make([]*mat.SymDense, ncells)
	for c := 0; c < ncells; c++ {
		K[c] = mat.NewSymDense(sdim, nil)
		switch {
		case ndofs == 1:
			for i := 0; i < sdim; i++ {
				K[c].SetSym(i, i, vals[0][c])
			}
		case ndofs == 2 && sdim == 3:
			K[c].SetSym(0, 0, vals[0][c])
			K[c].SetSym(1, 1, vals[0][c])
			K[c].SetSym(2, 2, vals[1][c])
		case ndofs == sdim:
			for i := 0; i < sdim; i++ {
				K[c].SetSym(i, i, vals[i][c])
			}
		default:
			return nil, chk.Err("cannot convert permeability with %d dofs into a tensor in %d dimensions", ndofs, sdim)
		}
	}
	return
}
