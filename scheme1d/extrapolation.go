// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scheme1d

import (
	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdetensor"
	"github.com/cpmech/gofd/stepper"
)

// Extrapolation implements the Lawson-Morris scheme of spec.md §4.5:
// 2*(two implicit half-steps) - (one implicit full step). Three
// tridiagonal solves; second-order accurate with damped high-wavenumber
// response.
type Extrapolation struct{}

func (Extrapolation) Step(t, dt float64, g grid.Grid, v *pdetensor.Tensor, ev stepper.Evaluators, bcs []boundary.Condition) (float64, grid.Grid, *pdetensor.Tensor, error) {
	var implicit Implicit

	_, _, vFull, err := implicit.Step(t, dt, g, v, ev, bcs)
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}

	tHalf, gHalf, vHalf, err := implicit.Step(t, dt/2, g, v, ev, bcs)
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}
	tFinal, gFinal, vFinal, err := implicit.Step(tHalf, dt/2, gHalf, vHalf, ev, bcs)
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}

	out := pdetensor.New(vFinal.Shape...)
	pdetensor.Scale(out, 2, vFinal)
	pdetensor.AXPY(out, -1, vFull, out)

	return tFinal, gFinal, out, nil
}
