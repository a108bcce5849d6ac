// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scheme1d

import (
	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdetensor"
	"github.com/cpmech/gofd/stepper"
	"github.com/cpmech/gofd/tridiag"
)

// Implicit implements (I - dt*L_{t+dt}) V_{t+dt} = V_t + dt*b_{t+dt}: one
// tridiagonal solve, unconditionally stable, first-order (spec.md §4.5).
type Implicit struct{}

func (Implicit) Step(t, dt float64, g grid.Grid, v *pdetensor.Tensor, ev stepper.Evaluators, bcs []boundary.Condition) (float64, grid.Grid, *pdetensor.Tensor, error) {
	tNext := t + dt
	bs := batchShape(v)
	op, err := buildOperator(tNext, g, bs, ev, bcs[0])
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}
	interior := interiorOf(v)
	rhs := pdetensor.New(interior.Shape...)
	pdetensor.AXPY(rhs, dt, op.B, interior)

	out, err := tridiag.BatchSolve(implicitDiagonals(op, dt), rhs)
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}

	lower, upper, err := closures(tNext, g, bs, bcs[0])
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}
	full := reconstruct(g, bs, out, lower, upper)
	return tNext, g, full, nil
}
