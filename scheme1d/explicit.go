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

// Explicit implements V_{t+dt} = (I + dt*L_t) V_t + dt*b_t: one
// tridiagonal matmul, stable only for small dt (spec.md §4.5).
type Explicit struct{}

func (Explicit) Step(t, dt float64, g grid.Grid, v *pdetensor.Tensor, ev stepper.Evaluators, bcs []boundary.Condition) (float64, grid.Grid, *pdetensor.Tensor, error) {
	bs := batchShape(v)
	op, err := buildOperator(t, g, bs, ev, bcs[0])
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}
	interior := interiorOf(v)
	lx := identityPlus(op, dt, interior)
	out := pdetensor.New(interior.Shape...)
	pdetensor.AXPY(out, dt, op.B, lx)

	lower, upper, err := closures(t+dt, g, bs, bcs[0])
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}
	full := reconstruct(g, bs, out, lower, upper)
	return t + dt, g, full, nil
}
