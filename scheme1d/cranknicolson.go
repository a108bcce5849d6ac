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

// CrankNicolson implements theta=1/2, evaluating L and b once at the
// midpoint t+dt/2 for efficiency rather than twice at t and t+dt (spec.md
// §4.5):
//
//	(I - (dt/2)*L_half) V_{t+dt} = (I + (dt/2)*L_half) V_t + dt*b_half
//
// Second-order accurate.
type CrankNicolson struct{}

func (CrankNicolson) Step(t, dt float64, g grid.Grid, v *pdetensor.Tensor, ev stepper.Evaluators, bcs []boundary.Condition) (float64, grid.Grid, *pdetensor.Tensor, error) {
	tNext := t + dt
	tHalf := t + dt/2
	bs := batchShape(v)

	opHalf, err := buildOperator(tHalf, g, bs, ev, bcs[0])
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}

	interior := interiorOf(v)
	lx := identityPlus(opHalf, dt/2, interior)
	rhs := pdetensor.New(interior.Shape...)
	pdetensor.AXPY(rhs, dt, opHalf.B, lx)

	out, err := tridiag.BatchSolve(implicitDiagonals(opHalf, dt/2), rhs)
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
