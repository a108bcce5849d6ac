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

// Theta implements the weighted theta scheme of spec.md §4.5:
//
//	(I - (1-theta)*dt*L_{t+dt}) V_{t+dt} = (I + theta*dt*L_t) V_t
//	                                      + theta*dt*b_t + (1-theta)*dt*b_{t+dt}
//
// Theta=0 is Implicit, Theta=1 is Explicit, Theta=0.5 is Crank-Nicolson
// (though CrankNicolson evaluates L, b once at the midpoint for efficiency
// rather than twice at t and t+dt; see CrankNicolson).
type Theta struct {
	Theta float64
}

func (s Theta) Step(t, dt float64, g grid.Grid, v *pdetensor.Tensor, ev stepper.Evaluators, bcs []boundary.Condition) (float64, grid.Grid, *pdetensor.Tensor, error) {
	tNext := t + dt
	bs := batchShape(v)
	theta := s.Theta

	opT, err := buildOperator(t, g, bs, ev, bcs[0])
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}
	opN, err := buildOperator(tNext, g, bs, ev, bcs[0])
	if err != nil {
		return 0, grid.Grid{}, nil, err
	}

	interior := interiorOf(v)
	lx := identityPlus(opT, theta*dt, interior)
	rhs := pdetensor.New(interior.Shape...)
	pdetensor.AXPY(rhs, theta*dt, opT.B, lx)
	pdetensor.AXPY(rhs, (1-theta)*dt, opN.B, rhs)

	out, err := tridiag.BatchSolve(implicitDiagonals(opN, (1-theta)*dt), rhs)
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
