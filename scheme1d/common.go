// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scheme1d implements layer L3: the 1-D time-marching schemes of
// spec.md §4.5, each expressed as a short sequence of
// tridiagonal_matmul/tridiagonal_solve calls over the interior operator
// built by disc1d and folded with boundary.
package scheme1d

import (
	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/coeff"
	"github.com/cpmech/gofd/disc1d"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdetensor"
	"github.com/cpmech/gofd/stepper"
	"github.com/cpmech/gofd/tridiag"
)

// batchShape returns the batch dimensions of a 1-D value grid: everything
// before the single grid axis.
func batchShape(v *pdetensor.Tensor) []int {
	n := len(v.Shape)
	return v.Shape[:n-1]
}

func axisOf(g grid.Grid) (grid.Axis, error) {
	if g.Dim() != 1 {
		return grid.Axis{}, pdeerr.New(pdeerr.ShapeMismatch, "scheme1d requires a 1-D grid, got dim=%d", g.Dim())
	}
	return g.Axes[0], nil
}

// buildOperator evaluates the coefficient callables at time t and builds
// the folded interior operator for the single axis of g.
func buildOperator(t float64, g grid.Grid, bs []int, ev stepper.Evaluators, bc boundary.Condition) (disc1d.Operator, error) {
	axis, err := axisOf(g)
	if err != nil {
		return disc1d.Operator{}, err
	}
	d2, err := coeff.Second(ev.Second, t, g, bs)
	if err != nil {
		return disc1d.Operator{}, err
	}
	d1, err := coeff.First(ev.First, t, g, bs)
	if err != nil {
		return disc1d.Operator{}, err
	}
	d0, err := coeff.Zeroth(ev.Zeroth, t, g, bs)
	if err != nil {
		return disc1d.Operator{}, err
	}
	op, err := disc1d.Build(axis, bs, d2[0][0], d1[0], d0)
	if err != nil {
		return disc1d.Operator{}, err
	}
	if err := disc1d.Fold(op, bc, axis, t, g, bs); err != nil {
		return disc1d.Operator{}, err
	}
	return op, nil
}

// interiorOf strips the two boundary points of a full 1-D value grid.
func interiorOf(v *pdetensor.Tensor) *pdetensor.Tensor {
	axis := len(v.Shape) - 1
	n := v.Shape[axis]
	return v.Slice(axis, 1, n-1)
}

// reconstruct rebuilds a full-shape value grid from an interior result and
// the boundary closures used to fold op.
func reconstruct(g grid.Grid, bs []int, interior *pdetensor.Tensor, lower, upper boundary.Closure) *pdetensor.Tensor {
	full := pdetensor.New(pdetensor.Concat(bs, g.Shape())...)
	boundary.Reconstruct(full, interior, lower, upper)
	return full
}

func closures(t float64, g grid.Grid, bs []int, bc boundary.Condition) (lower, upper boundary.Closure, err error) {
	axis, err := axisOf(g)
	if err != nil {
		return
	}
	return boundary.Evaluate(bc, axis, t, g, bs)
}

// diagonals adapts a disc1d.Operator into the tridiag.Diagonals shape the
// batched primitives expect.
func diagonals(op disc1d.Operator) tridiag.Diagonals {
	return tridiag.Diagonals{Sub: op.Sub, Main: op.Main, Super: op.Super}
}

// identityPlus builds (I + a*L) applied to x, i.e. x + a * (L x), using the
// batched matmul primitive.
func identityPlus(op disc1d.Operator, a float64, x *pdetensor.Tensor) *pdetensor.Tensor {
	lx := tridiag.BatchMul(diagonals(op), x)
	out := pdetensor.New(x.Shape...)
	pdetensor.AXPY(out, a, lx, x)
	return out
}

// implicitDiagonals builds (I - a*L) as a Diagonals, i.e. negate and scale
// L's three bands and add 1 on the main diagonal.
func implicitDiagonals(op disc1d.Operator, a float64) tridiag.Diagonals {
	sub := pdetensor.New(op.Sub.Shape...)
	main := pdetensor.New(op.Main.Shape...)
	super := pdetensor.New(op.Super.Shape...)
	pdetensor.Scale(sub, -a, op.Sub)
	pdetensor.Scale(super, -a, op.Super)
	pdetensor.Walk(op.Main.Shape, func(idx []int) {
		main.Set(1-a*op.Main.At(idx...), idx...)
	})
	return tridiag.Diagonals{Sub: sub, Main: main, Super: super}
}
