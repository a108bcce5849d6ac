// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schemend implements layer L3': Douglas ADI, the N-D counterpart
// of scheme1d, built from discnd's per-axis operators and mixed-derivative
// stencil plus the same tridiag.BatchMul/BatchSolve primitives scheme1d
// uses, applied one axis at a time via axis rotation (spec.md §4.6).
package schemend

import (
	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/coeff"
	"github.com/cpmech/gofd/discnd"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdetensor"
	"github.com/cpmech/gofd/stepper"
	"github.com/cpmech/gofd/tridiag"
)

// axisOps bundles the per-axis folded operators built at one instant in
// time, plus the full (unsliced) second-order coefficient matrix needed
// separately by discnd.Mixed.
type axisOps struct {
	ops []discnd.Operator
	d2  [][]*pdetensor.Tensor
}

// buildAxisOps evaluates the coefficient callables at time t and builds,
// folds every axis's operator over the all-axes interior domain.
func buildAxisOps(t float64, g grid.Grid, bs []int, ev stepper.Evaluators, bcs []boundary.Condition) (axisOps, error) {
	dim := g.Dim()
	if len(bcs) != dim {
		return axisOps{}, pdeerr.New(pdeerr.ShapeMismatch, "schemend requires one boundary condition per axis, got %d for dim=%d", len(bcs), dim)
	}
	d2, err := coeff.Second(ev.Second, t, g, bs)
	if err != nil {
		return axisOps{}, err
	}
	d1, err := coeff.First(ev.First, t, g, bs)
	if err != nil {
		return axisOps{}, err
	}
	d0, err := coeff.Zeroth(ev.Zeroth, t, g, bs)
	if err != nil {
		return axisOps{}, err
	}
	interiorShape := g.InteriorShape()

	ops := make([]discnd.Operator, dim)
	for axis := 0; axis < dim; axis++ {
		dAxis := discnd.InteriorOf(d2[axis][axis], bs, g)
		muAxis := discnd.InteriorOf(d1[axis], bs, g)
		rAxis := discnd.InteriorOf(d0, bs, g)
		rShare := pdetensor.New(rAxis.Shape...)
		pdetensor.Scale(rShare, 1/float64(dim), rAxis)

		op, err := discnd.Build(g.Axes[axis], axis, bs, interiorShape, dAxis, muAxis, rShare)
		if err != nil {
			return axisOps{}, err
		}
		if err := discnd.Fold(op, bcs[axis], g, bs, t); err != nil {
			return axisOps{}, err
		}
		ops[axis] = op
	}
	return axisOps{ops: ops, d2: d2}, nil
}

// rotatedDiagonals views op's three bands with axis bi moved last, the
// layout tridiag.BatchMul/BatchSolve require.
func rotatedDiagonals(op discnd.Operator, bi int) tridiag.Diagonals {
	return tridiag.Diagonals{
		Sub:   op.Sub.Rotate(bi),
		Main:  op.Main.Rotate(bi),
		Super: op.Super.Rotate(bi),
	}
}

// implicitRotated builds (I - a*L^(axis)) already rotated to axis-last
// layout, for a batched solve.
func implicitRotated(op discnd.Operator, a float64, bi int) tridiag.Diagonals {
	d := rotatedDiagonals(op, bi)
	sub := pdetensor.New(d.Sub.Shape...)
	main := pdetensor.New(d.Main.Shape...)
	super := pdetensor.New(d.Super.Shape...)
	pdetensor.Scale(sub, -a, d.Sub)
	pdetensor.Scale(super, -a, d.Super)
	pdetensor.Walk(d.Main.Shape, func(idx []int) {
		main.Set(1-a*d.Main.At(idx...), idx...)
	})
	return tridiag.Diagonals{Sub: sub, Main: main, Super: super}
}

// unrotate materializes a tensor that was produced in axis-bi-last layout
// (by tridiag.BatchMul/BatchSolve over a Rotate(bi) view) back into a fresh
// contiguous tensor of canonShape, the layout every other axis's Rotate
// expects next. This is the explicit "transpose back" spec.md §4.6
// describes for each Douglas ADI substep.
func unrotate(rotated *pdetensor.Tensor, bi int, canonShape []int) *pdetensor.Tensor {
	out := pdetensor.New(canonShape...)
	outR := out.Rotate(bi)
	pdetensor.Walk(rotated.Shape, func(idx []int) {
		outR.Set(rotated.At(idx...), idx...)
	})
	return out
}
