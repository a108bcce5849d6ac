// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disc1d implements layer L2: building the three interior
// diagonals of the spatial operator L and the affine term b on a
// nonuniform 1-D grid, per the second-order stencils of spec.md §4.3, then
// folding the Robin boundary closure of package boundary into them.
package disc1d

import (
	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdetensor"
)

// Operator holds the unfolded interior tridiagonal of L plus the affine
// term B, each shaped batchShape + [n-2].
type Operator struct {
	Sub, Main, Super *pdetensor.Tensor
	B                *pdetensor.Tensor
}

// Build constructs the unfolded interior operator for a single axis,
// given the second-order coefficient D, first-order coefficient Mu and
// zeroth-order coefficient R already broadcast to batchShape + [n] (the
// full grid including both boundary points).
func Build(axis grid.Axis, batchShape []int, D, Mu, R *pdetensor.Tensor) (Operator, error) {
	n := axis.Len()
	if n < 3 {
		return Operator{}, pdeerr.New(pdeerr.UndersizedGrid, "axis has %d points, need >= 3", n)
	}
	if !axis.Monotone() {
		return Operator{}, pdeerr.New(pdeerr.NonMonotoneGrid, "axis is not strictly monotone")
	}
	m := n - 2
	shape := pdetensor.Concat(batchShape, []int{m})
	sub := pdetensor.New(shape...)
	main := pdetensor.New(shape...)
	super := pdetensor.New(shape...)
	b := pdetensor.New(shape...)

	pdetensor.Walk(batchShape, func(bidx []int) {
		for i := 0; i < m; i++ {
			gi := i + 1
			dPlus := axis.X[gi+1] - axis.X[gi]
			dMinus := axis.X[gi] - axis.X[gi-1]
			sum := dPlus + dMinus

			aSubSecond := 2 * dPlus / (dPlus * dMinus * sum)
			aMainSecond := -2 * sum / (dPlus * dMinus * sum)
			aSuperSecond := 2 * dMinus / (dPlus * dMinus * sum)

			aSubFirst := -dPlus / (sum * dMinus)
			aSuperFirst := dMinus / (sum * dPlus)
			aMainFirst := -aSuperFirst - aSubFirst

			full := append(append([]int(nil), bidx...), gi)
			d := D.At(full...)
			mu := Mu.At(full...)
			r := R.At(full...)

			idx := append(append([]int(nil), bidx...), i)
			sub.Set(d*aSubSecond+mu*aSubFirst, idx...)
			main.Set(d*aMainSecond+mu*aMainFirst+r, idx...)
			super.Set(d*aSuperSecond+mu*aSuperFirst, idx...)
			b.Set(0, idx...)
		}
	})
	return Operator{Sub: sub, Main: main, Super: super, B: b}, nil
}

// Fold evaluates the axis's boundary condition at time t and folds the
// resulting ghost-point closure into op in place, per boundary.FoldLast.
func Fold(op Operator, cond boundary.Condition, axis grid.Axis, t float64, g grid.Grid, batchShape []int) error {
	lower, upper, err := boundary.Evaluate(cond, axis, t, g, batchShape)
	if err != nil {
		return err
	}
	boundary.FoldLast(op.Sub, op.Main, op.Super, op.B, lower, upper)
	return nil
}
