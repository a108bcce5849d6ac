// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package discnd implements layer L2': the N-D counterpart of disc1d. For
// each axis j it builds the three axis-aligned diagonals of L^(j) (second-
// and first-order coefficients along j plus a 1/dim share of the zeroth-
// order term) directly over the domain's all-axes interior, and folds that
// axis's own boundary condition into them, per spec.md §4.4. A separate
// Mixed operator realizes the cross-derivative terms as an explicit-only
// 4-point stencil contribution; it never enters an implicit solve.
package discnd

import (
	"github.com/cpmech/gofd/boundary"
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdetensor"
)

// Operator holds one axis's diagonals and affine term, all shaped
// batchShape + grid.InteriorShape(): every axis, including Axis itself, is
// already restricted to its interior extent by the caller (see
// InteriorOf), so Build need not re-derive an index offset the way
// disc1d.Build does for the single-axis case.
type Operator struct {
	Axis             int
	Sub, Main, Super *pdetensor.Tensor
	B                *pdetensor.Tensor
}

// InteriorOf slices every grid axis of v (a tensor shaped batchShape +
// gridShape) down to its interior range [1, n-1), leaving batch dimensions
// untouched. The result is a view sharing v's backing array.
func InteriorOf(v *pdetensor.Tensor, batchShape []int, g grid.Grid) *pdetensor.Tensor {
	out := v
	for axis := 0; axis < g.Dim(); axis++ {
		bi := len(batchShape) + axis
		n := out.Shape[bi]
		out = out.Slice(bi, 1, n-1)
	}
	return out
}

// Build constructs the unfolded axis-aligned operator L^(axis) over the
// all-axes interior domain. D, Mu and RShare must already be restricted to
// that same domain (every axis, via InteriorOf) -- including axis itself,
// so that idx in the output aligns 1:1 with idx in every input tensor.
func Build(axis grid.Axis, axisIndex int, batchShape, interiorShape []int, D, Mu, RShare *pdetensor.Tensor) (Operator, error) {
	n := axis.Len()
	if n < 3 {
		return Operator{}, pdeerr.New(pdeerr.UndersizedGrid, "axis %d has %d points, need >= 3", axisIndex, n)
	}
	if !axis.Monotone() {
		return Operator{}, pdeerr.New(pdeerr.NonMonotoneGrid, "axis %d is not strictly monotone", axisIndex)
	}
	if !axis.Uniform(1e-9) {
		return Operator{}, pdeerr.New(pdeerr.NonUniformMultidim, "axis %d is not uniformly spaced", axisIndex)
	}
	h := axis.Spacing()

	shape := pdetensor.Concat(batchShape, interiorShape)
	sub := pdetensor.New(shape...)
	main := pdetensor.New(shape...)
	super := pdetensor.New(shape...)
	b := pdetensor.New(shape...)

	// Uniform spacing: Delta+ = Delta- = h, so the nonuniform stencil of
	// spec.md §4.3 collapses to the standard second-order constants.
	aSubSecond := 1 / (h * h)
	aMainSecond := -2 / (h * h)
	aSuperSecond := 1 / (h * h)
	aSubFirst := -1 / (2 * h)
	aSuperFirst := 1 / (2 * h)

	pdetensor.Walk(shape, func(idx []int) {
		d := D.At(idx...)
		mu := Mu.At(idx...)
		r := RShare.At(idx...)

		sub.Set(d*aSubSecond+mu*aSubFirst, idx...)
		main.Set(d*aMainSecond+r, idx...)
		super.Set(d*aSuperSecond+mu*aSuperFirst, idx...)
		b.Set(0, idx...)
	})
	return Operator{Axis: axisIndex, Sub: sub, Main: main, Super: super, B: b}, nil
}

// Fold evaluates axis's boundary condition at time t and folds the
// resulting closure into op in place, via an axis-rotated view so the
// shared boundary.FoldLast (which always folds the last dimension) applies
// unchanged to an N-D operator.
//
// The transverse shape passed to cond is the other axes' interior extent
// (n-2 each), not their full extent -- see FaceFn's doc comment. Every
// condition this package ships broadcasts a scalar or batch-shape-only
// value, which is unaffected by that distinction.
func Fold(op Operator, cond boundary.Condition, g grid.Grid, batchShape []int, t float64) error {
	bi := len(batchShape) + op.Axis
	subR := op.Sub.Rotate(bi)
	mainR := op.Main.Rotate(bi)
	superR := op.Super.Rotate(bi)
	bR := op.B.Rotate(bi)

	transverse := subR.Shape[:len(subR.Shape)-1]
	lower, upper, err := boundary.Evaluate(cond, g.Axes[op.Axis], t, g, transverse)
	if err != nil {
		return err
	}
	boundary.FoldLast(subR, mainR, superR, bR, lower, upper)
	return nil
}

// ReconstructAll rebuilds a full-shape (batchShape + gridShape) value grid
// from a value tensor defined on the all-axes interior, restoring every
// axis's boundary faces in turn. Each step expands one axis from its
// interior extent to its full extent, using the partially-expanded result
// (some axes already full width, the rest still at interior width) as the
// input to the next axis -- outer dimensions always match between the two
// sides of a single axis's Reconstruct call, regardless of where other
// axes currently stand in that expansion.
//
// Consequently the transverse shape passed to each axis's condition is
// whatever mix of interior and already-expanded extents the other axes
// happen to carry at that point in the loop, not their full extent -- see
// FaceFn's doc comment.
func ReconstructAll(g grid.Grid, batchShape []int, interior *pdetensor.Tensor, bcs []boundary.Condition, t float64) (*pdetensor.Tensor, error) {
	current := interior
	for axis := 0; axis < g.Dim(); axis++ {
		bi := len(batchShape) + axis
		transverse := append(append([]int(nil), current.Shape[:bi]...), current.Shape[bi+1:]...)
		lower, upper, err := boundary.Evaluate(bcs[axis], g.Axes[axis], t, g, transverse)
		if err != nil {
			return nil, err
		}
		nextShape := append([]int(nil), current.Shape...)
		nextShape[bi] = g.Axes[axis].Len()
		next := pdetensor.New(nextShape...)
		boundary.Reconstruct(next.Rotate(bi), current.Rotate(bi), lower, upper)
		current = next
	}
	return current, nil
}

// Mixed evaluates the explicit-only cross-derivative operator M of
// spec.md §4.4 over every interior grid point:
//
//	d2V/dxp dxq ~= (V++ - V+- - V-+ + V--) / (4 dxp dxq)
//
// D is the dim x dim second-order coefficient matrix over the full grid
// (only entries with p<q are read; coeff.Second fills only the upper
// triangle, and the symmetric D[q][p] contribution is added by doubling
// each term). v must carry valid values on the full grid, including its
// boundary faces: the stencil reaches one point beyond every interior
// index in both directions, which always stays in range because it only
// runs over interior indices.
func Mixed(D [][]*pdetensor.Tensor, g grid.Grid, batchShape []int, v *pdetensor.Tensor) *pdetensor.Tensor {
	dim := g.Dim()
	bi := len(batchShape)
	spacing := make([]float64, dim)
	for i, a := range g.Axes {
		spacing[i] = a.Spacing()
	}

	full := pdetensor.Concat(batchShape, g.Shape())
	out := pdetensor.New(full...)
	interiorShape := pdetensor.Concat(batchShape, g.InteriorShape())

	pdetensor.Walk(interiorShape, func(idx []int) {
		center := append([]int(nil), idx...)
		for k := 0; k < dim; k++ {
			center[bi+k]++
		}
		var acc float64
		for p := 0; p < dim; p++ {
			for q := p + 1; q < dim; q++ {
				d := D[p][q]
				if d == nil {
					continue
				}
				coef := d.At(center...)
				if coef == 0 {
					continue
				}
				vpp := v.At(shift(center, bi, p, 1, q, 1)...)
				vpm := v.At(shift(center, bi, p, 1, q, -1)...)
				vmp := v.At(shift(center, bi, p, -1, q, 1)...)
				vmm := v.At(shift(center, bi, p, -1, q, -1)...)
				term := (vpp - vpm - vmp + vmm) / (4 * spacing[p] * spacing[q])
				// D stores only the upper triangle; the symmetric lower
				// entry D[q][p] contributes an identical term.
				acc += 2 * coef * term
			}
		}
		out.Set(acc, center...)
	})
	return out
}

func shift(idx []int, bi, axis1, off1, axis2, off2 int) []int {
	out := append([]int(nil), idx...)
	out[bi+axis1] += off1
	out[bi+axis2] += off2
	return out
}
