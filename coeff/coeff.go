// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coeff implements layer L0: invoking the user-supplied PDE
// coefficient callables at a given time and grid, normalizing their return
// shapes, and treating every granularity of "absent" (a whole missing
// callable, a missing entry of the second-order matrix, or an explicit
// zero sentinel) equivalently, the way the teacher's diffusion element
// treats its optional source term (o.Sfun != nil) rather than branching
// per downstream consumer.
package coeff

import (
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdetensor"
)

// SecondOrderFn returns the dim x dim matrix of second-order coefficients
// D_ij(t, grid). Only entries with i<=j are read; a nil entry means 0.
type SecondOrderFn func(t float64, g grid.Grid) [][]*pdetensor.Tensor

// FirstOrderFn returns the length-dim vector of first-order coefficients
// mu_i(t, grid). A nil entry means 0.
type FirstOrderFn func(t float64, g grid.Grid) []*pdetensor.Tensor

// ZerothOrderFn returns the zeroth-order coefficient r(t, grid), or nil
// for "absent" (treated as 0).
type ZerothOrderFn func(t float64, g grid.Grid) *pdetensor.Tensor

// IsAbsent reports whether a single coefficient entry is the "no term"
// sentinel: a nil tensor.
func IsAbsent(t *pdetensor.Tensor) bool { return t == nil }

// Broadcast resolves a possibly-absent coefficient entry to a tensor of
// exactly shape target, returning an all-zero tensor for an absent entry.
func Broadcast(t *pdetensor.Tensor, target []int) (*pdetensor.Tensor, error) {
	if IsAbsent(t) {
		return pdetensor.New(target...), nil
	}
	view, ok := t.Broadcast(target)
	if !ok {
		return nil, pdeerr.New(pdeerr.ShapeMismatch, "coefficient of shape %v is not broadcastable to %v", t.Shape, target)
	}
	return view.Contiguous(), nil
}

// Second evaluates the second-order coefficient matrix at (t, g), reading
// only the upper triangle, and returns every entry broadcast to
// batchShape+gridShape (zero where absent or where the whole callable is
// nil).
func Second(fn SecondOrderFn, t float64, g grid.Grid, batchShape []int) ([][]*pdetensor.Tensor, error) {
	dim := g.Dim()
	target := pdetensor.Concat(batchShape, g.Shape())
	out := make([][]*pdetensor.Tensor, dim)
	for i := range out {
		out[i] = make([]*pdetensor.Tensor, dim)
	}
	if fn == nil {
		for i := 0; i < dim; i++ {
			for j := i; j < dim; j++ {
				out[i][j] = pdetensor.New(target...)
			}
		}
		return out, nil
	}
	raw := fn(t, g)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			var entry *pdetensor.Tensor
			if i < len(raw) && j < len(raw[i]) {
				entry = raw[i][j]
			}
			bc, err := Broadcast(entry, target)
			if err != nil {
				return nil, err
			}
			out[i][j] = bc
		}
	}
	return out, nil
}

// First evaluates the first-order coefficient vector at (t, g), broadcast
// to batchShape+gridShape, zero where absent.
func First(fn FirstOrderFn, t float64, g grid.Grid, batchShape []int) ([]*pdetensor.Tensor, error) {
	dim := g.Dim()
	target := pdetensor.Concat(batchShape, g.Shape())
	out := make([]*pdetensor.Tensor, dim)
	var raw []*pdetensor.Tensor
	if fn != nil {
		raw = fn(t, g)
	}
	for i := 0; i < dim; i++ {
		var entry *pdetensor.Tensor
		if i < len(raw) {
			entry = raw[i]
		}
		bc, err := Broadcast(entry, target)
		if err != nil {
			return nil, err
		}
		out[i] = bc
	}
	return out, nil
}

// Zeroth evaluates the zeroth-order coefficient r(t, grid), broadcast to
// batchShape+gridShape, zero where absent.
//
// Open Question (a) of spec.md §9: a tensor shaped exactly batchShape
// (omitting the grid dimensions) is rejected with pdeerr.ShapeMismatch,
// even when its extents happen to equal the grid's trailing extents, where
// Broadcast alone would read it as varying along the grid. Every other
// shape goes through Broadcast, which aligns on trailing dimensions. A true
// scalar broadcasts to any target (see payoff.BlackScholesCoefficients's
// pdetensor.Scalar(r)); a separate value per batch element is given as
// batchShape followed by a size-1 dimension for every grid axis.
func Zeroth(fn ZerothOrderFn, t float64, g grid.Grid, batchShape []int) (*pdetensor.Tensor, error) {
	target := pdetensor.Concat(batchShape, g.Shape())
	if fn == nil {
		return pdetensor.New(target...), nil
	}
	raw := fn(t, g)
	if raw != nil && len(batchShape) > 0 && len(raw.Shape) == len(batchShape) {
		batchOnly := true
		for i, s := range batchShape {
			if raw.Shape[i] != s {
				batchOnly = false
			}
		}
		if batchOnly {
			return nil, pdeerr.New(pdeerr.ShapeMismatch, "zeroth-order coefficient of shape %v has only the batch dimensions; grid dimensions are required", raw.Shape)
		}
	}
	return Broadcast(raw, target)
}
