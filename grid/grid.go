// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid holds the coordinate-grid data model: an ordered list of
// 1-D axes, possibly nonuniform in 1-D, each axis uniform in N-D, plus the
// generators (uniform, log-spaced) that spec.md treats as an out-of-core
// collaborator but which a runnable module still needs to supply.
package grid

import (
	"math"

	"github.com/cpmech/gofd/pdeerr"
)

// Axis is a single coordinate array along one dimension of the grid.
type Axis struct {
	X []float64
}

// Len returns the number of points on the axis.
func (a Axis) Len() int { return len(a.X) }

// Uniform reports whether the axis spacing is constant to within rtol
// relative tolerance, mirroring the "uniformly spaced up to rounding
// tolerance" contract of spec.md §6.
func (a Axis) Uniform(rtol float64) bool {
	if len(a.X) < 2 {
		return true
	}
	h0 := a.X[1] - a.X[0]
	for i := 1; i < len(a.X)-1; i++ {
		h := a.X[i+1] - a.X[i]
		if math.Abs(h-h0) > rtol*math.Abs(h0) {
			return false
		}
	}
	return true
}

// Spacing returns the uniform spacing of the axis; callers must have
// validated Uniform first.
func (a Axis) Spacing() float64 {
	if len(a.X) < 2 {
		return 0
	}
	return a.X[1] - a.X[0]
}

// Monotone reports whether the axis is strictly increasing or strictly
// decreasing.
func (a Axis) Monotone() bool {
	if len(a.X) < 2 {
		return true
	}
	increasing := a.X[1] > a.X[0]
	for i := 1; i < len(a.X)-1; i++ {
		if increasing && a.X[i+1] <= a.X[i] {
			return false
		}
		if !increasing && a.X[i+1] >= a.X[i] {
			return false
		}
	}
	return true
}

// Grid is an ordered list of coordinate axes, one per spatial dimension.
type Grid struct {
	Axes []Axis
}

// Dim returns the number of spatial dimensions.
func (g Grid) Dim() int { return len(g.Axes) }

// Shape returns (n_1, ..., n_dim).
func (g Grid) Shape() []int {
	shape := make([]int, len(g.Axes))
	for i, a := range g.Axes {
		shape[i] = a.Len()
	}
	return shape
}

// InteriorShape returns the shape of the interior (each axis minus its two
// endpoints), the representation used transiently inside a step per the
// §3 invariant.
func (g Grid) InteriorShape() []int {
	shape := make([]int, len(g.Axes))
	for i, a := range g.Axes {
		shape[i] = a.Len() - 2
	}
	return shape
}

// Validate checks the invariants every discretizer relies on: each axis
// has at least 3 points and is strictly monotone; in N-D (dim>1) every
// axis must also be uniformly spaced.
func (g Grid) Validate() error {
	dim := g.Dim()
	for i, a := range g.Axes {
		if a.Len() < 3 {
			return pdeerr.New(pdeerr.UndersizedGrid, "axis %d has %d points, need >= 3", i, a.Len())
		}
		if !a.Monotone() {
			return pdeerr.New(pdeerr.NonMonotoneGrid, "axis %d is not strictly monotone", i)
		}
		if dim > 1 && !a.Uniform(1e-9) {
			return pdeerr.New(pdeerr.NonUniformMultidim, "axis %d is not uniformly spaced", i)
		}
	}
	return nil
}

// Uniform builds an axis of n points evenly spaced in [lo, hi].
func Uniform(lo, hi float64, n int) Axis {
	x := make([]float64, n)
	h := (hi - lo) / float64(n-1)
	for i := range x {
		x[i] = lo + float64(i)*h
	}
	x[n-1] = hi
	return Axis{X: x}
}

// LogSpaced builds an axis of n points geometrically graded between lo and
// hi (both must be > 0), denser near lo.
func LogSpaced(lo, hi float64, n int) Axis {
	llo, lhi := math.Log(lo), math.Log(hi)
	x := make([]float64, n)
	h := (lhi - llo) / float64(n-1)
	for i := range x {
		x[i] = math.Exp(llo + float64(i)*h)
	}
	x[n-1] = hi
	return Axis{X: x}
}

// Concentrated builds an axis of n points in [lo, hi] graded to place
// extra resolution near 'center' (e.g. a strike price), using a sinh
// stretching transform with sharpness controlled by alpha > 0.
func Concentrated(lo, hi, center float64, n int, alpha float64) Axis {
	x := make([]float64, n)
	uLo := math.Asinh((lo - center) / alpha)
	uHi := math.Asinh((hi - center) / alpha)
	for i := 0; i < n; i++ {
		u := uLo + (uHi-uLo)*float64(i)/float64(n-1)
		x[i] = center + alpha*math.Sinh(u)
	}
	x[0], x[n-1] = lo, hi
	return Axis{X: x}
}
