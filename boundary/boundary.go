// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package boundary implements layer L1: turning a Robin boundary spec
// (alpha, beta, gamma) per face into ghost-point closure coefficients
// (xi1, xi2, eta) via the second-order one-sided formula of spec.md §4.2,
// and folding/reconstructing those ghost points against an interior
// tridiagonal operator.
package boundary

import (
	"github.com/cpmech/gofd/grid"
	"github.com/cpmech/gofd/pdeerr"
	"github.com/cpmech/gofd/pdetensor"
)

// FaceFn returns the Robin triple (alpha, beta, gamma) for one face at
// time t, broadcastable to batch_shape + grid_shape_without_the_normal_axis.
//
// That target shape is exact for disc1d, which has no other spatial axis.
// discnd instead evaluates a FaceFn against whatever shape the other axes
// currently carry at the call site -- their interior extent in Fold, a mix
// of interior and already-reconstructed extents in ReconstructAll -- so an
// N-D condition that genuinely varies across the transverse axes must
// match that narrower, call-order-dependent shape; a scalar or
// batch-shape-only condition broadcasts correctly either way.
type FaceFn func(t float64, g grid.Grid) (alpha, beta, gamma *pdetensor.Tensor)

// Condition is the pair of face functions (lower, upper) for one axis.
type Condition struct {
	Lower, Upper FaceFn
}

// Dirichlet builds a FaceFn fixing V = f on the face: (alpha,beta,gamma) = (1,0,f).
func Dirichlet(f func(t float64, g grid.Grid) *pdetensor.Tensor) FaceFn {
	return func(t float64, g grid.Grid) (alpha, beta, gamma *pdetensor.Tensor) {
		return pdetensor.Scalar(1), pdetensor.Scalar(0), f(t, g)
	}
}

// Neumann builds a FaceFn fixing the outward-normal derivative to f: (alpha,beta,gamma) = (0,1,f).
func Neumann(f func(t float64, g grid.Grid) *pdetensor.Tensor) FaceFn {
	return func(t float64, g grid.Grid) (alpha, beta, gamma *pdetensor.Tensor) {
		return pdetensor.Scalar(0), pdetensor.Scalar(1), f(t, g)
	}
}

// Closure holds the ghost-point closure coefficients of spec.md §4.2:
// V0 = Xi1*V1 + Xi2*V2 + Eta. All three share one shape (the face's
// transverse shape: batch_shape + grid_shape_without_the_normal_axis).
type Closure struct {
	Xi1, Xi2, Eta *pdetensor.Tensor
}

// Compute evaluates the closure formula pointwise over alpha, beta, gamma
// (already broadcast to a common shape by the caller), given the two
// interior spacings d0 (face to first interior neighbor) and d1 (first to
// second interior neighbor). Dirichlet (beta=0) collapses to xi1=xi2=0,
// eta=gamma. Returns MalformedBoundary if alpha=beta=0 anywhere, or if
// kappa=0 anywhere.
func Compute(alpha, beta, gamma *pdetensor.Tensor, d0, d1 float64) (Closure, error) {
	shape := alpha.Shape
	xi1 := pdetensor.New(shape...)
	xi2 := pdetensor.New(shape...)
	eta := pdetensor.New(shape...)
	var fail error
	pdetensor.Walk(shape, func(idx []int) {
		if fail != nil {
			return
		}
		a := alpha.At(idx...)
		b := beta.At(idx...)
		g := gamma.At(idx...)
		if a == 0 && b == 0 {
			fail = pdeerr.New(pdeerr.MalformedBoundary, "alpha and beta are both zero at boundary point %v", idx)
			return
		}
		if b == 0 {
			xi1.Set(0, idx...)
			xi2.Set(0, idx...)
			eta.Set(g, idx...)
			return
		}
		kappa := a*d0*d1*(d0+d1) + b*d1*(2*d0+d1)
		if kappa == 0 {
			fail = pdeerr.New(pdeerr.MalformedBoundary, "kappa is zero at boundary point %v (ill-conditioned closure)", idx)
			return
		}
		xi1.Set(b*(d0+d1)*(d0+d1)/kappa, idx...)
		xi2.Set(-b*d0*d0/kappa, idx...)
		eta.Set(g*d0*d1*(d0+d1)/kappa, idx...)
	})
	if fail != nil {
		return Closure{}, fail
	}
	return Closure{Xi1: xi1, Xi2: xi2, Eta: eta}, nil
}

// Evaluate computes the lower and upper closures for a Condition at time t,
// using the axis's own grid for the two interior spacings and broadcasting
// alpha/beta/gamma to transverseShape (the batch shape in 1-D; see FaceFn
// for the N-D case).
func Evaluate(cond Condition, axis grid.Axis, t float64, g grid.Grid, transverseShape []int) (lower, upper Closure, err error) {
	n := axis.Len()
	d0Lo, d1Lo := axis.X[1]-axis.X[0], axis.X[2]-axis.X[1]
	d0Hi, d1Hi := axis.X[n-1]-axis.X[n-2], axis.X[n-2]-axis.X[n-3]

	al, bl, gl := cond.Lower(t, g)
	alB, err := broadcastOrZero(al, transverseShape)
	if err != nil {
		return
	}
	blB, err := broadcastOrZero(bl, transverseShape)
	if err != nil {
		return
	}
	glB, err := broadcastOrZero(gl, transverseShape)
	if err != nil {
		return
	}
	lower, err = Compute(alB, blB, glB, d0Lo, d1Lo)
	if err != nil {
		return
	}

	au, bu, gu := cond.Upper(t, g)
	auB, err := broadcastOrZero(au, transverseShape)
	if err != nil {
		return
	}
	buB, err := broadcastOrZero(bu, transverseShape)
	if err != nil {
		return
	}
	guB, err := broadcastOrZero(gu, transverseShape)
	if err != nil {
		return
	}
	upper, err = Compute(auB, buB, guB, d0Hi, d1Hi)
	return
}

func broadcastOrZero(t *pdetensor.Tensor, target []int) (*pdetensor.Tensor, error) {
	if t == nil {
		return pdetensor.New(target...), nil
	}
	view, ok := t.Broadcast(target)
	if !ok {
		return nil, pdeerr.New(pdeerr.ShapeMismatch, "boundary tensor of shape %v is not broadcastable to %v", t.Shape, target)
	}
	return view.Contiguous(), nil
}

// FoldLast folds the lower/upper closures of one axis into the diagonals
// of an interior tridiagonal operator whose last dimension is that axis's
// interior extent (m = n-2), per the folding equations of spec.md §4.2:
//
//	Main[0]   += Xi1lo * Sub[0];    Super[0]   += Xi2lo * Sub[0];    B[0]   = Sub[0]*Etalo
//	Main[m-1] += Xi1hi * Super[m-1]; Sub[m-1]  += Xi2hi * Super[m-1]; B[m-1] = Super[m-1]*Etahi
//
// Sub[0] and Super[m-1] are zeroed afterwards: the interior-only system no
// longer couples to anything outside its own range. sub/main/super/b all
// share the shape outer... + [m]; lower/upper closures share shape outer....
func FoldLast(sub, main, super, b *pdetensor.Tensor, lower, upper Closure) {
	n := len(sub.Shape)
	outer := sub.Shape[:n-1]
	m := sub.Shape[n-1]
	pdetensor.Walk(outer, func(idx []int) {
		first := appendIdx(idx, 0)
		l0 := sub.At(first...)
		main.Set(main.At(first...)+lower.Xi1.At(idx...)*l0, first...)
		super.Set(super.At(first...)+lower.Xi2.At(idx...)*l0, first...)
		b.Set(l0*lower.Eta.At(idx...), first...)
		sub.Set(0, first...)

		last := appendIdx(idx, m-1)
		lN := super.At(last...)
		main.Set(main.At(last...)+upper.Xi1.At(idx...)*lN, last...)
		sub.Set(sub.At(last...)+upper.Xi2.At(idx...)*lN, last...)
		b.Set(lN*upper.Eta.At(idx...), last...)
		super.Set(0, last...)
	})
}

// Reconstruct rebuilds the full-shape value tensor's boundary faces along
// the last axis of a rotated view, from the newly computed interior values
// V1 (interior[0]) and V2 (interior[1]), and mirror image at the upper
// end, using the same closure coefficients computed for folding.
//
// full has shape outer... + [n] (n = m+2); interior has shape outer... + [m].
func Reconstruct(full, interior *pdetensor.Tensor, lower, upper Closure) {
	n := len(full.Shape)
	outer := full.Shape[:n-1]
	nAxis := full.Shape[n-1]
	m := interior.Shape[n-1]
	pdetensor.Walk(outer, func(idx []int) {
		v1 := interior.At(appendIdx(idx, 0)...)
		v2 := interior.At(appendIdx(idx, 1)...)
		v0 := lower.Xi1.At(idx...)*v1 + lower.Xi2.At(idx...)*v2 + lower.Eta.At(idx...)
		full.Set(v0, appendIdx(idx, 0)...)

		vNm1 := interior.At(appendIdx(idx, m-1)...)
		vNm2 := interior.At(appendIdx(idx, m-2)...)
		vN := upper.Xi1.At(idx...)*vNm1 + upper.Xi2.At(idx...)*vNm2 + upper.Eta.At(idx...)
		full.Set(vN, appendIdx(idx, nAxis-1)...)

		for i := 0; i < m; i++ {
			full.Set(interior.At(appendIdx(idx, i)...), appendIdx(idx, i+1)...)
		}
	})
}

func appendIdx(idx []int, last int) []int {
	out := make([]int, len(idx)+1)
	copy(out, idx)
	out[len(idx)] = last
	return out
}
