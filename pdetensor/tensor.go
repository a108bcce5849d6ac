// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdetensor implements the dense value-grid tensor shared by every
// layer of the solver: a flat float64 backing array addressed through a
// shape and a row-major stride, so that transposes ("axis rotation", used
// by the N-D discretizer and Douglas ADI) are logical views rather than
// copies wherever the caller can tolerate a non-contiguous stride.
package pdetensor

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Tensor is a dense float64 array of arbitrary rank sharing a backing slice
// with any of its views. Shape and Stride always have equal length (the
// tensor's rank); a rank-0 tensor is a single scalar.
type Tensor struct {
	Data   []float64
	Shape  []int
	Stride []int
	Offset int
}

// New allocates a fresh, contiguous, zeroed tensor of the given shape.
func New(shape ...int) *Tensor {
	n := 1
	for _, s := range shape {
		n *= s
	}
	return &Tensor{
		Data:   make([]float64, n),
		Shape:  append([]int(nil), shape...),
		Stride: rowMajorStride(shape),
	}
}

// Scalar returns a rank-0 tensor holding a single value.
func Scalar(v float64) *Tensor {
	return &Tensor{Data: []float64{v}, Shape: nil, Stride: nil}
}

func rowMajorStride(shape []int) []int {
	n := len(shape)
	stride := make([]int, n)
	acc := 1
	for i := n - 1; i >= 0; i-- {
		stride[i] = acc
		acc *= shape[i]
	}
	return stride
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int { return len(t.Shape) }

// Size returns the total element count.
func (t *Tensor) Size() int {
	n := 1
	for _, s := range t.Shape {
		n *= s
	}
	return n
}

func (t *Tensor) index(idx []int) int {
	if len(idx) != len(t.Shape) {
		chk.Panic("pdetensor: index rank %d does not match tensor rank %d", len(idx), len(t.Shape))
	}
	off := t.Offset
	for i, ix := range idx {
		off += ix * t.Stride[i]
	}
	return off
}

// At returns the element at idx.
func (t *Tensor) At(idx ...int) float64 { return t.Data[t.index(idx)] }

// Set assigns the element at idx.
func (t *Tensor) Set(v float64, idx ...int) { t.Data[t.index(idx)] = v }

// Clone returns an independent, contiguous copy of t's logical contents.
func (t *Tensor) Clone() *Tensor {
	out := New(t.Shape...)
	copyInto(out, t)
	return out
}

// Fill sets every element of t to v.
func (t *Tensor) Fill(v float64) {
	walk(t.Shape, func(idx []int) {
		t.Set(v, idx...)
	})
}

// copyInto copies the logical contents of src (any strides) into dst
// (assumed contiguous and of the same shape).
func copyInto(dst, src *Tensor) {
	if !sameShape(dst.Shape, src.Shape) {
		chk.Panic("pdetensor: shape mismatch in copy: %v vs %v", dst.Shape, src.Shape)
	}
	walk(src.Shape, func(idx []int) {
		dst.Set(src.At(idx...), idx...)
	})
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// walk calls fn once per multi-index of a tensor with the given shape, in
// row-major order. Rank-0 shapes call fn once with an empty index.
func walk(shape []int, fn func(idx []int)) {
	idx := make([]int, len(shape))
	if len(shape) == 0 {
		fn(idx)
		return
	}
	for {
		fn(idx)
		k := len(shape) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < shape[k] {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return
		}
	}
}

// View returns a tensor sharing t's backing array, selecting idx[i] along
// axis i for every i with idx[i] >= 0, and keeping the full extent of axis
// i when idx[i] < 0. This is the primitive used to slice out a batch
// element or a fixed-axis hyperplane without copying.
func (t *Tensor) View(idx ...int) *Tensor {
	var shape, stride []int
	off := t.Offset
	for i, ix := range idx {
		if ix < 0 {
			shape = append(shape, t.Shape[i])
			stride = append(stride, t.Stride[i])
			continue
		}
		off += ix * t.Stride[i]
	}
	shape = append(shape, t.Shape[len(idx):]...)
	stride = append(stride, t.Stride[len(idx):]...)
	return &Tensor{Data: t.Data, Shape: shape, Stride: stride, Offset: off}
}

// Rotate returns a view of t with axis moved to be the innermost (last)
// dimension, by permuting Shape/Stride; the backing array is not touched.
// This is the "axis rotation" the N-D discretizer and Douglas ADI use so a
// batched tridiagonal primitive always walks its active axis last.
func (t *Tensor) Rotate(axis int) *Tensor {
	n := t.Rank()
	shape := make([]int, 0, n)
	stride := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i == axis {
			continue
		}
		shape = append(shape, t.Shape[i])
		stride = append(stride, t.Stride[i])
	}
	shape = append(shape, t.Shape[axis])
	stride = append(stride, t.Stride[axis])
	return &Tensor{Data: t.Data, Shape: shape, Stride: stride, Offset: t.Offset}
}

// Contiguous returns t unchanged if it is already row-major contiguous,
// otherwise a fresh contiguous copy. Used at the boundary with numerics
// primitives (LAPACK-backed solves) that require a dense backing slice.
func (t *Tensor) Contiguous() *Tensor {
	want := rowMajorStride(t.Shape)
	if t.Offset == 0 && sameShape(t.Stride, want) && len(t.Data) == t.Size() {
		return t
	}
	return t.Clone()
}

// Row returns the contiguous innermost axis as a fresh []float64, given
// fixed indices for every outer axis (len(outer) == Rank()-1).
func (t *Tensor) Row(outer ...int) []float64 {
	n := t.Rank()
	if len(outer) != n-1 {
		chk.Panic("pdetensor: Row needs %d outer indices, got %d", n-1, len(outer))
	}
	m := t.Shape[n-1]
	out := make([]float64, m)
	idx := append(append([]int(nil), outer...), 0)
	for i := 0; i < m; i++ {
		idx[n-1] = i
		out[i] = t.At(idx...)
	}
	return out
}

// SetRow writes row back into the innermost axis at the given outer indices.
func (t *Tensor) SetRow(row []float64, outer ...int) {
	n := t.Rank()
	idx := append(append([]int(nil), outer...), 0)
	for i, v := range row {
		idx[n-1] = i
		t.Set(v, idx...)
	}
}

// Slice returns a view of t restricted to [lo,hi) along axis, sharing the
// backing array. Used to strip/restore the two boundary points of a value
// grid without copying.
func (t *Tensor) Slice(axis, lo, hi int) *Tensor {
	shape := append([]int(nil), t.Shape...)
	shape[axis] = hi - lo
	stride := append([]int(nil), t.Stride...)
	return &Tensor{Data: t.Data, Shape: shape, Stride: stride, Offset: t.Offset + lo*t.Stride[axis]}
}

// Broadcast returns a view of t as if it had the given target shape,
// following ordinary trailing-dimension broadcast rules: t's shape must
// either equal target's suffix dimension-by-dimension (each axis equal or
// 1), or t may be a scalar. Broadcasting a size-1 axis sets its stride to
// 0 so every index along that axis reads the same element.
func (t *Tensor) Broadcast(target []int) (*Tensor, bool) {
	if t.Rank() == 0 {
		shape := append([]int(nil), target...)
		stride := make([]int, len(target))
		return &Tensor{Data: t.Data, Shape: shape, Stride: stride, Offset: t.Offset}, true
	}
	n, m := len(target), t.Rank()
	if m > n {
		return nil, false
	}
	shape := append([]int(nil), target...)
	stride := make([]int, n)
	offset := n - m
	for i := 0; i < offset; i++ {
		stride[i] = 0
	}
	for i := 0; i < m; i++ {
		ts := t.Shape[i]
		want := target[offset+i]
		switch {
		case ts == want:
			stride[offset+i] = t.Stride[i]
		case ts == 1:
			stride[offset+i] = 0
		default:
			return nil, false
		}
	}
	return &Tensor{Data: t.Data, Shape: shape, Stride: stride, Offset: t.Offset}, true
}

// Broadcastable reports whether t's shape can broadcast to target.
func (t *Tensor) Broadcastable(target []int) bool {
	_, ok := t.Broadcast(target)
	return ok
}

// AllFinite reports whether every element of t is finite; used by the
// optional NumericalInstability diagnostic.
func (t *Tensor) AllFinite() bool {
	ok := true
	walk(t.Shape, func(idx []int) {
		v := t.At(idx...)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			ok = false
		}
	})
	return ok
}

// AXPY computes dst = a*x + y elementwise, in place into dst (which may
// alias y). x and y must have the same shape as dst.
func AXPY(dst *Tensor, a float64, x, y *Tensor) {
	walk(dst.Shape, func(idx []int) {
		dst.Set(a*x.At(idx...)+y.At(idx...), idx...)
	})
}

// Add computes dst = x + y elementwise.
func Add(dst, x, y *Tensor) {
	walk(dst.Shape, func(idx []int) {
		dst.Set(x.At(idx...)+y.At(idx...), idx...)
	})
}

// Scale computes dst = a*x elementwise.
func Scale(dst *Tensor, a float64, x *Tensor) {
	walk(dst.Shape, func(idx []int) {
		dst.Set(a*x.At(idx...), idx...)
	})
}

// Shape convenience constructors.

// Concat returns batchShape followed by gridShape as one []int.
func Concat(batchShape, gridShape []int) []int {
	out := make([]int, 0, len(batchShape)+len(gridShape))
	out = append(out, batchShape...)
	out = append(out, gridShape...)
	return out
}

// Walk exposes the internal row-major multi-index iterator for callers
// (discretizers, schemes) that need to loop over every element of a shape
// without allocating an index slice per call site.
func Walk(shape []int, fn func(idx []int)) { walk(shape, fn) }
