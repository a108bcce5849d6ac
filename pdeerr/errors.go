// Copyright 2026 The Gofd Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdeerr defines the error taxonomy shared by every layer of the
// finite-difference solver core: discretization, boundary closure, schemes
// and the time-stepping driver all fail through the same typed error so
// callers can discriminate by Kind with errors.Is/errors.As.
package pdeerr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the distinct fatal conditions a step can raise.
type Kind int

const (
	// ShapeMismatch: a coefficient or boundary tensor is not broadcastable
	// to its required shape.
	ShapeMismatch Kind = iota
	// MalformedBoundary: alpha=beta=0 on a face, or kappa=0 at a face point.
	MalformedBoundary
	// NonUniformMultidim: a multidimensional grid axis is not uniformly spaced.
	NonUniformMultidim
	// NonMonotoneGrid: a coordinate array is not strictly monotone.
	NonMonotoneGrid
	// UndersizedGrid: an axis has fewer than 3 points.
	UndersizedGrid
	// NoProgress: the step-size policy returned a zero or sign-inconsistent delta.
	NoProgress
	// NumericalInstability: non-finite values were detected in V after a step.
	NumericalInstability
)

func (k Kind) String() string {
	switch k {
	case ShapeMismatch:
		return "ShapeMismatch"
	case MalformedBoundary:
		return "MalformedBoundary"
	case NonUniformMultidim:
		return "NonUniformMultidim"
	case NonMonotoneGrid:
		return "NonMonotoneGrid"
	case UndersizedGrid:
		return "UndersizedGrid"
	case NoProgress:
		return "NoProgress"
	case NumericalInstability:
		return "NumericalInstability"
	default:
		return "Unknown"
	}
}

// Error is a fatal, typed condition raised by the solver core.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is match against the sentinel Err* values below by Kind,
// regardless of message or wrapped cause.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New builds a *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds a *Error of the given kind wrapping an underlying cause.
func Wrap(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Sentinel values for errors.Is(err, pdeerr.ErrXxx) checks; each carries a
// placeholder message and no cause, and exists only to anchor Kind
// comparisons.
var (
	ErrShapeMismatch        = &Error{Kind: ShapeMismatch, Msg: "sentinel"}
	ErrMalformedBoundary    = &Error{Kind: MalformedBoundary, Msg: "sentinel"}
	ErrNonUniformMultidim   = &Error{Kind: NonUniformMultidim, Msg: "sentinel"}
	ErrNonMonotoneGrid      = &Error{Kind: NonMonotoneGrid, Msg: "sentinel"}
	ErrUndersizedGrid       = &Error{Kind: UndersizedGrid, Msg: "sentinel"}
	ErrNoProgress           = &Error{Kind: NoProgress, Msg: "sentinel"}
	ErrNumericalInstability = &Error{Kind: NumericalInstability, Msg: "sentinel"}
)
