// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "errors"

// Precondition errors. Every failing call wraps exactly one of these with
// the offending values, so callers can match with errors.Is.
var (
	// ErrInvalidSize is returned when a canvas dimension is zero or negative.
	ErrInvalidSize = errors.New("compositor: invalid size")

	// ErrInvalidScale is returned when a member scale is zero or negative.
	ErrInvalidScale = errors.New("compositor: scale must be positive")

	// ErrLayerOutOfRange is returned for a layer index outside [0, layers).
	ErrLayerOutOfRange = errors.New("compositor: layer index out of range")

	// ErrInvalidHandle is returned for a handle that this compositor never issued.
	ErrInvalidHandle = errors.New("compositor: invalid member handle")

	// ErrInvalidAnchor is returned for an alignment outside the known values.
	ErrInvalidAnchor = errors.New("compositor: invalid anchor")

	// ErrNilBitmap is returned when a nil bitmap is supplied.
	ErrNilBitmap = errors.New("compositor: nil bitmap")

	// ErrInvalidMargin is returned for a negative or malformed margin.
	ErrInvalidMargin = errors.New("compositor: invalid margin")

	// ErrMarginOverlap is returned when opposing margins cover the whole source.
	ErrMarginOverlap = errors.New("compositor: margins overlap")

	// ErrInvalidStates is returned when a strip cannot be split into the
	// requested number of state bands.
	ErrInvalidStates = errors.New("compositor: invalid state count")

	// ErrStateOutOfRange is returned for a state index outside [0, states).
	ErrStateOutOfRange = errors.New("compositor: state out of range")
)
