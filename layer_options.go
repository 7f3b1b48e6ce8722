// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

// LayerOption configures a Layer during creation.
//
// Example:
//
//	// Three layers, members land on layer 1 unless told otherwise,
//	// stretched members are resampled bilinearly.
//	l, err := compositor.NewLayer(compositor.Sz(640, 480), 3,
//	    compositor.WithDefaultLayer(1),
//	    compositor.WithInterpolation(compositor.InterpBilinear))
type LayerOption func(*layerOptions)

// layerOptions holds optional configuration for Layer creation.
type layerOptions struct {
	defaultLayer int
	interp       Interp
	workers      int
	poolSize     int
	pooled       bool
	focus        FocusPolicy
}

// defaultLayerOptions returns the default options. A fresh value is built
// on every call.
func defaultLayerOptions() layerOptions {
	return layerOptions{
		defaultLayer: 0,
		interp:       InterpNearest,
		workers:      1,
		focus:        FocusAscending,
	}
}

// WithDefaultLayer sets the layer used by AddSurface when no OnLayer option
// is given. NewLayer fails if i is outside [0, layers).
func WithDefaultLayer(i int) LayerOption {
	return func(o *layerOptions) {
		o.defaultLayer = i
	}
}

// WithInterpolation sets the kernel used for members whose scale is not 1.
func WithInterpolation(interp Interp) LayerOption {
	return func(o *layerOptions) {
		o.interp = interp
	}
}

// WithParallelRebuild rebuilds up to n dirty layers concurrently during
// Refresh. Each layer only depends on its own members, so the result is
// identical to a sequential rebuild; the final composite stays sequential.
// Values below 2 keep the rebuild on the calling goroutine.
func WithParallelRebuild(n int) LayerOption {
	return func(o *layerOptions) {
		o.workers = max(n, 1)
	}
}

// WithCanvasPool keeps canvases released by Resize for reuse, retaining at
// most maxPerSize canvases of each size (0 means unlimited).
func WithCanvasPool(maxPerSize int) LayerOption {
	return func(o *layerOptions) {
		o.pooled = true
		o.poolSize = max(maxPerSize, 0)
	}
}

// WithFocusPolicy selects the hit-test scan order of FocusElement.
func WithFocusPolicy(p FocusPolicy) LayerOption {
	return func(o *layerOptions) {
		o.focus = p
	}
}

// MemberOption configures a member added with AddSurface.
type MemberOption func(*memberOptions)

// memberOptions holds the optional placement of a new member.
type memberOptions struct {
	layer  int // -1 selects the compositor default
	anchor Anchor
	scale  float64
}

func defaultMemberOptions() memberOptions {
	return memberOptions{layer: -1, anchor: TopLeft, scale: 1}
}

// OnLayer places the member on layer i.
func OnLayer(i int) MemberOption {
	return func(o *memberOptions) {
		o.layer = i
	}
}

// Anchored measures the member offset from the edges named by a.
func Anchored(a Anchor) MemberOption {
	return func(o *memberOptions) {
		o.anchor = a
	}
}

// Scaled draws the member at s times its natural size.
func Scaled(s float64) MemberOption {
	return func(o *memberOptions) {
		o.scale = s
	}
}

// FocusPolicy is the order in which FocusElement scans members.
type FocusPolicy uint8

const (
	// FocusAscending scans visible layers from index 0 upward and members
	// in insertion order, returning the first hit. On overlap a member on
	// a lower layer wins over one painted above it.
	FocusAscending FocusPolicy = iota

	// FocusTopMost scans in reverse paint order, so the member the user
	// actually sees on top wins.
	FocusTopMost
)

// String returns the policy name.
func (p FocusPolicy) String() string {
	switch p {
	case FocusAscending:
		return "Ascending"
	case FocusTopMost:
		return "TopMost"
	default:
		return "Unknown"
	}
}
