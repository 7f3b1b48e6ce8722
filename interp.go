// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "golang.org/x/image/draw"

// Interp selects the resampling kernel used when a bitmap is stretched:
// scaled layer members and 9-slice edges and centers.
type Interp uint8

const (
	// InterpNearest replicates source pixels. Pixel-art borders stay crisp.
	InterpNearest Interp = iota

	// InterpBilinear blends the nearest 2x2 source pixels.
	// This is the "smooth resize" mode of asset descriptors.
	InterpBilinear

	// InterpCatmullRom uses a 4x4 cubic kernel. Highest quality, slowest.
	InterpCatmullRom
)

// String returns a string representation of the interpolation mode.
func (i Interp) String() string {
	switch i {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpCatmullRom:
		return "CatmullRom"
	default:
		return "Unknown"
	}
}

// scaler maps the mode to its x/image/draw kernel. Unknown modes fall back
// to nearest neighbor.
func (i Interp) scaler() draw.Interpolator {
	switch i {
	case InterpBilinear:
		return draw.ApproxBiLinear
	case InterpCatmullRom:
		return draw.CatmullRom
	default:
		return draw.NearestNeighbor
	}
}
