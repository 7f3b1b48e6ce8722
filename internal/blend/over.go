// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package blend implements the Porter-Duff operators used by the compositor.
//
// All operations work on premultiplied RGBA8 pixels laid out as
// consecutive R, G, B, A bytes.
//
// References:
//   - Porter-Duff: "Compositing Digital Images" (1984)
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

// SourceOver composites one premultiplied source pixel over a destination pixel.
// Formula: S + D * (1 - Sa)
func SourceOver(sr, sg, sb, sa, dr, dg, db, da byte) (byte, byte, byte, byte) {
	invSa := 255 - sa
	return addClamp(sr, mulDiv255(dr, invSa)),
		addClamp(sg, mulDiv255(dg, invSa)),
		addClamp(sb, mulDiv255(db, invSa)),
		addClamp(sa, mulDiv255(da, invSa))
}

// SourceOverRow composites the pixels of src over dst in place.
// Both slices hold packed RGBA8 pixels; the shorter one bounds the work.
//
// Fully opaque source pixels are copied and fully transparent ones are
// skipped, which covers most UI art.
func SourceOverRow(dst, src []byte) {
	n := min(len(dst), len(src)) &^ 3
	for i := 0; i < n; i += 4 {
		sa := src[i+3]
		switch sa {
		case 0:
			continue
		case 255:
			copy(dst[i:i+4], src[i:i+4])
		default:
			dst[i], dst[i+1], dst[i+2], dst[i+3] = SourceOver(
				src[i], src[i+1], src[i+2], sa,
				dst[i], dst[i+1], dst[i+2], dst[i+3])
		}
	}
}

// SourceRow replaces dst with src.
func SourceRow(dst, src []byte) {
	n := min(len(dst), len(src)) &^ 3
	copy(dst[:n], src[:n])
}

// ClearRow sets every pixel of dst to transparent black.
func ClearRow(dst []byte) {
	clear(dst)
}
