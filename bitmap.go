// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

// Bitmap is the capability the compositor needs from anything it places on
// a layer: a size query and a way to draw itself into a canvas.
//
// *Pixmap is the standard implementation. *MultiStateFrame and *Layer
// implement it by delegating to their current render.
//
// The compositor caches what a Bitmap drew. A Bitmap whose appearance can
// change after it is placed must either implement Versioned or have the
// change reported through Layer.ChangeSurface, otherwise the owning layer
// keeps showing stale pixels.
type Bitmap interface {
	// Size returns the natural (unscaled) size in pixels.
	Size() Size

	// DrawTo composites the bitmap over dst, stretched to fill r.
	DrawTo(dst *Pixmap, r Rect, interp Interp)
}

// Versioned is implemented by bitmaps that change in place. Generation must
// return a different value after every change to what DrawTo would draw.
// A Layer records the generation each member was drawn at and rebuilds the
// owning layer on the next Refresh once it moves.
type Versioned interface {
	Generation() uint64
}

var (
	_ Bitmap = (*Pixmap)(nil)
	_ Bitmap = (*MultiStateFrame)(nil)

	_ Versioned = (*MultiStateFrame)(nil)
	_ Versioned = (*Layer)(nil)
)

// generationOf returns the generation of b, or 0 when b is immutable.
func generationOf(b Bitmap) uint64 {
	if v, ok := b.(Versioned); ok {
		return v.Generation()
	}
	return 0
}
