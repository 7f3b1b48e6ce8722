// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"
	"math"
)

// LayerMember is a bitmap placed on one layer of a compositor.
//
// Its offset is measured from the edge its anchor names, not from the
// canvas origin: a Right-anchored member with offset.X = 8 keeps an 8 pixel
// gap to the right edge whatever the canvas width. Members are created and
// mutated through Layer so that every change marks the owning layer dirty;
// the value returned by Layer.Member is a copy.
type LayerMember struct {
	bitmap Bitmap
	offset Position
	anchor Anchor
	scale  float64
	layer  int
	gen    uint64 // bitmap generation last seen by the layer
}

// NewLayerMember validates and builds a member.
func NewLayerMember(b Bitmap, offset Position, layer int, anchor Anchor, scale float64) (LayerMember, error) {
	if b == nil {
		return LayerMember{}, ErrNilBitmap
	}
	if layer < 0 {
		return LayerMember{}, fmt.Errorf("%w: %d", ErrLayerOutOfRange, layer)
	}
	if err := checkAnchor(anchor); err != nil {
		return LayerMember{}, err
	}
	if err := checkScale(scale); err != nil {
		return LayerMember{}, err
	}
	return LayerMember{bitmap: b, offset: offset, anchor: anchor, scale: scale, layer: layer, gen: generationOf(b)}, nil
}

// Bitmap returns the member's current bitmap.
func (m LayerMember) Bitmap() Bitmap { return m.bitmap }

// Offset returns the anchor-relative offset.
func (m LayerMember) Offset() Position { return m.offset }

// Anchor returns the anchor.
func (m LayerMember) Anchor() Anchor { return m.anchor }

// Scale returns the scale factor.
func (m LayerMember) Scale() float64 { return m.scale }

// Layer returns the owning layer index.
func (m LayerMember) Layer() int { return m.layer }

// stale reports whether the bitmap changed in place since it was last seen.
func (m LayerMember) stale() bool {
	return generationOf(m.bitmap) != m.gen
}

// ScaledSize returns the bitmap size multiplied by the scale, floored.
func (m LayerMember) ScaledSize() Size {
	w, h := m.scaledExtent()
	return Size{Width: int(math.Floor(w)), Height: int(math.Floor(h))}
}

// ResolvedPosition returns the absolute top-left pixel of the member on a
// canvas of the given size.
//
//	Left   x = offset.X
//	Center x = canvas.Width/2 - scaledWidth/2 + offset.X
//	Right  x = canvas.Width - scaledWidth - offset.X
//
// and likewise for Top, Middle and Bottom on the Y axis. The result is
// floored.
func (m LayerMember) ResolvedPosition(canvas Size) (Position, error) {
	if canvas.Empty() {
		return Position{}, fmt.Errorf("%w: canvas %v", ErrInvalidSize, canvas)
	}
	sw, sh := m.scaledExtent()
	cw, ch := float64(canvas.Width), float64(canvas.Height)

	var x, y float64
	switch m.anchor.H {
	case Left:
		x = float64(m.offset.X)
	case Center:
		x = cw/2 - sw/2 + float64(m.offset.X)
	case Right:
		x = cw - sw - float64(m.offset.X)
	}
	switch m.anchor.V {
	case Top:
		y = float64(m.offset.Y)
	case Middle:
		y = ch/2 - sh/2 + float64(m.offset.Y)
	case Bottom:
		y = ch - sh - float64(m.offset.Y)
	}
	return Position{X: int(math.Floor(x)), Y: int(math.Floor(y))}, nil
}

// Bounds returns the member's absolute bounding box on a canvas of the
// given size.
func (m LayerMember) Bounds(canvas Size) (Rect, error) {
	pos, err := m.ResolvedPosition(canvas)
	if err != nil {
		return Rect{}, err
	}
	return Rect{Position: pos, Size: m.ScaledSize()}, nil
}

func (m LayerMember) scaledExtent() (w, h float64) {
	s := m.bitmap.Size()
	w, h = float64(s.Width), float64(s.Height)
	if m.scale != 1 {
		w *= m.scale
		h *= m.scale
	}
	return w, h
}

// draw composites the member onto a layer canvas.
func (m LayerMember) draw(canvas *Pixmap, interp Interp) {
	r, err := m.Bounds(canvas.Size())
	if err != nil || r.Empty() {
		return
	}
	m.bitmap.DrawTo(canvas, r, interp)
}

func checkScale(scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 1) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	return nil
}

func checkAnchor(a Anchor) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidAnchor, a)
	}
	return nil
}
