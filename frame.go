// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "fmt"

// Frame renders bordered art into rectangles of any size without
// distorting the border (9-slice scaling).
//
// The source is cut once, at construction, into a 3x3 grid of tiles:
//
//	+----+--------+----+
//	| TL |  top   | TR |   corners: never scaled
//	+----+--------+----+
//	|left| center |rght|   edges: stretched along one axis
//	+----+--------+----+   center: stretched along both axes
//	| BL | bottom | BR |
//	+----+--------+----+
//
// A Frame is immutable and may be shared.
type Frame struct {
	margin Margin
	source Size
	interp Interp
	tiles  [3][3]*Pixmap // [row][col]
}

// FrameOption configures a Frame or MultiStateFrame during creation.
type FrameOption func(*Frame)

// WithFrameInterpolation sets the kernel used to stretch edges and center.
// The default is InterpNearest.
func WithFrameInterpolation(interp Interp) FrameOption {
	return func(f *Frame) {
		f.interp = interp
	}
}

// NewFrame slices src using m. It fails if a margin side is negative or if
// opposing margins meet or cross (Top+Bottom >= height, Left+Right >= width):
// every frame must keep at least one row and one column of stretchable art.
func NewFrame(src *Pixmap, m Margin, opts ...FrameOption) (*Frame, error) {
	if src == nil {
		return nil, ErrNilBitmap
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	w, h := src.Width(), src.Height()
	if m.Vertical() >= h || m.Horizontal() >= w {
		return nil, fmt.Errorf("%w: margin %+v on %v source", ErrMarginOverlap, m, src.Size())
	}

	f := &Frame{margin: m, source: src.Size()}
	for _, opt := range opts {
		opt(f)
	}

	xs := [4]int{0, m.Left, w - m.Right, w}
	ys := [4]int{0, m.Top, h - m.Bottom, h}
	for row := range 3 {
		for col := range 3 {
			f.tiles[row][col] = src.Copy(R(xs[col], ys[row], xs[col+1]-xs[col], ys[row+1]-ys[row]))
		}
	}
	return f, nil
}

// Margin returns the border thickness the frame was sliced with.
func (f *Frame) Margin() Margin { return f.margin }

// Interpolation returns the kernel used to stretch edges and center.
func (f *Frame) Interpolation() Interp { return f.interp }

// SourceSize returns the size of the sliced source.
func (f *Frame) SourceSize() Size { return f.source }

// MinSize returns (Left+Right, Top+Bottom), the smallest size the frame
// renders at.
func (f *Frame) MinSize() Size { return f.margin.MinSize() }

// Generate draws the frame into dst at r.
//
// Each with flag keeps its border side; a false flag treats that margin as
// zero for this call only, which is how a panel drawn flush against a
// container edge drops its border there. The rendered size is r's size
// raised to the minimum size of the effective margins, so undersized
// requests grow rather than squash the border. Corners are copied
// unscaled, edges stretch along their free axis, the center stretches on
// both. Output outside dst is clipped.
func (f *Frame) Generate(dst *Pixmap, r Rect, withTop, withLeft, withBottom, withRight bool) error {
	if dst == nil {
		return ErrNilBitmap
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: frame rect %v", ErrInvalidSize, r)
	}
	m := f.margin.Suppress(withTop, withLeft, withBottom, withRight)
	size := r.Size.Max(m.MinSize())

	xs := [4]int{0, m.Left, size.Width - m.Right, size.Width}
	ys := [4]int{0, m.Top, size.Height - m.Bottom, size.Height}
	for row := range 3 {
		for col := range 3 {
			cell := R(r.X+xs[col], r.Y+ys[row], xs[col+1]-xs[col], ys[row+1]-ys[row])
			if cell.Empty() {
				continue
			}
			f.tiles[row][col].DrawTo(dst, cell, f.interp)
		}
	}
	return nil
}

// Render returns a new pixmap of size (raised to MinSize) holding the
// frame with all four borders.
func (f *Frame) Render(size Size) (*Pixmap, error) {
	if size.Width < 0 || size.Height < 0 {
		return nil, fmt.Errorf("%w: frame size %v", ErrInvalidSize, size)
	}
	size = size.Max(f.MinSize())
	pm := NewPixmap(size.Width, size.Height)
	if err := f.Generate(pm, Rect{Size: size}, true, true, true, true); err != nil {
		return nil, err
	}
	return pm, nil
}
