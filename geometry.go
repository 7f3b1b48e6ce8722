// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"
	"image"
)

// Position is a pixel coordinate. Either axis may be negative.
type Position struct {
	X, Y int
}

// Pt is shorthand for Position{X: x, Y: y}.
func Pt(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns p translated by q.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// String returns "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Size is a pixel extent. Valid sizes are non-negative on both axes;
// canvases additionally require both dimensions to be positive.
type Size struct {
	Width, Height int
}

// Sz is shorthand for Size{Width: w, Height: h}.
func Sz(w, h int) Size {
	return Size{Width: w, Height: h}
}

// Empty reports whether either dimension is zero or negative.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Max returns the per-axis maximum of s and o.
func (s Size) Max(o Size) Size {
	return Size{Width: max(s.Width, o.Width), Height: max(s.Height, o.Height)}
}

// String returns "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	Position
	Size
}

// R is shorthand for a Rect at (x, y) with the given dimensions.
func R(x, y, w, h int) Rect {
	return Rect{Position: Position{X: x, Y: y}, Size: Size{Width: w, Height: h}}
}

// Min returns the top-left corner (inclusive).
func (r Rect) Min() Position {
	return r.Position
}

// Max returns the bottom-right corner (exclusive).
func (r Rect) Max() Position {
	return Position{X: r.X + r.Width, Y: r.Y + r.Height}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive, matching pixel coverage.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.X && p.X < r.X+r.Width &&
		p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersect returns the overlap of r and o, or a zero Rect if they are disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.X+r.Width, o.X+o.Width), min(r.Y+r.Height, o.Y+o.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return R(x0, y0, x1-x0, y1-y0)
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// String returns "(x,y)+WxH".
func (r Rect) String() string {
	return r.Position.String() + "+" + r.Size.String()
}

// Margin is the border thickness reserved on each side of a 9-slice source.
type Margin struct {
	Top, Left, Bottom, Right int
}

// Uniform returns a Margin with the same thickness on all four sides.
func Uniform(n int) Margin {
	return Margin{Top: n, Left: n, Bottom: n, Right: n}
}

// MarginFromSlice builds a Margin from the descriptor order
// [top, left, bottom, right].
func MarginFromSlice(v []int) (Margin, error) {
	if len(v) != 4 {
		return Margin{}, fmt.Errorf("%w: want 4 values [top,left,bottom,right], got %d", ErrInvalidMargin, len(v))
	}
	m := Margin{Top: v[0], Left: v[1], Bottom: v[2], Right: v[3]}
	if err := m.validate(); err != nil {
		return Margin{}, err
	}
	return m, nil
}

// Horizontal returns Left + Right.
func (m Margin) Horizontal() int { return m.Left + m.Right }

// Vertical returns Top + Bottom.
func (m Margin) Vertical() int { return m.Top + m.Bottom }

// MinSize is the smallest extent that fits both opposing borders.
func (m Margin) MinSize() Size {
	return Size{Width: m.Horizontal(), Height: m.Vertical()}
}

// Suppress returns a copy of m with every side whose keep flag is false
// set to zero.
func (m Margin) Suppress(keepTop, keepLeft, keepBottom, keepRight bool) Margin {
	if !keepTop {
		m.Top = 0
	}
	if !keepLeft {
		m.Left = 0
	}
	if !keepBottom {
		m.Bottom = 0
	}
	if !keepRight {
		m.Right = 0
	}
	return m
}

func (m Margin) validate() error {
	if m.Top < 0 || m.Left < 0 || m.Bottom < 0 || m.Right < 0 {
		return fmt.Errorf("%w: negative side in %+v", ErrInvalidMargin, m)
	}
	return nil
}

// HAlign is the horizontal edge a member's X offset is measured from.
type HAlign uint8

const (
	Left   HAlign = iota // offset.X measured rightward from the left edge
	Center               // offset.X added to the horizontally centered position
	Right                // offset.X measured leftward from the right edge
)

// String returns the alignment name.
func (h HAlign) String() string {
	switch h {
	case Left:
		return "Left"
	case Center:
		return "Center"
	case Right:
		return "Right"
	default:
		return "Unknown"
	}
}

// VAlign is the vertical edge a member's Y offset is measured from.
type VAlign uint8

const (
	Top    VAlign = iota // offset.Y measured downward from the top edge
	Middle               // offset.Y added to the vertically centered position
	Bottom               // offset.Y measured upward from the bottom edge
)

// String returns the alignment name.
func (v VAlign) String() string {
	switch v {
	case Top:
		return "Top"
	case Middle:
		return "Middle"
	case Bottom:
		return "Bottom"
	default:
		return "Unknown"
	}
}

// Anchor pairs a horizontal and a vertical alignment.
// The zero value is TopLeft.
type Anchor struct {
	H HAlign
	V VAlign
}

// Common anchors.
var (
	TopLeft      = Anchor{H: Left, V: Top}
	TopRight     = Anchor{H: Right, V: Top}
	BottomLeft   = Anchor{H: Left, V: Bottom}
	BottomRight  = Anchor{H: Right, V: Bottom}
	CenterMiddle = Anchor{H: Center, V: Middle}
)

// Valid reports whether both alignments are known values.
func (a Anchor) Valid() bool {
	return a.H <= Right && a.V <= Bottom
}

// String returns "H/V".
func (a Anchor) String() string {
	return a.H.String() + "/" + a.V.String()
}
