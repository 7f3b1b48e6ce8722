// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"image/color"
	"testing"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// solid returns a w x h pixmap filled with c.
func solid(w, h int, c color.NRGBA) *Pixmap {
	pm := NewPixmap(w, h)
	pm.Fill(c)
	return pm
}

// premul converts a straight-alpha color to the stored representation.
func premul(c color.NRGBA) color.RGBA {
	return color.RGBAModel.Convert(c).(color.RGBA)
}

func assertPixel(t *testing.T, pm *Pixmap, x, y int, want color.RGBA) {
	t.Helper()
	if got := pm.Pixel(x, y); got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func mustLayer(t *testing.T, size Size, layers int, opts ...LayerOption) *Layer {
	t.Helper()
	l, err := NewLayer(size, layers, opts...)
	if err != nil {
		t.Fatalf("NewLayer(%v, %d) error = %v", size, layers, err)
	}
	return l
}

func mustAdd(t *testing.T, l *Layer, b Bitmap, offset Position, opts ...MemberOption) Handle {
	t.Helper()
	h, err := l.AddSurface(b, offset, opts...)
	if err != nil {
		t.Fatalf("AddSurface error = %v", err)
	}
	return h
}
