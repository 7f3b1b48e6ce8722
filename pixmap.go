// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	"github.com/gogpu/compositor/internal/blend"
)

// Pixmap is an owned rectangular pixel buffer.
//
// Pixels are stored as premultiplied RGBA8, 4 bytes per pixel, rows packed
// without padding. A Pixmap is the compositor's only raster type: decoded
// bitmaps, per-layer canvases, frame tiles and the output canvas are all
// Pixmaps.
type Pixmap struct {
	width  int
	height int
	data   []uint8
}

// NewPixmap creates a transparent pixmap with the given dimensions.
// Negative dimensions are treated as zero.
func NewPixmap(width, height int) *Pixmap {
	width, height = max(width, 0), max(height, 0)
	return &Pixmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// FromImage copies img into a new pixmap, converting to premultiplied RGBA.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := NewPixmap(b.Dx(), b.Dy())
	draw.Draw(pm.RGBA(), pm.RGBA().Bounds(), img, b.Min, draw.Src)
	return pm
}

// Width returns the width of the pixmap.
func (p *Pixmap) Width() int {
	return p.width
}

// Height returns the height of the pixmap.
func (p *Pixmap) Height() int {
	return p.height
}

// Size returns the pixmap dimensions.
func (p *Pixmap) Size() Size {
	return Size{Width: p.width, Height: p.height}
}

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int {
	return p.width * 4
}

// Data returns the raw premultiplied RGBA pixel data.
func (p *Pixmap) Data() []uint8 {
	return p.data
}

// RGBA returns an *image.RGBA view sharing this pixmap's buffer.
// Writes through the view modify the pixmap.
func (p *Pixmap) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    p.data,
		Stride: p.Stride(),
		Rect:   image.Rect(0, 0, p.width, p.height),
	}
}

// ToImage returns a copy of the pixmap as an image.RGBA.
func (p *Pixmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	copy(img.Pix, p.data)
	return img
}

// SetPixel sets one pixel from a straight-alpha color.
// Out-of-bounds coordinates are ignored.
func (p *Pixmap) SetPixel(x, y int, c color.NRGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	r, g, b, a := c.RGBA()
	i := (y*p.width + x) * 4
	p.data[i+0] = uint8(r >> 8)
	p.data[i+1] = uint8(g >> 8)
	p.data[i+2] = uint8(b >> 8)
	p.data[i+3] = uint8(a >> 8)
}

// Pixel returns the premultiplied color at (x, y), or transparent black
// outside the pixmap.
func (p *Pixmap) Pixel(x, y int) color.RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return color.RGBA{}
	}
	i := (y*p.width + x) * 4
	return color.RGBA{R: p.data[i], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Fill sets every pixel to c.
func (p *Pixmap) Fill(c color.Color) {
	rc := color.RGBAModel.Convert(c).(color.RGBA)
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = rc.R
		p.data[i+1] = rc.G
		p.data[i+2] = rc.B
		p.data[i+3] = rc.A
	}
}

// Clear sets every pixel to transparent black.
func (p *Pixmap) Clear() {
	blend.ClearRow(p.data)
}

// Clone returns a deep copy.
func (p *Pixmap) Clone() *Pixmap {
	data := make([]uint8, len(p.data))
	copy(data, p.data)
	return &Pixmap{width: p.width, height: p.height, data: data}
}

// Equal reports whether p and o have the same size and identical bytes.
func (p *Pixmap) Equal(o *Pixmap) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.width == o.width && p.height == o.height && bytes.Equal(p.data, o.data)
}

// Copy returns a new pixmap holding the pixels of r. The region is clipped
// to the pixmap bounds.
func (p *Pixmap) Copy(r Rect) *Pixmap {
	r = r.Intersect(R(0, 0, p.width, p.height))
	out := NewPixmap(r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		si := ((r.Y+y)*p.width + r.X) * 4
		blend.SourceRow(out.data[y*out.Stride():(y+1)*out.Stride()], p.data[si:si+r.Width*4])
	}
	return out
}

// DrawTo composites p over dst, stretched to fill r. The unscaled case is a
// direct source-over blit. Otherwise only the part of r inside dst is
// resampled with interp, so the scratch buffer never exceeds dst.
func (p *Pixmap) DrawTo(dst *Pixmap, r Rect, interp Interp) {
	if r.Empty() || p.width == 0 || p.height == 0 {
		return
	}
	if r.Width == p.width && r.Height == p.height {
		dst.blitOver(p, r.Position)
		return
	}
	visible := r.Intersect(R(0, 0, dst.width, dst.height))
	if visible.Empty() {
		return
	}
	dst.blitOver(p.resampleVisible(r, visible, interp), visible.Position)
}

// resampleVisible returns the visible part of p scaled to fill r.
// x/image/draw clips the target rectangle to the scratch bounds while
// keeping the mapping of the full r.
func (p *Pixmap) resampleVisible(r, visible Rect, interp Interp) *Pixmap {
	out := NewPixmap(visible.Width, visible.Height)
	target := r.Image().Sub(image.Pt(visible.X, visible.Y))
	interp.scaler().Scale(out.RGBA(), target, p.RGBA(), p.RGBA().Bounds(), draw.Src, nil)
	return out
}

// blitOver composites src over p with its top-left corner at at, clipping
// to p's bounds.
func (p *Pixmap) blitOver(src *Pixmap, at Position) {
	r := R(at.X, at.Y, src.width, src.height).Intersect(R(0, 0, p.width, p.height))
	if r.Empty() {
		return
	}
	sx, sy := r.X-at.X, r.Y-at.Y
	n := r.Width * 4
	for y := 0; y < r.Height; y++ {
		di := ((r.Y+y)*p.width + r.X) * 4
		si := ((sy+y)*src.width + sx) * 4
		blend.SourceOverRow(p.data[di:di+n], src.data[si:si+n])
	}
}

// EncodePNG writes the pixmap as a PNG image.
func (p *Pixmap) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.RGBA())
}

// SavePNG writes the pixmap to path as a PNG file.
func (p *Pixmap) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// At implements the image.Image interface.
func (p *Pixmap) At(x, y int) color.Color {
	return p.Pixel(x, y)
}

// Bounds implements the image.Image interface.
func (p *Pixmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.width, p.height)
}

// ColorModel implements the image.Image interface.
func (p *Pixmap) ColorModel() color.Model {
	return color.RGBAModel
}
