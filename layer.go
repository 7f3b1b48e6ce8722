// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"fmt"
	"sync/atomic"

	"github.com/gogpu/compositor/internal/dirty"
)

// nextLayerID stamps handles with the compositor that issued them.
var nextLayerID atomic.Uint32

// Handle identifies a member of one Layer. Handles are issued in strictly
// increasing order, are never reused, and stay valid for the lifetime of
// the Layer. The zero Handle is invalid.
type Handle struct {
	index int
	owner uint32
}

// Index returns the member's insertion index.
func (h Handle) Index() int { return h.index }

// IsValid reports whether h was issued by some Layer.
func (h Handle) IsValid() bool { return h.owner != 0 }

// String returns "#index".
func (h Handle) String() string { return fmt.Sprintf("#%d", h.index) }

// slot is one z-ordered drawing plane.
type slot struct {
	canvas   *Pixmap
	visible  bool
	members  []int // member indices in insertion (paint) order
	rebuilds uint64
}

// Layer composites N independently cached layer canvases into one output
// canvas.
//
// Each layer carries a dirty flag. Any member change marks the owning layer
// dirty; Refresh rebuilds only dirty visible layers and then composites all
// visible layers in ascending index order. Hidden layers keep their cached
// canvas, so showing them again costs nothing until a member changes.
//
// A Layer is not safe for concurrent use.
type Layer struct {
	id      uint32
	size    Size
	canvas  *Pixmap
	slots   []slot
	dirty   *dirty.Set
	members []LayerMember
	opts    layerOptions
	pool    *pixmapPool

	refreshes uint64
	gen       uint64 // output canvas generation
	changed   bool   // output differs from the last Refresh even if no layer is dirty
}

// NewLayer creates a compositor with the given canvas size and number of
// layers. All layers start visible and dirty.
func NewLayer(size Size, layers int, opts ...LayerOption) (*Layer, error) {
	if size.Empty() {
		return nil, fmt.Errorf("%w: canvas %v", ErrInvalidSize, size)
	}
	if layers <= 0 {
		return nil, fmt.Errorf("%w: need at least one layer, got %d", ErrLayerOutOfRange, layers)
	}
	o := defaultLayerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.defaultLayer < 0 || o.defaultLayer >= layers {
		return nil, fmt.Errorf("%w: default layer %d of %d", ErrLayerOutOfRange, o.defaultLayer, layers)
	}

	l := &Layer{
		id:     nextLayerID.Add(1),
		size:   size,
		canvas: NewPixmap(size.Width, size.Height),
		slots:  make([]slot, layers),
		dirty:  dirty.New(layers),
		opts:   o,
	}
	if o.pooled {
		l.pool = newPixmapPool(o.poolSize)
	}
	for i := range l.slots {
		l.slots[i] = slot{canvas: NewPixmap(size.Width, size.Height), visible: true}
	}
	l.dirty.MarkAll()
	return l, nil
}

// Size returns the canvas size.
func (l *Layer) Size() Size { return l.size }

// Layers returns the number of layers.
func (l *Layer) Layers() int { return len(l.slots) }

// Len returns the number of members ever added.
func (l *Layer) Len() int { return len(l.members) }

// AddSurface places b on a layer and returns its handle. Without options
// the member goes on the default layer, anchored top-left, at scale 1.
// The owning layer is marked dirty.
func (l *Layer) AddSurface(b Bitmap, offset Position, opts ...MemberOption) (Handle, error) {
	o := defaultMemberOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.layer == -1 {
		o.layer = l.opts.defaultLayer
	}
	if err := l.checkLayer(o.layer); err != nil {
		return Handle{}, err
	}
	m, err := NewLayerMember(b, offset, o.layer, o.anchor, o.scale)
	if err != nil {
		return Handle{}, err
	}

	h := Handle{index: len(l.members), owner: l.id}
	l.members = append(l.members, m)
	l.slots[o.layer].members = append(l.slots[o.layer].members, h.index)
	l.dirty.Mark(o.layer)
	return h, nil
}

// ChangeSurface replaces the bitmap of a member.
func (l *Layer) ChangeSurface(h Handle, b Bitmap) error {
	m, err := l.member(h)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNilBitmap
	}
	m.bitmap = b
	m.gen = generationOf(b)
	l.dirty.Mark(m.layer)
	return nil
}

// Move sets the anchor-relative offset of a member.
func (l *Layer) Move(h Handle, offset Position) error {
	m, err := l.member(h)
	if err != nil {
		return err
	}
	m.offset = offset
	l.dirty.Mark(m.layer)
	return nil
}

// MoveBy translates the offset of a member by delta.
func (l *Layer) MoveBy(h Handle, delta Position) error {
	m, err := l.member(h)
	if err != nil {
		return err
	}
	m.offset = m.offset.Add(delta)
	l.dirty.Mark(m.layer)
	return nil
}

// SetScale changes the scale factor of a member.
func (l *Layer) SetScale(h Handle, scale float64) error {
	m, err := l.member(h)
	if err != nil {
		return err
	}
	if err := checkScale(scale); err != nil {
		return err
	}
	m.scale = scale
	l.dirty.Mark(m.layer)
	return nil
}

// SetAnchor changes the edges a member's offset is measured from.
func (l *Layer) SetAnchor(h Handle, a Anchor) error {
	m, err := l.member(h)
	if err != nil {
		return err
	}
	if err := checkAnchor(a); err != nil {
		return err
	}
	m.anchor = a
	l.dirty.Mark(m.layer)
	return nil
}

// SetVisible shows or hides a layer. It never marks the layer dirty: a
// hidden layer keeps its cached canvas.
func (l *Layer) SetVisible(layer int, visible bool) error {
	if err := l.checkLayer(layer); err != nil {
		return err
	}
	if l.slots[layer].visible != visible {
		l.slots[layer].visible = visible
		l.changed = true
	}
	return nil
}

// Visible reports whether a layer is shown. Out-of-range layers report false.
func (l *Layer) Visible(layer int) bool {
	return layer >= 0 && layer < len(l.slots) && l.slots[layer].visible
}

// Dirty reports whether a layer will be rebuilt by the next Refresh
// (provided it is visible). A Versioned member that changed in place makes
// its layer dirty.
func (l *Layer) Dirty(layer int) bool {
	if l.dirty.IsDirty(layer) {
		return true
	}
	if layer < 0 || layer >= len(l.slots) {
		return false
	}
	for _, mi := range l.slots[layer].members {
		if l.members[mi].stale() {
			return true
		}
	}
	return false
}

// Resize reallocates the output canvas and every layer canvas at the new
// size and marks every layer dirty.
func (l *Layer) Resize(size Size) error {
	if size.Empty() {
		return fmt.Errorf("%w: canvas %v", ErrInvalidSize, size)
	}
	l.canvas = l.replaceCanvas(l.canvas, size)
	for i := range l.slots {
		l.slots[i].canvas = l.replaceCanvas(l.slots[i].canvas, size)
	}
	Logger().Debug("compositor: canvases reallocated", "from", l.size, "to", size, "layers", len(l.slots))
	l.size = size
	l.dirty.MarkAll()
	l.changed = true
	return nil
}

func (l *Layer) replaceCanvas(old *Pixmap, size Size) *Pixmap {
	if l.pool == nil {
		return NewPixmap(size.Width, size.Height)
	}
	l.pool.put(old)
	return l.pool.get(size)
}

// Rect returns the absolute bounding box of a member on the current canvas.
func (l *Layer) Rect(h Handle) (Rect, error) {
	m, err := l.member(h)
	if err != nil {
		return Rect{}, err
	}
	return m.Bounds(l.size)
}

// Member returns a copy of a member's placement.
func (l *Layer) Member(h Handle) (LayerMember, error) {
	m, err := l.member(h)
	if err != nil {
		return LayerMember{}, err
	}
	return *m, nil
}

// FocusElement returns the member under pos, scanning visible layers only.
// The scan order is set by WithFocusPolicy; the default, FocusAscending,
// returns the first hit from layer 0 upward.
func (l *Layer) FocusElement(pos Position) (Handle, bool) {
	hit := func(mi int) bool {
		r, err := l.members[mi].Bounds(l.size)
		return err == nil && r.Contains(pos)
	}

	if l.opts.focus == FocusTopMost {
		for i := len(l.slots) - 1; i >= 0; i-- {
			s := &l.slots[i]
			if !s.visible {
				continue
			}
			for j := len(s.members) - 1; j >= 0; j-- {
				if hit(s.members[j]) {
					return l.handle(s.members[j]), true
				}
			}
		}
		return Handle{}, false
	}

	for i := range l.slots {
		s := &l.slots[i]
		if !s.visible {
			continue
		}
		for _, mi := range s.members {
			if hit(mi) {
				return l.handle(mi), true
			}
		}
	}
	return Handle{}, false
}

// Canvas returns the composited output of the last Refresh.
// The returned pixmap is owned by the Layer: read it, do not modify it,
// and do not hold it across Resize.
func (l *Layer) Canvas() *Pixmap {
	return l.canvas
}

// Snapshot returns a copy of the composited output.
func (l *Layer) Snapshot() *Pixmap {
	return l.canvas.Clone()
}

// LayerSnapshot returns a copy of one layer's cached canvas.
func (l *Layer) LayerSnapshot(layer int) (*Pixmap, error) {
	if err := l.checkLayer(layer); err != nil {
		return nil, err
	}
	return l.slots[layer].canvas.Clone(), nil
}

// DrawTo composites the output canvas over dst, which lets one compositor
// be a member of another.
func (l *Layer) DrawTo(dst *Pixmap, r Rect, interp Interp) {
	l.canvas.DrawTo(dst, r, interp)
}

// Generation counts the Refresh calls that changed the output canvas. A
// parent compositor uses it to pick up a refreshed nested Layer.
func (l *Layer) Generation() uint64 { return l.gen }

// Stats reports how much work Refresh has done.
type Stats struct {
	// Refreshes counts Refresh calls.
	Refreshes uint64

	// Rebuilds counts, per layer, how often its canvas was redrawn.
	Rebuilds []uint64
}

// Stats returns the current work counters.
func (l *Layer) Stats() Stats {
	st := Stats{Refreshes: l.refreshes, Rebuilds: make([]uint64, len(l.slots))}
	for i := range l.slots {
		st.Rebuilds[i] = l.slots[i].rebuilds
	}
	return st
}

func (l *Layer) member(h Handle) (*LayerMember, error) {
	if h.owner != l.id || h.index < 0 || h.index >= len(l.members) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHandle, h)
	}
	return &l.members[h.index], nil
}

func (l *Layer) handle(index int) Handle {
	return Handle{index: index, owner: l.id}
}

func (l *Layer) checkLayer(layer int) error {
	if layer < 0 || layer >= len(l.slots) {
		return fmt.Errorf("%w: %d of %d", ErrLayerOutOfRange, layer, len(l.slots))
	}
	return nil
}

var _ Bitmap = (*Layer)(nil)
