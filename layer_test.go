// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import (
	"errors"
	"image/color"
	"runtime"
	"slices"
	"testing"
)

func TestNewLayerErrors(t *testing.T) {
	tests := []struct {
		name    string
		size    Size
		layers  int
		opts    []LayerOption
		wantErr error
	}{
		{"zero width", Sz(0, 10), 1, nil, ErrInvalidSize},
		{"negative height", Sz(10, -1), 1, nil, ErrInvalidSize},
		{"no layers", Sz(10, 10), 0, nil, ErrLayerOutOfRange},
		{"default layer out of range", Sz(10, 10), 2, []LayerOption{WithDefaultLayer(2)}, ErrLayerOutOfRange},
		{"ok", Sz(10, 10), 3, []LayerOption{WithDefaultLayer(2)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLayer(tt.size, tt.layers, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewLayer error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewLayerStartsDirtyAndVisible(t *testing.T) {
	l := mustLayer(t, Sz(4, 4), 3)
	for i := range 3 {
		if !l.Dirty(i) || !l.Visible(i) {
			t.Errorf("layer %d: dirty=%v visible=%v, want both true", i, l.Dirty(i), l.Visible(i))
		}
	}
	if l.Visible(3) || l.Visible(-1) {
		t.Error("out-of-range layers should report not visible")
	}
}

func TestAddSurfaceHandles(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 2)
	var prev Handle
	for i := range 5 {
		h := mustAdd(t, l, solid(1, 1, red), Pt(i, 0), OnLayer(i%2))
		if !h.IsValid() {
			t.Fatalf("handle %v is invalid", h)
		}
		if i > 0 && h.Index() <= prev.Index() {
			t.Errorf("handle %v not greater than previous %v", h, prev)
		}
		prev = h
	}
	if l.Len() != 5 {
		t.Errorf("Len = %d, want 5", l.Len())
	}
}

func TestAddSurfaceErrors(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 2)
	l.Refresh()
	bm := solid(2, 2, red)

	cases := []struct {
		name    string
		b       Bitmap
		opts    []MemberOption
		wantErr error
	}{
		{"layer too high", bm, []MemberOption{OnLayer(2)}, ErrLayerOutOfRange},
		{"negative layer", bm, []MemberOption{OnLayer(-5)}, ErrLayerOutOfRange},
		{"nil bitmap", nil, nil, ErrNilBitmap},
		{"zero scale", bm, []MemberOption{Scaled(0)}, ErrInvalidScale},
		{"bad anchor", bm, []MemberOption{Anchored(Anchor{V: 7})}, ErrInvalidAnchor},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.AddSurface(tt.b, Pt(0, 0), tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddSurface error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if l.Len() != 0 || l.Dirty(0) || l.Dirty(1) {
		t.Errorf("failed AddSurface mutated state: len=%d dirty=%v,%v", l.Len(), l.Dirty(0), l.Dirty(1))
	}
}

func TestDefaultLayerOption(t *testing.T) {
	l := mustLayer(t, Sz(4, 4), 3, WithDefaultLayer(2))
	h := mustAdd(t, l, solid(1, 1, red), Pt(0, 0))
	m, err := l.Member(h)
	if err != nil {
		t.Fatal(err)
	}
	if m.Layer() != 2 || m.Anchor() != TopLeft || m.Scale() != 1 {
		t.Errorf("member = layer %d anchor %v scale %v, want 2 TopLeft 1", m.Layer(), m.Anchor(), m.Scale())
	}
}

func TestCenteredMemberComposite(t *testing.T) {
	l := mustLayer(t, Sz(100, 50), 2)
	mustAdd(t, l, solid(100, 50, blue), Pt(0, 0), OnLayer(0))
	b := mustAdd(t, l, solid(10, 10, red), Pt(0, 0), OnLayer(1), Anchored(CenterMiddle))

	r, err := l.Rect(b)
	if err != nil {
		t.Fatal(err)
	}
	if r != R(45, 20, 10, 10) {
		t.Errorf("Rect = %v, want (45,20 10x10)", r)
	}

	l.Refresh()
	out := l.Canvas()
	assertPixel(t, out, 45, 20, premul(red))
	assertPixel(t, out, 54, 29, premul(red))
	assertPixel(t, out, 44, 20, premul(blue))
	assertPixel(t, out, 55, 29, premul(blue))
	assertPixel(t, out, 0, 0, premul(blue))
}

func TestRefreshIdempotent(t *testing.T) {
	l := mustLayer(t, Sz(20, 20), 2)
	mustAdd(t, l, solid(5, 5, red), Pt(3, 3))
	mustAdd(t, l, solid(5, 5, color.NRGBA{G: 255, A: 100}), Pt(5, 5), OnLayer(1))

	l.Refresh()
	first := l.Snapshot()
	l.Refresh()
	if !l.Canvas().Equal(first) {
		t.Error("second Refresh changed the output")
	}
	st := l.Stats()
	if st.Refreshes != 2 || !slices.Equal(st.Rebuilds, []uint64{1, 1}) {
		t.Errorf("Stats = %+v, want 2 refreshes and one rebuild per layer", st)
	}
}

func TestChangeSurfaceRebuildsOnlyOwningLayer(t *testing.T) {
	l := mustLayer(t, Sz(20, 20), 3)
	mustAdd(t, l, solid(20, 20, blue), Pt(0, 0), OnLayer(0))
	h := mustAdd(t, l, solid(4, 4, red), Pt(2, 2), OnLayer(1))
	mustAdd(t, l, solid(4, 4, white), Pt(10, 10), OnLayer(2))
	l.Refresh()

	before0, _ := l.LayerSnapshot(0)
	before2, _ := l.LayerSnapshot(2)

	if err := l.ChangeSurface(h, solid(4, 4, green)); err != nil {
		t.Fatal(err)
	}
	if !l.Dirty(1) || l.Dirty(0) || l.Dirty(2) {
		t.Fatalf("dirty flags = %v %v %v, want only layer 1", l.Dirty(0), l.Dirty(1), l.Dirty(2))
	}
	l.Refresh()

	if st := l.Stats(); !slices.Equal(st.Rebuilds, []uint64{1, 2, 1}) {
		t.Errorf("Rebuilds = %v, want [1 2 1]", st.Rebuilds)
	}
	after0, _ := l.LayerSnapshot(0)
	after2, _ := l.LayerSnapshot(2)
	if !after0.Equal(before0) || !after2.Equal(before2) {
		t.Error("untouched layer canvases changed")
	}
	assertPixel(t, l.Canvas(), 3, 3, premul(green))
	assertPixel(t, l.Canvas(), 11, 11, premul(white))
}

func TestMutatorsMarkDirty(t *testing.T) {
	l := mustLayer(t, Sz(20, 20), 2)
	h := mustAdd(t, l, solid(2, 2, red), Pt(0, 0), OnLayer(1))

	mutations := map[string]func() error{
		"Move":      func() error { return l.Move(h, Pt(4, 4)) },
		"MoveBy":    func() error { return l.MoveBy(h, Pt(1, -1)) },
		"SetScale":  func() error { return l.SetScale(h, 2) },
		"SetAnchor": func() error { return l.SetAnchor(h, BottomRight) },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			l.Refresh()
			if err := mutate(); err != nil {
				t.Fatal(err)
			}
			if !l.Dirty(1) || l.Dirty(0) {
				t.Errorf("dirty = %v %v, want only layer 1", l.Dirty(0), l.Dirty(1))
			}
		})
	}
}

func TestMoveByAccumulates(t *testing.T) {
	l := mustLayer(t, Sz(20, 20), 1)
	h := mustAdd(t, l, solid(2, 2, red), Pt(1, 1))
	_ = l.MoveBy(h, Pt(2, 3))
	_ = l.MoveBy(h, Pt(-1, 1))
	m, _ := l.Member(h)
	if m.Offset() != Pt(2, 5) {
		t.Errorf("Offset = %v, want (2,5)", m.Offset())
	}
}

func TestInvalidMutationLeavesStateUntouched(t *testing.T) {
	l := mustLayer(t, Sz(20, 20), 1)
	h := mustAdd(t, l, solid(2, 2, red), Pt(1, 1))
	l.Refresh()

	if err := l.SetScale(h, -1); !errors.Is(err, ErrInvalidScale) {
		t.Errorf("SetScale(-1) error = %v, want ErrInvalidScale", err)
	}
	if err := l.SetAnchor(h, Anchor{H: 8}); !errors.Is(err, ErrInvalidAnchor) {
		t.Errorf("SetAnchor error = %v, want ErrInvalidAnchor", err)
	}
	if err := l.ChangeSurface(h, nil); !errors.Is(err, ErrNilBitmap) {
		t.Errorf("ChangeSurface(nil) error = %v, want ErrNilBitmap", err)
	}
	if l.Dirty(0) {
		t.Error("failed mutation marked the layer dirty")
	}
	m, _ := l.Member(h)
	if m.Scale() != 1 || m.Anchor() != TopLeft {
		t.Errorf("member changed: scale %v anchor %v", m.Scale(), m.Anchor())
	}
}

func TestForeignAndZeroHandles(t *testing.T) {
	a := mustLayer(t, Sz(10, 10), 1)
	b := mustLayer(t, Sz(10, 10), 1)
	ha := mustAdd(t, a, solid(1, 1, red), Pt(0, 0))
	mustAdd(t, b, solid(1, 1, red), Pt(0, 0))

	if err := b.Move(ha, Pt(1, 1)); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("foreign handle error = %v, want ErrInvalidHandle", err)
	}
	if _, err := a.Rect(Handle{}); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("zero handle error = %v, want ErrInvalidHandle", err)
	}
	if (Handle{}).IsValid() {
		t.Error("zero Handle reports valid")
	}
}

func TestVisibilityKeepsCache(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 2)
	mustAdd(t, l, solid(10, 10, blue), Pt(0, 0), OnLayer(0))
	mustAdd(t, l, solid(4, 4, red), Pt(0, 0), OnLayer(1))
	l.Refresh()

	if err := l.SetVisible(1, false); err != nil {
		t.Fatal(err)
	}
	if l.Dirty(1) {
		t.Error("hiding a layer marked it dirty")
	}
	l.Refresh()
	assertPixel(t, l.Canvas(), 0, 0, premul(blue))

	_ = l.SetVisible(1, true)
	l.Refresh()
	assertPixel(t, l.Canvas(), 0, 0, premul(red))

	if st := l.Stats(); !slices.Equal(st.Rebuilds, []uint64{1, 1}) {
		t.Errorf("Rebuilds = %v, want [1 1]", st.Rebuilds)
	}
	if err := l.SetVisible(2, true); !errors.Is(err, ErrLayerOutOfRange) {
		t.Errorf("SetVisible(2) error = %v, want ErrLayerOutOfRange", err)
	}
}

func TestHiddenDirtyLayerWaits(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 1)
	h := mustAdd(t, l, solid(2, 2, red), Pt(0, 0))
	l.Refresh()

	_ = l.SetVisible(0, false)
	_ = l.Move(h, Pt(5, 5))
	l.Refresh()
	if !l.Dirty(0) {
		t.Error("hidden layer was cleaned without a rebuild")
	}
	if st := l.Stats(); st.Rebuilds[0] != 1 {
		t.Errorf("hidden layer rebuilt: %d", st.Rebuilds[0])
	}
	assertPixel(t, l.Canvas(), 0, 0, color.RGBA{})

	_ = l.SetVisible(0, true)
	l.Refresh()
	assertPixel(t, l.Canvas(), 0, 0, color.RGBA{})
	assertPixel(t, l.Canvas(), 5, 5, premul(red))
}

func TestPaintOrder(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 2)
	// Layer 1 is inserted first but paints above layer 0.
	mustAdd(t, l, solid(4, 4, red), Pt(0, 0), OnLayer(1))
	mustAdd(t, l, solid(4, 4, blue), Pt(0, 0), OnLayer(0))
	// Within a layer the later member wins.
	mustAdd(t, l, solid(2, 2, green), Pt(6, 6), OnLayer(0))
	mustAdd(t, l, solid(2, 2, white), Pt(7, 7), OnLayer(0))
	l.Refresh()

	out := l.Canvas()
	assertPixel(t, out, 1, 1, premul(red))
	assertPixel(t, out, 6, 6, premul(green))
	assertPixel(t, out, 7, 7, premul(white))
}

func TestSourceOverComposite(t *testing.T) {
	l := mustLayer(t, Sz(2, 2), 2)
	mustAdd(t, l, solid(2, 2, blue), Pt(0, 0), OnLayer(0))
	mustAdd(t, l, solid(2, 2, color.NRGBA{R: 255, A: 128}), Pt(0, 0), OnLayer(1))
	l.Refresh()
	assertPixel(t, l.Canvas(), 1, 1, color.RGBA{R: 128, B: 127, A: 255})
}

func TestResize(t *testing.T) {
	l := mustLayer(t, Sz(20, 20), 2)
	h := mustAdd(t, l, solid(4, 4, red), Pt(0, 0), Anchored(BottomRight))
	l.Refresh()
	assertPixel(t, l.Canvas(), 19, 19, premul(red))

	if err := l.Resize(Sz(0, 5)); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("Resize(0x5) error = %v, want ErrInvalidSize", err)
	}
	if l.Size() != Sz(20, 20) || l.Dirty(0) {
		t.Fatal("failed Resize mutated the layer")
	}

	if err := l.Resize(Sz(30, 10)); err != nil {
		t.Fatal(err)
	}
	if !l.Dirty(0) || !l.Dirty(1) {
		t.Error("Resize did not mark every layer dirty")
	}
	l.Refresh()
	if l.Canvas().Size() != Sz(30, 10) {
		t.Fatalf("canvas size = %v, want 30x10", l.Canvas().Size())
	}
	r, _ := l.Rect(h)
	if r != R(26, 6, 4, 4) {
		t.Errorf("Rect after Resize = %v, want (26,6 4x4)", r)
	}
	assertPixel(t, l.Canvas(), 29, 9, premul(red))
	assertPixel(t, l.Canvas(), 19, 19, color.RGBA{})
}

func TestCanvasPoolReusesOnResize(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 1, WithCanvasPool(2))
	_ = l.Resize(Sz(20, 20))
	_ = l.Resize(Sz(10, 10))

	if n := l.pool.count(Sz(10, 10)); n != 0 {
		t.Errorf("pooled 10x10 canvases = %d, want 0", n)
	}
	if n := l.pool.count(Sz(20, 20)); n != 2 {
		t.Errorf("pooled 20x20 canvases = %d, want 2", n)
	}

	mustAdd(t, l, solid(1, 1, red), Pt(9, 9))
	l.Refresh()
	assertPixel(t, l.Canvas(), 0, 0, color.RGBA{})
	assertPixel(t, l.Canvas(), 9, 9, premul(red))
}

func TestFocusElement(t *testing.T) {
	build := func(opts ...LayerOption) (*Layer, Handle, Handle) {
		l := mustLayer(t, Sz(20, 20), 2, opts...)
		low := mustAdd(t, l, solid(10, 10, red), Pt(0, 0), OnLayer(0))
		high := mustAdd(t, l, solid(10, 10, blue), Pt(5, 5), OnLayer(1))
		return l, low, high
	}

	l, low, high := build()
	if h, ok := l.FocusElement(Pt(7, 7)); !ok || h != low {
		t.Errorf("ascending overlap = %v %v, want %v", h, ok, low)
	}
	if h, ok := l.FocusElement(Pt(12, 12)); !ok || h != high {
		t.Errorf("ascending upper only = %v %v, want %v", h, ok, high)
	}
	// Right and bottom edges are exclusive.
	if h, ok := l.FocusElement(Pt(15, 15)); ok {
		t.Errorf("hit %v on exclusive edge", h)
	}
	if _, ok := l.FocusElement(Pt(19, 0)); ok {
		t.Error("hit on empty area")
	}
	_ = l.SetVisible(0, false)
	if h, ok := l.FocusElement(Pt(7, 7)); !ok || h != high {
		t.Errorf("with layer 0 hidden = %v %v, want %v", h, ok, high)
	}

	l, _, high = build(WithFocusPolicy(FocusTopMost))
	if h, ok := l.FocusElement(Pt(7, 7)); !ok || h != high {
		t.Errorf("top-most overlap = %v %v, want %v", h, ok, high)
	}
}

func TestScaledMember(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 1)
	h := mustAdd(t, l, solid(2, 2, red), Pt(1, 1), Scaled(2))
	l.Refresh()

	r, _ := l.Rect(h)
	if r != R(1, 1, 4, 4) {
		t.Errorf("Rect = %v, want (1,1 4x4)", r)
	}
	assertPixel(t, l.Canvas(), 4, 4, premul(red))
	assertPixel(t, l.Canvas(), 5, 5, color.RGBA{})
}

func TestParallelRebuildMatchesSequential(t *testing.T) {
	populate := func(l *Layer) {
		for i := range 4 {
			c := color.NRGBA{R: uint8(60 * i), G: 200, B: uint8(255 - 60*i), A: uint8(100 + 40*i)}
			mustAdd(t, l, solid(12, 12, c), Pt(i*3, i*2), OnLayer(i))
			mustAdd(t, l, solid(3, 3, white), Pt(i, i), OnLayer(i), Anchored(BottomRight), Scaled(1.5))
		}
	}
	seq := mustLayer(t, Sz(32, 24), 4)
	par := mustLayer(t, Sz(32, 24), 4, WithParallelRebuild(4))
	populate(seq)
	populate(par)
	seq.Refresh()
	par.Refresh()

	if !seq.Canvas().Equal(par.Canvas()) {
		t.Error("parallel rebuild output differs from sequential")
	}
	for i := range 4 {
		if par.Dirty(i) {
			t.Errorf("layer %d still dirty after parallel refresh", i)
		}
	}
}

func TestNestedLayer(t *testing.T) {
	inner := mustLayer(t, Sz(4, 4), 1)
	mustAdd(t, inner, solid(4, 4, green), Pt(0, 0))
	inner.Refresh()

	outer := mustLayer(t, Sz(10, 10), 1)
	h := mustAdd(t, outer, inner, Pt(0, 0), Anchored(BottomRight))
	outer.Refresh()
	assertPixel(t, outer.Canvas(), 6, 6, premul(green))
	assertPixel(t, outer.Canvas(), 5, 5, color.RGBA{})

	mustAdd(t, inner, solid(1, 1, red), Pt(0, 0))
	inner.Refresh()
	if err := outer.ChangeSurface(h, inner); err != nil {
		t.Fatal(err)
	}
	outer.Refresh()
	assertPixel(t, outer.Canvas(), 6, 6, premul(red))
}

func TestScaledMemberOffCanvasRebuildIsBounded(t *testing.T) {
	l := mustLayer(t, Sz(10, 10), 1)
	mustAdd(t, l, solid(100, 100, green), Pt(-50, -50), Scaled(20))

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	l.Refresh()
	runtime.ReadMemStats(&after)

	if n := after.TotalAlloc - before.TotalAlloc; n > 1<<20 {
		t.Errorf("Refresh allocated %d bytes for a 10x10 canvas", n)
	}
	assertPixel(t, l.Canvas(), 5, 5, premul(green))
}

func TestNestedLayerPicksUpInnerRefresh(t *testing.T) {
	inner := mustLayer(t, Sz(4, 4), 1)
	mustAdd(t, inner, solid(4, 4, green), Pt(0, 0))
	inner.Refresh()

	outer := mustLayer(t, Sz(10, 10), 1)
	mustAdd(t, outer, inner, Pt(0, 0))
	outer.Refresh()
	assertPixel(t, outer.Canvas(), 0, 0, premul(green))

	// Marking the inner layer is not enough; only its Refresh changes pixels.
	mustAdd(t, inner, solid(1, 1, red), Pt(0, 0))
	if outer.Dirty(0) {
		t.Error("outer dirty before the inner layer was refreshed")
	}
	inner.Refresh()
	if !outer.Dirty(0) {
		t.Error("outer not dirty after the inner layer was refreshed")
	}
	outer.Refresh()
	assertPixel(t, outer.Canvas(), 0, 0, premul(red))
	assertPixel(t, outer.Canvas(), 1, 1, premul(green))
}

func TestLayerGeneration(t *testing.T) {
	l := mustLayer(t, Sz(4, 4), 2)
	mustAdd(t, l, solid(2, 2, red), Pt(0, 0))
	l.Refresh()
	gen := l.Generation()

	l.Refresh()
	if l.Generation() != gen {
		t.Errorf("idle Refresh moved generation %d -> %d", gen, l.Generation())
	}

	if err := l.SetVisible(1, false); err != nil {
		t.Fatal(err)
	}
	l.Refresh()
	if l.Generation() == gen {
		t.Error("hiding a layer did not move the generation")
	}
	gen = l.Generation()

	if err := l.SetVisible(1, false); err != nil {
		t.Fatal(err)
	}
	l.Refresh()
	if l.Generation() != gen {
		t.Error("no-op SetVisible moved the generation")
	}

	if err := l.Resize(Sz(6, 6)); err != nil {
		t.Fatal(err)
	}
	l.Refresh()
	if l.Generation() == gen {
		t.Error("Resize did not move the generation")
	}
}
