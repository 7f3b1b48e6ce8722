// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "fmt"

// MultiStateFrame is a bank of Frames cut from one strip of art, one per
// UI state (normal, hover, pressed, ...), with one of them active.
//
// The strip is divided into equal horizontal bands, band i being state i.
// Every band is sliced with the same margin. Switching state re-renders at
// the last requested size without touching the source art.
//
// Each render produces a new Pixmap and the previous one is never modified,
// so a Layer still holding an old render keeps a consistent cache. A
// MultiStateFrame placed on a Layer directly is Versioned: ChangeState and
// Resize show up on the next Refresh without ChangeSurface.
type MultiStateFrame struct {
	frames []*Frame
	state  int
	size   Size // last requested size
	render *Pixmap
	gen    uint64
}

// NewMultiStateFrame slices src into states bands and activates def.
// It fails if states is not positive, exceeds the source height or does not
// divide it evenly, if def is outside [0, states), or if a band cannot be
// sliced with m. The initial render size is the band size.
func NewMultiStateFrame(src *Pixmap, states int, m Margin, def int, opts ...FrameOption) (*MultiStateFrame, error) {
	if src == nil {
		return nil, ErrNilBitmap
	}
	h := src.Height()
	if states <= 0 || states > h || h%states != 0 {
		return nil, fmt.Errorf("%w: %d states on a %d pixel high strip", ErrInvalidStates, states, h)
	}
	if def < 0 || def >= states {
		return nil, fmt.Errorf("%w: default %d of %d", ErrStateOutOfRange, def, states)
	}

	band := h / states
	msf := &MultiStateFrame{
		frames: make([]*Frame, states),
		state:  def,
		size:   Size{Width: src.Width(), Height: band},
	}
	for i := range states {
		f, err := NewFrame(src.Copy(R(0, i*band, src.Width(), band)), m, opts...)
		if err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		msf.frames[i] = f
	}
	if err := msf.rerender(); err != nil {
		return nil, err
	}
	return msf, nil
}

// ChangeState activates state i and re-renders at the last requested size.
func (msf *MultiStateFrame) ChangeState(i int) error {
	if i < 0 || i >= len(msf.frames) {
		return fmt.Errorf("%w: %d of %d", ErrStateOutOfRange, i, len(msf.frames))
	}
	msf.state = i
	return msf.rerender()
}

// Resize records size as the requested size and re-renders the active state.
func (msf *MultiStateFrame) Resize(size Size) error {
	if size.Width < 0 || size.Height < 0 {
		return fmt.Errorf("%w: frame size %v", ErrInvalidSize, size)
	}
	msf.size = size
	return msf.rerender()
}

func (msf *MultiStateFrame) rerender() error {
	pm, err := msf.frames[msf.state].Render(msf.size)
	if err != nil {
		return err
	}
	msf.render = pm
	msf.gen++
	return nil
}

// State returns the active state index.
func (msf *MultiStateFrame) State() int { return msf.state }

// States returns the number of states.
func (msf *MultiStateFrame) States() int { return len(msf.frames) }

// MinSize returns the minimum size shared by every state.
func (msf *MultiStateFrame) MinSize() Size { return msf.frames[0].MinSize() }

// Frame returns the Frame for state i, or nil if i is out of range.
func (msf *MultiStateFrame) Frame(i int) *Frame {
	if i < 0 || i >= len(msf.frames) {
		return nil
	}
	return msf.frames[i]
}

// Bitmap returns the current render.
func (msf *MultiStateFrame) Bitmap() *Pixmap { return msf.render }

// Size returns the size of the current render: the last requested size
// raised to MinSize.
func (msf *MultiStateFrame) Size() Size { return msf.render.Size() }

// Generation counts renders. It moves on every ChangeState and Resize.
func (msf *MultiStateFrame) Generation() uint64 { return msf.gen }

// DrawTo draws the current render.
func (msf *MultiStateFrame) DrawTo(dst *Pixmap, r Rect, interp Interp) {
	msf.render.DrawTo(dst, r, interp)
}
