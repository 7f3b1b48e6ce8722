// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package assets

import (
	"encoding/json"
	"fmt"
	"image/color"

	"github.com/gogpu/compositor"
)

// Kind is the type of an image entry in the descriptor.
type Kind uint8

const (
	// KindImage is a plain bitmap.
	KindImage Kind = iota
	// KindFrame is 9-slice border art.
	KindFrame
	// KindMultiStateFrame is a vertical strip of 9-slice bands, one per state.
	KindMultiStateFrame
)

// String returns the descriptor spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindImage:
		return "Image"
	case KindFrame:
		return "Frame"
	case KindMultiStateFrame:
		return "MultiStateFrame"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

func parseKind(s string) (Kind, error) {
	switch s {
	case "Image":
		return KindImage, nil
	case "Frame":
		return KindFrame, nil
	case "MultiStateFrame":
		return KindMultiStateFrame, nil
	default:
		return 0, fmt.Errorf("%w: unknown image type %q", ErrBadDescriptor, s)
	}
}

// descriptor mirrors desc.json.
type descriptor struct {
	Images          map[string]imageEntry `json:"images"`
	Metrics         map[string]float64    `json:"metrics"`
	Colors          map[string][]int      `json:"colors"`
	UseSmoothResize bool                  `json:"use_smooth_resize"`
}

type imageEntry struct {
	Type    string `json:"type"`
	Image   string `json:"image"`
	Margin  []int  `json:"margin"`
	States  int    `json:"states"`
	Default int    `json:"default"`
}

func parseDescriptor(data []byte) (*descriptor, error) {
	var d descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDescriptor, err)
	}
	return &d, nil
}

// parseColor accepts [r,g,b] or [r,g,b,a] with components in [0, 255].
// A missing alpha is opaque.
func parseColor(v []int) (color.NRGBA, error) {
	if len(v) < 3 || len(v) > 4 {
		return color.NRGBA{}, fmt.Errorf("%w: color needs 3 or 4 components, got %d", ErrBadDescriptor, len(v))
	}
	for _, c := range v {
		if c < 0 || c > 255 {
			return color.NRGBA{}, fmt.Errorf("%w: color component %d outside [0,255]", ErrBadDescriptor, c)
		}
	}
	c := color.NRGBA{R: uint8(v[0]), G: uint8(v[1]), B: uint8(v[2]), A: 255}
	if len(v) == 4 {
		c.A = uint8(v[3])
	}
	return c, nil
}

// check validates the fields an entry of kind k needs, before any file is
// read.
func (e imageEntry) check(k Kind) (compositor.Margin, error) {
	if e.Image == "" {
		return compositor.Margin{}, fmt.Errorf("%w: missing \"image\"", ErrBadDescriptor)
	}
	if k == KindImage {
		return compositor.Margin{}, nil
	}
	if e.Margin == nil {
		return compositor.Margin{}, fmt.Errorf("%w: %v needs \"margin\"", ErrBadDescriptor, k)
	}
	m, err := compositor.MarginFromSlice(e.Margin)
	if err != nil {
		return compositor.Margin{}, fmt.Errorf("%w: %w", ErrBadDescriptor, err)
	}
	if k == KindMultiStateFrame && e.States <= 0 {
		return compositor.Margin{}, fmt.Errorf("%w: %v needs a positive \"states\"", ErrBadDescriptor, k)
	}
	return m, nil
}
