// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package compositor is a retained-mode 2D raster compositor for UI chrome.
//
// # Overview
//
// It combines two pieces:
//
//   - Layer: a stack of N cached layer canvases. Bitmaps are placed on a
//     layer relative to an anchor edge; changing a member marks only its
//     layer dirty, and Refresh rebuilds dirty layers before compositing
//     all visible layers into one output canvas.
//   - Frame and MultiStateFrame: 9-slice renderers that stretch bordered
//     art to any size while keeping corners pixel-exact.
//
// # Quick Start
//
//	l, _ := compositor.NewLayer(compositor.Sz(640, 480), 2)
//
//	panel, _ := compositor.NewFrame(border, compositor.Uniform(4))
//	bg, _ := panel.Render(compositor.Sz(640, 480))
//	l.AddSurface(bg, compositor.Pt(0, 0))
//
//	// Docked 8px from the bottom-right corner on the upper layer.
//	icon, _ := l.AddSurface(iconPixmap, compositor.Pt(8, 8),
//	    compositor.OnLayer(1), compositor.Anchored(compositor.BottomRight))
//
//	l.Refresh()
//	out := l.Canvas()
//
// # Coordinate System
//
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// # Pixels
//
// Every raster is a Pixmap: premultiplied RGBA8. Compositing is
// Porter-Duff source-over. Stretching uses golang.org/x/image/draw kernels
// selected with Interp.
//
// # Errors
//
// Structural preconditions (non-positive sizes or scales, out-of-range
// layers and states, overlapping margins, foreign handles) are checked
// before any state changes and reported as wrapped sentinel errors.
//
// # Concurrency
//
// Layer, Frame construction and MultiStateFrame are meant to be driven from
// one goroutine, typically once per UI loop iteration. WithParallelRebuild
// lets Refresh rebuild independent dirty layers concurrently.
package compositor
