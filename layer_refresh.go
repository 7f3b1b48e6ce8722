// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "golang.org/x/sync/errgroup"

// Refresh brings the output canvas up to date.
//
// Every visible dirty layer is cleared to transparent and its members are
// drawn in insertion order, so a later member paints over an earlier one.
// The output canvas is then cleared and every visible layer is composited
// onto it with source-over in ascending index order. Hidden layers are
// neither rebuilt nor composited.
func (l *Layer) Refresh() {
	l.refreshes++
	l.syncGenerations()

	var pending []int
	l.dirty.ForEach(func(i int) {
		if l.slots[i].visible {
			pending = append(pending, i)
		}
	})

	if l.opts.workers > 1 && len(pending) > 1 {
		// The group only caps concurrency; rebuild cannot fail.
		var g errgroup.Group
		g.SetLimit(l.opts.workers)
		for _, i := range pending {
			g.Go(func() error {
				l.rebuild(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for _, i := range pending {
			l.rebuild(i)
		}
	}
	if len(pending) > 0 {
		Logger().Debug("compositor: layers rebuilt", "layers", pending, "workers", l.opts.workers)
	}

	l.canvas.Clear()
	for i := range l.slots {
		if l.slots[i].visible {
			l.canvas.blitOver(l.slots[i].canvas, Position{})
		}
	}
	if len(pending) > 0 || l.changed {
		l.gen++
		l.changed = false
	}
}

// syncGenerations marks the layer of every member whose bitmap changed in
// place. It runs before the workers start, so they never see the members
// being written.
func (l *Layer) syncGenerations() {
	for i := range l.members {
		m := &l.members[i]
		if g := generationOf(m.bitmap); g != m.gen {
			m.gen = g
			l.dirty.Mark(m.layer)
		}
	}
}

// rebuild redraws one layer canvas from its members. It touches only that
// layer's slot, so distinct layers may be rebuilt concurrently.
func (l *Layer) rebuild(i int) {
	s := &l.slots[i]
	s.canvas.Clear()
	for _, mi := range s.members {
		l.members[mi].draw(s.canvas, l.opts.interp)
	}
	s.rebuilds++
	l.dirty.Clean(i)
}
