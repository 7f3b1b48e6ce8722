// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package compositor

import "sync"

// pixmapPool recycles canvases by size.
//
// A Layer that is resized back and forth (window maximize/restore, a panel
// toggled between two heights) otherwise reallocates every layer canvas on
// each toggle.
//
// Thread safety: All methods are safe for concurrent use.
type pixmapPool struct {
	mu      sync.Mutex
	buckets map[Size][]*Pixmap
	maxSize int // max pixmaps per bucket
}

// newPixmapPool creates a pool that retains at most maxPerBucket pixmaps of
// each size. A maxPerBucket of 0 means unlimited.
func newPixmapPool(maxPerBucket int) *pixmapPool {
	return &pixmapPool{
		buckets: make(map[Size][]*Pixmap),
		maxSize: maxPerBucket,
	}
}

// get returns a transparent pixmap of the given size, reusing a pooled one
// when available.
func (p *pixmapPool) get(size Size) *Pixmap {
	p.mu.Lock()
	bucket := p.buckets[size]
	if len(bucket) > 0 {
		pm := bucket[len(bucket)-1]
		p.buckets[size] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		pm.Clear()
		Logger().Debug("compositor: canvas reused from pool", "size", size)
		return pm
	}
	p.mu.Unlock()

	return NewPixmap(size.Width, size.Height)
}

// put returns pm to the pool. Nil pixmaps and pixmaps beyond the bucket
// capacity are dropped.
func (p *pixmapPool) put(pm *Pixmap) {
	if pm == nil {
		return
	}
	key := pm.Size()

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, pm)
}

// count returns the number of pooled pixmaps of the given size.
func (p *pixmapPool) count(size Size) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buckets[size])
}
