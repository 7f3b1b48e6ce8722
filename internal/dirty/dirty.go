// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package dirty tracks which compositor layers need rebuilding.
package dirty

import (
	"math/bits"
	"sync/atomic"
)

// Set is a fixed-size atomic bitset with one bit per layer slot.
//
// Bits are packed into uint64 words (64 slots per word). All methods are
// safe for concurrent use, so parallel rebuild workers can clear their own
// slot without a lock.
type Set struct {
	words []atomic.Uint64
	n     int
}

// New creates a set of n slots. All slots start clean.
// Returns nil if n is zero or negative.
func New(n int) *Set {
	if n <= 0 {
		return nil
	}
	return &Set{
		words: make([]atomic.Uint64, (n+63)/64),
		n:     n,
	}
}

// Len returns the number of slots.
func (s *Set) Len() int {
	return s.n
}

// Mark flags slot i as dirty. Out-of-range indices are ignored.
func (s *Set) Mark(i int) {
	if i < 0 || i >= s.n {
		return
	}
	s.words[i/64].Or(1 << (i & 63))
}

// MarkAll flags every slot as dirty.
func (s *Set) MarkAll() {
	full := s.n / 64
	for i := 0; i < full; i++ {
		s.words[i].Store(^uint64(0))
	}
	if rem := s.n % 64; rem > 0 {
		s.words[full].Store((uint64(1) << rem) - 1)
	}
}

// Clean clears slot i. Out-of-range indices are ignored.
func (s *Set) Clean(i int) {
	if i < 0 || i >= s.n {
		return
	}
	s.words[i/64].And(^(uint64(1) << (i & 63)))
}

// IsDirty reports whether slot i is dirty. Out-of-range indices report false.
func (s *Set) IsDirty(i int) bool {
	if i < 0 || i >= s.n {
		return false
	}
	return s.words[i/64].Load()&(1<<(i&63)) != 0
}

// Count returns the number of dirty slots.
func (s *Set) Count() int {
	count := 0
	for i := range s.words {
		count += bits.OnesCount64(s.words[i].Load())
	}
	return count
}

// ForEach calls fn for each dirty slot in ascending order without clearing.
func (s *Set) ForEach(fn func(i int)) {
	for w := range s.words {
		word := s.words[w].Load()
		for word != 0 {
			b := bits.TrailingZeros64(word)
			fn(w*64 + b)
			word &^= 1 << b
		}
	}
}
