// seehuhn.de/go/pdfbuild - assemble PDF files from pre-laid-out documents
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package remap provides insertion-ordered deduplication tables.
package remap

import "sync"

// A Remapper maps values to dense indices.  The first insertion of a value
// assigns the next free index; later insertions of the same value return
// the same index.  Iteration order is first-insertion order.
//
// A Remapper is safe for concurrent use.  The zero value is not usable,
// use [New].
type Remapper[T comparable] struct {
	mu      sync.Mutex
	indices map[T]int
	items   []T
}

// New creates an empty Remapper.
func New[T comparable]() *Remapper[T] {
	return &Remapper[T]{
		indices: map[T]int{},
	}
}

// Insert returns the index of x, assigning the next free index if x has
// not been seen before.
func (m *Remapper[T]) Insert(x T) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, ok := m.indices[x]; ok {
		return idx
	}
	idx := len(m.items)
	m.indices[x] = idx
	m.items = append(m.items, x)
	return idx
}

// Get returns the index of x and whether x has been inserted.
func (m *Remapper[T]) Get(x T) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.indices[x]
	return idx, ok
}

// Len returns the number of distinct values inserted so far.
func (m *Remapper[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}

// Items returns the inserted values in first-insertion order.  The
// returned slice is a copy.
func (m *Remapper[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]T, len(m.items))
	copy(res, m.items)
	return res
}
