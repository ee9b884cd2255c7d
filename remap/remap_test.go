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

package remap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInsert(t *testing.T) {
	r := New[string]()

	if idx := r.Insert("c"); idx != 0 {
		t.Errorf("got index %d, want 0", idx)
	}
	if idx := r.Insert("a"); idx != 1 {
		t.Errorf("got index %d, want 1", idx)
	}
	if idx := r.Insert("b"); idx != 2 {
		t.Errorf("got index %d, want 2", idx)
	}

	// repeated inserts return the original index
	if idx := r.Insert("a"); idx != 1 {
		t.Errorf("got index %d, want 1", idx)
	}
	if r.Len() != 3 {
		t.Errorf("got %d items, want 3", r.Len())
	}
}

func TestItemsOrder(t *testing.T) {
	r := New[int]()
	for _, x := range []int{5, 3, 9, 3, 5, 1} {
		r.Insert(x)
	}

	// first-use order, not value order
	want := []int{5, 3, 9, 1}
	if d := cmp.Diff(want, r.Items()); d != "" {
		t.Errorf("items differ (-want +got):\n%s", d)
	}
}

func TestGet(t *testing.T) {
	r := New[string]()
	r.Insert("x")

	idx, ok := r.Get("x")
	if !ok || idx != 0 {
		t.Errorf("Get(%q) = %d, %t", "x", idx, ok)
	}
	if _, ok := r.Get("y"); ok {
		t.Error("Get returned an index for a missing key")
	}
}

func TestItemsCopy(t *testing.T) {
	r := New[int]()
	r.Insert(1)
	r.Insert(2)

	items := r.Items()
	items[0] = 99
	if got := r.Items()[0]; got != 1 {
		t.Errorf("Items leaked internal state: got %d, want 1", got)
	}
}
