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

package chunk

import (
	"testing"

	"seehuhn.de/go/pdfbuild/pdf"
)

func TestAllocGlobals(t *testing.T) {
	alloc := NewAllocator()
	g := alloc.AllocGlobals(2)

	want := []pdf.Reference{
		pdf.NewReference(1, 0), // Resources
		pdf.NewReference(2, 0), // PageTree
		pdf.NewReference(3, 0), // first page
		pdf.NewReference(4, 0), // second page
		pdf.NewReference(5, 0), // Oklab
		pdf.NewReference(6, 0), // D65Gray
		pdf.NewReference(7, 0), // SRGB
	}
	got := []pdf.Reference{
		g.Resources, g.PageTree, g.Pages[0], g.Pages[1],
		g.Oklab, g.D65Gray, g.SRGB,
	}
	for i, ref := range got {
		if ref != want[i] {
			t.Errorf("global %d: got %s, want %s", i, ref, want[i])
		}
	}

	if th := alloc.Threshold(); th != 8 {
		t.Errorf("got threshold %d, want 8", th)
	}
}

func TestSections(t *testing.T) {
	alloc := NewAllocator()

	c1 := alloc.NewChunk()
	c2 := alloc.NewChunk()

	r1 := c1.Alloc()
	r2 := c2.Alloc()
	if r1.Number() != SectionSize {
		t.Errorf("got %d, want %d", r1.Number(), SectionSize)
	}
	if r2.Number() != 2*SectionSize {
		t.Errorf("got %d, want %d", r2.Number(), 2*SectionSize)
	}
}

func TestMergeSharedMapping(t *testing.T) {
	alloc := NewAllocator()
	g := alloc.AllocGlobals(1)

	// chunk 1 defines an object, chunk 2 refers to it
	c1 := alloc.NewChunk()
	shared := c1.Alloc()
	c1.Put(shared, pdf.Integer(42))

	c2 := alloc.NewChunk()
	user := c2.Alloc()
	c2.Put(user, pdf.Dict{
		"Parent": g.PageTree,
		"Data":   shared,
	})

	out := pdf.NewData(pdf.V1_7)
	mapping := map[pdf.Reference]pdf.Reference{}
	c1.RenumberInto(out, alloc.Threshold(), alloc, mapping)
	c2.RenumberInto(out, alloc.Threshold(), alloc, mapping)

	newShared, ok := mapping[shared]
	if !ok {
		t.Fatal("no mapping recorded for the shared object")
	}
	if newShared.Number() >= SectionSize {
		t.Errorf("rewritten number %d not global", newShared.Number())
	}
	if got := out.Get(newShared); got != pdf.Integer(42) {
		t.Errorf("shared object lost: got %v", got)
	}

	dict, _ := out.Get(mapping[user]).(pdf.Dict)
	if dict == nil {
		t.Fatal("user object lost")
	}
	if dict["Data"] != newShared {
		t.Errorf("cross-chunk reference broken: got %s, want %s",
			dict["Data"], newShared)
	}
	// references below the threshold pass through unchanged
	if dict["Parent"] != g.PageTree {
		t.Errorf("global reference rewritten: got %s, want %s",
			dict["Parent"], g.PageTree)
	}
}

func TestMergeCollision(t *testing.T) {
	// Chunks from different phases use the same section.  After merging,
	// both objects must survive under distinct numbers.
	alloc := NewAllocator()
	alloc.AllocGlobals(1)
	out := pdf.NewData(pdf.V1_7)

	var refs []pdf.Reference
	for i := 0; i < 2; i++ {
		alloc2 := NewAllocator()
		alloc2.AllocGlobals(1)
		c := alloc2.NewChunk()
		ref := c.Alloc()
		c.Put(ref, pdf.Integer(i))

		mapping := map[pdf.Reference]pdf.Reference{}
		c.RenumberInto(out, alloc.Threshold(), alloc, mapping)
		refs = append(refs, mapping[ref])
	}

	if refs[0] == refs[1] {
		t.Fatalf("both objects ended up at %s", refs[0])
	}
	if out.Get(refs[0]) != pdf.Integer(0) || out.Get(refs[1]) != pdf.Integer(1) {
		t.Error("objects lost during merge")
	}
}

type refList []pdf.Reference

func (l refList) Renumber(old, new pdf.Reference) {
	for i, ref := range l {
		if ref == old {
			l[i] = new
		}
	}
}

func TestApplyMapping(t *testing.T) {
	a := pdf.NewReference(SectionSize, 0)
	b := pdf.NewReference(SectionSize+1, 0)
	mapping := map[pdf.Reference]pdf.Reference{
		a: pdf.NewReference(10, 0),
		b: pdf.NewReference(11, 0),
	}

	l := refList{b, a, pdf.NewReference(3, 0)}
	ApplyMapping(mapping, l)

	want := refList{
		pdf.NewReference(11, 0),
		pdf.NewReference(10, 0),
		pdf.NewReference(3, 0),
	}
	for i := range l {
		if l[i] != want[i] {
			t.Errorf("entry %d: got %s, want %s", i, l[i], want[i])
		}
	}
}

func TestPutTwicePanics(t *testing.T) {
	alloc := NewAllocator()
	c := alloc.NewChunk()
	ref := c.Alloc()
	c.Put(ref, pdf.Integer(1))

	defer func() {
		if recover() == nil {
			t.Error("no panic for a reused object number")
		}
	}()
	c.Put(ref, pdf.Integer(2))
}

func TestChunkAllocExhausted(t *testing.T) {
	alloc := NewAllocator()
	c := alloc.NewChunk()
	for i := 0; i < SectionSize; i++ {
		c.Alloc()
	}

	defer func() {
		if recover() == nil {
			t.Error("no panic for an exhausted section")
		}
	}()
	c.Alloc()
}

func TestGlobalAllocExhausted(t *testing.T) {
	alloc := NewAllocator()
	for alloc.Threshold() < SectionSize {
		alloc.Alloc()
	}

	defer func() {
		if recover() == nil {
			t.Error("no panic for exhausted global numbers")
		}
	}()
	alloc.Alloc()
}

func TestSectionsExhausted(t *testing.T) {
	alloc := NewAllocator()
	for i := 1; i < maxSection; i++ {
		c := alloc.NewChunk()
		if n := c.Alloc().Number(); n < uint32(i)*SectionSize {
			t.Fatalf("section %d wrapped around to %d", i, n)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("no panic for exhausted sections")
		}
	}()
	alloc.NewChunk()
}

func TestGlobalsMustComeFirst(t *testing.T) {
	alloc := NewAllocator()
	alloc.Alloc()

	defer func() {
		if recover() == nil {
			t.Error("no panic for late global allocation")
		}
	}()
	alloc.AllocGlobals(1)
}
