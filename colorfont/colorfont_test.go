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

package colorfont

import (
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/font"
	"seehuhn.de/go/pdfbuild/pdf"
)

type testFont struct {
	name string
}

func (f *testFont) PostScriptName() string { return f.name }
func (f *testFont) UnitsPerEm() uint16     { return 1000 }

func (f *testFont) GlyphAdvance(gid glyph.ID) (funit.Int16, bool) {
	if gid >= 500 {
		return 0, false
	}
	return 600, true
}

func (f *testFont) BBox() rect.Rect {
	return rect.Rect{LLx: -10, LLy: -200, URx: 800, URy: 900}
}

func (f *testFont) NumGlyphs() int { return 1000 }

func newTestMap(calls *int) *Map {
	return New(func(f font.Font, gid glyph.ID) (*content.Encoded, error) {
		*calls++
		return content.Encode([]byte("0 0 0 rg")), nil
	})
}

func TestRecord(t *testing.T) {
	f := &testFont{name: "Test"}
	var calls int
	m := newTestMap(&calls)

	// 257 glyphs spill into a second slice
	for i := 0; i <= SliceSize; i++ {
		slice, pos, err := m.Record(f, glyph.ID(i))
		if err != nil {
			t.Fatal(err)
		}
		wantSlice, wantPos := i/SliceSize, byte(i%SliceSize)
		if slice != wantSlice || pos != wantPos {
			t.Fatalf("glyph %d: got slice %d pos %d, want %d %d",
				i, slice, pos, wantSlice, wantPos)
		}
	}
	if calls != SliceSize+1 {
		t.Errorf("renderer called %d times, want %d", calls, SliceSize+1)
	}

	// repeated glyphs keep their position and are not rendered again
	slice, pos, err := m.Record(f, 5)
	if err != nil {
		t.Fatal(err)
	}
	if slice != 0 || pos != 5 {
		t.Errorf("got slice %d pos %d, want 0 5", slice, pos)
	}
	if calls != SliceSize+1 {
		t.Errorf("renderer called again for a known glyph")
	}

	cf := m.Get(f)
	if n := cf.NumSlices(); n != 2 {
		t.Errorf("got %d slices, want 2", n)
	}
}

func TestSliceNumbersSpanFonts(t *testing.T) {
	f1 := &testFont{name: "One"}
	f2 := &testFont{name: "Two"}
	var calls int
	m := newTestMap(&calls)

	slice, _, err := m.Record(f1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if slice != 0 {
		t.Errorf("got slice %d, want 0", slice)
	}

	slice, _, err = m.Record(f2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if slice != 1 {
		t.Errorf("got slice %d, want 1", slice)
	}
}

func TestExactMultiple(t *testing.T) {
	f := &testFont{name: "Test"}
	var calls int
	m := newTestMap(&calls)

	for i := 0; i < SliceSize; i++ {
		_, _, err := m.Record(f, glyph.ID(i))
		if err != nil {
			t.Fatal(err)
		}
	}

	// no trailing empty slice
	if n := m.Get(f).NumSlices(); n != 1 {
		t.Errorf("got %d slices, want 1", n)
	}
}

func TestWriteSlices(t *testing.T) {
	f := &testFont{name: "Test"}
	var calls int
	m := newTestMap(&calls)

	// glyph 600 has no advance width in the font
	for _, gid := range []glyph.ID{3, 600} {
		_, _, err := m.Record(f, gid)
		if err != nil {
			t.Fatal(err)
		}
	}

	text := func(f font.Font, gid glyph.ID) (string, bool) {
		if gid == 3 {
			return "A", true
		}
		return "", false
	}

	alloc := chunk.NewAllocator()
	g := alloc.AllocGlobals(1)
	c := alloc.NewChunk()
	refs := map[Slice]pdf.Reference{}
	m.WriteSlices(c, g.Resources, text, refs)

	numObjects := c.Len()
	m.WriteSlices(c, g.Resources, text, refs)
	if c.Len() != numObjects {
		t.Error("slices written twice")
	}

	out := pdf.NewData(pdf.V1_7)
	mapping := map[pdf.Reference]pdf.Reference{}
	c.RenumberInto(out, alloc.Threshold(), alloc, mapping)

	fontRef, ok := refs[Slice{Font: f, Subfont: 0}]
	if !ok {
		t.Fatal("slice reference missing")
	}
	dict, _ := out.Get(mapping[fontRef]).(pdf.Dict)
	if dict == nil {
		t.Fatal("font dictionary missing")
	}

	if dict["Subtype"] != pdf.Name("Type3") {
		t.Errorf("got subtype %v", dict["Subtype"])
	}
	if dict["Resources"] != g.Resources {
		t.Errorf("got resources %v, want %s", dict["Resources"], g.Resources)
	}
	if dict["FirstChar"] != pdf.Integer(0) || dict["LastChar"] != pdf.Integer(1) {
		t.Errorf("got char range %v to %v", dict["FirstChar"], dict["LastChar"])
	}

	charProcs, _ := dict["CharProcs"].(pdf.Dict)
	if len(charProcs) != 2 {
		t.Fatalf("got %d char procs, want 2", len(charProcs))
	}
	for _, name := range []pdf.Name{"glyph0", "glyph1"} {
		if _, ok := charProcs[name]; !ok {
			t.Errorf("missing char proc %q", name)
		}
	}

	widthsRef, _ := dict["Widths"].(pdf.Reference)
	widths, _ := out.Get(widthsRef).(pdf.Array)
	if len(widths) != 2 {
		t.Fatalf("got %d widths, want 2", len(widths))
	}
	if widths[0] != pdf.Number(600) {
		t.Errorf("got width %v, want 600", widths[0])
	}
	if widths[1] != pdf.Number(0) {
		t.Errorf("got width %v for a glyph without metrics", widths[1])
	}
}
