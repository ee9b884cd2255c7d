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

// Package colorfont packs color glyphs into Type 3 fonts.
//
// A Type 3 font can hold at most 256 glyphs, so the color glyphs of one
// font are distributed over a sequence of slices, in the order in which
// they are first used.  Glyph number n of a font lands in slice n/256 at
// position n%256.
package colorfont

import (
	"sync"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/font"
)

// SliceSize is the number of glyphs a Type 3 font can hold.
const SliceSize = 256

// Renderer produces the drawing instructions for one color glyph.
type Renderer func(f font.Font, gid glyph.ID) (*content.Encoded, error)

// Map assigns color glyphs to Type 3 font slices.  Slice numbers are
// counted across all fonts of the map; they appear after "Cf" in the
// resource dictionary.
type Map struct {
	mu         sync.Mutex
	fonts      map[font.Font]*ColorFont
	order      []font.Font
	sliceCount int
	render     Renderer
}

// ColorFont holds the color glyphs of one font.
type ColorFont struct {
	// SliceIDs gives the slice number of each group of 256 glyphs.
	SliceIDs []int

	// Glyphs lists the color glyphs in first-use order.
	Glyphs []Glyph

	// BBox is the font bounding box in font units.
	BBox rect.Rect

	indices map[glyph.ID]int
}

// NumSlices returns the number of Type 3 fonts needed for this font.
// A font with an exact multiple of 256 glyphs has no trailing empty
// slice.
func (cf *ColorFont) NumSlices() int {
	return (len(cf.Glyphs) + SliceSize - 1) / SliceSize
}

// Glyph is a single color glyph.
type Glyph struct {
	// GID is the glyph ID in the original font.
	GID glyph.ID

	// Instructions draw the glyph.
	Instructions *content.Encoded
}

// New creates an empty map.  The renderer is invoked once per distinct
// glyph, when the glyph is first recorded.
func New(render Renderer) *Map {
	return &Map{
		fonts:  map[font.Font]*ColorFont{},
		render: render,
	}
}

// Record adds a color glyph to the map, unless it is already present.
// It returns the slice number of the Type 3 font holding the glyph, and
// the character code of the glyph within the slice.
func (m *Map) Record(f font.Font, gid glyph.ID) (int, byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cf, ok := m.fonts[f]
	if !ok {
		cf = &ColorFont{
			BBox:    f.BBox(),
			indices: map[glyph.ID]int{},
		}
		m.fonts[f] = cf
		m.order = append(m.order, f)
	}

	if index, ok := cf.indices[gid]; ok {
		return cf.SliceIDs[index/SliceSize], byte(index % SliceSize), nil
	}

	index := len(cf.Glyphs)
	if index%SliceSize == 0 {
		cf.SliceIDs = append(cf.SliceIDs, m.sliceCount)
		m.sliceCount++
	}

	instructions, err := m.render(f, gid)
	if err != nil {
		return 0, 0, err
	}
	cf.Glyphs = append(cf.Glyphs, Glyph{GID: gid, Instructions: instructions})
	cf.indices[gid] = index

	return cf.SliceIDs[index/SliceSize], byte(index % SliceSize), nil
}

// Fonts returns the fonts of the map in first-use order.
func (m *Map) Fonts() []font.Font {
	m.mu.Lock()
	defer m.mu.Unlock()

	res := make([]font.Font, len(m.order))
	copy(res, m.order)
	return res
}

// Get returns the glyphs recorded for a font.
func (m *Map) Get(f font.Font) *ColorFont {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.fonts[f]
}

// Slice identifies one Type 3 font: a group of up to 256 color glyphs
// of a font.
type Slice struct {
	Font    font.Font
	Subfont int
}
