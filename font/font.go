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

// Package font describes the font information needed to assemble a PDF
// file.  Glyph shaping and subsetting happen elsewhere; here a font is
// only a source of metrics and naming.
package font

import (
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"
)

// Font provides the metrics of a font.
//
// Implementations must be comparable, so that fonts can be used as map
// keys for deduplication.
type Font interface {
	// PostScriptName returns the PostScript name of the font.
	PostScriptName() string

	// UnitsPerEm returns the size of the font design grid.
	UnitsPerEm() uint16

	// GlyphAdvance returns the advance width of a glyph in font units.
	// The second return value is false if the font has no metrics for
	// the glyph.
	GlyphAdvance(gid glyph.ID) (funit.Int16, bool)

	// BBox returns the font bounding box in font units.
	BBox() rect.Rect

	// NumGlyphs returns the number of glyphs in the font.
	NumGlyphs() int
}

// FromSfnt returns a Font backed by a parsed sfnt font.
func FromSfnt(info *sfnt.Font) Font {
	return &sfntFont{info}
}

type sfntFont struct {
	info *sfnt.Font
}

func (f *sfntFont) PostScriptName() string {
	return f.info.PostScriptName()
}

func (f *sfntFont) UnitsPerEm() uint16 {
	return f.info.UnitsPerEm
}

func (f *sfntFont) GlyphAdvance(gid glyph.ID) (funit.Int16, bool) {
	if int(gid) >= f.info.NumGlyphs() {
		return 0, false
	}
	return funit.Int16(math.Round(f.info.GlyphWidth(gid))), true
}

func (f *sfntFont) BBox() rect.Rect {
	// FontBBoxPDF uses PDF glyph space units (1/1000 em).
	q := float64(f.info.UnitsPerEm) / 1000
	bbox := f.info.FontBBoxPDF()
	return rect.Rect{
		LLx: math.Floor(bbox.LLx * q),
		LLy: math.Floor(bbox.LLy * q),
		URx: math.Ceil(bbox.URx * q),
		URy: math.Ceil(bbox.URy * q),
	}
}

func (f *sfntFont) NumGlyphs() int {
	return f.info.NumGlyphs()
}
