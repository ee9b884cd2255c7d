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

package pdfbuild

import (
	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/resources"
)

// writeColorFonts writes the Type 3 fonts holding the color glyphs of
// one context.  The glyph content streams draw from the nested context,
// but their ToUnicode text comes from the context the glyphs were used
// in.
func (b *builder) writeColorFonts(ctx *resources.Context, c *chunk.Chunk) error {
	m, nested := ctx.ColorFonts()
	if m == nil {
		return nil
	}
	m.WriteSlices(c, nested.DictRef, ctx.GlyphText, b.refs.colorFonts)
	return nil
}
