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
	"fmt"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/font"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/tounicode"
)

// GlyphText looks up the text content of a glyph.
type GlyphText func(f font.Font, gid glyph.ID) (string, bool)

// WriteSlices writes one Type 3 font per slice of the map into the
// chunk.  All slices share the resource dictionary given by
// resourcesRef.  The references of newly written slices are added to
// out; slices already present in out are skipped.
func (m *Map) WriteSlices(c *chunk.Chunk, resourcesRef pdf.Reference, text GlyphText, out map[Slice]pdf.Reference) {
	for _, f := range m.Fonts() {
		cf := m.Get(f)
		for subfont := 0; subfont < cf.NumSlices(); subfont++ {
			slice := Slice{Font: f, Subfont: subfont}
			if _, ok := out[slice]; ok {
				continue
			}
			out[slice] = writeSlice(c, resourcesRef, f, cf, subfont, text)
		}
	}
}

func writeSlice(c *chunk.Chunk, resourcesRef pdf.Reference, f font.Font, cf *ColorFont, subfont int, text GlyphText) pdf.Reference {
	fontRef := c.Alloc()
	cmapRef := c.Alloc()
	descriptorRef := c.Alloc()
	widthsRef := c.Alloc()

	start := subfont * SliceSize
	end := start + SliceSize
	if end > len(cf.Glyphs) {
		end = len(cf.Glyphs)
	}
	window := cf.Glyphs[start:end]

	unitsPerEm := f.UnitsPerEm()
	q := 1000 / float64(unitsPerEm)

	// One content stream per glyph.  Glyphs the font has no metrics for
	// get a zero advance.
	widths := make(pdf.Array, len(window))
	charProcs := pdf.Dict{}
	gids := make([]glyph.ID, len(window))
	for i, g := range window {
		streamRef := c.Alloc()
		g.Instructions.PutStream(c, streamRef, nil)
		charProcs[glyphName(i)] = streamRef

		var width float64
		if adv, ok := f.GlyphAdvance(g.GID); ok {
			width = float64(adv) * q
		}
		widths[i] = pdf.Number(width)
		gids[i] = g.GID
	}

	differences := make(pdf.Array, 0, len(window)+1)
	differences = append(differences, pdf.Integer(0))
	for i := range window {
		differences = append(differences, glyphName(i))
	}

	bbox := &pdf.Rectangle{
		LLx: cf.BBox.LLx * q,
		LLy: cf.BBox.LLy * q,
		URx: cf.BBox.URx * q,
		URy: cf.BBox.URy * q,
	}

	c.Put(fontRef, pdf.Dict{
		"Type":      pdf.Name("Font"),
		"Subtype":   pdf.Name("Type3"),
		"Resources": resourcesRef,
		"FontBBox":  bbox,
		"FontMatrix": pdf.Array{
			pdf.Number(1 / float64(unitsPerEm)), pdf.Integer(0),
			pdf.Integer(0), pdf.Number(1 / float64(unitsPerEm)),
			pdf.Integer(0), pdf.Integer(0),
		},
		"FirstChar": pdf.Integer(0),
		"LastChar":  pdf.Integer(len(window) - 1),
		"Widths":    widthsRef,
		"CharProcs": charProcs,
		"Encoding": pdf.Dict{
			"Type":        pdf.Name("Encoding"),
			"Differences": differences,
		},
		"ToUnicode":      cmapRef,
		"FontDescriptor": descriptorRef,
	})

	c.Put(widthsRef, widths)

	// A ToUnicode CMap, so that text can be searched and copied.  Glyphs
	// without text content are simply absent.
	cmap := tounicode.New()
	for i, g := range window {
		t, ok := text(f, g.GID)
		if !ok || t == "" {
			continue
		}
		cmap.Singles = append(cmap.Singles, tounicode.Single{
			Code: tounicode.CharCode(i),
			Text: t,
		})
	}
	content.Encode(cmap.Bytes()).PutStream(c, cmapRef, nil)

	tag := font.SubsetTag(gids, f.NumGlyphs())
	descriptor := &font.Descriptor{
		FontName:    tag + "+" + f.PostScriptName(),
		IsSymbolic:  true,
		FontBBox:    bbox,
		Ascent:      bbox.URy,
		Descent:     bbox.LLy,
		CapHeight:   bbox.URy,
		StemV:       -1,
		ItalicAngle: 0,
	}
	c.Put(descriptorRef, descriptor.AsDict())

	return fontRef
}

func glyphName(code int) pdf.Name {
	return pdf.Name(fmt.Sprintf("glyph%d", code))
}
