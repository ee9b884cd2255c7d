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
	"fmt"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/font"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/resources"
	"seehuhn.de/go/pdfbuild/tounicode"
)

// writeFonts embeds the fonts of one context as composite Type0 fonts
// with a CIDFontType2 descendant.  Character codes equal CIDs equal the
// glyph IDs of the subset font program.
func (b *builder) writeFonts(ctx *resources.Context, c *chunk.Chunk) error {
	for _, fd := range ctx.Fonts.Items() {
		if _, ok := b.refs.fonts[fd]; ok {
			continue
		}
		ref, err := writeFont(c, ctx, fd)
		if err != nil {
			return pdf.Wrap(err, fd.Font.PostScriptName())
		}
		b.refs.fonts[fd] = ref
	}
	return nil
}

func writeFont(c *chunk.Chunk, ctx *resources.Context, fd *resources.FontData) (pdf.Reference, error) {
	if len(fd.Program) == 0 {
		return 0, fmt.Errorf("missing font program")
	}
	if len(fd.Glyphs) == 0 {
		return 0, fmt.Errorf("empty glyph subset")
	}

	fontDictRef := c.Alloc()
	cidFontRef := c.Alloc()
	descriptorRef := c.Alloc()
	fontFileRef := c.Alloc()

	gids := make([]glyph.ID, len(fd.Glyphs))
	copy(gids, fd.Glyphs)
	subsetTag := font.SubsetTag(gids, fd.Font.NumGlyphs())
	fontName := subsetTag + "+" + fd.Font.PostScriptName()

	q := 1000 / float64(fd.Font.UnitsPerEm())

	widths := make([]float64, len(fd.Glyphs))
	for cid, gid := range fd.Glyphs {
		if adv, ok := fd.Font.GlyphAdvance(gid); ok {
			widths[cid] = float64(adv) * q
		}
	}

	fontDict := pdf.Dict{
		"Type":            pdf.Name("Font"),
		"Subtype":         pdf.Name("Type0"),
		"BaseFont":        pdf.Name(fontName),
		"Encoding":        pdf.Name("Identity-H"),
		"DescendantFonts": pdf.Array{cidFontRef},
	}

	// The ToUnicode CMap covers the glyphs with known text content.  If
	// no text was recorded, the entry is omitted.
	cmap := tounicode.NewTwoByte()
	for cid, gid := range fd.Glyphs {
		text, ok := ctx.GlyphText(fd.Font, gid)
		if !ok || text == "" {
			continue
		}
		cmap.Singles = append(cmap.Singles, tounicode.Single{
			Code: tounicode.CharCode(cid),
			Text: text,
		})
	}
	if len(cmap.Singles) > 0 {
		toUnicodeRef := c.Alloc()
		content.Encode(cmap.Bytes()).PutStream(c, toUnicodeRef, nil)
		fontDict["ToUnicode"] = toUnicodeRef
	}

	c.Put(fontDictRef, fontDict)

	c.Put(cidFontRef, pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("CIDFontType2"),
		"BaseFont": pdf.Name(fontName),
		"CIDSystemInfo": pdf.Dict{
			"Registry":   pdf.String("Adobe"),
			"Ordering":   pdf.String("Identity"),
			"Supplement": pdf.Integer(0),
		},
		"FontDescriptor": descriptorRef,
		"CIDToGIDMap":    pdf.Name("Identity"),
		"W":              encodeWidths(widths),
	})

	bbox := fd.Font.BBox()
	fontBBox := &pdf.Rectangle{
		LLx: bbox.LLx * q,
		LLy: bbox.LLy * q,
		URx: bbox.URx * q,
		URy: bbox.URy * q,
	}
	descriptor := &font.Descriptor{
		FontName:    fontName,
		IsSymbolic:  true,
		FontBBox:    fontBBox,
		ItalicAngle: 0,
		Ascent:      fontBBox.URy,
		Descent:     fontBBox.LLy,
		CapHeight:   fontBBox.URy,
		StemV:       -1,
	}
	descriptorDict := descriptor.AsDict()
	descriptorDict["FontFile2"] = fontFileRef
	c.Put(descriptorRef, descriptorDict)

	content.Encode(fd.Program).PutStream(c, fontFileRef, pdf.Dict{
		"Length1": pdf.Integer(len(fd.Program)),
	})

	return fontDictRef, nil
}

// encodeWidths builds the W array of a CIDFont.  Runs of equal widths
// use the compact "first last width" form.
func encodeWidths(widths []float64) pdf.Array {
	var res pdf.Array

	for start := 0; start < len(widths); {
		end := start + 1
		for end < len(widths) && widths[end] == widths[start] {
			end++
		}

		if end-start >= 4 {
			res = append(res,
				pdf.Integer(start),
				pdf.Integer(end-1),
				pdf.Number(widths[start]))
			start = end
			continue
		}

		// short run: gather everything up to the next long run into one
		// list
		listEnd := end
		for listEnd < len(widths) {
			runEnd := listEnd + 1
			for runEnd < len(widths) && widths[runEnd] == widths[listEnd] {
				runEnd++
			}
			if runEnd-listEnd >= 4 {
				break
			}
			listEnd = runEnd
		}

		list := make(pdf.Array, listEnd-start)
		for i := start; i < listEnd; i++ {
			list[i-start] = pdf.Number(widths[i])
		}
		res = append(res, pdf.Integer(start), list)
		start = listEnd
	}

	return res
}
