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

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/resources"
)

// writePatterns writes the tiling patterns of one context.  The pattern
// cells were already rendered during discovery; their resources live in
// the context's pattern subcontext.
func (b *builder) writePatterns(ctx *resources.Context, c *chunk.Chunk) error {
	patternCtx := ctx.PatternContext()
	for i, p := range ctx.Patterns.Items() {
		if _, ok := b.refs.patterns[p]; ok {
			continue
		}
		ref, err := writePattern(c, patternCtx, p)
		if err != nil {
			return pdf.Wrap(err, fmt.Sprintf("pattern %d", i))
		}
		b.refs.patterns[p] = ref
	}
	return nil
}

func writePattern(c *chunk.Chunk, patternCtx *resources.Context, p *resources.Pattern) (pdf.Reference, error) {
	if p.Content == nil {
		return 0, fmt.Errorf("pattern cell was never rendered")
	}
	if p.XStep == 0 || p.YStep == 0 {
		return 0, fmt.Errorf("zero step size")
	}

	m := p.Matrix
	if m == (matrix.Matrix{}) {
		m = matrix.Identity
	}

	dict := pdf.Dict{
		"Type":        pdf.Name("Pattern"),
		"PatternType": pdf.Integer(1),
		"PaintType":   pdf.Integer(1),
		"TilingType":  pdf.Integer(1),
		"BBox":        &p.BBox,
		"XStep":       pdf.Number(p.XStep),
		"YStep":       pdf.Number(p.YStep),
		"Resources":   patternCtx.DictRef,
		"Matrix": pdf.Array{
			pdf.Number(m[0]), pdf.Number(m[1]),
			pdf.Number(m[2]), pdf.Number(m[3]),
			pdf.Number(m[4]), pdf.Number(m[5]),
		},
	}

	ref := c.Alloc()
	p.Content.PutStream(c, ref, dict)
	return ref, nil
}
