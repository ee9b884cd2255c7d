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

	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/resources"
)

// writeExtGStates writes the graphics state dictionaries of one
// context.
func (b *builder) writeExtGStates(ctx *resources.Context, c *chunk.Chunk) error {
	for i, gs := range ctx.ExtGStates.Items() {
		if _, ok := b.refs.extGStates[gs]; ok {
			continue
		}
		ref, err := writeExtGState(c, gs)
		if err != nil {
			return pdf.Wrap(err, fmt.Sprintf("graphics state %d", i))
		}
		b.refs.extGStates[gs] = ref
	}
	return nil
}

func writeExtGState(c *chunk.Chunk, gs *resources.ExtGState) (pdf.Reference, error) {
	if gs.StrokeAlpha < 0 || gs.StrokeAlpha > 1 {
		return 0, fmt.Errorf("stroke alpha %g outside [0, 1]", gs.StrokeAlpha)
	}
	if gs.FillAlpha < 0 || gs.FillAlpha > 1 {
		return 0, fmt.Errorf("fill alpha %g outside [0, 1]", gs.FillAlpha)
	}

	dict := pdf.Dict{
		"Type": pdf.Name("ExtGState"),
		"CA":   pdf.Number(gs.StrokeAlpha),
		"ca":   pdf.Number(gs.FillAlpha),
	}
	if gs.BlendMode != "" {
		dict["BM"] = gs.BlendMode
	}

	ref := c.Alloc()
	c.Put(ref, dict)
	return ref, nil
}
