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

// writeDests writes the named destinations of the document.  The
// destinations are declared on the pages, but the name space is
// document-wide, so only the root context carries them.
func (b *builder) writeDests(ctx *resources.Context, c *chunk.Chunk) error {
	if ctx != b.tree.Root() {
		return nil
	}

	for i, page := range b.doc.Pages {
		pageRef := b.globals.Pages[i]
		for _, dest := range page.Dests {
			if dest.Name == "" {
				return fmt.Errorf("page %d: destination with empty name", i+1)
			}
			if _, ok := b.refs.dests[dest.Name]; ok {
				return fmt.Errorf("page %d: destination %q defined twice", i+1, dest.Name)
			}

			ref := c.Alloc()
			c.Put(ref, pdf.Array{
				pageRef,
				pdf.Name("XYZ"),
				pdf.Number(dest.X),
				pdf.Number(dest.Y),
				nil,
			})
			b.refs.dests[dest.Name] = ref
		}
	}
	return nil
}
