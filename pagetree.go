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

	"seehuhn.de/go/pdfbuild/pdf"
)

// writePageTree writes the page dictionaries and the page tree root.
// The object numbers were allocated up front, so the content streams
// could refer to the pages before this point.
func (b *builder) writePageTree() error {
	kids := make(pdf.Array, len(b.doc.Pages))
	for i, page := range b.doc.Pages {
		if page.Width <= 0 || page.Height <= 0 {
			return fmt.Errorf("page %d: invalid size %g x %g", i+1, page.Width, page.Height)
		}

		b.out.Put(b.globals.Pages[i], pdf.Dict{
			"Type":   pdf.Name("Page"),
			"Parent": b.globals.PageTree,
			"MediaBox": &pdf.Rectangle{
				URx: page.Width,
				URy: page.Height,
			},
			"Contents":  b.refs.pageContents[i],
			"Resources": b.globals.Resources,
		})
		kids[i] = b.globals.Pages[i]
	}

	b.out.Put(b.globals.PageTree, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  kids,
		"Count": pdf.Integer(len(kids)),
	})
	return nil
}
