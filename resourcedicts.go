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

	"seehuhn.de/go/pdfbuild/colorfont"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/resources"
)

// writeGlobalResources writes the resource dictionary of every context.
// The dictionaries come last, once the final position of every resource
// is known.
func (b *builder) writeGlobalResources() error {
	return b.tree.Traverse(func(ctx *resources.Context) error {
		b.out.Put(ctx.DictRef, b.resourceDict(ctx))
		return nil
	})
}

func (b *builder) resourceDict(ctx *resources.Context) pdf.Dict {
	fonts := pdf.Dict{}
	for i, fd := range ctx.Fonts.Items() {
		fonts[pdf.Name(fmt.Sprintf("F%d", i))] = b.refs.fonts[fd]
	}
	if m, _ := ctx.ColorFonts(); m != nil {
		for _, f := range m.Fonts() {
			cf := m.Get(f)
			for subfont, sliceID := range cf.SliceIDs {
				slice := colorfont.Slice{Font: f, Subfont: subfont}
				fonts[pdf.Name(fmt.Sprintf("Cf%d", sliceID))] = b.refs.colorFonts[slice]
			}
		}
	}

	xObjects := pdf.Dict{}
	for i, img := range ctx.Images.Items() {
		xObjects[pdf.Name(fmt.Sprintf("Im%d", i))] = b.refs.images[img]
	}

	shadings := pdf.Dict{}
	for i, g := range ctx.Gradients.Items() {
		shadings[pdf.Name(fmt.Sprintf("Gr%d", i))] = b.refs.gradients[g]
	}

	extGStates := pdf.Dict{}
	for i, gs := range ctx.ExtGStates.Items() {
		extGStates[pdf.Name(fmt.Sprintf("Gs%d", i))] = b.refs.extGStates[gs]
	}

	patterns := pdf.Dict{}
	for i, p := range ctx.Patterns.Items() {
		patterns[pdf.Name(fmt.Sprintf("P%d", i))] = b.refs.patterns[p]
	}

	dict := pdf.Dict{
		// The color spaces are available in every context, used or not.
		"ColorSpace": pdf.Dict{
			resources.SRGB.Name():    b.globals.SRGB,
			resources.D65Gray.Name(): b.globals.D65Gray,
			resources.Oklab.Name():   b.globals.Oklab,
		},
	}
	if len(fonts) > 0 {
		dict["Font"] = fonts
	}
	if len(xObjects) > 0 {
		dict["XObject"] = xObjects
	}
	if len(shadings) > 0 {
		dict["Shading"] = shadings
	}
	if len(extGStates) > 0 {
		dict["ExtGState"] = extGStates
	}
	if len(patterns) > 0 {
		dict["Pattern"] = patterns
	}
	return dict
}
