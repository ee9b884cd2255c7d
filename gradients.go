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

// writeGradients writes the gradients of one context as shading
// dictionaries.  The color blend is a chain of exponential functions,
// one per pair of adjacent stops, combined by a stitching function.
func (b *builder) writeGradients(ctx *resources.Context, c *chunk.Chunk) error {
	for i, g := range ctx.Gradients.Items() {
		if _, ok := b.refs.gradients[g]; ok {
			continue
		}
		ref, err := b.writeGradient(c, g)
		if err != nil {
			return pdf.Wrap(err, fmt.Sprintf("gradient %d", i))
		}
		b.refs.gradients[g] = ref
	}
	return nil
}

func (b *builder) writeGradient(c *chunk.Chunk, g *resources.Gradient) (pdf.Reference, error) {
	var shadingType pdf.Integer
	var numCoords int
	switch g.Kind {
	case resources.Axial:
		shadingType = 2
		numCoords = 4
	case resources.Radial:
		shadingType = 3
		numCoords = 6
	default:
		return 0, fmt.Errorf("unknown gradient kind %d", g.Kind)
	}
	if len(g.Coords) != numCoords {
		return 0, fmt.Errorf("got %d coordinates, expected %d", len(g.Coords), numCoords)
	}

	var colorSpace pdf.Object
	switch g.ColorSpace {
	case resources.SRGB:
		colorSpace = b.globals.SRGB
	case resources.D65Gray:
		colorSpace = b.globals.D65Gray
	case resources.Oklab:
		colorSpace = b.globals.Oklab
	default:
		return 0, fmt.Errorf("unknown color space %d", g.ColorSpace)
	}

	fn, err := blendFunction(g)
	if err != nil {
		return 0, err
	}

	coords := make(pdf.Array, numCoords)
	for i, x := range g.Coords {
		coords[i] = pdf.Number(x)
	}

	ref := c.Alloc()
	c.Put(ref, pdf.Dict{
		"ShadingType": shadingType,
		"ColorSpace":  colorSpace,
		"Coords":      coords,
		"Function":    fn,
		"Extend":      pdf.Array{pdf.Bool(true), pdf.Bool(true)},
		"AntiAlias":   pdf.Bool(true),
	})
	return ref, nil
}

func blendFunction(g *resources.Gradient) (pdf.Object, error) {
	stops := g.Stops
	if len(stops) < 2 {
		return nil, fmt.Errorf("got %d stops, need at least 2", len(stops))
	}
	numComponents := g.ColorSpace.NumComponents()
	for i, stop := range stops {
		if len(stop.Color) != numComponents {
			return nil, fmt.Errorf("stop %d: got %d components, expected %d",
				i, len(stop.Color), numComponents)
		}
		if stop.Offset < 0 || stop.Offset > 1 {
			return nil, fmt.Errorf("stop %d: offset %g outside [0, 1]", i, stop.Offset)
		}
		if i > 0 && stop.Offset < stops[i-1].Offset {
			return nil, fmt.Errorf("stop %d: offsets out of order", i)
		}
	}

	if len(stops) == 2 {
		return exponential(stops[0], stops[1]), nil
	}

	functions := make(pdf.Array, len(stops)-1)
	bounds := make(pdf.Array, 0, len(stops)-2)
	encode := make(pdf.Array, 0, 2*(len(stops)-1))
	for i := 0; i < len(stops)-1; i++ {
		functions[i] = exponential(stops[i], stops[i+1])
		if i > 0 {
			bounds = append(bounds, pdf.Number(stops[i].Offset))
		}
		encode = append(encode, pdf.Integer(0), pdf.Integer(1))
	}

	return pdf.Dict{
		"FunctionType": pdf.Integer(3),
		"Domain":       pdf.Array{pdf.Integer(0), pdf.Integer(1)},
		"Functions":    functions,
		"Bounds":       bounds,
		"Encode":       encode,
	}, nil
}

func exponential(from, to resources.Stop) pdf.Dict {
	c0 := make(pdf.Array, len(from.Color))
	c1 := make(pdf.Array, len(to.Color))
	for i := range from.Color {
		c0[i] = pdf.Number(from.Color[i])
		c1[i] = pdf.Number(to.Color[i])
	}
	return pdf.Dict{
		"FunctionType": pdf.Integer(2),
		"Domain":       pdf.Array{pdf.Integer(0), pdf.Integer(1)},
		"C0":           c0,
		"C1":           c1,
		"N":            pdf.Integer(1),
	}
}
