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
	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/resources"
)

// writeImages writes the images of one context as image XObjects.  The
// sample data is run through the PNG "Up" predictor and deflated in the
// background; an alpha channel becomes a soft mask.
func (b *builder) writeImages(ctx *resources.Context, c *chunk.Chunk) error {
	for i, img := range ctx.Images.Items() {
		if _, ok := b.refs.images[img]; ok {
			continue
		}
		ref, err := b.writeImage(c, img)
		if err != nil {
			return pdf.Wrap(err, fmt.Sprintf("image %d", i))
		}
		b.refs.images[img] = ref
	}
	return nil
}

func (b *builder) writeImage(c *chunk.Chunk, img *resources.ImageData) (pdf.Reference, error) {
	if img.Width <= 0 || img.Height <= 0 {
		return 0, fmt.Errorf("invalid size %dx%d", img.Width, img.Height)
	}
	switch img.BitsPerComponent {
	case 1, 2, 4, 8, 16:
		// ok
	default:
		return 0, fmt.Errorf("invalid bit depth %d", img.BitsPerComponent)
	}

	var colorSpace pdf.Object
	switch img.ColorSpace {
	case resources.SRGB:
		colorSpace = b.globals.SRGB
	case resources.D65Gray:
		colorSpace = b.globals.D65Gray
	default:
		return 0, fmt.Errorf("unsupported image color space")
	}

	rowBytes := (img.Width*img.ColorSpace.NumComponents()*img.BitsPerComponent + 7) / 8
	need := rowBytes * img.Height
	if len(img.Samples) != need {
		return 0, fmt.Errorf("got %d bytes of samples, expected %d", len(img.Samples), need)
	}

	ref := c.Alloc()
	dict := pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Integer(img.Width),
		"Height":           pdf.Integer(img.Height),
		"ColorSpace":       colorSpace,
		"BitsPerComponent": pdf.Integer(img.BitsPerComponent),
		"DecodeParms": pdf.Dict{
			"Predictor":        pdf.Integer(12),
			"Colors":           pdf.Integer(img.ColorSpace.NumComponents()),
			"BitsPerComponent": pdf.Integer(img.BitsPerComponent),
			"Columns":          pdf.Integer(img.Width),
		},
	}
	if img.Interpolate {
		dict["Interpolate"] = pdf.Bool(true)
	}

	if img.Alpha != nil {
		alphaRowBytes := (img.Width*img.BitsPerComponent + 7) / 8
		alphaNeed := alphaRowBytes * img.Height
		if len(img.Alpha) != alphaNeed {
			return 0, fmt.Errorf("got %d bytes of alpha, expected %d", len(img.Alpha), alphaNeed)
		}
		alpha, err := pdf.PredictUp(img.Alpha, alphaRowBytes)
		if err != nil {
			return 0, err
		}

		maskRef := c.Alloc()
		content.Encode(alpha).PutStream(c, maskRef, pdf.Dict{
			"Type":             pdf.Name("XObject"),
			"Subtype":          pdf.Name("Image"),
			"Width":            pdf.Integer(img.Width),
			"Height":           pdf.Integer(img.Height),
			"ColorSpace":       pdf.Name("DeviceGray"),
			"BitsPerComponent": pdf.Integer(img.BitsPerComponent),
			"DecodeParms": pdf.Dict{
				"Predictor":        pdf.Integer(12),
				"BitsPerComponent": pdf.Integer(img.BitsPerComponent),
				"Columns":          pdf.Integer(img.Width),
			},
		})
		dict["SMask"] = maskRef
	}

	samples, err := pdf.PredictUp(img.Samples, rowBytes)
	if err != nil {
		return 0, err
	}
	content.Encode(samples).PutStream(c, ref, dict)
	return ref, nil
}
