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

package resources

import (
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/font"
	"seehuhn.de/go/pdfbuild/pdf"
)

// ColorSpace selects one of the three color spaces every document
// carries.
type ColorSpace int

const (
	// SRGB is an ICC-based RGB color space using the sRGB profile.
	SRGB ColorSpace = iota

	// D65Gray is a calibrated gray color space with the D65 white point.
	D65Gray

	// Oklab is a perceptually uniform color space, written as a Lab
	// space with the D65 white point.
	Oklab
)

// NumComponents returns the number of color components per sample.
func (cs ColorSpace) NumComponents() int {
	if cs == D65Gray {
		return 1
	}
	return 3
}

// Name returns the name under which the color space appears in every
// resource dictionary.
func (cs ColorSpace) Name() pdf.Name {
	switch cs {
	case SRGB:
		return "SRGB"
	case D65Gray:
		return "D65Gray"
	default:
		return "Oklab"
	}
}

// FontData describes an embedded font: an already subset TrueType
// program, together with the metrics of the font it was cut from.
// Resource contexts deduplicate fonts by pointer identity, so the same
// FontData value must be reused for all occurrences of the font.
type FontData struct {
	// Font gives the metrics of the original font.
	Font font.Font

	// Program is the subset TrueType font program.
	Program []byte

	// Glyphs maps each glyph of the subset program to the corresponding
	// glyph of the original font.  The index in this slice is both the
	// glyph ID within the subset program and the CID used in content
	// streams.
	Glyphs []glyph.ID
}

// ImageData describes a raster image.
type ImageData struct {
	Width, Height    int
	ColorSpace       ColorSpace
	BitsPerComponent int

	// Samples holds the pixel data, row by row, without padding.
	Samples []byte

	// Alpha optionally holds a soft mask with one component per pixel,
	// using the same bit depth as Samples.
	Alpha []byte

	Interpolate bool
}

// GradientKind distinguishes the supported shading types.
type GradientKind int

const (
	// Axial gradients blend along a line between two points.
	Axial GradientKind = iota

	// Radial gradients blend between two circles.
	Radial
)

// Stop is one color stop of a gradient.
type Stop struct {
	// Offset is the position of the stop, between 0 and 1.
	Offset float64

	// Color gives the color components in the gradient's color space.
	Color []float64
}

// Gradient describes an axial or radial shading.
type Gradient struct {
	Kind       GradientKind
	ColorSpace ColorSpace

	// Coords are the shading coordinates: x0 y0 x1 y1 for axial
	// gradients, x0 y0 r0 x1 y1 r1 for radial gradients.
	Coords []float64

	// Stops are the color stops, sorted by offset, with at least two
	// entries.
	Stops []Stop
}

// ExtGState describes an external graphics state dictionary.
type ExtGState struct {
	// StrokeAlpha and FillAlpha are constant alpha values between 0
	// and 1.
	StrokeAlpha float64
	FillAlpha   float64

	// BlendMode is the name of the blend mode, or "" for Normal.
	BlendMode pdf.Name
}

// Pattern describes a tiling pattern.  The pattern cell is rendered once,
// when the pattern is first recorded in a context.
type Pattern struct {
	BBox         pdf.Rectangle
	XStep, YStep float64
	Matrix       matrix.Matrix

	// Render produces the content stream of the pattern cell.  Resources
	// used by the cell are recorded in the given context.
	Render func(ctx *Context) ([]byte, error)

	// Content is set when the pattern is first recorded.
	Content *content.Encoded
}
