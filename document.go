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
	"time"

	"golang.org/x/text/language"

	"seehuhn.de/go/pdfbuild/resources"
)

// Document describes a laid-out document, ready to be assembled into a
// PDF file.
type Document struct {
	Pages []*Page

	// Title, Author, Subject and Keywords go into the document
	// information dictionary and the XMP metadata stream.
	Title    string
	Author   string
	Subject  string
	Keywords string

	// Lang is the main language of the document.  If it is the root
	// language tag, the most common language recorded via
	// [resources.Context.AddLang] is used instead.
	Lang language.Tag

	// Ident is a stable identifier for the document.  If non-empty, the
	// PDF file identifier is derived from it, so that exports of
	// successive versions of the same document share the first half of
	// their ID.
	Ident string

	// CreationDate is used for the information dictionary and the
	// metadata stream.  The zero value omits the dates, which keeps the
	// output reproducible.
	CreationDate time.Time

	// FrameRenderer produces the drawing instructions for color glyphs.
	// It must be set if any page uses color glyphs.
	FrameRenderer resources.FrameRenderer

	// SRGBProfile optionally holds an ICC profile for the sRGB color
	// space.  If it is nil, a CalRGB approximation is written instead.
	SRGBProfile []byte
}

// Page is a single page of a document.
type Page struct {
	// Width and Height give the page size in PDF points.
	Width, Height float64

	// Render produces the content stream instructions of the page.
	// Resources used by the page are recorded in the given context; all
	// pages share one context.
	Render func(ctx *resources.Context) ([]byte, error)

	// Dests lists the named destinations pointing at this page.
	Dests []Dest
}

// Dest is a named destination: a position on a page which links and
// document outlines can jump to.
type Dest struct {
	Name string

	// X, Y is the target position on the page, in PDF coordinates.
	X, Y float64
}
