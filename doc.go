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

// Package pdfbuild assembles complete PDF files from documents which
// have already been laid out.
//
// The caller provides, for each page, a function which produces the
// content stream instructions and records the resources it uses.  The
// library takes care of everything else: object numbering, resource
// deduplication, font and image embedding, the packing of color glyphs
// into Type 3 fonts, the page tree, and the document catalog with its
// metadata.
//
// The pages and the resource families are written in a fixed order, so
// that exporting the same document twice gives byte-identical files.
package pdfbuild
