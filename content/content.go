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

// Package content holds encoded content streams while the document is
// being assembled.
package content

import (
	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/deferred"
	"seehuhn.de/go/pdfbuild/pdf"
)

// values memoizes compression across all content streams of the process,
// so that identical streams are compressed only once.
var values deferred.Values

// Encoded is a content stream whose compressed form is still being
// computed in the background.
type Encoded struct {
	compressed *deferred.Bytes
}

// Encode starts compressing the given content stream instructions.
func Encode(instructions []byte) *Encoded {
	return &Encoded{
		compressed: values.Deflate(instructions),
	}
}

// PutStream waits for the compressed data and stores it in the chunk
// under ref, with the FlateDecode filter set.
func (e *Encoded) PutStream(c *chunk.Chunk, ref pdf.Reference, dict pdf.Dict) {
	c.PutCompressedStream(ref, dict, e.compressed.Wait())
}
