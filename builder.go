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
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/colorfont"
	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/font"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/resources"

	"seehuhn.de/go/sfnt/glyph"
)

// Export assembles the document into a complete PDF file.
func Export(doc *Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := doc.Write(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write assembles the document and writes the PDF file to w.
func (doc *Document) Write(w io.Writer) error {
	b := newBuilder(doc)

	err := b.construct()
	if err != nil {
		return err
	}

	families := []struct {
		name  string
		write func(*resources.Context, *chunk.Chunk) error
	}{
		{"color fonts", b.writeColorFonts},
		{"fonts", b.writeFonts},
		{"images", b.writeImages},
		{"gradients", b.writeGradients},
		{"graphics states", b.writeExtGStates},
		{"patterns", b.writePatterns},
		{"named destinations", b.writeDests},
	}
	for _, family := range families {
		err = b.withResource(family.write)
		if err != nil {
			return pdf.Wrap(err, family.name)
		}
	}

	err = b.write(b.writePageTree)
	if err != nil {
		return err
	}
	err = b.write(b.writeGlobalResources)
	if err != nil {
		return err
	}
	err = b.write(b.writeCatalog)
	if err != nil {
		return err
	}

	return b.export(w)
}

type phase int

const (
	phaseConstruct phase = iota
	phaseResources
	phaseWrite
	phaseDone
)

// references records where each resource ended up in the file, after
// all renumbering.
type references struct {
	pageContents []pdf.Reference
	colorFonts   map[colorfont.Slice]pdf.Reference
	fonts        map[*resources.FontData]pdf.Reference
	images       map[*resources.ImageData]pdf.Reference
	gradients    map[*resources.Gradient]pdf.Reference
	extGStates   map[*resources.ExtGState]pdf.Reference
	patterns     map[*resources.Pattern]pdf.Reference
	dests        map[string]pdf.Reference
}

func newReferences(pageCount int) *references {
	return &references{
		pageContents: make([]pdf.Reference, pageCount),
		colorFonts:   map[colorfont.Slice]pdf.Reference{},
		fonts:        map[*resources.FontData]pdf.Reference{},
		images:       map[*resources.ImageData]pdf.Reference{},
		gradients:    map[*resources.Gradient]pdf.Reference{},
		extGStates:   map[*resources.ExtGState]pdf.Reference{},
		patterns:     map[*resources.Pattern]pdf.Reference{},
		dests:        map[string]pdf.Reference{},
	}
}

// Renumber implements the [chunk.Renumberable] interface.
func (r *references) Renumber(old, new pdf.Reference) {
	for i, ref := range r.pageContents {
		if ref == old {
			r.pageContents[i] = new
		}
	}
	for key, ref := range r.colorFonts {
		if ref == old {
			r.colorFonts[key] = new
		}
	}
	for key, ref := range r.fonts {
		if ref == old {
			r.fonts[key] = new
		}
	}
	for key, ref := range r.images {
		if ref == old {
			r.images[key] = new
		}
	}
	for key, ref := range r.gradients {
		if ref == old {
			r.gradients[key] = new
		}
	}
	for key, ref := range r.extGStates {
		if ref == old {
			r.extGStates[key] = new
		}
	}
	for key, ref := range r.patterns {
		if ref == old {
			r.patterns[key] = new
		}
	}
	for key, ref := range r.dests {
		if ref == old {
			r.dests[key] = new
		}
	}
}

// builder drives the assembly of one document.  The phases must run in
// order: construct, then the resource families, then the global
// structures, then export.
type builder struct {
	doc     *Document
	out     *pdf.Data
	alloc   *chunk.Allocator
	globals *chunk.Globals
	tree    *resources.Tree
	refs    *references
	phase   phase
}

func newBuilder(doc *Document) *builder {
	return &builder{
		doc:   doc,
		out:   pdf.NewData(pdf.V1_7),
		alloc: chunk.NewAllocator(),
		refs:  newReferences(len(doc.Pages)),
	}
}

// construct renders all pages in order and writes their content
// streams.
func (b *builder) construct() error {
	if b.phase != phaseConstruct {
		panic("construct called out of order")
	}
	b.phase = phaseResources

	b.globals = b.alloc.AllocGlobals(len(b.doc.Pages))

	renderer := b.doc.FrameRenderer
	if renderer == nil {
		renderer = func(f font.Font, gid glyph.ID, ctx *resources.Context) ([]byte, error) {
			return nil, fmt.Errorf("color glyph %d of %q used, but no frame renderer is set",
				gid, f.PostScriptName())
		}
	}
	b.tree = resources.NewTree(b.alloc, b.globals.Resources, renderer)

	// Render first, then write: compression of the content streams runs
	// in the background while the remaining pages render.
	encoded := make([]*content.Encoded, len(b.doc.Pages))
	for i, page := range b.doc.Pages {
		instructions, err := page.Render(b.tree.Root())
		if err != nil {
			return pdf.Wrap(err, fmt.Sprintf("page %d", i+1))
		}
		encoded[i] = content.Encode(instructions)
	}

	c := b.alloc.NewChunk()
	for i, enc := range encoded {
		ref := c.Alloc()
		enc.PutStream(c, ref, nil)
		b.refs.pageContents[i] = ref
	}
	b.merge(c, map[pdf.Reference]pdf.Reference{})

	return nil
}

// withResource runs one resource family over the whole context tree.
// Each context gets a chunk of its own; the rewrite table is shared, so
// that references between the chunks of one family stay intact.
func (b *builder) withResource(write func(*resources.Context, *chunk.Chunk) error) error {
	if b.phase != phaseResources {
		panic("resource family written out of order")
	}

	mapping := map[pdf.Reference]pdf.Reference{}
	return b.tree.Traverse(func(ctx *resources.Context) error {
		c := b.alloc.NewChunk()
		err := write(ctx, c)
		if err != nil {
			return err
		}
		b.merge(c, mapping)
		return nil
	})
}

func (b *builder) merge(c *chunk.Chunk, mapping map[pdf.Reference]pdf.Reference) {
	c.RenumberInto(b.out, b.alloc.Threshold(), b.alloc, mapping)
	chunk.ApplyMapping(mapping, b.refs)
}

// write runs one of the global structure writers.  These write directly
// into the document, without an intermediate chunk: at this point all
// references they use are final.
func (b *builder) write(fn func() error) error {
	if b.phase == phaseResources {
		b.phase = phaseWrite
	}
	if b.phase != phaseWrite {
		panic("global structures written out of order")
	}
	return fn()
}

func (b *builder) export(w io.Writer) error {
	if b.phase != phaseWrite {
		panic("export called out of order")
	}
	b.phase = phaseDone

	return b.out.Write(w)
}
