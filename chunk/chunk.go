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

// Package chunk provides relocatable groups of PDF objects.
//
// Each chunk allocates object numbers from its own section of the number
// space, so that independent chunks can be built without coordination and
// merged into one document afterwards.  During the merge, references to
// globally allocated objects pass through unchanged, while chunk-local
// references are rewritten to freshly allocated numbers.
package chunk

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"seehuhn.de/go/pdfbuild/pdf"
)

// SectionSize is the number of object numbers available to each chunk.
// Globally allocated numbers are always smaller than SectionSize.
const SectionSize = 1_000_000

// maxSection is the first section whose object numbers no longer fit
// into the 32 bit number part of a [pdf.Reference].
const maxSection = math.MaxUint32 / SectionSize

// Allocator hands out globally valid object numbers, and seeds chunks
// with disjoint sections of the number space.  It is safe for concurrent
// use.
type Allocator struct {
	mu      sync.Mutex
	next    uint32
	section uint32
}

// NewAllocator creates an allocator.  Global numbers start at 1, chunk
// sections at SectionSize.
func NewAllocator() *Allocator {
	return &Allocator{next: 1, section: 1}
}

// Alloc returns the next free global object number.
func (a *Allocator) Alloc() pdf.Reference {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.alloc()
}

func (a *Allocator) alloc() pdf.Reference {
	if a.next >= SectionSize {
		panic("global object numbers exhausted")
	}
	ref := pdf.NewReference(a.next, 0)
	a.next++
	return ref
}

// Threshold returns the first object number which has not been globally
// allocated.  During a merge, references below the threshold are mapped
// to themselves.
func (a *Allocator) Threshold() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

// NewChunk returns an empty chunk seeded with the next free section of
// the object number space.
func (a *Allocator) NewChunk() *Chunk {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.section >= maxSection {
		panic("chunk sections exhausted")
	}
	c := &Chunk{
		base:    a.section * SectionSize,
		objects: map[pdf.Reference]pdf.Object{},
	}
	c.next = c.base
	a.section++
	return c
}

// Globals holds the references which are allocated before any page or
// resource is written, and which every chunk may refer to directly.
type Globals struct {
	// Resources is the global resource dictionary, shared by all pages.
	Resources pdf.Reference

	// PageTree is the root of the page tree.
	PageTree pdf.Reference

	// Pages has one reference per page, in page order.
	Pages []pdf.Reference

	// Color space references, always allocated whether used or not.
	Oklab   pdf.Reference
	D65Gray pdf.Reference
	SRGB    pdf.Reference
}

// AllocGlobals performs the global allocation for a document with the
// given number of pages.  It must be called exactly once per allocator,
// before any call to Alloc.
func (a *Allocator) AllocGlobals(pageCount int) *Globals {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.next != 1 {
		panic("global allocation must come first")
	}

	g := &Globals{}
	g.Resources = a.alloc()
	g.PageTree = a.alloc()
	g.Pages = make([]pdf.Reference, pageCount)
	for i := range g.Pages {
		g.Pages[i] = a.alloc()
	}
	g.Oklab = a.alloc()
	g.D65Gray = a.alloc()
	g.SRGB = a.alloc()
	return g
}

// A Chunk is a collection of indirect objects with chunk-local numbering.
type Chunk struct {
	base    uint32
	next    uint32
	objects map[pdf.Reference]pdf.Object
}

// Alloc returns the next free chunk-local object number.
func (c *Chunk) Alloc() pdf.Reference {
	if c.next-c.base >= SectionSize {
		panic("chunk section exhausted")
	}
	ref := pdf.NewReference(c.next, 0)
	c.next++
	return ref
}

// Put stores obj under ref.  Numbers must not be reused.
func (c *Chunk) Put(ref pdf.Reference, obj pdf.Object) {
	if _, ok := c.objects[ref]; ok {
		panic(fmt.Sprintf("object %s defined twice", ref))
	}
	c.objects[ref] = obj
}

// PutStream stores a stream object under ref.  The dict may be nil; the
// Length entry is filled in.  The data must already be in its final,
// encoded form: set the Filter entry in dict accordingly.
func (c *Chunk) PutStream(ref pdf.Reference, dict pdf.Dict, data []byte) {
	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = pdf.Dict{}
	}
	streamDict["Length"] = pdf.Integer(len(data))
	c.Put(ref, &pdf.Stream{
		Dict: streamDict,
		R:    bytes.NewReader(data),
	})
}

// PutCompressedStream is like PutStream for zlib-compressed data; it adds
// the FlateDecode filter entry.
func (c *Chunk) PutCompressedStream(ref pdf.Reference, dict pdf.Dict, compressed []byte) {
	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = pdf.Dict{}
	}
	streamDict["Filter"] = pdf.Name("FlateDecode")
	c.PutStream(ref, streamDict, compressed)
}

// Len returns the number of objects in the chunk.
func (c *Chunk) Len() int {
	return len(c.objects)
}

// RenumberInto moves all objects of the chunk into dst, rewriting every
// reference at or above threshold to a fresh global number from alloc.
// References below threshold are kept as they are.  The rewrites are
// recorded in mapping, which is shared between the chunks of one phase so
// that cross-chunk references stay intact.
func (c *Chunk) RenumberInto(dst *pdf.Data, threshold uint32, alloc *Allocator, mapping map[pdf.Reference]pdf.Reference) {
	translate := func(ref pdf.Reference) pdf.Reference {
		if ref.Number() < threshold {
			return ref
		}
		new, ok := mapping[ref]
		if !ok {
			new = alloc.Alloc()
			mapping[ref] = new
		}
		return new
	}

	refs := maps.Keys(c.objects)
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Number() < refs[j].Number()
	})
	for _, ref := range refs {
		dst.Put(translate(ref), renumber(c.objects[ref], translate))
	}
	c.objects = map[pdf.Reference]pdf.Object{}
}

// renumber returns a copy of obj with all references translated.
func renumber(obj pdf.Object, translate func(pdf.Reference) pdf.Reference) pdf.Object {
	switch x := obj.(type) {
	case pdf.Reference:
		return translate(x)
	case pdf.Dict:
		res := pdf.Dict{}
		for key, val := range x {
			res[key] = renumber(val, translate)
		}
		return res
	case pdf.Array:
		res := make(pdf.Array, len(x))
		for i, val := range x {
			res[i] = renumber(val, translate)
		}
		return res
	case *pdf.Stream:
		dict, _ := renumber(x.Dict, translate).(pdf.Dict)
		return &pdf.Stream{Dict: dict, R: x.R}
	default:
		return obj
	}
}

// Renumberable is implemented by collections which record references and
// need to follow them through a merge.
type Renumberable interface {
	Renumber(old, new pdf.Reference)
}

// ApplyMapping replays all rewrites of a merge on the given collections.
func ApplyMapping(mapping map[pdf.Reference]pdf.Reference, outputs ...Renumberable) {
	olds := maps.Keys(mapping)
	sort.Slice(olds, func(i, j int) bool {
		return olds[i].Number() < olds[j].Number()
	})
	for _, old := range olds {
		for _, output := range outputs {
			output.Renumber(old, mapping[old])
		}
	}
}
