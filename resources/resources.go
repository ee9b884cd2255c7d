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

// Package resources tracks the resources used by the content streams of
// a document.
//
// Each content stream draws from one resource context: the pages share
// the root context, while tiling patterns and the glyphs of color fonts
// have nested contexts of their own.  A context deduplicates the
// resources recorded in it and assigns their names in the associated
// resource dictionary.
package resources

import (
	"fmt"

	"golang.org/x/text/language"

	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/pdfbuild/chunk"
	"seehuhn.de/go/pdfbuild/colorfont"
	"seehuhn.de/go/pdfbuild/content"
	"seehuhn.de/go/pdfbuild/font"
	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/remap"
)

// MaxDepth is the maximum nesting depth of resource contexts.  Patterns
// inside color glyphs inside patterns can nest contexts without limit in
// principle; beyond this depth the document is rejected.
const MaxDepth = 8

// FrameRenderer turns a color glyph into content stream instructions.
// Resources used by the glyph are recorded in the given context.
type FrameRenderer func(f font.Font, gid glyph.ID, ctx *Context) ([]byte, error)

// Tree is the arena holding all resource contexts of a document.
type Tree struct {
	alloc    *chunk.Allocator
	renderer FrameRenderer
	root     *Context
}

// NewTree creates a context tree.  The root context uses rootDictRef as
// its resource dictionary; nested contexts allocate their dictionary
// references from alloc as they are created.
func NewTree(alloc *chunk.Allocator, rootDictRef pdf.Reference, renderer FrameRenderer) *Tree {
	t := &Tree{
		alloc:    alloc,
		renderer: renderer,
	}
	t.root = t.newContext(0, rootDictRef)
	return t
}

// Root returns the root context, used by the page content streams.
func (t *Tree) Root() *Context {
	return t.root
}

// Traverse calls fn for every context in the tree, parents before
// children, color font contexts before pattern contexts.  This is the
// order in which resource families visit the tree.
func (t *Tree) Traverse(fn func(*Context) error) error {
	return t.root.traverse(fn)
}

func (t *Tree) newContext(depth int, dictRef pdf.Reference) *Context {
	return &Context{
		tree:       t,
		depth:      depth,
		DictRef:    dictRef,
		Fonts:      remap.New[*FontData](),
		Images:     remap.New[*ImageData](),
		Gradients:  remap.New[*Gradient](),
		ExtGStates: remap.New[*ExtGState](),
		Patterns:   remap.New[*Pattern](),
		glyphText:  map[font.Font]map[glyph.ID]string{},
		langs:      map[language.Tag]int{},
	}
}

// Context is one node of the resource context tree.
type Context struct {
	tree  *Tree
	depth int

	// DictRef is the reference of the resource dictionary which the
	// content streams of this context use.
	DictRef pdf.Reference

	Fonts      *remap.Remapper[*FontData]
	Images     *remap.Remapper[*ImageData]
	Gradients  *remap.Remapper[*Gradient]
	ExtGStates *remap.Remapper[*ExtGState]
	Patterns   *remap.Remapper[*Pattern]

	colorFonts   *colorfont.Map
	colorFontCtx *Context
	patternCtx   *Context

	glyphText map[font.Font]map[glyph.ID]string
	langs     map[language.Tag]int
}

// Font records the use of a font and returns its resource name.
func (c *Context) Font(f *FontData) pdf.Name {
	return pdf.Name(fmt.Sprintf("F%d", c.Fonts.Insert(f)))
}

// Image records the use of an image and returns its resource name.
func (c *Context) Image(img *ImageData) pdf.Name {
	return pdf.Name(fmt.Sprintf("Im%d", c.Images.Insert(img)))
}

// Gradient records the use of a gradient and returns its resource name.
func (c *Context) Gradient(g *Gradient) pdf.Name {
	return pdf.Name(fmt.Sprintf("Gr%d", c.Gradients.Insert(g)))
}

// ExtGState records the use of a graphics state and returns its resource
// name.
func (c *Context) ExtGState(g *ExtGState) pdf.Name {
	return pdf.Name(fmt.Sprintf("Gs%d", c.ExtGStates.Insert(g)))
}

// Pattern records the use of a tiling pattern and returns its resource
// name.  The first time a pattern is seen, its content stream is
// rendered, using a context nested below the current one.
func (c *Context) Pattern(p *Pattern) (pdf.Name, error) {
	if idx, ok := c.Patterns.Get(p); ok {
		return pdf.Name(fmt.Sprintf("P%d", idx)), nil
	}

	ctx, err := c.patternContext()
	if err != nil {
		return "", err
	}
	instructions, err := p.Render(ctx)
	if err != nil {
		return "", err
	}
	p.Content = content.Encode(instructions)

	return pdf.Name(fmt.Sprintf("P%d", c.Patterns.Insert(p))), nil
}

// ColorGlyph records the use of a color glyph.  It returns the resource
// name of the Type 3 font slice holding the glyph, and the character
// code of the glyph within the slice.  The first time a glyph is seen,
// its drawing instructions are rendered, using a context nested below
// the current one.
func (c *Context) ColorGlyph(f font.Font, gid glyph.ID) (pdf.Name, byte, error) {
	m, err := c.colorFontMap()
	if err != nil {
		return "", 0, err
	}
	slice, pos, err := m.Record(f, gid)
	if err != nil {
		return "", 0, err
	}
	return pdf.Name(fmt.Sprintf("Cf%d", slice)), pos, nil
}

// ColorFonts returns the color fonts recorded in this context and the
// nested context their glyphs draw from, or nil if no color glyph was
// recorded.
func (c *Context) ColorFonts() (*colorfont.Map, *Context) {
	return c.colorFonts, c.colorFontCtx
}

// PatternContext returns the nested context used by the tiling patterns
// of this context, or nil.
func (c *Context) PatternContext() *Context {
	return c.patternCtx
}

func (c *Context) colorFontMap() (*colorfont.Map, error) {
	if c.colorFonts != nil {
		return c.colorFonts, nil
	}

	ctx, err := c.nested(&c.colorFontCtx)
	if err != nil {
		return nil, err
	}
	c.colorFonts = colorfont.New(func(f font.Font, gid glyph.ID) (*content.Encoded, error) {
		instructions, err := c.tree.renderer(f, gid, ctx)
		if err != nil {
			return nil, err
		}
		return content.Encode(instructions), nil
	})
	return c.colorFonts, nil
}

func (c *Context) patternContext() (*Context, error) {
	if c.patternCtx != nil {
		return c.patternCtx, nil
	}
	return c.nested(&c.patternCtx)
}

func (c *Context) nested(slot **Context) (*Context, error) {
	if c.depth+1 >= MaxDepth {
		return nil, fmt.Errorf("resource contexts nested more than %d levels deep", MaxDepth)
	}
	ctx := c.tree.newContext(c.depth+1, c.tree.alloc.Alloc())
	*slot = ctx
	return ctx, nil
}

func (c *Context) traverse(fn func(*Context) error) error {
	err := fn(c)
	if err != nil {
		return err
	}
	if c.colorFontCtx != nil {
		err = c.colorFontCtx.traverse(fn)
		if err != nil {
			return err
		}
	}
	if c.patternCtx != nil {
		err = c.patternCtx.traverse(fn)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetGlyphText records the text content of a glyph, for the ToUnicode
// CMaps.  If different text was already recorded for the glyph, the
// first value wins.
func (c *Context) SetGlyphText(f font.Font, gid glyph.ID, text string) {
	m, ok := c.glyphText[f]
	if !ok {
		m = map[glyph.ID]string{}
		c.glyphText[f] = m
	}
	if _, ok := m[gid]; !ok {
		m[gid] = text
	}
}

// GlyphText returns the text recorded for a glyph.
func (c *Context) GlyphText(f font.Font, gid glyph.ID) (string, bool) {
	text, ok := c.glyphText[f][gid]
	return text, ok
}

// AddLang counts a run of text in the given language.  The most common
// language becomes the document language.
func (c *Context) AddLang(tag language.Tag, count int) {
	if tag.IsRoot() {
		return
	}
	c.langs[tag] += count
}

// Langs returns the per-language counts of this context.
func (c *Context) Langs() map[language.Tag]int {
	return c.langs
}
