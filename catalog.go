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
	"crypto/sha256"
	"fmt"
	"sort"

	"golang.org/x/text/language"

	"seehuhn.de/go/icc"
	"seehuhn.de/go/xmp"

	"seehuhn.de/go/pdfbuild/pdf"
	"seehuhn.de/go/pdfbuild/resources"
)

// producer identifies this library in the information dictionary and
// the metadata stream.
const producer = "seehuhn.de/go/pdfbuild"

// writeCatalog writes the color space objects, the named destination
// dictionary, the metadata stream, and fills in the document catalog
// and information dictionary.
func (b *builder) writeCatalog() error {
	err := b.writeColorSpaces()
	if err != nil {
		return err
	}

	meta := b.out.GetMeta()
	meta.Catalog.Pages = b.globals.PageTree
	meta.Catalog.Lang = b.documentLang()

	if len(b.refs.dests) > 0 {
		dests := pdf.Dict{}
		for name, ref := range b.refs.dests {
			dests[pdf.Name(name)] = ref
		}
		destsRef := b.alloc.Alloc()
		b.out.Put(destsRef, dests)
		meta.Catalog.Dests = destsRef
	}

	metadataRef, err := b.writeMetadata()
	if err != nil {
		return pdf.Wrap(err, "metadata stream")
	}
	meta.Catalog.Metadata = metadataRef

	doc := b.doc
	meta.Info = &pdf.Info{
		Title:        doc.Title,
		Author:       doc.Author,
		Subject:      doc.Subject,
		Keywords:     doc.Keywords,
		Producer:     producer,
		CreationDate: doc.CreationDate,
		ModDate:      doc.CreationDate,
	}

	meta.ID = fileID(doc)

	return nil
}

// d65White is the CIE XYZ white point of standard illuminant D65, used
// by all three color spaces.
var d65White = pdf.Array{pdf.Number(0.9505), pdf.Number(1.0), pdf.Number(1.089)}

// writeColorSpaces writes the three color space objects whose numbers
// were allocated up front.
func (b *builder) writeColorSpaces() error {
	b.out.Put(b.globals.Oklab, pdf.Array{
		pdf.Name("Lab"),
		pdf.Dict{
			"WhitePoint": d65White,
			"Range": pdf.Array{
				pdf.Integer(-100), pdf.Integer(100),
				pdf.Integer(-100), pdf.Integer(100),
			},
		},
	})

	b.out.Put(b.globals.D65Gray, pdf.Array{
		pdf.Name("CalGray"),
		pdf.Dict{
			"WhitePoint": d65White,
		},
	})

	if profile := b.doc.SRGBProfile; profile != nil {
		p, err := icc.Decode(profile)
		if err != nil {
			return pdf.Wrap(err, "sRGB profile")
		}
		if n := p.ColorSpace.NumComponents(); n != 3 {
			return fmt.Errorf("sRGB profile: got %d components, expected 3", n)
		}

		streamRef := b.alloc.Alloc()
		body, err := b.out.OpenStream(streamRef, pdf.Dict{
			"N": pdf.Integer(3),
		}, pdf.FilterCompress{})
		if err != nil {
			return err
		}
		_, err = body.Write(profile)
		if err != nil {
			return err
		}
		err = body.Close()
		if err != nil {
			return err
		}

		b.out.Put(b.globals.SRGB, pdf.Array{pdf.Name("ICCBased"), streamRef})
	} else {
		// Without a profile, a CalRGB space with the sRGB primaries and
		// white point is the closest the PDF model offers.
		b.out.Put(b.globals.SRGB, pdf.Array{
			pdf.Name("CalRGB"),
			pdf.Dict{
				"WhitePoint": d65White,
				"Gamma": pdf.Array{
					pdf.Number(2.2), pdf.Number(2.2), pdf.Number(2.2),
				},
				"Matrix": pdf.Array{
					pdf.Number(0.4124), pdf.Number(0.2126), pdf.Number(0.0193),
					pdf.Number(0.3576), pdf.Number(0.7152), pdf.Number(0.1192),
					pdf.Number(0.1805), pdf.Number(0.0722), pdf.Number(0.9505),
				},
			},
		})
	}

	return nil
}

// documentLang returns the language for the catalog.  If the document
// does not name one, the most common language of the text runs is used.
// Ties break alphabetically, to keep the output deterministic.
func (b *builder) documentLang() language.Tag {
	if !b.doc.Lang.IsRoot() {
		return b.doc.Lang
	}

	counts := map[language.Tag]int{}
	_ = b.tree.Traverse(func(ctx *resources.Context) error {
		for tag, count := range ctx.Langs() {
			counts[tag] += count
		}
		return nil
	})

	best := language.Und
	bestCount := 0
	tags := make([]language.Tag, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		return tags[i].String() < tags[j].String()
	})
	for _, tag := range tags {
		if counts[tag] > bestCount {
			best = tag
			bestCount = counts[tag]
		}
	}
	return best
}

// pdfProperties is the XMP namespace for PDF metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type pdfProperties struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
}

func (b *builder) writeMetadata() (pdf.Reference, error) {
	doc := b.doc

	dc := &xmp.DublinCore{}
	if doc.Title != "" {
		dc.Title.Set(language.MustParse("x-default"), doc.Title)
	}
	if doc.Author != "" {
		dc.Creator.Append(xmp.NewProperName(doc.Author))
	}
	if doc.Subject != "" {
		dc.Description.Set(language.MustParse("x-default"), doc.Subject)
	}

	basic := &xmp.Basic{}
	if !doc.CreationDate.IsZero() {
		basic.CreateDate = xmp.NewDate(doc.CreationDate)
		basic.ModifyDate = xmp.NewDate(doc.CreationDate)
	}

	props := &pdfProperties{}
	if doc.Keywords != "" {
		props.Keywords = xmp.NewText(doc.Keywords)
	}
	props.Producer = xmp.NewAgentName(producer)

	packet := xmp.NewPacket()
	packet.Set(dc, basic, props)

	ref := b.alloc.Alloc()
	body, err := b.out.OpenStream(ref, pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	})
	if err != nil {
		return 0, err
	}
	err = packet.Write(body, &xmp.PacketOptions{})
	if err != nil {
		return 0, err
	}
	err = body.Close()
	if err != nil {
		return 0, err
	}

	return ref, nil
}

// fileID derives the PDF file identifier.  The identifier depends only
// on the document, so that repeated exports give identical files.
func fileID(doc *Document) [][]byte {
	ident := doc.Ident
	if ident == "" {
		ident = doc.Title + "\x00" + doc.Author
	}
	h := sha256.Sum256([]byte(ident))
	return [][]byte{h[:16], h[16:]}
}
