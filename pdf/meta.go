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

package pdf

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// MetaInfo represents the meta information of a PDF file.
type MetaInfo struct {
	// Version is the PDF version used in this file.
	Version Version

	// The ID of the file.  This is either a slice of two byte slices (the
	// original ID of the file, and the ID of the current version), or nil if
	// the file does not specify an ID.
	ID [][]byte

	// Catalog is the document catalog for this file.
	Catalog *Catalog

	// Info is the document information dictionary for this file.
	// This is nil if the file does not contain a document information
	// dictionary.
	Info *Info
}

// Version represents a version of PDF standard.
type Version int

// PDF versions supported by this library.
const (
	_ Version = iota
	V1_0
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

// ToString returns the string representation of ver, e.g. "1.7".
// If ver does not correspond to a supported PDF version, an error is
// returned.
func (ver Version) ToString() (string, error) {
	if ver >= V1_0 && ver <= V1_7 {
		return "1." + string([]byte{byte(ver - V1_0 + '0')}), nil
	}
	if ver == V2_0 {
		return "2.0", nil
	}
	return "", errVersion
}

func (ver Version) String() string {
	versionString, err := ver.ToString()
	if err != nil {
		versionString = "pdf.Version(" + strconv.Itoa(int(ver)) + ")"
	}
	return versionString
}

// Catalog represents a PDF Document Catalog.  The only required field in this
// structure is Pages, which specifies the root of the page tree.
//
// The Document Catalog is documented in section 7.7.2 of PDF 32000-1:2008.
type Catalog struct {
	Pages         Reference
	Dests         Reference
	Metadata      Reference
	OutputIntents Array
	Lang          language.Tag
}

// AsDict returns the dictionary representation of the catalog.
func (c *Catalog) AsDict() Dict {
	dict := Dict{
		"Type":  Name("Catalog"),
		"Pages": c.Pages,
	}
	if c.Dests != 0 {
		dict["Dests"] = c.Dests
	}
	if c.Metadata != 0 {
		dict["Metadata"] = c.Metadata
	}
	if c.OutputIntents != nil {
		dict["OutputIntents"] = c.OutputIntents
	}
	if !c.Lang.IsRoot() {
		dict["Lang"] = TextString(c.Lang.String())
	}
	return dict
}

// Info represents a PDF Document Information Dictionary.
// All fields in this structure are optional.
//
// The Document Information Dictionary is documented in section
// 14.3.3 of PDF 32000-1:2008.
type Info struct {
	Title    string
	Author   string
	Subject  string
	Keywords string

	// Creator gives the name of the application that created the original
	// document, if the document was converted to PDF from another format.
	Creator string

	// Producer gives the name of the application that converted the document,
	// if the document was converted to PDF from another format.
	Producer string

	// CreationDate gives the date and time the document was created.
	CreationDate time.Time

	// ModDate gives the date and time the document was most recently modified.
	ModDate time.Time
}

// AsDict returns the dictionary representation of the information
// dictionary, or nil if all fields are empty.
func (i *Info) AsDict() Dict {
	dict := Dict{}
	text := map[Name]string{
		"Title":    i.Title,
		"Author":   i.Author,
		"Subject":  i.Subject,
		"Keywords": i.Keywords,
		"Creator":  i.Creator,
		"Producer": i.Producer,
	}
	for key, val := range text {
		if val != "" {
			dict[key] = TextString(val)
		}
	}
	if !i.CreationDate.IsZero() {
		dict["CreationDate"] = Date(i.CreationDate)
	}
	if !i.ModDate.IsZero() {
		dict["ModDate"] = Date(i.ModDate)
	}
	if len(dict) == 0 {
		return nil
	}
	return dict
}
