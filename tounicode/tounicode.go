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

// Package tounicode generates ToUnicode CMap streams, which map character
// codes to their text content.
package tounicode

import (
	"fmt"

	"seehuhn.de/go/postscript/cid"
)

// CharCode is a character code within a ToUnicode CMap.
type CharCode uint32

// CodeRange is a contiguous range of character codes.
type CodeRange struct {
	First, Last CharCode
}

func (r CodeRange) String() string {
	var format string
	if r.Last >= 1<<24 {
		format = "<%08x> <%08x>"
	} else if r.Last >= 1<<16 {
		format = "<%06x> <%06x>"
	} else if r.Last >= 1<<8 {
		format = "<%04x> <%04x>"
	} else {
		format = "<%02x> <%02x>"
	}
	return fmt.Sprintf(format, r.First, r.Last)
}

// Single specifies that character code Code represents the text Text.
type Single struct {
	Code CharCode
	Text string
}

func (s Single) String() string {
	return fmt.Sprintf("%d: %q", s.Code, s.Text)
}

// Range describes a range of character codes.  If Text has length one,
// the last rune is incremented by one for each code point in the range.
// Otherwise, Text must have length Last-First+1 and gives the text for
// each code point.
type Range struct {
	First, Last CharCode
	Text        []string
}

// Info holds the contents of a ToUnicode CMap.
type Info struct {
	ROS       *cid.SystemInfo
	CodeSpace []CodeRange
	Singles   []Single
	Ranges    []Range
}

// adobeIdentityUCS is the CID system info used for all ToUnicode CMaps
// written by this library.
var adobeIdentityUCS = &cid.SystemInfo{
	Registry: "Adobe",
	Ordering: "Identity",
}

// New creates a CMap with the Adobe-Identity-UCS system info and a
// one-byte code space.  This is the form used for Type 3 fonts, where
// character codes are single bytes.
func New() *Info {
	return &Info{
		ROS:       adobeIdentityUCS,
		CodeSpace: []CodeRange{{First: 0x00, Last: 0xFF}},
	}
}

// NewTwoByte creates a CMap with the Adobe-Identity-UCS system info and
// a two-byte code space, for composite fonts with Identity encoding.
func NewTwoByte() *Info {
	return &Info{
		ROS:       adobeIdentityUCS,
		CodeSpace: []CodeRange{{First: 0x0000, Last: 0xFFFF}},
	}
}
