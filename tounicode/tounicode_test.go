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

package tounicode

import (
	"strings"
	"testing"
)

func TestOneByte(t *testing.T) {
	info := New()
	info.Singles = append(info.Singles,
		Single{Code: 0, Text: "A"},
		Single{Code: 1, Text: "ffi"},
	)

	body := string(info.Bytes())

	for _, frag := range []string{
		"begincmap",
		"endcmap",
		"1 begincodespacerange",
		"<00> <ff>",
		"2 beginbfchar",
		"<00> <0041>",
		"<01> <006600660069>",
		"/Adobe-Identity-UCS2-000",
	} {
		if !strings.Contains(body, frag) {
			t.Errorf("missing %q", frag)
		}
	}
}

func TestTwoByte(t *testing.T) {
	info := NewTwoByte()
	info.Singles = append(info.Singles,
		Single{Code: 3, Text: "x"},
	)

	body := string(info.Bytes())

	if !strings.Contains(body, "<0000> <ffff>") {
		t.Error("wrong code space range")
	}
	if !strings.Contains(body, "<0003> <0078>") {
		t.Error("missing bfchar entry")
	}
}

func TestNoSingles(t *testing.T) {
	body := string(New().Bytes())

	if strings.Contains(body, "beginbfchar") {
		t.Error("empty CMap contains a bfchar section")
	}
	if strings.Contains(body, "beginbfrange") {
		t.Error("empty CMap contains a bfrange section")
	}
}

func TestSurrogatePairs(t *testing.T) {
	info := New()
	info.Singles = append(info.Singles,
		Single{Code: 0, Text: "\U0001D11E"}, // musical G clef
	)

	body := string(info.Bytes())
	if !strings.Contains(body, "<D834DD1E>") {
		t.Error("missing UTF-16 surrogate pair")
	}
}
