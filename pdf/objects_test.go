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
	"testing"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		obj  Object
		want string
	}{
		{nil, "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Integer(-12), "-12"},
		{Real(1.5), "1.5"},
		{Real(3), "3."},
		{Number(2), "2"},
		{Number(2.5), "2.5"},
		{Name("Type"), "/Type"},
		{Name("A B"), "/A#20B"},
		{Name("a#b"), "/a#23b"},
		{String("hello"), "(hello)"},
		{String("(balanced)"), "((balanced))"},
		{String("a\nb"), `(a\nb)`},
		{Array{Integer(1), nil, Name("x")}, "[1 null /x]"},
		{Reference(0), "0 0 R"},
		{NewReference(7, 2), "7 2 R"},
		{&Rectangle{0, 0, 595.2756, 841.8898}, "[0 0 595.28 841.89]"},
	}
	for _, test := range cases {
		if got := Format(test.obj); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestStringHexFallback(t *testing.T) {
	// strings which would need too much escaping use hex form
	got := Format(String([]byte{0, 1, 2}))
	if got != "<000102>" {
		t.Errorf("got %q, want <000102>", got)
	}
}

func TestDictSorted(t *testing.T) {
	dict := Dict{
		"Zebra":  Integer(1),
		"Apple":  Integer(2),
		"Banana": nil, // omitted
	}
	want := "<<\n/Apple 2\n/Zebra 1\n>>"
	if got := Format(dict); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextString(t *testing.T) {
	if got := Format(TextString("abc")); got != "(abc)" {
		t.Errorf("got %q", got)
	}

	// non-ASCII strings use UTF-16BE with a byte order mark
	s := TextString("Grüße")
	if len(s) < 2 || s[0] != 0xFE || s[1] != 0xFF {
		t.Errorf("missing byte order mark in % x", []byte(s))
	}
}

func TestReferenceParts(t *testing.T) {
	ref := NewReference(123456, 7)
	if ref.Number() != 123456 {
		t.Errorf("got number %d", ref.Number())
	}
	if ref.Generation() != 7 {
		t.Errorf("got generation %d", ref.Generation())
	}
}
