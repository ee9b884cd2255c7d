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
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
)

func newTestData() *Data {
	d := NewData(V1_7)
	pagesRef := NewReference(1, 0)
	pageRef := NewReference(2, 0)
	d.Put(pagesRef, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{pageRef},
		"Count": Integer(1),
	})
	d.Put(pageRef, Dict{
		"Type":     Name("Page"),
		"Parent":   pagesRef,
		"MediaBox": &Rectangle{URx: 100, URy: 100},
	})
	d.GetMeta().Catalog.Pages = pagesRef
	return d
}

func TestWriteDeterministic(t *testing.T) {
	d := newTestData()

	streamRef := NewReference(3, 0)
	w, err := d.OpenStream(streamRef, nil)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(w, "unmistakable stream body")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	buf1 := &bytes.Buffer{}
	if err := d.Write(buf1); err != nil {
		t.Fatal(err)
	}
	buf2 := &bytes.Buffer{}
	if err := d.Write(buf2); err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(buf1.Bytes(), buf2.Bytes()) {
		t.Error("repeated writes differ")
	}
	// stream data must survive being written more than once
	for i, buf := range []*bytes.Buffer{buf1, buf2} {
		if !bytes.Contains(buf.Bytes(), []byte("unmistakable stream body")) {
			t.Errorf("write %d lost the stream body", i+1)
		}
	}
}

func TestWriteStructure(t *testing.T) {
	d := newTestData()
	d.GetMeta().Info = &Info{Title: "Test"}
	d.GetMeta().ID = [][]byte{
		bytes.Repeat([]byte{0xAB}, 16),
		bytes.Repeat([]byte{0xCD}, 16),
	}

	buf := &bytes.Buffer{}
	if err := d.Write(buf); err != nil {
		t.Fatal(err)
	}
	body := buf.String()

	if !strings.HasPrefix(body, "%PDF-1.7\n") {
		t.Error("missing header")
	}
	if !strings.HasSuffix(body, "%%EOF\n") {
		t.Error("missing end-of-file marker")
	}
	for _, frag := range []string{"xref", "trailer", "/Root", "/Info", "/ID"} {
		if !strings.Contains(body, frag) {
			t.Errorf("missing %q", frag)
		}
	}

	// the startxref offset must point at the xref table
	m := regexp.MustCompile(`startxref\n(\d+)\n`).FindStringSubmatch(body)
	if m == nil {
		t.Fatal("missing startxref")
	}
	offset, _ := strconv.Atoi(m[1])
	if !strings.HasPrefix(body[offset:], "xref\n") {
		t.Errorf("startxref points at %q", body[offset:offset+10])
	}
}

func TestXRefOffsets(t *testing.T) {
	d := newTestData()

	buf := &bytes.Buffer{}
	if err := d.Write(buf); err != nil {
		t.Fatal(err)
	}
	body := buf.String()

	// every "n" entry must point at the "obj" line of its object
	entry := regexp.MustCompile(`(\d{10}) 00000 n\r\n`)
	count := 0
	for _, m := range entry.FindAllStringSubmatch(body, -1) {
		offset, _ := strconv.Atoi(m[1])
		rest := body[offset:]
		if !regexp.MustCompile(`^\d+ 0 obj\n`).MatchString(rest) {
			t.Errorf("offset %d points at %q", offset, rest[:20])
		}
		count++
	}
	// two body objects plus the catalog
	if count != 3 {
		t.Errorf("got %d in-use entries, want 3", count)
	}
}

func TestEveryObjectDefinedOnce(t *testing.T) {
	d := newTestData()

	buf := &bytes.Buffer{}
	if err := d.Write(buf); err != nil {
		t.Fatal(err)
	}

	seen := map[string]int{}
	for _, m := range regexp.MustCompile(`(?m)^(\d+) 0 obj$`).FindAllStringSubmatch(buf.String(), -1) {
		seen[m[1]]++
	}
	for number, n := range seen {
		if n != 1 {
			t.Errorf("object %s defined %d times", number, n)
		}
	}
}

func TestPutTwicePanics(t *testing.T) {
	d := NewData(V1_7)
	ref := d.Alloc()
	d.Put(ref, Integer(1))

	defer func() {
		if recover() == nil {
			t.Error("no panic for a redefined object")
		}
	}()
	d.Put(ref, Integer(2))
}

func TestWriteWithoutPages(t *testing.T) {
	d := NewData(V1_7)
	err := d.Write(&bytes.Buffer{})
	if err == nil {
		t.Error("no error for a document without pages")
	}
}

func TestOpenStream(t *testing.T) {
	d := newTestData()
	ref := NewReference(3, 0)
	w, err := d.OpenStream(ref, Dict{"Type": Name("Test")})
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprint(w, "stream data")
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	s, _ := d.Get(ref).(*Stream)
	if s == nil {
		t.Fatal("stream missing")
	}
	if s.Dict["Length"] != Integer(11) {
		t.Errorf("got length %v, want 11", s.Dict["Length"])
	}
}
