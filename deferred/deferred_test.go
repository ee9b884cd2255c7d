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

package deferred

import (
	"bytes"
	"compress/zlib"
	"io"
	"sync"
	"testing"
)

func TestDeflateRoundTrip(t *testing.T) {
	var v Values

	data := bytes.Repeat([]byte("0 0 100 100 re f\n"), 100)
	compressed := v.Deflate(data).Wait()

	if len(compressed) >= len(data) {
		t.Errorf("compression did not shrink the data: %d >= %d",
			len(compressed), len(data))
	}

	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		t.Fatal(err)
	}
	decompressed, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("round trip changed the data")
	}
}

func TestComputeOnce(t *testing.T) {
	var v Values

	a := v.Deflate([]byte("test content"))
	b := v.Deflate([]byte("test content"))
	if a != b {
		t.Error("identical content was not shared")
	}

	c := v.Deflate([]byte("other content"))
	if a == c {
		t.Error("different content was shared")
	}
}

func TestConcurrentWait(t *testing.T) {
	var v Values

	b := v.Deflate([]byte("shared"))

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = b.Wait()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if !bytes.Equal(results[0], results[i]) {
			t.Fatalf("waiter %d saw different data", i)
		}
	}
}
