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
	"compress/zlib"
	"io"
	"testing"
)

type closableBuffer struct {
	bytes.Buffer
}

func (b *closableBuffer) Close() error { return nil }

func TestFilterCompress(t *testing.T) {
	buf := &closableBuffer{}
	w, err := FilterCompress{}.Encode(V1_7, buf)
	if err != nil {
		t.Fatal(err)
	}
	data := bytes.Repeat([]byte("test data "), 20)
	_, err = w.Write(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := zlib.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("round trip changed the data")
	}
}

func TestFilterPredictor(t *testing.T) {
	filter := FilterCompress{
		"Predictor": Integer(12),
		"Columns":   Integer(2),
	}

	name, parms, err := filter.Info(V1_7)
	if err != nil {
		t.Fatal(err)
	}
	if name != "FlateDecode" {
		t.Errorf("got filter name %q", name)
	}
	if parms["Predictor"] != Integer(12) {
		t.Errorf("got parameters %v", parms)
	}

	buf := &closableBuffer{}
	w, err := filter.Encode(V1_7, buf)
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte{1, 2, 4, 8})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := zlib.NewReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	rows, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	// each row starts with the "Up" tag, followed by the difference to
	// the previous row
	want := []byte{2, 1, 2, 2, 3, 6}
	if !bytes.Equal(rows, want) {
		t.Errorf("got % d, want % d", rows, want)
	}
}

func TestPredictUp(t *testing.T) {
	got, err := PredictUp([]byte{1, 2, 4, 8}, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{2, 1, 2, 2, 3, 6}
	if !bytes.Equal(got, want) {
		t.Errorf("got % d, want % d", got, want)
	}

	_, err = PredictUp([]byte{1, 2, 3}, 2)
	if err == nil {
		t.Error("no error for a partial row")
	}
}

func TestFilterPredictorStrayBytes(t *testing.T) {
	filter := FilterCompress{
		"Predictor": Integer(12),
		"Columns":   Integer(4),
	}
	buf := &closableBuffer{}
	w, err := filter.Encode(V1_7, buf)
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write([]byte{1, 2, 3}) // not a whole row
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err == nil {
		t.Error("no error for a partial row")
	}
}
