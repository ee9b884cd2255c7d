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
	"fmt"
	"io"
)

// Filter represents a PDF stream filter.
type Filter interface {
	// Info returns the name and parameters of the filter.
	Info(v Version) (Name, Dict, error)

	// Encode wraps w so that data written to the returned writer is
	// stored in encoded form.
	Encode(v Version, w io.WriteCloser) (io.WriteCloser, error)
}

// FilterCompress is the FlateDecode filter.  The map holds the filter
// parameters, e.g. "Predictor" and "Columns".
type FilterCompress Dict

// Info implements the [Filter] interface.
func (f FilterCompress) Info(v Version) (Name, Dict, error) {
	var parms Dict
	if len(f) > 0 {
		parms = Dict{}
		for key, val := range f {
			parms[key] = val
		}
	}
	return "FlateDecode", parms, nil
}

// Encode implements the [Filter] interface.
func (f FilterCompress) Encode(v Version, w io.WriteCloser) (io.WriteCloser, error) {
	predictor := 1
	columns := 1
	if p, ok := f["Predictor"].(Integer); ok {
		predictor = int(p)
	}
	if c, ok := f["Columns"].(Integer); ok {
		columns = int(c)
	}

	zw, err := zlib.NewWriterLevel(w, zlib.DefaultCompression)
	if err != nil {
		return nil, err
	}

	switch predictor {
	case 1:
		return &withClose{zw, w}, nil
	case 12:
		pw := &pngUpWriter{
			w:    &withClose{zw, w},
			hist: make([]byte, columns),
			row:  make([]byte, 0, columns),
		}
		return pw, nil
	default:
		return nil, fmt.Errorf("unsupported predictor %d", predictor)
	}
}

// withClose closes both the filter and the underlying writer.
type withClose struct {
	io.WriteCloser
	next io.Closer
}

func (w *withClose) Close() error {
	err := w.WriteCloser.Close()
	if err != nil {
		return err
	}
	return w.next.Close()
}

// pngUpWriter applies the PNG "Up" predictor before compression.
// Writes must total a multiple of the column count.
type pngUpWriter struct {
	w    io.WriteCloser
	hist []byte
	row  []byte
}

func (w *pngUpWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		k := copy(w.row[len(w.row):cap(w.row)], p)
		w.row = w.row[:len(w.row)+k]
		p = p[k:]
		if len(w.row) < cap(w.row) {
			break
		}
		err := w.flushRow()
		if err != nil {
			return n - len(p), err
		}
	}
	return n, nil
}

func (w *pngUpWriter) flushRow() error {
	buf := make([]byte, 1+len(w.row))
	buf[0] = 2
	for i, b := range w.row {
		buf[i+1] = b - w.hist[i]
	}
	copy(w.hist, w.row)
	w.row = w.row[:0]
	_, err := w.w.Write(buf)
	return err
}

func (w *pngUpWriter) Close() error {
	if len(w.row) != 0 {
		return fmt.Errorf("predictor: %d stray bytes", len(w.row))
	}
	return w.w.Close()
}

// PredictUp applies the PNG "Up" predictor to sample data consisting of
// rows of rowBytes bytes each.  The result is meant to be deflated and
// stored with a DecodeParms dictionary giving predictor 12.
func PredictUp(data []byte, rowBytes int) ([]byte, error) {
	if rowBytes <= 0 {
		return nil, fmt.Errorf("invalid row length %d", rowBytes)
	}
	buf := &nopCloser{}
	w := &pngUpWriter{
		w:    buf,
		hist: make([]byte, rowBytes),
		row:  make([]byte, 0, rowBytes),
	}
	_, err := w.Write(data)
	if err == nil {
		err = w.Close()
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type nopCloser struct {
	bytes.Buffer
}

func (*nopCloser) Close() error { return nil }

func appendFilter(dict Dict, name Name, parms Dict) {
	switch filter := dict["Filter"].(type) {
	case nil:
		dict["Filter"] = name
		if len(parms) > 0 {
			dict["DecodeParms"] = parms
		}
	case Name:
		dict["Filter"] = Array{filter, name}
		oldParms, _ := dict["DecodeParms"].(Dict)
		if len(oldParms) > 0 || len(parms) > 0 {
			var p1, p2 Object
			if len(oldParms) > 0 {
				p1 = oldParms
			}
			if len(parms) > 0 {
				p2 = parms
			}
			dict["DecodeParms"] = Array{p1, p2}
		}
	case Array:
		dict["Filter"] = append(filter, name)
		oldParms, _ := dict["DecodeParms"].(Array)
		for len(oldParms) < len(filter) {
			oldParms = append(oldParms, nil)
		}
		var p Object
		if len(parms) > 0 {
			p = parms
		}
		dict["DecodeParms"] = append(oldParms, p)
	}
}
