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
	"io"
	"sort"

	"golang.org/x/exp/maps"
)

// Data is an in-memory representation of a PDF document.
type Data struct {
	meta    MetaInfo
	objects map[Reference]Object
	lastRef uint32
}

// NewData creates an empty document using the given PDF version.
func NewData(v Version) *Data {
	res := &Data{
		meta: MetaInfo{
			Version: v,
			Catalog: &Catalog{},
		},
		objects: map[Reference]Object{},
	}
	return res
}

// GetMeta returns the document metadata.  The caller may modify the
// returned structure.
func (d *Data) GetMeta() *MetaInfo {
	return &d.meta
}

// Alloc allocates a new object number for an indirect object.
func (d *Data) Alloc() Reference {
	for {
		d.lastRef++
		ref := NewReference(d.lastRef, 0)
		if _, ok := d.objects[ref]; !ok {
			return ref
		}
	}
}

// Get returns the object stored under ref, or nil.
func (d *Data) Get(ref Reference) Object {
	return d.objects[ref]
}

// Has reports whether an object is stored under ref.
func (d *Data) Has(ref Reference) bool {
	_, ok := d.objects[ref]
	return ok
}

// Put stores obj under the reference ref.  Overwriting an existing object
// panics: in this library every object number is defined exactly once.
func (d *Data) Put(ref Reference, obj Object) {
	if _, ok := d.objects[ref]; ok {
		panic(fmt.Sprintf("object %s defined twice", ref))
	}
	if obj == nil {
		return
	}
	d.objects[ref] = obj
}

// OpenStream adds a stream object under ref.  The stream data is what is
// written to the returned writer, until it is closed.  The given filters
// are applied to the data in order.
func (d *Data) OpenStream(ref Reference, dict Dict, filters ...Filter) (io.WriteCloser, error) {
	// Copy dict, dict["Filter"], and dict["DecodeParms"], so that we don't
	// change the caller's dict.
	streamDict := maps.Clone(dict)
	if streamDict == nil {
		streamDict = Dict{}
	}
	if filter, ok := streamDict["Filter"].(Array); ok {
		streamDict["Filter"] = append(Array{}, filter...)
	}
	if decodeParms, ok := streamDict["DecodeParms"].(Array); ok {
		streamDict["DecodeParms"] = append(Array{}, decodeParms...)
	}

	s := &Stream{
		Dict: streamDict,
	}
	d.Put(ref, s)

	var w io.WriteCloser = &dataStreamWriter{s: s}
	var err error
	for _, filter := range filters {
		w, err = filter.Encode(d.meta.Version, w)
		if err != nil {
			return nil, err
		}

		name, parms, err := filter.Info(d.meta.Version)
		if err != nil {
			return nil, err
		}
		appendFilter(streamDict, name, parms)
	}
	return w, nil
}

type dataStreamWriter struct {
	bytes.Buffer
	s *Stream
}

func (w *dataStreamWriter) Close() error {
	w.s.R = bytes.NewReader(w.Bytes())
	w.s.Dict["Length"] = Integer(w.Len())
	return nil
}

// Write writes the complete PDF file to w: header, body (objects in
// ascending number order), cross-reference table and trailer.  The output
// is a deterministic function of the document contents.
func (d *Data) Write(w io.Writer) error {
	if d.meta.Catalog == nil || d.meta.Catalog.Pages == 0 {
		return fmt.Errorf("document catalog has no page tree")
	}

	version, err := d.meta.Version.ToString()
	if err != nil {
		return err
	}

	refs := maps.Keys(d.objects)
	sort.Slice(refs, func(i, j int) bool {
		return refs[i].Number() < refs[j].Number()
	})

	// The catalog and info dictionaries are numbered past all body
	// objects, so that repeated calls to Write give identical output.
	next := uint32(1)
	if len(refs) > 0 {
		next = refs[len(refs)-1].Number() + 1
	}
	catalogRef := NewReference(next, 0)
	var infoRef Reference
	var infoDict Dict
	if d.meta.Info != nil {
		infoDict = d.meta.Info.AsDict()
	}
	if infoDict != nil {
		infoRef = NewReference(next+1, 0)
	}

	pw := &posWriter{w: w}

	_, err = fmt.Fprintf(pw, "%%PDF-%s\n%%\x80\x80\x80\x80\n", version)
	if err != nil {
		return err
	}

	xref := map[uint32]*xrefEntry{
		0: {pos: -1, generation: 65535},
	}
	writeObject := func(ref Reference, obj Object) error {
		xref[ref.Number()] = &xrefEntry{
			pos:        pw.pos,
			generation: ref.Generation(),
		}
		_, err := fmt.Fprintf(pw, "%d %d obj\n", ref.Number(), ref.Generation())
		if err != nil {
			return err
		}
		err = obj.PDF(pw)
		if err != nil {
			return err
		}
		_, err = pw.Write([]byte("\nendobj\n"))
		return err
	}

	for _, ref := range refs {
		err = writeObject(ref, d.objects[ref])
		if err != nil {
			return err
		}
	}
	err = writeObject(catalogRef, d.meta.Catalog.AsDict())
	if err != nil {
		return err
	}
	if infoRef != 0 {
		err = writeObject(infoRef, infoDict)
		if err != nil {
			return err
		}
	}

	xrefPos := pw.pos
	err = writeXRefTable(pw, xref)
	if err != nil {
		return err
	}

	trailer := Dict{
		"Size": Integer(maxNumber(xref) + 1),
		"Root": catalogRef,
	}
	if infoRef != 0 {
		trailer["Info"] = infoRef
	}
	if len(d.meta.ID) == 2 {
		trailer["ID"] = Array{String(d.meta.ID[0]), String(d.meta.ID[1])}
	}

	_, err = pw.Write([]byte("trailer\n"))
	if err != nil {
		return err
	}
	err = trailer.PDF(pw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(pw, "\nstartxref\n%d\n%%%%EOF\n", xrefPos)
	return err
}

type xrefEntry struct {
	pos        int64
	generation uint16
}

func maxNumber(xref map[uint32]*xrefEntry) uint32 {
	var res uint32
	for number := range xref {
		if number > res {
			res = number
		}
	}
	return res
}

// writeXRefTable writes a classic cross-reference table, one subsection
// per contiguous run of object numbers.
func writeXRefTable(w io.Writer, xref map[uint32]*xrefEntry) error {
	numbers := maps.Keys(xref)
	sort.Slice(numbers, func(i, j int) bool {
		return numbers[i] < numbers[j]
	})

	_, err := w.Write([]byte("xref\n"))
	if err != nil {
		return err
	}

	for start := 0; start < len(numbers); {
		end := start + 1
		for end < len(numbers) && numbers[end] == numbers[end-1]+1 {
			end++
		}

		_, err = fmt.Fprintf(w, "%d %d\n", numbers[start], end-start)
		if err != nil {
			return err
		}
		for _, number := range numbers[start:end] {
			entry := xref[number]
			if entry.pos < 0 {
				_, err = fmt.Fprintf(w, "%010d %05d f\r\n", 0, entry.generation)
			} else {
				_, err = fmt.Fprintf(w, "%010d %05d n\r\n", entry.pos, entry.generation)
			}
			if err != nil {
				return err
			}
		}

		start = end
	}
	return nil
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
