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

// Package deferred runs stream compression in the background, computing
// each distinct input at most once.
package deferred

import (
	"bytes"
	"compress/zlib"
	"crypto/sha256"
	"sync"
)

// compressionLevel is the zlib level used for all FlateDecode streams.
const compressionLevel = 6

// Bytes is a byte slice which is still being computed.
type Bytes struct {
	done chan struct{}
	data []byte
}

// Wait blocks until the computation has finished and returns the result.
func (b *Bytes) Wait() []byte {
	<-b.done
	return b.data
}

// Values memoizes deferred computations by content hash.  The zero value
// is ready to use.
type Values struct {
	mu    sync.Mutex
	cache map[[sha256.Size]byte]*Bytes
}

// Deflate starts compressing data on a new goroutine, unless a computation
// for the same content is already under way or finished.  The input slice
// must not be modified afterwards.
func (v *Values) Deflate(data []byte) *Bytes {
	key := sha256.Sum256(data)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cache == nil {
		v.cache = map[[sha256.Size]byte]*Bytes{}
	}
	if b, ok := v.cache[key]; ok {
		return b
	}

	b := &Bytes{done: make(chan struct{})}
	v.cache[key] = b
	go func() {
		b.data = deflate(data)
		close(b.done)
	}()
	return b
}

func deflate(data []byte) []byte {
	buf := &bytes.Buffer{}
	zw, err := zlib.NewWriterLevel(buf, compressionLevel)
	if err != nil {
		panic(err)
	}
	_, err = zw.Write(data)
	if err == nil {
		err = zw.Close()
	}
	if err != nil {
		// writes to a bytes.Buffer cannot fail
		panic(err)
	}
	return buf.Bytes()
}
