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

import "errors"

var errVersion = errors.New("unsupported PDF version")

// Error wraps an error with the location where it occurred.
type Error struct {
	Loc string
	Err error
}

// Wrap annotates err with a location, e.g. the name of the resource being
// written.  A nil err yields nil.
func Wrap(err error, loc string) error {
	if err == nil {
		return nil
	}
	return &Error{Loc: loc, Err: err}
}

func (e *Error) Error() string {
	return e.Loc + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
