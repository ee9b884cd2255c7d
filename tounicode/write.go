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
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"unicode/utf16"

	"seehuhn.de/go/pdfbuild/pdf"
)

// Write writes the CMap in PostScript form to w.
func (info *Info) Write(w io.Writer) error {
	tmpl := template.Must(template.New("CMap").Funcs(template.FuncMap{
		"PDFString":    formatPDFString,
		"PDFName":      formatPDFName,
		"SingleChunks": singleChunks,
		"Single":       info.formatSingle,
		"RangeChunks":  rangeChunks,
		"Range":        info.formatRange,
	}).Parse(toUnicodeTmpl))
	return tmpl.Execute(w, info)
}

// Bytes returns the CMap in PostScript form.
func (info *Info) Bytes() []byte {
	buf := &bytes.Buffer{}
	err := info.Write(buf)
	if err != nil {
		// the template only fails for codes outside the code space
		panic(err)
	}
	return buf.Bytes()
}

func (info *Info) formatCharCode(code CharCode) (string, error) {
	for _, r := range info.CodeSpace {
		if code >= r.First && code <= r.Last {
			var format string
			if r.Last >= 1<<24 {
				format = "%08x"
			} else if r.Last >= 1<<16 {
				format = "%06x"
			} else if r.Last >= 1<<8 {
				format = "%04x"
			} else {
				format = "%02x"
			}

			return fmt.Sprintf("<"+format+">", code), nil
		}
	}
	return "", errors.New("code not in code space")
}

func formatText(s string) string {
	var text []byte
	for _, x := range utf16.Encode([]rune(s)) {
		text = append(text, byte(x>>8), byte(x))
	}
	return fmt.Sprintf("<%02X>", text)
}

func (info *Info) formatSingle(s Single) (string, error) {
	code, err := info.formatCharCode(s.Code)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s %s", code, formatText(s.Text)), nil
}

func (info *Info) formatRange(r Range) (string, error) {
	a, err := info.formatCharCode(r.First)
	if err != nil {
		return "", err
	}
	b, err := info.formatCharCode(r.Last)
	if err != nil {
		return "", err
	}

	if len(r.Text) == 1 {
		return fmt.Sprintf("%s %s %s", a, b, formatText(r.Text[0])), nil
	}

	var texts []string
	for _, t := range r.Text {
		texts = append(texts, formatText(t))
	}
	return fmt.Sprintf("%s %s [%s]", a, b, strings.Join(texts, " ")), nil
}

func formatPDFString(s string) (string, error) {
	buf := &bytes.Buffer{}
	err := pdf.String(s).PDF(buf)
	return buf.String(), err
}

func formatPDFName(args ...interface{}) (string, error) {
	var name pdf.Name
	for _, arg := range args {
		switch x := arg.(type) {
		case string:
			name = name + pdf.Name(x)
		default:
			return "", errors.New("invalid argument type for {{PDFName ...}}")
		}
	}
	buf := &bytes.Buffer{}
	err := name.PDF(buf)
	return buf.String(), err
}

const chunkSize = 100

func singleChunks(x []Single) [][]Single {
	var res [][]Single
	for len(x) >= chunkSize {
		res = append(res, x[:chunkSize])
		x = x[chunkSize:]
	}
	if len(x) > 0 {
		res = append(res, x)
	}
	return res
}

func rangeChunks(x []Range) [][]Range {
	var res [][]Range
	for len(x) >= chunkSize {
		res = append(res, x[:chunkSize])
		x = x[chunkSize:]
	}
	if len(x) > 0 {
		res = append(res, x)
	}
	return res
}

var toUnicodeTmpl = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapType 2 def
/CMapName {{printf "%s-%s-UCS2-%03d" .ROS.Registry .ROS.Ordering .ROS.Supplement | PDFName}} def
/CIDSystemInfo <<
/Registry {{PDFString .ROS.Registry}} def
/Ordering {{PDFString .ROS.Ordering}} def
/Supplement {{.ROS.Supplement}} def
>> def
/WMode 0 def
{{len .CodeSpace}} begincodespacerange
{{range .CodeSpace -}}
{{.}}
{{end -}}
endcodespacerange
{{range SingleChunks .Singles -}}
{{len .}} beginbfchar
{{range . -}}
{{Single .}}
{{end -}}
endbfchar
{{end -}}

{{range RangeChunks .Ranges -}}
{{len .}} beginbfrange
{{range . -}}
{{Range .}}
{{end -}}
endbfrange
{{end -}}

endcmap
CMapName currentdict /CMap defineresource pop
end
end
`
