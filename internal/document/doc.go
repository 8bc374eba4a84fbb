package document

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"unicode"

	"github.com/richardlehane/mscfb"
	"golang.org/x/text/encoding/charmap"
)

var (
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipSignature = []byte("PK\x03\x04")
)

const (
	wordDocumentStream = "WordDocument"
	// legacyFcMinOffset is where pre-97 FIBs stored the text start offset.
	// Word 97+ writers usually still fill it in.
	legacyFcMinOffset = 0x18
	minRunLength      = 4
)

// extractDoc reads a binary Word document. Files that are really .docx
// containers with a .doc label are handed to the DOCX reader.
func extractDoc(data []byte) (string, error) {
	if bytes.HasPrefix(data, zipSignature) {
		return extractDocx(data)
	}
	if !bytes.HasPrefix(data, oleSignature) {
		return "", &ExtractionError{Format: "doc", Message: "not an OLE2 compound document"}
	}

	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Format: "doc", Message: "cannot open compound document", Cause: err}
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != wordDocumentStream {
			continue
		}
		stream, err := io.ReadAll(entry)
		if err != nil {
			return "", &ExtractionError{Format: "doc", Message: "cannot read " + wordDocumentStream, Cause: err}
		}
		return recoverWordText(stream), nil
	}

	return "", &ExtractionError{Format: "doc", Message: "missing " + wordDocumentStream + " stream"}
}

// recoverWordText pulls readable text out of a WordDocument stream without
// interpreting the piece table. Text is stored either as 8-bit cp1252 or as
// UTF-16LE; both decodings are tried and the one yielding more letters wins.
func recoverWordText(stream []byte) string {
	start := 0
	if len(stream) >= legacyFcMinOffset+4 {
		fcMin := int(binary.LittleEndian.Uint32(stream[legacyFcMinOffset:]))
		if fcMin > 0 && fcMin < len(stream) {
			start = fcMin
		}
	}
	body := stream[start:]

	narrow := narrowRuns(body)
	wide := wideRuns(body)
	if letterCount(wide) > letterCount(narrow) {
		return wide
	}
	return narrow
}

func narrowRuns(b []byte) string {
	dec := charmap.Windows1252.NewDecoder()
	var out []string
	var run []byte
	flush := func() {
		if len(bytes.TrimSpace(run)) >= minRunLength {
			if s, err := dec.Bytes(run); err == nil {
				out = append(out, string(s))
			}
		}
		run = run[:0]
	}
	for _, c := range b {
		switch {
		case c == '\r' || c == '\n' || c == 0x0B:
			flush()
		case c == '\t' || (c >= 0x20 && c < 0x7F) || c >= 0xA0:
			run = append(run, c)
		default:
			flush()
		}
	}
	flush()
	return strings.Join(out, "\n")
}

func wideRuns(b []byte) string {
	var out []string
	var run []rune
	flush := func() {
		if len(strings.TrimSpace(string(run))) >= minRunLength {
			out = append(out, string(run))
		}
		run = run[:0]
	}
	for i := 0; i+1 < len(b); i += 2 {
		r := rune(binary.LittleEndian.Uint16(b[i:]))
		switch {
		case r == '\r' || r == '\n' || r == 0x0B:
			flush()
		case r == '\t' || (r >= 0x20 && r < 0x7F) || (r >= 0xA0 && r < 0x0250) || (r >= 0x2010 && r <= 0x2027):
			run = append(run, r)
		default:
			flush()
		}
	}
	flush()
	return strings.Join(out, "\n")
}

func letterCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
