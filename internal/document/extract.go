// Package document converts uploaded resume files into plain text.
//
// Dispatch is strictly on the declared MIME type. PDF, legacy Word (.doc)
// and modern Word (.docx) are supported; anything else fails with
// *UnsupportedFormatError before the bytes are looked at.
package document

import (
	"context"
	"mime"
	"regexp"
	"strings"
)

// Supported MIME types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDoc  = "application/msword"
	MIMEDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxUploadBytes is the largest file accepted at the upload boundary.
const MaxUploadBytes int64 = 10 << 20

// baseType strips parameters such as "; charset=binary" and lowercases.
func baseType(mimeType string) string {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(mimeType))
	}
	return mt
}

// Allowed reports whether mimeType is on the upload allow-list.
func Allowed(mimeType string) bool {
	switch baseType(mimeType) {
	case MIMEPDF, MIMEDoc, MIMEDocx:
		return true
	}
	return false
}

// CheckUpload validates a file at the upload boundary: size first, then
// MIME type. limit <= 0 means MaxUploadBytes.
func CheckUpload(size int64, mimeType string, limit int64) error {
	if limit <= 0 {
		limit = MaxUploadBytes
	}
	if size > limit {
		return &TooLargeError{Size: size, Limit: limit}
	}
	if !Allowed(mimeType) {
		return &UnsupportedFormatError{MIMEType: mimeType}
	}
	return nil
}

// Extractor turns document bytes into text.
type Extractor struct{}

// NewExtractor returns an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText returns the plain text of data, read according to mimeType.
// An empty result is not an error.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	var extract func([]byte) (string, error)
	switch baseType(mimeType) {
	case MIMEPDF:
		extract = extractPDF
	case MIMEDocx:
		extract = extractDocx
	case MIMEDoc:
		extract = extractDoc
	default:
		return "", &UnsupportedFormatError{MIMEType: mimeType}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := extract(data)
	if err != nil {
		return "", err
	}
	return normalizeWhitespace(text), nil
}

var (
	inlineSpace = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	blankLines  = regexp.MustCompile(`\n\s*\n+`)
)

func normalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = inlineSpace.ReplaceAllString(s, " ")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankLines.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
