package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_UnsupportedType(t *testing.T) {
	e := NewExtractor()
	for _, mt := range []string{"image/png", "text/plain", "", "application/zip"} {
		t.Run(mt, func(t *testing.T) {
			_, err := e.ExtractText(context.Background(), []byte("whatever"), mt)
			var ufe *UnsupportedFormatError
			require.ErrorAs(t, err, &ufe)
			assert.Equal(t, mt, ufe.MIMEType)
		})
	}
}

func TestExtractText_Docx(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Go</w:t><w:tab/><w:t>Python</w:t></w:r></w:p>`)

	text, err := NewExtractor().ExtractText(context.Background(), data, MIMEDocx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nSenior Engineer\nGo Python", text)
}

func TestExtractText_DocxWithParameters(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Hello world</w:t></w:r></w:p>`)
	text, err := NewExtractor().ExtractText(context.Background(), data, MIMEDocx+"; charset=binary")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestExtractText_DocxMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = NewExtractor().ExtractText(context.Background(), buf.Bytes(), MIMEDocx)
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "docx", ee.Format)
}

func TestExtractText_DocxNotZip(t *testing.T) {
	_, err := NewExtractor().ExtractText(context.Background(), []byte("plain text"), MIMEDocx)
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
}

func TestExtractText_DocLabelledDocx(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Mislabelled resume</w:t></w:r></w:p>`)
	text, err := NewExtractor().ExtractText(context.Background(), data, MIMEDoc)
	require.NoError(t, err)
	assert.Equal(t, "Mislabelled resume", text)
}

func TestExtractText_DocNotOLE(t *testing.T) {
	_, err := NewExtractor().ExtractText(context.Background(), []byte("definitely not a word file"), MIMEDoc)
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "doc", ee.Format)
}

func TestExtractText_MalformedPDF(t *testing.T) {
	_, err := NewExtractor().ExtractText(context.Background(), []byte("%PDF-1.4\ngarbage"), MIMEPDF)
	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "pdf", ee.Format)
}

func TestExtractText_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewExtractor().ExtractText(ctx, buildDocx(t, ""), MIMEDocx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecoverWordText_UTF16(t *testing.T) {
	var stream []byte
	stream = append(stream, make([]byte, 32)...)
	for _, u := range utf16.Encode([]rune("Jane Doe\rSoftware Engineer\r")) {
		stream = binary.LittleEndian.AppendUint16(stream, u)
	}
	stream = append(stream, 0x01, 0x00, 0x02, 0x00)

	text := recoverWordText(stream)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "Software Engineer")
}

func TestRecoverWordText_Narrow(t *testing.T) {
	stream := append(make([]byte, 32), []byte("Caf\xe9 Manager\rLisbon, Portugal\r\x00\x01")...)

	text := recoverWordText(stream)
	assert.Contains(t, text, "Café Manager")
	assert.Contains(t, text, "Lisbon, Portugal")
}

func TestCheckUpload(t *testing.T) {
	tests := []struct {
		name    string
		size    int64
		mime    string
		limit   int64
		wantErr any
	}{
		{name: "pdf ok", size: 1024, mime: MIMEPDF},
		{name: "docx ok", size: MaxUploadBytes, mime: MIMEDocx},
		{name: "too large", size: MaxUploadBytes + 1, mime: MIMEPDF, wantErr: &TooLargeError{}},
		{name: "size before type", size: MaxUploadBytes + 1, mime: "image/png", wantErr: &TooLargeError{}},
		{name: "bad type", size: 10, mime: "image/png", wantErr: &UnsupportedFormatError{}},
		{name: "custom limit", size: 11, mime: MIMEDoc, limit: 10, wantErr: &TooLargeError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckUpload(tt.size, tt.mime, tt.limit)
			switch tt.wantErr.(type) {
			case nil:
				assert.NoError(t, err)
			case *TooLargeError:
				var tle *TooLargeError
				assert.ErrorAs(t, err, &tle)
			case *UnsupportedFormatError:
				var ufe *UnsupportedFormatError
				assert.ErrorAs(t, err, &ufe)
			}
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	in := "  Jane   Doe \r\n\r\n\n\tEngineer  at  Acme  \n"
	assert.Equal(t, "Jane Doe\nEngineer at Acme", normalizeWhitespace(in))
}
