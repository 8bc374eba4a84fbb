package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "docx", Message: "not a zip container", Cause: err}
	}

	for _, f := range zr.File {
		if f.Name != docxBodyPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", &ExtractionError{Format: "docx", Message: "cannot open " + docxBodyPart, Cause: err}
		}
		defer func() { _ = rc.Close() }()

		text, err := wordprocessingText(rc)
		if err != nil {
			return "", &ExtractionError{Format: "docx", Message: "malformed " + docxBodyPart, Cause: err}
		}
		return text, nil
	}

	return "", &ExtractionError{Format: "docx", Message: "missing " + docxBodyPart}
}

// wordprocessingText walks WordprocessingML and keeps run text. Paragraph
// ends and breaks become newlines; tabs stay tabs.
func wordprocessingText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return sb.String(), nil
}
