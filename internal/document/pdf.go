package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

func extractPDF(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &ExtractionError{Format: "pdf", Message: "malformed document", Cause: fmt.Errorf("%v", r)}
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Message: "cannot open document", Cause: err}
	}

	plain, err := r.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Message: "cannot read text", Cause: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &ExtractionError{Format: "pdf", Message: "cannot read text", Cause: err}
	}
	return buf.String(), nil
}
