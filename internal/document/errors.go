package document

import "fmt"

// UnsupportedFormatError is returned for any MIME type outside the
// allow-list. No extraction is attempted.
type UnsupportedFormatError struct {
	MIMEType string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file type: %q (allowed: PDF, DOC, DOCX)", e.MIMEType)
}

// ExtractionError is returned when a supported document cannot be read.
type ExtractionError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// TooLargeError is returned by the upload guard for oversized files.
type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file is %d bytes, limit is %d bytes", e.Size, e.Limit)
}
