package resume

import (
	"context"
)

// TextExtractor is the document-to-text step of the pipeline.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// Pipeline composes text extraction and parsing.
type Pipeline struct {
	extractor TextExtractor
	parser    Parser
}

// NewPipeline returns a Pipeline.
func NewPipeline(extractor TextExtractor, parser Parser) *Pipeline {
	return &Pipeline{extractor: extractor, parser: parser}
}

// Parser returns the parser chosen at construction.
func (p *Pipeline) Parser() Parser {
	return p.parser
}

// ParseDocument extracts the text of an uploaded document and parses it.
// Extraction errors are returned unchanged so callers can map them.
func (p *Pipeline) ParseDocument(ctx context.Context, data []byte, mimeType string) (*ParsedProfileFragment, error) {
	text, err := p.extractor.ExtractText(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}
	return p.parser.Parse(ctx, text)
}
