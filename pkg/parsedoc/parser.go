package parsedoc

import (
	"fmt"
	"time"

	"dealflow/pkg/model"
)

// FormatParser is the contract every format-specific parser satisfies.
type FormatParser interface {
	Parse(raw []byte) (ParseResult, error)
}

// Dispatcher routes raw document bytes to the parser for their declared
// source type and assembles the resulting model.ProcessedDocument.
type Dispatcher struct {
	parsers map[model.SourceType]FormatParser
}

// NewDispatcher wires the default format parsers.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		parsers: map[model.SourceType]FormatParser{
			model.SourcePDF:  NewPDFParser(),
			model.SourceDOCX: NewDocxParser(),
			model.SourcePPTX: NewPptxParser(),
			model.SourceText: NewTextParser(),
		},
	}
}

// ParseDocument parses raw bytes per sourceType into a ProcessedDocument.
// docID and metadata are caller-supplied so the pipeline can assign
// stable IDs independent of parsing outcome. The returned ParseResult
// carries the OCRRequired signal so callers can decide whether to run
// the OCR fallback path before accepting the text-layer result.
func (d *Dispatcher) ParseDocument(docID string, sourceType model.SourceType, raw []byte, metadata model.DocumentMetadata) (model.ProcessedDocument, ParseResult, error) {
	parser, ok := d.parsers[sourceType]
	if !ok {
		return model.ProcessedDocument{}, ParseResult{}, fmt.Errorf("parsedoc: unsupported source type %q", sourceType)
	}

	started := time.Now()
	result, err := parser.Parse(raw)
	if err != nil {
		return model.ProcessedDocument{}, ParseResult{}, err
	}
	duration := time.Since(started)

	sourceDocument := metadata.Filename
	if sourceDocument == "" {
		sourceDocument = docID
	}
	for i := range result.Sections {
		result.Sections[i].SourceDocument = sourceDocument
	}

	doc := model.ProcessedDocument{
		ID:                  docID,
		SourceType:          sourceType,
		ExtractedText:       result.Text,
		Sections:            result.Sections,
		Metadata:            metadata,
		WordCount:           WordCount(result.Text),
		Language:            result.Language,
		Encoding:            result.Encoding,
		ExtractionMethod:    result.ExtractionMethod,
		Quality:             result.Quality,
		Warnings:            result.Warnings,
		ProcessingTimestamp: started,
		ProcessingDuration:  duration,
	}
	return doc, result, nil
}
