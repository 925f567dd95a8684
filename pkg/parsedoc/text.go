package parsedoc

import (
	"strings"

	dealmodel "dealflow/pkg/model"
)

// TextParser handles plain-text documents: normalization plus the shared
// heading heuristic, with no OCR fallback path.
type TextParser struct{}

// NewTextParser builds a TextParser.
func NewTextParser() *TextParser {
	return &TextParser{}
}

// Parse normalizes raw text bytes and recovers sections via the shared
// heuristic.
func (p *TextParser) Parse(raw []byte) (ParseResult, error) {
	text := NormalizeText(string(raw))
	var sections []dealmodel.DocumentSection
	for _, line := range strings.Split(text, "\n") {
		if IsHeadingCandidate(line) {
			sections = append(sections, dealmodel.DocumentSection{
				Title:      strings.TrimSpace(line),
				Confidence: HeadingConfidence(line),
			})
		}
	}

	quality := ComputeQuality(text, len(sections), 0)
	return ParseResult{
		Text:             text,
		Sections:         sections,
		OCRRequired:      false,
		Language:         DetectLanguage(text),
		Encoding:         "utf-8",
		ExtractionMethod: dealmodel.ExtractionText,
		Quality:          quality,
	}, nil
}
