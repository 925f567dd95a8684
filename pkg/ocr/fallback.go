package ocr

import (
	"context"
	"sort"
	"strings"

	"dealflow/internal/obslog"
	"dealflow/pkg/model"
)

var log = obslog.New("ocr")

// Config tunes the fallback and confidence-warning thresholds.
type Config struct {
	// MinConfidence below which a warning is attached to the result
	// rather than silently accepted.
	MinConfidence float64
	// RowTolerance is the vertical pixel/point distance within which two
	// blocks are considered part of the same text row when sorting into
	// reading order.
	RowTolerance float64
}

// DefaultConfig is the out-of-the-box OCR fallback configuration.
func DefaultConfig() Config {
	return Config{MinConfidence: 0.6, RowTolerance: 20}
}

// Fallback runs the two-tier detector chain: document-text first (better
// for paragraph-dense pages), then general text detection if the first
// tier comes back under the confidence threshold or errors.
type Fallback struct {
	documentDetector Detector
	textDetector     Detector
	config           Config
}

// NewFallback wires both detector tiers.
func NewFallback(documentDetector, textDetector Detector, config Config) *Fallback {
	return &Fallback{documentDetector: documentDetector, textDetector: textDetector, config: config}
}

// Result is the OCR subsystem's output for one page image.
type Result struct {
	Sections   []model.DocumentSection
	Text       string
	Confidence float64
	Tier       string
	Warnings   []string
}

// Run executes the detector fallback chain against one page image and
// converts the winning tier's blocks into reading-order sections.
func (f *Fallback) Run(ctx context.Context, pageImage []byte, sourceDocumentID string, pageNumber int) (Result, error) {
	var warnings []string

	primary, err := f.documentDetector.Detect(ctx, pageImage)
	tier := "document_text"
	if err != nil || primary.Confidence < f.config.MinConfidence {
		if err != nil {
			log.Warnf("document-text detector failed, falling back: %v", err)
		} else {
			log.Warnf("document-text confidence %.2f below threshold, falling back", primary.Confidence)
		}
		secondary, fallbackErr := f.textDetector.Detect(ctx, pageImage)
		if fallbackErr != nil {
			if err != nil {
				return Result{}, fallbackErr
			}
			warnings = append(warnings, "text detector fallback failed, using lower-confidence document-text result")
		} else {
			primary = secondary
			tier = "text"
		}
	}

	if primary.Confidence < f.config.MinConfidence {
		warnings = append(warnings, "OCR confidence below threshold for this page")
	}

	sections := blocksToSections(primary.Blocks, f.config.RowTolerance, sourceDocumentID, pageNumber)
	text := sectionsText(sections)

	return Result{
		Sections:   sections,
		Text:       text,
		Confidence: primary.Confidence,
		Tier:       tier,
		Warnings:   warnings,
	}, nil
}

// blocksToSections sorts OCR blocks into reading order (top-to-bottom,
// left-to-right within a row tolerance) and groups them into sections,
// starting a new section whenever a block looks like a heading.
func blocksToSections(blocks []Block, rowTolerance float64, sourceDocumentID string, pageNumber int) []model.DocumentSection {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if absDiff(sorted[i].Top, sorted[j].Top) <= rowTolerance {
			return sorted[i].Left < sorted[j].Left
		}
		return sorted[i].Top < sorted[j].Top
	})

	var sections []model.DocumentSection
	var current *model.DocumentSection
	pn := pageNumber

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSpace(current.Content)
			sections = append(sections, *current)
			current = nil
		}
	}

	for _, b := range sorted {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		if looksLikeOCRHeading(b, text) {
			flush()
			current = &model.DocumentSection{
				Title:          text,
				SourceDocument: sourceDocumentID,
				PageNumber:     &pn,
				Confidence:     b.Confidence,
			}
			continue
		}
		if current == nil {
			current = &model.DocumentSection{
				Title:          "",
				SourceDocument: sourceDocumentID,
				PageNumber:     &pn,
				Confidence:     b.Confidence,
			}
		}
		if current.Content != "" {
			current.Content += " "
		}
		current.Content += text
	}
	flush()
	return sections
}

// looksLikeOCRHeading accepts text of at most 80 bytes and 1-8 words
// whose words all start with an upper-case letter, or which has no
// lower-case letters. The block's position on the page is not considered.
func looksLikeOCRHeading(b Block, text string) bool {
	if len(text) > 80 {
		return false
	}
	words := strings.Fields(text)
	if len(words) == 0 || len(words) > 8 {
		return false
	}
	return isHeadingShaped(text)
}

func isHeadingShaped(text string) bool {
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			// Has lowercase; require title-case-ish first letter per word
			// rather than rejecting outright.
			break
		}
	}
	words := strings.Fields(text)
	titleCased := 0
	for _, w := range words {
		if len(w) > 0 && w[0] >= 'A' && w[0] <= 'Z' {
			titleCased++
		}
	}
	return titleCased == len(words) || strings.ToUpper(text) == text
}

func sectionsText(sections []model.DocumentSection) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if s.Title != "" {
			b.WriteString(s.Title)
			b.WriteString("\n")
		}
		b.WriteString(s.Content)
	}
	return b.String()
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
