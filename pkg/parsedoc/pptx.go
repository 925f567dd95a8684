package parsedoc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	dealmodel "dealflow/pkg/model"
)

// PptxParser extracts text from slide-deck (.pptx) documents by reading
// each ppt/slides/slideN.xml part in slide order, taking each slide's
// title from its first text run (title placeholders are not told apart
// from other text), and flagging image-heavy decks for OCR.
type PptxParser struct{}

// NewPptxParser builds a PptxParser.
func NewPptxParser() *PptxParser {
	return &PptxParser{}
}

var slideFilePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type pptxSlide struct {
	Number int
	Runs   []string
}

// Parse extracts per-slide text and sections from raw .pptx bytes.
func (p *PptxParser) Parse(raw []byte) (ParseResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return ParseResult{}, fmt.Errorf("parsedoc: open pptx zip: %w", err)
	}

	var slides []pptxSlide
	for _, f := range zr.File {
		m := slideFilePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		rc, openErr := f.Open()
		if openErr != nil {
			continue
		}
		slideXML, readErr := io.ReadAll(rc)
		rc.Close()
		if readErr != nil {
			continue
		}
		runs, extractErr := extractSlideTextRuns(slideXML)
		if extractErr != nil {
			continue
		}
		slides = append(slides, pptxSlide{Number: num, Runs: runs})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Number < slides[j].Number })

	var builder strings.Builder
	var sections []dealmodel.DocumentSection
	sparseSlides := 0
	for i, slide := range slides {
		slideText := strings.Join(slide.Runs, " ")
		wordCount := WordCount(slideText)
		if wordCount < 5 {
			sparseSlides++
		}

		title := synthesizeSlideTitle(slide.Runs)
		if i > 0 {
			builder.WriteString("\n\n")
		}
		fmt.Fprintf(&builder, "=== Slide %d ===\n%s", slide.Number, slideText)

		sn := slide.Number
		confidence := 0.5
		if title != "" {
			confidence = HeadingConfidence(title)
		}
		sections = append(sections, dealmodel.DocumentSection{
			Title:      title,
			Content:    slideText,
			PageNumber: &sn,
			Confidence: confidence,
		})
	}

	fullText := NormalizeText(builder.String())
	ocrRequired := len(slides) > 0 && float64(sparseSlides)/float64(len(slides)) > 0.5

	quality := ComputeQuality(fullText, len(sections), len(slides))
	pc := len(slides)
	return ParseResult{
		Text:             fullText,
		Sections:         sections,
		PageCount:        &pc,
		OCRRequired:      ocrRequired,
		Language:         DetectLanguage(fullText),
		Encoding:         "utf-8",
		ExtractionMethod: dealmodel.ExtractionText,
		Quality:          quality,
	}, nil
}

// synthesizeSlideTitle returns the first non-empty run, trimmed and cut
// to its first 80 bytes if longer; it returns "" when no run has text.
func synthesizeSlideTitle(runs []string) string {
	for _, run := range runs {
		trimmed := strings.TrimSpace(run)
		if trimmed == "" {
			continue
		}
		if len(trimmed) <= 80 {
			return trimmed
		}
		return trimmed[:80]
	}
	return ""
}

func extractSlideTextRuns(slideXML []byte) ([]string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(slideXML))
	var runs []string
	var builder strings.Builder
	inText := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if localName(t.Name.Local) == "t" {
				inText = true
				builder.Reset()
			}
		case xml.CharData:
			if inText {
				builder.Write(t)
			}
		case xml.EndElement:
			if localName(t.Name.Local) == "t" {
				inText = false
				if text := strings.TrimSpace(builder.String()); text != "" {
					runs = append(runs, text)
				}
			}
		}
	}
	return runs, nil
}
