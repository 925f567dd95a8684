package parsedoc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	dealmodel "dealflow/pkg/model"
)

// DocxParser extracts text from word-processed (.docx) documents by
// reading the word/document.xml part directly, then cross-checks a raw
// paragraph scan against a goquery-driven structured heading walk over a
// synthesized pseudo-HTML rendering of the paragraph styles, keeping
// whichever recovers more sections. The style-attribute-driven
// fake-header promotion is adapted from inline CSS font-size/bold
// detection to WordprocessingML paragraph styles.
type DocxParser struct{}

// NewDocxParser builds a DocxParser.
func NewDocxParser() *DocxParser {
	return &DocxParser{}
}

type docxParagraph struct {
	Text        string
	HeadingName string // e.g. "Heading1", "" if body text
}

var headingStylePattern = regexp.MustCompile(`^[Hh]eading(\d)$`)

// Parse extracts text and sections from raw .docx bytes.
func (p *DocxParser) Parse(raw []byte) (ParseResult, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return ParseResult{}, fmt.Errorf("parsedoc: open docx zip: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, openErr := f.Open()
			if openErr != nil {
				return ParseResult{}, fmt.Errorf("parsedoc: open word/document.xml: %w", openErr)
			}
			docXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return ParseResult{}, fmt.Errorf("parsedoc: read word/document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return ParseResult{}, fmt.Errorf("parsedoc: word/document.xml not found in docx")
	}

	paragraphs, err := extractDocxParagraphs(docXML)
	if err != nil {
		return ParseResult{}, fmt.Errorf("parsedoc: parse document.xml: %w", err)
	}

	var rawLines []string
	for _, para := range paragraphs {
		rawLines = append(rawLines, para.Text)
	}
	rawText := NormalizeText(strings.Join(rawLines, "\n"))

	heuristicSections := headingsFromText(rawText)
	structuredSections := structuredDocxSections(paragraphs)

	sections := heuristicSections
	if len(structuredSections) >= len(heuristicSections) {
		sections = structuredSections
	}

	quality := ComputeQuality(rawText, len(sections), 0)
	return ParseResult{
		Text:             rawText,
		Sections:         sections,
		OCRRequired:      false,
		Language:         DetectLanguage(rawText),
		Encoding:         "utf-8",
		ExtractionMethod: dealmodel.ExtractionText,
		Quality:          quality,
	}, nil
}

func extractDocxParagraphs(docXML []byte) ([]docxParagraph, error) {
	decoder := xml.NewDecoder(bytes.NewReader(docXML))
	var paragraphs []docxParagraph
	var current *docxParagraph
	var textBuilder strings.Builder
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
			switch localName(t.Name.Local) {
			case "p":
				current = &docxParagraph{}
				textBuilder.Reset()
			case "pStyle":
				if current != nil {
					for _, attr := range t.Attr {
						if localName(attr.Name.Local) == "val" {
							current.HeadingName = attr.Value
						}
					}
				}
			case "t":
				inText = true
			}
		case xml.CharData:
			if inText {
				textBuilder.Write(t)
			}
		case xml.EndElement:
			switch localName(t.Name.Local) {
			case "t":
				inText = false
			case "p":
				if current != nil {
					current.Text = textBuilder.String()
					paragraphs = append(paragraphs, *current)
					current = nil
				}
			}
		}
	}
	return paragraphs, nil
}

func localName(name string) string {
	if idx := strings.IndexByte(name, ':'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func headingsFromText(text string) []dealmodel.DocumentSection {
	var sections []dealmodel.DocumentSection
	for _, line := range strings.Split(text, "\n") {
		if IsHeadingCandidate(line) {
			sections = append(sections, dealmodel.DocumentSection{
				Title:      strings.TrimSpace(line),
				Confidence: HeadingConfidence(line),
			})
		}
	}
	return sections
}

// structuredDocxSections renders the paragraph stream as pseudo-HTML
// (heading styles become <h1>..<h6>, body text becomes <p>) and walks it
// with goquery.
func structuredDocxSections(paragraphs []docxParagraph) []dealmodel.DocumentSection {
	var html strings.Builder
	for _, para := range paragraphs {
		text := strings.TrimSpace(para.Text)
		if text == "" {
			continue
		}
		escaped := strings.NewReplacer("<", "&lt;", ">", "&gt;").Replace(text)
		if m := headingStylePattern.FindStringSubmatch(para.HeadingName); m != nil {
			fmt.Fprintf(&html, "<h%s>%s</h%s>\n", m[1], escaped, m[1])
		} else if strings.EqualFold(para.HeadingName, "Title") {
			fmt.Fprintf(&html, "<h1>%s</h1>\n", escaped)
		} else {
			fmt.Fprintf(&html, "<p>%s</p>\n", escaped)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.String()))
	if err != nil {
		return nil
	}

	var sections []dealmodel.DocumentSection
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return
		}
		confidence := HeadingConfidence(title)
		if confidence < 1.0 {
			confidence += 0.2
			if confidence > 1.0 {
				confidence = 1.0
			}
		}
		sections = append(sections, dealmodel.DocumentSection{
			Title:      title,
			Confidence: confidence,
		})
	})
	return sections
}
