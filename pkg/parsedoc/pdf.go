package parsedoc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	dealmodel "dealflow/pkg/model"
)

// PDFParser extracts text from PDF byte streams via pdfcpu's content
// extraction, page by page, and flags documents likely to need OCR.
// Grounded on the PDF-extraction-to-temp-file pattern used by the rest
// of the example pack for pdfcpu-based text extraction.
type PDFParser struct {
	tempDir string
}

// NewPDFParser builds a PDFParser backed by a scratch temp directory.
func NewPDFParser() *PDFParser {
	tempDir := filepath.Join(os.TempDir(), "dealflow-pdf")
	_ = os.MkdirAll(tempDir, 0755)
	return &PDFParser{tempDir: tempDir}
}

// Parse extracts text per page from raw PDF bytes.
func (p *PDFParser) Parse(raw []byte) (ParseResult, error) {
	tempFile := filepath.Join(p.tempDir, fmt.Sprintf("parse_%d.pdf", os.Getpid()))
	if err := os.WriteFile(tempFile, raw, 0644); err != nil {
		return ParseResult{}, fmt.Errorf("parsedoc: write temp pdf: %w", err)
	}
	defer os.Remove(tempFile)

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return ParseResult{}, fmt.Errorf("parsedoc: read pdf context: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir := filepath.Join(p.tempDir, fmt.Sprintf("pages_%d", os.Getpid()))
	_ = os.MkdirAll(outDir, 0755)
	defer os.RemoveAll(outDir)

	var warnings []string
	pageTexts := make(map[int]string)
	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		warnings = append(warnings, "pdf content extraction failed, text layer may be empty: "+err.Error())
	} else {
		files, _ := os.ReadDir(outDir)
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			content, readErr := os.ReadFile(filepath.Join(outDir, f.Name()))
			if readErr != nil {
				continue
			}
			var pageNum int
			if _, scanErr := fmt.Sscanf(f.Name(), "page_%d", &pageNum); scanErr != nil {
				if _, scanErr := fmt.Sscanf(f.Name(), "Content_page_%d", &pageNum); scanErr != nil {
					continue
				}
			}
			pageTexts[pageNum] = string(content)
		}
	}

	var builder strings.Builder
	var sections []dealmodel.DocumentSection
	extractedBytes := 0
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := NormalizeText(pageTexts[pageNum])
		if pageNum > 1 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(text)
		extractedBytes += len(text)

		pn := pageNum
		for _, line := range strings.Split(text, "\n") {
			if IsHeadingCandidate(line) {
				sections = append(sections, dealmodel.DocumentSection{
					Title:      strings.TrimSpace(line),
					PageNumber: &pn,
					Confidence: HeadingConfidence(line),
				})
			}
		}
	}

	fullText := builder.String()
	density := 0.0
	if len(raw) > 0 {
		density = float64(extractedBytes) / float64(len(raw))
	}
	wordsPerPage := 0.0
	if pageCount > 0 {
		wordsPerPage = float64(WordCount(fullText)) / float64(pageCount)
	}
	ocrRequired := density < 0.01 || wordsPerPage < 50 || (len(raw) > 100*1024 && extractedBytes < 1024)
	if ocrRequired {
		warnings = append(warnings, "low text density detected, OCR fallback recommended")
	}

	quality := ComputeQuality(fullText, len(sections), 0)
	pc := pageCount
	return ParseResult{
		Text:             fullText,
		Sections:         sections,
		PageCount:        &pc,
		OCRRequired:      ocrRequired,
		Language:         DetectLanguage(fullText),
		Encoding:         "utf-8",
		ExtractionMethod: dealmodel.ExtractionText,
		Quality:          quality,
		Warnings:         warnings,
	}, nil
}
