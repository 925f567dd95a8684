// Package parsedoc implements the document parsers (§4.2): format-
// specific bytes to structured text, a shared normalization/heuristic
// base, and an OCR-suggestion signal per format. Grounded on the
// teacher's HTML-to-clean-text normalization chain
// (pkg/core/edgar/html_sanitizer.go, converter/pandoc_adapter.go) and its
// heading-detection regexes in pkg/core/edgar/parser.go.
package parsedoc

import (
	"regexp"
	"strings"
	"unicode"

	"dealflow/pkg/model"
)

// ParseResult is the common output contract every format-specific parser
// produces.
type ParseResult struct {
	Text             string
	Sections         []model.DocumentSection
	PageCount        *int
	OCRRequired      bool
	Language         string
	Encoding         string
	ExtractionMethod model.ExtractionMethod
	Quality          model.Quality
	Warnings         []string
}

var crlfPattern = regexp.MustCompile(`\r\n|\r`)
var blankRunPattern = regexp.MustCompile(`\n{3,}`)
var spaceRunPattern = regexp.MustCompile(`[ \t]{2,}`)

// NormalizeText applies the shared base's line-break and whitespace
// normalization: CRLF/CR -> LF, collapse runs of >=3 blank lines to 2,
// collapse runs of spaces, and per-line trim.
func NormalizeText(raw string) string {
	text := crlfPattern.ReplaceAllString(raw, "\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

var businessVocabulary = []string{
	"executive summary", "problem", "solution", "market", "business model",
	"traction", "team", "financials", "funding", "competition", "appendix",
}

var allCapsHeadingPattern = regexp.MustCompile(`^[A-Z0-9 ,.'&\-]{1,100}$`)
var numberedHeadingPattern = regexp.MustCompile(`^\d+\.\s+[A-Z]`)

// IsHeadingCandidate reports whether line looks like a section heading
// under the shared heuristic (ALL-CAPS <=100 chars, or a numbered
// heading, or title-case).
func IsHeadingCandidate(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 100 {
		return false
	}
	if allCapsHeadingPattern.MatchString(line) && hasLetters(line) {
		return true
	}
	if numberedHeadingPattern.MatchString(line) {
		return true
	}
	return isTitleCase(line)
}

func hasLetters(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 || len(words) > 10 {
		return false
	}
	for _, w := range words {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		if !unicode.IsUpper(r[0]) {
			return false
		}
	}
	return true
}

// HeadingConfidence computes the base+bonus confidence score for a
// candidate heading line: base 0.5; +0.3 if it matches the business
// vocabulary; +0.2 if numbered; +0.1 if properly capitalized; capped at
// 1.0.
func HeadingConfidence(line string) float64 {
	score := 0.5
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, term := range businessVocabulary {
		if strings.Contains(lower, term) {
			score += 0.3
			break
		}
	}
	if numberedHeadingPattern.MatchString(line) {
		score += 0.2
	}
	if isTitleCase(line) || allCapsHeadingPattern.MatchString(line) {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// ComputeQuality derives the three-axis quality score from the
// extracted text and recovered section count.
func ComputeQuality(text string, sectionCount, expectedSections int) model.Quality {
	wordCount := len(strings.Fields(text))

	textClarity := 1.0
	if wordCount == 0 {
		textClarity = 0
	} else {
		printable := 0
		for _, r := range text {
			if unicode.IsPrint(r) {
				printable++
			}
		}
		if len(text) > 0 {
			textClarity = float64(printable) / float64(len([]rune(text)))
		}
	}

	structurePreservation := 0.0
	if expectedSections > 0 {
		structurePreservation = float64(sectionCount) / float64(expectedSections)
		if structurePreservation > 1 {
			structurePreservation = 1
		}
	} else if sectionCount > 0 {
		structurePreservation = 1
	}

	completeness := 1.0
	if wordCount == 0 {
		completeness = 0
	} else if wordCount < 20 {
		completeness = float64(wordCount) / 20
	}

	return model.Quality{
		TextClarity:           textClarity,
		StructurePreservation: structurePreservation,
		Completeness:          completeness,
	}
}

// WordCount is a whitespace-split token count.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
