package parsedoc

import (
	"strings"
	"unicode"
)

var englishStopwords = []string{
	" the ", " and ", " of ", " to ", " in ", " is ", " that ", " for ", " with ", " are ",
}

// DetectLanguage applies the shared heuristic: count English stopword
// occurrences first (>=3 hits -> "en"); otherwise classify by the
// dominant Unicode block; otherwise "unknown".
func DetectLanguage(text string) string {
	if text == "" {
		return "unknown"
	}
	padded := " " + strings.ToLower(text) + " "
	hits := 0
	for _, sw := range englishStopwords {
		hits += strings.Count(padded, sw)
		if hits >= 3 {
			return "en"
		}
	}

	var han, hiragana, cyrillic, arabic, letters int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.Is(unicode.Hiragana, r), unicode.Is(unicode.Katakana, r):
			hiragana++
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Arabic, r):
			arabic++
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters == 0 {
		return "unknown"
	}
	switch {
	case hiragana > 0:
		return "ja"
	case han > letters/4:
		return "zh"
	case cyrillic > letters/4:
		return "ru"
	case arabic > letters/4:
		return "ar"
	}
	return "unknown"
}
