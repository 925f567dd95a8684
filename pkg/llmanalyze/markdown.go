package llmanalyze

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// cleanMarkdownFence strips an outer ```markdown/```json/``` code fence,
// generalized to the extra fence languages models wrap JSON extraction
// responses in.
func cleanMarkdownFence(input string) string {
	cleaned := strings.TrimSpace(input)
	for _, lang := range []string{"```markdown", "```json", "```"} {
		if strings.HasPrefix(cleaned, lang) && strings.HasSuffix(cleaned, "```") {
			cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, lang), "```")
			cleaned = strings.TrimSpace(cleaned)
			break
		}
	}
	return cleaned
}

// looksLikeMarkdown is a basic sanity check on LLM output before the
// JSON decode chain runs. Goldmark's parser returns a document node for
// any input, so this returns true for every string, empty ones included.
func looksLikeMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	return parser.Parse(reader) != nil
}
