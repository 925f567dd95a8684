// Package obslog wraps bracketed fmt.Printf progress lines (e.g.
// "[Stage 2] ...") into a small call-site helper, so stages stay terse
// without adopting a full logging framework the core never carries as
// content (observability is an external collaborator concern; this is
// just the hook it consumes).
package obslog

import "fmt"

// Logger prefixes every line with a stage tag.
type Logger struct {
	stage string
}

// New returns a Logger tagged with stage, e.g. "parsedoc", "llmanalyze".
func New(stage string) *Logger {
	return &Logger{stage: stage}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	fmt.Printf("[%s] %s\n", l.stage, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	fmt.Printf("[%s] WARNING: %s\n", l.stage, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	fmt.Printf("[%s] ERROR: %s\n", l.stage, fmt.Sprintf(format, args...))
}
