package parsedoc

import "testing"

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", "unknown"},
		{"english prose", "The company is growing and the team is strong and the market is large.", "en"},
		{"chinese", "这是一个关于公司增长战略的详细报告和分析", "zh"},
		{"japanese with hiragana", "これは日本語のテキストです", "ja"},
		{"russian", "Это отчет о росте компании и стратегии", "ru"},
		{"arabic", "هذا تقرير عن نمو الشركة واستراتيجيتها", "ar"},
		{"no letters", "12345 67890 !@#$%", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
