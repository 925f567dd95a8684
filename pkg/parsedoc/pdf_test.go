package parsedoc

import "testing"

func TestPDFParserRejectsNonPDFInput(t *testing.T) {
	p := NewPDFParser()
	if _, err := p.Parse([]byte("this is not a pdf file at all")); err == nil {
		t.Error("expected an error for non-PDF input")
	}
}

func TestNewPDFParserCreatesTempDir(t *testing.T) {
	p := NewPDFParser()
	if p.tempDir == "" {
		t.Error("expected a non-empty temp directory")
	}
}
