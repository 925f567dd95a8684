package llmanalyze

import (
	"context"
	"errors"
	"testing"

	"dealflow/pkg/dealerr"
	"dealflow/pkg/model"
	"dealflow/pkg/prompt"
)

type scriptedCapability struct {
	responses map[string]string
	failures  map[string]error
}

func (s scriptedCapability) Generate(ctx context.Context, systemText, userText string, gen GenerationConfig, safety SafetyConfig) (GenerateResult, error) {
	for substr, err := range s.failures {
		if contains(userText, substr) {
			return GenerateResult{}, err
		}
	}
	for substr, resp := range s.responses {
		if contains(userText, substr) {
			return GenerateResult{Text: resp, FinishReason: FinishStop}, nil
		}
	}
	return GenerateResult{Text: "{}", FinishReason: FinishStop}, nil
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func testDocs() []model.ProcessedDocument {
	return []model.ProcessedDocument{
		{ID: "pitch.pdf", ExtractedText: "Acme is a SaaS company with $2M ARR.", Metadata: model.DocumentMetadata{Filename: "pitch.pdf"}},
	}
}

func TestAnalyzeContentAssemblesAllFourSections(t *testing.T) {
	cap := scriptedCapability{responses: map[string]string{
		"company profile":    `{"name":"Acme","sector":"SaaS"}`,
		"revenue (ARR":       `{"revenue":{"arr":2000000}}`,
		"TAM, SAM":           `{"tam":1000000000}`,
		"strengths, gaps":    `{"strengths":["strong technical founders"]}`,
	}}
	analyzer := NewAnalyzer(cap, nil, prompt.NewManager(), DefaultConfig())

	result, err := analyzer.AnalyzeContent(context.Background(), testDocs(), prompt.Overrides{})
	if err != nil {
		t.Fatalf("AnalyzeContent failed: %v", err)
	}
	if result.CompanyProfile.Name != "Acme" {
		t.Errorf("CompanyProfile.Name = %q, want Acme", result.CompanyProfile.Name)
	}
	if result.Metrics.Revenue.ARR == nil || *result.Metrics.Revenue.ARR != 2_000_000 {
		t.Errorf("Metrics.Revenue.ARR = %+v, want 2000000", result.Metrics.Revenue.ARR)
	}
	if len(result.SourceDocumentIDs) != 1 || result.SourceDocumentIDs[0] != "pitch.pdf" {
		t.Errorf("SourceDocumentIDs = %v", result.SourceDocumentIDs)
	}
}

func TestAnalyzeContentRejectsEmptyDocuments(t *testing.T) {
	analyzer := NewAnalyzer(scriptedCapability{}, nil, prompt.NewManager(), DefaultConfig())
	_, err := analyzer.AnalyzeContent(context.Background(), nil, prompt.Overrides{})
	if err == nil {
		t.Error("expected an error for an empty document set")
	}
}

func TestAnalyzeContentFailsHardWhenRequiredSectionErrors(t *testing.T) {
	cap := scriptedCapability{failures: map[string]error{
		"company profile": errors.New("llm unavailable"),
	}}
	analyzer := NewAnalyzer(cap, nil, prompt.NewManager(), DefaultConfig())

	_, err := analyzer.AnalyzeContent(context.Background(), testDocs(), prompt.Overrides{})
	if err == nil {
		t.Fatal("expected an error when the required company_profile section fails")
	}
	var de *dealerr.Error
	if !errors.As(err, &de) {
		t.Errorf("expected a *dealerr.Error, got %T", err)
	}
}

func TestAnalyzeContentToleratesOptionalSectionFailure(t *testing.T) {
	cap := scriptedCapability{
		responses: map[string]string{
			"company profile": `{"name":"Acme","sector":"SaaS"}`,
			"revenue (ARR":    `{"revenue":{"arr":2000000}}`,
		},
		failures: map[string]error{
			"TAM, SAM": errors.New("market analysis unavailable"),
		},
	}
	analyzer := NewAnalyzer(cap, nil, prompt.NewManager(), DefaultConfig())

	result, err := analyzer.AnalyzeContent(context.Background(), testDocs(), prompt.Overrides{})
	if err != nil {
		t.Fatalf("expected the optional market_claims failure to be tolerated, got error: %v", err)
	}
	if result.CompanyProfile.Name != "Acme" {
		t.Errorf("CompanyProfile.Name = %q, want Acme", result.CompanyProfile.Name)
	}
}

func TestConcatenateDocumentsIncludesFilenameHeaders(t *testing.T) {
	got := concatenateDocuments(testDocs())
	if !contains(got, "pitch.pdf") || !contains(got, "Acme is a SaaS company") {
		t.Errorf("concatenateDocuments() = %q", got)
	}
}
