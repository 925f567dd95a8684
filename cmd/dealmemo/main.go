// Command dealmemo runs the deal memo analysis pipeline against a set of
// local documents and prints the resulting DealMemo as JSON: load .env,
// read input files, wire the providers, run one pass, print the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dealflow/internal/obslog"
	"dealflow/pkg/config"
	"dealflow/pkg/llmanalyze"
	"dealflow/pkg/llmcap"
	"dealflow/pkg/model"
	"dealflow/pkg/ocr"
	"dealflow/pkg/pipeline"
	"dealflow/pkg/prompt"
)

var logMain = obslog.New("cmd/dealmemo")

func main() {
	var (
		docsDir      = flag.String("docs", "", "directory of input documents (pdf/docx/pptx/txt)")
		company      = flag.String("company", "", "optional company name override")
		sector       = flag.String("sector", "", "optional sector override")
		stage        = flag.String("stage", "", "optional stage override")
		mock         = flag.Bool("mock", true, "use the deterministic mock LLM capability instead of calling Gemini")
		legacyClient = flag.Bool("legacy-client", false, "use the legacy generative-ai-go Gemini client instead of the current genai SDK (ignored when -mock=true)")
	)
	flag.Parse()

	if *docsDir == "" {
		log.Fatal("Error: -docs is required")
	}

	cfg, err := config.Load(os.Getenv("DEALFLOW_CONFIG"))
	if err != nil {
		log.Fatalf("Error: failed to load config: %v", err)
	}

	rawDocs, err := loadDocuments(*docsDir)
	if err != nil {
		log.Fatalf("Critical: failed to load documents from %s: %v", *docsDir, err)
	}
	if len(rawDocs) == 0 {
		log.Fatalf("Critical: no supported documents found in %s", *docsDir)
	}

	logMain.Infof("loaded %d documents from %s", len(rawDocs), *docsDir)

	capability := buildLLMCapability(*mock, *legacyClient, cfg)
	ocrCapability := buildOCRCapability(context.Background())

	p := pipeline.New(cfg, pipeline.Dependencies{
		LLMCapability: capability,
		OCRCapability: ocrCapability,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	memo, err := p.Run(ctx, pipeline.Request{
		Documents: rawDocs,
		Overrides: prompt.Overrides{
			Company: *company,
			Sector:  *sector,
			Stage:   *stage,
		},
	})
	if err != nil {
		log.Fatalf("Error: pipeline run failed: %v", err)
	}

	out, err := json.MarshalIndent(memo, "", "  ")
	if err != nil {
		log.Fatalf("Error: failed to marshal deal memo: %v", err)
	}
	fmt.Println(string(out))
}

func buildLLMCapability(useMock, legacyClient bool, cfg *config.Config) llmanalyze.Capability {
	if useMock {
		return llmcap.NewMockCapability(nil)
	}
	if legacyClient {
		logMain.Infof("using legacy generative-ai-go Gemini client (model %s)", cfg.LLM.Model)
		return llmcap.NewLegacyGeminiCapability(cfg.LLM.Model)
	}
	logMain.Infof("using genai Gemini client (model %s)", cfg.LLM.Model)
	return llmcap.NewGeminiCapability(cfg.LLM.Model)
}

// buildOCRCapability wires the two-tier Vision detector fallback when
// GOOGLE_API_KEY is available, otherwise returns nil so the pipeline
// degrades OCR gracefully.
func buildOCRCapability(ctx context.Context) ocr.Capability {
	docDetector, err := ocr.NewDocumentTextDetector(ctx)
	if err != nil {
		logMain.Warnf("OCR unavailable: %v", err)
		return nil
	}
	textDetector, err := ocr.NewTextDetector(ctx)
	if err != nil {
		logMain.Warnf("OCR unavailable: %v", err)
		return nil
	}
	return ocr.NewFallback(docDetector, textDetector, ocr.DefaultConfig())
}

var extensionToSourceType = map[string]model.SourceType{
	".pdf":  model.SourcePDF,
	".docx": model.SourceDOCX,
	".pptx": model.SourcePPTX,
	".txt":  model.SourceText,
	".md":   model.SourceText,
}

func loadDocuments(dir string) ([]pipeline.RawDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []pipeline.RawDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		sourceType, ok := extensionToSourceType[ext]
		if !ok {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			logMain.Warnf("skipping %s: %v", path, readErr)
			continue
		}
		info, statErr := entry.Info()
		uploadedAt := time.Now()
		var size int64
		if statErr == nil {
			size = info.Size()
			uploadedAt = info.ModTime()
		}
		docs = append(docs, pipeline.RawDocument{
			ID:         entry.Name(),
			SourceType: sourceType,
			Bytes:      data,
			Metadata: model.DocumentMetadata{
				Filename:         entry.Name(),
				ByteSize:         size,
				MimeType:         mimeTypeFor(sourceType),
				UploadedAt:       uploadedAt,
				ProcessingStatus: model.StatusPending,
			},
		})
	}
	return docs, nil
}

func mimeTypeFor(st model.SourceType) string {
	switch st {
	case model.SourcePDF:
		return "application/pdf"
	case model.SourceDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case model.SourcePPTX:
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	default:
		return "text/plain"
	}
}
