// Package pipeline wires the full analysis chain (§2): parsing, the
// pattern and LLM extractors, reconciliation, consistency checking,
// scoring, and recommendation synthesis into one Run call that turns raw
// document bytes into a DealMemo.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"dealflow/internal/obslog"
	"dealflow/pkg/benchmark"
	"dealflow/pkg/config"
	"dealflow/pkg/consistency"
	"dealflow/pkg/dealerr"
	"dealflow/pkg/llmanalyze"
	"dealflow/pkg/model"
	"dealflow/pkg/ocr"
	"dealflow/pkg/parsedoc"
	"dealflow/pkg/patternextract"
	"dealflow/pkg/prompt"
	"dealflow/pkg/reconcile"
	"dealflow/pkg/recommend"
	"dealflow/pkg/resilience"
	"dealflow/pkg/score"
	"dealflow/pkg/weighting"
)

var log = obslog.New("pipeline")

// RawDocument is one caller-supplied document before parsing.
type RawDocument struct {
	ID         string
	SourceType model.SourceType
	Bytes      []byte
	Metadata   model.DocumentMetadata
}

// Dependencies bundles the external collaborators the pipeline needs.
// BenchmarkCapability and OCRCapability may both be nil, in which case
// benchmark lookups and OCR fallback always degrade.
type Dependencies struct {
	LLMCapability       llmanalyze.Capability
	BenchmarkCapability benchmark.Capability
	OCRCapability       ocr.Capability
	ScoreStrategy       score.Strategy // nil -> score.DefaultStrategy{}
}

// Pipeline is the assembled set of stage collaborators, built once from
// a config.Config and a set of Dependencies.
type Pipeline struct {
	cfg *config.Config

	dispatcher    *parsedoc.Dispatcher
	promptManager *prompt.Manager
	analyzer      *llmanalyze.Analyzer
	patternExtr   *patternextract.Extractor
	reconciler    *reconcile.Reconciler
	consistency   *consistency.Checker
	benchLookup   *benchmark.Lookup
	ocrLookup     *ocr.Lookup
	scoreCalc     *score.Calculator
	recommender   *recommend.Engine
	weightings    *weighting.Registry

	llmBreaker   *resilience.CircuitBreaker
	degradeMgr   *resilience.DegradationManager
}

// New builds a Pipeline from config and external collaborators.
func New(cfg *config.Config, deps Dependencies) *Pipeline {
	breakerRegistry := resilience.NewRegistry(resilience.CircuitBreakerConfig{
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		RecoveryTimeout:  time.Duration(cfg.CircuitBreaker.RecoveryTimeoutMs) * time.Millisecond,
	})
	degradeMgr := resilience.NewDegradationManager(resilience.DefaultDegradationConfig())

	retryPolicy := resilience.RetryPolicy{
		MaxAttempts:       cfg.Retry.MaxAttempts,
		BaseDelay:         time.Duration(cfg.Retry.BaseDelayMs) * time.Millisecond,
		BackoffMultiplier: cfg.Retry.BackoffMultiplier,
		MaxDelay:          time.Duration(cfg.Retry.MaxDelayMs) * time.Millisecond,
	}

	promptManager := prompt.NewManager()

	analyzerCfg := llmanalyze.Config{
		Retry:       retryPolicy,
		CallTimeout: time.Duration(cfg.LLM.CallTimeoutSeconds) * time.Second,
		Generation: llmanalyze.GenerationConfig{
			MaxOutputTokens: cfg.LLM.MaxOutputTokens,
			Temperature:     cfg.LLM.DefaultTemperature,
			TopP:            cfg.LLM.DefaultTopP,
			TopK:            cfg.LLM.DefaultTopK,
		},
	}
	llmBreaker := breakerRegistry.Get("llm")
	analyzer := llmanalyze.NewAnalyzer(deps.LLMCapability, llmBreaker, promptManager, analyzerCfg)

	benchBreaker := breakerRegistry.Get("benchmarks")
	benchLookup := benchmark.NewLookup(deps.BenchmarkCapability, benchBreaker, retryPolicy, degradeMgr)

	ocrBreaker := breakerRegistry.Get("ocr")
	ocrLookup := ocr.NewLookup(deps.OCRCapability, ocrBreaker, retryPolicy, degradeMgr)

	weightRegistry := weighting.NewRegistry()

	return &Pipeline{
		cfg:           cfg,
		dispatcher:    parsedoc.NewDispatcher(),
		promptManager: promptManager,
		analyzer:      analyzer,
		patternExtr:   patternextract.NewExtractor(),
		reconciler:    reconcile.NewReconciler(reconcile.DefaultOptions(), nil),
		consistency: consistency.NewChecker(consistency.Config{
			ToleranceFinancial:  cfg.Consistency.ToleranceFinancial,
			TolerancePercentage: cfg.Consistency.TolerancePercentage,
			ToleranceCount:      cfg.Consistency.ToleranceCount,
			ToleranceDateDays:   cfg.Consistency.ToleranceDateDays,
			CriticalMetrics:     cfg.Consistency.CriticalMetrics,
			RequireAllDocuments: cfg.Consistency.RequireAllDocuments,
			PrioritizeRecent:    cfg.Consistency.PrioritizeRecent,
		}),
		benchLookup: benchLookup,
		ocrLookup:   ocrLookup,
		scoreCalc:   score.NewCalculator(deps.ScoreStrategy),
		recommender: recommend.NewEngine(recommend.Config{CollapseHoldIntoPass: cfg.Scoring.CollapseHoldIntoPass}),
		weightings:  weightRegistry,
		llmBreaker:  llmBreaker,
		degradeMgr:  degradeMgr,
	}
}

// Request is one Run invocation's input.
type Request struct {
	Documents       []RawDocument
	Overrides       prompt.Overrides
	WeightingProfile string // empty -> weighting.DefaultProfileName
}

// parsedDoc pairs a successfully parsed document with its raw
// ParseResult (for OCR-signal and warning propagation).
type parsedDoc struct {
	doc    model.ProcessedDocument
	result parsedoc.ParseResult
	err    error
}

// Run executes the full pipeline end to end, producing a DealMemo.
// Per-document parse failures are logged and excluded from the batch
// rather than failing the whole run; only a fully empty batch, or a
// failure in a required LLM extraction stage, is fatal.
func (p *Pipeline) Run(ctx context.Context, req Request) (model.DealMemo, error) {
	started := time.Now()
	if len(req.Documents) == 0 {
		return model.DealMemo{}, dealerr.New(dealerr.CategoryValidation, "NO_DOCUMENTS", "at least one document is required")
	}

	processed, warnings := p.parseAll(ctx, req.Documents)
	if len(processed) == 0 {
		return model.DealMemo{}, dealerr.New(dealerr.CategoryDocumentProcessing, "ALL_DOCUMENTS_FAILED", "no document could be parsed")
	}

	analysis, err := p.analyzer.AnalyzeContent(ctx, processed, req.Overrides)
	if err != nil {
		return model.DealMemo{}, err
	}

	patternEntities := p.extractPatterns(processed)
	llmEntities := entitiesFromAnalysis(analysis)
	analysis.Entities = p.reconciler.Reconcile(patternEntities, llmEntities)

	consistencyReport := p.checkConsistency(processed, patternEntities, analysis)
	analysis.ConsistencyFlags = flagsFromIssues(consistencyReport.Issues)

	risks := deriveRisks(analysis, consistencyReport)

	weightings, weightWarn := p.resolveWeightings(req.WeightingProfile)
	if weightWarn != "" {
		warnings = append(warnings, weightWarn)
	}

	sector := analysis.CompanyProfile.Sector
	benchResult := p.benchLookup.Get(ctx, sector)
	if benchResult.Warning != "" {
		warnings = append(warnings, benchResult.Warning)
	}

	scoreInputs := score.Inputs{
		Metrics:       analysis.Metrics,
		Market:        analysis.MarketClaims,
		Team:          analysis.TeamAssessment,
		Competitive:   analysis.CompetitiveAnalysis,
		Product:       analysis.ProductProfile,
		Benchmarks:    benchResult.Benchmarks,
		HasBenchmarks: !benchResult.Degraded,
	}
	breakdown := p.scoreCalc.Compute(scoreInputs, weightings, analysis.Confidence)

	keyBenchmarks := deriveKeyBenchmarks(analysis.Metrics, benchResult.Benchmarks, !benchResult.Degraded)

	memo := p.recommender.Synthesize(recommend.Input{
		Analysis:       analysis,
		Score:          breakdown,
		Risks:          risks,
		KeyBenchmarks:  keyBenchmarks,
		Weightings:     weightings,
		Benchmarks:     benchResult.Benchmarks,
		HasBenchmarks:  !benchResult.Degraded,
		SourceDocIDs:   analysis.SourceDocumentIDs,
		ProcessingTime: int64(time.Since(started)),
		Warnings:       warnings,
	})

	return memo, nil
}

// parseAll parses every requested document concurrently, collecting
// successes and logging (never failing the batch on) per-document
// errors, using a WaitGroup+channel collector shape for the fan-out.
// A document whose parser flagged OCRRequired is routed through the
// degradation-gated OCR fallback before being added to the batch.
func (p *Pipeline) parseAll(ctx context.Context, docs []RawDocument) ([]model.ProcessedDocument, []string) {
	results := make(chan parsedDoc, len(docs))
	var wg sync.WaitGroup

	for _, d := range docs {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, result, err := p.dispatcher.ParseDocument(d.ID, d.SourceType, d.Bytes, d.Metadata)
			if err == nil && result.OCRRequired {
				doc, result = p.runOCRFallback(ctx, doc, result, d.Bytes)
			}
			results <- parsedDoc{doc: doc, result: result, err: err}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var processed []model.ProcessedDocument
	var warnings []string
	for r := range results {
		if r.err != nil {
			log.Warnf("document parse failed: %v", r.err)
			warnings = append(warnings, fmt.Sprintf("document failed to parse: %v", r.err))
			continue
		}
		warnings = append(warnings, r.result.Warnings...)
		processed = append(processed, r.doc)
	}
	return processed, warnings
}

// runOCRFallback runs the two-tier OCR detector chain against a
// document's raw bytes (this pipeline has no page-rasterization stage,
// so the whole document stands in for a single page image, at the same
// fidelity the text-layer parsers already extract at) and merges any
// recovered text into doc, setting extractionMethod to ocr or hybrid
// per the "OCR exceeds text-layer output" rule.
func (p *Pipeline) runOCRFallback(ctx context.Context, doc model.ProcessedDocument, result parsedoc.ParseResult, raw []byte) (model.ProcessedDocument, parsedoc.ParseResult) {
	sourceDocument := doc.Metadata.Filename
	if sourceDocument == "" {
		sourceDocument = doc.ID
	}
	ocrResult, ran := p.ocrLookup.Run(ctx, raw, sourceDocument, 1)
	if !ran {
		result.Warnings = append(result.Warnings, "OCR fallback unavailable, using text-layer extraction only")
		return doc, result
	}

	ocrText := strings.TrimSpace(ocrResult.Text)
	textLayerText := strings.TrimSpace(doc.ExtractedText)
	if ocrText == "" {
		result.Warnings = append(result.Warnings, ocrResult.Warnings...)
		return doc, result
	}

	if len(ocrText) > len(textLayerText) {
		doc.ExtractionMethod = model.ExtractionOCR
	} else {
		doc.ExtractionMethod = model.ExtractionHybrid
	}
	if textLayerText == "" {
		doc.ExtractedText = ocrResult.Text
	} else {
		doc.ExtractedText = doc.ExtractedText + "\n\n" + ocrResult.Text
	}

	doc.Sections = append(doc.Sections, ocrResult.Sections...)
	doc.WordCount = parsedoc.WordCount(doc.ExtractedText)
	doc.Warnings = append(doc.Warnings, ocrResult.Warnings...)
	result.Warnings = append(result.Warnings, ocrResult.Warnings...)
	return doc, result
}

// extractPatterns runs the regex catalog over every document's text
// concurrently and flattens the results.
func (p *Pipeline) extractPatterns(docs []model.ProcessedDocument) []model.ExtractedEntity {
	type entry struct {
		entities []model.ExtractedEntity
	}
	results := make(chan entry, len(docs))
	var wg sync.WaitGroup
	for _, d := range docs {
		d := d
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- entry{entities: p.patternExtr.Extract(d.ExtractedText, d.ID)}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []model.ExtractedEntity
	for e := range results {
		all = append(all, e.entities...)
	}
	return all
}

func (p *Pipeline) checkConsistency(docs []model.ProcessedDocument, entities []model.ExtractedEntity, analysis model.AnalysisResult) consistency.Report {
	byDoc := make(map[string]map[string]consistency.MetricValue)
	for _, e := range entities {
		v, ok := e.Value.(float64)
		if !ok {
			continue
		}
		if byDoc[e.SourceDocumentID] == nil {
			byDoc[e.SourceDocumentID] = make(map[string]consistency.MetricValue)
		}
		byDoc[e.SourceDocumentID][e.Name] = consistency.MetricValue{
			Value:      v,
			Source:     e.SourceDocumentID,
			Confidence: e.Confidence,
			Context:    e.Context,
		}
	}

	var docMetrics []consistency.DocumentMetrics
	for _, d := range docs {
		docMetrics = append(docMetrics, consistency.DocumentMetrics{
			DocumentID: d.ID,
			Metrics:    byDoc[d.ID],
		})
	}

	foundedYear := map[string]int{}
	if analysis.CompanyProfile.FoundedYear != nil {
		for _, d := range docs {
			foundedYear[d.ID] = *analysis.CompanyProfile.FoundedYear
		}
	}

	return p.consistency.Check(docMetrics, foundedYear)
}

func (p *Pipeline) resolveWeightings(profileName string) (model.Weightings, string) {
	name := profileName
	if name == "" {
		name = weighting.DefaultProfileName
	}
	profile, err := p.weightings.Get(name)
	if err != nil {
		return model.DefaultWeightings(), fmt.Sprintf("weighting profile %q not found, using default", name)
	}
	return profile.Weightings, ""
}

// entitiesFromAnalysis converts the analyzer's typed, LLM-populated
// fields into the generic ExtractedEntity shape the reconciler expects,
// so pattern and LLM findings merge on equal footing.
func entitiesFromAnalysis(a model.AnalysisResult) []model.ExtractedEntity {
	ids := a.SourceDocumentIDs
	sourceID := ""
	if len(ids) > 0 {
		sourceID = ids[0]
	}
	var out []model.ExtractedEntity
	add := func(name string, value *float64, typ model.EntityType) {
		if value == nil {
			return
		}
		out = append(out, model.ExtractedEntity{
			Type:             typ,
			Name:             name,
			Value:            *value,
			Confidence:       0.8,
			SourceDocumentID: sourceID,
			ExtractionMethod: model.EntityMethodAI,
		})
	}
	add("arr", a.Metrics.Revenue.ARR, model.EntityFinancial)
	add("mrr", a.Metrics.Revenue.MRR, model.EntityFinancial)
	add("growthRate", a.Metrics.Revenue.GrowthRate, model.EntityFinancial)
	add("customers", a.Metrics.Traction.Customers, model.EntityMarket)
	add("churnRate", a.Metrics.Traction.ChurnRate, model.EntityFinancial)
	add("nps", a.Metrics.Traction.NPS, model.EntityMarket)
	add("teamSize", a.Metrics.Team.Size, model.EntityTeam)
	add("foundersCount", a.Metrics.Team.FoundersCount, model.EntityTeam)
	add("totalRaised", a.Metrics.Funding.TotalRaised, model.EntityFunding)
	add("valuation", a.Metrics.Funding.Valuation, model.EntityFunding)
	add("tam", a.MarketClaims.TAM, model.EntityMarket)
	add("sam", a.MarketClaims.SAM, model.EntityMarket)
	return out
}

func flagsFromIssues(issues []consistency.Issue) []model.ConsistencyFlag {
	var flags []model.ConsistencyFlag
	for _, issue := range issues {
		flags = append(flags, model.ConsistencyFlag{
			Metric:      issue.Metric,
			Severity:    issue.Severity.Label(),
			Description: issue.Description,
		})
	}
	return flags
}
