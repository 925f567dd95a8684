// Package reconcile implements the entity reconciler (§4.7): merging
// pattern and LLM entities, validating numeric sanity, and dropping
// low-confidence entities via a confidence/priority conflict resolution
// pass.
package reconcile

import (
	"dealflow/pkg/model"
)

// Options configures the reconciler's strictness.
type Options struct {
	ValidateNumericValues bool
	ConfidenceThreshold   float64 // default 0.6
}

// DefaultOptions is the reconciler's out-of-the-box configuration.
func DefaultOptions() Options {
	return Options{ValidateNumericValues: true, ConfidenceThreshold: 0.6}
}

// Validator checks a named metric's numeric value for sanity.
type Validator func(name string, value float64) bool

// Reconciler merges, validates, and thresholds entities.
type Reconciler struct {
	options    Options
	validators map[string]Validator
}

// NewReconciler builds a Reconciler with the given per-metric validators.
func NewReconciler(options Options, validators map[string]Validator) *Reconciler {
	if validators == nil {
		validators = make(map[string]Validator)
	}
	return &Reconciler{options: options, validators: validators}
}

type mergeKey struct {
	name     string
	sourceID string
}

// Reconcile merges pattern + LLM entities sharing (name, sourceDocumentID),
// preferring higher confidence (ties favor AI), validates numerics, and
// drops entities below the confidence threshold.
func (r *Reconciler) Reconcile(patternEntities, llmEntities []model.ExtractedEntity) []model.ExtractedEntity {
	merged := make(map[mergeKey]model.ExtractedEntity)

	ingest := func(entities []model.ExtractedEntity) {
		for _, e := range entities {
			key := mergeKey{name: e.Name, sourceID: e.SourceDocumentID}
			existing, ok := merged[key]
			if !ok {
				merged[key] = e
				continue
			}
			winner := pickWinner(existing, e)
			winner.ExtractionMethod = model.EntityMethodMerged
			merged[key] = winner
		}
	}
	ingest(patternEntities)
	ingest(llmEntities)

	out := make([]model.ExtractedEntity, 0, len(merged))
	for _, e := range merged {
		if r.options.ValidateNumericValues {
			if v, ok := e.Value.(float64); ok {
				if validator, has := r.validators[e.Name]; has && !validator(e.Name, v) {
					continue
				}
			}
		}
		if e.Confidence < r.options.ConfidenceThreshold {
			continue
		}
		out = append(out, e)
	}
	return out
}

// pickWinner resolves a conflict between two entities for the same
// (name, sourceDocumentID): higher confidence wins; ties favor AI.
func pickWinner(a, b model.ExtractedEntity) model.ExtractedEntity {
	if a.Confidence > b.Confidence {
		return a
	}
	if b.Confidence > a.Confidence {
		return b
	}
	if b.ExtractionMethod == model.EntityMethodAI {
		return b
	}
	return a
}
