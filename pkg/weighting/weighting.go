// Package weighting implements the weighting manager (§4.9b): validation
// and normalization of Weightings vectors, plus a named-profile registry
// built around a singleton-style registry shape.
package weighting

import (
	"fmt"
	"math"
	"sync"

	"dealflow/pkg/model"
)

// ValidateOptions configures Validate's strictness.
type ValidateOptions struct {
	Tolerance         float64 // default 0.01
	AllowZeroWeights  bool
	RequireAllWeights bool
}

// ValidationResult reports whether a Weightings vector passed, plus any
// non-fatal warnings.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func fields(w model.Weightings) [5]float64 {
	return [5]float64{w.MarketOpportunity, w.Team, w.Traction, w.Product, w.CompetitivePosition}
}

// Validate checks every field is finite, in [0,100], and the vector sums
// to 100 within tolerance.
func Validate(w model.Weightings, opts ValidateOptions) ValidationResult {
	tolerance := opts.Tolerance
	if tolerance <= 0 {
		tolerance = 0.01
	}

	result := ValidationResult{Valid: true}

	for i, f := range fields(w) {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("weight %d is not finite", i))
			continue
		}
		if f < 0 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("weight %d is negative", i))
		}
		if f > 100 {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("weight %d exceeds 100", i))
		}
		if f == 0 && !opts.AllowZeroWeights {
			result.Warnings = append(result.Warnings, fmt.Sprintf("weight %d is zero", i))
		}
	}

	if opts.RequireAllWeights {
		for i, f := range fields(w) {
			if f == 0 {
				result.Valid = false
				result.Errors = append(result.Errors, fmt.Sprintf("weight %d is required but absent", i))
			}
		}
	}

	sum := w.Sum()
	if math.Abs(sum-100) > tolerance {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("weights sum to %.4f, expected 100 +/- %.4f", sum, tolerance))
	}

	return result
}

// Normalize fills missing (zero) fields from defaults, then scales so the
// sum is exactly 100. If every input field is zero, it returns defaults
// unchanged.
func Normalize(w model.Weightings) model.Weightings {
	defaults := model.DefaultWeightings()

	if w.Sum() == 0 {
		return defaults
	}

	filled := w
	if filled.MarketOpportunity == 0 {
		filled.MarketOpportunity = defaults.MarketOpportunity
	}
	if filled.Team == 0 {
		filled.Team = defaults.Team
	}
	if filled.Traction == 0 {
		filled.Traction = defaults.Traction
	}
	if filled.Product == 0 {
		filled.Product = defaults.Product
	}
	if filled.CompetitivePosition == 0 {
		filled.CompetitivePosition = defaults.CompetitivePosition
	}

	sum := filled.Sum()
	if sum == 0 {
		return defaults
	}
	scale := 100 / sum
	return model.Weightings{
		MarketOpportunity:   filled.MarketOpportunity * scale,
		Team:                filled.Team * scale,
		Traction:            filled.Traction * scale,
		Product:             filled.Product * scale,
		CompetitivePosition: filled.CompetitivePosition * scale,
	}
}

// Profile is a named, registered weighting vector.
type Profile struct {
	Name      string
	Weightings model.Weightings
	Protected bool // the default profile cannot be deleted or overwritten
}

const DefaultProfileName = "default"

// Registry is the process-wide named-profile table, grounded on the
// teacher's prompt.Registry singleton shape.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewRegistry creates a registry pre-seeded with the protected default
// profile.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}
	r.profiles[DefaultProfileName] = &Profile{
		Name:       DefaultProfileName,
		Weightings: model.DefaultWeightings(),
		Protected:  true,
	}
	return r
}

// Register adds or replaces a user profile; the protected default
// profile cannot be overwritten.
func (r *Registry) Register(name string, w model.Weightings) error {
	if name == DefaultProfileName {
		return fmt.Errorf("cannot overwrite protected profile %q", DefaultProfileName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[name] = &Profile{Name: name, Weightings: w}
	return nil
}

// Delete removes a user profile; the protected default profile cannot be
// deleted.
func (r *Registry) Delete(name string) error {
	if name == DefaultProfileName {
		return fmt.Errorf("cannot delete protected profile %q", DefaultProfileName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, name)
	return nil
}

// Get retrieves a profile by name.
func (r *Registry) Get(name string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	if !ok {
		return nil, fmt.Errorf("profile not found: %s", name)
	}
	return p, nil
}

// List returns all registered profile names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	return names
}
