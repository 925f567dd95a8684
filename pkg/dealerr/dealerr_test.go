package dealerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewFillsCategoryDefaults(t *testing.T) {
	tests := []struct {
		name           string
		category       Category
		wantRetryable  bool
		wantHTTPStatus int
	}{
		{"validation", CategoryValidation, false, 400},
		{"ai service", CategoryAIService, true, 502},
		{"rate limit", CategoryRateLimit, true, 429},
		{"circuit open", CategoryCircuitOpen, false, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.category, "CODE", "message")
			if err.Retryable != tt.wantRetryable {
				t.Errorf("Retryable = %v, want %v", err.Retryable, tt.wantRetryable)
			}
			if err.HTTPStatusHint != tt.wantHTTPStatus {
				t.Errorf("HTTPStatusHint = %d, want %d", err.HTTPStatusHint, tt.wantHTTPStatus)
			}
			if err.Severity != SeverityMedium {
				t.Errorf("default Severity = %v, want %v", err.Severity, SeverityMedium)
			}
		})
	}
}

func TestErrorMessageFormatting(t *testing.T) {
	plain := New(CategoryInternal, "BOOM", "it broke")
	if got, want := plain.Error(), "BOOM: it broke"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := errors.New("underlying")
	wrapped := Wrap(CategoryNetwork, "NET", "call failed", cause)
	if got, want := wrapped.Error(), "NET: call failed: underlying"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Wrap should preserve cause for errors.Is/errors.As")
	}
}

func TestWithChaining(t *testing.T) {
	err := New(CategoryAIService, "X", "y").
		WithSeverity(SeverityCritical).
		WithSuggestedAction("retry later").
		WithDetails(map[string]interface{}{"attempt": 3})

	if err.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want critical", err.Severity)
	}
	if err.SuggestedAction != "retry later" {
		t.Errorf("SuggestedAction = %q", err.SuggestedAction)
	}
	if err.Details["attempt"] != 3 {
		t.Errorf("Details[attempt] = %v, want 3", err.Details["attempt"])
	}
}

func TestIsRetryable(t *testing.T) {
	classified := New(CategoryRateLimit, "RL", "slow down")
	if !IsRetryable(classified) {
		t.Error("rate limit errors should be retryable")
	}

	anon := errors.New("request timeout while calling upstream")
	if !IsRetryable(anon) {
		t.Error("timeout-flavored anonymous errors should classify as retryable")
	}

	anonInvalid := errors.New("invalid payload: schema mismatch")
	if IsRetryable(anonInvalid) {
		t.Error("validation-flavored anonymous errors should not be retryable")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantCat Category
	}{
		{"rate limit phrase", errors.New("429 too many requests"), CategoryRateLimit},
		{"timeout phrase", fmt.Errorf("dial: %w", errors.New("timeout")), CategoryNetwork},
		{"unauthorized phrase", errors.New("401 unauthorized"), CategoryAuthentication},
		{"invalid phrase", errors.New("invalid schema for field x"), CategoryValidation},
		{"unrecognized", errors.New("something weird happened"), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if got.Category != tt.wantCat {
				t.Errorf("Classify(%q).Category = %v, want %v", tt.err, got.Category, tt.wantCat)
			}
		})
	}

	if Classify(nil) != nil {
		t.Error("Classify(nil) should return nil")
	}

	already := New(CategoryGoogleCloud, "GC", "boom")
	if Classify(already) != already {
		t.Error("Classify should return an already-classified error unchanged")
	}
}

func TestCancelledAndCircuitOpen(t *testing.T) {
	c := Cancelled()
	if c.Category != CategoryCancelled || c.Retryable {
		t.Errorf("Cancelled() = %+v, want non-retryable CategoryCancelled", c)
	}

	co := CircuitOpen("llm")
	if co.Category != CategoryCircuitOpen || co.Severity != SeverityHigh {
		t.Errorf("CircuitOpen() = %+v, want high-severity CategoryCircuitOpen", co)
	}
	if co.SuggestedAction == "" {
		t.Error("CircuitOpen() should include a suggested action")
	}
}
