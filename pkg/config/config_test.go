package config

import (
	"os"
	"testing"
)

func TestDefaultProvidesFullConsistencyAndScoringSurface(t *testing.T) {
	cfg := Default()
	if len(cfg.Consistency.CriticalMetrics) == 0 {
		t.Error("expected a non-empty critical-metrics set")
	}
	sum := 0.0
	for _, w := range cfg.Scoring.DefaultWeightings {
		sum += w
	}
	if sum != 100 {
		t.Errorf("default weightings sum to %v, want 100", sum)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("DEALFLOW_LLM_MODEL", "gemini-1.5-pro")
	t.Setenv("DEALFLOW_RETRY_MAX_ATTEMPTS", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != "gemini-1.5-pro" {
		t.Errorf("LLM.Model = %q, want the env override", cfg.LLM.Model)
	}
	if cfg.Retry.MaxAttempts != 7 {
		t.Errorf("Retry.MaxAttempts = %d, want 7", cfg.Retry.MaxAttempts)
	}
}

func TestLoadIgnoresInvalidEnvInt(t *testing.T) {
	t.Setenv("DEALFLOW_RETRY_MAX_ATTEMPTS", "not-a-number")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retry.MaxAttempts != Default().Retry.MaxAttempts {
		t.Errorf("MaxAttempts = %d, want unchanged default on invalid override", cfg.Retry.MaxAttempts)
	}
}

func TestLoadAppliesYAMLOverlay(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "overlay-*.yaml")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	if _, err := f.WriteString("consistency:\n  tolerance_financial: 0.25\n"); err != nil {
		t.Fatalf("WriteString failed: %v", err)
	}
	f.Close()

	cfg, err := Load(f.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Consistency.ToleranceFinancial != 0.25 {
		t.Errorf("ToleranceFinancial = %v, want 0.25 from the overlay", cfg.Consistency.ToleranceFinancial)
	}
}

func TestLoadToleratesMissingOverlayFile(t *testing.T) {
	cfg, err := Load("/nonexistent/overlay.yaml")
	if err != nil {
		t.Fatalf("Load should not error on a missing overlay file: %v", err)
	}
	if cfg.Consistency.ToleranceFinancial != Default().Consistency.ToleranceFinancial {
		t.Errorf("expected defaults when the overlay file is missing")
	}
}
