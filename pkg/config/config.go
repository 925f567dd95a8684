// Package config loads the process-wide configuration surface (§6) once
// at startup, from environment variables (via godotenv for local .env
// files) with an optional YAML overlay for weighting profiles and
// tolerances.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LLMConfig configures the LLM capability defaults.
type LLMConfig struct {
	Model              string  `yaml:"model"`
	MaxOutputTokens    int     `yaml:"max_output_tokens"`
	DefaultTemperature float64 `yaml:"default_temperature"`
	DefaultTopP        float64 `yaml:"default_top_p"`
	DefaultTopK        int     `yaml:"default_top_k"`
	MaxConcurrency     int     `yaml:"max_concurrency"`
	CallTimeoutSeconds int     `yaml:"call_timeout_seconds"`
}

// RetryConfig mirrors resilience.RetryPolicy at the config layer.
type RetryConfig struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	BaseDelayMs       int     `yaml:"base_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
}

// CircuitBreakerConfig mirrors resilience.CircuitBreakerConfig.
type CircuitBreakerConfig struct {
	FailureThreshold  int `yaml:"failure_threshold"`
	RecoveryTimeoutMs int `yaml:"recovery_timeout_ms"`
}

// ConsistencyConfig configures the consistency checker's tolerances and
// critical-metric set.
type ConsistencyConfig struct {
	ToleranceFinancial  float64  `yaml:"tolerance_financial"`
	TolerancePercentage float64  `yaml:"tolerance_percentage"`
	ToleranceCount      float64  `yaml:"tolerance_count"`
	ToleranceDateDays   int      `yaml:"tolerance_date_days"`
	CriticalMetrics     []string `yaml:"critical_metrics"`
	RequireAllDocuments bool     `yaml:"require_all_documents"`
	PrioritizeRecent    bool     `yaml:"prioritize_recent"`
}

// ScoringConfig configures default weightings and tolerance.
type ScoringConfig struct {
	DefaultWeightings         map[string]float64 `yaml:"default_weightings"`
	WeightingTolerancePercent float64             `yaml:"weighting_tolerance_percent"`
	CollapseHoldIntoPass      bool                `yaml:"collapse_hold_into_pass"`
}

// OCRConfig configures the OCR subsystem.
type OCRConfig struct {
	ConfidenceThreshold float64  `yaml:"confidence_threshold"`
	LanguageHints       []string `yaml:"language_hints"`
}

// PerformanceConfig configures the metrics ring buffer.
type PerformanceConfig struct {
	MaxMetricsPerOperation int     `yaml:"max_metrics_per_operation"`
	AlertErrorRate         float64 `yaml:"alert_error_rate"`
}

// Config is the complete process-wide configuration surface.
type Config struct {
	LLM             LLMConfig            `yaml:"llm"`
	Retry           RetryConfig          `yaml:"retry"`
	CircuitBreaker  CircuitBreakerConfig `yaml:"circuit_breaker"`
	Consistency     ConsistencyConfig    `yaml:"consistency"`
	Scoring         ScoringConfig        `yaml:"scoring"`
	OCR             OCRConfig            `yaml:"ocr"`
	Performance     PerformanceConfig    `yaml:"performance"`
	ParserMaxConcur int                  `yaml:"parser_max_concurrency"`
}

// Default returns the configuration surface's documented defaults.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:              "gemini-2.0-flash-exp",
			MaxOutputTokens:    2000,
			DefaultTemperature: 0.1,
			DefaultTopP:        0.95,
			DefaultTopK:        40,
			MaxConcurrency:     4,
			CallTimeoutSeconds: 30,
		},
		Retry: RetryConfig{
			MaxAttempts:       3,
			BaseDelayMs:       1000,
			BackoffMultiplier: 2,
			MaxDelayMs:        30000,
		},
		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold:  5,
			RecoveryTimeoutMs: 60000,
		},
		Consistency: ConsistencyConfig{
			ToleranceFinancial:  0.05,
			TolerancePercentage: 2.0,
			ToleranceCount:      0.10,
			ToleranceDateDays:   365,
			CriticalMetrics: []string{
				"arr", "mrr", "customers", "teamSize", "foundersCount",
				"totalRaised", "valuation", "foundedYear", "churnRate",
			},
			RequireAllDocuments: false,
			PrioritizeRecent:    true,
		},
		Scoring: ScoringConfig{
			DefaultWeightings: map[string]float64{
				"marketOpportunity":  25,
				"team":               25,
				"traction":           20,
				"product":            15,
				"competitivePosition": 15,
			},
			WeightingTolerancePercent: 0.01,
			CollapseHoldIntoPass:      false,
		},
		OCR: OCRConfig{
			ConfidenceThreshold: 0.5,
			LanguageHints:       []string{"en"},
		},
		Performance: PerformanceConfig{
			MaxMetricsPerOperation: 100,
			AlertErrorRate:         0.5,
		},
		ParserMaxConcur: 4,
	}
}

// Load loads .env (if present, ignoring a missing file) and applies any
// environment-variable overrides on top of Default(), then an optional
// YAML overlay file for weightings/tolerances.
func Load(yamlOverlayPath string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	applyEnvOverrides(cfg)

	if yamlOverlayPath != "" {
		data, err := os.ReadFile(yamlOverlayPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DEALFLOW_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("DEALFLOW_LLM_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxConcurrency = n
		}
	}
	if v := os.Getenv("DEALFLOW_RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = n
		}
	}
}
