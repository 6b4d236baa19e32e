package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MDTREE_API_KEY", "MAX_UPLOAD_BYTES", "MAX_INPUT_BYTES", "PARSE_MAX_DEPTH", "MAX_CONCURRENT_PARSE", "CACHE_TTL", "STATS_WINDOW", "PDF_FALLBACK_PDFTOTEXT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected port %q, got %q", "8090", cfg.Port)
	}
	if cfg.MaxDepth != 256 {
		t.Errorf("expected max depth 256, got %d", cfg.MaxDepth)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("expected cache TTL 15m, got %s", cfg.CacheTTL)
	}
	if !cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MDTREE_API_KEY", "secret")
	t.Setenv("PARSE_MAX_DEPTH", "0")
	t.Setenv("MAX_CONCURRENT_PARSE", "-1")
	t.Setenv("CACHE_TTL", "0s")
	t.Setenv("STATS_WINDOW", "bogus")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port %q, got %q", "9000", cfg.Port)
	}
	if cfg.APIKey != "secret" {
		t.Errorf("expected api key %q, got %q", "secret", cfg.APIKey)
	}
	if cfg.MaxDepth != 0 {
		t.Errorf("expected unlimited depth, got %d", cfg.MaxDepth)
	}
	if cfg.MaxConcurrentParse != 4 {
		t.Errorf("expected concurrency reset to 4, got %d", cfg.MaxConcurrentParse)
	}
	if cfg.CacheTTL != 0 {
		t.Errorf("expected cache disabled, got %s", cfg.CacheTTL)
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected invalid window to fall back to 1h, got %s", cfg.StatsWindow)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
}

func TestValidate(t *testing.T) {
	cfg := Config{Port: "8090", MaxUploadBytes: 10, MaxInputBytes: 20, LogLevel: "info"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when input limit exceeds upload limit")
	}

	cfg = Config{Port: "8090", MaxUploadBytes: 20, MaxInputBytes: 10, LogLevel: "verbose"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestNormalize_ZeroValue(t *testing.T) {
	cfg := Config{}.Normalize()
	if cfg.MaxConcurrentParse != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.MaxConcurrentParse)
	}
	if cfg.MaxInputBytes != 1048576 || cfg.MaxUploadBytes != 10485760 {
		t.Errorf("expected default byte limits, got input=%d upload=%d", cfg.MaxInputBytes, cfg.MaxUploadBytes)
	}
	if cfg.MaxDepth != 0 {
		t.Errorf("expected unlimited depth kept, got %d", cfg.MaxDepth)
	}
	if cfg.CacheTTL != 0 {
		t.Errorf("expected disabled cache kept, got %s", cfg.CacheTTL)
	}
	if cfg.StatsWindow != time.Hour {
		t.Errorf("expected 1h stats window, got %s", cfg.StatsWindow)
	}
}
