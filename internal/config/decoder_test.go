package config_test

import (
	"testing"
	"time"

	"vinpoint/internal/config"
)

func TestDecoderConfigFinalizeDefaults(t *testing.T) {
	cfg := config.DecoderConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.BaseURL != "https://vpic.nhtsa.dot.gov/api" {
		t.Errorf("BaseURL = %q, want vPIC default", cfg.BaseURL)
	}
	if cfg.Timeout != "10s" {
		t.Errorf("Timeout = %q, want 10s", cfg.Timeout)
	}
	if cfg.CacheSize != 512 {
		t.Errorf("CacheSize = %d, want 512", cfg.CacheSize)
	}
	if cfg.TimeoutDuration() != 10*time.Second {
		t.Errorf("TimeoutDuration = %v, want 10s", cfg.TimeoutDuration())
	}
}

func TestDecoderConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvDecoderBaseURL, "http://localhost:9000/api")
	t.Setenv(config.EnvDecoderTimeout, "2s")
	t.Setenv(config.EnvDecoderCacheSize, "64")

	cfg := config.DecoderConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.BaseURL != "http://localhost:9000/api" {
		t.Errorf("BaseURL = %q, want env override", cfg.BaseURL)
	}
	if cfg.Timeout != "2s" {
		t.Errorf("Timeout = %q, want 2s", cfg.Timeout)
	}
	if cfg.CacheSize != 64 {
		t.Errorf("CacheSize = %d, want 64", cfg.CacheSize)
	}
}

func TestDecoderConfigFinalizeValidation(t *testing.T) {
	cfg := config.DecoderConfig{Timeout: "not-a-duration"}
	if err := cfg.Finalize(); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestDecoderConfigMerge(t *testing.T) {
	cfg := config.DecoderConfig{BaseURL: "http://base", Timeout: "10s", CacheSize: 512}
	cfg.Merge(&config.DecoderConfig{Timeout: "3s"})

	if cfg.BaseURL != "http://base" {
		t.Errorf("BaseURL = %q, want untouched", cfg.BaseURL)
	}
	if cfg.Timeout != "3s" {
		t.Errorf("Timeout = %q, want overlay 3s", cfg.Timeout)
	}
	if cfg.CacheSize != 512 {
		t.Errorf("CacheSize = %d, want untouched", cfg.CacheSize)
	}
}

func TestIntelligenceConfigFinalize(t *testing.T) {
	t.Setenv(config.EnvIntelligenceAPIKey, "test-key")
	t.Setenv(config.EnvGeminiAPIKey, "")

	cfg := config.IntelligenceConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want test-key", cfg.APIKey)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q, want gemini-2.5-flash", cfg.Model)
	}
	if cfg.VisionModel != "gemini-2.5-flash" {
		t.Errorf("VisionModel = %q, want gemini-2.5-flash", cfg.VisionModel)
	}
}

func TestIntelligenceConfigGeminiKeyFallback(t *testing.T) {
	t.Setenv(config.EnvIntelligenceAPIKey, "")
	t.Setenv(config.EnvGeminiAPIKey, "sdk-key")

	cfg := config.IntelligenceConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.APIKey != "sdk-key" {
		t.Errorf("APIKey = %q, want GEMINI_API_KEY fallback", cfg.APIKey)
	}
}

func TestIntelligenceConfigRequiresKey(t *testing.T) {
	t.Setenv(config.EnvIntelligenceAPIKey, "")
	t.Setenv(config.EnvGeminiAPIKey, "")

	cfg := config.IntelligenceConfig{}
	if err := cfg.Finalize(); err == nil {
		t.Error("expected error for missing api key")
	}
}
