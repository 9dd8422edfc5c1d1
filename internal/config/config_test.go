package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLM.DefaultProvider != "ollama" || cfg.LLM.DefaultModel != "gemma2:9b" {
		t.Errorf("llm defaults = %+v", cfg.LLM)
	}
	if cfg.LLM.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.LLM.MaxRetries)
	}
	if cfg.Reports.Dir != "reports" || !cfg.Reports.Save {
		t.Errorf("reports = %+v", cfg.Reports)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LLM_DEFAULT_MODEL", "llama3.2:3b")
	t.Setenv("REPORTS_SAVE", "false")
	t.Setenv("REPORTS_CACHE_TTL", "90m")
	t.Setenv("STT_BACKEND", "openai")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr = %s", cfg.Addr())
	}
	if cfg.LLM.DefaultModel != "llama3.2:3b" || cfg.STT.Backend != "openai" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Reports.Save || cfg.Reports.CacheTTL != 90*time.Minute {
		t.Errorf("reports = %+v", cfg.Reports)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, val := range map[string]string{
		"SERVER_PORT":       "eighty",
		"REPORTS_SAVE":      "maybe",
		"REPORTS_CACHE_TTL": "forever",
		"LLM_MAX_RETRIES":   "x",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Errorf("Load with %s=%s succeeded", key, val)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg.LLM.MaxRetries = -1
	cfg.LLM.DefaultModel = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate accepted negative retries and empty model")
	}
}
