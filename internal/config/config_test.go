package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets the given variables for the duration of the test.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

var envKeys = []string{
	"HARVESTMEDIA_API_KEY",
	"HARVESTMEDIA_WEBSERVICE_URL",
	"HARVESTMEDIA_MEMBER_ID",
	"HARVESTMEDIA_TIMEOUT",
	"HARVESTMEDIA_RATE_LIMIT",
	"HARVESTMEDIA_JOURNAL_PATH",
	"HARVESTMEDIA_LOG_LEVEL",
	"HARVESTMEDIA_LOG_FILE",
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, envKeys...)
	dir := t.TempDir()

	cfg, err := load(dir, filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HarvestMedia.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %s", cfg.HarvestMedia.Timeout)
	}
	if cfg.HarvestMedia.RateLimit != 0 {
		t.Errorf("expected unlimited rate, got %v", cfg.HarvestMedia.RateLimit)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.JournalPath, "journal.db") {
		t.Errorf("expected journal.db default, got %q", cfg.JournalPath)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error without credentials")
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t, envKeys...)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `api_key: file-key
webservice_url: https://service.example.com/HMP-WS.svc
member_id: "42"
timeout: 5s
rate_limit: 2.5
log_level: debug
`)

	cfg, err := load(dir, filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	hm := cfg.HarvestMedia
	if hm.APIKey != "file-key" {
		t.Errorf("expected api key from file, got %q", hm.APIKey)
	}
	if hm.WebServiceURL != "https://service.example.com/HMP-WS.svc" {
		t.Errorf("unexpected webservice url %q", hm.WebServiceURL)
	}
	if hm.MemberID != "42" {
		t.Errorf("expected member id 42, got %q", hm.MemberID)
	}
	if hm.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %s", hm.Timeout)
	}
	if hm.RateLimit != 2.5 {
		t.Errorf("expected rate limit 2.5, got %v", hm.RateLimit)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t, envKeys...)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "api_key: file-key\n")
	t.Setenv("HARVESTMEDIA_API_KEY", "env-key")

	cfg, err := load(dir, filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HarvestMedia.APIKey != "env-key" {
		t.Errorf("expected api key from environment, got %q", cfg.HarvestMedia.APIKey)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t, envKeys...)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "HARVESTMEDIA_API_KEY=dotenv-key\nHARVESTMEDIA_WEBSERVICE_URL=http://localhost:8080\n")

	cfg, err := load(dir, envFile)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HarvestMedia.APIKey != "dotenv-key" {
		t.Errorf("expected api key from .env, got %q", cfg.HarvestMedia.APIKey)
	}
	if cfg.HarvestMedia.WebServiceURL != "http://localhost:8080" {
		t.Errorf("expected url from .env, got %q", cfg.HarvestMedia.WebServiceURL)
	}
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	clearEnv(t, envKeys...)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "api_key: [unterminated\n")

	if _, err := load(dir, filepath.Join(dir, ".env")); err == nil {
		t.Error("expected error for malformed config file")
	}
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t, envKeys...)
	dir := t.TempDir()

	original := &Config{
		HarvestMedia: HarvestMediaConfig{
			APIKey:        "saved-key",
			WebServiceURL: "https://service.example.com",
			MemberID:      "7",
			Timeout:       10 * time.Second,
			RateLimit:     1,
		},
		JournalPath: filepath.Join(dir, "journal.db"),
		LogLevel:    "warn",
	}
	if err := original.saveTo(dir); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded, err := load(dir, filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.HarvestMedia != original.HarvestMedia {
		t.Errorf("expected %+v, got %+v", original.HarvestMedia, loaded.HarvestMedia)
	}
	if loaded.JournalPath != original.JournalPath {
		t.Errorf("expected journal path %q, got %q", original.JournalPath, loaded.JournalPath)
	}
	if loaded.LogLevel != "warn" {
		t.Errorf("expected log level warn, got %q", loaded.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	valid := HarvestMediaConfig{APIKey: "k", WebServiceURL: "http://x", Timeout: time.Second}

	tests := []struct {
		name    string
		modify  func(*HarvestMediaConfig)
		wantErr bool
	}{
		{name: "valid", modify: func(*HarvestMediaConfig) {}},
		{name: "missing api key", modify: func(c *HarvestMediaConfig) { c.APIKey = "" }, wantErr: true},
		{name: "missing url", modify: func(c *HarvestMediaConfig) { c.WebServiceURL = "" }, wantErr: true},
		{name: "negative timeout", modify: func(c *HarvestMediaConfig) { c.Timeout = -time.Second }, wantErr: true},
		{name: "negative rate", modify: func(c *HarvestMediaConfig) { c.RateLimit = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hm := valid
			tt.modify(&hm)
			err := (&Config{HarvestMedia: hm}).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
