package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// clearEnv unsets every supported variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envKeys {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unsetenv %s: %v", key, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("defaults = %+v, want %+v", cfg, Default())
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("Addr = %q", cfg.Addr())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "watchlist.yaml")
	yaml := "backend_url: http://movies.internal:9000/\n" +
		"search_debounce: 500ms\n" +
		"cors_origins:\n  - http://a.example\n  - http://b.example\n" +
		"log_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("BREAKER_FAILURES", "2")

	cfg, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BackendURL != "http://movies.internal:9000" {
		t.Fatalf("BackendURL = %q", cfg.BackendURL)
	}
	if cfg.SearchDebounce != 500*time.Millisecond || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("durations = %v / %v", cfg.SearchDebounce, cfg.RequestTimeout)
	}
	if cfg.Port != "9090" || cfg.LogLevel != "warn" || cfg.BreakerFailures != 2 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.example", "http://b.example"}) {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_RandomOrderOff(t *testing.T) {
	clearEnv(t)
	t.Setenv("RANDOM_ORDER", "false")
	cfg, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RandomOrder {
		t.Fatalf("RANDOM_ORDER=false not applied")
	}
}

func TestLoad_CommaSeparatedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example ,")
	cfg, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"http://a.example", "http://b.example"}) {
		t.Fatalf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"PORT":         "eighty",
		"BACKEND_URL":  "not a url",
		"LOG_LEVEL":    "loud",
		"MUTATION_RPS": "0",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := load(""); err == nil {
				t.Fatalf("expected validation error for %s=%q", key, val)
			}
		})
	}
}

func TestLoad_BackgroundAndLimits(t *testing.T) {
	clearEnv(t)
	t.Setenv("REFRESH_INTERVAL", "2m")
	t.Setenv("API_RATE_LIMIT", "0")
	t.Setenv("MUTATION_BURST", "3")

	cfg, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RefreshInterval != 2*time.Minute || cfg.APIRateLimit != 0 || cfg.MutationBurst != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
