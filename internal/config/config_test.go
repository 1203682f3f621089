package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "FRONTEND_URL", "DB_PATH", "STORE_CACHE_TTL", "REQUEST_TIMEOUT",
		"GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_IMAGE_MODEL",
		"SCENE_TEMPERATURE", "SCENE_MAX_TOKENS", "IMAGE_TEMPERATURE",
		"GENERATION_RATE_INTERVAL", "GENERATION_RATE_BURST", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	// Empty numeric values fall back to defaults; string values are taken as set.
	t.Setenv("PORT", "8080")
	t.Setenv("DB_PATH", "./data/storyweaver.db")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-001")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.StoreCacheTTL != 5*time.Minute || cfg.RequestTimeout != 90*time.Second {
		t.Errorf("unexpected durations %+v", cfg)
	}
	if cfg.Gemini.SceneTemperature != 0.8 || cfg.Gemini.ImageTemperature != 0.4 {
		t.Errorf("unexpected temperatures %+v", cfg.Gemini)
	}
	if cfg.Gemini.SceneMaxTokens != 600 {
		t.Errorf("expected 600 max tokens, got %d", cfg.Gemini.SceneMaxTokens)
	}
	if cfg.Gemini.RateInterval != 2*time.Second || cfg.Gemini.RateBurst != 2 {
		t.Errorf("unexpected rate settings %+v", cfg.Gemini)
	}
	if cfg.GenerationEnabled() {
		t.Error("expected generation disabled without a key")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DB_PATH", "/tmp/sw.db")
	t.Setenv("STORE_CACHE_TTL", "30s")
	t.Setenv("REQUEST_TIMEOUT", "1m")
	t.Setenv("GEMINI_API_KEY", "  secret  ")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-flash")
	t.Setenv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image")
	t.Setenv("SCENE_TEMPERATURE", "1.1")
	t.Setenv("SCENE_MAX_TOKENS", "800")
	t.Setenv("GENERATION_RATE_BURST", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9000" || cfg.DBPath != "/tmp/sw.db" {
		t.Errorf("unexpected server settings %+v", cfg)
	}
	if cfg.StoreCacheTTL != 30*time.Second || cfg.RequestTimeout != time.Minute {
		t.Errorf("unexpected durations %+v", cfg)
	}
	if cfg.Gemini.APIKey != "secret" || !cfg.GenerationEnabled() {
		t.Errorf("expected trimmed key, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.SceneTemperature != 1.1 || cfg.Gemini.SceneMaxTokens != 800 || cfg.Gemini.RateBurst != 5 {
		t.Errorf("unexpected generation settings %+v", cfg.Gemini)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:           "8080",
			DBPath:         "db",
			StoreCacheTTL:  time.Minute,
			RequestTimeout: time.Minute,
			Gemini: GeminiConfig{
				SceneModel:       "m",
				ImageModel:       "i",
				SceneTemperature: 0.8,
				SceneMaxTokens:   600,
				ImageTemperature: 0.4,
				RateBurst:        1,
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty port", func(c *Config) { c.Port = "" }, "PORT"},
		{"empty db", func(c *Config) { c.DBPath = "" }, "DB_PATH"},
		{"zero ttl", func(c *Config) { c.StoreCacheTTL = 0 }, "STORE_CACHE_TTL"},
		{"hot scene", func(c *Config) { c.Gemini.SceneTemperature = 3 }, "SCENE_TEMPERATURE"},
		{"zero tokens", func(c *Config) { c.Gemini.SceneMaxTokens = 0 }, "SCENE_MAX_TOKENS"},
		{"zero burst", func(c *Config) { c.Gemini.RateBurst = 0 }, "GENERATION_RATE_BURST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	if got := (&Config{}).AllowedOrigins(); !reflect.DeepEqual(got, []string{"*"}) {
		t.Errorf("expected wildcard, got %v", got)
	}
	cfg := &Config{FrontendURL: "https://a.example/, https://b.example"}
	want := []string{"https://a.example", "https://b.example"}
	if got := cfg.AllowedOrigins(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("SW_BAD_INT", "many")
	t.Setenv("SW_BAD_FLOAT", "warm")
	t.Setenv("SW_BAD_DURATION", "soon")

	if got := getEnvInt("SW_BAD_INT", 3); got != 3 {
		t.Errorf("expected int fallback, got %d", got)
	}
	if got := getEnvFloat("SW_BAD_FLOAT", 0.5); got != 0.5 {
		t.Errorf("expected float fallback, got %v", got)
	}
	if got := getEnvDuration("SW_BAD_DURATION", time.Second); got != time.Second {
		t.Errorf("expected duration fallback, got %v", got)
	}
}
