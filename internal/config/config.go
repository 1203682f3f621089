// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	FrontendURL    string
	DBPath         string
	StoreCacheTTL  time.Duration
	RequestTimeout time.Duration
	Gemini         GeminiConfig
}

// GeminiConfig controls the hosted generation service.
type GeminiConfig struct {
	APIKey           string // empty disables generation; endpoints report it per request
	SceneModel       string
	ImageModel       string
	SceneTemperature float64
	SceneMaxTokens   int
	ImageTemperature float64
	RateInterval     time.Duration
	RateBurst        int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", ""),
		DBPath:         getEnv("DB_PATH", "./data/storyweaver.db"),
		StoreCacheTTL:  getEnvDuration("STORE_CACHE_TTL", 5*time.Minute),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 90*time.Second),
		Gemini: GeminiConfig{
			APIKey:           strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
			SceneModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			ImageModel:       getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-001"),
			SceneTemperature: getEnvFloat("SCENE_TEMPERATURE", 0.8),
			SceneMaxTokens:   getEnvInt("SCENE_MAX_TOKENS", 600),
			ImageTemperature: getEnvFloat("IMAGE_TEMPERATURE", 0.4),
			RateInterval:     getEnvDuration("GENERATION_RATE_INTERVAL", 2*time.Second),
			RateBurst:        getEnvInt("GENERATION_RATE_BURST", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.StoreCacheTTL <= 0 {
		return fmt.Errorf("STORE_CACHE_TTL must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be > 0")
	}
	if c.Gemini.SceneModel == "" || c.Gemini.ImageModel == "" {
		return fmt.Errorf("GEMINI_MODEL and GEMINI_IMAGE_MODEL cannot be empty")
	}
	if c.Gemini.SceneTemperature < 0 || c.Gemini.SceneTemperature > 2 {
		return fmt.Errorf("SCENE_TEMPERATURE must be within [0, 2]")
	}
	if c.Gemini.ImageTemperature < 0 || c.Gemini.ImageTemperature > 2 {
		return fmt.Errorf("IMAGE_TEMPERATURE must be within [0, 2]")
	}
	if c.Gemini.SceneMaxTokens <= 0 {
		return fmt.Errorf("SCENE_MAX_TOKENS must be > 0")
	}
	if c.Gemini.RateInterval < 0 {
		return fmt.Errorf("GENERATION_RATE_INTERVAL cannot be negative")
	}
	if c.Gemini.RateBurst <= 0 {
		return fmt.Errorf("GENERATION_RATE_BURST must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env == "development"
	}
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// GenerationEnabled reports whether a generation credential is configured.
func (c *Config) GenerationEnabled() bool {
	return c.Gemini.APIKey != ""
}

// AllowedOrigins returns the origins accepted by CORS.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
