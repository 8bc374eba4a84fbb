// Package config provides configuration loading and validation for the
// server and the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults.
const (
	DefaultPort           = 8080
	DefaultEnv            = "production"
	DefaultAdzunaCountry  = "us"
	DefaultAdzunaTimeout  = 8 * time.Second
	DefaultLLMProvider    = "gemini"
	DefaultLLMTimeout     = 60 * time.Second
	DefaultMaxUploadBytes = 10 << 20
)

// Duration is a time.Duration that reads "8s"-style strings from JSON.
type Duration time.Duration

// UnmarshalJSON accepts a Go duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("duration must be a string or a number of seconds")
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// App is the runtime configuration. Every field can come from the
// environment; a JSON file can fill in what the environment leaves empty.
type App struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"`
	Env         string `json:"env,omitempty"`

	AdzunaAppID   string   `json:"adzuna_app_id,omitempty"`
	AdzunaAppKey  string   `json:"adzuna_app_key,omitempty"`
	AdzunaCountry string   `json:"adzuna_country,omitempty"`
	AdzunaTimeout Duration `json:"adzuna_timeout,omitempty"`

	LLMProvider string   `json:"llm_provider,omitempty"` // "gemini" or "openai"
	LLMAPIKey   string   `json:"llm_api_key,omitempty"`
	LLMBaseURL  string   `json:"llm_base_url,omitempty"`
	LLMModel    string   `json:"llm_model,omitempty"`
	LLMTimeout  Duration `json:"llm_timeout,omitempty"`

	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() App {
	return App{
		Port:           DefaultPort,
		Env:            DefaultEnv,
		AdzunaCountry:  DefaultAdzunaCountry,
		AdzunaTimeout:  Duration(DefaultAdzunaTimeout),
		LLMProvider:    DefaultLLMProvider,
		LLMTimeout:     Duration(DefaultLLMTimeout),
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

// Load reads the configuration from the environment. Unset values stay
// empty; call MergeWithDefaults to fill them.
func Load() (*App, error) {
	var cfg App
	var err error

	if cfg.Port, err = envInt("PORT"); err != nil {
		return nil, err
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Env = os.Getenv("APP_ENV")

	cfg.AdzunaAppID = os.Getenv("ADZUNA_APP_ID")
	cfg.AdzunaAppKey = os.Getenv("ADZUNA_APP_KEY")
	cfg.AdzunaCountry = os.Getenv("ADZUNA_COUNTRY")
	if cfg.AdzunaTimeout, err = envDuration("ADZUNA_TIMEOUT"); err != nil {
		return nil, err
	}

	cfg.LLMProvider = os.Getenv("LLM_PROVIDER")
	switch cfg.LLMProvider {
	case "openai", "openrouter":
		cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
	default:
		cfg.LLMAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.LLMBaseURL = os.Getenv("OPENAI_BASE_URL")
	cfg.LLMModel = os.Getenv("LLM_MODEL")
	if cfg.LLMTimeout, err = envDuration("LLM_TIMEOUT"); err != nil {
		return nil, err
	}

	maxUpload, err := envInt("MAX_UPLOAD_BYTES")
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	return &cfg, nil
}

// LoadFile loads configuration from a JSON file.
func LoadFile(path string) (*App, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg App
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *App) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.AdzunaTimeout < 0 {
		return fmt.Errorf("config error: 'adzuna_timeout' must be non-negative")
	}
	if c.LLMTimeout < 0 {
		return fmt.Errorf("config error: 'llm_timeout' must be non-negative")
	}
	if c.MaxUploadBytes < 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be non-negative")
	}
	switch c.LLMProvider {
	case "", "gemini", "openai", "openrouter":
	default:
		return fmt.Errorf("config error: unknown 'llm_provider' %q (want gemini or openai)", c.LLMProvider)
	}
	if (c.AdzunaAppID == "") != (c.AdzunaAppKey == "") {
		return fmt.Errorf("config error: 'adzuna_app_id' and 'adzuna_app_key' must be set together")
	}
	return nil
}

// MergeWithDefaults returns a new App with empty fields filled from
// defaults.
func (c *App) MergeWithDefaults(defaults App) App {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Env == "" {
		result.Env = defaults.Env
	}
	if result.AdzunaAppID == "" {
		result.AdzunaAppID = defaults.AdzunaAppID
	}
	if result.AdzunaAppKey == "" {
		result.AdzunaAppKey = defaults.AdzunaAppKey
	}
	if result.AdzunaCountry == "" {
		result.AdzunaCountry = defaults.AdzunaCountry
	}
	if result.AdzunaTimeout == 0 {
		result.AdzunaTimeout = defaults.AdzunaTimeout
	}
	if result.LLMProvider == "" {
		result.LLMProvider = defaults.LLMProvider
	}
	if result.LLMAPIKey == "" {
		result.LLMAPIKey = defaults.LLMAPIKey
	}
	if result.LLMBaseURL == "" {
		result.LLMBaseURL = defaults.LLMBaseURL
	}
	if result.LLMModel == "" {
		result.LLMModel = defaults.LLMModel
	}
	if result.LLMTimeout == 0 {
		result.LLMTimeout = defaults.LLMTimeout
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}

	return result
}

// Resolve loads the environment, overlays the optional JSON file and fills
// the remaining gaps with Defaults. The environment wins over the file.
func Resolve(path string) (*App, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	merged := *cfg
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		merged = merged.MergeWithDefaults(*fileCfg)
	}
	merged = merged.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// IsDevelopment reports whether verbose development behaviour is enabled.
func (c *App) IsDevelopment() bool {
	return c.Env == "development"
}

func envInt(key string) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}

// envDuration accepts "8s"-style durations or a bare number of seconds.
func envDuration(key string) (Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(s); err == nil {
		return Duration(time.Duration(secs) * time.Second), nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return Duration(v), nil
}
