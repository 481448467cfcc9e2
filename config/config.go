package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultServerAddr     = ":8080"
	DefaultProvider       = "gemini"
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAPIKeyEnv      = "GEMINI_API_KEY"
	fallbackAPIKeyEnv     = "API_KEY"
	DefaultTimeoutSeconds = 60
	DefaultHistoryBackend = "sqlite"
	DefaultHistoryPath    = "reels.db"
)

// Config is the application configuration, read from JSON or YAML.
type Config struct {
	ServerAddr     string        `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	TimeoutSeconds int           `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty"`
	LLM            *LLMConfig    `json:"llm,omitempty" yaml:"llm,omitempty"`
	History        HistoryConfig `json:"history" yaml:"history"`
}

// LLMConfig selects and authenticates the generation provider.
type LLMConfig struct {
	Provider  string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey    string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
	BaseURL   string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// HistoryConfig selects where input history is kept: memory, sqlite or redis.
type HistoryConfig struct {
	Backend       string `json:"backend,omitempty" yaml:"backend,omitempty"`
	Path          string `json:"path,omitempty" yaml:"path,omitempty"`
	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisUsername string `json:"redis_username,omitempty" yaml:"redis_username,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
}

// Default returns a config that works with only GEMINI_API_KEY set.
func Default() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

// Timeout is the per-generation deadline.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads the config file at path (format chosen by extension), then
// fills defaults and secrets from the environment. A .env file in the working
// directory is loaded first if present. An empty path, or a missing file at
// the default location, yields the defaults.
func LoadConfig(path string, required bool) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := unmarshal(path, data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return Config{}, err
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func (c *Config) applyDefaults() {
	if c.ServerAddr == "" {
		c.ServerAddr = DefaultServerAddr
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = DefaultProvider
	}
	c.LLM.Provider = strings.ToLower(c.LLM.Provider)
	if c.LLM.Model == "" && c.LLM.Provider == "gemini" {
		c.LLM.Model = DefaultGeminiModel
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = c.LLM.apiKeyFromEnv()
	}
	if c.History.Backend == "" {
		c.History.Backend = DefaultHistoryBackend
	}
	c.History.Backend = strings.ToLower(c.History.Backend)
	if c.History.Backend == "sqlite" && c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
}

func (l *LLMConfig) apiKeyFromEnv() string {
	if l.APIKeyEnv != "" {
		return os.Getenv(l.APIKeyEnv)
	}
	if v := os.Getenv(DefaultAPIKeyEnv); v != "" {
		return v
	}
	return os.Getenv(fallbackAPIKeyEnv)
}

// Validate checks the parts that cannot be defaulted.
func (c Config) Validate() error {
	switch c.History.Backend {
	case "memory", "sqlite":
	case "redis":
		if c.History.RedisAddr == "" {
			return errors.New("history.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("history backend %s not supported", c.History.Backend)
	}
	if c.LLM.Provider == "deepseek" && c.LLM.BaseURL == "" {
		// DeepSeek speaks the OpenAI protocol but has no default endpoint in the SDK.
		return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
	}
	return nil
}
