// Package config loads tool configuration from a YAML file, a .env file, and
// environment variables, in increasing order of precedence for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all canvas-to-reminders configuration.
type Config struct {
	Canvas    CanvasConfig    `yaml:"canvas"`
	LLM       LLMConfig       `yaml:"llm"`
	Cache     CacheConfig     `yaml:"cache"`
	Reminders RemindersConfig `yaml:"reminders"`
	Sync      SyncConfig      `yaml:"sync"`
}

// CanvasConfig identifies the Canvas instance and credentials.
type CanvasConfig struct {
	Domain  string `yaml:"domain"` // e.g. canvas.cmu.edu
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

// LLMConfig configures the text-generation provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // ollama, gemini
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"` // ollama endpoint
	APIKey   string `yaml:"api_key"`  // gemini
	Timeout  string `yaml:"timeout"`
}

// CacheConfig locates the local text cache.
type CacheConfig struct {
	Path string `yaml:"path"`
}

// RemindersConfig maps Canvas course names to Reminders list names. Courses
// without an entry are skipped during sync.
type RemindersConfig struct {
	CourseLists map[string]string `yaml:"course_lists"`
}

// SyncConfig tunes the run itself.
type SyncConfig struct {
	LookaheadDays int `yaml:"lookahead_days"` // study plan horizon
}

// DefaultConfig returns the defaults applied before the file is read.
func DefaultConfig() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Timeout: "30s",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "mistral",
			BaseURL:  "http://localhost:11434",
			Timeout:  "60s",
		},
		Cache: CacheConfig{
			Path: "cache/canvas-reminders.db",
		},
		Sync: SyncConfig{
			LookaheadDays: 7,
		},
	}
}

// Load reads the config file at path (missing file is fine, defaults apply),
// loads a .env file if present, and applies environment overrides.
func Load(path string) (*Config, error) {
	// Same convention as the python-dotenv world: a .env next to the
	// binary provides CANVAS_API_TOKEN etc. without polluting the shell.
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CANVAS_DOMAIN"); v != "" {
		c.Canvas.Domain = v
	}
	if v := os.Getenv("CANVAS_API_TOKEN"); v != "" {
		c.Canvas.Token = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
}

// Validate checks the fields every run needs.
func (c *Config) Validate() error {
	if c.Canvas.Domain == "" || c.Canvas.Token == "" {
		return fmt.Errorf("missing Canvas API token or domain: set canvas.domain and canvas.token in the config file, or CANVAS_DOMAIN and CANVAS_API_TOKEN in the environment or a .env file")
	}
	return nil
}

// CanvasTimeout parses the Canvas HTTP timeout, falling back to 30s.
func (c *Config) CanvasTimeout() time.Duration {
	return parseDuration(c.Canvas.Timeout, 30*time.Second)
}

// LLMTimeout parses the LLM request timeout, falling back to 60s.
func (c *Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 60*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
