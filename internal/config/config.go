package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv  = "SUPPLIER_SCOUT_CONFIG"
	databaseDSNEnv = "DATABASE_DSN"
	serpAPIKeyEnv  = "SERP_API_KEY"
	groqAPIKeyEnv  = "GROQ_API_KEY"
	groqModelEnv   = "GROQ_MODEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Serp     SerpConfig     `yaml:"serp"`
	LLM      LLMConfig      `yaml:"llm"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig describes Postgres connection details. Empty DSN
// disables session persistence.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SerpConfig defines how to contact the search provider.
type SerpConfig struct {
	APIKey     string  `yaml:"apiKey"`
	Engine     string  `yaml:"engine"`
	BaseURL    string  `yaml:"baseUrl"`
	MaxResults int     `yaml:"maxResults"`
	QPS        float64 `yaml:"qps"`
}

// LLMConfig defines the qualification model endpoint.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// PipelineConfig bounds one search session.
type PipelineConfig struct {
	MaxQueries     int    `yaml:"maxQueries"`
	FanoutCap      int    `yaml:"fanoutCap"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
	MaxResults     int    `yaml:"maxResults"`
	Multilingual   bool   `yaml:"multilingual"`
	Mode           string `yaml:"mode"`
}

// OverallTimeout converts the configured session bound to a duration.
func (p PipelineConfig) OverallTimeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// LoggingConfig selects log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(serpAPIKeyEnv); v != "" {
		c.Serp.APIKey = v
	}

	if v := os.Getenv(groqAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(groqModelEnv); v != "" {
		c.LLM.Model = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Serp.APIKey != "" {
		base.Serp.APIKey = override.Serp.APIKey
	}
	if override.Serp.Engine != "" {
		base.Serp.Engine = override.Serp.Engine
	}
	if override.Serp.BaseURL != "" {
		base.Serp.BaseURL = override.Serp.BaseURL
	}
	if override.Serp.MaxResults > 0 {
		base.Serp.MaxResults = override.Serp.MaxResults
	}
	if override.Serp.QPS > 0 {
		base.Serp.QPS = override.Serp.QPS
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Pipeline.MaxQueries > 0 {
		base.Pipeline.MaxQueries = override.Pipeline.MaxQueries
	}
	if override.Pipeline.FanoutCap > 0 {
		base.Pipeline.FanoutCap = override.Pipeline.FanoutCap
	}
	if override.Pipeline.TimeoutSeconds > 0 {
		base.Pipeline.TimeoutSeconds = override.Pipeline.TimeoutSeconds
	}
	if override.Pipeline.MaxResults > 0 {
		base.Pipeline.MaxResults = override.Pipeline.MaxResults
	}
	if override.Pipeline.Multilingual {
		base.Pipeline.Multilingual = true
	}
	if override.Pipeline.Mode != "" {
		base.Pipeline.Mode = override.Pipeline.Mode
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Database: DatabaseConfig{DSN: ""},
		Serp: SerpConfig{
			Engine:     "google",
			BaseURL:    "https://serpapi.com/search",
			MaxResults: 10,
			QPS:        2,
		},
		LLM: LLMConfig{
			Endpoint: "https://api.groq.com/openai/v1/chat/completions",
			Model:    "llama-3.3-70b-versatile",
		},
		Pipeline: PipelineConfig{
			MaxQueries:     3,
			FanoutCap:      10,
			TimeoutSeconds: 120,
			MaxResults:     10,
			Mode:           "qualify",
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
