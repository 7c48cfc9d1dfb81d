package model

import (
	"runtime"
	"time"
)

// Config is the complete runtime configuration
type Config struct {
	Analysis     AnalysisConfig    `yaml:"analysis" mapstructure:"analysis"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Session      SessionConfig     `yaml:"session" mapstructure:"session"`
	Server       ServerConfig      `yaml:"server" mapstructure:"server"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig points at the optional rule, fairness and law files.
// Empty paths mean the compiled-in defaults.
type AnalysisConfig struct {
	RulesPath        string `yaml:"rules_path" mapstructure:"rules_path"`
	FairStandardPath string `yaml:"fair_standard_path" mapstructure:"fair_standard_path"`
	LawsPath         string `yaml:"laws_path" mapstructure:"laws_path"`
	MinTextChars     int    `yaml:"min_text_chars" mapstructure:"min_text_chars"` // Non-whitespace characters required
}

// ConcurrencyConfig sizes the worker pools
type ConcurrencyConfig struct {
	ClauseWorkers int `yaml:"clause_workers" mapstructure:"clause_workers"` // Clauses analyzed in parallel per document
	Workers       int `yaml:"workers" mapstructure:"workers"`               // Documents analyzed in parallel in batch mode
}

// CacheConfig controls the analysis and retrieval caches
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// LLMConfig configures the optional document-level explanation service
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"` // openai, deepseek, ollama, "" (disabled)
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
	HTTPProxy   string  `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy  string  `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy     string  `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// RateLimitConfig bounds calls to external services
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// SessionConfig configures where analyses are kept between requests
type SessionConfig struct {
	Backend         string        `yaml:"backend" mapstructure:"backend"` // memory or sqlite
	DBPath          string        `yaml:"db_path" mapstructure:"db_path"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr              string   `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes    int64    `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions" mapstructure:"allowed_extensions"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MinTextChars: 50,
		},
		Concurrency: ConcurrencyConfig{
			ClauseWorkers: runtime.NumCPU(),
			Workers:       4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		LLM: LLMConfig{
			Timeout:     30,
			MaxTokens:   800,
			Temperature: 0.2,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         2,
		},
		Session: SessionConfig{
			Backend:         "memory",
			DBPath:          "sentinel-sessions.db",
			TTL:             30 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Server: ServerConfig{
			Addr:              ":5000",
			MaxUploadBytes:    10 << 20,
			AllowedExtensions: []string{".txt", ".md", ".html", ".htm", ".docx"},
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
