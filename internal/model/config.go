package model

import (
	"fmt"
	"time"
)

// Config is the complete jtbd configuration.
// Defaults come from DefaultConfig; the CLI layers the config file, JTBD_* env vars and flags on top.
type Config struct {
	Data         DataConfig         `yaml:"data" mapstructure:"data"`
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Reliability  ReliabilityConfig  `yaml:"reliability" mapstructure:"reliability"`
	Triage       TriageConfig       `yaml:"triage" mapstructure:"triage"`
	Research     ResearchConfig     `yaml:"research" mapstructure:"research"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
}

// DataConfig controls where research corpora are loaded from
type DataConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"`               // Directory of *<topic>*.json files
	StorePath string `yaml:"store_path" mapstructure:"store_path"` // Optional SQLite corpus store (takes precedence when set)
}

// AnalysisConfig tunes theme clustering
type AnalysisConfig struct {
	Seed          int64 `yaml:"seed" mapstructure:"seed"`                     // Fixed k-means seed; results are reproducible for a given seed
	MaxFeatures   int   `yaml:"max_features" mapstructure:"max_features"`     // TF-IDF vocabulary cap
	MinClusters   int   `yaml:"min_clusters" mapstructure:"min_clusters"`     // Lower bound of k
	MaxClusters   int   `yaml:"max_clusters" mapstructure:"max_clusters"`     // Upper bound of k
	MinStatements int   `yaml:"min_statements" mapstructure:"min_statements"` // Below this, a single "Primary Theme" is returned
	MaxIterations int   `yaml:"max_iterations" mapstructure:"max_iterations"` // k-means iteration cap per restart
	Restarts      int   `yaml:"restarts" mapstructure:"restarts"`             // k-means++ restarts; lowest inertia wins
	KeywordCount  int   `yaml:"keyword_count" mapstructure:"keyword_count"`   // Words in a theme name
	ExampleCount  int   `yaml:"example_count" mapstructure:"example_count"`   // Example statements in a theme description
}

// ReliabilityConfig holds the data sufficiency thresholds
type ReliabilityConfig struct {
	HighSources   int `yaml:"high_sources" mapstructure:"high_sources"`
	HighEntries   int `yaml:"high_entries" mapstructure:"high_entries"`
	MediumSources int `yaml:"medium_sources" mapstructure:"medium_sources"`
	MediumEntries int `yaml:"medium_entries" mapstructure:"medium_entries"`
	MinPerSource  int `yaml:"min_per_source" mapstructure:"min_per_source"` // Entries each source needs for triangulation
}

// TriageConfig holds the data completeness thresholds used for routing
type TriageConfig struct {
	CompleteSources int `yaml:"complete_sources" mapstructure:"complete_sources"`
	CompleteEntries int `yaml:"complete_entries" mapstructure:"complete_entries"`
	PartialSources  int `yaml:"partial_sources" mapstructure:"partial_sources"`
	PartialEntries  int `yaml:"partial_entries" mapstructure:"partial_entries"`
}

// ResearchConfig tunes research plan generation
type ResearchConfig struct {
	Seed               int64 `yaml:"seed" mapstructure:"seed"` // Seed for interview question sampling
	InterviewQuestions int   `yaml:"interview_questions" mapstructure:"interview_questions"`
}

// CacheConfig controls the analysis result cache. It is off by default;
// when on, entries are keyed by the build that wrote them.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits calls to LLM providers
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LLMConfig configures the optional narrative summary
type LLMConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, or empty to disable
	Model        string `yaml:"model" mapstructure:"model"`
	APIKey       string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL      string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout      int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	StrictQuotes bool   `yaml:"strict_quotes" mapstructure:"strict_quotes"`
	MaxTokens    int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "data",
		},
		Analysis: AnalysisConfig{
			Seed:          42,
			MaxFeatures:   100,
			MinClusters:   2,
			MaxClusters:   5,
			MinStatements: 3,
			MaxIterations: 300,
			Restarts:      10,
			KeywordCount:  3,
			ExampleCount:  3,
		},
		Reliability: ReliabilityConfig{
			HighSources:   3,
			HighEntries:   15,
			MediumSources: 2,
			MediumEntries: 10,
			MinPerSource:  2,
		},
		Triage: TriageConfig{
			CompleteSources: 3,
			CompleteEntries: 15,
			PartialSources:  1,
			PartialEntries:  5,
		},
		Research: ResearchConfig{
			Seed:               42,
			InterviewQuestions: 15,
		},
		Cache: CacheConfig{
			Enabled:   false,
			Dir:       ".jtbd-cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		LLM: LLMConfig{
			Timeout:      30,
			StrictQuotes: true,
			MaxTokens:    800,
		},
	}
}

// Validate rejects settings the analysis cannot run with
func (c *Config) Validate() error {
	a := c.Analysis
	switch {
	case a.MaxFeatures < 1:
		return fmt.Errorf("%w: analysis.max_features must be >= 1, got %d", ErrInvalidConfig, a.MaxFeatures)
	case a.MinClusters < 1:
		return fmt.Errorf("%w: analysis.min_clusters must be >= 1, got %d", ErrInvalidConfig, a.MinClusters)
	case a.MaxClusters < a.MinClusters:
		return fmt.Errorf("%w: analysis.max_clusters (%d) < min_clusters (%d)", ErrInvalidConfig, a.MaxClusters, a.MinClusters)
	case a.MaxIterations < 1:
		return fmt.Errorf("%w: analysis.max_iterations must be >= 1, got %d", ErrInvalidConfig, a.MaxIterations)
	case a.Restarts < 1:
		return fmt.Errorf("%w: analysis.restarts must be >= 1, got %d", ErrInvalidConfig, a.Restarts)
	case a.MinStatements < 1:
		return fmt.Errorf("%w: analysis.min_statements must be >= 1, got %d", ErrInvalidConfig, a.MinStatements)
	case a.KeywordCount < 1:
		return fmt.Errorf("%w: analysis.keyword_count must be >= 1, got %d", ErrInvalidConfig, a.KeywordCount)
	case a.ExampleCount < 0:
		return fmt.Errorf("%w: analysis.example_count must be >= 0, got %d", ErrInvalidConfig, a.ExampleCount)
	case c.Concurrency.Workers < 1:
		return fmt.Errorf("%w: concurrency.workers must be >= 1, got %d", ErrInvalidConfig, c.Concurrency.Workers)
	}
	return nil
}
