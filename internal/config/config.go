// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults applied by MergeWithDefaults when neither the flags nor the file set a value
const (
	DefaultFormat       = "doc"
	DefaultStore        = "file"
	DefaultThreshold    = 0.9
	DefaultIterations   = 5
	DefaultMinParagraph = 10
	DefaultLanguage     = "english"
)

// Environment variables read by ApplyEnv
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvLogMode     = "BITEXT_LOG_MODE"
)

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`     // Source language text
	Target   string `json:"target,omitempty" yaml:"target,omitempty"`     // Target language text
	Out      string `json:"out,omitempty" yaml:"out,omitempty"`           // Rendered output file
	Template string `json:"template,omitempty" yaml:"template,omitempty"` // LaTeX template overriding the built-in one
	Snapshot string `json:"snapshot,omitempty" yaml:"snapshot,omitempty"` // Snapshot file to write or reuse
	Glossary string `json:"glossary,omitempty" yaml:"glossary,omitempty"` // Glossary TSV output

	// Output
	Format       string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=table doc text"`
	MinParagraph int    `json:"min_paragraph,omitempty" yaml:"min_paragraph,omitempty" validate:"gte=0"`
	Title        string `json:"title,omitempty" yaml:"title,omitempty"`

	// Snapshot storage
	Store         string `json:"store,omitempty" yaml:"store,omitempty" validate:"omitempty,oneof=file sqlite postgres"`
	StoreLocation string `json:"store_location,omitempty" yaml:"store_location,omitempty"` // Directory or SQLite file
	DatabaseURL   string `json:"database_url,omitempty" yaml:"database_url,omitempty"`     // PostgreSQL connection URL

	// Segmentation and alignment
	Detector string `json:"detector,omitempty" yaml:"detector,omitempty" validate:"omitempty,oneof=punkt paragraph"`
	// Regular expressions replacing the default block separator and heading patterns.
	// Heading patterns must capture the heading text in group 1.
	BlockSeparator string `json:"block_separator,omitempty" yaml:"block_separator,omitempty"`
	PartPattern    string `json:"part_pattern,omitempty" yaml:"part_pattern,omitempty"`
	ChapterPattern string `json:"chapter_pattern,omitempty" yaml:"chapter_pattern,omitempty"`
	Workers  int    `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0"`

	// Glossary
	SourceLang string  `json:"source_lang,omitempty" yaml:"source_lang,omitempty"`
	TargetLang string  `json:"target_lang,omitempty" yaml:"target_lang,omitempty"`
	Threshold  float64 `json:"threshold,omitempty" yaml:"threshold,omitempty" validate:"gte=0,lt=1"`
	Iterations int     `json:"iterations,omitempty" yaml:"iterations,omitempty" validate:"gte=0"`

	// Behavior
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	LogMode string `json:"log_mode,omitempty" yaml:"log_mode,omitempty" validate:"omitempty,oneof=development production debug"`
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ValidateFields checks each field on its own (enums and ranges).
// A config file is checked with this before flags and environment fill it in.
func (c *Config) ValidateFields() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Validate checks that the configuration has valid values, including the
// cross-field rules, so it belongs after flags, environment and defaults are merged.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := c.ValidateFields(); err != nil {
		return err
	}

	if c.Source != "" && c.Source == c.Target {
		return fmt.Errorf("config error: 'source' and 'target' must be different files")
	}
	if c.Store == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'postgres' store requires 'database_url' or %s", EnvDatabaseURL)
	}
	if c.Store == "sqlite" && c.StoreLocation == "" {
		return fmt.Errorf("config error: 'sqlite' store requires 'store_location'")
	}

	// Validate file paths exist (if specified)
	for name, path := range map[string]string{"source": c.Source, "target": c.Target, "template": c.Template} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("config error: %s file not found: %s", name, path)
		}
	}

	return nil
}

// ApplyEnv fills unset fields from the environment
func (c *Config) ApplyEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
	if c.LogMode == "" {
		c.LogMode = os.Getenv(EnvLogMode)
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct{ dst *string; def string }{
		{&result.Source, defaults.Source},
		{&result.Target, defaults.Target},
		{&result.Out, defaults.Out},
		{&result.Template, defaults.Template},
		{&result.Snapshot, defaults.Snapshot},
		{&result.Glossary, defaults.Glossary},
		{&result.Title, defaults.Title},
		{&result.StoreLocation, defaults.StoreLocation},
		{&result.DatabaseURL, defaults.DatabaseURL},
		{&result.Detector, defaults.Detector},
		{&result.BlockSeparator, defaults.BlockSeparator},
		{&result.PartPattern, defaults.PartPattern},
		{&result.ChapterPattern, defaults.ChapterPattern},
		{&result.LogMode, defaults.LogMode},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
	result.Format = firstNonEmpty(result.Format, defaults.Format, DefaultFormat)
	result.Store = firstNonEmpty(result.Store, defaults.Store, DefaultStore)
	result.SourceLang = firstNonEmpty(result.SourceLang, defaults.SourceLang, DefaultLanguage)
	result.TargetLang = firstNonEmpty(result.TargetLang, defaults.TargetLang, DefaultLanguage)

	// Int fields: use default if zero
	result.MinParagraph = firstPositive(result.MinParagraph, defaults.MinParagraph, DefaultMinParagraph)
	result.Iterations = firstPositive(result.Iterations, defaults.Iterations, DefaultIterations)
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Float fields
	if result.Threshold == 0 {
		if defaults.Threshold > 0 {
			result.Threshold = defaults.Threshold
		} else {
			result.Threshold = DefaultThreshold
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
