package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of the books directory.
const FileName = "accountant.yaml"

// Config represents the top-level accountant.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Currency string         `yaml:"currency"`
	Import   ImportConfig   `yaml:"import"`
	Git      GitConfig      `yaml:"git"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name string `yaml:"name"`
	BIN  string `yaml:"bin,omitempty"` // business identification number
}

// ImportConfig tunes statement import.
type ImportConfig struct {
	// OwnerNames are patterns matching the business itself as payer or payee.
	OwnerNames []string `yaml:"owner_names"`
	// InternalTransferKeywords mark self-transfers that must not become
	// income or expense lines.
	InternalTransferKeywords []string `yaml:"internal_transfer_keywords"`
	// UnknownFormat is "ignore" (empty result) or "reject" (error).
	UnknownFormat string `yaml:"unknown_format"`
	// Tolerance is the allowed gap between declared and computed totals.
	Tolerance      string `yaml:"tolerance"`
	DefaultAccount string `yaml:"default_account,omitempty"`
	KeywordsFile   string `yaml:"keywords_file"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// MetricsConfig controls the Prometheus textfile written after imports.
type MetricsConfig struct {
	// Textfile is relative to the books root. Empty disables metrics.
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads an accountant.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for new books.
func Default(businessName string) *Config {
	var owners []string
	if businessName != "" {
		owners = []string{businessName}
	}
	return &Config{
		Business: BusinessConfig{
			Name: businessName,
		},
		Currency: "KZT",
		Import: ImportConfig{
			OwnerNames: owners,
			InternalTransferKeywords: []string{
				"перевод собственных средств",
				"перевод между своими счетами",
				"own account transfer",
			},
			UnknownFormat: "ignore",
			Tolerance:     "0.01",
			KeywordsFile:  "rules/category-keywords.yaml",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Accountant",
			AuthorEmail: "accountant@localhost",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
