package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested
// sections map naturally to the flag surface.
type FileConfig struct {
	Input     string `yaml:"input" json:"input"`
	Extension string `yaml:"extension" json:"extension"`

	Patterns struct {
		Channels   []string `yaml:"channels" json:"channels"`
		TotalLabel string   `yaml:"totalLabel" json:"totalLabel"`
		PaidHeader string   `yaml:"paidHeader" json:"paidHeader"`
	} `yaml:"patterns" json:"patterns"`

	Report struct {
		CSV  string `yaml:"csv" json:"csv"`
		XLSX string `yaml:"xlsx" json:"xlsx"`
	} `yaml:"report" json:"report"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset or still at their flag defaults. Flags should
// already have been parsed; file config supplies defaults while explicit
// flags win.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	const extensionDefault = ".pdf"

	if cfg.InputPath == "" && fc.Input != "" {
		cfg.InputPath = fc.Input
	}
	if (cfg.Extension == "" || cfg.Extension == extensionDefault) && fc.Extension != "" {
		cfg.Extension = fc.Extension
	}
	if len(cfg.Channels) == 0 && len(fc.Patterns.Channels) > 0 {
		cfg.Channels = append([]string{}, fc.Patterns.Channels...)
	}
	if cfg.TotalLabel == "" && fc.Patterns.TotalLabel != "" {
		cfg.TotalLabel = fc.Patterns.TotalLabel
	}
	if cfg.PaidHeader == "" && fc.Patterns.PaidHeader != "" {
		cfg.PaidHeader = fc.Patterns.PaidHeader
	}
	if cfg.CSVPath == "" && fc.Report.CSV != "" {
		cfg.CSVPath = fc.Report.CSV
	}
	if cfg.XLSXPath == "" && fc.Report.XLSX != "" {
		cfg.XLSXPath = fc.Report.XLSX
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}

// ValidateConfig performs minimal schema validation for required settings.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("config: input path is required")
	}
	if cfg.Extension != "" && !strings.HasPrefix(cfg.Extension, ".") {
		return fmt.Errorf("config: extension must start with a dot, got %q", cfg.Extension)
	}
	for _, tag := range cfg.Channels {
		if strings.TrimSpace(tag) == "" {
			return errors.New("config: channel tags must be non-empty")
		}
	}
	return nil
}
