// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pdfrange/internal/paths"

	"gopkg.in/yaml.v3"
)

// Default values used when neither the config file nor a flag sets them
const (
	DefaultEncoding         = "o200k_base"
	DefaultFallbackEncoding = "cl100k_base"
	DefaultBackend          = "ledongthuc"
)

// supportedBackends lists the extraction backends accepted in the config file
var supportedBackends = map[string]bool{
	"ledongthuc": true,
	"pdfcpu":     true,
}

// Config represents the application configuration
type Config struct {
	// Encoding is the token encoding scheme tried first
	Encoding string `yaml:"encoding"`

	// FallbackEncoding is used when Encoding is not a known scheme
	FallbackEncoding string `yaml:"fallback_encoding"`

	// Backend selects the PDF library used for text extraction
	Backend string `yaml:"backend"`

	// OutputDir, when set, receives the output file instead of the input's directory
	OutputDir string `yaml:"output_dir"`

	NoColor bool `yaml:"no_color"`
	Quiet   bool `yaml:"quiet"`
	Debug   bool `yaml:"debug"`

	// Metrics emits one JSON timing record per pipeline step to stderr
	Metrics bool `yaml:"metrics"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Encoding:         DefaultEncoding,
		FallbackEncoding: DefaultFallbackEncoding,
		Backend:          DefaultBackend,
	}
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Keys present but left empty fall back to the defaults
	if strings.TrimSpace(config.Encoding) == "" {
		config.Encoding = DefaultEncoding
	}
	if strings.TrimSpace(config.FallbackEncoding) == "" {
		config.FallbackEncoding = DefaultFallbackEncoding
	}
	if strings.TrimSpace(config.Backend) == "" {
		config.Backend = DefaultBackend
	}
	config.OutputDir = paths.NormalizePath(config.OutputDir)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig checks values that cannot be corrected silently
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if !supportedBackends[config.Backend] {
		return fmt.Errorf("unsupported backend %q (expected ledongthuc or pdfcpu)", config.Backend)
	}

	if err := paths.ValidatePath(config.OutputDir); err != nil {
		return fmt.Errorf("invalid output directory: %w", err)
	}

	return nil
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Project-specific config in the current directory wins
	for _, name := range []string{"pdfrange.yaml", "pdfrange.yml", ".pdfrange.yaml", ".pdfrange.yml"} {
		if fileExists(name) {
			return name
		}
	}

	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}

	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns the default configuration
// together with the load error so the caller can warn about it.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default(), err
	}
	return cfg, nil
}
