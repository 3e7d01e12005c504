// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"ssn-finder/internal/paths"
	"ssn-finder/internal/ssnfinder"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format           string   `yaml:"format"`
		ConfidenceLevels string   `yaml:"confidence_levels"`
		Verbose          bool     `yaml:"verbose"`
		Debug            bool     `yaml:"debug"`
		NoColor          bool     `yaml:"no_color"`
		Recursive        bool     `yaml:"recursive"`
		ShowMatch        bool     `yaml:"show_match"`
		Workers          int      `yaml:"workers"`
		SuppressionFile  string   `yaml:"suppression_file"`
		ExcludePatterns  []string `yaml:"exclude_patterns"`
	} `yaml:"defaults"`

	// Scanner limits and finding naming
	SSNFinder FinderConfig `yaml:"ssn_finder"`

	// Preprocessor configurations
	Preprocessors struct {
		TextExtraction struct {
			Enabled bool     `yaml:"enabled"`
			Types   []string `yaml:"types"`
		} `yaml:"text_extraction"`
		Normalization struct {
			Enabled bool `yaml:"enabled"`
		} `yaml:"normalization"`
	} `yaml:"preprocessors"`

	// Redaction configurations
	Redaction struct {
		Enabled     bool   `yaml:"enabled"`
		OutputDir   string `yaml:"output_dir"`
		Strategy    string `yaml:"strategy"`
		Replacement string `yaml:"replacement"`
		AuditLog    string `yaml:"audit_log"`
		MemoryScrub bool   `yaml:"memory_scrub"`
	} `yaml:"redaction"`

	// Profiles for different scanning scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// FinderConfig holds the ssn_finder section. The bounds are inlined so the
// yaml keys sit directly under ssn_finder.
type FinderConfig struct {
	ssnfinder.Bounds `yaml:",inline"`
	UnrecognizedChar string `yaml:"unrecognized_char"`
	MatchType        string `yaml:"match_type"`
}

// ProfileRedaction holds the redaction settings a profile may override
type ProfileRedaction struct {
	Enabled   bool   `yaml:"enabled"`
	OutputDir string `yaml:"output_dir"`
	Strategy  string `yaml:"strategy"`
}

// Profile represents a scanning profile with specific settings
type Profile struct {
	Format           string           `yaml:"format"`
	ConfidenceLevels string           `yaml:"confidence_levels"`
	Verbose          bool             `yaml:"verbose"`
	Debug            bool             `yaml:"debug"`
	NoColor          bool             `yaml:"no_color"`
	Recursive        bool             `yaml:"recursive"`
	ShowMatch        bool             `yaml:"show_match"`
	Workers          int              `yaml:"workers"`
	ExcludePatterns  []string         `yaml:"exclude_patterns"`
	Description      string           `yaml:"description"`
	Redaction        ProfileRedaction `yaml:"redaction"`
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Store default values before unmarshaling
	defaultTextExtractionEnabled := config.Preprocessors.TextExtraction.Enabled
	defaultNormalizationEnabled := config.Preprocessors.Normalization.Enabled
	defaultMemoryScrub := config.Redaction.MemoryScrub

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// yaml leaves absent bools false; put the defaults back
	if !containsField(data, "preprocessors", "text_extraction", "enabled") {
		config.Preprocessors.TextExtraction.Enabled = defaultTextExtractionEnabled
	}
	if !containsField(data, "preprocessors", "normalization", "enabled") {
		config.Preprocessors.Normalization.Enabled = defaultNormalizationEnabled
	}
	if !containsField(data, "redaction", "memory_scrub") {
		config.Redaction.MemoryScrub = defaultMemoryScrub
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]Profile)
	}

	normalizePaths(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "text"
	config.Defaults.ConfidenceLevels = "all"
	config.Defaults.Workers = 0 // one per CPU

	config.SSNFinder.Bounds = ssnfinder.DefaultBounds()
	config.SSNFinder.UnrecognizedChar = string(rune(ssnfinder.DefaultUnrecognizedChar))
	config.SSNFinder.MatchType = "SSN"

	config.Preprocessors.TextExtraction.Enabled = true
	config.Preprocessors.TextExtraction.Types = []string{"pdf", "image"}
	config.Preprocessors.Normalization.Enabled = true

	config.Redaction.Enabled = false
	config.Redaction.OutputDir = paths.NormalizePath("./redacted")
	config.Redaction.Strategy = "format_preserving"
	config.Redaction.Replacement = "[SSN-REDACTED]"
	config.Redaction.MemoryScrub = true

	config.Profiles["batch"] = Profile{
		Format:           "json",
		ConfidenceLevels: "high,medium",
		NoColor:          true,
		Recursive:        true,
		Description:      "Unattended scans of OCR export folders with machine-readable output",
	}
	config.Profiles["redact"] = Profile{
		Format:           "text",
		ConfidenceLevels: "high,medium",
		Recursive:        true,
		Description:      "Scan and write redacted copies of every document with findings",
		Redaction: ProfileRedaction{
			Enabled:   true,
			OutputDir: paths.NormalizePath("./redacted"),
			Strategy:  "mask_last4",
		},
	}

	return config
}

// FindConfigFile looks for a configuration file in standard locations
func FindConfigFile() string {
	// Project-specific config in the current directory
	for _, name := range []string{"ssn-finder.yaml", "ssn-finder.yml", ".ssn-finder.yaml", ".ssn-finder.yml"} {
		if fileExists(name) {
			return name
		}
	}

	// User config directory (XDG_CONFIG_HOME, APPDATA, or the override)
	if standardConfig := paths.GetConfigFile(); fileExists(standardConfig) {
		return standardConfig
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{".ssn-finder.yaml", ".ssn-finder.yml"} {
		homeConfig := filepath.Join(home, name)
		if fileExists(homeConfig) {
			return homeConfig
		}
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

// ListProfiles returns a list of available profile names
func (c *Config) ListProfiles() []string {
	profiles := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		profiles = append(profiles, name)
	}
	return profiles
}

// GetProfile returns a profile by name, or nil if not found
func (c *Config) GetProfile(name string) *Profile {
	if profile, exists := c.Profiles[name]; exists {
		return &profile
	}
	return nil
}

// FinderBounds returns the scanner limits from the ssn_finder section
func (c *Config) FinderBounds() ssnfinder.Bounds {
	return c.SSNFinder.Bounds
}

// UnrecognizedMarker returns the configured OCR placeholder byte
func (c *Config) UnrecognizedMarker() (byte, error) {
	marker := c.SSNFinder.UnrecognizedChar
	if marker == "" {
		return ssnfinder.DefaultUnrecognizedChar, nil
	}
	if len(marker) != 1 {
		return 0, fmt.Errorf("unrecognized_char must be a single ASCII character, got %q", marker)
	}
	return marker[0], nil
}

// NewFinder builds a scanner from the ssn_finder section
func (c *Config) NewFinder() (*ssnfinder.Finder, error) {
	marker, err := c.UnrecognizedMarker()
	if err != nil {
		return nil, err
	}
	return ssnfinder.New(c.FinderBounds(), marker)
}

// containsField checks if a nested field exists in the YAML data
func containsField(data []byte, path ...string) bool {
	var yamlData map[string]interface{}
	if err := yaml.Unmarshal(data, &yamlData); err != nil {
		return false
	}

	current := yamlData
	for i, key := range path {
		if i == len(path)-1 {
			_, exists := current[key]
			return exists
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return false
		}
		current = next
	}
	return false
}

// ValidateConfig validates scanner limits, worker count and paths
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if _, err := config.NewFinder(); err != nil {
		return fmt.Errorf("invalid ssn_finder settings: %w", err)
	}

	if config.Defaults.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", config.Defaults.Workers)
	}

	for name, profile := range config.Profiles {
		if profile.Workers < 0 {
			return fmt.Errorf("workers must not be negative in profile '%s'", name)
		}
	}

	return validateConfigPaths(config)
}

// validateConfigPaths validates all paths in the configuration
func validateConfigPaths(config *Config) error {
	checks := map[string]string{
		"redaction output directory": config.Redaction.OutputDir,
		"redaction audit log":        config.Redaction.AuditLog,
		"suppression file":           config.Defaults.SuppressionFile,
	}
	for what, p := range checks {
		if err := paths.ValidatePath(p); err != nil {
			return fmt.Errorf("invalid %s: %w", what, err)
		}
	}

	for profileName, profile := range config.Profiles {
		if err := paths.ValidatePath(profile.Redaction.OutputDir); err != nil {
			return fmt.Errorf("invalid redaction output directory in profile '%s': %w", profileName, err)
		}
	}

	return nil
}

// normalizePaths cleans path-valued settings, including those in profiles
func normalizePaths(config *Config) {
	config.Redaction.OutputDir = paths.NormalizePath(config.Redaction.OutputDir)
	config.Redaction.AuditLog = paths.NormalizePath(config.Redaction.AuditLog)
	config.Defaults.SuppressionFile = paths.NormalizePath(config.Defaults.SuppressionFile)

	for profileName, profile := range config.Profiles {
		profile.Redaction.OutputDir = paths.NormalizePath(profile.Redaction.OutputDir)
		config.Profiles[profileName] = profile
	}
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns a default configuration.
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		// Callers should not crash on a missing or bad config file
		cfg, _ = LoadConfig("")
	}
	return cfg
}
