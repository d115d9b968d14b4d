package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the tokencraft configuration
type Config struct {
	Root        string `mapstructure:"root"`
	ProfilePath string `mapstructure:"profilePath"`
	UserEmail   string `mapstructure:"userEmail"`
	Format      string `mapstructure:"format"`
	Output      string `mapstructure:"output"`
	Quiet       bool   `mapstructure:"quiet"`
	Verbose     bool   `mapstructure:"verbose"`
}

// LoadConfig loads configuration from rc files, environment, and defaults
func LoadConfig(rootPath string) (*Config, error) {
	homeDir, _ := os.UserHomeDir()
	claudeDir := filepath.Join(homeDir, ".claude")
	viper.SetDefault("root", claudeDir)
	viper.SetDefault("profilePath", filepath.Join(claudeDir, "token-craft", "user_profile.json"))
	viper.SetDefault("format", "console")
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)

	// Config file locations
	configPaths := []string{".tokencraftrc.json", ".tokencraftrc.yaml", ".tokencraftrc.yml"}
	for _, path := range configPaths {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err == nil {
			break
		}
	}

	// Environment variables
	viper.SetEnvPrefix("TOKENCRAFT")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if rootPath != "" {
		config.Root = rootPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "json", "yaml":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'yaml'", config.Format)
	}
	if config.ProfilePath == "" {
		return fmt.Errorf("profile path must not be empty")
	}
	return nil
}

// SaveConfig saves the current configuration to a file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
