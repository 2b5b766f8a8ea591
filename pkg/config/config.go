// Package config provides configuration management for the fieldshare CLI tool
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Davincible/fieldshare/pkg/crypto/field"
	"github.com/Davincible/fieldshare/pkg/crypto/primes"
)

// ModulusAuto selects the smallest prime above both the secret and the share count.
const ModulusAuto = "auto"

// Config represents the main configuration structure
type Config struct {
	Version  string             `json:"version"`
	Defaults DefaultSettings    `json:"defaults"`
	Security SecurityConfig     `json:"security"`
	UI       UIConfig           `json:"ui"`
	Output   OutputConfig       `json:"output"`
	Profiles map[string]Profile `json:"profiles,omitempty"`
}

// DefaultSettings contains default values for split and combine
type DefaultSettings struct {
	Shares    int    `json:"shares"`    // Default: 5
	Threshold int    `json:"threshold"` // Default: 3
	Field     string `json:"field"`     // prime or gf256
	Modulus   string `json:"modulus"`   // auto, a preset name, or a decimal prime
}

// SecurityConfig contains security-related settings
type SecurityConfig struct {
	AutoVerify bool `json:"auto_verify"` // Reconstruct after split and compare
}

// UIConfig contains user interface settings
type UIConfig struct {
	UseColor bool `json:"use_color"`
}

// OutputConfig controls how share files are written
type OutputConfig struct {
	FilePermissions string `json:"file_permissions"` // Octal, default 0600
}

// Profile is a named set of sharing parameters. Zero fields fall back to Defaults.
type Profile struct {
	Description string `json:"description,omitempty"`
	Shares      int    `json:"shares,omitempty"`
	Threshold   int    `json:"threshold,omitempty"`
	Field       string `json:"field,omitempty"`
	Modulus     string `json:"modulus,omitempty"`
}

// ConfigManager manages configuration loading and saving
type ConfigManager struct {
	config     *Config
	configPath string
}

// NewConfigManager loads the configuration from the default path. A missing
// file yields DefaultConfig; nothing is written until Save is called.
func NewConfigManager() (*ConfigManager, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return NewConfigManagerAt(configPath)
}

// NewConfigManagerAt is NewConfigManager for an explicit path.
func NewConfigManagerAt(configPath string) (*ConfigManager, error) {
	cm := &ConfigManager{configPath: configPath}

	if err := cm.LoadConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cm.config = DefaultConfig()
	}

	return cm, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0.0",
		Defaults: DefaultSettings{
			Shares:    5,
			Threshold: 3,
			Field:     field.BackendPrime,
			Modulus:   ModulusAuto,
		},
		Security: SecurityConfig{
			AutoVerify: true,
		},
		UI: UIConfig{
			UseColor: true,
		},
		Output: OutputConfig{
			FilePermissions: "0600",
		},
	}
}

// LoadConfig loads the configuration from disk. Fields absent from the file
// keep their default values.
func (cm *ConfigManager) LoadConfig() error {
	data, err := os.ReadFile(cm.configPath)
	if err != nil {
		return err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", cm.configPath, err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", cm.configPath, err)
	}

	cm.config = config
	return nil
}

// SaveConfig saves the configuration to disk
func (cm *ConfigManager) SaveConfig() error {
	configDir := filepath.Dir(cm.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cm.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (cm *ConfigManager) GetConfig() *Config {
	return cm.config
}

// SetConfig updates the configuration
func (cm *ConfigManager) SetConfig(config *Config) {
	cm.config = config
}

// Path returns the file the manager reads and writes
func (cm *ConfigManager) Path() string {
	return cm.configPath
}

// Exists reports whether the configuration file is present on disk
func (cm *ConfigManager) Exists() bool {
	_, err := os.Stat(cm.configPath)
	return err == nil
}

// Resolve returns the defaults with the named profile laid over them. An
// empty name returns the defaults unchanged.
func (cm *ConfigManager) Resolve(profile string) (DefaultSettings, error) {
	settings := cm.config.Defaults
	if profile == "" {
		return settings, nil
	}

	p, ok := cm.config.Profiles[profile]
	if !ok {
		return DefaultSettings{}, fmt.Errorf("profile '%s' not found (known: %s)", profile, strings.Join(cm.ProfileNames(), ", "))
	}

	if p.Shares != 0 {
		settings.Shares = p.Shares
	}
	if p.Threshold != 0 {
		settings.Threshold = p.Threshold
	}
	if p.Field != "" {
		settings.Field = p.Field
	}
	if p.Modulus != "" {
		settings.Modulus = p.Modulus
	}
	return settings, nil
}

// ProfileNames returns the configured profile names in sorted order
func (cm *ConfigManager) ProfileNames() []string {
	names := make([]string, 0, len(cm.config.Profiles))
	for name := range cm.config.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileMode parses Output.FilePermissions, falling back to 0600.
func (c *Config) FileMode() os.FileMode {
	mode, err := strconv.ParseUint(c.Output.FilePermissions, 8, 32)
	if err != nil || mode == 0 {
		return 0600
	}
	return os.FileMode(mode)
}

// Validate checks the defaults and every profile
func (c *Config) Validate() error {
	if err := c.Defaults.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	if _, err := strconv.ParseUint(c.Output.FilePermissions, 8, 32); c.Output.FilePermissions != "" && err != nil {
		return fmt.Errorf("output.file_permissions %q is not an octal mode", c.Output.FilePermissions)
	}
	for name, p := range c.Profiles {
		settings := DefaultSettings{Shares: p.Shares, Threshold: p.Threshold, Field: p.Field, Modulus: p.Modulus}
		if err := settings.validateSet(); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks a complete set of sharing parameters
func (s DefaultSettings) Validate() error {
	if s.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", s.Threshold)
	}
	if s.Shares < s.Threshold {
		return fmt.Errorf("threshold (%d) cannot be greater than shares (%d)", s.Threshold, s.Shares)
	}
	return s.validateSet()
}

// validateSet checks only the fields that are set
func (s DefaultSettings) validateSet() error {
	if s.Threshold != 0 && s.Threshold < 2 {
		return fmt.Errorf("threshold must be at least 2, got %d", s.Threshold)
	}
	if s.Shares < 0 {
		return fmt.Errorf("shares must be positive, got %d", s.Shares)
	}

	switch s.Field {
	case "", field.BackendPrime, field.BackendBinary:
	default:
		return fmt.Errorf("unsupported field backend %q", s.Field)
	}

	if _, err := ParseModulus(s.Modulus); err != nil {
		return err
	}
	return nil
}

// ParseModulus resolves a modulus setting. It returns nil for "" and "auto",
// the preset's value for a preset name, and the number itself for a decimal
// prime.
func ParseModulus(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, ModulusAuto) {
		return nil, nil
	}

	if p, ok := new(big.Int).SetString(value, 10); ok {
		if !primes.IsPrime(p) {
			return nil, fmt.Errorf("%w: %s is not prime", field.ErrInvalidModulus, value)
		}
		return p, nil
	}

	p, err := primes.Named(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", field.ErrInvalidModulus, err)
	}
	return p, nil
}

// getConfigPath returns the configuration file path
func getConfigPath() (string, error) {
	if customPath := os.Getenv("FIELDSHARE_CONFIG"); customPath != "" {
		return customPath, nil
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "fieldshare", "config.json"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "fieldshare", "config.json"), nil
}
