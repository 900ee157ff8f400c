package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppleConfig holds the Sign in with Apple parameters used when generating
// client secrets. Anything left empty is prompted for interactively.
type AppleConfig struct {
	// TeamID is the 10-character Apple Developer team identifier.
	TeamID string `toml:"team_id,omitempty"`

	// ClientID is the Services ID the generated secret authenticates.
	ClientID string `toml:"client_id,omitempty"`

	// KeyID identifies the Apple-issued .p8 signing key.
	KeyID string `toml:"key_id,omitempty"`

	// PrivateKeyPath points at the PEM signing key file.
	PrivateKeyPath string `toml:"private_key_path,omitempty"`

	// TTLDays is the client secret lifetime in days (Apple caps this at
	// roughly six months). Defaults to 90.
	TTLDays int `toml:"ttl_days,omitempty"`
}

// GoogleConfig holds the Google Sign-In parameters.
type GoogleConfig struct {
	// ClientID is the OAuth client the stored secret belongs to.
	ClientID string `toml:"client_id,omitempty"`
}

// Config represents the secrotate CLI configuration.
type Config struct {
	// Region is the AWS region for Secrets Manager and KMS calls.
	Region string `toml:"region,omitempty"`

	// Profile selects a shared-credentials profile; empty uses the default
	// credential chain.
	Profile string `toml:"profile,omitempty"`

	// SecretID names the shared Secrets Manager secret holding the sign-in
	// client secrets as a JSON document.
	SecretID string `toml:"secret_id,omitempty"`

	// KMSKeyID is the key id, ARN, or alias used to encrypt secrets before
	// they are stored.
	KMSKeyID string `toml:"kms_key_id,omitempty"`

	Apple  AppleConfig  `toml:"apple,omitempty"`
	Google GoogleConfig `toml:"google,omitempty"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		Apple: AppleConfig{TTLDays: 90},
	}
}

// Load loads configuration from files, with the following precedence:
// 1. Local .secrotaterc file (in current directory)
// 2. Global ~/.secrotaterc config file
// 3. Default values
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try global config first (lower precedence)
	globalPath, err := GlobalConfigPath()
	if err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	// Try local config (higher precedence, overwrites global)
	localPath := LocalConfigPath()
	if data, err := os.ReadFile(localPath); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LocalConfigPath returns the path to the local config file
func LocalConfigPath() string {
	return ".secrotaterc"
}

// GlobalConfigPath returns the path to the global config file
// Uses ~/.secrotaterc on all platforms for consistency
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".secrotaterc"), nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to the global config file
func (c *Config) Save() error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
