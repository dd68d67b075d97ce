// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package util provides the configuration, logging and display helpers
// shared by the aptemplate commands.
package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DataDirEnv overrides the default data directory.
const DataDirEnv = "APTEMPLATE_DATA"

// DefaultValidityRounds is the default distance between first and last valid round.
const DefaultValidityRounds = 1000

// Networks lists the Algorand networks aptemplate can target.
var Networks = []string{"mainnet", "testnet", "betanet"}

// Config holds aptemplate configuration settings
type Config struct {
	Network        string `yaml:"network" description:"Default network (mainnet, testnet, betanet)" default:"testnet"`
	ValidityRounds uint64 `yaml:"validity_rounds" description:"Rounds between first and last valid round of built transactions" default:"1000"`
	FlatFee        uint64 `yaml:"flat_fee" description:"Flat fee per transaction in microAlgos (0 = network suggested fee)" default:"0"`

	// Mainnet algod settings
	MainnetAlgodServer string `yaml:"mainnet_algod_server" description:"Mainnet algod server URL"`
	MainnetAlgodPort   int    `yaml:"mainnet_algod_port" description:"Mainnet algod port (if separate from URL)"`
	MainnetAlgodToken  string `yaml:"mainnet_algod_token" description:"Mainnet algod API token"`

	// Testnet algod settings
	TestnetAlgodServer string `yaml:"testnet_algod_server" description:"Testnet algod server URL"`
	TestnetAlgodPort   int    `yaml:"testnet_algod_port" description:"Testnet algod port (if separate from URL)"`
	TestnetAlgodToken  string `yaml:"testnet_algod_token" description:"Testnet algod API token"`

	// Betanet algod settings
	BetanetAlgodServer string `yaml:"betanet_algod_server" description:"Betanet algod server URL"`
	BetanetAlgodPort   int    `yaml:"betanet_algod_port" description:"Betanet algod port (if separate from URL)"`
	BetanetAlgodToken  string `yaml:"betanet_algod_token" description:"Betanet algod API token"`
}

// DefaultConfig returns the default configuration for runtime use.
// Algod URLs are empty - user must explicitly configure them.
func DefaultConfig() Config {
	return Config{
		Network:        "testnet",
		ValidityRounds: DefaultValidityRounds,
	}
}

// GetDataDir returns the aptemplate data directory.
// Resolution order: -d flag > APTEMPLATE_DATA env var > ~/.aptemplate
func GetDataDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envDir := os.Getenv(DataDirEnv); envDir != "" {
		return envDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "" // Can't determine default
	}
	return filepath.Join(home, ".aptemplate")
}

// GetConfigPath returns the path to the config file in the data directory.
// Returns empty string if dataDir is empty.
func GetConfigPath(dataDir string) string {
	if dataDir == "" {
		return ""
	}
	return filepath.Join(dataDir, "config.yaml")
}

// LoadConfig loads configuration from config.yaml in the data directory.
// If dataDir is empty or the file doesn't exist, returns default config.
func LoadConfig(dataDir string) (Config, error) {
	return LoadConfigFromPath(GetConfigPath(dataDir))
}

// LoadConfigFromPath loads configuration from the specified path.
// If path is empty or the file doesn't exist, returns default config.
func LoadConfigFromPath(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay config file values
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if !slices.Contains(Networks, config.Network) {
		return Config{}, fmt.Errorf("invalid network '%s' in config (must be mainnet, testnet, or betanet)", config.Network)
	}
	if config.ValidityRounds == 0 {
		config.ValidityRounds = DefaultValidityRounds
	}
	if config.ValidityRounds > DefaultValidityRounds {
		return Config{}, fmt.Errorf("validity_rounds %d exceeds the protocol maximum of %d", config.ValidityRounds, DefaultValidityRounds)
	}

	Debug("loaded config", "path", path, "network", config.Network)
	return config, nil
}

// AlgodConfig holds algod connection settings for a network
type AlgodConfig struct {
	Server string
	Port   int
	Token  string
}

// Address returns the full algod address, including port if specified
func (a *AlgodConfig) Address() string {
	if a.Port > 0 {
		return fmt.Sprintf("%s:%d", a.Server, a.Port)
	}
	return a.Server
}

// GetAlgodConfig returns the algod settings for the specified network.
// Returns the configured values without fallback defaults - caller should
// check if Server is empty and handle accordingly.
func (c *Config) GetAlgodConfig(network string) (*AlgodConfig, error) {
	switch network {
	case "mainnet":
		return &AlgodConfig{
			Server: c.MainnetAlgodServer,
			Port:   c.MainnetAlgodPort,
			Token:  c.MainnetAlgodToken,
		}, nil
	case "testnet":
		return &AlgodConfig{
			Server: c.TestnetAlgodServer,
			Port:   c.TestnetAlgodPort,
			Token:  c.TestnetAlgodToken,
		}, nil
	case "betanet":
		return &AlgodConfig{
			Server: c.BetanetAlgodServer,
			Port:   c.BetanetAlgodPort,
			Token:  c.BetanetAlgodToken,
		}, nil
	default:
		return nil, fmt.Errorf("invalid network: %s", network)
	}
}

// DisplayConfig writes the current configuration to w
func DisplayConfig(w io.Writer, dataDir string) {
	config, err := LoadConfig(dataDir)

	fmt.Fprintln(w, "Current Configuration:")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Data dir:    %s\n", dataDir)
	fmt.Fprintf(w, "Config file: %s\n", GetConfigPath(dataDir))
	if err != nil {
		fmt.Fprintf(w, "Error:       %v\n", err)
		return
	}
	fmt.Fprintf(w, "Network:     %s\n", config.Network)
	fmt.Fprintf(w, "Validity:    %d rounds\n", config.ValidityRounds)
	if config.FlatFee > 0 {
		fmt.Fprintf(w, "Flat fee:    %d microAlgos\n", config.FlatFee)
	} else {
		fmt.Fprintf(w, "Flat fee:    (network suggested)\n")
	}
	algod, _ := config.GetAlgodConfig(config.Network)
	if algod.Server != "" {
		fmt.Fprintf(w, "Algod:       %s\n", algod.Address())
	} else {
		fmt.Fprintf(w, "Algod:       not configured (%s_algod_server)\n", config.Network)
	}
}
