// Package config holds the settings recognized at the outer boundary of
// the ABI recovery service. The core scanner packages (opcode, bytecode,
// abi) never import it, and neither does sigsource: its client
// constructors take these values as plain arguments.
package config

import (
	"errors"
	"os"
	"strconv"
)

// ErrInvalidChainID is returned when SOURCIFY_CHAIN_ID is set but is not a
// positive integer.
var ErrInvalidChainID = errors.New("config: invalid SOURCIFY_CHAIN_ID")

const (
	defaultEtherscanBaseURL = "https://api.etherscan.io/v2/api"
	defaultSourcifyChainID  = 1
)

// Source identifies where a Config value came from.
type Source int

const (
	// SourceDefault indicates a built-in default value.
	SourceDefault Source = iota
	// SourceEnv indicates a value read from an environment variable.
	SourceEnv
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceEnv:
		return "env"
	default:
		return "unknown"
	}
}

// Config holds the three settings spec'd at the outer boundary:
// ETHERSCAN_API_KEY, ETHERSCAN_BASE_URL, SOURCIFY_CHAIN_ID.
type Config struct {
	EtherscanAPIKey  string
	EtherscanBaseURL string
	SourcifyChainID  uint64

	// sources tracks where each field's value came from, for diagnostics.
	sources map[string]Source
}

// Default returns a Config populated entirely from built-in defaults.
func Default() *Config {
	return &Config{
		EtherscanBaseURL: defaultEtherscanBaseURL,
		SourcifyChainID:  defaultSourcifyChainID,
		sources: map[string]Source{
			"EtherscanBaseURL": SourceDefault,
			"SourcifyChainID":  SourceDefault,
		},
	}
}

// FromEnv builds a Config by overlaying environment variables onto
// Default(). An empty or unset ETHERSCAN_API_KEY is not an error;
// EtherscanAPIKey is then simply empty.
func FromEnv() (*Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv("ETHERSCAN_API_KEY"); ok {
		cfg.EtherscanAPIKey = v
		cfg.sources["EtherscanAPIKey"] = SourceEnv
	}
	if v, ok := os.LookupEnv("ETHERSCAN_BASE_URL"); ok && v != "" {
		cfg.EtherscanBaseURL = v
		cfg.sources["EtherscanBaseURL"] = SourceEnv
	}
	if v, ok := os.LookupEnv("SOURCIFY_CHAIN_ID"); ok && v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			return nil, ErrInvalidChainID
		}
		cfg.SourcifyChainID = id
		cfg.sources["SourcifyChainID"] = SourceEnv
	}
	return cfg, nil
}

// Source returns where the named field's current value came from.
// Unrecognized field names report SourceDefault.
func (c *Config) Source(field string) Source {
	if s, ok := c.sources[field]; ok {
		return s
	}
	return SourceDefault
}
