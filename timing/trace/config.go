package trace

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds trace recording parameters.
type Config struct {
	// SampleInterval records one snapshot every N cycles.
	// Default: 1 (every cycle).
	SampleInterval uint64 `json:"sample_interval"`

	// MaxEntries caps the number of recorded snapshots. 0 means no cap.
	// Default: 0.
	MaxEntries int `json:"max_entries"`
}

// DefaultConfig returns a Config that records every cycle without a cap.
func DefaultConfig() *Config {
	return &Config{
		SampleInterval: 1,
		MaxEntries:     0,
	}
}

// LoadConfig loads a Config from a JSON file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse trace config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize trace config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trace config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration values are usable.
func (c *Config) Validate() error {
	if c.SampleInterval == 0 {
		return fmt.Errorf("sample_interval must be > 0")
	}
	if c.MaxEntries < 0 {
		return fmt.Errorf("max_entries must be >= 0")
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	return &Config{
		SampleInterval: c.SampleInterval,
		MaxEntries:     c.MaxEntries,
	}
}
