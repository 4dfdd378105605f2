package bridge

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the construction parameters of a bridge instance.
type Config struct {
	// AddrWidth is the address bus width in bits, between 1 and 64.
	// Default: 32.
	AddrWidth int `json:"addr_width"`

	// DataWidth is the data bus width in bits: 8, 16, 32, or 64.
	// Default: 32.
	DataWidth int `json:"data_width"`

	// QueueDepth is the capacity of each clock-crossing queue. It must be
	// a power of two no smaller than 2. Default: 4.
	QueueDepth int `json:"queue_depth"`

	// NumTargets is the number of peripheral select windows the address
	// space splits into. Default: 1.
	NumTargets int `json:"num_targets"`

	// FastClockMHz is the control-bus clock in MHz. Default: 400.
	FastClockMHz float64 `json:"fast_clock_mhz"`

	// SlowClockMHz is the peripheral-bus clock in MHz. Default: 100.
	SlowClockMHz float64 `json:"slow_clock_mhz"`
}

// DefaultConfig returns a Config with typical control-plane values.
func DefaultConfig() *Config {
	return &Config{
		AddrWidth:    32,
		DataWidth:    32,
		QueueDepth:   4,
		NumTargets:   1,
		FastClockMHz: 400,
		SlowClockMHz: 100,
	}
}

// LoadConfig loads a Config from a JSON file. Absent fields keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bridge config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse bridge config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize bridge config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write bridge config file: %w", err)
	}

	return nil
}

// Validate checks the construction parameters.
func (c *Config) Validate() error {
	if c.AddrWidth < 1 || c.AddrWidth > 64 {
		return fmt.Errorf("addr_width must be between 1 and 64, got %d", c.AddrWidth)
	}
	switch c.DataWidth {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("data_width must be 8, 16, 32, or 64, got %d", c.DataWidth)
	}
	if c.QueueDepth < 2 || c.QueueDepth&(c.QueueDepth-1) != 0 {
		return fmt.Errorf("queue_depth must be a power of two no smaller than 2, got %d",
			c.QueueDepth)
	}
	if c.NumTargets < 1 {
		return fmt.Errorf("num_targets must be >= 1, got %d", c.NumTargets)
	}
	if selBits(c.NumTargets) >= c.AddrWidth {
		return fmt.Errorf("num_targets %d leaves no offset bits in a %d-bit address space",
			c.NumTargets, c.AddrWidth)
	}
	if c.FastClockMHz <= 0 {
		return fmt.Errorf("fast_clock_mhz must be > 0, got %g", c.FastClockMHz)
	}
	if c.SlowClockMHz <= 0 {
		return fmt.Errorf("slow_clock_mhz must be > 0, got %g", c.SlowClockMHz)
	}
	return nil
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// selBits returns the number of address bits consumed by target selection.
func selBits(numTargets int) int {
	n := 0
	for 1<<uint(n) < numTargets {
		n++
	}
	return n
}
