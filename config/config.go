// Package config holds the settings that select and shape a simulation run.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sarchlab/lcsim/timing/cache"
)

// Mode selects the processor model.
type Mode string

// Supported processor models.
const (
	// ModeSingle runs the single-cycle emulator.
	ModeSingle Mode = "single"
	// ModeMulticycle runs the micro-sequenced machine.
	ModeMulticycle Mode = "multicycle"
	// ModePipeline runs the five-stage pipeline.
	ModePipeline Mode = "pipeline"
	// ModeCache runs the single-cycle emulator with data accesses going
	// through the cache.
	ModeCache Mode = "cache"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeSingle, ModeMulticycle, ModePipeline, ModeCache}

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid simulation config")

// CacheConfig describes the data cache. Sizes are in words.
type CacheConfig struct {
	// Enabled puts the cache in front of the pipeline's data memory. The
	// cache mode always uses it.
	Enabled bool `json:"enabled"`

	BlockSize    int `json:"block_size"`
	NumSets      int `json:"num_sets"`
	BlocksPerSet int `json:"blocks_per_set"`
}

// Geometry converts to the cache package's configuration.
func (c CacheConfig) Geometry() cache.Config {
	return cache.Config{
		BlockSize:    c.BlockSize,
		NumSets:      c.NumSets,
		BlocksPerSet: c.BlocksPerSet,
	}
}

// SimConfig holds the settings of one simulation run.
type SimConfig struct {
	// Mode selects the processor model. Default: pipeline.
	Mode Mode `json:"mode"`

	// Trace prints the machine state before every cycle.
	Trace bool `json:"trace"`

	// MaxCycles bounds the run. Zero means unbounded.
	MaxCycles uint64 `json:"max_cycles"`

	Cache CacheConfig `json:"cache"`
}

// DefaultSimConfig returns the configuration used when no file is given.
func DefaultSimConfig() *SimConfig {
	geometry := cache.DefaultConfig()

	return &SimConfig{
		Mode: ModePipeline,
		Cache: CacheConfig{
			BlockSize:    geometry.BlockSize,
			NumSets:      geometry.NumSets,
			BlocksPerSet: geometry.BlocksPerSet,
		},
	}
}

// LoadConfig loads a SimConfig from a JSON file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultSimConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the SimConfig to a JSON file.
func (c *SimConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UsesCache reports whether the run puts a cache in front of data memory.
func (c *SimConfig) UsesCache() bool {
	return c.Mode == ModeCache || (c.Cache.Enabled && c.Mode == ModePipeline)
}

// Validate checks the mode and, when a cache is used, its geometry.
func (c *SimConfig) Validate() error {
	known := false
	for _, m := range Modes {
		if c.Mode == m {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown mode %q: %w", c.Mode, ErrInvalidConfig)
	}

	if c.UsesCache() {
		if err := c.Cache.Geometry().Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}

	return nil
}

// Clone returns a copy of the SimConfig.
func (c *SimConfig) Clone() *SimConfig {
	clone := *c
	return &clone
}
