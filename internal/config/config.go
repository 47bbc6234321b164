// Package config loads runtime settings for the kernel core from TOML.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/born-ml/strided/internal/grid"
	"github.com/born-ml/strided/internal/logx"
	"github.com/born-ml/strided/internal/parallel"
)

// Device names accepted in the config file.
const (
	DeviceCPU    = "cpu"
	DeviceWebGPU = "webgpu"
)

// ErrInvalid is returned for settings that cannot be used.
var ErrInvalid = errors.New("config: invalid value")

// Config is the top-level settings file.
type Config struct {
	Device string `toml:"device"`
	Engine Engine `toml:"engine"`
	Stream Stream `toml:"stream"`
	Launch Launch `toml:"launch"`
	Log    Log    `toml:"log"`
}

// Engine controls the host launch engine.
type Engine struct {
	Parallel     bool `toml:"parallel"`
	Workers      int  `toml:"workers"`
	MinChunkSize int  `toml:"min_chunk_size"`
}

// Stream controls launch queues.
type Stream struct {
	QueueDepth int `toml:"queue_depth"`
}

// Launch holds launch geometry defaults.
type Launch struct {
	Block [3]uint `toml:"block"`
}

// Log selects the verbosity.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	p := parallel.DefaultConfig()
	return Config{
		Device: DeviceCPU,
		Engine: Engine{Parallel: p.Enabled, Workers: p.NumWorkers, MinChunkSize: p.MinChunkSize},
		Stream: Stream{QueueDepth: 64},
		Launch: Launch{Block: [3]uint{16, 16, 1}},
		Log:    Log{Level: "warn"},
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	switch c.Device {
	case DeviceCPU, DeviceWebGPU:
	default:
		return fmt.Errorf("%w: device %q", ErrInvalid, c.Device)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("%w: engine.workers %d", ErrInvalid, c.Engine.Workers)
	}
	if c.Engine.MinChunkSize < 0 {
		return fmt.Errorf("%w: engine.min_chunk_size %d", ErrInvalid, c.Engine.MinChunkSize)
	}
	if _, err := logx.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Stream.QueueDepth < 0 {
		return fmt.Errorf("%w: stream.queue_depth %d", ErrInvalid, c.Stream.QueueDepth)
	}
	return nil
}

// Parallel converts the engine section to a parallel.Config.
func (c Config) Parallel() parallel.Config {
	return parallel.Config{
		Enabled:      c.Engine.Parallel,
		NumWorkers:   c.Engine.Workers,
		MinChunkSize: c.Engine.MinChunkSize,
	}
}

// Block returns the default launch block.
func (c Config) Block() grid.Dim3 {
	b := c.Launch.Block
	return grid.Normalize(grid.Dim3{X: b[0], Y: b[1], Z: b[2]})
}
