package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/logger"
	"github.com/mbraunert/asynclog/queue"
	"github.com/mbraunert/asynclog/sink"
)

// Format identifies a supported config file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Queue mirrors queue.Config with serializable field types.
type Queue struct {
	Capacity       int      `json:"capacity" yaml:"capacity" toml:"capacity"`
	MaxBatchSize   int      `json:"max_batch_size" yaml:"max_batch_size" toml:"max_batch_size"`
	PoolSize       int      `json:"pool_size" yaml:"pool_size" toml:"pool_size"`
	DropOnOverflow bool     `json:"drop_on_overflow" yaml:"drop_on_overflow" toml:"drop_on_overflow"`
	FlushInterval  Duration `json:"flush_interval" yaml:"flush_interval" toml:"flush_interval"`
	DrainTimeout   Duration `json:"drain_timeout" yaml:"drain_timeout" toml:"drain_timeout"`
}

// Config describes a complete logger setup.
type Config struct {
	Level       string `json:"level" yaml:"level" toml:"level"`
	File        string `json:"file" yaml:"file" toml:"file"` // empty: console
	Caller      bool   `json:"caller" yaml:"caller" toml:"caller"`
	Synchronous bool   `json:"synchronous" yaml:"synchronous" toml:"synchronous"`
	Queue       Queue  `json:"queue" yaml:"queue" toml:"queue"`
}

// Default returns the stock configuration: an async console logger at
// info level with a 10000-entry queue flushed every second.
func Default() Config {
	return Config{
		Level: "info",
		Queue: Queue{
			Capacity:      10000,
			MaxBatchSize:  100,
			PoolSize:      1000,
			FlushInterval: Duration(time.Second),
		},
	}
}

// DetectFormat infers the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config extension %q", filepath.Ext(path))
	}
}

// Load reads a config file on top of the defaults and validates it.
func Load(path string) (Config, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes raw config bytes on top of the defaults and validates
// the result.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		err = fmt.Errorf("unsupported config format %q", format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the config for values the logger cannot accept.
func (c Config) Validate() error {
	if _, err := core.ParseLevel(c.Level); err != nil {
		return err
	}
	if c.Queue.Capacity < 0 {
		return fmt.Errorf("queue capacity must not be negative, got %d", c.Queue.Capacity)
	}
	if c.Queue.MaxBatchSize < 0 {
		return fmt.Errorf("max batch size must not be negative, got %d", c.Queue.MaxBatchSize)
	}
	if c.Queue.PoolSize < 0 {
		return fmt.Errorf("pool size must not be negative, got %d", c.Queue.PoolSize)
	}
	return nil
}

// QueueConfig converts the serializable queue section.
func (c Config) QueueConfig() queue.Config {
	return queue.Config{
		Capacity:       c.Queue.Capacity,
		MaxBatchSize:   c.Queue.MaxBatchSize,
		PoolSize:       c.Queue.PoolSize,
		DropOnOverflow: c.Queue.DropOnOverflow,
		FlushInterval:  c.Queue.FlushInterval.Std(),
		DrainTimeout:   c.Queue.DrainTimeout.Std(),
	}
}

// Build constructs a ready-to-use Logger from the config.
func (c Config) Build() (*logger.Logger, error) {
	level, err := core.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	var s sink.Sink
	if c.File != "" {
		s, err = sink.NewFileSink(sink.FileConfig{Filename: c.File})
		if err != nil {
			return nil, err
		}
	} else {
		s = sink.NewConsoleSink(sink.ConsoleConfig{})
	}

	b := logger.NewBuilder().
		WithLevel(level).
		WithSink(s).
		WithCaller(c.Caller).
		WithQueue(c.QueueConfig())
	if c.Synchronous {
		b = b.Synchronous()
	}
	return b.Build(), nil
}
