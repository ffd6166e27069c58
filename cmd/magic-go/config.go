package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/filemagic/magic-go/pkg/magic"
)

const maxConfigFileSize = 1 << 20

// Config is the YAML configuration of magic-go. Command line flags override
// or extend it.
type Config struct {
	// Flags are libmagic flag names, as accepted by magic.ParseFlags.
	Flags []string `yaml:"flags"`
	// MagicFiles lists database files. Empty means the libmagic default.
	MagicFiles []string `yaml:"magic_files"`
	// Brief omits the file name from each output line.
	Brief bool `yaml:"brief"`
	// ReadLimit caps how much of standard input is analysed.
	ReadLimit int64 `yaml:"read_limit"`
	// Debug enables the development logger on stderr.
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the configuration used without --config.
func DefaultConfig() *Config {
	return &Config{
		Flags:     []string{"error"},
		ReadLimit: magic.DefaultReadLimit,
	}
}

// LoadConfig reads a YAML configuration file. Keys missing from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the flag names and database paths are usable.
func (c *Config) Validate() error {
	if c.ReadLimit < 0 {
		return errors.New("read_limit must not be negative")
	}
	if _, err := magic.ParseFlags(c.Flags...); err != nil {
		return err
	}
	if _, err := magic.NewDatabase(c.MagicFiles...); err != nil {
		return err
	}
	return nil
}

// MagicFlags returns the parsed Flags.
func (c *Config) MagicFlags() (magic.Flags, error) {
	return magic.ParseFlags(c.Flags...)
}

// Database returns the configured database.
func (c *Config) Database() (magic.Database, error) {
	return magic.NewDatabase(c.MagicFiles...)
}
