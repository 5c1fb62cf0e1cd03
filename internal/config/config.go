// Package config loads and saves sdash's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/sdash/internal/source"
)

// DataFileEnv overrides general.data_file when set.
const DataFileEnv = "SDASH_DATA"

// Config holds all sdash configuration.
type Config struct {
	General    GeneralConfig      `toml:"general"`
	Income     source.IncomeTiers `toml:"income"`
	Server     ServerConfig       `toml:"server"`
	Appearance AppearanceConfig   `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataFile       string `toml:"data_file,omitempty"`
	TopN           int    `toml:"top_n"`
	DefaultCountry string `toml:"default_country,omitempty"`
}

// ServerConfig holds the JSON API listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DataFile: "master.csv",
			TopN:     10,
		},
		Income: source.DefaultIncomeTiers(),
		Server: ServerConfig{
			Addr: "127.0.0.1:8050",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "sdash")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file at path, layered over the defaults.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is user-owned
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values the rest of the program relies on.
func (c Config) Validate() error {
	if c.General.TopN < 0 {
		return fmt.Errorf("general.top_n must not be negative, got %d", c.General.TopN)
	}
	t := c.Income
	if !(t.LowerMiddle <= t.UpperMiddle && t.UpperMiddle <= t.High) {
		return fmt.Errorf("income thresholds must ascend: lower_middle=%g upper_middle=%g high=%g",
			t.LowerMiddle, t.UpperMiddle, t.High)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path, creating parent directories.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // config path is user-owned
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// DataFile returns the input path from env var or config, in that order.
func DataFile(cfg Config) string {
	if p := os.Getenv(DataFileEnv); p != "" {
		return p
	}
	return cfg.General.DataFile
}

// ParseOptions returns the loader options the config describes.
func ParseOptions(cfg Config) source.Options {
	return source.Options{Income: cfg.Income}
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
