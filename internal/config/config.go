// Package config provides configuration management for sboxforge.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/sboxforge/internal/fileutil"
	"github.com/mrz1836/sboxforge/internal/gf256"
	"github.com/mrz1836/sboxforge/internal/sbox"
	"github.com/mrz1836/sboxforge/internal/search"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// configPerm is the mode of the saved config file.
const configPerm = 0o600

// Config represents the application configuration.
type Config struct {
	Version int           `yaml:"version"`
	Home    string        `yaml:"home"`
	Search  SearchConfig  `yaml:"search"`
	Cipher  CipherConfig  `yaml:"cipher"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig defines the default search space and worker settings.
// Ranges use the search range syntax, e.g. "1-255" or "0x63,0x05".
type SearchConfig struct {
	Workers     int    `yaml:"workers"`
	Polynomials string `yaml:"polynomials"`
	Multipliers string `yaml:"multipliers"`
	Constants   string `yaml:"constants"`
	Boomerang   bool   `yaml:"boomerang"`
	Top         int    `yaml:"top"`
	ScoreCache  int    `yaml:"score_cache"`
}

// CipherConfig selects the S-box used by encrypt and decrypt. SBoxFile,
// when set, takes precedence over the generator parameters.
type CipherConfig struct {
	Polynomial string `yaml:"polynomial"`
	Multiplier string `yaml:"multiplier"`
	Constant   string `yaml:"constant"`
	SBoxFile   string `yaml:"sbox_file"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file on top of Defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, forgeerr.WithDetails(forgeerr.ErrConfigNotFound, map[string]string{"path": path})
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, forgeerr.WithCause(forgeerr.ErrConfigInvalid, err)
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, configPerm)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate parses every range and parameter so errors surface at load time
// rather than halfway through a command.
func (c *Config) Validate() error {
	if _, err := c.SearchSpace(); err != nil {
		return err
	}
	if _, err := c.CipherParams(); err != nil {
		return err
	}
	if c.Search.Workers < 0 || c.Search.Top < 0 || c.Search.ScoreCache < 0 {
		return forgeerr.WithDetails(forgeerr.ErrConfigInvalid, map[string]string{
			"search": "workers, top and score_cache must not be negative",
		})
	}
	switch c.Output.DefaultFormat {
	case "", "auto", "text", "json":
	default:
		return forgeerr.WithDetails(forgeerr.ErrConfigInvalid, map[string]string{
			"output.default_format": c.Output.DefaultFormat,
		})
	}
	return nil
}

// SearchSpace parses the configured search ranges.
func (c *Config) SearchSpace() (search.Space, error) {
	polys, err := search.ParsePolynomials(c.Search.Polynomials)
	if err != nil {
		return search.Space{}, err
	}
	mults, err := search.ParseByteRange(c.Search.Multipliers)
	if err != nil {
		return search.Space{}, err
	}
	consts, err := search.ParseByteRange(c.Search.Constants)
	if err != nil {
		return search.Space{}, err
	}
	return search.Space{Polynomials: polys, Multipliers: mults, Constants: consts}, nil
}

// CipherParams parses the configured generator parameters.
func (c *Config) CipherParams() (sbox.Params, error) {
	poly, err := gf256.ParsePolynomial(c.Cipher.Polynomial)
	if err != nil {
		return sbox.Params{}, err
	}
	mult, err := parseConfigByte("cipher.multiplier", c.Cipher.Multiplier)
	if err != nil {
		return sbox.Params{}, err
	}
	constant, err := parseConfigByte("cipher.constant", c.Cipher.Constant)
	if err != nil {
		return sbox.Params{}, err
	}
	return sbox.Params{Polynomial: poly, Multiplier: mult, Constant: constant}, nil
}

func parseConfigByte(key, s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, forgeerr.WithDetails(forgeerr.ErrConfigInvalid, map[string]string{key: s})
	}
	return byte(v), nil
}

// GetHome returns the sboxforge home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// DefaultHome returns the default sboxforge home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sboxforge"
	}
	return filepath.Join(home, ".sboxforge")
}
