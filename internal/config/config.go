// Package config loads the ifjc configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// EnvVar names the environment variable holding the configuration path.
const EnvVar = "IFJC_CONFIG"

// DefaultPath is the configuration file looked up in the working
// directory.
const DefaultPath = "ifjc.toml"

// Config holds the complete compiler configuration.
type Config struct {
	Compile CompileConfig `toml:"compile"`
	Output  OutputConfig  `toml:"output"`
	Cache   CacheConfig   `toml:"cache"`

	// Path is the file the configuration was read from, empty for the
	// defaults.
	Path string `toml:"-"`
}

// CompileConfig holds front-end settings.
type CompileConfig struct {
	// StrictMutability reports var declarations never assigned again.
	StrictMutability *bool `toml:"strict_mutability"`

	// MinVersion is the lowest compiler version the project accepts.
	MinVersion string `toml:"min_version"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Emit      string `toml:"emit"`       // tokens, ast or code
	ASTFormat string `toml:"ast_format"` // text, json or yaml
	Comments  bool   `toml:"comments"`   // comment lines in generated code
	Color     string `toml:"color"`      // auto, always or never
}

// CacheConfig holds output cache settings.
type CacheConfig struct {
	Enabled *bool    `toml:"enabled"`
	Dir     string   `toml:"dir"`
	MaxAge  Duration `toml:"max_age"`
}

// Duration is a time.Duration read from a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats a duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration from path.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	cfg.Path = path

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Find loads the configuration named by explicit, by $IFJC_CONFIG or by
// ./ifjc.toml, in that order. Without any of them it returns the defaults.
func Find(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path := os.Getenv(EnvVar); path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}
	return Default(), nil
}

func (c *Config) applyDefaults() {
	if c.Compile.StrictMutability == nil {
		c.Compile.StrictMutability = boolPtr(true)
	}

	if c.Output.Emit == "" {
		c.Output.Emit = "code"
	}
	if c.Output.ASTFormat == "" {
		c.Output.ASTFormat = "text"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}

	if c.Cache.Enabled == nil {
		c.Cache.Enabled = boolPtr(true)
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	if c.Cache.MaxAge.Duration == 0 {
		c.Cache.MaxAge.Duration = 7 * 24 * time.Hour
	}
}

func (c *Config) validate() error {
	if err := oneOf("output.emit", c.Output.Emit, "tokens", "ast", "code"); err != nil {
		return err
	}
	if err := oneOf("output.ast_format", c.Output.ASTFormat, "text", "json", "yaml"); err != nil {
		return err
	}
	if err := oneOf("output.color", c.Output.Color, "auto", "always", "never"); err != nil {
		return err
	}
	if c.Compile.MinVersion != "" {
		if _, err := semver.NewVersion(c.Compile.MinVersion); err != nil {
			return fmt.Errorf("compile.min_version: %w", err)
		}
	}
	if c.Cache.MaxAge.Duration < 0 {
		return fmt.Errorf("cache.max_age must not be negative")
	}
	return nil
}

// CheckVersion fails if the compiler version is older than
// compile.min_version.
func (c *Config) CheckVersion(version string) error {
	if c.Compile.MinVersion == "" {
		return nil
	}
	want, err := semver.NewVersion(c.Compile.MinVersion)
	if err != nil {
		return fmt.Errorf("compile.min_version: %w", err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("compiler version %q: %w", version, err)
	}
	if v.LessThan(want) {
		return fmt.Errorf("ifjc %s is older than min_version %s required by %s", v, want, c.source())
	}
	return nil
}

// Strict reports whether strict mutability checking is on.
func (c *Config) Strict() bool {
	return c.Compile.StrictMutability == nil || *c.Compile.StrictMutability
}

// CacheEnabled reports whether the output cache is on.
func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// Fingerprint returns a canonical string of the settings that change the
// generated program. It is part of the output cache key.
func (c *Config) Fingerprint() string {
	return fmt.Sprintf("strict=%t comments=%t", c.Strict(), c.Output.Comments)
}

func (c *Config) source() string {
	if c.Path == "" {
		return "the default configuration"
	}
	return c.Path
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "ifjc")
	}
	return ".ifjc-cache"
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s: invalid value %q (want one of %v)", key, value, allowed)
}

func boolPtr(b bool) *bool { return &b }
