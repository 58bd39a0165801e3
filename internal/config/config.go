package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Dir is the per-project directory holding config and the journal.
const Dir = ".splice"

type Guard struct {
	MinSize            *int64   `yaml:"min-size"`
	ReductionThreshold *float64 `yaml:"reduction-threshold"`
}

type Preview struct {
	ContextLines *int `yaml:"context-lines"`
}

type Write struct {
	Fsync *bool `yaml:"fsync"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Journal struct {
	Path *string `yaml:"path"`
}

type Metrics struct {
	Textfile string `yaml:"textfile"`
}

type Config struct {
	Guard   Guard   `yaml:"guard"`
	Preview Preview `yaml:"preview"`
	Write   Write   `yaml:"write"`
	Log     Log     `yaml:"log"`
	Journal Journal `yaml:"journal"`
	Metrics Metrics `yaml:"metrics"`

	// Root is the project directory (the parent of .splice, or the config
	// file's own directory). Relative paths in the config resolve against
	// it. It is "" for the built-in defaults.
	Root string `yaml:"-"`
}

// Default returns a validated config with every default applied.
func Default() *Config {
	cfg := &Config{}
	_ = Validate(cfg)
	return cfg
}

// Load reads a YAML config file and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	cfg.Root = filepath.Dir(path)
	if filepath.Base(cfg.Root) == Dir {
		cfg.Root = filepath.Dir(cfg.Root)
	}
	if abs, err := filepath.Abs(cfg.Root); err == nil {
		cfg.Root = abs
	}
	return &cfg, nil
}

// Discover loads .splice/config.yaml from start or the nearest parent that
// has one. With no config anywhere it returns the defaults.
func Discover(start string) (*Config, error) {
	root, err := FindProjectRoot(start)
	if errors.Is(err, ErrNoProject) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(root, Dir, "config.yaml"))
}

// ErrNoProject means no .splice/config.yaml exists at or above the start dir.
var ErrNoProject = errors.New("no .splice/config.yaml found")

// FindProjectRoot walks up from start looking for .splice/config.yaml.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, Dir, "config.yaml")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// MinSize returns the size at or below which overwrites are never guarded.
func (c *Config) MinSize() int64 {
	if c.Guard.MinSize == nil {
		return DefaultMinSize
	}
	return *c.Guard.MinSize
}

// ReductionThreshold returns the smallest new/old size ratio an overwrite
// may have without an override. Zero disables the ratio check.
func (c *Config) ReductionThreshold() float64 {
	if c.Guard.ReductionThreshold == nil {
		return DefaultReductionThreshold
	}
	return *c.Guard.ReductionThreshold
}

// ContextLines returns the preview context window.
func (c *Config) ContextLines() int {
	if c.Preview.ContextLines == nil {
		return DefaultContextLines
	}
	return *c.Preview.ContextLines
}

// Fsync reports whether writes are synced to disk.
func (c *Config) Fsync() bool {
	return c.Write.Fsync == nil || *c.Write.Fsync
}

// JournalPath returns the journal database path, or "" when disabled.
// Without a project root a relative path disables the journal rather than
// scattering databases into whatever directory the command ran from.
func (c *Config) JournalPath() string {
	p := DefaultJournalPath
	if c.Journal.Path != nil {
		p = *c.Journal.Path
	}
	if p == "" || p == ":memory:" || filepath.IsAbs(p) {
		return p
	}
	if c.Root == "" {
		return ""
	}
	return filepath.Join(c.Root, p)
}

// MetricsPath returns the textfile path, or "" when disabled.
func (c *Config) MetricsPath() string {
	p := c.Metrics.Textfile
	if p == "" || filepath.IsAbs(p) || c.Root == "" {
		return p
	}
	return filepath.Join(c.Root, p)
}
