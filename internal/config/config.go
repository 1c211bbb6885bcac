package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/fswalk/pkg/fts"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig indicates a value outside the accepted set.
var ErrInvalidConfig = errors.New("invalid configuration")

type WalkConfig struct {
	Logical      bool     `yaml:"logical"`
	ComFollow    bool     `yaml:"comfollow"`
	NoChdir      bool     `yaml:"nochdir"`
	NoStat       bool     `yaml:"nostat"`
	XDev         bool     `yaml:"xdev"`
	SeeDot       bool     `yaml:"seedot"`
	Sort         string   `yaml:"sort"`
	Exclude      []string `yaml:"exclude,omitempty"`
	GitIgnore    bool     `yaml:"gitignore"`
	MaxDepth     int      `yaml:"max_depth"`
	ReadDirBatch int      `yaml:"readdir_batch,omitempty"`
	Retries      int      `yaml:"retries,omitempty"`
}

type OutputConfig struct {
	Format    string `yaml:"format"`
	PostOrder bool   `yaml:"postorder"`
}

type Config struct {
	Walk   WalkConfig   `yaml:"walk"`
	Output OutputConfig `yaml:"output"`
	Hash   string       `yaml:"hash"`
}

const ConfigFileName = "fswalk.yaml"

// Accepted values for the enumerated settings.
var (
	SortOrders    = []string{"none", "name", "name-desc", "size", "mtime"}
	OutputFormats = []string{"text", "table", "json", "yaml"}
	HashNames     = []string{"xxhash", "sha256"}
)

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Walk:   WalkConfig{Sort: "name", MaxDepth: -1},
		Output: OutputConfig{Format: "text"},
		Hash:   "xxhash",
	}
}

// Load reads ConfigFileName from dir on top of the defaults.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a config file on top of the defaults. A leading "~" is
// expanded to the home directory.
func LoadFile(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs into the process environment without
// overriding variables that are already set. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(expanded)
}

// ApplyEnv overrides settings from FSWALK_* variables found by lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.ToLower(strings.TrimSpace(v))
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, v)
		}
		*dst = b
		return nil
	}

	str("FSWALK_FORMAT", &c.Output.Format)
	str("FSWALK_HASH", &c.Hash)
	str("FSWALK_SORT", &c.Walk.Sort)
	if err := boolean("FSWALK_NOCHDIR", &c.Walk.NoChdir); err != nil {
		return err
	}
	if err := boolean("FSWALK_LOGICAL", &c.Walk.Logical); err != nil {
		return err
	}
	if err := boolean("FSWALK_GITIGNORE", &c.Walk.GitIgnore); err != nil {
		return err
	}
	if v, ok := lookup("FSWALK_MAX_DEPTH"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: FSWALK_MAX_DEPTH=%q", ErrInvalidConfig, v)
		}
		c.Walk.MaxDepth = n
	}
	return c.Validate()
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if !slices.Contains(SortOrders, c.Walk.Sort) {
		return fmt.Errorf("%w: sort %q (want one of %s)", ErrInvalidConfig, c.Walk.Sort, strings.Join(SortOrders, ", "))
	}
	if !slices.Contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("%w: format %q (want one of %s)", ErrInvalidConfig, c.Output.Format, strings.Join(OutputFormats, ", "))
	}
	if !slices.Contains(HashNames, c.Hash) {
		return fmt.Errorf("%w: hash %q (want one of %s)", ErrInvalidConfig, c.Hash, strings.Join(HashNames, ", "))
	}
	if c.Walk.Retries < 0 {
		return fmt.Errorf("%w: retries %d is negative", ErrInvalidConfig, c.Walk.Retries)
	}
	return nil
}

// Flags translates the walk settings into stream flags.
func (w WalkConfig) Flags() fts.Flag {
	flags := fts.Physical
	if w.Logical {
		flags = fts.Logical
	}
	set := func(on bool, f fts.Flag) {
		if on {
			flags |= f
		}
	}
	set(w.ComFollow, fts.ComFollow)
	set(w.NoChdir, fts.NoChdir)
	set(w.NoStat, fts.NoStat)
	set(w.XDev, fts.XDev)
	set(w.SeeDot, fts.SeeDot)
	return flags
}
