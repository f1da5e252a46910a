// Package config loads the trombinoscope configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/trombinoscope/config.toml by
// default. Every key is optional; a missing file yields [Default]:
//
//	[layout]
//	node_width = 200
//	node_height = 120
//	level_spacing = 100
//	sibling_spacing = 40
//	margin = 100
//
//	[storage]
//	backend = "sqlite"          # memory, file, sqlite, postgres, mongo
//	path = "/var/lib/trombinoscope/employees.db"
//
//	[cache]
//	backend = "redis"           # none, file, redis
//	redis_addr = "localhost:6379"
//	ttl = "12h"
//
//	[server]
//	addr = ":8080"
//
//	[source]
//	url = "https://example.com/trombinoscope_data_french.json"
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/trombinoscope/pkg/buildinfo"
	"github.com/matzehuels/trombinoscope/pkg/cache"
	"github.com/matzehuels/trombinoscope/pkg/directory"
	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
	"github.com/matzehuels/trombinoscope/pkg/layout"
	"github.com/matzehuels/trombinoscope/pkg/render/styles"
)

// FileName is the name of the configuration file inside the config dir.
const FileName = "config.toml"

// DefaultAddr is the default listen address of the HTTP server.
const DefaultAddr = ":8080"

// Config is the complete configuration.
type Config struct {
	Layout  layout.Config           `toml:"layout"`
	Storage directory.StorageConfig `toml:"storage"`
	Cache   cache.Config            `toml:"cache"`
	Server  ServerConfig            `toml:"server"`
	Source  SourceConfig            `toml:"source"`
	Chart   ChartConfig             `toml:"chart"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// ServerConfig configures `trombinoscope serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// SourceConfig points at the initial employee list used by `seed`.
type SourceConfig struct {
	URL string `toml:"url"` // file path or http(s) URL
}

// ChartConfig holds chart rendering defaults.
type ChartConfig struct {
	Style string `toml:"style"`
}

// Default returns the built-in configuration: default layout, employees
// persisted to a JSON file, file cache.
func Default() Config {
	return Config{
		Layout:  layout.DefaultConfig(),
		Storage: directory.StorageConfig{Backend: directory.BackendFile},
		Cache:   cache.Config{Backend: cache.BackendFile, TTL: cache.DefaultTTL},
		Server:  ServerConfig{Addr: DefaultAddr},
		Chart:   ChartConfig{Style: styles.StyleSimple},
	}
}

// DefaultPath returns the configuration file location.
func DefaultPath() (string, error) {
	dir, err := buildinfo.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration at path, or at [DefaultPath] when path is
// empty. Keys absent from the file keep their default value. A missing file
// at the default location is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, terrors.Wrap(terrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := cfg.parse(string(data)); err != nil {
		return Default(), terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	cfg.Path = path
	return cfg, cfg.Validate()
}

// Parse decodes a TOML document on top of the defaults.
func Parse(doc string) (Config, error) {
	cfg := Default()
	if err := cfg.parse(doc); err != nil {
		return Default(), terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) parse(doc string) error {
	md, err := toml.Decode(doc, c)
	if err != nil {
		return err
	}
	for _, k := range md.Undecoded() {
		c.Unknown = append(c.Unknown, k.String())
	}
	return nil
}

// Validate checks the layout dimensions and backend names.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if b := strings.ToLower(c.Storage.Backend); b != "" && !slices.Contains(directory.Backends, b) {
		return terrors.New(terrors.ErrCodeInvalidConfig, "unknown storage backend %q (want one of %s)", c.Storage.Backend, strings.Join(directory.Backends, ", "))
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return terrors.New(terrors.ErrCodeInvalidConfig, "unknown cache backend %q (want none, file or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return terrors.New(terrors.ErrCodeInvalidConfig, "cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Chart.Style != "" && !styles.IsValid(c.Chart.Style) {
		return terrors.New(terrors.ErrCodeInvalidStyle, "unknown chart style %q (want one of %s)", c.Chart.Style, strings.Join(styles.Names, ", "))
	}
	return nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
