package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// DefaultTTL is how long rendered charts stay cached.
const DefaultTTL = 24 * time.Hour

// Config selects and parameterizes a cache backend.
type Config struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	TTL           time.Duration `toml:"ttl"`

	// KeyPrefix scopes every key, so several directories can share one
	// Redis instance.
	KeyPrefix string `toml:"key_prefix"`
}

// Keyer returns the keyer for cfg: the default keyer, scoped by KeyPrefix
// when it is set.
func (cfg Config) Keyer() Keyer {
	if cfg.KeyPrefix == "" {
		return NewDefaultKeyer()
	}
	return NewScopedKeyer(NewDefaultKeyer(), cfg.KeyPrefix)
}

// Open returns the cache selected by cfg.Backend. An empty backend means
// file.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendNone:
		return NewNullCache(), nil
	case "", BackendFile:
		c, err := NewFileCache(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("open file cache: %w", err)
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, RedisOptions{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err != nil {
			return nil, fmt.Errorf("open redis cache at %s: %w", cfg.RedisAddr, err)
		}
		return c, nil
	default:
		return nil, terrors.New(terrors.ErrCodeInvalidConfig, "unknown cache backend %q (want none, file or redis)", cfg.Backend)
	}
}
