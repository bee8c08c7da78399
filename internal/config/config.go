package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/networth/internal/common"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// DefaultDatabasePath is used when store.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/networth/networth.db"

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Driver        string
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisPrefix   string
	RedisDB       int
}

// Settings is the full application configuration.
type Settings struct {
	Store      StoreConfig
	JointOwner string
	LogLevel   string
	LogFormat  string
	Retention  int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", DefaultDatabasePath)
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.prefix", "networth")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("snapshots.retention", 100)
	v.SetDefault("owners.joint", "Joint")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads settings from v and validates them.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Store: StoreConfig{
			Driver:        strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			Path:          ExpandPath(v.GetString("store.path")),
			RedisAddr:     v.GetString("store.redis.addr"),
			RedisPassword: v.GetString("store.redis.password"),
			RedisPrefix:   v.GetString("store.redis.prefix"),
			RedisDB:       v.GetInt("store.redis.db"),
		},
		JointOwner: v.GetString("owners.joint"),
		Retention:  v.GetInt("snapshots.retention"),
		LogLevel:   v.GetString("logging.level"),
		LogFormat:  v.GetString("logging.format"),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks the settings for obvious mistakes.
func (s Settings) Validate() error {
	switch s.Store.Driver {
	case DriverSQLite:
		if s.Store.Path == "" {
			return fmt.Errorf("%w: store.path", common.ErrMissingConfig)
		}
	case DriverMemory:
	case DriverRedis:
		if s.Store.RedisAddr == "" {
			return fmt.Errorf("%w: store.redis.addr", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", common.ErrInvalidConfig, s.Store.Driver)
	}
	if s.Retention <= 0 {
		return fmt.Errorf("%w: snapshots.retention must be positive", common.ErrInvalidConfig)
	}
	return nil
}
