package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/networth/internal/common"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	s, err := Load(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, s.Store.Driver)
	assert.Equal(t, "/home/alice/.local/share/networth/networth.db", s.Store.Path)
	assert.Equal(t, "Joint", s.JointOwner)
	assert.Equal(t, 100, s.Retention)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
	assert.Equal(t, "networth", s.Store.RedisPrefix)
}

func TestLoadOverrides(t *testing.T) {
	s, err := Load(newViper(map[string]any{
		"store.driver":         " Redis ",
		"store.redis.addr":     "cache:6380",
		"store.redis.password": "secret",
		"store.redis.db":       2,
		"owners.joint":         "Household",
		"snapshots.retention":  12,
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, s.Store.Driver)
	assert.Equal(t, "cache:6380", s.Store.RedisAddr)
	assert.Equal(t, "secret", s.Store.RedisPassword)
	assert.Equal(t, "networth", s.Store.RedisPrefix)
	assert.Equal(t, 2, s.Store.RedisDB)
	assert.Equal(t, "Household", s.JointOwner)
	assert.Equal(t, 12, s.Retention)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   error
	}{
		{"memory", map[string]any{"store.driver": "memory"}, nil},
		{"unknown driver", map[string]any{"store.driver": "postgres"}, common.ErrInvalidConfig},
		{"missing sqlite path", map[string]any{"store.path": ""}, common.ErrMissingConfig},
		{"missing redis addr", map[string]any{"store.driver": "redis", "store.redis.addr": ""}, common.ErrMissingConfig},
		{"zero retention", map[string]any{"snapshots.retention": 0}, common.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(newViper(tt.overrides))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
