package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandPath(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv("NETWORTH_DATA", "/srv/networth")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", "/home/alice"},
		{"~/data/networth.db", "/home/alice/data/networth.db"},
		{"$NETWORTH_DATA/networth.db", "/srv/networth/networth.db"},
		{" /tmp/networth.db ", "/tmp/networth.db"},
		{":memory:", ":memory:"},
		{"file:test.db?mode=memory", "file:test.db?mode=memory"},
		{"relative/~/path", "relative/~/path"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("HOME", "/home/alice")

	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Equal(t, []string{filepath.Join("/home/alice", ".config", "networth"), "."}, SearchPaths())

	t.Setenv("XDG_CONFIG_HOME", "/etc/xdg")
	assert.Equal(t, []string{"/etc/xdg/networth", "/home/alice/.config/networth", "."}, SearchPaths())

	t.Setenv("XDG_CONFIG_HOME", "/home/alice/.config")
	assert.Equal(t, []string{"/home/alice/.config/networth", "."}, SearchPaths())
}
