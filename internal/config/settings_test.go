package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/meu-bolso/internal/common"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	s, err := Load(newViper())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", s.StorageBackend)
	assert.Equal(t, filepath.Join(home, ".local", "share", "bolso", "bolso.db"), s.StoragePath)
	assert.Equal(t, time.Duration(0), s.AuthLatency)
	assert.Equal(t, time.Sunday, s.WeekStart)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "console", s.LogFormat)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOLSO_TEST_DIR", "/tmp/bolso-test")

	v := newViper()
	v.Set(KeyStorageBackend, "FILE")
	v.Set(KeyStoragePath, "$BOLSO_TEST_DIR/data.json")
	v.Set(KeyAuthLatency, "250ms")
	v.Set(KeyWeekStart, "segunda")
	v.Set(KeyLogLevel, "debug")

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "file", s.StorageBackend)
	assert.Equal(t, "/tmp/bolso-test/data.json", s.StoragePath)
	assert.Equal(t, 250*time.Millisecond, s.AuthLatency)
	assert.Equal(t, time.Monday, s.WeekStart)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoad_FileBackendDefaultPath(t *testing.T) {
	v := newViper()
	v.Set(KeyStorageBackend, "file")

	s, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "bolso.json", filepath.Base(s.StoragePath))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{name: "backend", key: KeyStorageBackend, value: "postgres"},
		{name: "memory backend", key: KeyStorageBackend, value: "memory"},
		{name: "log format", key: KeyLogFormat, value: "xml"},
		{name: "week start", key: KeyWeekStart, value: "someday"},
		{name: "log level", key: KeyLogLevel, value: "loud"},
		{name: "negative latency", key: KeyAuthLatency, value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BOLSO_X", "xyz")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/a/b", want: filepath.Join(home, "a", "b")},
		{in: "/abs/$BOLSO_X", want: "/abs/xyz"},
		{in: "rel/path", want: "rel/path"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), tt.in)
	}
}
