// Package config reads bolso's typed settings from viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/meu-bolso/internal/common"
	"github.com/Veraticus/meu-bolso/internal/storage"
)

// Config keys.
const (
	KeyStorageBackend = "storage.backend"
	KeyStoragePath    = "storage.path"
	KeyAuthLatency    = "auth.latency"
	KeyWeekStart      = "calendar.week_start"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
)

// Settings is the validated configuration for one run.
type Settings struct {
	StorageBackend string
	StoragePath    string
	LogLevel       string
	LogFormat      string
	AuthLatency    time.Duration
	WeekStart      time.Weekday
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageBackend, storage.BackendSQLite)
	v.SetDefault(KeyAuthLatency, time.Duration(0))
	v.SetDefault(KeyWeekStart, "sunday")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		StorageBackend: strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageBackend))),
		StoragePath:    v.GetString(KeyStoragePath),
		AuthLatency:    v.GetDuration(KeyAuthLatency),
		LogLevel:       strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat:      strings.ToLower(v.GetString(KeyLogFormat)),
	}

	switch s.StorageBackend {
	case storage.BackendSQLite, storage.BackendFile:
	case "":
		s.StorageBackend = storage.BackendSQLite
	case storage.BackendMemory:
		return Settings{}, fmt.Errorf("%w: storage backend %q keeps nothing between commands, use sqlite or file",
			common.ErrInvalidConfig, s.StorageBackend)
	default:
		return Settings{}, fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, s.StorageBackend)
	}

	if s.StoragePath == "" {
		s.StoragePath = DefaultDataPath(s.StorageBackend)
	}
	s.StoragePath = ExpandPath(s.StoragePath)

	if s.AuthLatency < 0 {
		return Settings{}, fmt.Errorf("%w: auth.latency must not be negative", common.ErrInvalidConfig)
	}

	weekStart, err := ParseWeekday(v.GetString(KeyWeekStart))
	if err != nil {
		return Settings{}, err
	}
	s.WeekStart = weekStart

	if _, err := common.ParseLevel(s.LogLevel); err != nil {
		return Settings{}, err
	}
	switch s.LogFormat {
	case "console", "json":
	case "":
		s.LogFormat = "console"
	default:
		return Settings{}, fmt.Errorf("%w: invalid log format %q", common.ErrInvalidConfig, s.LogFormat)
	}

	return s, nil
}

// ParseWeekday accepts English or pt-BR weekday names.
func ParseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday", "sun", "domingo", "":
		return time.Sunday, nil
	case "monday", "mon", "segunda":
		return time.Monday, nil
	case "tuesday", "tue", "terca", "terça":
		return time.Tuesday, nil
	case "wednesday", "wed", "quarta":
		return time.Wednesday, nil
	case "thursday", "thu", "quinta":
		return time.Thursday, nil
	case "friday", "fri", "sexta":
		return time.Friday, nil
	case "saturday", "sat", "sabado", "sábado":
		return time.Saturday, nil
	default:
		return time.Sunday, fmt.Errorf("%w: invalid week start %q", common.ErrInvalidConfig, name)
	}
}
