// Package settings provides a persisted key-value store for user-adjustable
// runtime settings, backed by viper.
package settings

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/oszuidwest/zwfm-sessionguard/internal/constants"
	"github.com/spf13/viper"
)

// Store persists small runtime settings such as the recording timeout.
// It is safe for concurrent use.
type Store struct {
	mu sync.Mutex
	v  *viper.Viper
}

// Open loads (or creates) the settings file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault(constants.TimeoutMinutesKey, 0)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
		}
		// First run: persist the defaults so the file exists.
		if err := v.WriteConfigAs(path); err != nil {
			return nil, fmt.Errorf("failed to create settings file %q: %w", path, err)
		}
		slog.Info("created settings file", "path", path)
	}

	return &Store{v: v}, nil
}

// TimeoutMinutes returns the configured recording timeout in minutes.
// 0 means the timeout is disabled. Values are not range-checked here;
// out-of-range input is the UI layer's problem.
func (s *Store) TimeoutMinutes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetInt(constants.TimeoutMinutesKey)
}

// Watch reloads the settings file when it changes on disk and invokes
// onChange after each reload, so external edits take effect without a
// restart.
func (s *Store) Watch(onChange func()) {
	s.v.OnConfigChange(func(_ fsnotify.Event) {
		slog.Info("settings file changed, reloading")
		onChange()
	})
	s.v.WatchConfig()
}

// SetTimeoutMinutes stores and persists the recording timeout.
func (s *Store) SetTimeoutMinutes(minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(constants.TimeoutMinutesKey, minutes)
	if err := s.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
