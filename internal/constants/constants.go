// Package constants defines application-wide constants for timeout handling,
// stability check cadence, default configuration values, and file permissions.
package constants

import "time"

const (
	// MaxTimeoutMinutes is the upper bound of the configurable recording
	// timeout (24 hours). Values outside 0..MaxTimeoutMinutes are accepted
	// as-is; clamping is the input layer's job.
	MaxTimeoutMinutes = 1440
	// DefaultWarningThreshold is how long before expiration the one-time
	// warning notification fires.
	DefaultWarningThreshold = 5 * time.Minute

	// MemoryCheckFrequency is the number of processed frames between
	// memory pressure evaluations.
	MemoryCheckFrequency = 300
	// AudioEngineRestartInterval is how long an audio pipeline may run
	// before a restart is recommended.
	AudioEngineRestartInterval = time.Hour
	// AudioRestartTimeout bounds a single pipeline restart attempt so a
	// stuck restart cannot block subsequent stability checks.
	AudioRestartTimeout = 30 * time.Second
	// FileFlushInterval is the time between flushes of buffered
	// recording files.
	FileFlushInterval = 5 * time.Minute

	// NotifyTimeout is the maximum time allowed for delivering a single
	// notification.
	NotifyTimeout = 30 * time.Second

	// TimeoutMinutesKey is the settings store key holding the configured
	// recording timeout in minutes. 0 disables the timeout.
	TimeoutMinutesKey = "timeout_minutes"

	// DefaultRecordingsDir is the default directory for storing recordings.
	DefaultRecordingsDir = "/var/audio"
	// DefaultKeepDays is the default number of days to retain session files.
	DefaultKeepDays = 31
	// DefaultPort is the default HTTP server port.
	DefaultPort = 8080
	// DefaultTimezone is the default timezone for the application.
	DefaultTimezone = "UTC"

	// DirPermissions defines the file mode for created directories.
	DirPermissions = 0o755
	// FilePermissions defines the file mode for created files.
	FilePermissions = 0o644
	// SettingsFilePermissions defines the file mode for the settings store.
	SettingsFilePermissions = 0o640

	// ServerReadTimeout is the HTTP server read timeout.
	ServerReadTimeout = 15 * time.Second
	// ServerWriteTimeout is the HTTP server write timeout.
	ServerWriteTimeout = 15 * time.Second
	// ServerShutdownTimeout is the maximum time allowed for graceful
	// HTTP server shutdown.
	ServerShutdownTimeout = 10 * time.Second
)
