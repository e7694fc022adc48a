package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (TOKENLIFE_*).
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("state-dir", os.Getenv("TOKENLIFE_STATE_DIR"), &cfg.StateDir)
	s.setString("log-level", os.Getenv("TOKENLIFE_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("TOKENLIFE_LOG_FORMAT"), &cfg.LogFormat)
	s.setBoolFromString("show-token", os.Getenv("TOKENLIFE_SHOW_TOKEN"), &cfg.ShowToken)

	return s.setDuration("watch-debounce", os.Getenv("TOKENLIFE_WATCH_DEBOUNCE"), &cfg.WatchDebounce)
}
