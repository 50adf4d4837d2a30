package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func defaultLogPath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateHome, "spritely", "spritely.log")
}

// setupLogging installs the default slog logger. The terminal belongs to the
// UI, so logs go to a file; "off" or an unusable path discards them. The
// returned closer releases the file.
func setupLogging(config *Config) (func() error, error) {
	path := config.LogFile
	if path == "" {
		path = defaultLogPath()
	}
	if path == "" || path == "off" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() error { return nil }, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() error { return nil }, fmt.Errorf("open log file: %w", err)
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: parseLevel(config.LogLevel)})
	slog.SetDefault(slog.New(handler).With("component", "spritely"))
	return f.Close, nil
}
