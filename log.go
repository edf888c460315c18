package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// logFile receives every log line; --debug mirrors them to stderr.
var logFile io.Writer = io.Discard

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "basictts").CacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to find cache directory: %w", err)
	}
	return filepath.Join(dir, "basictts.log"), nil
}

func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	path, err := getLogFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}

	logFile = f
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	return f.Close, nil
}

// enableDebugOutput mirrors logs to stderr.
func enableDebugOutput() {
	log.SetOutput(io.MultiWriter(logFile, os.Stderr))
	log.SetLevel(log.DebugLevel)
}
