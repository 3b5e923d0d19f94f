// Package observability owns logger construction for the CLI and the server.
//
// Commands log human-oriented console output; the server logs structured
// JSON. Both are zap loggers configured from the logging config section.
package observability

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger for command output paths.
// Defaults to a no-op logger until Init is called.
var CLILogger = zap.NewNop()

// ServerLogger is the process-wide logger for the HTTP server and job
// execution paths. Defaults to a no-op logger until Init is called.
var ServerLogger = zap.NewNop()

// Init builds the package loggers from the configured level and profile.
//
// Profile "CONSOLE" produces human-readable output for interactive use;
// anything else (the default "STRUCTURED") produces JSON.
func Init(level, profile string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}

	console := zap.NewDevelopmentConfig()
	console.Level = zap.NewAtomicLevelAt(lvl)
	console.DisableStacktrace = true
	cli, err := console.Build()
	if err != nil {
		return fmt.Errorf("build cli logger: %w", err)
	}

	structured := zap.NewProductionConfig()
	structured.Level = zap.NewAtomicLevelAt(lvl)
	if strings.EqualFold(strings.TrimSpace(profile), "CONSOLE") {
		structured = console
	}
	srv, err := structured.Build()
	if err != nil {
		return fmt.Errorf("build server logger: %w", err)
	}

	CLILogger = cli
	ServerLogger = srv
	return nil
}

// Sync flushes buffered log entries. Safe to call on exit.
func Sync() {
	_ = CLILogger.Sync()
	_ = ServerLogger.Sync()
}
