// Package observability holds the process-wide loggers. CLI commands use a
// plain console logger; the HTTP server logs structured JSON to stderr.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// CLILogger is used by CLI commands.
	CLILogger *zap.Logger = zap.NewNop()

	// ServerLogger is used by the HTTP server and its handlers.
	ServerLogger *zap.Logger = zap.NewNop()
)

// InitCLILogger initializes the CLI logger with console output.
func InitCLILogger(verbose bool) {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to initialize CLI logger: %v\n", err)
		os.Exit(1)
	}
	CLILogger = logger
}

// InitServerLogger initializes the server logger with JSON output on stderr.
func InitServerLogger(service, logLevel string) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(logLevel))
	cfg.OutputPaths = []string{"stderr"}
	cfg.InitialFields = map[string]any{"service": service}

	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: failed to initialize server logger: %v\n", err)
		os.Exit(1)
	}
	ServerLogger = logger
}

// ParseLevel converts a config log level string to a zap level, defaulting
// to info.
func ParseLevel(levelStr string) zapcore.Level {
	switch levelStr {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
