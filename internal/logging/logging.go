// Package logging provides structured logging utilities.
// One process-wide zap logger is shared by the engine, the API server and
// the CLI; components log through Named children of it.
package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger *zap.Logger

	// Sugar is the sugared logger for convenience
	Sugar *zap.SugaredLogger

	// level is shared by every core built by Initialize so it can be raised at runtime
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level"`

	// Format is the output format (json, console)
	Format string `json:"format"`

	// Output is the destination: stdout, stderr, none, or a file path
	Output string `json:"output"`

	// Development enables caller stack traces on errors
	Development bool `json:"development"`
}

// DefaultConfig logs info and above to stderr in console format
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// Initialize sets up the global logger. An unknown level falls back to info.
func Initialize(cfg Config) error {
	if cfg.Output == "none" {
		SetLogger(zap.NewNop())
		return nil
	}

	if err := SetLevel(cfg.Level); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	sink, err := openSink(cfg.Output)
	if err != nil {
		return err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	SetLogger(zap.New(zapcore.NewCore(encoder, sink, level), opts...))
	return nil
}

func openSink(output string) (zapcore.WriteSyncer, error) {
	switch output {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr", "":
		return zapcore.AddSync(os.Stderr), nil
	default:
		file, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		return zapcore.AddSync(file), nil
	}
}

// SetLevel changes the minimum level of the logger built by Initialize
func SetLevel(name string) error {
	l, err := zapcore.ParseLevel(name)
	if err != nil {
		return err
	}
	level.SetLevel(l)
	return nil
}

// SetLogger replaces the global logger, e.g. with zap.NewNop in tests.
func SetLogger(l *zap.Logger) {
	Logger = l
	Sugar = l.Sugar()
}

// Named returns a child logger for one component (api, solver, cli)
func Named(component string) *zap.Logger {
	return Logger.Named(component)
}

// Sync flushes the logger
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// With returns a logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}

// Debug logs at debug level
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Info logs at info level
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Warn logs at warn level
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Error logs at error level
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

func init() {
	_ = Initialize(DefaultConfig())
}
