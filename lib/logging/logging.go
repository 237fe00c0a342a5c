// Package logging is a thin encapsulation of the go.uber.org/zap package.
// It exposes a process-wide sugared logger that defaults to a console
// logger at info level; Init reconfigures it from the server options and
// can add a rolling-file sink.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds the logging options.
type Config struct {
	Level string // debug, info, warn, error
	File  string // optional rolling log file, empty = console only

	// rolling file settings, only used if File is set
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		MaxSizeMB:  100,
		MaxAgeDays: 28,
		MaxBackups: 3,
	}
}

// Logger is the process-wide logger. It is usable before Init is called.
var Logger = newConsoleLogger(zapcore.InfoLevel)

// L returns the process-wide sugared logger.
func L() *zap.SugaredLogger {
	return Logger
}

// Init replaces the process-wide logger according to cfg.
func Init(cfg Config) error {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return err
	}

	if cfg.File == "" {
		Logger = newConsoleLogger(level)
		return nil
	}

	fileSink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxAge:     cfg.MaxAgeDays,
		MaxBackups: cfg.MaxBackups,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileSink, level),
		newConsoleCore(level),
	)

	Logger = zap.New(core).Sugar()
	return nil
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func newConsoleCore(level zapcore.Level) zapcore.Core {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(os.Stdout), level)
}

func newConsoleLogger(level zapcore.Level) *zap.SugaredLogger {
	return zap.New(newConsoleCore(level)).Sugar()
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warning", "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", s)
	}
}
