// Package logging builds the process logger.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where log output goes.
type Options struct {
	Level string
	// File, if set, receives structured JSON in addition to the console.
	File string
	// Console receives human-readable output. It defaults to stdout; serve
	// mode passes stderr because stdout carries the host protocol.
	Console io.Writer
}

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a zap logger that writes to the console and optionally a JSON
// log file. A log file that cannot be opened is reported on the console and
// otherwise ignored.
func New(opts Options) *zap.Logger {
	level := ParseLevel(opts.Level)
	console := opts.Console
	if console == nil {
		console = os.Stdout
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(console),
			level,
		),
	}

	var fileErr error
	if opts.File != "" {
		file, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			))
		} else {
			fileErr = err
		}
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if fileErr != nil {
		logger.Warn("Cannot open log file, logging to console only",
			zap.String("file", opts.File),
			zap.Error(fileErr))
	}
	return logger
}
