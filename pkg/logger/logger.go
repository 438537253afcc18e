// Package logger builds the application zap logger.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger construction.
type Config struct {
	// Level parsed by zapcore.ParseLevel ("debug", "info", "warn", ...).
	Level string
	// File is the log file path; empty logs to stderr only.
	File string
	// Production enables JSON output and file rotation.
	Production bool
	// MaxSize is the rotation size in megabytes.
	MaxSize int
	// MaxBackups is the number of rotated files kept.
	MaxBackups int
	// MaxAge is the rotated file retention in days.
	MaxAge int
}

// NewLogger creates a zap logger per cfg. In production mode output is JSON
// to a lumberjack-rotated file plus stderr; otherwise a colored console.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100
	}
	if cfg.MaxBackups <= 0 {
		cfg.MaxBackups = 10
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 30
	}

	var cores []zapcore.Core

	if cfg.Production && cfg.File != "" {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, level))
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores = append(cores, zapcore.NewCore(
		zapcore.NewConsoleEncoder(consoleCfg),
		zapcore.Lock(os.Stderr),
		level,
	))

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
