// Package logger builds the zap logger shared by the CLI commands and the
// pipeline.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Console encoding is the default for humans
// at a terminal; json switches to structured output for log collectors, and
// debug lowers the level. The message key is "step" so every entry reads as a
// stage of the matching run.
func New(json bool, debug bool) (*zap.Logger, error) {
	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "step",

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	if json {
		cfg.Encoding = "json"
	}
	if debug {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}

	return cfg.Build()
}
