package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldRunID is the structured log field key for the pipeline run identifier.
	FieldRunID = "run_id"
	// FieldSource is the structured log field key for a job-board source name.
	FieldSource = "source"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the pairs into zap fields. Keys and values are
// trimmed; pairs with a blank key or value are dropped so callers can pass
// optional fields unconditionally.
func StringFields(fields ...StringField) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		key, value := strings.TrimSpace(f.Key), strings.TrimSpace(f.Value)
		if key == "" || value == "" {
			continue
		}
		out = append(out, zap.String(key, value))
	}
	return out
}

// WithFields attaches fields to the logger, substituting a no-op logger for
// nil so call sites never have to guard.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// WithRun tags the logger with the run identifier and, when known, the
// job-board source the entries relate to.
func WithRun(logger *zap.Logger, runID, source string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldRunID, Value: runID},
		StringField{Key: FieldSource, Value: source},
	)...)
}
