// Package logger builds the process-wide zap logger and the PII-aware field
// helpers used wherever a subscriber address ends up in a log line.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	Level     string // debug|info|warn|error
	RedactPII bool
}

var redactPII = true

// New builds a JSON production logger at the given level. Unknown levels
// fall back to info.
func New(opts Options) (*zap.Logger, error) {
	redactPII = opts.RedactPII

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(opts.Level))
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Email returns a zap field for an email address, masked unless PII
// redaction was turned off in Options.
func Email(key, addr string) zap.Field {
	if redactPII {
		return zap.String(key, RedactEmail(addr))
	}
	return zap.String(key, addr)
}
