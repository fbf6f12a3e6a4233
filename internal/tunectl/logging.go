package tunectl

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Package-level logger; reconfigured once from the CLI flags.
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

// SetLogLevel adjusts the global log level; unknown names fall back to info.
func SetLogLevel(level string) {
	switch strings.ToLower(level) {
	case "debug":
		log = log.Level(zerolog.DebugLevel)
	case "info":
		log = log.Level(zerolog.InfoLevel)
	case "warn", "warning":
		log = log.Level(zerolog.WarnLevel)
	case "error", "err":
		log = log.Level(zerolog.ErrorLevel)
	default:
		log = log.Level(zerolog.InfoLevel)
	}
}

// Env helpers
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
