package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config selects output format and verbosity. Both values come straight from
// the environment (LOG_FORMAT, LOG_LEVEL).
type Config struct {
	Level  string // trace, debug, info, warn, error
	Format string // json (default) or console
}

// New builds the service logger. JSON output goes to stdout for log
// shippers; console output is for local runs.
func New(cfg Config) zerolog.Logger {
	var output io.Writer = os.Stdout

	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Logger()
}

// parseLevel maps a config string to a zerolog level, defaulting to info on
// anything unrecognized.
func parseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
