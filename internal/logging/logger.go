package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	AppName      = "ncdrift"
	EnvLevel     = "NCDRIFT_LOG_LEVEL"
	EnvNoColor   = "NCDRIFT_LOG_NOCOLOR"
	DefaultLevel = "warn"
)

type Options struct {
	// Level is one of trace, debug, info, warn, error or disabled. Empty
	// falls back to NCDRIFT_LOG_LEVEL and then to warn.
	Level   string
	NoColor bool
}

// New builds a console logger on w. The global zerolog logger is left alone.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	level, err := ParseLevel(resolveLevel(opts.Level))
	if err != nil {
		return zerolog.Nop(), err
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    opts.NoColor || os.Getenv(EnvNoColor) != "",
	}

	return zerolog.New(output).Level(level).With().Timestamp().Str("app", AppName).Logger(), nil
}

func ParseLevel(raw string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unsupported log level %q", raw)
	}
}

func resolveLevel(level string) string {
	if strings.TrimSpace(level) != "" {
		return level
	}
	if env := os.Getenv(EnvLevel); env != "" {
		return env
	}
	return DefaultLevel
}
