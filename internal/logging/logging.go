package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "CIPHERGATE_LOG_LEVEL"
	EnvLogNoColor = "CIPHERGATE_LOG_NOCOLOR"
)

// New builds a console logger writing to w. The level comes from raw,
// overridden by CIPHERGATE_LOG_LEVEL when that is set and valid.
func New(w io.Writer, app, raw string) zerolog.Logger {
	level, ok := ParseLevel(os.Getenv(EnvLogLevel))
	if !ok {
		level, _ = ParseLevel(raw)
	}
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    noColor(),
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", app).Logger()
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty input
// yields InfoLevel and false.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func noColor() bool {
	v := strings.TrimSpace(os.Getenv(EnvLogNoColor))
	return v == "1" || strings.EqualFold(v, "true")
}
