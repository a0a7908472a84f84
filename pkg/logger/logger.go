package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	APP        = "APP"
	CHAT       = "CHAT"
	CONFIG     = "CONFIG"
	HANDLER    = "HANDLER"
	MIDDLEWARE = "MIDDLEWARE"
	REDIS      = "REDIS"
	SERVICE    = "SERVICE"
	STORE      = "STORE"
	WEBSOCKET  = "WEBSOCKET"
)

// Init configures the global zerolog logger. level is one of trace, debug,
// info, warn or error; anything else falls back to info. format "console"
// switches to human readable output, everything else writes JSON.
func Init(level, format string) {
	InitWithWriter(level, format, os.Stderr)
}

// InitWithWriter is Init with an explicit destination, mostly for tests.
func InitWithWriter(level, format string, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(level))

	if strings.EqualFold(format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a LOG_LEVEL value to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func Debug(namespace, format string, v ...interface{}) {
	log.Debug().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

func Info(namespace, format string, v ...interface{}) {
	log.Info().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

func Warn(namespace, format string, v ...interface{}) {
	log.Warn().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

func Error(namespace, format string, v ...interface{}) {
	log.Error().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}
