package observ

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogConfig controls the process-wide structured logger.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Pretty bool   // human-readable console output instead of JSON
}

var (
	logMu  sync.RWMutex
	logger = newLogger(LogConfig{Level: "info"})
)

func newLogger(cfg LogConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var output io.Writer = os.Stdout
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// InitLogging reconfigures the process-wide logger. Call once at startup;
// the default is info-level JSON on stdout.
func InitLogging(cfg LogConfig) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = newLogger(cfg)
}

// Log emits a structured info event with arbitrary key/value context.
func Log(event string, kv map[string]any) {
	logMu.RLock()
	l := logger
	logMu.RUnlock()
	l.Info().Fields(kv).Msg(event)
}

// LogError emits an error-level event.
func LogError(event string, kv map[string]any) {
	logMu.RLock()
	l := logger
	logMu.RUnlock()
	l.Error().Fields(kv).Msg(event)
}
