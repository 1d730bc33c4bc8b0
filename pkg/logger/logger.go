package logger

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Component-tagged logging facade backed by zerolog. Every call site names
// its component ("engine", "guard", "memory", ...) so the console output can
// be filtered per subsystem.

var (
	mu  sync.RWMutex
	log = newLogger(zerolog.InfoLevel)
)

func newLogger(level zerolog.Level) zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Init reconfigures the global logger. Call once at process start.
func Init(debug bool) {
	mu.Lock()
	defer mu.Unlock()
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log = newLogger(level)
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &log
}

func DebugC(component, msg string) {
	get().Debug().Str("component", component).Msg(msg)
}

func DebugCF(component, msg string, fields map[string]interface{}) {
	get().Debug().Str("component", component).Fields(fields).Msg(msg)
}

func InfoC(component, msg string) {
	get().Info().Str("component", component).Msg(msg)
}

func InfoCF(component, msg string, fields map[string]interface{}) {
	get().Info().Str("component", component).Fields(fields).Msg(msg)
}

func WarnC(component, msg string) {
	get().Warn().Str("component", component).Msg(msg)
}

func WarnCF(component, msg string, fields map[string]interface{}) {
	get().Warn().Str("component", component).Fields(fields).Msg(msg)
}

func ErrorC(component, msg string) {
	get().Error().Str("component", component).Msg(msg)
}

func ErrorCF(component, msg string, fields map[string]interface{}) {
	get().Error().Str("component", component).Fields(fields).Msg(msg)
}
