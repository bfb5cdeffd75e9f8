package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to Logger. Every entry carries a
// "name" field identifying the component.
type ZerologLogger struct {
	zerolog.Logger
}

// NewZerologLogger writes JSON entries to w, or stderr when w is nil.
func NewZerologLogger(name string, w io.Writer, level zerolog.Level) *ZerologLogger {
	if w == nil {
		w = os.Stderr
	}
	l := zerolog.New(w).Level(level).With().
		Str("name", name).
		Timestamp().
		Logger()
	return &ZerologLogger{l}
}

// NewConsoleLogger is the human readable variant used by the CLI.
func NewConsoleLogger(name string, level zerolog.Level) *ZerologLogger {
	return NewZerologLogger(name, zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

func (z *ZerologLogger) Debug(format string, args ...any) {
	z.Logger.Debug().Msgf(format, args...)
}

func (z *ZerologLogger) Info(format string, args ...any) {
	z.Logger.Info().Msgf(format, args...)
}

func (z *ZerologLogger) Warn(format string, args ...any) {
	z.Logger.Warn().Msgf(format, args...)
}

func (z *ZerologLogger) Error(format string, args ...any) {
	z.Logger.Error().Msgf(format, args...)
}
