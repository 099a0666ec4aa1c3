package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/flockml/flock/pkg/errors"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = &nopLogger{}
)

// GetLogger returns the package default logger. Unless SetLogger was called,
// this is a no-op logger: the library stays silent by default.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the package default logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// nopLogger discards everything.
type nopLogger struct{}

func (n *nopLogger) Debug(msg string, fields ...any)           {}
func (n *nopLogger) Info(msg string, fields ...any)            {}
func (n *nopLogger) Warn(msg string, fields ...any)            {}
func (n *nopLogger) Error(msg string, fields ...any)           {}
func (n *nopLogger) With(fields ...any) Logger                 { return n }
func (n *nopLogger) Enabled(ctx context.Context, l Level) bool { return false }

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger returns a Logger backed by zerolog writing to w.
// Pass os.Stderr (or a zerolog.ConsoleWriter) for human consumption.
func NewZerologLogger(w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &zerologLogger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

func (z *zerologLogger) log(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func (z *zerologLogger) Debug(msg string, fields ...any) { z.log(z.zl.Debug(), msg, fields) }
func (z *zerologLogger) Info(msg string, fields ...any)  { z.log(z.zl.Info(), msg, fields) }
func (z *zerologLogger) Warn(msg string, fields ...any)  { z.log(z.zl.Warn(), msg, fields) }
func (z *zerologLogger) Error(msg string, fields ...any) { z.log(z.zl.Error(), msg, fields) }

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(fmt.Sprintf("%v", fields[i]), fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (z *zerologLogger) Enabled(ctx context.Context, level Level) bool {
	return zerolog.Level(levelToZerolog(level)) >= z.zl.GetLevel()
}

func levelToZerolog(level Level) int8 {
	switch {
	case level <= LevelDebug:
		return int8(zerolog.DebugLevel)
	case level <= LevelInfo:
		return int8(zerolog.InfoLevel)
	case level <= LevelWarn:
		return int8(zerolog.WarnLevel)
	default:
		return int8(zerolog.ErrorLevel)
	}
}

// RegisterWarningLogger routes warnings raised through pkg/errors (e.g.
// ConvergenceWarning) to the given zerolog logger as structured records.
func RegisterWarningLogger(zl zerolog.Logger) {
	errors.SetZerologWarnFunc(func(warning error) {
		ev := zl.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(obj)
		}
		ev.Msg(warning.Error())
	})
}
