package cubeprobe

import (
	"log"
	"os"
	"sync/atomic"
)

// Logger is the renderer's logging surface. The frame loop only emits
// through it, so a frontend can swap in its own sink.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes info/debug to stdout and warnings/errors to stderr,
// tagging each line with its level. The debug toggle is safe to flip while
// the frame loop runs.
type DefaultLogger struct {
	debug atomic.Bool
	out   *log.Logger
	err   *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	if prefix != "" {
		prefix += " "
	}
	flags := log.LstdFlags | log.Lmicroseconds
	l := &DefaultLogger{
		out: log.New(os.Stdout, prefix, flags),
		err: log.New(os.Stderr, prefix, flags),
	}
	l.debug.Store(debug)
	return l
}

func (l *DefaultLogger) DebugEnabled() bool { return l.debug.Load() }

func (l *DefaultLogger) SetDebug(enabled bool) { l.debug.Store(enabled) }

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if !l.debug.Load() {
		return
	}
	l.out.Printf("debug: "+format, args...)
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Printf("info: "+format, args...)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Printf("warn: "+format, args...)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Printf("error: "+format, args...)
}

type nopLogger struct{}

// NewNopLogger returns a logger that discards everything. It backs App
// when no logger is supplied.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
