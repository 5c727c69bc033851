package logging

import (
	"io"
	"log"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the rotating log file and the UI fan-out
type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	// UIBuffer is the capacity of the UI line channel; lines are dropped while it is full
	UIBuffer int
}

// DefaultUIBuffer is used when Options.UIBuffer is not positive
const DefaultUIBuffer = 100

// Logging owns the application logger and its outputs
type Logging struct {
	Logger  *log.Logger
	UILines <-chan string
	file    *lumberjack.Logger
}

// New creates a logger writing to a rotating file and to a line channel the
// UI model drains for the on-screen log
func New(opts Options) *Logging {
	if opts.UIBuffer <= 0 {
		opts.UIBuffer = DefaultUIBuffer
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}
	lines := make(chan string, opts.UIBuffer)
	ui := &lineWriter{lines: lines}

	return &Logging{
		// MultiWriter stops at the first failing writer; the UI goes first so a
		// broken log file still leaves the on-screen log working
		Logger:  log.New(io.MultiWriter(ui, file), "", log.Ltime|log.Lmicroseconds),
		UILines: lines,
		file:    file,
	}
}

// Close flushes and closes the log file. The UI channel stays open so late
// writers never panic on a closed channel.
func (l *Logging) Close() error {
	return l.file.Close()
}

// lineWriter forwards each log entry to a channel without blocking
type lineWriter struct {
	lines chan<- string
}

func (w *lineWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	select {
	case w.lines <- line:
	default:
	}
	return len(p), nil
}
