// Package logging points the standard logger at stderr and, optionally, a
// rotating log file.
package logging

import (
	"bytes"
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures Setup.
type Options struct {
	File       string // empty disables file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Debug      bool
}

// Setup redirects the standard logger. The returned closer flushes and closes
// the log file; it is a no-op without one.
func Setup(opts Options) io.Closer {
	w, closer := NewWriter(os.Stderr, opts)
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)
	return closer
}

// NewWriter builds the writer Setup installs, writing to console and the
// configured file.
func NewWriter(console io.Writer, opts Options) (io.Writer, io.Closer) {
	writers := []io.Writer{console}
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		writers = append(writers, file)
		closer = file
	}

	var w io.Writer = io.MultiWriter(writers...)
	if !opts.Debug {
		w = &levelFilter{next: w, drop: []byte("[DEBUG] ")}
	}
	return w, closer
}

// levelFilter drops whole entries tagged with a level. The standard logger
// hands each entry to Write in one call.
type levelFilter struct {
	next io.Writer
	drop []byte
}

func (f *levelFilter) Write(p []byte) (int, error) {
	if bytes.Contains(p, f.drop) {
		return len(p), nil
	}
	return f.next.Write(p)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
