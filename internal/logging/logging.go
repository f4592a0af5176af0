// Package logging builds the run's logrus logger: an optional trace file,
// warnings on stderr, and a run_id field on every entry.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	File   string       // trace file, truncated on open; empty = none
	Level  logrus.Level // level of the main sink
	Format string       // "text" (default) or "json"
	Quiet  bool         // no console output at all
	RunID  string       // empty = random UUID
}

// New returns the root entry for a run and a function that closes the
// trace file. With a file, the file receives everything at Level and stderr
// still receives warnings and errors unless Quiet. Without a file, stderr is
// the main sink (or nothing when Quiet).
func New(opt Options, stderr io.Writer) (*logrus.Entry, func() error, error) {
	l := logrus.New()
	l.SetLevel(opt.Level)
	f, err := formatter(opt.Format)
	if err != nil {
		return nil, nil, err
	}
	l.SetFormatter(f)

	closer := func() error { return nil }
	switch {
	case opt.File != "" && opt.Quiet:
		fh, err := openTrace(opt.File)
		if err != nil {
			return nil, nil, err
		}
		l.SetOutput(fh)
		closer = fh.Close
	case opt.File != "":
		fh, err := openTrace(opt.File)
		if err != nil {
			return nil, nil, err
		}
		closer = fh.Close
		// Each sink filters on its own level; the logger passes the union.
		l.SetOutput(io.Discard)
		l.AddHook(&WriterHook{Writer: fh, Formatter: f, MinLevel: opt.Level})
		l.AddHook(&WriterHook{Writer: stderr, Formatter: consoleFormatter(), MinLevel: logrus.WarnLevel})
		if l.Level < logrus.WarnLevel {
			l.SetLevel(logrus.WarnLevel)
		}
	case opt.Quiet:
		l.SetOutput(io.Discard)
	default:
		l.SetOutput(stderr)
	}

	id := opt.RunID
	if id == "" {
		id = uuid.NewString()
	}
	return l.WithField("run_id", id), closer, nil
}

func formatter(name string) (logrus.Formatter, error) {
	switch name {
	case "", "text":
		return &logrus.TextFormatter{FullTimestamp: true, DisableColors: true}, nil
	case "json":
		return &logrus.JSONFormatter{}, nil
	}
	return nil, fmt.Errorf("unsupported log format: %s", name)
}

func openTrace(path string) (*os.File, error) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return fh, nil
}

func consoleFormatter() logrus.Formatter {
	return &logrus.TextFormatter{DisableTimestamp: true, DisableColors: true}
}

// WriterHook copies entries at MinLevel or more severe to Writer.
// Workers log concurrently, so writes are serialized.
type WriterHook struct {
	Writer    io.Writer
	Formatter logrus.Formatter
	MinLevel  logrus.Level

	mu sync.Mutex
}

func (h *WriterHook) Levels() []logrus.Level {
	var out []logrus.Level
	for _, lv := range logrus.AllLevels {
		if lv <= h.MinLevel {
			out = append(out, lv)
		}
	}
	return out
}

func (h *WriterHook) Fire(e *logrus.Entry) error {
	b, err := h.Formatter.Format(e)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.Writer.Write(b)
	return err
}
