// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"hairpinscan/internal/engine"
	"hairpinscan/internal/output"
)

// StartFunc spins up a writer goroutine for one format. The caller closes the
// returned channel when done and then reads exactly one value from the error
// channel.
type StartFunc func(out io.Writer, opt output.Options, bufSize int) (chan<- engine.Result, <-chan error)

// Writer registry (format → handler). Register in init() blocks of the
// per-format files.
var registry = map[string]StartFunc{}

// Register adds or replaces (last wins) the writer for format.
func Register(format string, fn StartFunc) { registry[format] = fn }

// Formats returns the registered formats, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for f := range registry {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether a writer is registered for format.
func Supported(format string) bool {
	_, ok := registry[format]
	return ok
}

// Start dispatches to the writer registered for format. An unknown format
// yields a writer that drains its input and reports the error.
func Start(out io.Writer, format string, opt output.Options, bufSize int) (chan<- engine.Result, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	if fn, ok := registry[format]; ok {
		return fn(out, opt, bufSize)
	}
	in := make(chan engine.Result, bufSize)
	errCh := make(chan error, 1)
	go func() {
		drain(in)
		errCh <- fmt.Errorf("unknown output format %q (no writer registered)", format)
	}()
	return in, errCh
}

func drain(in <-chan engine.Result) {
	for range in {
	}
}
