// Package cliutil turns command-line positionals into the input list.
package cliutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Stdin is the positional that reads records from standard input.
const Stdin = "-"

// ErrStdinTwice is returned when "-" is given more than once.
var ErrStdinTwice = errors.New(`stdin ("-") given more than once`)

// ExpandPositionals expands glob patterns among the positionals, keeping
// their order. Quoted globs ('runs/*.fold.gz') reach us unexpanded; a
// pattern that matches nothing is an error rather than a silent no-op.
func ExpandPositionals(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	stdin := false
	for _, a := range args {
		switch {
		case a == Stdin:
			if stdin {
				return nil, ErrStdinTwice
			}
			stdin = true
			out = append(out, a)
		case strings.ContainsAny(a, "*?["):
			matches, err := filepath.Glob(a)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %w", a, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no input matched %q", a)
			}
			out = append(out, matches...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}
