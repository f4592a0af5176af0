// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
)

// ErrUsage marks errors caused by bad arguments (exit code 2).
var ErrUsage = errors.New("usage error")

// Usagef returns an error wrapping ErrUsage.
func Usagef(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, a...))
}

// Options holds what the command line carries besides the config keys bound
// into viper.
type Options struct {
	Inputs      []string // positionals, globs expanded; "-" is stdin
	ConfigFile  string
	Version     bool
	Examples    bool
	PrintConfig bool
}
