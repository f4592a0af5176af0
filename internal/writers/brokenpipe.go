package writers

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// IsBrokenPipe reports whether err means the reader of the output went away
// (hairpinscan ... | head). Such errors end the run quietly.
func IsBrokenPipe(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, syscall.EPIPE), errors.Is(err, io.ErrClosedPipe):
		return true
	}
	var pe *os.PathError
	return errors.As(err, &pe) && errors.Is(pe.Err, syscall.EPIPE)
}
