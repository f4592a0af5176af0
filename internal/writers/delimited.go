// internal/writers/delimited.go
package writers

import (
	"encoding/csv"
	"io"

	"hairpinscan/internal/engine"
	"hairpinscan/internal/output"
)

func init() {
	Register(output.FormatTSV, func(out io.Writer, opt output.Options, bufSize int) (chan<- engine.Result, <-chan error) {
		return StartDelimited(out, '\t', opt, bufSize)
	})
	Register(output.FormatCSV, func(out io.Writer, opt output.Options, bufSize int) (chan<- engine.Result, <-chan error) {
		return StartDelimited(out, ',', opt, bufSize)
	})
}

// StartDelimited streams results as delimited rows (output.Row), preceded by
// the header row when opt.Header is set.
func StartDelimited(out io.Writer, comma rune, opt output.Options, bufSize int) (chan<- engine.Result, <-chan error) {
	in := make(chan engine.Result, bufSize)
	errCh := make(chan error, 1)

	go func() {
		cw := csv.NewWriter(out)
		cw.Comma = comma
		fail := func(err error) {
			drain(in)
			if IsBrokenPipe(err) {
				err = nil
			}
			errCh <- err
		}

		if opt.Header {
			if err := cw.Write(output.Columns(opt)); err != nil {
				fail(err)
				return
			}
		}
		for r := range in {
			if err := cw.Write(output.Row(r, opt)); err != nil {
				fail(err)
				return
			}
		}
		cw.Flush()
		fail(cw.Error())
	}()

	return in, errCh
}
