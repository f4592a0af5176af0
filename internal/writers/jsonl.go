// internal/writers/jsonl.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"hairpinscan/internal/engine"
	"hairpinscan/internal/output"
)

func init() {
	Register(output.FormatJSONL, StartJSONL)
	Register(output.FormatJSON, StartJSON)
}

// Reuse a 64 KiB buffered writer across JSONL writers to avoid per-writer mallocs.
// Encoder itself is tiny and tied to an io.Writer, so we (re)create it per goroutine.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// StartJSONL streams each result as one JSON line (api.RecordV1).
func StartJSONL(out io.Writer, opt output.Options, bufSize int) (chan<- engine.Result, <-chan error) {
	in := make(chan engine.Result, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		// Rebind to the actual output while keeping the pooled buffer.
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		for r := range in {
			if err := enc.Encode(output.ToAPIRecord(r, opt)); err != nil {
				drain(in)
				if IsBrokenPipe(err) {
					err = nil
				}
				done <- err
				return
			}
		}
		if err := bw.Flush(); err != nil && !IsBrokenPipe(err) {
			done <- err
			return
		}
		done <- nil
	}()

	return in, done
}

// StartJSON buffers every result and writes one indented JSON array at the end.
func StartJSON(out io.Writer, opt output.Options, bufSize int) (chan<- engine.Result, <-chan error) {
	in := make(chan engine.Result, bufSize)
	done := make(chan error, 1)

	go func() {
		var buf []engine.Result
		for r := range in {
			buf = append(buf, r)
		}
		err := output.WriteJSON(out, buf, opt)
		if IsBrokenPipe(err) {
			err = nil
		}
		done <- err
	}()

	return in, done
}
