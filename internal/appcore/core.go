// internal/appcore/core.go
package appcore

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"hairpinscan/internal/config"
	"hairpinscan/internal/engine"
	"hairpinscan/internal/logging"
	"hairpinscan/internal/pipeline"
	"hairpinscan/internal/runutil"
	"hairpinscan/internal/writers"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitIO       = 3
	ExitCanceled = 130
)

type Options struct {
	Config config.Config
	Inputs []string
	RunID  string // empty = random
}

// Run scans every input and writes one row per transcript. It returns the
// process exit code.
func Run(parent context.Context, stdout, stderr io.Writer, o Options) int {
	cfg := o.Config
	log, closeLog, err := logging.New(logging.Options{
		File:   cfg.LogFile,
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Quiet:  cfg.Quiet,
		RunID:  o.RunID,
	}, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitIO
	}
	defer func() { _ = closeLog() }()

	out, closeOut, err := openOutput(cfg.Out, stdout)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitIO
	}
	outw := bufio.NewWriter(out)

	thr := runutil.EffectiveThreads(cfg.Threads)
	log.WithFields(logrus.Fields{
		"preset":  cfg.Preset,
		"inputs":  len(o.Inputs),
		"threads": thr,
		"format":  cfg.Format,
	}).Info("run started")

	eng := engine.New(cfg.Engine(), log)
	inCh, writeErr := writers.Start(outw, cfg.Format, cfg.OutputOptions(), runutil.WriterBufSize(thr))

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	st, perr := pipeline.ForEachResult(ctx,
		pipeline.Config{Threads: thr, IDKey: cfg.IDKey, Log: log},
		o.Inputs,
		eng,
		func(r engine.Result) error {
			select {
			case inCh <- r:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	)
	close(inCh)

	code := finish(stderr, <-writeErr, outw, closeOut)
	if code != ExitOK {
		return code
	}

	fields := logrus.Fields{
		"records":   st.Records,
		"skipped":   st.Skipped,
		"malformed": st.Malformed,
		"accepted":  st.Accepted,
		"rejected":  st.Rejected,
	}
	if perr != nil {
		if errors.Is(perr, context.Canceled) {
			log.WithFields(fields).Warn("run canceled")
			return ExitCanceled
		}
		fmt.Fprintln(stderr, perr)
		return ExitIO
	}
	if st.Skipped > 0 {
		log.WithFields(fields).Warnf("%d transcript(s) skipped: no %q in header", st.Skipped, cfg.IDKey)
	}
	if st.Malformed > 0 {
		log.WithFields(fields).Warnf("%d transcript(s) skipped: structure is not dot-bracket", st.Malformed)
	}
	log.WithFields(fields).Info("run finished")

	if st.Accepted == 0 {
		return cfg.NoMatchExitCode
	}
	return ExitOK
}

// finish reports the writer result, then flushes and closes the output.
// A closed downstream pipe is not an error.
func finish(stderr io.Writer, werr error, outw *bufio.Writer, closeOut func() error) int {
	if werr != nil && !writers.IsBrokenPipe(werr) {
		fmt.Fprintln(stderr, werr)
		_ = closeOut()
		return ExitIO
	}
	if e := outw.Flush(); e != nil && !writers.IsBrokenPipe(e) {
		fmt.Fprintln(stderr, e)
		_ = closeOut()
		return ExitIO
	}
	if e := closeOut(); e != nil && !writers.IsBrokenPipe(e) {
		fmt.Fprintln(stderr, e)
		return ExitIO
	}
	return ExitOK
}

// openOutput returns stdout for "" and "-", otherwise creates path
// (gzip-compressed when it ends in .gz).
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return fh, fh.Close, nil
	}
	gw := gzip.NewWriter(fh)
	return gw, func() error {
		gerr := gw.Close()
		if err := fh.Close(); gerr == nil {
			gerr = err
		}
		return gerr
	}, nil
}
