// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"hairpinscan/internal/engine"
	"hairpinscan/internal/rnafold"
)

// Config controls the scanning pipeline.
type Config struct {
	Threads int    // number of worker goroutines; <= 1 runs inline
	IDKey   string // header key holding the transcript identifier
	Log     logrus.FieldLogger
}

// Stats summarizes a run.
type Stats struct {
	Records   int // transcripts read, skipped ones included
	Skipped   int // transcripts without an identifier
	Malformed int // structure line outside the dot-bracket alphabet
	Accepted  int
	Rejected  int
}

func (s *Stats) add(r engine.Result) {
	if r.Accepted() {
		s.Accepted++
	} else {
		s.Rejected++
	}
}

// ForEachResult reads every input, runs proc on each identified transcript and
// calls visit with the results in input order. Transcripts whose header has no
// identifier, or whose structure is not dot-bracket, are logged and counted,
// never visited.
// It returns the first error encountered (including context cancellation).
func ForEachResult(
	ctx context.Context,
	cfg Config,
	inputs []string,
	proc Processor,
	visit func(engine.Result) error,
) (Stats, error) {
	if cfg.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Log = l
	}
	if cfg.Threads <= 1 {
		return serial(ctx, cfg, inputs, proc, visit)
	}
	return parallel(ctx, cfg, inputs, proc, visit)
}

func serial(ctx context.Context, cfg Config, inputs []string, proc Processor, visit func(engine.Result) error) (Stats, error) {
	var st Stats
	err := feed(ctx, cfg, inputs, &st, func(rec rnafold.Record) error {
		r := proc.Process(rec)
		st.add(r)
		return visit(r)
	})
	if ctx.Err() != nil {
		return st, ctx.Err()
	}
	return st, err
}

func parallel(parent context.Context, cfg Config, inputs []string, proc Processor, visit func(engine.Result) error) (Stats, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	type job struct {
		n   int
		rec rnafold.Record
	}
	type done struct {
		n   int
		res engine.Result
	}
	jobs := make(chan job, cfg.Threads*2)
	results := make(chan done, cfg.Threads*2)

	// Workers
	var wg sync.WaitGroup
	wg.Add(cfg.Threads)
	for w := 0; w < cfg.Threads; w++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case results <- done{n: j.n, res: proc.Process(j.rec)}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed work
	var (
		fst     Stats
		feedErr error
	)
	fed := make(chan struct{})
	go func() {
		defer close(fed)
		defer close(jobs)
		n := 0
		feedErr = feed(ctx, cfg, inputs, &fst, func(rec rnafold.Record) error {
			select {
			case jobs <- job{n: n, rec: rec}:
				n++
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	// Collector: re-order by sequence number.
	var (
		st      Stats
		verr    error
		next    int
		pending = make(map[int]engine.Result, cfg.Threads*2)
	)
	for d := range results {
		if verr != nil {
			continue
		}
		pending[d.n] = d.res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			st.add(r)
			if err := visit(r); err != nil {
				verr = err
				cancel()
				break
			}
		}
	}
	<-fed

	st.Records, st.Skipped, st.Malformed = fst.Records, fst.Skipped, fst.Malformed
	switch {
	case verr != nil:
		return st, verr
	case parent.Err() != nil:
		return st, parent.Err()
	}
	return st, feedErr
}

// feed streams every input in order and hands identified records to emit.
func feed(ctx context.Context, cfg Config, inputs []string, st *Stats, emit func(rnafold.Record) error) error {
	opt := rnafold.Options{IDKey: cfg.IDKey}
	for _, in := range inputs {
		err := rnafold.StreamPathCtx(ctx, in, opt, func(rec rnafold.Record) error {
			st.Records++
			if rec.Skipped() {
				st.Skipped++
				cfg.Log.WithFields(logrus.Fields{
					"file":   rec.Source,
					"line":   rec.Line,
					"header": rec.Header,
				}).Warn("no identifier in header; transcript skipped")
				return nil
			}
			log := cfg.Log.WithFields(logrus.Fields{"file": rec.Source, "line": rec.Line, "id": rec.ID})
			if rec.BadStructure {
				st.Malformed++
				log.Warn("structure is not dot-bracket; transcript skipped")
				return nil
			}
			if rec.HasSeq && !rec.PlainSequence() {
				log.Debug("sequence has symbols other than ACGU/T")
			}
			return emit(rec)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
