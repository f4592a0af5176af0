package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"hairpinscan/internal/hairpin"
	"hairpinscan/internal/rnafold"
)

// RemapMode selects how an accepted candidate is placed on the sequence.
type RemapMode int

const (
	// RemapSpan reports the scanner span bounds.
	RemapSpan RemapMode = iota
	// RemapLocate searches the trimmed candidate inside the structure and
	// reports its own bounds, falling back to the span when it is not found.
	RemapLocate
)

func (m RemapMode) String() string {
	switch m {
	case RemapSpan:
		return "span"
	case RemapLocate:
		return "locate"
	}
	return fmt.Sprintf("RemapMode(%d)", int(m))
}

// ParseRemap accepts "span" and "locate" (case-insensitive).
func ParseRemap(s string) (RemapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "span":
		return RemapSpan, nil
	case "locate":
		return RemapLocate, nil
	}
	return 0, fmt.Errorf("unknown remap mode %q (want span or locate)", s)
}

// Config holds the per-run engine settings.
type Config struct {
	Hairpin   hairpin.Config
	MaxPrefix int // 0 = whole record
	Remap     RemapMode
}

type Engine struct {
	cfg Config
	log logrus.FieldLogger
}

// New returns an Engine. A nil log discards the trace.
func New(c Config, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{cfg: c, log: log}
}

// Process scans one record. Safe for concurrent use.
func (e *Engine) Process(rec rnafold.Record) Result {
	log := e.log.WithField("id", rec.ID)
	seq := prefix(rec.Seq, e.cfg.MaxPrefix)
	structure := prefix(rec.Structure, e.cfg.MaxPrefix)
	log.WithField("structure", structure).Debug("scanning")

	out := hairpin.NewValidator(e.cfg.Hairpin, log).Scan(structure)

	res := Result{
		ID:         rec.ID,
		Verdict:    out.Verdict,
		Structure:  structure,
		Attempts:   out.Attempts,
		Reason:     out.Reason,
		SourceFile: rec.Source,
	}
	if out.Attempts > 0 {
		res.Candidate = ptr(out.Candidate)
	}
	if rec.HasMFE {
		res.MFE = ptr(rec.MFE)
	}

	if out.Verdict != hairpin.Accepted {
		if out.HasStart {
			res.Start = ptr(out.Start)
		}
		if out.HasEnd {
			res.End = ptr(out.End)
		}
		if rec.HasSeq {
			res.Seq = ptr(seq)
		}
		return res
	}

	start, end := out.Start, out.End
	if e.cfg.Remap == RemapLocate {
		if s, ok := locate(structure, out.Candidate, out.Start, out.End); ok {
			start, end = s, s+len(out.Candidate)-1
		} else {
			log.WithField("candidate", out.Candidate).Debug("candidate not contiguous; using span bounds")
		}
	}
	res.Start, res.End = ptr(start), ptr(end)
	if rec.HasSeq {
		res.Seq = ptr(slice(seq, start, end))
	}
	return res
}

// locate finds cand inside structure[from..to].
func locate(structure, cand string, from, to int) (int, bool) {
	if cand == "" || from < 0 || from >= len(structure) {
		return 0, false
	}
	i := strings.Index(structure[from:], cand)
	if i < 0 {
		return 0, false
	}
	i += from
	if i+len(cand)-1 > to {
		return 0, false
	}
	return i, true
}

func prefix(s string, n int) string {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

// slice returns seq[start..end] inclusive, clamped to the sequence.
func slice(seq string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if start >= len(seq) {
		return ""
	}
	if end >= len(seq) {
		end = len(seq) - 1
	}
	if end < start {
		return ""
	}
	return seq[start : end+1]
}

func ptr[T any](v T) *T { return &v }
