package hairpin

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"hairpinscan/internal/dotbracket"
)

// Verdict is the accept/reject flag written to the output table.
type Verdict string

const (
	Accepted Verdict = "Y"
	Rejected Verdict = "N"
)

// Reason says why a candidate ended with its verdict.
type Reason string

const (
	ReasonAccepted     Reason = "accepted"
	ReasonNoSpan       Reason = "no candidate span"
	ReasonNoLoop       Reason = "no loop"
	ReasonLoopTooShort Reason = "loop too short"
	ReasonLoopTooLong  Reason = "loop too long"
	ReasonTooShort     Reason = "hairpin too short"
	ReasonUnbalanced   Reason = "unbalanced"
)

// Result is the outcome of validating one candidate span. Candidate holds the
// string as far as trimming got, also on rejection.
type Result struct {
	Verdict   Verdict
	Reason    Reason
	Candidate string
}

// Validator applies a Config to candidate spans. The zero value is not usable;
// build one with NewValidator.
type Validator struct {
	cfg Config
	log logrus.FieldLogger
}

// NewValidator returns a Validator that traces each step to log.
// A nil log discards the trace.
func NewValidator(cfg Config, log logrus.FieldLogger) *Validator {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Validator{cfg: cfg, log: log}
}

// Check runs loop detection, bulge trimming, bracket rebalancing and the
// acceptance test on candidate.
func (v *Validator) Check(candidate string) Result {
	loop, ok := FindLoop(candidate)
	if !ok {
		v.log.WithField("candidate", candidate).Debug("rejected: no loop")
		return Result{Verdict: Rejected, Reason: ReasonNoLoop, Candidate: candidate}
	}
	if loop.Len() < v.cfg.LoopMin {
		v.log.WithFields(logrus.Fields{"candidate": candidate, "loop": loop.Len()}).Debug("rejected: loop too short")
		return Result{Verdict: Rejected, Reason: ReasonLoopTooShort, Candidate: candidate}
	}
	if v.cfg.LoopMax > 0 && loop.Len() > v.cfg.LoopMax {
		v.log.WithFields(logrus.Fields{"candidate": candidate, "loop": loop.Len()}).Debug("rejected: loop too long")
		return Result{Verdict: Rejected, Reason: ReasonLoopTooLong, Candidate: candidate}
	}

	trimmed, _ := TrimBulges(candidate, loop, v.cfg.BulgeMax)
	if len(trimmed) != len(candidate) {
		v.log.WithFields(logrus.Fields{"before": candidate, "after": trimmed}).Debug("bulge trimmed")
	}
	trimmed = strings.Trim(Rebalance(trimmed), string(dotbracket.Unpaired))
	v.log.WithField("candidate", trimmed).Debug("post-trimming")

	return v.accept(trimmed)
}

func (v *Validator) accept(candidate string) Result {
	opens, closes := dotbracket.Count(candidate)
	res := Result{Verdict: Rejected, Candidate: candidate}
	switch v.cfg.Mode {
	case LengthMode:
		if len(candidate) < v.cfg.Threshold {
			res.Reason = ReasonTooShort
		} else {
			res.Verdict, res.Reason = Accepted, ReasonAccepted
		}
	default:
		switch {
		case opens+closes < v.cfg.Threshold:
			res.Reason = ReasonTooShort
		case opens != closes:
			res.Reason = ReasonUnbalanced
		default:
			res.Verdict, res.Reason = Accepted, ReasonAccepted
		}
	}
	if res.Verdict == Accepted {
		v.log.WithField("candidate", candidate).Debug("hairpin found")
	} else {
		v.log.WithFields(logrus.Fields{"candidate": candidate, "reason": res.Reason}).Debug("rejected")
	}
	return res
}

// Rebalance drops surplus brackets so opens and closes match: the first
// surplus '(' scanning left to right, or the last surplus ')'. Applying it to
// its own output is a no-op.
func Rebalance(s string) string {
	opens, closes := dotbracket.Count(s)
	switch {
	case opens > closes:
		return dropFirst(s, dotbracket.Open, opens-closes)
	case closes > opens:
		return dropLast(s, dotbracket.Close, closes-opens)
	}
	return s
}

func dropFirst(s string, sym byte, n int) string {
	out := make([]byte, 0, len(s)-n)
	for i := 0; i < len(s); i++ {
		if n > 0 && s[i] == sym {
			n--
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func dropLast(s string, sym byte, n int) string {
	keep := make([]bool, len(s))
	for i := len(s) - 1; i >= 0; i-- {
		if n > 0 && s[i] == sym {
			n--
			continue
		}
		keep[i] = true
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if keep[i] {
			out = append(out, s[i])
		}
	}
	return string(out)
}
