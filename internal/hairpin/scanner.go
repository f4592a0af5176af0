package hairpin

import "hairpinscan/internal/dotbracket"

// Span is one candidate: structure[Start..End], both inclusive.
type Span struct {
	Text       string
	Start, End int
}

// Scanner partitions a structure string into candidate spans in one
// left-to-right pass. A span runs from the first '(' of a run to the latest
// ')' seen before the next '(' appears. Calling Next again after a span was
// returned means the span was rejected: the '(' that closed it becomes the
// start of the next run.
type Scanner struct {
	s          string // structure + sentinel '('
	pos        int
	start, end int // -1 when unset
	pending    bool
	steps      int
}

// NewScanner returns a Scanner over structure. A sentinel '(' is appended so
// the final run is closed without special casing.
func NewScanner(structure string) *Scanner {
	return &Scanner{s: structure + string(dotbracket.Open), start: -1, end: -1}
}

// Next returns the next candidate span, or false when the string is exhausted.
func (sc *Scanner) Next() (Span, bool) {
	if sc.pending {
		sc.pending = false
		sc.start = sc.pos
		sc.end = -1
		sc.pos++
	}
	for ; sc.pos < len(sc.s); sc.pos++ {
		sc.steps++
		switch sc.s[sc.pos] {
		case dotbracket.Open:
			if sc.start < 0 {
				sc.start = sc.pos
				continue
			}
			if sc.end >= 0 {
				sc.pending = true
				return Span{Text: sc.s[sc.start : sc.end+1], Start: sc.start, End: sc.end}, true
			}
		case dotbracket.Close:
			if sc.start >= 0 {
				sc.end = sc.pos
			}
		}
	}
	return Span{}, false
}

// Start returns the current run start.
func (sc *Scanner) Start() (int, bool) { return sc.start, sc.start >= 0 }

// End returns the latest ')' of the current run.
func (sc *Scanner) End() (int, bool) { return sc.end, sc.end >= 0 }

// Steps is the number of structure positions examined so far.
func (sc *Scanner) Steps() int { return sc.steps }

// Outcome summarizes the scan of one structure string.
type Outcome struct {
	Verdict Verdict
	Reason  Reason

	// Candidate is the validator's output for the last attempted span.
	// It is meaningful only when Attempts > 0.
	Candidate string
	Attempts  int

	// Start/End are the accepted span's bounds, or the scanner's state when
	// the string ran out without an acceptance.
	Start, End       int
	HasStart, HasEnd bool
}

// Scan drives a Scanner over structure and validates each span until one is
// accepted or the structure is exhausted.
func (v *Validator) Scan(structure string) Outcome {
	sc := NewScanner(structure)
	out := Outcome{Verdict: Rejected, Reason: ReasonNoSpan}
	for {
		span, ok := sc.Next()
		if !ok {
			break
		}
		out.Attempts++
		v.log.WithField("span", span.Text).Debug("candidate hairpin")
		res := v.Check(span.Text)
		out.Candidate, out.Reason = res.Candidate, res.Reason
		if res.Verdict == Accepted {
			out.Verdict = Accepted
			out.Start, out.End = span.Start, span.End
			out.HasStart, out.HasEnd = true, true
			return out
		}
	}
	out.Start, out.HasStart = sc.Start()
	out.End, out.HasEnd = sc.End()
	return out
}
