// internal/engine/result.go
package engine

import "hairpinscan/internal/hairpin"

// Result is the per-transcript output record. Pointer fields are nil when the
// value does not exist (no attempted span, no end seen, no sequence line, no
// energy on the structure line).
type Result struct {
	ID      string
	Verdict hairpin.Verdict

	// Structure is the structure examined, after the prefix limit. The '('
	// appended for scanning is not part of it, so tables written by tools
	// that print the sentinel differ by that last character.
	Structure string

	Candidate *string
	Start     *int
	End       *int
	Seq       *string
	MFE       *float64

	Attempts   int
	Reason     hairpin.Reason
	SourceFile string
}

// Accepted reports whether a hairpin was found.
func (r Result) Accepted() bool { return r.Verdict == hairpin.Accepted }
