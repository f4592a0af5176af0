package hairpin

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the final acceptance test.
type Mode int

const (
	// CountMode accepts when opens+closes >= Threshold and opens == closes.
	CountMode Mode = iota
	// LengthMode accepts when len(candidate) >= Threshold.
	LengthMode
)

func (m Mode) String() string {
	switch m {
	case CountMode:
		return "count"
	case LengthMode:
		return "length"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "count" / "length" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "count", "":
		return CountMode, nil
	case "length", "len":
		return LengthMode, nil
	}
	return CountMode, fmt.Errorf("invalid acceptance mode %q (want count | length)", s)
}

// Config holds the shape constraints for one validation pass.
type Config struct {
	LoopMin   int // minimum unpaired run at the apex
	LoopMax   int // maximum unpaired run at the apex; 0 = unbounded
	BulgeMax  int // longest unpaired run tolerated inside a stem
	Threshold int // minimum paired count (CountMode) or length (LengthMode)
	Mode      Mode
}

// Validate checks the invariants the scanner relies on.
func (c Config) Validate() error {
	if c.LoopMin < 1 {
		return errors.New("loop-min must be ≥ 1")
	}
	if c.LoopMax < 0 {
		return errors.New("loop-max must be ≥ 0")
	}
	if c.LoopMax > 0 && c.LoopMax < c.LoopMin {
		return fmt.Errorf("loop-max (%d) is smaller than loop-min (%d)", c.LoopMax, c.LoopMin)
	}
	if c.BulgeMax < 0 {
		return errors.New("bulge-max must be ≥ 0")
	}
	if c.Threshold < 0 {
		return errors.New("threshold must be ≥ 0")
	}
	if c.Mode != CountMode && c.Mode != LengthMode {
		return fmt.Errorf("invalid mode %v", c.Mode)
	}
	return nil
}
