package rnafold

import (
	"strconv"
	"strings"

	"github.com/TimothyStiles/poly/checks"

	"hairpinscan/internal/dotbracket"
)

// ParseID extracts the transcript identifier from a header line (with or
// without its leading '>'). With a key, the value of the first "key=value"
// pair is returned, the value running up to the next ';'. Without a key the
// first whitespace-delimited token is used. An empty result means the header
// carries no identifier.
func ParseID(header, key string) string {
	header = strings.TrimPrefix(strings.TrimSpace(header), ">")
	if key == "" {
		if f := strings.Fields(header); len(f) > 0 {
			return f[0]
		}
		return ""
	}
	needle := key + "="
	for from := 0; from < len(header); {
		i := strings.Index(header[from:], needle)
		if i < 0 {
			return ""
		}
		i += from
		if i == 0 || strings.IndexByte("; \t|", header[i-1]) >= 0 {
			v := header[i+len(needle):]
			if j := strings.IndexByte(v, ';'); j >= 0 {
				v = v[:j]
			}
			return strings.TrimSpace(v)
		}
		from = i + len(needle)
	}
	return ""
}

// StructureLine is a parsed RNAfold structure line.
type StructureLine struct {
	Structure string  // leading dot-bracket run, energy removed
	MFE       float64 // free energy, when HasMFE
	HasMFE    bool

	// Valid is false when the structure token carries symbols outside the
	// dot-bracket alphabet ("((..))x", "((.[..].))").
	Valid bool
}

// ParseStructureLine splits an RNAfold structure line into the dot-bracket
// string and its free energy. Accepted energy forms: "(-12.30)", "( -1.20)",
// "[-3.5]", "{-3.0 d=1.2}" and a bare number, separated from the structure
// or attached to it ("((..))(-1.2)", "((..))( -1.2)").
func ParseStructureLine(line string) StructureLine {
	line = strings.TrimSpace(line)
	structure := dotbracket.Prefix(line)
	rest := line[len(structure):]
	if strings.HasSuffix(structure, "(") && enclosedNumber(rest) {
		// the energy's '(' was swallowed by the prefix
		structure = structure[:len(structure)-1]
		rest = "(" + rest
	}
	out := StructureLine{Structure: structure}

	// Anything glued to the structure other than an enclosed energy is part
	// of the structure token.
	token := structure
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' &&
		!(strings.ContainsRune("([{", rune(rest[0])) && enclosedNumber(rest[1:])) {
		token = strings.Fields(line)[0]
	}
	out.Valid = checks.IsValidDotBracketStructure(token)

	rest = strings.TrimLeft(strings.TrimSpace(rest), "([{")
	if i := strings.IndexAny(rest, ")]}"); i >= 0 {
		rest = rest[:i]
	}
	f := strings.Fields(rest)
	if len(f) == 0 {
		return out
	}
	if v, err := strconv.ParseFloat(f[0], 64); err == nil {
		out.MFE, out.HasMFE = v, true
	}
	return out
}

// enclosedNumber reports whether s looks like the inside of an energy
// bracket: optional blanks, a number, anything, then ')', ']' or '}'.
func enclosedNumber(s string) bool {
	end := strings.IndexAny(s, ")]}")
	if end < 0 {
		return false
	}
	f := strings.Fields(s[:end])
	if len(f) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(f[0], 64)
	return err == nil
}
