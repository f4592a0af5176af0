// internal/dotbracket/dotbracket.go
package dotbracket

// Dot-bracket symbols.
const (
	Open     byte = '('
	Close    byte = ')'
	Unpaired byte = '.'
)

// IsSymbol reports whether c belongs to the dot-bracket alphabet.
func IsSymbol(c byte) bool {
	return c == Open || c == Close || c == Unpaired
}

// Prefix returns the leading run of dot-bracket symbols in s.
func Prefix(s string) string {
	i := 0
	for i < len(s) && IsSymbol(s[i]) {
		i++
	}
	return s[:i]
}

// Count returns the number of open and close symbols in s.
func Count(s string) (opens, closes int) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case Open:
			opens++
		case Close:
			closes++
		}
	}
	return opens, closes
}

// IsNucleotide reports whether c is a nucleotide letter (ACGTUN, any case).
func IsNucleotide(c byte) bool {
	switch c {
	case 'A', 'C', 'G', 'T', 'U', 'N', 'a', 'c', 'g', 't', 'u', 'n':
		return true
	}
	return false
}
