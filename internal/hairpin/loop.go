package hairpin

import "hairpinscan/internal/dotbracket"

// Loop is the unpaired apex of a candidate: candidate[Start:End] is the run of
// unpaired symbols, candidate[Start-1] is its '(' and candidate[End] its ')'.
type Loop struct {
	Start, End int
}

// Len is the number of unpaired symbols in the loop.
func (l Loop) Len() int { return l.End - l.Start }

// FindLoop returns the leftmost "(" + one-or-more "." + ")" in s.
func FindLoop(s string) (Loop, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != dotbracket.Open {
			continue
		}
		j := i + 1
		for j < len(s) && s[j] == dotbracket.Unpaired {
			j++
		}
		if j > i+1 && j < len(s) && s[j] == dotbracket.Close {
			return Loop{Start: i + 1, End: j}, true
		}
		if j > i+1 {
			// s[i+1:j] are dots; the next '(' cannot start before j.
			i = j - 1
		}
	}
	return Loop{}, false
}

// upstreamBulge looks for the oversized bulge nearest the loop in up, the part
// of the candidate before the loop's unpaired run (it ends with the loop's '(').
// Walking right to left, it returns the index of the first '(' that closes a
// run of at least minRun dots which is itself opened by a '('. Everything
// before that index is the part to discard.
func upstreamBulge(up string, minRun int) (int, bool) {
	for p := len(up) - 1; p > 0; p-- {
		if up[p] != dotbracket.Open {
			continue
		}
		q := p - 1
		for q >= 0 && up[q] == dotbracket.Unpaired {
			q--
		}
		if p-1-q >= minRun && q >= 0 && up[q] == dotbracket.Open {
			return p, true
		}
		if q < p-1 {
			p = q + 1
		}
	}
	return 0, false
}

// downstreamBulge is the mirror of upstreamBulge for down, the part of the
// candidate from the loop's ')' onwards. It returns the index of the first ')'
// (left to right) that is followed by a run of at least minRun dots and then
// another ')'. Everything after that index is the part to discard.
func downstreamBulge(down string, minRun int) (int, bool) {
	for i := 0; i < len(down); i++ {
		if down[i] != dotbracket.Close {
			continue
		}
		j := i + 1
		for j < len(down) && down[j] == dotbracket.Unpaired {
			j++
		}
		if j-i-1 >= minRun && j < len(down) && down[j] == dotbracket.Close {
			return i, true
		}
		if j > i+1 {
			i = j - 1
		}
	}
	return 0, false
}

// TrimBulges cuts the candidate at the oversized bulge nearest the loop on each
// side. A bulge is a run of bulgeMax+1 or more dots between two '(' upstream of
// the loop or between two ')' downstream of it. At most one cut is made per
// side. It returns the trimmed candidate and the loop's position within it.
func TrimBulges(candidate string, loop Loop, bulgeMax int) (string, Loop) {
	minRun := bulgeMax + 1
	up, hasUp := upstreamBulge(candidate[:loop.Start], minRun)
	down, hasDown := downstreamBulge(candidate[loop.End:], minRun)

	if hasUp {
		candidate = candidate[up:]
		shifted := Loop{Start: loop.Start - up, End: loop.End - up}
		if l, ok := FindLoop(candidate); ok {
			loop = l
		} else {
			loop = shifted
		}
	}
	if hasDown {
		candidate = candidate[:loop.End+down+1]
	}
	return candidate, loop
}
