// internal/output/rows.go
package output

import (
	"strconv"

	"hairpinscan/internal/engine"
)

// Column names. Keep this as the single source of truth; all writers use it.
// "Trimmed Str" is the prefix-limited structure without the scan sentinel
// '('. A rejected row whose scan ran out reports StartPos at the sentinel,
// one past the structure.
var baseColumns = []string{
	"GeneID",
	"Hairpin",
	"Trimmed Str",
	"Candidate Hairpin Str",
	"StartPos",
	"EndPos",
	"RNA",
}

// ColumnMFE is appended when Options.MFE is set.
const ColumnMFE = "MFE"

// Options controls row and record rendering.
type Options struct {
	Header   bool // delimited formats only
	OneBased bool // shift StartPos/EndPos by one
	MFE      bool // add the MFE column
}

// Columns returns the header row for opt.
func Columns(opt Options) []string {
	cols := append([]string(nil), baseColumns...)
	if opt.MFE {
		cols = append(cols, ColumnMFE)
	}
	return cols
}

// Row renders r as one delimited row; nil values become empty cells.
func Row(r engine.Result, opt Options) []string {
	row := make([]string, 0, len(baseColumns)+1)
	row = append(row,
		r.ID,
		string(r.Verdict),
		r.Structure,
		str(r.Candidate),
		pos(r.Start, opt.OneBased),
		pos(r.End, opt.OneBased),
		str(r.Seq),
	)
	if opt.MFE {
		mfe := ""
		if r.MFE != nil {
			mfe = strconv.FormatFloat(*r.MFE, 'f', 2, 64)
		}
		row = append(row, mfe)
	}
	return row
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func pos(p *int, oneBased bool) string {
	if p == nil {
		return ""
	}
	v := *p
	if oneBased {
		v++
	}
	return strconv.Itoa(v)
}
