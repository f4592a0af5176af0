// internal/output/json.go
package output

import (
	"encoding/json"
	"io"

	"hairpinscan/internal/engine"
	"hairpinscan/pkg/api"
)

// ToAPIRecord converts a domain Result to the stable wire schema (v1).
// MFE is attached only when opt.MFE is set.
func ToAPIRecord(r engine.Result, opt Options) api.RecordV1 {
	v := api.RecordV1{
		GeneID:     r.ID,
		Hairpin:    string(r.Verdict),
		Structure:  r.Structure,
		Candidate:  r.Candidate,
		Start:      shift(r.Start, opt.OneBased),
		End:        shift(r.End, opt.OneBased),
		RNA:        r.Seq,
		Reason:     string(r.Reason),
		SourceFile: r.SourceFile,
	}
	if opt.MFE {
		v.MFE = r.MFE
	}
	return v
}

func shift(p *int, oneBased bool) *int {
	if p == nil || !oneBased {
		return p
	}
	v := *p + 1
	return &v
}

func toAPIRecords(list []engine.Result, opt Options) []api.RecordV1 {
	out := make([]api.RecordV1, 0, len(list))
	for _, r := range list {
		out = append(out, ToAPIRecord(r, opt))
	}
	return out
}

// WriteJSON writes a single JSON array of v1 records (pretty-indented).
func WriteJSON(w io.Writer, list []engine.Result, opt Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toAPIRecords(list, opt))
}
