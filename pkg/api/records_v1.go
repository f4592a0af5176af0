// pkg/api/records_v1.go
package api

// RecordV1 is the stable JSON/JSONL schema for one scanned transcript.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
// Nil pointers mean the value does not exist and are omitted.
type RecordV1 struct {
	GeneID     string   `json:"gene_id"`
	Hairpin    string   `json:"hairpin"` // "Y" | "N"
	Structure  string   `json:"trimmed_structure"`
	Candidate  *string  `json:"candidate,omitempty"`
	Start      *int     `json:"start,omitempty"`
	End        *int     `json:"end,omitempty"`
	RNA        *string  `json:"rna,omitempty"`
	MFE        *float64 `json:"mfe,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	SourceFile string   `json:"source_file,omitempty"`
}
