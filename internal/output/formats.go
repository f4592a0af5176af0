package output

import (
	"path/filepath"
	"strings"
)

// Output formats.
const (
	FormatTSV   = "tsv"
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
	FormatJSON  = "json"
)

// InferFormat picks a format from an output path extension (.gz ignored).
// Anything unrecognized, stdout included, is tsv.
func InferFormat(path string) string {
	p := strings.TrimSuffix(strings.ToLower(path), ".gz")
	switch filepath.Ext(p) {
	case ".csv":
		return FormatCSV
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".json":
		return FormatJSON
	}
	return FormatTSV
}
