// Package engine turns one rnafold.Record into one output Result: it applies
// the prefix limit, runs the hairpin scan and maps the winning span back onto
// the nucleotide sequence. It never imports app, writers, cli, or pipeline;
// keep it domain-only.
//
// External outputs must not depend on the internal shape here; use pkg/api
// for stable wire types (JSON/JSONL v1).
package engine
