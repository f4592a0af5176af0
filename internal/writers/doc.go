// Package writers turns engine results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (TSV/CSV/JSON/JSONL).
//   - Engine stays domain-only; Pipeline stays orchestration-only.
//   - JSON/JSONL go through pkg/api (v1) for a stable wire format.
//   - A writer that fails keeps draining its input so producers never block.
package writers
