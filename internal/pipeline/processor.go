// internal/pipeline/processor.go
package pipeline

import (
	"hairpinscan/internal/engine"
	"hairpinscan/internal/rnafold"
)

// Processor is the minimal capability the pipeline needs.
// Any engine (including fakes in tests) can satisfy this.
// Process must be safe for concurrent use when Threads > 1.
type Processor interface {
	Process(rec rnafold.Record) engine.Result
}
