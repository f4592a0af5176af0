// internal/runutil/runutil.go
package runutil

import "runtime"

// EffectiveThreads resolves the --threads value: 0 (or less) means one
// worker per CPU.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}

// WriterBufSize sizes the writer channel so workers rarely block on output.
func WriterBufSize(threads int) int {
	if threads < 1 {
		threads = 1
	}
	return threads * 4
}
