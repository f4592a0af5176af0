// Package pipeline streams rnafold records through a Processor and calls a
// visit callback once per transcript, in input order.
//
// The only contract to implement is Processor (Process).
// This keeps the pipeline swappable and testable.
package pipeline
