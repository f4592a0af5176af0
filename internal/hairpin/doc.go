// Package hairpin finds stem-loop candidates in dot-bracket structures.
//
// A Scanner splits a structure into greedy candidate spans; a Validator checks
// each one (loop size, bulge trimming, bracket rebalancing, acceptance test).
// The package is domain-only: it never imports rnafold, writers, cli or app.
package hairpin
