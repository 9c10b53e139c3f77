// Package scoring turns one day's resolved habit values into five scores.
//
// ComputeScores is a pure, total function: it never returns an error and
// never reads anything but its input. Every sum is folded over slices in
// input order and every product is rounded explicitly, so two runs over the
// same input (or a second implementation following the same steps) produce
// bit-identical output. The cascade's convergence check relies on that.
//
// The float64(a*b) conversions are that explicit rounding: they keep the
// compiler from fusing a product and a sum into one FMA instruction.
package scoring
