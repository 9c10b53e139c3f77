// Package analytics computes read-only statistics over stored daily logs.
//
// Nothing here writes to the store or calls the scoring engine: every
// function works from the persisted final scores and raw entries of the rows
// it is given. Rows may arrive in any order; results are deterministic for a
// given set of rows. Products inside the correlation sums are wrapped in
// float64 conversions so they are never fused into FMA instructions.
package analytics
