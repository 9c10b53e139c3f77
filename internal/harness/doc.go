// Package harness runs cross-validation vector suites against the scoring,
// cascade and correlation engines.
//
// A suite is one YAML file holding cases of a single kind. Every case states
// its inputs and the outputs it expects; numbers are compared within the
// suite tolerance. Running a suite also renders a canonical JSON snapshot of
// every computed output, which golden files pin byte for byte.
//
// # Suite Format
//
//	name: scoring
//	description: "Daily scoring reference vectors"
//	kind: scoring
//	tolerance: 0.001
//	config: { vice_cap: 0.4 }
//	cases:
//	  - name: perfect_day
//	    previous_streak: -1
//	    entry:
//	      values: { schoolwork: 1, gym: 1 }
//	      labels: { meal_quality: Great }
//	    expect: { positive_score: 1, streak: 0, final_score: 1 }
//
// Scoring cases supply either an entry, resolved against the default
// catalog, or a raw scoring input. Cascade cases supply a stored history of
// base scores and one edit. Correlation cases supply paired x and y series.
//
// Config overrides apply on top of the default config, suite first and then
// case.
package harness
