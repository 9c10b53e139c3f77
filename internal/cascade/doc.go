// Package cascade keeps stored streaks consistent after a past day is edited.
//
// Compute rescores the edited day in full, then walks forward one stored day
// at a time, recomputing only streak and final score from each day's stored
// base score. The walk halts on the first of:
//
//   - a day that has never been scored (stored base score is nil)
//   - a day whose recomputed streak and final score equal what is stored
//
// A gap in the dates does not halt the walk; it resets the carried streak to
// zero for the day after the gap.
//
// The walk is a fold over (carry, previous date, updates). The input history
// is never mutated, so the convergence check always compares against the
// values that were actually stored.
package cascade
