// Package engine is the command layer between the CLI and the store.
//
// It owns the rules the pure packages do not know about: which catalog
// snapshot an edit is scored with, that a log date may not lie in the
// future, and that a raw entry only names active habits. Every write goes
// through store.ApplyEdit or store.Recompute, so the cascade is always
// applied inside the same transaction as the edit that caused it.
//
// Reads for analytics load the requested window once and hand it to the
// pure functions in internal/analytics.
//
// Logging uses log/slog with key/value pairs; each save carries an edit ID
// so its log lines can be correlated.
package engine
