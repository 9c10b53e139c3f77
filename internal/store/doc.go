// Package store provides SQLite-backed durable storage for the habit
// catalog, the scoring config and the daily log.
//
// Tables:
//   - habits: the catalog; retired habits keep their row with active = 0
//   - app_config: the singleton scoring config (id 'default')
//   - daily_log: one row per calendar date with the raw entry and the five
//     persisted scores
//
// # Edits
//
// ApplyEdit and Recompute read the full history and write every resulting
// score update inside one IMMEDIATE transaction, so an edit and its cascade
// are committed together or not at all. A process-wide mutex plus SQLite's
// write lock serialize concurrent edits.
//
// Raw entries are stored as RFC 8785 canonical JSON alongside an entry hash
// computed by internal/ir, so re-saving an identical form writes identical
// bytes.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - _txlock=immediate: Every transaction takes the write lock up front
package store
