// Package ir provides the shared domain types for dayscore.
//
// This package contains type definitions and small value helpers only. All
// other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Closed string enums (Pool, Category, InputType, PenaltyMode) with Valid()
//   - Score fields on stored rows are pointers; nil means "never scored"
//   - Calendar dates use Date, never time.Time with a zone
//   - All JSON and YAML tags use snake_case
package ir
