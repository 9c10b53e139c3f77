package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/dayscore/internal/ir"
)

// timeLayout is the on-disk form of every timestamp column.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// marshalEntry converts a raw entry to canonical JSON TEXT for storage.
func marshalEntry(e ir.Entry) (string, error) {
	data, err := ir.MarshalCanonical(ir.EntryObject(e))
	if err != nil {
		return "", fmt.Errorf("marshal entry: %w", err)
	}
	return string(data), nil
}

// unmarshalEntry parses stored entry JSON. Missing maps come back empty.
func unmarshalEntry(data string) (ir.Entry, error) {
	e := ir.Entry{}
	if data != "" && data != "{}" {
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return ir.Entry{}, fmt.Errorf("unmarshal entry: %w", err)
		}
	}
	if e.Values == nil {
		e.Values = map[string]float64{}
	}
	if e.Labels == nil {
		e.Labels = map[string]string{}
	}
	return e, nil
}

// marshalOptions converts dropdown options to canonical JSON TEXT.
func marshalOptions(opts map[string]float64) (string, error) {
	if opts == nil {
		return "{}", nil
	}
	data, err := ir.MarshalCanonical(opts)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(data), nil
}

func unmarshalOptions(data string) (map[string]float64, error) {
	if data == "" || data == "{}" {
		return nil, nil
	}
	var opts map[string]float64
	if err := json.Unmarshal([]byte(data), &opts); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return opts, nil
}

// marshalConfig converts a scoring config to canonical JSON TEXT.
func marshalConfig(cfg ir.ScoringConfig) (string, error) {
	data, err := ir.MarshalCanonical(ir.ConfigObject(cfg))
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

func unmarshalConfig(data string) (ir.ScoringConfig, error) {
	var cfg ir.ScoringConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return ir.ScoringConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	return ir.Float(n.Float64)
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	return ir.Int(int(n.Int64))
}
