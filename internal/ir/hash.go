package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainEntry   = "dayscore/entry/v1"
	DomainCatalog = "dayscore/catalog/v1"
	DomainOutput  = "dayscore/output/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// EntryObject renders an entry as an IRObject for canonical marshaling.
// Empty maps are omitted so {} and {values:{}} hash the same.
func EntryObject(e Entry) IRObject {
	obj := IRObject{}
	if len(e.Values) > 0 {
		values := make(IRObject, len(e.Values))
		for k, v := range e.Values {
			values[k] = IRFloat(v)
		}
		obj["values"] = values
	}
	if len(e.Labels) > 0 {
		labels := make(IRObject, len(e.Labels))
		for k, v := range e.Labels {
			labels[k] = IRString(v)
		}
		obj["labels"] = labels
	}
	return obj
}

// EntryHash computes the content hash of a raw entry for a given date.
// Two saves of the same form produce the same hash.
func EntryHash(date Date, e Entry) (string, error) {
	obj := IRObject{
		"date":  IRString(date.String()),
		"entry": EntryObject(e),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("EntryHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainEntry, canonical), nil
}

// CatalogHash computes the content hash of a habit catalog and config.
// Stored alongside each scored row so a later catalog change is detectable.
func CatalogHash(habits []HabitDefinition, cfg ScoringConfig) (string, error) {
	list := make(IRArray, 0, len(habits))
	for _, h := range habits {
		if !h.Active {
			continue
		}
		options := make(IRObject, len(h.Options))
		for k, v := range h.Options {
			options[k] = IRFloat(v)
		}
		list = append(list, IRObject{
			"name":         IRString(h.Name),
			"pool":         IRString(string(h.Pool)),
			"category":     IRString(string(h.Category)),
			"input_type":   IRString(string(h.InputType)),
			"points":       IRFloat(h.Points),
			"penalty":      IRFloat(h.Penalty),
			"penalty_mode": IRString(string(h.PenaltyMode)),
			"options":      options,
		})
	}
	obj := IRObject{
		"habits": list,
		"config": ConfigObject(cfg),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("CatalogHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainCatalog, canonical), nil
}

// OutputHash computes the content hash of an already-canonical snapshot.
func OutputHash(canonical []byte) string {
	return hashWithDomain(DomainOutput, canonical)
}

// ConfigObject renders a scoring config as an IRObject.
func ConfigObject(c ScoringConfig) IRObject {
	return IRObject{
		"multiplier_productivity": IRFloat(c.MultiplierProductivity),
		"multiplier_health":       IRFloat(c.MultiplierHealth),
		"multiplier_growth":       IRFloat(c.MultiplierGrowth),
		"target_fraction":         IRFloat(c.TargetFraction),
		"vice_cap":                IRFloat(c.ViceCap),
		"streak_threshold":        IRFloat(c.StreakThreshold),
		"streak_bonus_per_day":    IRFloat(c.StreakBonusPerDay),
		"max_streak_bonus":        IRFloat(c.MaxStreakBonus),
		"phone_t1_min":            IRFloat(c.PhoneT1Minutes),
		"phone_t2_min":            IRFloat(c.PhoneT2Minutes),
		"phone_t3_min":            IRFloat(c.PhoneT3Minutes),
		"phone_t1_penalty":        IRFloat(c.PhoneT1Penalty),
		"phone_t2_penalty":        IRFloat(c.PhoneT2Penalty),
		"phone_t3_penalty":        IRFloat(c.PhoneT3Penalty),
	}
}

// MustEntryHash is like EntryHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustEntryHash(date Date, e Entry) string {
	h, err := EntryHash(date, e)
	if err != nil {
		panic(err)
	}
	return h
}
