package ir

import (
	"slices"
	"unicode/utf16"
)

// IRValue is a sealed interface over the value shapes that can be written
// as canonical JSON: IRNull, IRString, IRInt, IRFloat, IRBool, IRArray, IRObject.
type IRValue interface {
	irValue()
}

// IRNull represents a JSON null. Nullable score fields render as IRNull.
type IRNull struct{}

func (IRNull) irValue() {}

// IRString represents a string value.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value (streaks, counts).
type IRInt int64

func (IRInt) irValue() {}

// IRFloat represents a finite float value (scores, raw entries).
// NaN and ±Inf are rejected at marshal time.
type IRFloat float64

func (IRFloat) irValue() {}

// IRBool represents a boolean value.
type IRBool bool

func (IRBool) irValue() {}

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to IRValue elements.
// Use SortedKeys() for deterministic iteration.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// OptionalFloat renders a nullable score: nil becomes IRNull.
func OptionalFloat(v *float64) IRValue {
	if v == nil {
		return IRNull{}
	}
	return IRFloat(*v)
}

// OptionalInt renders a nullable streak: nil becomes IRNull.
func OptionalInt(v *int) IRValue {
	if v == nil {
		return IRNull{}
	}
	return IRInt(*v)
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's default string ordering is UTF-8 and differs for astral characters.
func (obj IRObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
