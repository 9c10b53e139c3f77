package ir

// Pool separates habits that add to the score from habits that subtract.
type Pool string

const (
	PoolGood Pool = "good"
	PoolVice Pool = "vice"
)

// Valid reports whether p is a known pool.
func (p Pool) Valid() bool {
	switch p {
	case PoolGood, PoolVice:
		return true
	}
	return false
}

// Category groups good habits under one multiplier.
// Vice habits carry CategoryNone.
type Category string

const (
	CategoryNone         Category = ""
	CategoryProductivity Category = "productivity"
	CategoryHealth       Category = "health"
	CategoryGrowth       Category = "growth"
)

// Valid reports whether c is a known good-habit category.
// CategoryNone is not valid here; callers check it against the pool.
func (c Category) Valid() bool {
	switch c {
	case CategoryProductivity, CategoryHealth, CategoryGrowth:
		return true
	}
	return false
}

// InputType is how a habit is entered on the daily form.
type InputType string

const (
	InputCheckbox InputType = "checkbox"
	InputDropdown InputType = "dropdown"
	InputNumber   InputType = "number"
)

// Valid reports whether t is a known input type.
func (t InputType) Valid() bool {
	switch t {
	case InputCheckbox, InputDropdown, InputNumber:
		return true
	}
	return false
}

// PenaltyMode selects how a vice contributes to the raw penalty sum.
type PenaltyMode string

const (
	// PenaltyFlat applies the penalty once when triggered.
	PenaltyFlat PenaltyMode = "flat"

	// PenaltyPerInstance applies the penalty once per counted instance.
	PenaltyPerInstance PenaltyMode = "per_instance"

	// PenaltyTiered derives the penalty from phone minutes and config tiers.
	PenaltyTiered PenaltyMode = "tiered"
)

// Valid reports whether m is a known penalty mode.
func (m PenaltyMode) Valid() bool {
	switch m {
	case PenaltyFlat, PenaltyPerInstance, PenaltyTiered:
		return true
	}
	return false
}

// CorrelationFlag explains why a correlation has no meaningful r.
type CorrelationFlag string

const (
	FlagNone             CorrelationFlag = ""
	FlagInsufficientData CorrelationFlag = "insufficient_data"
	FlagZeroVariance     CorrelationFlag = "zero_variance"
)
