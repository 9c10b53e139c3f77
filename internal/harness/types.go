package harness

import (
	"fmt"

	"github.com/roach88/dayscore/internal/ir"
)

// Kind selects which engine a suite exercises.
type Kind string

const (
	KindScoring     Kind = "scoring"
	KindCascade     Kind = "cascade"
	KindCorrelation Kind = "correlation"
)

// DefaultTolerance is the absolute tolerance for score comparisons.
const DefaultTolerance = 0.001

// Suite is one vector file.
type Suite struct {
	// Name identifies the suite in reports.
	Name string `yaml:"name"`

	// Description explains what the suite covers.
	Description string `yaml:"description"`

	Kind Kind `yaml:"kind"`

	// Tolerance overrides DefaultTolerance when positive.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Config overrides applied to every case, keyed by config field name.
	Config map[string]float64 `yaml:"config,omitempty"`

	Cases []Case `yaml:"cases"`
}

// Case is one vector. Which fields apply depends on the suite kind.
type Case struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description,omitempty"`
	Config      map[string]float64 `yaml:"config,omitempty"`

	// Scoring: exactly one of Entry and Input.
	Entry          *ir.Entry        `yaml:"entry,omitempty"`
	Input          *ir.ScoringInput `yaml:"input,omitempty"`
	PreviousStreak int              `yaml:"previous_streak,omitempty"`
	Expect         *ExpectedScores  `yaml:"expect,omitempty"`

	// Cascade.
	History []StoredDay       `yaml:"history,omitempty"`
	Edit    *EditedDay        `yaml:"edit,omitempty"`
	Updates *[]ExpectedUpdate `yaml:"updates,omitempty"`

	// Correlation. A null y marks an unscored day.
	X           []float64            `yaml:"x,omitempty"`
	Y           []*float64           `yaml:"y,omitempty"`
	Correlation *ExpectedCorrelation `yaml:"correlation,omitempty"`
}

// ExpectedScores lists the scoring outputs to check. Unset fields are not
// compared.
type ExpectedScores struct {
	PositiveScore *float64 `yaml:"positive_score,omitempty"`
	VicePenalty   *float64 `yaml:"vice_penalty,omitempty"`
	BaseScore     *float64 `yaml:"base_score,omitempty"`
	Streak        *int     `yaml:"streak,omitempty"`
	FinalScore    *float64 `yaml:"final_score,omitempty"`
}

// StoredDay is a history row reduced to what the cascade reads. A day with
// no base is stored but unscored.
type StoredDay struct {
	Date   ir.Date  `yaml:"date"`
	Base   *float64 `yaml:"base,omitempty"`
	Streak *int     `yaml:"streak,omitempty"`
	Final  *float64 `yaml:"final,omitempty"`
}

// EditedDay is the new base score saved for a day already in the history.
type EditedDay struct {
	Date ir.Date `yaml:"date"`
	Base float64 `yaml:"base"`
}

// ExpectedUpdate is one cascade update. BaseScore is only set for the edited
// day, which carries all five scores.
type ExpectedUpdate struct {
	Date       ir.Date  `yaml:"date"`
	Streak     int      `yaml:"streak"`
	FinalScore float64  `yaml:"final_score"`
	BaseScore  *float64 `yaml:"base_score,omitempty"`
}

// ExpectedCorrelation lists the correlation outputs to check.
type ExpectedCorrelation struct {
	R    *float64            `yaml:"r,omitempty"`
	N    *int                `yaml:"n,omitempty"`
	Flag *ir.CorrelationFlag `yaml:"flag,omitempty"`
}

// Result is the outcome of running one suite.
type Result struct {
	Suite string `json:"suite"`
	Path  string `json:"path,omitempty"`

	// Pass is true when every case matched its expectations.
	Pass bool `json:"pass"`

	// Errors holds one message per mismatch, prefixed with the case name.
	Errors []string `json:"errors,omitempty"`

	// Output is the canonical JSON snapshot of every computed output.
	Output []byte `json:"-"`

	// OutputHash is the content hash of Output, comparable across ports.
	OutputHash string `json:"output_hash,omitempty"`
}

// NewResult creates a passing result for the named suite.
func NewResult(suite string) *Result {
	return &Result{
		Suite:  suite,
		Pass:   true,
		Errors: []string{},
	}
}

// AddError records a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addMismatch records "case: field: expected X, got Y".
func (r *Result) addMismatch(caseName, field string, expected, actual any) {
	r.AddError(fmt.Sprintf("%s: %s: expected %v, got %v", caseName, field, expected, actual))
}
