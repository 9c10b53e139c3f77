package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
)

// LoadSuite reads and parses a suite YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields, or fails Validate.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes and validates a suite document.
func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&suite); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := suite.Validate(); err != nil {
		return nil, fmt.Errorf("invalid suite: %w", err)
	}
	return &suite, nil
}

// Validate checks the suite shape: required fields, one input form per
// scoring case, an edit present in the history for cascade cases, and
// equal-length series for correlation cases.
func (s *Suite) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}
	if _, err := resolveConfig(s.Config); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	seen := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if seen[c.Name] {
			return fmt.Errorf("cases[%d]: duplicate name %q", i, c.Name)
		}
		seen[c.Name] = true

		if _, err := resolveConfig(s.Config, c.Config); err != nil {
			return fmt.Errorf("cases[%d].config: %w", i, err)
		}

		var err error
		switch s.Kind {
		case KindScoring:
			err = validateScoringCase(c)
		case KindCascade:
			err = validateCascadeCase(c)
		case KindCorrelation:
			err = validateCorrelationCase(c)
		default:
			return fmt.Errorf("unknown kind %q (want scoring, cascade or correlation)", s.Kind)
		}
		if err != nil {
			return fmt.Errorf("cases[%d] %s: %w", i, c.Name, err)
		}
	}
	return nil
}

func validateScoringCase(c *Case) error {
	if (c.Entry == nil) == (c.Input == nil) {
		return fmt.Errorf("exactly one of entry and input is required")
	}
	if c.Expect == nil {
		return fmt.Errorf("expect is required")
	}
	return nil
}

func validateCascadeCase(c *Case) error {
	if c.Edit == nil {
		return fmt.Errorf("edit is required")
	}
	if c.Updates == nil {
		return fmt.Errorf("updates is required (use [] for no updates)")
	}

	dates := make(map[ir.Date]bool, len(c.History))
	for j, day := range c.History {
		if day.Date.IsZero() {
			return fmt.Errorf("history[%d]: date is required", j)
		}
		if dates[day.Date] {
			return fmt.Errorf("history[%d]: duplicate date %s", j, day.Date)
		}
		dates[day.Date] = true

		scored := day.Base != nil
		if scored != (day.Streak != nil) || scored != (day.Final != nil) {
			return fmt.Errorf("history[%d]: base, streak and final must be set together", j)
		}
	}
	if !dates[c.Edit.Date] {
		return fmt.Errorf("edit date %s is not in history", c.Edit.Date)
	}
	return nil
}

func validateCorrelationCase(c *Case) error {
	if len(c.X) != len(c.Y) {
		return fmt.Errorf("x has %d values but y has %d", len(c.X), len(c.Y))
	}
	if c.Correlation == nil {
		return fmt.Errorf("correlation is required")
	}
	return nil
}

// tolerance returns the suite tolerance or DefaultTolerance.
func (s *Suite) tolerance() float64 {
	if s.Tolerance > 0 {
		return s.Tolerance
	}
	return DefaultTolerance
}

// resolveConfig applies override layers, in order, on top of the default
// config. Keys are the config's YAML field names; unknown keys are rejected.
func resolveConfig(layers ...map[string]float64) (ir.ScoringConfig, error) {
	cfg := catalog.DefaultConfig()
	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		data, err := yaml.Marshal(layer)
		if err != nil {
			return ir.ScoringConfig{}, err
		}
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return ir.ScoringConfig{}, err
		}
	}
	return cfg, nil
}
