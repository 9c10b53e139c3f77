package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dayscore/internal/ir"
)

// yamlHabit mirrors ir.HabitDefinition so that an omitted active field can
// default to true.
type yamlHabit struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	DisplayName string             `yaml:"display_name"`
	Pool        ir.Pool            `yaml:"pool"`
	Category    ir.Category        `yaml:"category"`
	InputType   ir.InputType       `yaml:"input_type"`
	Points      float64            `yaml:"points"`
	Penalty     float64            `yaml:"penalty"`
	PenaltyMode ir.PenaltyMode     `yaml:"penalty_mode"`
	Options     map[string]float64 `yaml:"options"`
	SortOrder   int                `yaml:"sort_order"`
	Active      *bool              `yaml:"active"`
	RetiredAt   *time.Time         `yaml:"retired_at"`
}

type yamlDocument struct {
	Habits []yamlHabit       `yaml:"habits"`
	Config *ir.ScoringConfig `yaml:"config"`
}

// LoadYAML reads a YAML catalog file.
func LoadYAML(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading catalog: %v", err)}
	}
	return DecodeYAML(bytes.NewReader(data))
}

// DecodeYAML decodes and validates a YAML catalog. Unknown fields are errors;
// config fields that are left out keep their default values.
func DecodeYAML(r io.Reader) (*Document, error) {
	cfg := DefaultConfig()
	raw := yamlDocument{Config: &cfg}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeDecodeField, Message: err.Error()}
	}

	doc := &Document{Habits: make([]ir.HabitDefinition, 0, len(raw.Habits)), Config: DefaultConfig()}
	if raw.Config != nil {
		doc.Config = *raw.Config
	}
	for _, h := range raw.Habits {
		def := ir.HabitDefinition{
			ID:          h.ID,
			Name:        h.Name,
			DisplayName: h.DisplayName,
			Pool:        h.Pool,
			Category:    h.Category,
			InputType:   h.InputType,
			Points:      h.Points,
			Penalty:     h.Penalty,
			PenaltyMode: h.PenaltyMode,
			Options:     h.Options,
			SortOrder:   h.SortOrder,
			Active:      h.Active == nil || *h.Active,
			RetiredAt:   h.RetiredAt,
		}
		doc.Habits = append(doc.Habits, def)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// EncodeYAML writes doc in the form DecodeYAML reads.
func EncodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}
