package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/dayscore/internal/ir"
)

// AssignIDs gives every habit without an ID a fresh UUIDv7. Existing IDs are
// kept, so re-importing an exported catalog preserves identity.
func AssignIDs(habits []ir.HabitDefinition) error {
	for i := range habits {
		if habits[i].ID != "" {
			continue
		}
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("assign id to %s: %w", habits[i].Name, err)
		}
		habits[i].ID = id.String()
	}
	return nil
}
