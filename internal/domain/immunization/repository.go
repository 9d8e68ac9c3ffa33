package immunization

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new scheduled dose.
	Create(ctx context.Context, d *ScheduledDose) error

	// GetByID retrieves a dose by primary key. Returns ErrDoseNotFound if not
	// found.
	GetByID(ctx context.Context, id uuid.UUID) (*ScheduledDose, error)

	// UpdateStatus persists the lifecycle fields of a transitioned dose.
	// Missed and done rows are otherwise append-only.
	UpdateStatus(ctx context.Context, d *ScheduledDose) error

	// ListDoneByChild returns every dose with status done for a child. The
	// completion tracker recomputes its per-vaccine sets from this on every
	// eligibility read.
	ListDoneByChild(ctx context.Context, childID uuid.UUID) ([]*ScheduledDose, error)

	// List returns a paginated, filtered dose history.
	List(ctx context.Context, q *ListDosesQuery) (*PagedDoses, error)
}
