package vaccine

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create persists a new vaccine. Returns ErrVaccineAlreadyExists on a
	// duplicate name.
	Create(ctx context.Context, v *Vaccine) error

	// GetByID retrieves a vaccine by primary key. Returns ErrVaccineNotFound
	// if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Vaccine, error)

	// List returns all non-deleted vaccines ordered by name.
	List(ctx context.Context) ([]*Vaccine, error)

	// ListLowStock returns vaccines at or below their reorder threshold.
	ListLowStock(ctx context.Context) ([]*Vaccine, error)

	// ConsumeStock atomically decrements current_stock by qty and appends a
	// consume movement. The decrement is a single conditional write: it fails
	// with ErrInsufficientStock, leaving stock untouched, when fewer than qty
	// units remain. Two concurrent calls against one remaining unit must
	// yield exactly one success.
	ConsumeStock(ctx context.Context, id uuid.UUID, qty int, reason string, reference *uuid.UUID, recordedBy uuid.UUID) (*Vaccine, error)

	// AddStock increments current_stock by qty (restock) and appends a
	// restock movement.
	AddStock(ctx context.Context, id uuid.UUID, qty int, reason string, recordedBy uuid.UUID) (*Vaccine, error)

	// AdjustStock applies a signed correction, clamped at zero, and appends
	// an adjustment movement.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int, reason string, recordedBy uuid.UUID) (*Vaccine, error)

	// ListMovements returns the movement trail for one vaccine, newest first.
	ListMovements(ctx context.Context, vaccineID uuid.UUID, limit int) ([]*StockMovement, error)
}
