package child

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the read-only view this service holds over child records.
// Writes happen in the patient-management subsystem.
type Repository interface {
	// GetByID retrieves a child by primary key. Returns ErrChildNotFound if
	// not found.
	GetByID(ctx context.Context, id uuid.UUID) (*Child, error)
}
