package immunization

import "errors"

var (
	ErrDoseNotFound       = errors.New("scheduled dose not found")
	ErrInvalidTransition  = errors.New("invalid dose status transition")
	ErrInvalidDose        = errors.New("dose label is not owed for this child and vaccine")
	ErrMissReasonRequired = errors.New("a reason is required to mark a dose missed")
	ErrNotMissed          = errors.New("only missed doses can be rescheduled")
	ErrScheduleDateZero   = errors.New("schedule date is required")
)
