package vaccine

import "errors"

var (
	ErrVaccineNotFound      = errors.New("vaccine not found")
	ErrVaccineAlreadyExists = errors.New("vaccine with this name already exists")
	ErrInsufficientStock    = errors.New("insufficient vaccine stock")
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrInvalidCategory      = errors.New("invalid vaccine category")
)
