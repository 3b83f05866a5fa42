package simulation

import "errors"

var (
	// ErrInvalidInput is returned when a simulation input fails validation.
	ErrInvalidInput = errors.New("simulation: invalid input")
	// ErrCatalogUnavailable is returned when the catalog cannot be read.
	ErrCatalogUnavailable = errors.New("simulation: catalog unavailable")
	// ErrResultNotFound is returned when a provider is not among the results.
	ErrResultNotFound = errors.New("simulation: result not found")
)
