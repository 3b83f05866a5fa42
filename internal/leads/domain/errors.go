package leads

import "errors"

var (
	// ErrEmptyName is returned when a lead has no name.
	ErrEmptyName = errors.New("lead: empty name")
	// ErrMissingContact is returned when neither email nor phone is given.
	ErrMissingContact = errors.New("lead: email or phone required")
	// ErrInvalidEmail is returned for malformed email addresses.
	ErrInvalidEmail = errors.New("lead: invalid email")
	// ErrNotFound is returned when a lead does not exist.
	ErrNotFound = errors.New("lead: not found")
)
