package config

import (
	"errors"
	"fmt"
)

var (
	ErrConfigMissing           = errors.New("config missing")
	ErrConfigMalformed         = errors.New("config malformed")
	ErrConfigIncomplete        = errors.New("config incomplete")
	ErrMissingCredentialHelper = errors.New("missing credential helper")
)

// Error is a config failure carrying the diagnostic shown to the user.
// errors.Is matches it against its Kind.
type Error struct {
	Kind    error
	Message string
	Field   string // set for ErrConfigIncomplete
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func missing(file string) error {
	return &Error{Kind: ErrConfigMissing, Message: fmt.Sprintf("Missing %s", file)}
}

func malformed(file string, detail error) error {
	return &Error{Kind: ErrConfigMalformed, Message: fmt.Sprintf("Invalid %s: %v", file, detail)}
}

func incomplete(file, field string) error {
	return &Error{
		Kind:    ErrConfigIncomplete,
		Message: fmt.Sprintf("Missing %s in %s", field, file),
		Field:   field,
	}
}

func noHelper() error {
	return &Error{
		Kind:    ErrMissingCredentialHelper,
		Message: fmt.Sprintf("Please install %s to connect using a password", CredentialHelper),
	}
}
