// Package service implements the business logic of the PalmLink reference
// server, delegating persistence to repository interfaces.
package service

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials is returned when login fails, without revealing
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an already-known email or
	// palm.
	ErrEmailTaken = errors.New("email already registered")
	// ErrNoContacts is returned when an account has no contact entries yet.
	ErrNoContacts = errors.New("no contact information found")
	// ErrNotFound is returned when a referenced entity does not exist or is
	// not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrNotRecognized is returned when a palm image matches no enrolled
	// account.
	ErrNotRecognized = errors.New("palm not recognized")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field string
	Msg   string
}

// ValidationError aggregates all invalid fields of one request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func fieldErr(field, msg string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Msg: msg}}}
}
