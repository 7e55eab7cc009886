package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// All of them are recoverable: the caller re-fetches state and retries.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed numeric text on load.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter indicates illegal search or load bounds.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAlreadyFinalized indicates an entry is already part of a group.
	ErrAlreadyFinalized = errors.New("already finalized")

	// ErrStaleSelection indicates a selection was computed against an
	// older pool state. The caller must re-run the search.
	ErrStaleSelection = errors.New("stale selection")

	// ErrSessionBusy indicates a search or finalize is already running.
	ErrSessionBusy = errors.New("session busy")

	// ErrSessionHasGroups indicates a reload was attempted after groups
	// were finalized without starting a new session.
	ErrSessionHasGroups = errors.New("session has finalized groups")
)

// InvalidInputError describes a value that could not be parsed on load.
type InvalidInputError struct {
	// Position is the index of the value in the input sequence.
	Position int

	// Text is the offending raw text.
	Text string

	// Source is where the value came from.
	Source Provenance

	// Err is the underlying parse failure, if any.
	Err error
}

func (e *InvalidInputError) Error() string {
	where := fmt.Sprintf("value %d", e.Position+1)
	if e.Source.Row > 0 {
		where = "row " + e.Source.Cell()
	}
	if errors.Is(e.Err, ErrPoolOutOfRange) {
		return fmt.Sprintf("invalid input: %s: %q takes the pool total out of range", where, e.Text)
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %q is not a valid number: %v", where, e.Text, e.Err)
	}
	return fmt.Sprintf("invalid input: %s: %q is not a valid number", where, e.Text)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// ParameterError describes an illegal search or load parameter.
type ParameterError struct {
	Field  string
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter: %s %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidParameter.
func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

// SelectionError reports entries that can no longer be acted on.
type SelectionError struct {
	// Kind is ErrStaleSelection or ErrAlreadyFinalized.
	Kind error

	// IDs are the offending entry ids.
	IDs []EntryID
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("%v: entries %v are no longer available", e.Kind, e.IDs)
}

// Unwrap returns the sentinel kind.
func (e *SelectionError) Unwrap() error {
	return e.Kind
}
