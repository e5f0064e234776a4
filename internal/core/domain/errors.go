package domain

import (
	"errors"
	"fmt"
)

// Common domain errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Store errors
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNoRowsAffected   = errors.New("no rows affected")
	ErrNoGeneratedID    = errors.New("no generated identifier")
)

// Catalog errors
var (
	ErrBookNotFound   = fmt.Errorf("book: %w", ErrNotFound)
	ErrMemberNotFound = fmt.Errorf("member: %w", ErrNotFound)
)

// Lending errors
var (
	ErrLoanNotFound        = fmt.Errorf("loan: %w", ErrNotFound)
	ErrBookNotAvailable    = errors.New("book is not available")
	ErrLoanAlreadyReturned = errors.New("loan already returned")
)

// PersistenceError reports a statement that executed but violated an expectation,
// e.g. an insert that affected no rows or produced no identifier.
type PersistenceError struct {
	Op     string
	Entity string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// StoreUnavailableError reports that no connection to the store could be obtained.
type StoreUnavailableError struct {
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable: %v", e.Err)
}

func (e *StoreUnavailableError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// Removal errors
var (
	ErrBookHasLoans   = errors.New("book still has loans")
	ErrMemberHasLoans = errors.New("member still has loans")
)
