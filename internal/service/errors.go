package service

import (
	"errors"
	"fmt"

	"pm-go/internal/utils"

	"gorm.io/gorm"
)

// ValidationError missing or malformed input (400)
type ValidationError struct {
	Message    string
	Violations []utils.Violation
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Validation failed"
}

// NotFoundError id does not resolve to a row (404). ID is set when the
// id came from a reference in the payload or a parent path segment.
type NotFoundError struct {
	Entity  string
	ID      uint
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ID == 0 {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

// ConflictError uniqueness violation or duplicate membership (409)
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// AuthenticationError missing session or bad credentials (401)
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ReferentialGuardError delete refused while dependents exist (400)
type ReferentialGuardError struct {
	Message string
}

func (e *ReferentialGuardError) Error() string { return e.Message }

// PersistenceError unexpected store failure (500)
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func invalid(violations ...utils.Violation) error {
	return &ValidationError{Violations: violations}
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func missingRef(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// storeError converts a gorm failure into the taxonomy. A unique index
// tripped by a racing writer becomes a ConflictError with conflictMsg.
func storeError(op string, err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		nf *NotFoundError
		ce *ConflictError
		rg *ReferentialGuardError
		pe *PersistenceError
	)
	if errors.As(err, &ve) || errors.As(err, &nf) || errors.As(err, &ce) ||
		errors.As(err, &rg) || errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) && conflictMsg != "" {
		return &ConflictError{Message: conflictMsg}
	}
	return &PersistenceError{Op: op, Err: err}
}

// lookupError maps gorm.ErrRecordNotFound to a NotFoundError for entity
func lookupError(op, entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity)
	}
	return storeError(op, err, "")
}

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
