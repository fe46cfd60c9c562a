package store

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName        = errors.New("name is empty")
	ErrAlreadyExists    = errors.New("name already exists")
	ErrNameTooLong      = fmt.Errorf("name is longer than %d characters", MaxNameLen)
	ErrInvalidName      = errors.New("name contains characters that cannot be stored")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrNotFound         = errors.New("no such item")
)

// ValidationError reports a rejected name. The store is unchanged.
type ValidationError struct {
	Kind error
	Name string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Name == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%q: %s", e.Name, e.Kind.Error())
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// PersistenceError reports a failed file operation. Unless the operation
// says otherwise, the in-memory change it accompanies has been kept.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func invalid(kind error, name string) error {
	return &ValidationError{Kind: kind, Name: name}
}

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}
